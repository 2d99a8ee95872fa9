package agent

import (
	"testing"

	"github.com/google/uuid"
)

func TestThreadKey_Deterministic(t *testing.T) {
	t.Parallel()
	first := ThreadKey("whatsapp:+1555")
	second := ThreadKey("whatsapp:+1555")
	if first != second {
		t.Fatalf("ThreadKey not deterministic: %q != %q", first, second)
	}
}

func TestThreadKey_DistinctSenders(t *testing.T) {
	t.Parallel()
	senders := []string{"whatsapp:+1555", "whatsapp:+1556", "whatsapp:+4479", ""}
	seen := map[string]string{}
	for _, sender := range senders {
		key := ThreadKey(sender)
		if prev, ok := seen[key]; ok {
			t.Fatalf("ThreadKey collision: %q and %q both map to %s", prev, sender, key)
		}
		seen[key] = sender
	}
}

func TestThreadKey_IsNameBasedUUID(t *testing.T) {
	t.Parallel()
	key := ThreadKey("whatsapp:+1555")
	parsed, err := uuid.Parse(key)
	if err != nil {
		t.Fatalf("ThreadKey is not a UUID: %v", err)
	}
	if parsed.Version() != 5 {
		t.Fatalf("ThreadKey version = %d, want 5", parsed.Version())
	}
}
