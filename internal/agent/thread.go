package agent

import "github.com/google/uuid"

// ThreadKey derives the conversation identifier for a sender. It is a
// version-5 (name-based) UUID in the DNS namespace, so the same sender maps
// to the same thread across restarts and redeploys, and distinct senders
// never collide. The gateway never stores it; the runtime owns thread state.
func ThreadKey(sender string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(sender)).String()
}
