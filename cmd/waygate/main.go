package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string // overridable via --config flag

func main() {
	root := &cobra.Command{
		Use:   "waygate",
		Short: "Waygate: WhatsApp webhook gateway for a streaming agent runtime",
		Long:  "Waygate bridges Twilio WhatsApp callbacks to a remote agent runtime over a streaming run API.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.toml (default: ./config.toml)")

	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook gateway server",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
}
