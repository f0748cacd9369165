// Package commands implements the packet CLI: a terminal front end over
// the client SDK covering auth, groups, lists, receipts and chat.
package commands

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/packetapp/packet-go/internal/api"
	"github.com/packetapp/packet-go/internal/config"
	"github.com/packetapp/packet-go/internal/session"
	"github.com/packetapp/packet-go/pkg/logging"
)

var (
	cfg    *config.Config
	store  session.Store
	client *api.Client
)

var rootCmd = &cobra.Command{
	Use:           "packet",
	Short:         "Command-line client for the Packet shared shopping service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup()

		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c

		st, err := session.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return err
		}
		store = st

		client = api.NewClient(cfg.BaseURL, &http.Client{Timeout: cfg.HTTPTimeout()}, store)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
		}
	},
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
