// Command brokerctl runs maintenance tasks against the BrokerDesk database
// and document storage.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"brokerdesk/internal/app"
	"brokerdesk/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "brokerctl",
	Short: "BrokerDesk maintenance tool",
	Long: `Maintenance commands for BrokerDesk.

Configuration is read from BROKERDESK_* environment variables and .env,
the same way the server reads it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(seedCmd, importCmd, exportCmd, repairCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// withApp loads configuration, wires the application and passes it to fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}
