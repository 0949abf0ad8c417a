package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"brokerdesk/internal/app"
)

var repairDryRun bool

var repairCmd = &cobra.Command{
	Use:   "repair-docs",
	Short: "Move misplaced client documents to their canonical paths",
	Long: `Resolve every document reference of every client, copy (or, for temp
uploads, move) files found elsewhere into the client's directory and rewrite
the stored references. The report is printed as JSON.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			report, err := a.Documents.RepairAll(ctx, repairDryRun)
			if report != nil {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(report); encErr != nil {
					return encErr
				}
			}
			return err
		})
	},
}

func init() {
	repairCmd.Flags().BoolVar(&repairDryRun, "dry-run", false, "report what would change without changing it")
}
