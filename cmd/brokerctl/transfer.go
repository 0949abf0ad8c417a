package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"brokerdesk/internal/app"
	"brokerdesk/internal/domain"
	"brokerdesk/internal/export"
)

var transferOpts struct {
	file   string
	format string
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Create clients from an Excel workbook",
	Long: `Create one client per row of the workbook's first sheet. The header row
uses the export column names. Rows that fail to parse or validate are reported
and skipped.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return runImport(ctx, cmd, a)
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every client to an Excel workbook or CSV file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return runExport(ctx, cmd, a)
		})
	},
}

func init() {
	importCmd.Flags().StringVar(&transferOpts.file, "file", "", "workbook to read (.xlsx)")
	_ = importCmd.MarkFlagRequired("file")

	exportCmd.Flags().StringVar(&transferOpts.file, "file", "", "file to write")
	exportCmd.Flags().StringVar(&transferOpts.format, "format", "", "xlsx or csv (default: from the file extension)")
	_ = exportCmd.MarkFlagRequired("file")
}

func runImport(ctx context.Context, cmd *cobra.Command, a *app.App) error {
	out := cmd.OutOrStdout()

	f, err := os.Open(transferOpts.file)
	if err != nil {
		return err
	}
	defer f.Close()

	clients, rowErrs, err := export.ReadXLSX(f)
	if err != nil {
		return err
	}
	for _, re := range rowErrs {
		fmt.Fprintf(out, "skipped: %v\n", &re)
	}

	created, failed := 0, len(rowErrs)
	for i := range clients {
		c := &clients[i]
		if _, err := a.ClientSvc.Create(ctx, c, uuid.Nil); err != nil {
			failed++
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintf(out, "skipped %q: %v\n", c.ClientName, verr.Fields)
				continue
			}
			fmt.Fprintf(out, "skipped %q: %v\n", c.ClientName, err)
			continue
		}
		created++
	}
	fmt.Fprintf(out, "imported %d clients, %d rows skipped\n", created, failed)
	return nil
}

func runExport(ctx context.Context, cmd *cobra.Command, a *app.App) error {
	format := transferOpts.format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(transferOpts.file), ".")
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return fmt.Errorf("%q: %w", format, err)
	}

	clients, err := a.ClientSvc.All(ctx)
	if err != nil {
		return err
	}

	file, err := os.Create(transferOpts.file)
	if err != nil {
		return err
	}
	if err := export.Write(file, f, clients); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d clients to %s\n", len(clients), transferOpts.file)
	return nil
}
