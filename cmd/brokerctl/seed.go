package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"brokerdesk/internal/app"
	"brokerdesk/internal/domain"
	"brokerdesk/internal/seed"
	"brokerdesk/internal/service"
)

var seedOpts struct {
	adminEmail    string
	adminPassword string
	adminName     string
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample clients and optionally an admin account",
	Long: `Insert five sample clients. Clients whose policy number already exists
are skipped, so the command can be re-run safely.

With --admin-email and --admin-password an administrator account is created too.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return runSeed(ctx, cmd, a)
		})
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedOpts.adminEmail, "admin-email", "", "email of an admin account to create")
	seedCmd.Flags().StringVar(&seedOpts.adminPassword, "admin-password", "", "password of the admin account")
	seedCmd.Flags().StringVar(&seedOpts.adminName, "admin-name", "Administrator", "display name of the admin account")
	seedCmd.MarkFlagsRequiredTogether("admin-email", "admin-password")
}

func runSeed(ctx context.Context, cmd *cobra.Command, a *app.App) error {
	out := cmd.OutOrStdout()

	if seedOpts.adminEmail != "" {
		_, err := a.UserSvc.Create(ctx, service.CreateUserInput{
			Email:    seedOpts.adminEmail,
			Password: seedOpts.adminPassword,
			FullName: seedOpts.adminName,
			Role:     string(domain.RoleAdmin),
		})
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			fmt.Fprintf(out, "admin %s already exists\n", seedOpts.adminEmail)
		case err != nil:
			return fmt.Errorf("creating admin: %w", err)
		default:
			fmt.Fprintf(out, "created admin %s\n", seedOpts.adminEmail)
		}
	}

	created, skipped := 0, 0
	for _, c := range seed.SampleClients() {
		client := c
		if _, err := a.ClientSvc.Create(ctx, &client, uuid.Nil); err != nil {
			if errors.Is(err, domain.ErrDuplicatePolicyNo) {
				skipped++
				continue
			}
			return fmt.Errorf("creating %s: %w", c.ClientName, err)
		}
		created++
	}
	fmt.Fprintf(out, "sample clients: %d created, %d already present\n", created, skipped)
	return nil
}
