package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khoahotran/portfolio/adapters/persistence"
	authUC "github.com/khoahotran/portfolio/internal/application/usecase/auth"
	"github.com/khoahotran/portfolio/internal/application/usecase/backup"
	"github.com/khoahotran/portfolio/pkg/auth"
)

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Snapshot every collection to backup storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, closeStore, err := a.openStore(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer closeStore()

			archive, err := a.openArchive(a.cfg, a.logger)
			if err != nil {
				return err
			}

			out, err := backup.NewBackupUseCase(store, archive, a.logger).Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "📦 Backed up %d documents to %s\n", out.Documents, out.URL)
			return nil
		},
	}
}

func newOwnerCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "owner",
		Short: "Add the admin owner or rotate their password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, closeStore, err := a.openStore(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer closeStore()

			uc := authUC.NewProvisionOwnerUseCase(persistence.NewDocumentUserRepo(store), a.logger)
			u, err := uc.Execute(ctx, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added or updated owner '%s' successfully!\n", u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "owner email (env OWNER_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "owner password (env OWNER_PASSWORD)")
	cmd.PreRunE = func(_ *cobra.Command, _ []string) error {
		if email == "" {
			email = os.Getenv("OWNER_EMAIL")
		}
		if password == "" {
			password = os.Getenv("OWNER_PASSWORD")
		}
		return nil
	}
	return cmd
}

// newHashPasswordCmd needs no config; it skips the root setup.
func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash of the password (read from stdin when omitted)",
		Args:  cobra.MaximumNArgs(1),
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
