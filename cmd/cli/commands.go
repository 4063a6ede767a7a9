package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iho/partytreasury/internal/infrastructure/postgres"
)

func migrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	open := func() (*postgres.Migrator, error) {
		if opts.databaseURL == "" {
			return nil, errors.New("--database-url or DATABASE_URL is required")
		}
		return postgres.NewMigrator(opts.databaseURL, opts.migrationsPath)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()

				if err := m.Up(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations, one step by default",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n < 1 {
						return fmt.Errorf("steps must be a positive integer, got %q", args[0])
					}
					steps = n
				}

				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()

				if err := m.Down(steps); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()

				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %v)\n", version, dirty)
				return nil
			},
		},
	)
	return cmd
}

func vaultCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Vault operations",
	}

	balances := &cobra.Command{
		Use:   "balances <vault-id>",
		Short: "Show pooled balances per currency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out map[string]any
			path := "/api/v1/vaults/" + url.PathEscape(args[0]) + "/coin/balances"
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, path, nil, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	var (
		members   int
		keepShare bool
		policy    string
	)
	split := &cobra.Command{
		Use:   "split <vault-id>",
		Short: "Split the pooled coin among the party",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"keep_party_share": keepShare}
			if cmd.Flags().Changed("members") {
				body["party_member_count"] = members
			}
			if policy != "" {
				body["remainder_policy"] = policy
			}

			var out map[string]any
			path := "/api/v1/vaults/" + url.PathEscape(args[0]) + "/coin/split"
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodPost, path, body, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	split.Flags().IntVar(&members, "members", 0, "Party member count; defaults to the vault's members")
	split.Flags().BoolVar(&keepShare, "keep-party-share", false, "Keep one extra share in the vault")
	split.Flags().StringVar(&policy, "policy", "", "Remainder policy: discard, retain or first_share")

	reconcile := &cobra.Command{
		Use:   "reconcile <vault-id>",
		Short: "Check that every split conserved value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				VaultID       string           `json:"vault_id"`
				SplitsChecked int              `json:"splits_checked"`
				Consistent    bool             `json:"consistent"`
				Discrepancies []map[string]any `json:"discrepancies"`
			}
			path := "/api/v1/vaults/" + url.PathEscape(args[0]) + "/reconciliation"
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, path, nil, &out); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Splits checked: %d\n", out.SplitsChecked)
			if out.Consistent {
				fmt.Fprintln(w, "Reconciliation PASSED")
				return nil
			}
			fmt.Fprintln(w, "Reconciliation FAILED")
			if err := printJSON(w, out.Discrepancies); err != nil {
				return err
			}
			return fmt.Errorf("%d split(s) do not reconcile", len(out.Discrepancies))
		},
	}

	cmd.AddCommand(balances, split, reconcile)
	return cmd
}

func inviteCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Invite operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "inspect <token>",
		Short: "Verify an invite token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out map[string]any
			path := "/api/v1/invites/inspect?token=" + url.QueryEscape(args[0])
			if err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, path, nil, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	})
	return cmd
}
