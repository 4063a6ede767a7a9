package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type options struct {
	baseURL        string
	token          string
	timeout        time.Duration
	databaseURL    string
	migrationsPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "treasury",
		Short:         "Party treasury CLI tool",
		Long:          `A command line interface for operating the party treasury API and database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.baseURL, "url", envOr("TREASURY_URL", "http://localhost:8080"), "Base URL of the treasury API")
	flags.StringVar(&opts.token, "token", os.Getenv("TREASURY_TOKEN"), "Session token sent as a bearer token")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	flags.StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL used by migrate")
	flags.StringVar(&opts.migrationsPath, "migrations", envOr("MIGRATIONS_PATH", "migrations"), "Directory holding migration files")

	rootCmd.AddCommand(migrateCmd(opts), vaultCmd(opts), inviteCmd(opts))
	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
