package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/andar-inc/andar/internal/interfaces/cli/migrate"
	"github.com/andar-inc/andar/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "andar",
		Short: "Andar - subscription and payment reconciliation service",
		Long:  `Andar keeps marketplace subscriptions and payments consistent with the payment provider, exposing an HTTP API and migration tooling.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
