package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NomadCrew/contact-intake/internal/cli"
	"github.com/NomadCrew/contact-intake/logger"
)

var version = "dev"

func main() {
	logger.InitLogger()
	defer logger.Close()

	rootCmd := &cobra.Command{
		Use:     "contactctl",
		Short:   "Operator tooling for the contact intake service",
		Version: version,
		Long: `contactctl manages the contact intake store from a terminal.
It reads the same environment and config.yaml as the server.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.MigrateCmd())
	rootCmd.AddCommand(cli.ListCmd())
	rootCmd.AddCommand(cli.ExportCmd())
	rootCmd.AddCommand(cli.WatchCmd())
	rootCmd.AddCommand(cli.ConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
