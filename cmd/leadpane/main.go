package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:          "leadpane",
		Short:        "Lead tracking dashboard backed by a workbook or MongoDB",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")

	cmd.AddCommand(newServeCommand(&envFile))
	cmd.AddCommand(newMigrateCommand(&envFile))
	cmd.AddCommand(newRenderCommand(&envFile))
	return cmd
}
