package main

import (
	"os"

	"github.com/klondike-tools/dash/cli"
	"github.com/klondike-tools/dash/cmd"
	"github.com/klondike-tools/dash/version"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"dash",
		"Terminal dashboard and CLI for the klondike feature tracker",
	)
	cli.SetVersionTemplate(rootCmd, version.GetInfo())

	rootCmd.AddCommand(cmd.NewUICmd())
	rootCmd.AddCommand(cmd.NewStatusCmd())
	rootCmd.AddCommand(cmd.NewFeatureCmd())
	rootCmd.AddCommand(cmd.NewActivityCmd())
	rootCmd.AddCommand(cmd.NewSessionCmd())
	rootCmd.AddCommand(cmd.NewConfigCmd())
	rootCmd.AddCommand(cmd.NewLogsCmd())
	rootCmd.AddCommand(cli.NewVersionCommand("dash"))

	cli.ApplyStyledHelpRecursive(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
