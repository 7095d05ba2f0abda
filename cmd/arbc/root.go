package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arbc",
	Short: "Compile a grammar description into a portable grammar artifact",
	Long: `arbc splits a grammar description into its tokenizer and context-free halves,
resolves every cross-reference, and emits a portable JSON artifact that a
parse-table builder can consume.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	return rootCmd.Execute()
}
