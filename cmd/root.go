package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "nameguard",
	Short: "Nameguard - SQL alias quality analysis",
	Long: `Nameguard analyzes SQL statements and flags CTE, table, and column
aliases whose names do not describe the code they label, using embedding
similarity between the alias and its definition.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.nameguard/config.yaml)")
}
