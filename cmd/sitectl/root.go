package main

import (
	"github.com/spf13/cobra"
)

var (
	serverURL string
	outputFmt string
)

var rootCmd = &cobra.Command{
	Use:   "sitectl",
	Short: "Admin CLI for the site API server",
	Long: `sitectl talks to the site API server: log in as the admin account,
inspect partners and posts, and run maintenance operations such as the
collaboration-count recalculation.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Site server URL")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(partnersCmd)
	rootCmd.AddCommand(postsCmd)
}
