// Command storectl is the offline migration and verification toolkit
// (C7, spec.md §4.7): it moves data between the file tier and the
// HOT/WARM/COOL tiers, checks the tiers agree, and exports them back out.
// Subcommand layout follows NimbleMarkets-dbn-go/cmd/dbn-go-hist/main.go's
// package-level rootCmd + child *cobra.Command vars wired up in init(),
// with github.com/dustin/go-humanize used for the same progress-number
// formatting that toolkit does.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "storectl",
	Short: "storectl migrates and verifies the tradestore storage tiers",
	Long:  "storectl is the offline toolkit for moving data between the file tier and the HOT/WARM/COOL tiers, verifying they agree, and exporting them back out.",
}

func main() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(healthcheckCmd)
	rootCmd.AddCommand(daemonCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
