package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/silvertrail/tradestore/internal/factory"
)

// healthcheckCmd mirrors the original health_check.py's exit-code
// convention: 0 when every configured backend is reachable, 1 when some
// but not all are down, 2 when none are.
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check reachability of every configured storage backend",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		log := mustLogger(cfg, "healthcheck")

		backend, err := factory.Build(cfg, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "storectl healthcheck: build backend failed: %v\n", err)
			os.Exit(2)
		}
		defer backend.Close()

		status := backend.HealthCheck(context.Background())

		fmt.Println("storage health check")
		okCount := 0
		for name, ok := range status.Backends {
			symbol := "FAIL"
			if ok {
				symbol = "OK"
				okCount++
			}
			fmt.Printf("  %-8s %s\n", name, symbol)
		}

		switch {
		case okCount == len(status.Backends):
			fmt.Println("all backends healthy (exit code: 0)")
			os.Exit(0)
		case okCount > 0:
			fmt.Println("some backends degraded (exit code: 1)")
			os.Exit(1)
		default:
			fmt.Println("all backends down (exit code: 2)")
			os.Exit(2)
		}
	},
}
