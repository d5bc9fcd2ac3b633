package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/XivasNguyen/Thuc-Web-Playwright/internal/artifacts"
)

var sweepMaxAge time.Duration

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove artifacts older than the retention age",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := artifacts.NewStore(resultsDir)
		removed, err := store.Sweep(sweepMaxAge)
		if err != nil {
			return err
		}
		cliLog.Printf("removed %d artifact(s) older than %s from %s", removed, sweepMaxAge, resultsDir)
		return nil
	},
}

func init() {
	sweepCmd.Flags().DurationVar(&sweepMaxAge, "max-age", 7*24*time.Hour, "delete artifacts older than this age")
}
