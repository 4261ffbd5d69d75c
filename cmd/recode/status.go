package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recode/internal/deps"
	"recode/internal/report"
)

func newStatusCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-status counts, failed files, and dependency health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cc.ensureConfig()
			if err != nil {
				return err
			}

			store, err := cc.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := store.Aggregate(cmd.Context())
			if err != nil {
				return err
			}
			report.WriteTable(os.Stdout, summary)

			fmt.Println()
			for _, status := range deps.CheckBinaries(deps.Required(cfg)) {
				state := "ok"
				if !status.Available {
					state = status.Detail
				}
				fmt.Printf("%-10s %s\n", status.Name, state)
			}
			return nil
		},
	}
}
