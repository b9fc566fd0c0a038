package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past batch runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}

		fmt.Printf("%-36s  %-10s  %-6s  %-6s  %-6s  %-20s  %s\n",
			"ID", "STATUS", "DOCS", "OK", "FAIL", "STARTED", "SOURCE")
		for _, r := range runs {
			fmt.Printf("%-36s  %-10s  %-6d  %-6d  %-6d  %-20s  %s\n",
				r.ID, r.Status, r.Documents, r.Succeeded, r.Failed,
				r.StartedAt.Format("2006-01-02 15:04:05"), r.SourceDir)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "max runs to list")
	rootCmd.AddCommand(runsCmd)
}
