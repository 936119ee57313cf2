package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch trending products now and replace the cached snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		rs, err := a.research(cmd.Context())
		if err != nil {
			return err
		}
		result, err := rs.Load(cmd.Context(), true)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d products, updated %s\n", len(result.Items), result.LastUpdated.Format("2006-01-02 15:04:05"))
		for _, p := range result.Items {
			fmt.Fprintf(out, "%s\t%s\t%s\n", p.ID, p.Name, p.AffiliateLink)
		}
		return nil
	},
}
