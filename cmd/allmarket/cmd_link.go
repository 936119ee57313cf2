package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Manage per-product affiliate link overrides",
}

var linkSetCmd = &cobra.Command{
	Use:   "set <product-id> <url>",
	Short: "Set the affiliate link for one product",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, link := args[0], args[1]

		a, err := openApp(cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.SaveCustomLink(cmd.Context(), id, link); err != nil {
			return err
		}
		if p, ok := a.store.GetProduct(cmd.Context(), id); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.ID, p.Name, p.AffiliateLink)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t(not in the current snapshot)\t%s\n", id, link)
		return nil
	},
}
