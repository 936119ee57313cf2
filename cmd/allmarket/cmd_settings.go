package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"allmarket/internal/domain"
)

var (
	prefixFlag    string
	autoApplyFlag bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the global affiliate settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		printSettings(cmd.OutOrStdout(), a.store.GetSettings(cmd.Context()))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the prefix and/or auto-apply flag",
	Example: `  allmarket settings set --prefix "https://go.example/?url="
  allmarket settings set --auto-apply=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("prefix") && !flags.Changed("auto-apply") {
			return fmt.Errorf("nothing to change: pass --prefix and/or --auto-apply")
		}

		a, err := openApp(cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		// Settings are stored whole, so unchanged fields are carried over.
		settings := a.store.GetSettings(cmd.Context())
		if flags.Changed("prefix") {
			settings.GlobalAffiliatePrefix = prefixFlag
		}
		if flags.Changed("auto-apply") {
			settings.AutoApplyPrefix = autoApplyFlag
		}
		if err := a.store.SaveSettings(cmd.Context(), settings); err != nil {
			return err
		}
		printSettings(cmd.OutOrStdout(), settings)
		return nil
	},
}

func printSettings(w io.Writer, s domain.AppSettings) {
	fmt.Fprintf(w, "globalAffiliatePrefix: %q\nautoApplyPrefix: %t\n", s.GlobalAffiliatePrefix, s.AutoApplyPrefix)
}

func init() {
	settingsSetCmd.Flags().StringVar(&prefixFlag, "prefix", "", "Global affiliate prefix (empty clears it)")
	settingsSetCmd.Flags().BoolVar(&autoApplyFlag, "auto-apply", true, "Apply the prefix to products without an override")
}
