package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"allmarket/internal/leadstore"
)

var exportPath string

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect and export captured leads",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List captured leads in capture order",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		leads := a.store.GetLeads(cmd.Context())
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tPRODUCT\tNICHE\tCONSENTED")
		for _, l := range leads {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", l.ID, l.Email, l.ProductName, l.Niche, l.ConsentedAt.Format(time.RFC3339))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d leads\n", len(leads))
		return nil
	},
}

var leadsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export leads as CSV to a file or stdout",
	Long: `Export every captured lead as CSV.

With -o the CSV is written to that file; -o with an empty value picks
leads-YYYY-MM-DD.csv in the current directory. Without -o it goes to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		csv := leadstore.ExportLeadsToCSV(a.store.GetLeads(cmd.Context()))

		if !cmd.Flags().Changed("output") {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), csv)
			return err
		}
		path := exportPath
		if path == "" {
			path = leadstore.CSVFileName(time.Now())
		}
		if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.WithField("file", path).Info("Leads exported")
		return nil
	},
}

func init() {
	leadsExportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "Write CSV to this file")
}
