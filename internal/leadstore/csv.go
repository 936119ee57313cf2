package leadstore

import (
	"strings"
	"time"

	"allmarket/internal/domain"
)

const csvHeader = "ID,Email,Produto,Nicho,Data"

// ExportLeadsToCSV renders leads as CSV text, one row per lead in input
// order with no trailing newline.
//
// Fields are joined verbatim, without quoting: a comma inside an email,
// product name or niche shifts the columns of that row.
func ExportLeadsToCSV(leads []domain.Lead) string {
	lines := make([]string, 0, len(leads)+1)
	lines = append(lines, csvHeader)
	for _, l := range leads {
		lines = append(lines, strings.Join([]string{
			l.ID,
			l.Email,
			l.ProductName,
			l.Niche,
			l.ConsentedAt.UTC().Format(time.RFC3339Nano),
		}, ","))
	}
	return strings.Join(lines, "\n")
}

// CSVFileName is the download name for an export made at now, dated in UTC.
func CSVFileName(now time.Time) string {
	return "leads-" + now.UTC().Format("2006-01-02") + ".csv"
}
