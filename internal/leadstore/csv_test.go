package leadstore

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"allmarket/internal/domain"
)

func TestExportLeadsToCSV_Empty(t *testing.T) {
	assert.Equal(t, "ID,Email,Produto,Nicho,Data", ExportLeadsToCSV(nil))
	assert.Equal(t, "ID,Email,Produto,Nicho,Data", ExportLeadsToCSV([]domain.Lead{}))
}

func TestExportLeadsToCSV_Rows(t *testing.T) {
	leads := []domain.Lead{
		{
			ID:          "1",
			Email:       "a@b.com",
			ProductName: "X",
			Niche:       "Y",
			ConsentedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "2",
			Email:       "c@d.com",
			ProductName: "Z",
			Niche:       "W",
			ConsentedAt: time.Date(2025, 1, 2, 13, 4, 5, 0, time.FixedZone("BRT", -3*3600)),
		},
	}

	lines := strings.Split(ExportLeadsToCSV(leads), "\n")
	assert.Equal(t, []string{
		"ID,Email,Produto,Nicho,Data",
		"1,a@b.com,X,Y,2025-01-01T00:00:00Z",
		"2,c@d.com,Z,W,2025-01-02T16:04:05Z",
	}, lines)
}

// Commas are not escaped; this pins the current column-shifting behaviour.
func TestExportLeadsToCSV_NoEscaping(t *testing.T) {
	out := ExportLeadsToCSV([]domain.Lead{{
		ID:          "1",
		Email:       "a@b.com",
		ProductName: "Fone, Bluetooth",
		Niche:       "Eletrônicos",
		ConsentedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}})
	assert.Equal(t, "ID,Email,Produto,Nicho,Data\n1,a@b.com,Fone, Bluetooth,Eletrônicos,2025-01-01T00:00:00Z", out)
}

func TestCSVFileName(t *testing.T) {
	assert.Equal(t, "leads-2025-03-09.csv", CSVFileName(time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)))

	// 21:30 in São Paulo is already the next day in UTC.
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	assert.Equal(t, "leads-2025-03-10.csv", CSVFileName(time.Date(2025, 3, 9, 21, 30, 0, 0, saoPaulo)))
}
