package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allmarket/internal/config"
	"allmarket/internal/domain"
	"allmarket/internal/storage"
)

// useTestConfig points the commands at a fresh Badger directory.
func useTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg = config.Config{Storage: config.StorageConfig{BadgerDBPath: filepath.Join(dir, "db")}}
	log = logrus.New()
	log.SetOutput(io.Discard)
	return dir
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.RunE(cmd, args))
	return out.String()
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, newLogger("debug").GetLevel())
	assert.Equal(t, logrus.InfoLevel, newLogger("loud").GetLevel())
}

func TestOpenStore(t *testing.T) {
	useTestConfig(t)

	kv, err := openStore(config.StorageConfig{InMemory: true}, log)
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, kv)
	require.NoError(t, kv.Close())

	kv, err = openStore(config.StorageConfig{BadgerDBPath: t.TempDir()}, log)
	require.NoError(t, err)
	assert.IsType(t, &storage.BadgerStore{}, kv)
	require.NoError(t, kv.Close())
}

func TestSettingsCommands(t *testing.T) {
	useTestConfig(t)

	out := run(t, settingsShowCmd)
	assert.Contains(t, out, `globalAffiliatePrefix: ""`)
	assert.Contains(t, out, "autoApplyPrefix: true")

	require.NoError(t, settingsSetCmd.Flags().Set("prefix", "https://aff.example/?u="))
	t.Cleanup(func() {
		settingsSetCmd.Flags().Lookup("prefix").Changed = false
		prefixFlag = ""
	})
	out = run(t, settingsSetCmd)
	assert.Contains(t, out, `globalAffiliatePrefix: "https://aff.example/?u="`)
	assert.Contains(t, out, "autoApplyPrefix: true", "unchanged fields are kept")

	out = run(t, settingsShowCmd)
	assert.Contains(t, out, `globalAffiliatePrefix: "https://aff.example/?u="`)
}

func TestLinkSetAndLeadsExport(t *testing.T) {
	dir := useTestConfig(t)

	a, err := openApp(cfg, log)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, a.store.SaveResearch(ctx, domain.ResearchResult{
		Items: []domain.Product{{ID: "prod-0-1", Name: "Fone", Niche: "Eletrônicos", Link: "https://shop.example/fone"}},
	}))
	require.NoError(t, a.store.SaveLead(ctx, domain.Lead{
		ID: "L1", Email: "ana@example.com", ProductName: "Fone", Niche: "Eletrônicos",
		ConsentedAt: time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC),
	}))
	a.Close()

	out := run(t, linkSetCmd, "prod-0-1", "https://custom.example/fone")
	assert.Equal(t, "prod-0-1\tFone\thttps://custom.example/fone\n", out)

	out = run(t, leadsListCmd)
	assert.Contains(t, out, "ana@example.com")
	assert.Contains(t, out, "1 leads")

	out = run(t, leadsExportCmd)
	assert.Equal(t, "ID,Email,Produto,Nicho,Data\nL1,ana@example.com,Fone,Eletrônicos,2025-03-09T12:00:00Z\n", out)

	file := filepath.Join(dir, "out.csv")
	require.NoError(t, leadsExportCmd.Flags().Set("output", file))
	t.Cleanup(func() {
		leadsExportCmd.Flags().Lookup("output").Changed = false
		exportPath = ""
	})
	run(t, leadsExportCmd)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "ID,Email,Produto,Nicho,Data\nL1,ana@example.com,Fone,Eletrônicos,2025-03-09T12:00:00Z", string(data))
}
