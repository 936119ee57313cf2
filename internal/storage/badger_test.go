package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.ErrorLevel)
	return l
}

// setupTestDB creates a BadgerStore in a temporary directory.
func setupTestDB(t *testing.T, dir string) (*BadgerStore, func()) {
	t.Helper()

	store, err := NewBadgerStore(BadgerOptions{Path: dir, GCInterval: time.Hour}, testLogger())
	require.NoError(t, err, "Failed to create test BadgerDB store")

	cleanup := func() {
		assert.NoError(t, store.Close(), "Failed to close test BadgerDB store")
	}
	return store, cleanup
}

func TestBadgerStore_GetSet(t *testing.T) {
	store, cleanup := setupTestDB(t, t.TempDir())
	defer cleanup()

	ctx := context.Background()

	_, found, err := store.Get(ctx, "settings")
	require.NoError(t, err)
	assert.False(t, found, "unwritten key should be absent")

	require.NoError(t, store.Set(ctx, "settings", []byte(`{"autoApplyPrefix":true}`)))
	v, found, err := store.Get(ctx, "settings")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"autoApplyPrefix":true}`, string(v))

	// Set overwrites.
	require.NoError(t, store.Set(ctx, "settings", []byte(`{"autoApplyPrefix":false}`)))
	v, _, err = store.Get(ctx, "settings")
	require.NoError(t, err)
	assert.JSONEq(t, `{"autoApplyPrefix":false}`, string(v))

	// Keys are independent.
	_, found, err = store.Get(ctx, "leads")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, _ := setupTestDB(t, dir)
	require.NoError(t, store.Set(ctx, "custom_links", []byte(`{"prod-0-1":"https://x"}`)))
	require.NoError(t, store.Close())

	reopened, cleanup := setupTestDB(t, dir)
	defer cleanup()

	v, found, err := reopened.Get(ctx, "custom_links")
	require.NoError(t, err)
	require.True(t, found, "value should survive a reopen")
	assert.JSONEq(t, `{"prod-0-1":"https://x"}`, string(v))
}

func TestBadgerStore_ClosedStore(t *testing.T) {
	store, err := NewBadgerStore(BadgerOptions{Path: t.TempDir()}, testLogger())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, _, err = store.Get(context.Background(), "leads")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, store.Set(context.Background(), "leads", nil), ErrClosed)
}
