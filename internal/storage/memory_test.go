package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_, found, err := m.Get(ctx, "research")
	require.NoError(t, err)
	assert.False(t, found)

	buf := []byte(`{"items":[]}`)
	require.NoError(t, m.Set(ctx, "research", buf))
	buf[0] = 'X' // caller mutation must not leak into the store

	v, found, err := m.Get(ctx, "research")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `{"items":[]}`, string(v))

	require.NoError(t, m.Close())
	_, _, err = m.Get(ctx, "research")
	assert.ErrorIs(t, err, ErrClosed)
}
