package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Get(ctx, "pos_products")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "pos_products", []byte(`[]`)))

	value, err := m.Get(ctx, "pos_products")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), value)

	require.NoError(t, m.Set(ctx, "pos_products", []byte(`[{"id":"1"}]`)))
	value, err = m.Get(ctx, "pos_products")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"1"}]`), value)
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "pos_sales", []byte(`[]`)))
	require.NoError(t, m.Delete(ctx, "pos_sales"))

	_, err := m.Get(ctx, "pos_sales")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error.
	require.NoError(t, m.Delete(ctx, "pos_sales"))
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("abc")))

	value, err := m.Get(ctx, "k")
	require.NoError(t, err)
	value[0] = 'x'

	again, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
