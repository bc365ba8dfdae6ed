package currency

import (
	"context"
	"testing"

	"pos-service/internal/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsUSD(t *testing.T) {
	prefs := NewPreferences(kv.NewMemory())

	c, err := prefs.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "USD", c.Code)
	assert.Equal(t, "$", c.Symbol)
}

func TestSetPersistsSelection(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()

	prefs := NewPreferences(backend)
	c, err := prefs.Set(ctx, "EUR")
	require.NoError(t, err)
	assert.Equal(t, "€", c.Symbol)

	// A fresh preference store over the same backend sees the selection.
	again := NewPreferences(backend)
	c, err = again.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EUR", c.Code)
	assert.Equal(t, "Euro", c.Name)
}

func TestSetRejectsUnknownCode(t *testing.T) {
	prefs := NewPreferences(kv.NewMemory())

	_, err := prefs.Set(context.Background(), "XYZ")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestFormatTwoDecimals(t *testing.T) {
	prefs := NewPreferences(kv.NewMemory())
	ctx := context.Background()

	out, err := prefs.Format(ctx, 4.5)
	require.NoError(t, err)
	assert.Equal(t, "$4.50", out)

	_, err = prefs.Set(ctx, "KSH")
	require.NoError(t, err)

	out, err = prefs.Format(ctx, 1234.567)
	require.NoError(t, err)
	assert.Equal(t, "KSh1234.57", out)
}
