package cart

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffinsgri4/coast-storefront/internal/domain"
)

func TestFilePersistence_RoundTrip(t *testing.T) {
	persist := NewFilePersistence(t.TempDir())
	ctx := context.Background()

	items := []domain.CartItem{
		{ID: "a", Product: testProduct(7, 24.99, domain.StockQuantity(5)), Quantity: 2, Price: 24.99},
	}
	require.NoError(t, persist.Save(ctx, "session-1", items))

	got, err := persist.Load(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].Product.ID)
	assert.Equal(t, 2, got[0].Quantity)
	assert.Equal(t, 24.99, got[0].Price)
}

func TestFilePersistence_MissingFile(t *testing.T) {
	persist := NewFilePersistence(t.TempDir())

	_, err := persist.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNoSavedCart)
}

func TestFilePersistence_CorruptFileReadsAsAbsent(t *testing.T) {
	dir := t.TempDir()
	persist := NewFilePersistence(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session-1.json"), []byte("{not json"), 0o644))

	_, err := persist.Load(context.Background(), "session-1")
	assert.ErrorIs(t, err, ErrNoSavedCart)
}

func TestFilePersistence_DeleteIsIdempotent(t *testing.T) {
	persist := NewFilePersistence(t.TempDir())
	ctx := context.Background()

	require.NoError(t, persist.Save(ctx, "session-1", nil))
	require.NoError(t, persist.Delete(ctx, "session-1"))
	require.NoError(t, persist.Delete(ctx, "session-1"))
}

func TestFilePersistence_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	persist := NewFilePersistence(dir)

	require.NoError(t, persist.Save(context.Background(), "session-1", nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session-1.json", entries[0].Name())
}
