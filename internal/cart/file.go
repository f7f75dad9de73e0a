package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/griffinsgri4/coast-storefront/internal/domain"
)

// FilePersistence keeps one JSON file per session key under a state
// directory. Writes go through a temp file plus rename so a concurrent
// reader never observes a partial blob.
type FilePersistence struct {
	dir string
}

func NewFilePersistence(dir string) *FilePersistence {
	return &FilePersistence{dir: dir}
}

func (f *FilePersistence) Load(_ context.Context, key string) ([]domain.CartItem, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNoSavedCart
	}
	if err != nil {
		return nil, fmt.Errorf("read cart file: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, ErrNoSavedCart
	}
	return items, nil
}

func (f *FilePersistence) Save(_ context.Context, key string, items []domain.CartItem) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, "cart-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cart file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cart file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cart file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace cart file: %w", err)
	}
	return nil
}

func (f *FilePersistence) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cart file: %w", err)
	}
	return nil
}

func (f *FilePersistence) path(key string) string {
	// Session keys are UUIDs, but keep path traversal out regardless.
	safe := strings.ReplaceAll(strings.ReplaceAll(key, string(os.PathSeparator), "_"), "..", "_")
	return filepath.Join(f.dir, safe+".json")
}
