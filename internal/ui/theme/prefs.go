package theme

import (
	"context"

	"github.com/abhisek/emtquiz/internal/store"
)

// Load returns the persisted palette name, or Dark if none is stored or
// it cannot be read.
func Load(ctx context.Context, kv store.KV) Name {
	if kv == nil {
		return Dark
	}
	v, ok, err := kv.Get(ctx, store.KeyTheme)
	if err != nil || !ok {
		return Dark
	}
	n, err := ParseName(v)
	if err != nil {
		return Dark
	}
	return n
}

// Save persists n.
func Save(ctx context.Context, kv store.KV, n Name) error {
	if kv == nil {
		return nil
	}
	return kv.Set(ctx, store.KeyTheme, string(n))
}
