package auth

import (
	"context"
	"log/slog"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/cache"
)

// storageCache adapts a Storage to the msal cache.ExportReplace interface.
// Replace hydrates the in-memory msal cache from the storage before an
// acquisition, Export writes it back after every successful one.
type storageCache struct {
	s Storage
}

var _ cache.ExportReplace = (*storageCache)(nil)

func (c *storageCache) Replace(ctx context.Context, u cache.Unmarshaler, hints cache.ReplaceHints) error {
	data, err := c.s.Load()
	if err != nil {
		// a missing or unreadable cache is a miss, not a failure: the
		// provider will run the full flow and overwrite it.
		slog.DebugContext(ctx, "token cache miss", "error", err)
		return nil
	}
	return u.Unmarshal(data)
}

func (c *storageCache) Export(ctx context.Context, m cache.Marshaler, hints cache.ExportHints) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return c.s.Save(data)
}

// exportReplace returns the msal cache accessor for the configured storage,
// or nil if no storage is set.
func (o options) exportReplace() cache.ExportReplace {
	if o.storage == nil {
		return nil
	}
	return &storageCache{s: o.storage}
}
