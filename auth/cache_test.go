package auth

import (
	"errors"
	"testing"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	data    []byte
	loadErr error
	saveErr error
}

func (m *memStorage) Load() ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data, nil
}

func (m *memStorage) Save(data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = data
	return nil
}

// fakeMarshaler mimics the msal in-memory cache.
type fakeMarshaler struct {
	data []byte
	err  error
}

func (f *fakeMarshaler) Marshal() ([]byte, error) { return f.data, f.err }
func (f *fakeMarshaler) Unmarshal(b []byte) error { f.data = b; return f.err }

func TestStorageCache_Replace(t *testing.T) {
	t.Run("hydrates from storage", func(t *testing.T) {
		sc := &storageCache{s: &memStorage{data: []byte(`{"AccessToken":{}}`)}}
		var fm fakeMarshaler
		require.NoError(t, sc.Replace(t.Context(), &fm, cache.ReplaceHints{}))
		assert.Equal(t, []byte(`{"AccessToken":{}}`), fm.data)
	})
	t.Run("cache miss is not an error", func(t *testing.T) {
		sc := &storageCache{s: &memStorage{loadErr: errors.New("no such file")}}
		var fm fakeMarshaler
		assert.NoError(t, sc.Replace(t.Context(), &fm, cache.ReplaceHints{}))
		assert.Nil(t, fm.data)
	})
}

func TestStorageCache_Export(t *testing.T) {
	t.Run("writes to storage", func(t *testing.T) {
		ms := &memStorage{}
		sc := &storageCache{s: ms}
		require.NoError(t, sc.Export(t.Context(), &fakeMarshaler{data: []byte("blob")}, cache.ExportHints{}))
		assert.Equal(t, []byte("blob"), ms.data)
	})
	t.Run("marshal failure", func(t *testing.T) {
		sc := &storageCache{s: &memStorage{}}
		err := sc.Export(t.Context(), &fakeMarshaler{err: errors.New("kaboom")}, cache.ExportHints{})
		assert.Error(t, err)
	})
	t.Run("save failure", func(t *testing.T) {
		sc := &storageCache{s: &memStorage{saveErr: errors.New("disk full")}}
		err := sc.Export(t.Context(), &fakeMarshaler{data: []byte("blob")}, cache.ExportHints{})
		assert.Error(t, err)
	})
}
