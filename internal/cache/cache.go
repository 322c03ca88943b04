// Copyright (c) 2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package cache provides the on-disk token cache storage.  The cache blob is
// encrypted using the hash of the unique machine ID supplied by the
// operating system (see package encio), which makes the stored tokens
// useless on any other machine.
package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rusq/encio"

	"github.com/rusq/teamsdump/auth"
)

// defTokenCacheFile is the filename of the encrypted msal token cache within
// the cache directory.
const defTokenCacheFile = "token_cache.bin"

// container is the interface to operate with the credentials container.
type container interface {
	Create(filename string) (io.WriteCloser, error)
	Open(filename string) (io.ReadCloser, error)
}

// encryptedFile is the encrypted file container.
type encryptedFile struct{}

func (encryptedFile) Open(filename string) (io.ReadCloser, error) {
	return encio.Open(filename)
}

func (encryptedFile) Create(filename string) (io.WriteCloser, error) {
	return encio.Create(filename)
}

// filer is the container used by the storage.  Tests may swap it for a
// plaintext one.
var filer container = encryptedFile{}

// Storage is the encrypted file-backed auth.Storage.
type Storage struct {
	filename string
	ct       container
}

var _ auth.Storage = (*Storage)(nil)

// NewStorage initialises the token cache storage in cacheDir, creating the
// directory if necessary.
func NewStorage(cacheDir string) (*Storage, error) {
	filename := defTokenCacheFile
	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		filename = filepath.Join(cacheDir, defTokenCacheFile)
	}
	return &Storage{filename: filename, ct: filer}, nil
}

// Load reads the stored cache blob.  Errors indicate a cache miss to the
// caller.
func (s *Storage) Load() ([]byte, error) {
	f, err := s.ct.Open(s.filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Save overwrites the stored cache blob.
func (s *Storage) Save(data []byte) error {
	f, err := s.ct.Create(s.filename)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Reset removes the cached token state, forcing the full authentication flow
// on the next run.
func (s *Storage) Reset() error {
	return os.Remove(s.filename)
}
