// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

// Package assets stores uploaded files on local disk and hands back the
// opaque URIs the catalog records against entities.
package assets

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/tracklab/tracklab/internal/auth"
	"github.com/tracklab/tracklab/internal/catalog"
)

// DiskStore saves uploads under a root directory, one subdirectory per
// asset kind. Stored files get a random name so concurrent uploads of
// the same filename never collide; the original name survives as a
// suffix for operator convenience.
type DiskStore struct {
	root string
}

// NewDiskStore creates a DiskStore rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, oops.Code("ASSET_STORE_INVALID").Errorf("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, oops.Code("ASSET_STORE_INIT_FAILED").With("dir", dir).Wrap(err)
	}
	return &DiskStore{root: dir}, nil
}

// Save writes r to disk under the kind's subdirectory and returns the
// URI to record, relative to the store root. A rebind never touches the
// previously stored file; stale objects are left behind on purpose.
func (s *DiskStore) Save(kind, filename string, r io.Reader) (string, error) {
	if kind == "" || strings.ContainsAny(kind, `/\`) {
		return "", oops.Code("ASSET_BAD_KIND").With("kind", kind).Errorf("invalid asset kind %q", kind)
	}

	name := uuid.NewString()
	if base := sanitizeFilename(filename); base != "" {
		name += "_" + base
	}

	dir := filepath.Join(s.root, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", oops.Code("ASSET_SAVE_FAILED").With("dir", dir).Wrap(err)
	}

	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", oops.Code("ASSET_SAVE_FAILED").With("path", path).Wrap(err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", oops.Code("ASSET_SAVE_FAILED").With("path", path).Wrap(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", oops.Code("ASSET_SAVE_FAILED").With("path", path).Wrap(err)
	}

	return kind + "/" + name, nil
}

// Open returns a reader for a previously saved asset URI.
func (s *DiskStore) Open(uri string) (io.ReadCloser, error) {
	kind, name, ok := strings.Cut(uri, "/")
	if !ok || kind == "" || name == "" || name != sanitizeFilename(name) {
		return nil, oops.Code("ASSET_BAD_URI").With("uri", uri).Errorf("invalid asset URI %q", uri)
	}
	f, err := os.Open(filepath.Join(s.root, kind, name))
	if err != nil {
		return nil, oops.Code("ASSET_OPEN_FAILED").With("uri", uri).Wrap(err)
	}
	return f, nil
}

// sanitizeFilename strips path components and characters that have no
// business in a stored filename.
func sanitizeFilename(filename string) string {
	base := filepath.Base(filepath.Clean(filename))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return ""
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ".")
}

// Compile-time interface checks.
var (
	_ catalog.BlobStore = (*DiskStore)(nil)
	_ auth.PhotoStore   = (*DiskStore)(nil)
)
