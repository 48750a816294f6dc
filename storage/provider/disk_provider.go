// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	storageErrors "github.com/qolzam/newsroom/storage/errors"
)

// DiskProvider implements BlobProvider on the local filesystem.
// Blobs live under root, one subdirectory per kind.
type DiskProvider struct {
	root string
}

// NewDiskProvider creates a disk-backed provider rooted at root.
// The root directory is created if it does not exist.
func NewDiskProvider(root string) (*DiskProvider, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &DiskProvider{root: abs}, nil
}

// Root returns the absolute storage root directory.
func (p *DiskProvider) Root() string {
	return p.root
}

// resolve maps a key to an absolute path, rejecting anything that
// would escape the storage root.
func (p *DiskProvider) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q", storageErrors.ErrInvalidRef, key)
	}
	path := filepath.Join(p.root, filepath.FromSlash(key))
	if !strings.HasPrefix(path, p.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %q", storageErrors.ErrInvalidRef, key)
	}
	return path, nil
}

// Put writes the blob via a temp file and rename so readers never see
// a partially written file.
func (p *DiskProvider) Put(ctx context.Context, key string, data []byte) error {
	path, err := p.resolve(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to finalize blob: %w", err)
	}
	return nil
}

// Delete removes the blob at key. Missing files are treated as success.
func (p *DiskProvider) Delete(ctx context.Context, key string) error {
	path, err := p.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// Exists reports whether a blob is stored at key.
func (p *DiskProvider) Exists(ctx context.Context, key string) (bool, error) {
	path, err := p.resolve(key)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat blob: %w", err)
	}
	return true, nil
}

// ModTime returns the last modification time of the blob at key.
func (p *DiskProvider) ModTime(ctx context.Context, key string) (time.Time, error) {
	path, err := p.resolve(key)
	if err != nil {
		return time.Time{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, fmt.Errorf("%w: %s", storageErrors.ErrBlobNotFound, key)
		}
		return time.Time{}, fmt.Errorf("failed to stat blob: %w", err)
	}
	return info.ModTime(), nil
}

// List returns the keys of all blobs under the given kind prefix.
func (p *DiskProvider) List(ctx context.Context, kind string) ([]string, error) {
	dir, err := p.resolve(kind)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		keys = append(keys, kind+"/"+entry.Name())
	}
	return keys, nil
}
