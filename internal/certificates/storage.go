package certificates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotStored is returned by Open when the document is missing.
var ErrNotStored = errors.New("certificate document not found")

// Storage keeps rendered documents. Locations returned by Save are opaque and
// are what gets recorded on the certificate row.
type Storage interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// DiskStorage writes documents under a local directory.
type DiskStorage struct {
	dir string
}

func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create certificate dir: %w", err)
	}
	return &DiskStorage{dir: dir}, nil
}

func (s *DiskStorage) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid document name %q", name)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("move %s into place: %w", path, err)
	}
	return path, nil
}

func (s *DiskStorage) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Only serve files that live in our directory.
	rel, err := filepath.Rel(s.dir, location)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, ErrNotStored
	}

	f, err := os.Open(location)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotStored
		}
		return nil, err
	}
	return f, nil
}
