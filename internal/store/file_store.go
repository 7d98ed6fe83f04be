package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	perrors "github.com/abgdnv/xmlcatalog/internal/errors"
)

const defaultFileMode fs.FileMode = 0o644

// FileStore implements CatalogStore on a single XML file.
// Every Load reads the file from scratch and every Save rewrites it completely.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the catalog file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and parses the catalog file.
func (s *FileStore) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", perrors.ErrCatalogUnavailable, s.path, err)
	}
	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", perrors.ErrCatalogUnavailable, s.path, err)
	}
	return catalog, nil
}

// Save writes the catalog to a temporary file next to the target and renames it into place.
func (s *FileStore) Save(ctx context.Context, catalog *Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := catalog.Bytes()
	if err != nil {
		return err
	}

	mode := defaultFileMode
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary catalog file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close catalog: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to set catalog permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace catalog %s: %w", s.path, err)
	}
	return nil
}

// Init writes an empty catalog if the file does not exist yet.
// It reports whether a new file was created.
func (s *FileStore) Init(ctx context.Context) (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to stat catalog %s: %w", s.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create catalog directory: %w", err)
	}
	if err := s.Save(ctx, NewCatalog()); err != nil {
		return false, err
	}
	return true, nil
}
