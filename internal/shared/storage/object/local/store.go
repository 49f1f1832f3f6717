// Package local keeps blobs on the filesystem for development and single-node
// deployments.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"jobboard-backend/internal/shared/storage/object"
)

// Store writes objects below Root. It keeps no content-type metadata.
type Store struct {
	Root string
}

func New(root string) *Store {
	return &Store{Root: root}
}

// Put writes to a temporary file and renames it into place so readers never
// see a partial object.
func (s *Store) Put(ctx context.Context, u object.Upload) (object.Object, error) {
	key, err := object.NewKey(u.Owner, u.Name)
	if err != nil {
		return object.Object{}, err
	}
	if err := ctx.Err(); err != nil {
		return object.Object{}, err
	}

	full := s.path(key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return object.Object{}, fmt.Errorf("create blob dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return object.Object{}, fmt.Errorf("create temp blob: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, u.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return object.Object{}, fmt.Errorf("write blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return object.Object{}, fmt.Errorf("commit blob: %w", err)
	}
	return object.Object{Key: key, Size: size, ContentType: u.ContentType}, nil
}

func (s *Store) Open(ctx context.Context, key string) (*object.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !object.ValidKey(key) {
		return nil, object.ErrInvalidKey
	}
	f, err := os.Open(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, object.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return &object.Reader{ReadCloser: f}, nil
}

// Delete is idempotent.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !object.ValidKey(key) {
		return object.ErrInvalidKey
	}
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.Root, filepath.FromSlash(key))
}

var _ object.ObjectStore = (*Store)(nil)
