// Package object stores profile blobs. Keys are "<owner hash>/<uuid>-<name>"
// in every backend.
package object

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by Open for keys that hold no object.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidKey rejects keys and file names that could escape the store.
	ErrInvalidKey = errors.New("invalid object key")
)

// Upload is one object to store.
type Upload struct {
	Owner       string
	Name        string
	ContentType string
	Body        io.Reader
}

// Object describes a stored upload.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// Reader streams a stored object. ContentType is empty when the backend kept
// no metadata.
type Reader struct {
	io.ReadCloser
	ContentType string
}

type ObjectStore interface {
	Put(ctx context.Context, u Upload) (Object, error)
	Open(ctx context.Context, key string) (*Reader, error)
	Delete(ctx context.Context, key string) error
}

// NewKey builds a fresh key for name under owner.
func NewKey(owner, name string) (string, error) {
	if strings.TrimSpace(owner) == "" {
		return "", ErrInvalidKey
	}
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(owner))
	return hex.EncodeToString(sum[:]) + "/" + uuid.NewString() + "-" + clean, nil
}

// ValidKey reports whether key is relative and free of traversal segments.
func ValidKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return path.Clean(key) == key
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "..") {
		return "", ErrInvalidKey
	}
	name = strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(name)
	return name, nil
}

// CountingReader tracks how many bytes passed through it.
type CountingReader struct {
	R io.Reader
	N int64
}

func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.R.Read(p)
	c.N += int64(n)
	return n, err
}
