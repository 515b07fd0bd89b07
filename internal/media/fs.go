package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FSStore keeps uploads in a single directory on local disk
type FSStore struct {
	dir string
}

// NewFSStore creates the upload directory if needed
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

// Save writes content under the sanitized name. Bytes go to a temp file first and
// are renamed into place, so two uploads racing on one name leave one complete file.
func (s *FSStore) Save(ctx context.Context, rawName string, content io.Reader) (string, error) {
	name := SanitizeFilename(rawName)
	if name == "" {
		return "", ErrInvalidName
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-"+uuid.NewString()+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close upload: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return name, nil
}

// Delete removes the named file from the upload directory
func (s *FSStore) Delete(ctx context.Context, name string) error {
	clean := SanitizeFilename(name)
	if clean == "" || clean != name {
		return ErrInvalidName
	}
	if err := os.Remove(filepath.Join(s.dir, clean)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", clean, err)
	}
	return nil
}

// Open returns the stored file. Names are sanitized again so lookups stay
// inside the upload directory.
func (s *FSStore) Open(ctx context.Context, name string) (*Object, error) {
	clean := SanitizeFilename(name)
	if clean == "" || clean != name {
		return nil, ErrNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open %s: %w", clean, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", clean, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}

	return &Object{
		Name:        clean,
		ContentType: ContentType(clean),
		Size:        info.Size(),
		Body:        f,
	}, nil
}
