package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/narongrit/meme-hub/domain"
)

// fsBlobStore keeps image bytes on the local filesystem under a single
// directory, one file per blob, named by a random uuid. References are the
// bare file names so they stay opaque to everything above the store.
type fsBlobStore struct {
	dir string
}

var _ domain.BlobStore = (*fsBlobStore)(nil)

// NewFSBlobStore creates dir if needed and returns a store rooted there.
func NewFSBlobStore(dir string) (*fsBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &fsBlobStore{dir: dir}, nil
}

func (s *fsBlobStore) Put(_ context.Context, data []byte, ext string) (string, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "jpeg" {
		ext = "jpg"
	}
	ref := fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, ref), data, 0o644); err != nil {
		return "", err
	}
	return ref, nil
}

func (s *fsBlobStore) Get(_ context.Context, ref string) ([]byte, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	return data, err
}

func (s *fsBlobStore) Delete(_ context.Context, ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// resolve rejects references that would escape the blob directory.
func (s *fsBlobStore) resolve(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) {
		return "", domain.ErrBadParamInput
	}
	return filepath.Join(s.dir, ref), nil
}
