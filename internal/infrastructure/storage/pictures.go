// Package storage keeps profile pictures on the local filesystem.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/protorh/protorh-api/internal/core/ports"
)

// DefaultPictureName is served for identities that never uploaded a picture.
const DefaultPictureName = "pdp_base.png"

// PictureStore implements ports.PictureStore on a directory. Files are named
// <account_token>.<ext>; a token owns at most one file at a time.
type PictureStore struct {
	dir string
	mu  sync.Mutex
}

var _ ports.PictureStore = (*PictureStore)(nil)

// NewPictureStore creates dir if needed.
func NewPictureStore(dir string) (*PictureStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("picture dir: %w", err)
	}
	return &PictureStore{dir: dir}, nil
}

func (s *PictureStore) Save(_ context.Context, token, ext string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.matching(token)
	if err != nil {
		return "", err
	}
	for _, name := range existing {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("remove previous picture: %w", err)
		}
	}

	path := filepath.Join(s.dir, token+"."+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write picture: %w", err)
	}
	return path, nil
}

func (s *PictureStore) Find(_ context.Context, token string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.matching(token)
	if err != nil {
		return "", false, err
	}
	if len(names) == 0 {
		return "", false, nil
	}
	return filepath.Join(s.dir, names[0]), true, nil
}

func (s *PictureStore) DefaultPath() string {
	return filepath.Join(s.dir, DefaultPictureName)
}

func (s *PictureStore) matching(token string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list pictures: %w", err)
	}
	prefix := token + "."
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
