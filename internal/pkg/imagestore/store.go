package imagestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/altapos/variant-wizard-service/internal/matrix"
)

// Store keeps per-row wizard images on local disk, one subdirectory per wizard
// session. Rows own their image references: the wizard usecase calls Remove
// whenever a reference is superseded or its row is dropped, and RemoveSession
// when the whole session goes away.
type Store struct {
	dir     string
	baseURL string
}

func New(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Dir is the root directory images are saved under. The HTTP server serves it
// statically at the store's base URL.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Save(sessionID, filename string, r io.Reader) (*matrix.ImageRef, error) {
	ext := filepath.Ext(filename)
	rel := filepath.Join(sessionID, uuid.New().String()+ext)

	abs := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, err
	}

	f, err := os.Create(abs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(abs)
		return nil, err
	}

	return &matrix.ImageRef{
		Path:       rel,
		PreviewURL: s.baseURL + "/" + filepath.ToSlash(rel),
	}, nil
}

// Remove deletes the stored object behind ref. A missing file is not an
// error; the reference may already have been cleaned up.
func (s *Store) Remove(ref *matrix.ImageRef) error {
	if ref == nil || ref.Path == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, ref.Path))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveSession deletes every image stored for a session.
func (s *Store) RemoveSession(sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return os.RemoveAll(filepath.Join(s.dir, sessionID))
}
