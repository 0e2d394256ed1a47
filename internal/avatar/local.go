package avatar

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/ratemymovie/internal/filex"
)

// LocalStore copies images below a directory on disk.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Put(_ context.Context, userID, filename string, body io.Reader) (string, error) {
	key, err := objectKey(userID, filename)
	if err != nil {
		return "", err
	}
	data, err := readLimited(body)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(s.dir, filepath.FromSlash(key))
	if _, err := filex.EnsureDir(filepath.Dir(dst)); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, 0o640); err != nil {
		return "", fmt.Errorf("write %s: %w", dst, err)
	}

	abs, err := filepath.Abs(dst)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
