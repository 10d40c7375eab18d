package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
)

// LocalStore writes uploads under a single directory. Paths handed out are
// "<dir>/<name>"; everything outside dir is unreachable.
type LocalStore struct {
	fs           afero.Fs
	dir          string
	publicPrefix string
}

func NewLocalStore(dir, publicPrefix string) (*LocalStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "storage: create %s", dir)
	}
	return &LocalStore{
		fs:           afero.NewBasePathFs(osFs, dir),
		dir:          dir,
		publicPrefix: publicPrefix,
	}, nil
}

func (s *LocalStore) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, string, error) {
	if err := afero.WriteReader(s.fs, "/"+name, r); err != nil {
		return "", "", eris.Wrapf(err, "storage: write %s", name)
	}
	return s.pathFor(name), strings.TrimRight(s.publicPrefix, "/") + "/" + name, nil
}

func (s *LocalStore) Remove(_ context.Context, p string) error {
	err := s.fs.Remove(s.keyFor(p))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrFileNotFound
	}
	if err != nil {
		return eris.Wrapf(err, "storage: remove %s", p)
	}
	return nil
}

// Handler serves stored files by name.
func (s *LocalStore) Handler() http.Handler {
	return http.FileServer(afero.NewHttpFs(s.fs).Dir("/"))
}

func (s *LocalStore) pathFor(name string) string {
	return path.Join(filepath.ToSlash(s.dir), name)
}

func (s *LocalStore) keyFor(p string) string {
	prefix := path.Clean(filepath.ToSlash(s.dir)) + "/"
	return "/" + strings.TrimPrefix(filepath.ToSlash(p), prefix)
}
