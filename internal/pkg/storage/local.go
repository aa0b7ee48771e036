package storage

import (
	"context"
	"os"
	"path"
	"path/filepath"
)

type localStorage struct {
	dir        string
	publicPath string
}

// NewLocalStorage writes files under dir; the returned value is publicPath/name,
// which the server exposes as static content.
func NewLocalStorage(dir, publicPath string) PictureStorage {
	return &localStorage{dir: dir, publicPath: publicPath}
}

func (s *localStorage) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.dir, filepath.Base(name)), data, 0644); err != nil {
		return "", err
	}
	return path.Join(s.publicPath, filepath.Base(name)), nil
}
