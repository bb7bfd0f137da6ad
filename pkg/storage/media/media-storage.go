package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Store persists materialized media files by name.
type Store interface {
	Exists(ctx context.Context, name string) (bool, error)
	Put(ctx context.Context, name string, content []byte) error
}

// Directory keeps media files in a local directory, usually one served as static content.
type Directory struct {
	Logger logrus.FieldLogger
	Path   string
}

func NewDirectory(logger logrus.FieldLogger, path string) (*Directory, error) {
	logger.WithField("path", path).Info("initialising media directory")

	// attempt to create the directory if it doesn't exist
	if err := os.MkdirAll(path, 0750); err != nil {
		return nil, fmt.Errorf("creating media directory %q: %w", path, err)
	}

	return &Directory{Logger: logger, Path: path}, nil
}

func (d *Directory) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(d.Path, name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (d *Directory) Put(_ context.Context, name string, content []byte) error {
	return os.WriteFile(filepath.Join(d.Path, name), content, 0640)
}
