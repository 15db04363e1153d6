// Package localfs implements fsx.FileSystem on top of the os package.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"github.com/Abraxas-365/ocrspace/fsx"
)

// FileSystem reads files relative to Root. An empty Root uses paths as given.
type FileSystem struct {
	Root string
}

var _ fsx.FileSystem = (*FileSystem)(nil)

// New creates a local filesystem rooted at root
func New(root string) *FileSystem {
	return &FileSystem{Root: root}
}

func (f *FileSystem) resolve(path string) string {
	if f.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(f.Root, path)
}

func (f *FileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.resolve(path))
	if err != nil {
		return nil, wrap(path, err)
	}
	return data, nil
}

func (f *FileSystem) ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.resolve(path))
	if err != nil {
		return nil, wrap(path, err)
	}
	return file, nil
}

func (f *FileSystem) Stat(ctx context.Context, path string) (fsx.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return fsx.FileInfo{}, err
	}
	info, err := os.Stat(f.resolve(path))
	if err != nil {
		return fsx.FileInfo{}, wrap(path, err)
	}
	return fsx.FileInfo{
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		IsDir:       info.IsDir(),
		ContentType: mime.TypeByExtension(filepath.Ext(info.Name())),
	}, nil
}

// Exists reports whether path names an existing regular file or directory
func (f *FileSystem) Exists(ctx context.Context, path string) (bool, error) {
	_, err := f.Stat(ctx, path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fsx.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func wrap(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, fsx.ErrNotExist)
	}
	return fmt.Errorf("%s: %w", path, err)
}
