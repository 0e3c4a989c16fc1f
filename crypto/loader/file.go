// This file implements the loader on the file system. The daemon and the
// client commands keep their long term keys in such files.
//
// Documentation Last Review: 25.08.2026
//

package loader

import (
	"io"
	"os"

	"golang.org/x/xerrors"
)

// FileLoader is a loader that stores the newly generated keys to a file.
//
// - implements loader.Loader
type fileLoader struct {
	path string

	statFn     func(path string) (os.FileInfo, error)
	openFn     func(path string) (*os.File, error)
	openFileFn func(path string, flags int, perms os.FileMode) (*os.File, error)
}

// NewFileLoader creates a new loader for the file at the given path.
func NewFileLoader(path string) Loader {
	return fileLoader{
		path:       path,
		statFn:     os.Stat,
		openFn:     os.Open,
		openFileFn: os.OpenFile,
	}
}

// LoadOrCreate implements loader.Loader. It loads the key from the file when
// it exists, otherwise it generates a new one and writes it to the file. The
// file is created with read-only permission for the current user (0400).
func (l fileLoader) LoadOrCreate(g Generator) ([]byte, error) {
	_, err := l.statFn(l.path)
	if !os.IsNotExist(err) {
		data, err := l.Load()
		if err != nil {
			return nil, xerrors.Errorf("failed to load file: %v", err)
		}

		return data, nil
	}

	data, err := g.Generate()
	if err != nil {
		return nil, xerrors.Errorf("generator failed: %v", err)
	}

	file, err := l.openFileFn(l.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0400)
	if err != nil {
		return nil, xerrors.Errorf("while creating file: %v", err)
	}

	defer file.Close()

	_, err = file.Write(data)
	if err != nil {
		return nil, xerrors.Errorf("while writing: %v", err)
	}

	return data, nil
}

// Load implements loader.Loader. It loads the key from the file if it exists,
// otherwise it returns an error.
func (l fileLoader) Load() ([]byte, error) {
	file, err := l.openFn(l.path)
	if err != nil {
		return nil, xerrors.Errorf("while opening file: %v", err)
	}

	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, xerrors.Errorf("while reading file: %v", err)
	}

	return data, nil
}
