// Package archive gives read access to a packaged resource set: either a
// plain directory or a zip file.
package archive

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// Archive is a read-only file tree holding a game's scripts and assets.
type Archive struct {
	name   string
	fsys   fs.FS
	closer io.Closer
}

// Open opens name as a zip file when it has a .zip extension and as a
// directory otherwise.
func Open(name string) (*Archive, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open archive %s", name)
	}

	if info.IsDir() {
		return &Archive{name: name, fsys: os.DirFS(name)}, nil
	}

	if !strings.EqualFold(path.Ext(name), ".zip") {
		return nil, errors.Errorf("archive %s is neither a directory nor a zip file", name)
	}

	zr, err := zip.OpenReader(name)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read zip archive %s", name)
	}
	return &Archive{name: name, fsys: zr, closer: zr}, nil
}

// FromFS wraps an existing file system, e.g. an embedded one
func FromFS(name string, fsys fs.FS) *Archive {
	return &Archive{name: name, fsys: fsys}
}

// Name returns the path the archive was opened from
func (a *Archive) Name() string {
	return a.name
}

// FS exposes the archive as an fs.FS
func (a *Archive) FS() fs.FS {
	return a.fsys
}

// ReadFile returns the content of a file in the archive
func (a *Archive) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(a.fsys, clean(name))
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s from %s", name, a.name)
	}
	return data, nil
}

// Text returns a text resource, e.g. a level or a scene's data file
func (a *Archive) Text(name string) (string, error) {
	data, err := a.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Exists reports whether name is a file in the archive
func (a *Archive) Exists(name string) bool {
	info, err := fs.Stat(a.fsys, clean(name))
	return err == nil && !info.IsDir()
}

// Close releases the zip reader, if any
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// clean turns a script-style path into an fs.FS path
func clean(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Clean("/" + name)
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "."
	}
	return name
}
