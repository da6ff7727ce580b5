// Package embres lists and opens resources embedded into Go programs.
//
// Resources live in modules: go:embed file systems wrapped by FSModule, and attachments
// appended to the executable (see package embedding). Resource names are dot-separated,
// conventionally <Prefix>.<Qualifier...>.<Short>.<ext>, and can be looked up by their short name.
package embres

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// Module is a unit of compiled code hosting embedded resources.
type Module interface {
	// List returns the names of all resources in listing order.
	List() []string
	// Open returns a stream for the resource with exactly the given name.
	// Returns nil (and no error) if the module holds no such resource.
	Open(name string) (io.ReadCloser, error)
}

// ResourceName returns the dot-separated resource name for a slash-separated path below prefix.
//
//	ResourceName("App", "Assets/Icon.png") == "App.Assets.Icon.png"
func ResourceName(prefix, path string) string {
	name := strings.ReplaceAll(strings.Trim(path, "/"), "/", ".")
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// FSModule exposes the regular files of a file system, typically an embed.FS, as resources.
// Each file is named by ResourceName(prefix, path).
type FSModule struct {
	prefix string
	fsys   fs.FS
}

// NewFSModule returns a module serving the files of fsys.
func NewFSModule(prefix string, fsys fs.FS) *FSModule {
	return &FSModule{
		prefix: prefix,
		fsys:   fsys,
	}
}

// Prefix returns the name prefix shared by all resources of the module.
func (m *FSModule) Prefix() string {
	return m.prefix
}

// List returns the resource names of all regular files in lexical path order.
func (m *FSModule) List() []string {
	var names []string
	m.walk(func(name, _ string) bool {
		names = append(names, name)
		return true
	})
	return names
}

// Open opens the first file whose resource name equals name.
func (m *FSModule) Open(name string) (io.ReadCloser, error) {
	path := ""
	m.walk(func(n, p string) bool {
		if n != name {
			return true
		}
		path = p
		return false
	})
	if path == "" {
		return nil, nil
	}

	f, err := m.fsys.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open resource %q: %w", name, err)
	}
	return f, nil
}

// walk calls fn with the resource name and path of every regular file until fn returns false.
// Unreadable directories are skipped.
func (m *FSModule) walk(fn func(name, path string) bool) {
	_ = fs.WalkDir(m.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != "." {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !fn(ResourceName(m.prefix, path), path) {
			return fs.SkipAll
		}
		return nil
	})
}
