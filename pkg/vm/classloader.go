package vm

import (
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/daimatz/gojvm/pkg/classfile"
)

// ClassLoader loads classes by name, matching spec.md §2's "loader
// converts bytes -> Class" data flow and the teacher's own
// ClassLoader interface shape (generalized from *classfile.ClassFile
// to *classfile.Class).
type ClassLoader interface {
	LoadClass(name string) (*classfile.Class, error)
}

// UserClassLoader loads classes from an explicit preload cache first
// (populated from the command-line's positional class-file paths, per
// spec.md §6 — a class file's path carries no guarantee its basename
// matches its declared name) and falls back to searching an ordered
// list of classpath directories by name.
//
// This replaces the teacher's JmodClassLoader/UserClassLoader pair
// (pkg/vm/classloader.go): the teacher's two-loader delegation chain
// existed to let user classes fall back to a real java.base.jmod; this
// spec has no real JDK on disk, so the jmod-specific zip unpacking is
// dropped, but the "search several roots, cache what's found" shape is
// kept as a single generalized loader (see DESIGN.md).
type UserClassLoader struct {
	roots []string
	cache map[string]*classfile.Class
}

// NewUserClassLoader builds a loader that searches roots, in order,
// for "<name>.class" files.
func NewUserClassLoader(roots ...string) *UserClassLoader {
	return &UserClassLoader{
		roots: roots,
		cache: make(map[string]*classfile.Class),
	}
}

// Preload registers an already-parsed class under name, short-
// circuiting any later directory search for it. cmd/gojvm uses this
// for every class file named directly on the command line.
func (cl *UserClassLoader) Preload(name string, c *classfile.Class) {
	cl.cache[name] = c
}

func (cl *UserClassLoader) LoadClass(name string) (*classfile.Class, error) {
	if c, ok := cl.cache[name]; ok {
		return c, nil
	}
	var lastErr error
	for _, root := range cl.roots {
		path := filepath.Join(root, name+".class")
		c, err := classfile.ParseFile(path)
		if err != nil {
			lastErr = err
			continue
		}
		cl.cache[name] = c
		return c, nil
	}
	if lastErr != nil {
		return nil, errors.Wrapf(lastErr, "class %s not found on classpath", name)
	}
	return nil, errors.Errorf("class %s not found on classpath", name)
}
