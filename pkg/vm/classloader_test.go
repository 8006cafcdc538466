package vm

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daimatz/gojvm/pkg/classfile"
)

// minimalClassBytes hand-assembles the smallest class file the loader
// can round-trip: one public class, no fields, a single "main" method
// whose body is just `return`. Good enough to exercise LoadClass
// without depending on a javac-produced fixture.
func minimalClassBytes(className string) []byte {
	utf8 := func(s string) []byte {
		b := new(bytes.Buffer)
		b.WriteByte(classfile.TagUtf8)
		binary.Write(b, binary.BigEndian, uint16(len(s)))
		b.WriteString(s)
		return b.Bytes()
	}
	classEntry := func(nameIdx uint16) []byte {
		b := new(bytes.Buffer)
		b.WriteByte(classfile.TagClass)
		binary.Write(b, binary.BigEndian, nameIdx)
		return b.Bytes()
	}

	var pool [][]byte
	add := func(e []byte) uint16 {
		pool = append(pool, e)
		return uint16(len(pool))
	}

	nameIdx := add(utf8(className))
	thisIdx := add(classEntry(nameIdx))
	objNameIdx := add(utf8("java/lang/Object"))
	superIdx := add(classEntry(objNameIdx))
	mainNameIdx := add(utf8("main"))
	mainDescIdx := add(utf8("([Ljava/lang/String;)V"))
	codeNameIdx := add(utf8("Code"))

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, uint32(0xCAFEBABE))
	binary.Write(buf, binary.BigEndian, uint16(0))
	binary.Write(buf, binary.BigEndian, uint16(52))

	binary.Write(buf, binary.BigEndian, uint16(len(pool)+1))
	for _, e := range pool {
		buf.Write(e)
	}

	binary.Write(buf, binary.BigEndian, uint16(classfile.AccPublic|classfile.AccSuper))
	binary.Write(buf, binary.BigEndian, thisIdx)
	binary.Write(buf, binary.BigEndian, superIdx)
	binary.Write(buf, binary.BigEndian, uint16(0)) // interfaces
	binary.Write(buf, binary.BigEndian, uint16(0)) // fields

	binary.Write(buf, binary.BigEndian, uint16(1)) // methods
	binary.Write(buf, binary.BigEndian, uint16(classfile.AccPublic|classfile.AccMethodStatic))
	binary.Write(buf, binary.BigEndian, mainNameIdx)
	binary.Write(buf, binary.BigEndian, mainDescIdx)
	binary.Write(buf, binary.BigEndian, uint16(1)) // attributes

	binary.Write(buf, binary.BigEndian, codeNameIdx)
	code := []byte{0xb1} // return
	payload := new(bytes.Buffer)
	binary.Write(payload, binary.BigEndian, uint16(1)) // max_stack
	binary.Write(payload, binary.BigEndian, uint16(1)) // max_locals
	binary.Write(payload, binary.BigEndian, uint32(len(code)))
	payload.Write(code)
	binary.Write(buf, binary.BigEndian, uint32(payload.Len()))
	buf.Write(payload.Bytes())

	binary.Write(buf, binary.BigEndian, uint16(0)) // class attributes
	return buf.Bytes()
}

func writeClassFile(t *testing.T, dir, className string) {
	t.Helper()
	path := filepath.Join(dir, className+".class")
	require.NoError(t, os.WriteFile(path, minimalClassBytes(className), 0o644))
}

func mustParseHello(t *testing.T) *classfile.Class {
	t.Helper()
	c, err := classfile.Parse(bytes.NewReader(minimalClassBytes("Hello")))
	require.NoError(t, err)
	return c
}

func TestUserClassLoaderFromRoots(t *testing.T) {
	dir := t.TempDir()
	writeClassFile(t, dir, "Hello")
	cl := NewUserClassLoader(dir)

	t.Run("load Hello class", func(t *testing.T) {
		c, err := cl.LoadClass("Hello")
		require.NoError(t, err)
		name, err := c.ClassName()
		require.NoError(t, err)
		require.Equal(t, "Hello", name)
	})

	t.Run("class not found", func(t *testing.T) {
		_, err := cl.LoadClass("NonExistentClass")
		require.Error(t, err)
	})
}

func TestUserClassLoaderCache(t *testing.T) {
	dir := t.TempDir()
	writeClassFile(t, dir, "Hello")
	cl := NewUserClassLoader(dir)

	c1, err := cl.LoadClass("Hello")
	require.NoError(t, err)
	c2, err := cl.LoadClass("Hello")
	require.NoError(t, err)
	require.Same(t, c1, c2, "expected the cached instance on a second load")
}

func TestUserClassLoaderPreload(t *testing.T) {
	dir := t.TempDir()
	cl := NewUserClassLoader(dir)

	// Preload should short-circuit the directory search entirely, even
	// for a name whose file doesn't exist on any root.
	fake := mustParseHello(t)
	cl.Preload("NotOnDisk", fake)

	got, err := cl.LoadClass("NotOnDisk")
	require.NoError(t, err)
	require.Same(t, fake, got)
}
