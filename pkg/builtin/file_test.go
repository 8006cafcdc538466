package builtin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daimatz/gojvm/pkg/vm"
)

func newTestRuntime() *vm.VM {
	return vm.New(nil, nil, nil)
}

func TestFileInit(t *testing.T) {
	t.Run("stores the path argument on a fresh File object", func(t *testing.T) {
		rt := newTestRuntime()
		result, err := fileInit(rt, []vm.Val{vm.NullVal{}, vm.StrVal{V: "/tmp/data.txt"}})
		require.NoError(t, err)

		ref, ok := result.(vm.RefVal)
		require.True(t, ok)
		obj, live := rt.Fetch(ref)
		require.True(t, live)
		class, ok := obj.(vm.ClassVal)
		require.True(t, ok)
		require.Equal(t, "java/io/File", class.ClassName)
		require.Equal(t, vm.StrVal{V: "/tmp/data.txt"}, class.Fields["path"])
	})

	t.Run("rejects a missing path argument", func(t *testing.T) {
		_, err := fileInit(newTestRuntime(), []vm.Val{vm.NullVal{}})
		require.Error(t, err)
	})
}

func TestFileRegistryEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeting.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\nworld\n"), 0o644))

	rt := newTestRuntime()
	fileRef, err := fileInit(rt, []vm.Val{vm.NullVal{}, vm.StrVal{V: path}})
	require.NoError(t, err)

	scannerRef, err := scannerInit(rt, []vm.Val{vm.NullVal{}, fileRef})
	require.NoError(t, err)

	has, err := scannerHasNextLine(rt, []vm.Val{scannerRef})
	require.NoError(t, err)
	require.Equal(t, vm.IntVal{V: 1}, has)

	line, err := scannerNextLine(rt, []vm.Val{scannerRef})
	require.NoError(t, err)
	require.Equal(t, vm.StrVal{V: "hello"}, line)

	line, err = scannerNextLine(rt, []vm.Val{scannerRef})
	require.NoError(t, err)
	require.Equal(t, vm.StrVal{V: "world"}, line)
}
