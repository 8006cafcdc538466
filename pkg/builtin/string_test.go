package builtin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daimatz/gojvm/pkg/vm"
)

func TestStringSplit(t *testing.T) {
	rt := newTestRuntime()
	result, err := stringSplit(rt, []vm.Val{vm.StrVal{V: "one two three"}})
	require.NoError(t, err)

	arrRef, ok := result.(vm.RefVal)
	require.True(t, ok)
	arrVal, live := rt.Fetch(arrRef)
	require.True(t, live)
	arr, ok := arrVal.(vm.ArrayVal)
	require.True(t, ok)
	require.Len(t, arr.Elems, 3)

	want := []string{"one", "two", "three"}
	for i, elem := range arr.Elems {
		ref, ok := elem.(vm.RefVal)
		require.True(t, ok)
		val, live := rt.Fetch(ref)
		require.True(t, live)
		require.Equal(t, vm.StrVal{V: want[i]}, val)
	}
}

func TestStringHashCode(t *testing.T) {
	rt := newTestRuntime()

	t.Run("matches Java's polynomial formula", func(t *testing.T) {
		// "abc".hashCode() == 96354
		result, err := stringHashCode(rt, []vm.Val{vm.StrVal{V: "abc"}})
		require.NoError(t, err)
		require.Equal(t, vm.IntVal{V: 96354}, result)
	})

	t.Run("empty string hashes to zero", func(t *testing.T) {
		result, err := stringHashCode(rt, []vm.Val{vm.StrVal{V: ""}})
		require.NoError(t, err)
		require.Equal(t, vm.IntVal{V: 0}, result)
	})

	t.Run("dereferences a heap reference", func(t *testing.T) {
		ref := rt.Alloc(vm.StrVal{V: "abc"})
		result, err := stringHashCode(rt, []vm.Val{ref})
		require.NoError(t, err)
		require.Equal(t, vm.IntVal{V: 96354}, result)
	})
}

func TestStringEquals(t *testing.T) {
	rt := newTestRuntime()

	t.Run("equal strings", func(t *testing.T) {
		result, err := stringEquals(rt, []vm.Val{vm.StrVal{V: "x"}, vm.StrVal{V: "x"}})
		require.NoError(t, err)
		require.Equal(t, vm.BoolVal{V: true}, result)
	})

	t.Run("unequal strings", func(t *testing.T) {
		result, err := stringEquals(rt, []vm.Val{vm.StrVal{V: "x"}, vm.StrVal{V: "y"}})
		require.NoError(t, err)
		require.Equal(t, vm.BoolVal{V: false}, result)
	})
}
