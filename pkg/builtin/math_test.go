package builtin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daimatz/gojvm/pkg/vm"
)

func TestMathAbs(t *testing.T) {
	rt := newTestRuntime()

	t.Run("negative int", func(t *testing.T) {
		result, err := mathAbs(rt, []vm.Val{vm.IntVal{V: -5}})
		require.NoError(t, err)
		require.Equal(t, vm.IntVal{V: 5}, result)
	})

	t.Run("positive double passes through", func(t *testing.T) {
		result, err := mathAbs(rt, []vm.Val{vm.DoubleVal{V: 3.5}})
		require.NoError(t, err)
		require.Equal(t, vm.DoubleVal{V: 3.5}, result)
	})

	t.Run("rejects a non-numeric argument", func(t *testing.T) {
		_, err := mathAbs(rt, []vm.Val{vm.StrVal{V: "nope"}})
		require.Error(t, err)
	})
}

func TestMathCeilFloor(t *testing.T) {
	rt := newTestRuntime()

	ceil, err := mathCeil(rt, []vm.Val{vm.DoubleVal{V: 1.2}})
	require.NoError(t, err)
	require.Equal(t, vm.DoubleVal{V: 2}, ceil)

	floor, err := mathFloor(rt, []vm.Val{vm.DoubleVal{V: 1.8}})
	require.NoError(t, err)
	require.Equal(t, vm.DoubleVal{V: 1}, floor)

	t.Run("ceil rejects an int argument", func(t *testing.T) {
		_, err := mathCeil(rt, []vm.Val{vm.IntVal{V: 1}})
		require.Error(t, err)
	})
}

func TestMathMinVariadicFold(t *testing.T) {
	rt := newTestRuntime()

	t.Run("picks the smallest of several ints", func(t *testing.T) {
		result, err := mathMin(rt, []vm.Val{
			vm.IntVal{V: 5}, vm.IntVal{V: -2}, vm.IntVal{V: 9},
		})
		require.NoError(t, err)
		require.Equal(t, vm.IntVal{V: -2}, result)
	})

	t.Run("single argument returns itself", func(t *testing.T) {
		result, err := mathMin(rt, []vm.Val{vm.DoubleVal{V: 4.5}})
		require.NoError(t, err)
		require.Equal(t, vm.DoubleVal{V: 4.5}, result)
	})

	t.Run("mismatched variants error out", func(t *testing.T) {
		_, err := mathMin(rt, []vm.Val{vm.IntVal{V: 1}, vm.FloatVal{V: 2}})
		require.Error(t, err)
	})
}
