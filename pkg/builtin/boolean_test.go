package builtin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daimatz/gojvm/pkg/vm"
)

func TestBooleanBoxRoundTrip(t *testing.T) {
	rt := newTestRuntime()

	t.Run("valueOf boxes true", func(t *testing.T) {
		ref, err := booleanValueOf(rt, []vm.Val{vm.BoolVal{V: true}})
		require.NoError(t, err)

		back, err := booleanBooleanValue(rt, []vm.Val{ref})
		require.NoError(t, err)
		require.Equal(t, vm.BoolVal{V: true}, back)
	})

	t.Run("valueOf boxes false", func(t *testing.T) {
		ref, err := booleanValueOf(rt, []vm.Val{vm.BoolVal{V: false}})
		require.NoError(t, err)

		back, err := booleanBooleanValue(rt, []vm.Val{ref})
		require.NoError(t, err)
		require.Equal(t, vm.BoolVal{V: false}, back)
	})

	t.Run("valueOf rejects a non-boolean", func(t *testing.T) {
		_, err := booleanValueOf(rt, []vm.Val{vm.IntVal{V: 1}})
		require.Error(t, err)
	})

	t.Run("init is a no-op", func(t *testing.T) {
		result, err := booleanInit(rt, nil)
		require.NoError(t, err)
		require.Equal(t, vm.NullVal{}, result)
	})
}
