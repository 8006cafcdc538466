package builtin

import (
	"math"

	"github.com/daimatz/gojvm/pkg/vm"
)

// mathClass implements java/lang/Math, grounded on
// original_source/jjvm_vm/src/stdlib/math.rs. SPEC_FULL.md's
// SUPPLEMENTED FEATURES section wires this class into Registry even
// though mod.rs's get_builtins never reaches it.
type mathClass struct{}

func (mathClass) Fields() []vm.FieldDecl { return nil }

func (mathClass) Method(name string) (vm.BuiltinMethod, bool) {
	switch name {
	case "abs":
		return mathAbs, true
	case "ceil":
		return mathCeil, true
	case "floor":
		return mathFloor, true
	case "min":
		return mathMin, true
	}
	return nil, false
}

func mathAbs(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 1 {
		return nil, errBadArgs("java/lang/Math.abs", "a number")
	}
	switch n := args[0].(type) {
	case vm.IntVal:
		if n.V < 0 {
			n.V = -n.V
		}
		return n, nil
	case vm.LongVal:
		if n.V < 0 {
			n.V = -n.V
		}
		return n, nil
	case vm.FloatVal:
		return vm.FloatVal{V: float32(math.Abs(float64(n.V)))}, nil
	case vm.DoubleVal:
		return vm.DoubleVal{V: math.Abs(n.V)}, nil
	default:
		return nil, errBadType("java/lang/Math.abs", args[0])
	}
}

func mathCeil(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 1 {
		return nil, errBadArgs("java/lang/Math.ceil", "a number")
	}
	switch n := args[0].(type) {
	case vm.FloatVal:
		return vm.FloatVal{V: float32(math.Ceil(float64(n.V)))}, nil
	case vm.DoubleVal:
		return vm.DoubleVal{V: math.Ceil(n.V)}, nil
	default:
		return nil, errBadType("java/lang/Math.ceil", args[0])
	}
}

func mathFloor(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 1 {
		return nil, errBadArgs("java/lang/Math.floor", "a number")
	}
	switch n := args[0].(type) {
	case vm.FloatVal:
		return vm.FloatVal{V: float32(math.Floor(float64(n.V)))}, nil
	case vm.DoubleVal:
		return vm.DoubleVal{V: math.Floor(n.V)}, nil
	default:
		return nil, errBadType("java/lang/Math.floor", args[0])
	}
}

// mathMin reduces over every argument of the first argument's variant,
// matching the Rust original's variadic fold rather than a fixed
// two-argument signature.
func mathMin(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 1 {
		return nil, errBadArgs("java/lang/Math.min", "at least one number")
	}
	switch args[0].(type) {
	case vm.IntVal:
		best := args[0].(vm.IntVal)
		for _, a := range args[1:] {
			n, ok := a.(vm.IntVal)
			if !ok {
				return nil, errBadType("java/lang/Math.min", a)
			}
			if n.V < best.V {
				best = n
			}
		}
		return best, nil
	case vm.LongVal:
		best := args[0].(vm.LongVal)
		for _, a := range args[1:] {
			n, ok := a.(vm.LongVal)
			if !ok {
				return nil, errBadType("java/lang/Math.min", a)
			}
			if n.V < best.V {
				best = n
			}
		}
		return best, nil
	case vm.FloatVal:
		best := args[0].(vm.FloatVal)
		for _, a := range args[1:] {
			n, ok := a.(vm.FloatVal)
			if !ok {
				return nil, errBadType("java/lang/Math.min", a)
			}
			if n.V < best.V {
				best = n
			}
		}
		return best, nil
	case vm.DoubleVal:
		best := args[0].(vm.DoubleVal)
		for _, a := range args[1:] {
			n, ok := a.(vm.DoubleVal)
			if !ok {
				return nil, errBadType("java/lang/Math.min", a)
			}
			if n.V < best.V {
				best = n
			}
		}
		return best, nil
	default:
		return nil, errBadType("java/lang/Math.min", args[0])
	}
}
