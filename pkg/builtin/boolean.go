package builtin

import "github.com/daimatz/gojvm/pkg/vm"

// booleanClass implements java/lang/Boolean, grounded on
// original_source/jjvm_vm/src/stdlib/boolean.rs. Unlike File and
// Scanner, Boolean's constructor is never actually used by the
// reference programs this spec covers — boxing goes through the
// static valueOf factory instead — so <init> is kept only for parity
// with the original, which also leaves it a no-op returning Null.
type booleanClass struct{}

func (booleanClass) Fields() []vm.FieldDecl {
	return []vm.FieldDecl{{Name: "value", Descriptor: "Z"}}
}

func (booleanClass) Method(name string) (vm.BuiltinMethod, bool) {
	switch name {
	case "<init>":
		return booleanInit, true
	case "valueOf":
		return booleanValueOf, true
	case "booleanValue":
		return booleanBooleanValue, true
	}
	return nil, false
}

func booleanInit(vm.Runtime, []vm.Val) (vm.Val, error) {
	return vm.NullVal{}, nil
}

// booleanValueOf boxes a primitive Bool into a heap-allocated
// java/lang/Boolean, returning a Reference to it.
func booleanValueOf(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 1 {
		return nil, errBadArgs("java/lang/Boolean.valueOf", "a boolean")
	}
	b, ok := args[0].(vm.BoolVal)
	if !ok {
		return nil, errBadType("java/lang/Boolean.valueOf", args[0])
	}
	ref := rt.Alloc(vm.ClassVal{
		ClassName: "java/lang/Boolean",
		Fields: map[string]vm.Val{
			"value": b,
		},
	})
	return ref, nil
}

// booleanBooleanValue unboxes args[0] (the `this` Reference) back to
// its underlying primitive.
func booleanBooleanValue(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 1 {
		return nil, errBadArgs("java/lang/Boolean.booleanValue", "this")
	}
	ref, ok := args[0].(vm.RefVal)
	if !ok {
		return nil, errBadType("java/lang/Boolean.booleanValue", args[0])
	}
	val, live := rt.Fetch(ref)
	if !live {
		return nil, errNullDeref("java/lang/Boolean.booleanValue")
	}
	obj, ok := val.(vm.ClassVal)
	if !ok {
		return nil, errBadType("java/lang/Boolean.booleanValue", val)
	}
	b, ok := obj.Fields["value"].(vm.BoolVal)
	if !ok {
		return nil, errBadType("java/lang/Boolean.booleanValue", obj.Fields["value"])
	}
	return b, nil
}
