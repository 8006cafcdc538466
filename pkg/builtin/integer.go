package builtin

import (
	"strconv"

	"github.com/daimatz/gojvm/pkg/vm"
)

// integerClass implements java/lang/Integer, grounded on
// original_source/jjvm_vm/src/stdlib/integer.rs for <init> and
// parseInt. That original never implements valueOf/intValue, but
// spec.md §4.9 requires both explicitly — implemented here as the identity:
// an Integer is represented unboxed as a plain Int, so valueOf and
// intValue both just pass their argument through unchanged.
type integerClass struct{}

func (integerClass) Fields() []vm.FieldDecl {
	return []vm.FieldDecl{{Name: "value", Descriptor: "I"}}
}

func (integerClass) Method(name string) (vm.BuiltinMethod, bool) {
	switch name {
	case "<init>":
		return integerInit, true
	case "parseInt":
		return integerParseInt, true
	case "valueOf":
		return integerValueOf, true
	case "intValue":
		return integerIntValue, true
	}
	return nil, false
}

func integerInit(vm.Runtime, []vm.Val) (vm.Val, error) {
	return vm.NullVal{}, nil
}

func integerParseInt(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 1 {
		return nil, errBadArgs("java/lang/Integer.parseInt", "a string")
	}
	s, ok := args[0].(vm.StrVal)
	if !ok {
		return nil, errBadType("java/lang/Integer.parseInt", args[0])
	}
	n, err := strconv.ParseInt(s.V, 10, 32)
	if err != nil {
		return nil, err
	}
	return vm.IntVal{V: int32(n)}, nil
}

// integerValueOf is the identity on Int: this VM represents a boxed
// Integer as an unboxed Int rather than a heap Reference (DESIGN.md's
// open-question decision), so there is nothing to allocate.
func integerValueOf(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 1 {
		return nil, errBadArgs("java/lang/Integer.valueOf", "an int")
	}
	i, ok := args[0].(vm.IntVal)
	if !ok {
		return nil, errBadType("java/lang/Integer.valueOf", args[0])
	}
	return i, nil
}

func integerIntValue(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 1 {
		return nil, errBadArgs("java/lang/Integer.intValue", "this")
	}
	i, ok := args[0].(vm.IntVal)
	if !ok {
		return nil, errBadType("java/lang/Integer.intValue", args[0])
	}
	return i, nil
}
