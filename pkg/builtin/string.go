package builtin

import (
	"strings"

	"github.com/daimatz/gojvm/pkg/vm"
)

// stringClass implements java/lang/String, grounded on
// original_source/jjvm_vm/src/stdlib/string.rs.
type stringClass struct{}

func (stringClass) Fields() []vm.FieldDecl { return nil }

func (stringClass) Method(name string) (vm.BuiltinMethod, bool) {
	switch name {
	case "split":
		return stringSplit, true
	case "hashCode":
		return stringHashCode, true
	case "equals":
		return stringEquals, true
	}
	return nil, false
}

// stringSplit splits args[0] on the literal space character, allocating
// each piece as its own heap-stored Str and returning a Reference to a
// heap-stored Array of References to them (spec.md §4.9's String.split).
func stringSplit(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 1 {
		return nil, errBadArgs("java/lang/String.split", "this")
	}
	s, ok := args[0].(vm.StrVal)
	if !ok {
		return nil, errBadType("java/lang/String.split", args[0])
	}
	parts := strings.Split(s.V, " ")
	elems := make([]vm.Val, len(parts))
	for i, p := range parts {
		elems[i] = rt.Alloc(vm.StrVal{V: p})
	}
	return rt.Alloc(vm.ArrayVal{Elems: elems}), nil
}

func stringOperand(rt vm.Runtime, v vm.Val) (string, error) {
	switch s := v.(type) {
	case vm.StrVal:
		return s.V, nil
	case vm.RefVal:
		val, live := rt.Fetch(s)
		if !live {
			return "", errNullDeref("java/lang/String")
		}
		str, ok := val.(vm.StrVal)
		if !ok {
			return "", errBadType("java/lang/String", val)
		}
		return str.V, nil
	default:
		return "", errBadType("java/lang/String", v)
	}
}

// stringHashCode computes Java's String.hashCode polynomial formula:
// s[0]*31^(n-1) + s[1]*31^(n-2) + ... + s[n-1], over int32 wraparound.
func stringHashCode(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 1 {
		return nil, errBadArgs("java/lang/String.hashCode", "this")
	}
	s, err := stringOperand(rt, args[0])
	if err != nil {
		return nil, err
	}
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	return vm.IntVal{V: h}, nil
}

func stringEquals(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 2 {
		return nil, errBadArgs("java/lang/String.equals", "this, other")
	}
	a, err := stringOperand(rt, args[0])
	if err != nil {
		return nil, err
	}
	b, err := stringOperand(rt, args[1])
	if err != nil {
		return nil, err
	}
	return vm.BoolVal{V: a == b}, nil
}
