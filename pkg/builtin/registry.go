// Package builtin implements the native class shims spec.md §4.9
// requires: a small, fixed subset of java/lang/* and
// java/util/Scanner, each grounded 1:1 on its counterpart in
// original_source/jjvm_vm/src/stdlib/*.rs. The teacher (daimatz-gojvm)
// has no equivalent registry — its built-in behavior lives inline in
// a large executeNativeMethod switch in pkg/vm/vm.go aimed at real
// JDK-internal signatures — so this package is authored fresh, in the
// shape the Rust original's BuiltinClass trait + get_builtins factory
// already suggest: one file per class, one map from class name to
// implementation.
package builtin

import "github.com/daimatz/gojvm/pkg/vm"

// Registry returns the six (not five — see below) built-in classes
// spec.md §4.9 names, keyed by their slash-separated class name.
//
// original_source/jjvm_vm/src/stdlib/mod.rs's get_builtins factory
// never wires java/lang/Math into its match arms even though
// stdlib/math.rs fully implements it — an evident omission in the
// original. SPEC_FULL.md's "Supplemented features" section restores
// it here.
func Registry() map[string]vm.BuiltinClass {
	return map[string]vm.BuiltinClass{
		"java/io/File":      fileClass{},
		"java/util/Scanner": scannerClass{},
		"java/lang/Boolean": booleanClass{},
		"java/lang/Integer": integerClass{},
		"java/lang/String":  stringClass{},
		"java/lang/Math":    mathClass{},
	}
}
