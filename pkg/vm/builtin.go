package vm

import "github.com/daimatz/gojvm/pkg/heap"

// FieldDecl is one field a built-in class declares, used to seed the
// field map when `new` allocates an instance of it (spec.md §4.6's
// object-model rule: "otherwise allocate a Class seeded with the
// built-in's declared fields").
type FieldDecl struct {
	Name       string
	Descriptor string
}

// Runtime is the slice of VM state a built-in method needs: heap
// access. Built-ins live in pkg/builtin, which imports pkg/vm for Val
// and this interface; pkg/vm never imports pkg/builtin back, so the
// concrete registry is wired up by the caller (cmd/gojvm) instead of
// being constructed inside pkg/vm — the same inversion the teacher
// uses for ClassLoader.
type Runtime interface {
	Alloc(v heap.Value) RefVal
	Fetch(ref RefVal) (heap.Value, bool)
}

// BuiltinMethod is the signature every native shim method implements,
// grounded on original_source/jjvm_vm/src/stdlib/class.rs's
// `fn(&mut VM, Vec<JvmVal>) -> JvmVal`, translated into an error-
// returning Go func per spec.md §7.
type BuiltinMethod func(rt Runtime, args []Val) (Val, error)

// BuiltinClass is implemented by every native shim in pkg/builtin,
// mirroring the Rust BuiltinClass trait's get_fields/get_method shape
// (spec.md §4.9).
type BuiltinClass interface {
	Fields() []FieldDecl
	Method(name string) (BuiltinMethod, bool)
}
