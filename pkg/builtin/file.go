package builtin

import "github.com/daimatz/gojvm/pkg/vm"

// fileClass implements java/io/File, grounded on
// original_source/jjvm_vm/src/stdlib/file.rs.
type fileClass struct{}

func (fileClass) Fields() []vm.FieldDecl {
	return []vm.FieldDecl{{Name: "path", Descriptor: "Ljava/lang/String;"}}
}

func (fileClass) Method(name string) (vm.BuiltinMethod, bool) {
	switch name {
	case "<init>":
		return fileInit, true
	}
	return nil, false
}

// fileInit stores the constructor's path argument on a freshly
// allocated File object and returns its reference. args[0] is the
// `this` invokespecial prepends (unused — the real original's file.rs
// discards it the same way) and args[1] is the path.
func fileInit(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 2 {
		return nil, errBadArgs("java/io/File.<init>", "path")
	}
	ref := rt.Alloc(vm.ClassVal{
		ClassName: "java/io/File",
		Fields: map[string]vm.Val{
			"path": args[1],
		},
	})
	return ref, nil
}
