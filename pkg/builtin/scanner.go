package builtin

import (
	"os"
	"strings"

	"github.com/daimatz/gojvm/pkg/vm"
)

// scannerClass implements java/util/Scanner, grounded on
// original_source/jjvm_vm/src/stdlib/scanner.rs. Lines are split
// naively on '\n' (a trailing newline therefore produces one extra,
// empty final "line") to match the reference behavior exactly.
type scannerClass struct{}

func (scannerClass) Fields() []vm.FieldDecl {
	return []vm.FieldDecl{{Name: "path", Descriptor: "Ljava/lang/String;"}}
}

func (scannerClass) Method(name string) (vm.BuiltinMethod, bool) {
	switch name {
	case "<init>":
		return scannerInit, true
	case "hasNextLine":
		return scannerHasNextLine, true
	case "nextLine":
		return scannerNextLine, true
	case "close":
		return scannerClose, true
	}
	return nil, false
}

func scannerFileRef(rt vm.Runtime, v vm.Val) (string, error) {
	ref, ok := v.(vm.RefVal)
	if !ok {
		return "", errBadType("java/util/Scanner.<init>", v)
	}
	val, live := rt.Fetch(ref)
	if !live {
		return "", errNullDeref("java/util/Scanner.<init>")
	}
	fileObj, ok := val.(vm.ClassVal)
	if !ok {
		return "", errBadType("java/util/Scanner.<init>", val)
	}
	pathVal, ok := fileObj.Fields["path"]
	if !ok {
		return "", errBadArgs("java/util/Scanner.<init>", "path field")
	}
	pathStr, ok := pathVal.(vm.StrVal)
	if !ok {
		return "", errBadType("java/util/Scanner.<init>", pathVal)
	}
	return pathStr.V, nil
}

// scannerInit reads args[1] (a File reference) into memory. args[0] is
// the `this` invokespecial prepends.
func scannerInit(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 2 {
		return nil, errBadArgs("java/util/Scanner.<init>", "File reference")
	}
	path, err := scannerFileRef(rt, args[1])
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ref := rt.Alloc(vm.ClassVal{
		ClassName: "java/util/Scanner",
		Fields: map[string]vm.Val{
			"content":      vm.StrVal{V: string(content)},
			"line_pointer": vm.IntVal{V: 0},
		},
	})
	return ref, nil
}

func scannerState(rt vm.Runtime, this vm.Val) (vm.ClassVal, error) {
	ref, ok := this.(vm.RefVal)
	if !ok {
		return vm.ClassVal{}, errBadType("java/util/Scanner", this)
	}
	val, live := rt.Fetch(ref)
	if !live {
		return vm.ClassVal{}, errNullDeref("java/util/Scanner")
	}
	obj, ok := val.(vm.ClassVal)
	if !ok {
		return vm.ClassVal{}, errBadType("java/util/Scanner", val)
	}
	return obj, nil
}

func scannerHasNextLine(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 1 {
		return nil, errBadArgs("java/util/Scanner.hasNextLine", "this")
	}
	obj, err := scannerState(rt, args[0])
	if err != nil {
		return nil, err
	}
	pointer, ok := obj.Fields["line_pointer"].(vm.IntVal)
	if !ok {
		return nil, errBadType("java/util/Scanner.hasNextLine", obj.Fields["line_pointer"])
	}
	content, ok := obj.Fields["content"].(vm.StrVal)
	if !ok {
		return nil, errBadType("java/util/Scanner.hasNextLine", obj.Fields["content"])
	}
	lines := strings.Split(content.V, "\n")
	if int(pointer.V) < len(lines) {
		return vm.IntVal{V: 1}, nil
	}
	return vm.IntVal{V: 0}, nil
}

func scannerNextLine(rt vm.Runtime, args []vm.Val) (vm.Val, error) {
	if len(args) < 1 {
		return nil, errBadArgs("java/util/Scanner.nextLine", "this")
	}
	obj, err := scannerState(rt, args[0])
	if err != nil {
		return nil, err
	}
	pointer, ok := obj.Fields["line_pointer"].(vm.IntVal)
	if !ok {
		return nil, errBadType("java/util/Scanner.nextLine", obj.Fields["line_pointer"])
	}
	content, ok := obj.Fields["content"].(vm.StrVal)
	if !ok {
		return nil, errBadType("java/util/Scanner.nextLine", obj.Fields["content"])
	}
	pointer.V++
	obj.Fields["line_pointer"] = pointer

	lines := strings.Split(content.V, "\n")
	idx := int(pointer.V) - 1
	if idx < 0 || idx >= len(lines) {
		return nil, errBadArgs("java/util/Scanner.nextLine", "a remaining line")
	}
	return vm.StrVal{V: lines[idx]}, nil
}

func scannerClose(vm.Runtime, []vm.Val) (vm.Val, error) {
	return vm.NullVal{}, nil
}
