package vm

import (
	"fmt"
	"sort"

	"github.com/daimatz/gojvm/pkg/classfile"
)

// popArgs pops n values off f's stack and returns them in call order
// (args[0] is the first argument): values come off the stack in
// reverse order, so the raw pops are reversed once before returning.
func popArgs(f *Frame, n int) []Val {
	args := make([]Val, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = f.Pop()
	}
	return args
}

// callUser builds a fresh frame for name on class and runs it to
// completion — the recursive-interpreter shape spec.md §5 describes
// ("nested interpreter invocations for user-defined callees").
func (v *VM) callUser(class *classfile.Class, name string, args []Val) (Val, error) {
	className, err := class.ClassName()
	if err != nil {
		return nil, err
	}
	m := class.FindMethodByName(name)
	if m == nil {
		return nil, errMethodNotFound(className, name)
	}
	f := v.newFrame(className, m, args)
	return v.execFrame(class, f)
}

func (v *VM) callBuiltin(owner, name string, args []Val) (Val, error) {
	b, ok := v.Builtins[owner]
	if !ok {
		return nil, errBuiltinNotFound(owner)
	}
	fn, ok := b.Method(name)
	if !ok {
		return nil, errBuiltinMethodNotFound(owner, name)
	}
	return fn(v, args)
}

// dispatchCall runs name/args against owner, whichever kind of class
// owner turns out to be.
func (v *VM) dispatchCall(owner, name string, args []Val) (Val, error) {
	class, _, isBuiltin := v.resolveClass(owner)
	if isBuiltin {
		return v.callBuiltin(owner, name, args)
	}
	if class == nil {
		return nil, errBuiltinNotFound(owner)
	}
	return v.callUser(class, name, args)
}

// invokeStatic implements spec.md §4.7's invokestatic rule.
func (v *VM) invokeStatic(class *classfile.Class, f *Frame, idx uint16) (Val, error) {
	owner, name, desc, err := classfile.ResolveMethodref(class.ConstantPool, idx)
	if err != nil {
		return nil, err
	}
	n, err := classfile.MethodArity(desc)
	if err != nil {
		return nil, err
	}
	args := popArgs(f, n)
	return v.dispatchCall(owner, name, args)
}

// invokeSpecial implements spec.md §4.7's invokespecial rule: N args
// popped and reversed, then `this` popped and prepended. A call to
// java/lang/Object's constructor is elided entirely (there is no root
// object class to run).
func (v *VM) invokeSpecial(class *classfile.Class, f *Frame, idx uint16) (Val, error) {
	owner, name, desc, err := classfile.ResolveMethodref(class.ConstantPool, idx)
	if err != nil {
		return nil, err
	}
	n, err := classfile.MethodArity(desc)
	if err != nil {
		return nil, err
	}
	args := popArgs(f, n)
	this := f.Pop()
	args = append([]Val{this}, args...)

	if owner == "java/lang/Object" {
		return NullVal{}, nil
	}
	return v.dispatchCall(owner, name, args)
}

// invokeVirtual implements spec.md §4.7's invokevirtual rule,
// including the hard-coded java/io/PrintStream println/print shim the
// spec requires in place of a real System.out field.
func (v *VM) invokeVirtual(class *classfile.Class, f *Frame, idx uint16) (Val, error) {
	owner, name, desc, err := classfile.ResolveMethodref(class.ConstantPool, idx)
	if err != nil {
		return nil, err
	}

	if owner == "java/io/PrintStream" {
		arg := f.Pop()
		v.printStream(arg)
		return NullVal{}, nil
	}

	n, err := classfile.MethodArity(desc)
	if err != nil {
		return nil, err
	}
	args := popArgs(f, n)

	static := false
	userClass, _, isBuiltin := v.resolveClass(owner)
	if !isBuiltin && userClass != nil {
		if m := userClass.FindMethodByName(name); m != nil {
			static = m.IsStatic()
		}
	}
	if !static {
		this := f.Pop()
		args = append([]Val{this}, args...)
	}
	return v.dispatchCall(owner, name, args)
}

// printStream reproduces vm.rs's invoke_virtual PrintStream shim:
// strings and numbers print directly, a Reference dereferences once —
// a boxed Boolean prints true/false by its value field, anything else
// prints its field map.
func (v *VM) printStream(arg Val) {
	switch val := arg.(type) {
	case StrVal:
		fmt.Println(val.V)
	case IntVal:
		fmt.Println(val.V)
	case FloatVal:
		fmt.Println(val.V)
	case RefVal:
		hv, live := v.Heap.Fetch(val.V)
		if !live {
			fmt.Println("null")
			return
		}
		switch obj := hv.(type) {
		case ClassVal:
			if obj.ClassName == "java/lang/Boolean" {
				if b, ok := obj.Fields["value"].(BoolVal); ok {
					fmt.Println(b.V)
					return
				}
			}
			printFields(obj.ClassName, obj.Fields)
		case BuiltinClassVal:
			printFields(obj.ClassName, obj.Fields)
		default:
			fmt.Printf("%v\n", hv)
		}
	default:
		fmt.Println(arg.String())
	}
}

func printFields(className string, fields map[string]Val) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("%s{", className)
	for i, k := range keys {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Printf("%s: %s", k, fields[k].String())
	}
	fmt.Println("}")
}
