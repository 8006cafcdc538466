package vm

import "fmt"

// InterpreterError wraps the opcode-level failures named in spec.md
// §7. The reference implementation this spec was distilled from halts
// the process on any of these; this VM instead returns them so an
// embedding entry point (cmd/gojvm) can report a diagnostic and exit
// with a nonzero status without special-casing panics.
type InterpreterError struct {
	Kind   string
	Detail string
	Class  string
	Method string
	IP     int
}

func (e *InterpreterError) Error() string {
	return fmt.Sprintf("%s: %s (%s.%s @%d)", e.Kind, e.Detail, e.Class, e.Method, e.IP)
}

func newErr(kind, detail string, f *Frame) *InterpreterError {
	e := &InterpreterError{Kind: kind, Detail: detail}
	if f != nil {
		e.Method = f.MethodName
		e.Class = f.ClassName
		e.IP = f.IP
	}
	return e
}

func errMethodNotFound(class, method string) error {
	return &InterpreterError{Kind: "MethodNotFound", Detail: method, Class: class}
}

func errUnsupportedOpcode(op byte, f *Frame) error {
	return newErr("UnsupportedOpcode", fmt.Sprintf("0x%02x", op), f)
}

func errTypeMismatch(detail string, f *Frame) error {
	return newErr("TypeMismatch", detail, f)
}

func errNullDereference(detail string, f *Frame) error {
	return newErr("NullDereference", detail, f)
}

func errBuiltinNotFound(class string) error {
	return &InterpreterError{Kind: "BuiltinNotFound", Detail: class, Class: class}
}

func errBuiltinMethodNotFound(class, method string) error {
	return &InterpreterError{Kind: "BuiltinMethodNotFound", Detail: method, Class: class, Method: method}
}
