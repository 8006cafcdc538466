package builtin

import "fmt"

func errBadArgs(method string, want string) error {
	return fmt.Errorf("%s: expected %s argument(s)", method, want)
}

func errBadType(method string, got interface{}) error {
	return fmt.Errorf("%s: unexpected argument type %T", method, got)
}

func errNullDeref(method string) error {
	return fmt.Errorf("%s: dereferenced a dead or null reference", method)
}
