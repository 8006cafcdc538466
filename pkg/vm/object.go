package vm

// allocNew implements the `new` opcode's object-model rule (spec.md
// §4.6): a user class gets every declared field defaulted to Int(0); a
// built-in gets every declared field defaulted to Null, since built-in
// field descriptors are not all numeric and the spec leaves the
// built-in default unspecified (DESIGN.md's open-question decision).
func (v *VM) allocNew(name string) (Val, error) {
	class, builtin, isBuiltin := v.resolveClass(name)
	if isBuiltin {
		fields := make(map[string]Val)
		for _, fd := range builtin.Fields() {
			fields[fd.Name] = NullVal{}
		}
		return v.Alloc(BuiltinClassVal{ClassName: name, Fields: fields}), nil
	}
	if class == nil {
		return nil, errBuiltinNotFound(name)
	}
	fields := make(map[string]Val)
	for _, fd := range class.Fields {
		fields[fd.Name] = IntVal{V: 0}
	}
	return v.Alloc(ClassVal{ClassName: name, Fields: fields}), nil
}

func (v *VM) fieldMap(ref RefVal) (map[string]Val, error) {
	hv, live := v.Heap.Fetch(ref.V)
	if !live {
		return nil, errNullDereference("dereferenced a dead object", nil)
	}
	switch obj := hv.(type) {
	case ClassVal:
		return obj.Fields, nil
	case BuiltinClassVal:
		return obj.Fields, nil
	default:
		return nil, errTypeMismatch("field access on a non-object value", nil)
	}
}

func (v *VM) setField(ref RefVal, name string, value Val) error {
	fields, err := v.fieldMap(ref)
	if err != nil {
		return err
	}
	fields[name] = value
	return nil
}

func (v *VM) getField(ref RefVal, name string) (Val, error) {
	fields, err := v.fieldMap(ref)
	if err != nil {
		return nil, err
	}
	val, ok := fields[name]
	if !ok {
		return NullVal{}, nil
	}
	return val, nil
}
