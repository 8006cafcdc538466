package classfile

import "github.com/pkg/errors"

// parseConstantPool reads the constant_pool_count - 1 raw entries
// described in SPEC_FULL.md's Class Loader section. Long and Double
// each occupy two logical slots in the pool's 1-based indexing (JVMS
// 4.4.5) — the loop below advances the loop index by one extra step
// for those tags, matching spec.md §9's corrected behavior rather than
// the single-slot bug the Rust original this spec was distilled from
// carries.
func parseConstantPool(r *reader, count uint16) ([]ConstantPoolEntry, error) {
	pool := make([]ConstantPoolEntry, count)
	for i := uint16(1); i < count; i++ {
		entry, err := parseConstantPoolEntry(r, i)
		if err != nil {
			return nil, err
		}
		pool[i] = entry
		switch entry.(type) {
		case *ConstantLong, *ConstantDouble:
			i++
		}
	}
	return pool, nil
}

func parseConstantPoolEntry(r *reader, index uint16) (ConstantPoolEntry, error) {
	tag, err := r.u1()
	if err != nil {
		return nil, errors.Wrapf(err, "reading tag at constant pool index %d", index)
	}

	switch tag {
	case TagUtf8:
		length, err := r.u2()
		if err != nil {
			return nil, err
		}
		b, err := r.bytes(uint32(length))
		if err != nil {
			return nil, err
		}
		return &ConstantUtf8{Value: decodeModifiedUTF8(b)}, nil

	case TagInteger:
		v, err := r.u4()
		if err != nil {
			return nil, err
		}
		return &ConstantInteger{Value: int32(v)}, nil

	case TagFloat:
		v, err := r.u4()
		if err != nil {
			return nil, err
		}
		return &ConstantFloat{Value: u32ToFloat32(v)}, nil

	case TagLong:
		v, err := r.u8()
		if err != nil {
			return nil, err
		}
		return &ConstantLong{Value: int64(v)}, nil

	case TagDouble:
		v, err := r.u8()
		if err != nil {
			return nil, err
		}
		return &ConstantDouble{Value: u64ToFloat64(v)}, nil

	case TagClass:
		nameIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		return &ConstantClass{NameIndex: nameIdx}, nil

	case TagString:
		strIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		return &ConstantString{StringIndex: strIdx}, nil

	case TagFieldref:
		classIdx, natIdx, err := r.u2pair()
		if err != nil {
			return nil, err
		}
		return &ConstantFieldref{ClassIndex: classIdx, NameAndTypeIndex: natIdx}, nil

	case TagMethodref:
		classIdx, natIdx, err := r.u2pair()
		if err != nil {
			return nil, err
		}
		return &ConstantMethodref{ClassIndex: classIdx, NameAndTypeIndex: natIdx}, nil

	case TagInterfaceMethodref:
		classIdx, natIdx, err := r.u2pair()
		if err != nil {
			return nil, err
		}
		return &ConstantInterfaceMethodref{ClassIndex: classIdx, NameAndTypeIndex: natIdx}, nil

	case TagNameAndType:
		nameIdx, descIdx, err := r.u2pair()
		if err != nil {
			return nil, err
		}
		return &ConstantNameAndType{NameIndex: nameIdx, DescriptorIndex: descIdx}, nil

	case TagMethodHandle:
		kind, err := r.u1()
		if err != nil {
			return nil, err
		}
		refIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		return &ConstantMethodHandle{ReferenceKind: kind, ReferenceIndex: refIdx}, nil

	case TagMethodType:
		descIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		return &ConstantMethodType{DescriptorIndex: descIdx}, nil

	case TagInvokeDynamic:
		bsmIdx, natIdx, err := r.u2pair()
		if err != nil {
			return nil, err
		}
		return &ConstantInvokeDynamic{BootstrapMethodAttrIndex: bsmIdx, NameAndTypeIndex: natIdx}, nil

	default:
		return nil, &BadConstantTagError{Index: index, Tag: tag}
	}
}

func (r *reader) u2pair() (uint16, uint16, error) {
	a, err := r.u2()
	if err != nil {
		return 0, 0, err
	}
	b, err := r.u2()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// GetUtf8 resolves index to the raw Utf8 string it names, failing if
// the slot is out of range or not a Utf8 entry.
func GetUtf8(pool []ConstantPoolEntry, index uint16) (string, error) {
	if int(index) >= len(pool) || pool[index] == nil {
		return "", &UnresolvableConstantError{Index: index, Reason: "index out of range"}
	}
	u, ok := pool[index].(*ConstantUtf8)
	if !ok {
		return "", &UnresolvableConstantError{Index: index, Reason: "not a Utf8 entry"}
	}
	return u.Value, nil
}

// GetClassName resolves a Class constant at index to its name string
// (the Class entry's name_index indirects through one Utf8 entry).
func GetClassName(pool []ConstantPoolEntry, index uint16) (string, error) {
	if int(index) >= len(pool) || pool[index] == nil {
		return "", &UnresolvableConstantError{Index: index, Reason: "index out of range"}
	}
	c, ok := pool[index].(*ConstantClass)
	if !ok {
		return "", &UnresolvableConstantError{Index: index, Reason: "not a Class entry"}
	}
	return GetUtf8(pool, c.NameIndex)
}

// Const is the resolved-constant tagged union produced by Resolve
// (spec.md §3/§4.3). Its variants are a bounded, owned subtree: depth
// is fixed by construction (MethodRef -> NameAndType -> strings),
// cycles are impossible.
type Const interface {
	constMarker()
}

type ConstStr struct{ Value string }

func (ConstStr) constMarker() {}

type ConstInt struct{ Value int32 }

func (ConstInt) constMarker() {}

type ConstFloat struct{ Value float32 }

func (ConstFloat) constMarker() {}

type ConstNameAndType struct {
	Name Const
	Desc Const
}

func (ConstNameAndType) constMarker() {}

type ConstFieldRef struct {
	Owner Const
	Nat   Const
}

func (ConstFieldRef) constMarker() {}

type ConstMethodRef struct {
	Owner Const
	Nat   Const
}

func (ConstMethodRef) constMarker() {}

// Resolve recursively follows constant-pool indirection into a Const
// tree, per SPEC_FULL.md's Constant-Pool Resolver module. Class and
// String entries indirect through exactly one Utf8; Field/Method refs
// resolve their owning Class and NameAndType children.
func Resolve(pool []ConstantPoolEntry, index uint16) (Const, error) {
	if int(index) >= len(pool) || pool[index] == nil {
		return nil, &UnresolvableConstantError{Index: index, Reason: "index out of range"}
	}

	switch e := pool[index].(type) {
	case *ConstantUtf8:
		return ConstStr{Value: e.Value}, nil

	case *ConstantClass:
		name, err := GetUtf8(pool, e.NameIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving Class at index %d", index)
		}
		return ConstStr{Value: name}, nil

	case *ConstantString:
		s, err := GetUtf8(pool, e.StringIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving String at index %d", index)
		}
		return ConstStr{Value: s}, nil

	case *ConstantInteger:
		return ConstInt{Value: e.Value}, nil

	case *ConstantFloat:
		return ConstFloat{Value: e.Value}, nil

	case *ConstantNameAndType:
		name, err := Resolve(pool, e.NameIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving NameAndType.name at index %d", index)
		}
		desc, err := Resolve(pool, e.DescriptorIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving NameAndType.descriptor at index %d", index)
		}
		return ConstNameAndType{Name: name, Desc: desc}, nil

	case *ConstantFieldref:
		owner, err := Resolve(pool, e.ClassIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving Fieldref.owner at index %d", index)
		}
		nat, err := Resolve(pool, e.NameAndTypeIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving Fieldref.nameAndType at index %d", index)
		}
		return ConstFieldRef{Owner: owner, Nat: nat}, nil

	case *ConstantMethodref:
		owner, err := Resolve(pool, e.ClassIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving Methodref.owner at index %d", index)
		}
		nat, err := Resolve(pool, e.NameAndTypeIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving Methodref.nameAndType at index %d", index)
		}
		return ConstMethodRef{Owner: owner, Nat: nat}, nil

	case *ConstantInterfaceMethodref:
		owner, err := Resolve(pool, e.ClassIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving InterfaceMethodref.owner at index %d", index)
		}
		nat, err := Resolve(pool, e.NameAndTypeIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving InterfaceMethodref.nameAndType at index %d", index)
		}
		return ConstMethodRef{Owner: owner, Nat: nat}, nil

	default:
		return nil, &UnresolvableConstantError{Index: index, Reason: "unsupported tag for resolution"}
	}
}

// ResolveMethodref resolves a Methodref/InterfaceMethodref constant
// into its owning class name, method name, and descriptor — the shape
// every invoke* opcode needs (SPEC_FULL.md §4.7).
func ResolveMethodref(pool []ConstantPoolEntry, index uint16) (owner, name, desc string, err error) {
	c, err := Resolve(pool, index)
	if err != nil {
		return "", "", "", err
	}
	mr, ok := c.(ConstMethodRef)
	if !ok {
		return "", "", "", &UnresolvableConstantError{Index: index, Reason: "not a Methodref"}
	}
	ownerStr, ok := mr.Owner.(ConstStr)
	if !ok {
		return "", "", "", &UnresolvableConstantError{Index: index, Reason: "Methodref owner is not a class name"}
	}
	nat, ok := mr.Nat.(ConstNameAndType)
	if !ok {
		return "", "", "", &UnresolvableConstantError{Index: index, Reason: "Methodref nameAndType malformed"}
	}
	nameStr, ok := nat.Name.(ConstStr)
	if !ok {
		return "", "", "", &UnresolvableConstantError{Index: index, Reason: "Methodref name is not a string"}
	}
	descStr, ok := nat.Desc.(ConstStr)
	if !ok {
		return "", "", "", &UnresolvableConstantError{Index: index, Reason: "Methodref descriptor is not a string"}
	}
	return ownerStr.Value, nameStr.Value, descStr.Value, nil
}

// ResolveFieldref mirrors ResolveMethodref for field references, used
// by getfield/putfield.
func ResolveFieldref(pool []ConstantPoolEntry, index uint16) (owner, name, desc string, err error) {
	c, err := Resolve(pool, index)
	if err != nil {
		return "", "", "", err
	}
	fr, ok := c.(ConstFieldRef)
	if !ok {
		return "", "", "", &UnresolvableConstantError{Index: index, Reason: "not a Fieldref"}
	}
	ownerStr, ok := fr.Owner.(ConstStr)
	if !ok {
		return "", "", "", &UnresolvableConstantError{Index: index, Reason: "Fieldref owner is not a class name"}
	}
	nat, ok := fr.Nat.(ConstNameAndType)
	if !ok {
		return "", "", "", &UnresolvableConstantError{Index: index, Reason: "Fieldref nameAndType malformed"}
	}
	nameStr, ok := nat.Name.(ConstStr)
	if !ok {
		return "", "", "", &UnresolvableConstantError{Index: index, Reason: "Fieldref name is not a string"}
	}
	descStr, ok := nat.Desc.(ConstStr)
	if !ok {
		return "", "", "", &UnresolvableConstantError{Index: index, Reason: "Fieldref descriptor is not a string"}
	}
	return ownerStr.Value, nameStr.Value, descStr.Value, nil
}
