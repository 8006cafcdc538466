package classfile

import (
	"io"

	"github.com/pkg/errors"
)

const classMagic = 0xCAFEBABE

// ParseFile opens path and parses it as a class file.
func ParseFile(path string) (*Class, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening class file %s", path)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a single class file from r in the fixed order documented
// in SPEC_FULL.md's Class Loader section: magic, versions, constant
// pool, access flags, this/super class, interfaces, fields, methods,
// attributes.
func Parse(r io.Reader) (*Class, error) {
	br := newReader(r)

	magic, err := br.u4()
	if err != nil {
		return nil, errors.Wrap(err, "reading magic")
	}
	if magic != classMagic {
		return nil, errors.Errorf("bad magic number 0x%08X, want 0x%08X", magic, classMagic)
	}

	minor, err := br.u2()
	if err != nil {
		return nil, errors.Wrap(err, "reading minor version")
	}
	major, err := br.u2()
	if err != nil {
		return nil, errors.Wrap(err, "reading major version")
	}

	cpCount, err := br.u2()
	if err != nil {
		return nil, errors.Wrap(err, "reading constant pool count")
	}
	pool, err := parseConstantPool(br, cpCount)
	if err != nil {
		return nil, errors.Wrap(err, "parsing constant pool")
	}

	accessFlags, err := br.u2()
	if err != nil {
		return nil, errors.Wrap(err, "reading access flags")
	}
	thisClass, err := br.u2()
	if err != nil {
		return nil, errors.Wrap(err, "reading this_class")
	}
	superClass, err := br.u2()
	if err != nil {
		return nil, errors.Wrap(err, "reading super_class")
	}

	interfaces, err := parseInterfaces(br)
	if err != nil {
		return nil, errors.Wrap(err, "parsing interfaces")
	}

	fields, err := parseFields(br, pool)
	if err != nil {
		return nil, errors.Wrap(err, "parsing fields")
	}

	methods, err := parseMethods(br, pool)
	if err != nil {
		return nil, errors.Wrap(err, "parsing methods")
	}

	attrs, err := parseAttributes(br, pool)
	if err != nil {
		return nil, errors.Wrap(err, "parsing class attributes")
	}

	return &Class{
		MinorVersion: minor,
		MajorVersion: major,
		ConstantPool: pool,
		AccessFlags:  accessFlags,
		ThisClass:    thisClass,
		SuperClass:   superClass,
		Interfaces:   interfaces,
		Fields:       fields,
		Methods:      methods,
		Attributes:   attrs,
	}, nil
}

func parseInterfaces(br *reader) ([]uint16, error) {
	count, err := br.u2()
	if err != nil {
		return nil, err
	}
	out := make([]uint16, count)
	for i := range out {
		idx, err := br.u2()
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

func parseAttributes(br *reader, pool []ConstantPoolEntry) ([]Attribute, error) {
	count, err := br.u2()
	if err != nil {
		return nil, err
	}
	out := make([]Attribute, count)
	for i := range out {
		nameIdx, err := br.u2()
		if err != nil {
			return nil, err
		}
		name, err := GetUtf8(pool, nameIdx)
		if err != nil {
			return nil, errors.Wrap(err, "resolving attribute name")
		}
		length, err := br.u4()
		if err != nil {
			return nil, err
		}
		data, err := br.bytes(length)
		if err != nil {
			return nil, err
		}
		out[i] = Attribute{Name: name, Data: data}
	}
	return out, nil
}

func parseFields(br *reader, pool []ConstantPoolEntry) ([]Field, error) {
	count, err := br.u2()
	if err != nil {
		return nil, err
	}
	out := make([]Field, count)
	for i := range out {
		flags, err := br.u2()
		if err != nil {
			return nil, err
		}
		nameIdx, err := br.u2()
		if err != nil {
			return nil, err
		}
		name, err := GetUtf8(pool, nameIdx)
		if err != nil {
			return nil, errors.Wrap(err, "resolving field name")
		}
		descIdx, err := br.u2()
		if err != nil {
			return nil, err
		}
		desc, err := GetUtf8(pool, descIdx)
		if err != nil {
			return nil, errors.Wrap(err, "resolving field descriptor")
		}
		attrs, err := parseAttributes(br, pool)
		if err != nil {
			return nil, err
		}
		out[i] = Field{AccessFlags: flags, Name: name, Descriptor: desc, Attributes: attrs}
	}
	return out, nil
}

func parseMethods(br *reader, pool []ConstantPoolEntry) ([]Method, error) {
	count, err := br.u2()
	if err != nil {
		return nil, err
	}
	out := make([]Method, count)
	for i := range out {
		flags, err := br.u2()
		if err != nil {
			return nil, err
		}
		nameIdx, err := br.u2()
		if err != nil {
			return nil, err
		}
		name, err := GetUtf8(pool, nameIdx)
		if err != nil {
			return nil, errors.Wrap(err, "resolving method name")
		}
		descIdx, err := br.u2()
		if err != nil {
			return nil, err
		}
		desc, err := GetUtf8(pool, descIdx)
		if err != nil {
			return nil, errors.Wrap(err, "resolving method descriptor")
		}
		attrs, err := parseAttributes(br, pool)
		if err != nil {
			return nil, err
		}

		m := Method{AccessFlags: flags, Name: name, Descriptor: desc, Attributes: attrs}
		for _, a := range attrs {
			if a.Name == "Code" {
				code, err := parseCodeAttribute(a.Data)
				if err != nil {
					return nil, errors.Wrapf(err, "parsing Code attribute for %s%s", name, desc)
				}
				m.Code = code
				break
			}
		}
		out[i] = m
	}
	return out, nil
}

// parseCodeAttribute interprets the Code attribute payload as
// documented in SPEC_FULL.md §4.5: bytes 0..2 max_stack, 2..4
// max_locals, 4..8 code_length, 8.. bytecode. Exception tables and the
// attributes nested after the bytecode are intentionally not modeled
// (spec.md §1 scopes exception tables out).
func parseCodeAttribute(data []byte) (*CodeAttribute, error) {
	if len(data) < 8 {
		return nil, errors.Errorf("Code attribute too short: %d bytes", len(data))
	}
	maxStack := uint16(data[0])<<8 | uint16(data[1])
	maxLocals := uint16(data[2])<<8 | uint16(data[3])
	codeLength := uint32(data[4])<<24 | uint32(data[5])<<16 | uint32(data[6])<<8 | uint32(data[7])
	if uint32(len(data)-8) < codeLength {
		return nil, errors.Errorf("Code attribute truncated: declared %d bytes, have %d", codeLength, len(data)-8)
	}
	code := make([]byte, codeLength)
	copy(code, data[8:8+codeLength])
	return &CodeAttribute{MaxStack: maxStack, MaxLocals: maxLocals, Code: code}, nil
}

// ClassName resolves the class's own this_class entry.
func (c *Class) ClassName() (string, error) {
	return GetClassName(c.ConstantPool, c.ThisClass)
}

// SuperClassName resolves the super_class entry. Java/lang/Object's
// super_class index is 0 and has no name.
func (c *Class) SuperClassName() (string, error) {
	if c.SuperClass == 0 {
		return "", nil
	}
	return GetClassName(c.ConstantPool, c.SuperClass)
}

// FindMethod returns the method with the exact name and descriptor, or
// nil if absent.
func (c *Class) FindMethod(name, descriptor string) *Method {
	for i := range c.Methods {
		if c.Methods[i].Name == name && c.Methods[i].Descriptor == descriptor {
			return &c.Methods[i]
		}
	}
	return nil
}

// FindMethodByName returns the first method with the given name,
// regardless of descriptor — used by frame construction (SPEC_FULL.md
// §4.5), which dispatches by name alone.
func (c *Class) FindMethodByName(name string) *Method {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	return nil
}

// FindField returns the field with the given name, or nil if absent.
func (c *Class) FindField(name string) *Field {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}
