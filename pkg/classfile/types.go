package classfile

// Constant-pool tag bytes, JVMS 4.4.
const (
	TagUtf8               uint8 = 1
	TagInteger            uint8 = 3
	TagFloat              uint8 = 4
	TagLong               uint8 = 5
	TagDouble             uint8 = 6
	TagClass              uint8 = 7
	TagString             uint8 = 8
	TagFieldref           uint8 = 9
	TagMethodref          uint8 = 10
	TagInterfaceMethodref uint8 = 11
	TagNameAndType        uint8 = 12
	TagMethodHandle       uint8 = 15
	TagMethodType         uint8 = 16
	TagInvokeDynamic      uint8 = 18
)

// Class access flags, JVMS 4.1.
const (
	AccPublic    = 0x0001
	AccFinal     = 0x0010
	AccSuper     = 0x0020
	AccInterface = 0x0200
	AccAbstract  = 0x0400
)

// Method access flags, JVMS 4.6. Only AccMethodStatic is consulted
// during invoke dispatch (SPEC_FULL.md §4.7).
const (
	AccMethodStatic = 0x0008
)

// Class is the immutable-after-load value produced by the loader
// (SPEC_FULL.md's Class Loader module). It mirrors spec.md §3's Class
// data model.
type Class struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool []ConstantPoolEntry
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []Field
	Methods      []Method
	Attributes   []Attribute
}

// ConstantPoolEntry is implemented by every raw constant-pool variant
// (RawConst in spec.md §3).
type ConstantPoolEntry interface {
	Tag() uint8
}

type ConstantUtf8 struct{ Value string }

func (c *ConstantUtf8) Tag() uint8 { return TagUtf8 }

type ConstantInteger struct{ Value int32 }

func (c *ConstantInteger) Tag() uint8 { return TagInteger }

type ConstantFloat struct{ Value float32 }

func (c *ConstantFloat) Tag() uint8 { return TagFloat }

type ConstantLong struct{ Value int64 }

func (c *ConstantLong) Tag() uint8 { return TagLong }

type ConstantDouble struct{ Value float64 }

func (c *ConstantDouble) Tag() uint8 { return TagDouble }

type ConstantClass struct{ NameIndex uint16 }

func (c *ConstantClass) Tag() uint8 { return TagClass }

type ConstantString struct{ StringIndex uint16 }

func (c *ConstantString) Tag() uint8 { return TagString }

type ConstantFieldref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantFieldref) Tag() uint8 { return TagFieldref }

type ConstantMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantMethodref) Tag() uint8 { return TagMethodref }

type ConstantInterfaceMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantInterfaceMethodref) Tag() uint8 { return TagInterfaceMethodref }

type ConstantNameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (c *ConstantNameAndType) Tag() uint8 { return TagNameAndType }

// ConstantMethodHandle uses the standard u1 reference_kind; u2
// reference_index payload width (SPEC_FULL.md / spec.md §9 — the
// Rust original this spec was distilled from reads u1,u1, which is a
// documented bug re-implementers should not repeat).
type ConstantMethodHandle struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

func (c *ConstantMethodHandle) Tag() uint8 { return TagMethodHandle }

type ConstantMethodType struct{ DescriptorIndex uint16 }

func (c *ConstantMethodType) Tag() uint8 { return TagMethodType }

type ConstantInvokeDynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *ConstantInvokeDynamic) Tag() uint8 { return TagInvokeDynamic }

// Method is a method_info entry: flags, name, descriptor, and its Code
// attribute if present (abstract/native methods have none, but this
// VM never loads those).
type Method struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Attributes  []Attribute
	Code        *CodeAttribute
}

func (m *Method) IsStatic() bool { return m.AccessFlags&AccMethodStatic != 0 }

// Field is a field_info entry.
type Field struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Attributes  []Attribute
}

// Attribute is a raw (name, bytes) attribute pair, per spec.md §3.
type Attribute struct {
	Name string
	Data []byte
}

// CodeAttribute is the parsed form of the "Code" attribute: max_stack
// and max_locals are retained but ignored by the interpreter (spec.md
// §9: frame operand-stack growth vs. max_stack is not enforced).
type CodeAttribute struct {
	MaxStack  uint16
	MaxLocals uint16
	Code      []byte
}
