package classfile

import (
	"bytes"
	"encoding/binary"
)

// classBuilder assembles a minimal, well-formed class file byte-for-
// byte in the exact constant-pool order it was written in, so test
// cases can exercise Parse without depending on a real javac-produced
// fixture.
type classBuilder struct {
	pool    [][]byte
	methods []builderMethod
	this    uint16
	super   uint16
}

type builderMethod struct {
	name, descriptor uint16
	flags            uint16
	code             []byte
	maxStack         uint16
	maxLocals        uint16
}

func newClassBuilder() *classBuilder {
	return &classBuilder{}
}

func (b *classBuilder) addUtf8(s string) uint16 {
	buf := new(bytes.Buffer)
	buf.WriteByte(TagUtf8)
	binary.Write(buf, binary.BigEndian, uint16(len(s)))
	buf.WriteString(s)
	b.pool = append(b.pool, buf.Bytes())
	return uint16(len(b.pool))
}

func (b *classBuilder) addClass(nameIdx uint16) uint16 {
	buf := new(bytes.Buffer)
	buf.WriteByte(TagClass)
	binary.Write(buf, binary.BigEndian, nameIdx)
	b.pool = append(b.pool, buf.Bytes())
	return uint16(len(b.pool))
}

func (b *classBuilder) addNameAndType(nameIdx, descIdx uint16) uint16 {
	buf := new(bytes.Buffer)
	buf.WriteByte(TagNameAndType)
	binary.Write(buf, binary.BigEndian, nameIdx)
	binary.Write(buf, binary.BigEndian, descIdx)
	b.pool = append(b.pool, buf.Bytes())
	return uint16(len(b.pool))
}

func (b *classBuilder) addMethodref(classIdx, natIdx uint16) uint16 {
	buf := new(bytes.Buffer)
	buf.WriteByte(TagMethodref)
	binary.Write(buf, binary.BigEndian, classIdx)
	binary.Write(buf, binary.BigEndian, natIdx)
	b.pool = append(b.pool, buf.Bytes())
	return uint16(len(b.pool))
}

func (b *classBuilder) setThisClass(name string) {
	b.this = b.addClass(b.addUtf8(name))
}

func (b *classBuilder) setSuperObject() {
	b.super = b.addClass(b.addUtf8("java/lang/Object"))
}

func (b *classBuilder) addMethod(name, descriptor string, static bool, maxStack, maxLocals uint16, code []byte) {
	flags := uint16(AccPublic)
	if static {
		flags |= AccMethodStatic
	}
	b.methods = append(b.methods, builderMethod{
		name:       b.addUtf8(name),
		descriptor: b.addUtf8(descriptor),
		flags:      flags,
		code:       code,
		maxStack:   maxStack,
		maxLocals:  maxLocals,
	})
}

// bytes assembles the full class file. "Code" is written as a literal
// UTF8 constant per method so each method's Code attribute can name
// itself, matching how javac emits the attribute name.
func (b *classBuilder) bytes() []byte {
	codeNameIdx := b.addUtf8("Code")

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, uint32(classMagic))
	binary.Write(buf, binary.BigEndian, uint16(0))  // minor
	binary.Write(buf, binary.BigEndian, uint16(52)) // major

	binary.Write(buf, binary.BigEndian, uint16(len(b.pool)+1))
	for _, entry := range b.pool {
		buf.Write(entry)
	}

	binary.Write(buf, binary.BigEndian, uint16(AccPublic|AccSuper)) // access_flags
	binary.Write(buf, binary.BigEndian, b.this)
	binary.Write(buf, binary.BigEndian, b.super)
	binary.Write(buf, binary.BigEndian, uint16(0)) // interfaces_count
	binary.Write(buf, binary.BigEndian, uint16(0)) // fields_count

	binary.Write(buf, binary.BigEndian, uint16(len(b.methods)))
	for _, m := range b.methods {
		binary.Write(buf, binary.BigEndian, m.flags)
		binary.Write(buf, binary.BigEndian, m.name)
		binary.Write(buf, binary.BigEndian, m.descriptor)
		binary.Write(buf, binary.BigEndian, uint16(1)) // attributes_count

		binary.Write(buf, binary.BigEndian, codeNameIdx)
		payload := new(bytes.Buffer)
		binary.Write(payload, binary.BigEndian, m.maxStack)
		binary.Write(payload, binary.BigEndian, m.maxLocals)
		binary.Write(payload, binary.BigEndian, uint32(len(m.code)))
		payload.Write(m.code)
		binary.Write(buf, binary.BigEndian, uint32(payload.Len()))
		buf.Write(payload.Bytes())
	}

	binary.Write(buf, binary.BigEndian, uint16(0)) // class attributes_count
	return buf.Bytes()
}
