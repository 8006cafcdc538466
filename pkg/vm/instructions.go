package vm

import (
	"math"

	"github.com/daimatz/gojvm/pkg/classfile"
)

// Opcode bytes, JVMS 6.5, matching the subset spec.md §4.6 names.
const (
	opNop         = 0x00
	opAconstNull  = 0x01
	opIconstM1    = 0x02
	opIconst0     = 0x03
	opIconst1     = 0x04
	opIconst2     = 0x05
	opIconst3     = 0x06
	opIconst4     = 0x07
	opIconst5     = 0x08
	opBipush      = 0x10
	opSipush      = 0x11
	opLdc         = 0x12
	opIload       = 0x15
	opFload       = 0x17
	opAload       = 0x19
	opIload0      = 0x1a
	opIload1      = 0x1b
	opIload2      = 0x1c
	opIload3      = 0x1d
	opFload0      = 0x22
	opFload1      = 0x23
	opFload2      = 0x24
	opFload3      = 0x25
	opAload0      = 0x2a
	opAload1      = 0x2b
	opAload2      = 0x2c
	opAload3      = 0x2d
	opAaload      = 0x32
	opIstore      = 0x36
	opFstore      = 0x38
	opAstore      = 0x3a
	opIstore0     = 0x3b
	opIstore1     = 0x3c
	opIstore2     = 0x3d
	opIstore3     = 0x3e
	opFstore0     = 0x43
	opFstore1     = 0x44
	opFstore2     = 0x45
	opFstore3     = 0x46
	opAstore0     = 0x4b
	opAstore1     = 0x4c
	opAstore2     = 0x4d
	opAstore3     = 0x4e
	opPop         = 0x57
	opDup         = 0x59
	opIadd        = 0x60
	opFadd        = 0x62
	opIsub        = 0x64
	opFsub        = 0x66
	opImul        = 0x68
	opFmul        = 0x6a
	opIrem        = 0x70
	opFrem        = 0x72
	opIinc        = 0x84
	opIfeq        = 0x99
	opIfne        = 0x9a
	opIfIcmpne    = 0xa0
	opIfIcmpge    = 0xa2
	opIfIcmpgt    = 0xa3
	opIfIcmple    = 0xa4
	opGoto        = 0xa7
	opTableswitch = 0xaa
	opLookupswitch = 0xab
	opIreturn     = 0xac
	opFreturn     = 0xae
	opAreturn     = 0xb0
	opReturn      = 0xb1
	opGetstatic   = 0xb2
	opGetfield    = 0xb4
	opPutfield    = 0xb5
	opInvokevirtual = 0xb6
	opInvokespecial = 0xb7
	opInvokestatic  = 0xb8
	opNew         = 0xbb
	opCheckcast   = 0xc0
	opInstanceof  = 0xc1
	opIfnonnull   = 0xc7
)

var opcodeNames = map[byte]string{
	opNop: "nop", opAconstNull: "aconst_null",
	opIconstM1: "iconst_m1", opIconst0: "iconst_0", opIconst1: "iconst_1",
	opIconst2: "iconst_2", opIconst3: "iconst_3", opIconst4: "iconst_4", opIconst5: "iconst_5",
	opBipush: "bipush", opSipush: "sipush", opLdc: "ldc",
	opIload: "iload", opFload: "fload", opAload: "aload",
	opIload0: "iload_0", opIload1: "iload_1", opIload2: "iload_2", opIload3: "iload_3",
	opFload0: "fload_0", opFload1: "fload_1", opFload2: "fload_2", opFload3: "fload_3",
	opAload0: "aload_0", opAload1: "aload_1", opAload2: "aload_2", opAload3: "aload_3",
	opAaload: "aaload",
	opIstore: "istore", opFstore: "fstore", opAstore: "astore",
	opIstore0: "istore_0", opIstore1: "istore_1", opIstore2: "istore_2", opIstore3: "istore_3",
	opFstore0: "fstore_0", opFstore1: "fstore_1", opFstore2: "fstore_2", opFstore3: "fstore_3",
	opAstore0: "astore_0", opAstore1: "astore_1", opAstore2: "astore_2", opAstore3: "astore_3",
	opPop: "pop", opDup: "dup",
	opIadd: "iadd", opFadd: "fadd", opIsub: "isub", opFsub: "fsub",
	opImul: "imul", opFmul: "fmul", opIrem: "irem", opFrem: "frem",
	opIinc: "iinc",
	opIfeq: "ifeq", opIfne: "ifne",
	opIfIcmpne: "if_icmpne", opIfIcmpge: "if_icmpge", opIfIcmpgt: "if_icmpgt", opIfIcmple: "if_icmple",
	opGoto: "goto", opTableswitch: "tableswitch", opLookupswitch: "lookupswitch",
	opIreturn: "ireturn", opFreturn: "freturn", opAreturn: "areturn", opReturn: "return",
	opGetstatic: "getstatic", opGetfield: "getfield", opPutfield: "putfield",
	opInvokevirtual: "invokevirtual", opInvokespecial: "invokespecial", opInvokestatic: "invokestatic",
	opNew: "new", opCheckcast: "checkcast", opInstanceof: "instanceof", opIfnonnull: "ifnonnull",
}

func opcodeName(op byte) string {
	if n, ok := opcodeNames[op]; ok {
		return n
	}
	return "unknown"
}

func popInt(f *Frame) (int32, error) {
	v := f.Pop()
	i, ok := v.(IntVal)
	if !ok {
		return 0, errTypeMismatch("expected Int, got "+v.String(), f)
	}
	return i.V, nil
}

func popFloat(f *Frame) (float32, error) {
	v := f.Pop()
	fl, ok := v.(FloatVal)
	if !ok {
		return 0, errTypeMismatch("expected Float, got "+v.String(), f)
	}
	return fl.V, nil
}

func popRef(f *Frame) (RefVal, error) {
	v := f.Pop()
	r, ok := v.(RefVal)
	if !ok {
		return RefVal{}, errTypeMismatch("expected Ref, got "+v.String(), f)
	}
	return r, nil
}

func readI32(code []byte, pos int) int32 {
	return int32(uint32(code[pos])<<24 | uint32(code[pos+1])<<16 | uint32(code[pos+2])<<8 | uint32(code[pos+3]))
}

// dispatch runs exactly one opcode at f.IP (which still points at the
// opcode byte on entry). done reports whether the method returned;
// result is only meaningful when done is true. Every handler that
// branches sets f.IP to one less than its target, relying on the
// unconditional f.IP++ execFrame performs after a non-returning
// dispatch — the same trick vm.rs's exec loop uses.
func (v *VM) dispatch(class *classfile.Class, f *Frame, op byte) (Val, bool, error) {
	opcodeAddr := f.IP

	switch op {
	case opNop:
		// no-op

	case opAconstNull:
		f.Push(NullVal{})

	case opIconstM1:
		f.Push(IntVal{V: -1})
	case opIconst0:
		f.Push(IntVal{V: 0})
	case opIconst1:
		f.Push(IntVal{V: 1})
	case opIconst2:
		f.Push(IntVal{V: 2})
	case opIconst3:
		f.Push(IntVal{V: 3})
	case opIconst4:
		f.Push(IntVal{V: 4})
	case opIconst5:
		f.Push(IntVal{V: 5})

	case opBipush:
		f.Push(IntVal{V: int32(int8(f.read1()))})
	case opSipush:
		f.Push(IntVal{V: int32(int16(f.read2()))})

	case opLdc:
		idx := f.read1()
		c, err := classfile.Resolve(class.ConstantPool, uint16(idx))
		if err != nil {
			return nil, false, err
		}
		switch cv := c.(type) {
		case classfile.ConstStr:
			f.Push(StrVal{V: cv.Value})
		case classfile.ConstInt:
			f.Push(IntVal{V: cv.Value})
		case classfile.ConstFloat:
			f.Push(FloatVal{V: cv.Value})
		default:
			return nil, false, errTypeMismatch("ldc: unsupported constant kind", f)
		}

	case opIload:
		f.Push(f.GetLocal(int(f.read1())))
	case opFload:
		f.Push(f.GetLocal(int(f.read1())))
	case opAload:
		f.Push(f.GetLocal(int(f.read1())))
	case opIload0, opFload0, opAload0:
		f.Push(f.GetLocal(0))
	case opIload1, opFload1, opAload1:
		f.Push(f.GetLocal(1))
	case opIload2, opFload2, opAload2:
		f.Push(f.GetLocal(2))
	case opIload3, opFload3, opAload3:
		f.Push(f.GetLocal(3))

	case opAaload:
		idx, err := popInt(f)
		if err != nil {
			return nil, false, err
		}
		arrRef, err := popRef(f)
		if err != nil {
			return nil, false, err
		}
		arrHV, live := v.Heap.Fetch(arrRef.V)
		if !live {
			return nil, false, errNullDereference("aaload: dereferenced a dead array", f)
		}
		arr, ok := arrHV.(ArrayVal)
		if !ok {
			return nil, false, errTypeMismatch("aaload: not an array", f)
		}
		if int(idx) < 0 || int(idx) >= len(arr.Elems) {
			return nil, false, errTypeMismatch("aaload: index out of range", f)
		}
		elem := arr.Elems[idx]
		ref, ok := elem.(RefVal)
		if !ok {
			return nil, false, errTypeMismatch("aaload: array element is not a reference", f)
		}
		hv, live := v.Heap.Fetch(ref.V)
		if !live {
			return nil, false, errNullDereference("aaload: dereferenced a dead element", f)
		}
		val, ok := hv.(Val)
		if !ok {
			return nil, false, errTypeMismatch("aaload: heap value is not a Val", f)
		}
		f.Push(val)

	case opIstore, opFstore, opAstore:
		f.SetLocal(int(f.read1()), f.Pop())
	case opIstore0, opFstore0, opAstore0:
		f.SetLocal(0, f.Pop())
	case opIstore1, opFstore1, opAstore1:
		f.SetLocal(1, f.Pop())
	case opIstore2, opFstore2, opAstore2:
		f.SetLocal(2, f.Pop())
	case opIstore3, opFstore3, opAstore3:
		f.SetLocal(3, f.Pop())

	case opPop:
		f.Pop()
	case opDup:
		n := len(f.Stack)
		if n == 0 {
			return nil, false, errTypeMismatch("dup: empty stack", f)
		}
		f.Push(f.Stack[n-1])

	case opIadd, opIsub, opImul, opIrem:
		b, err := popInt(f)
		if err != nil {
			return nil, false, err
		}
		a, err := popInt(f)
		if err != nil {
			return nil, false, err
		}
		f.Push(IntVal{V: intArith(op, a, b)})

	case opFadd, opFsub, opFmul, opFrem:
		b, err := popFloat(f)
		if err != nil {
			return nil, false, err
		}
		a, err := popFloat(f)
		if err != nil {
			return nil, false, err
		}
		f.Push(FloatVal{V: floatArith(op, a, b)})

	case opIinc:
		idx := int(f.read1())
		delta := int8(f.read1())
		cur, ok := f.GetLocal(idx).(IntVal)
		if !ok {
			return nil, false, errTypeMismatch("iinc: local is not an Int", f)
		}
		f.SetLocal(idx, IntVal{V: cur.V + int32(delta)})

	case opGoto:
		offset := int16(f.read2())
		f.IP = opcodeAddr + int(offset) - 1

	case opIfeq:
		offset := int16(f.read2())
		val, err := popInt(f)
		if err != nil {
			return nil, false, err
		}
		if val == 0 {
			f.IP = opcodeAddr + int(offset) - 1
		}
	case opIfne:
		offset := int16(f.read2())
		val, err := popInt(f)
		if err != nil {
			return nil, false, err
		}
		if val != 0 {
			f.IP = opcodeAddr + int(offset) - 1
		}

	case opIfIcmpne, opIfIcmpge, opIfIcmpgt, opIfIcmple:
		offset := int16(f.read2())
		b, err := popInt(f)
		if err != nil {
			return nil, false, err
		}
		a, err := popInt(f)
		if err != nil {
			return nil, false, err
		}
		taken := false
		switch op {
		case opIfIcmpne:
			taken = a != b
		case opIfIcmpge:
			taken = a >= b
		case opIfIcmpgt:
			taken = a > b
		case opIfIcmple:
			taken = a <= b
		}
		if taken {
			f.IP = opcodeAddr + int(offset) - 1
		}

	case opIfnonnull:
		offset := int16(f.read2())
		val := f.Pop()
		if !IsNull(val) {
			f.IP = opcodeAddr + int(offset) - 1
		}

	case opTableswitch:
		pos := opcodeAddr + 1
		for pos%4 != 0 {
			pos++
		}
		def := readI32(f.Code, pos)
		low := readI32(f.Code, pos+4)
		high := readI32(f.Code, pos+8)
		key, err := popInt(f)
		if err != nil {
			return nil, false, err
		}
		offset := def
		if key >= low && key <= high {
			offset = readI32(f.Code, pos+12+4*int(key-low))
		}
		f.IP = opcodeAddr + int(offset) - 1

	case opLookupswitch:
		pos := opcodeAddr + 1
		for pos%4 != 0 {
			pos++
		}
		def := readI32(f.Code, pos)
		npairs := readI32(f.Code, pos+4)
		key, err := popInt(f)
		if err != nil {
			return nil, false, err
		}
		offset := def
		for i := int32(0); i < npairs; i++ {
			base := pos + 8 + int(i)*8
			match := readI32(f.Code, base)
			if match == key {
				offset = readI32(f.Code, base+4)
				break
			}
		}
		f.IP = opcodeAddr + int(offset) - 1

	case opIreturn:
		val, err := popInt(f)
		if err != nil {
			return nil, false, err
		}
		return IntVal{V: val}, true, nil
	case opFreturn:
		val, err := popFloat(f)
		if err != nil {
			return nil, false, err
		}
		return FloatVal{V: val}, true, nil
	case opAreturn:
		return f.Pop(), true, nil
	case opReturn:
		return NullVal{}, true, nil

	case opNew:
		idx := f.read2()
		name, err := classfile.GetClassName(class.ConstantPool, idx)
		if err != nil {
			return nil, false, err
		}
		ref, err := v.allocNew(name)
		if err != nil {
			return nil, false, err
		}
		f.Push(ref)

	case opPutfield:
		idx := f.read2()
		_, name, _, err := classfile.ResolveFieldref(class.ConstantPool, idx)
		if err != nil {
			return nil, false, err
		}
		value := f.Pop()
		objRef, err := popRef(f)
		if err != nil {
			return nil, false, err
		}
		if err := v.setField(objRef, name, value); err != nil {
			return nil, false, err
		}

	case opGetfield:
		idx := f.read2()
		_, name, _, err := classfile.ResolveFieldref(class.ConstantPool, idx)
		if err != nil {
			return nil, false, err
		}
		objVal := f.Pop()
		if IsNull(objVal) {
			// Lenient bug-compatible recovery per spec.md §9: the
			// enclosing method returns Null outright.
			return NullVal{}, true, nil
		}
		objRef, ok := objVal.(RefVal)
		if !ok {
			return nil, false, errTypeMismatch("getfield: not a reference", f)
		}
		val, err := v.getField(objRef, name)
		if err != nil {
			return nil, false, err
		}
		f.Push(val)

	case opGetstatic:
		f.read2() // consumed, no-op per spec.md §4.6

	case opInstanceof:
		f.read2()
		f.Push(IntVal{V: 1})
	case opCheckcast:
		f.read2()

	case opInvokestatic:
		idx := f.read2()
		result, err := v.invokeStatic(class, f, idx)
		if err != nil {
			return nil, false, err
		}
		if !IsNull(result) {
			f.Push(result)
		}

	case opInvokespecial:
		idx := f.read2()
		result, err := v.invokeSpecial(class, f, idx)
		if err != nil {
			return nil, false, err
		}
		if !IsNull(result) {
			f.Push(result)
		}

	case opInvokevirtual:
		idx := f.read2()
		result, err := v.invokeVirtual(class, f, idx)
		if err != nil {
			return nil, false, err
		}
		if !IsNull(result) {
			f.Push(result)
		}

	default:
		return nil, false, errUnsupportedOpcode(op, f)
	}

	return nil, false, nil
}

func intArith(op byte, a, b int32) int32 {
	switch op {
	case opIadd:
		return a + b
	case opIsub:
		return a - b
	case opImul:
		return a * b
	case opIrem:
		return a - (a/b)*b
	}
	return 0
}

func floatArith(op byte, a, b float32) float32 {
	switch op {
	case opFadd:
		return a + b
	case opFsub:
		return a - b
	case opFmul:
		return a * b
	case opFrem:
		return a - float32(math.Trunc(float64(a/b)))*b
	}
	return 0
}
