package vm

// Val is the tagged union manipulated at runtime (spec.md §3), expanded
// from the teacher's three-variant Value{Type,Int,Ref} to the full set
// the spec requires, grounded on
// original_source/jjvm_vm/src/jvm_val.rs's JvmVal enum. Concrete
// variants are value types (not pointers) so comparisons and map keys
// behave the way the Rust enum's value semantics do; only Class/
// BuiltinClass carry a map, which is itself a reference type, so field
// mutation through a fetched Val still observes later writes.
type Val interface {
	valMarker()
	String() string
}

type ByteVal struct{ V int8 }

func (ByteVal) valMarker()        {}
func (v ByteVal) String() string  { return itoa(int64(v.V)) }

type ShortVal struct{ V int16 }

func (ShortVal) valMarker()       {}
func (v ShortVal) String() string { return itoa(int64(v.V)) }

type IntVal struct{ V int32 }

func (IntVal) valMarker()       {}
func (v IntVal) String() string { return itoa(int64(v.V)) }

type LongVal struct{ V int64 }

func (LongVal) valMarker()       {}
func (v LongVal) String() string { return itoa(v.V) }

type FloatVal struct{ V float32 }

func (FloatVal) valMarker()       {}
func (v FloatVal) String() string { return ftoa(float64(v.V)) }

type DoubleVal struct{ V float64 }

func (DoubleVal) valMarker()       {}
func (v DoubleVal) String() string { return ftoa(v.V) }

type BoolVal struct{ V bool }

func (BoolVal) valMarker() {}
func (v BoolVal) String() string {
	if v.V {
		return "true"
	}
	return "false"
}

type StrVal struct{ V string }

func (StrVal) valMarker()       {}
func (v StrVal) String() string { return v.V }

// References implements heap.Value: a Str holds no other references.
// Strings are occasionally heap-allocated directly (java/lang/String's
// split returns References to individual Strs), so the variant needs
// to satisfy heap.Value like Array/Class/BuiltinClass do.
func (StrVal) References() []int { return nil }

// RefVal is an integer index into the VM's heap (spec.md's Reference).
type RefVal struct{ V int }

func (RefVal) valMarker()       {}
func (v RefVal) String() string { return "ref#" + itoa(int64(v.V)) }

// ArrayVal holds its elements inline rather than as heap-stored Vals;
// it is itself stored in the heap (wrapped by a RefVal) so it can be
// shared and garbage collected like any other object, per spec.md §3.
type ArrayVal struct{ Elems []Val }

func (ArrayVal) valMarker()       {}
func (ArrayVal) String() string   { return "array" }

// References implements heap.Value: an array marks the heap slot of
// every element that is itself a reference (spec.md §4.4 rule 2).
func (a ArrayVal) References() []int {
	var refs []int
	for _, e := range a.Elems {
		if r, ok := e.(RefVal); ok {
			refs = append(refs, r.V)
		}
	}
	return refs
}

// ClassVal is a heap-allocated user-class or built-in-seeded instance:
// className plus a field map keyed by field name.
type ClassVal struct {
	ClassName string
	Fields    map[string]Val
}

func (ClassVal) valMarker()     {}
func (c ClassVal) String() string { return c.ClassName }

func (c ClassVal) References() []int {
	var refs []int
	for _, v := range c.Fields {
		if r, ok := v.(RefVal); ok {
			refs = append(refs, r.V)
		}
	}
	return refs
}

// BuiltinClassVal is marked identically to ClassVal (spec.md §4.4),
// but kept as a distinct variant: allocNew uses it when `new` names a
// built-in class. The objects the built-in methods allocate themselves
// (java/io/File, java/util/Scanner, boxed Boolean) are ClassVals.
type BuiltinClassVal struct {
	ClassName string
	Fields    map[string]Val
}

func (BuiltinClassVal) valMarker()       {}
func (b BuiltinClassVal) String() string { return b.ClassName }

func (b BuiltinClassVal) References() []int {
	var refs []int
	for _, v := range b.Fields {
		if r, ok := v.(RefVal); ok {
			refs = append(refs, r.V)
		}
	}
	return refs
}

type NullVal struct{}

func (NullVal) valMarker()       {}
func (NullVal) String() string   { return "null" }

// IsNull reports whether v is the Null variant.
func IsNull(v Val) bool {
	_, ok := v.(NullVal)
	return ok
}
