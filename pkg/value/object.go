package value

import "fmt"

// ObjType tags the concrete kind of a heap object, mirroring
// original_source/object.h's OBJ_* enum.
type ObjType int

const (
	ObjTypeString ObjType = iota
	ObjTypeFunction
	ObjTypeNative
)

// Obj is the common interface every heap-allocated ember value implements.
// Every object carries a Next pointer so the VM can thread every allocation
// onto one intrusive singly-linked list (VM.objects), the spec's
// "reclamation spine" — see SPEC_FULL.md §4.7 and DESIGN.md's Open Question
// resolution on garbage collection.
type Obj interface {
	Type() ObjType
	String() string
	Next() Obj
	SetNext(Obj)
}

type objHeader struct {
	next Obj
}

func (h *objHeader) Next() Obj     { return h.next }
func (h *objHeader) SetNext(o Obj) { h.next = o }

// ObjString is an interned, immutable string. Interning means two
// ObjStrings with equal Chars are always the same pointer, which is what
// lets Value.Equals compare strings by identity instead of content.
type ObjString struct {
	objHeader
	Chars string
	Hash  uint32
}

func (s *ObjString) Type() ObjType  { return ObjTypeString }
func (s *ObjString) String() string { return s.Chars }

// NewObjString constructs an ObjString. Callers (pkg/vm's interner) are
// responsible for hashing and for checking the intern table before calling
// this, so that interning invariants live in one place.
func NewObjString(chars string, hash uint32) *ObjString {
	return &ObjString{Chars: chars, Hash: hash}
}

// ObjFunction is a compiled ember function: its arity, its compiled body,
// and the name it was declared with (nil for the implicit top-level
// script, matching original_source/object.c's treatment of <script>).
type ObjFunction struct {
	objHeader
	Arity int
	Chunk *Chunk
	Name  *ObjString
}

func (f *ObjFunction) Type() ObjType { return ObjTypeFunction }

func (f *ObjFunction) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// NewObjFunction constructs an empty ObjFunction ready to have its Chunk
// filled in by the compiler.
func NewObjFunction() *ObjFunction {
	return &ObjFunction{Chunk: NewChunk()}
}

// NativeFn is the signature every native (host-provided) function
// implements: it receives its arguments and returns a single Value.
type NativeFn func(args []Value) Value

// ObjNative wraps a host Go function so it can be called from ember code
// like any other callable.
type ObjNative struct {
	objHeader
	Name string
	Fn   NativeFn
}

func (n *ObjNative) Type() ObjType  { return ObjTypeNative }
func (n *ObjNative) String() string { return fmt.Sprintf("<native fn %s>", n.Name) }

// NewObjNative constructs an ObjNative wrapping fn.
func NewObjNative(name string, fn NativeFn) *ObjNative {
	return &ObjNative{Name: name, Fn: fn}
}
