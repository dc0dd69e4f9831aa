package model

// TypeKind discriminates the closed set of type shapes the engine knows how
// to render. Anything else in the debug info maps to TypeUnspecified.
type TypeKind uint8

const (
	TypeUnspecified TypeKind = iota
	TypeBase
	TypeDef
	TypeStruct
	TypeUnion
	TypeEnum
	TypePointer
	TypeArray
	TypeSubroutine
)

// keyword returns the declaration keyword used in headers ("struct Foo").
func (k TypeKind) keyword() string {
	switch k {
	case TypeStruct:
		return "struct"
	case TypeUnion:
		return "union"
	case TypeEnum:
		return "enum"
	case TypeDef:
		return "type"
	default:
		return ""
	}
}

// Keyword exposes the header keyword for a kind; empty for kinds that are
// only printed inline (base, pointer, array, subroutine).
func (k TypeKind) Keyword() string { return k.keyword() }

// Member is one data member of a struct or union.
type Member struct {
	Name    string
	Ty      TypeRef
	Offset  uint64 // byte offset within the containing type
	Size    uint64
	HasSize bool
}

// EnumVariant is one enumerator of an enum type.
type EnumVariant struct {
	Name  string
	Value int64
}

// Type is a type entry. Members is populated for struct/union kinds,
// Variants for enums, Elem for typedef/pointer/array element references.
type Type struct {
	ID          EntityID
	Ref         TypeRef
	Kind        TypeKind
	Name        string
	Namespace   *Namespace
	Size        uint64
	HasSize     bool
	Declaration bool
	Members     []Member
	Variants    []EnumVariant
	Elem        TypeRef
	Count       uint64 // array element count
	HasCount    bool
	Source      Source
}

// ByteSize resolves the type's size in bytes, following typedef and array
// element references through the lookup context when the size is implicit.
func (t *Type) ByteSize(hash *FileHash) (uint64, bool) {
	return hash.typeSizeGuarded(t, 0)
}
