package model

// Source is a resolved declaration location. A zero Path means the entity
// carried no location in the debug info.
type Source struct {
	Path   string
	Line   uint32
	Column uint32
}

// IsNone reports whether no location is attached.
func (s Source) IsNone() bool { return s.Path == "" }

// Variable is a global or namespace-scoped variable materialized from the
// debug info of one binary. All fields are set once by the loader and never
// mutated afterwards; the print engine only reads them.
type Variable struct {
	ID          EntityID
	Name        string
	Namespace   *Namespace
	LinkageName string
	SymbolName  string
	Ty          TypeRef
	Address     uint64
	HasAddress  bool
	Size        uint64 // explicit byte size, rarely present
	HasSize     bool
	Declaration bool
	Source      Source
}

// ByteSize returns the variable's size in bytes, resolving through the type
// reference when no explicit size was recorded.
func (v *Variable) ByteSize(hash *FileHash) (uint64, bool) {
	if v.HasSize {
		return v.Size, true
	}
	return hash.TypeSize(v.Ty)
}

// Parameter is one formal parameter of a function.
type Parameter struct {
	Name string
	Ty   TypeRef
}

// Function is a subprogram entry. Size is the code size (high pc - low pc)
// when both bounds were present.
type Function struct {
	ID          EntityID
	Name        string
	Namespace   *Namespace
	LinkageName string
	SymbolName  string
	Address     uint64
	HasAddress  bool
	Size        uint64
	HasSize     bool
	Inline      bool
	Declaration bool
	Parameters  []Parameter
	ReturnTy    TypeRef
	Source      Source
}

// ByteSize returns the function's code size in bytes.
func (f *Function) ByteSize(_ *FileHash) (uint64, bool) {
	return f.Size, f.HasSize
}
