package model

// maxResolveDepth bounds typedef/array/pointer chains so that malformed
// debug info with reference cycles cannot hang size resolution.
const maxResolveDepth = 32

// FileHash is the read-only cross-reference table of one File. It resolves
// type references to their entries so names and sizes can be printed without
// re-walking the tree. It is built once after loading and never mutated, so
// it may be shared by reference across nested rendering calls.
type FileHash struct {
	Types map[TypeRef]*Type
	// PtrSize is the address size of the binary, used as the byte size of
	// pointer types that carry no explicit size.
	PtrSize uint64
}

// NewFileHash returns an empty lookup context for the given address size.
func NewFileHash(ptrSize uint64) *FileHash {
	return &FileHash{Types: make(map[TypeRef]*Type), PtrSize: ptrSize}
}

// Type resolves a reference to its entry.
func (h *FileHash) Type(ref TypeRef) (*Type, bool) {
	if h == nil || !ref.IsValid() {
		return nil, false
	}
	t, ok := h.Types[ref]
	return t, ok
}

// TypeSize resolves the byte size of the referenced type.
func (h *FileHash) TypeSize(ref TypeRef) (uint64, bool) {
	t, ok := h.Type(ref)
	if !ok {
		return 0, false
	}
	return h.typeSizeGuarded(t, 0)
}

func (h *FileHash) typeSizeGuarded(t *Type, depth int) (uint64, bool) {
	if t == nil || depth > maxResolveDepth {
		return 0, false
	}
	if t.HasSize {
		return t.Size, true
	}
	switch t.Kind {
	case TypePointer:
		if h != nil && h.PtrSize > 0 {
			return h.PtrSize, true
		}
	case TypeDef:
		if elem, ok := h.Type(t.Elem); ok {
			return h.typeSizeGuarded(elem, depth+1)
		}
	case TypeArray:
		if !t.HasCount {
			return 0, false
		}
		if elem, ok := h.Type(t.Elem); ok {
			if sz, ok := h.typeSizeGuarded(elem, depth+1); ok {
				return sz * t.Count, true
			}
		}
	}
	return 0, false
}
