package model

type (
	// EntityID uniquely identifies one materialized entity within a File.
	// IDs are assigned sequentially by the loader and are only meaningful
	// for cross-referencing inside a single report (anchors, links).
	EntityID uint64
	// TypeRef is a reference to a type entry, keyed by its offset in the
	// debug-info section it was read from.
	TypeRef uint64
)

const (
	// NoEntityID marks the absence of an entity reference.
	NoEntityID EntityID = 0
	// NoTypeRef marks the absence of a type reference.
	NoTypeRef TypeRef = 0
)

// IsValid reports whether the ID refers to a materialized entity.
func (id EntityID) IsValid() bool { return id != NoEntityID }

// IsValid reports whether the reference points at a type entry.
func (r TypeRef) IsValid() bool { return r != NoTypeRef }
