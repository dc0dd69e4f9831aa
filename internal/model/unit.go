package model

// Unit is one compilation unit: the top-level container of the entities the
// engine reports on. Ownership stays with the File; the engine borrows units
// for the duration of one report.
type Unit struct {
	ID       EntityID
	Name     string
	Dir      string // compilation directory, used to relativize source paths
	Producer string
	Language string

	Types     []*Type
	Functions []*Function
	Variables []*Variable
}

// File is the materialized debug-info tree of one binary (or one snapshot).
// Hash is rebuilt by whoever materializes the file; it is never persisted.
type File struct {
	Path  string
	Units []*Unit
	Hash  *FileHash `msgpack:"-"`
}
