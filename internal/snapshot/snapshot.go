// Package snapshot persists a materialized debug-info tree so a binary can
// later be diffed against a saved baseline without re-reading the original.
package snapshot

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"dbgdiff/internal/model"
)

// Current schema version - increment when the payload format changes.
const schemaVersion uint16 = 1

// magic prefixes every snapshot so binaries are never mistaken for one.
var magic = [4]byte{'d', 'b', 'g', 's'}

// Extension is the conventional snapshot file suffix.
const Extension = ".dbgsnap"

// payload is the on-disk layout. The lookup table is not persisted as a
// map: hashTypes carries every type entry (including the unlisted
// structural ones) and the table is rebuilt on read.
type payload struct {
	Schema    uint16
	Path      string
	PtrSize   uint64
	Units     []*model.Unit
	HashTypes []*model.Type
}

// IsSnapshot reports whether path looks like a snapshot, by extension or by
// magic prefix.
func IsSnapshot(path string) bool {
	if strings.HasSuffix(path, Extension) {
		return true
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	var head [4]byte
	if _, err := f.Read(head[:]); err != nil {
		return false
	}
	return head == magic
}

// Write serializes a file's tree atomically: temp file in the target
// directory, then rename.
func Write(path string, file *model.File) error {
	if file.Hash == nil {
		return fmt.Errorf("file has no lookup table")
	}
	p := payload{
		Schema:  schemaVersion,
		Path:    file.Path,
		PtrSize: file.Hash.PtrSize,
		Units:   file.Units,
	}
	p.HashTypes = make([]*model.Type, 0, len(file.Hash.Types))
	for _, t := range file.Hash.Types {
		p.HashTypes = append(p.HashTypes, t)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(magic[:]); err != nil {
		_ = f.Close()
		return err
	}
	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], schemaVersion)
	if _, err := f.Write(schema[:]); err != nil {
		_ = f.Close()
		return err
	}
	if err := msgpack.NewEncoder(f).Encode(&p); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, path)
}

// Read deserializes a snapshot and rebuilds its lookup table.
func Read(path string) (*model.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var head [6]byte
	if _, err := f.Read(head[:]); err != nil {
		return nil, fmt.Errorf("%s: not a snapshot: %w", path, err)
	}
	if [4]byte(head[:4]) != magic {
		return nil, fmt.Errorf("%s: not a snapshot", path)
	}
	if schema := binary.LittleEndian.Uint16(head[4:]); schema != schemaVersion {
		return nil, fmt.Errorf("%s: snapshot schema %d, want %d (re-create it)", path, schema, schemaVersion)
	}

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("%s: corrupt snapshot: %w", path, err)
	}

	file := &model.File{Path: p.Path, Units: p.Units}
	hash := model.NewFileHash(p.PtrSize)
	for _, t := range p.HashTypes {
		if t.Ref.IsValid() {
			hash.Types[t.Ref] = t
		}
	}
	// Listed types win over the structural copies so links land on the
	// entries the report actually shows.
	for _, u := range file.Units {
		for _, t := range u.Types {
			if t.Ref.IsValid() {
				hash.Types[t.Ref] = t
			}
		}
	}
	file.Hash = hash
	return file, nil
}
