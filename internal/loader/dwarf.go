package loader

import (
	"debug/dwarf"
	"encoding/binary"
	"fmt"

	"fortio.org/safecast"

	"dbgdiff/internal/model"
	"dbgdiff/internal/observ"
)

type dwarfParser struct {
	obj    *object
	file   *model.File
	types  map[model.TypeRef]*model.Type
	nextID model.EntityID
}

// parseDwarf walks every compilation unit and materializes the entity tree.
// The resulting model is immutable from here on.
func parseDwarf(path string, obj *object, progress Sink) (*model.File, error) {
	p := &dwarfParser{
		obj:   obj,
		file:  &model.File{Path: path},
		types: make(map[model.TypeRef]*model.Type),
	}
	r := obj.data.Reader()
	for {
		e, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("malformed debug info: %w", err)
		}
		if e == nil {
			break
		}
		if e.Tag != dwarf.TagCompileUnit {
			if e.Children {
				r.SkipChildren()
			}
			continue
		}
		u, err := p.parseUnit(r, e)
		if err != nil {
			return nil, err
		}
		p.file.Units = append(p.file.Units, u)
		progress.Send(Event{Path: path, Stage: StageUnits, Detail: u.Name})
	}
	p.file.Hash = &model.FileHash{Types: p.types, PtrSize: obj.ptrSize}
	return p.file, nil
}

func (p *dwarfParser) newID() model.EntityID {
	p.nextID++
	return p.nextID
}

func (p *dwarfParser) parseUnit(r *dwarf.Reader, e *dwarf.Entry) (*model.Unit, error) {
	u := &model.Unit{
		ID:       p.newID(),
		Name:     attrString(e, dwarf.AttrName),
		Dir:      attrString(e, dwarf.AttrCompDir),
		Producer: attrString(e, dwarf.AttrProducer),
	}
	if lang, ok := attrInt(e, dwarf.AttrLanguage); ok {
		u.Language = languageName(lang)
	}
	var files []*dwarf.LineFile
	if lr, err := p.obj.data.LineReader(e); err == nil && lr != nil {
		files = lr.Files()
	}
	if e.Children {
		if err := p.parseScope(r, u, nil, files); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// parseScope consumes the children of a compilation unit or namespace entry.
func (p *dwarfParser) parseScope(r *dwarf.Reader, u *model.Unit, ns *model.Namespace, files []*dwarf.LineFile) error {
	for {
		e, err := r.Next()
		if err != nil {
			return fmt.Errorf("malformed debug info: %w", err)
		}
		if e == nil || e.Tag == 0 {
			return nil
		}
		switch e.Tag {
		case dwarf.TagNamespace:
			child := &model.Namespace{Parent: ns, Name: attrString(e, dwarf.AttrName)}
			if e.Children {
				if err := p.parseScope(r, u, child, files); err != nil {
					return err
				}
			}
		case dwarf.TagVariable:
			if v := p.parseVariable(e, ns, files); v != nil {
				u.Variables = append(u.Variables, v)
			}
			if e.Children {
				r.SkipChildren()
			}
		case dwarf.TagSubprogram:
			f, err := p.parseFunction(r, e, ns, files)
			if err != nil {
				return err
			}
			if f != nil {
				u.Functions = append(u.Functions, f)
			}
		case dwarf.TagStructType, dwarf.TagClassType, dwarf.TagUnionType,
			dwarf.TagEnumerationType, dwarf.TagTypedef, dwarf.TagBaseType,
			dwarf.TagPointerType, dwarf.TagArrayType, dwarf.TagSubroutineType,
			dwarf.TagConstType, dwarf.TagVolatileType, dwarf.TagRestrictType:
			if _, err := p.parseType(r, e, u, ns, files); err != nil {
				return err
			}
		default:
			if e.Children {
				r.SkipChildren()
			}
		}
	}
}

func (p *dwarfParser) parseVariable(e *dwarf.Entry, ns *model.Namespace, files []*dwarf.LineFile) *model.Variable {
	name := attrString(e, dwarf.AttrName)
	linkage := attrString(e, dwarf.AttrLinkageName)
	if name == "" && linkage == "" {
		return nil
	}
	v := &model.Variable{
		ID:          p.newID(),
		Name:        name,
		Namespace:   ns,
		LinkageName: linkage,
		Ty:          attrTypeRef(e),
		Declaration: attrBool(e, dwarf.AttrDeclaration),
		Source:      p.attrSource(e, files),
	}
	if loc, ok := e.Val(dwarf.AttrLocation).([]byte); ok {
		if addr, ok := p.parseAddrExpr(loc); ok {
			v.Address = addr
			v.HasAddress = true
			if sym, ok := p.obj.symtab[addr]; ok {
				v.SymbolName = sym
			}
		}
	}
	if sz, ok := attrInt(e, dwarf.AttrByteSize); ok {
		if usz, err := safecast.Conv[uint64](sz); err == nil {
			v.Size = usz
			v.HasSize = true
		}
	}
	return v
}

func (p *dwarfParser) parseFunction(r *dwarf.Reader, e *dwarf.Entry, ns *model.Namespace, files []*dwarf.LineFile) (*model.Function, error) {
	name := attrString(e, dwarf.AttrName)
	linkage := attrString(e, dwarf.AttrLinkageName)
	var f *model.Function
	if name != "" || linkage != "" {
		f = &model.Function{
			ID:          p.newID(),
			Name:        name,
			Namespace:   ns,
			LinkageName: linkage,
			ReturnTy:    attrTypeRef(e),
			Declaration: attrBool(e, dwarf.AttrDeclaration),
			Source:      p.attrSource(e, files),
		}
		if inline, ok := attrInt(e, dwarf.AttrInline); ok && inline != 0 {
			f.Inline = true
		}
		if low, ok := e.Val(dwarf.AttrLowpc).(uint64); ok && low != 0 {
			f.Address = low
			f.HasAddress = true
			if sym, ok := p.obj.symtab[low]; ok {
				f.SymbolName = sym
			}
			switch hi := e.Val(dwarf.AttrHighpc).(type) {
			case uint64: // address class
				if hi > low {
					f.Size = hi - low
					f.HasSize = true
				}
			case int64: // constant class: offset from low pc
				if usz, err := safecast.Conv[uint64](hi); err == nil {
					f.Size = usz
					f.HasSize = true
				}
			}
		}
	}
	if !e.Children {
		return f, nil
	}
	// Only formal parameters matter here; locals and lexical blocks are
	// outside the reported tree.
	for {
		child, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("malformed debug info: %w", err)
		}
		if child == nil || child.Tag == 0 {
			return f, nil
		}
		switch child.Tag {
		case dwarf.TagFormalParameter:
			if f != nil {
				f.Parameters = append(f.Parameters, model.Parameter{
					Name: attrString(child, dwarf.AttrName),
					Ty:   attrTypeRef(child),
				})
			}
			if child.Children {
				r.SkipChildren()
			}
		case dwarf.TagUnspecifiedParameters:
			if f != nil {
				f.Parameters = append(f.Parameters, model.Parameter{Name: "..."})
			}
			if child.Children {
				r.SkipChildren()
			}
		default:
			if child.Children {
				r.SkipChildren()
			}
		}
	}
}

func (p *dwarfParser) parseType(r *dwarf.Reader, e *dwarf.Entry, u *model.Unit, ns *model.Namespace, files []*dwarf.LineFile) (*model.Type, error) {
	t := &model.Type{
		ID:          p.newID(),
		Ref:         model.TypeRef(e.Offset),
		Name:        attrString(e, dwarf.AttrName),
		Namespace:   ns,
		Declaration: attrBool(e, dwarf.AttrDeclaration),
		Elem:        attrTypeRef(e),
		Source:      p.attrSource(e, files),
	}
	switch e.Tag {
	case dwarf.TagStructType, dwarf.TagClassType:
		t.Kind = model.TypeStruct
	case dwarf.TagUnionType:
		t.Kind = model.TypeUnion
	case dwarf.TagEnumerationType:
		t.Kind = model.TypeEnum
	case dwarf.TagTypedef:
		t.Kind = model.TypeDef
	case dwarf.TagBaseType:
		t.Kind = model.TypeBase
	case dwarf.TagPointerType:
		t.Kind = model.TypePointer
	case dwarf.TagArrayType:
		t.Kind = model.TypeArray
	case dwarf.TagSubroutineType:
		t.Kind = model.TypeSubroutine
	case dwarf.TagConstType, dwarf.TagVolatileType, dwarf.TagRestrictType:
		// Qualifiers render as their underlying type: an unnamed typedef
		// passthrough.
		t.Kind = model.TypeDef
		t.Name = ""
	default:
		t.Kind = model.TypeUnspecified
	}
	if sz, ok := attrInt(e, dwarf.AttrByteSize); ok {
		if usz, err := safecast.Conv[uint64](sz); err == nil {
			t.Size = usz
			t.HasSize = true
		}
	}
	p.types[t.Ref] = t
	if listableType(t) {
		u.Types = append(u.Types, t)
	}
	if !e.Children {
		return t, nil
	}
	for {
		child, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("malformed debug info: %w", err)
		}
		if child == nil || child.Tag == 0 {
			return t, nil
		}
		switch child.Tag {
		case dwarf.TagMember:
			t.Members = append(t.Members, p.parseMember(child))
			if child.Children {
				r.SkipChildren()
			}
		case dwarf.TagEnumerator:
			variant := model.EnumVariant{Name: attrString(child, dwarf.AttrName)}
			if val, ok := attrInt(child, dwarf.AttrConstValue); ok {
				variant.Value = val
			}
			t.Variants = append(t.Variants, variant)
			if child.Children {
				r.SkipChildren()
			}
		case dwarf.TagSubrangeType:
			if count, ok := attrInt(child, dwarf.AttrCount); ok {
				if ucount, err := safecast.Conv[uint64](count); err == nil {
					t.Count = ucount
					t.HasCount = true
				}
			} else if upper, ok := attrInt(child, dwarf.AttrUpperBound); ok && upper >= 0 {
				t.Count = uint64(upper) + 1
				t.HasCount = true
			}
			if child.Children {
				r.SkipChildren()
			}
		case dwarf.TagStructType, dwarf.TagClassType, dwarf.TagUnionType,
			dwarf.TagEnumerationType, dwarf.TagTypedef:
			// Nested named types are materialized too so member references
			// resolve.
			if _, err := p.parseType(r, child, u, &model.Namespace{Parent: ns, Name: t.Name}, files); err != nil {
				return nil, err
			}
		default:
			if child.Children {
				r.SkipChildren()
			}
		}
	}
}

func (p *dwarfParser) parseMember(e *dwarf.Entry) model.Member {
	m := model.Member{
		Name: attrString(e, dwarf.AttrName),
		Ty:   attrTypeRef(e),
	}
	switch loc := e.Val(dwarf.AttrDataMemberLoc).(type) {
	case int64:
		if off, err := safecast.Conv[uint64](loc); err == nil {
			m.Offset = off
		}
	case []byte:
		// DW_OP_plus_uconst ULEB128, the only expression form compilers
		// emit for plain data members.
		if len(loc) > 1 && loc[0] == 0x23 {
			if off, ok := decodeULEB128(loc[1:]); ok {
				m.Offset = off
			}
		}
	}
	if sz, ok := attrInt(e, dwarf.AttrByteSize); ok {
		if usz, err := safecast.Conv[uint64](sz); err == nil {
			m.Size = usz
			m.HasSize = true
		}
	}
	return m
}

// parseAddrExpr extracts the target of a DW_OP_addr location expression,
// the form static variables are described with.
func (p *dwarfParser) parseAddrExpr(expr []byte) (uint64, bool) {
	if len(expr) == 0 || expr[0] != 0x03 {
		return 0, false
	}
	body := expr[1:]
	switch p.obj.ptrSize {
	case 4:
		if len(body) >= 4 {
			return uint64(binary.LittleEndian.Uint32(body)), true
		}
	case 8:
		if len(body) >= 8 {
			return binary.LittleEndian.Uint64(body), true
		}
	}
	observ.Debugf("unsupported location expression (%d bytes)", len(expr))
	return 0, false
}

func (p *dwarfParser) attrSource(e *dwarf.Entry, files []*dwarf.LineFile) model.Source {
	// Index 0 is the unit's primary file in DWARF 5 line tables; older
	// versions leave that slot nil, which the nil check filters out.
	idx, ok := attrInt(e, dwarf.AttrDeclFile)
	if !ok || idx < 0 || idx >= int64(len(files)) || files[idx] == nil {
		return model.Source{}
	}
	src := model.Source{Path: files[idx].Name}
	if line, ok := attrInt(e, dwarf.AttrDeclLine); ok {
		if uline, err := safecast.Conv[uint32](line); err == nil {
			src.Line = uline
		}
	}
	if col, ok := attrInt(e, dwarf.AttrDeclColumn); ok {
		if ucol, err := safecast.Conv[uint32](col); err == nil {
			src.Column = ucol
		}
	}
	return src
}

// listableType reports whether a type gets its own top-level entry in the
// report. Anonymous and purely structural types (pointers, arrays) only
// exist for inline reference rendering.
func listableType(t *model.Type) bool {
	if t.Name == "" {
		return false
	}
	switch t.Kind {
	case model.TypeBase, model.TypeDef, model.TypeStruct, model.TypeUnion, model.TypeEnum:
		return true
	default:
		return false
	}
}

func decodeULEB128(b []byte) (uint64, bool) {
	var result uint64
	var shift uint
	for _, c := range b {
		result |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			return result, true
		}
		shift += 7
		if shift >= 64 {
			break
		}
	}
	return 0, false
}

func attrString(e *dwarf.Entry, a dwarf.Attr) string {
	s, _ := e.Val(a).(string)
	return s
}

func attrInt(e *dwarf.Entry, a dwarf.Attr) (int64, bool) {
	v, ok := e.Val(a).(int64)
	return v, ok
}

func attrBool(e *dwarf.Entry, a dwarf.Attr) bool {
	v, _ := e.Val(a).(bool)
	return v
}

func attrTypeRef(e *dwarf.Entry) model.TypeRef {
	if off, ok := e.Val(dwarf.AttrType).(dwarf.Offset); ok {
		return model.TypeRef(off)
	}
	return model.NoTypeRef
}

// languageName maps the DWARF language code to a display name. Unknown
// codes read as empty, which drops the field entirely.
func languageName(code int64) string {
	switch code {
	case 0x01, 0x02, 0x0c, 0x1d, 0x29:
		return "C"
	case 0x04, 0x1a, 0x21, 0x2c:
		return "C++"
	case 0x16:
		return "Go"
	case 0x1c:
		return "Rust"
	case 0x08:
		return "Ada"
	case 0x0e:
		return "Fortran"
	default:
		return ""
	}
}
