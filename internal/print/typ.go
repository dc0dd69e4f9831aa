package print

import (
	"dbgdiff/internal/model"
	"dbgdiff/internal/observ"
	"dbgdiff/internal/options"
)

// maxTypeRefDepth bounds inline type rendering through pointer/array chains.
const maxTypeRefDepth = 16

// printTypeRef renders the inline name of a referenced type, linked to the
// type's own entry when it has one. An invalid reference reads as "void"
// (the usual encoding of a missing return or element type); a dangling one
// as "<unknown>".
func printTypeRef(ref model.TypeRef, p Printer, hash *model.FileHash) error {
	return printTypeRefDepth(ref, p, hash, 0)
}

func printTypeRefDepth(ref model.TypeRef, p Printer, hash *model.FileHash, depth int) error {
	if !ref.IsValid() {
		return Fprintf(p, "void")
	}
	t, ok := hash.Type(ref)
	if !ok || depth > maxTypeRefDepth {
		if !ok {
			observ.Debugf("unresolved type reference 0x%x", uint64(ref))
		}
		return Fprintf(p, "<unknown>")
	}
	// Qualifier wrappers (const, volatile) come through as nameless typedefs;
	// render the underlying type in their place.
	if t.Kind == model.TypeDef && t.Name == "" {
		return printTypeRefDepth(t.Elem, p, hash, depth+1)
	}
	return p.Link(t.ID, func(p Printer) error {
		switch t.Kind {
		case model.TypePointer:
			if err := Fprintf(p, "* "); err != nil {
				return err
			}
			return printTypeRefDepth(t.Elem, p, hash, depth+1)
		case model.TypeArray:
			if err := Fprintf(p, "["); err != nil {
				return err
			}
			if err := printTypeRefDepth(t.Elem, p, hash, depth+1); err != nil {
				return err
			}
			if t.HasCount {
				if err := Fprintf(p, "; %d", t.Count); err != nil {
					return err
				}
			}
			return Fprintf(p, "]")
		case model.TypeSubroutine:
			return Fprintf(p, "fn ()")
		case model.TypeStruct, model.TypeUnion, model.TypeEnum:
			if t.Name == "" {
				return Fprintf(p, "%s <anon>", t.Kind.Keyword())
			}
			fallthrough
		default:
			if err := printNamespace(t.Namespace, p); err != nil {
				return err
			}
			return p.Name(nameOrAnon(t.Name))
		}
	})
}

func printTypeName(t *model.Type, p Printer, hash *model.FileHash) error {
	switch t.Kind {
	case model.TypeBase:
		if err := Fprintf(p, "base "); err != nil {
			return err
		}
		return p.Name(nameOrAnon(t.Name))
	case model.TypeDef:
		if err := Fprintf(p, "type "); err != nil {
			return err
		}
		if err := printNamespace(t.Namespace, p); err != nil {
			return err
		}
		if err := p.Name(nameOrAnon(t.Name)); err != nil {
			return err
		}
		if err := Fprintf(p, " = "); err != nil {
			return err
		}
		return printTypeRef(t.Elem, p, hash)
	default:
		if err := Fprintf(p, "%s ", t.Kind.Keyword()); err != nil {
			return err
		}
		if err := printNamespace(t.Namespace, p); err != nil {
			return err
		}
		return p.Name(nameOrAnon(t.Name))
	}
}

func printTypeSize(t *model.Type, p Printer, hash *model.FileHash) error {
	if size, ok := t.ByteSize(hash); ok {
		return Fprintf(p, "%d", size)
	} else if !t.Declaration {
		observ.Debugf("type with no size: %s", nameOrAnon(t.Name))
	}
	return nil
}

func printTypeDeclaration(t *model.Type, p Printer) error {
	if t.Declaration {
		return Fprintf(p, "yes")
	}
	return nil
}

// printMember renders one data member as a single line:
// "OFFSET[SIZE]\tname: TYPE".
func printMember(m model.Member, p Printer, hash *model.FileHash) error {
	if err := Fprintf(p, "%d", m.Offset); err != nil {
		return err
	}
	if m.HasSize {
		if err := Fprintf(p, "[%d]", m.Size); err != nil {
			return err
		}
	} else if size, ok := hash.TypeSize(m.Ty); ok {
		if err := Fprintf(p, "[%d]", size); err != nil {
			return err
		}
	}
	if err := Fprintf(p, "\t"); err != nil {
		return err
	}
	if err := p.Name(nameOrAnon(m.Name)); err != nil {
		return err
	}
	if err := Fprintf(p, ": "); err != nil {
		return err
	}
	return printTypeRef(m.Ty, p, hash)
}

func memberOps() ListOps[model.Member] {
	return ListOps[model.Member]{
		Print: func(s *PrintState, _ *model.Unit, m model.Member) error {
			return s.Line(func(p Printer, hash *model.FileHash) error {
				return printMember(m, p, hash)
			})
		},
		Diff: func(d *DiffState, _ *model.Unit, a model.Member, _ *model.Unit, b model.Member) error {
			return diffLine(d, a, b, func(p Printer, hash *model.FileHash, x model.Member) error {
				return printMember(x, p, hash)
			})
		},
		CmpID: func(_ *model.FileHash, a model.Member, _ *model.FileHash, b model.Member) int {
			return compareStrings(a.Name, b.Name)
		},
		CmpBy: func(hashA *model.FileHash, a model.Member, hashB *model.FileHash, b model.Member, opts *options.Options) int {
			switch opts.Sort {
			case options.SortName:
				return compareStrings(a.Name, b.Name)
			case options.SortSize:
				return cmpOptionalUint64(a.Size, a.HasSize, b.Size, b.HasSize)
			default:
				return cmpOptionalUint64(a.Offset, true, b.Offset, true)
			}
		},
	}
}

// printVariant renders one enumerator as "name = value".
func printVariant(v model.EnumVariant, p Printer) error {
	if err := p.Name(nameOrAnon(v.Name)); err != nil {
		return err
	}
	return Fprintf(p, " = %d", v.Value)
}

func variantOps() ListOps[model.EnumVariant] {
	return ListOps[model.EnumVariant]{
		Print: func(s *PrintState, _ *model.Unit, v model.EnumVariant) error {
			return s.Line(func(p Printer, _ *model.FileHash) error {
				return printVariant(v, p)
			})
		},
		Diff: func(d *DiffState, _ *model.Unit, a model.EnumVariant, _ *model.Unit, b model.EnumVariant) error {
			return diffLine(d, a, b, func(p Printer, _ *model.FileHash, x model.EnumVariant) error {
				return printVariant(x, p)
			})
		},
		CmpID: func(_ *model.FileHash, a model.EnumVariant, _ *model.FileHash, b model.EnumVariant) int {
			return compareStrings(a.Name, b.Name)
		},
		CmpBy: func(_ *model.FileHash, a model.EnumVariant, _ *model.FileHash, b model.EnumVariant, opts *options.Options) int {
			if opts.Sort == options.SortName {
				return compareStrings(a.Name, b.Name)
			}
			switch {
			case a.Value < b.Value:
				return -1
			case a.Value > b.Value:
				return 1
			default:
				return 0
			}
		},
	}
}

func printTypeHeader(s *PrintState, t *model.Type) error {
	return s.Line(func(p Printer, hash *model.FileHash) error {
		return printTypeName(t, p, hash)
	})
}

func printTypeBody(s *PrintState, unit *model.Unit, t *model.Type) error {
	if err := s.Field("size", func(p Printer, hash *model.FileHash) error {
		return printTypeSize(t, p, hash)
	}); err != nil {
		return err
	}
	if s.Options().PrintSource {
		if err := s.Field("source", func(p Printer, _ *model.FileHash) error {
			return printSource(t.Source, p, unit)
		}); err != nil {
			return err
		}
	}
	if err := s.Field("declaration", func(p Printer, _ *model.FileHash) error {
		return printTypeDeclaration(t, p)
	}); err != nil {
		return err
	}
	if len(t.Members) > 0 {
		if err := s.Line(func(p Printer, _ *model.FileHash) error {
			return Fprintf(p, "members:")
		}); err != nil {
			return err
		}
		s.indent++
		err := PrintList(s, unit, t.Members, memberOps())
		s.indent--
		if err != nil {
			return err
		}
	}
	if len(t.Variants) > 0 {
		if err := s.Line(func(p Printer, _ *model.FileHash) error {
			return Fprintf(p, "variants:")
		}); err != nil {
			return err
		}
		s.indent++
		err := PrintList(s, unit, t.Variants, variantOps())
		s.indent--
		if err != nil {
			return err
		}
	}
	return nil
}

// PrintType emits one type node with header, body and separator.
func PrintType(s *PrintState, unit *model.Unit, t *model.Type) error {
	if err := s.ID(t.ID, func(s *PrintState) error {
		return printTypeHeader(s, t)
	}, func(s *PrintState) error {
		return printTypeBody(s, unit, t)
	}); err != nil {
		return err
	}
	return s.LineBreak()
}

func diffTypeBody(d *DiffState, unitA *model.Unit, a *model.Type, unitB *model.Unit, b *model.Type) error {
	err := diffField(d, "size", a, b, func(p Printer, hash *model.FileHash, x *model.Type) error {
		return printTypeSize(x, p, hash)
	})
	if err != nil {
		return err
	}
	if d.Options().PrintSource {
		err = diffFieldUnit(d, "source", unitA, a, unitB, b, func(p Printer, unit *model.Unit, x *model.Type) error {
			return printSource(x.Source, p, unit)
		})
		if err != nil {
			return err
		}
	}
	err = diffField(d, "declaration", a, b, func(p Printer, _ *model.FileHash, x *model.Type) error {
		return printTypeDeclaration(x, p)
	})
	if err != nil {
		return err
	}
	if len(a.Members) > 0 || len(b.Members) > 0 {
		if err := d.labelLine("members:"); err != nil {
			return err
		}
		d.a.indent++
		d.b.indent++
		err = DiffList(d, unitA, a.Members, unitB, b.Members, memberOps())
		d.a.indent--
		d.b.indent--
		if err != nil {
			return err
		}
	}
	if len(a.Variants) > 0 || len(b.Variants) > 0 {
		if err := d.labelLine("variants:"); err != nil {
			return err
		}
		d.a.indent++
		d.b.indent++
		err = DiffList(d, unitA, a.Variants, unitB, b.Variants, variantOps())
		d.a.indent--
		d.b.indent--
		if err != nil {
			return err
		}
	}
	return nil
}

// DiffType emits the dual-tree form of one matched type pair. Member and
// variant lists are aligned and diffed like any other entity list.
func DiffType(d *DiffState, unitA *model.Unit, a *model.Type, unitB *model.Unit, b *model.Type) error {
	err := d.Collapsed(func(d *DiffState) error {
		return diffLine(d, a, b, func(p Printer, hash *model.FileHash, x *model.Type) error {
			return printTypeName(x, p, hash)
		})
	}, func(d *DiffState) error {
		return diffTypeBody(d, unitA, a, unitB, b)
	})
	if err != nil {
		return err
	}
	return d.LineBreak()
}

// cmpTypeID matches types by kind keyword, then qualified name. Two same
// named types of a different shape (a struct replaced by a union) should
// read as remove+add, not as an in-place mutation.
func cmpTypeID(_ *model.FileHash, a *model.Type, _ *model.FileHash, b *model.Type) int {
	if c := compareStrings(a.Kind.Keyword(), b.Kind.Keyword()); c != 0 {
		return c
	}
	return model.CompareNsAndName(a.Namespace, a.Name, b.Namespace, b.Name)
}

func cmpTypeBy(hashA *model.FileHash, a *model.Type, hashB *model.FileHash, b *model.Type, opts *options.Options) int {
	switch opts.Sort {
	case options.SortName:
		return cmpTypeID(hashA, a, hashB, b)
	case options.SortSize:
		sizeA, okA := a.ByteSize(hashA)
		sizeB, okB := b.ByteSize(hashB)
		return cmpOptionalUint64(sizeA, okA, sizeB, okB)
	default:
		return 0
	}
}

func typeOps() ListOps[*model.Type] {
	return ListOps[*model.Type]{
		Print: PrintType,
		Diff:  DiffType,
		CmpID: cmpTypeID,
		CmpBy: cmpTypeBy,
	}
}
