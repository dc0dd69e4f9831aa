package print

import (
	"dbgdiff/internal/model"
	"dbgdiff/internal/observ"
	"dbgdiff/internal/options"
)

func printVariableName(v *model.Variable, p Printer, hash *model.FileHash) error {
	if err := Fprintf(p, "var "); err != nil {
		return err
	}
	if err := printNamespace(v.Namespace, p); err != nil {
		return err
	}
	if err := p.Name(nameOrAnon(v.Name)); err != nil {
		return err
	}
	if err := Fprintf(p, ": "); err != nil {
		return err
	}
	return printTypeRef(v.Ty, p, hash)
}

func printVariableLinkageName(v *model.Variable, p Printer) error {
	if v.LinkageName != "" {
		return Fprintf(p, "%s", v.LinkageName)
	}
	return nil
}

func printVariableSymbolName(v *model.Variable, p Printer) error {
	if v.SymbolName != "" {
		return Fprintf(p, "%s", v.SymbolName)
	}
	return nil
}

func printVariableSource(v *model.Variable, p Printer, unit *model.Unit) error {
	return printSource(v.Source, p, unit)
}

func printVariableAddress(v *model.Variable, p Printer) error {
	if v.HasAddress {
		return Fprintf(p, "0x%x", v.Address)
	}
	return nil
}

func printVariableSize(v *model.Variable, p Printer, hash *model.FileHash) error {
	if size, ok := v.ByteSize(hash); ok {
		return Fprintf(p, "%d", size)
	} else if !v.Declaration {
		observ.Debugf("variable with no size: %s", nameOrAnon(v.Name))
	}
	return nil
}

func printVariableDeclaration(v *model.Variable, p Printer) error {
	if v.Declaration {
		return Fprintf(p, "yes")
	}
	return nil
}

func printVariableHeader(s *PrintState, v *model.Variable) error {
	return s.Line(func(p Printer, hash *model.FileHash) error {
		return printVariableName(v, p, hash)
	})
}

func printVariableBody(s *PrintState, unit *model.Unit, v *model.Variable) error {
	if err := s.Field("linkage name", func(p Printer, _ *model.FileHash) error {
		return printVariableLinkageName(v, p)
	}); err != nil {
		return err
	}
	if err := s.Field("symbol name", func(p Printer, _ *model.FileHash) error {
		return printVariableSymbolName(v, p)
	}); err != nil {
		return err
	}
	if s.Options().PrintSource {
		if err := s.Field("source", func(p Printer, _ *model.FileHash) error {
			return printVariableSource(v, p, unit)
		}); err != nil {
			return err
		}
	}
	if err := s.Field("address", func(p Printer, _ *model.FileHash) error {
		return printVariableAddress(v, p)
	}); err != nil {
		return err
	}
	if err := s.Field("size", func(p Printer, hash *model.FileHash) error {
		return printVariableSize(v, p, hash)
	}); err != nil {
		return err
	}
	return s.Field("declaration", func(p Printer, _ *model.FileHash) error {
		return printVariableDeclaration(v, p)
	})
	// TODO: print anon type inline
}

// PrintVariable emits one variable node: linked header, indented body,
// trailing separator.
func PrintVariable(s *PrintState, unit *model.Unit, v *model.Variable) error {
	if err := s.ID(v.ID, func(s *PrintState) error {
		return printVariableHeader(s, v)
	}, func(s *PrintState) error {
		return printVariableBody(s, unit, v)
	}); err != nil {
		return err
	}
	return s.LineBreak()
}

func diffVariableHeader(d *DiffState, a, b *model.Variable) error {
	return diffLine(d, a, b, func(p Printer, hash *model.FileHash, x *model.Variable) error {
		return printVariableName(x, p, hash)
	})
}

func diffVariableBody(d *DiffState, unitA *model.Unit, a *model.Variable, unitB *model.Unit, b *model.Variable) error {
	err := d.IgnoreDiff(d.Options().IgnoreVariableLinkageName, func(d *DiffState) error {
		return diffField(d, "linkage name", a, b, func(p Printer, _ *model.FileHash, x *model.Variable) error {
			return printVariableLinkageName(x, p)
		})
	})
	if err != nil {
		return err
	}
	err = d.IgnoreDiff(d.Options().IgnoreVariableSymbolName, func(d *DiffState) error {
		return diffField(d, "symbol name", a, b, func(p Printer, _ *model.FileHash, x *model.Variable) error {
			return printVariableSymbolName(x, p)
		})
	})
	if err != nil {
		return err
	}
	if d.Options().PrintSource {
		err = diffFieldUnit(d, "source", unitA, a, unitB, b, func(p Printer, unit *model.Unit, x *model.Variable) error {
			return printVariableSource(x, p, unit)
		})
		if err != nil {
			return err
		}
	}
	err = d.IgnoreDiff(d.Options().IgnoreVariableAddress, func(d *DiffState) error {
		return diffField(d, "address", a, b, func(p Printer, _ *model.FileHash, x *model.Variable) error {
			return printVariableAddress(x, p)
		})
	})
	if err != nil {
		return err
	}
	err = diffField(d, "size", a, b, func(p Printer, hash *model.FileHash, x *model.Variable) error {
		return printVariableSize(x, p, hash)
	})
	if err != nil {
		return err
	}
	return diffField(d, "declaration", a, b, func(p Printer, _ *model.FileHash, x *model.Variable) error {
		return printVariableDeclaration(x, p)
	})
}

// DiffVariable emits the dual-tree form of one matched variable pair. The
// whole region collapses when nothing differs.
func DiffVariable(d *DiffState, unitA *model.Unit, a *model.Variable, unitB *model.Unit, b *model.Variable) error {
	err := d.Collapsed(func(d *DiffState) error {
		return diffVariableHeader(d, a, b)
	}, func(d *DiffState) error {
		return diffVariableBody(d, unitA, a, unitB, b)
	})
	if err != nil {
		return err
	}
	return d.LineBreak()
}

// cmpVariableID is the matching order: the namespace-qualified name alone.
// Mangled names stay out of the key so a variable whose linkage name churned
// between builds still aligns with itself; same-named duplicates pair
// first-available in sorted order.
func cmpVariableID(_ *model.FileHash, a *model.Variable, _ *model.FileHash, b *model.Variable) int {
	return model.CompareNsAndName(a.Namespace, a.Name, b.Namespace, b.Name)
}

// cmpVariableBy is the display order selected by the sort option.
func cmpVariableBy(hashA *model.FileHash, a *model.Variable, hashB *model.FileHash, b *model.Variable, opts *options.Options) int {
	switch opts.Sort {
	case options.SortName:
		return cmpVariableID(hashA, a, hashB, b)
	case options.SortSize:
		sizeA, okA := a.ByteSize(hashA)
		sizeB, okB := b.ByteSize(hashB)
		return cmpOptionalUint64(sizeA, okA, sizeB, okB)
	default:
		return cmpOptionalUint64(a.Address, a.HasAddress, b.Address, b.HasAddress)
	}
}

func variableOps() ListOps[*model.Variable] {
	return ListOps[*model.Variable]{
		Print: PrintVariable,
		Diff:  DiffVariable,
		CmpID: cmpVariableID,
		CmpBy: cmpVariableBy,
	}
}
