package print

import (
	"dbgdiff/internal/model"
	"dbgdiff/internal/observ"
	"dbgdiff/internal/options"
)

func printFunctionName(f *model.Function, p Printer) error {
	if err := Fprintf(p, "fn "); err != nil {
		return err
	}
	if err := printNamespace(f.Namespace, p); err != nil {
		return err
	}
	return p.Name(nameOrAnon(f.Name))
}

// printFunctionSignature renders "(a: T, b: U) -> R" as a single value so
// signature changes show up as one framed pair instead of field soup.
func printFunctionSignature(f *model.Function, p Printer, hash *model.FileHash) error {
	if err := Fprintf(p, "("); err != nil {
		return err
	}
	for i, param := range f.Parameters {
		if i > 0 {
			if err := Fprintf(p, ", "); err != nil {
				return err
			}
		}
		if param.Name != "" {
			if err := Fprintf(p, "%s: ", param.Name); err != nil {
				return err
			}
		}
		if err := printTypeRef(param.Ty, p, hash); err != nil {
			return err
		}
	}
	if err := Fprintf(p, ")"); err != nil {
		return err
	}
	if f.ReturnTy.IsValid() {
		if err := Fprintf(p, " -> "); err != nil {
			return err
		}
		return printTypeRef(f.ReturnTy, p, hash)
	}
	return nil
}

func printFunctionLinkageName(f *model.Function, p Printer) error {
	if f.LinkageName != "" {
		return Fprintf(p, "%s", f.LinkageName)
	}
	return nil
}

func printFunctionSymbolName(f *model.Function, p Printer) error {
	if f.SymbolName != "" {
		return Fprintf(p, "%s", f.SymbolName)
	}
	return nil
}

func printFunctionAddress(f *model.Function, p Printer) error {
	if f.HasAddress {
		return Fprintf(p, "0x%x", f.Address)
	}
	return nil
}

func printFunctionSize(f *model.Function, p Printer) error {
	if f.HasSize {
		return Fprintf(p, "%d", f.Size)
	} else if !f.Declaration && !f.Inline {
		observ.Debugf("function with no size: %s", nameOrAnon(f.Name))
	}
	return nil
}

func printFunctionInline(f *model.Function, p Printer) error {
	if f.Inline {
		return Fprintf(p, "yes")
	}
	return nil
}

func printFunctionDeclaration(f *model.Function, p Printer) error {
	if f.Declaration {
		return Fprintf(p, "yes")
	}
	return nil
}

func printFunctionHeader(s *PrintState, f *model.Function) error {
	return s.Line(func(p Printer, _ *model.FileHash) error {
		return printFunctionName(f, p)
	})
}

func printFunctionBody(s *PrintState, unit *model.Unit, f *model.Function) error {
	if err := s.Field("signature", func(p Printer, hash *model.FileHash) error {
		return printFunctionSignature(f, p, hash)
	}); err != nil {
		return err
	}
	if err := s.Field("linkage name", func(p Printer, _ *model.FileHash) error {
		return printFunctionLinkageName(f, p)
	}); err != nil {
		return err
	}
	if err := s.Field("symbol name", func(p Printer, _ *model.FileHash) error {
		return printFunctionSymbolName(f, p)
	}); err != nil {
		return err
	}
	if s.Options().PrintSource {
		if err := s.Field("source", func(p Printer, _ *model.FileHash) error {
			return printSource(f.Source, p, unit)
		}); err != nil {
			return err
		}
	}
	if err := s.Field("address", func(p Printer, _ *model.FileHash) error {
		return printFunctionAddress(f, p)
	}); err != nil {
		return err
	}
	if err := s.Field("size", func(p Printer, _ *model.FileHash) error {
		return printFunctionSize(f, p)
	}); err != nil {
		return err
	}
	if err := s.Field("inline", func(p Printer, _ *model.FileHash) error {
		return printFunctionInline(f, p)
	}); err != nil {
		return err
	}
	return s.Field("declaration", func(p Printer, _ *model.FileHash) error {
		return printFunctionDeclaration(f, p)
	})
}

// PrintFunction emits one function node with header, body and separator.
func PrintFunction(s *PrintState, unit *model.Unit, f *model.Function) error {
	if err := s.ID(f.ID, func(s *PrintState) error {
		return printFunctionHeader(s, f)
	}, func(s *PrintState) error {
		return printFunctionBody(s, unit, f)
	}); err != nil {
		return err
	}
	return s.LineBreak()
}

func diffFunctionHeader(d *DiffState, a, b *model.Function) error {
	return diffLine(d, a, b, func(p Printer, _ *model.FileHash, x *model.Function) error {
		return printFunctionName(x, p)
	})
}

func diffFunctionBody(d *DiffState, unitA *model.Unit, a *model.Function, unitB *model.Unit, b *model.Function) error {
	err := diffField(d, "signature", a, b, func(p Printer, hash *model.FileHash, x *model.Function) error {
		return printFunctionSignature(x, p, hash)
	})
	if err != nil {
		return err
	}
	err = d.IgnoreDiff(d.Options().IgnoreFunctionLinkageName, func(d *DiffState) error {
		return diffField(d, "linkage name", a, b, func(p Printer, _ *model.FileHash, x *model.Function) error {
			return printFunctionLinkageName(x, p)
		})
	})
	if err != nil {
		return err
	}
	err = d.IgnoreDiff(d.Options().IgnoreFunctionSymbolName, func(d *DiffState) error {
		return diffField(d, "symbol name", a, b, func(p Printer, _ *model.FileHash, x *model.Function) error {
			return printFunctionSymbolName(x, p)
		})
	})
	if err != nil {
		return err
	}
	if d.Options().PrintSource {
		err = diffFieldUnit(d, "source", unitA, a, unitB, b, func(p Printer, unit *model.Unit, x *model.Function) error {
			return printSource(x.Source, p, unit)
		})
		if err != nil {
			return err
		}
	}
	err = d.IgnoreDiff(d.Options().IgnoreFunctionAddress, func(d *DiffState) error {
		return diffField(d, "address", a, b, func(p Printer, _ *model.FileHash, x *model.Function) error {
			return printFunctionAddress(x, p)
		})
	})
	if err != nil {
		return err
	}
	err = d.IgnoreDiff(d.Options().IgnoreFunctionSize, func(d *DiffState) error {
		return diffField(d, "size", a, b, func(p Printer, _ *model.FileHash, x *model.Function) error {
			return printFunctionSize(x, p)
		})
	})
	if err != nil {
		return err
	}
	err = d.IgnoreDiff(d.Options().IgnoreFunctionInline, func(d *DiffState) error {
		return diffField(d, "inline", a, b, func(p Printer, _ *model.FileHash, x *model.Function) error {
			return printFunctionInline(x, p)
		})
	})
	if err != nil {
		return err
	}
	return diffField(d, "declaration", a, b, func(p Printer, _ *model.FileHash, x *model.Function) error {
		return printFunctionDeclaration(x, p)
	})
}

// DiffFunction emits the dual-tree form of one matched function pair.
func DiffFunction(d *DiffState, unitA *model.Unit, a *model.Function, unitB *model.Unit, b *model.Function) error {
	err := d.Collapsed(func(d *DiffState) error {
		return diffFunctionHeader(d, a, b)
	}, func(d *DiffState) error {
		return diffFunctionBody(d, unitA, a, unitB, b)
	})
	if err != nil {
		return err
	}
	return d.LineBreak()
}

// cmpFunctionID matches functions by qualified name alone. Mangled names are
// deliberately not part of the key (they may churn build-to-build and have
// their own ignore flag); overloads with equal names pair first-available in
// sorted order.
func cmpFunctionID(_ *model.FileHash, a *model.Function, _ *model.FileHash, b *model.Function) int {
	return model.CompareNsAndName(a.Namespace, a.Name, b.Namespace, b.Name)
}

func cmpFunctionBy(hashA *model.FileHash, a *model.Function, hashB *model.FileHash, b *model.Function, opts *options.Options) int {
	switch opts.Sort {
	case options.SortName:
		return cmpFunctionID(hashA, a, hashB, b)
	case options.SortSize:
		return cmpOptionalUint64(a.Size, a.HasSize, b.Size, b.HasSize)
	default:
		return cmpOptionalUint64(a.Address, a.HasAddress, b.Address, b.HasAddress)
	}
}

func functionOps() ListOps[*model.Function] {
	return ListOps[*model.Function]{
		Print: PrintFunction,
		Diff:  DiffFunction,
		CmpID: cmpFunctionID,
		CmpBy: cmpFunctionBy,
	}
}
