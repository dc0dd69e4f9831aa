package print

import (
	"dbgdiff/internal/model"
	"dbgdiff/internal/options"
)

func printUnitName(u *model.Unit, p Printer) error {
	if err := Fprintf(p, "unit "); err != nil {
		return err
	}
	return p.Name(nameOrAnon(u.Name))
}

func printUnitProducer(u *model.Unit, p Printer) error {
	if u.Producer != "" {
		return Fprintf(p, "%s", u.Producer)
	}
	return nil
}

func printUnitLanguage(u *model.Unit, p Printer) error {
	if u.Language != "" {
		return Fprintf(p, "%s", u.Language)
	}
	return nil
}

func printUnitBody(s *PrintState, u *model.Unit) error {
	opts := s.Options()
	if opts.PrintUnits() {
		if err := s.Field("producer", func(p Printer, _ *model.FileHash) error {
			return printUnitProducer(u, p)
		}); err != nil {
			return err
		}
		if err := s.Field("language", func(p Printer, _ *model.FileHash) error {
			return printUnitLanguage(u, p)
		}); err != nil {
			return err
		}
	}
	if opts.PrintTypes() {
		if err := PrintList(s, u, u.Types, typeOps()); err != nil {
			return err
		}
	}
	if opts.PrintFunctions() {
		if err := PrintList(s, u, u.Functions, functionOps()); err != nil {
			return err
		}
	}
	if opts.PrintVariables() {
		if err := PrintList(s, u, u.Variables, variableOps()); err != nil {
			return err
		}
	}
	return nil
}

// PrintUnit emits one compilation unit: header, metadata fields, then the
// filtered entity sections.
func PrintUnit(s *PrintState, u *model.Unit) error {
	if err := s.ID(u.ID, func(s *PrintState) error {
		return s.Line(func(p Printer, _ *model.FileHash) error {
			return printUnitName(u, p)
		})
	}, func(s *PrintState) error {
		return printUnitBody(s, u)
	}); err != nil {
		return err
	}
	return s.LineBreak()
}

func diffUnitBody(d *DiffState, a, b *model.Unit) error {
	opts := d.Options()
	if opts.PrintUnits() {
		err := diffField(d, "producer", a, b, func(p Printer, _ *model.FileHash, x *model.Unit) error {
			return printUnitProducer(x, p)
		})
		if err != nil {
			return err
		}
		err = diffField(d, "language", a, b, func(p Printer, _ *model.FileHash, x *model.Unit) error {
			return printUnitLanguage(x, p)
		})
		if err != nil {
			return err
		}
	}
	if opts.PrintTypes() {
		if err := DiffList(d, a, a.Types, b, b.Types, typeOps()); err != nil {
			return err
		}
	}
	if opts.PrintFunctions() {
		if err := DiffList(d, a, a.Functions, b, b.Functions, functionOps()); err != nil {
			return err
		}
	}
	if opts.PrintVariables() {
		if err := DiffList(d, a, a.Variables, b, b.Variables, variableOps()); err != nil {
			return err
		}
	}
	return nil
}

// DiffUnit emits the dual-tree form of one matched unit pair. An unchanged
// unit collapses entirely.
func DiffUnit(d *DiffState, a, b *model.Unit) error {
	err := d.Collapsed(func(d *DiffState) error {
		return diffLine(d, a, b, func(p Printer, _ *model.FileHash, x *model.Unit) error {
			return printUnitName(x, p)
		})
	}, func(d *DiffState) error {
		return diffUnitBody(d, a, b)
	})
	if err != nil {
		return err
	}
	return d.LineBreak()
}

// cmpUnitID matches units by name: the compilation unit path is the only
// stable identity a unit has.
func cmpUnitID(_ *model.FileHash, a *model.Unit, _ *model.FileHash, b *model.Unit) int {
	return compareStrings(a.Name, b.Name)
}

func cmpUnitBy(hashA *model.FileHash, a *model.Unit, hashB *model.FileHash, b *model.Unit, opts *options.Options) int {
	if opts.Sort == options.SortNone {
		return 0
	}
	return cmpUnitID(hashA, a, hashB, b)
}
