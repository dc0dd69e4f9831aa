package print

import (
	"bytes"
	"io"
	"slices"

	"golang.org/x/sync/errgroup"

	"dbgdiff/internal/model"
	"dbgdiff/internal/options"
)

// PrintFile renders the full single-tree report of one file. With Jobs > 1
// each top-level unit is rendered concurrently into its own buffer and the
// buffers are concatenated in display order, so output stays byte-identical
// to the sequential path.
func PrintFile(w io.Writer, format Format, file *model.File, opts *options.Options) error {
	units := slices.Clone(file.Units)
	slices.SortStableFunc(units, func(a, b *model.Unit) int {
		return cmpUnitBy(file.Hash, a, file.Hash, b, opts)
	})

	if opts.Jobs > 1 {
		bufs := make([]bytes.Buffer, len(units))
		var group errgroup.Group
		group.SetLimit(opts.Jobs)
		for i, u := range units {
			i, u := i, u
			group.Go(func() error {
				s := NewPrintState(&bufs[i], format, file.Hash, opts)
				return PrintUnit(s, u)
			})
		}
		if err := group.Wait(); err != nil {
			return err
		}
		for i := range bufs {
			if _, err := w.Write(bufs[i].Bytes()); err != nil {
				return err
			}
		}
		return nil
	}

	s := NewPrintState(w, format, file.Hash, opts)
	for _, u := range units {
		if err := PrintUnit(s, u); err != nil {
			return err
		}
	}
	return nil
}

// DiffFile renders the structural diff of two files: units are aligned by
// name, matched pairs are diffed (and collapse when unchanged), unmatched
// units appear as full removed/added prints. Returns whether anything
// differed.
func DiffFile(w io.Writer, format Format, fileA, fileB *model.File, opts *options.Options) (bool, error) {
	hashA, hashB := fileA.Hash, fileB.Hash
	merged := alignLists(hashA, fileA.Units, hashB, fileB.Units, cmpUnitID)
	slices.SortStableFunc(merged, func(x, y mergeItem[*model.Unit]) int {
		hx, vx := x.key(hashA, hashB)
		hy, vy := y.key(hashA, hashB)
		return cmpUnitBy(hx, vx, hy, vy, opts)
	})

	if opts.Jobs > 1 {
		return diffFileParallel(w, format, hashA, hashB, merged, opts)
	}

	changed := false
	d := NewDiffState(w, format, hashA, hashB, opts)
	for _, m := range merged {
		if err := diffMergedUnit(d, m); err != nil {
			return changed, err
		}
		changed = changed || d.Changed()
		// Полные регионы уходят в sink сразу: при ошибке вывода
		// остаются только завершённые юниты.
		if err := d.Flush(); err != nil {
			return changed, err
		}
	}
	return changed, nil
}

func diffMergedUnit(d *DiffState, m mergeItem[*model.Unit]) error {
	switch m.kind {
	case mergeOnlyA:
		return d.PrefixedA(func(s *PrintState) error { return PrintUnit(s, m.a) })
	case mergeOnlyB:
		return d.PrefixedB(func(s *PrintState) error { return PrintUnit(s, m.b) })
	default:
		return DiffUnit(d, m.a, m.b)
	}
}

// diffFileParallel diffs each merged unit into its own buffer and writes the
// buffers in display order.
func diffFileParallel(w io.Writer, format Format, hashA, hashB *model.FileHash, merged []mergeItem[*model.Unit], opts *options.Options) (bool, error) {
	bufs := make([]bytes.Buffer, len(merged))
	changedFlags := make([]bool, len(merged))
	var group errgroup.Group
	group.SetLimit(opts.Jobs)
	for i, m := range merged {
		i, m := i, m
		group.Go(func() error {
			d := NewDiffState(&bufs[i], format, hashA, hashB, opts)
			if err := diffMergedUnit(d, m); err != nil {
				return err
			}
			changedFlags[i] = d.Changed()
			return d.Flush()
		})
	}
	if err := group.Wait(); err != nil {
		return false, err
	}
	changed := false
	for i := range bufs {
		changed = changed || changedFlags[i]
		if _, err := w.Write(bufs[i].Bytes()); err != nil {
			return changed, err
		}
	}
	return changed, nil
}
