package print

import (
	"slices"

	"dbgdiff/internal/model"
	"dbgdiff/internal/options"
)

// ListOps bundles the per-kind callbacks the generic list walkers dispatch
// through.
//
// CmpID defines the total order used for matching entities across two trees.
// It must be a pure function of immutable attributes and must never consult
// Options, so matching stays stable regardless of display preference. CmpBy
// defines the display order and may disagree with CmpID.
type ListOps[T any] struct {
	Print func(s *PrintState, unit *model.Unit, x T) error
	Diff  func(d *DiffState, unitA *model.Unit, a T, unitB *model.Unit, b T) error
	CmpID func(hashA *model.FileHash, a T, hashB *model.FileHash, b T) int
	CmpBy func(hashA *model.FileHash, a T, hashB *model.FileHash, b T, opts *options.Options) int
}

// PrintList renders a collection in display order.
func PrintList[T any](s *PrintState, unit *model.Unit, list []T, ops ListOps[T]) error {
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return ops.CmpBy(s.hash, a, s.hash, b, s.opts)
	})
	for _, x := range sorted {
		if err := ops.Print(s, unit, x); err != nil {
			return err
		}
	}
	return nil
}

type mergeKind uint8

const (
	mergeMatch mergeKind = iota
	mergeOnlyA
	mergeOnlyB
)

type mergeItem[T any] struct {
	kind mergeKind
	a, b T
}

// key selects the side used when ordering merged items for display.
func (m mergeItem[T]) key(hashA, hashB *model.FileHash) (*model.FileHash, T) {
	if m.kind == mergeOnlyB {
		return hashB, m.b
	}
	return hashA, m.a
}

// alignLists sorts both collections by CmpID and merge-walks them. Equal
// keys pair up; a key present on one side only becomes an unmatched removal
// or addition. Ties among genuinely distinct entities with equal keys pair
// first-available, which is stable because the sort is.
func alignLists[T any](hashA *model.FileHash, la []T, hashB *model.FileHash, lb []T,
	cmpID func(hashA *model.FileHash, a T, hashB *model.FileHash, b T) int) []mergeItem[T] {
	sa := slices.Clone(la)
	sb := slices.Clone(lb)
	slices.SortStableFunc(sa, func(a, b T) int { return cmpID(hashA, a, hashA, b) })
	slices.SortStableFunc(sb, func(a, b T) int { return cmpID(hashB, a, hashB, b) })

	merged := make([]mergeItem[T], 0, max(len(sa), len(sb)))
	i, j := 0, 0
	for i < len(sa) && j < len(sb) {
		switch c := cmpID(hashA, sa[i], hashB, sb[j]); {
		case c < 0:
			merged = append(merged, mergeItem[T]{kind: mergeOnlyA, a: sa[i]})
			i++
		case c > 0:
			merged = append(merged, mergeItem[T]{kind: mergeOnlyB, b: sb[j]})
			j++
		default:
			merged = append(merged, mergeItem[T]{kind: mergeMatch, a: sa[i], b: sb[j]})
			i++
			j++
		}
	}
	for ; i < len(sa); i++ {
		merged = append(merged, mergeItem[T]{kind: mergeOnlyA, a: sa[i]})
	}
	for ; j < len(sb); j++ {
		merged = append(merged, mergeItem[T]{kind: mergeOnlyB, b: sb[j]})
	}
	return merged
}

// DiffList aligns two same-kind collections, re-orders the merged result for
// display, and emits: matched pairs through the kind's diff routine,
// unmatched entries as full removed/added prints. Structural matching and
// visual ordering are decoupled on purpose.
func DiffList[T any](d *DiffState, unitA *model.Unit, la []T, unitB *model.Unit, lb []T, ops ListOps[T]) error {
	hashA, hashB := d.a.hash, d.b.hash
	merged := alignLists(hashA, la, hashB, lb, ops.CmpID)
	slices.SortStableFunc(merged, func(x, y mergeItem[T]) int {
		hx, vx := x.key(hashA, hashB)
		hy, vy := y.key(hashA, hashB)
		return ops.CmpBy(hx, vx, hy, vy, d.opts)
	})
	for _, m := range merged {
		var err error
		switch m.kind {
		case mergeMatch:
			err = ops.Diff(d, unitA, m.a, unitB, m.b)
		case mergeOnlyA:
			err = d.PrefixedA(func(s *PrintState) error { return ops.Print(s, unitA, m.a) })
		case mergeOnlyB:
			err = d.PrefixedB(func(s *PrintState) error { return ops.Print(s, unitB, m.b) })
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// cmpOptionalUint64 orders optional numeric attributes: absent sorts as the
// minimal value.
func cmpOptionalUint64(a uint64, okA bool, b uint64, okB bool) int {
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
