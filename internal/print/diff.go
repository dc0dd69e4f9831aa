package print

import (
	"bytes"
	"io"

	"dbgdiff/internal/model"
	"dbgdiff/internal/options"
)

// DiffState is the dual-tree rendering cursor. It wraps one PrintState per
// side, both writing into a shared scoped buffer, plus the bookkeeping that
// decides whether a buffered region is kept or collapsed.
//
// Change detection is strictly bottom-up: a scope is marked changed iff one
// of its own fields differed or a nested scope was marked changed. Ignored
// fields never contribute to the signal.
type DiffState struct {
	buf    bytes.Buffer
	out    io.Writer
	format Format
	opts   *options.Options

	a *PrintState // side A cursor, "- " framing
	b *PrintState // side B cursor, "+ " framing

	changed bool // did the current scope differ
	ignore  bool // inside an IgnoreDiff body
	kept    bool // was the last collapsed region kept
}

// NewDiffState returns a cursor diffing tree A (hashA) against tree B
// (hashB), buffering output until Flush.
func NewDiffState(out io.Writer, format Format, hashA, hashB *model.FileHash, opts *options.Options) *DiffState {
	d := &DiffState{out: out, format: format, opts: opts}
	d.a = &PrintState{w: &d.buf, format: format, hash: hashA, opts: opts, prefix: PrefixRemove}
	d.b = &PrintState{w: &d.buf, format: format, hash: hashB, opts: opts, prefix: PrefixAdd}
	return d
}

// Options returns the immutable configuration of this report.
func (d *DiffState) Options() *options.Options { return d.opts }

// Changed reports whether any kept region differed so far.
func (d *DiffState) Changed() bool { return d.kept || d.changed }

// equalLine emits content once, framed as present on both sides.
func (d *DiffState) equalLine(content []byte) error {
	return d.format.WriteLine(&d.buf, PrefixEqual, d.a.indent, content)
}

// labelLine emits a bare section label ("members:") without touching the
// change signal.
func (d *DiffState) labelLine(label string) error {
	return d.equalLine([]byte(label))
}

// emit writes the outcome of one compared region. Label may be empty for
// whole-line content.
func (d *DiffState) emit(label string, contentA, contentB []byte) error {
	withLabel := func(content []byte) []byte {
		if label == "" {
			return content
		}
		return append([]byte(label+": "), content...)
	}
	if d.ignore {
		// Ignored: render side A only, never mark the scope changed.
		if len(contentA) == 0 {
			return nil
		}
		return d.equalLine(withLabel(contentA))
	}
	if bytes.Equal(contentA, contentB) {
		if len(contentA) == 0 {
			return nil
		}
		return d.equalLine(withLabel(contentA))
	}
	d.changed = true
	if len(contentA) > 0 {
		if err := d.format.WriteLine(&d.buf, PrefixRemove, d.a.indent, withLabel(contentA)); err != nil {
			return err
		}
	}
	if len(contentB) > 0 {
		if err := d.format.WriteLine(&d.buf, PrefixAdd, d.b.indent, withLabel(contentB)); err != nil {
			return err
		}
	}
	return nil
}

// DiffRenderFn renders one side's value of a compared field or line.
type DiffRenderFn[T any] func(p Printer, hash *model.FileHash, x T) error

// diffLine compares whole-line content rendered from a and b.
func diffLine[T any](d *DiffState, a, b T, f DiffRenderFn[T]) error {
	contentA, err := d.a.render(func(p Printer, hash *model.FileHash) error { return f(p, hash, a) })
	if err != nil {
		return err
	}
	contentB, err := d.b.render(func(p Printer, hash *model.FileHash) error { return f(p, hash, b) })
	if err != nil {
		return err
	}
	return d.emit("", contentA, contentB)
}

// diffField compares a labeled field value rendered from a and b. Identical
// values are emitted once; diverging values are framed as removed/added and
// mark the enclosing scope as changed.
func diffField[T any](d *DiffState, label string, a, b T, f DiffRenderFn[T]) error {
	contentA, err := d.a.render(func(p Printer, hash *model.FileHash) error { return f(p, hash, a) })
	if err != nil {
		return err
	}
	contentB, err := d.b.render(func(p Printer, hash *model.FileHash) error { return f(p, hash, b) })
	if err != nil {
		return err
	}
	return d.emit(label, contentA, contentB)
}

// diffFieldUnit is the context-tuple form of diffField, for renderers that
// need the per-side unit instead of the lookup context (source locations).
func diffFieldUnit[T any](d *DiffState, label string, unitA *model.Unit, a T, unitB *model.Unit, b T, f func(p Printer, unit *model.Unit, x T) error) error {
	renderSide := func(unit *model.Unit, x T) ([]byte, error) {
		var buf bytes.Buffer
		p := d.format.New(&buf)
		if err := f(p, unit, x); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	contentA, err := renderSide(unitA, a)
	if err != nil {
		return err
	}
	contentB, err := renderSide(unitB, b)
	if err != nil {
		return err
	}
	return d.emit(label, contentA, contentB)
}

// IgnoreDiff runs body with comparison suppressed when flag is set: content
// is taken from side A alone and divergence never marks the scope changed.
func (d *DiffState) IgnoreDiff(flag bool, body func(*DiffState) error) error {
	if !flag {
		return body(d)
	}
	saved := d.ignore
	d.ignore = true
	err := body(d)
	d.ignore = saved
	return err
}

// Collapsed renders header then the indented body into a nested scope. When
// nothing inside reported a difference the whole buffered region is
// discarded; otherwise header and body are kept in full and the parent scope
// is marked changed.
func (d *DiffState) Collapsed(header, body func(*DiffState) error) error {
	mark := d.buf.Len()
	saved := d.changed
	d.changed = false
	err := header(d)
	if err == nil {
		d.a.indent++
		d.b.indent++
		err = body(d)
		d.a.indent--
		d.b.indent--
	}
	if err != nil {
		return err
	}
	if d.changed {
		d.kept = true
	} else {
		d.buf.Truncate(mark)
		d.kept = false
	}
	d.changed = saved || d.changed
	return nil
}

// LineBreak emits a separator, but only after a kept region: separators
// never resurrect a collapsed entity.
func (d *DiffState) LineBreak() error {
	if !d.kept {
		return nil
	}
	return d.format.WriteBreak(&d.buf)
}

// PrefixedA renders a full single-tree print framed as removed (side A
// only). The scope is necessarily changed.
func (d *DiffState) PrefixedA(body func(*PrintState) error) error {
	d.changed = true
	d.kept = true
	return body(d.a)
}

// PrefixedB renders a full single-tree print framed as added (side B only).
func (d *DiffState) PrefixedB(body func(*PrintState) error) error {
	d.changed = true
	d.kept = true
	return body(d.b)
}

// Flush writes the buffered region to the sink. Only valid at top-level
// scope, between entities; a sink failure aborts the report.
func (d *DiffState) Flush() error {
	if d.buf.Len() == 0 {
		return nil
	}
	if _, err := d.out.Write(d.buf.Bytes()); err != nil {
		return err
	}
	d.buf.Reset()
	return nil
}
