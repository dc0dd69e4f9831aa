package print

import (
	"bytes"
	"io"

	"dbgdiff/internal/model"
	"dbgdiff/internal/options"
)

// RenderFn builds the content of one line or field value. It receives the
// sink and the active lookup context.
type RenderFn func(p Printer, hash *model.FileHash) error

// PrintState is the single-tree rendering cursor: current indent depth,
// sink, line framing and the active lookup context. One instance is
// exclusively owned by the goroutine producing one report.
type PrintState struct {
	w      io.Writer
	format Format
	hash   *model.FileHash
	opts   *options.Options
	indent int
	prefix Prefix
	link   model.EntityID // anchor for the next emitted line, consumed by render
}

// NewPrintState returns a cursor writing a single-tree report to w.
func NewPrintState(w io.Writer, format Format, hash *model.FileHash, opts *options.Options) *PrintState {
	return &PrintState{w: w, format: format, hash: hash, opts: opts}
}

// Options returns the immutable configuration of this report.
func (s *PrintState) Options() *options.Options { return s.opts }

// Hash returns the lookup context of the active tree.
func (s *PrintState) Hash() *model.FileHash { return s.hash }

// render runs f into a scratch printer of the same medium and returns the
// produced bytes. A pending identity anchors the whole region: this is the
// defining occurrence inline references point at.
func (s *PrintState) render(f RenderFn) ([]byte, error) {
	var buf bytes.Buffer
	p := s.format.New(&buf)
	var err error
	if s.link.IsValid() {
		id := s.link
		s.link = model.NoEntityID
		err = p.Anchor(id, func(p Printer) error { return f(p, s.hash) })
	} else {
		err = f(p, s.hash)
	}
	return buf.Bytes(), err
}

// Line emits exactly one line at the current indent. Nothing is written when
// f produces no output.
func (s *PrintState) Line(f RenderFn) error {
	content, err := s.render(f)
	if err != nil {
		return err
	}
	if len(content) == 0 {
		return nil
	}
	return s.format.WriteLine(s.w, s.prefix, s.indent, content)
}

// Field emits "label: value" only when the value is non-empty, keeping
// reports free of blank-field noise. Emission order is the call order.
func (s *PrintState) Field(label string, f RenderFn) error {
	content, err := s.render(f)
	if err != nil {
		return err
	}
	if len(content) == 0 {
		return nil
	}
	return s.format.WriteLine(s.w, s.prefix, s.indent, append([]byte(label+": "), content...))
}

// ID emits a header line anchored to id, then the indented body block.
func (s *PrintState) ID(id model.EntityID, header, body func(*PrintState) error) error {
	s.link = id
	err := header(s)
	s.link = model.NoEntityID
	if err != nil {
		return err
	}
	s.indent++
	err = body(s)
	s.indent--
	return err
}

// LineBreak emits a blank separator between sibling entities.
func (s *PrintState) LineBreak() error {
	return s.format.WriteBreak(s.w)
}
