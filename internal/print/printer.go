// Package print implements the report engine: single-tree rendering and
// dual-tree structural diffing of debug-info entities, with deterministic
// layout, collapsing of unchanged subtrees and configuration-driven field
// suppression.
package print

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"dbgdiff/internal/model"
)

// Printer is the output sink entities render into. Name emits an identifier
// token, Link marks a region as a reference to an entity, Anchor marks the
// entity's single defining occurrence (the target references point at), and
// Write composes raw text between them. Side effects are append-only; a
// printer never backtracks.
type Printer interface {
	io.Writer
	Name(s string) error
	Link(id model.EntityID, f func(Printer) error) error
	Anchor(id model.EntityID, f func(Printer) error) error
}

// Prefix is the framing marker of one emitted line.
type Prefix uint8

const (
	// PrefixNone is used by single-tree reports.
	PrefixNone Prefix = iota
	// PrefixEqual frames a line present identically on both sides.
	PrefixEqual
	// PrefixRemove frames a line present only on side A.
	PrefixRemove
	// PrefixAdd frames a line present only on side B.
	PrefixAdd
)

// Format is the medium of a report. New constructs a Printer over any writer
// so states can render scratch regions in the same medium, WriteLine emits
// one complete framed line and WriteBreak a blank separator.
type Format interface {
	New(w io.Writer) Printer
	WriteLine(w io.Writer, prefix Prefix, depth int, content []byte) error
	WriteBreak(w io.Writer) error
}

// Text is the plain (optionally colored) text medium. Removed lines are
// framed "- " and colored red, added lines "+ " and green.
type Text struct {
	Color bool
}

var (
	removeColor = color.New(color.FgRed)
	addColor    = color.New(color.FgGreen)
)

type textPrinter struct {
	w io.Writer
}

// New returns a plain-text printer over w.
func (t *Text) New(w io.Writer) Printer { return &textPrinter{w: w} }

// WriteLine emits marker + tab indentation + content + newline.
func (t *Text) WriteLine(w io.Writer, prefix Prefix, depth int, content []byte) error {
	line := marker(prefix) + strings.Repeat("\t", depth) + string(content)
	if t.Color {
		switch prefix {
		case PrefixRemove:
			line = removeColor.Sprint(line)
		case PrefixAdd:
			line = addColor.Sprint(line)
		}
	}
	_, err := io.WriteString(w, line+"\n")
	return err
}

// WriteBreak emits a blank separator line.
func (t *Text) WriteBreak(w io.Writer) error {
	_, err := io.WriteString(w, "\n")
	return err
}

func marker(prefix Prefix) string {
	switch prefix {
	case PrefixEqual:
		return "  "
	case PrefixRemove:
		return "- "
	case PrefixAdd:
		return "+ "
	default:
		return ""
	}
}

func (p *textPrinter) Write(b []byte) (int, error) { return p.w.Write(b) }

func (p *textPrinter) Name(s string) error {
	_, err := io.WriteString(p.w, s)
	return err
}

// Link is a no-op wrapper in the text medium: the body is emitted in place.
func (p *textPrinter) Link(_ model.EntityID, f func(Printer) error) error {
	return f(p)
}

// Anchor is likewise a no-op wrapper in the text medium.
func (p *textPrinter) Anchor(_ model.EntityID, f func(Printer) error) error {
	return f(p)
}

// Fprintf writes formatted raw text to a printer. Shorthand used all over
// the per-kind renderers.
func Fprintf(p Printer, format string, args ...any) error {
	_, err := fmt.Fprintf(p, format, args...)
	return err
}
