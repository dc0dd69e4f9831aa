package print

import (
	"fmt"
	"html"
	"io"
	"strings"

	"dbgdiff/internal/model"
)

// HTML renders the report as a self-contained page: one <pre> block where
// entity headers become anchors and type references become links to them.
type HTML struct{}

type htmlPrinter struct {
	w io.Writer
}

// New returns an escaping printer over w.
func (h *HTML) New(w io.Writer) Printer { return &htmlPrinter{w: w} }

// WriteLine emits one framed, escaped-by-construction line wrapped in a span
// carrying the diff class.
func (h *HTML) WriteLine(w io.Writer, prefix Prefix, depth int, content []byte) error {
	class := ""
	switch prefix {
	case PrefixRemove:
		class = "del"
	case PrefixAdd:
		class = "add"
	}
	line := marker(prefix) + strings.Repeat("\t", depth) + string(content)
	var err error
	if class != "" {
		_, err = fmt.Fprintf(w, "<span class=%q>%s</span>\n", class, line)
	} else {
		_, err = io.WriteString(w, line+"\n")
	}
	return err
}

// WriteBreak emits a blank separator line.
func (h *HTML) WriteBreak(w io.Writer) error {
	_, err := io.WriteString(w, "\n")
	return err
}

// Write escapes raw text; markup is only ever produced by the printer
// itself, never by renderers.
func (p *htmlPrinter) Write(b []byte) (int, error) {
	if _, err := io.WriteString(p.w, html.EscapeString(string(b))); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (p *htmlPrinter) Name(s string) error {
	_, err := io.WriteString(p.w, "<b>"+html.EscapeString(s)+"</b>")
	return err
}

// Link wraps the body in a plain reference pointing at the entity's defining
// header. References never carry the id themselves: the id belongs to the
// definition alone.
func (p *htmlPrinter) Link(id model.EntityID, f func(Printer) error) error {
	if !id.IsValid() {
		return f(p)
	}
	if _, err := fmt.Fprintf(p.w, "<a href=\"#e%d\">", id); err != nil {
		return err
	}
	if err := f(&htmlPrinter{w: p.w}); err != nil {
		return err
	}
	_, err := io.WriteString(p.w, "</a>")
	return err
}

// Anchor wraps the defining header and carries the id references target. A
// span rather than a link, so type references nested inside the header stay
// valid markup.
func (p *htmlPrinter) Anchor(id model.EntityID, f func(Printer) error) error {
	if !id.IsValid() {
		return f(p)
	}
	if _, err := fmt.Fprintf(p.w, "<span id=\"e%d\">", id); err != nil {
		return err
	}
	if err := f(&htmlPrinter{w: p.w}); err != nil {
		return err
	}
	_, err := io.WriteString(p.w, "</span>")
	return err
}

// WriteHTMLHeader emits the page preamble around a report.
func WriteHTMLHeader(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>%s</title><style>
body { font-family: monospace; }
pre .del { color: #b00; }
pre .add { color: #080; }
</style></head><body><pre>
`, html.EscapeString(title))
	return err
}

// WriteHTMLFooter closes the page.
func WriteHTMLFooter(w io.Writer) error {
	_, err := io.WriteString(w, "</pre></body></html>\n")
	return err
}
