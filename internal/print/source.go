package print

import (
	"path/filepath"
	"strings"

	"dbgdiff/internal/model"
)

// printSource renders a declaration location as "path:line:col", with the
// path relativized against the unit's compilation directory when possible.
// Relativizing is what lets two builds rooted in different directories diff
// clean: only the path relative to the build root is compared.
func printSource(src model.Source, p Printer, unit *model.Unit) error {
	if src.IsNone() {
		return nil
	}
	path := src.Path
	if unit != nil && unit.Dir != "" && filepath.IsAbs(path) {
		if rel, err := filepath.Rel(unit.Dir, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	if err := Fprintf(p, "%s", path); err != nil {
		return err
	}
	if src.Line > 0 {
		if err := Fprintf(p, ":%d", src.Line); err != nil {
			return err
		}
		if src.Column > 0 {
			return Fprintf(p, ":%d", src.Column)
		}
	}
	return nil
}
