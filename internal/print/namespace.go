package print

import "dbgdiff/internal/model"

// printNamespace writes the enclosing-scope chain followed by the "::"
// separator, so callers can append the entity's own name directly.
func printNamespace(ns *model.Namespace, p Printer) error {
	if ns == nil {
		return nil
	}
	return Fprintf(p, "%s::", ns.String())
}

// nameOrAnon substitutes the placeholder for unnamed entities.
func nameOrAnon(name string) string {
	if name == "" {
		return "<anon>"
	}
	return name
}
