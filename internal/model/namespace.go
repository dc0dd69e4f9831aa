package model

import "strings"

// Namespace is one link of an enclosing-scope chain (namespace, class or
// module scope). Chains are built root-last: Parent points towards the
// outermost scope.
type Namespace struct {
	Parent *Namespace
	Name   string
}

// chain returns the namespace path from the outermost scope inward.
func (n *Namespace) chain() []string {
	var parts []string
	for ns := n; ns != nil; ns = ns.Parent {
		name := ns.Name
		if name == "" {
			name = "<anon>"
		}
		parts = append(parts, name)
	}
	// разворачиваем: Parent идёт наружу, печатаем снаружи внутрь
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return parts
}

// String renders the chain as "a::b". Empty for a nil namespace.
func (n *Namespace) String() string {
	if n == nil {
		return ""
	}
	return strings.Join(n.chain(), "::")
}

// CompareNamespace orders two namespace chains lexicographically by scope
// name, outermost first. It is a pure function of the chains and is the
// primary component of every identity key.
func CompareNamespace(a, b *Namespace) int {
	var ca, cb []string
	if a != nil {
		ca = a.chain()
	}
	if b != nil {
		cb = b.chain()
	}
	for i := 0; i < len(ca) && i < len(cb); i++ {
		if c := strings.Compare(ca[i], cb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(ca) < len(cb):
		return -1
	case len(ca) > len(cb):
		return 1
	default:
		return 0
	}
}

// CompareNsAndName orders by namespace chain first, then by name.
func CompareNsAndName(nsA *Namespace, nameA string, nsB *Namespace, nameB string) int {
	if c := CompareNamespace(nsA, nsB); c != 0 {
		return c
	}
	return strings.Compare(nameA, nameB)
}
