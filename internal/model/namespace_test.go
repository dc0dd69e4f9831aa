package model

import "testing"

func ns(names ...string) *Namespace {
	var cur *Namespace
	for _, n := range names {
		cur = &Namespace{Parent: cur, Name: n}
	}
	return cur
}

func TestNamespaceString(t *testing.T) {
	cases := []struct {
		name string
		ns   *Namespace
		want string
	}{
		{"nil", nil, ""},
		{"single", ns("std"), "std"},
		{"nested", ns("std", "chrono"), "std::chrono"},
		{"anon scope", ns("outer", ""), "outer::<anon>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ns.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCompareNamespace(t *testing.T) {
	cases := []struct {
		name string
		a, b *Namespace
		want int
	}{
		{"both nil", nil, nil, 0},
		{"nil before any", nil, ns("a"), -1},
		{"equal chains", ns("a", "b"), ns("a", "b"), 0},
		{"outermost decides", ns("a", "z"), ns("b", "a"), -1},
		{"prefix sorts first", ns("a"), ns("a", "b"), -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CompareNamespace(tc.a, tc.b); got != tc.want {
				t.Errorf("CompareNamespace = %d, want %d", got, tc.want)
			}
			if got := CompareNamespace(tc.b, tc.a); got != -tc.want {
				t.Errorf("reversed CompareNamespace = %d, want %d", got, -tc.want)
			}
		})
	}
}

func TestCompareNsAndName(t *testing.T) {
	if got := CompareNsAndName(ns("a"), "zzz", ns("b"), "aaa"); got >= 0 {
		t.Errorf("namespace must dominate the name, got %d", got)
	}
	if got := CompareNsAndName(ns("a"), "x", ns("a"), "y"); got >= 0 {
		t.Errorf("equal namespaces fall back to name, got %d", got)
	}
}
