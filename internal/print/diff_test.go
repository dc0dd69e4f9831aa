package print

import (
	"bytes"
	"strings"
	"testing"

	"dbgdiff/internal/model"
	"dbgdiff/internal/options"
)

func diffVariables(t *testing.T, a, b *model.Variable, opts *options.Options) (string, bool) {
	t.Helper()
	var buf bytes.Buffer
	d := NewDiffState(&buf, &Text{}, testHash(), testHash(), opts)
	err := DiffVariable(d, &model.Unit{Name: "u.c"}, a, &model.Unit{Name: "u.c"}, b)
	if err != nil {
		t.Fatalf("DiffVariable: %v", err)
	}
	changed := d.Changed()
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	return buf.String(), changed
}

func TestDiffVariableCollapsesWhenEqual(t *testing.T) {
	a := &model.Variable{ID: 1, Name: "g", Ty: 1, Address: 0x100, HasAddress: true}
	b := &model.Variable{ID: 2, Name: "g", Ty: 1, Address: 0x100, HasAddress: true}
	got, changed := diffVariables(t, a, b, &options.Options{})
	if changed {
		t.Errorf("equal variables must not report a change")
	}
	if got != "" {
		t.Errorf("equal variables must collapse entirely, got:\n%s", got)
	}
}

func TestDiffVariableChangedFieldKeepsRegion(t *testing.T) {
	a := &model.Variable{ID: 1, Name: "g", Ty: 1, Address: 0x100, HasAddress: true}
	b := &model.Variable{ID: 2, Name: "g", Ty: 1, Address: 0x200, HasAddress: true}
	got, changed := diffVariables(t, a, b, &options.Options{})
	if !changed {
		t.Fatalf("address change must be reported")
	}
	want := strings.Join([]string{
		"  var g: int",
		"- \taddress: 0x100",
		"+ \taddress: 0x200",
		"  \tsize: 4",
		"",
		"",
	}, "\n")
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

// A declaration becoming a definition gains an address and loses the
// declaration marker, all in one kept region under an equal header.
func TestDiffVariableDeclarationBecomesDefinition(t *testing.T) {
	a := &model.Variable{ID: 1, Name: "g", Ty: 1, Declaration: true}
	b := &model.Variable{ID: 2, Name: "g", Ty: 1, Address: 0x1000, HasAddress: true}
	got, changed := diffVariables(t, a, b, &options.Options{})
	if !changed {
		t.Fatalf("declaration change must be reported")
	}
	want := strings.Join([]string{
		"  var g: int",
		"+ \taddress: 0x1000",
		"  \tsize: 4",
		"- \tdeclaration: yes",
		"",
		"",
	}, "\n")
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestDiffVariableIgnoredFieldsDoNotCount(t *testing.T) {
	a := &model.Variable{ID: 1, Name: "g", Ty: 1, Address: 0x100, HasAddress: true, LinkageName: "_g1"}
	b := &model.Variable{ID: 2, Name: "g", Ty: 1, Address: 0x200, HasAddress: true, LinkageName: "_g2"}
	opts := &options.Options{
		IgnoreVariableAddress:     true,
		IgnoreVariableLinkageName: true,
	}
	got, changed := diffVariables(t, a, b, opts)
	if changed {
		t.Errorf("differences in ignored fields must not count as changes")
	}
	if got != "" {
		t.Errorf("region with only ignored differences must collapse, got:\n%s", got)
	}
}

func TestDiffVariableIgnoredFieldShowsSideA(t *testing.T) {
	// Адрес игнорируется, но размер реально отличается: регион остаётся,
	// адрес печатается один раз со стороны A.
	a := &model.Variable{ID: 1, Name: "g", Ty: 1, Address: 0x100, HasAddress: true}
	b := &model.Variable{ID: 2, Name: "g", Ty: 2, Address: 0x200, HasAddress: true}
	got, changed := diffVariables(t, a, b, &options.Options{IgnoreVariableAddress: true})
	if !changed {
		t.Fatalf("size change must be reported")
	}
	if !strings.Contains(got, "  \taddress: 0x100\n") {
		t.Errorf("ignored field must render side A as unchanged:\n%s", got)
	}
	if strings.Contains(got, "0x200") {
		t.Errorf("ignored field must not render side B:\n%s", got)
	}
}

func diffFunctions(t *testing.T, a, b *model.Function, opts *options.Options) (string, bool) {
	t.Helper()
	var buf bytes.Buffer
	d := NewDiffState(&buf, &Text{}, testHash(), testHash(), opts)
	err := DiffFunction(d, &model.Unit{Name: "u.c"}, a, &model.Unit{Name: "u.c"}, b)
	if err != nil {
		t.Fatalf("DiffFunction: %v", err)
	}
	changed := d.Changed()
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	return buf.String(), changed
}

func TestDiffFunctionIgnoredFieldsDoNotCount(t *testing.T) {
	a := &model.Function{ID: 1, Name: "f", ReturnTy: 1, Address: 0x100, HasAddress: true,
		Size: 32, HasSize: true, LinkageName: "_Z1fv"}
	b := &model.Function{ID: 2, Name: "f", ReturnTy: 1, Address: 0x200, HasAddress: true,
		Size: 48, HasSize: true, LinkageName: "_Z1fv.isra.0", Inline: true}
	opts := &options.Options{
		IgnoreFunctionLinkageName: true,
		IgnoreFunctionAddress:     true,
		IgnoreFunctionSize:        true,
		IgnoreFunctionInline:      true,
	}
	got, changed := diffFunctions(t, a, b, opts)
	if changed {
		t.Errorf("differences in ignored fields must not count as changes")
	}
	if got != "" {
		t.Errorf("region with only ignored differences must collapse, got:\n%s", got)
	}
}

// A variable whose mangled name churned between builds is still the same
// variable: it must align by qualified name and, with the linkage flag set,
// collapse rather than split into a remove/add pair.
func TestDiffVariableLinkageChangeStaysMatched(t *testing.T) {
	mk := func(id model.EntityID, linkage string) *model.Unit {
		return &model.Unit{ID: id, Name: "u.c", Variables: []*model.Variable{
			{ID: id + 1, Name: "g", Ty: 1, Address: 0x10, HasAddress: true, LinkageName: linkage},
		}}
	}
	got, changed := diffUnits(t, mk(1, "_g1"), mk(10, "_g2"), &options.Options{IgnoreVariableLinkageName: true})
	if changed {
		t.Errorf("ignored linkage churn must not report a change")
	}
	if got != "" {
		t.Errorf("matched pair must collapse, got:\n%s", got)
	}
}

func TestDiffFunctionLinkageChangeStaysMatched(t *testing.T) {
	mk := func(id model.EntityID, linkage string) *model.Unit {
		return &model.Unit{ID: id, Name: "u.c", Functions: []*model.Function{
			{ID: id + 1, Name: "f", ReturnTy: 1, Address: 0x40, HasAddress: true,
				Size: 32, HasSize: true, LinkageName: linkage},
		}}
	}
	got, changed := diffUnits(t, mk(1, "_Z1fv"), mk(10, "_Z1fv.constprop.0"), &options.Options{IgnoreFunctionLinkageName: true})
	if changed {
		t.Errorf("ignored linkage churn must not report a change")
	}
	if got != "" {
		t.Errorf("matched pair must collapse, got:\n%s", got)
	}
}

// Source paths rooted in different build directories relativize to the same
// value and therefore never register as a change.
func TestDiffVariableSourceRelativized(t *testing.T) {
	a := &model.Variable{ID: 1, Name: "g", Ty: 1, Address: 0x10, HasAddress: true,
		Source: model.Source{Path: "/build/a/src/app.c", Line: 3}}
	b := &model.Variable{ID: 2, Name: "g", Ty: 1, Address: 0x10, HasAddress: true,
		Source: model.Source{Path: "/build/b/src/app.c", Line: 3}}

	var buf bytes.Buffer
	d := NewDiffState(&buf, &Text{}, testHash(), testHash(), &options.Options{PrintSource: true})
	unitA := &model.Unit{Name: "u.c", Dir: "/build/a"}
	unitB := &model.Unit{Name: "u.c", Dir: "/build/b"}
	if err := DiffVariable(d, unitA, a, unitB, b); err != nil {
		t.Fatalf("DiffVariable: %v", err)
	}
	if d.Changed() {
		t.Errorf("relativized sources must compare equal")
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := buf.String(); got != "" {
		t.Errorf("region must collapse, got:\n%s", got)
	}
}

func diffUnits(t *testing.T, a, b *model.Unit, opts *options.Options) (string, bool) {
	t.Helper()
	var buf bytes.Buffer
	fileA := &model.File{Path: "a.out", Hash: testHash(), Units: []*model.Unit{a}}
	fileB := &model.File{Path: "b.out", Hash: testHash(), Units: []*model.Unit{b}}
	changed, err := DiffFile(&buf, &Text{}, fileA, fileB, opts)
	if err != nil {
		t.Fatalf("DiffFile: %v", err)
	}
	return buf.String(), changed
}

func TestDiffUnitChangePropagatesToRoot(t *testing.T) {
	a := &model.Unit{ID: 1, Name: "u.c", Variables: []*model.Variable{
		{ID: 2, Name: "same", Ty: 1, Address: 0x10, HasAddress: true},
		{ID: 3, Name: "moved", Ty: 1, Address: 0x20, HasAddress: true},
	}}
	b := &model.Unit{ID: 4, Name: "u.c", Variables: []*model.Variable{
		{ID: 5, Name: "same", Ty: 1, Address: 0x10, HasAddress: true},
		{ID: 6, Name: "moved", Ty: 1, Address: 0x30, HasAddress: true},
	}}
	got, changed := diffUnits(t, a, b, &options.Options{})
	if !changed {
		t.Fatalf("nested change must propagate to the file level")
	}
	if !strings.Contains(got, "  unit u.c\n") {
		t.Errorf("ancestor header must be kept:\n%s", got)
	}
	if !strings.Contains(got, "var moved") {
		t.Errorf("changed variable missing:\n%s", got)
	}
	if strings.Contains(got, "var same") {
		t.Errorf("unchanged sibling must collapse:\n%s", got)
	}
}

func TestDiffUnitCollapsesWhenAllEqual(t *testing.T) {
	mk := func(id model.EntityID) *model.Unit {
		return &model.Unit{ID: id, Name: "u.c", Variables: []*model.Variable{
			{ID: id + 1, Name: "v", Ty: 1, Address: 0x10, HasAddress: true},
		}}
	}
	got, changed := diffUnits(t, mk(1), mk(10), &options.Options{})
	if changed {
		t.Errorf("identical units must not report a change")
	}
	if got != "" {
		t.Errorf("identical units must produce no output, got:\n%s", got)
	}
}

func TestDiffListAlignmentComplete(t *testing.T) {
	a := &model.Unit{ID: 1, Name: "u.c", Variables: []*model.Variable{
		{ID: 2, Name: "only_a", Ty: 1, Address: 0x10, HasAddress: true},
		{ID: 3, Name: "shared", Ty: 1, Address: 0x20, HasAddress: true},
	}}
	b := &model.Unit{ID: 4, Name: "u.c", Variables: []*model.Variable{
		{ID: 5, Name: "shared", Ty: 1, Address: 0x20, HasAddress: true},
		{ID: 6, Name: "only_b", Ty: 2, Address: 0x30, HasAddress: true},
	}}
	got, changed := diffUnits(t, a, b, &options.Options{})
	if !changed {
		t.Fatalf("one-sided entities must count as changes")
	}
	if !strings.Contains(got, "- \tvar only_a: int\n") {
		t.Errorf("unmatched side-A variable must print in full as removed:\n%s", got)
	}
	if !strings.Contains(got, "+ \tvar only_b: long\n") {
		t.Errorf("unmatched side-B variable must print in full as added:\n%s", got)
	}
	if strings.Contains(got, "var shared") {
		t.Errorf("matched unchanged variable must collapse:\n%s", got)
	}
}

// Matching is driven by identity alone: switching the display sort must never
// turn a matched pair into a remove/add pair.
func TestDiffMatchingIndependentOfSort(t *testing.T) {
	a := &model.Unit{ID: 1, Name: "u.c", Variables: []*model.Variable{
		{ID: 2, Name: "alpha", Ty: 2, Address: 0x10, HasAddress: true},
		{ID: 3, Name: "beta", Ty: 1, Address: 0x20, HasAddress: true},
	}}
	b := &model.Unit{ID: 4, Name: "u.c", Variables: []*model.Variable{
		{ID: 5, Name: "alpha", Ty: 2, Address: 0x10, HasAddress: true},
		// beta grows from int to long, which also moves it under size sort
		{ID: 6, Name: "beta", Ty: 2, Address: 0x20, HasAddress: true},
	}}
	for _, sort := range []options.Sort{options.SortNone, options.SortName, options.SortSize} {
		got, changed := diffUnits(t, a, b, &options.Options{Sort: sort})
		if !changed {
			t.Fatalf("sort %v: type change must be reported", sort)
		}
		if !strings.Contains(got, "- \tvar beta: int\n") || !strings.Contains(got, "+ \tvar beta: long\n") {
			t.Errorf("sort %v: beta must stay matched and show a header change:\n%s", sort, got)
		}
		if strings.Contains(got, "var alpha") {
			t.Errorf("sort %v: unchanged alpha must collapse:\n%s", sort, got)
		}
	}
}

func TestDiffTypeMemberLists(t *testing.T) {
	mk := func(members ...model.Member) *model.Type {
		return &model.Type{ID: 1, Ref: 50, Kind: model.TypeStruct, Name: "S", Size: 16, HasSize: true, Members: members}
	}
	a := mk(
		model.Member{Name: "x", Ty: 1, Offset: 0, Size: 4, HasSize: true},
		model.Member{Name: "y", Ty: 1, Offset: 4, Size: 4, HasSize: true},
	)
	b := mk(
		model.Member{Name: "x", Ty: 1, Offset: 0, Size: 4, HasSize: true},
		model.Member{Name: "y", Ty: 2, Offset: 8, Size: 8, HasSize: true},
	)

	var buf bytes.Buffer
	d := NewDiffState(&buf, &Text{}, testHash(), testHash(), &options.Options{})
	unit := &model.Unit{Name: "u.c"}
	if err := DiffType(d, unit, a, unit, b); err != nil {
		t.Fatalf("DiffType: %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	got := buf.String()

	if !strings.Contains(got, "  struct S\n") {
		t.Errorf("type header must be kept:\n%s", got)
	}
	if !strings.Contains(got, "- \t\t4[4]\ty: int\n") || !strings.Contains(got, "+ \t\t8[8]\ty: long\n") {
		t.Errorf("changed member must show both sides:\n%s", got)
	}
	if strings.Contains(got, "- \t\t0[4]\tx") || strings.Contains(got, "+ \t\t0[4]\tx") {
		t.Errorf("unchanged member must stay equal-framed:\n%s", got)
	}
}
