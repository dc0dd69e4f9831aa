package print

import (
	"bytes"
	"strings"
	"testing"

	"dbgdiff/internal/model"
	"dbgdiff/internal/options"
)

func testHash() *model.FileHash {
	hash := model.NewFileHash(8)
	hash.Types[1] = &model.Type{ID: 10, Ref: 1, Kind: model.TypeBase, Name: "int", Size: 4, HasSize: true}
	hash.Types[2] = &model.Type{ID: 11, Ref: 2, Kind: model.TypeBase, Name: "long", Size: 8, HasSize: true}
	hash.Types[3] = &model.Type{ID: 12, Ref: 3, Kind: model.TypePointer, Elem: 1}
	return hash
}

func renderVariable(t *testing.T, v *model.Variable, opts *options.Options) string {
	t.Helper()
	var buf bytes.Buffer
	s := NewPrintState(&buf, &Text{}, testHash(), opts)
	if err := PrintVariable(s, &model.Unit{Name: "u.c"}, v); err != nil {
		t.Fatalf("PrintVariable: %v", err)
	}
	return buf.String()
}

func TestPrintVariableOmitsEmptyFields(t *testing.T) {
	v := &model.Variable{ID: 1, Name: "counter", Ty: 1}
	got := renderVariable(t, v, &options.Options{})
	want := "var counter: int\n\tsize: 4\n\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
	for _, absent := range []string{"linkage name", "symbol name", "address", "declaration"} {
		if strings.Contains(got, absent) {
			t.Errorf("empty field %q must be omitted, output:\n%s", absent, got)
		}
	}
}

func TestPrintVariableAllFields(t *testing.T) {
	v := &model.Variable{
		ID:          1,
		Name:        "counter",
		Namespace:   &model.Namespace{Name: "app"},
		LinkageName: "_ZN3app7counterE",
		SymbolName:  "counter_sym",
		Ty:          1,
		Address:     0x1000,
		HasAddress:  true,
		Source:      model.Source{Path: "app.c", Line: 12, Column: 3},
	}
	got := renderVariable(t, v, &options.Options{PrintSource: true})
	want := strings.Join([]string{
		"var app::counter: int",
		"\tlinkage name: _ZN3app7counterE",
		"\tsymbol name: counter_sym",
		"\tsource: app.c:12:3",
		"\taddress: 0x1000",
		"\tsize: 4",
		"",
		"",
	}, "\n")
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestPrintVariableDeclaration(t *testing.T) {
	v := &model.Variable{ID: 1, Name: "g", Ty: 1, Declaration: true}
	got := renderVariable(t, v, &options.Options{})
	if !strings.Contains(got, "\tdeclaration: yes\n") {
		t.Errorf("declaration field missing:\n%s", got)
	}
}

func TestPrintTypeRefForms(t *testing.T) {
	hash := testHash()
	hash.Types[4] = &model.Type{ID: 13, Ref: 4, Kind: model.TypeArray, Elem: 1, Count: 3, HasCount: true}
	hash.Types[5] = &model.Type{ID: 14, Ref: 5, Kind: model.TypeStruct} // anonymous
	hash.Types[6] = &model.Type{ID: 15, Ref: 6, Kind: model.TypeDef, Elem: 2} // const wrapper

	cases := []struct {
		name string
		ref  model.TypeRef
		want string
	}{
		{"void for missing", model.NoTypeRef, "void"},
		{"base name", 1, "int"},
		{"pointer", 3, "* int"},
		{"array with count", 4, "[int; 3]"},
		{"anon struct", 5, "struct <anon>"},
		{"nameless typedef passthrough", 6, "long"},
		{"dangling", 99, "<unknown>"},
	}
	format := &Text{}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := printTypeRef(tc.ref, format.New(&buf), hash); err != nil {
				t.Fatalf("printTypeRef: %v", err)
			}
			if got := buf.String(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPrintListSortModes(t *testing.T) {
	vars := []*model.Variable{
		{ID: 1, Name: "zeta", Ty: 1, Address: 0x100, HasAddress: true},
		{ID: 2, Name: "alpha", Ty: 2, Address: 0x300, HasAddress: true},
		{ID: 3, Name: "mid", Ty: 1, Address: 0x200, HasAddress: true},
	}
	unit := &model.Unit{Name: "u.c", Variables: vars}

	names := func(out string) []string {
		var got []string
		for _, line := range strings.Split(out, "\n") {
			if strings.HasPrefix(line, "var ") {
				got = append(got, strings.TrimPrefix(strings.SplitN(line, ":", 2)[0], "var "))
			}
		}
		return got
	}
	render := func(sort options.Sort) string {
		var buf bytes.Buffer
		s := NewPrintState(&buf, &Text{}, testHash(), &options.Options{Sort: sort})
		if err := PrintList(s, unit, vars, variableOps()); err != nil {
			t.Fatalf("PrintList: %v", err)
		}
		return buf.String()
	}

	cases := []struct {
		name string
		sort options.Sort
		want []string
	}{
		{"none orders by address", options.SortNone, []string{"zeta", "mid", "alpha"}},
		{"name orders by name", options.SortName, []string{"alpha", "mid", "zeta"}},
		{"size orders by size", options.SortSize, []string{"zeta", "mid", "alpha"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := names(render(tc.sort))
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Errorf("order = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPrintFileDeterministic(t *testing.T) {
	hash := testHash()
	file := &model.File{
		Path: "a.out",
		Hash: hash,
		Units: []*model.Unit{
			{ID: 1, Name: "b.c", Variables: []*model.Variable{{ID: 2, Name: "x", Ty: 1}}},
			{ID: 3, Name: "a.c", Variables: []*model.Variable{{ID: 4, Name: "y", Ty: 2}}},
		},
	}
	opts := &options.Options{Sort: options.SortName}

	render := func(jobs int) string {
		var buf bytes.Buffer
		opts := *opts
		opts.Jobs = jobs
		if err := PrintFile(&buf, &Text{}, file, &opts); err != nil {
			t.Fatalf("PrintFile: %v", err)
		}
		return buf.String()
	}

	first := render(1)
	if second := render(1); second != first {
		t.Fatalf("two sequential renders differ:\n%s\nvs\n%s", first, second)
	}
	// Параллельный путь обязан быть байт-в-байт идентичен последовательному.
	if parallel := render(4); parallel != first {
		t.Fatalf("parallel render differs from sequential:\n%s\nvs\n%s", parallel, first)
	}
	if !strings.Contains(first, "unit a.c") || !strings.Contains(first, "unit b.c") {
		t.Fatalf("missing unit headers:\n%s", first)
	}
	if strings.Index(first, "unit a.c") > strings.Index(first, "unit b.c") {
		t.Fatalf("units not in name order:\n%s", first)
	}
}

func TestHTMLPrinterEscapesAndLinks(t *testing.T) {
	var buf bytes.Buffer
	format := &HTML{}
	p := format.New(&buf)
	err := p.Link(7, func(p Printer) error {
		if err := Fprintf(p, "a<b> "); err != nil {
			return err
		}
		return p.Name("T&U")
	})
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	// Ссылка не несёт id: id есть только у определения.
	want := `<a href="#e7">a&lt;b&gt; <b>T&amp;U</b></a>`
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHTMLAnchorCarriesID(t *testing.T) {
	var buf bytes.Buffer
	format := &HTML{}
	p := format.New(&buf)
	if err := p.Anchor(7, func(p Printer) error { return p.Name("T") }); err != nil {
		t.Fatalf("Anchor: %v", err)
	}
	want := `<span id="e7"><b>T</b></span>`
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// Every inline reference to a type must point at exactly one defining anchor.
func TestHTMLReportHasUniqueIDs(t *testing.T) {
	hash := testHash()
	file := &model.File{
		Path: "a.out",
		Hash: hash,
		Units: []*model.Unit{{ID: 1, Name: "u.c", Variables: []*model.Variable{
			{ID: 2, Name: "x", Ty: 1, Address: 0x10, HasAddress: true},
			{ID: 3, Name: "y", Ty: 1, Address: 0x20, HasAddress: true},
		}}},
	}
	var buf bytes.Buffer
	if err := PrintFile(&buf, &HTML{}, file, &options.Options{}); err != nil {
		t.Fatalf("PrintFile: %v", err)
	}
	got := buf.String()
	// Тип int упоминается дважды, но id="e10" несёт только его определение.
	if n := strings.Count(got, `id="e10"`); n > 1 {
		t.Errorf("type id emitted %d times, want at most 1:\n%s", n, got)
	}
	if strings.Count(got, `href="#e10"`) != 2 {
		t.Errorf("expected two references to the int type:\n%s", got)
	}
}
