package options

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseSort(t *testing.T) {
	cases := []struct {
		in      string
		want    Sort
		wantErr bool
	}{
		{"", SortNone, false},
		{"none", SortNone, false},
		{"name", SortName, false},
		{"size", SortSize, false},
		{"bogus", SortNone, true},
	}
	for _, tc := range cases {
		got, err := ParseSort(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseSort(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSort(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCategoryFilters(t *testing.T) {
	all := &Options{}
	if !all.PrintUnits() || !all.PrintTypes() || !all.PrintFunctions() || !all.PrintVariables() {
		t.Fatalf("no filter set must mean print everything")
	}
	only := &Options{FilterVariables: true}
	if only.PrintUnits() || only.PrintTypes() || only.PrintFunctions() {
		t.Errorf("explicit filter must exclude other categories")
	}
	if !only.PrintVariables() {
		t.Errorf("explicit filter must include its category")
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(root, "dbgdiff.toml")
	if err := os.WriteFile(cfgPath, []byte("[print]\nsort = \"name\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, ok, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if !ok || found != cfgPath {
		t.Fatalf("FindConfig = (%q, %v), want (%q, true)", found, ok, cfgPath)
	}
}

func TestLoadAndApplyConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dbgdiff.toml")
	content := `
[print]
sort = "size"
source = true

[diff]
ignore_variable_address = true
ignore_function_size = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	var opts Options
	if err := cfg.Apply(&opts); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if opts.Sort != SortSize {
		t.Errorf("Sort = %v, want SortSize", opts.Sort)
	}
	if !opts.PrintSource {
		t.Errorf("PrintSource must be set from the file")
	}
	if !opts.IgnoreVariableAddress || !opts.IgnoreFunctionSize {
		t.Errorf("ignore flags not applied: %+v", opts)
	}
	if opts.IgnoreVariableLinkageName {
		t.Errorf("unset flag must stay unset")
	}
}

func TestApplyNeverUnsetsFlags(t *testing.T) {
	// Флаг с командной строки файл отменить не может.
	opts := Options{Sort: SortName, IgnoreVariableAddress: true}
	cfg := FileConfig{}
	cfg.Print.Sort = "size"
	if err := cfg.Apply(&opts); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if opts.Sort != SortName {
		t.Errorf("explicit sort must win over the file, got %v", opts.Sort)
	}
	if !opts.IgnoreVariableAddress {
		t.Errorf("ignore flag was unset by the file")
	}
}
