package loader

import (
	"debug/dwarf"
	"testing"
)

func TestDecodeULEB128(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want uint64
		ok   bool
	}{
		{"zero", []byte{0x00}, 0, true},
		{"single byte", []byte{0x7f}, 127, true},
		{"two bytes", []byte{0xe5, 0x8e, 0x26}, 624485, true},
		{"truncated", []byte{0x80}, 0, false},
		{"empty", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := decodeULEB128(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Errorf("decodeULEB128(% x) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestParseAddrExpr(t *testing.T) {
	p8 := &dwarfParser{obj: &object{ptrSize: 8}}
	p4 := &dwarfParser{obj: &object{ptrSize: 4}}

	cases := []struct {
		name   string
		parser *dwarfParser
		expr   []byte
		want   uint64
		ok     bool
	}{
		{"addr 64-bit", p8, []byte{0x03, 0x00, 0x10, 0, 0, 0, 0, 0, 0}, 0x1000, true},
		{"addr 32-bit", p4, []byte{0x03, 0x34, 0x12, 0, 0}, 0x1234, true},
		{"truncated operand", p8, []byte{0x03, 0x00, 0x10}, 0, false},
		{"other opcode", p8, []byte{0x91, 0x04}, 0, false},
		{"empty", p8, nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.parser.parseAddrExpr(tc.expr)
			if ok != tc.ok || got != tc.want {
				t.Errorf("parseAddrExpr(% x) = (%#x, %v), want (%#x, %v)", tc.expr, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestAttrSourceFileIndex(t *testing.T) {
	p := &dwarfParser{}
	entry := func(idx int64) *dwarf.Entry {
		return &dwarf.Entry{Field: []dwarf.Field{
			{Attr: dwarf.AttrDeclFile, Val: idx, Class: dwarf.ClassConstant},
			{Attr: dwarf.AttrDeclLine, Val: int64(7), Class: dwarf.ClassConstant},
		}}
	}

	// DWARF 5: индекс 0 указывает на основной файл юнита.
	v5 := []*dwarf.LineFile{{Name: "main.c"}, {Name: "other.h"}}
	if src := p.attrSource(entry(0), v5); src.Path != "main.c" || src.Line != 7 {
		t.Errorf("index 0 = %+v, want main.c:7", src)
	}
	if src := p.attrSource(entry(1), v5); src.Path != "other.h" {
		t.Errorf("index 1 = %+v, want other.h", src)
	}
	if src := p.attrSource(entry(2), v5); !src.IsNone() {
		t.Errorf("out-of-range index must yield no source, got %+v", src)
	}

	// DWARF <5: слот 0 пустой, индексация с единицы.
	v4 := []*dwarf.LineFile{nil, {Name: "x.c"}}
	if src := p.attrSource(entry(0), v4); !src.IsNone() {
		t.Errorf("nil slot must yield no source, got %+v", src)
	}
	if src := p.attrSource(entry(1), v4); src.Path != "x.c" {
		t.Errorf("index 1 = %+v, want x.c", src)
	}
}

func TestLanguageName(t *testing.T) {
	cases := []struct {
		code int64
		want string
	}{
		{0x01, "C"},
		{0x04, "C++"},
		{0x16, "Go"},
		{0x1c, "Rust"},
		{0xff, ""},
	}
	for _, tc := range cases {
		if got := languageName(tc.code); got != tc.want {
			t.Errorf("languageName(%#x) = %q, want %q", tc.code, got, tc.want)
		}
	}
}
