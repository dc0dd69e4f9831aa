package model

import "testing"

func TestTypeSizeResolution(t *testing.T) {
	hash := NewFileHash(8)
	hash.Types[1] = &Type{Ref: 1, Kind: TypeBase, Name: "int", Size: 4, HasSize: true}
	hash.Types[2] = &Type{Ref: 2, Kind: TypeDef, Name: "my_int", Elem: 1}
	hash.Types[3] = &Type{Ref: 3, Kind: TypePointer, Elem: 1}
	hash.Types[4] = &Type{Ref: 4, Kind: TypeArray, Elem: 1, Count: 10, HasCount: true}
	hash.Types[5] = &Type{Ref: 5, Kind: TypeArray, Elem: 1} // no count
	hash.Types[6] = &Type{Ref: 6, Kind: TypeStruct, Name: "decl", Declaration: true}

	cases := []struct {
		name string
		ref  TypeRef
		want uint64
		ok   bool
	}{
		{"explicit size", 1, 4, true},
		{"typedef follows elem", 2, 4, true},
		{"pointer uses address size", 3, 8, true},
		{"array multiplies", 4, 40, true},
		{"array without count", 5, 0, false},
		{"declaration has none", 6, 0, false},
		{"dangling ref", 99, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := hash.TypeSize(tc.ref)
			if ok != tc.ok || got != tc.want {
				t.Errorf("TypeSize(%d) = (%d, %v), want (%d, %v)", tc.ref, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestTypeSizeCycleGuard(t *testing.T) {
	hash := NewFileHash(8)
	// два typedef, ссылающиеся друг на друга
	hash.Types[1] = &Type{Ref: 1, Kind: TypeDef, Name: "a", Elem: 2}
	hash.Types[2] = &Type{Ref: 2, Kind: TypeDef, Name: "b", Elem: 1}

	if _, ok := hash.TypeSize(1); ok {
		t.Fatalf("cyclic typedef chain must resolve to no size")
	}
}

func TestVariableByteSize(t *testing.T) {
	hash := NewFileHash(8)
	hash.Types[1] = &Type{Ref: 1, Kind: TypeBase, Name: "int", Size: 4, HasSize: true}

	explicit := &Variable{Name: "v", Size: 16, HasSize: true, Ty: 1}
	if got, ok := explicit.ByteSize(hash); !ok || got != 16 {
		t.Errorf("explicit size = (%d, %v), want (16, true)", got, ok)
	}
	viaType := &Variable{Name: "w", Ty: 1}
	if got, ok := viaType.ByteSize(hash); !ok || got != 4 {
		t.Errorf("size via type = (%d, %v), want (4, true)", got, ok)
	}
	declared := &Variable{Name: "d", Declaration: true}
	if _, ok := declared.ByteSize(hash); ok {
		t.Errorf("declaration without type must have no size")
	}
}
