package loader

import (
	"debug/dwarf"
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"errors"
	"fmt"
	"io"
)

// object is a parsed binary container: its debug info, its address size and
// its runtime symbol table (address -> symbol name).
type object struct {
	data    *dwarf.Data
	ptrSize uint64
	symtab  map[uint64]string
	closer  io.Closer
}

func (o *object) close() {
	if o.closer != nil {
		_ = o.closer.Close()
	}
}

// openObject tries the known container formats in order. A format mismatch
// moves on to the next parser; any other error aborts.
func openObject(path string) (*object, error) {
	if obj, err := openELF(path); err == nil {
		return obj, nil
	} else if !errors.Is(err, errNotThisFormat) {
		return nil, err
	}
	if obj, err := openMachO(path); err == nil {
		return obj, nil
	} else if !errors.Is(err, errNotThisFormat) {
		return nil, err
	}
	if obj, err := openPE(path); err == nil {
		return obj, nil
	} else if !errors.Is(err, errNotThisFormat) {
		return nil, err
	}
	return nil, fmt.Errorf("unrecognized binary format")
}

var errNotThisFormat = errors.New("not this container format")

func openELF(path string) (*object, error) {
	f, err := elf.Open(path)
	if err != nil {
		var fmtErr *elf.FormatError
		if errors.As(err, &fmtErr) {
			return nil, errNotThisFormat
		}
		return nil, err
	}
	data, err := f.DWARF()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("no usable debug info: %w", err)
	}
	ptrSize := uint64(8)
	if f.Class == elf.ELFCLASS32 {
		ptrSize = 4
	}
	symtab := make(map[uint64]string)
	if syms, err := f.Symbols(); err == nil {
		for _, sym := range syms {
			if sym.Name != "" && sym.Value != 0 {
				symtab[sym.Value] = sym.Name
			}
		}
	}
	return &object{data: data, ptrSize: ptrSize, symtab: symtab, closer: f}, nil
}

func openMachO(path string) (*object, error) {
	f, err := macho.Open(path)
	if err != nil {
		var fmtErr *macho.FormatError
		if errors.As(err, &fmtErr) {
			return nil, errNotThisFormat
		}
		return nil, err
	}
	data, err := f.DWARF()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("no usable debug info: %w", err)
	}
	ptrSize := uint64(8)
	if f.Magic == macho.Magic32 {
		ptrSize = 4
	}
	symtab := make(map[uint64]string)
	if f.Symtab != nil {
		for _, sym := range f.Symtab.Syms {
			if sym.Name != "" && sym.Value != 0 {
				symtab[sym.Value] = sym.Name
			}
		}
	}
	return &object{data: data, ptrSize: ptrSize, symtab: symtab, closer: f}, nil
}

func openPE(path string) (*object, error) {
	f, err := pe.Open(path)
	if err != nil {
		// debug/pe has no typed format error; treat any parse failure as
		// "try the next format".
		return nil, errNotThisFormat
	}
	data, err := f.DWARF()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("no usable debug info: %w", err)
	}
	ptrSize := uint64(4)
	switch f.Machine {
	case pe.IMAGE_FILE_MACHINE_AMD64, pe.IMAGE_FILE_MACHINE_ARM64:
		ptrSize = 8
	}
	// COFF symbol values are section-relative; not worth resolving here.
	return &object{data: data, ptrSize: ptrSize, symtab: map[uint64]string{}, closer: f}, nil
}
