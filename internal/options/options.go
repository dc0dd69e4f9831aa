package options

import "fmt"

// Sort selects the display order of entity lists. It never affects how
// entities are matched across two trees.
type Sort uint8

const (
	// SortNone keeps natural order (by address where present).
	SortNone Sort = iota
	// SortName orders by namespace-qualified name.
	SortName
	// SortSize orders by computed byte size.
	SortSize
)

// ParseSort maps a CLI/TOML value to a Sort mode.
func ParseSort(s string) (Sort, error) {
	switch s {
	case "", "none":
		return SortNone, nil
	case "name":
		return SortName, nil
	case "size":
		return SortSize, nil
	default:
		return SortNone, fmt.Errorf("unknown sort mode: %q (want none|name|size)", s)
	}
}

// Options is the immutable configuration snapshot of one report run. It is
// built once before rendering begins and never mutated while a report is in
// flight.
type Options struct {
	Sort        Sort
	PrintSource bool

	// Category filters. All false means "print everything".
	FilterUnits     bool
	FilterTypes     bool
	FilterFunctions bool
	FilterVariables bool

	// Ignore flags exclude noisy fields from the change-detection signal.
	IgnoreVariableLinkageName bool
	IgnoreVariableSymbolName  bool
	IgnoreVariableAddress     bool
	IgnoreFunctionLinkageName bool
	IgnoreFunctionSymbolName  bool
	IgnoreFunctionAddress     bool
	IgnoreFunctionSize        bool
	IgnoreFunctionInline      bool

	// Jobs is the number of top-level units rendered concurrently.
	// Values below 2 keep rendering fully sequential.
	Jobs int
}

// PrintUnits reports whether unit metadata (producer, language) is included
// in the report. Unit headers always print: they are the tree's containers.
func (o *Options) PrintUnits() bool {
	return o.FilterUnits || o.noFilter()
}

// PrintTypes reports whether type entries are included in the report.
func (o *Options) PrintTypes() bool {
	return o.FilterTypes || o.noFilter()
}

// PrintFunctions reports whether function entries are included.
func (o *Options) PrintFunctions() bool {
	return o.FilterFunctions || o.noFilter()
}

// PrintVariables reports whether variable entries are included.
func (o *Options) PrintVariables() bool {
	return o.FilterVariables || o.noFilter()
}

func (o *Options) noFilter() bool {
	return !o.FilterUnits && !o.FilterTypes && !o.FilterFunctions && !o.FilterVariables
}
