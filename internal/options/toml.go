package options

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig mirrors the dbgdiff.toml layout. Every field is optional;
// command-line flags override whatever the file sets.
type FileConfig struct {
	Print printConfig `toml:"print"`
	Diff  diffConfig  `toml:"diff"`
}

type printConfig struct {
	Sort   string `toml:"sort"`
	Source bool   `toml:"source"`
}

type diffConfig struct {
	IgnoreVariableLinkageName bool `toml:"ignore_variable_linkage_name"`
	IgnoreVariableSymbolName  bool `toml:"ignore_variable_symbol_name"`
	IgnoreVariableAddress     bool `toml:"ignore_variable_address"`
	IgnoreFunctionLinkageName bool `toml:"ignore_function_linkage_name"`
	IgnoreFunctionSymbolName  bool `toml:"ignore_function_symbol_name"`
	IgnoreFunctionAddress     bool `toml:"ignore_function_address"`
	IgnoreFunctionSize        bool `toml:"ignore_function_size"`
	IgnoreFunctionInline      bool `toml:"ignore_function_inline"`
}

// FindConfig walks up from startDir looking for dbgdiff.toml, the same way
// a build tool locates its project manifest.
func FindConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "dbgdiff.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig parses a dbgdiff.toml file.
func LoadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, nil
}

// Apply merges file-level settings into opts. Only fields the config file
// can express are touched; boolean ignore flags are OR-ed so a flag set on
// the command line is never un-set by the file.
func (cfg FileConfig) Apply(opts *Options) error {
	if cfg.Print.Sort != "" {
		sort, err := ParseSort(cfg.Print.Sort)
		if err != nil {
			return err
		}
		if opts.Sort == SortNone {
			opts.Sort = sort
		}
	}
	opts.PrintSource = opts.PrintSource || cfg.Print.Source
	opts.IgnoreVariableLinkageName = opts.IgnoreVariableLinkageName || cfg.Diff.IgnoreVariableLinkageName
	opts.IgnoreVariableSymbolName = opts.IgnoreVariableSymbolName || cfg.Diff.IgnoreVariableSymbolName
	opts.IgnoreVariableAddress = opts.IgnoreVariableAddress || cfg.Diff.IgnoreVariableAddress
	opts.IgnoreFunctionLinkageName = opts.IgnoreFunctionLinkageName || cfg.Diff.IgnoreFunctionLinkageName
	opts.IgnoreFunctionSymbolName = opts.IgnoreFunctionSymbolName || cfg.Diff.IgnoreFunctionSymbolName
	opts.IgnoreFunctionAddress = opts.IgnoreFunctionAddress || cfg.Diff.IgnoreFunctionAddress
	opts.IgnoreFunctionSize = opts.IgnoreFunctionSize || cfg.Diff.IgnoreFunctionSize
	opts.IgnoreFunctionInline = opts.IgnoreFunctionInline || cfg.Diff.IgnoreFunctionInline
	return nil
}
