package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dbgdiff/internal/options"
)

// addReportFlags registers the flags shared by the print and diff commands.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("sort", "none", "display order (none|name|size)")
	cmd.Flags().Bool("source", false, "include source locations")
	cmd.Flags().String("format", "text", "output format (text|html)")
	cmd.Flags().Bool("units", false, "report unit metadata only (combinable with the other category flags)")
	cmd.Flags().Bool("types", false, "report types only (combinable with --functions/--variables)")
	cmd.Flags().Bool("functions", false, "report functions only (combinable)")
	cmd.Flags().Bool("variables", false, "report variables only (combinable)")
}

// addIgnoreFlags registers the diff-only field suppression flags.
func addIgnoreFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("ignore-variable-linkage-name", false, "exclude variable linkage names from change detection")
	cmd.Flags().Bool("ignore-variable-symbol-name", false, "exclude variable symbol names from change detection")
	cmd.Flags().Bool("ignore-variable-address", false, "exclude variable addresses from change detection")
	cmd.Flags().Bool("ignore-function-linkage-name", false, "exclude function linkage names from change detection")
	cmd.Flags().Bool("ignore-function-symbol-name", false, "exclude function symbol names from change detection")
	cmd.Flags().Bool("ignore-function-address", false, "exclude function addresses from change detection")
	cmd.Flags().Bool("ignore-function-size", false, "exclude function sizes from change detection")
	cmd.Flags().Bool("ignore-function-inline", false, "exclude function inline flags from change detection")
}

// buildOptions assembles the immutable Options snapshot for one report:
// command-line flags first, then whatever dbgdiff.toml adds.
func buildOptions(cmd *cobra.Command, withIgnore bool) (*options.Options, error) {
	opts := &options.Options{}

	sortMode, err := cmd.Flags().GetString("sort")
	if err != nil {
		return nil, fmt.Errorf("failed to get sort flag: %w", err)
	}
	opts.Sort, err = options.ParseSort(sortMode)
	if err != nil {
		return nil, err
	}
	opts.PrintSource, _ = cmd.Flags().GetBool("source")
	opts.FilterUnits, _ = cmd.Flags().GetBool("units")
	opts.FilterTypes, _ = cmd.Flags().GetBool("types")
	opts.FilterFunctions, _ = cmd.Flags().GetBool("functions")
	opts.FilterVariables, _ = cmd.Flags().GetBool("variables")
	opts.Jobs, _ = cmd.Root().PersistentFlags().GetInt("jobs")

	if withIgnore {
		opts.IgnoreVariableLinkageName, _ = cmd.Flags().GetBool("ignore-variable-linkage-name")
		opts.IgnoreVariableSymbolName, _ = cmd.Flags().GetBool("ignore-variable-symbol-name")
		opts.IgnoreVariableAddress, _ = cmd.Flags().GetBool("ignore-variable-address")
		opts.IgnoreFunctionLinkageName, _ = cmd.Flags().GetBool("ignore-function-linkage-name")
		opts.IgnoreFunctionSymbolName, _ = cmd.Flags().GetBool("ignore-function-symbol-name")
		opts.IgnoreFunctionAddress, _ = cmd.Flags().GetBool("ignore-function-address")
		opts.IgnoreFunctionSize, _ = cmd.Flags().GetBool("ignore-function-size")
		opts.IgnoreFunctionInline, _ = cmd.Flags().GetBool("ignore-function-inline")
	}

	if path, ok, err := options.FindConfig("."); err != nil {
		return nil, err
	} else if ok {
		cfg, err := options.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		if err := cfg.Apply(opts); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return opts, nil
}
