package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dbgdiff/internal/observ"
	"dbgdiff/internal/print"
)

var diffCmd = &cobra.Command{
	Use:   "diff [flags] <binary-a> <binary-b>",
	Short: "Compare the debug-info trees of two binaries",
	Long: `Diff aligns the compilation units, types, functions and variables of two
binaries (or saved snapshots) and reports every structural difference.
Unchanged entities are collapsed; entities present on one side only are
framed as removed (-) or added (+)`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	addReportFlags(diffCmd)
	addIgnoreFlags(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd, true)
	if err != nil {
		return err
	}
	format, isHTML, err := reportFormat(cmd)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	files, err := loadFiles(cmd, timer, "loading debug info", args)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	phase := timer.Begin("diff")
	if isHTML {
		title := fmt.Sprintf("%s vs %s", files[0].Path, files[1].Path)
		if err := print.WriteHTMLHeader(out, title); err != nil {
			return err
		}
	}
	changed, err := print.DiffFile(out, format, files[0], files[1], opts)
	if err != nil {
		return err
	}
	if isHTML {
		if err := print.WriteHTMLFooter(out); err != nil {
			return err
		}
	}
	timer.End(phase, "")
	if err := out.Flush(); err != nil {
		return err
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !changed && !quiet {
		fmt.Fprintln(os.Stderr, "no differences")
	}
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	return nil
}
