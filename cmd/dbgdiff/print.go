package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dbgdiff/internal/observ"
	"dbgdiff/internal/print"
)

var printCmd = &cobra.Command{
	Use:   "print [flags] <binary>",
	Short: "Print the debug-info tree of a binary",
	Long:  `Print renders the units, types, functions and variables recorded in a binary's debugging information`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPrint,
}

func init() {
	addReportFlags(printCmd)
}

// reportFormat selects the output medium from the format/color flags.
func reportFormat(cmd *cobra.Command) (print.Format, bool, error) {
	formatName, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, false, fmt.Errorf("failed to get format flag: %w", err)
	}
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
	// fatih/color второй раз решает сам; выравниваем с нашим флагом.
	color.NoColor = !useColor

	switch formatName {
	case "text":
		return &print.Text{Color: useColor}, false, nil
	case "html":
		return &print.HTML{}, true, nil
	default:
		return nil, false, fmt.Errorf("unknown format: %s", formatName)
	}
}

func runPrint(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd, false)
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
	phase := timer.Begin("render")
	if isHTML {
		if err := print.WriteHTMLHeader(out, files[0].Path); err != nil {
			return err
		}
	}
	if err := print.PrintFile(out, format, files[0], opts); err != nil {
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

	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	return nil
}
