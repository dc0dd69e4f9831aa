package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dbgdiff/internal/observ"
	"dbgdiff/internal/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [flags] <binary>",
	Short: "Save a binary's debug-info tree as a baseline snapshot",
	Long: `Snapshot materializes a binary's debugging information once and stores it
on disk, so later builds can be diffed against the baseline without keeping
the original binary around`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringP("output", "o", "", "snapshot path (default: <binary>"+snapshot.Extension+")")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	if output == "" {
		output = args[0] + snapshot.Extension
	}

	timer := observ.NewTimer()
	files, err := loadFiles(cmd, timer, "loading debug info", args)
	if err != nil {
		return err
	}

	phase := timer.Begin("write snapshot")
	if err := snapshot.Write(output, files[0]); err != nil {
		return err
	}
	timer.End(phase, output)

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(os.Stderr, "wrote %s (%d units)\n", output, len(files[0].Units))
	}
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	return nil
}
