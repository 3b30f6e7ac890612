package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/cellkit/cell/libref"
)

func init() {
	rootCmd.AddCommand(newDetectCmd())
}

func newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <file>...",
		Short: "Identify archive and library file formats",
		Long: `The detect command reports the format of each file: gds, oas, cif,
cgx, native, library or unknown.

Example:
  cellctl detect chip.gds top.oas stdcells.lib`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(args)
		},
	}
	return cmd
}

type detectResult struct {
	Path    string `json:"path"`
	Format  string `json:"format"`
	Archive bool   `json:"archive"`
}

func runDetect(args []string) error {
	idx := libref.NewIndex(libref.Options{})
	results := make([]detectResult, 0, len(args))
	for _, p := range args {
		k, err := idx.Detect(p)
		if err != nil {
			return err
		}
		results = append(results, detectResult{Path: p, Format: k.String(), Archive: k.IsArchive()})
	}

	if jsonOut {
		return printJSON(results)
	}
	for _, r := range results {
		printInfo("%s: %s\n", r.Path, bold(r.Format))
	}
	return nil
}
