package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cellkit/cell"
	"github.com/joshuapare/cellkit/cell/digest"
	"github.com/joshuapare/cellkit/cell/strtab"
	"github.com/joshuapare/cellkit/cell/walker"
)

var (
	hierMaxDepth int
	hierEmpty    bool
	hierDigest   bool
)

func init() {
	cmd := newHierCmd()
	cmd.Flags().IntVar(&hierMaxDepth, "max-depth", walker.DefaultMaxDepth, "Maximum hierarchy depth")
	cmd.Flags().BoolVar(&hierEmpty, "empty", false, "List only empty cells")
	cmd.Flags().BoolVar(&hierDigest, "digest", false, "Print a hierarchy digest")
	rootCmd.AddCommand(cmd)
}

func newHierCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hier <hierarchy.yaml> <top>",
		Short: "Walk a cell hierarchy",
		Long: `The hier command loads a YAML hierarchy description and lists every
cell below the top cell, each once, children before parents. Physical and
electrical views are both walked.

Example:
  cellctl hier chip.yaml top
  cellctl hier chip.yaml top --empty
  cellctl hier chip.yaml top --digest --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHier(args)
		},
	}
	return cmd
}

func runHier(args []string) error {
	db, err := cell.LoadDatabase(args[0])
	if err != nil {
		return fmt.Errorf("failed to load hierarchy: %w", err)
	}
	top := strtab.Make(args[1])
	opts := walker.Options{MaxDepth: hierMaxDepth}

	if hierDigest {
		return printDigest(db, top, opts)
	}

	var cells []*cell.Cell
	if hierEmpty {
		cells, err = walker.EmptyCells(db, top, opts)
	} else {
		cells, err = walker.Collect(db, top, opts)
	}
	if err != nil {
		return err
	}
	if len(cells) == 0 && !hierEmpty {
		return fmt.Errorf("cell %s not found", args[1])
	}

	if jsonOut {
		out := make([]string, len(cells))
		for i, c := range cells {
			out[i] = c.String()
		}
		return printJSON(out)
	}
	for _, c := range cells {
		printInfo("%s %s\n", c.Name(), dim(c.View().String()))
	}
	return nil
}

func printDigest(db *cell.Database, top strtab.Handle, opts walker.Options) error {
	d, err := digest.BuildWithOptions(db, top, opts)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(d)
	}
	printInfo("%s %s (%s)\n", bold("Digest"), d.Top, d.ID)
	for _, name := range d.Names() {
		e, _ := d.Lookup(name)
		printInfo("  %-20s children=%d extent=%v\n", name, len(e.Children), e.Extent)
	}
	return nil
}
