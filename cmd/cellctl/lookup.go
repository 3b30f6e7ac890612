package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cellkit/cell/libref"
	"github.com/joshuapare/cellkit/cell/strtab"
)

func init() {
	rootCmd.AddCommand(newLookupCmd())
	rootCmd.AddCommand(newRefsCmd())
}

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <library> <cell>",
		Short: "Resolve a cell through a library file",
		Long: `The lookup command opens a library file and shows where a cell comes
from: the archive, the location inside it, and the archive cell name. Alias
references are followed to the reference they stand for.

Example:
  cellctl lookup pdk/stdcells.lib nand2
  cellctl lookup pdk/stdcells.yaml inv_x1 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(args)
		},
	}
	return cmd
}

func newRefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs <library>",
		Short: "List the references of a library file",
		Long: `The refs command lists every cell a library file provides.

Example:
  cellctl refs pdk/stdcells.lib`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefs(args)
		},
	}
	return cmd
}

type refInfo struct {
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
	Location string `json:"location,omitempty"`
	Cell     string `json:"cell,omitempty"`
	AliasOf  string `json:"alias_of,omitempty"`
}

func describe(ref *libref.Reference) refInfo {
	if ref.IsAlias {
		return refInfo{Name: ref.Name.String(), AliasOf: ref.Loc.Cell.String()}
	}
	return refInfo{
		Name:     ref.Name.String(),
		Path:     ref.Path(),
		Location: ref.Loc.String(),
		Cell:     ref.Target().String(),
	}
}

func openLibrary(path string) (*libref.Index, *libref.Library, error) {
	idx := libref.NewIndex(libref.Options{})
	lib, err := idx.OpenLibrary(path, libref.KindUser)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open library: %w", err)
	}
	printVerbose("Opened library %s (%d references)\n", lib.Name(), lib.Len())
	return idx, lib, nil
}

func runLookup(args []string) error {
	idx, lib, err := openLibrary(args[0])
	if err != nil {
		return err
	}
	_, ref, ok := idx.Lookup(lib.Path(), strtab.Make(args[1]), libref.KindAny)
	if !ok {
		return fmt.Errorf("cell %s not found in %s", args[1], lib.Name())
	}

	chain := []refInfo{describe(ref)}
	for hops := 0; ref.IsAlias && hops < libref.MaxRedirects; hops++ {
		next, ok := lib.Find(ref.Loc.Cell)
		if !ok {
			return fmt.Errorf("alias %s points at missing %s", ref.Name, ref.Loc.Cell)
		}
		ref = next
		chain = append(chain, describe(ref))
	}

	if jsonOut {
		return printJSON(chain)
	}
	for i, info := range chain {
		if info.AliasOf != "" {
			printInfo("%s%s %s %s\n", indent(i), bold(info.Name), dim("alias of"), info.AliasOf)
			continue
		}
		printInfo("%s%s\n", indent(i), bold(info.Name))
		printInfo("%s  file: %s\n", indent(i), info.Path)
		printInfo("%s  location: %s\n", indent(i), info.Location)
		printInfo("%s  cell: %s\n", indent(i), info.Cell)
	}
	return nil
}

func runRefs(args []string) error {
	_, lib, err := openLibrary(args[0])
	if err != nil {
		return err
	}
	refs := lib.References()
	infos := make([]refInfo, len(refs))
	for i, r := range refs {
		infos[i] = describe(r)
	}

	if jsonOut {
		return printJSON(struct {
			Library    string    `json:"library"`
			References []refInfo `json:"references"`
		}{lib.Name(), infos})
	}
	printInfo("%s %s\n", bold("Library"), lib.Name())
	for _, info := range infos {
		if info.AliasOf != "" {
			printInfo("  %-20s -> %s\n", info.Name, info.AliasOf)
			continue
		}
		printInfo("  %-20s %s %s\n", info.Name, info.Path, dim(info.Location))
	}
	return nil
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
