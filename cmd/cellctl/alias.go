package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cellkit/cell"
	"github.com/joshuapare/cellkit/cell/alias"
	"github.com/joshuapare/cellkit/cell/libref"
	"github.com/joshuapare/cellkit/pkg/types"
)

var (
	aliasPolicy  string
	aliasPrefix  string
	aliasSuffix  string
	aliasMode    string
	aliasFile    string
	aliasConfig  string
	aliasDevices []string
	aliasLive    string
)

func init() {
	cmd := newAliasCmd()
	cmd.Flags().StringVar(&aliasPolicy, "policy", "", "Renaming policy, e.g. lower,limit32,charset")
	cmd.Flags().StringVar(&aliasPrefix, "prefix", "", "Prefix added to every renamed cell")
	cmd.Flags().StringVar(&aliasSuffix, "suffix", "", "Suffix added to every renamed cell")
	cmd.Flags().StringVar(&aliasMode, "mode", "", "Translation direction: in or out")
	cmd.Flags().StringVar(&aliasFile, "file", "", "Alias file to read and update")
	cmd.Flags().StringVar(&aliasConfig, "config", "", "YAML resolver configuration")
	cmd.Flags().StringSliceVar(&aliasDevices, "devices", nil, "Device library files whose names are protected")
	cmd.Flags().StringVar(&aliasLive, "db", "", "YAML hierarchy used as the working database")
	rootCmd.AddCommand(cmd)
}

func newAliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias [name...]",
		Short: "Show the names cells get under a renaming policy",
		Long: `The alias command runs cell names through an alias resolver and prints
the name each one is given. Names are read from the arguments, or one per line
from standard input when there are none.

Example:
  cellctl alias --policy lower,limit32,charset MYCELL Weird.Name mycell
  cellctl alias --config alias.yaml --file chip.alias < names.txt
  cellctl alias --policy upper --devices pdk/devices.lib nmos inv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlias(args, os.Stdin)
		},
	}
	return cmd
}

type aliasResult struct {
	Name    string `json:"name"`
	Alias   string `json:"alias"`
	Renamed bool   `json:"renamed"`
}

// aliasOptions merges the configuration file with the command-line flags,
// flags taking precedence.
func aliasOptions() (alias.Options, string, error) {
	cfg := &alias.Config{}
	if aliasConfig != "" {
		loaded, err := alias.LoadConfig(aliasConfig)
		if err != nil {
			return alias.Options{}, "", err
		}
		cfg = loaded
	}
	if aliasPolicy != "" {
		cfg.Policy = aliasPolicy
	}
	if aliasPrefix != "" {
		cfg.Prefix = aliasPrefix
	}
	if aliasSuffix != "" {
		cfg.Suffix = aliasSuffix
	}
	if aliasMode != "" {
		cfg.Mode = aliasMode
	}
	if aliasFile != "" {
		cfg.File = aliasFile
	}
	opts, err := cfg.Options()
	if err != nil {
		return alias.Options{}, "", err
	}
	if cfg.File != "" {
		opts.Policy |= alias.ReadFile | alias.WriteFile
	}
	return opts, cfg.File, nil
}

func runAlias(args []string, in io.Reader) error {
	opts, file, err := aliasOptions()
	if err != nil {
		return err
	}

	if aliasLive != "" {
		db, err := cell.LoadDatabase(aliasLive)
		if err != nil {
			return err
		}
		opts.Database = db
	}
	if len(aliasDevices) > 0 {
		idx := libref.NewIndex(libref.Options{})
		for _, p := range aliasDevices {
			if _, err := idx.OpenLibrary(p, libref.KindDevice); err != nil {
				return fmt.Errorf("failed to open device library: %w", err)
			}
		}
		opts.Devices = idx
	}
	report := types.NewReport()
	opts.Report = report

	r := alias.New(opts)
	printVerbose("Policy: %s, mode: %s\n", r.Policy(), r.Mode())
	if file != "" {
		if err := r.ReadFile(file); err != nil {
			return err
		}
		printVerbose("Loaded %d binding(s) from %s\n", r.Len(), file)
	}

	names := args
	if len(names) == 0 {
		if names, err = readNames(in); err != nil {
			return err
		}
	}

	results := make([]aliasResult, 0, len(names))
	for _, n := range names {
		a := r.AliasString(n)
		results = append(results, aliasResult{Name: n, Alias: a, Renamed: a != n})
	}

	if file != "" {
		if err := r.WriteFile(file); err != nil {
			return err
		}
	}

	if jsonOut {
		return printJSON(struct {
			Results     []aliasResult `json:"results"`
			Diagnostics *types.Report `json:"diagnostics"`
		}{results, report})
	}
	for _, res := range results {
		if res.Renamed {
			printInfo("%-24s %s\n", res.Name, bold(res.Alias))
		} else {
			printInfo("%-24s %s\n", res.Name, dim(res.Alias))
		}
	}
	return nil
}

func readNames(in io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if n := strings.TrimSpace(sc.Text()); n != "" {
			names = append(names, n)
		}
	}
	return names, sc.Err()
}
