package alias

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/cellkit/cell"
	"github.com/joshuapare/cellkit/cell/namepool"
	"github.com/joshuapare/cellkit/pkg/types"
)

// Mode says which direction a translation runs. It fixes the column order
// of the alias file: the first column is always the name as it appears in
// the archive.
type Mode int

const (
	// ModeInput renames cells read from an archive into the database.
	ModeInput Mode = iota
	// ModeOutput renames cells written from the database to an archive.
	ModeOutput
)

func (m Mode) String() string {
	if m == ModeOutput {
		return "output"
	}
	return "input"
}

// ParseMode accepts "input"/"in"/"read" and "output"/"out"/"write".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "input", "in", "read":
		return ModeInput, nil
	case "output", "out", "write":
		return ModeOutput, nil
	}
	return ModeInput, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

const (
	// NameLimit is the name length enforced by Limit32.
	NameLimit = 32

	// MaxSuffixAttempts bounds the "$<n>" search in mint.
	MaxSuffixAttempts = 1 << 16

	// AliasFileExt is the extension of default alias files.
	AliasFileExt = ".alias"
)

// Options configures a Resolver.
type Options struct {
	Policy Policy
	Prefix string // Applied when Policy has Prefix
	Suffix string // Applied when Policy has Suffix
	Mode   Mode

	// Database is consulted for live-cell collisions. Optional.
	Database cell.CellFinder
	// Devices protects device-library names from renaming. Optional.
	Devices cell.DeviceChecker

	// Pool selects where minted aliases are interned. Use namepool.Global
	// when aliases become persistent cell names.
	Pool namepool.Mode

	Logger *slog.Logger
	Report *types.Report // Receives a diagnostic per rename. Optional.
}

// DefaultFileName returns the alias file that accompanies an archive:
// the archive path with its extension replaced by ".alias".
func DefaultFileName(archivePath string) string {
	ext := filepath.Ext(archivePath)
	return strings.TrimSuffix(archivePath, ext) + AliasFileExt
}

// Config is the serializable part of Options.
type Config struct {
	Policy      string `yaml:"policy"`
	Prefix      string `yaml:"prefix,omitempty"`
	Suffix      string `yaml:"suffix,omitempty"`
	Mode        string `yaml:"mode,omitempty"`
	File        string `yaml:"file,omitempty"`
	GlobalNames bool   `yaml:"global_names,omitempty"`
}

// LoadConfig reads a YAML resolver configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("alias: load config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("alias: parse config %s: %w", path, err)
	}
	return &c, nil
}

// Options converts c into Options. Collaborators (Database, Devices,
// Logger, Report) are left for the caller to fill in.
func (c *Config) Options() (Options, error) {
	p, err := ParsePolicy(c.Policy)
	if err != nil {
		return Options{}, err
	}
	m, err := ParseMode(c.Mode)
	if err != nil {
		return Options{}, err
	}
	if c.Prefix != "" {
		p |= Prefix
	}
	if c.Suffix != "" {
		p |= Suffix
	}
	opts := Options{Policy: p, Prefix: c.Prefix, Suffix: c.Suffix, Mode: m}
	if c.GlobalNames {
		opts.Pool = namepool.Global
	}
	return opts, nil
}
