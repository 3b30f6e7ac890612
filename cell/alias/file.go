package alias

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joshuapare/cellkit/cell/strtab"
	"github.com/joshuapare/cellkit/internal/format"
	"github.com/joshuapare/cellkit/internal/syncfile"
	"github.com/joshuapare/cellkit/pkg/types"
)

// fileColumnWidth pads the first column of written alias files.
const fileColumnWidth = 24

// ReadFile loads bindings from an alias file. It does nothing unless the
// policy has ReadFile and the resolver is not frozen. A missing or
// unreadable file is not an error; malformed lines are skipped.
func (r *Resolver) ReadFile(path string) error {
	if !r.policy.Has(ReadFile) || r.frozen {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		r.log.Debug("alias: no alias file", "path", path, "err", err)
		return nil
	}
	defer f.Close()

	n, err := r.Read(f)
	if err != nil {
		r.log.Warn("alias: alias file read stopped early", "path", path, "err", err)
		r.report.Add(types.Diagnostic{
			Severity: types.SevWarning,
			Category: types.CatPersist,
			File:     path,
			Issue:    "alias file read stopped early: " + err.Error(),
		})
		return nil
	}
	r.log.Debug("alias: alias file loaded", "path", path, "bindings", n)
	return nil
}

// Read loads bindings from r and returns how many were added. Each line
// holds the archive-side name first: "alias name" in ModeOutput, "name
// alias" in ModeInput. Lines without exactly two fields are skipped, as are
// bindings that conflict with ones already present. Only I/O errors are
// returned.
func (r *Resolver) Read(in io.Reader) (int, error) {
	if r.frozen {
		return 0, nil
	}
	text, err := format.NewTextReader(in)
	if err != nil {
		return 0, err
	}

	added := 0
	sc := bufio.NewScanner(text)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		name, alias := fields[0], fields[1]
		if r.mode == ModeOutput {
			name, alias = alias, name
		}
		nh := strtab.Make(name)
		if _, ok := r.table.FindAlias(nh); ok {
			continue
		}
		if r.bind(nh, strtab.Make(alias)) {
			added++
		}
	}
	return added, sc.Err()
}

// WriteFile saves the bindings to path. It does nothing unless the policy
// has WriteFile and bindings changed since the last write. On failure the
// resolver stays dirty so the write can be retried.
func (r *Resolver) WriteFile(path string) error {
	if !r.policy.Has(WriteFile) || !r.dirty {
		return nil
	}
	err := syncfile.WriteFile(path, 0o644, func(w io.Writer) error {
		return r.Write(w)
	})
	if err != nil {
		r.report.Add(types.Diagnostic{
			Severity: types.SevError,
			Category: types.CatPersist,
			File:     path,
			Issue:    "alias file write failed: " + err.Error(),
		})
		return fmt.Errorf("alias: write %s: %w", path, err)
	}
	r.dirty = false
	r.log.Debug("alias: alias file written", "path", path, "bindings", r.table.Len())
	return nil
}

// Write emits the bindings in alias file format, ordered by name. Entries
// whose alias equals the name are omitted.
func (r *Resolver) Write(w io.Writer) error {
	for _, e := range r.table.Sorted() {
		if e.Name == e.Alias {
			continue
		}
		first, second := e.Name.String(), e.Alias.String()
		if r.mode == ModeOutput {
			first, second = second, first
		}
		if _, err := fmt.Fprintf(w, "%-*s %s\n", fileColumnWidth, first, second); err != nil {
			return err
		}
	}
	return nil
}
