package alias

import (
	"log/slog"

	"github.com/joshuapare/cellkit/cell"
	"github.com/joshuapare/cellkit/cell/bitab"
	"github.com/joshuapare/cellkit/cell/namepool"
	"github.com/joshuapare/cellkit/cell/strtab"
	"github.com/joshuapare/cellkit/internal/logger"
	"github.com/joshuapare/cellkit/pkg/types"
)

type nameSet map[strtab.Handle]struct{}

func (s nameSet) has(h strtab.Handle) bool {
	_, ok := s[h]
	return ok
}

// Resolver maps cell names to the names used for them in one translation.
//
// A Resolver is created per conversion, read or write, and may be carried
// across several files of one operation with Reinit.
//
// NOT thread-safe.
type Resolver struct {
	policy Policy
	prefix string
	suffix string
	mode   Mode

	db      cell.CellFinder
	devices cell.DeviceChecker
	log     *slog.Logger
	report  *types.Report

	table *bitab.Table
	pool  *namepool.Pool

	// seen holds names that were looked at and left unchanged in the
	// current file.
	seen nameSet
	// accumulated holds names finalized by earlier files.
	accumulated nameSet

	frozen bool
	dirty  bool
}

// New creates a Resolver.
func New(opts Options) *Resolver {
	policy := opts.Policy
	if policy.Has(ToLower | ToUpper) {
		policy &^= ToUpper
	}
	return &Resolver{
		policy:      policy,
		prefix:      opts.Prefix,
		suffix:      opts.Suffix,
		mode:        opts.Mode,
		db:          opts.Database,
		devices:     opts.Devices,
		log:         logger.Or(opts.Logger),
		report:      opts.Report,
		table:       bitab.New(0),
		pool:        namepool.New(opts.Pool),
		seen:        make(nameSet),
		accumulated: make(nameSet),
	}
}

// Policy returns the active policy.
func (r *Resolver) Policy() Policy { return r.policy }

// Mode returns the translation direction.
func (r *Resolver) Mode() Mode { return r.mode }

// Frozen reports whether SetFrozen was called.
func (r *Resolver) Frozen() bool { return r.frozen }

// Dirty reports whether bindings changed since the last successful write.
func (r *Resolver) Dirty() bool { return r.dirty }

// Len returns the number of live name/alias bindings.
func (r *Resolver) Len() int { return r.table.Len() }

// Diagnostics returns the report renames are recorded in, or nil.
func (r *Resolver) Diagnostics() *types.Report { return r.report }

// Bindings returns the live bindings ordered by name.
func (r *Resolver) Bindings() []bitab.Entry { return r.table.Sorted() }

// Alias returns the name to use for name. Repeated calls with the same
// name return the same result until Reinit.
func (r *Resolver) Alias(name strtab.Handle) strtab.Handle {
	if a, ok := r.table.FindAlias(name); ok {
		return a
	}
	if r.frozen {
		return name
	}
	if r.seen.has(name) {
		return name
	}
	if r.isDevice(name) {
		r.seen[name] = struct{}{}
		return name
	}

	force := r.inUseAsAlias(name) || r.accumulated.has(name) ||
		(r.policy.Has(AutoRename) && r.isLive(name))

	if a, ok := r.mint(name, force); ok {
		return a
	}
	r.seen[name] = struct{}{}
	return name
}

// AliasString is Alias for callers holding a plain string.
func (r *Resolver) AliasString(name string) string {
	return r.Alias(strtab.Make(name)).String()
}

// Written returns the alias bound to name, without minting one.
func (r *Resolver) Written(name strtab.Handle) (strtab.Handle, bool) {
	return r.table.FindAlias(name)
}

// Unalias returns the name that alias was bound for.
func (r *Resolver) Unalias(alias strtab.Handle) (strtab.Handle, bool) {
	return r.table.FindName(alias)
}

// SetAlias force-binds name to alias, as implied by a library reference.
// It does nothing and reports false when name is already bound or alias is
// already taken by another name.
func (r *Resolver) SetAlias(name, alias strtab.Handle) bool {
	if r.frozen {
		return false
	}
	if _, ok := r.table.FindAlias(name); ok {
		return false
	}
	if !r.bind(name, alias) {
		return false
	}
	r.dirty = true
	return true
}

// Reinit prepares the resolver for the next file of the same operation.
// Names seen and aliases minted so far become reserved, and the binding
// table is cleared. carry, when non-zero, is released from the reserved set
// because the coming file is about to define it.
//
// Reinit on a frozen resolver does nothing.
func (r *Resolver) Reinit(carry strtab.Handle) {
	if r.frozen {
		r.log.Debug("alias: reinit ignored on frozen resolver")
		return
	}
	for h := range r.seen {
		r.accumulated[h] = struct{}{}
	}
	for e := range r.table.All() {
		r.accumulated[e.Alias] = struct{}{}
	}
	clear(r.seen)
	r.table.Clear()
	r.pool.Reset()
	if !carry.IsZero() {
		delete(r.accumulated, carry)
	}
}

// SetFrozen makes Alias a pass-through for unbound names and releases the
// side tables. Existing bindings stay queryable.
func (r *Resolver) SetFrozen() {
	r.frozen = true
	r.seen = nil
	r.accumulated = nil
}

// bind records a binding and interns the alias in the pool.
func (r *Resolver) bind(name, alias strtab.Handle) bool {
	if _, taken := r.table.FindName(alias); taken {
		return false
	}
	alias = r.pool.Intern(alias.String())
	return r.table.Add(name, alias)
}

func (r *Resolver) isDevice(name strtab.Handle) bool {
	return r.devices != nil && r.devices.IsDeviceCell(name)
}

// inUseAsAlias reports whether some other name was renamed to name.
func (r *Resolver) inUseAsAlias(name strtab.Handle) bool {
	_, ok := r.table.FindName(name)
	return ok
}

// isLive reports whether name is a cell in either view of the database.
func (r *Resolver) isLive(name strtab.Handle) bool {
	if r.db == nil {
		return false
	}
	for v := range cell.View(cell.NumViews) {
		if _, ok := r.db.FindCell(name, v); ok {
			return true
		}
	}
	return false
}
