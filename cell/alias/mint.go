package alias

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joshuapare/cellkit/cell"
	"github.com/joshuapare/cellkit/cell/strtab"
	"github.com/joshuapare/cellkit/pkg/types"
)

// mint looks for a new alias for name. With force false and no change from
// the transform chain it produces nothing. On success the binding is stored.
func (r *Resolver) mint(name strtab.Handle, force bool) (strtab.Handle, bool) {
	orig := name.String()
	base := r.transform(orig)
	changed := base != orig
	if !changed && !force {
		return strtab.Handle{}, false
	}

	for ix := 0; ix <= MaxSuffixAttempts; ix++ {
		var cand string
		if ix == 0 {
			if !changed {
				// forced, and the unchanged name is what collides
				continue
			}
			cand = base
		} else {
			cand = r.withIndex(base, ix)
		}

		h := strtab.Make(cand)
		if !r.available(h) {
			continue
		}
		if !r.bind(name, h) {
			continue
		}
		r.dirty = true
		alias, _ := r.table.FindAlias(name)
		r.log.Info("cell renamed", "name", orig, "alias", cand, "mode", r.mode.String())
		r.report.Add(types.Diagnostic{
			Severity: types.SevInfo,
			Category: types.CatRename,
			Name:     orig,
			Alias:    cand,
			Issue:    "cell " + strconv.Quote(orig) + " renamed to " + strconv.Quote(cand),
		})
		return alias, true
	}

	r.log.Debug("alias: no free name found", "name", orig)
	return strtab.Handle{}, false
}

// available reports whether cand may be handed out as a new alias.
func (r *Resolver) available(cand strtab.Handle) bool {
	if r.seen.has(cand) || r.accumulated.has(cand) {
		return false
	}
	if r.pool.Contains(cand) || r.inUseAsAlias(cand) {
		return false
	}
	if r.isDevice(cand) {
		return false
	}
	if r.db != nil {
		for v := range cell.View(cell.NumViews) {
			c, ok := r.db.FindCell(cand, v)
			if !ok {
				continue
			}
			// a live cell may be shadowed unless it is a device or the
			// caller asked for every live name to be avoided
			if c.IsDevice() || r.policy.Has(AutoRename) {
				return false
			}
		}
	}
	return true
}

// transform applies the fixed pass-0 chain.
func (r *Resolver) transform(s string) string {
	switch {
	case r.policy.Has(ToLower) && isSingleCase(s, unicode.IsUpper, unicode.IsLower):
		s = strings.ToLower(s)
	case r.policy.Has(ToUpper) && isSingleCase(s, unicode.IsLower, unicode.IsUpper):
		s = strings.ToUpper(s)
	}

	if r.policy.Has(Prefix) && r.prefix != "" {
		s = r.prefix + s
	}
	if r.policy.Has(Suffix) && r.suffix != "" {
		s += r.suffix
	}

	if r.policy.Has(Limit32) {
		s = truncate(s, NameLimit)
	}
	if r.policy.Has(Charset) {
		s = legalize(s)
	}
	if !r.policy.Has(KeepSpace) {
		s = replaceSpace(s)
	}
	return s
}

// withIndex appends "$ix" to base, overwriting base's tail when the result
// would exceed the length limit.
func (r *Resolver) withIndex(base string, ix int) string {
	sfx := "$" + strconv.Itoa(ix)
	if r.policy.Has(Limit32) && len(base)+len(sfx) > NameLimit {
		base = truncate(base, NameLimit-len(sfx))
	}
	return base + sfx
}

// isSingleCase reports whether s has at least one letter matching want and
// none matching other.
func isSingleCase(s string, want, other func(rune) bool) bool {
	found := false
	for _, c := range s {
		if other(c) {
			return false
		}
		if want(c) {
			found = true
		}
	}
	return found
}

// truncate cuts s to at most n bytes without splitting a rune. A prefix
// with no rune start is cut at n bytes.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		cut = n
	}
	return s[:cut]
}

// IsLegalChar reports whether c may appear in a name under Charset.
func IsLegalChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '?', c == '$':
		return true
	}
	return false
}

func legalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch {
		case IsLegalChar(c):
			b.WriteRune(c)
		case c == '.':
			b.WriteByte('_')
		default:
			b.WriteByte('$')
		}
	}
	return b.String()
}

// replaceSpace rewrites bytes <= ' ' to '_'. Other bytes, including
// invalid UTF-8, pass through so the length never changes.
func replaceSpace(s string) string {
	i := strings.IndexFunc(s, func(c rune) bool { return c <= ' ' })
	if i < 0 {
		return s
	}
	b := []byte(s)
	for ; i < len(b); i++ {
		if b[i] <= ' ' {
			b[i] = '_'
		}
	}
	return string(b)
}
