package alias

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/cellkit/cell"
	"github.com/joshuapare/cellkit/cell/strtab"
	"github.com/joshuapare/cellkit/pkg/types"
)

func h(s string) strtab.Handle { return strtab.Make(s) }

type deviceSet map[string]bool

func (d deviceSet) IsDeviceCell(name strtab.Handle) bool { return d[name.String()] }

func Test_Resolver_ExampleScenario(t *testing.T) {
	report := types.NewReport()
	r := New(Options{Policy: ToLower | Limit32 | Charset, Report: report})

	assert.Equal(t, "mycell", r.AliasString("MYCELL"))
	assert.Equal(t, "Weird_Name", r.AliasString("Weird.Name"))
	assert.Equal(t, "mycell$1", r.AliasString("mycell"))

	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Dirty())
	assert.Len(t, report.Filter(types.CatRename), 3)
}

func Test_Resolver_Idempotent(t *testing.T) {
	r := New(Options{Policy: ToLower | Charset})
	names := []string{"TOP", "a.b", "plain", "TOP", "x y", "plain", "a.b"}
	first := map[string]string{}
	for _, n := range names {
		got := r.AliasString(n)
		if prev, ok := first[n]; ok {
			assert.Equal(t, prev, got, "second query for %q", n)
		}
		first[n] = got
	}
}

func Test_Resolver_UnchangedNameRecordedInSeen(t *testing.T) {
	r := New(Options{Policy: ToLower})
	assert.Equal(t, "mixedCase", r.AliasString("mixedCase"))
	assert.Zero(t, r.Len())
	assert.False(t, r.Dirty())

	// a later name folding onto a seen name must not take it
	assert.Equal(t, "top", r.AliasString("top"))
	assert.Equal(t, "top$1", r.AliasString("TOP"))
}

func Test_Resolver_NeverRenamesDevices(t *testing.T) {
	devs := deviceSet{"NMOS": true, "res.1": true}
	r := New(Options{Policy: ToLower | Charset | Limit32, Devices: devs})

	assert.Equal(t, "NMOS", r.AliasString("NMOS"))
	assert.Equal(t, "res.1", r.AliasString("res.1"))
	assert.Equal(t, "NMOS", r.AliasString("NMOS"))

	// a device name is never handed out as a fresh alias either
	r2 := New(Options{Policy: ToUpper, Devices: deviceSet{"NMOS": true}})
	assert.Equal(t, "NMOS$1", r2.AliasString("nmos"))
}

func Test_Resolver_CaseFoldExclusivity(t *testing.T) {
	for _, p := range []Policy{ToLower, ToUpper} {
		r := New(Options{Policy: p})
		assert.Equal(t, "MixedCase", r.AliasString("MixedCase"), p.String())
	}

	r := New(Options{Policy: ToUpper})
	assert.Equal(t, "INV_X1", r.AliasString("inv_x1"))
	assert.Equal(t, "123", r.AliasString("123"), "no letters, nothing to fold")

	// both bits set: lower wins, upper is dropped
	both := New(Options{Policy: ToLower | ToUpper})
	assert.Equal(t, "abc", both.AliasString("ABC"))
	assert.Equal(t, "xyz", both.AliasString("xyz"))
}

func Test_Resolver_PrefixSuffix(t *testing.T) {
	r := New(Options{Policy: Prefix | Suffix, Prefix: "lib_", Suffix: "_v2"})
	assert.Equal(t, "lib_inv_v2", r.AliasString("inv"))

	// strings without the policy bits are ignored
	r = New(Options{Prefix: "lib_"})
	assert.Equal(t, "inv", r.AliasString("inv"))
}

func Test_Resolver_WhitespaceReplaced(t *testing.T) {
	r := New(Options{})
	assert.Equal(t, "my_cell_x", r.AliasString("my cell\tx"))

	keep := New(Options{Policy: KeepSpace})
	assert.Equal(t, "my cell", keep.AliasString("my cell"))
}

func Test_Resolver_LengthInvariant(t *testing.T) {
	r := New(Options{Policy: Limit32 | Prefix, Prefix: "PFX_"})
	long := strings.Repeat("a", 40)

	seenAliases := map[string]bool{}
	for i := range 50 {
		got := r.AliasString(fmt.Sprintf("%s%02d", long, i))
		assert.LessOrEqual(t, len(got), NameLimit, got)
		assert.False(t, seenAliases[got], "alias %q handed out twice", got)
		seenAliases[got] = true
	}

	// suffix overwrites the tail of a 32-byte base
	r = New(Options{Policy: Limit32})
	first := r.AliasString(long + "x")
	second := r.AliasString(long + "y")
	assert.Equal(t, strings.Repeat("a", 32), first)
	assert.Equal(t, strings.Repeat("a", 30)+"$1", second)
}

func Test_Resolver_LengthInvariantNonASCII(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"invalid utf8 after space", " " + strings.Repeat("a", 21) + strings.Repeat("\xff", 10), "_" + strings.Repeat("a", 21) + strings.Repeat("\xff", 10)},
		{"latin1 continuation bytes", strings.Repeat("\xb0", 40), strings.Repeat("\xb0", 32)},
		{"multibyte runes", strings.Repeat("é", 20), strings.Repeat("é", 16)},
		{"rune split at limit", "a" + strings.Repeat("é", 20), "a" + strings.Repeat("é", 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(Options{Policy: Limit32})
			got := r.AliasString(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
			assert.LessOrEqual(t, len(got), NameLimit)
		})
	}
}

func Test_Resolver_LengthInvariantRandomBytes(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for _, pol := range []Policy{Limit32, Limit32 | Charset, Limit32 | ToLower} {
		r := New(Options{Policy: pol})
		for range 200 {
			raw := make([]byte, 20+rng.IntN(30))
			for i := range raw {
				raw[i] = byte(rng.IntN(256))
			}
			got := r.AliasString(string(raw))
			assert.LessOrEqual(t, len(got), NameLimit, "%q -> %q", raw, got)
			assert.NotEmpty(t, got, "%q", raw)
		}
	}
}

func Test_Resolver_CharsetInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	alphabet := []rune("abcXYZ019._-+ /é\t?$")
	r := New(Options{Policy: Charset | Limit32})

	for range 500 {
		n := 1 + rng.IntN(40)
		var b strings.Builder
		for range n {
			b.WriteRune(alphabet[rng.IntN(len(alphabet))])
		}
		got := r.AliasString(b.String())
		assert.LessOrEqual(t, len(got), NameLimit)
		for _, c := range got {
			require.True(t, IsLegalChar(c), "alias %q of %q has %q", got, b.String(), c)
		}
	}
}

func Test_Resolver_Charset(t *testing.T) {
	r := New(Options{Policy: Charset})
	assert.Equal(t, "a_b$c$d", r.AliasString("a.b-c+d"))
	assert.Equal(t, "caf$", r.AliasString("café"))
}

func Test_Resolver_AliasCollisionForcesSuffix(t *testing.T) {
	r := New(Options{Policy: ToLower})
	require.Equal(t, "inv", r.AliasString("INV"))
	// "inv" is now someone else's alias, so the real "inv" must move
	assert.Equal(t, "inv$1", r.AliasString("inv"))
	// a folded name that lands on a minted alias gets its own suffix
	assert.Equal(t, "inv$1$1", r.AliasString("INV$1"))
}

func Test_Resolver_SetAlias(t *testing.T) {
	r := New(Options{})
	assert.True(t, r.SetAlias(h("a"), h("b")))
	assert.False(t, r.SetAlias(h("a"), h("c")), "name already bound")
	assert.False(t, r.SetAlias(h("z"), h("b")), "alias already bound")
	assert.Equal(t, "b", r.AliasString("a"))
	assert.True(t, r.Dirty())

	n, ok := r.Unalias(h("b"))
	require.True(t, ok)
	assert.Equal(t, "a", n.String())
}

func Test_Resolver_Frozen(t *testing.T) {
	r := New(Options{Policy: ToLower})
	require.Equal(t, "top", r.AliasString("TOP"))

	r.SetFrozen()
	assert.True(t, r.Frozen())
	assert.Equal(t, "top", r.AliasString("TOP"), "existing bindings survive")
	assert.Equal(t, "NEW", r.AliasString("NEW"), "no minting after freeze")
	assert.False(t, r.SetAlias(h("x"), h("y")))

	w, ok := r.Written(h("TOP"))
	require.True(t, ok)
	assert.Equal(t, "top", w.String())

	r.Reinit(strtab.Handle{})
	assert.Equal(t, 1, r.Len(), "reinit ignored when frozen")
}

func Test_Resolver_ReinitAccumulates(t *testing.T) {
	r := New(Options{Policy: ToLower})

	// file 1
	require.Equal(t, "cell_a", r.AliasString("cell_a"))
	require.Equal(t, "top", r.AliasString("TOP"))

	r.Reinit(strtab.Handle{})
	assert.Zero(t, r.Len())

	// file 2: both the untouched name and the minted alias are reserved
	assert.Equal(t, "cell_a$1", r.AliasString("cell_a"))
	assert.Equal(t, "top$1", r.AliasString("top"))
	assert.Equal(t, "fresh", r.AliasString("fresh"))
}

func Test_Resolver_ReinitCarryOver(t *testing.T) {
	r := New(Options{})
	require.Equal(t, "sub", r.AliasString("sub"))
	require.Equal(t, "top", r.AliasString("top"))

	r.Reinit(h("top"))
	assert.Equal(t, "top", r.AliasString("top"), "carried name does not block itself")
	assert.Equal(t, "sub$1", r.AliasString("sub"))
}

func Test_Resolver_AutoRenameLiveCells(t *testing.T) {
	db := cell.NewDatabase()
	db.AddNamed("inv", cell.Physical)
	db.AddNamed("inv$1", cell.Electrical)

	r := New(Options{Policy: AutoRename, Database: db})
	assert.Equal(t, "inv$2", r.AliasString("inv"), "live in both views is skipped")
	assert.Equal(t, "nand", r.AliasString("nand"))

	// without AutoRename the live cell is simply overwritten
	plain := New(Options{Database: db})
	assert.Equal(t, "inv", plain.AliasString("inv"))
}

func Test_Resolver_LiveDeviceNotShadowed(t *testing.T) {
	db := cell.NewDatabase()
	db.AddNamed("pmos", cell.Electrical).SetDevice(true)
	db.AddNamed("nand", cell.Physical)

	r := New(Options{Policy: ToLower, Database: db})
	assert.Equal(t, "pmos$1", r.AliasString("PMOS"), "device cell cannot be shadowed")
	assert.Equal(t, "nand", r.AliasString("NAND"), "ordinary live cell can be")
}

func Test_Resolver_GlobalPool(t *testing.T) {
	cfg := Config{Policy: "lower", GlobalNames: true}
	opts, err := cfg.Options()
	require.NoError(t, err)

	r := New(opts)
	got := r.AliasString("ALIAS_POOL_GLOBAL_TEST")
	_, ok := strtab.Find(got)
	assert.True(t, ok, "global pool registers minted aliases")
}
