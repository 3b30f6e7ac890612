package alias

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/cellkit/pkg/types"
)

func Test_Resolver_FileRoundTrip(t *testing.T) {
	for _, mode := range []Mode{ModeInput, ModeOutput} {
		t.Run(mode.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "chip.alias")

			w := New(Options{Policy: ToLower | Charset | WriteFile, Mode: mode})
			w.AliasString("MYCELL")
			w.AliasString("Weird.Name")
			w.AliasString("mycell")
			w.AliasString("untouched")
			require.True(t, w.Dirty())
			require.NoError(t, w.WriteFile(path))
			assert.False(t, w.Dirty())

			rd := New(Options{Policy: ReadFile, Mode: mode})
			require.NoError(t, rd.ReadFile(path))
			assert.Equal(t, w.Bindings(), rd.Bindings())
			assert.Equal(t, "mycell", rd.AliasString("MYCELL"))
			assert.Equal(t, "mycell$1", rd.AliasString("mycell"))
			assert.False(t, rd.Dirty(), "reading does not dirty")
		})
	}
}

func Test_Resolver_WriteColumnOrder(t *testing.T) {
	out := New(Options{Policy: ToLower, Mode: ModeOutput})
	out.AliasString("TOP")
	var b strings.Builder
	require.NoError(t, out.Write(&b))
	assert.Equal(t, []string{"top", "TOP"}, strings.Fields(b.String()), "output mode is alias first")

	in := New(Options{Policy: ToLower, Mode: ModeInput})
	in.AliasString("TOP")
	b.Reset()
	require.NoError(t, in.Write(&b))
	assert.Equal(t, []string{"TOP", "top"}, strings.Fields(b.String()), "input mode is name first")
}

func Test_Resolver_ReadPermissive(t *testing.T) {
	r := New(Options{Policy: ReadFile, Mode: ModeInput})
	src := strings.Join([]string{
		"a   x",
		"",
		"only-one-field",
		"too many fields here",
		"b y",
		"a z",   // name already bound
		"c x",   // alias already bound
		"\tdd\tww  ",
	}, "\n")

	n, err := r.Read(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "x", r.AliasString("a"))
	assert.Equal(t, "y", r.AliasString("b"))
	assert.Equal(t, "ww", r.AliasString("dd"))
	assert.Equal(t, "c", r.AliasString("c"))
}

func Test_Resolver_ReadFileOpportunistic(t *testing.T) {
	r := New(Options{Policy: ReadFile})
	assert.NoError(t, r.ReadFile(filepath.Join(t.TempDir(), "missing.alias")))
	assert.Zero(t, r.Len())
}

func Test_Resolver_ReadFileNeedsPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.alias")
	require.NoError(t, os.WriteFile(path, []byte("a b\n"), 0o644))

	r := New(Options{})
	require.NoError(t, r.ReadFile(path))
	assert.Zero(t, r.Len())

	frozen := New(Options{Policy: ReadFile})
	frozen.SetFrozen()
	require.NoError(t, frozen.ReadFile(path))
	assert.Zero(t, frozen.Len())
}

func Test_Resolver_WriteFileNoOps(t *testing.T) {
	dir := t.TempDir()

	clean := New(Options{Policy: WriteFile})
	require.NoError(t, clean.WriteFile(filepath.Join(dir, "clean.alias")))
	_, err := os.Stat(filepath.Join(dir, "clean.alias"))
	assert.True(t, os.IsNotExist(err), "not dirty, nothing written")

	noPolicy := New(Options{Policy: ToLower})
	noPolicy.AliasString("TOP")
	require.NoError(t, noPolicy.WriteFile(filepath.Join(dir, "nopolicy.alias")))
	_, err = os.Stat(filepath.Join(dir, "nopolicy.alias"))
	assert.True(t, os.IsNotExist(err), "write policy off, nothing written")
}

func Test_Resolver_WriteFileFailureStaysDirty(t *testing.T) {
	report := types.NewReport()
	r := New(Options{Policy: ToLower | WriteFile, Report: report})
	r.AliasString("TOP")

	bad := filepath.Join(t.TempDir(), "missing-dir", "x.alias")
	require.Error(t, r.WriteFile(bad))
	assert.True(t, r.Dirty())
	assert.True(t, report.HasErrors())

	good := filepath.Join(t.TempDir(), "x.alias")
	require.NoError(t, r.WriteFile(good))
	assert.False(t, r.Dirty())
}

func Test_Resolver_ReadLatin1(t *testing.T) {
	r := New(Options{Policy: ReadFile, Mode: ModeInput})
	n, err := r.Read(strings.NewReader("caf\xe9 cafe\n"))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, "cafe", r.AliasString("café"))
}

func Test_DefaultFileName(t *testing.T) {
	assert.Equal(t, "/data/chip.alias", DefaultFileName("/data/chip.gds"))
	assert.Equal(t, "top.alias", DefaultFileName("top"))
}
