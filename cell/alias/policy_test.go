package alias

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/cellkit/cell/namepool"
)

func Test_ParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
	}{
		{"", 0},
		{"none", 0},
		{"lower,limit32,charset", ToLower | Limit32 | Charset},
		{"tolower gds_check limit", ToLower | Charset | Limit32},
		{"UPPER|auto-rename", ToUpper | AutoRename},
		{"rw", ReadFile | WriteFile},
		{"prefix, suffix, keep-space", Prefix | Suffix | KeepSpace},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_ParsePolicy_Errors(t *testing.T) {
	_, err := ParsePolicy("lower,bogus")
	require.ErrorIs(t, err, ErrUnknownPolicy)

	_, err = ParsePolicy("lower,upper")
	require.ErrorIs(t, err, ErrConflictingCase)
}

func Test_Policy_StringRoundTrip(t *testing.T) {
	p := ToLower | Charset | Limit32 | WriteFile
	assert.Equal(t, "lower,write,charset,limit32", p.String())

	back, err := ParsePolicy(p.String())
	require.NoError(t, err)
	assert.Equal(t, p, back)
	assert.Equal(t, "none", Policy(0).String())
}

func Test_ParseMode(t *testing.T) {
	m, err := ParseMode("out")
	require.NoError(t, err)
	assert.Equal(t, ModeOutput, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeInput, m)

	_, err = ParseMode("sideways")
	require.ErrorIs(t, err, ErrUnknownMode)
}

func Test_LoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alias.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
policy: lower,limit32,charset,write
prefix: "x_"
mode: output
file: chip.alias
global_names: true
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "chip.alias", cfg.File)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, ToLower|Limit32|Charset|WriteFile|Prefix, opts.Policy)
	assert.Equal(t, "x_", opts.Prefix)
	assert.Equal(t, ModeOutput, opts.Mode)
	assert.Equal(t, namepool.Global, opts.Pool)
}

func Test_LoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("policy: [unclosed"), 0o644))
	_, err = LoadConfig(bad)
	require.Error(t, err)

	_, err = (&Config{Policy: "nope"}).Options()
	require.ErrorIs(t, err, ErrUnknownPolicy)
	_, err = (&Config{Mode: "nope"}).Options()
	require.ErrorIs(t, err, ErrUnknownMode)
}
