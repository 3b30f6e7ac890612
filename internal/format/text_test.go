package format

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_DecodeText_UTF8PassThrough(t *testing.T) {
	in := []byte("Reference caf\xc3\xa9 lib.gds\n")
	out, err := DecodeText(in)
	require.NoError(t, err)
	require.Equal(t, "Reference café lib.gds\n", string(out))
}

func Test_DecodeText_StripsBOM(t *testing.T) {
	out, err := DecodeText([]byte("\xEF\xBB\xBFtop cell"))
	require.NoError(t, err)
	require.Equal(t, "top cell", string(out))
}

func Test_DecodeText_Windows1252Fallback(t *testing.T) {
	// 0xE9 is é in Windows-1252 and invalid as a lone UTF-8 byte.
	out, err := DecodeText([]byte("caf\xe9"))
	require.NoError(t, err)
	require.Equal(t, "café", string(out))
}

func Test_NewTextReader(t *testing.T) {
	r, err := NewTextReader(bytes.NewReader([]byte("na\xefve")))
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "naïve", string(out))
}
