package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/stata/errs"
	"github.com/arloliu/stata/internal/byteio"
)

func writeGSO118(t *testing.T, w *byteio.Writer, v uint32, o uint64, flag uint8, payload []byte) {
	t.Helper()
	require.NoError(t, w.Literal(TagGSO))
	require.NoError(t, w.Uint32(v))
	require.NoError(t, w.Uint64(o))
	require.NoError(t, w.Uint8(flag))
	require.NoError(t, w.Uint32(uint32(len(payload))))
	require.NoError(t, w.Bytes(payload))
}

func TestReadStrls_Release118(t *testing.T) {
	f := tempFile(t)
	w := byteio.NewWriter(f)

	require.NoError(t, w.Literal(TagStrlsOpen))
	writeGSO118(t, w, 2, 1, StrlFlagText, []byte("hello\x00"))
	writeGSO118(t, w, 2, 2, StrlFlagBinary, []byte{0x01, 0x00, 0x02})
	require.NoError(t, w.Literal(TagStrlsClose))

	r := byteio.NewReader(f)
	require.NoError(t, r.Seek(0))
	heap, err := ReadStrls(r, Release118)
	require.NoError(t, err)

	require.Len(t, heap, 2)
	require.Equal(t, "hello", heap[StrlRef{V: 2, O: 1}])
	// Binary payloads survive verbatim, embedded nulls included.
	require.Equal(t, "\x01\x00\x02", heap[StrlRef{V: 2, O: 2}])
}

func TestReadStrls_Release117(t *testing.T) {
	f := tempFile(t)
	w := byteio.NewWriter(f)

	require.NoError(t, w.Literal(TagStrlsOpen))
	require.NoError(t, w.Literal(TagGSO))
	require.NoError(t, w.Uint32(4)) // v
	require.NoError(t, w.Uint32(7)) // o is 32-bit in release 117
	require.NoError(t, w.Uint8(StrlFlagText))
	require.NoError(t, w.Uint32(3))
	require.NoError(t, w.Bytes([]byte("ok\x00")))
	require.NoError(t, w.Literal(TagStrlsClose))

	r := byteio.NewReader(f)
	require.NoError(t, r.Seek(0))
	heap, err := ReadStrls(r, Release117)
	require.NoError(t, err)
	require.Equal(t, "ok", heap[StrlRef{V: 4, O: 7}])
}

func TestReadStrls_BadFlag(t *testing.T) {
	f := tempFile(t)
	w := byteio.NewWriter(f)

	require.NoError(t, w.Literal(TagStrlsOpen))
	writeGSO118(t, w, 1, 1, 17, []byte("x"))
	require.NoError(t, w.Literal(TagStrlsClose))

	r := byteio.NewReader(f)
	require.NoError(t, r.Seek(0))
	_, err := ReadStrls(r, Release118)
	require.ErrorIs(t, err, errs.ErrInvalidStrlFlag)
}

func TestWriteEmptyStrls(t *testing.T) {
	f := tempFile(t)
	w := byteio.NewWriter(f)
	require.NoError(t, WriteEmptyStrls(w))

	r := byteio.NewReader(f)
	require.NoError(t, r.Seek(0))
	heap, err := ReadStrls(r, Release118)
	require.NoError(t, err)
	require.Empty(t, heap)
}

func TestStrlRef_IsMissing(t *testing.T) {
	require.True(t, StrlRef{}.IsMissing())
	require.False(t, StrlRef{V: 1}.IsMissing())
	require.False(t, StrlRef{O: 1}.IsMissing())
}
