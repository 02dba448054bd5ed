package fast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuffer_WriteThenRead(t *testing.T) {
	require := require.New(t)

	w := NewWriter(make([]byte, 0, 4))
	for i := byte(0); i < 10; i++ {
		w.WriteByte(i)
	}
	w.Write([]byte{0xaa, 0xbb, 0xcc})
	require.Equal(13, w.Len())

	r := NewReader(w.Bytes())
	require.False(r.Empty())
	require.Equal(13, r.Remaining())
	for exp := byte(0); exp < 10; exp++ {
		require.Equal(exp, r.ReadByte())
	}
	require.Equal(10, r.Position())
	require.Equal([]byte{0xaa, 0xbb, 0xcc}, r.Read(3))
	require.True(r.Empty())
	require.Equal(0, r.Remaining())
}

func TestReader_PanicsPastEnd(t *testing.T) {
	r := NewReader([]byte{1})
	r.ReadByte()
	require.Panics(t, func() { r.ReadByte() })
	require.Panics(t, func() { r.Read(2) })
}

func TestReader_ReadAliasesBuffer(t *testing.T) {
	src := []byte{1, 2, 3}
	r := NewReader(src)
	got := r.Read(2)
	got[0] = 9
	require.Equal(t, byte(9), src[0])
}
