// Package cser is the canonical serialization used for the genesis artifact.
//
// Every value has exactly one valid encoding. Integers store their byte length
// in the bit stream and their minimal little-endian bytes in the byte stream;
// booleans are single bits. Readers reject padded integers, oversize slices and
// leftover data, which is what lets the genesis writer trust a round trip.
package cser

import (
	"errors"

	"github.com/rony4d/go-opera-genesis/utils/bits"
	"github.com/rony4d/go-opera-genesis/utils/fast"
)

var (
	ErrNonCanonicalEncoding = errors.New("non canonical encoding")
	ErrMalformedEncoding    = errors.New("malformed encoding")
	ErrTooLargeAlloc        = errors.New("too large allocation")
)

// MaxAlloc is the default upper bound for SliceBytes.
const MaxAlloc = 100 * 1024

// Writer writes to the bit stream and the byte stream of one message.
type Writer struct {
	BitsW  *bits.Writer
	BytesW *fast.Writer
}

// Reader reads the two streams of one message.
type Reader struct {
	BitsR  *bits.Reader
	BytesR *fast.Reader
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{
		BitsW:  bits.NewWriter(&bits.Array{Bytes: make([]byte, 0, 32)}),
		BytesW: fast.NewWriter(make([]byte, 0, 256)),
	}
}

// writeUint64Compact writes v in 7-bit groups; a set high bit marks the last group.
func writeUint64Compact(w *fast.Writer, v uint64) {
	for {
		chunk := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			w.WriteByte(chunk | 0x80)
			return
		}
		w.WriteByte(chunk)
	}
}

func readUint64Compact(r *fast.Reader) uint64 {
	var v uint64
	for i := 0; ; i++ {
		chunk := r.ReadByte()
		word := uint64(chunk & 0x7f)
		v |= word << uint(7*i)
		if chunk&0x80 != 0 {
			if i > 0 && word == 0 {
				panic(ErrNonCanonicalEncoding)
			}
			return v
		}
	}
}

func writeUint64BitCompact(w *fast.Writer, v uint64, minSize int) (size int) {
	for size < minSize || v != 0 {
		w.WriteByte(byte(v))
		size++
		v >>= 8
	}
	return size
}

func readUint64BitCompact(r *fast.Reader, size int) uint64 {
	buf := r.Read(size)
	var v uint64
	for i, b := range buf {
		v |= uint64(b) << uint(8*i)
	}
	if size > 1 && buf[size-1] == 0 {
		panic(ErrNonCanonicalEncoding)
	}
	return v
}

func (w *Writer) writeU64Bits(minSize, bitsForSize int, v uint64) {
	size := writeUint64BitCompact(w.BytesW, v, minSize)
	w.BitsW.Write(bitsForSize, uint(size-minSize))
}

func (r *Reader) readU64Bits(minSize, bitsForSize int) uint64 {
	size := int(r.BitsR.Read(bitsForSize)) + minSize
	return readUint64BitCompact(r.BytesR, size)
}

// U8 is written as a raw byte.
func (w *Writer) U8(v uint8) { w.BytesW.WriteByte(v) }

// U8 reads a raw byte.
func (r *Reader) U8() uint8 { return r.BytesR.ReadByte() }

// U32 uses 2 length bits and 1..4 bytes.
func (w *Writer) U32(v uint32) { w.writeU64Bits(1, 2, uint64(v)) }

// U32 reads a value written by Writer.U32.
func (r *Reader) U32() uint32 { return uint32(r.readU64Bits(1, 2)) }

// U64 uses 3 length bits and 1..8 bytes.
func (w *Writer) U64(v uint64) { w.writeU64Bits(1, 3, v) }

// U64 reads a value written by Writer.U64.
func (r *Reader) U64() uint64 { return r.readU64Bits(1, 3) }

// U56 is meant for lengths and counts: 3 length bits and 0..7 bytes, so zero
// costs no body bytes at all.
func (w *Writer) U56(v uint64) {
	const max = 1<<(8*7) - 1
	if v > max {
		panic("cser: value does not fit into 56 bits")
	}
	w.writeU64Bits(0, 3, v)
}

// U56 reads a value written by Writer.U56.
func (r *Reader) U56() uint64 { return r.readU64Bits(0, 3) }

// Bool is a single bit.
func (w *Writer) Bool(v bool) {
	var b uint
	if v {
		b = 1
	}
	w.BitsW.Write(1, b)
}

// Bool reads a single bit.
func (r *Reader) Bool() bool { return r.BitsR.Read(1) != 0 }

// FixedBytes writes v without a length prefix.
func (w *Writer) FixedBytes(v []byte) { w.BytesW.Write(v) }

// FixedBytes fills v from the byte stream.
func (r *Reader) FixedBytes(v []byte) { copy(v, r.BytesR.Read(len(v))) }

// SliceBytes writes a U56 length followed by v.
func (w *Writer) SliceBytes(v []byte) {
	w.U56(uint64(len(v)))
	w.FixedBytes(v)
}

// SliceBytes reads a length-prefixed slice no longer than maxLen.
func (r *Reader) SliceBytes(maxLen int) []byte {
	size := r.U56()
	if size > uint64(maxLen) {
		panic(ErrTooLargeAlloc)
	}
	if size > uint64(r.BytesR.Remaining()) {
		panic(ErrMalformedEncoding)
	}
	buf := make([]byte, size)
	r.FixedBytes(buf)
	return buf
}

// Count reads a U56 element count and rejects counts above max. Decoders call
// it before allocating collections.
func (r *Reader) Count(max int) int {
	n := r.U56()
	if n > uint64(max) {
		panic(ErrTooLargeAlloc)
	}
	return int(n)
}

// Elements is Count for a collection whose elements take at least minSize
// bytes of the byte stream each. A count the remaining bytes cannot hold is
// malformed and is rejected before the caller allocates anything.
func (r *Reader) Elements(max, minSize int) int {
	n := r.Count(max)
	if minSize > 0 && n > r.BytesR.Remaining()/minSize {
		panic(ErrMalformedEncoding)
	}
	return n
}
