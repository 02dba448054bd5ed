// Package bits implements an LSB-first bit stream. The canonical genesis codec
// keeps flags and integer length prefixes here, separate from the byte stream,
// so small values cost a few bits instead of a whole byte.
package bits

type (
	// Array holds the bytes of a bit stream.
	Array struct {
		Bytes []byte
	}

	// Writer appends bit groups to an Array.
	Writer struct {
		*Array
		bitOffset int // next free bit in the last byte, 0 means a new byte is needed
	}

	// Reader consumes bit groups from an Array.
	Reader struct {
		*Array
		byteOffset int
		bitOffset  int
	}
)

// NewWriter returns a Writer appending to arr.
func NewWriter(arr *Array) *Writer {
	return &Writer{Array: arr}
}

// NewReader returns a Reader positioned at the first bit of arr.
func NewReader(arr *Array) *Reader {
	return &Reader{Array: arr}
}

func lowBits(v uint, n int) uint {
	return v & (1<<uint(n) - 1)
}

// Write appends the lowest `bits` bits of v. Higher bits of v are ignored.
func (a *Writer) Write(bits int, v uint) {
	for bits > 0 {
		if a.bitOffset == 0 {
			a.Bytes = append(a.Bytes, 0)
		}
		n := 8 - a.bitOffset
		if bits < n {
			n = bits
		}
		a.Bytes[len(a.Bytes)-1] |= byte(lowBits(v, n) << uint(a.bitOffset))
		a.bitOffset = (a.bitOffset + n) % 8
		v >>= uint(n)
		bits -= n
	}
}

// Read consumes `bits` bits and returns them as an integer. It panics when the
// stream is exhausted.
func (a *Reader) Read(bits int) (v uint) {
	shift := 0
	for bits > 0 {
		n := 8 - a.bitOffset
		if bits < n {
			n = bits
		}
		chunk := lowBits(uint(a.Bytes[a.byteOffset])>>uint(a.bitOffset), n)
		v |= chunk << uint(shift)
		shift += n
		bits -= n
		a.bitOffset += n
		if a.bitOffset == 8 {
			a.bitOffset = 0
			a.byteOffset++
		}
	}
	return v
}

// View returns the next `bits` bits without consuming them.
func (a *Reader) View(bits int) uint {
	cp := *a
	return cp.Read(bits)
}

// NonReadBytes is the number of bytes not fully consumed, counting a partly
// read byte.
func (a *Reader) NonReadBytes() int {
	return len(a.Bytes) - a.byteOffset
}

// NonReadBits is the number of unread bits left in the stream.
func (a *Reader) NonReadBits() int {
	return a.NonReadBytes()*8 - a.bitOffset
}
