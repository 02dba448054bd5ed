package cser

import (
	"github.com/rony4d/go-opera-genesis/utils/bits"
	"github.com/rony4d/go-opera-genesis/utils/fast"
)

// Layout of a packed message:
//
//	[ body bytes ][ bit stream bytes ][ reversed varint(len(bit stream)) ]
//
// The length suffix is stored back to front so a reader can find it by
// scanning from the end of the buffer.

// MarshalBinaryAdapter runs marshalCser against a fresh Writer and packs both
// streams into one buffer.
func MarshalBinaryAdapter(marshalCser func(*Writer) error) ([]byte, error) {
	w := NewWriter()
	if err := marshalCser(w); err != nil {
		return nil, err
	}
	return binaryFromCSER(w.BitsW.Array, w.BytesW.Bytes())
}

func binaryFromCSER(bbits *bits.Array, bbytes []byte) ([]byte, error) {
	body := fast.NewWriter(bbytes)
	body.Write(bbits.Bytes)

	size := fast.NewWriter(make([]byte, 0, 4))
	writeUint64Compact(size, uint64(len(bbits.Bytes)))
	body.Write(reversed(size.Bytes()))
	return body.Bytes(), nil
}

func binaryToCSER(raw []byte) (bbits *bits.Array, bbytes []byte, err error) {
	sizeReader := fast.NewReader(reversed(tail(raw, 9)))
	bitsSize := readUint64Compact(sizeReader)

	raw = raw[:len(raw)-sizeReader.Position()]
	if uint64(len(raw)) < bitsSize {
		return nil, nil, ErrMalformedEncoding
	}
	split := uint64(len(raw)) - bitsSize
	return &bits.Array{Bytes: raw[split:]}, raw[:split], nil
}

// UnmarshalBinaryAdapter splits raw into its streams and runs unmarshalCser.
// Decoding is strict: the callback must consume every byte and every non-zero
// bit, otherwise ErrNonCanonicalEncoding is returned. Panics raised by reads
// past the end of a stream surface as ErrMalformedEncoding.
func UnmarshalBinaryAdapter(raw []byte, unmarshalCser func(reader *Reader) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && (e == ErrNonCanonicalEncoding || e == ErrTooLargeAlloc) {
				err = e
				return
			}
			err = ErrMalformedEncoding
		}
	}()

	bbits, bbytes, err := binaryToCSER(raw)
	if err != nil {
		return err
	}
	r := &Reader{
		BitsR:  bits.NewReader(bbits),
		BytesR: fast.NewReader(bbytes),
	}
	if err := unmarshalCser(r); err != nil {
		return err
	}

	if r.BitsR.NonReadBytes() > 1 {
		return ErrNonCanonicalEncoding
	}
	if r.BitsR.Read(r.BitsR.NonReadBits()) != 0 {
		return ErrNonCanonicalEncoding
	}
	if !r.BytesR.Empty() {
		return ErrNonCanonicalEncoding
	}
	return nil
}

func tail(b []byte, n int) []byte {
	if len(b) > n {
		return b[len(b)-n:]
	}
	return b
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
