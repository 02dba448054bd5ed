package genesis

import (
	"errors"
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"

	"github.com/rony4d/go-opera-genesis/inter"
	"github.com/rony4d/go-opera-genesis/inter/address"
	"github.com/rony4d/go-opera-genesis/inter/coin"
	"github.com/rony4d/go-opera-genesis/inter/stakepk"
	"github.com/rony4d/go-opera-genesis/inter/vss"
	"github.com/rony4d/go-opera-genesis/utils/cser"
)

// ArtifactVersion is the first byte of every encoded artifact.
const ArtifactVersion uint8 = 1

// MaxStakeholders bounds collection sizes accepted by the decoder.
const MaxStakeholders = 1 << 24

const maxSigningKeySize = 128

var (
	ErrUnknownVersion      = errors.New("unknown genesis artifact version")
	ErrUnknownDistribution = errors.New("unknown stake distribution kind")
)

// Codec turns Data into bytes and back.
type Codec interface {
	Marshal(g *Data) ([]byte, error)
	Unmarshal(raw []byte) (*Data, error)
}

// CserCodec is the canonical artifact encoding. Maps are written in
// address.Less order and the decoder rejects any other order, so equal values
// always produce equal bytes.
type CserCodec struct{}

// DefaultCodec is used when a Persister has no codec set.
var DefaultCodec Codec = CserCodec{}

func (CserCodec) Marshal(g *Data) ([]byte, error) {
	return g.MarshalBinary()
}

func (CserCodec) Unmarshal(raw []byte) (*Data, error) {
	g := &Data{}
	if err := g.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return g, nil
}

// Decode reads an artifact with the canonical codec.
func Decode(raw []byte) (*Data, error) {
	return DefaultCodec.Unmarshal(raw)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (g *Data) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(g.MarshalCSER)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (g *Data) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, g.UnmarshalCSER)
}

func (g *Data) MarshalCSER(w *cser.Writer) error {
	if len(g.Network.Name) > MaxNetworkNameLen {
		return fmt.Errorf("network name longer than %d bytes", MaxNetworkNameLen)
	}
	w.U8(ArtifactVersion)
	w.SliceBytes([]byte(g.Network.Name))
	w.U64(g.Network.NetworkID)
	w.U64(uint64(g.Network.StartTime))

	w.U56(uint64(len(g.Addresses)))
	for _, a := range g.Addresses {
		w.FixedBytes(a.Bytes())
	}

	switch d := g.Distribution.(type) {
	case nil:
		w.U8(uint8(ExplicitKind))
		w.U56(0)
	case ExplicitStakes:
		w.U8(uint8(ExplicitKind))
		w.U56(uint64(len(d)))
		for _, a := range d.Sorted() {
			w.FixedBytes(a.Bytes())
			w.U64(uint64(d[a]))
		}
	case RichPoor:
		w.U8(uint8(RichPoorKind))
		w.U32(d.Richmen)
		w.U32(d.Poor)
		w.U64(uint64(d.TotalStake))
		w.U32(d.RichmenShareBps)
		w.U8(uint8(d.Remainder))
	default:
		return fmt.Errorf("%w: %T", ErrUnknownDistribution, d)
	}

	certAddrs := make([]address.Address, 0, len(g.VssCertificates))
	for a := range g.VssCertificates {
		certAddrs = append(certAddrs, a)
	}
	address.Sort(certAddrs)
	w.U56(uint64(len(certAddrs)))
	for _, a := range certAddrs {
		c := g.VssCertificates[a]
		if len(c.VssKey) != vss.VssKeySize || len(c.Signature) != vss.SignatureSize {
			return fmt.Errorf("vss certificate of %s is malformed", a)
		}
		w.FixedBytes(a.Bytes())
		w.FixedBytes(c.VssKey)
		w.U32(uint32(c.ExpiryEpoch))
		w.FixedBytes(c.Signature)
		w.SliceBytes(c.SigningKey.Bytes())
	}
	return nil
}

func readAddress(r *cser.Reader) (address.Address, error) {
	var buf [address.Size]byte
	r.FixedBytes(buf[:])
	return address.FromBytes(buf[:])
}

func (g *Data) UnmarshalCSER(r *cser.Reader) error {
	if v := r.U8(); v != ArtifactVersion {
		return fmt.Errorf("%w: %d", ErrUnknownVersion, v)
	}
	g.Network.Name = string(r.SliceBytes(MaxNetworkNameLen))
	g.Network.NetworkID = r.U64()
	g.Network.StartTime = inter.Timestamp(r.U64())

	n := r.Elements(MaxStakeholders, address.Size)
	g.Addresses = make([]address.Address, n)
	for i := range g.Addresses {
		a, err := readAddress(r)
		if err != nil {
			return err
		}
		g.Addresses[i] = a
	}

	switch kind := DistributionKind(r.U8()); kind {
	case ExplicitKind:
		n := r.Elements(MaxStakeholders, address.Size)
		stakes := make(ExplicitStakes, n)
		var prev address.Address
		for i := 0; i < n; i++ {
			a, err := readAddress(r)
			if err != nil {
				return err
			}
			if i > 0 && !prev.Less(a) {
				return cser.ErrNonCanonicalEncoding
			}
			stakes[a] = coin.Coin(r.U64())
			prev = a
		}
		g.Distribution = stakes
	case RichPoorKind:
		g.Distribution = RichPoor{
			Richmen:         r.U32(),
			Poor:            r.U32(),
			TotalStake:      coin.Coin(r.U64()),
			RichmenShareBps: r.U32(),
			Remainder:       RemainderPolicy(r.U8()),
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownDistribution, kind)
	}

	n = r.Elements(MaxStakeholders, address.Size)
	if n == 0 {
		g.VssCertificates = nil
		return nil
	}
	g.VssCertificates = make(map[address.Address]vss.Certificate, n)
	var prev address.Address
	for i := 0; i < n; i++ {
		a, err := readAddress(r)
		if err != nil {
			return err
		}
		if i > 0 && !prev.Less(a) {
			return cser.ErrNonCanonicalEncoding
		}
		c := vss.Certificate{
			VssKey:    make([]byte, vss.VssKeySize),
			Signature: make([]byte, vss.SignatureSize),
		}
		r.FixedBytes(c.VssKey)
		c.ExpiryEpoch = idx.Epoch(r.U32())
		r.FixedBytes(c.Signature)
		if c.SigningKey, err = stakepk.FromBytes(r.SliceBytes(maxSigningKeySize)); err != nil {
			return err
		}
		g.VssCertificates[a] = c
		prev = a
	}
	return nil
}
