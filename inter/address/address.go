// Package address defines stakeholder addresses.
//
// An address is a kind tag plus a 20-byte hash. Ordinary addresses hash a
// secp256k1 public key the way Ethereum does; redeem addresses hash an AVVM
// voucher key under a separate domain tag, so a voucher key can never collide
// with, or be spent as, an ordinary key address before it is redeemed.
package address

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rony4d/go-opera-genesis/inter/stakepk"
)

// Kind tells how the address hash was derived.
type Kind uint8

const (
	PubKey Kind = 0
	Redeem Kind = 2
)

// Size is the length of the flat form: kind byte plus hash.
const Size = 1 + common.AddressLength

var redeemDomain = []byte("opera-genesis/redeem")

// Address identifies a stakeholder. It is comparable and used as a map key.
type Address struct {
	Kind Kind
	Hash common.Address
}

// FromECDSA derives the ordinary address of a signing key.
func FromECDSA(pub ecdsa.PublicKey) Address {
	return Address{Kind: PubKey, Hash: crypto.PubkeyToAddress(pub)}
}

// FromRedeemKey derives the redeem address of a voucher key.
func FromRedeemKey(pub ed25519.PublicKey) Address {
	h := crypto.Keccak256(redeemDomain, pub)
	return Address{Kind: Redeem, Hash: common.BytesToAddress(h[12:])}
}

// FromPubKey picks the derivation matching the key type.
func FromPubKey(pk stakepk.PubKey) (Address, error) {
	switch pk.Type {
	case stakepk.Types.Secp256k1:
		pub, err := pk.ECDSA()
		if err != nil {
			return Address{}, err
		}
		return FromECDSA(*pub), nil
	case stakepk.Types.Ed25519:
		pub, err := pk.Ed25519()
		if err != nil {
			return Address{}, err
		}
		return FromRedeemKey(pub), nil
	}
	return Address{}, fmt.Errorf("unknown pubkey type %#x", pk.Type)
}

// FromBytes parses the flat form.
func FromBytes(b []byte) (Address, error) {
	if len(b) != Size {
		return Address{}, fmt.Errorf("address must be %d bytes, got %d", Size, len(b))
	}
	a := Address{Kind: Kind(b[0]), Hash: common.BytesToAddress(b[1:])}
	if !a.Kind.Valid() {
		return Address{}, fmt.Errorf("unknown address kind %d", b[0])
	}
	return a, nil
}

// FromString parses the hex form produced by String.
func FromString(s string) (Address, error) {
	return FromBytes(common.FromHex(s))
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == PubKey || k == Redeem
}

func (k Kind) String() string {
	switch k {
	case PubKey:
		return "pubkey"
	case Redeem:
		return "redeem"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Bytes returns the kind byte followed by the hash.
func (a Address) Bytes() []byte {
	return append([]byte{byte(a.Kind)}, a.Hash.Bytes()...)
}

func (a Address) String() string {
	return "0x" + common.Bytes2Hex(a.Bytes())
}

// Less is the canonical order: kind first, then hash bytes.
func (a Address) Less(b Address) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return bytes.Compare(a.Hash[:], b.Hash[:]) < 0
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(input []byte) error {
	res, err := FromString(string(input))
	if err != nil {
		return err
	}
	*a = res
	return nil
}

// Sort orders addrs canonically in place.
func Sort(addrs []Address) {
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Less(addrs[j]) })
}
