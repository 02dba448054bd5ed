// Package stakepk provides the typed public key of a stakeholder. The type
// byte tells signing keys (secp256k1) apart from voucher redemption keys
// (ed25519), so both can travel through the same artifact fields.
package stakepk

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// PubKey is a public key tagged with its scheme.
type PubKey struct {
	Type uint8
	Raw  []byte
}

// Types lists the supported schemes.
var Types = struct {
	Secp256k1 uint8
	Ed25519   uint8
}{
	Secp256k1: 0xc0,
	Ed25519:   0xed,
}

var ErrEmpty = errors.New("empty pubkey")

// FromECDSA wraps an uncompressed secp256k1 public key.
func FromECDSA(pub *ecdsa.PublicKey) PubKey {
	return PubKey{Type: Types.Secp256k1, Raw: crypto.FromECDSAPub(pub)}
}

// FromEd25519 wraps a redemption key.
func FromEd25519(pub ed25519.PublicKey) PubKey {
	return PubKey{Type: Types.Ed25519, Raw: common.CopyBytes(pub)}
}

// Empty reports whether pk is the zero value.
func (pk PubKey) Empty() bool {
	return len(pk.Raw) == 0 && pk.Type == 0
}

// ECDSA decodes a secp256k1 key.
func (pk PubKey) ECDSA() (*ecdsa.PublicKey, error) {
	if pk.Type != Types.Secp256k1 {
		return nil, fmt.Errorf("pubkey type %#x is not secp256k1", pk.Type)
	}
	return crypto.UnmarshalPubkey(pk.Raw)
}

// Ed25519 returns a redemption key.
func (pk PubKey) Ed25519() (ed25519.PublicKey, error) {
	if pk.Type != Types.Ed25519 {
		return nil, fmt.Errorf("pubkey type %#x is not ed25519", pk.Type)
	}
	if len(pk.Raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("ed25519 pubkey has %d bytes", len(pk.Raw))
	}
	return ed25519.PublicKey(pk.Raw), nil
}

func (pk PubKey) String() string {
	return "0x" + common.Bytes2Hex(pk.Bytes())
}

// Bytes is the flat form: type byte followed by the raw key.
func (pk PubKey) Bytes() []byte {
	return append([]byte{pk.Type}, pk.Raw...)
}

// Copy returns a deep copy.
func (pk PubKey) Copy() PubKey {
	return PubKey{Type: pk.Type, Raw: common.CopyBytes(pk.Raw)}
}

// Equal compares type and raw bytes.
func (pk PubKey) Equal(other PubKey) bool {
	return pk.Type == other.Type && string(pk.Raw) == string(other.Raw)
}

// FromString parses a hex string, with or without 0x.
func FromString(str string) (PubKey, error) {
	return FromBytes(common.FromHex(str))
}

// FromBytes parses the flat form produced by Bytes.
func FromBytes(b []byte) (PubKey, error) {
	if len(b) == 0 {
		return PubKey{}, ErrEmpty
	}
	return PubKey{Type: b[0], Raw: common.CopyBytes(b[1:])}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (pk *PubKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PubKey) UnmarshalText(input []byte) error {
	res, err := FromString(string(input))
	if err != nil {
		return err
	}
	*pk = res
	return nil
}
