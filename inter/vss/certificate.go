// Package vss defines the certificates that admit a stakeholder to the first
// shared-randomness ceremony. A certificate binds a VSS public key to an expiry
// epoch and is signed by a secp256k1 key, either the stakeholder's own key or
// a holder key countersigning on behalf of voucher addresses.
package vss

import (
	"bytes"
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rony4d/go-opera-genesis/inter/stakepk"
)

// VssKeySize is the length of a compressed secp256k1 VSS public key.
const VssKeySize = 33

// SignatureSize is the length of a recoverable secp256k1 signature.
const SignatureSize = crypto.SignatureLength

var ErrBadSignature = errors.New("vss certificate signature mismatch")

var certDomain = []byte("opera-genesis/vss-cert")

// Certificate is one VSS certificate.
type Certificate struct {
	VssKey      []byte
	ExpiryEpoch idx.Epoch
	Signature   []byte
	SigningKey  stakepk.PubKey
}

// SigningHash is the 32-byte digest that the certificate signature covers.
func SigningHash(vssKey []byte, expiry idx.Epoch) []byte {
	return crypto.Keccak256(certDomain, vssKey, bigendian.Uint32ToBytes(uint32(expiry)))
}

// New signs a certificate for vssPub with signer.
func New(signer *ecdsa.PrivateKey, vssPub *ecdsa.PublicKey, expiry idx.Epoch) (Certificate, error) {
	vssKey := crypto.CompressPubkey(vssPub)
	sig, err := crypto.Sign(SigningHash(vssKey, expiry), signer)
	if err != nil {
		return Certificate{}, fmt.Errorf("sign vss certificate: %w", err)
	}
	return Certificate{
		VssKey:      vssKey,
		ExpiryEpoch: expiry,
		Signature:   sig,
		SigningKey:  stakepk.FromECDSA(&signer.PublicKey),
	}, nil
}

// Verify checks the shape of the certificate and its signature.
func (c Certificate) Verify() error {
	if len(c.VssKey) != VssKeySize {
		return fmt.Errorf("vss key has %d bytes, want %d", len(c.VssKey), VssKeySize)
	}
	if _, err := crypto.DecompressPubkey(c.VssKey); err != nil {
		return fmt.Errorf("vss key: %w", err)
	}
	if len(c.Signature) != SignatureSize {
		return fmt.Errorf("signature has %d bytes, want %d", len(c.Signature), SignatureSize)
	}
	if c.SigningKey.Type != stakepk.Types.Secp256k1 {
		return fmt.Errorf("signing key type %#x is not secp256k1", c.SigningKey.Type)
	}
	if !crypto.VerifySignature(c.SigningKey.Raw, SigningHash(c.VssKey, c.ExpiryEpoch), c.Signature[:64]) {
		return ErrBadSignature
	}
	return nil
}

// Hash identifies the certificate.
func (c Certificate) Hash() hash.Hash {
	return hash.Of(c.VssKey, bigendian.Uint32ToBytes(uint32(c.ExpiryEpoch)), c.Signature, c.SigningKey.Bytes())
}

// Equal compares every field.
func (c Certificate) Equal(o Certificate) bool {
	return bytes.Equal(c.VssKey, o.VssKey) &&
		c.ExpiryEpoch == o.ExpiryEpoch &&
		bytes.Equal(c.Signature, o.Signature) &&
		c.SigningKey.Equal(o.SigningKey)
}
