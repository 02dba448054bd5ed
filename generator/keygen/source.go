package keygen

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/ethereum/go-ethereum/crypto"
)

// Key domains keep the keys of different roles apart under one seed.
const (
	DomainStake  = "stake"
	DomainVss    = "vss"
	DomainRedeem = "redeem"
)

// KeySource produces the key material of a generation run. Implementations
// must be safe for concurrent use.
type KeySource interface {
	SigningKey(domain string, index int) (*ecdsa.PrivateKey, error)
	RedeemKey(domain string, index int) (ed25519.PrivateKey, error)
}

// RandomSource draws every key from crypto/rand.
type RandomSource struct{}

func (RandomSource) SigningKey(string, int) (*ecdsa.PrivateKey, error) {
	return crypto.GenerateKey()
}

func (RandomSource) RedeemKey(string, int) (ed25519.PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	return priv, err
}

// maxDeriveAttempts bounds the retries for the negligible case where the
// derived bytes are not a valid secp256k1 scalar.
const maxDeriveAttempts = 16

// DeterministicSource derives keys from a seed. The same (Seed, domain,
// index) always yields the same key, whatever order workers run in.
//
// Use it for reproducible test networks only: anyone who knows the seed
// knows every key.
type DeterministicSource struct {
	Seed int64
}

func (s DeterministicSource) material(domain string, index int, attempt uint32) []byte {
	return crypto.Keccak256(
		bigendian.Uint64ToBytes(uint64(s.Seed)),
		[]byte(domain),
		bigendian.Uint64ToBytes(uint64(index)),
		bigendian.Uint32ToBytes(attempt),
	)
}

func (s DeterministicSource) SigningKey(domain string, index int) (*ecdsa.PrivateKey, error) {
	for attempt := uint32(0); attempt < maxDeriveAttempts; attempt++ {
		if key, err := crypto.ToECDSA(s.material(domain, index, attempt)); err == nil {
			return key, nil
		}
	}
	return nil, fmt.Errorf("no valid %s key derived for index %d", domain, index)
}

func (s DeterministicSource) RedeemKey(domain string, index int) (ed25519.PrivateKey, error) {
	return ed25519.NewKeyFromSeed(s.material(domain, index, 0)), nil
}

// NewSource returns a DeterministicSource for a non-nil seed and a
// RandomSource otherwise.
func NewSource(seed *int64) KeySource {
	if seed != nil {
		return DeterministicSource{Seed: *seed}
	}
	return RandomSource{}
}
