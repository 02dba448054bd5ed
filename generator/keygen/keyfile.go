package keygen

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"github.com/rony4d/go-opera-genesis/inter/address"
	"github.com/rony4d/go-opera-genesis/inter/stakepk"
	"github.com/rony4d/go-opera-genesis/opera/genesis"
)

// KeyfileMode is the permission of every file holding secret material.
const KeyfileMode os.FileMode = 0600

// FakePassword encrypts keyfiles of test networks when no passphrase is
// configured.
const FakePassword = "fakepassword"

// Key is a decoded keyfile. Primary keys also hold the VSS secret used in the
// first randomness ceremony.
type Key struct {
	Primary bool
	Private *ecdsa.PrivateKey
	Vss     *ecdsa.PrivateKey
	Address address.Address
}

// PubKey returns the typed public key.
func (k *Key) PubKey() stakepk.PubKey {
	return stakepk.FromECDSA(&k.Private.PublicKey)
}

// keyfileJSON wraps keystore encrypted secrets with the public stake data, so
// the address can be listed without the passphrase.
type keyfileJSON struct {
	Primary bool            `json:"primary"`
	PubKey  string          `json:"pubkey"`
	Address address.Address `json:"address"`
	Secret  json.RawMessage `json:"secret"`
	Vss     json.RawMessage `json:"vss,omitempty"`
}

// KDF holds the scrypt cost of keyfile encryption.
type KDF struct {
	N int
	P int
}

var (
	// LightKDF is fast enough for thousands of test network keys.
	LightKDF = KDF{N: keystore.LightScryptN, P: keystore.LightScryptP}
	// StandardKDF matches the cost of node account keystores.
	StandardKDF = KDF{N: keystore.StandardScryptN, P: keystore.StandardScryptP}
)

// Generator writes keyfiles and fake voucher seeds.
type Generator struct {
	Source     KeySource
	Passphrase string
	KDF        KDF
}

// New returns a Generator drawing keys from source. Keyfiles are encrypted
// with FakePassword and LightKDF until the fields are changed.
func New(source KeySource) *Generator {
	return &Generator{Source: source, Passphrase: FakePassword, KDF: LightKDF}
}

// GenerateKey creates the keys for index and writes exactly one keyfile at
// path. Parent directories are created as needed.
func (g *Generator) GenerateKey(isPrimary bool, path string, index int) (*Key, error) {
	key, err := g.Source.SigningKey(DomainStake, index)
	if err != nil {
		return nil, err
	}
	k := &Key{Primary: isPrimary, Private: key, Address: address.FromECDSA(key.PublicKey)}
	if isPrimary {
		if k.Vss, err = g.Source.SigningKey(DomainVss, index); err != nil {
			return nil, err
		}
	}
	if err := WriteKeyfile(path, k, g.Passphrase, g.KDF); err != nil {
		return nil, err
	}
	return k, nil
}

// GenerateKeyfile is GenerateKey returning only the public parts.
func (g *Generator) GenerateKeyfile(isPrimary bool, path string, index int) (stakepk.PubKey, address.Address, error) {
	k, err := g.GenerateKey(isPrimary, path, index)
	if err != nil {
		return stakepk.PubKey{}, address.Address{}, err
	}
	return k.PubKey(), k.Address, nil
}

// GenerateFakeAvvm creates a voucher key for index and writes its seed at
// path. The returned public key is what a voucher dump would list.
func (g *Generator) GenerateFakeAvvm(path string, index int) (ed25519.PublicKey, error) {
	priv, err := g.Source.RedeemKey(DomainRedeem, index)
	if err != nil {
		return nil, err
	}
	seed := base64.URLEncoding.EncodeToString(priv.Seed())
	if err := writeSecret(path, []byte(seed+"\n")); err != nil {
		return nil, err
	}
	return priv.Public().(ed25519.PublicKey), nil
}

// WriteKeyfile encrypts the secrets of k with passphrase and stores them
// with KeyfileMode.
func WriteKeyfile(path string, k *Key, passphrase string, kdf KDF) error {
	raw := keyfileJSON{
		Primary: k.Primary,
		PubKey:  k.PubKey().String(),
		Address: k.Address,
	}
	var err error
	if raw.Secret, err = encryptKey(k.Private, passphrase, kdf); err != nil {
		return err
	}
	if k.Vss != nil {
		if raw.Vss, err = encryptKey(k.Vss, passphrase, kdf); err != nil {
			return fmt.Errorf("vss key: %w", err)
		}
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return writeSecret(path, append(data, '\n'))
}

func encryptKey(priv *ecdsa.PrivateKey, passphrase string, kdf KDF) ([]byte, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	key := &keystore.Key{
		Id:         id,
		Address:    crypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}
	return keystore.EncryptKey(key, passphrase, kdf.N, kdf.P)
}

// ReadKeyfile decrypts a keyfile and checks that its address matches the
// secret. A wrong passphrase is a ParseError.
func ReadKeyfile(path, passphrase string) (*Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &genesis.IOError{Op: "read", Path: path, Err: err}
	}
	var raw keyfileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &genesis.ParseError{Source: path, Err: err}
	}
	if len(raw.Secret) == 0 {
		return nil, &genesis.ParseError{Source: path, Err: fmt.Errorf("no secret key")}
	}
	secret, err := keystore.DecryptKey(raw.Secret, passphrase)
	if err != nil {
		return nil, &genesis.ParseError{Source: path, Err: err}
	}
	k := &Key{Primary: raw.Primary, Private: secret.PrivateKey, Address: address.FromECDSA(secret.PrivateKey.PublicKey)}
	if len(raw.Vss) != 0 {
		vss, err := keystore.DecryptKey(raw.Vss, passphrase)
		if err != nil {
			return nil, &genesis.ParseError{Source: path, Err: fmt.Errorf("vss key: %w", err)}
		}
		k.Vss = vss.PrivateKey
	}
	if raw.Address != k.Address {
		return nil, &genesis.ParseError{Source: path, Err: fmt.Errorf("address %s does not match secret", raw.Address)}
	}
	return k, nil
}

// ReadFakeAvvmSeed loads a seed file written by GenerateFakeAvvm.
func ReadFakeAvvmSeed(path string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &genesis.IOError{Op: "read", Path: path, Err: err}
	}
	seed, err := base64.URLEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, &genesis.ParseError{Source: path, Err: err}
	}
	if len(seed) != ed25519.SeedSize {
		return nil, &genesis.ParseError{Source: path, Err: fmt.Errorf("seed has %d bytes, want %d", len(seed), ed25519.SeedSize)}
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

func writeSecret(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return &genesis.IOError{Op: "create directory", Path: dir, Err: err}
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, KeyfileMode)
	if err != nil {
		return &genesis.IOError{Op: "create", Path: path, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return &genesis.IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &genesis.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
