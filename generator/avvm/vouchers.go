package avvm

import (
	"bufio"
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rony4d/go-opera-genesis/inter/coin"
	"github.com/rony4d/go-opera-genesis/opera/genesis"
)

// Voucher is one entry of a voucher dump.
type Voucher struct {
	Key  ed25519.PublicKey
	Coin coin.Coin
}

// HolderID is the canonical text form of a voucher key, used for blacklist
// lookups and logs.
func (v Voucher) HolderID() string {
	return EncodeKey(v.Key)
}

// EncodeKey renders a voucher key in the dump's base64url form.
func EncodeKey(pub ed25519.PublicKey) string {
	return base64.URLEncoding.EncodeToString(pub)
}

// DecodeKey parses a padded base64url voucher key.
func DecodeKey(s string) (ed25519.PublicKey, error) {
	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("voucher key %q: %w", s, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("voucher key %q has %d bytes, want %d", s, len(raw), ed25519.PublicKeySize)
	}
	return raw, nil
}

type dumpJSON struct {
	Utxo *[]entryJSON `json:"utxo"`
}

type entryJSON struct {
	Address *string          `json:"address"`
	Coin    *json.RawMessage `json:"coin"`
}

// ParseVouchers decodes a voucher dump of the form
//
//	{"utxo":[{"address":"<base64url key>","coin":<integer>}, ...]}
//
// Unknown fields, missing fields, trailing data, amounts that are not
// integers in [0, MaxCoin], malformed keys and repeated keys are all
// rejected with a *genesis.ParseError.
func ParseVouchers(r io.Reader, source string) ([]Voucher, error) {
	fail := func(err error) ([]Voucher, error) {
		return nil, &genesis.ParseError{Source: source, Err: err}
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var dump dumpJSON
	if err := dec.Decode(&dump); err != nil {
		return fail(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fail(errors.New("trailing data after voucher dump"))
	}
	if dump.Utxo == nil {
		return fail(errors.New(`missing "utxo" field`))
	}

	out := make([]Voucher, 0, len(*dump.Utxo))
	seen := make(map[string]int, len(*dump.Utxo))
	for i, e := range *dump.Utxo {
		if e.Address == nil {
			return fail(fmt.Errorf("entry %d: missing \"address\"", i))
		}
		if e.Coin == nil {
			return fail(fmt.Errorf("entry %d: missing \"coin\"", i))
		}
		key, err := DecodeKey(*e.Address)
		if err != nil {
			return fail(fmt.Errorf("entry %d: %w", i, err))
		}
		amount, err := parseCoin(string(*e.Coin))
		if err != nil {
			return fail(fmt.Errorf("entry %d: %w", i, err))
		}
		id := EncodeKey(key)
		if prev, ok := seen[id]; ok {
			return fail(fmt.Errorf("entry %d: holder %s already listed at entry %d", i, id, prev))
		}
		seen[id] = i
		out = append(out, Voucher{Key: key, Coin: amount})
	}
	return out, nil
}

func parseCoin(s string) (coin.Coin, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("coin %q is not an unsigned integer", s)
	}
	return coin.FromUint64(v)
}

// LoadVouchers reads and parses a voucher dump file.
func LoadVouchers(path string) ([]Voucher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &genesis.IOError{Op: "read", Path: path, Err: err}
	}
	return ParseVouchers(bytes.NewReader(data), path)
}

// Blacklist is a set of holder ids excluded from import.
type Blacklist map[string]struct{}

// Contains reports whether v's holder is blacklisted.
func (b Blacklist) Contains(v Voucher) bool {
	_, ok := b[v.HolderID()]
	return ok
}

// ParseBlacklist reads one voucher key per line. Blank lines and text after
// '#' are ignored.
func ParseBlacklist(r io.Reader, source string) (Blacklist, error) {
	out := Blacklist{}
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		key, err := DecodeKey(text)
		if err != nil {
			return nil, &genesis.ParseError{Source: source, Err: fmt.Errorf("line %d: %w", line, err)}
		}
		out[EncodeKey(key)] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, &genesis.IOError{Op: "read", Path: source, Err: err}
	}
	return out, nil
}

// LoadBlacklist reads a blacklist file. An empty path means no blacklist.
func LoadBlacklist(path string) (Blacklist, error) {
	if path == "" {
		return Blacklist{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &genesis.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	return ParseBlacklist(f, path)
}
