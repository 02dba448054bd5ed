package avvm

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-opera-genesis/generator/keygen"
	"github.com/rony4d/go-opera-genesis/inter/address"
	"github.com/rony4d/go-opera-genesis/inter/coin"
	"github.com/rony4d/go-opera-genesis/opera/genesis"
)

func voucherKey(n byte) ed25519.PublicKey {
	seed := make([]byte, ed25519.SeedSize)
	seed[0] = n
	return ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
}

func newBuilder() *Builder {
	logger, _ := test.NewNullLogger()
	return &Builder{
		Keys:    keygen.New(keygen.DeterministicSource{Seed: 3}),
		Workers: 2,
		Log:     logger,
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func dump(entries ...string) string {
	return `{"utxo":[` + strings.Join(entries, ",") + `]}`
}

func entry(key ed25519.PublicKey, c uint64) string {
	return fmt.Sprintf(`{"address":%q,"coin":%d}`, EncodeKey(key), c)
}

func TestImportBlacklist(t *testing.T) {
	h1, h2, h3 := voucherKey(1), voucherKey(2), voucherKey(3)
	dir := t.TempDir()
	opts := Options{
		Input:     writeFile(t, dir, "utxo.json", dump(entry(h1, 10), entry(h2, 20), entry(h3, 5))),
		Blacklist: writeFile(t, dir, "blacklist", "# excluded holders\n\n"+EncodeKey(h2)+"  # H2\n"),
	}

	res, err := newBuilder().Import(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, coin.Coin(15), res.Total)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Blacklisted)

	a1, a3 := address.FromRedeemKey(h1), address.FromRedeemKey(h3)
	assert.Equal(t, []address.Address{a1, a3}, res.Fragment.Addresses)
	assert.Equal(t, genesis.ExplicitStakes{a1: 10, a3: 5}, res.Fragment.Distribution)
	assert.Empty(t, res.Fragment.VssCertificates)
	for _, a := range res.Fragment.Addresses {
		assert.Equal(t, address.Redeem, a.Kind)
	}
	require.NoError(t, res.Fragment.Validate())
}

func TestImportRandCerts(t *testing.T) {
	dir := t.TempDir()
	holderPath := filepath.Join(dir, "holder.key")
	_, holderAddr, err := keygen.New(keygen.DeterministicSource{Seed: 8}).GenerateKeyfile(false, holderPath, 1)
	require.NoError(t, err)

	opts := Options{
		Input:         writeFile(t, dir, "utxo.json", dump(entry(voucherKey(1), 1), entry(voucherKey(2), 2))),
		HolderKeyfile: holderPath,
		RandCerts:     true,
		CertExpiry:    3,
	}
	res, err := newBuilder().Import(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, res.Fragment.VssCertificates, 2)
	for _, a := range res.Fragment.Addresses {
		cert := res.Fragment.VssCertificates[a]
		require.NoError(t, cert.Verify())
		signer, err := address.FromPubKey(cert.SigningKey)
		require.NoError(t, err)
		assert.Equal(t, holderAddr, signer)
	}
	require.NoError(t, res.Fragment.Validate())

	opts.HolderPassphrase = "wrong"
	_, err = newBuilder().Import(context.Background(), opts)
	var parseErr *genesis.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestImportOptions(t *testing.T) {
	err := Options{RandCerts: true}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dump path is empty")
	assert.Contains(t, err.Error(), "holder keyfile")

	_, err = newBuilder().ImportVouchers(context.Background(), nil, nil, nil, Options{RandCerts: true})
	require.Error(t, err)
}

func TestImportMissingFiles(t *testing.T) {
	dir := t.TempDir()
	var ioErr *genesis.IOError

	_, err := newBuilder().Import(context.Background(), Options{Input: filepath.Join(dir, "none.json")})
	require.ErrorAs(t, err, &ioErr)

	input := writeFile(t, dir, "utxo.json", dump(entry(voucherKey(1), 1)))
	_, err = newBuilder().Import(context.Background(), Options{Input: input, Blacklist: filepath.Join(dir, "none")})
	require.ErrorAs(t, err, &ioErr)

	_, err = newBuilder().Import(context.Background(), Options{Input: input, HolderKeyfile: filepath.Join(dir, "none.key")})
	require.ErrorAs(t, err, &ioErr)
}

func TestImportOverflow(t *testing.T) {
	vouchers := []Voucher{{Key: voucherKey(1), Coin: coin.MaxCoin}, {Key: voucherKey(2), Coin: 1}}
	_, err := newBuilder().ImportVouchers(context.Background(), vouchers, Blacklist{}, nil, Options{})
	require.ErrorIs(t, err, genesis.ErrStakeOverflow)
}

func TestParseVouchersRejects(t *testing.T) {
	k := EncodeKey(voucherKey(1))
	for name, doc := range map[string]string{
		"not json":        `{`,
		"unknown field":   `{"utxo":[],"extra":1}`,
		"entry field":     fmt.Sprintf(`{"utxo":[{"address":%q,"coin":1,"x":2}]}`, k),
		"missing utxo":    `{}`,
		"missing coin":    fmt.Sprintf(`{"utxo":[{"address":%q}]}`, k),
		"missing address": `{"utxo":[{"coin":1}]}`,
		"negative":        fmt.Sprintf(`{"utxo":[{"address":%q,"coin":-1}]}`, k),
		"fraction":        fmt.Sprintf(`{"utxo":[{"address":%q,"coin":1.5}]}`, k),
		"exponent":        fmt.Sprintf(`{"utxo":[{"address":%q,"coin":1e3}]}`, k),
		"quoted coin":     fmt.Sprintf(`{"utxo":[{"address":%q,"coin":"1"}]}`, k),
		"too large":       fmt.Sprintf(`{"utxo":[{"address":%q,"coin":%d}]}`, k, uint64(coin.MaxCoin)+1),
		"bad key":         `{"utxo":[{"address":"!!","coin":1}]}`,
		"short key":       `{"utxo":[{"address":"AAAA","coin":1}]}`,
		"duplicate":       dump(entry(voucherKey(1), 1), entry(voucherKey(1), 2)),
		"trailing":        `{"utxo":[]} {}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseVouchers(strings.NewReader(doc), "utxo.json")
			var parseErr *genesis.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, "utxo.json", parseErr.Source)
		})
	}
}

func TestParseVouchers(t *testing.T) {
	vouchers, err := ParseVouchers(strings.NewReader(dump(entry(voucherKey(1), 7), entry(voucherKey(2), 0))+"\n"), "utxo.json")
	require.NoError(t, err)
	require.Len(t, vouchers, 2)
	assert.Equal(t, voucherKey(1), vouchers[0].Key)
	assert.Equal(t, coin.Coin(7), vouchers[0].Coin)
	assert.Equal(t, coin.Coin(0), vouchers[1].Coin)
}

func TestParseBlacklist(t *testing.T) {
	bl, err := ParseBlacklist(strings.NewReader(EncodeKey(voucherKey(1))+"\n#"+EncodeKey(voucherKey(2))+"\n"), "bl")
	require.NoError(t, err)
	assert.True(t, bl.Contains(Voucher{Key: voucherKey(1)}))
	assert.False(t, bl.Contains(Voucher{Key: voucherKey(2)}))

	_, err = ParseBlacklist(strings.NewReader("garbage\n"), "bl")
	var parseErr *genesis.ParseError
	require.ErrorAs(t, err, &parseErr)

	empty, err := LoadBlacklist("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
