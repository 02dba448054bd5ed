package stakepk

import (
	"crypto/ed25519"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

const rawHex = "045b86101f804f3f4f2012ef31fff807e87de579a3faa7947d1b487a810e35dc2c3b6071ac465046634b5f4a8e09bf8e1f2e7eccb699356b9e6fd496ca4b1677d1"

func TestFromString(t *testing.T) {
	require := require.New(t)
	exp := PubKey{Type: Types.Secp256k1, Raw: common.FromHex(rawHex)}

	got, err := FromString("c0" + rawHex)
	require.NoError(err)
	require.Equal(exp, got)

	got, err = FromString("0xc0" + rawHex)
	require.NoError(err)
	require.Equal(exp, got)
	require.Equal("0xc0"+rawHex, got.String())

	for _, bad := range []string{"", "0x", "-"} {
		_, err = FromString(bad)
		require.Error(err, bad)
	}
}

func TestECDSA_RoundTrip(t *testing.T) {
	require := require.New(t)
	key, err := crypto.GenerateKey()
	require.NoError(err)

	pk := FromECDSA(&key.PublicKey)
	require.False(pk.Empty())
	pub, err := pk.ECDSA()
	require.NoError(err)
	require.Equal(crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(*pub))

	_, err = pk.Ed25519()
	require.Error(err)
}

func TestEd25519_RoundTrip(t *testing.T) {
	require := require.New(t)
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(err)

	pk := FromEd25519(pub)
	got, err := pk.Ed25519()
	require.NoError(err)
	require.Equal(pub, got)

	_, err = pk.ECDSA()
	require.Error(err)

	_, err = PubKey{Type: Types.Ed25519, Raw: []byte{1}}.Ed25519()
	require.Error(err)
}

func TestCopyAndEqual(t *testing.T) {
	original := PubKey{Type: 0x01, Raw: []byte{0xaa, 0xbb}}
	cp := original.Copy()
	require.True(t, original.Equal(cp))
	cp.Raw[0] = 0xff
	require.Equal(t, uint8(0xaa), original.Raw[0])
	require.False(t, original.Equal(cp))
}

func TestMarshalText(t *testing.T) {
	require := require.New(t)
	original := PubKey{Type: Types.Ed25519, Raw: []byte{0xaa, 0xbb, 0xcc}}

	data, err := json.Marshal(&original)
	require.NoError(err)
	require.Equal(`"0xedaabbcc"`, string(data))

	var decoded PubKey
	require.NoError(json.Unmarshal(data, &decoded))
	require.Equal(original, decoded)
}
