package sigverify

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	clientAddr   = "0x707c4a8b66dde63bb7c6646e1f8123f168ee884a"
	clientDigest = "0xc54bd99962fb3d2b892577e22a521b09ce551ab5b8aa2d931bfdbc5cd80bc84d"
	clientSig    = "9d75b1b7a6e39fe65c723e1f0cbe80146f6c2f8469b18614e6b653150f83b61b26861caee1184742128683ffaa164a4d6a404d1e2927f7cda71f388dfc59916f1c"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestKeccak256(t *testing.T) {
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", Keccak256().Hex())
	assert.Equal(t, "0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45", Keccak256([]byte("abc")).Hex())
	assert.Equal(t, Keccak256([]byte("abc")), Keccak256([]byte("a"), []byte("bc")))
}

func TestHashMessage(t *testing.T) {
	assert.Equal(t, "0xa1de988600a42c4b4ab089b619297c17d53cffae5d5120d82d8a92d0bb3b78f2", HashMessage([]byte("Hello World")).Hex())
	assert.Equal(t, clientDigest, HashMessage([]byte("client entropy")).Hex())
}

func TestPubkeyToAddress(t *testing.T) {
	one := make([]byte, 32)
	one[31] = 1
	_, pub := btcec.PrivKeyFromBytes(one)
	assert.Equal(t, "0x7e5f4552091a69125d5dfcb7b8c2659029395bdf", PubkeyToAddress(pub).Hex())
}

func TestRecoverIdentity_KnownVector(t *testing.T) {
	digest, err := ParseHash(clientDigest)
	require.NoError(t, err)

	addr, err := Secp256k1{}.RecoverIdentity(digest, mustHex(t, clientSig))
	require.NoError(t, err)
	assert.Equal(t, clientAddr, addr.Hex())
}

func TestRecoverIdentity_ZeroBasedRecoveryID(t *testing.T) {
	digest, err := ParseHash(clientDigest)
	require.NoError(t, err)
	sig := mustHex(t, clientSig)
	sig[64] -= 27

	addr, err := Secp256k1{}.RecoverIdentity(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, clientAddr, addr.Hex())
}

func TestRecoverIdentity_OtherDigestYieldsOtherSigner(t *testing.T) {
	addr, err := Secp256k1{}.RecoverIdentity(HashMessage([]byte("tampered")), mustHex(t, clientSig))
	if err == nil {
		assert.NotEqual(t, clientAddr, addr.Hex())
	}
}

func TestRecoverIdentity_Malformed(t *testing.T) {
	digest := HashMessage([]byte("x"))
	good := mustHex(t, clientSig)

	badV := append([]byte(nil), good...)
	badV[64] = 35

	zeroR := append([]byte(nil), good...)
	for i := 0; i < 32; i++ {
		zeroR[i] = 0
	}

	tests := []struct {
		name string
		sig  []byte
	}{
		{"empty", nil},
		{"short", good[:64]},
		{"long", append(append([]byte(nil), good...), 0)},
		{"bad recovery id", badV},
		{"zero r", zeroR},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Secp256k1{}.RecoverIdentity(digest, tc.sig)
			assert.ErrorIs(t, err, ErrMalformedSignature)
		})
	}
}

func TestToEthereum_RoundTrip(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	digest := HashMessage([]byte("round trip"))

	for _, compressed := range []bool{false, true} {
		sig, err := ToEthereum(ecdsa.SignCompact(priv, digest[:], compressed))
		require.NoError(t, err)
		require.Len(t, sig, SignatureLength)

		addr, err := Secp256k1{}.RecoverIdentity(digest, sig)
		require.NoError(t, err)
		assert.Equal(t, PubkeyToAddress(priv.PubKey()), addr)
	}
}

func TestParseAddress(t *testing.T) {
	a, err := ParseAddress(clientAddr)
	require.NoError(t, err)
	assert.Equal(t, clientAddr, a.String())

	b, err := ParseAddress(clientAddr[2:])
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = ParseAddress("0x1234")
	assert.Error(t, err)
	_, err = ParseHash("0xzz" + clientDigest[4:])
	assert.Error(t, err)
}

func TestAddress_TextRoundTrip(t *testing.T) {
	var a Address
	require.NoError(t, a.UnmarshalText([]byte(clientAddr)))
	text, err := a.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, clientAddr, string(text))
}
