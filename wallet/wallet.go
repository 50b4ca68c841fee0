// wallet/wallet.go

// signer keys for entropy providers: key files, personal message signing and
// triple construction
package wallet

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"PRNG/entropy"
	"PRNG/sigverify"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// MessageSize is the number of random bytes behind a RandomEntropy message.
const MessageSize = 256

// Signer holds a secp256k1 key used to sign entropy messages.
type Signer struct {
	priv *btcec.PrivateKey
}

func GenerateSigner() (*Signer, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return &Signer{priv: priv}, nil
}

// SignerFromSeed derives a key deterministically from seed material.
func SignerFromSeed(seed []byte) *Signer {
	hash := sha512.Sum512(seed)
	d := new(big.Int).SetBytes(hash[:32])
	order := btcec.S256().N
	d.Mod(d, order)
	if d.Sign() == 0 {
		d = big.NewInt(1)
	}
	keyBytes := make([]byte, 32)
	d.FillBytes(keyBytes)
	priv, _ := btcec.PrivKeyFromBytes(keyBytes)
	return &Signer{priv: priv}
}

// ParseSigner decodes a hex private key.
func ParseSigner(s string) (*Signer, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid key hex: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("invalid key length %d", len(raw))
	}
	d := new(big.Int).SetBytes(raw)
	if d.Sign() == 0 || d.Cmp(btcec.S256().N) >= 0 {
		return nil, errors.New("key out of range")
	}
	priv, _ := btcec.PrivKeyFromBytes(raw)
	return &Signer{priv: priv}, nil
}

func LoadSigner(path string) (*Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSigner(string(data))
}

// Save writes the key as hex to path, readable only by the owner.
func (s *Signer) Save(path string) error {
	return os.WriteFile(path, []byte(s.Hex()+"\n"), 0o600)
}

func (s *Signer) Hex() string {
	return hex.EncodeToString(s.priv.Serialize())
}

func (s *Signer) Address() sigverify.Address {
	return sigverify.PubkeyToAddress(s.priv.PubKey())
}

// SignDigest signs a digest and returns a 65 byte r || s || v signature.
func (s *Signer) SignDigest(digest sigverify.Hash) ([]byte, error) {
	return sigverify.ToEthereum(ecdsa.SignCompact(s.priv, digest[:], false))
}

// SignMessage signs msg in the personal message scheme.
func (s *Signer) SignMessage(msg []byte) ([]byte, error) {
	return s.SignDigest(sigverify.HashMessage(msg))
}

// Entropy builds the triple a provider submits for msg.
func (s *Signer) Entropy(msg []byte) (entropy.Triple, error) {
	sig, err := s.SignMessage(msg)
	if err != nil {
		return entropy.Triple{}, err
	}
	return entropy.Triple{
		Identity:  s.Address(),
		Digest:    sigverify.HashMessage(msg),
		Signature: sig,
	}, nil
}

// RandomEntropy signs the hex encoding of MessageSize fresh random bytes.
func (s *Signer) RandomEntropy() (entropy.Triple, error) {
	buf := make([]byte, MessageSize)
	if _, err := rand.Read(buf); err != nil {
		return entropy.Triple{}, fmt.Errorf("read random message: %w", err)
	}
	return s.Entropy([]byte(hex.EncodeToString(buf)))
}
