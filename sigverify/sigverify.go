// Package sigverify recovers the signing identity of Ethereum-style personal
// message signatures.
package sigverify

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	AddressLength   = 20
	HashLength      = 32
	SignatureLength = 65

	// MessagePrefix is prepended to every message before it is hashed and
	// signed, so a personal signature can never be replayed as a transaction.
	MessagePrefix = "\x19Ethereum Signed Message:\n"
)

var ErrMalformedSignature = errors.New("sigverify: malformed signature")

// Address identifies a signer: the last 20 bytes of the Keccak-256 hash of
// its uncompressed public key.
type Address [AddressLength]byte

// Hash is a 32 byte message digest.
type Hash [HashLength]byte

// Recoverer recovers the identity that produced sig over digest.
type Recoverer interface {
	RecoverIdentity(digest Hash, sig []byte) (Address, error)
}

// Keccak256 hashes the concatenation of data with legacy Keccak-256 (the
// pre-standard SHA-3 padding used by Ethereum).
func Keccak256(data ...[]byte) Hash {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// HashMessage returns the digest a personal signature over msg is made on.
func HashMessage(msg []byte) Hash {
	return Keccak256([]byte(MessagePrefix), []byte(strconv.Itoa(len(msg))), msg)
}

func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }
func (a Address) String() string { return a.Hex() }

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }
func (h Hash) String() string { return h.Hex() }

func (a Address) MarshalText() ([]byte, error) { return []byte(a.Hex()), nil }

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (h Hash) MarshalText() ([]byte, error) { return []byte(h.Hex()), nil }

func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseAddress decodes a hex address, with or without the 0x prefix.
func ParseAddress(s string) (Address, error) {
	var a Address
	if err := decodeFixed(s, a[:]); err != nil {
		return Address{}, fmt.Errorf("invalid address: %w", err)
	}
	return a, nil
}

// ParseHash decodes a hex digest, with or without the 0x prefix.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if err := decodeFixed(s, h[:]); err != nil {
		return Hash{}, fmt.Errorf("invalid hash: %w", err)
	}
	return h, nil
}

func decodeFixed(s string, dst []byte) error {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 2*len(dst) {
		return fmt.Errorf("want %d hex chars, got %d", 2*len(dst), len(s))
	}
	_, err := hex.Decode(dst, []byte(s))
	return err
}
