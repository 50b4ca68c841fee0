package entropy

import (
	"encoding/hex"
	"fmt"
	"strings"

	"PRNG/sigverify"
)

// Seed stands in for a validated triple once it has been checked.
type Seed [SeedLength]byte

// DeriveSeed hashes a triple into its seed:
//
//	Keccak256(identity || digest || signature)
func DeriveSeed(t Triple) Seed {
	return Seed(sigverify.Keccak256(t.Identity[:], t.Digest[:], t.Signature))
}

func (s Seed) Hex() string { return "0x" + hex.EncodeToString(s[:]) }
func (s Seed) String() string { return s.Hex() }

func (s Seed) MarshalText() ([]byte, error) { return []byte(s.Hex()), nil }

func (s *Seed) UnmarshalText(text []byte) error {
	parsed, err := ParseSeed(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeed decodes a 32 byte hex seed, with or without the 0x prefix.
func ParseSeed(str string) (Seed, error) {
	var s Seed
	raw := strings.TrimPrefix(str, "0x")
	if len(raw) != 2*SeedLength {
		return Seed{}, fmt.Errorf("invalid seed: want %d hex chars, got %d", 2*SeedLength, len(raw))
	}
	if _, err := hex.Decode(s[:], []byte(raw)); err != nil {
		return Seed{}, fmt.Errorf("invalid seed: %w", err)
	}
	return s, nil
}
