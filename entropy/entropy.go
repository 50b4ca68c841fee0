// Package entropy validates signed entropy contributions and turns them into
// seeds.
package entropy

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"PRNG/sigverify"
)

// SeedLength is the size in bytes of a derived seed.
const SeedLength = sigverify.HashLength

var (
	ErrInvalidClientEntropy = errors.New("random: invalid off-chain entropy")
	ErrInvalidOracleEntropy = errors.New("random: invalid on-chain entropy")
)

// Side names the party that contributed a triple.
type Side int

const (
	Client Side = iota
	Oracle
)

func (s Side) String() string {
	switch s {
	case Client:
		return "client"
	case Oracle:
		return "oracle"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Triple is one party's entropy contribution: an identity, the digest of an
// arbitrary message and the identity's signature over that digest.
type Triple struct {
	Identity  sigverify.Address `json:"identity"`
	Digest    sigverify.Hash    `json:"digest"`
	Signature []byte            `json:"-"`
}

type tripleJSON struct {
	Identity  sigverify.Address `json:"identity"`
	Digest    sigverify.Hash    `json:"digest"`
	Signature string            `json:"signature"`
}

func (t Triple) MarshalJSON() ([]byte, error) {
	return json.Marshal(tripleJSON{
		Identity:  t.Identity,
		Digest:    t.Digest,
		Signature: "0x" + hex.EncodeToString(t.Signature),
	})
}

// UnmarshalJSON accepts the object form and the positional
// [identity, digest, signature] tuple.
func (t *Triple) UnmarshalJSON(data []byte) error {
	var tj tripleJSON
	if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "[") {
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		if len(parts) != 3 {
			return fmt.Errorf("entropy tuple: want 3 elements, got %d", len(parts))
		}
		if err := tj.Identity.UnmarshalText([]byte(parts[0])); err != nil {
			return err
		}
		if err := tj.Digest.UnmarshalText([]byte(parts[1])); err != nil {
			return err
		}
		tj.Signature = parts[2]
	} else if err := json.Unmarshal(data, &tj); err != nil {
		return err
	}
	sig, err := hex.DecodeString(strings.TrimPrefix(tj.Signature, "0x"))
	if err != nil {
		return fmt.Errorf("invalid signature hex: %w", err)
	}
	*t = Triple{Identity: tj.Identity, Digest: tj.Digest, Signature: sig}
	return nil
}
