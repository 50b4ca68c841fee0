// Package drbg expands two seeds into an output of arbitrary length with a
// Keccak-256 counter construction:
//
//	state   = Keccak256(s1 || s2 || uint64be(length))
//	block_i = Keccak256(state || uint64be(i))
//	output  = (block_0 || block_1 || ...)[:length]
//
// Verifiers outside this module must replicate it bit for bit.
package drbg

import (
	"encoding/binary"
	"errors"

	"PRNG/entropy"
	"PRNG/sigverify"
)

// BlockSize is the number of output bytes produced per counter step.
const BlockSize = sigverify.HashLength

// MaxLength is the largest output a single expansion may produce.
const MaxLength = 1 << 30

var (
	ErrInvalidLength  = errors.New("modifier: length '0' or '1' is not allow")
	ErrLengthTooLarge = errors.New("modifier: length exceeds maximum")
)

// CheckLength rejects the degenerate lengths 0 and 1 and anything above
// MaxLength.
func CheckLength(length uint64) error {
	if length < 2 {
		return ErrInvalidLength
	}
	if length > MaxLength {
		return ErrLengthTooLarge
	}
	return nil
}

// Expand returns length bytes derived from s1, s2 and length. It panics if
// length exceeds MaxLength; callers run CheckLength first.
func Expand(s1, s2 entropy.Seed, length uint64) []byte {
	if length > MaxLength {
		panic(ErrLengthTooLarge)
	}
	st := state(s1, s2, length)

	out := make([]byte, length)
	var ctr [8]byte
	for i, off := uint64(0), uint64(0); off < length; i, off = i+1, off+BlockSize {
		binary.BigEndian.PutUint64(ctr[:], i)
		block := sigverify.Keccak256(st[:], ctr[:])
		copy(out[off:], block[:])
	}
	return out
}

func state(s1, s2 entropy.Seed, length uint64) sigverify.Hash {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], length)
	return sigverify.Keccak256(s1[:], s2[:], lenBuf[:])
}
