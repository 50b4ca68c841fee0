package prng

import (
	"crypto/subtle"

	"PRNG/drbg"
	"PRNG/entropy"
	"PRNG/util"
)

// Verify reports whether result is what the generator produces for s1, s2
// and length. It needs no signatures and never fails; any mismatch, including
// a result of the wrong size or a length no generation could have used, is
// false.
func Verify(result []byte, s1, s2 entropy.Seed, length uint64) bool {
	if drbg.CheckLength(length) != nil || uint64(len(result)) != length {
		return false
	}
	return subtle.ConstantTimeCompare(drbg.Expand(s1, s2, length), result) == 1
}

// VerifyHex is Verify for hex encoded inputs, as published in records. Input
// that does not decode is false.
func VerifyHex(result, s1, s2 string, length uint64) bool {
	raw, err := util.DecodeHex(result)
	if err != nil {
		return false
	}
	seed1, err := entropy.ParseSeed(s1)
	if err != nil {
		return false
	}
	seed2, err := entropy.ParseSeed(s2)
	if err != nil {
		return false
	}
	return Verify(raw, seed1, seed2, length)
}
