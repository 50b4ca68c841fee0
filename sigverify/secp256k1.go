package sigverify

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// compactMagic is the recovery byte offset shared by the Ethereum v value and
// the btcec compact signature header for uncompressed keys.
const compactMagic = 27

// Secp256k1 recovers signers of 65 byte r || s || v signatures.
type Secp256k1 struct{}

var _ Recoverer = Secp256k1{}

func (Secp256k1) RecoverIdentity(digest Hash, sig []byte) (Address, error) {
	compact, err := toCompact(sig)
	if err != nil {
		return Address{}, err
	}
	pub, _, err := ecdsa.RecoverCompact(compact, digest[:])
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	return PubkeyToAddress(pub), nil
}

// PubkeyToAddress derives the identity of a public key.
func PubkeyToAddress(pub *btcec.PublicKey) Address {
	var a Address
	h := Keccak256(pub.SerializeUncompressed()[1:])
	copy(a[:], h[HashLength-AddressLength:])
	return a
}

// ToEthereum converts a btcec compact signature (v || r || s) into the
// r || s || v layout produced by Ethereum wallets.
func ToEthereum(compact []byte) ([]byte, error) {
	if len(compact) != SignatureLength {
		return nil, ErrMalformedSignature
	}
	v := compact[0]
	if v >= compactMagic+4 {
		// Compressed-key marker; the address derivation does not depend on it.
		v -= 4
	}
	if v != compactMagic && v != compactMagic+1 {
		return nil, ErrMalformedSignature
	}
	out := make([]byte, SignatureLength)
	copy(out, compact[1:])
	out[SignatureLength-1] = v
	return out, nil
}

func toCompact(sig []byte) ([]byte, error) {
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("%w: length %d", ErrMalformedSignature, len(sig))
	}
	v := sig[SignatureLength-1]
	if v < compactMagic {
		v += compactMagic
	}
	if v != compactMagic && v != compactMagic+1 {
		return nil, fmt.Errorf("%w: recovery id %d", ErrMalformedSignature, sig[SignatureLength-1])
	}
	compact := make([]byte, SignatureLength)
	compact[0] = v
	copy(compact[1:], sig[:SignatureLength-1])
	return compact, nil
}
