package entropy

import (
	"fmt"

	"PRNG/sigverify"
)

// EntropyError reports a triple whose signature does not belong to its
// claimed identity. Its message names only the failing side.
type EntropyError struct {
	Side  Side
	Cause error
}

func (e *EntropyError) Error() string {
	return e.sentinel().Error()
}

func (e *EntropyError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *EntropyError) Unwrap() error { return e.Cause }

func (e *EntropyError) sentinel() error {
	if e.Side == Oracle {
		return ErrInvalidOracleEntropy
	}
	return ErrInvalidClientEntropy
}

// Validator checks triples against a signature recovery backend.
type Validator struct {
	Recoverer sigverify.Recoverer
}

// NewValidator returns a Validator backed by secp256k1 recovery.
func NewValidator() *Validator {
	return &Validator{Recoverer: sigverify.Secp256k1{}}
}

// Validate confirms t.Identity signed t.Digest and returns the triple's seed.
func (v *Validator) Validate(t Triple, side Side) (Seed, error) {
	recovered, err := v.Recoverer.RecoverIdentity(t.Digest, t.Signature)
	if err != nil {
		return Seed{}, &EntropyError{Side: side, Cause: err}
	}
	if recovered != t.Identity {
		return Seed{}, &EntropyError{
			Side:  side,
			Cause: fmt.Errorf("recovered %s, claimed %s", recovered, t.Identity),
		}
	}
	return DeriveSeed(t), nil
}
