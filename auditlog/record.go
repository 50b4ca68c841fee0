// Package auditlog stores generation records in an append-only log.
package auditlog

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"

	"PRNG/entropy"
	"PRNG/sigverify"
	"PRNG/util"
)

var (
	ErrNotFound = errors.New("auditlog: record not found")
	ErrClosed   = errors.New("auditlog: log closed")

	// ErrStop ends an Iterate walk early without reporting an error.
	ErrStop = errors.New("auditlog: stop iteration")
)

// Record is the published outcome of one generation: the result and
// everything needed to recompute it.
type Record struct {
	Index  uint64
	Result []byte
	S1     entropy.Seed
	S2     entropy.Seed
	Length uint64
}

// Hash commits to the record contents, excluding its position in the log.
func (r Record) Hash() sigverify.Hash {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], r.Length)
	return sigverify.Keccak256(r.S1[:], r.S2[:], lenBuf[:], r.Result)
}

// Equal reports whether r and o carry the same contents and index.
func (r Record) Equal(o Record) bool {
	return r.Index == o.Index && r.S1 == o.S1 && r.S2 == o.S2 &&
		r.Length == o.Length && bytes.Equal(r.Result, o.Result)
}

// Clone returns a copy of r that shares no memory with it.
func (r Record) Clone() Record {
	r.Result = append([]byte(nil), r.Result...)
	return r
}

type recordJSON struct {
	Index  uint64         `json:"index"`
	Result string         `json:"result"`
	S1     entropy.Seed   `json:"s1"`
	S2     entropy.Seed   `json:"s2"`
	Length uint64         `json:"length"`
	Hash   sigverify.Hash `json:"hash"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Index:  r.Index,
		Result: util.EncodeHex(r.Result),
		S1:     r.S1,
		S2:     r.S2,
		Length: r.Length,
		Hash:   r.Hash(),
	})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var rj recordJSON
	if err := json.Unmarshal(data, &rj); err != nil {
		return err
	}
	result, err := util.DecodeHex(rj.Result)
	if err != nil {
		return err
	}
	*r = Record{Index: rj.Index, Result: result, S1: rj.S1, S2: rj.S2, Length: rj.Length}
	if rj.Hash != (sigverify.Hash{}) && rj.Hash != r.Hash() {
		return errors.New("auditlog: record hash mismatch")
	}
	return nil
}

// Log is an append-only record store. Appended records are never modified.
type Log interface {
	// Append stores rec at the next index and returns it with Index set.
	Append(rec Record) (Record, error)
	Get(index uint64) (Record, error)
	Len() (uint64, error)
	// Iterate calls fn for each record from index from onwards, in order.
	Iterate(from uint64, fn func(Record) error) error
	Close() error
}
