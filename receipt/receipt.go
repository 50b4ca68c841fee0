// -------------------- receipt/receipt.go --------------------

// printable proof receipts: a qr code carrying everything needed to look up
// and re-verify a record

package receipt

import (
	"encoding/json"
	"fmt"

	"PRNG/auditlog"
	"PRNG/entropy"
	"PRNG/sigverify"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	MinSize     = 64
	MaxSize     = 1024
)

// Payload is the content encoded in a receipt. The result itself is not
// included; Hash commits to it.
type Payload struct {
	Event  string         `json:"event"`
	Index  uint64         `json:"index"`
	Hash   sigverify.Hash `json:"hash"`
	S1     entropy.Seed   `json:"s1"`
	S2     entropy.Seed   `json:"s2"`
	Length uint64         `json:"length"`
}

func NewPayload(rec auditlog.Record) Payload {
	return Payload{
		Event:  "Random",
		Index:  rec.Index,
		Hash:   rec.Hash(),
		S1:     rec.S1,
		S2:     rec.S2,
		Length: rec.Length,
	}
}

// Matches reports whether rec is the record the payload describes.
func (p Payload) Matches(rec auditlog.Record) bool {
	return p.Index == rec.Index && p.Hash == rec.Hash() && p.S1 == rec.S1 &&
		p.S2 == rec.S2 && p.Length == rec.Length
}

// PNG renders the receipt for rec as a size x size PNG image.
func PNG(rec auditlog.Record, size int) ([]byte, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("receipt size %d out of range [%d, %d]", size, MinSize, MaxSize)
	}
	data, err := json.Marshal(NewPayload(rec))
	if err != nil {
		return nil, err
	}
	qr, err := qrcode.New(string(data), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return qr.PNG(size)
}
