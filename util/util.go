package util

//hex helpers shared by the json encodings, the api and the cli

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// EncodeHex renders b as a 0x prefixed lowercase hex string.
func EncodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// DecodeHex accepts hex with or without the 0x prefix.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return b, nil
}

// ShortHex abbreviates long byte strings for log lines.
func ShortHex(b []byte) string {
	if len(b) <= 8 {
		return EncodeHex(b)
	}
	return EncodeHex(b[:4]) + ".." + hex.EncodeToString(b[len(b)-4:])
}

func CurrentTimeUTC() time.Time {
	return time.Now().UTC()
}
