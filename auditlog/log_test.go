package auditlog

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"PRNG/entropy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(b byte) Record {
	var s1, s2 entropy.Seed
	s1[0], s2[0] = b, b+1
	return Record{Result: []byte{b, b, b}, S1: s1, S2: s2, Length: 3}
}

func openBolt(t *testing.T) *BoltLog {
	t.Helper()
	l, err := OpenBolt(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func logs(t *testing.T) map[string]Log {
	return map[string]Log{
		"memory": NewMemoryLog(),
		"bolt":   openBolt(t),
	}
}

func TestLog_AppendAssignsIndexes(t *testing.T) {
	for name, l := range logs(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				rec, err := l.Append(sampleRecord(byte(i)))
				require.NoError(t, err)
				assert.Equal(t, uint64(i), rec.Index)
			}
			n, err := l.Len()
			require.NoError(t, err)
			assert.Equal(t, uint64(3), n)

			got, err := l.Get(1)
			require.NoError(t, err)
			want := sampleRecord(1)
			want.Index = 1
			assert.True(t, want.Equal(got), "got %+v", got)

			_, err = l.Get(3)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestLog_RecordsAreImmutable(t *testing.T) {
	for name, l := range logs(t) {
		t.Run(name, func(t *testing.T) {
			rec := sampleRecord(9)
			stored, err := l.Append(rec)
			require.NoError(t, err)

			rec.Result[0] = 0
			stored.Result[1] = 0

			got, err := l.Get(0)
			require.NoError(t, err)
			assert.Equal(t, []byte{9, 9, 9}, got.Result)

			got.Result[2] = 0
			again, err := l.Get(0)
			require.NoError(t, err)
			assert.Equal(t, []byte{9, 9, 9}, again.Result)
		})
	}
}

func TestLog_Iterate(t *testing.T) {
	for name, l := range logs(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				_, err := l.Append(sampleRecord(byte(i)))
				require.NoError(t, err)
			}

			var seen []uint64
			require.NoError(t, l.Iterate(2, func(r Record) error {
				seen = append(seen, r.Index)
				return nil
			}))
			assert.Equal(t, []uint64{2, 3, 4}, seen)

			seen = nil
			require.NoError(t, l.Iterate(0, func(r Record) error {
				seen = append(seen, r.Index)
				if len(seen) == 2 {
					return ErrStop
				}
				return nil
			}))
			assert.Equal(t, []uint64{0, 1}, seen)

			boom := errors.New("boom")
			assert.ErrorIs(t, l.Iterate(0, func(Record) error { return boom }), boom)
		})
	}
}

func TestLog_AppendAfterClose(t *testing.T) {
	for name, l := range logs(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, l.Close())
			_, err := l.Append(sampleRecord(1))
			assert.ErrorIs(t, err, ErrClosed)
		})
	}
}

func TestBoltLog_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	l, err := OpenBolt(path)
	require.NoError(t, err)
	_, err = l.Append(sampleRecord(1))
	require.NoError(t, err)
	_, err = l.Append(sampleRecord(2))
	require.NoError(t, err)
	require.NoError(t, l.Close())

	l, err = OpenBolt(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	n, err := l.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	rec, err := l.Append(sampleRecord(3))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), rec.Index)

	got, err := l.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 2, 2}, got.Result)
}

func TestOpenBolt_EmptyPath(t *testing.T) {
	_, err := OpenBolt("")
	assert.Error(t, err)
}

func TestRecord_JSON(t *testing.T) {
	rec := sampleRecord(7)
	rec.Index = 4
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "0x070707", fields["result"])
	assert.Equal(t, rec.Hash().Hex(), fields["hash"])
	assert.EqualValues(t, 4, fields["index"])

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, rec.Equal(back))

	fields["length"] = 4
	tampered, err := json.Marshal(fields)
	require.NoError(t, err)
	assert.Error(t, json.Unmarshal(tampered, &back))
}

func TestRecord_HashIgnoresIndex(t *testing.T) {
	a, b := sampleRecord(1), sampleRecord(1)
	b.Index = 10
	assert.Equal(t, a.Hash(), b.Hash())

	b.Length = 4
	assert.NotEqual(t, a.Hash(), b.Hash())
}
