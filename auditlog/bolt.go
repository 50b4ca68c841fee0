package auditlog

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketRecords = []byte("random_events")

// BoltLog persists records in a bbolt database, keyed by big-endian index.
type BoltLog struct {
	db *bolt.DB
}

var _ Log = (*BoltLog)(nil)

// OpenBolt opens (creating if needed) the audit log at path.
func OpenBolt(path string) (*BoltLog, error) {
	if path == "" {
		return nil, fmt.Errorf("db path required")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRecords); err != nil {
			return fmt.Errorf("create bucket %s: %w", string(bucketRecords), err)
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltLog{db: db}, nil
}

func indexKey(index uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], index)
	return k[:]
}

func (l *BoltLog) Append(rec Record) (Record, error) {
	err := l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		rec.Index = seq - 1
		key := indexKey(rec.Index)
		if b.Get(key) != nil {
			return fmt.Errorf("record %d already written", rec.Index)
		}
		val, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put(key, val)
	})
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseNotOpen) {
			return Record{}, ErrClosed
		}
		return Record{}, fmt.Errorf("append record: %w", err)
	}
	return rec.Clone(), nil
}

func (l *BoltLog) Get(index uint64) (Record, error) {
	var rec Record
	err := l.db.View(func(tx *bolt.Tx) error {
		val := tx.Bucket(bucketRecords).Get(indexKey(index))
		if val == nil {
			return ErrNotFound
		}
		return json.Unmarshal(val, &rec)
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (l *BoltLog) Len() (uint64, error) {
	var n uint64
	err := l.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketRecords).Sequence()
		return nil
	})
	return n, err
}

func (l *BoltLog) Iterate(from uint64, fn func(Record) error) error {
	err := l.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketRecords).Cursor()
		for k, v := c.Seek(indexKey(from)); k != nil; k, v = c.Next() {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode record %d: %w", binary.BigEndian.Uint64(k), err)
			}
			if err := fn(rec); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}

func (l *BoltLog) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}
