package auditlog

import "sync"

// MemoryLog keeps records in process memory.
type MemoryLog struct {
	mu      sync.RWMutex
	records []Record
	closed  bool
}

var _ Log = (*MemoryLog)(nil)

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (m *MemoryLog) Append(rec Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Record{}, ErrClosed
	}
	rec = rec.Clone()
	rec.Index = uint64(len(m.records))
	m.records = append(m.records, rec)
	return rec.Clone(), nil
}

func (m *MemoryLog) Get(index uint64) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if index >= uint64(len(m.records)) {
		return Record{}, ErrNotFound
	}
	return m.records[index].Clone(), nil
}

func (m *MemoryLog) Len() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.records)), nil
}

func (m *MemoryLog) Iterate(from uint64, fn func(Record) error) error {
	m.mu.RLock()
	snapshot := m.records
	m.mu.RUnlock()

	for i := from; i < uint64(len(snapshot)); i++ {
		if err := fn(snapshot[i].Clone()); err != nil {
			if err == ErrStop {
				return nil
			}
			return err
		}
	}
	return nil
}

func (m *MemoryLog) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
