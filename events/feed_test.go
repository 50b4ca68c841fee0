package events

import (
	"testing"

	"PRNG/auditlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_DeliversInOrder(t *testing.T) {
	f := NewFeed()
	a, cancelA := f.Subscribe(8)
	defer cancelA()
	b, cancelB := f.Subscribe(8)
	defer cancelB()

	for i := uint64(0); i < 3; i++ {
		assert.Equal(t, 2, f.Publish(auditlog.Record{Index: i}))
	}
	for _, ch := range []<-chan auditlog.Record{a, b} {
		for i := uint64(0); i < 3; i++ {
			assert.Equal(t, i, (<-ch).Index)
		}
	}
}

func TestFeed_SubscribersDoNotShareResults(t *testing.T) {
	f := NewFeed()
	a, cancelA := f.Subscribe(1)
	defer cancelA()
	b, cancelB := f.Subscribe(1)
	defer cancelB()

	rec := auditlog.Record{Index: 1, Result: []byte{1, 2, 3}, Length: 3}
	require.Equal(t, 2, f.Publish(rec))

	got := <-a
	got.Result[0] = 0xff
	assert.Equal(t, []byte{1, 2, 3}, (<-b).Result)
	assert.Equal(t, []byte{1, 2, 3}, rec.Result)
}

func TestFeed_FullQueueDrops(t *testing.T) {
	f := NewFeed()
	ch, cancel := f.Subscribe(1)
	defer cancel()

	assert.Equal(t, 1, f.Publish(auditlog.Record{Index: 0}))
	assert.Equal(t, 0, f.Publish(auditlog.Record{Index: 1}))
	assert.Equal(t, uint64(1), f.Dropped())
	assert.Equal(t, uint64(0), (<-ch).Index)
}

func TestFeed_Cancel(t *testing.T) {
	f := NewFeed()
	ch, cancel := f.Subscribe(0)
	require.Equal(t, 1, f.Subscribers())

	cancel()
	cancel()
	assert.Equal(t, 0, f.Subscribers())
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, f.Publish(auditlog.Record{}))
}

func TestFeed_Close(t *testing.T) {
	f := NewFeed()
	ch, cancel := f.Subscribe(4)
	f.Close()
	f.Close()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	late, _ := f.Subscribe(4)
	_, ok = <-late
	assert.False(t, ok)
}
