package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/webnotify/internal/notification"
	"github.com/jmylchreest/webnotify/internal/notifier"
)

// fakeNotifier records calls and can be made to fail or block.
type fakeNotifier struct {
	mu     sync.Mutex
	calls  []string // summaries, in call order
	err    error
	nextID notifier.ID
	block  chan struct{} // when non-nil, Notify waits until it is closed
}

func (f *fakeNotifier) Notify(_ context.Context, rec *notification.Record) (notifier.ID, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, rec.Title())
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	return f.nextID, nil
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func makeRecord(t *testing.T, title, tag string, origin notification.Origin, renotify bool) *notification.Record {
	t.Helper()
	f := notification.NewFactory(nil, 0)
	rec, err := f.Create(title, notification.Options{Tag: tag, Renotify: renotify}, origin, nil, 1000)
	require.NoError(t, err)
	return rec
}

func TestShow_KeyedDeduplication(t *testing.T) {
	fake := &fakeNotifier{}
	r := NewRegistry(fake, nil)

	var closed []*notification.Record
	r.SetCloseSignal(func(rec *notification.Record) { closed = append(closed, rec) })

	first := makeRecord(t, "one", "t1", "origin-a", false)
	second := makeRecord(t, "two", "t1", "origin-a", false)

	r.Show(first)
	r.Wait()
	r.Show(second)
	r.Wait()

	assert.Equal(t, 1, r.Len(), "exactly one record per (origin, tag) key")
	assert.Equal(t, 2, fake.callCount(), "no replacement support: both dispatched")

	require.Len(t, closed, 1, "superseding emits the old record's close signal")
	assert.Equal(t, "one", closed[0].Title())

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "two", snap[0].Record.Title())
	assert.True(t, snap[0].Shown)
}

func TestShow_SameTagDifferentOrigins(t *testing.T) {
	fake := &fakeNotifier{}
	r := NewRegistry(fake, nil)

	r.Show(makeRecord(t, "one", "t1", "origin-a", false))
	r.Show(makeRecord(t, "two", "t1", "origin-b", false))
	r.Wait()

	assert.Equal(t, 2, r.Len(), "tags only collide within the same origin")
}

func TestShow_UnkeyedAppends(t *testing.T) {
	fake := &fakeNotifier{}
	r := NewRegistry(fake, nil)

	r.Show(makeRecord(t, "one", "", "origin-a", false))
	r.Show(makeRecord(t, "two", "", "origin-a", false))
	r.Wait()

	assert.Equal(t, 2, r.Len(), "untagged records are independent")
	assert.Equal(t, 2, fake.callCount())
}

func TestShow_ReplacementSupported(t *testing.T) {
	fake := &fakeNotifier{}
	r := NewRegistry(fake, nil)
	r.SetReplacementSupport(true)

	var closed, shown []*notification.Record
	r.SetCloseSignal(func(rec *notification.Record) { closed = append(closed, rec) })
	r.SetShownSignal(func(rec *notification.Record) { shown = append(shown, rec) })

	r.Show(makeRecord(t, "one", "t1", "origin-a", false))
	r.Wait()
	r.Show(makeRecord(t, "two", "t1", "origin-a", false))
	r.Wait()

	assert.Equal(t, 1, fake.callCount(), "in-place replacement issues no second dispatch")
	assert.Equal(t, 1, r.Len())

	require.Len(t, closed, 1)
	assert.Equal(t, "one", closed[0].Title())
	require.Len(t, shown, 2)
	assert.Equal(t, "two", shown[1].Title())

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.True(t, snap[0].Shown, "replaced record is marked shown")
}

func TestShow_DispatchFailureIsSilent(t *testing.T) {
	fake := &fakeNotifier{err: notifier.ErrBusUnavailable}
	r := NewRegistry(fake, nil)

	r.Show(makeRecord(t, "one", "", "origin-a", false))
	r.Wait()

	snap := r.Snapshot()
	require.Len(t, snap, 1, "record stays resident after dispatch failure")
	assert.False(t, snap[0].Shown)
	assert.Equal(t, notifier.ID(0), snap[0].PlatformID)
}

func TestShow_RenotifyAlerts(t *testing.T) {
	t.Run("on dispatch failure", func(t *testing.T) {
		fake := &fakeNotifier{err: notifier.ErrCallFailed}
		r := NewRegistry(fake, nil)

		var alerts []*notification.Record
		r.SetAlertSignal(func(rec *notification.Record) { alerts = append(alerts, rec) })

		r.Show(makeRecord(t, "one", "t1", "origin-a", true))
		r.Wait()

		require.Len(t, alerts, 1)
	})

	t.Run("on replacement", func(t *testing.T) {
		fake := &fakeNotifier{}
		r := NewRegistry(fake, nil)
		r.SetReplacementSupport(true)

		var alerts []*notification.Record
		r.SetAlertSignal(func(rec *notification.Record) { alerts = append(alerts, rec) })

		r.Show(makeRecord(t, "one", "t1", "origin-a", true))
		r.Wait()
		require.Empty(t, alerts, "first display never alerts")

		r.Show(makeRecord(t, "two", "t1", "origin-a", true))
		r.Wait()
		require.Len(t, alerts, 1)
		assert.Equal(t, "two", alerts[0].Title())
	})

	t.Run("not without renotify", func(t *testing.T) {
		fake := &fakeNotifier{err: notifier.ErrCallFailed}
		r := NewRegistry(fake, nil)

		var alerts []*notification.Record
		r.SetAlertSignal(func(rec *notification.Record) { alerts = append(alerts, rec) })

		r.Show(makeRecord(t, "one", "t1", "origin-a", false))
		r.Wait()

		assert.Empty(t, alerts)
	})
}

func TestShow_StaleDispatchDiscarded(t *testing.T) {
	block := make(chan struct{})
	fake := &fakeNotifier{block: block}
	r := NewRegistry(fake, nil)

	r.Show(makeRecord(t, "one", "t1", "origin-a", false))
	r.Show(makeRecord(t, "two", "t1", "origin-a", false))

	// Both dispatches are in flight; the first entry is already superseded.
	close(block)
	r.Wait()

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "two", snap[0].Record.Title(),
		"the in-flight result for the superseded record must not resurface")
}

func TestRemove(t *testing.T) {
	fake := &fakeNotifier{}
	r := NewRegistry(fake, nil)

	var closed []*notification.Record
	r.SetCloseSignal(func(rec *notification.Record) { closed = append(closed, rec) })

	r.Show(makeRecord(t, "one", "t1", "origin-a", false))
	r.Wait()

	assert.False(t, r.Remove("origin-a", "t2"), "unknown tag")
	assert.False(t, r.Remove("origin-b", "t1"), "wrong origin")
	assert.False(t, r.Remove("origin-a", ""), "empty tag is never keyed")

	assert.True(t, r.Remove("origin-a", "t1"))
	assert.Equal(t, 0, r.Len())
	require.Len(t, closed, 1)
	assert.Equal(t, "one", closed[0].Title())
}

func TestRemoveByID(t *testing.T) {
	fake := &fakeNotifier{}
	r := NewRegistry(fake, nil)

	keyedID := r.Show(makeRecord(t, "keyed", "t1", "origin-a", false))
	unkeyedID := r.Show(makeRecord(t, "unkeyed", "", "origin-a", false))
	r.Wait()
	require.Equal(t, 2, r.Len())

	assert.False(t, r.RemoveByID("missing"))
	assert.True(t, r.RemoveByID(unkeyedID))
	assert.True(t, r.RemoveByID(keyedID))
	assert.False(t, r.RemoveByID(keyedID), "second removal is a no-op")
	assert.Equal(t, 0, r.Len())
}

func TestSnapshot_InsertionOrder(t *testing.T) {
	fake := &fakeNotifier{}
	r := NewRegistry(fake, nil)

	r.Show(makeRecord(t, "first", "", "origin-a", false))
	r.Show(makeRecord(t, "second", "t1", "origin-a", false))
	r.Show(makeRecord(t, "third", "", "origin-a", false))
	r.Wait()

	snap := r.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "first", snap[0].Record.Title())
	assert.Equal(t, "second", snap[1].Record.Title())
	assert.Equal(t, "third", snap[2].Record.Title())
}
