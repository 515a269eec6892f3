// Package registry holds the process-wide collection of displayed
// notifications and runs the show algorithm: it decides whether a new record
// replaces a prior one with the same (origin, tag) key, appends it, and
// dispatches it to the platform backend.
package registry

import (
	"context"
	"crypto/rand"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/webnotify/internal/notification"
	"github.com/jmylchreest/webnotify/internal/notifier"
)

// DefaultDispatchTimeout bounds the platform backend round-trip.
const DefaultDispatchTimeout = 5 * time.Second

// Signal is invoked when the registry emits a lifecycle signal for a record.
// Delivery of the corresponding script-visible event is the host's concern.
type Signal func(rec *notification.Record)

// recordKey is the deduplication key. Only records with a non-empty tag are
// ever keyed.
type recordKey struct {
	origin notification.Origin
	tag    string
}

// entry is a registry slot. Each live record has exactly one owning entry.
type entry struct {
	id         string
	record     *notification.Record
	seq        uint64
	shown      bool
	platformID notifier.ID
	evicted    bool // replaced or removed; in-flight dispatch results are discarded
}

// Entry is a read-only snapshot of a registry slot.
type Entry struct {
	ID         string
	Record     *notification.Record
	Shown      bool
	PlatformID notifier.ID
}

// Registry is the process-wide notification list. It starts empty, is
// mutated only through Show and the removal operations, and needs no
// teardown beyond Wait. All state transitions are applied atomically under
// a single mutex; asynchronous dispatch completions synchronize on the same
// lock, so readers never observe a partially-applied update.
type Registry struct {
	mu      sync.Mutex
	logger  *slog.Logger
	backend notifier.PlatformNotifier

	keyed   map[recordKey]*entry
	unkeyed map[string]*entry
	nextSeq uint64

	supportsReplacement bool
	dispatchTimeout     time.Duration

	closeSignal Signal
	alertSignal Signal
	shownSignal Signal

	inflight sync.WaitGroup
}

// NewRegistry creates an empty Registry dispatching through backend.
func NewRegistry(backend notifier.PlatformNotifier, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:          logger,
		backend:         backend,
		keyed:           make(map[recordKey]*entry),
		unkeyed:         make(map[string]*entry),
		dispatchTimeout: DefaultDispatchTimeout,
	}
}

// SetReplacementSupport declares whether the active backend supports
// replacing a displayed notification in place.
func (r *Registry) SetReplacementSupport(supported bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.supportsReplacement = supported
}

// SetDispatchTimeout bounds the backend call. Zero disables the bound.
func (r *Registry) SetDispatchTimeout(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatchTimeout = d
}

// SetCloseSignal sets the signal emitted when a record is superseded or
// removed.
func (r *Registry) SetCloseSignal(s Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeSignal = s
}

// SetAlertSignal sets the signal emitted when a renotifying record warrants
// renewed user attention.
func (r *Registry) SetAlertSignal(s Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alertSignal = s
}

// SetShownSignal sets the signal emitted once a record has been presented.
func (r *Registry) SetShownSignal(s Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shownSignal = s
}

// Show runs the show algorithm for rec and returns the registry entry id.
//
// At most one record per non-empty (origin, tag) key is ever resident. When
// an old record with the same key exists, its close signal is emitted; the
// new record then either replaces it in place (backend supports replacement)
// or is dispatched as a fresh notification. Dispatch runs asynchronously
// with a bounded context so a slow bus never stalls the caller; a dispatch
// failure leaves the record resident but not shown, and is only observable
// in the log.
func (r *Registry) Show(rec *notification.Record) string {
	e := &entry{id: newEntryID(), record: rec}

	var oldRec *notification.Record
	replaced := false

	r.mu.Lock()
	e.seq = r.nextSeq
	r.nextSeq++

	if rec.Tag() != "" {
		key := recordKey{origin: rec.Origin(), tag: rec.Tag()}
		if old := r.keyed[key]; old != nil {
			old.evicted = true
			oldRec = old.record
			if r.supportsReplacement {
				replaced = true
				e.shown = true
			}
		}
		r.keyed[key] = e
	} else {
		r.unkeyed[e.id] = e
	}
	timeout := r.dispatchTimeout
	closeSig, shownSig, alertSig := r.closeSignal, r.shownSignal, r.alertSignal
	r.mu.Unlock()

	if oldRec != nil {
		emit(closeSig, oldRec)
	}

	if replaced {
		r.logger.Debug("replaced notification in place",
			"entry", e.id, "tag", rec.Tag(), "origin", rec.Origin())
		emit(shownSig, rec)
		if rec.Renotify() {
			emit(alertSig, rec)
		}
		return e.id
	}

	r.inflight.Add(1)
	go r.dispatch(e, timeout, oldRec != nil)
	return e.id
}

// dispatch performs the backend call for e and applies the outcome, unless
// e was evicted in the meantime, in which case the result is discarded.
func (r *Registry) dispatch(e *entry, timeout time.Duration, hadOld bool) {
	defer r.inflight.Done()

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	id, err := r.backend.Notify(ctx, e.record)

	r.mu.Lock()
	stale := e.evicted
	if !stale && err == nil {
		e.shown = true
		e.platformID = id
	}
	shownSig, alertSig := r.shownSignal, r.alertSignal
	r.mu.Unlock()

	if stale {
		r.logger.Debug("discarding dispatch result for superseded notification", "entry", e.id)
		return
	}

	if err != nil {
		r.logger.Warn("notification dispatch failed",
			"entry", e.id, "title", e.record.Title(), "error", err)
	} else {
		emit(shownSig, e.record)
	}

	if (err != nil || hadOld) && e.record.Renotify() {
		emit(alertSig, e.record)
	}
}

// Remove removes the record keyed by (origin, tag), emitting its close
// signal. It reports whether a record was present.
func (r *Registry) Remove(origin notification.Origin, tag string) bool {
	if tag == "" {
		return false
	}
	key := recordKey{origin: origin, tag: tag}

	r.mu.Lock()
	e := r.keyed[key]
	if e != nil {
		e.evicted = true
		delete(r.keyed, key)
	}
	closeSig := r.closeSignal
	r.mu.Unlock()

	if e == nil {
		return false
	}
	emit(closeSig, e.record)
	return true
}

// RemoveByID removes the entry with the given registry id, keyed or not,
// emitting its close signal. It reports whether the entry was present.
func (r *Registry) RemoveByID(id string) bool {
	r.mu.Lock()
	var removed *entry
	if e, ok := r.unkeyed[id]; ok {
		e.evicted = true
		delete(r.unkeyed, id)
		removed = e
	} else {
		for key, e := range r.keyed {
			if e.id == id {
				e.evicted = true
				delete(r.keyed, key)
				removed = e
				break
			}
		}
	}
	closeSig := r.closeSignal
	r.mu.Unlock()

	if removed == nil {
		return false
	}
	emit(closeSig, removed.record)
	return true
}

// Len returns the number of resident records.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keyed) + len(r.unkeyed)
}

// Snapshot returns a read-only view of all resident entries in insertion
// order.
func (r *Registry) Snapshot() []Entry {
	r.mu.Lock()
	entries := make([]*entry, 0, len(r.keyed)+len(r.unkeyed))
	for _, e := range r.keyed {
		entries = append(entries, e)
	}
	for _, e := range r.unkeyed {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{ID: e.id, Record: e.record, Shown: e.shown, PlatformID: e.platformID}
	}
	r.mu.Unlock()
	return out
}

// Wait blocks until all in-flight dispatches have completed.
func (r *Registry) Wait() {
	r.inflight.Wait()
}

func emit(s Signal, rec *notification.Record) {
	if s != nil {
		s(rec)
	}
}

func newEntryID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
