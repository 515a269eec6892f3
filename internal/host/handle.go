package host

import (
	"net/url"

	"github.com/jmylchreest/webnotify/internal/notification"
	"github.com/jmylchreest/webnotify/internal/registry"
)

// Handle is the script-visible view of a notification record. It holds a
// read-only reference to the underlying record for the lifetime of the
// script object; there is no way to mutate the record through it. URL fields
// surface as their serialized string form, empty when absent.
type Handle struct {
	rec      *notification.Record
	entryID  string
	codec    notification.StorageCodec
	registry *registry.Registry
}

// EntryID returns the registry entry id backing this handle.
func (h *Handle) EntryID() string { return h.entryID }

// Title returns the notification title.
func (h *Handle) Title() string { return h.rec.Title() }

// Dir returns the text direction.
func (h *Handle) Dir() notification.Direction { return h.rec.Direction() }

// Lang returns the language tag.
func (h *Handle) Lang() string { return h.rec.Language() }

// Body returns the body text.
func (h *Handle) Body() string { return h.rec.Body() }

// Navigate returns the serialized navigation URL, "" when absent.
func (h *Handle) Navigate() string { return urlString(h.rec.NavigationURL()) }

// Tag returns the deduplication tag.
func (h *Handle) Tag() string { return h.rec.Tag() }

// Image returns the serialized image URL, "" when absent.
func (h *Handle) Image() string { return urlString(h.rec.ImageURL()) }

// Icon returns the serialized icon URL, "" when absent.
func (h *Handle) Icon() string { return urlString(h.rec.IconURL()) }

// Badge returns the serialized badge URL, "" when absent.
func (h *Handle) Badge() string { return urlString(h.rec.BadgeURL()) }

// Timestamp returns the timestamp in milliseconds since epoch.
func (h *Handle) Timestamp() int64 { return h.rec.Timestamp() }

// Renotify returns the renotify preference.
func (h *Handle) Renotify() bool { return h.rec.Renotify() }

// Silent returns the silent preference and whether it was supplied.
func (h *Handle) Silent() (value, ok bool) { return h.rec.Silent() }

// RequireInteraction returns the require-interaction preference.
func (h *Handle) RequireInteraction() bool { return h.rec.RequireInteraction() }

// Actions returns a fresh copy of the action list on every call, so callers
// can never reach the stored sequence.
func (h *Handle) Actions() []notification.Action { return h.rec.Actions() }

// Data deserializes the stored data payload. A blob that fails to
// deserialize yields nil, never an error.
func (h *Handle) Data() any {
	v, err := h.codec.Deserialize(h.rec.Data())
	if err != nil {
		return nil
	}
	return v
}

// Close removes the notification from the registry, emitting its close
// signal. Closing an already-removed notification is a no-op.
func (h *Handle) Close() {
	h.registry.RemoveByID(h.entryID)
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}
