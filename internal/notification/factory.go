package notification

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Validation errors.
var (
	// ErrRenotifyRequiresTag is returned when renotify is requested without
	// a deduplication tag to renotify against.
	ErrRenotifyRequiresTag = errors.New("tag must not be empty when renotify is true")
	// ErrDataNotSerializable is returned when the data payload cannot be
	// serialized for storage.
	ErrDataNotSerializable = errors.New("data payload is not serializable")
)

// Settings supplies the calling context's identity and clock. It mirrors the
// relevant slice of an environment settings object.
type Settings interface {
	// Origin returns the opaque origin of the calling context.
	Origin() Origin
	// APIBaseURL returns the base URL relative URL members resolve against.
	APIBaseURL() *url.URL
	// CurrentWallTime returns the context's current wall-clock time.
	CurrentWallTime() time.Time
}

// Factory validates and normalizes raw title+options input into Records.
// It is a pure transformation: no side effects, no retained state beyond
// its configuration.
type Factory struct {
	codec      StorageCodec
	maxActions int
}

// NewFactory creates a Factory. maxActions is the platform-supported maximum
// number of actions per notification; excess actions are silently dropped.
// A nil codec falls back to JSONCodec.
func NewFactory(codec StorageCodec, maxActions int) *Factory {
	if codec == nil {
		codec = JSONCodec{}
	}
	if maxActions < 0 {
		maxActions = 0
	}
	return &Factory{codec: codec, maxActions: maxActions}
}

// Codec returns the storage codec used for the opaque data payload.
func (f *Factory) Codec() StorageCodec { return f.codec }

// MaxActions returns the configured action cap.
func (f *Factory) MaxActions() int { return f.maxActions }

// Create validates and normalizes title+options into an immutable Record.
//
// URL members (navigate, image, icon, badge, and per-action navigate/icon)
// are resolved against baseURL; a malformed or unresolvable value leaves the
// corresponding field absent and never fails the call. The timestamp falls
// back to fallbackTimestamp (milliseconds since epoch) when not supplied.
func (f *Factory) Create(title string, opts Options, origin Origin, baseURL *url.URL, fallbackTimestamp int64) (*Record, error) {
	if opts.Renotify && opts.Tag == "" {
		return nil, ErrRenotifyRequiresTag
	}

	data, err := f.codec.SerializeForStorage(opts.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataNotSerializable, err)
	}

	rec := &Record{
		title:              title,
		direction:          opts.Dir,
		language:           opts.Lang,
		body:               opts.Body,
		tag:                opts.Tag,
		origin:             origin,
		data:               data,
		renotify:           opts.Renotify,
		requireInteraction: opts.RequireInteraction,
	}

	if opts.Navigate != nil {
		rec.navigationURL = resolveURL(baseURL, *opts.Navigate)
	}
	if opts.Image != nil {
		rec.imageURL = resolveURL(baseURL, *opts.Image)
	}
	if opts.Icon != nil {
		rec.iconURL = resolveURL(baseURL, *opts.Icon)
	}
	if opts.Badge != nil {
		rec.badgeURL = resolveURL(baseURL, *opts.Badge)
	}

	if opts.Timestamp != nil {
		rec.timestamp = *opts.Timestamp
	} else {
		rec.timestamp = fallbackTimestamp
	}

	if opts.Silent != nil {
		silent := *opts.Silent
		rec.silent = &silent
	}

	for _, entry := range opts.Actions {
		if len(rec.actions) >= f.maxActions {
			break
		}
		action := Action{name: entry.Name, title: entry.Title}
		if entry.Navigate != nil {
			action.navigationURL = resolveURL(baseURL, *entry.Navigate)
		}
		if entry.Icon != nil {
			action.iconURL = resolveURL(baseURL, *entry.Icon)
		}
		rec.actions = append(rec.actions, action)
	}

	return rec, nil
}

// CreateWithSettings reads origin, base URL and wall time from settings and
// forwards to Create. The wall time is rounded to whole milliseconds.
func (f *Factory) CreateWithSettings(title string, opts Options, settings Settings) (*Record, error) {
	return f.Create(title, opts, settings.Origin(), settings.APIBaseURL(), settings.CurrentWallTime().UnixMilli())
}

// resolveURL completes raw against base. It returns nil when raw cannot be
// parsed, or when raw is relative and no base is available.
func resolveURL(base *url.URL, raw string) *url.URL {
	ref, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	if base == nil {
		if ref.IsAbs() {
			return ref
		}
		return nil
	}
	return base.ResolveReference(ref)
}
