// Package notification defines the validated notification record and the
// factory that produces it from raw caller input.
package notification

import (
	"fmt"
	"net/url"
)

// Direction is the text direction requested for a notification.
type Direction int

const (
	// DirectionAuto lets the platform pick the text direction.
	DirectionAuto Direction = iota
	// DirectionLTR forces left-to-right rendering.
	DirectionLTR
	// DirectionRTL forces right-to-left rendering.
	DirectionRTL
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionAuto:
		return "auto"
	case DirectionLTR:
		return "ltr"
	case DirectionRTL:
		return "rtl"
	default:
		return "unknown"
	}
}

// ParseDirection parses a direction name ("auto", "ltr", "rtl").
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "auto":
		return DirectionAuto, nil
	case "ltr":
		return DirectionLTR, nil
	case "rtl":
		return DirectionRTL, nil
	default:
		return DirectionAuto, fmt.Errorf("unknown direction %q", s)
	}
}

// Origin identifies the requesting site. It is opaque to this subsystem:
// it is only ever compared for equality as part of the deduplication key.
type Origin string

// String returns the origin's serialized form.
func (o Origin) String() string { return string(o) }

// ActionOptions is the raw per-action input supplied by a caller.
type ActionOptions struct {
	Name     string
	Title    string
	Navigate *string
	Icon     *string
}

// Options is the raw options record supplied by a caller alongside a title.
// Optional members are pointers; nil means "not supplied".
type Options struct {
	Dir                Direction
	Lang               string
	Body               string
	Navigate           *string
	Tag                string
	Image              *string
	Icon               *string
	Badge              *string
	Timestamp          *int64 // milliseconds since epoch
	Renotify           bool
	Silent             *bool
	RequireInteraction bool
	Data               any
	Actions            []ActionOptions
}

// Action is a validated notification action. Immutable once created.
type Action struct {
	name          string
	title         string
	navigationURL *url.URL
	iconURL       *url.URL
}

// Name returns the action's identifier.
func (a Action) Name() string { return a.name }

// Title returns the action's label.
func (a Action) Title() string { return a.title }

// NavigationURL returns the action's resolved navigation URL, or nil.
func (a Action) NavigationURL() *url.URL { return cloneURL(a.navigationURL) }

// IconURL returns the action's resolved icon URL, or nil.
func (a Action) IconURL() *url.URL { return cloneURL(a.iconURL) }

// Record is the immutable, validated representation of a notification
// request. Records are created by the Factory and never mutated afterwards;
// superseding a notification always produces a new Record.
type Record struct {
	title              string
	direction          Direction
	language           string
	body               string
	tag                string
	origin             Origin
	navigationURL      *url.URL
	imageURL           *url.URL
	iconURL            *url.URL
	badgeURL           *url.URL
	data               []byte
	timestamp          int64
	renotify           bool
	silent             *bool
	requireInteraction bool
	actions            []Action
}

// Title returns the notification title.
func (r *Record) Title() string { return r.title }

// Direction returns the requested text direction.
func (r *Record) Direction() Direction { return r.direction }

// Language returns the notification language tag.
func (r *Record) Language() string { return r.language }

// Body returns the notification body text.
func (r *Record) Body() string { return r.body }

// Tag returns the deduplication tag. An empty tag means "no dedup key".
func (r *Record) Tag() string { return r.tag }

// Origin returns the opaque origin of the requesting site.
func (r *Record) Origin() Origin { return r.origin }

// NavigationURL returns the resolved navigation URL, or nil if absent.
func (r *Record) NavigationURL() *url.URL { return cloneURL(r.navigationURL) }

// ImageURL returns the resolved image URL, or nil if absent.
func (r *Record) ImageURL() *url.URL { return cloneURL(r.imageURL) }

// IconURL returns the resolved icon URL, or nil if absent.
func (r *Record) IconURL() *url.URL { return cloneURL(r.iconURL) }

// BadgeURL returns the resolved badge URL, or nil if absent.
func (r *Record) BadgeURL() *url.URL { return cloneURL(r.badgeURL) }

// Data returns a copy of the opaque serialized data blob.
func (r *Record) Data() []byte {
	if r.data == nil {
		return nil
	}
	return append([]byte(nil), r.data...)
}

// Timestamp returns the notification timestamp in milliseconds since epoch.
func (r *Record) Timestamp() int64 { return r.timestamp }

// Renotify returns the renotify preference.
func (r *Record) Renotify() bool { return r.renotify }

// Silent returns the silent preference and whether it was supplied at all.
func (r *Record) Silent() (value, ok bool) {
	if r.silent == nil {
		return false, false
	}
	return *r.silent, true
}

// RequireInteraction returns the require-interaction preference.
func (r *Record) RequireInteraction() bool { return r.requireInteraction }

// Actions returns a copy of the validated action list, in input order.
func (r *Record) Actions() []Action {
	if len(r.actions) == 0 {
		return nil
	}
	return append([]Action(nil), r.actions...)
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	clone := *u
	if u.User != nil {
		user := *u.User
		clone.User = &user
	}
	return &clone
}
