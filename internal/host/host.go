// Package host exposes the notification subsystem to a scripting host: the
// top-level construct entry point, the calling-context restriction, and the
// read-only handle wrapped around a validated record.
package host

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jmylchreest/webnotify/internal/notification"
	"github.com/jmylchreest/webnotify/internal/registry"
)

// Construction errors.
var (
	// ErrRestrictedContext is returned when the calling context forbids
	// notification construction.
	ErrRestrictedContext = errors.New("notifications cannot be constructed in this context")
	// ErrActionsNotAllowed is returned when actions are supplied to the
	// public constructor. Actions may only be produced through the
	// lower-level creation path.
	ErrActionsNotAllowed = errors.New("actions are not allowed at construction")
)

// GlobalScope classifies the calling execution context.
type GlobalScope int

const (
	// ScopeWindow is an ordinary document context.
	ScopeWindow GlobalScope = iota
	// ScopeDedicatedWorker is a dedicated worker context.
	ScopeDedicatedWorker
	// ScopeServiceWorker is a service-worker-like context, which forbids
	// constructing notifications directly.
	ScopeServiceWorker
)

// String returns the scope name.
func (s GlobalScope) String() string {
	switch s {
	case ScopeWindow:
		return "window"
	case ScopeDedicatedWorker:
		return "dedicated-worker"
	case ScopeServiceWorker:
		return "service-worker"
	default:
		return "unknown"
	}
}

// NotificationsAllowed reports whether this scope may construct
// notifications.
func (s GlobalScope) NotificationsAllowed() bool {
	return s != ScopeServiceWorker
}

// Environment is the settings collaborator for a calling context: identity,
// clock, and context kind.
type Environment interface {
	notification.Settings
	// Scope returns the kind of the calling execution context.
	Scope() GlobalScope
}

// ResourceLoader is the suspension point between record creation and the
// show algorithm. Fetching of image/icon/badge resources is not implemented;
// implementations must complete (or skip) any fetch before the record is
// handed to the registry so a notification is never displayed ahead of its
// resources.
type ResourceLoader interface {
	Fetch(ctx context.Context, rec *notification.Record) error
}

// NopLoader skips resource fetching entirely.
type NopLoader struct{}

// Fetch does nothing.
func (NopLoader) Fetch(context.Context, *notification.Record) error { return nil }

// Host wires an environment, factory and registry into the public construct
// operation.
type Host struct {
	env      Environment
	factory  *notification.Factory
	registry *registry.Registry
	loader   ResourceLoader
	logger   *slog.Logger
}

// NewHost creates a Host. Resource loading defaults to NopLoader.
func NewHost(env Environment, factory *notification.Factory, reg *registry.Registry, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		env:      env,
		factory:  factory,
		registry: reg,
		loader:   NopLoader{},
		logger:   logger,
	}
}

// SetResourceLoader replaces the resource loading step.
func (h *Host) SetResourceLoader(loader ResourceLoader) {
	if loader == nil {
		loader = NopLoader{}
	}
	h.loader = loader
}

// Construct is the top-level entry point: it validates the calling context,
// creates a record from title+options with the environment's settings, runs
// the show algorithm, and returns a read-only handle.
//
// A non-empty options.Actions fails with ErrActionsNotAllowed; actions are
// only produced via Factory.Create directly.
func (h *Host) Construct(ctx context.Context, title string, opts notification.Options) (*Handle, error) {
	if !h.env.Scope().NotificationsAllowed() {
		return nil, ErrRestrictedContext
	}
	if len(opts.Actions) > 0 {
		return nil, ErrActionsNotAllowed
	}

	rec, err := h.factory.CreateWithSettings(title, opts, h.env)
	if err != nil {
		return nil, err
	}

	// Resource fetch failures do not abort display; the affected resource
	// is simply missing from the presentation.
	if err := h.loader.Fetch(ctx, rec); err != nil {
		h.logger.Warn("notification resource fetch failed", "title", rec.Title(), "error", err)
	}

	entryID := h.registry.Show(rec)

	return &Handle{
		rec:      rec,
		entryID:  entryID,
		codec:    h.factory.Codec(),
		registry: h.registry,
	}, nil
}
