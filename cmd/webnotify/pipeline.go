package main

import (
	"net/url"
	"time"

	"github.com/jmylchreest/webnotify/internal/config"
	"github.com/jmylchreest/webnotify/internal/host"
	"github.com/jmylchreest/webnotify/internal/notification"
	"github.com/jmylchreest/webnotify/internal/notifier"
	"github.com/jmylchreest/webnotify/internal/registry"
)

// cliEnvironment is the settings collaborator for CLI-initiated
// notifications. The CLI always acts as an ordinary (window-like) context.
type cliEnvironment struct {
	origin  notification.Origin
	baseURL *url.URL
}

func (e *cliEnvironment) Origin() notification.Origin { return e.origin }
func (e *cliEnvironment) APIBaseURL() *url.URL        { return e.baseURL }
func (e *cliEnvironment) CurrentWallTime() time.Time  { return time.Now() }
func (e *cliEnvironment) Scope() host.GlobalScope     { return host.ScopeWindow }

// pipeline bundles the full notification path: environment, factory,
// registry, platform backend, host.
type pipeline struct {
	registry *registry.Registry
	host     *host.Host
}

// newPipeline builds the pipeline from cfg. The platform backend is chosen
// once here; everything downstream only sees the PlatformNotifier interface.
func newPipeline(cfg *config.Config, origin string, baseURL *url.URL) (*pipeline, error) {
	backend := notifier.ForPlatform(cfg.App.Name, cfg.Notifications.ExpireTimeoutMS, logger)

	reg := registry.NewRegistry(backend, logger)
	reg.SetReplacementSupport(cfg.Notifications.SupportsReplacement)

	timeout, err := cfg.Dispatch.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	reg.SetDispatchTimeout(timeout)

	factory := notification.NewFactory(notification.JSONCodec{}, cfg.Notifications.MaxActions)
	env := &cliEnvironment{origin: notification.Origin(origin), baseURL: baseURL}

	return &pipeline{
		registry: reg,
		host:     host.NewHost(env, factory, reg, logger),
	}, nil
}
