//go:build linux

package notifier

import "log/slog"

// ForPlatform returns the notification backend for this platform. On Linux
// that is the session-bus notifier; when the session bus is unreachable it
// degrades to the logging fallback so dispatch stays best-effort.
func ForPlatform(appName string, expireTimeout int32, logger *slog.Logger) PlatformNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	bus, err := NewBusNotifier(appName, logger)
	if err != nil {
		logger.Warn("session bus unavailable, using fallback notifier", "error", err)
		return NewFallbackNotifier(logger)
	}
	bus.SetExpireTimeout(expireTimeout)
	return bus
}
