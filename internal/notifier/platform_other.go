//go:build !linux

package notifier

import "log/slog"

// ForPlatform returns the notification backend for this platform. No
// integration exists here, so notifications are logged via the fallback.
func ForPlatform(_ string, _ int32, logger *slog.Logger) PlatformNotifier {
	return NewFallbackNotifier(logger)
}
