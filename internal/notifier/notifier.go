// Package notifier routes validated notification records to an
// operating-system notification service. One concrete backend is selected
// per process; callers only ever see the PlatformNotifier interface.
package notifier

import (
	"context"
	"errors"

	"github.com/jmylchreest/webnotify/internal/notification"
)

// ID is a platform-assigned notification identifier.
type ID uint32

// Platform dispatch errors. These are recovered locally by the registry:
// a failed dispatch is logged, never surfaced to the caller.
var (
	// ErrBusUnavailable indicates no usable connection to the notification
	// service exists.
	ErrBusUnavailable = errors.New("notification bus unavailable")
	// ErrCallFailed indicates the service call failed or returned a
	// malformed reply.
	ErrCallFailed = errors.New("notification call failed")
)

// PlatformNotifier presents a notification record to the user through a
// platform-specific mechanism. Implementations must honour ctx cancellation
// so that an unresponsive service cannot stall the caller.
type PlatformNotifier interface {
	Notify(ctx context.Context, rec *notification.Record) (ID, error)
}
