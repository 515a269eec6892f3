package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/webnotify/internal/notification"
)

const (
	// DBusInterface is the freedesktop notification interface name.
	DBusInterface = "org.freedesktop.Notifications"
	// DBusPath is the notification object path.
	DBusPath = "/org/freedesktop/Notifications"

	methodNotify               = DBusInterface + ".Notify"
	methodGetServerInformation = DBusInterface + ".GetServerInformation"
)

// ServerInfo describes the notification server reachable over the bus,
// as reported by GetServerInformation.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// BusNotifier dispatches notifications to the session-level notification
// service over D-Bus. The connection is established once at construction;
// each Notify is a single round-trip to the service.
type BusNotifier struct {
	conn          *dbus.Conn
	obj           dbus.BusObject
	appName       string
	expireTimeout int32
	logger        *slog.Logger
}

// NewBusNotifier connects to the session bus and prepares the notification
// service proxy. It returns ErrBusUnavailable (wrapped) when no session bus
// can be reached.
func NewBusNotifier(appName string, logger *slog.Logger) (*BusNotifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBusUnavailable, err)
	}
	return &BusNotifier{
		conn:          conn,
		obj:           conn.Object(DBusInterface, dbus.ObjectPath(DBusPath)),
		appName:       appName,
		expireTimeout: -1, // platform default
		logger:        logger,
	}, nil
}

// SetExpireTimeout sets the expire timeout passed to the service in
// milliseconds. -1 requests the platform default, 0 means never expire.
func (b *BusNotifier) SetExpireTimeout(ms int32) {
	b.expireTimeout = ms
}

// IsConnected reports whether a usable bus connection exists.
func (b *BusNotifier) IsConnected() bool {
	return b != nil && b.conn != nil && b.conn.Connected()
}

// Notify invokes org.freedesktop.Notifications.Notify with the record's
// title as summary. No in-place replacement is attempted at this layer, so
// replaces_id is always 0. Returns the service-assigned notification id.
func (b *BusNotifier) Notify(ctx context.Context, rec *notification.Record) (ID, error) {
	if !b.IsConnected() {
		return 0, ErrBusUnavailable
	}

	call := b.obj.CallWithContext(ctx, methodNotify, 0,
		b.appName,                 // app_name
		uint32(0),                 // replaces_id
		"",                        // app_icon
		rec.Title(),               // summary
		rec.Body(),                // body
		[]string{},                // actions
		map[string]dbus.Variant{}, // hints
		b.expireTimeout,           // expire_timeout
	)
	if call.Err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCallFailed, call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("%w: malformed reply: %v", ErrCallFailed, err)
	}

	b.logger.Debug("notification dispatched over bus", "id", id, "summary", rec.Title())
	return ID(id), nil
}

// ServerInformation queries the notification service for its identity.
func (b *BusNotifier) ServerInformation(ctx context.Context) (ServerInfo, error) {
	if !b.IsConnected() {
		return ServerInfo{}, ErrBusUnavailable
	}

	call := b.obj.CallWithContext(ctx, methodGetServerInformation, 0)
	if call.Err != nil {
		return ServerInfo{}, fmt.Errorf("%w: %v", ErrCallFailed, call.Err)
	}

	var info ServerInfo
	if err := call.Store(&info.Name, &info.Vendor, &info.Version, &info.SpecVersion); err != nil {
		return ServerInfo{}, fmt.Errorf("%w: malformed reply: %v", ErrCallFailed, err)
	}
	return info, nil
}

// Close releases the bus connection.
func (b *BusNotifier) Close() error {
	if b.conn == nil {
		return nil
	}
	return b.conn.Close()
}
