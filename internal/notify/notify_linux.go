//go:build linux

package notify

import "github.com/godbus/dbus/v5"

// send posts a Freedesktop.org notification over the session bus.
func send(title, body string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		AppName, uint32(0), "", title, body, []string{}, map[string]dbus.Variant{}, int32(5000))
	return call.Err
}
