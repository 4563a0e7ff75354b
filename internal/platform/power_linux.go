//go:build linux

package platform

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// watchPower subscribes to logind's PrepareForSleep signal on the system
// bus. The signal body carries true when the system is about to suspend
// and false after it wakes.
func watchPower(ctx context.Context, events PowerEvents) error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}
	defer conn.Close()

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath("/org/freedesktop/login1"),
		dbus.WithMatchInterface("org.freedesktop.login1.Manager"),
		dbus.WithMatchMember("PrepareForSleep"),
	); err != nil {
		return fmt.Errorf("add match for PrepareForSleep: %w", err)
	}

	signals := make(chan *dbus.Signal, 10)
	conn.Signal(signals)

	for {
		select {
		case sig := <-signals:
			if sig.Name != "org.freedesktop.login1.Manager.PrepareForSleep" || len(sig.Body) == 0 {
				continue
			}
			sleeping, _ := sig.Body[0].(bool)
			if sleeping {
				if events.OnSuspend != nil {
					events.OnSuspend()
				}
			} else {
				if events.OnResume != nil {
					events.OnResume()
				}
			}
		case <-ctx.Done():
			return nil
		}
	}
}
