package kiosk

import "time"

// Output binds the server to its claimed device. It exists from the moment
// a device is claimed until the device is removed; a kiosk has at most one.
//
// The Output owns the device's signal subscriptions and cancels them on
// teardown, so no handler can fire into a released record.
type Output struct {
	server *Server
	dev    Device

	frameSub  Subscription
	removeSub Subscription

	destroyed bool
}

// Device returns the claimed device.
func (o *Output) Device() Device {
	return o.dev
}

// handleNewDevice claims the first advertised device and wires the output
// up: mode, signals, layout placement, cursor. After the claim the server
// stops listening for further devices, which is what makes the compositor
// single-output.
func (s *Server) handleNewDevice(d Device) {
	if modes := d.Modes(); len(modes) > 0 {
		// Pick the last advertised mode until configurable modes exist.
		mode := modes[len(modes)-1]
		if err := d.SetMode(mode); err != nil {
			Logger().Error("output: cannot set mode",
				"device", d.Name(), "width", mode.Width, "height", mode.Height, "error", err)
		}
	}

	o := &Output{server: s, dev: d}
	o.frameSub = d.OnFrame(o.handleFrame)
	o.removeSub = d.OnRemove(o.handleRemove)
	s.output = o

	s.layout.AddAuto(d)

	// One static output is all a kiosk uses; later devices are ignored.
	s.newDeviceSub.Cancel()

	s.seat.attachDevice(d)

	w, h := d.Size()
	Logger().Info("output: claimed device",
		"device", d.Name(), "width", w, "height", h, "scale", d.Scale())
}

func (o *Output) handleFrame(now time.Time) {
	o.server.renderOutput(o, now)
}

func (o *Output) handleRemove() {
	o.destroy()
}

// destroy releases the claim: cancels both subscriptions, drops the device
// from the layout, clears the server's output slot, and terminates the
// event loop. Losing the only display ends a kiosk session; a supervisor
// restarts the process when a display comes back.
//
// Idempotent: a second destroy finds nothing left to release.
func (o *Output) destroy() {
	if o.destroyed {
		return
	}
	o.destroyed = true

	o.frameSub.Cancel()
	o.removeSub.Cancel()
	o.server.layout.Remove(o.dev)
	o.server.output = nil

	Logger().Info("output: device removed, terminating", "device", o.dev.Name())
	o.server.loop.Terminate()
}
