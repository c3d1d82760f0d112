package kiosk

import "testing"

func TestLayoutFirstDeviceAtOrigin(t *testing.T) {
	var l OutputLayout
	d := newFakeDevice("virtual-0", Mode{Width: 1920, Height: 1080})
	d.cur = d.modes[0]

	l.AddAuto(d)

	x, y := l.Coords(d)
	if x != 0 || y != 0 {
		t.Errorf("Coords() = (%v, %v), want (0, 0)", x, y)
	}
}

func TestLayoutSecondDevicePlacedToTheRight(t *testing.T) {
	var l OutputLayout
	a := newFakeDevice("a", Mode{Width: 1920, Height: 1080})
	a.cur = a.modes[0]
	b := newFakeDevice("b", Mode{Width: 800, Height: 600})
	b.cur = b.modes[0]

	l.AddAuto(a)
	l.AddAuto(b)

	x, y := l.Coords(b)
	if x != 1920 || y != 0 {
		t.Errorf("Coords(b) = (%v, %v), want (1920, 0)", x, y)
	}
}

func TestLayoutScaledDeviceOccupiesLogicalSpace(t *testing.T) {
	var l OutputLayout
	a := newFakeDevice("hidpi", Mode{Width: 3840, Height: 2160})
	a.cur = a.modes[0]
	a.scale = 2
	b := newFakeDevice("b", Mode{Width: 800, Height: 600})
	b.cur = b.modes[0]

	l.AddAuto(a)
	l.AddAuto(b)

	// 3840 physical at scale 2 is 1920 logical.
	x, _ := l.Coords(b)
	if x != 1920 {
		t.Errorf("Coords(b) x = %v, want 1920", x)
	}
}

func TestLayoutRemove(t *testing.T) {
	var l OutputLayout
	d := newFakeDevice("virtual-0", Mode{Width: 1920, Height: 1080})
	d.cur = d.modes[0]

	l.AddAuto(d)
	l.Remove(d)

	if l.Len() != 0 {
		t.Errorf("Len() = %d after remove, want 0", l.Len())
	}
	if x, y := l.Coords(d); x != 0 || y != 0 {
		t.Errorf("Coords of removed device = (%v, %v), want origin", x, y)
	}

	l.Remove(d) // absent: no-op
}

func TestLayoutAddAutoTwiceRepositions(t *testing.T) {
	var l OutputLayout
	d := newFakeDevice("virtual-0", Mode{Width: 1920, Height: 1080})
	d.cur = d.modes[0]

	l.AddAuto(d)
	l.AddAuto(d)

	if l.Len() != 1 {
		t.Errorf("Len() = %d after double add, want 1", l.Len())
	}
	if x, _ := l.Coords(d); x != 0 {
		t.Errorf("Coords x = %v after double add, want 0", x)
	}
}
