package kiosk

// ContentKind tags the kind of content a view carries. Dispatch on the tag
// is explicit: a kind this version does not know is reported and skipped
// rather than half-handled.
type ContentKind uint8

const (
	// ContentXDGShell is a shell-protocol-managed toplevel: a root surface
	// plus nested subsurfaces and popups.
	ContentXDGShell ContentKind = iota
)

// View is one movable, stackable unit of application content. The
// compositor reads views; creating, positioning, and stacking them is the
// embedding application's job.
//
// X and Y position the view's root surface in logical layout coordinates
// relative to the output's layout origin.
type View struct {
	X, Y float64

	Kind  ContentKind
	Shell ShellSurface
}

// ForEachSurface visits every drawable surface of the view's content tree
// in the content's stable order, passing each surface's offset relative to
// the view's root surface in logical pixels.
//
// The traversal never mutates the view. An unrecognized content kind logs
// at error level and visits nothing, keeping one bad view from taking the
// compositor down.
func (v *View) ForEachSurface(fn func(s Surface, sx, sy int)) {
	switch v.Kind {
	case ContentXDGShell:
		if v.Shell == nil {
			return
		}
		v.Shell.ForEachSurface(fn)
	default:
		Logger().Error("view: unrecognized content kind", "kind", uint8(v.Kind))
	}
}

// ViewStack is the ordered set of views on the output, newest first. The
// compositor iterates it back to front so the most recently raised view
// paints last, on top.
//
// Not safe for concurrent use; mutate it from the event loop.
type ViewStack struct {
	views []*View
}

// Insert adds a newly mapped view at the top of the stack.
func (s *ViewStack) Insert(v *View) {
	s.views = append([]*View{v}, s.views...)
}

// Raise moves an existing view to the top of the stack. A view not in the
// stack is inserted.
func (s *ViewStack) Raise(v *View) {
	s.Remove(v)
	s.Insert(v)
}

// Remove takes a view out of the stack. Removing a view that is not in the
// stack is a no-op.
func (s *ViewStack) Remove(v *View) {
	for i, cur := range s.views {
		if cur == v {
			s.views = append(s.views[:i], s.views[i+1:]...)
			return
		}
	}
}

// Views returns the stack contents newest first. The returned slice is a
// snapshot; mutating the stack does not affect it.
func (s *ViewStack) Views() []*View {
	out := make([]*View, len(s.views))
	copy(out, s.views)
	return out
}

// Len returns the number of stacked views.
func (s *ViewStack) Len() int {
	return len(s.views)
}
