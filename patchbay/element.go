package patchbay

// Point is a position in presentation coordinates.
type Point struct {
	X, Y float64
}

// CSS-style classes applied to jack elements.
const (
	ClassJack          = "audio-jack"
	ClassOutput        = "audio-jack-output"
	ClassInput         = "audio-jack-input"
	ClassConnected     = "connected"
	ClassPending       = "pending"
	ClassPendingTarget = "pending-target"
)

// Element is the presentation handle of a jack. The Bay only queries its
// on-screen center and toggles classes and its title.
type Element interface {
	Center() Point
	AddClass(names ...string)
	RemoveClass(names ...string)
	SetTitle(title string)
}

// Handlers are the gesture callbacks a Bay attaches to a jack element.
// Secondary is nil for output jacks.
type Handlers struct {
	// Activate is the primary gesture: click or tap.
	Activate func()
	// Secondary is the context gesture: right click or long press.
	Secondary func()
}

// Binder is implemented by elements that dispatch gestures.
type Binder interface {
	Bind(h Handlers)
	Unbind()
}

// Overlay draws cables above the rack.
type Overlay interface {
	AddCable(id string, c Curve)
	UpdateCable(id string, c Curve)
	RemoveCable(id string)
	ShowPhantom()
	MovePhantom(c Curve)
	HidePhantom()
}

// FrameScheduler runs fn once before the next display frame. fn may be
// called from another goroutine.
type FrameScheduler interface {
	RequestFrame(fn func())
}

type nopOverlay struct{}

func (nopOverlay) AddCable(string, Curve)    {}
func (nopOverlay) UpdateCable(string, Curve) {}
func (nopOverlay) RemoveCable(string)        {}
func (nopOverlay) ShowPhantom()              {}
func (nopOverlay) MovePhantom(Curve)         {}
func (nopOverlay) HidePhantom()              {}
