package editor

import (
	"math"

	"twibbon-campaign/models"
)

// GestureState is the pointer interaction currently driving the transform
type GestureState int

const (
	GestureIdle GestureState = iota
	GestureDragging
	GesturePinching
)

func (s GestureState) String() string {
	switch s {
	case GestureDragging:
		return "dragging"
	case GesturePinching:
		return "pinching"
	default:
		return "idle"
	}
}

// Wheel zoom steps
const (
	wheelZoomOut = 0.9
	wheelZoomIn  = 1.1
)

// Point is a contact point in client coordinates
type Point struct {
	X float64
	Y float64
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Engine turns pointer, touch and wheel input into a running photo transform.
// It is not safe for concurrent use; callers serialise input the way the UI event loop does.
type Engine struct {
	transform models.Transform
	state     GestureState
	hovering  bool

	last     Point   // drag anchor, updated on every move
	lastDist float64 // pinch baseline, updated on every move

	subs   map[uint64]func(models.Transform)
	nextID uint64
}

// NewEngine creates an engine with the default transform
func NewEngine() *Engine {
	return &Engine{
		transform: models.DefaultTransform(),
		subs:      make(map[uint64]func(models.Transform)),
	}
}

// Transform returns a snapshot of the current transform
func (e *Engine) Transform() models.Transform {
	return e.transform
}

// State returns the current gesture state
func (e *Engine) State() GestureState {
	return e.state
}

// Active reports whether a drag or pinch is in progress
func (e *Engine) Active() bool {
	return e.state != GestureIdle
}

// SetHover records whether the pointer is over the preview region.
// Wheel zoom is only honoured while hovering.
func (e *Engine) SetHover(hovering bool) {
	e.hovering = hovering
}

// Start begins a gesture. One point arms a drag, two or more arm a pinch
// from the first two. The transform is kept as is.
func (e *Engine) Start(points []Point) {
	switch {
	case len(points) == 0:
		return
	case len(points) == 1:
		e.state = GestureDragging
		e.last = points[0]
		e.lastDist = 0
	default:
		e.state = GesturePinching
		e.lastDist = distance(points[0], points[1])
	}
}

// Move applies one input frame to the transform
func (e *Engine) Move(points []Point) {
	switch e.state {
	case GestureDragging:
		if len(points) == 0 {
			return
		}
		p := points[0]
		e.transform.X += p.X - e.last.X
		e.transform.Y += p.Y - e.last.Y
		e.last = p
		e.notify()

	case GesturePinching:
		if len(points) < 2 {
			return
		}
		d := distance(points[0], points[1])
		if d == 0 {
			// coincident points: skip the frame, keep the old baseline
			return
		}
		if e.lastDist == 0 {
			e.lastDist = d
			return
		}
		e.transform.Scale = models.ClampScale(e.transform.Scale * d / e.lastDist)
		e.lastDist = d
		e.notify()
	}
}

// End is called with the contact points that remain after a release
func (e *Engine) End(remaining []Point) {
	switch {
	case len(remaining) == 0:
		e.state = GestureIdle
		e.last = Point{}
		e.lastDist = 0
	case len(remaining) == 1:
		if e.state == GesturePinching {
			e.state = GestureDragging
			e.lastDist = 0
		}
		e.last = remaining[0]
	default:
		if e.state == GesturePinching {
			e.lastDist = distance(remaining[0], remaining[1])
		}
	}
}

// Wheel zooms by a fixed step; positive deltaY zooms out
func (e *Engine) Wheel(deltaY float64) {
	if !e.hovering || deltaY == 0 {
		return
	}
	step := wheelZoomIn
	if deltaY > 0 {
		step = wheelZoomOut
	}
	e.transform.Scale = models.ClampScale(e.transform.Scale * step)
	e.notify()
}

// Reset restores the default transform
func (e *Engine) Reset() {
	e.transform = models.DefaultTransform()
	e.notify()
}

// Subscribe registers fn to be called after every transform change.
// The returned subscription must be closed when the observer goes away.
func (e *Engine) Subscribe(fn func(models.Transform)) *Subscription {
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	return &Subscription{release: func() { delete(e.subs, id) }}
}

// Close releases every subscription still attached to the engine
func (e *Engine) Close() {
	for id := range e.subs {
		delete(e.subs, id)
	}
}

func (e *Engine) notify() {
	t := e.transform
	for _, fn := range e.subs {
		fn(t)
	}
}
