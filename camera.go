package texblit

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Positioner is anything with a world position a camera can track.
type Positioner interface {
	Position() (x, y float64)
}

// Position returns v's coordinates, so a *Vec2 can be followed directly and
// the camera sees every later update to it.
func (v Vec2) Position() (x, y float64) {
	return v.X, v.Y
}

// scrollAnim tweens the camera toward a ScrollTo target, one tween per axis.
type scrollAnim struct {
	axes [2]*gween.Tween
	pos  [2]float32
	done [2]bool
}

func newScrollAnim(from, to Vec2, duration float32, fn ease.TweenFunc) *scrollAnim {
	return &scrollAnim{
		axes: [2]*gween.Tween{
			gween.New(float32(from.X), float32(to.X), duration, fn),
			gween.New(float32(from.Y), float32(to.Y), duration, fn),
		},
		pos: [2]float32{float32(from.X), float32(from.Y)},
	}
}

// advance steps the unfinished axes by dt and reports whether both are done.
func (a *scrollAnim) advance(dt float32) bool {
	for i, tw := range a.axes {
		if !a.done[i] {
			a.pos[i], a.done[i] = tw.Update(dt)
		}
	}
	return a.done[0] && a.done[1]
}

// Camera is the anchor for relative blits. Game code moves it; the Renderer
// only reads it.
type Camera struct {
	// X and Y are the world-space position drawn at the screen center.
	X, Y float64

	// ViewWidth and ViewHeight are the logical size of the visible area, used
	// for bounds clamping.
	ViewWidth, ViewHeight float64

	followTarget  Positioner
	followOffsetX float64
	followOffsetY float64
	followLerp    float64

	// BoundsEnabled clamps the camera so the visible area stays within Bounds.
	BoundsEnabled bool
	// Bounds is the world-space rectangle the camera is clamped to. World Y
	// points up, so Bounds.Y is the bottom edge.
	Bounds Rect

	scrollTween *scrollAnim
}

// NewCamera creates a camera at the origin viewing a viewW x viewH area.
func NewCamera(viewW, viewH float64) *Camera {
	return &Camera{ViewWidth: viewW, ViewHeight: viewH}
}

// Follow makes the camera track target with the given offset and lerp factor.
// A lerp of 1.0 snaps immediately; lower values give smoother following.
func (c *Camera) Follow(target Positioner, offsetX, offsetY, lerp float64) {
	c.followTarget = target
	c.followOffsetX = offsetX
	c.followOffsetY = offsetY
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// Following reports whether the camera has a follow target.
func (c *Camera) Following() bool {
	return c.followTarget != nil
}

// ScrollTo animates the camera to the given world position over duration
// seconds. A nil easeFn scrolls linearly.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scrollTween = newScrollAnim(Vec2{X: c.X, Y: c.Y}, Vec2{X: x, Y: y}, duration, easeFn)
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// SetBounds enables camera bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables camera bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// Update advances follow, scroll and bounds clamping by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.followTarget != nil {
		tx, ty := c.followTarget.Position()
		c.X += (tx + c.followOffsetX - c.X) * c.followLerp
		c.Y += (ty + c.followOffsetY - c.Y) * c.followLerp
	}

	if a := c.scrollTween; a != nil {
		finished := a.advance(dt)
		c.X, c.Y = float64(a.pos[0]), float64(a.pos[1])
		if finished {
			c.scrollTween = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds keeps the visible area inside Bounds.
func (c *Camera) clampToBounds() {
	c.X = clampAxis(c.X, c.Bounds.X, c.Bounds.Width, c.ViewWidth)
	c.Y = clampAxis(c.Y, c.Bounds.Y, c.Bounds.Height, c.ViewHeight)
}

// clampAxis keeps a view of extent view, centered on pos, within
// [lo, lo+size]. A range no wider than the view pins pos to its middle.
func clampAxis(pos, lo, size, view float64) float64 {
	if size <= view {
		return lo + size/2
	}
	half := view / 2
	return math.Min(math.Max(pos, lo+half), lo+size-half)
}
