package texblit

import "math"

const defaultCommandCap = 1024

// RenderCommand is a single textured quad queued during a frame, in centered
// logical coordinates (origin at the screen center, Y up).
type RenderCommand struct {
	Texture *Texture
	// X, Y is the bottom-left corner; W, H the destination size.
	X, Y, W, H float64
	// U0, V0 - U1, V1 is the normalized texture rectangle.
	U0, V0, U1, V1 float64
	Color          Color
}

// Renderer turns blit requests into device draw calls. It resolves relative
// (camera anchored) and absolute (screen anchored) positions against its
// Surface, culls relative blits that cannot be visible, and submits queued
// commands on Flush.
//
// A Renderer is used from the rendering goroutine only.
type Renderer struct {
	dev     Device
	surface *Surface
	camera  *Camera

	guiOffset Vec2

	commands []RenderCommand
	quadBuf  []Quad
	culled   int
	stats    FrameStats
	debug    bool
}

// NewRenderer creates a renderer drawing to dev through surface.
func NewRenderer(dev Device, surface *Surface) *Renderer {
	return &Renderer{
		dev:      dev,
		surface:  surface,
		commands: make([]RenderCommand, 0, defaultCommandCap),
	}
}

// Surface returns the render surface.
func (r *Renderer) Surface() *Surface {
	return r.surface
}

// SetCamera binds the camera relative blits are anchored to. A nil camera
// anchors them at the world origin.
func (r *Renderer) SetCamera(cam *Camera) {
	r.camera = cam
}

// Camera returns the bound camera.
func (r *Renderer) Camera() *Camera {
	return r.camera
}

// SetGUIOffset shifts every relative blit, keeping the camera target centered
// in the part of the screen the GUI leaves free.
func (r *Renderer) SetGUIOffset(x, y float64) {
	r.guiOffset = Vec2{X: x, Y: y}
}

// GUIOffset returns the current GUI offset.
func (r *Renderer) GUIOffset() Vec2 {
	return r.guiOffset
}

// ResetViewport restores the surface's default projection.
func (r *Renderer) ResetViewport() {
	r.surface.ResetViewport()
}

// Commands returns the commands queued since the last Flush. The returned
// slice MUST NOT be mutated.
func (r *Renderer) Commands() []RenderCommand {
	return r.commands
}

// RelativeToScreen resolves the bottom-left corner of a sprite of size
// sw x sh centered on world position (wx, wy). visible is false when the
// sprite lies entirely beyond the screen edges.
func (r *Renderer) RelativeToScreen(wx, wy, sw, sh float64) (x, y float64, visible bool) {
	var camX, camY float64
	if r.camera != nil {
		camX, camY = r.camera.X, r.camera.Y
	}
	x = wx - camX - sw/2 + r.guiOffset.X
	y = wy - camY - sh/2 + r.guiOffset.Y
	if math.Abs(x) > r.surface.w/2+sw || math.Abs(y) > r.surface.h/2+sh {
		return x, y, false
	}
	return x, y, true
}

// AbsoluteToScreen converts screen coordinates (bottom-left origin) to the
// centered space.
func (r *Renderer) AbsoluteToScreen(sx, sy float64) (x, y float64) {
	return sx - r.surface.w/2, sy - r.surface.h/2
}

// BlitRelative draws sprite cell (col, row) of t centered on world position
// (wx, wy) relative to the camera. A zero Color draws unmodulated.
func (r *Renderer) BlitRelative(t *Texture, wx, wy float64, col, row int, c Color) {
	if !drawable(t) {
		return
	}
	x, y, visible := r.RelativeToScreen(wx, wy, t.sw, t.sh)
	if !visible {
		r.culled++
		return
	}
	tx, ty := t.SpriteUV(col, row)
	r.push(t, x, y, t.sw, t.sh, tx, ty, c)
}

// BlitAbsolute draws sprite cell (col, row) of t with its bottom-left corner
// at screen position (sx, sy). No camera and no culling apply.
func (r *Renderer) BlitAbsolute(t *Texture, sx, sy float64, col, row int, c Color) {
	if !drawable(t) {
		return
	}
	x, y := r.AbsoluteToScreen(sx, sy)
	tx, ty := t.SpriteUV(col, row)
	r.push(t, x, y, t.sw, t.sh, tx, ty, c)
}

// BlitScaled draws the first sprite cell of t stretched to w x h at screen
// position (sx, sy).
func (r *Renderer) BlitScaled(t *Texture, sx, sy, w, h float64, c Color) {
	if !drawable(t) {
		return
	}
	x, y := r.AbsoluteToScreen(sx, sy)
	r.push(t, x, y, w, h, 0, 0, c)
}

// BlitStatic draws the first sprite cell of t at its natural size at screen
// position (sx, sy).
func (r *Renderer) BlitStatic(t *Texture, sx, sy float64, c Color) {
	if !drawable(t) {
		return
	}
	x, y := r.AbsoluteToScreen(sx, sy)
	r.push(t, x, y, t.sw, t.sh, 0, 0, c)
}

// push queues a quad at centered position (x, y) of size w x h sampling one
// sprite cell starting at texture coordinate (tx, ty).
func (r *Renderer) push(t *Texture, x, y, w, h, tx, ty float64, c Color) {
	r.commands = append(r.commands, RenderCommand{
		Texture: t,
		X:       x,
		Y:       y,
		W:       w,
		H:       h,
		U0:      tx,
		V0:      ty,
		U1:      tx + t.sw/t.rw,
		V1:      ty + t.sh/t.rh,
		Color:   c.orWhite(),
	})
}

func drawable(t *Texture) bool {
	if t == nil || t.released {
		if globalDebug {
			Logger().Warn("texblit: blit of nil or released texture")
		}
		return false
	}
	return true
}
