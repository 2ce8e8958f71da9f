package texblit

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultMinDimension is the smallest logical screen side. Displays whose
// smaller side is below it are rendered at a larger logical size and scaled
// down to fit.
const DefaultMinDimension = 600

// Surface is the render surface state: the logical drawing area, the real
// device size, and the projection between them.
//
// Logical coordinates used by the renderer are centered: (0, 0) is the middle
// of the screen and Y points up.
type Surface struct {
	w, h   float64 // logical size
	rw, rh float64 // real device size
	nw, nh float64 // projected size before scaling
	minDim int

	scale            float64
	wscale, hscale   float64
	mxscale, myscale float64

	proj mgl64.Mat4
}

// NewSurface creates a surface for a device of width x height pixels.
// minDimension <= 0 selects DefaultMinDimension.
func NewSurface(width, height, minDimension int) (*Surface, error) {
	if minDimension <= 0 {
		minDimension = DefaultMinDimension
	}
	s := &Surface{minDim: minDimension}
	if err := s.Resize(width, height); err != nil {
		return nil, err
	}
	return s, nil
}

// Resize recomputes the scale factors for a new device size and resets the
// viewport.
func (s *Surface) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("texblit: surface %dx%d: %w", width, height, ErrInvalidSize)
	}
	w, h := float64(width), float64(height)
	min := float64(s.minDim)

	s.w, s.h = w, h
	s.rw, s.rh = w, h
	s.nw, s.nh = w, h
	s.scale = 1

	switch {
	case w < min && w <= h:
		// Portrait: width is pinned to min, height keeps the aspect ratio.
		s.scale = w / min
		s.h = h * min / w
		s.nh = s.rh * w / min
		s.w = min
	case h < min && w >= h:
		s.scale = h / min
		s.w = w * min / h
		s.nw = s.rw * h / min
		s.h = min
	}

	s.wscale = s.nw / s.w
	s.hscale = s.nh / s.h
	s.mxscale = s.w / s.rw
	s.myscale = s.h / s.rh
	s.ResetViewport()
	return nil
}

// ResetViewport rebuilds the default orthographic projection.
func (s *Surface) ResetViewport() {
	s.proj = mgl64.Ortho2D(-s.nw/2, s.nw/2, -s.nh/2, s.nh/2)
	if s.scale != 1 {
		s.proj = s.proj.Mul4(mgl64.Scale3D(s.wscale, s.hscale, 1))
	}
}

// Width returns the logical width.
func (s *Surface) Width() float64 { return s.w }

// Height returns the logical height.
func (s *Surface) Height() float64 { return s.h }

// RealWidth returns the device width in pixels.
func (s *Surface) RealWidth() float64 { return s.rw }

// RealHeight returns the device height in pixels.
func (s *Surface) RealHeight() float64 { return s.rh }

// Scale returns the display scale factor; 1 means logical pixels map one to
// one onto device pixels.
func (s *Surface) Scale() float64 { return s.scale }

// AxisScale returns the per-axis scale applied after the projection.
func (s *Surface) AxisScale() (wscale, hscale float64) { return s.wscale, s.hscale }

// Projection returns the current projection matrix.
func (s *Surface) Projection() mgl64.Mat4 { return s.proj }

// TextureFilter returns the filter textures should be created with:
// nearest at unit scale, linear otherwise.
func (s *Surface) TextureFilter() Filter {
	if s.scale != 1 {
		return FilterLinear
	}
	return FilterNearest
}

// ToNDC maps centered logical coordinates to normalized device coordinates.
func (s *Surface) ToNDC(x, y float64) (nx, ny float64) {
	v := s.proj.Mul4x1(mgl64.Vec4{x, y, 0, 1})
	return v.X(), v.Y()
}

// DeviceToLogical maps a device pixel position (top-left origin, Y down) to
// absolute logical coordinates (bottom-left origin, Y up).
func (s *Surface) DeviceToLogical(px, py float64) (x, y float64) {
	return px * s.mxscale, (s.rh - py) * s.myscale
}
