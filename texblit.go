package texblit

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// It modulates a texture at draw time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default modulation (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// orWhite returns c, or ColorWhite when c is the zero value.
func (c Color) orWhite() Color {
	if c == (Color{}) {
		return ColorWhite
	}
	return c
}

// ToRGBA converts c to a premultiplied color.RGBA.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. X and Y are the minimum corner.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Flags control how a texture is built at load time.
type Flags uint8

const (
	// FlagMapTransparency builds a per-pixel transparency mask for hit testing.
	FlagMapTransparency Flags = 1 << iota
)

// Has reports whether all bits of f2 are set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}
