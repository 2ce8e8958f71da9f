package texblit

import (
	"fmt"
	"math"
)

// Texture is a GPU-resident image plus its metadata. It is a handle: the
// Cache that issued it owns the GPU resource, and only Cache.Release can
// destroy it.
type Texture struct {
	id     TextureID
	params TextureParams

	w, h   float64 // logical (unpadded) size
	rw, rh float64 // power-of-two allocation size
	sx, sy int     // sprite grid
	sw, sh float64 // sprite cell size

	mask *TransparencyMask
	key  string

	released bool
}

// newTexture uploads a packed buffer. logicalW and logicalH are the size of
// the image before padding.
func newTexture(dev Device, packed *PixelBuffer, logicalW, logicalH int, filter Filter) (*Texture, error) {
	params := TextureParams{
		MinFilter: filter,
		MagFilter: filter,
		WrapS:     WrapRepeat,
		WrapT:     WrapRepeat,
	}
	id, err := dev.CreateTexture(packed, params)
	if err != nil {
		return nil, fmt.Errorf("texblit: upload %dx%d texture: %w", packed.Width, packed.Height, err)
	}
	if err := dev.Err(); err != nil {
		dev.DeleteTexture(id)
		return nil, fmt.Errorf("texblit: upload %dx%d texture: %w", packed.Width, packed.Height, err)
	}
	return &Texture{
		id:     id,
		params: params,
		w:      float64(logicalW),
		h:      float64(logicalH),
		rw:     float64(packed.Width),
		rh:     float64(packed.Height),
		sx:     1,
		sy:     1,
		sw:     float64(logicalW),
		sh:     float64(logicalH),
	}, nil
}

// ID returns the GPU handle.
func (t *Texture) ID() TextureID { return t.id }

// Params returns the sampling parameters the texture was created with.
func (t *Texture) Params() TextureParams { return t.params }

// Key returns the cache key the texture was loaded from, or "" for textures
// created from in-memory buffers.
func (t *Texture) Key() string { return t.key }

// Width returns the logical width in pixels.
func (t *Texture) Width() float64 { return t.w }

// Height returns the logical height in pixels.
func (t *Texture) Height() float64 { return t.h }

// RealWidth returns the padded allocation width.
func (t *Texture) RealWidth() float64 { return t.rw }

// RealHeight returns the padded allocation height.
func (t *Texture) RealHeight() float64 { return t.rh }

// SpriteGrid returns the number of sprite columns and rows.
func (t *Texture) SpriteGrid() (cols, rows int) { return t.sx, t.sy }

// SpriteWidth returns the width of one sprite cell.
func (t *Texture) SpriteWidth() float64 { return t.sw }

// SpriteHeight returns the height of one sprite cell.
func (t *Texture) SpriteHeight() float64 { return t.sh }

// Mask returns the transparency mask, or nil if none was requested.
func (t *Texture) Mask() *TransparencyMask { return t.mask }

// Released reports whether the GPU resource has been destroyed.
func (t *Texture) Released() bool { return t.released }

// setSpriteGrid divides the texture into cols x rows cells.
func (t *Texture) setSpriteGrid(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("texblit: sprite grid %dx%d: %w", cols, rows, ErrInvalidSize)
	}
	t.sx, t.sy = cols, rows
	t.sw = t.w / float64(cols)
	t.sh = t.h / float64(rows)
	return nil
}

// IsOpaque reports whether the pixel at (x, y) is opaque. Coordinates are in
// the flipped space: y = 0 is the bottom row of the source image.
//
// The texture must have been loaded with FlagMapTransparency and (x, y) must
// lie inside the logical size; neither is checked.
func (t *Texture) IsOpaque(x, y int) bool {
	return t.mask.IsOpaque(x, y)
}

// Opaque is the checked form of IsOpaque. ok is false when the texture has
// no mask or (x, y) is out of range.
func (t *Texture) Opaque(x, y int) (opaque, ok bool) {
	if t.mask == nil {
		return false, false
	}
	return t.mask.Opaque(x, y)
}

// SpriteUV returns the texture-space origin of sprite cell (col, row). Rows
// are counted from the top of the sheet; the texture was flipped at load
// time, so row 0 sits at the highest V.
func (t *Texture) SpriteUV(col, row int) (tx, ty float64) {
	tx = t.sw * float64(col) / t.rw
	ty = t.sh * (float64(t.sy) - float64(row) - 1) / t.rh
	return tx, ty
}

// SpriteForDirection picks the sprite cell facing angle (radians). A full
// turn is split into cols*rows slices centered on their angle, so angle 0
// falls in the middle of slice 0.
//
// Angles that land below zero after the half-slice offset are clamped to
// slice 0 rather than wrapped; angles past a full turn wrap. Callers that
// need symmetric behavior should normalize angle into [0, 2π) first.
// Infinite and NaN angles select slice 0.
func (t *Texture) SpriteForDirection(angle float64) (col, row int) {
	n := t.sx * t.sy
	shard := 2 * math.Pi / float64(n)

	// Wrap before converting: int() of a huge quotient overflows.
	rdir := math.Mod(angle+shard/2, 2*math.Pi)
	if !(rdir >= 0) {
		rdir = 0
	}
	s := int(rdir / shard)
	if s > n-1 {
		s %= n
	}
	return s % t.sx, s / t.sx
}
