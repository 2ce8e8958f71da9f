package texblit

// TransparencyMask is a bit-per-pixel opacity map used for pixel-accurate
// hit testing. Bit (y*Width + x) is set when the pixel differs from the
// source's color key. Bits are packed LSB first, row-major.
type TransparencyMask struct {
	width, height int
	bits          []byte
}

// NewTransparencyMask builds the mask of buf against buf.ColorKey. Textures
// build it from the vertically flipped, unpadded buffer, so y counts up from
// the bottom row of the source image.
func NewTransparencyMask(buf *PixelBuffer) *TransparencyMask {
	n := buf.Width * buf.Height
	m := &TransparencyMask{
		width:  buf.Width,
		height: buf.Height,
		bits:   make([]byte, (n+7)/8),
	}
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			if buf.isKey(buf.offset(x, y)) {
				continue
			}
			i := y*buf.Width + x
			m.bits[i/8] |= 1 << (i % 8)
		}
	}
	return m
}

// Width returns the mask width in pixels.
func (m *TransparencyMask) Width() int { return m.width }

// Height returns the mask height in pixels.
func (m *TransparencyMask) Height() int { return m.height }

// Bytes returns the packed bits. The slice must not be modified.
func (m *TransparencyMask) Bytes() []byte { return m.bits }

// IsOpaque reports whether pixel (x, y) is opaque.
//
// There is no range check: x must be in [0, Width) and y in [0, Height).
// This is the per-frame collision path; use Opaque elsewhere.
func (m *TransparencyMask) IsOpaque(x, y int) bool {
	i := y*m.width + x
	return m.bits[i/8]&(1<<(i%8)) != 0
}

// Opaque is the range-checked form of IsOpaque. ok is false when (x, y) lies
// outside the mask.
func (m *TransparencyMask) Opaque(x, y int) (opaque, ok bool) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false, false
	}
	return m.IsOpaque(x, y), true
}
