package texblit

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"
	"io/fs"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// PixelBuffer is a decoded CPU-side image in premultiplied RGBA8.
// Row 0 is the top row of the source image; the stride is 4*Width.
type PixelBuffer struct {
	Width, Height int
	Pix           []byte
	// ColorKey is the pixel value treated as transparent for hit testing.
	ColorKey color.RGBA
}

// NewPixelBuffer allocates a zeroed (fully transparent) buffer.
func NewPixelBuffer(w, h int) *PixelBuffer {
	return &PixelBuffer{Width: w, Height: h, Pix: make([]byte, 4*w*h)}
}

// Stride returns the number of bytes per row.
func (b *PixelBuffer) Stride() int {
	return 4 * b.Width
}

// offset returns the byte offset of pixel (x, y).
func (b *PixelBuffer) offset(x, y int) int {
	return y*b.Stride() + 4*x
}

// At returns the pixel at (x, y).
func (b *PixelBuffer) At(x, y int) color.RGBA {
	i := b.offset(x, y)
	p := b.Pix[i : i+4 : i+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set writes the pixel at (x, y).
func (b *PixelBuffer) Set(x, y int, c color.RGBA) {
	i := b.offset(x, y)
	p := b.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// isKey reports whether the pixel at byte offset i equals the color key.
func (b *PixelBuffer) isKey(i int) bool {
	k := b.ColorKey
	return b.Pix[i] == k.R && b.Pix[i+1] == k.G && b.Pix[i+2] == k.B && b.Pix[i+3] == k.A
}

// validate checks that the buffer's dimensions match its pixel slice.
func (b *PixelBuffer) validate() error {
	if b == nil {
		return fmt.Errorf("texblit: nil pixel buffer: %w", ErrInvalidSize)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("texblit: pixel buffer %dx%d: %w", b.Width, b.Height, ErrInvalidSize)
	}
	if len(b.Pix) < 4*b.Width*b.Height {
		return fmt.Errorf("texblit: pixel buffer %dx%d has %d bytes: %w",
			b.Width, b.Height, len(b.Pix), ErrInvalidSize)
	}
	return nil
}

// RGBA wraps the buffer as an *image.RGBA sharing the same pixels.
func (b *PixelBuffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Stride(),
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// PixelBufferFromImage converts any image to a premultiplied RGBA8 buffer.
// Fully transparent pixels become transparent black, which is the color key.
func PixelBufferFromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	buf := NewPixelBuffer(bounds.Dx(), bounds.Dy())
	draw.Copy(buf.RGBA(), image.Point{}, img, bounds, draw.Src, nil)
	return buf
}

// DecodePixelBuffer decodes a PNG, JPEG, GIF, BMP, TIFF or WebP stream.
func DecodePixelBuffer(r io.Reader) (*PixelBuffer, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	buf := PixelBufferFromImage(img)
	if buf.Width == 0 || buf.Height == 0 {
		return nil, fmt.Errorf("texblit: decoded empty %s image: %w", format, ErrDecode)
	}
	return buf, nil
}

// LoaderFunc produces the decoded pixel buffer for a cache key.
type LoaderFunc func(key string) (*PixelBuffer, error)

// FSLoader returns a LoaderFunc that reads keys as paths within fsys.
func FSLoader(fsys fs.FS) LoaderFunc {
	return func(key string) (*PixelBuffer, error) {
		data, err := fs.ReadFile(fsys, key)
		if err != nil {
			return nil, fmt.Errorf("texblit: read %q: %w: %w", key, ErrDecode, err)
		}
		buf, err := DecodePixelBuffer(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("texblit: %q could not be opened: %w", key, err)
		}
		return buf, nil
	}
}
