package texblit

import "fmt"

// PowerOfTwo returns the smallest power of two >= n. Values <= 1 map to 1.
func PowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// FlipVertical returns a copy of buf with its rows in reverse order, so row 0
// of the result is the last row of buf. The render surface's vertical axis
// points up, while decoded images start at the top.
func FlipVertical(buf *PixelBuffer) *PixelBuffer {
	out := &PixelBuffer{
		Width:    buf.Width,
		Height:   buf.Height,
		Pix:      make([]byte, len(buf.Pix)),
		ColorKey: buf.ColorKey,
	}
	stride := buf.Stride()
	for y := 0; y < buf.Height; y++ {
		src := buf.Pix[(buf.Height-1-y)*stride : (buf.Height-y)*stride]
		copy(out.Pix[y*stride:(y+1)*stride], src)
	}
	return out
}

// padPowerOfTwo copies buf into the top-left corner of a zeroed canvas whose
// sides are the next powers of two. maxSize <= 0 disables the size limit.
func padPowerOfTwo(buf *PixelBuffer, maxSize int) (*PixelBuffer, error) {
	if err := buf.validate(); err != nil {
		return nil, err
	}
	potw, poth := PowerOfTwo(buf.Width), PowerOfTwo(buf.Height)
	if maxSize > 0 && (potw > maxSize || poth > maxSize) {
		return nil, fmt.Errorf("texblit: unable to create %dx%d POT surface (limit %d): %w",
			potw, poth, maxSize, ErrResourceExhausted)
	}
	size := 4 * potw * poth
	if size/4/potw != poth {
		return nil, fmt.Errorf("texblit: POT surface %dx%d overflows: %w", potw, poth, ErrResourceExhausted)
	}

	out := &PixelBuffer{
		Width:    potw,
		Height:   poth,
		Pix:      make([]byte, size),
		ColorKey: buf.ColorKey,
	}
	srcStride, dstStride := buf.Stride(), out.Stride()
	for y := 0; y < buf.Height; y++ {
		copy(out.Pix[y*dstStride:y*dstStride+srcStride], buf.Pix[y*srcStride:(y+1)*srcStride])
	}
	return out, nil
}

// PackPowerOfTwo prepares buf for upload: the result is a power-of-two sized,
// fully transparent canvas holding buf vertically flipped in its top-left
// Width x Height region. It fails with ErrResourceExhausted when the padded
// size exceeds maxSize (maxSize <= 0 means no limit).
func PackPowerOfTwo(buf *PixelBuffer, maxSize int) (*PixelBuffer, error) {
	if err := buf.validate(); err != nil {
		return nil, err
	}
	return padPowerOfTwo(FlipVertical(buf), maxSize)
}
