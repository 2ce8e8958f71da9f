package texblit

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Capability names reported by EbitenDevice.
const (
	CapAddressRepeat   = "address-repeat"
	CapLinearFilter    = "linear-filter"
	CapUnmanagedImages = "unmanaged-images"
)

// DefaultMaxTextureSize is the largest texture side EbitenDevice accepts
// unless configured otherwise.
const DefaultMaxTextureSize = 8192

// maxQuadsPerCall keeps vertex indices within uint16.
const maxQuadsPerCall = 0xFFFF / 4

// ebitenTexture is one uploaded texture.
type ebitenTexture struct {
	img    *ebiten.Image
	params TextureParams
}

// EbitenDevice is a Device backed by Ebitengine images. Call Begin with the
// frame's screen image before flushing a Renderer and End afterwards.
type EbitenDevice struct {
	// ScreenshotDir is the directory queued screenshots are written to.
	ScreenshotDir string

	textures map[TextureID]*ebitenTexture
	nextID   TextureID
	maxSize  int
	target   *ebiten.Image
	err      error

	vertices []ebiten.Vertex
	indices  []uint16

	screenshotQueue []string
}

// NewEbitenDevice creates a device. maxTextureSize <= 0 selects
// DefaultMaxTextureSize.
func NewEbitenDevice(maxTextureSize int) *EbitenDevice {
	if maxTextureSize <= 0 {
		maxTextureSize = DefaultMaxTextureSize
	}
	return &EbitenDevice{
		ScreenshotDir: "screenshots",
		textures:      make(map[TextureID]*ebitenTexture),
		maxSize:       maxTextureSize,
	}
}

// Begin sets the image subsequent draws render into.
func (d *EbitenDevice) Begin(target *ebiten.Image) {
	d.target = target
}

// End writes queued screenshots of the current target and clears it.
func (d *EbitenDevice) End() {
	if d.target != nil {
		d.flushScreenshots(d.target)
	}
	d.target = nil
}

// Image returns the ebiten image behind id, or nil.
func (d *EbitenDevice) Image(id TextureID) *ebiten.Image {
	if t, ok := d.textures[id]; ok {
		return t.img
	}
	return nil
}

// Len returns the number of live textures.
func (d *EbitenDevice) Len() int {
	return len(d.textures)
}

// setErr records the first error since the last Err call.
func (d *EbitenDevice) setErr(code GPUErrorCode, op string) {
	if d.err == nil {
		d.err = &GPUError{Code: code, Op: op}
	}
}

// CreateTexture uploads buf as an unmanaged image, outside Ebitengine's
// internal atlas so that repeat addressing samples only this texture.
func (d *EbitenDevice) CreateTexture(buf *PixelBuffer, params TextureParams) (TextureID, error) {
	if err := buf.validate(); err != nil {
		return 0, err
	}
	if buf.Width > d.maxSize || buf.Height > d.maxSize {
		return 0, &GPUError{
			Code: GPUOutOfMemory,
			Op:   fmt.Sprintf("create %dx%d texture (limit %d)", buf.Width, buf.Height, d.maxSize),
		}
	}
	if PowerOfTwo(buf.Width) != buf.Width || PowerOfTwo(buf.Height) != buf.Height {
		return 0, &GPUError{
			Code: GPUInvalidValue,
			Op:   fmt.Sprintf("create %dx%d texture: not a power of two", buf.Width, buf.Height),
		}
	}

	img := ebiten.NewImageWithOptions(image.Rect(0, 0, buf.Width, buf.Height), &ebiten.NewImageOptions{
		Unmanaged: true,
	})
	img.WritePixels(buf.Pix[:4*buf.Width*buf.Height])

	d.nextID++
	id := d.nextID
	d.textures[id] = &ebitenTexture{img: img, params: params}
	return id, nil
}

// DeleteTexture deallocates the image behind id.
func (d *EbitenDevice) DeleteTexture(id TextureID) {
	t, ok := d.textures[id]
	if !ok {
		d.setErr(GPUInvalidValue, fmt.Sprintf("delete unknown texture %d", id))
		return
	}
	t.img.Deallocate()
	delete(d.textures, id)
}

// DrawQuads draws quads from texture id into the current target with
// DrawTriangles, using the texture's filter and wrap mode.
func (d *EbitenDevice) DrawQuads(id TextureID, quads []Quad) {
	if len(quads) == 0 {
		return
	}
	if d.target == nil {
		d.setErr(GPUInvalidOperation, "draw without target")
		return
	}
	t, ok := d.textures[id]
	if !ok {
		d.setErr(GPUInvalidOperation, fmt.Sprintf("draw unknown texture %d", id))
		return
	}

	op := &ebiten.DrawTrianglesOptions{
		Filter:  ebitenFilter(t.params.MagFilter),
		Address: ebitenAddress(t.params.WrapS),
	}
	for len(quads) > 0 {
		n := min(len(quads), maxQuadsPerCall)
		d.buildVertices(t.img, quads[:n])
		d.target.DrawTriangles(d.vertices, d.indices, t.img, op)
		quads = quads[n:]
	}
}

// buildVertices fills the vertex and index buffers for quads. NDC is mapped
// onto the target's bounds with Y flipped; texture coordinates are scaled to
// source pixels.
func (d *EbitenDevice) buildVertices(src *ebiten.Image, quads []Quad) {
	b := d.target.Bounds()
	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	tw, th := float64(b.Dx()), float64(b.Dy())
	sb := src.Bounds()
	sw, sh := float64(sb.Dx()), float64(sb.Dy())

	d.vertices = d.vertices[:0]
	d.indices = d.indices[:0]
	for _, q := range quads {
		cr, cg, cb, ca := float32(q.Color.R), float32(q.Color.G), float32(q.Color.B), float32(q.Color.A)
		vx := func(nx, ny, u, v float64) ebiten.Vertex {
			return ebiten.Vertex{
				DstX:   float32(ox + (nx+1)/2*tw),
				DstY:   float32(oy + (1-ny)/2*th),
				SrcX:   float32(u * sw),
				SrcY:   float32(v * sh),
				ColorR: cr,
				ColorG: cg,
				ColorB: cb,
				ColorA: ca,
			}
		}
		base := uint16(len(d.vertices))
		d.vertices = append(d.vertices,
			vx(q.X0, q.Y0, q.U0, q.V0),
			vx(q.X1, q.Y0, q.U1, q.V0),
			vx(q.X1, q.Y1, q.U1, q.V1),
			vx(q.X0, q.Y1, q.U0, q.V1),
		)
		d.indices = append(d.indices, base, base+1, base+2, base, base+2, base+3)
	}
}

// MaxTextureSize returns the configured texture size limit.
func (d *EbitenDevice) MaxTextureSize() int {
	return d.maxSize
}

// HasCapability reports the features Ebitengine provides on every backend.
func (d *EbitenDevice) HasCapability(name string) bool {
	switch name {
	case CapAddressRepeat, CapLinearFilter, CapUnmanagedImages:
		return true
	default:
		return false
	}
}

// Err returns and clears the pending error.
func (d *EbitenDevice) Err() error {
	err := d.err
	d.err = nil
	return err
}

func ebitenFilter(f Filter) ebiten.Filter {
	if f == FilterLinear {
		return ebiten.FilterLinear
	}
	return ebiten.FilterNearest
}

func ebitenAddress(w Wrap) ebiten.Address {
	if w == WrapClamp {
		return ebiten.AddressClampToZero
	}
	return ebiten.AddressRepeat
}
