package texblit

import (
	"bytes"
	"image/color"
	"log/slog"
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// recordedDraw is one DrawQuads call seen by recordDevice.
type recordedDraw struct {
	id    TextureID
	quads []Quad
}

// recordDevice is an in-memory Device that records every call and lets
// tests inject failures.
type recordDevice struct {
	maxSize int
	caps    map[string]bool

	nextID  TextureID
	live    map[TextureID]*PixelBuffer
	params  map[TextureID]TextureParams
	created int
	deleted int
	draws   []recordedDraw

	// createErr is returned by the next CreateTexture calls.
	createErr error
	// pendingCreate is raised as device state after a successful create.
	pendingCreate error
	// failDraw raises an invalid operation on every DrawQuads.
	failDraw bool

	err error
}

func newRecordDevice() *recordDevice {
	return &recordDevice{
		maxSize: 4096,
		caps:    map[string]bool{},
		live:    map[TextureID]*PixelBuffer{},
		params:  map[TextureID]TextureParams{},
	}
}

func (d *recordDevice) raise(code GPUErrorCode, op string) {
	if d.err == nil {
		d.err = &GPUError{Code: code, Op: op}
	}
}

func (d *recordDevice) CreateTexture(buf *PixelBuffer, params TextureParams) (TextureID, error) {
	if d.createErr != nil {
		return 0, d.createErr
	}
	d.nextID++
	cp := *buf
	cp.Pix = append([]byte(nil), buf.Pix...)
	d.live[d.nextID] = &cp
	d.params[d.nextID] = params
	d.created++
	if d.pendingCreate != nil && d.err == nil {
		d.err = d.pendingCreate
	}
	return d.nextID, nil
}

func (d *recordDevice) DeleteTexture(id TextureID) {
	if _, ok := d.live[id]; !ok {
		d.raise(GPUInvalidValue, "delete")
		return
	}
	delete(d.live, id)
	delete(d.params, id)
	d.deleted++
}

func (d *recordDevice) DrawQuads(id TextureID, quads []Quad) {
	if d.failDraw {
		d.raise(GPUInvalidOperation, "draw")
		return
	}
	if _, ok := d.live[id]; !ok {
		d.raise(GPUInvalidOperation, "draw unknown texture")
		return
	}
	d.draws = append(d.draws, recordedDraw{id: id, quads: append([]Quad(nil), quads...)})
}

func (d *recordDevice) MaxTextureSize() int { return d.maxSize }

func (d *recordDevice) HasCapability(name string) bool { return d.caps[name] }

func (d *recordDevice) Err() error {
	err := d.err
	d.err = nil
	return err
}

// quadCount returns the number of quads drawn so far.
func (d *recordDevice) quadCount() int {
	n := 0
	for _, dr := range d.draws {
		n += len(dr.quads)
	}
	return n
}

// captureLog routes texblit logging into a buffer for the rest of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(prev) })
	return &buf
}

// solidBuffer returns a w x h buffer filled with c.
func solidBuffer(w, h int, c color.RGBA) *PixelBuffer {
	buf := NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.Set(x, y, c)
		}
	}
	return buf
}

// sizedLoader returns a loader producing opaque buffers of the given sizes.
func sizedLoader(sizes map[string][2]int) LoaderFunc {
	return func(key string) (*PixelBuffer, error) {
		s, ok := sizes[key]
		if !ok {
			return nil, errNoSuchKey(key)
		}
		return solidBuffer(s[0], s[1], color.RGBA{R: 255, A: 255}), nil
	}
}

type errNoSuchKey string

func (e errNoSuchKey) Error() string { return "no such key " + string(e) }
