package texblit

// TextureID is an opaque GPU texture handle issued by a Device.
// The zero value never names a live texture.
type TextureID uint32

// Filter selects texture sampling.
type Filter uint8

const (
	FilterNearest Filter = iota // crisp pixels, used at unit display scale
	FilterLinear                // bilinear, used when the display is scaled
)

// Wrap selects texture coordinate wrapping outside [0, 1].
type Wrap uint8

const (
	WrapRepeat Wrap = iota // tile the texture
	WrapClamp              // clamp to the edge texel
)

// TextureParams are the sampling parameters fixed at texture creation.
type TextureParams struct {
	MinFilter, MagFilter Filter
	WrapS, WrapT         Wrap
}

// Quad is a textured quad in normalized device space.
//
// Corners are emitted in the order (X0,Y0) (X1,Y0) (X1,Y1) (X0,Y1) with
// texture coordinates (U0,V0) (U1,V0) (U1,V1) (U0,V1). V grows with Y.
type Quad struct {
	X0, Y0, X1, Y1 float64
	U0, V0, U1, V1 float64
	Color          Color
}

// Device is the GPU backend the cache uploads to and the renderer draws
// through. All calls happen on the rendering goroutine.
type Device interface {
	// CreateTexture uploads buf as an RGBA8 texture. buf's dimensions are
	// powers of two.
	CreateTexture(buf *PixelBuffer, params TextureParams) (TextureID, error)
	// DeleteTexture frees a texture. The id must not be used afterwards.
	DeleteTexture(id TextureID)
	// DrawQuads draws quads sampling from texture id.
	DrawQuads(id TextureID, quads []Quad)
	// MaxTextureSize is the largest texture side the device accepts.
	MaxTextureSize() int
	// HasCapability reports whether a named device feature is available.
	HasCapability(name string) bool
	// Err returns and clears the first GPU error raised since the last call.
	Err() error
}
