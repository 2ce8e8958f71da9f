package texblit

import (
	"strings"
	"testing"
)

// newTestRenderer returns an 800x600 renderer with a 64x48 texture (padded
// to 64x64) and a 64x16 four-frame sheet.
func newTestRenderer(t *testing.T) (*Renderer, *recordDevice, *Texture, *Texture) {
	t.Helper()
	dev := newRecordDevice()
	s, err := NewSurface(800, 600, 0)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	c := NewCache(dev, s, nil)
	ship, err := c.NewTexture(NewPixelBuffer(64, 48), 0)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	frames, err := c.NewTexture(NewPixelBuffer(64, 16), 0)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	if err := c.SpriteSplit(frames, 4, 1); err != nil {
		t.Fatalf("SpriteSplit: %v", err)
	}
	return NewRenderer(dev, s), dev, ship, frames
}

func onlyCommand(t *testing.T, r *Renderer) RenderCommand {
	t.Helper()
	cmds := r.Commands()
	if len(cmds) != 1 {
		t.Fatalf("len(Commands) = %d, want 1", len(cmds))
	}
	return cmds[0]
}

func TestBlitRelativeCentersOnCamera(t *testing.T) {
	r, _, ship, _ := newTestRenderer(t)
	cam := NewCamera(800, 600)
	cam.X, cam.Y = 100, 50
	r.SetCamera(cam)

	r.BlitRelative(ship, 100, 50, 0, 0, Color{})
	cmd := onlyCommand(t, r)
	if cmd.X != -32 || cmd.Y != -24 || cmd.W != 64 || cmd.H != 48 {
		t.Errorf("rect = (%v,%v,%v,%v), want (-32,-24,64,48)", cmd.X, cmd.Y, cmd.W, cmd.H)
	}
	if cmd.U0 != 0 || cmd.V0 != 0 || cmd.U1 != 1 || cmd.V1 != 0.75 {
		t.Errorf("uv = (%v,%v)-(%v,%v), want (0,0)-(1,0.75)", cmd.U0, cmd.V0, cmd.U1, cmd.V1)
	}
	if cmd.Color != ColorWhite {
		t.Errorf("Color = %v, want white", cmd.Color)
	}
}

func TestBlitRelativeWithoutCamera(t *testing.T) {
	r, _, ship, _ := newTestRenderer(t)
	r.BlitRelative(ship, 10, 20, 0, 0, Color{})
	cmd := onlyCommand(t, r)
	if cmd.X != -22 || cmd.Y != -4 {
		t.Errorf("pos = (%v,%v), want (-22,-4)", cmd.X, cmd.Y)
	}
}

func TestBlitRelativeGUIOffset(t *testing.T) {
	r, _, ship, _ := newTestRenderer(t)
	r.SetGUIOffset(-100, 20)
	if got := r.GUIOffset(); got != (Vec2{X: -100, Y: 20}) {
		t.Errorf("GUIOffset = %v", got)
	}
	r.BlitRelative(ship, 0, 0, 0, 0, Color{})
	cmd := onlyCommand(t, r)
	if cmd.X != -132 || cmd.Y != -4 {
		t.Errorf("pos = (%v,%v), want (-132,-4)", cmd.X, cmd.Y)
	}
}

func TestBlitRelativeCulling(t *testing.T) {
	r, dev, ship, _ := newTestRenderer(t)
	cam := NewCamera(800, 600)
	cam.X = 100
	r.SetCamera(cam)

	// x = wx - 100 - 32; the limit is w/2 + sw = 464.
	r.BlitRelative(ship, 597, 0, 0, 0, Color{})
	r.BlitRelative(ship, 100, -400, 0, 0, Color{})
	if n := len(r.Commands()); n != 0 {
		t.Fatalf("len(Commands) = %d, want 0", n)
	}
	r.Flush()
	if got := r.Stats(); got.DrawCalls != 0 || got.Culled != 2 {
		t.Errorf("stats = %+v, want 0 draw calls and 2 culled", got)
	}
	if dev.quadCount() != 0 {
		t.Errorf("device drew %d quads, want 0", dev.quadCount())
	}

	r.BlitRelative(ship, 596, 0, 0, 0, Color{})
	r.BlitRelative(ship, -332, 0, 0, 0, Color{})
	r.Flush()
	if got := r.Stats(); got.DrawCalls != 2 || got.Culled != 0 {
		t.Errorf("edge stats = %+v, want 2 draw calls and 0 culled", got)
	}
}

func TestRelativeToScreen(t *testing.T) {
	r, _, _, _ := newTestRenderer(t)
	tests := []struct {
		wx, wy  float64
		x, y    float64
		visible bool
	}{
		{0, 0, -16, -16, true},
		{700, 0, 684, -16, false},
		{0, -500, -16, -516, false},
		{-400, 300, -416, 284, true},
	}
	for _, tt := range tests {
		x, y, visible := r.RelativeToScreen(tt.wx, tt.wy, 32, 32)
		if x != tt.x || y != tt.y || visible != tt.visible {
			t.Errorf("RelativeToScreen(%v,%v) = (%v,%v,%v), want (%v,%v,%v)",
				tt.wx, tt.wy, x, y, visible, tt.x, tt.y, tt.visible)
		}
	}
}

func TestBlitAbsolute(t *testing.T) {
	r, _, _, frames := newTestRenderer(t)
	r.BlitAbsolute(frames, 0, 0, 2, 0, Color{R: 1, A: 0.5})
	cmd := onlyCommand(t, r)
	if cmd.X != -400 || cmd.Y != -300 || cmd.W != 16 || cmd.H != 16 {
		t.Errorf("rect = (%v,%v,%v,%v), want (-400,-300,16,16)", cmd.X, cmd.Y, cmd.W, cmd.H)
	}
	if cmd.U0 != 0.5 || cmd.U1 != 0.75 || cmd.V0 != 0 || cmd.V1 != 1 {
		t.Errorf("uv = (%v,%v)-(%v,%v), want (0.5,0)-(0.75,1)", cmd.U0, cmd.V0, cmd.U1, cmd.V1)
	}
	if cmd.Color != (Color{R: 1, A: 0.5}) {
		t.Errorf("Color = %v, want the explicit tint", cmd.Color)
	}
}

func TestBlitAbsoluteIgnoresCameraAndCulling(t *testing.T) {
	r, _, ship, _ := newTestRenderer(t)
	cam := NewCamera(800, 600)
	cam.X = 10000
	r.SetCamera(cam)
	r.BlitAbsolute(ship, 5000, 5000, 0, 0, Color{})
	cmd := onlyCommand(t, r)
	if cmd.X != 4600 || cmd.Y != 4700 {
		t.Errorf("pos = (%v,%v), want (4600,4700)", cmd.X, cmd.Y)
	}
}

func TestBlitScaled(t *testing.T) {
	r, _, _, frames := newTestRenderer(t)
	r.BlitScaled(frames, 10, 20, 200, 8, Color{})
	cmd := onlyCommand(t, r)
	if cmd.X != -390 || cmd.Y != -280 || cmd.W != 200 || cmd.H != 8 {
		t.Errorf("rect = (%v,%v,%v,%v), want (-390,-280,200,8)", cmd.X, cmd.Y, cmd.W, cmd.H)
	}
	// Samples the first cell only.
	if cmd.U0 != 0 || cmd.V0 != 0 || cmd.U1 != 0.25 || cmd.V1 != 1 {
		t.Errorf("uv = (%v,%v)-(%v,%v), want (0,0)-(0.25,1)", cmd.U0, cmd.V0, cmd.U1, cmd.V1)
	}
}

func TestBlitStatic(t *testing.T) {
	r, _, ship, _ := newTestRenderer(t)
	r.BlitStatic(ship, 400, 300, Color{})
	cmd := onlyCommand(t, r)
	if cmd.X != 0 || cmd.Y != 0 || cmd.W != 64 || cmd.H != 48 {
		t.Errorf("rect = (%v,%v,%v,%v), want (0,0,64,48)", cmd.X, cmd.Y, cmd.W, cmd.H)
	}
}

func TestBlitSkipsReleasedTexture(t *testing.T) {
	logs := captureLog(t)
	r, _, ship, _ := newTestRenderer(t)
	r.SetDebugMode(true)
	defer r.SetDebugMode(false)

	ship.released = true
	r.BlitRelative(ship, 0, 0, 0, 0, Color{})
	r.BlitAbsolute(ship, 0, 0, 0, 0, Color{})
	r.BlitScaled(nil, 0, 0, 10, 10, Color{})
	r.BlitStatic(nil, 0, 0, Color{})
	if n := len(r.Commands()); n != 0 {
		t.Errorf("len(Commands) = %d, want 0", n)
	}
	if !strings.Contains(logs.String(), "released texture") {
		t.Errorf("expected a warning, got %q", logs.String())
	}
}
