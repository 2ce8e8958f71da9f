package texblit

import (
	"errors"
	"testing"
)

const ndcEps = 1e-9

func TestSurfaceUnitScale(t *testing.T) {
	s, err := NewSurface(800, 600, 0)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	if s.Scale() != 1 {
		t.Errorf("Scale = %v, want 1", s.Scale())
	}
	if s.Width() != 800 || s.Height() != 600 {
		t.Errorf("logical = %vx%v, want 800x600", s.Width(), s.Height())
	}
	if s.TextureFilter() != FilterNearest {
		t.Error("TextureFilter at unit scale should be nearest")
	}
	tests := []struct{ x, y, nx, ny float64 }{
		{0, 0, 0, 0},
		{400, 300, 1, 1},
		{-400, -300, -1, -1},
		{200, -150, 0.5, -0.5},
	}
	for _, tt := range tests {
		nx, ny := s.ToNDC(tt.x, tt.y)
		if !approxEqual(nx, tt.nx, ndcEps) || !approxEqual(ny, tt.ny, ndcEps) {
			t.Errorf("ToNDC(%v,%v) = (%v,%v), want (%v,%v)", tt.x, tt.y, nx, ny, tt.nx, tt.ny)
		}
	}
}

func TestSurfaceLandscapeScaling(t *testing.T) {
	s, err := NewSurface(640, 480, 600)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	if !approxEqual(s.Scale(), 0.8, ndcEps) {
		t.Errorf("Scale = %v, want 0.8", s.Scale())
	}
	if !approxEqual(s.Width(), 800, ndcEps) || !approxEqual(s.Height(), 600, ndcEps) {
		t.Errorf("logical = %vx%v, want 800x600", s.Width(), s.Height())
	}
	if s.RealWidth() != 640 || s.RealHeight() != 480 {
		t.Errorf("real = %vx%v, want 640x480", s.RealWidth(), s.RealHeight())
	}
	if s.TextureFilter() != FilterLinear {
		t.Error("TextureFilter when scaled should be linear")
	}
	// The logical edges still land on the NDC edges.
	nx, ny := s.ToNDC(s.Width()/2, s.Height()/2)
	if !approxEqual(nx, 1, 1e-6) || !approxEqual(ny, 1, 1e-6) {
		t.Errorf("ToNDC(corner) = (%v,%v), want (1,1)", nx, ny)
	}
	x, y := s.DeviceToLogical(640, 0)
	if !approxEqual(x, 800, 1e-6) || !approxEqual(y, 600, 1e-6) {
		t.Errorf("DeviceToLogical(640,0) = (%v,%v), want (800,600)", x, y)
	}
}

func TestSurfacePortraitScaling(t *testing.T) {
	s, err := NewSurface(480, 800, 600)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	if !approxEqual(s.Scale(), 0.8, ndcEps) {
		t.Errorf("Scale = %v, want 0.8", s.Scale())
	}
	if !approxEqual(s.Width(), 600, ndcEps) || !approxEqual(s.Height(), 1000, ndcEps) {
		t.Errorf("logical = %vx%v, want 600x1000", s.Width(), s.Height())
	}
	wscale, hscale := s.AxisScale()
	if !approxEqual(wscale, 0.8, 1e-6) || !approxEqual(hscale, 0.64, 1e-6) {
		t.Errorf("AxisScale = (%v,%v), want (0.8,0.64)", wscale, hscale)
	}
	nx, ny := s.ToNDC(-300, -500)
	if !approxEqual(nx, -1, 1e-6) || !approxEqual(ny, -1, 1e-6) {
		t.Errorf("ToNDC(corner) = (%v,%v), want (-1,-1)", nx, ny)
	}
}

func TestSurfaceResize(t *testing.T) {
	s, err := NewSurface(800, 600, 0)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	before := s.Projection()
	if err := s.Resize(1024, 768); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if s.Projection() == before {
		t.Error("Projection unchanged after Resize")
	}
	if s.Width() != 1024 || s.Scale() != 1 {
		t.Errorf("after Resize: width %v scale %v, want 1024 and 1", s.Width(), s.Scale())
	}

	if err := s.Resize(0, 768); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Resize(0,768) = %v, want ErrInvalidSize", err)
	}
	if _, err := NewSurface(-1, 10, 0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("NewSurface(-1,10) = %v, want ErrInvalidSize", err)
	}
}

func TestSurfaceResetViewport(t *testing.T) {
	s, err := NewSurface(640, 480, 0)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	want := s.Projection()
	s.proj = s.proj.Mul(2)
	s.ResetViewport()
	if s.Projection() != want {
		t.Errorf("Projection after ResetViewport = %v, want %v", s.Projection(), want)
	}
}
