package texblit

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the settings of the render surface, the texture cache and the
// renderer, as read from a TOML file:
//
//	[surface]
//	width = 800
//	height = 600
//	fullscreen = false
//	vsync = true
//	min_dimension = 600
//
//	[textures]
//	max_texture_size = 8192
//	prefetch_workers = 4
//
//	[render]
//	debug = false
//	clear_color = { r = 0, g = 0, b = 0, a = 1 }
type Config struct {
	Surface  SurfaceConfig  `toml:"surface"`
	Textures TexturesConfig `toml:"textures"`
	Render   RenderConfig   `toml:"render"`
}

// SurfaceConfig describes the window the surface covers.
type SurfaceConfig struct {
	Width        int  `toml:"width"`
	Height       int  `toml:"height"`
	Fullscreen   bool `toml:"fullscreen"`
	VSync        bool `toml:"vsync"`
	MinDimension int  `toml:"min_dimension"`
}

// TexturesConfig tunes texture loading.
type TexturesConfig struct {
	MaxTextureSize  int `toml:"max_texture_size"`
	PrefetchWorkers int `toml:"prefetch_workers"`
}

// RenderConfig tunes the renderer.
type RenderConfig struct {
	Debug      bool  `toml:"debug"`
	ClearColor Color `toml:"clear_color"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Surface: SurfaceConfig{
			Width:        800,
			Height:       600,
			VSync:        true,
			MinDimension: DefaultMinDimension,
		},
		Textures: TexturesConfig{
			MaxTextureSize:  DefaultMaxTextureSize,
			PrefetchWorkers: DefaultPrefetchWorkers,
		},
		Render: RenderConfig{
			ClearColor: Color{0, 0, 0, 1},
		},
	}
}

// ParseConfig decodes TOML data over DefaultConfig. Keys that are not part
// of Config are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("texblit: parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("texblit: parse config: unknown keys %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a TOML config file. A missing file yields
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("texblit: read config: %w", err)
	}
	return ParseConfig(data)
}

// WriteConfig encodes cfg as TOML to path.
func WriteConfig(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("texblit: encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("texblit: write config: %w", err)
	}
	return nil
}

// Validate reports settings that cannot produce a working surface.
func (c Config) Validate() error {
	if c.Surface.Width <= 0 || c.Surface.Height <= 0 {
		return fmt.Errorf("texblit: config surface %dx%d: %w", c.Surface.Width, c.Surface.Height, ErrInvalidSize)
	}
	if c.Surface.MinDimension < 0 {
		return fmt.Errorf("texblit: config min_dimension %d: %w", c.Surface.MinDimension, ErrInvalidSize)
	}
	if c.Textures.MaxTextureSize < 0 || (c.Textures.MaxTextureSize > 0 && PowerOfTwo(c.Textures.MaxTextureSize) != c.Textures.MaxTextureSize) {
		return fmt.Errorf("texblit: config max_texture_size %d must be a power of two: %w",
			c.Textures.MaxTextureSize, ErrInvalidSize)
	}
	if c.Textures.PrefetchWorkers < 0 {
		return fmt.Errorf("texblit: config prefetch_workers %d: %w", c.Textures.PrefetchWorkers, ErrInvalidSize)
	}
	return nil
}

// NewSurface builds the surface described by c.
func (c Config) NewSurface() (*Surface, error) {
	return NewSurface(c.Surface.Width, c.Surface.Height, c.Surface.MinDimension)
}
