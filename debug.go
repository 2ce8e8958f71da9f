package texblit

import (
	"errors"
	"time"
)

// FrameStats are the counters of the most recent Flush.
type FrameStats struct {
	Commands   int // blits queued
	Culled     int // relative blits dropped as off screen
	Batches    int // device calls
	DrawCalls  int // quads submitted
	SubmitTime time.Duration
}

// globalDebug mirrors the most recently set Renderer debug flag so code
// without a Renderer (texture helpers) can check it cheaply.
var globalDebug bool

// SetDebugMode enables or disables debug mode. When enabled, blits of nil or
// released textures are reported and per-frame stats are logged.
func (r *Renderer) SetDebugMode(enabled bool) {
	r.debug = enabled
	globalDebug = enabled
}

// Stats returns the counters of the last Flush.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// debugLog logs frame stats at debug level.
func (r *Renderer) debugLog(stats FrameStats) {
	if !r.debug {
		return
	}
	Logger().Debug("texblit: frame",
		"commands", stats.Commands,
		"culled", stats.Culled,
		"batches", stats.Batches,
		"draw_calls", stats.DrawCalls,
		"submit", stats.SubmitTime)
}

// reportGPUError logs a pending device error. GPU errors are not fatal:
// rendering continues, but they are never dropped silently.
func reportGPUError(dev Device, op string) {
	err := dev.Err()
	if err == nil {
		return
	}
	var gerr *GPUError
	if errors.As(err, &gerr) {
		Logger().Warn("texblit: gpu error", "op", op, "code", gerr.Code.String(), "err", err)
		return
	}
	Logger().Warn("texblit: gpu error", "op", op, "err", err)
}

// CheckCapabilities logs a warning for every named capability the device
// lacks and returns the missing names.
func (r *Renderer) CheckCapabilities(names ...string) []string {
	var missing []string
	for _, name := range names {
		if !r.dev.HasCapability(name) {
			missing = append(missing, name)
			Logger().Warn("texblit: missing device capability", "name", name)
		}
	}
	return missing
}
