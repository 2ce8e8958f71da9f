package texblit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrResourceExhausted is returned when a padded pixel buffer or a GPU
	// texture cannot be allocated.
	ErrResourceExhausted = errors.New("texblit: resource exhausted")
	// ErrDecode is returned when a source image is missing or malformed.
	ErrDecode = errors.New("texblit: decode failed")
	// ErrInvalidSize is returned for non-positive image or sprite grid sizes.
	ErrInvalidSize = errors.New("texblit: invalid size")
	// ErrNotTracked is reported when releasing a texture the cache does not own.
	ErrNotTracked = errors.New("texblit: texture not tracked by cache")
	// ErrReleased is reported when a texture is released after its GPU
	// resource was already destroyed.
	ErrReleased = errors.New("texblit: texture already released")
)

// GPUErrorCode identifies the class of a device state error.
type GPUErrorCode uint8

const (
	GPUInvalidEnum      GPUErrorCode = iota + 1 // unsupported enumerant
	GPUInvalidValue                             // out-of-range numeric argument
	GPUInvalidOperation                         // operation not allowed in the current state
	GPUStackOverflow                            // state stack push overflowed
	GPUStackUnderflow                           // state stack pop underflowed
	GPUOutOfMemory                              // allocation failed
	GPUTableTooLarge                            // table exceeds implementation limit
)

// String returns the human readable name of the code.
func (c GPUErrorCode) String() string {
	switch c {
	case GPUInvalidEnum:
		return "invalid enum"
	case GPUInvalidValue:
		return "invalid value"
	case GPUInvalidOperation:
		return "invalid operation"
	case GPUStackOverflow:
		return "stack overflow"
	case GPUStackUnderflow:
		return "stack underflow"
	case GPUOutOfMemory:
		return "out of memory"
	case GPUTableTooLarge:
		return "table too large"
	default:
		return "unknown error"
	}
}

// GPUError is a device state error surfaced after an operation.
type GPUError struct {
	Code GPUErrorCode
	Op   string
}

func (e *GPUError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("texblit: gpu %s", e.Code)
	}
	return fmt.Sprintf("texblit: gpu %s: %s", e.Code, e.Op)
}

// Is lets errors.Is match GPU out-of-memory errors against ErrResourceExhausted.
func (e *GPUError) Is(target error) bool {
	return target == ErrResourceExhausted && e.Code == GPUOutOfMemory
}

// Leak describes a cache entry still referenced at shutdown.
type Leak struct {
	Key  string
	Refs int
}

// LeakError is returned by Cache.Shutdown when entries are still referenced.
type LeakError struct {
	Leaks []Leak
}

func (e *LeakError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "texblit: texture leak detected: %d entries", len(e.Leaks))
	for _, l := range e.Leaks {
		fmt.Fprintf(&b, "; %q opened %d times", l.Key, l.Refs)
	}
	return b.String()
}
