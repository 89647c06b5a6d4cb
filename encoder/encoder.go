package encoder

import (
	"image"
	"io"
	"sync"

	"appshots/logger"
)

// EncodeFunc is the function signature for any encoder
type EncodeFunc func(w io.Writer, img image.Image, opts EncodeOptions) error

type EncodeOptions struct {
	Width, Height int
	Quality       int    // 1–100, ignored by lossless formats
	Filter        string // resample filter name, see Resize
}

// Encoder pairs an EncodeFunc with the file extension it produces.
type Encoder struct {
	Ext    string
	Encode EncodeFunc
}

var (
	registryMu sync.RWMutex
	// Registry maps format name → encoder
	Registry = map[string]Encoder{}

	defaultsOnce sync.Once
)

// Register adds or replaces an encoder for format
func Register(format, ext string, fn EncodeFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	Registry[format] = Encoder{Ext: ext, Encode: fn}
	logger.Debugf("encoder [%s] registered (.%s)", format, ext)
}

// Lookup encoder by format
func Get(format string) (Encoder, bool) {
	RegisterDefaults()
	registryMu.RLock()
	defer registryMu.RUnlock()
	enc, ok := Registry[format]
	return enc, ok
}

// RegisterDefaults registers the built-in encoders once.
func RegisterDefaults() {
	defaultsOnce.Do(func() {
		Register("png", "png", EncodePNG)
		Register("jpg", "jpg", EncodeJPG)
		Register("webp", "webp", EncodeWebP)
	})
}
