package compress

// ZstdCompressor provides Zstandard compression.
//
// Zstd gives a better ratio than zlib at similar or higher speed, which suits
// archives of encoded spectra that are read back rarely. The default build uses
// the pure Go github.com/klauspost/compress/zstd implementation with pooled
// encoders and decoders; building with the gozstd tag (and cgo) switches to the
// libzstd bindings in github.com/valyala/gozstd. Both produce standard zstd frames
// and can read each other's output.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(array)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
