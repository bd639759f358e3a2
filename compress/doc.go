// Package compress provides the general-purpose compression stage applied after
// numpress encoding.
//
// A numpress array is already compact, but the nibble stream of a Linear or PIC
// array still holds runs of small repeated residuals. The PSI-MS vocabulary defines
// "numpress followed by zlib" accessions for exactly this two-stage layout:
//
//  1. Encoding: Linear, PIC or SLOF (package encoding)
//  2. Compression: zlib, or one of the faster codecs below
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): pass-through, the plain numpress accessions
//   - Zlib (format.CompressionZlib): the mzML standard; use it for files other
//     tools must read
//   - Zstd (format.CompressionZstd): better ratio than zlib at higher speed
//   - S2 (format.CompressionS2): very fast, moderate ratio
//   - LZ4 (format.CompressionLZ4): fastest decompression
//   - Snappy (format.CompressionSnappy): fast, widely available
//
// Only None and Zlib have PSI-MS accessions. The others are meant for caches,
// internal storage and transport between services that share this package.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZlib)
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(encodedArray)
//
// GetCodec returns shared instances; CreateCodec returns a new one. All codecs in
// this package are safe for concurrent use.
//
// # Build Tags
//
// Zstd uses the pure Go github.com/klauspost/compress/zstd by default. Build with
// -tags gozstd (cgo required) to use the libzstd bindings from
// github.com/valyala/gozstd instead.
package compress
