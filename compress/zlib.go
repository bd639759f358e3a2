package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/arloliu/numpress/errs"
)

// zlibMaxDecodedSize bounds the output of a single Decompress call.
const zlibMaxDecodedSize = 256 << 20

// ZlibCompressor provides zlib (RFC 1950) compression.
//
// This is the compression named by the "numpress followed by zlib" accessions
// (MS:1002746, MS:1002747, MS:1002748), and the one mzML readers expect.
// Writers and readers are pooled; the codec is safe for concurrent use.
type ZlibCompressor struct {
	level          int
	maxDecodedSize int64 // 0 means zlibMaxDecodedSize
}

var _ Codec = (*ZlibCompressor)(nil)

// NewZlibCompressor creates a zlib compressor with the default compression level.
func NewZlibCompressor() ZlibCompressor {
	return ZlibCompressor{level: zlib.DefaultCompression}
}

// NewZlibCompressorLevel creates a zlib compressor with the given level, from
// zlib.HuffmanOnly (-2) to zlib.BestCompression (9).
func NewZlibCompressorLevel(level int) (ZlibCompressor, error) {
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		return ZlibCompressor{}, fmt.Errorf("invalid zlib compression level: %d", level)
	}

	return ZlibCompressor{level: level}, nil
}

var zlibWriterPools sync.Map // level -> *sync.Pool of *zlib.Writer

func zlibWriterPool(level int) *sync.Pool {
	if p, ok := zlibWriterPools.Load(level); ok {
		return p.(*sync.Pool) //nolint:forcetypeassert
	}

	p, _ := zlibWriterPools.LoadOrStore(level, &sync.Pool{
		New: func() any {
			w, err := zlib.NewWriterLevel(nil, level)
			if err != nil {
				// Levels are validated by the constructors.
				panic(fmt.Sprintf("failed to create zlib writer for pool: %v", err))
			}

			return w
		},
	})

	return p.(*sync.Pool) //nolint:forcetypeassert
}

var zlibReaderPool sync.Pool // *zlibReader

type zlibReader struct {
	src bytes.Reader
	rc  io.ReadCloser
}

// Compress compresses the input data using zlib.
func (c ZlibCompressor) Compress(data []byte) ([]byte, error) {
	pool := zlibWriterPool(c.level)
	w, _ := pool.Get().(*zlib.Writer)
	defer pool.Put(w)

	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 16)
	w.Reset(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses zlib-compressed data.
//
// The zlib checksum is verified; corrupted input returns an error. Output larger
// than 256MiB returns errs.ErrDecodedSizeExceeded.
func (c ZlibCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	zr, _ := zlibReaderPool.Get().(*zlibReader)
	if zr == nil {
		zr = &zlibReader{}
	}
	defer zlibReaderPool.Put(zr)

	zr.src.Reset(data)
	if zr.rc == nil {
		rc, err := zlib.NewReader(&zr.src)
		if err != nil {
			return nil, fmt.Errorf("zlib decompression failed: %w", err)
		}
		zr.rc = rc
	} else if err := zr.rc.(zlib.Resetter).Reset(&zr.src, nil); err != nil { //nolint:forcetypeassert
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	limit := c.maxDecodedSize
	if limit <= 0 {
		limit = zlibMaxDecodedSize
	}

	var out bytes.Buffer
	out.Grow(len(data) * 3)
	if _, err := out.ReadFrom(io.LimitReader(zr.rc, limit+1)); err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	if int64(out.Len()) > limit {
		return nil, fmt.Errorf("%w: zlib output exceeds %d bytes", errs.ErrDecodedSizeExceeded, limit)
	}

	return out.Bytes(), nil
}
