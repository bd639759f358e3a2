package encoding

import (
	"fmt"
	"iter"
	"math"

	"github.com/arloliu/numpress/errs"
	nibble "github.com/arloliu/numpress/internal/encoding"
	"github.com/arloliu/numpress/internal/pool"
)

const maxPicCount = 0x1p32

// PicEncoder encodes samples as rounded non-negative integers.
//
// There is no header and no prediction: each sample is rounded half up and written
// as a nibble integer. Counts up to 2^32-1 are supported; small counts take 2 to 4
// nibbles.
type PicEncoder struct {
	buf   *pool.ByteBuffer
	nw    nibble.NibbleWriter
	count int
}

var _ SampleEncoder = (*PicEncoder)(nil)

// NewPicEncoder creates a PIC encoder.
func NewPicEncoder() *PicEncoder {
	e := &PicEncoder{buf: pool.GetArrayBuffer()}
	e.nw = nibble.NewNibbleWriter(e.buf)

	return e
}

// Write encodes a single sample.
//
// Returns errs.ErrValueOverflow if the rounded sample is negative, NaN, or larger
// than 2^32-1.
//
// Panics if Finish() has been called.
func (e *PicEncoder) Write(value float64) error {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	return e.write(value)
}

func (e *PicEncoder) write(value float64) error {
	x := value + 0.5
	if math.IsNaN(x) || x < 0 || x >= maxPicCount {
		return fmt.Errorf("%w: sample %d (%v) is not a count in [0, 2^32-1]", errs.ErrValueOverflow, e.count, value)
	}

	e.nw.WriteInt(int64(x))
	e.count++

	return nil
}

// WriteSlice encodes a slice of samples, atomically.
//
// Panics if Finish() has been called.
func (e *PicEncoder) WriteSlice(values []float64) error {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	if len(values) == 0 {
		return nil
	}

	e.buf.Grow(MaxPicEncodedLen(len(values)))

	mark := e.nw.Mark()
	count := e.count
	for _, v := range values {
		if err := e.write(v); err != nil {
			e.nw.Rewind(mark)
			e.count = count

			return err
		}
	}

	return nil
}

// Bytes returns the encoded array.
//
// Panics if Finish() has been called.
func (e *PicEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded samples.
func (e *PicEncoder) Len() int {
	return e.count
}

// Size returns the size in bytes of the encoded array.
//
// Panics if Finish() has been called.
func (e *PicEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Reset discards all samples.
func (e *PicEncoder) Reset() {
	if e.buf != nil {
		e.buf.Reset()
	}
	e.nw.Reset()
	e.count = 0
}

// Finish returns the buffer to the pool. The encoder is unusable afterwards.
func (e *PicEncoder) Finish() {
	if e.buf != nil {
		pool.PutArrayBuffer(e.buf)
		e.buf = nil
	}
	e.nw = nibble.NibbleWriter{}
	e.count = 0
}

// PicDecoder decodes PIC arrays.
type PicDecoder struct{}

var _ SampleDecoder = PicDecoder{}

// NewPicDecoder creates a PIC decoder.
func NewPicDecoder() PicDecoder {
	return PicDecoder{}
}

// Decode appends the samples of data to dst. Empty data is an empty array.
//
// Decoding stops at the end of data, or before a trailing pad nibble. A count cut
// short by the end of data returns errs.ErrCorruptStream.
func (d PicDecoder) Decode(dst []float64, data []byte) ([]float64, error) {
	return collect(dst, data, d.walk)
}

// All returns an iterator over the samples of data.
func (d PicDecoder) All(data []byte) iter.Seq2[float64, error] {
	return seq(data, d.walk)
}

func (d PicDecoder) walk(data []byte, yield func(float64) bool) error {
	cur := nibble.NewCursor(0)
	for !cur.Done(data) {
		var (
			count uint32
			err   error
		)
		count, cur, err = nibble.ReadInt(data, cur)
		if err != nil {
			return err
		}

		if !yield(float64(count)) {
			return nil
		}
	}

	return nil
}
