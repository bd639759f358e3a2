package encoding

import (
	"fmt"
	"iter"
	"math"

	"github.com/arloliu/numpress/errs"
	"github.com/arloliu/numpress/internal/pool"
)

const (
	slofRecordSize = 2
	maxSlofValue   = 0x1p16
)

// SlofEncoder encodes samples as 16-bit log-scaled fixed-point values.
//
// Each sample v is stored as uint16(ln(v+1)*fixedPoint + 0.5), little-endian, after
// the fixed-point header. The relative error is about 0.05% with the fixed point
// from OptimalSlofFixedPoint.
type SlofEncoder struct {
	buf        *pool.ByteBuffer
	fixedPoint float64
	count      int
}

var _ SampleEncoder = (*SlofEncoder)(nil)

// NewSlofEncoder creates a SLOF encoder and writes the fixed-point header.
//
// fixedPoint is checked when the first sample is written.
func NewSlofEncoder(fixedPoint float64) *SlofEncoder {
	e := &SlofEncoder{
		buf:        pool.GetArrayBuffer(),
		fixedPoint: fixedPoint,
	}
	e.buf.B = AppendFixedPoint(e.buf.B, fixedPoint)

	return e
}

// FixedPoint returns the fixed point stored in the header.
func (e *SlofEncoder) FixedPoint() float64 {
	return e.fixedPoint
}

// Write encodes a single sample.
//
// Returns errs.ErrValueOverflow if the scaled logarithm does not fit an unsigned
// 16-bit integer, which includes samples <= -1 and NaN.
//
// Panics if Finish() has been called.
func (e *SlofEncoder) Write(value float64) error {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	if e.count == 0 {
		if err := checkFixedPoint(e.fixedPoint); err != nil {
			return err
		}
	}

	x, err := e.scale(value)
	if err != nil {
		return err
	}

	e.buf.B = payloadEngine.AppendUint16(e.buf.B, x)
	e.count++

	return nil
}

// WriteSlice encodes a slice of samples, atomically.
//
// Panics if Finish() has been called.
func (e *SlofEncoder) WriteSlice(values []float64) error {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	if len(values) == 0 {
		return nil
	}

	if e.count == 0 {
		if err := checkFixedPoint(e.fixedPoint); err != nil {
			return err
		}
	}

	e.buf.Grow(slofRecordSize * len(values))

	size := e.buf.Len()
	for i, v := range values {
		x, err := e.scale(v)
		if err != nil {
			e.buf.B = e.buf.B[:size]
			e.count -= i

			return err
		}
		e.buf.B = payloadEngine.AppendUint16(e.buf.B, x)
		e.count++
	}

	return nil
}

func (e *SlofEncoder) scale(value float64) (uint16, error) {
	x := math.Log(value+1)*e.fixedPoint + 0.5
	if math.IsNaN(x) || x < 0 || x >= maxSlofValue {
		return 0, fmt.Errorf("%w: sample %d (%v) scales to %v, outside the unsigned 16-bit range",
			errs.ErrValueOverflow, e.count, value, x)
	}

	return uint16(x), nil
}

// Bytes returns the encoded array.
//
// Panics if Finish() has been called.
func (e *SlofEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded samples.
func (e *SlofEncoder) Len() int {
	return e.count
}

// Size returns the size in bytes of the encoded array, header included.
//
// Panics if Finish() has been called.
func (e *SlofEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Reset discards all samples and keeps the header.
func (e *SlofEncoder) Reset() {
	if e.buf != nil {
		e.buf.B = e.buf.B[:FixedPointSize]
	}
	e.count = 0
}

// Finish returns the buffer to the pool. The encoder is unusable afterwards.
func (e *SlofEncoder) Finish() {
	if e.buf != nil {
		pool.PutArrayBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// SlofDecoder decodes SLOF arrays.
type SlofDecoder struct{}

var _ SampleDecoder = SlofDecoder{}

// NewSlofDecoder creates a SLOF decoder.
func NewSlofDecoder() SlofDecoder {
	return SlofDecoder{}
}

// Decode appends the samples of data to dst.
//
// Returns errs.ErrTruncatedHeader if data is shorter than the header and
// errs.ErrCorruptStream if the payload has an odd length.
func (d SlofDecoder) Decode(dst []float64, data []byte) ([]float64, error) {
	return collect(dst, data, d.walk)
}

// All returns an iterator over the samples of data.
func (d SlofDecoder) All(data []byte) iter.Seq2[float64, error] {
	return seq(data, d.walk)
}

func (d SlofDecoder) walk(data []byte, yield func(float64) bool) error {
	fp, err := DecodeFixedPoint(data)
	if err != nil {
		return err
	}

	payload := data[FixedPointSize:]
	if len(payload)%slofRecordSize != 0 {
		return fmt.Errorf("%w: slof payload of %d bytes is not a whole number of records", errs.ErrCorruptStream, len(payload))
	}

	if len(payload) == 0 {
		return nil
	}

	if err := checkFixedPoint(fp); err != nil {
		return err
	}

	for i := 0; i < len(payload); i += slofRecordSize {
		x := payloadEngine.Uint16(payload[i:])
		if !yield(math.Exp(float64(x)/fp) - 1) {
			return nil
		}
	}

	return nil
}
