package encoding

import (
	"fmt"
	"iter"
	"math"

	"github.com/arloliu/numpress/endian"
	"github.com/arloliu/numpress/errs"
	nibble "github.com/arloliu/numpress/internal/encoding"
	"github.com/arloliu/numpress/internal/pool"
)

const (
	linearSeedSize  = 4
	linearFirstEnd  = FixedPointSize + linearSeedSize
	linearSeedsEnd  = FixedPointSize + 2*linearSeedSize
	maxQuantizedAbs = 0x1p63
)

var payloadEngine = endian.GetLittleEndianEngine()

// LinearEncoder encodes samples with second-order linear prediction.
//
// Every sample is scaled by the fixed point and rounded to an integer q. The first
// two integers are stored as unsigned 32-bit seeds; each later one is stored as the
// nibble-encoded residual
//
//	d = q[i] - (2*q[i-1] - q[i-2])
//
// For smoothly increasing data such as m/z arrays most residuals take 1 to 3
// nibbles.
//
// Limits:
//   - the fixed point must be finite and positive once a sample is written
//   - the first two scaled samples must lie in [0, 2^32-1]
//   - residuals must fit a signed 32-bit integer
//
// OptimalLinearFixedPoint returns the largest fixed point that satisfies them.
type LinearEncoder struct {
	buf        *pool.ByteBuffer
	nw         nibble.NibbleWriter
	fixedPoint float64
	prev       int64 // q[i-2]
	last       int64 // q[i-1]
	count      int
}

var _ SampleEncoder = (*LinearEncoder)(nil)

// NewLinearEncoder creates a Linear encoder and writes the fixed-point header.
//
// An empty array is valid with any fixed point; fixedPoint is checked when the
// first sample is written.
func NewLinearEncoder(fixedPoint float64) *LinearEncoder {
	e := &LinearEncoder{
		buf:        pool.GetArrayBuffer(),
		fixedPoint: fixedPoint,
	}
	e.buf.B = AppendFixedPoint(e.buf.B, fixedPoint)
	e.nw = nibble.NewNibbleWriter(e.buf)

	return e
}

// FixedPoint returns the fixed point stored in the header.
func (e *LinearEncoder) FixedPoint() float64 {
	return e.fixedPoint
}

// Write encodes a single sample.
//
// Panics if Finish() has been called.
func (e *LinearEncoder) Write(value float64) error {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	return e.write(value)
}

func (e *LinearEncoder) write(value float64) error {
	if e.count == 0 {
		if err := checkFixedPoint(e.fixedPoint); err != nil {
			return err
		}
	}

	q, err := quantize(value, e.fixedPoint)
	if err != nil {
		return fmt.Errorf("%w at sample %d", err, e.count)
	}

	if e.count < 2 {
		if q < 0 || q > math.MaxUint32 {
			return fmt.Errorf("%w: sample %d scales to %d, outside the unsigned 32-bit seed range",
				errs.ErrValueOverflow, e.count, q)
		}
		e.buf.B = payloadEngine.AppendUint32(e.buf.B, uint32(q))
	} else {
		d := q - (2*e.last - e.prev)
		if d < math.MinInt32 || d > math.MaxInt32 {
			return fmt.Errorf("%w: sample %d has residual %d", errs.ErrResidualOverflow, e.count, d)
		}
		e.nw.WriteInt(d)
	}

	e.prev, e.last = e.last, q
	e.count++

	return nil
}

// WriteSlice encodes a slice of samples.
//
// The buffer is grown once to the worst-case size of the slice. On error the
// encoder is restored to its state before the call.
//
// Panics if Finish() has been called.
func (e *LinearEncoder) WriteSlice(values []float64) error {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	if len(values) == 0 {
		return nil
	}

	e.buf.Grow(MaxLinearEncodedLen(len(values)) - FixedPointSize)

	mark := e.nw.Mark()
	prev, last, count := e.prev, e.last, e.count
	for _, v := range values {
		if err := e.write(v); err != nil {
			e.nw.Rewind(mark)
			e.prev, e.last, e.count = prev, last, count

			return err
		}
	}

	return nil
}

// Bytes returns the encoded array.
//
// Panics if Finish() has been called.
func (e *LinearEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded samples.
func (e *LinearEncoder) Len() int {
	return e.count
}

// Size returns the size in bytes of the encoded array, header included.
//
// Panics if Finish() has been called.
func (e *LinearEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Reset discards all samples and keeps the header.
func (e *LinearEncoder) Reset() {
	if e.buf != nil {
		e.buf.B = e.buf.B[:FixedPointSize]
	}
	e.nw.Reset()
	e.prev, e.last, e.count = 0, 0, 0
}

// Finish returns the buffer to the pool. The encoder is unusable afterwards.
func (e *LinearEncoder) Finish() {
	if e.buf != nil {
		pool.PutArrayBuffer(e.buf)
		e.buf = nil
	}
	e.nw = nibble.NibbleWriter{}
	e.prev, e.last, e.count = 0, 0, 0
}

// quantize scales v and rounds half up, truncating toward zero like a C cast.
// Negative samples therefore round toward zero and are not bounded by 0.5/fp:
// -3.3 at fp 10 quantizes to -32, not -33.
func quantize(v, fp float64) (int64, error) {
	x := v*fp + 0.5
	if math.IsNaN(x) || x >= maxQuantizedAbs || x <= -maxQuantizedAbs {
		return 0, fmt.Errorf("%w: %v scaled by %v is not representable", errs.ErrValueOverflow, v, fp)
	}

	return int64(x), nil
}

// LinearDecoder decodes Linear arrays.
type LinearDecoder struct{}

var _ SampleDecoder = LinearDecoder{}

// NewLinearDecoder creates a Linear decoder.
func NewLinearDecoder() LinearDecoder {
	return LinearDecoder{}
}

// Decode appends the samples of data to dst.
//
// Length rules:
//   - < 8 bytes, 9..11 bytes, 13..15 bytes: errs.ErrTruncatedHeader
//   - 8 bytes: no samples
//   - 12 bytes: one sample
//
// Residual decoding stops at the end of data, or before a trailing pad nibble.
// A residual cut short by the end of data returns errs.ErrCorruptStream.
func (d LinearDecoder) Decode(dst []float64, data []byte) ([]float64, error) {
	return collect(dst, data, d.walk)
}

// All returns an iterator over the samples of data.
func (d LinearDecoder) All(data []byte) iter.Seq2[float64, error] {
	return seq(data, d.walk)
}

func (d LinearDecoder) walk(data []byte, yield func(float64) bool) error {
	fp, err := DecodeFixedPoint(data)
	if err != nil {
		return err
	}

	switch {
	case len(data) == FixedPointSize:
		return nil
	case len(data) < linearFirstEnd:
		return fmt.Errorf("%w: linear first seed needs %d bytes, got %d", errs.ErrTruncatedHeader, linearFirstEnd, len(data))
	}

	if err := checkFixedPoint(fp); err != nil {
		return err
	}

	prev := int64(payloadEngine.Uint32(data[FixedPointSize:]))
	if len(data) == linearFirstEnd {
		yield(float64(prev) / fp)
		return nil
	}

	if len(data) < linearSeedsEnd {
		return fmt.Errorf("%w: linear seeds need %d bytes, got %d", errs.ErrTruncatedHeader, linearSeedsEnd, len(data))
	}

	last := int64(payloadEngine.Uint32(data[linearFirstEnd:]))
	if !yield(float64(prev)/fp) || !yield(float64(last)/fp) {
		return nil
	}

	cur := nibble.NewCursor(linearSeedsEnd)
	for !cur.Done(data) {
		var raw uint32
		raw, cur, err = nibble.ReadInt(data, cur)
		if err != nil {
			return err
		}

		q := 2*last - prev + int64(int32(raw)) //nolint:gosec
		prev, last = last, q
		if !yield(float64(q) / fp) {
			return nil
		}
	}

	return nil
}
