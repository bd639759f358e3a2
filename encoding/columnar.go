package encoding

import "iter"

// SampleEncoder encodes a sequence of float64 samples into one numpress array.
type SampleEncoder interface {
	// Write encodes a single sample.
	//
	// A sample that cannot be represented returns an error and leaves the encoder
	// as it was before the call.
	Write(value float64) error

	// WriteSlice encodes a slice of samples.
	//
	// The slice is written atomically: on error none of its samples are kept.
	WriteSlice(values []float64) error

	// Bytes returns the encoded array, including any header.
	// The returned slice is valid until the next call to Write, WriteSlice, Reset or Finish.
	// The caller should not modify the returned slice.
	Bytes() []byte

	// Len returns the number of encoded samples.
	Len() int

	// Size returns the size in bytes of the encoded array.
	Size() int

	// Reset discards all written samples so the encoder can start a new array with
	// the same fixed point. The internal buffer is kept.
	Reset()

	// Finish returns buffer resources to the pool.
	//
	// After calling Finish(), the encoder is no longer usable. Any subsequent call to
	// Write(), WriteSlice(), Bytes() or Size() panics.
	//
	//	encoder := NewPicEncoder()
	//	defer encoder.Finish()
	Finish()
}

// SampleDecoder decodes a numpress array.
type SampleDecoder interface {
	// Decode appends the samples of data to dst and returns the extended slice.
	//
	// On error the returned slice is dst with its original length; no partial result
	// is exposed.
	Decode(dst []float64, data []byte) ([]float64, error)

	// All returns an iterator over the samples of data.
	//
	// If data is malformed the iterator yields the samples decoded so far, then a
	// final (0, err) pair, and stops.
	All(data []byte) iter.Seq2[float64, error]
}

// Size bounds for pre-sizing buffers.

// MaxLinearEncodedLen returns an upper bound on the Linear encoding of n samples.
func MaxLinearEncodedLen(n int) int {
	return linearSeedsEnd + 5*n
}

// MaxPicEncodedLen returns an upper bound on the PIC encoding of n samples.
func MaxPicEncodedLen(n int) int {
	return 5 * n
}

// SlofEncodedLen returns the exact SLOF encoding length of n samples.
func SlofEncodedLen(n int) int {
	return FixedPointSize + slofRecordSize*n
}

// MaxDecodedLen returns an upper bound on the number of samples in an encoded
// array of the given byte length, for any scheme.
func MaxDecodedLen(encodedLen int) int {
	return 2 * encodedLen
}

// collect drains a decode walk into dst.
func collect(dst []float64, data []byte, walk func([]byte, func(float64) bool) error) ([]float64, error) {
	start := len(dst)
	if cap(dst)-start < MaxDecodedLen(len(data)) {
		grown := make([]float64, start, start+MaxDecodedLen(len(data)))
		copy(grown, dst)
		dst = grown
	}

	err := walk(data, func(v float64) bool {
		dst = append(dst, v)
		return true
	})
	if err != nil {
		return dst[:start], err
	}

	return dst, nil
}

// seq adapts a decode walk to an iterator.
func seq(data []byte, walk func([]byte, func(float64) bool) error) iter.Seq2[float64, error] {
	return func(yield func(float64, error) bool) {
		if err := walk(data, func(v float64) bool { return yield(v, nil) }); err != nil {
			yield(0, err)
		}
	}
}
