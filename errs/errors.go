// Package errs defines the sentinel errors returned by numpress codecs.
//
// Call sites wrap these errors with positional context using fmt.Errorf("%w: ...");
// callers should match them with errors.Is.
package errs

import "errors"

// Decode errors.
var (
	// ErrTruncatedHeader is returned when a buffer is shorter than the minimum header
	// of its scheme (8 bytes of fixed point, plus 4 or 8 bytes of seed values for Linear).
	ErrTruncatedHeader = errors.New("truncated header")

	// ErrCorruptStream is returned when a nibble stream ends in the middle of an
	// encoded integer, or a fixed-width payload has a dangling byte.
	ErrCorruptStream = errors.New("corrupt stream")

	// ErrDecodedSizeExceeded is returned when a compressed array inflates past the
	// decoder's size limit.
	ErrDecodedSizeExceeded = errors.New("decoded size exceeded")
)

// Encode errors.
var (
	// ErrInvalidFixedPoint is returned when a fixed point is zero, negative or not finite.
	ErrInvalidFixedPoint = errors.New("invalid fixed point")

	// ErrValueOverflow is returned when a scaled sample does not fit the integer field
	// that stores it.
	ErrValueOverflow = errors.New("value overflow")

	// ErrResidualOverflow is returned when a Linear prediction residual does not fit
	// a signed 32-bit integer. Re-encode with a smaller fixed point.
	ErrResidualOverflow = errors.New("residual overflow")

	// ErrAccuracyUnattainable is returned when a requested m/z accuracy needs a fixed
	// point larger than the overflow-safe bound of the data.
	ErrAccuracyUnattainable = errors.New("accuracy unattainable")
)

// Configuration errors.
var (
	// ErrUnsupportedAccession is returned for a controlled-vocabulary accession that
	// does not name a numpress compression.
	ErrUnsupportedAccession = errors.New("unsupported accession")

	// ErrUnsupportedScheme is returned for an unknown encoding scheme.
	ErrUnsupportedScheme = errors.New("unsupported scheme")

	// ErrUnsupportedCompression is returned for an unknown compression type, or one
	// that has no accession.
	ErrUnsupportedCompression = errors.New("unsupported compression")
)
