package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/numpress/endian"
	"github.com/arloliu/numpress/errs"
)

// FixedPointSize is the size of the fixed-point header of Linear and SLOF arrays.
const FixedPointSize = 8

// LegacyLinearFixedPoint is the constant fixed point used by early Linear encoders
// that did not store it in a header.
const LegacyLinearFixedPoint = 100000.0

var headerEngine = endian.GetBigEndianEngine()

// EncodeFixedPoint returns the fixed-point header for fp: the IEEE-754 bits of fp,
// most significant byte first.
func EncodeFixedPoint(fp float64) [FixedPointSize]byte {
	var out [FixedPointSize]byte
	headerEngine.PutUint64(out[:], math.Float64bits(fp))

	return out
}

// AppendFixedPoint appends the fixed-point header for fp to dst.
func AppendFixedPoint(dst []byte, fp float64) []byte {
	return headerEngine.AppendUint64(dst, math.Float64bits(fp))
}

// DecodeFixedPoint reads the fixed-point header at the start of data.
//
// The round trip with EncodeFixedPoint is bit exact, including NaN payloads.
//
// Returns errs.ErrTruncatedHeader if data is shorter than FixedPointSize.
func DecodeFixedPoint(data []byte) (float64, error) {
	if len(data) < FixedPointSize {
		return 0, fmt.Errorf("%w: fixed point needs %d bytes, got %d", errs.ErrTruncatedHeader, FixedPointSize, len(data))
	}

	return math.Float64frombits(headerEngine.Uint64(data)), nil
}

// ValidFixedPoint reports whether fp can scale samples: finite and greater than zero.
func ValidFixedPoint(fp float64) bool {
	return fp > 0 && !math.IsInf(fp, 1)
}

func checkFixedPoint(fp float64) error {
	if !ValidFixedPoint(fp) {
		return fmt.Errorf("%w: %v", errs.ErrInvalidFixedPoint, fp)
	}

	return nil
}
