package encoding

import "math"

// AccuracyUnattainable is returned by OptimalLinearFixedPointMass when the requested
// accuracy needs a fixed point that could overflow.
const AccuracyUnattainable = -1.0

const (
	maxLinearSeed     = 0xFFFFFFFF
	maxLinearResidual = 0x7FFFFFFF
	maxSlofScaled     = 0xFFFF
)

// OptimalLinearFixedPoint returns the largest fixed point for which the Linear
// encoding of data cannot overflow.
//
// The bound keeps the first two seeds and every prediction residual within a signed
// 32-bit integer. For an empty slice it returns 0; for a single sample it returns
// the bound of the unsigned 32-bit seed.
func OptimalLinearFixedPoint(data []float64) float64 {
	switch len(data) {
	case 0:
		return 0
	case 1:
		return math.Floor(maxLinearSeed / data[0])
	}

	maxDouble := math.Max(data[0], data[1])
	for i := 2; i < len(data); i++ {
		extrapol := data[i-1] + (data[i-1] - data[i-2])
		diff := data[i] - extrapol
		maxDouble = math.Max(maxDouble, math.Ceil(math.Abs(diff)+1))
	}

	return math.Floor(maxLinearResidual / maxDouble)
}

// OptimalLinearFixedPointMass returns the fixed point that encodes data with an
// absolute error of at most massAccuracy.
//
// Rounding keeps each sample within 0.5/fp of its value, so the target is
// 0.5/massAccuracy. Returns AccuracyUnattainable if that target exceeds
// OptimalLinearFixedPoint(data), or if massAccuracy is not a positive finite number.
// For an empty slice the target is returned as is.
func OptimalLinearFixedPointMass(data []float64, massAccuracy float64) float64 {
	if !(massAccuracy > 0) || math.IsInf(massAccuracy, 1) {
		return AccuracyUnattainable
	}

	target := 0.5 / massAccuracy
	if len(data) == 0 {
		return target
	}

	if target > OptimalLinearFixedPoint(data) {
		return AccuracyUnattainable
	}

	return target
}

// OptimalSlofFixedPoint returns the largest fixed point for which every sample of
// data fits the unsigned 16-bit SLOF record.
func OptimalSlofFixedPoint(data []float64) float64 {
	maxDouble := 1.0
	for _, v := range data {
		maxDouble = math.Max(maxDouble, math.Log(v+1))
	}

	return math.Floor(maxSlofScaled / maxDouble)
}
