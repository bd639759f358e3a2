package numpress

import (
	"fmt"
	"math"

	"github.com/arloliu/numpress/compress"
	"github.com/arloliu/numpress/encoding"
	"github.com/arloliu/numpress/errs"
	"github.com/arloliu/numpress/format"
	"github.com/arloliu/numpress/internal/options"
)

// encodeConfig holds the options of Encode.
type encodeConfig struct {
	fixedPoint   float64 // 0 selects the optimal fixed point
	massAccuracy float64 // 0 disables the mass accuracy target
	compression  format.CompressionType
	codec        compress.Codec // nil selects the shared codec of compression
}

func newEncodeConfig() *encodeConfig {
	return &encodeConfig{compression: format.CompressionNone}
}

// linearFixedPoint picks the Linear fixed point: explicit, from the mass accuracy
// target, or the largest safe one.
func (c *encodeConfig) linearFixedPoint(data []float64) (float64, error) {
	if c.fixedPoint != 0 {
		return c.fixedPoint, nil
	}

	if c.massAccuracy != 0 {
		fp := encoding.OptimalLinearFixedPointMass(data, c.massAccuracy)
		if fp == encoding.AccuracyUnattainable {
			return 0, fmt.Errorf("%w: %v needs a fixed point above %v",
				errs.ErrAccuracyUnattainable, c.massAccuracy, encoding.OptimalLinearFixedPoint(data))
		}

		return fp, nil
	}

	fp := encoding.OptimalLinearFixedPoint(data)
	if !encoding.ValidFixedPoint(fp) {
		// empty input, or data the encoder will reject anyway
		return encoding.LegacyLinearFixedPoint, nil
	}

	return fp, nil
}

func (c *encodeConfig) slofFixedPoint(data []float64) float64 {
	if c.fixedPoint != 0 {
		return c.fixedPoint
	}

	return encoding.OptimalSlofFixedPoint(data)
}

// EncodeOption represents a functional option for configuring Encode.
// This is a type alias for the generic Option interface specialized for encodeConfig.
type EncodeOption = options.Option[*encodeConfig]

// WithFixedPoint sets an explicit fixed point for Linear and SLOF.
// PIC has no fixed point and ignores it. It takes precedence over WithMassAccuracy.
func WithFixedPoint(fp float64) EncodeOption {
	return options.New(func(c *encodeConfig) error {
		if !encoding.ValidFixedPoint(fp) {
			return fmt.Errorf("%w: %v", errs.ErrInvalidFixedPoint, fp)
		}
		c.fixedPoint = fp

		return nil
	})
}

// WithMassAccuracy derives the Linear fixed point from the largest absolute error
// allowed per sample. Encode returns ErrAccuracyUnattainable when the data cannot be
// encoded that precisely without overflow.
//
// Only the Linear scheme uses it.
func WithMassAccuracy(accuracy float64) EncodeOption {
	return options.New(func(c *encodeConfig) error {
		if !(accuracy > 0) || math.IsInf(accuracy, 1) {
			return fmt.Errorf("%w: mass accuracy must be a positive finite number, got %v",
				errs.ErrAccuracyUnattainable, accuracy)
		}
		c.massAccuracy = accuracy

		return nil
	})
}

// WithCompression follows the numpress stage with a general-purpose compressor.
// Only CompressionNone and CompressionZlib produce arrays with a PSI-MS accession.
func WithCompression(comp format.CompressionType) EncodeOption {
	return options.New(func(c *encodeConfig) error {
		codec, err := compress.CreateCodec(comp, "array")
		if err != nil {
			return err
		}
		c.compression = comp
		c.codec = codec

		return nil
	})
}

// WithZlibLevel follows the numpress stage with zlib at the given level, from
// -2 (Huffman only) to 9 (best compression). The array keeps the zlib accession.
func WithZlibLevel(level int) EncodeOption {
	return options.New(func(c *encodeConfig) error {
		codec, err := compress.NewZlibCompressorLevel(level)
		if err != nil {
			return err
		}
		c.compression = format.CompressionZlib
		c.codec = codec

		return nil
	})
}
