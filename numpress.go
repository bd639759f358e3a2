// Package numpress provides the MS-Numpress compression schemes for mass
// spectrometry binary data arrays.
//
// Three lossy schemes are supported, each tuned for one kind of array:
//
//   - Linear: m/z and retention time arrays, via second-order linear prediction
//   - PIC: ion counts, rounded to non-negative integers
//   - SLOF: intensities, stored as a scaled logarithm in 16 bits
//
// Linear and PIC write variable-length nibble integers, so smooth data compresses
// to 1 to 3 nibbles per sample. The encodings are byte compatible with the PSI-MS
// numpress accessions used in mzML (MS:1002312 to MS:1002314, and the "followed by
// zlib" forms MS:1002746 to MS:1002748).
//
// # Quick Start
//
// Encoding an m/z array with the largest safe fixed point:
//
//	array, err := numpress.Encode(format.SchemeLinear, mz)
//	if err != nil {
//		return err
//	}
//
//	decoded, err := array.Decode()
//
// Encoding for mzML, with a bounded m/z error and zlib as a second stage:
//
//	array, err := numpress.Encode(format.SchemeLinear, mz,
//		numpress.WithMassAccuracy(0.0001),
//		numpress.WithCompression(format.CompressionZlib),
//	)
//	acc, _ := array.Accession() // "MS:1002746"
//
// Decoding a binary array by its accession:
//
//	values, err := numpress.DecodeAccession("MS:1002746", payload)
//
// # Streaming
//
// The encoding package exposes the encoders and decoders behind this facade.
// Encoders accept samples one at a time or in slices; decoders append to a caller
// slice or yield samples through an iterator:
//
//	enc := encoding.NewLinearEncoder(fp)
//	defer enc.Finish()
//
//	for _, v := range mz {
//		if err := enc.Write(v); err != nil {
//			return err
//		}
//	}
//
// # Thread Safety
//
// Encoders are not safe for concurrent use. Decoders, the functions in this
// package and Array values are.
package numpress

import (
	"fmt"

	"github.com/arloliu/numpress/compress"
	"github.com/arloliu/numpress/encoding"
	"github.com/arloliu/numpress/errs"
	"github.com/arloliu/numpress/format"
	"github.com/arloliu/numpress/internal/options"
)

// EncodeLinear encodes data with the Linear scheme and the given fixed point.
//
// Parameters:
//   - data: Samples to encode, typically an increasing m/z array
//   - fixedPoint: Scaling factor; see OptimalLinearFixedPoint
//
// Returns:
//   - []byte: Encoded array, header included
//   - error: ErrInvalidFixedPoint, ErrValueOverflow or ErrResidualOverflow
func EncodeLinear(data []float64, fixedPoint float64) ([]byte, error) {
	return encodeWith(encoding.NewLinearEncoder(fixedPoint), data)
}

// DecodeLinear decodes a Linear array.
func DecodeLinear(data []byte) ([]float64, error) {
	return encoding.NewLinearDecoder().Decode(nil, data)
}

// EncodePic encodes data with the PIC scheme. Samples are rounded half up to
// non-negative integers.
func EncodePic(data []float64) ([]byte, error) {
	return encodeWith(encoding.NewPicEncoder(), data)
}

// DecodePic decodes a PIC array.
func DecodePic(data []byte) ([]float64, error) {
	return encoding.NewPicDecoder().Decode(nil, data)
}

// EncodeSlof encodes data with the SLOF scheme and the given fixed point.
//
// Parameters:
//   - data: Samples to encode, typically intensities
//   - fixedPoint: Scaling factor; see OptimalSlofFixedPoint
//
// Returns:
//   - []byte: Encoded array, header included
//   - error: ErrInvalidFixedPoint or ErrValueOverflow
func EncodeSlof(data []float64, fixedPoint float64) ([]byte, error) {
	return encodeWith(encoding.NewSlofEncoder(fixedPoint), data)
}

// DecodeSlof decodes a SLOF array.
func DecodeSlof(data []byte) ([]float64, error) {
	return encoding.NewSlofDecoder().Decode(nil, data)
}

// OptimalLinearFixedPoint returns the largest fixed point for which the Linear
// encoding of data cannot overflow.
func OptimalLinearFixedPoint(data []float64) float64 {
	return encoding.OptimalLinearFixedPoint(data)
}

// OptimalLinearFixedPointMass returns the fixed point that keeps the Linear
// encoding of data within massAccuracy, or encoding.AccuracyUnattainable (-1).
func OptimalLinearFixedPointMass(data []float64, massAccuracy float64) float64 {
	return encoding.OptimalLinearFixedPointMass(data, massAccuracy)
}

// OptimalSlofFixedPoint returns the largest fixed point for which every sample of
// data fits the SLOF record.
func OptimalSlofFixedPoint(data []float64) float64 {
	return encoding.OptimalSlofFixedPoint(data)
}

// encodeWith writes data through enc and returns a copy of the encoding.
// The encoder is finished before returning.
func encodeWith(enc encoding.SampleEncoder, data []float64) ([]byte, error) {
	defer enc.Finish()

	if err := enc.WriteSlice(data); err != nil {
		return nil, err
	}

	out := make([]byte, enc.Size())
	copy(out, enc.Bytes())

	return out, nil
}

// Encode encodes data with the given scheme and returns the array with its metadata.
//
// Without options, Linear and SLOF use the largest safe fixed point of data
// (OptimalLinearFixedPoint, OptimalSlofFixedPoint) and no compression follows
// the numpress stage.
//
// Parameters:
//   - scheme: Numpress scheme
//   - data: Samples to encode
//   - opts: WithFixedPoint, WithMassAccuracy, WithCompression, WithZlibLevel
//
// Returns:
//   - Array: Encoded array
//   - error: Invalid option, encoding or compression error
//
// Example:
//
//	array, err := numpress.Encode(format.SchemeSlof, intensities,
//		numpress.WithCompression(format.CompressionZlib),
//	)
func Encode(scheme format.Scheme, data []float64, opts ...EncodeOption) (Array, error) {
	cfg := newEncodeConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return Array{}, err
	}

	var (
		enc        encoding.SampleEncoder
		fixedPoint float64
		err        error
	)

	switch scheme {
	case format.SchemeLinear:
		fixedPoint, err = cfg.linearFixedPoint(data)
		if err != nil {
			return Array{}, err
		}
		enc = encoding.NewLinearEncoder(fixedPoint)
	case format.SchemePic:
		enc = encoding.NewPicEncoder()
	case format.SchemeSlof:
		fixedPoint = cfg.slofFixedPoint(data)
		enc = encoding.NewSlofEncoder(fixedPoint)
	default:
		return Array{}, fmt.Errorf("%w: %s", errs.ErrUnsupportedScheme, scheme)
	}

	encoded, err := encodeWith(enc, data)
	if err != nil {
		return Array{}, fmt.Errorf("%s encoding failed: %w", scheme, err)
	}

	codec := cfg.codec
	if codec == nil {
		codec, err = compress.GetCodec(cfg.compression)
		if err != nil {
			return Array{}, err
		}
	}

	payload, err := codec.Compress(encoded)
	if err != nil {
		return Array{}, fmt.Errorf("%s compression failed: %w", cfg.compression, err)
	}

	return Array{
		Scheme:      scheme,
		Compression: cfg.compression,
		FixedPoint:  fixedPoint,
		Count:       len(data),
		EncodedSize: len(encoded),
		Data:        payload,
	}, nil
}

// Decode decompresses data with comp, then decodes it with scheme.
func Decode(scheme format.Scheme, comp format.CompressionType, data []byte) ([]float64, error) {
	raw, err := decompress(scheme, comp, data)
	if err != nil {
		return nil, err
	}

	return decodeScheme(scheme, raw)
}

// DecodeAccession decodes a binary array by its PSI-MS numpress accession.
//
// The "followed by zlib" accessions are inflated before decoding. Linear and PIC
// input shorter than the 8-byte fixed-point header is rejected with
// ErrTruncatedHeader, as mzML readers do.
//
// Returns:
//   - []float64: Decoded samples
//   - error: ErrUnsupportedAccession, ErrTruncatedHeader, or any error of Decode
func DecodeAccession(accession string, data []byte) ([]float64, error) {
	scheme, comp, err := format.ParseAccession(accession)
	if err != nil {
		return nil, err
	}

	raw, err := decompress(scheme, comp, data)
	if err != nil {
		return nil, err
	}

	if scheme != format.SchemeSlof && len(raw) < encoding.FixedPointSize {
		return nil, fmt.Errorf("%w: %s array of %d bytes for %s",
			errs.ErrTruncatedHeader, scheme, len(raw), accession)
	}

	return decodeScheme(scheme, raw)
}

func decompress(scheme format.Scheme, comp format.CompressionType, data []byte) ([]byte, error) {
	if !scheme.Valid() {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedScheme, scheme)
	}

	codec, err := compress.GetCodec(comp)
	if err != nil {
		return nil, err
	}

	raw, err := codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%s decompression failed: %w", comp, err)
	}

	return raw, nil
}

func decodeScheme(scheme format.Scheme, raw []byte) ([]float64, error) {
	switch scheme {
	case format.SchemeLinear:
		return DecodeLinear(raw)
	case format.SchemePic:
		return DecodePic(raw)
	default:
		return DecodeSlof(raw)
	}
}
