// Package encoding implements the MS-Numpress array codecs.
//
// Three schemes are provided, each tuned to a kind of mass-spectrometry array:
//
//   - Linear: second-order prediction over fixed-point values. Best for smoothly
//     increasing arrays such as m/z or retention time.
//   - PIC (positive integer compression): values rounded to non-negative integers.
//     Best for ion counts.
//   - SLOF (short logged float): log-transformed values stored as 16-bit fixed point.
//     Best for intensities, with about 0.05% relative error.
//
// Linear and PIC store integers with the nibble format from internal/encoding.
// Linear and SLOF start with an 8-byte header holding the fixed point, the scale
// that converts samples to integers.
//
// # Encoded Layouts
//
//	Linear: [fixed point: 8B BE][q0: 4B LE][q1: 4B LE][nibble residuals...]
//	PIC:    [nibble counts...]
//	SLOF:   [fixed point: 8B BE][uint16 LE]...
//
// Integers are little-endian; the fixed point is the big-endian IEEE-754 bit
// pattern of a float64.
//
// # Choosing a Fixed Point
//
// The fixed point trades precision for safety: Linear residuals must fit a signed
// 32-bit integer and SLOF values an unsigned 16-bit one. Use the optimizers:
//
//	fp := encoding.OptimalLinearFixedPoint(mz)
//	enc := encoding.NewLinearEncoder(fp)
//	defer enc.Finish()
//	if err := enc.WriteSlice(mz); err != nil {
//	    return err
//	}
//	data := bytes.Clone(enc.Bytes())
//
// Or target an absolute m/z accuracy:
//
//	fp := encoding.OptimalLinearFixedPointMass(mz, 0.0001)
//	if fp == encoding.AccuracyUnattainable {
//	    // fall back to OptimalLinearFixedPoint or skip numpress
//	}
//
// # Decoding
//
// Decoders are stateless values and safe for concurrent use. Decode appends to a
// caller-supplied slice and returns it unchanged on error, so a corrupt buffer never
// produces a silently truncated array:
//
//	values, err := encoding.NewLinearDecoder().Decode(nil, data)
//
// All iterates samples without allocating the output slice:
//
//	for v, err := range encoding.NewPicDecoder().All(data) {
//	    if err != nil {
//	        return err
//	    }
//	    total += v
//	}
//
// # Encoders
//
// Encoders are single-goroutine objects backed by a pooled buffer. Call Finish when
// done to return the buffer; Bytes is invalid afterwards, so copy it first.
package encoding
