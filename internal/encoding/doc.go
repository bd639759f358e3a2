// Package encoding implements the half-byte (nibble) integer codec shared by the
// Linear and PIC schemes.
//
// This package is internal and should not be imported by external code. Use the
// public encoders and decoders in github.com/arloliu/numpress/encoding, or the
// convenience functions in the root numpress package.
//
// # Nibble Integer Format
//
// An integer is stored as 1 to 9 nibbles. Only the low 32 bits of the value take
// part in the encoding. The first nibble is a header:
//
//   - 0..8: the value has that many leading zero nibbles. A header of 8 is the
//     value 0 and nothing follows.
//   - 9..15: the value has (header - 8) leading 0xF nibbles.
//
// The remaining (8 - n) nibbles follow, least significant first. A value whose top
// nibble is neither 0x0 nor 0xF is written with header 0 and all eight nibbles.
//
// Examples:
//
//	0          -> 8
//	-1         -> F F
//	35         -> 6 3 2
//	370000000  -> 0 0 8 0 C D 0 6 1
//
// # Packing
//
// Nibbles are packed two per byte, high nibble first. A stream ending in the
// middle of a byte is padded with a 0 nibble. Because a real encoded integer never
// starts with a lone 0 nibble at the end of a stream, decoders stop when the final
// low nibble is anything but 8.
package encoding
