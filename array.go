package numpress

import (
	"github.com/arloliu/numpress/compress"
	"github.com/arloliu/numpress/format"
	"github.com/arloliu/numpress/internal/hash"
)

// Array is an encoded binary data array with the metadata needed to decode it.
type Array struct {
	// Scheme is the numpress scheme of the encoding.
	Scheme format.Scheme

	// Compression is the stage applied after numpress.
	Compression format.CompressionType

	// FixedPoint is the scaling factor stored in the header. Zero for PIC.
	FixedPoint float64

	// Count is the number of samples.
	Count int

	// EncodedSize is the size of the numpress encoding before compression.
	EncodedSize int

	// Data is the encoded, and possibly compressed, array.
	Data []byte
}

// Accession returns the PSI-MS accession of the array, such as "MS:1002312".
//
// Arrays compressed with anything other than zlib have no accession and return
// ErrUnsupportedCompression.
func (a Array) Accession() (string, error) {
	return format.Accession(a.Scheme, a.Compression)
}

// Decode decodes the array.
func (a Array) Decode() ([]float64, error) {
	return Decode(a.Scheme, a.Compression, a.Data)
}

// Checksum returns the xxHash64 digest of Data.
func (a Array) Checksum() uint64 {
	return hash.Sum(a.Data)
}

// Fingerprint returns the xxHash64 digest of the scheme, the compression and Data.
//
// Unlike Checksum it differs for identical bytes under different accessions.
func (a Array) Fingerprint() uint64 {
	return hash.SumParts([]byte{byte(a.Scheme), byte(a.Compression)}, a.Data)
}

// Stats reports the effect of the compression stage.
func (a Array) Stats() compress.CompressionStats {
	return compress.CompressionStats{
		Algorithm:      a.Compression,
		OriginalSize:   int64(a.EncodedSize),
		CompressedSize: int64(len(a.Data)),
	}
}

// BytesPerSample returns the average encoded size of one sample, or 0 for an empty
// array.
func (a Array) BytesPerSample() float64 {
	if a.Count == 0 {
		return 0
	}

	return float64(len(a.Data)) / float64(a.Count)
}
