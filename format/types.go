package format

import (
	"fmt"

	"github.com/arloliu/numpress/errs"
)

type (
	Scheme          uint8
	CompressionType uint8
)

const (
	SchemeLinear Scheme = 0x1 // SchemeLinear represents linear prediction encoding.
	SchemePic    Scheme = 0x2 // SchemePic represents positive integer compression.
	SchemeSlof   Scheme = 0x3 // SchemeSlof represents short logged float encoding.

	CompressionNone   CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd   CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2     CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4    CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	CompressionZlib   CompressionType = 0x5 // CompressionZlib represents zlib compression.
	CompressionSnappy CompressionType = 0x6 // CompressionSnappy represents Snappy compression.
)

// PSI-MS controlled vocabulary accessions for numpress compressions.
const (
	AccessionLinear     = "MS:1002312" // MS-Numpress linear prediction compression
	AccessionPic        = "MS:1002313" // MS-Numpress positive integer compression
	AccessionSlof       = "MS:1002314" // MS-Numpress short logged float compression
	AccessionLinearZlib = "MS:1002746" // MS-Numpress linear prediction compression followed by zlib compression
	AccessionPicZlib    = "MS:1002747" // MS-Numpress positive integer compression followed by zlib compression
	AccessionSlofZlib   = "MS:1002748" // MS-Numpress short logged float compression followed by zlib compression
)

type accessionEntry struct {
	scheme Scheme
	comp   CompressionType
}

var accessions = map[string]accessionEntry{
	AccessionLinear:     {SchemeLinear, CompressionNone},
	AccessionPic:        {SchemePic, CompressionNone},
	AccessionSlof:       {SchemeSlof, CompressionNone},
	AccessionLinearZlib: {SchemeLinear, CompressionZlib},
	AccessionPicZlib:    {SchemePic, CompressionZlib},
	AccessionSlofZlib:   {SchemeSlof, CompressionZlib},
}

func (s Scheme) String() string {
	switch s {
	case SchemeLinear:
		return "Linear"
	case SchemePic:
		return "Pic"
	case SchemeSlof:
		return "Slof"
	default:
		return "Unknown"
	}
}

// Valid reports whether s is a known scheme.
func (s Scheme) Valid() bool {
	return s >= SchemeLinear && s <= SchemeSlof
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZlib:
		return "Zlib"
	case CompressionSnappy:
		return "Snappy"
	default:
		return "Unknown"
	}
}

// ParseAccession maps a PSI-MS accession to its numpress scheme and the compression
// applied after it.
//
// Returns:
//   - Scheme: Numpress scheme named by the accession
//   - CompressionType: CompressionNone or CompressionZlib
//   - error: ErrUnsupportedAccession for any other accession
func ParseAccession(accession string) (Scheme, CompressionType, error) {
	entry, ok := accessions[accession]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedAccession, accession)
	}

	return entry.scheme, entry.comp, nil
}

// Accession returns the PSI-MS accession for a scheme and compression pair.
//
// Only CompressionNone and CompressionZlib have accessions; other compressions
// return ErrUnsupportedCompression.
func Accession(scheme Scheme, comp CompressionType) (string, error) {
	if !scheme.Valid() {
		return "", fmt.Errorf("%w: %s", errs.ErrUnsupportedScheme, scheme)
	}

	for acc, entry := range accessions {
		if entry.scheme == scheme && entry.comp == comp {
			return acc, nil
		}
	}

	return "", fmt.Errorf("%w: no accession for %s followed by %s", errs.ErrUnsupportedCompression, scheme, comp)
}
