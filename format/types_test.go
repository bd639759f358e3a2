package format

import (
	"testing"

	"github.com/arloliu/numpress/errs"
	"github.com/stretchr/testify/require"
)

func TestParseAccession(t *testing.T) {
	tests := []struct {
		accession string
		scheme    Scheme
		comp      CompressionType
	}{
		{"MS:1002312", SchemeLinear, CompressionNone},
		{"MS:1002313", SchemePic, CompressionNone},
		{"MS:1002314", SchemeSlof, CompressionNone},
		{"MS:1002746", SchemeLinear, CompressionZlib},
		{"MS:1002747", SchemePic, CompressionZlib},
		{"MS:1002748", SchemeSlof, CompressionZlib},
	}

	for _, tt := range tests {
		t.Run(tt.accession, func(t *testing.T) {
			scheme, comp, err := ParseAccession(tt.accession)
			require.NoError(t, err)
			require.Equal(t, tt.scheme, scheme)
			require.Equal(t, tt.comp, comp)

			acc, err := Accession(scheme, comp)
			require.NoError(t, err)
			require.Equal(t, tt.accession, acc)
		})
	}
}

func TestParseAccession_Unsupported(t *testing.T) {
	for _, acc := range []string{"", "MS:1000576", "MS:1002315", "ms:1002312"} {
		_, _, err := ParseAccession(acc)
		require.ErrorIs(t, err, errs.ErrUnsupportedAccession, acc)
	}
}

func TestAccession_Unsupported(t *testing.T) {
	_, err := Accession(SchemeLinear, CompressionZstd)
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)

	_, err = Accession(Scheme(0), CompressionNone)
	require.ErrorIs(t, err, errs.ErrUnsupportedScheme)

	_, err = Accession(Scheme(9), CompressionZlib)
	require.ErrorIs(t, err, errs.ErrUnsupportedScheme)
}

func TestScheme_String(t *testing.T) {
	require.Equal(t, "Linear", SchemeLinear.String())
	require.Equal(t, "Pic", SchemePic.String())
	require.Equal(t, "Slof", SchemeSlof.String())
	require.Equal(t, "Unknown", Scheme(0).String())
}

func TestCompressionType_String(t *testing.T) {
	require.Equal(t, "None", CompressionNone.String())
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "S2", CompressionS2.String())
	require.Equal(t, "LZ4", CompressionLZ4.String())
	require.Equal(t, "Zlib", CompressionZlib.String())
	require.Equal(t, "Snappy", CompressionSnappy.String())
	require.Equal(t, "Unknown", CompressionType(0xff).String())
}
