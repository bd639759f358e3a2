package encoding

import (
	"encoding/hex"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/arloliu/numpress/errs"
	"github.com/stretchr/testify/require"
)

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)

	return b
}

func encodeLinear(t testing.TB, data []float64, fp float64) []byte {
	t.Helper()
	enc := NewLinearEncoder(fp)
	defer enc.Finish()
	require.NoError(t, enc.WriteSlice(data))

	return append([]byte(nil), enc.Bytes()...)
}

var mzLong = []float64{100.0, 200.0, 300.00005, 400.00010, 450.00010, 455.00010, 700.00010}

// === LinearEncoder Tests ===

func TestLinearEncoder_NewEncoder(t *testing.T) {
	enc := NewLinearEncoder(LegacyLinearFixedPoint)
	defer enc.Finish()

	require.Equal(t, 0, enc.Len())
	require.Equal(t, FixedPointSize, enc.Size())
	require.Equal(t, []byte{0x40, 0xf8, 0x6a, 0, 0, 0, 0, 0}, enc.Bytes())
	require.Equal(t, LegacyLinearFixedPoint, enc.FixedPoint())
}

func TestLinearEncoder_Vectors(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		fp   float64
		want []byte
	}{
		{
			name: "ramp",
			data: []float64{100, 101, 102, 103},
			fp:   100000,
			want: []byte{64, 248, 106, 0, 0, 0, 0, 0, 128, 150, 152, 0, 32, 29, 154, 0, 136},
		},
		{
			name: "padded residuals",
			data: []float64{100, 200, 300.00005, 400.0001},
			fp:   100000,
			want: mustHex(t, "40f86a000000000080969800002d31017580"),
		},
		{
			name: "long",
			data: mzLong,
			fp:   500,
			want: mustHex(t, "407f40000000000050c30000a086010088c85e9cc18a30c4d1"),
		},
		{
			name: "empty with zero fixed point",
			data: nil,
			fp:   0,
			want: make([]byte, 8),
		},
		{
			name: "single",
			data: []float64{1.5},
			fp:   2,
			want: mustHex(t, "400000000000000003000000"),
		},
		{
			name: "pair",
			data: []float64{1, 2},
			fp:   10,
			want: mustHex(t, "40240000000000000a00000014000000"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeLinear(t, tt.data, tt.fp)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLinearEncoder_NegativeRoundsTowardZero(t *testing.T) {
	// -33 + 0.5 truncates to -32; the residual -62 takes the nibbles e, 2, c.
	data := []float64{1, 2, -3.3}

	got := encodeLinear(t, data, 10)
	require.Equal(t, mustHex(t, "40240000000000000a00000014000000e2c0"), got)

	decoded, err := NewLinearDecoder().Decode(nil, got)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, -3.2}, decoded)
	// 0.5/fp does not bound negative samples.
	require.Greater(t, math.Abs(decoded[2]-data[2]), 0.5/10)
}

func TestLinearEncoder_BoundarySizes(t *testing.T) {
	require.Len(t, encodeLinear(t, nil, 1000), 8)
	require.Len(t, encodeLinear(t, []float64{1}, 1000), 12)
	require.Len(t, encodeLinear(t, []float64{1, 2}, 1000), 16)
}

func TestLinearEncoder_SizeDependsOnFixedPoint(t *testing.T) {
	tests := []struct {
		fp   float64
		size int
	}{
		{5, 22},
		{500, 25},
		{5e4, 29},
		{5e5, 30},
		{5e6, 31},
	}

	for _, tt := range tests {
		got := encodeLinear(t, mzLong, tt.fp)
		require.Len(t, got, tt.size, "fixed point %v", tt.fp)
		require.LessOrEqual(t, len(got), MaxLinearEncodedLen(len(mzLong)))
	}
}

func TestLinearEncoder_WriteMatchesWriteSlice(t *testing.T) {
	enc := NewLinearEncoder(500)
	defer enc.Finish()
	for _, v := range mzLong {
		require.NoError(t, enc.Write(v))
	}

	require.Equal(t, len(mzLong), enc.Len())
	require.Equal(t, encodeLinear(t, mzLong, 500), enc.Bytes())
}

func TestLinearEncoder_Errors(t *testing.T) {
	t.Run("invalid fixed point", func(t *testing.T) {
		for _, fp := range []float64{0, -1, math.NaN(), math.Inf(1)} {
			enc := NewLinearEncoder(fp)
			require.ErrorIs(t, enc.Write(1), errs.ErrInvalidFixedPoint)
			require.ErrorIs(t, enc.WriteSlice([]float64{1, 2}), errs.ErrInvalidFixedPoint)
			require.Equal(t, FixedPointSize, enc.Size())
			enc.Finish()
		}
	})

	t.Run("negative seed", func(t *testing.T) {
		enc := NewLinearEncoder(1)
		defer enc.Finish()
		require.ErrorIs(t, enc.Write(-5), errs.ErrValueOverflow)
		require.Equal(t, 0, enc.Len())
	})

	t.Run("seed above uint32", func(t *testing.T) {
		enc := NewLinearEncoder(1)
		defer enc.Finish()
		require.NoError(t, enc.Write(1))
		require.ErrorIs(t, enc.Write(5e9), errs.ErrValueOverflow)
		require.Equal(t, 1, enc.Len())
	})

	t.Run("not finite", func(t *testing.T) {
		enc := NewLinearEncoder(1)
		defer enc.Finish()
		require.ErrorIs(t, enc.Write(math.NaN()), errs.ErrValueOverflow)
		require.ErrorIs(t, enc.Write(math.Inf(1)), errs.ErrValueOverflow)
	})

	t.Run("residual overflow", func(t *testing.T) {
		enc := NewLinearEncoder(1)
		defer enc.Finish()
		require.ErrorIs(t, enc.WriteSlice([]float64{0, 0, 3e9}), errs.ErrResidualOverflow)
		require.Equal(t, 0, enc.Len())
		require.Equal(t, FixedPointSize, enc.Size())
	})
}

func TestLinearEncoder_WriteSliceIsAtomic(t *testing.T) {
	enc := NewLinearEncoder(1)
	defer enc.Finish()

	// Three samples leave a half byte pending.
	require.NoError(t, enc.WriteSlice([]float64{1, 2, 3}))
	before := append([]byte(nil), enc.Bytes()...)

	err := enc.WriteSlice([]float64{4, 1e12})
	require.ErrorIs(t, err, errs.ErrResidualOverflow)
	require.Equal(t, 3, enc.Len())
	require.Equal(t, before, enc.Bytes())

	require.NoError(t, enc.WriteSlice([]float64{4, 5}))
	require.Equal(t, encodeLinear(t, []float64{1, 2, 3, 4, 5}, 1), enc.Bytes())
}

func TestLinearEncoder_Reset(t *testing.T) {
	enc := NewLinearEncoder(100)
	defer enc.Finish()

	require.NoError(t, enc.WriteSlice([]float64{1, 2, 3}))
	enc.Reset()

	require.Equal(t, 0, enc.Len())
	require.Equal(t, FixedPointSize, enc.Size())

	require.NoError(t, enc.WriteSlice([]float64{7, 8}))
	require.Equal(t, encodeLinear(t, []float64{7, 8}, 100), enc.Bytes())
}

func TestLinearEncoder_Finish(t *testing.T) {
	enc := NewLinearEncoder(100)
	enc.Finish()

	require.Equal(t, 0, enc.Len())
	require.Panics(t, func() { _ = enc.Write(1) })
	require.Panics(t, func() { _ = enc.WriteSlice([]float64{1}) })
	require.Panics(t, func() { enc.Bytes() })
	require.Panics(t, func() { enc.Size() })
	require.NotPanics(t, func() { enc.Finish() })
}

// === LinearDecoder Tests ===

func TestLinearDecoder_Vector(t *testing.T) {
	data := []byte{64, 248, 106, 0, 0, 0, 0, 0, 128, 150, 152, 0, 32, 29, 154, 0, 136}

	got, err := NewLinearDecoder().Decode(nil, data)
	require.NoError(t, err)
	require.Equal(t, []float64{100, 101, 102, 103}, got)
}

func TestLinearDecoder_Boundaries(t *testing.T) {
	dec := NewLinearDecoder()

	got, err := dec.Decode(nil, mustHex(t, "4024000000000000"))
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = dec.Decode(nil, mustHex(t, "400000000000000003000000"))
	require.NoError(t, err)
	require.Equal(t, []float64{1.5}, got)

	got, err = dec.Decode(nil, mustHex(t, "40240000000000000a00000014000000"))
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, got)
}

func TestLinearDecoder_TruncatedHeader(t *testing.T) {
	full := mustHex(t, "40240000000000000a00000014000000")
	dec := NewLinearDecoder()

	for _, n := range []int{0, 1, 7, 9, 10, 11, 13, 14, 15} {
		got, err := dec.Decode(nil, full[:n])
		require.ErrorIs(t, err, errs.ErrTruncatedHeader, "length %d", n)
		require.Empty(t, got)
	}
}

func TestLinearDecoder_SentinelStop(t *testing.T) {
	// Seeds 1 and 2, then residuals 0 0 0 and a pad nibble.
	data := mustHex(t, "3ff00000000000000100000002000000" + "8880")
	dec := NewLinearDecoder()

	got, err := dec.Decode(nil, data)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 4, 5}, got)

	// A final low nibble of 8 is a real zero residual.
	data[len(data)-1] = 0x88
	got, err = dec.Decode(nil, data)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 4, 5, 6}, got)

	// Any other final low nibble is padding.
	data[len(data)-1] = 0x87
	got, err = dec.Decode(nil, data)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 4, 5}, got)
}

func TestLinearDecoder_CorruptStream(t *testing.T) {
	// Header nibble 0 announces eight more nibbles, only three follow.
	data := mustHex(t, "3ff00000000000000100000002000000" + "0123")
	dst := []float64{42}

	got, err := NewLinearDecoder().Decode(dst, data)
	require.ErrorIs(t, err, errs.ErrCorruptStream)
	require.Equal(t, []float64{42}, got, "no partial result on error")
}

func TestLinearDecoder_InvalidFixedPoint(t *testing.T) {
	data := mustHex(t, "000000000000000001000000")
	_, err := NewLinearDecoder().Decode(nil, data)
	require.ErrorIs(t, err, errs.ErrInvalidFixedPoint)

	// An empty array carries no samples to scale.
	got, err := NewLinearDecoder().Decode(nil, data[:8])
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestLinearDecoder_All(t *testing.T) {
	data := encodeLinear(t, mzLong, 500)

	var got []float64
	for v, err := range NewLinearDecoder().All(data) {
		require.NoError(t, err)
		got = append(got, v)
	}
	require.Len(t, got, len(mzLong))

	// Early break.
	var first []float64
	for v := range NewLinearDecoder().All(data) {
		first = append(first, v)
		if len(first) == 3 {
			break
		}
	}
	require.Equal(t, got[:3], first)
}

func TestLinearDecoder_AllReportsError(t *testing.T) {
	data := mustHex(t, "3ff00000000000000100000002000000" + "0123")

	var (
		values  []float64
		lastErr error
	)
	for v, err := range NewLinearDecoder().All(data) {
		if err != nil {
			lastErr = err
			break
		}
		values = append(values, v)
	}

	require.Equal(t, []float64{1, 2}, values)
	require.ErrorIs(t, lastErr, errs.ErrCorruptStream)
}

func TestLinear_RoundTripLong(t *testing.T) {
	data := encodeLinear(t, mzLong, 500)
	got, err := NewLinearDecoder().Decode(nil, data)
	require.NoError(t, err)
	require.Len(t, got, len(mzLong))
	for i, v := range mzLong {
		require.InDelta(t, v, got[i], 0.001)
	}
}

func generateMz(r *rand.Rand, n int) []float64 {
	values := make([]float64, n)
	mz := 300 + r.Float64()*100
	for i := range values {
		values[i] = mz
		mz += 0.001 + r.Float64()*2
	}

	return values
}

func TestLinear_RoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))

	for _, n := range []int{3, 10, 100, 1000, 10000} {
		data := generateMz(r, n)
		fp := OptimalLinearFixedPoint(data)
		require.Positive(t, fp)

		encoded := encodeLinear(t, data, fp)
		require.LessOrEqual(t, len(encoded), MaxLinearEncodedLen(n))

		decoded, err := NewLinearDecoder().Decode(nil, encoded)
		require.NoError(t, err)
		require.Len(t, decoded, n)
		for i, v := range data {
			require.InDelta(t, v, decoded[i], 0.5/fp+1e-9)
		}
	}
}

func TestLinear_RoundTripMassAccuracy(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	data := generateMz(r, 2000)

	const accuracy = 0.0001
	fp := OptimalLinearFixedPointMass(data, accuracy)
	require.NotEqual(t, AccuracyUnattainable, fp)

	decoded, err := NewLinearDecoder().Decode(nil, encodeLinear(t, data, fp))
	require.NoError(t, err)
	for i, v := range data {
		require.InDelta(t, v, decoded[i], accuracy+1e-9)
	}
}

func TestLinear_Idempotent(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	data := generateMz(r, 500)
	fp := OptimalLinearFixedPoint(data)
	dec := NewLinearDecoder()

	first, err := dec.Decode(nil, encodeLinear(t, data, fp))
	require.NoError(t, err)

	current := first
	for range 5 {
		next, err := dec.Decode(nil, encodeLinear(t, current, fp))
		require.NoError(t, err)
		require.Equal(t, first, next)
		current = next
	}
}

func TestLinearDecoder_Concurrent(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	data := generateMz(r, 1000)
	encoded := encodeLinear(t, data, OptimalLinearFixedPoint(data))

	dec := NewLinearDecoder()
	want, err := dec.Decode(nil, encoded)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				got, err := dec.Decode(nil, encoded)
				if err != nil || len(got) != len(want) {
					t.Errorf("concurrent decode: len %d, err %v", len(got), err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
