package encoding

import (
	"fmt"

	"github.com/arloliu/numpress/errs"
	"github.com/arloliu/numpress/internal/pool"
)

// MaxIntNibbles is the largest number of nibbles PutInt produces.
const MaxIntNibbles = 9

const (
	low32Mask      int64 = 0xffffffff
	topNibbleMask  int64 = 0xf0000000
	nibbleMask     int64 = 0xf
	headerNegative byte  = 0x8
)

// PutInt encodes the low 32 bits of x into dst, one nibble per byte, and returns the
// number of nibbles written (1 to 9).
//
// dst is a fixed-size scratch array so callers can keep it on the stack.
func PutInt(dst *[10]byte, x int64) int {
	v := x & low32Mask

	var leading int
	switch v & topNibbleMask {
	case 0:
		leading = 8
		for i := range 8 {
			if v&(topNibbleMask>>(4*i)) != 0 {
				leading = i
				break
			}
		}
		dst[0] = byte(leading)
	case topNibbleMask:
		leading = 7
		for i := range 8 {
			m := topNibbleMask >> (4 * i)
			if v&m != m {
				leading = i
				break
			}
		}
		dst[0] = byte(leading) | headerNegative
	default:
		dst[0] = 0
		for i := range 8 {
			dst[1+i] = byte((v >> (4 * i)) & nibbleMask)
		}

		return MaxIntNibbles
	}

	for i := leading; i < 8; i++ {
		dst[1+i-leading] = byte((v >> (4 * (i - leading))) & nibbleMask)
	}

	return 1 + 8 - leading
}

// Cursor is a read position in a nibble stream.
//
// Pos is the byte index; Half reports whether the low nibble of data[Pos] is next.
// A Cursor is a plain value: every ReadInt returns the advanced cursor and leaves
// the argument untouched.
type Cursor struct {
	Pos  int
	Half bool
}

// NewCursor returns a cursor at the high nibble of byte pos.
func NewCursor(pos int) Cursor {
	return Cursor{Pos: pos}
}

// Done reports whether no further integer can be read from data at c.
//
// It returns true at the end of data, and when c is on the low nibble of the last
// byte and that nibble is the encoder pad rather than an encoded zero (8).
func (c Cursor) Done(data []byte) bool {
	if c.Pos >= len(data) {
		return true
	}

	return c.Half && c.Pos == len(data)-1 && data[c.Pos]&0xf != headerNegative
}

func (c Cursor) next(data []byte) (byte, Cursor, bool) {
	if c.Pos >= len(data) {
		return 0, c, false
	}

	b := data[c.Pos]
	if c.Half {
		return b & 0xf, Cursor{Pos: c.Pos + 1}, true
	}

	return b >> 4, Cursor{Pos: c.Pos, Half: true}, true
}

// ReadInt decodes one integer from data starting at cur.
//
// It returns the 32-bit pattern of the integer and the cursor positioned after it.
// Callers reinterpret the pattern: int32 for signed residuals, uint32 for counts.
//
// Returns errs.ErrCorruptStream if data ends inside the integer.
func ReadInt(data []byte, cur Cursor) (uint32, Cursor, error) {
	start := cur

	head, cur, ok := cur.next(data)
	if !ok {
		return 0, start, fmt.Errorf("%w: no header nibble at byte %d", errs.ErrCorruptStream, start.Pos)
	}

	var res int64
	n := int(head)
	if head > headerNegative {
		n = int(head - headerNegative)
		for i := range n {
			res |= topNibbleMask >> (4 * i)
		}
	}

	if n == 8 {
		return 0, cur, nil
	}

	for i := n; i < 8; i++ {
		var nb byte
		nb, cur, ok = cur.next(data)
		if !ok {
			return 0, start, fmt.Errorf("%w: integer at byte %d needs %d nibbles, stream ended after %d",
				errs.ErrCorruptStream, start.Pos, 9-n, i-n+1)
		}
		res |= int64(nb) << (4 * (i - n))
	}

	return uint32(res & low32Mask), cur, nil //nolint:gosec
}

// NibbleWriter packs nibbles into a byte buffer, high nibble first.
//
// The writer appends to whatever the buffer already holds, so a scheme header can be
// written to the same buffer before the first nibble.
type NibbleWriter struct {
	buf  *pool.ByteBuffer
	half bool
}

// NewNibbleWriter returns a writer appending to buf.
func NewNibbleWriter(buf *pool.ByteBuffer) NibbleWriter {
	return NibbleWriter{buf: buf}
}

// WriteNibble appends the low 4 bits of nb.
func (w *NibbleWriter) WriteNibble(nb byte) {
	nb &= 0xf
	if w.half {
		w.buf.B[len(w.buf.B)-1] |= nb
	} else {
		w.buf.AppendByte(nb << 4)
	}
	w.half = !w.half
}

// WriteInt encodes x with PutInt and appends its nibbles.
//
// Returns the number of nibbles written.
func (w *NibbleWriter) WriteInt(x int64) int {
	var scratch [10]byte
	n := PutInt(&scratch, x)
	for _, nb := range scratch[:n] {
		w.WriteNibble(nb)
	}

	return n
}

// Half reports whether the last written byte has an unused low nibble.
func (w *NibbleWriter) Half() bool {
	return w.half
}

// Mark records the writer position so a failed batch of writes can be undone.
type Mark struct {
	size int
	half bool
}

// Mark returns the current position.
func (w *NibbleWriter) Mark() Mark {
	return Mark{size: len(w.buf.B), half: w.half}
}

// Rewind truncates the buffer back to m, clearing a low nibble written since.
func (w *NibbleWriter) Rewind(m Mark) {
	w.buf.B = w.buf.B[:m.size]
	if m.half {
		w.buf.B[m.size-1] &= 0xf0
	}
	w.half = m.half
}

// Reset discards the pending half byte state so the next nibble starts a new byte.
func (w *NibbleWriter) Reset() {
	w.half = false
}
