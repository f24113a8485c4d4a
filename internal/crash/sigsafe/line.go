package sigsafe

// LineSize is the capacity of a Line in bytes.
// Appends past this point are dropped, so an overlong symbol name truncates
// the line instead of growing it.
const LineSize = 1024

const hexDigits = "0123456789abcdef"

// Line is a fixed-capacity text buffer.
//
// The zero value is an empty line ready to use. A Line lives on the stack of
// the capture routine; it must never be copied into a heap object.
type Line struct {
	buf [LineSize]byte
	n   int
}

// Reset empties the line.
func (l *Line) Reset() {
	l.n = 0
}

// Len returns the number of bytes written so far.
func (l *Line) Len() int {
	return l.n
}

// Bytes returns the written portion of the buffer.
// The slice aliases the Line and is only valid until the next append.
func (l *Line) Bytes() []byte {
	return l.buf[:l.n]
}

// Byte appends c.
func (l *Line) Byte(c byte) {
	if l.n < LineSize {
		l.buf[l.n] = c
		l.n++
	}
}

// Newline terminates the line with '\n'. On a full line the last byte is
// overwritten, so a truncated line still ends where it should.
func (l *Line) Newline() {
	if l.n == LineSize {
		l.n--
	}
	l.buf[l.n] = '\n'
	l.n++
}

// String appends s, truncating at capacity.
func (l *Line) String(s string) {
	l.n += copy(l.buf[l.n:], s)
}

// Int appends v in decimal.
func (l *Line) Int(v int64) {
	// 20 digits for |MinInt64| plus the sign.
	var tmp [21]byte
	i := len(tmp)

	u := uint64(v)
	if v < 0 {
		u = uint64(-v)
	}
	for {
		i--
		tmp[i] = byte('0' + u%10)
		u /= 10
		if u == 0 {
			break
		}
	}
	if v < 0 {
		i--
		tmp[i] = '-'
	}

	l.n += copy(l.buf[l.n:], tmp[i:])
}

// Hex appends v as "0x" followed by lowercase hex digits without leading
// zeros, the way %p renders a non-nil pointer.
func (l *Line) Hex(v uint64) {
	var tmp [18]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = hexDigits[v&0xf]
		v >>= 4
		if v == 0 {
			break
		}
	}
	i--
	tmp[i] = 'x'
	i--
	tmp[i] = '0'

	l.n += copy(l.buf[l.n:], tmp[i:])
}

// Pad appends spaces until the text written since offset start is at least
// width bytes long. Together with Len it gives %-Ns alignment:
//
//	start := line.Len()
//	line.String(name)
//	line.Pad(start, 35)
func (l *Line) Pad(start, width int) {
	for l.n-start < width && l.n < LineSize {
		l.buf[l.n] = ' '
		l.n++
	}
}
