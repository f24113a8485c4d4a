//go:build unix

package sigsafe

import "golang.org/x/sys/unix"

// maxWriteAttempts bounds the retry loop for partial writes and EINTR.
const maxWriteAttempts = 8

// Sink writes the same bytes to up to two descriptors.
//
// Write errors are ignored: each descriptor gets one best-effort pass and a
// failing descriptor never stops output to the other one.
type Sink struct {
	fds [2]int
	n   int
}

// Add registers fd as an output. Negative descriptors (a failed open) and
// descriptors beyond capacity are ignored.
func (s *Sink) Add(fd int) {
	if fd < 0 || s.n == len(s.fds) {
		return
	}
	s.fds[s.n] = fd
	s.n++
}

// Write sends b to every registered descriptor.
func (s *Sink) Write(b []byte) {
	for i := 0; i < s.n; i++ {
		writeAll(s.fds[i], b)
	}
}

// WriteString sends s to every registered descriptor without converting it to
// a heap-allocated byte slice.
func (s *Sink) WriteString(str string) {
	var line Line
	for len(str) > 0 {
		line.Reset()
		line.String(str)
		s.Write(line.Bytes())
		str = str[line.Len():]
	}
}

// Line sends the contents of l and resets it.
func (s *Sink) Line(l *Line) {
	s.Write(l.Bytes())
	l.Reset()
}

func writeAll(fd int, b []byte) {
	for attempt := 0; len(b) > 0 && attempt < maxWriteAttempts; attempt++ {
		n, err := unix.Write(fd, b)
		if n > 0 {
			b = b[n:]
		}
		if err != nil && err != unix.EINTR && err != unix.EAGAIN {
			return
		}
	}
}
