//go:build unix

package sigsafe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempFile(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func contents(t *testing.T, f *os.File) string {
	t.Helper()
	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("read %s: %v", f.Name(), err)
	}
	return string(data)
}

// TestSinkFanOut verifies both descriptors receive identical bytes.
func TestSinkFanOut(t *testing.T) {
	a := tempFile(t, "a.txt")
	b := tempFile(t, "b.txt")

	var s Sink
	s.Add(int(a.Fd()))
	s.Add(int(b.Fd()))

	var l Line
	l.String("frame ")
	l.Int(3)
	l.Byte('\n')
	s.Line(&l)
	s.WriteString("done\n")

	if l.Len() != 0 {
		t.Errorf("Line() did not reset the buffer, Len() = %d", l.Len())
	}
	for _, f := range []*os.File{a, b} {
		if got := contents(t, f); got != "frame 3\ndone\n" {
			t.Errorf("%s = %q, want %q", filepath.Base(f.Name()), got, "frame 3\ndone\n")
		}
	}
}

// TestSinkIgnoresBadDescriptors checks that a failed open (-1) and a closed
// descriptor do not stop output to the healthy one.
func TestSinkIgnoresBadDescriptors(t *testing.T) {
	good := tempFile(t, "good.txt")
	closed := tempFile(t, "closed.txt")
	closedFd := int(closed.Fd())
	_ = closed.Close()

	var s Sink
	s.Add(-1)
	s.Add(closedFd)
	s.Add(int(good.Fd()))
	s.WriteString("still here\n")

	if got := contents(t, good); got != "still here\n" {
		t.Errorf("good descriptor got %q", got)
	}
}

// TestSinkCapacity verifies descriptors past the second are dropped.
func TestSinkCapacity(t *testing.T) {
	files := []*os.File{tempFile(t, "1"), tempFile(t, "2"), tempFile(t, "3")}

	var s Sink
	for _, f := range files {
		s.Add(int(f.Fd()))
	}
	s.WriteString("x")

	if got := contents(t, files[2]); got != "" {
		t.Errorf("third descriptor received %q, want nothing", got)
	}
}

// TestSinkWriteStringLong verifies strings longer than a Line are written
// in full.
func TestSinkWriteStringLong(t *testing.T) {
	f := tempFile(t, "long.txt")
	want := strings.Repeat("0123456789", LineSize/4)

	var s Sink
	s.Add(int(f.Fd()))
	s.WriteString(want)

	if got := contents(t, f); got != want {
		t.Errorf("wrote %d bytes, want %d", len(got), len(want))
	}
}
