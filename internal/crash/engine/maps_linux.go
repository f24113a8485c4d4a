//go:build linux

package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const procSelfMaps = "/proc/self/maps"

// load fills the table from /proc/self/maps.
func (t *mappingTable) load() error {
	f, err := os.Open(procSelfMaps)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", procSelfMaps, err)
	}
	defer func() { _ = f.Close() }()

	return t.parse(f)
}

// parse reads maps(5) lines and keeps the executable regions of file-backed
// images.
//
// The load base of an image is the start of its mapping at file offset 0,
// which precedes the executable region in the ascending address order the
// kernel lists them in. When that mapping is missing the base is derived from
// the region's own offset.
func (t *mappingTable) parse(r io.Reader) error {
	bases := make(map[string]uintptr)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m, perms, offset, ok := parseMapsLine(scanner.Text())
		if !ok || m.path == "" {
			continue
		}

		if offset == 0 {
			if _, seen := bases[m.path]; !seen {
				bases[m.path] = m.start
			}
		}
		if perms[2] != 'x' {
			continue
		}

		if base, seen := bases[m.path]; seen {
			m.base = base
		} else {
			m.base = m.start - offset
		}
		if !t.add(m) {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", procSelfMaps, err)
	}
	return nil
}

// parseMapsLine splits one line of /proc/self/maps:
//
//	00400000-00452000 r-xp 00000000 08:02 173521      /usr/bin/app
//
// Anonymous mappings yield an empty path. Paths may contain spaces.
func parseMapsLine(line string) (m mapping, perms string, offset uintptr, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return mapping{}, "", 0, false
	}

	startStr, endStr, found := strings.Cut(fields[0], "-")
	if !found {
		return mapping{}, "", 0, false
	}
	start, err := strconv.ParseUint(startStr, 16, 64)
	if err != nil {
		return mapping{}, "", 0, false
	}
	end, err := strconv.ParseUint(endStr, 16, 64)
	if err != nil || end < start {
		return mapping{}, "", 0, false
	}
	off, err := strconv.ParseUint(fields[2], 16, 64)
	if err != nil {
		return mapping{}, "", 0, false
	}

	perms = fields[1]
	if len(perms) < 4 {
		return mapping{}, "", 0, false
	}

	m = mapping{start: uintptr(start), end: uintptr(end)}
	if len(fields) > 5 {
		m.path = strings.TrimSuffix(skipFields(line, 5), " (deleted)")
	}

	return m, perms, uintptr(off), true
}

// skipFields drops the first n whitespace-separated fields of s and returns
// the rest with inner spacing preserved.
func skipFields(s string, n int) string {
	for i := 0; i < n; i++ {
		s = strings.TrimLeft(s, " \t")
		j := strings.IndexAny(s, " \t")
		if j < 0 {
			return ""
		}
		s = s[j:]
	}
	return strings.TrimSpace(s)
}
