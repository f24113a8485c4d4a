package engine

// Capacity limits. Both tables are fixed arrays so the capture path never
// allocates; entries beyond capacity are silently dropped.
const (
	// MaxImages bounds the "Binary Images" summary of a trace.
	MaxImages = 64

	// MaxMappings bounds the executable mappings loaded at registration.
	MaxMappings = 512
)

// mapping is one executable region of a loaded image.
type mapping struct {
	start, end uintptr
	// base is the load address of the image the region belongs to.
	base uintptr
	path string
}

// mappingTable is the engine's view of the loaded images, built once in an
// ordinary context by Register and read on the capture path. It implements
// stack.ImageResolver.
type mappingTable struct {
	entries [MaxMappings]mapping
	n       int
}

// add appends m, reporting false when the table is full.
func (t *mappingTable) add(m mapping) bool {
	if t.n == len(t.entries) {
		return false
	}
	t.entries[t.n] = m
	t.n++
	return true
}

// ImageFor returns the image containing pc.
func (t *mappingTable) ImageFor(pc uintptr) (uintptr, string, bool) {
	for i := 0; i < t.n; i++ {
		m := &t.entries[i]
		if pc >= m.start && pc < m.end {
			return m.base, m.path, true
		}
	}
	return 0, "", false
}

// imageRecord is one entry of the "Binary Images" summary.
type imageRecord struct {
	base uintptr
	name string
}

// imageRegistry collects the distinct images seen while walking a trace,
// keyed by load base, in first-seen order.
type imageRegistry struct {
	records [MaxImages]imageRecord
	n       int
}

// add records an image unless its base is already present or the registry
// is full.
func (r *imageRegistry) add(base uintptr, name string) {
	for i := 0; i < r.n; i++ {
		if r.records[i].base == base {
			return
		}
	}
	if r.n == len(r.records) {
		return
	}
	r.records[r.n] = imageRecord{base: base, name: name}
	r.n++
}

// list returns the recorded images in insertion order.
func (r *imageRegistry) list() []imageRecord {
	return r.records[:r.n]
}
