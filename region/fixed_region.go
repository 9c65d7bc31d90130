package region

import "unsafe"

// FixedRegion is a Region backed by a pre-sized, non-growing buffer. It
// exists to exercise the host-primitive-refuses-extension path
// deterministically, without having to exhaust real process memory.
type FixedRegion struct {
	buf []byte
	len int
}

// NewFixedRegion returns a region whose Extend calls fail once the
// cumulative extended size would exceed capacity.
func NewFixedRegion(capacity int) *FixedRegion {
	return &FixedRegion{buf: make([]byte, capacity)}
}

func (r *FixedRegion) Extend(n int) (base int, ok bool) {
	if n <= 0 || r.len+n > len(r.buf) {
		return 0, false
	}
	base = r.len
	r.len += n
	return base, true
}

func (r *FixedRegion) Bounds() (start, end int) {
	return 0, r.len
}

func (r *FixedRegion) At(offset int) unsafe.Pointer {
	return unsafe.Pointer(&r.buf[offset])
}
