package region

import (
	"unsafe"

	"github.com/bytedance/gopkg/lang/mcache"
)

// initialCapacity is the backing allocation made on first use. It equals
// the heap's default chunk size, so the heap's first chunk (which comes
// after its class table and sentinels) already triggers one regrow.
const initialCapacity = 1 << 16

// SliceRegion is the default Region: a single contiguous []byte grown
// geometrically via mcache. Block navigation in package heap walks the
// region by stepping size bytes, which only makes sense over one
// contiguous range, so growing copies existing bytes into the new
// backing array rather than keeping a list of discontiguous chunks.
// Offsets survive the copy because blocks are addressed by offset,
// never by pointer.
type SliceRegion struct {
	buf []byte // len(buf) is the region's logical size
}

// NewSliceRegion returns an empty region with no bytes extended yet.
func NewSliceRegion() *SliceRegion {
	return &SliceRegion{}
}

func (r *SliceRegion) Extend(n int) (base int, ok bool) {
	if n <= 0 {
		return 0, false
	}
	base = len(r.buf)
	need := base + n
	if need > cap(r.buf) {
		newCap := nextCapacity(cap(r.buf), need)
		grown := mcache.Malloc(need, newCap)
		copy(grown, r.buf)
		if r.buf != nil {
			mcache.Free(r.buf)
		}
		r.buf = grown
		return base, true
	}
	r.buf = r.buf[:need]
	return base, true
}

func (r *SliceRegion) Bounds() (start, end int) {
	return 0, len(r.buf)
}

func (r *SliceRegion) At(offset int) unsafe.Pointer {
	return unsafe.Pointer(&r.buf[offset])
}

// nextCapacity doubles from the current capacity (starting at
// initialCapacity) until it covers need, mirroring the amortized growth
// Go slices use internally.
func nextCapacity(cur, need int) int {
	if cur == 0 {
		cur = initialCapacity
	}
	for cur < need {
		cur *= 2
	}
	return cur
}
