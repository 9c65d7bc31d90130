// Package region provides the host memory primitive consumed by package
// heap: a single, monotonically growing byte region, analogous to a
// process's sbrk-extended data segment.
package region

import "unsafe"

// Region is the host collaborator a heap.Heap extends its managed byte
// range from. It never shrinks and never relocates logical offsets:
// once Extend returns a base, every byte at that base and beyond stays
// addressable (by offset, see At) for the region's lifetime.
type Region interface {
	// Extend grows the region by n bytes and returns the offset at which
	// the new bytes begin. ok is false if the host refuses (out of
	// memory); the region is left unchanged in that case.
	Extend(n int) (base int, ok bool)

	// Bounds reports the region's current [start, end) in offset space.
	// start is always 0.
	Bounds() (start, end int)

	// At resolves an offset to a pointer into the region's current
	// backing storage. The returned pointer is invalidated by the next
	// call to Extend that causes a reallocation; callers must not cache
	// it across an Extend call.
	At(offset int) unsafe.Pointer
}
