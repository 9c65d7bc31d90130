package heap

import "fmt"

// Allocate services a request for size payload bytes. It returns
// (0, false) for a zero-sized request or when the
// region cannot be grown to satisfy it; 0 can never be confused for a
// live payload address because the class table and padding occupy
// offset 0.
func (h *Heap) Allocate(size int) (int, bool) {
	if size <= 0 {
		return none, false
	}
	asize := adjustedSize(size)

	if addr, ok := h.findFit(asize); ok {
		h.place(addr, asize)
		return addr, true
	}

	words := minInt(asize, h.chunkSize) / wordSize
	addr, ok := h.extendHeap(words)
	if !ok {
		return none, false
	}
	h.place(addr, asize)
	return addr, true
}

// adjustedSize converts a requested payload size into a block size
// that includes boundary-tag overhead and meets the minimum block
// size.
func adjustedSize(size int) int {
	if size <= dwordSize {
		return minBlockSize
	}
	return roundUp8(size + dwordSize)
}

// Free returns ptr's block to the allocator. A zero ptr (the "none"
// sentinel Allocate returns on failure) is a no-op.
func (h *Heap) Free(ptr int) {
	if ptr == none {
		return
	}
	h.setHeaderFooter(ptr, h.size(ptr), false)
	h.coalesce(ptr)
}

// Reallocate grows or shrinks ptr's allocation to size bytes,
// preserving the leading min(size, old payload size) bytes. Unlike a
// C realloc that aborts the process when the underlying allocation
// fails, this returns ErrOutOfMemory so a caller can decide how to
// recover — see MustReallocate for fail-fast behavior.
func (h *Heap) Reallocate(ptr, size int) (int, error) {
	oldPayloadSize := h.size(ptr) - dwordSize

	newPtr, ok := h.Allocate(size)
	if !ok {
		return none, ErrOutOfMemory
	}

	copySize := minInt(size, oldPayloadSize)
	if copySize > 0 {
		h.copyBytes(newPtr, ptr, copySize)
	}
	h.Free(ptr)
	return newPtr, nil
}

// MustReallocate is Reallocate with a fail-fast policy: it panics
// instead of returning an error when the region cannot be grown.
func (h *Heap) MustReallocate(ptr, size int) int {
	newPtr, err := h.Reallocate(ptr, size)
	if err != nil {
		panic(fmt.Sprintf("heap: reallocate %d bytes at %d: %v", size, ptr, err))
	}
	return newPtr
}
