package heap

// coalesce merges addr with any free immediate neighbors and
// (re)inserts the result into the class table. addr itself must not
// already be linked into a free list when this is called — Free and
// extendHeap both call it on a block that was never appended. Each
// contributing free neighbor is deleted from its current bucket
// before any header/footer is rewritten: deleteFree reads a block's
// bucket from its current size, so deleting after resizing would look
// in the wrong bucket.
func (h *Heap) coalesce(addr int) int {
	prevAddr := h.prev(addr)
	nextAddr := h.next(addr)
	prevFree := !h.allocated(prevAddr)
	nextFree := !h.allocated(nextAddr)
	size := h.size(addr)

	switch {
	case !prevFree && !nextFree:
		h.appendFree(addr, size)
		return addr

	case !prevFree && nextFree:
		size += h.size(nextAddr)
		h.deleteFree(nextAddr)
		h.setHeaderFooter(addr, size, false)
		h.appendFree(addr, size)
		return addr

	case prevFree && !nextFree:
		size += h.size(prevAddr)
		h.deleteFree(prevAddr)
		h.setHeaderFooter(prevAddr, size, false)
		h.appendFree(prevAddr, size)
		return prevAddr

	default: // prevFree && nextFree
		size += h.size(prevAddr) + h.size(nextAddr)
		h.deleteFree(prevAddr)
		h.deleteFree(nextAddr)
		h.setHeaderFooter(prevAddr, size, false)
		h.appendFree(prevAddr, size)
		return prevAddr
	}
}
