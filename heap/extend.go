package heap

// extendHeap grows the region by nwords (rounded up to an even count
// to preserve 8-byte alignment), installs the new bytes as one free
// block, and moves the epilogue past it. The new block's header
// overwrites what was, until now, the epilogue's header — sbrk-style
// allocators play the same trick, which is why the write lands 4
// bytes before the freshly extended range rather than inside it.
func (h *Heap) extendHeap(nwords int) (int, bool) {
	if nwords%2 != 0 {
		nwords++
	}
	size := nwords * wordSize

	addr, ok := h.region.Extend(size)
	if !ok {
		return none, false
	}

	h.setHeaderFooter(addr, size, false)

	_, end := h.region.Bounds()
	h.writeWord(end-wordSize, pack(0, true))

	return h.coalesce(addr), true
}
