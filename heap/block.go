package heap

import "unsafe"

// pack encodes size and the allocated bit into one boundary-tag word:
// size occupies the high bits (always a multiple of 8, so its low 3
// bits are free), allocated occupies bit 0.
func pack(size int, allocated bool) uint32 {
	w := uint32(size)
	if allocated {
		w |= 1
	}
	return w
}

func decodeSize(word uint32) int {
	return int(word &^ 0x7)
}

func decodeAllocated(word uint32) bool {
	return word&0x1 != 0
}

func (h *Heap) readWord(offset int) uint32 {
	return *(*uint32)(h.region.At(offset))
}

func (h *Heap) writeWord(offset int, v uint32) {
	*(*uint32)(h.region.At(offset)) = v
}

// headerOffset is the header word of the block whose payload begins at
// addr: always 4 bytes before it.
func (h *Heap) headerOffset(addr int) int {
	return addr - wordSize
}

// footerOffset is the footer word of the block whose payload begins at
// addr, computed from that block's own size.
func (h *Heap) footerOffset(addr int) int {
	return addr + h.size(addr) - dwordSize
}

func (h *Heap) size(addr int) int {
	return decodeSize(h.readWord(h.headerOffset(addr)))
}

func (h *Heap) allocated(addr int) bool {
	return decodeAllocated(h.readWord(h.headerOffset(addr)))
}

// setHeaderFooter writes matching header and footer words for a block
// of the given size and allocation state. Keeping both tags in sync is
// what lets prev walk backward from a footer alone.
func (h *Heap) setHeaderFooter(addr, size int, allocated bool) {
	w := pack(size, allocated)
	h.writeWord(h.headerOffset(addr), w)
	h.writeWord(addr+size-dwordSize, w)
}

// next returns the payload address of the block immediately following
// addr.
func (h *Heap) next(addr int) int {
	return addr + h.size(addr)
}

// prev returns the payload address of the block immediately preceding
// addr, read from that block's footer. Requires the preceding footer
// to be valid, which the prologue guarantees for the first real block.
func (h *Heap) prev(addr int) int {
	prevFooter := h.readWord(addr - dwordSize)
	return addr - decodeSize(prevFooter)
}

// bytesAt returns a zero-copy view of n bytes starting at offset,
// valid only until the next region.Extend call.
func (h *Heap) bytesAt(offset, n int) []byte {
	return unsafe.Slice((*byte)(h.region.At(offset)), n)
}

func (h *Heap) copyBytes(dst, src, n int) {
	copy(h.bytesAt(dst, n), h.bytesAt(src, n))
}
