package heap

// The class table holds one slot per bucket, each dword-sized (8
// bytes) to match the size of the payload addresses it stores, even
// though an offset fits in the first 4 bytes — the table occupies 56
// bytes (7 * 8) for exactly this reason.

func (h *Heap) classSlotOffset(bucket int) int {
	return h.classTableOffset + bucket*dwordSize
}

func (h *Heap) readClassSlot(bucket int) int {
	return int(h.readWord(h.classSlotOffset(bucket)))
}

func (h *Heap) writeClassSlot(bucket, addr int) {
	h.writeWord(h.classSlotOffset(bucket), uint32(addr))
}

func (h *Heap) readRawOffset(offset int) int32 {
	return *(*int32)(h.region.At(offset))
}

func (h *Heap) writeRawOffset(offset int, v int32) {
	*(*int32)(h.region.At(offset)) = v
}

// pred/succ resolve a free block's intrusive links to absolute
// payload addresses from their offset-encoded form.
func (h *Heap) pred(addr int) int {
	raw := h.readRawOffset(addr)
	if raw == 0 {
		return none
	}
	return addr + int(raw)
}

func (h *Heap) succ(addr int) int {
	raw := h.readRawOffset(addr + wordSize)
	if raw == 0 {
		return none
	}
	return addr + int(raw)
}

func (h *Heap) setPred(addr, neighbor int) {
	if neighbor == none {
		h.writeRawOffset(addr, 0)
		return
	}
	h.writeRawOffset(addr, int32(neighbor-addr))
}

func (h *Heap) setSucc(addr, neighbor int) {
	if neighbor == none {
		h.writeRawOffset(addr+wordSize, 0)
		return
	}
	h.writeRawOffset(addr+wordSize, int32(neighbor-addr))
}

// appendFree does LIFO insertion at the head of the bucket selected by
// size.
func (h *Heap) appendFree(addr, size int) {
	bucket := bucketOf(size)
	oldHead := h.readClassSlot(bucket)
	h.setPred(addr, none)
	if oldHead == none {
		h.setSucc(addr, none)
	} else {
		h.setSucc(addr, oldHead)
		h.setPred(oldHead, addr)
	}
	h.writeClassSlot(bucket, addr)
}

// deleteFree removes addr from the bucket selected by its current
// size.
func (h *Heap) deleteFree(addr int) {
	bucket := bucketOf(h.size(addr))
	predAddr := h.pred(addr)
	succAddr := h.succ(addr)

	if h.readClassSlot(bucket) == addr {
		if succAddr == none {
			h.writeClassSlot(bucket, none)
		} else {
			h.writeClassSlot(bucket, succAddr)
			h.setPred(succAddr, none)
		}
		return
	}

	if succAddr == none {
		h.setSucc(predAddr, none)
	} else {
		h.setSucc(predAddr, succAddr)
		h.setPred(succAddr, predAddr)
	}
}
