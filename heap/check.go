package heap

import (
	"fmt"

	"github.com/segalloc/segalloc/heap/internal/rawview"
)

// CheckHeap walks the region from prologue to epilogue verifying the
// core boundary-tag invariants: header==footer, alignment and minimum
// block size, and that the prologue/epilogue sentinels are present and
// marked allocated. It returns the first violation found. When
// verbose, each block visited is logged.
func (h *Heap) CheckHeap(verbose bool) error {
	if h.size(h.prologueAddr) != dwordSize || !h.allocated(h.prologueAddr) {
		return fmt.Errorf("heap: bad prologue at %d", h.prologueAddr)
	}
	if err := h.checkTagsMatch(h.prologueAddr); err != nil {
		return err
	}
	if verbose {
		h.logger.Println(h.blockDebugString(h.prologueAddr))
	}

	addr := h.next(h.prologueAddr)
	for h.size(addr) > 0 {
		if addr%dwordSize != 0 {
			return fmt.Errorf("heap: block %d is not 8-byte aligned", addr)
		}
		size := h.size(addr)
		if size%dwordSize != 0 {
			return fmt.Errorf("heap: block %d size %d is not a multiple of %d", addr, size, dwordSize)
		}
		if size < minBlockSize {
			return fmt.Errorf("heap: block %d size %d is below the minimum block size %d", addr, size, minBlockSize)
		}
		if err := h.checkTagsMatch(addr); err != nil {
			return err
		}
		if verbose {
			h.logger.Println(h.blockDebugString(addr))
		}
		addr = h.next(addr)
	}

	if h.size(addr) != 0 || !h.allocated(addr) {
		return fmt.Errorf("heap: bad epilogue at %d", addr)
	}
	if verbose {
		h.logger.Println(h.blockDebugString(addr))
	}
	return nil
}

func (h *Heap) checkTagsMatch(addr int) error {
	hdr := h.readWord(h.headerOffset(addr))
	ftr := h.readWord(h.footerOffset(addr))
	if hdr != ftr {
		return fmt.Errorf("heap: block %d header %#08x does not match footer %#08x", addr, hdr, ftr)
	}
	return nil
}

// CheckFreeLists additionally verifies the free-list invariants
// CheckHeap does not: no two adjacent free blocks, every free block
// linked into exactly the bucket its size selects, and every link
// resolving to a currently-free in-region block.
func (h *Heap) CheckFreeLists() error {
	linked := make(map[int]bool)

	for bucket := 0; bucket < numBuckets; bucket++ {
		addr := h.readClassSlot(bucket)
		back := none
		for addr != none {
			if _, end := h.region.Bounds(); addr <= h.prologueAddr || addr >= end {
				return fmt.Errorf("heap: bucket %d links to block %d outside the block area", bucket, addr)
			}
			if linked[addr] {
				return fmt.Errorf("heap: cycle detected in bucket %d at block %d", bucket, addr)
			}
			if h.allocated(addr) {
				return fmt.Errorf("heap: bucket %d links to allocated block %d", bucket, addr)
			}
			if size := h.size(addr); bucketOf(size) != bucket {
				return fmt.Errorf("heap: block %d of size %d is linked into bucket %d, expected bucket %d", addr, size, bucket, bucketOf(size))
			}
			if h.pred(addr) != back {
				return fmt.Errorf("heap: block %d pred_offset does not point back to %d", addr, back)
			}
			linked[addr] = true
			back = addr
			addr = h.succ(addr)
		}
	}

	prevFree := false
	freeCount := 0
	for addr := h.next(h.prologueAddr); h.size(addr) > 0; addr = h.next(addr) {
		free := !h.allocated(addr)
		if free {
			if prevFree {
				return fmt.Errorf("heap: adjacent free blocks ending at %d", addr)
			}
			if !linked[addr] {
				return fmt.Errorf("heap: free block %d is not linked into any class-table bucket", addr)
			}
			freeCount++
		}
		prevFree = free
	}

	if freeCount != len(linked) {
		return fmt.Errorf("heap: class table links %d blocks but the heap walk found %d free blocks", len(linked), freeCount)
	}
	return nil
}

// blockDebugString renders a block's boundary tags for verbose
// CheckHeap output, without allocating a copy of the raw header bytes.
func (h *Heap) blockDebugString(addr int) string {
	hdr := h.bytesAt(h.headerOffset(addr), wordSize)
	buf := make([]byte, 0, wordSize*2)
	const hexDigits = "0123456789abcdef"
	for _, b := range hdr {
		buf = append(buf, hexDigits[b>>4], hexDigits[b&0xf])
	}
	return fmt.Sprintf("addr=%d size=%d alloc=%v hdr=%s", addr, h.size(addr), h.allocated(addr), rawview.BytesToString(buf))
}
