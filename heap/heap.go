// Package heap implements a segregated-free-list allocator over a
// single contiguous byte region supplied by package region: a class
// table of seven size buckets, boundary-tagged blocks, LIFO intrusive
// free lists, first-fit-by-bucket-head placement, and boundary-tag
// coalescing.
//
// A Heap is not safe for concurrent use; callers serialize access
// externally rather than pay for synchronization no caller asked for.
package heap

import (
	"errors"
	"fmt"
	"log"

	"github.com/segalloc/segalloc/region"
)

const (
	wordSize  = 4 // bytes in a header/footer word
	dwordSize = 8 // bytes in a double word; the alignment granularity

	minBlockSize = 16 // header(4) + payload(>=8) + footer(4)

	numBuckets      = 7
	classTableBytes = numBuckets * dwordSize // 56: one payload-sized slot per bucket
	paddingBytes    = 4 * wordSize           // pad word + prologue header/footer + epilogue header

	defaultChunkSize = 1 << 16 // 65536 bytes
)

// none is the sentinel for "no block": an empty class-table slot, a
// list-terminating pred/succ offset, or a failed allocation. The class
// table and padding always occupy offset 0, so no real block can ever
// sit there.
const none = 0

// bucketUpperBounds holds the inclusive upper bound (in bytes) of
// buckets 0..5; a size exceeding all of them falls into bucket 6.
var bucketUpperBounds = [numBuckets - 1]int{512, 1024, 2048, 4096, 8192, 16384}

// ErrOutOfMemory is returned when the host region refuses to grow.
var ErrOutOfMemory = errors.New("heap: region exhausted")

// ErrInvalidConfig is wrapped by configuration validation errors
// returned from New/NewWithConfig.
var ErrInvalidConfig = errors.New("heap: invalid configuration")

// Config customizes a Heap's construction. The zero Config is not
// valid; use NewWithConfig only when overriding a default.
type Config struct {
	// ChunkSize is the size of the free block seeded at construction and
	// the upper bound on the bytes requested from the region when no free
	// block satisfies a request (a smaller request extends by just its
	// own block size). Must be a positive multiple of 8; NewWithConfig
	// rejects 0, and New uses 65536.
	ChunkSize int

	// Logger receives CheckHeap's verbose block dump. Defaults to
	// log.Default().
	Logger *log.Logger
}

func defaultConfig() Config {
	return Config{ChunkSize: defaultChunkSize, Logger: log.Default()}
}

// Heap is a segregated free-list allocator over a region.Region.
type Heap struct {
	region region.Region
	logger *log.Logger

	chunkSize        int
	classTableOffset int
	prologueAddr     int
}

// New creates a Heap over r with default configuration.
func New(r region.Region) (*Heap, error) {
	return NewWithConfig(r, defaultConfig())
}

// NewWithConfig creates a Heap over r with a custom chunk size and/or
// logger, validating cfg before touching r.
func NewWithConfig(r region.Region, cfg Config) (*Heap, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: region must not be nil", ErrInvalidConfig)
	}
	if cfg.ChunkSize <= 0 || cfg.ChunkSize%dwordSize != 0 {
		return nil, fmt.Errorf("%w: chunk size must be a positive multiple of %d, got %d", ErrInvalidConfig, dwordSize, cfg.ChunkSize)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	h := &Heap{
		region:    r,
		logger:    cfg.Logger,
		chunkSize: cfg.ChunkSize,
	}
	if err := h.init(); err != nil {
		return nil, err
	}
	return h, nil
}

// init bootstraps the class table, the prologue/epilogue pair, and
// seeds the free pool with one chunk.
func (h *Heap) init() error {
	classBase, ok := h.region.Extend(classTableBytes)
	if !ok {
		return ErrOutOfMemory
	}
	h.classTableOffset = classBase
	for b := 0; b < numBuckets; b++ {
		h.writeClassSlot(b, none)
	}

	padBase, ok := h.region.Extend(paddingBytes)
	if !ok {
		return ErrOutOfMemory
	}
	h.writeWord(padBase, 0) // alignment padding, never read back

	h.prologueAddr = padBase + dwordSize
	h.setHeaderFooter(h.prologueAddr, dwordSize, true)

	_, end := h.region.Bounds()
	h.writeWord(end-wordSize, pack(0, true)) // epilogue header

	if _, ok := h.extendHeap(h.chunkSize / wordSize); !ok {
		return ErrOutOfMemory
	}
	return nil
}

func bucketOf(size int) int {
	for i, bound := range bucketUpperBounds {
		if size <= bound {
			return i
		}
	}
	return numBuckets - 1
}

func roundUp8(n int) int {
	return (n + dwordSize - 1) &^ (dwordSize - 1)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
