package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketOf(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{1, 0}, {512, 0},
		{513, 1}, {1024, 1},
		{1025, 2}, {2048, 2},
		{2049, 3}, {4096, 3},
		{4097, 4}, {8192, 4},
		{8193, 5}, {16384, 5},
		{16385, 6}, {1 << 20, 6},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, bucketOf(tt.size), "size=%d", tt.size)
	}
}

func TestAppendDeleteSingleton(t *testing.T) {
	h := newTestHeap(t, defaultChunkSize)
	addr := h.readClassSlot(numBuckets - 1)
	require.NotEqual(t, none, addr)

	h.deleteFree(addr)
	assert.Equal(t, none, h.readClassSlot(numBuckets-1))

	h.appendFree(addr, h.size(addr))
	assert.Equal(t, addr, h.readClassSlot(numBuckets-1))
	assert.Equal(t, none, h.pred(addr))
	assert.Equal(t, none, h.succ(addr))
}

// threeIsolatedBlocks allocates a, b, c of the same size separated by
// still-allocated spacer blocks, so freeing a/b/c independently never
// triggers boundary-tag coalescing between them (or with the tail) —
// letting list-shape assertions target the free-list operations in
// isolation from coalescing.
func threeIsolatedBlocks(t *testing.T, h *Heap) (a, b, c int) {
	t.Helper()
	a, ok := h.Allocate(64)
	require.True(t, ok)
	s1, ok := h.Allocate(64)
	require.True(t, ok)
	b, ok = h.Allocate(64)
	require.True(t, ok)
	s2, ok := h.Allocate(64)
	require.True(t, ok)
	c, ok = h.Allocate(64)
	require.True(t, ok)
	s3, ok := h.Allocate(64)
	require.True(t, ok)
	_ = s1
	_ = s2
	_ = s3
	return a, b, c
}

func TestAppendLIFOOrder(t *testing.T) {
	h := newTestHeap(t, defaultChunkSize)
	a, b, c := threeIsolatedBlocks(t, h)

	h.Free(a)
	h.Free(b)
	h.Free(c)

	bucket := bucketOf(h.size(a))
	assert.Equal(t, c, h.readClassSlot(bucket))
	assert.Equal(t, b, h.succ(c))
	assert.Equal(t, a, h.succ(b))
	assert.Equal(t, none, h.succ(a))

	assert.Equal(t, none, h.pred(c))
	assert.Equal(t, c, h.pred(b))
	assert.Equal(t, b, h.pred(a))
}

func TestDeleteFromMiddleBypassesNeighbors(t *testing.T) {
	h := newTestHeap(t, defaultChunkSize)
	a, b, c := threeIsolatedBlocks(t, h)

	h.Free(a)
	h.Free(b)
	h.Free(c)
	// list head->tail: c, b, a

	h.deleteFree(b)

	bucket := bucketOf(h.size(a))
	assert.Equal(t, c, h.readClassSlot(bucket))
	assert.Equal(t, a, h.succ(c))
	assert.Equal(t, c, h.pred(a))
}

func TestDeleteHeadPromotesSuccessor(t *testing.T) {
	h := newTestHeap(t, defaultChunkSize)
	a, b, c := threeIsolatedBlocks(t, h)

	h.Free(a)
	h.Free(b)
	h.Free(c)
	// list head->tail: c, b, a

	h.deleteFree(c)

	bucket := bucketOf(h.size(a))
	assert.Equal(t, b, h.readClassSlot(bucket))
	assert.Equal(t, none, h.pred(b))
}

func TestDeleteTailZeroesPredecessorSucc(t *testing.T) {
	h := newTestHeap(t, defaultChunkSize)
	a, b, c := threeIsolatedBlocks(t, h)

	h.Free(a)
	h.Free(b)
	h.Free(c)
	// list head->tail: c, b, a (a is tail)

	h.deleteFree(a)

	assert.Equal(t, none, h.succ(b))
}
