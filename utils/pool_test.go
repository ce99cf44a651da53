package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassIndex(t *testing.T) {
	cases := []struct {
		n      int
		expect int
	}{
		{0, -1}, {-3, -1}, {1, 0}, {15, 0}, {16, 0}, {17, 1}, {32, 1}, {33, 2},
		{64, 2}, {1000, 6}, {1024, 6}, {1025, 7}, {65535, 12}, {65536, 12}, {65537, -1},
	}

	for _, tc := range cases {
		idx := ClassIndex(tc.n)
		assert.Equal(t, tc.expect, idx, "ClassIndex(%d)", tc.n)
		if idx >= 0 {
			assert.GreaterOrEqual(t, ScratchSizeClass[idx], tc.n, "class %d too small for n=%d", idx, tc.n)
		}
	}
}

func TestScratchPool_AcquireReleaseZeroed(t *testing.T) {
	sp := NewScratchPool()

	for _, size := range ScratchSizeClass {
		buf := sp.Acquire(size - 1)
		assert.Equal(t, size-1, len(buf))
		assert.Equal(t, size, cap(buf))

		buf[0] = 0xAA
		buf[len(buf)-1] = 0xBB
		sp.Release(buf)

		buf2 := sp.Acquire(size - 1)
		assert.Equal(t, size-1, len(buf2))
		for i, b := range buf2 {
			if b != 0 {
				t.Fatalf("byte %d not zeroed after reuse: %02X", i, b)
			}
		}
		sp.Release(buf2)
	}
}

func TestScratchPool_Oversized(t *testing.T) {
	sp := NewScratchPool()

	buf := sp.Acquire(1<<16 + 1)
	assert.Equal(t, 1<<16+1, len(buf))

	sp.Release(buf) // ignored
	sp.Release(make([]byte, 10, 20))
}
