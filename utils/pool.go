package utils

import (
	"math/bits"
	"sync"
)

const (
	minClassShift = 4  // 16 bytes
	maxClassShift = 16 // 64 KiB
)

// ScratchSizeClass lists the capacities handed out by a ScratchPool.
var ScratchSizeClass = func() [maxClassShift - minClassShift + 1]int {
	var c [maxClassShift - minClassShift + 1]int
	for i := range c {
		c[i] = 1 << (minClassShift + i)
	}
	return c
}()

// ClassIndex returns the smallest class that holds n bytes, or -1 when n is
// not served by the pool.
func ClassIndex(n int) int {
	if n <= 0 || n > 1<<maxClassShift {
		return -1
	}
	if n <= 1<<minClassShift {
		return 0
	}
	return bits.Len(uint(n-1)) - minClassShift
}

// ScratchPool recycles short-lived byte buffers by power-of-two size class.
// Buffers must not be retained after Release.
type ScratchPool struct {
	pools [len(ScratchSizeClass)]sync.Pool
}

func NewScratchPool() *ScratchPool {
	var sp ScratchPool
	for i, sz := range ScratchSizeClass {
		size := sz
		sp.pools[i].New = func() any {
			b := make([]byte, size)
			return &b
		}
	}
	return &sp
}

// Scratch is the process-wide pool used by bitbuf for temporary byte images.
var Scratch = NewScratchPool()

// Acquire returns a zeroed buffer of length n.
func (sp *ScratchPool) Acquire(n int) []byte {
	idx := ClassIndex(n)
	if idx < 0 {
		return make([]byte, n)
	}
	bufPtr := sp.pools[idx].Get().(*[]byte)
	buf := (*bufPtr)[:n]
	clear(buf)
	return buf
}

// Release returns buf to its class. Buffers not allocated by the pool are dropped.
func (sp *ScratchPool) Release(buf []byte) {
	c := cap(buf)
	idx := ClassIndex(c)
	if idx < 0 || ScratchSizeClass[idx] != c {
		return
	}
	buf = buf[:c]
	sp.pools[idx].Put(&buf)
}
