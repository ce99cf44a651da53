package typedslice

import (
	"fmt"
	"math/bits"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/quickwritereader/PackBits/config"
	"github.com/quickwritereader/PackBits/types"
)

// growThreshold is the capacity below which Append doubles.
const growThreshold = 256

// backing is the byte array shared by every slice derived from one allocation.
type backing struct {
	data []byte
}

// emptyBacking serves every slice of zero-size elements.
var emptyBacking = &backing{}

var (
	maxAllocBytes atomic.Int64
	logger        atomic.Pointer[zap.Logger]
)

func init() {
	maxAllocBytes.Store(config.DefaultMaxAllocBytes)
	logger.Store(zap.NewNop())
}

// SetLimits installs the allocation bound used by Make, Append and Join.
func SetLimits(l config.Limits) error {
	l = l.WithDefaults()
	if err := l.Validate(); err != nil {
		return err
	}
	maxAllocBytes.Store(l.MaxAllocBytes)
	return nil
}

// SetLogger installs the logger that reports reallocations at debug level.
// A nil logger restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// byteSize returns n*size, failing on overflow or when it exceeds the
// allocation bound.
func byteSize(name string, n, size int) (int, error) {
	hi, lo := bits.Mul64(uint64(n), uint64(size))
	limit := maxAllocBytes.Load()
	if hi != 0 || lo > uint64(limit) {
		return 0, fmt.Errorf("%s: %d elements of %d bytes exceed %d bytes: %w", name, n, size, limit, types.ErrOutOfRange)
	}
	return int(lo), nil
}

// nextCap picks the capacity for a slice of oldCap that must hold newLen:
// jump straight to newLen when that more than doubles, double small slices,
// and grow larger ones by roughly 25% steps.
func nextCap(oldCap, newLen int) (int, error) {
	if newLen-oldCap > oldCap {
		return newLen, nil
	}
	if oldCap < growThreshold {
		return 2 * oldCap, nil
	}
	newCap := oldCap
	for newCap < newLen {
		newCap += newCap/4 + 3*growThreshold/4
		if newCap <= 0 {
			return 0, fmt.Errorf("capacity overflow growing %d to %d: %w", oldCap, newLen, types.ErrOutOfRange)
		}
	}
	return newCap, nil
}
