package queue

import (
	"svclog/internal/global"

	"github.com/pbnjay/memory"
)

// Largest share of free system memory the queue buffer may claim (1/divisor)
const freeMemoryDivisor uint64 = 8

// Rounds the requested capacity up to a power of two, then halves it until
// the buffer fits in a fraction of free memory. Never below the minimum capacity.
func Capacity(requested int, itemSize int) (capacity int) {
	capacity = nextPowerOfTwo(max(requested, global.MinimumQueueCapacity))

	availMem := memory.FreeMemory()
	if availMem == 0 || itemSize <= 0 {
		// Unknown memory, trust the operator
		return
	}

	budget := availMem / freeMemoryDivisor
	for capacity > global.MinimumQueueCapacity && uint64(capacity)*uint64(itemSize) > budget {
		capacity = prevPowerOfTwo(capacity)
	}
	return
}

func nextPowerOfTwo(start int) (next int) {
	if start <= 1 {
		next = 1
		return
	}
	start--
	start |= start >> 1
	start |= start >> 2
	start |= start >> 4
	start |= start >> 8
	start |= start >> 16
	start |= start >> 32
	next = start + 1
	return
}

func prevPowerOfTwo(start int) (prev int) {
	if start <= 1 {
		return
	}
	prev = nextPowerOfTwo(start) >> 1
	return
}
