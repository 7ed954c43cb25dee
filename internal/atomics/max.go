// Helper functions that deal with atomic variables and their values
package atomics

import "sync/atomic"

// Raises the stored value to candidate if candidate is larger
func StoreMax(dst *atomic.Uint64, candidate uint64) {
	for {
		current := dst.Load()
		if candidate <= current {
			return
		}
		if dst.CompareAndSwap(current, candidate) {
			return
		}
	}
}
