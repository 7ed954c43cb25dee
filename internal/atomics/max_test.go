package atomics

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestStoreMax(t *testing.T) {
	tests := []struct {
		name      string
		start     uint64
		candidate uint64
		want      uint64
	}{
		{"larger replaces", 5, 9, 9},
		{"smaller ignored", 9, 5, 9},
		{"equal ignored", 7, 7, 7},
		{"from zero", 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var value atomic.Uint64
			value.Store(tt.start)
			StoreMax(&value, tt.candidate)
			if got := value.Load(); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestStoreMax_Concurrent(t *testing.T) {
	var value atomic.Uint64
	var wg sync.WaitGroup
	for i := uint64(1); i <= 1000; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			StoreMax(&value, v)
		}(i)
	}
	wg.Wait()

	if got := value.Load(); got != 1000 {
		t.Fatalf("expected 1000, got %d", got)
	}
}
