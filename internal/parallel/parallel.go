// Package parallel splits row loops of the CPU kernels across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled    bool // Whether parallel execution is enabled.
	NumWorkers int  // Number of worker goroutines to use.
	MinWork    int  // Minimum scalar operations per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
		MinWork:    4096,
	}
}

// Sequential returns a config that never spawns goroutines.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinWork: 1}
}

// For executes f(i) for i in [0, n) where every item costs one unit of work.
func For(n int, f func(i int), cfg Config) {
	ForRows(n, 1, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}

// ForRows executes f over contiguous [start, end) row ranges covering [0, rows).
// rowCost is the approximate number of scalar operations per row; ranges are sized
// so each goroutine gets at least cfg.MinWork operations.
func ForRows(rows, rowCost int, f func(start, end int), cfg Config) {
	if rows <= 0 {
		return
	}
	rowCost = max(rowCost, 1)
	workers := max(cfg.NumWorkers, 1)
	if !cfg.Enabled || workers == 1 || rows*rowCost < 2*cfg.MinWork {
		f(0, rows)
		return
	}

	minRows := max((cfg.MinWork+rowCost-1)/rowCost, 1)
	chunk := max((rows+workers-1)/workers, minRows)

	var wg sync.WaitGroup
	for start := 0; start < rows; start += chunk {
		end := min(start+chunk, rows)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}
