package engine

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ExtractAll extracts metrics for every product in parallel, preserving
// input order. Extraction is pure per-item work, so the only bound needed
// is the worker count.
func (e *Engine) ExtractAll(products []*Product) []ProductMetrics {
	out := make([]ProductMetrics, len(products))
	if len(products) == 0 {
		return out
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(products) {
		workers = len(products)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, p := range products {
		i, p := i, p
		g.Go(func() error {
			out[i] = e.ExtractMetrics(p)
			return nil
		})
	}
	// Extraction never fails; the group is used only for bounded fan-out.
	_ = g.Wait()
	return out
}
