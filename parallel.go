package widestream

import "golang.org/x/sync/errgroup"

// parallelFor runs fn(i) for each i in [0, n) on its own goroutine and joins before returning.
// A panicking task propagates out of the join; the owning instance must then be Reset or dropped.
func parallelFor(n int, fn func(i int)) {
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
