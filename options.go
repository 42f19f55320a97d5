package widestream

import "runtime"

const (
	// perCoreDataCache approximates the per-core L1 data working set used to size parallel rounds.
	perCoreDataCache = 32 * 1024

	// maxParallelAlloc caps the parallel block size.
	maxParallelAlloc = 100 * 1000 * 1000
)

// ParallelOptions is the parallel processing profile of a cipher instance: the worker degree, the
// parallel block size each round processes, and the alignment bounds the block size must satisfy.
type ParallelOptions struct {
	blockSize         int
	wideBlocks        int
	processorCount    int
	maxDegree         int
	parallelBlockSize int
}

// newParallelOptions builds the default profile for a cipher with the given block size and
// keystream fan-out width. The default degree is the processor count rounded down to even.
func newParallelOptions(blockSize, wideBlocks int) *ParallelOptions {
	p := &ParallelOptions{
		blockSize:      blockSize,
		wideBlocks:     wideBlocks,
		processorCount: runtime.NumCPU(),
	}
	deg := p.processorCount
	if deg > 1 && deg%2 != 0 {
		deg--
	}
	p.maxDegree = deg
	p.calculate()
	return p
}

// calculate re-derives the parallel block size from the current degree, aligned to the minimum.
func (p *ParallelOptions) calculate() {
	pbs := p.maxDegree * perCoreDataCache
	minSize := p.ParallelMinimumSize()
	pbs -= pbs % minSize
	if pbs < minSize {
		pbs = minSize
	}
	if pbs > maxParallelAlloc {
		pbs = maxParallelAlloc - maxParallelAlloc%minSize
	}
	p.parallelBlockSize = pbs
}

// IsParallel reports whether transforms split work across more than one task.
func (p *ParallelOptions) IsParallel() bool {
	return p.maxDegree > 1
}

// ParallelBlockSize returns the byte length processed by one parallel round.
func (p *ParallelOptions) ParallelBlockSize() int {
	return p.parallelBlockSize
}

// ParallelMinimumSize returns the smallest legal parallel block size: one keystream batch per task.
func (p *ParallelOptions) ParallelMinimumSize() int {
	return p.maxDegree * p.blockSize * p.wideBlocks
}

// ParallelMaximumSize returns the largest legal parallel block size.
func (p *ParallelOptions) ParallelMaximumSize() int {
	return maxParallelAlloc
}

// ParallelMaxDegree returns the number of tasks a parallel round is split into.
func (p *ParallelOptions) ParallelMaxDegree() int {
	return p.maxDegree
}

// ProcessorCount returns the number of processors available to the profile.
func (p *ParallelOptions) ProcessorCount() int {
	return p.processorCount
}

// setMaxDegree changes the task count and re-derives the dependent sizes. The caller validates
// the degree.
func (p *ParallelOptions) setMaxDegree(d int) {
	p.maxDegree = d
	p.calculate()
}
