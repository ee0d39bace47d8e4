// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package parallel

// Band is a horizontal strip of rows [Y0, Y1) of a render target.
type Band struct {
	Y0, Y1 int
}

// Height returns the number of rows in the band.
func (b Band) Height() int { return b.Y1 - b.Y0 }

// SplitRows divides height rows into at most n bands of near-equal height.
// Bands never overlap and together cover every row exactly once, so each
// band can be shaded and blended without synchronization.
func SplitRows(height, n int) []Band {
	if height <= 0 {
		return nil
	}
	n = max(1, min(n, height))
	bands := make([]Band, n)
	for i := range n {
		bands[i] = Band{Y0: height * i / n, Y1: height * (i + 1) / n}
	}
	return bands
}

// ForEachBand runs fn once per band of height rows on the pool and waits.
// A nil or closed pool runs the whole height as one band on the caller.
func ForEachBand(p *WorkerPool, height int, fn func(Band)) {
	workers := 1
	if p != nil && p.IsRunning() {
		workers = p.Workers()
	}
	bands := SplitRows(height, workers)
	if len(bands) <= 1 {
		for _, b := range bands {
			fn(b)
		}
		return
	}
	tasks := make([]func(), len(bands))
	for i, b := range bands {
		tasks[i] = func() { fn(b) }
	}
	p.ExecuteAll(tasks)
}
