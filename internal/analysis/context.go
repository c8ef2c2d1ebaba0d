// Package analysis implements the blocking and response-time recurrence
// engines: request-driven, job-driven, hybrid, and FIFO schedulability tests,
// each for a serialized and a fraction-sharable (concurrent) accelerator.
//
// Engines are pure functions of a priority-ordered task vector. Position in
// the vector is priority: index 0 is highest. Every engine walks tasks in
// ascending priority index, so W_0..W_{i-1} are final when W_i is computed.
// The liquefaction terms of the concurrent request-driven and job-driven
// engines also read the slots of lower-priority tasks, which at that point
// still hold their initial values.
package analysis

import (
	"github.com/haskel/accelsched/internal/taskset"
)

// Context owns the per-run derived state: the per-segment worst-case response
// times H, computed once before any engine reads them. The task vector itself
// stays untouched, so independent analyses of different vectors can run
// concurrently.
type Context struct {
	tasks taskset.Vector
	h     [][]float64
}

// NewContext precomputes every segment's worst-case response time
// H = G + indirect + CIS for the given vector.
func NewContext(v taskset.Vector) *Context {
	ctx := &Context{
		tasks: v,
		h:     make([][]float64, len(v)),
	}
	for i := range v {
		n := v[i].NumSegments()
		ctx.h[i] = make([]float64, n)
		for k := 0; k < n; k++ {
			ctx.h[i][k] = ctx.requestResponseTime(i, k)
		}
	}
	return ctx
}

// Len returns the number of tasks.
func (c *Context) Len() int { return len(c.tasks) }

// H returns the precomputed response time of segment k of task i, zero when
// out of range.
func (c *Context) H(i, k int) float64 {
	if i < 0 || i >= len(c.h) || k < 0 || k >= len(c.h[i]) {
		return 0
	}
	return c.h[i][k]
}

// MaxH returns the largest segment response time of task i.
func (c *Context) MaxH(i int) float64 {
	max := 0.0
	for _, h := range c.h[i] {
		if h > max {
			max = h
		}
	}
	return max
}

// TotalH returns the summed segment response times of task i.
func (c *Context) TotalH(i int) float64 {
	total := 0.0
	for _, h := range c.h[i] {
		total += h
	}
	return total
}
