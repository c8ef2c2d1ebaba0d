package analysis

import (
	"github.com/haskel/accelsched/internal/taskset"
)

// CheckFIFOConc runs the FIFO-arbitration test on the concurrent
// accelerator: with first-come-first-served dispatch, each request waits out
// at most one maximal request of every other accelerator-using task,
// regardless of priority.
func CheckFIFOConc(v taskset.Vector) *Results {
	ctx := NewContext(v)
	res := newResults(len(v))

	respTimeHP := make([]float64, len(v))
	for i := range v {
		blocking := ctx.blockingFIFO(i)

		init := v[i].C() + v[i].TotalG() + blocking
		deadline := v[i].D()
		respTimeHP[i] = fixpoint(init, deadline, func(resp float64) float64 {
			return ctx.prioritizedBlockingWave(i, resp, 1) + ctx.interference(i, respTimeHP, resp)
		})
		res.ResponseTimes[i] = respTimeHP[i]
	}

	return res.finish(v)
}

// requestDirectBlockingFIFO sums one maximal segment response time per other
// accelerator-using task.
func (c *Context) requestDirectBlockingFIFO(i int) float64 {
	if c.tasks[i].TotalGe() == 0 {
		return 0
	}

	blocking := 0.0
	for j := range c.tasks {
		if j == i {
			continue
		}
		if c.tasks[j].TotalGe() != 0 {
			blocking += c.MaxH(j)
		}
	}
	return blocking
}

func (c *Context) requestBlockingFIFO(i, k int) float64 {
	if c.tasks[i].G(k) == 0 {
		return 0
	}
	return c.requestDirectBlockingFIFO(i) +
		c.requestIndirectBlocking(i, k) +
		c.requestCIS(i, k)
}

func (c *Context) blockingFIFO(i int) float64 {
	blocking := 0.0
	for k := 0; k < c.tasks[i].NumSegments(); k++ {
		blocking += c.requestBlockingFIFO(i, k)
	}
	return blocking
}
