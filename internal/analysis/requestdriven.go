package analysis

import (
	"github.com/haskel/accelsched/internal/params"
	"github.com/haskel/accelsched/internal/taskset"
)

// CheckRequestDriven runs the non-concurrent request-driven schedulability
// test: every accelerator request of a task waits out at most one maximal
// low-priority request plus all higher-priority requests released in the
// blocking window.
func CheckRequestDriven(v taskset.Vector) *Results {
	ctx := NewContext(v)
	res := newResults(len(v))
	res.ReqBlocking = make([][]float64, len(v))

	respTimeHP := make([]float64, len(v))
	for i := range v {
		blocking := ctx.blockingRD(i, respTimeHP, res)

		// W_i = C_i + G_i + B_i + interference, iterated to a fixed point.
		init := v[i].C() + v[i].TotalG() + blocking
		deadline := v[i].D()
		respTimeHP[i] = fixpoint(init, deadline, func(resp float64) float64 {
			return ctx.interference(i, respTimeHP, resp)
		})
		res.ResponseTimes[i] = respTimeHP[i]
	}

	return res.finish(v)
}

// prioritizedBlockingRD bounds the low-priority CPU interventions that slot
// into each of the task's n+1 scheduling gaps: one max intervention per
// same-core low-priority task, per gap.
func (c *Context) prioritizedBlockingRD(i int) float64 {
	blocking := 0.0
	core := c.tasks[i].Core()
	for j := i + 1; j < len(c.tasks); j++ {
		if c.tasks[j].Core() != core {
			continue
		}
		blocking += c.tasks[j].MaxGm()
	}
	return float64(c.tasks[i].NumSegments()+1) * blocking
}

// requestDirectBlockingRD iterates the per-request direct blocking: the
// maximal low-priority segment response time plus every higher-priority
// request that can be released while the request is pending.
func (c *Context) requestDirectBlockingRD(i int, respTimeHP []float64) float64 {
	hlMax, _ := c.maxLPWcrtSegment(i)

	if c.tasks[i].TotalGe() == 0 {
		return 0
	}

	deadline := c.tasks[i].D()
	blocking := hlMax
	for {
		next := hlMax
		for j := 0; j < i; j++ {
			t := &c.tasks[j]
			if t.TotalGe() == 0 {
				continue
			}
			e := t.C() + t.TotalGm()
			beta := params.CeilEps((blocking + respTimeHP[j] - e) / t.T())
			for k := 0; k < t.NumSegments(); k++ {
				if t.Ge(k) != 0 {
					next += beta * c.h[j][k]
				}
			}
		}
		if converged(next, blocking) {
			return next
		}
		if next > respTimeCap*deadline {
			return next
		}
		blocking = next
	}
}

// requestBlockingRD is the combined blocking of request k: direct plus
// indirect plus CIS. The direct part is recorded per request.
func (c *Context) requestBlockingRD(i, k int, respTimeHP []float64, res *Results) float64 {
	if c.tasks[i].G(k) == 0 {
		res.ReqBlocking[i] = append(res.ReqBlocking[i], 0)
		return 0
	}

	direct := c.requestDirectBlockingRD(i, respTimeHP)
	res.ReqBlocking[i] = append(res.ReqBlocking[i], direct)
	return direct + c.requestIndirectBlocking(i, k) + c.requestCIS(i, k)
}

// blockingRD is the total request-driven blocking of task i: prioritized
// blocking (faced even by tasks with no requests) plus per-request terms.
func (c *Context) blockingRD(i int, respTimeHP []float64, res *Results) float64 {
	blocking := c.prioritizedBlockingRD(i)

	n := c.tasks[i].NumSegments()
	if res.ReqBlocking[i] == nil {
		res.ReqBlocking[i] = make([]float64, 0, n)
	}
	for k := 0; k < n; k++ {
		blocking += c.requestBlockingRD(i, k, respTimeHP, res)
	}
	return blocking
}
