package analysis

import (
	"github.com/haskel/accelsched/internal/params"
	"github.com/haskel/accelsched/internal/taskset"
)

// CheckJobDriven runs the non-concurrent job-driven schedulability test: the
// whole job waits out at most one maximal low-priority request per segment,
// plus all higher-priority requests released across its response window.
func CheckJobDriven(v taskset.Vector) *Results {
	ctx := NewContext(v)
	res := newResults(len(v))

	respTimeHP := make([]float64, len(v))
	for i := range v {
		// Using H instead of G in the seed folds indirect blocking and CIS
		// into the recurrence up front.
		init := v[i].C() + ctx.TotalH(i)
		deadline := v[i].D()
		respTimeHP[i] = fixpoint(init, deadline, func(resp float64) float64 {
			return ctx.blockingJD(i, respTimeHP, resp) + ctx.interference(i, respTimeHP, resp)
		})
		res.ResponseTimes[i] = respTimeHP[i]
	}

	return res.finish(v)
}

// prioritizedBlockingJD bounds low-priority CPU interventions by how many
// instances of each same-core low-priority task fit in the response window.
func (c *Context) prioritizedBlockingJD(i int, respTime float64) float64 {
	blocking := 0.0
	core := c.tasks[i].Core()
	for j := i + 1; j < len(c.tasks); j++ {
		if c.tasks[j].Core() != core {
			continue
		}
		blocking += taskset.Theta(c.tasks[j], respTime) * c.tasks[j].TotalGm()
	}
	return blocking
}

// directBlockingJD bounds the job's direct blocking: one maximal low-priority
// segment response time per own request, plus every higher-priority request
// released in the window.
func (c *Context) directBlockingJD(i int, respTimeHP []float64, respTime float64) float64 {
	t := &c.tasks[i]
	if t.TotalGe() == 0 {
		return 0
	}

	hlMax, _ := c.maxLPWcrtSegment(i)
	blocking := float64(t.NumSegments()) * hlMax

	for j := 0; j < i; j++ {
		hp := &c.tasks[j]
		if hp.TotalGe() == 0 {
			continue
		}
		e := hp.C() + hp.TotalGm()
		alpha := params.CeilEps((respTime + respTimeHP[j] - e) / hp.T())
		for k := 0; k < hp.NumSegments(); k++ {
			if hp.Ge(k) != 0 {
				blocking += alpha * c.h[j][k]
			}
		}
	}
	return blocking
}

func (c *Context) blockingJD(i int, respTimeHP []float64, respTime float64) float64 {
	blocking := c.prioritizedBlockingJD(i, respTime)
	if c.tasks[i].NumSegments() == 0 {
		return blocking
	}
	return blocking + c.directBlockingJD(i, respTimeHP, respTime)
}
