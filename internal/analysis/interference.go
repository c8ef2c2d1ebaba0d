package analysis

import "github.com/haskel/accelsched/internal/params"

// interference bounds the delay task i suffers from higher-priority CPU
// execution on its core within a window of length respTime. Predecessors
// with accelerator use get the suspension-aware jitter bound (their own
// response time extends the window); pure CPU predecessors get the classic
// ceiling term.
func (c *Context) interference(i int, respTimeHP []float64, respTime float64) float64 {
	total := 0.0
	core := c.tasks[i].Core()
	for j := 0; j < i; j++ {
		t := &c.tasks[j]
		if t.Core() != core {
			continue
		}
		if t.TotalGe() != 0 {
			e := t.C() + t.TotalGm()
			total += params.CeilEps((respTime+respTimeHP[j]-e)/t.T()) * e
		} else {
			total += params.CeilEps(respTime/t.T()) * t.C()
		}
	}
	return total
}

// fixpoint iterates resp = init + step(resp) until convergence or until the
// iterate exceeds respTimeCap times the deadline. The recurrence is monotone
// non-decreasing in resp, so the cap is the only way a divergent task exits.
func fixpoint(init, deadline float64, step func(resp float64) float64) float64 {
	resp := init
	for {
		next := init + step(resp)
		if converged(next, resp) {
			return next
		}
		if next > respTimeCap*deadline {
			return next
		}
		resp = next
	}
}
