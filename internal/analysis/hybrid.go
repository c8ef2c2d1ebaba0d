package analysis

import (
	"github.com/haskel/accelsched/internal/params"
	"github.com/haskel/accelsched/internal/taskset"
)

// CheckHybrid runs the non-concurrent hybrid test on top of request-driven
// and job-driven results for the same vector. The high-priority direct
// blocking takes, per predecessor, the smaller of the job-driven and
// request-driven release counts; low-priority blocking and prioritized
// blocking are recomputed differentially inside the recurrence.
func CheckHybrid(v taskset.Vector, rd, jd *Results) *Results {
	ctx := NewContext(v)
	res := newResults(len(v))

	respTimeHP := make([]float64, len(v))
	for i := range v {
		init := v[i].C() + ctx.TotalH(i)
		blockingInit := ctx.hybridDirectInit(i, rd, jd)
		deadline := v[i].D()
		respTimeHP[i] = fixpoint(init, deadline, func(resp float64) float64 {
			return blockingInit + ctx.blockingHybridDiff(i, respTimeHP, resp) + ctx.interference(i, respTimeHP, resp)
		})
		res.ResponseTimes[i] = respTimeHP[i]
	}

	return res.finish(v)
}

// prioritizedBlockingWave bounds low-priority CPU interventions by walking
// each same-core low-priority task's interventions largest-first, granting
// each at most theta slots of the n+1 available, until the slots run out.
// startBiggest seeds the duplicate counter of the segment walk: the hybrid
// tests start it at 0, the FIFO test at 1. With a start of 0 the first pick is
// the task's first segment rather than its largest.
func (c *Context) prioritizedBlockingWave(i int, respTime float64, startBiggest int) float64 {
	blocking := 0.0
	slots := float64(c.tasks[i].NumSegments() + 1)
	core := c.tasks[i].Core()

	for j := i + 1; j < len(c.tasks); j++ {
		if c.tasks[j].Core() != core {
			continue
		}
		theta := taskset.Theta(c.tasks[j], respTime)

		phiSum := 0.0
		numBiggest := startBiggest
		gmMax := c.nextTaskMaxInterventionSegment(j, params.SearchSentinel, numBiggest)
		for slots-phiSum > 0 && gmMax > 0 {
			phi := theta
			if slots-phiSum < phi {
				phi = slots - phiSum
			}
			phiSum += phi
			blocking += phi * gmMax

			numBiggest++
			gmMax = c.nextTaskMaxInterventionSegment(j, gmMax, numBiggest)
		}
	}
	return blocking
}

// hybridLPDirectBlocking bounds low-priority direct blocking by walking the
// low-priority segment response times largest-first, granting each at most
// theta of the task's own requests.
func (c *Context) hybridLPDirectBlocking(i int, respTime float64) float64 {
	t := &c.tasks[i]
	if t.TotalGe() == 0 {
		return 0
	}

	hlMax, hlMaxIndex := c.maxLPWcrtSegment(i)
	if hlMax == 0 {
		return 0
	}

	blocking := 0.0
	requests := float64(t.NumSegments())
	psiSum := 0.0
	numBiggest := 1
	theta := taskset.Theta(c.tasks[hlMaxIndex], respTime)
	for requests-psiSum > 0 && hlMax > 0 {
		psi := theta
		if requests-psiSum < psi {
			psi = requests - psiSum
		}
		psiSum += psi
		blocking += psi * hlMax

		numBiggest++
		hlMax, _ = c.nextMaxLPWcrtSegment(i, hlMax, numBiggest)
	}
	return blocking
}

// blockingHybridDiff is the differential part recomputed each iteration:
// prioritized blocking for CPU-only tasks, the low-priority wave for tasks
// with accelerator requests.
func (c *Context) blockingHybridDiff(i int, respTimeHP []float64, respTime float64) float64 {
	if c.tasks[i].NumSegments() == 0 {
		return c.prioritizedBlockingWave(i, respTime, 0)
	}
	return c.hybridLPDirectBlocking(i, respTime)
}

// hybridDirectInit bounds the high-priority direct blocking once per task:
// for each predecessor the release count is the smaller of the job-driven
// bound (alpha) and the request-driven per-request sum (beta).
func (c *Context) hybridDirectInit(i int, rd, jd *Results) float64 {
	t := &c.tasks[i]
	if t.NumSegments() == 0 {
		return 0
	}

	blocking := 0.0
	for j := 0; j < i; j++ {
		hp := &c.tasks[j]
		if hp.TotalGe() == 0 {
			continue
		}
		e := hp.C() + hp.TotalGm()

		alpha := params.CeilEps((jd.ResponseTimes[i] + jd.ResponseTimes[j] - e) / hp.T())

		beta := 0.0
		for k := 0; k < t.NumSegments(); k++ {
			if t.Ge(k) != 0 {
				beta += params.CeilEps((rd.ReqBlocking[i][k] + rd.ResponseTimes[j] - e) / hp.T())
			}
		}

		delta := alpha
		if beta < alpha {
			delta = beta
		}

		for k := 0; k < hp.NumSegments(); k++ {
			if hp.Ge(k) != 0 {
				blocking += delta * c.h[j][k]
			}
		}
	}
	return blocking
}
