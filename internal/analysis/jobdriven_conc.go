package analysis

import (
	"github.com/haskel/accelsched/internal/params"
	"github.com/haskel/accelsched/internal/taskset"
)

// CheckJobDrivenConc runs the concurrent job-driven test. A single wavefront
// gated on the task's largest fraction covers the in-flight low-priority
// stack; everything else liquefies into mass spread over the blocking
// fraction. requestOriented selects the request-oriented variant, which walks
// the task's own requests and re-anchors the wavefront per request.
func CheckJobDrivenConc(v taskset.Vector, requestOriented bool) *Results {
	ctx := NewContext(v)
	res := newResults(len(v))
	res.JobBlocking = make([]float64, len(v))

	respTimeHP := make([]float64, len(v))
	for i := range v {
		init := v[i].C() + ctx.TotalH(i)
		deadline := v[i].D()
		respTimeHP[i] = fixpoint(init, deadline, func(resp float64) float64 {
			return ctx.blockingJDC(i, respTimeHP, resp, res, requestOriented) + ctx.interference(i, respTimeHP, resp)
		})
		res.ResponseTimes[i] = respTimeHP[i]
	}

	return res.finish(v)
}

// liquefactionMassJDC is the job-wide liquefaction mass: like the
// request-driven one but gated on the task's largest fraction, so it covers
// every request of the job at once.
func (c *Context) liquefactionMassJDC(i int, respTime float64, respTimeHP []float64) float64 {
	fraction := c.tasks[i].MaxF()
	blockingFraction := 1 - fraction + 1/float64(params.FractionGranularity)

	mass := 0.0
	for j := range c.tasks {
		t := &c.tasks[j]
		if t.TotalGe() == 0 || j == i {
			continue
		}
		e := t.C() + t.TotalGm()
		alpha := params.CeilEps((respTime + respTimeHP[j] - e) / t.T())
		for k := 0; k < t.NumSegments(); k++ {
			if t.Ge(k) == 0 {
				continue
			}
			reqFraction := t.F(k)
			if j < i || reqFraction < fraction {
				if reqFraction <= blockingFraction {
					mass += alpha * c.h[j][k] * reqFraction
				} else {
					mass += alpha * c.h[j][k] * blockingFraction
				}
			}
		}
	}
	return mass
}

// wavefrontMassJDC builds the wavefront gated on fraction and returns its
// mass. A layer demanding more than the blocking fraction only counts up to
// the blocking fraction.
func (c *Context) wavefrontMassJDC(i int, fraction, blockingFraction float64) float64 {
	mass := 0.0
	leftOver := blockingFraction
	hlMax := float64(params.SearchSentinel)
	numBiggest := 0
	for leftOver > 0 && hlMax > 0 {
		numBiggest++
		var wfFraction float64
		hlMax, wfFraction = c.nextMaxLPWcrtSegmentFrac(i, hlMax, numBiggest, fraction)
		leftOver -= wfFraction

		if wfFraction > blockingFraction {
			wfFraction = blockingFraction
		}
		mass += hlMax * wfFraction
	}
	return mass
}

// directBlockingJDC bounds per-job direct blocking: the wavefront mass once
// per own request plus the job-wide liquefied mass, spread over the blocking
// fraction.
func (c *Context) directBlockingJDC(i int, respTimeHP []float64, respTime float64) float64 {
	t := &c.tasks[i]
	if t.TotalGe() == 0 {
		return 0
	}

	fraction := t.MaxF()
	blockingFraction := 1 - fraction + 1/float64(params.FractionGranularity)
	wavefrontMass := c.wavefrontMassJDC(i, fraction, blockingFraction)

	liquefiedMass := c.liquefactionMassJDC(i, respTime, respTimeHP)
	liquefiedMass += float64(t.NumSegments()) * wavefrontMass

	return params.FloorEps(liquefiedMass / blockingFraction)
}

// directBlockingROJDC is the request-oriented variant: walk the job's own
// requests in order, each with its own wavefront. The job-wide liquefied
// mass enters once per run of requests ending at the current realization of
// the maximum fraction; requests before it only carry their wavefront mass.
func (c *Context) directBlockingROJDC(i int, respTimeHP []float64, respTime float64) float64 {
	t := &c.tasks[i]
	if t.TotalGe() == 0 {
		return 0
	}

	_, maxIndex := t.IndexMaxF(0)

	blocking := 0.0
	for reqIndex := 0; reqIndex < t.NumSegments(); reqIndex++ {
		fraction := t.F(reqIndex)
		blockingFraction := 1 - fraction + 1/float64(params.FractionGranularity)
		wavefrontMass := c.wavefrontMassJDC(i, fraction, blockingFraction)

		var liquefiedMass float64
		if reqIndex < maxIndex {
			liquefiedMass = wavefrontMass
		} else {
			liquefiedMass = wavefrontMass + c.liquefactionMassJDC(i, respTime, respTimeHP)
			_, maxIndex = t.IndexMaxF(reqIndex + 1)
		}

		blocking += params.FloorEps(liquefiedMass / blockingFraction)
	}
	return blocking
}

func (c *Context) blockingJDC(i int, respTimeHP []float64, respTime float64, res *Results, requestOriented bool) float64 {
	blocking := c.prioritizedBlockingJD(i, respTime)
	if c.tasks[i].NumSegments() == 0 {
		return blocking
	}

	var direct float64
	if requestOriented {
		direct = c.directBlockingROJDC(i, respTimeHP, respTime)
	} else {
		direct = c.directBlockingJDC(i, respTimeHP, respTime)
	}
	res.JobBlocking[i] = direct
	return blocking + direct
}
