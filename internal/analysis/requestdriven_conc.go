package analysis

import (
	"github.com/haskel/accelsched/internal/params"
	"github.com/haskel/accelsched/internal/taskset"
)

// CheckRequestDrivenConc runs the concurrent request-driven test for a
// fraction-sharable accelerator. Direct blocking per request is bounded by
// the wavefront of low-priority requests physically in flight plus the
// liquefied mass of everything else spread over the blocking fraction.
//
// simple selects the wavefront-liquefaction mode: the wavefront mass is
// folded straight into the liquefaction sum and the bin-fill phase is
// skipped.
func CheckRequestDrivenConc(v taskset.Vector, simple bool) *Results {
	ctx := NewContext(v)
	res := newResults(len(v))
	res.ReqBlocking = make([][]float64, len(v))

	// Low-priority response times enter the blocking terms before they are
	// computed, so seed every slot with its deadline.
	respTimeHP := make([]float64, len(v))
	for i := range v {
		respTimeHP[i] = v[i].D()
	}

	for i := range v {
		blocking := ctx.blockingRDC(i, respTimeHP, res, simple)

		init := v[i].C() + v[i].TotalG() + blocking
		deadline := v[i].D()
		respTimeHP[i] = fixpoint(init, deadline, func(resp float64) float64 {
			return ctx.interference(i, respTimeHP, resp)
		})
		res.ResponseTimes[i] = respTimeHP[i]
	}

	return res.finish(v)
}

// liquefactionMassRDC sums, over every other task, the accelerator mass
// (response time times fraction) its requests can supply within a window
// ending at instant. High-priority tasks contribute every request; low
// priority tasks only requests demanding less than the pivot fraction, since
// bigger ones are already in the wavefront. A request's usable fraction is
// capped at the blocking fraction.
func (c *Context) liquefactionMassRDC(i, reqIndex int, instant float64, respTimeHP []float64) float64 {
	fraction := c.tasks[i].F(reqIndex)
	blockingFraction := 1 - fraction + 1/float64(params.FractionGranularity)

	mass := 0.0
	for j := range c.tasks {
		t := &c.tasks[j]
		if t.TotalGe() == 0 || j == i {
			continue
		}
		e := t.C() + t.TotalGm()
		beta := params.CeilEps((instant + respTimeHP[j] - e) / t.T())
		for k := 0; k < t.NumSegments(); k++ {
			if t.Ge(k) == 0 {
				continue
			}
			reqFraction := t.F(k)
			if j < i || reqFraction < fraction {
				if reqFraction <= blockingFraction {
					mass += beta * c.h[j][k] * reqFraction
				} else {
					mass += beta * c.h[j][k] * blockingFraction
				}
			}
		}
	}
	return mass
}

// requestDirectBlockingRDC bounds the direct blocking of request (i, reqIndex)
// on the concurrent accelerator. Phases: build the wavefront of low-priority
// requests at least as big as ours; optionally fill its partial bins with
// liquefied mass from the top layer down; then iterate the liquefaction
// recurrence to a fixed point. A bin-fill whose bin count stops advancing is
// a degenerate fixed point and returns the bound reached so far.
func (c *Context) requestDirectBlockingRDC(i, reqIndex int, respTimeHP []float64, simple bool) float64 {
	t := &c.tasks[i]
	if t.TotalGe() == 0 {
		return 0
	}

	fraction := t.F(reqIndex)
	blockingFraction := 1 - fraction + 1/float64(params.FractionGranularity)

	// Wavefront: repeatedly take the next-largest low-priority request with
	// fraction >= ours until the blocking fraction is exhausted. Each layer
	// records its length and the residual fraction left unfilled above it.
	var (
		wavefrontLength  []float64
		wavefrontBinFrac []float64
		wavefrontMass    float64
	)
	leftOver := blockingFraction
	hlMax := float64(params.SearchSentinel)
	numBiggest := 0
	for leftOver > 0 && hlMax > 0 {
		numBiggest++
		var wfFraction float64
		hlMax, wfFraction = c.nextMaxLPWcrtSegmentFrac(i, hlMax, numBiggest, fraction)
		leftOver -= wfFraction
		wavefrontLength = append(wavefrontLength, hlMax)
		wavefrontBinFrac = append(wavefrontBinFrac, leftOver)

		if leftOver < 0 {
			wfFraction += leftOver
		}
		wavefrontMass += hlMax * wfFraction
	}

	blocking := 0.0
	liquefiedMassUsed := 0.0

	if !simple {
		// Bin-fill: walk wavefront layers from shortest to longest, filling
		// each layer's residual fraction with liquefied mass accumulated over
		// the interval between successive layer lengths.
		instant := 0
		for b := numBiggest - 1; b >= 0; b-- {
			prevInstant := instant
			if wavefrontBinFrac[b] <= 0 {
				instant = int(wavefrontLength[b])
				continue
			}

			liquefiedMass := c.liquefactionMassRDC(i, reqIndex, float64(instant), respTimeHP) - liquefiedMassUsed
			instant = int(wavefrontLength[b])
			requiredMass := float64(instant-prevInstant) * wavefrontBinFrac[b]

			numBins, prevNumBins := 0, 0
			for liquefiedMass < requiredMass {
				numBins = int(params.FloorEps((liquefiedMass / requiredMass) * float64(instant-prevInstant)))
				if prevNumBins == numBins {
					// Degenerate fixed point: the supply cannot fill the
					// layer, so the blocking ends inside it.
					return float64(prevInstant + numBins)
				}
				liquefiedMass = c.liquefactionMassRDC(i, reqIndex, float64(prevInstant+numBins), respTimeHP) - liquefiedMassUsed
				prevNumBins = numBins
			}

			liquefiedMassUsed += requiredMass
			blocking = float64(instant)
		}
	}

	// Recurrence: spread the remaining liquefied mass over the blocking
	// fraction past the wavefront.
	initBlocking := blocking
	deadline := t.D()
	for {
		liquefiedMass := c.liquefactionMassRDC(i, reqIndex, blocking, respTimeHP)
		if simple {
			liquefiedMass += wavefrontMass
		} else {
			liquefiedMass -= liquefiedMassUsed
		}
		next := initBlocking + params.FloorEps(liquefiedMass/blockingFraction)
		if converged(next, blocking) {
			return next
		}
		if next > respTimeCap*deadline {
			return next
		}
		blocking = next
	}
}

func (c *Context) requestBlockingRDC(i, k int, respTimeHP []float64, res *Results, simple bool) float64 {
	if c.tasks[i].G(k) == 0 {
		res.ReqBlocking[i] = append(res.ReqBlocking[i], 0)
		return 0
	}

	direct := c.requestDirectBlockingRDC(i, k, respTimeHP, simple)
	res.ReqBlocking[i] = append(res.ReqBlocking[i], direct)
	return direct + c.requestIndirectBlocking(i, k) + c.requestCIS(i, k)
}

func (c *Context) blockingRDC(i int, respTimeHP []float64, res *Results, simple bool) float64 {
	// Prioritized blocking is the same construction as the serialized test.
	blocking := c.prioritizedBlockingRD(i)

	n := c.tasks[i].NumSegments()
	if res.ReqBlocking[i] == nil {
		res.ReqBlocking[i] = make([]float64, 0, n)
	}
	for k := 0; k < n; k++ {
		blocking += c.requestBlockingRDC(i, k, respTimeHP, res, simple)
	}
	return blocking
}
