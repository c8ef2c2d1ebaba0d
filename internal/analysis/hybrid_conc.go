package analysis

import (
	"github.com/haskel/accelsched/internal/task"
	"github.com/haskel/accelsched/internal/taskset"
)

// CheckHybridConc runs the concurrent hybrid test on top of concurrent
// request-driven and job-driven results for the same vector. Both direct
// blocking figures are valid upper bounds, so each task takes the smaller;
// the prioritized wave is added differentially inside the recurrence.
func CheckHybridConc(v taskset.Vector, rd, jd *Results) *Results {
	ctx := NewContext(v)
	res := newResults(len(v))

	respTimeHP := make([]float64, len(v))
	for i := range v {
		respTimeHP[i] = v[i].D()
	}

	for i := range v {
		init := v[i].C() + ctx.TotalH(i)
		blockingInit := hybridDirectInitConc(&v[i], i, rd, jd)
		deadline := v[i].D()
		respTimeHP[i] = fixpoint(init, deadline, func(resp float64) float64 {
			return blockingInit + ctx.prioritizedBlockingWave(i, resp, 0) + ctx.interference(i, respTimeHP, resp)
		})
		res.ResponseTimes[i] = respTimeHP[i]
	}

	return res.finish(v)
}

// hybridDirectInitConc selects min(request-driven, job-driven) direct
// blocking for one task.
func hybridDirectInitConc(t *task.Task, i int, rd, jd *Results) float64 {
	if t.NumSegments() == 0 {
		return 0
	}

	rdBlocking := 0.0
	for _, b := range rd.ReqBlocking[i] {
		rdBlocking += b
	}
	jdBlocking := jd.JobBlocking[i]

	if jdBlocking < rdBlocking {
		return jdBlocking
	}
	return rdBlocking
}
