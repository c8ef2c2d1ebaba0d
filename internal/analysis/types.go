package analysis

import (
	"math"

	"github.com/haskel/accelsched/internal/params"
	"github.com/haskel/accelsched/internal/taskset"
)

// respTimeCap is the multiple of a task's deadline at which the outer
// fixed-point gives up and declares the task unschedulable.
const respTimeCap = 5

// Results carries everything one schedulability test produces. ReqBlocking is
// populated by the request-driven engines (direct blocking per request),
// JobBlocking by the concurrent job-driven engine (direct blocking per job).
type Results struct {
	ResponseTimes []float64
	ReqBlocking   [][]float64
	JobBlocking   []float64

	Schedulable bool
	// FailedTask is the priority index of the first task that missed its
	// deadline, -1 when all tasks pass.
	FailedTask int
}

// newResults allocates the tables for an n-task run.
func newResults(n int) *Results {
	return &Results{
		ResponseTimes: make([]float64, n),
		Schedulable:   true,
		FailedTask:    -1,
	}
}

// finish fills in the verdict: every response time must land at or under its
// task's deadline. An empty vector is vacuously schedulable.
func (r *Results) finish(v taskset.Vector) *Results {
	for i := range v {
		if r.ResponseTimes[i] > v[i].D()+params.EpsilonFlo {
			r.Schedulable = false
			r.FailedTask = i
			return r
		}
	}
	return r
}

// converged reports whether two successive fixed-point iterates coincide.
func converged(next, prev float64) bool {
	return math.Abs(next-prev) <= params.EpsilonFlo
}
