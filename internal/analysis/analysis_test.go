package analysis

import (
	"math"
	"testing"

	"github.com/haskel/accelsched/internal/task"
	"github.com/haskel/accelsched/internal/taskset"
)

const eps = 1e-6

// paperVector is the two-task uniprocessor example: both tasks demand the
// whole accelerator, RMS order t1 then t2.
func paperVector() taskset.Vector {
	return taskset.Vector{
		task.MustNew(10, 50, 50, []task.Segment{{Gm: 0, Ge: 8, F: 1}}),
		task.MustNew(20, 80, 80, []task.Segment{{Gm: 0, Ge: 5, F: 1}}),
	}
}

func TestRequestDriven_PaperExample(t *testing.T) {
	res := CheckRequestDriven(paperVector())

	if !res.Schedulable {
		t.Fatalf("paper example must be schedulable, failed task %d", res.FailedTask)
	}
	if math.Abs(res.ResponseTimes[0]-23) > eps {
		t.Errorf("W[0] = %v, want 23", res.ResponseTimes[0])
	}
	if math.Abs(res.ResponseTimes[1]-53) > eps {
		t.Errorf("W[1] = %v, want 53", res.ResponseTimes[1])
	}
	if math.Abs(res.ReqBlocking[0][0]-5) > eps {
		t.Errorf("direct blocking of request (0,0) = %v, want 5", res.ReqBlocking[0][0])
	}
	if math.Abs(res.ReqBlocking[1][0]-8) > eps {
		t.Errorf("direct blocking of request (1,0) = %v, want 8", res.ReqBlocking[1][0])
	}
}

func TestJobDriven_PaperExample(t *testing.T) {
	res := CheckJobDriven(paperVector())

	if !res.Schedulable {
		t.Fatalf("paper example must be schedulable, failed task %d", res.FailedTask)
	}
	if math.Abs(res.ResponseTimes[0]-23) > eps {
		t.Errorf("W[0] = %v, want 23", res.ResponseTimes[0])
	}
	if math.Abs(res.ResponseTimes[1]-61) > eps {
		t.Errorf("W[1] = %v, want 61", res.ResponseTimes[1])
	}
}

func TestHybrid_PaperExample(t *testing.T) {
	v := paperVector()
	rd := CheckRequestDriven(v)
	jd := CheckJobDriven(v)
	res := CheckHybrid(v, rd, jd)

	if !res.Schedulable {
		t.Fatalf("paper example must be schedulable, failed task %d", res.FailedTask)
	}
	// The hybrid response can never exceed both inputs.
	for i := range v {
		worst := math.Max(rd.ResponseTimes[i], jd.ResponseTimes[i])
		if res.ResponseTimes[i] > worst+eps {
			t.Errorf("hybrid W[%d] = %v above both rd %v and jd %v",
				i, res.ResponseTimes[i], rd.ResponseTimes[i], jd.ResponseTimes[i])
		}
	}
}

// S2: a task set with no accelerator use must produce identical response
// times under every policy, with every blocking term zero.
func TestAllPolicies_NoGPUTasksAgree(t *testing.T) {
	v := taskset.Vector{
		task.MustNew(10, 50, 50, nil),
		task.MustNew(20, 80, 80, nil),
	}

	var baseline []float64
	for _, p := range Policies() {
		res, err := Analyze(v.Clone(), p)
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		if !res.Schedulable {
			t.Fatalf("%v: must be schedulable", p)
		}
		if baseline == nil {
			baseline = res.ResponseTimes
			continue
		}
		for i := range baseline {
			if math.Abs(res.ResponseTimes[i]-baseline[i]) > eps {
				t.Errorf("%v: W[%d] = %v, want %v", p, i, res.ResponseTimes[i], baseline[i])
			}
		}
	}

	// W = C for the top task, C plus interference for the second.
	if math.Abs(baseline[0]-10) > eps {
		t.Errorf("W[0] = %v, want 10", baseline[0])
	}
	if math.Abs(baseline[1]-30) > eps {
		t.Errorf("W[1] = %v, want 30", baseline[1])
	}

	rd := CheckRequestDriven(v)
	for i := range v {
		for _, b := range rd.ReqBlocking[i] {
			if b != 0 {
				t.Errorf("blocking of no-GPU task %d = %v, want 0", i, b)
			}
		}
	}
}

// S3: a single low-priority GPU task inflicts no prioritized blocking on a
// CPU-only higher-priority task when it has no CPU intervention, and the GPU
// task absorbs interference from above.
func TestRequestDriven_GPUTaskBelowCPUTask(t *testing.T) {
	v := taskset.Vector{
		task.MustNew(5, 20, 20, nil),
		task.MustNew(5, 40, 40, []task.Segment{{Gm: 0, Ge: 10, F: 1}}),
	}
	res := CheckRequestDriven(v)

	if !res.Schedulable {
		t.Fatalf("set must be schedulable, failed task %d", res.FailedTask)
	}
	if math.Abs(res.ResponseTimes[0]-5) > eps {
		t.Errorf("W[0] = %v, want 5 (no prioritized blocking without Gm)", res.ResponseTimes[0])
	}
	if math.Abs(res.ResponseTimes[1]-20) > eps {
		t.Errorf("W[1] = %v, want 20", res.ResponseTimes[1])
	}
}

// S4: two half-fraction tasks. Under FIFO the top task waits out the other's
// full request and misses; under the concurrent request-driven analysis the
// wavefront filled by the 0.5-fraction request leaves no room for further
// low-priority liquefaction and the top task fits.
func TestConcurrency_FlipsFIFOVerdict(t *testing.T) {
	v := taskset.Vector{
		task.MustNew(2, 20, 20, []task.Segment{{Gm: 0, Ge: 10, F: 0.5}}),
		task.MustNew(2, 20, 20, []task.Segment{{Gm: 0, Ge: 10, F: 0.5}}),
	}

	fifo := CheckFIFOConc(v)
	if fifo.ResponseTimes[0] <= v[0].D() {
		t.Errorf("FIFO W[0] = %v, expected a deadline miss above %v", fifo.ResponseTimes[0], v[0].D())
	}

	rdc := CheckRequestDrivenConc(v, false)
	if rdc.ResponseTimes[0] > v[0].D() {
		t.Errorf("concurrent RD W[0] = %v, want at most %v", rdc.ResponseTimes[0], v[0].D())
	}
}

// S6: total demand above the deadline must be rejected without the recurrence
// running away.
func TestNonConvergence_DeclaredInfeasible(t *testing.T) {
	v := taskset.Vector{
		task.MustNew(25, 50, 50, []task.Segment{{Gm: 0, Ge: 26, F: 1}}),
	}

	for _, p := range Policies() {
		res, err := Analyze(v.Clone(), p)
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		if res.Schedulable {
			t.Errorf("%v: must be unschedulable", p)
		}
		if res.FailedTask != 0 {
			t.Errorf("%v: failed task = %d, want 0", p, res.FailedTask)
		}
	}
}

// P1: every precomputed segment response time covers at least the segment's
// own execution.
func TestH_DominatesSegmentLength(t *testing.T) {
	v := taskset.Vector{
		task.MustNew(5, 50, 50, []task.Segment{{Gm: 1, Ge: 4, F: 0.3}, {Gm: 0.5, Ge: 2, F: 0.7}}),
		task.MustNew(5, 80, 80, []task.Segment{{Gm: 2, Ge: 6, F: 0.5}}),
		task.MustNew(5, 100, 100, []task.Segment{{Gm: 1, Ge: 8, F: 1}}),
	}
	ctx := NewContext(v)

	for i := range v {
		for k := 0; k < v[i].NumSegments(); k++ {
			if ctx.H(i, k) < v[i].G(k)-eps {
				t.Errorf("H(%d,%d) = %v below segment length %v", i, k, ctx.H(i, k), v[i].G(k))
			}
		}
	}
}

// P2 (concurrent hybrid): per task, the selected direct blocking never
// exceeds either input bound.
func TestHybridConc_DirectBlockingIsMin(t *testing.T) {
	v := taskset.Vector{
		task.MustNew(4, 60, 60, []task.Segment{{Gm: 0.5, Ge: 6, F: 0.5}}),
		task.MustNew(6, 90, 90, []task.Segment{{Gm: 1, Ge: 8, F: 0.8}}),
		task.MustNew(8, 120, 120, []task.Segment{{Gm: 0, Ge: 4, F: 0.4}}),
	}

	rd := CheckRequestDrivenConc(v, false)
	jd := CheckJobDrivenConc(v, true)

	for i := range v {
		rdDirect := 0.0
		for _, b := range rd.ReqBlocking[i] {
			rdDirect += b
		}
		min := math.Min(rdDirect, jd.JobBlocking[i])

		got := hybridDirectInitConc(&v[i], i, rd, jd)
		if math.Abs(got-min) > eps {
			t.Errorf("task %d: hybrid direct = %v, want min(%v, %v)", i, got, rdDirect, jd.JobBlocking[i])
		}
	}
}

// P3: a task with no lower-priority companions on its core sees zero
// prioritized blocking.
func TestPrioritizedBlocking_ZeroWithoutLPTasks(t *testing.T) {
	v := taskset.Vector{
		task.MustNew(10, 50, 50, []task.Segment{{Gm: 1, Ge: 8, F: 1}}),
		task.MustNew(20, 80, 80, []task.Segment{{Gm: 2, Ge: 5, F: 1}}),
	}
	ctx := NewContext(v)

	// The bottom task has no lower-priority companions.
	last := len(v) - 1
	if got := ctx.prioritizedBlockingRD(last); got != 0 {
		t.Errorf("request-driven prioritized blocking = %v, want 0", got)
	}
	if got := ctx.prioritizedBlockingJD(last, 100); got != 0 {
		t.Errorf("job-driven prioritized blocking = %v, want 0", got)
	}
	if got := ctx.prioritizedBlockingWave(last, 100, 0); got != 0 {
		t.Errorf("wave prioritized blocking = %v, want 0", got)
	}
}

// P4: a whole-accelerator request leaves no residual fraction, so its CIS is
// zero even under higher-priority tasks with interventions.
func TestCIS_ZeroForFullFractionRequest(t *testing.T) {
	v := taskset.Vector{
		task.MustNew(5, 50, 50, []task.Segment{{Gm: 2, Ge: 4, F: 0.5}}),
		task.MustNew(10, 80, 80, []task.Segment{{Gm: 0, Ge: 8, F: 1}}),
	}
	ctx := NewContext(v)

	if got := ctx.requestCIS(1, 0); got != 0 {
		t.Errorf("CIS of full-fraction request = %v, want 0", got)
	}
	// With its CIS zero, the full-fraction request's H is its bare length.
	if ctx.H(1, 0) != v[1].G(0) {
		t.Errorf("H(1,0) = %v, want bare G %v", ctx.H(1, 0), v[1].G(0))
	}
}

// P5: engines are deterministic.
func TestAnalyze_Deterministic(t *testing.T) {
	v := taskset.Vector{
		task.MustNew(4, 60, 60, []task.Segment{{Gm: 0.5, Ge: 6, F: 0.5}}),
		task.MustNew(6, 90, 90, []task.Segment{{Gm: 1, Ge: 8, F: 0.8}}),
		task.MustNew(8, 120, 120, nil),
	}

	for _, p := range Policies() {
		a, err := Analyze(v.Clone(), p)
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		b, err := Analyze(v.Clone(), p)
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		if a.Schedulable != b.Schedulable {
			t.Errorf("%v: verdicts differ", p)
		}
		for i := range a.ResponseTimes {
			if a.ResponseTimes[i] != b.ResponseTimes[i] {
				t.Errorf("%v: W[%d] differs between runs", p, i)
			}
		}
	}
}

// P6: W_i must not depend on the relative order of strictly lower-priority
// tasks.
func TestResponseTime_IndependentOfLowerPriorityOrder(t *testing.T) {
	base := taskset.Vector{
		task.MustNew(4, 60, 60, []task.Segment{{Gm: 0.5, Ge: 6, F: 0.5}}),
		task.MustNew(6, 90, 90, []task.Segment{{Gm: 1, Ge: 8, F: 0.8}}),
		task.MustNew(8, 120, 120, []task.Segment{{Gm: 0, Ge: 4, F: 0.4}}),
	}
	swapped := taskset.Vector{base[0], base[2], base[1]}

	for _, p := range []Policy{RequestDriven, JobDriven, RequestDrivenConc, JobDrivenConc, FIFOConc} {
		a, err := Analyze(base.Clone(), p)
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		b, err := Analyze(swapped.Clone(), p)
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		if math.Abs(a.ResponseTimes[0]-b.ResponseTimes[0]) > eps {
			t.Errorf("%v: W[0] changed with lower-priority order: %v vs %v",
				p, a.ResponseTimes[0], b.ResponseTimes[0])
		}
	}
}

// P8 doubles as a smoke test: every policy terminates on a mixed set.
func TestAnalyze_TerminatesOnMixedSet(t *testing.T) {
	v := taskset.Vector{
		task.MustNew(2, 30, 30, []task.Segment{{Gm: 0.2, Ge: 3, F: 0.4}}),
		task.MustNew(5, 50, 50, nil),
		task.MustNew(4, 70, 70, []task.Segment{{Gm: 0.5, Ge: 5, F: 0.6}, {Gm: 0, Ge: 2, F: 0.2}}),
		task.MustNew(10, 110, 110, []task.Segment{{Gm: 1, Ge: 9, F: 1}}),
	}

	for _, p := range Policies() {
		res, err := Analyze(v.Clone(), p)
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		for i, w := range res.ResponseTimes {
			if w < v[i].C() {
				t.Errorf("%v: W[%d] = %v below C = %v", p, i, w, v[i].C())
			}
		}
	}
}

func TestAnalyze_EmptyVectorVacuouslySchedulable(t *testing.T) {
	for _, p := range Policies() {
		res, err := Analyze(taskset.Vector{}, p)
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		if !res.Schedulable {
			t.Errorf("%v: empty vector must be vacuously schedulable", p)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range Policies() {
		got, err := ParsePolicy(p.String())
		if err != nil {
			t.Fatalf("ParsePolicy(%q): %v", p.String(), err)
		}
		if got != p {
			t.Errorf("ParsePolicy(%q) = %v, want %v", p.String(), got, p)
		}
	}
	if _, err := ParsePolicy("nonsense"); err == nil {
		t.Error("expected error for unknown policy name")
	}
}
