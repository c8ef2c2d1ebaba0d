package analysis

import (
	"math"
	"testing"

	"github.com/haskel/accelsched/internal/params"
	"github.com/haskel/accelsched/internal/task"
	"github.com/haskel/accelsched/internal/taskset"
)

// queryVector builds tasks with zero interventions so every H equals its
// segment length, making the expected query results easy to read off.
func queryVector() *Context {
	v := taskset.Vector{
		task.MustNew(5, 200, 200, []task.Segment{{Ge: 3, F: 1}}),
		task.MustNew(5, 200, 200, []task.Segment{{Ge: 10, F: 0.5}, {Ge: 7, F: 0.9}}),
		task.MustNew(5, 200, 200, []task.Segment{{Ge: 10, F: 0.2}, {Ge: 4, F: 0.8}}),
	}
	return NewContext(v)
}

func TestMaxLPWcrtSegment(t *testing.T) {
	ctx := queryVector()

	h, idx := ctx.maxLPWcrtSegment(0)
	if h != 10 || idx != 1 {
		t.Errorf("maxLPWcrtSegment(0) = (%v, %d), want (10, 1)", h, idx)
	}

	// No low-priority tasks below the last index.
	h, _ = ctx.maxLPWcrtSegment(2)
	if h != 0 {
		t.Errorf("maxLPWcrtSegment(2) = %v, want 0", h)
	}
}

func TestNextMaxLPWcrtSegment_WalksDuplicates(t *testing.T) {
	ctx := queryVector()

	// Starting from the sentinel, k=1 returns the overall maximum.
	h, _ := ctx.nextMaxLPWcrtSegment(0, params.SearchSentinel, 1)
	if h != 10 {
		t.Errorf("k=1 from sentinel = %v, want 10", h)
	}

	// Both 10-length segments sit at the pivot value; k=2 walks onto the
	// second duplicate instead of dropping below it.
	h, idx := ctx.nextMaxLPWcrtSegment(0, 10, 2)
	if h != 10 || idx != 2 {
		t.Errorf("k=2 below 10 = (%v, %d), want (10, 2)", h, idx)
	}

	// k=3 moves strictly below the duplicates.
	h, _ = ctx.nextMaxLPWcrtSegment(0, 10, 3)
	if h != 7 {
		t.Errorf("k=3 below 10 = %v, want 7", h)
	}

	// Exhausted candidates yield zero.
	h, _ = ctx.nextMaxLPWcrtSegment(0, 3, 9)
	if h != 0 {
		t.Errorf("exhausted query = %v, want 0", h)
	}
}

func TestNextMaxLPWcrtSegmentFrac_FiltersFraction(t *testing.T) {
	ctx := queryVector()

	// Only segments with F >= 0.8 qualify: lengths 7 (F 0.9) and 4 (F 0.8).
	h, f := ctx.nextMaxLPWcrtSegmentFrac(0, params.SearchSentinel, 1, 0.8)
	if h != 7 || f != 0.9 {
		t.Errorf("first = (%v, %v), want (7, 0.9)", h, f)
	}

	h, f = ctx.nextMaxLPWcrtSegmentFrac(0, 7, 2, 0.8)
	if h != 4 || f != 0.8 {
		t.Errorf("second = (%v, %v), want (4, 0.8)", h, f)
	}

	h, _ = ctx.nextMaxLPWcrtSegmentFrac(0, 4, 3, 0.8)
	if h != 0 {
		t.Errorf("third = %v, want 0", h)
	}
}

func TestNextTaskMaxInterventionSegment(t *testing.T) {
	v := taskset.Vector{
		task.MustNew(5, 200, 200, []task.Segment{
			{Gm: 3, Ge: 1, F: 0.5},
			{Gm: 5, Ge: 1, F: 0.5},
			{Gm: 2, Ge: 1, F: 0.5},
		}),
	}
	ctx := NewContext(v)

	// FIFO-style walk starting at k=1.
	gm := ctx.nextTaskMaxInterventionSegment(0, params.SearchSentinel, 1)
	if gm != 5 {
		t.Errorf("first = %v, want 5", gm)
	}
	gm = ctx.nextTaskMaxInterventionSegment(0, gm, 2)
	if gm != 3 {
		t.Errorf("second = %v, want 3", gm)
	}
	gm = ctx.nextTaskMaxInterventionSegment(0, gm, 3)
	if gm != 2 {
		t.Errorf("third = %v, want 2", gm)
	}
	gm = ctx.nextTaskMaxInterventionSegment(0, gm, 4)
	if gm != 0 {
		t.Errorf("exhausted = %v, want 0", gm)
	}
}

func TestContext_Aggregates(t *testing.T) {
	v := taskset.Vector{
		task.MustNew(5, 100, 100, []task.Segment{{Gm: 1, Ge: 4, F: 0.5}}),
		task.MustNew(5, 100, 100, []task.Segment{{Gm: 0, Ge: 2, F: 0.5}, {Gm: 0, Ge: 6, F: 0.5}}),
	}
	ctx := NewContext(v)

	// Task 1's segments pick up CIS from task 0's intervention: each fits in
	// the leftover half, so H = G + 2*1.
	wantH0 := 2.0 + 2
	wantH1 := 6.0 + 2
	if math.Abs(ctx.H(1, 0)-wantH0) > eps {
		t.Errorf("H(1,0) = %v, want %v", ctx.H(1, 0), wantH0)
	}
	if math.Abs(ctx.MaxH(1)-wantH1) > eps {
		t.Errorf("MaxH(1) = %v, want %v", ctx.MaxH(1), wantH1)
	}
	if math.Abs(ctx.TotalH(1)-(wantH0+wantH1)) > eps {
		t.Errorf("TotalH(1) = %v, want %v", ctx.TotalH(1), wantH0+wantH1)
	}

	// Out-of-range reads contribute zero.
	if ctx.H(1, 5) != 0 || ctx.H(9, 0) != 0 {
		t.Error("out-of-range H must be 0")
	}
}
