// Package task models a periodic real-time task whose jobs alternate CPU
// execution with self-suspending accelerator (GPU) segments.
package task

import (
	"errors"
	"fmt"
	"math"
)

// CoreUnassigned marks a task not yet placed on any core.
const CoreUnassigned = -1

var (
	// ErrSegmentIndex is returned when a segment accessor is queried out of
	// range. The plain accessors instead return a zero sentinel so an
	// out-of-range read propagates as a zero contribution.
	ErrSegmentIndex = errors.New("task: segment index out of range")

	// ErrBadParams is returned by New for malformed task parameters.
	ErrBadParams = errors.New("task: bad parameters")
)

// Segment is one accelerator request within a job: Gm is the CPU-side
// intervention time, Ge the raw accelerator execution time, and F the
// fraction of accelerator capacity the request demands.
type Segment struct {
	Gm float64 `yaml:"gm" json:"gm"`
	Ge float64 `yaml:"ge" json:"ge"`
	F  float64 `yaml:"f" json:"f"`
}

// G is the combined CPU-plus-accelerator length of the segment.
func (s Segment) G() float64 {
	return s.Gm + s.Ge
}

// Task is an analysis input. Deadline D never exceeds period T, and the
// segment order is the execution order within a job. After construction only
// SetCore and the scaling hooks (ScaleCPU, ScaleGPU, Timescale) change a task.
type Task struct {
	c    float64
	d    float64
	t    float64
	segs []Segment

	cpuFreq float64
	gpuFreq float64
	core    int
}

// New builds a task from raw parameters. It rejects D > T, negative numeric
// fields, and fractions outside (0, 1].
func New(c, d, t float64, segs []Segment) (Task, error) {
	if c < 0 || d < 0 || t <= 0 {
		return Task{}, fmt.Errorf("%w: C=%v D=%v T=%v", ErrBadParams, c, d, t)
	}
	if d > t {
		return Task{}, fmt.Errorf("%w: deadline %v exceeds period %v", ErrBadParams, d, t)
	}
	for i, s := range segs {
		if s.Gm < 0 || s.Ge < 0 {
			return Task{}, fmt.Errorf("%w: segment %d has negative execution time", ErrBadParams, i)
		}
		if s.F <= 0 || s.F > 1 {
			return Task{}, fmt.Errorf("%w: segment %d fraction %v outside (0,1]", ErrBadParams, i, s.F)
		}
	}
	cp := make([]Segment, len(segs))
	copy(cp, segs)
	return Task{
		c:       c,
		d:       d,
		t:       t,
		segs:    cp,
		cpuFreq: 1.0,
		gpuFreq: 1.0,
		core:    CoreUnassigned,
	}, nil
}

// MustNew is New for statically known-good parameters, as in tests and the
// built-in paper example.
func MustNew(c, d, t float64, segs []Segment) Task {
	tk, err := New(c, d, t, segs)
	if err != nil {
		panic(err)
	}
	return tk
}

// C returns the CPU execution time per period.
func (tk Task) C() float64 { return tk.c }

// D returns the deadline.
func (tk Task) D() float64 { return tk.d }

// T returns the period.
func (tk Task) T() float64 { return tk.t }

// NumSegments returns the number of accelerator segments per job.
func (tk Task) NumSegments() int { return len(tk.segs) }

// Segment returns segment i, or ErrSegmentIndex when i is out of range.
func (tk Task) Segment(i int) (Segment, error) {
	if i < 0 || i >= len(tk.segs) {
		return Segment{}, fmt.Errorf("%w: %d of %d", ErrSegmentIndex, i, len(tk.segs))
	}
	return tk.segs[i], nil
}

// Segments returns a copy of the segment list in execution order.
func (tk Task) Segments() []Segment {
	cp := make([]Segment, len(tk.segs))
	copy(cp, tk.segs)
	return cp
}

// Gm returns the CPU intervention time of segment i, zero when out of range.
func (tk Task) Gm(i int) float64 {
	if i < 0 || i >= len(tk.segs) {
		return 0
	}
	return tk.segs[i].Gm
}

// Ge returns the accelerator execution time of segment i, zero when out of range.
func (tk Task) Ge(i int) float64 {
	if i < 0 || i >= len(tk.segs) {
		return 0
	}
	return tk.segs[i].Ge
}

// F returns the fractional capacity demand of segment i, zero when out of range.
func (tk Task) F(i int) float64 {
	if i < 0 || i >= len(tk.segs) {
		return 0
	}
	return tk.segs[i].F
}

// G returns the combined length of segment i, zero when out of range.
func (tk Task) G(i int) float64 {
	if i < 0 || i >= len(tk.segs) {
		return 0
	}
	return tk.segs[i].G()
}

// TotalGm returns the summed CPU intervention time over all segments.
func (tk Task) TotalGm() float64 {
	total := 0.0
	for _, s := range tk.segs {
		total += s.Gm
	}
	return total
}

// TotalGe returns the summed accelerator execution time over all segments.
func (tk Task) TotalGe() float64 {
	total := 0.0
	for _, s := range tk.segs {
		total += s.Ge
	}
	return total
}

// TotalG returns the summed combined segment length.
func (tk Task) TotalG() float64 {
	total := 0.0
	for _, s := range tk.segs {
		total += s.G()
	}
	return total
}

// MaxGm returns the largest CPU intervention over all segments.
func (tk Task) MaxGm() float64 {
	return tk.MaxGmLeqFraction(1)
}

// MaxGmLeqFraction returns the largest CPU intervention among segments whose
// fractional demand does not exceed fraction.
func (tk Task) MaxGmLeqFraction(fraction float64) float64 {
	max := 0.0
	for _, s := range tk.segs {
		if s.Gm > max && s.F <= fraction {
			max = s.Gm
		}
	}
	return max
}

// MaxF returns the largest fractional capacity demand over all segments.
func (tk Task) MaxF() float64 {
	max := 0.0
	for _, s := range tk.segs {
		if s.F > max {
			max = s.F
		}
	}
	return max
}

// IndexMaxF returns the largest fraction over segments [start, n) and the
// index of its first occurrence. An empty range yields zero and idx = start.
func (tk Task) IndexMaxF(start int) (maxF float64, idx int) {
	idx = start
	for i := start; i < len(tk.segs); i++ {
		if tk.segs[i].F > maxF {
			maxF = tk.segs[i].F
			idx = i
		}
	}
	return maxF, idx
}

// E returns the total CPU time a job needs: C plus all interventions.
func (tk Task) E() float64 {
	return tk.c + tk.TotalGm()
}

// Util returns the CPU utilization (C + ΣGm)/T used by the partitioner.
func (tk Task) Util() float64 {
	return (tk.c + tk.TotalGm()) / tk.t
}

// Core returns the assigned core, or CoreUnassigned.
func (tk Task) Core() int { return tk.core }

// SetCore assigns the task to a core. The partitioner is the only caller
// between analysis runs.
func (tk *Task) SetCore(core int) {
	tk.core = core
}

// CPUFreq returns the current CPU frequency scaling factor.
func (tk Task) CPUFreq() float64 { return tk.cpuFreq }

// GPUFreq returns the current accelerator frequency scaling factor.
func (tk Task) GPUFreq() float64 { return tk.gpuFreq }

// ScaleCPU rescales C and every Gm to the given CPU frequency. Factors above
// 1.0 are rejected; repeated calls rebase from the previous factor.
func (tk *Task) ScaleCPU(frequency float64) error {
	if frequency > 1 || frequency <= 0 {
		return fmt.Errorf("%w: cpu frequency %v outside (0,1]", ErrBadParams, frequency)
	}
	tk.c = tk.c * tk.cpuFreq / frequency
	segs := make([]Segment, len(tk.segs))
	copy(segs, tk.segs)
	for i := range segs {
		segs[i].Gm = segs[i].Gm * tk.cpuFreq / frequency
	}
	tk.segs = segs
	tk.cpuFreq = frequency
	return nil
}

// ScaleGPU rescales every Ge to the given accelerator frequency.
func (tk *Task) ScaleGPU(frequency float64) error {
	if frequency > 1 || frequency <= 0 {
		return fmt.Errorf("%w: gpu frequency %v outside (0,1]", ErrBadParams, frequency)
	}
	segs := make([]Segment, len(tk.segs))
	copy(segs, tk.segs)
	for i := range segs {
		segs[i].Ge = segs[i].Ge * tk.gpuFreq / frequency
	}
	tk.segs = segs
	tk.gpuFreq = frequency
	return nil
}

// Timescale multiplies every time parameter by factor and floors the result,
// removing floating-point residue before an integer-time analysis.
func (tk *Task) Timescale(factor int) {
	f := float64(factor)
	tk.c = math.Floor(tk.c * f)
	segs := make([]Segment, len(tk.segs))
	copy(segs, tk.segs)
	for i := range segs {
		segs[i].Gm = math.Floor(segs[i].Gm * f)
		segs[i].Ge = math.Floor(segs[i].Ge * f)
	}
	tk.segs = segs
	tk.d = math.Floor(tk.d * f)
	tk.t = math.Floor(tk.t * f)
}
