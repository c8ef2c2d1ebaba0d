// Package taskset provides the ordered task vector the analyzers run over,
// together with utilization, ordering, and hyperperiod helpers.
//
// Position encodes priority: index 0 is the highest-priority task. Every
// engine relies on this ordering staying fixed for the duration of a run.
package taskset

import (
	"sort"

	"github.com/haskel/accelsched/internal/params"
	"github.com/haskel/accelsched/internal/task"
)

// Vector is the priority-ordered task list.
type Vector []task.Task

// PriorityLess reports whether a should be ordered before (at higher priority
// than) b. The driver chooses the comparator; RMS is the default.
type PriorityLess func(a, b task.Task) bool

// RMS orders by shorter period first.
func RMS(a, b task.Task) bool {
	return a.T() < b.T()
}

// ByUtilizationDesc orders by descending CPU utilization, the WFD placement
// order.
func ByUtilizationDesc(a, b task.Task) bool {
	return a.Util() > b.Util()
}

// SortByPriority sorts the vector in place under the given comparator.
func (v Vector) SortByPriority(less PriorityLess) {
	sort.SliceStable(v, func(i, j int) bool { return less(v[i], v[j]) })
}

// Clone returns an independent copy of the vector. Task values copy cleanly;
// segment storage is never mutated after construction.
func (v Vector) Clone() Vector {
	cp := make(Vector, len(v))
	copy(cp, v)
	return cp
}

// CPUUtil returns the summed CPU utilization (C + ΣGm)/T over all tasks.
func (v Vector) CPUUtil() float64 {
	util := 0.0
	for i := range v {
		util += v[i].Util()
	}
	return util
}

// GPUTasksCPUUtil returns the CPU utilization contributed by tasks that carry
// accelerator segments.
func (v Vector) GPUTasksCPUUtil() float64 {
	util := 0.0
	for i := range v {
		if v[i].NumSegments() != 0 {
			util += v[i].Util()
		}
	}
	return util
}

// GPUUtil returns the summed accelerator utilization ΣGe/T.
func (v Vector) GPUUtil() float64 {
	util := 0.0
	for i := range v {
		util += v[i].TotalGe() / v[i].T()
	}
	return util
}

// Theta bounds how many instances of low-priority task lp can effectively
// appear inside a window, subtracting the task's own CPU demand.
func Theta(lp task.Task, window float64) float64 {
	theta := params.CeilEps((window + lp.D() - lp.E()) / lp.T())
	if theta < 0 {
		return 0
	}
	return theta
}
