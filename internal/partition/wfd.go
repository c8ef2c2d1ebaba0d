// Package partition assigns tasks to cores with Worst-Fit-Decreasing and a
// synchronization-aware variant, re-running the chosen schedulability test
// after every placement.
package partition

import (
	"errors"
	"math"

	"github.com/haskel/accelsched/internal/analysis"
	"github.com/haskel/accelsched/internal/taskset"
)

// ErrInfeasible is returned when no core assignment passes the chosen test.
var ErrInfeasible = errors.New("partition: no feasible assignment")

// minUtilCore returns the least-loaded core in [startCore, len), skipping
// excluded cores. ok is false when every candidate is excluded.
func minUtilCore(coreUtil []float64, startCore int, excluded map[int]bool) (core int, ok bool) {
	minUtil := math.Inf(1)
	core = -1
	for i := startCore; i < len(coreUtil); i++ {
		if excluded[i] {
			continue
		}
		if coreUtil[i] < minUtil {
			minUtil = coreUtil[i]
			core = i
		}
	}
	return core, core >= 0
}

// place tries cores for one task until the test accepts the partial set.
// startCore restricts the candidate range. It returns the updated mapped
// vector and the chosen core.
func place(mapped taskset.Vector, t taskset.Vector, index int, coreUtil []float64,
	startCore int, p analysis.Policy, less taskset.PriorityLess) (taskset.Vector, int, error) {

	excluded := make(map[int]bool)
	for {
		core, ok := minUtilCore(coreUtil, startCore, excluded)
		if !ok {
			return nil, 0, ErrInfeasible
		}

		candidate := t[index]
		candidate.SetCore(core)

		trial := append(mapped.Clone(), candidate)
		trial.SortByPriority(less)

		res, err := analysis.Analyze(trial, p)
		if err != nil {
			return nil, 0, err
		}
		if res.Schedulable {
			return trial, core, nil
		}
		excluded[core] = true
	}
}

// WorstFitDecreasing orders tasks by descending CPU utilization and places
// each on the least-loaded core that keeps the growing set schedulable under
// the chosen policy. The returned vector is sorted by the priority comparator
// and carries the core assignments.
func WorstFitDecreasing(v taskset.Vector, numCores int, p analysis.Policy, less taskset.PriorityLess) (taskset.Vector, error) {
	if len(v) == 0 {
		return taskset.Vector{}, nil
	}

	ordered := v.Clone()
	ordered.SortByPriority(taskset.ByUtilizationDesc)

	coreUtil := make([]float64, numCores)
	var mapped taskset.Vector

	for index := range ordered {
		trial, core, err := place(mapped, ordered, index, coreUtil, 0, p, less)
		if err != nil {
			return nil, err
		}
		mapped = trial
		coreUtil[core] += ordered[index].Util()
	}
	return mapped, nil
}

// SyncAwareWorstFitDecreasing reserves the top cores for self-suspending
// (accelerator-using) tasks, sized by their share of the total CPU
// utilization, places those first, then spreads the remaining tasks over all
// cores.
func SyncAwareWorstFitDecreasing(v taskset.Vector, numCores int, p analysis.Policy, less taskset.PriorityLess) (taskset.Vector, error) {
	if len(v) == 0 {
		return taskset.Vector{}, nil
	}

	cpuGPUUtil := v.GPUTasksCPUUtil()
	cpuUtil := v.CPUUtil()

	suspCores := 0
	if cpuUtil > 0 {
		suspCores = int(math.Ceil(cpuGPUUtil / cpuUtil * float64(numCores)))
	}
	if suspCores > numCores {
		suspCores = numCores
	}
	if suspCores < 1 && cpuGPUUtil > 0 {
		suspCores = 1
	}

	ordered := v.Clone()
	ordered.SortByPriority(taskset.ByUtilizationDesc)

	coreUtil := make([]float64, numCores)
	var mapped taskset.Vector

	// Self-suspending tasks go onto the reserved top cores first, keeping
	// accelerator clients together.
	for index := range ordered {
		if ordered[index].TotalGe() == 0 {
			continue
		}
		trial, core, err := place(mapped, ordered, index, coreUtil, numCores-suspCores, p, less)
		if err != nil {
			return nil, err
		}
		mapped = trial
		coreUtil[core] += ordered[index].Util()
	}

	for index := range ordered {
		if ordered[index].TotalGe() != 0 {
			continue
		}
		trial, core, err := place(mapped, ordered, index, coreUtil, 0, p, less)
		if err != nil {
			return nil, err
		}
		mapped = trial
		coreUtil[core] += ordered[index].Util()
	}
	return mapped, nil
}
