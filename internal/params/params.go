// Package params holds the analysis and generation constants shared across
// the analyzer, the task-set generator, and the partitioner.
package params

import "math"

const (
	// MinPeriod and MaxPeriod bound generated task periods in milliseconds.
	MinPeriod = 5
	MaxPeriod = 500

	// MaxTasks bounds single-core task sets; MaxTasksMC4 bounds 4-core sets.
	MaxTasks    = 10
	MaxTasksMC4 = 15

	// FractionGranularity is the number of slots the accelerator capacity is
	// quantized into. The blocking fraction of a request demanding fraction F
	// is 1 - F + 1/FractionGranularity.
	FractionGranularity = 10

	// MaxGPUSegments bounds the number of accelerator segments per task.
	MaxGPUSegments = 5

	// MaxGPUFraction caps a single request's fractional capacity demand.
	MaxGPUFraction = 1.0

	// FractionTasksGPU is the share of generated tasks carrying GPU segments.
	FractionTasksGPU = 0.5

	// CPUTaskUpperBound and GPUTaskUpperBound cap a single task's CPU and
	// GPU utilization during generation.
	CPUTaskUpperBound = 0.4
	GPUTaskUpperBound = 0.4

	// CPUInterventionUtil is the share of a segment's accelerator time spent
	// as CPU-side intervention; CPUInterventionBound caps it in absolute time.
	CPUInterventionUtil  = 0.1
	CPUInterventionBound = 1
)

// EpsilonFlo compensates for ceil/floor drift near integer boundaries. Every
// ceiling or floor taken of a computed quantity inside a fixed-point loop goes
// through CeilEps/FloorEps so the drift cannot push an iteration guard over an
// integer edge.
const EpsilonFlo = 0.001

// SearchSentinel is the "larger than any segment response time" starting value
// for next-largest-below queries. MaxPeriod bounds every H in a feasible set.
const SearchSentinel = MaxPeriod + 1

// CeilEps is ceil with the drift guard applied.
func CeilEps(x float64) float64 {
	return math.Ceil(x - EpsilonFlo)
}

// FloorEps is floor with the drift guard applied.
func FloorEps(x float64) float64 {
	return math.Floor(x + EpsilonFlo)
}
