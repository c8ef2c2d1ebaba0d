// Package generator produces random task sets with the UUniFast-Discard
// algorithm, splitting accelerator demand into quantized fractional segments.
package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/haskel/accelsched/internal/params"
	"github.com/haskel/accelsched/internal/task"
	"github.com/haskel/accelsched/internal/taskset"
)

// ErrUtilization is returned when UUniFast-Discard cannot hit the requested
// bound under the per-task cap.
var ErrUtilization = errors.New("generator: utilization bound unreachable")

// discardIterations bounds UUniFast-Discard retries before giving up.
const discardIterations = 1000

// Config parameterizes one generation run. A zero MaxSegments or
// MaxGPUFraction falls back to the package default.
type Config struct {
	NumTasks    int     `yaml:"num_tasks"`
	NumGPUTasks int     `yaml:"num_gpu_tasks"`
	MaxSegments int     `yaml:"max_segments"`
	CPUUtil     float64 `yaml:"cpu_util"`
	GPUUtil     float64 `yaml:"gpu_util"`
	Harmonic    bool    `yaml:"harmonic"`
	// RandomSegments draws each task's segment count uniformly below
	// MaxSegments instead of pinning it there.
	RandomSegments bool    `yaml:"random_segments"`
	MaxGPUFraction float64 `yaml:"max_gpu_fraction"`
	Seed           int64   `yaml:"seed"`
}

func (c *Config) defaults() {
	if c.MaxSegments == 0 {
		c.MaxSegments = params.MaxGPUSegments
	}
	if c.MaxGPUFraction == 0 {
		c.MaxGPUFraction = params.MaxGPUFraction
	}
}

// Validate rejects configurations the generator cannot satisfy.
func (c *Config) Validate() error {
	var errs []error
	if c.NumTasks <= 0 {
		errs = append(errs, fmt.Errorf("num_tasks must be positive, got %d", c.NumTasks))
	}
	if c.NumGPUTasks < 0 || c.NumGPUTasks > c.NumTasks {
		errs = append(errs, fmt.Errorf("num_gpu_tasks must be within [0, num_tasks], got %d", c.NumGPUTasks))
	}
	if c.CPUUtil <= 0 {
		errs = append(errs, fmt.Errorf("cpu_util must be positive, got %v", c.CPUUtil))
	}
	if c.GPUUtil < 0 {
		errs = append(errs, fmt.Errorf("gpu_util must be non-negative, got %v", c.GPUUtil))
	}
	if c.MaxGPUFraction < 0 || c.MaxGPUFraction > params.MaxGPUFraction {
		errs = append(errs, fmt.Errorf("max_gpu_fraction must be within (0, %v]", params.MaxGPUFraction))
	}
	return errors.Join(errs...)
}

// uuniFast runs UUniFast-Discard: n utilization values summing to bound, each
// at most upperBound, discarding draws that breach the cap.
func uuniFast(rng *rand.Rand, n int, bound, upperBound float64) ([]float64, error) {
	if bound/float64(n) > upperBound {
		return nil, fmt.Errorf("%w: bound %v over %d tasks exceeds per-task cap %v", ErrUtilization, bound, n, upperBound)
	}

	util := make([]float64, n)
	for iter := 0; iter < discardIterations; iter++ {
		sum := bound
		found := true
		for i := 1; i < n; i++ {
			next := sum * math.Pow(rng.Float64(), 1/float64(n-i))
			util[i-1] = sum - next
			if util[i-1] > upperBound {
				found = false
				break
			}
			sum = next
		}
		if found {
			util[n-1] = sum
			if util[n-1] <= upperBound {
				return util, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no feasible draw in %d iterations", ErrUtilization, discardIterations)
}

// segmentCounts draws the per-task segment counts and returns them with
// their total.
func segmentCounts(rng *rand.Rand, cfg Config) ([]int, int) {
	counts := make([]int, cfg.NumGPUTasks)
	total := 0
	for i := range counts {
		switch {
		case cfg.MaxSegments > 1 && cfg.RandomSegments:
			counts[i] = rng.Intn(cfg.MaxSegments-1) + 1
		case cfg.MaxSegments > 1:
			counts[i] = cfg.MaxSegments
		default:
			counts[i] = 1
		}
		total += counts[i]
	}
	return counts, total
}

// Generate builds a random task vector. The first NumGPUTasks tasks carry
// accelerator segments; deadlines are implicit (D = T).
func Generate(cfg Config) (taskset.Vector, error) {
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	counts, totalSegments := segmentCounts(rng, cfg)

	cpuUtil, err := uuniFast(rng, cfg.NumTasks, cfg.CPUUtil, params.CPUTaskUpperBound)
	if err != nil {
		return nil, err
	}

	var gpuUtil []float64
	if cfg.NumGPUTasks > 0 {
		gpuUtil, err = uuniFast(rng, totalSegments, cfg.GPUUtil, params.GPUTaskUpperBound)
		if err != nil {
			return nil, err
		}
	}

	v := make(taskset.Vector, 0, cfg.NumTasks)
	period := 0.0
	segIdx := 0
	for i := 0; i < cfg.NumTasks; i++ {
		switch {
		case cfg.Harmonic && i == 0:
			period = float64(rng.Intn(params.MinPeriod) + params.MinPeriod)
		case cfg.Harmonic:
			period = float64(rng.Intn(3)+1) * period
		default:
			period = float64(rng.Intn(params.MaxPeriod-params.MinPeriod) + params.MinPeriod)
		}

		c := cpuUtil[i] * period

		var segs []task.Segment
		if i < cfg.NumGPUTasks {
			segs = make([]task.Segment, 0, counts[i])
			for j := 0; j < counts[i]; j++ {
				ge := gpuUtil[segIdx] * period
				segIdx++
				gm := params.CPUInterventionUtil * ge
				if gm >= params.CPUInterventionBound {
					gm = params.CPUInterventionBound
				}
				ge -= gm

				f := float64(rng.Intn(params.FractionGranularity-1)+1) / params.FractionGranularity
				if f > cfg.MaxGPUFraction {
					f = cfg.MaxGPUFraction
				}
				segs = append(segs, task.Segment{Gm: gm, Ge: ge, F: f})
			}
		}

		tk, err := task.New(c, period, period, segs)
		if err != nil {
			return nil, fmt.Errorf("generated task %d invalid: %w", i, err)
		}
		v = append(v, tk)
	}
	return v, nil
}
