package taskset

import "math"

func gcd(a, b uint64) uint64 {
	for {
		if a == 0 {
			return b
		}
		b %= a
		if b == 0 {
			return a
		}
		a %= b
	}
}

func lcm(a, b uint64) uint64 {
	g := gcd(a, b)
	if g == 0 {
		return 0
	}
	return (a / g) * b
}

// Hyperperiod returns the least common multiple of the floored task periods.
func (v Vector) Hyperperiod() uint64 {
	result := uint64(1)
	for i := range v {
		result = lcm(result, uint64(math.Floor(v[i].T())))
	}
	return result
}

// CPUTimeHyperperiod returns the total CPU demand (C plus interventions)
// accumulated over one hyperperiod.
func (v Vector) CPUTimeHyperperiod() float64 {
	hyperperiod := v.Hyperperiod()
	cputime := 0.0
	for i := range v {
		jobs := float64(hyperperiod) / math.Floor(v[i].T())
		cputime += v[i].C() * jobs
		for j := 0; j < v[i].NumSegments(); j++ {
			cputime += v[i].Gm(j) * jobs
		}
	}
	return cputime
}

// GPUTimeHyperperiod returns the total accelerator demand accumulated over
// one hyperperiod.
func (v Vector) GPUTimeHyperperiod() float64 {
	hyperperiod := v.Hyperperiod()
	gputime := 0.0
	for i := range v {
		jobs := float64(hyperperiod) / math.Floor(v[i].T())
		for j := 0; j < v[i].NumSegments(); j++ {
			gputime += v[i].Ge(j) * jobs
		}
	}
	return gputime
}
