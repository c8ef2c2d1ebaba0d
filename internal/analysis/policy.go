package analysis

import (
	"fmt"

	"github.com/haskel/accelsched/internal/taskset"
)

// Policy selects one of the schedulability tests.
type Policy int

const (
	RequestDriven Policy = iota
	JobDriven
	Hybrid
	RequestDrivenConcSimple
	JobDrivenConc
	RequestDrivenConc
	JobDrivenConcRO
	HybridConc
	FIFOConc
)

var policyNames = map[Policy]string{
	RequestDriven:           "request-driven",
	JobDriven:               "job-driven",
	Hybrid:                  "hybrid",
	RequestDrivenConcSimple: "request-driven-conc-simple",
	JobDrivenConc:           "job-driven-conc",
	RequestDrivenConc:       "request-driven-conc",
	JobDrivenConcRO:         "job-driven-conc-ro",
	HybridConc:              "hybrid-conc",
	FIFOConc:                "fifo-conc",
}

// Policies lists every policy in declaration order.
func Policies() []Policy {
	return []Policy{
		RequestDriven, JobDriven, Hybrid,
		RequestDrivenConcSimple, JobDrivenConc,
		RequestDrivenConc, JobDrivenConcRO,
		HybridConc, FIFOConc,
	}
}

// String returns the policy's CLI/config name.
func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// IsValid reports whether p is a known policy.
func (p Policy) IsValid() bool {
	_, ok := policyNames[p]
	return ok
}

// ParsePolicy resolves a policy from its name.
func ParsePolicy(name string) (Policy, error) {
	for p, n := range policyNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown policy %q", name)
}

// Analyze dispatches the vector to the chosen policy. The hybrid policies run
// their request-driven and job-driven prerequisites internally; the returned
// Results carry the hybrid verdict but the prerequisite runs' blocking
// tables.
func Analyze(v taskset.Vector, p Policy) (*Results, error) {
	switch p {
	case RequestDriven:
		return CheckRequestDriven(v), nil
	case JobDriven:
		return CheckJobDriven(v), nil
	case Hybrid:
		rd := CheckRequestDriven(v)
		jd := CheckJobDriven(v)
		res := CheckHybrid(v, rd, jd)
		res.ReqBlocking = rd.ReqBlocking
		return res, nil
	case RequestDrivenConcSimple:
		return CheckRequestDrivenConc(v, true), nil
	case RequestDrivenConc:
		return CheckRequestDrivenConc(v, false), nil
	case JobDrivenConc:
		return CheckJobDrivenConc(v, false), nil
	case JobDrivenConcRO:
		return CheckJobDrivenConc(v, true), nil
	case HybridConc:
		rd := CheckRequestDrivenConc(v, false)
		jd := CheckJobDrivenConc(v, true)
		res := CheckHybridConc(v, rd, jd)
		res.ReqBlocking = rd.ReqBlocking
		res.JobBlocking = jd.JobBlocking
		return res, nil
	case FIFOConc:
		return CheckFIFOConc(v), nil
	default:
		return nil, fmt.Errorf("unknown policy %d", int(p))
	}
}
