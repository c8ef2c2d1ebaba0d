package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haskel/accelsched/internal/analysis"
	"github.com/haskel/accelsched/internal/partition"
	"github.com/haskel/accelsched/internal/task"
	"github.com/haskel/accelsched/internal/taskset"
)

// taskPayload is the wire shape of one task. A zero deadline means implicit
// (D = T).
type taskPayload struct {
	C        float64        `json:"c"`
	D        float64        `json:"d,omitempty"`
	T        float64        `json:"t"`
	Segments []task.Segment `json:"segments,omitempty"`
	Core     *int           `json:"core,omitempty"`
}

type analyzeRequest struct {
	Policy string        `json:"policy" binding:"required"`
	Tasks  []taskPayload `json:"tasks" binding:"required"`
}

type analyzeResponse struct {
	Policy        string      `json:"policy"`
	Schedulable   bool        `json:"schedulable"`
	FailedTask    int         `json:"failed_task"`
	ResponseTimes []float64   `json:"response_times"`
	ReqBlocking   [][]float64 `json:"request_blocking,omitempty"`
	JobBlocking   []float64   `json:"job_blocking,omitempty"`
}

type partitionRequest struct {
	Policy    string        `json:"policy" binding:"required"`
	Cores     int           `json:"cores" binding:"required"`
	SyncAware bool          `json:"sync_aware"`
	Tasks     []taskPayload `json:"tasks" binding:"required"`
}

type partitionResponse struct {
	Feasible bool          `json:"feasible"`
	Tasks    []taskPayload `json:"tasks,omitempty"`
}

func buildVector(payload []taskPayload) (taskset.Vector, error) {
	v := make(taskset.Vector, 0, len(payload))
	for _, p := range payload {
		d := p.D
		if d == 0 {
			d = p.T
		}
		tk, err := task.New(p.C, d, p.T, p.Segments)
		if err != nil {
			return nil, err
		}
		if p.Core != nil {
			tk.SetCore(*p.Core)
		}
		v = append(v, tk)
	}
	return v, nil
}

func toPayload(v taskset.Vector) []taskPayload {
	out := make([]taskPayload, 0, len(v))
	for i := range v {
		core := v[i].Core()
		out = append(out, taskPayload{
			C:        v[i].C(),
			D:        v[i].D(),
			T:        v[i].T(),
			Segments: v[i].Segments(),
			Core:     &core,
		})
	}
	return out
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePolicies(c *gin.Context) {
	names := make([]string, 0)
	for _, p := range analysis.Policies() {
		names = append(names, p.String())
	}
	c.JSON(http.StatusOK, gin.H{"policies": names})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	policy, err := analysis.ParsePolicy(req.Policy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := buildVector(req.Tasks)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v.SortByPriority(taskset.RMS)

	res, err := analysis.Analyze(v, policy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.logger.Info("analysis complete",
		"policy", policy.String(),
		"tasks", len(v),
		"schedulable", res.Schedulable,
	)

	c.JSON(http.StatusOK, analyzeResponse{
		Policy:        policy.String(),
		Schedulable:   res.Schedulable,
		FailedTask:    res.FailedTask,
		ResponseTimes: res.ResponseTimes,
		ReqBlocking:   res.ReqBlocking,
		JobBlocking:   res.JobBlocking,
	})
}

func (s *Server) handlePartition(c *gin.Context) {
	var req partitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	policy, err := analysis.ParsePolicy(req.Policy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Cores < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cores must be at least 1"})
		return
	}

	v, err := buildVector(req.Tasks)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var mapped taskset.Vector
	if req.SyncAware {
		mapped, err = partition.SyncAwareWorstFitDecreasing(v, req.Cores, policy, taskset.RMS)
	} else {
		mapped, err = partition.WorstFitDecreasing(v, req.Cores, policy, taskset.RMS)
	}

	switch {
	case errors.Is(err, partition.ErrInfeasible):
		c.JSON(http.StatusOK, partitionResponse{Feasible: false})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, partitionResponse{
			Feasible: true,
			Tasks:    toPayload(mapped),
		})
	}
}
