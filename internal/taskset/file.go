package taskset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/haskel/accelsched/internal/task"
)

// taskSpec is the on-disk shape of a single task.
type taskSpec struct {
	C        float64        `yaml:"c"`
	D        float64        `yaml:"d,omitempty"`
	T        float64        `yaml:"t"`
	Segments []task.Segment `yaml:"segments,omitempty"`
}

// fileSpec is the on-disk shape of a task-set file.
type fileSpec struct {
	Tasks []taskSpec `yaml:"tasks"`
}

// Load reads a task-set file. A task with no explicit deadline gets an
// implicit one (D = T).
func Load(path string) (Vector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taskset file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML task-set document.
func Parse(data []byte) (Vector, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse taskset: %w", err)
	}

	v := make(Vector, 0, len(spec.Tasks))
	for i, ts := range spec.Tasks {
		d := ts.D
		if d == 0 {
			d = ts.T
		}
		tk, err := task.New(ts.C, d, ts.T, ts.Segments)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		v = append(v, tk)
	}
	return v, nil
}

// Save writes the vector back out as YAML.
func Save(path string, v Vector) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write taskset file: %w", err)
	}
	return nil
}

// Marshal encodes the vector as a YAML task-set document.
func Marshal(v Vector) ([]byte, error) {
	spec := fileSpec{Tasks: make([]taskSpec, 0, len(v))}
	for i := range v {
		spec.Tasks = append(spec.Tasks, taskSpec{
			C:        v[i].C(),
			D:        v[i].D(),
			T:        v[i].T(),
			Segments: v[i].Segments(),
		})
	}
	data, err := yaml.Marshal(&spec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode taskset: %w", err)
	}
	return data, nil
}
