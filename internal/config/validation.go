package config

import (
	"errors"
	"fmt"

	"github.com/haskel/accelsched/internal/analysis"
	"github.com/haskel/accelsched/internal/params"
)

func (c *Config) Validate() error {
	var errs []error

	if err := c.Analysis.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("analysis: %w", err))
	}

	if err := c.Generator.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("generator: %w", err))
	}

	if err := c.Partition.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("partition: %w", err))
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	return errors.Join(errs...)
}

func (a *AnalysisConfig) Validate() error {
	if _, err := analysis.ParsePolicy(a.Policy); err != nil {
		return err
	}
	if a.Priority != "rms" {
		return fmt.Errorf("invalid priority ordering: %s (valid: rms)", a.Priority)
	}
	return nil
}

func (g *GeneratorConfig) Validate() error {
	var errs []error

	if g.NumTasks < 1 {
		errs = append(errs, fmt.Errorf("num_tasks must be at least 1, got %d", g.NumTasks))
	}
	if g.NumGPUTasks < 0 || g.NumGPUTasks > g.NumTasks {
		errs = append(errs, fmt.Errorf("num_gpu_tasks must be within [0, num_tasks], got %d", g.NumGPUTasks))
	}
	if g.MaxSegments < 1 || g.MaxSegments > params.MaxGPUSegments {
		errs = append(errs, fmt.Errorf("max_segments must be within [1, %d], got %d", params.MaxGPUSegments, g.MaxSegments))
	}
	if g.CPUUtil <= 0 {
		errs = append(errs, fmt.Errorf("cpu_util must be positive, got %v", g.CPUUtil))
	}
	if g.GPUUtil < 0 {
		errs = append(errs, fmt.Errorf("gpu_util must be non-negative, got %v", g.GPUUtil))
	}
	if g.MaxGPUFraction <= 0 || g.MaxGPUFraction > params.MaxGPUFraction {
		errs = append(errs, fmt.Errorf("max_gpu_fraction must be within (0, %v], got %v", params.MaxGPUFraction, g.MaxGPUFraction))
	}

	return errors.Join(errs...)
}

func (p *PartitionConfig) Validate() error {
	if p.Cores < 0 {
		return fmt.Errorf("cores must be non-negative, got %d", p.Cores)
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", s.Port))
	}
	if s.Auth.Enabled && s.Auth.Secret == "" {
		errs = append(errs, fmt.Errorf("auth.secret cannot be empty when auth is enabled"))
	}
	if s.RateLimit.Enabled && s.RateLimit.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.requests_per_second must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", l.Level)
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[l.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, text)", l.Format)
	}

	return nil
}
