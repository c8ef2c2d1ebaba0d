package config

// Config is the top-level tool configuration.
type Config struct {
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Generator GeneratorConfig `yaml:"generator"`
	Partition PartitionConfig `yaml:"partition"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AnalysisConfig selects the default schedulability test.
type AnalysisConfig struct {
	// Policy: request-driven, job-driven, hybrid, request-driven-conc,
	// request-driven-conc-simple, job-driven-conc, job-driven-conc-ro,
	// hybrid-conc, fifo-conc.
	Policy string `yaml:"policy"`

	// Priority: rms (shorter period first).
	Priority string `yaml:"priority"`
}

// GeneratorConfig holds task-set generation defaults.
type GeneratorConfig struct {
	NumTasks       int     `yaml:"num_tasks"`
	NumGPUTasks    int     `yaml:"num_gpu_tasks"`
	MaxSegments    int     `yaml:"max_segments"`
	CPUUtil        float64 `yaml:"cpu_util"`
	GPUUtil        float64 `yaml:"gpu_util"`
	Harmonic       bool    `yaml:"harmonic"`
	RandomSegments bool    `yaml:"random_segments"`
	MaxGPUFraction float64 `yaml:"max_gpu_fraction"`
}

// PartitionConfig holds partitioner defaults. Cores = 0 means "detect from
// the host".
type PartitionConfig struct {
	Cores     int  `yaml:"cores"`
	SyncAware bool `yaml:"sync_aware"`
}

// ServerConfig holds the API server settings.
type ServerConfig struct {
	Host      string          `yaml:"host"`
	Port      int             `yaml:"port"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// AuthConfig holds bearer-token authentication. When enabled, requests carry
// a JWT signed with Secret.
type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Secret  string `yaml:"secret"`
}

// RateLimitConfig holds API rate limiting.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}
