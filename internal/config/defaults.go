package config

import "github.com/haskel/accelsched/internal/params"

func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Policy:   "request-driven",
			Priority: "rms",
		},
		Generator: GeneratorConfig{
			NumTasks:       params.MaxTasks,
			NumGPUTasks:    int(params.FractionTasksGPU * params.MaxTasks),
			MaxSegments:    params.MaxGPUSegments,
			CPUUtil:        0.4,
			GPUUtil:        0.2,
			Harmonic:       false,
			RandomSegments: true,
			MaxGPUFraction: params.MaxGPUFraction,
		},
		Partition: PartitionConfig{
			Cores:     0,
			SyncAware: false,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Auth: AuthConfig{
				Enabled: false,
			},
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerSecond: 100,
				Burst:             200,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
