package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/accelsched/internal/analysis"
	"github.com/haskel/accelsched/internal/config"
	"github.com/haskel/accelsched/internal/generator"
	"github.com/haskel/accelsched/internal/taskset"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags]",
	Short: "Generate a random task set with UUniFast-Discard",
	Long: `Generate draws a random task set at the requested CPU and GPU utilization
bounds. With -o the set is written as YAML; with --sweep N it instead
generates N sets and reports the acceptance ratio of every policy.`,
	Example: `  accelsched generate -o taskset.yaml
  accelsched generate --tasks 8 --gpu-tasks 4 --cpu-util 0.5 -o taskset.yaml
  accelsched generate --sweep 100 --cpu-util 0.6`,
	RunE: runGenerate,
}

var (
	genOut      string
	genTasks    int
	genGPUTasks int
	genSegments int
	genCPUUtil  float64
	genGPUUtil  float64
	genHarmonic bool
	genMaxFrac  float64
	genSeed     int64
	genSweep    int
)

func init() {
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "output taskset file")
	generateCmd.Flags().IntVar(&genTasks, "tasks", 0, "number of tasks")
	generateCmd.Flags().IntVar(&genGPUTasks, "gpu-tasks", -1, "number of tasks with GPU segments")
	generateCmd.Flags().IntVar(&genSegments, "segments", 0, "maximum GPU segments per task")
	generateCmd.Flags().Float64Var(&genCPUUtil, "cpu-util", 0, "CPU utilization bound")
	generateCmd.Flags().Float64Var(&genGPUUtil, "gpu-util", -1, "GPU utilization bound")
	generateCmd.Flags().BoolVar(&genHarmonic, "harmonic", false, "harmonic periods")
	generateCmd.Flags().Float64Var(&genMaxFrac, "max-fraction", 0, "maximum GPU fraction per request")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "random seed (default: current time)")
	generateCmd.Flags().IntVar(&genSweep, "sweep", 0, "generate N sets and report per-policy acceptance ratios")
	rootCmd.AddCommand(generateCmd)
}

// generatorConfig merges flags over the file config.
func generatorConfig(cfg *config.Config) generator.Config {
	gen := generator.Config{
		NumTasks:       cfg.Generator.NumTasks,
		NumGPUTasks:    cfg.Generator.NumGPUTasks,
		MaxSegments:    cfg.Generator.MaxSegments,
		CPUUtil:        cfg.Generator.CPUUtil,
		GPUUtil:        cfg.Generator.GPUUtil,
		Harmonic:       cfg.Generator.Harmonic,
		RandomSegments: cfg.Generator.RandomSegments,
		MaxGPUFraction: cfg.Generator.MaxGPUFraction,
		Seed:           genSeed,
	}
	if genTasks > 0 {
		gen.NumTasks = genTasks
	}
	if genGPUTasks >= 0 {
		gen.NumGPUTasks = genGPUTasks
	}
	if genSegments > 0 {
		gen.MaxSegments = genSegments
	}
	if genCPUUtil > 0 {
		gen.CPUUtil = genCPUUtil
	}
	if genGPUUtil >= 0 {
		gen.GPUUtil = genGPUUtil
	}
	if genHarmonic {
		gen.Harmonic = true
	}
	if genMaxFrac > 0 {
		gen.MaxGPUFraction = genMaxFrac
	}
	if gen.Seed == 0 {
		gen.Seed = time.Now().UnixNano()
	}
	return gen
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := config.LoadOrDefault(cfgFile)
	gen := generatorConfig(cfg)

	if genSweep > 0 {
		return runSweep(gen, genSweep)
	}

	v, err := generator.Generate(gen)
	if err != nil {
		return err
	}
	v.SortByPriority(taskset.RMS)

	if genOut != "" {
		if err := taskset.Save(genOut, v); err != nil {
			return err
		}
		fmt.Printf("wrote %d tasks to %s\n", len(v), genOut)
		return nil
	}

	data, err := taskset.Marshal(v)
	if err != nil {
		return err
	}
	os.Stdout.Write(data)
	return nil
}

// runSweep generates count task sets and reports how many each policy
// accepts, the acceptance-ratio experiment the analyses are compared by.
func runSweep(gen generator.Config, count int) error {
	accepted := make(map[analysis.Policy]int)
	generated := 0

	for i := 0; i < count; i++ {
		gen.Seed++
		v, err := generator.Generate(gen)
		if err != nil {
			// Discarded draw; keep sweeping.
			continue
		}
		v.SortByPriority(taskset.RMS)
		generated++

		for _, p := range analysis.Policies() {
			res, err := analysis.Analyze(v.Clone(), p)
			if err != nil {
				return err
			}
			if res.Schedulable {
				accepted[p]++
			}
		}
	}

	if generated == 0 {
		return fmt.Errorf("no feasible task set generated in %d draws", count)
	}

	if jsonOut {
		out := make(map[string]any, len(accepted))
		for _, p := range analysis.Policies() {
			out[p.String()] = float64(accepted[p]) / float64(generated)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("%s (%d sets, cpu-util %.2f, gpu-util %.2f)\n",
		headerStyle.Render("Acceptance ratio"), generated, gen.CPUUtil, gen.GPUUtil)
	for _, p := range analysis.Policies() {
		ratio := float64(accepted[p]) / float64(generated)
		fmt.Printf("  %-28s %5.1f%%\n", p.String(), 100*ratio)
	}
	return nil
}
