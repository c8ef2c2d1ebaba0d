package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/spf13/cobra"

	"github.com/haskel/accelsched/internal/analysis"
	"github.com/haskel/accelsched/internal/config"
	"github.com/haskel/accelsched/internal/partition"
	"github.com/haskel/accelsched/internal/taskset"
)

var partitionCmd = &cobra.Command{
	Use:   "partition [flags] <taskset.yaml>",
	Short: "Partition a task set onto cores with worst-fit-decreasing",
	Long: `Partition assigns tasks to cores with the worst-fit-decreasing heuristic,
re-running the chosen schedulability test after every placement. With
--sync-aware, accelerator-using tasks are packed onto a reserved subset of
cores first. Without --cores the configured core count is used, or the
host's logical CPU count when the config leaves it at 0.`,
	Example: `  accelsched partition --cores 4 taskset.yaml
  accelsched partition --sync-aware --policy hybrid-conc taskset.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPartition,
}

var (
	partitionPolicy    string
	partitionCores     int
	partitionSyncAware bool
)

func init() {
	partitionCmd.Flags().StringVar(&partitionPolicy, "policy", "", "schedulability test (default from config)")
	partitionCmd.Flags().IntVar(&partitionCores, "cores", 0, "number of cores (default: host logical CPUs)")
	partitionCmd.Flags().BoolVar(&partitionSyncAware, "sync-aware", false, "reserve cores for accelerator-using tasks")
	rootCmd.AddCommand(partitionCmd)
}

// detectCores resolves the core count: flag, then config, then the host.
func detectCores(cfg *config.Config) (int, error) {
	if partitionCores > 0 {
		return partitionCores, nil
	}
	if cfg.Partition.Cores > 0 {
		return cfg.Partition.Cores, nil
	}
	count, err := cpu.Counts(true)
	if err != nil {
		return 0, fmt.Errorf("failed to detect host CPUs: %w", err)
	}
	return count, nil
}

func runPartition(cmd *cobra.Command, args []string) error {
	cfg := config.LoadOrDefault(cfgFile)

	v, err := taskset.Load(args[0])
	if err != nil {
		return err
	}

	name := partitionPolicy
	if name == "" {
		name = cfg.Analysis.Policy
	}
	policy, err := analysis.ParsePolicy(name)
	if err != nil {
		return err
	}

	cores, err := detectCores(cfg)
	if err != nil {
		return err
	}

	syncAware := partitionSyncAware || cfg.Partition.SyncAware

	var mapped taskset.Vector
	if syncAware {
		mapped, err = partition.SyncAwareWorstFitDecreasing(v, cores, policy, taskset.RMS)
	} else {
		mapped, err = partition.WorstFitDecreasing(v, cores, policy, taskset.RMS)
	}

	if errors.Is(err, partition.ErrInfeasible) {
		if jsonOut {
			return json.NewEncoder(os.Stdout).Encode(map[string]any{"feasible": false})
		}
		fmt.Printf("no feasible %d-core partition under %s\n", cores, policy)
		os.Exit(1)
	}
	if err != nil {
		return err
	}

	if jsonOut {
		type placed struct {
			C    float64 `json:"c"`
			T    float64 `json:"t"`
			Core int     `json:"core"`
		}
		out := make([]placed, 0, len(mapped))
		for i := range mapped {
			out = append(out, placed{C: mapped[i].C(), T: mapped[i].T(), Core: mapped[i].Core()})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"feasible": true, "tasks": out})
	}

	fmt.Printf("feasible on %d cores under %s\n\n", cores, policy)
	fmt.Print(renderTaskset(mapped))
	return nil
}
