package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haskel/accelsched/internal/analysis"
	"github.com/haskel/accelsched/internal/cli/tui"
	"github.com/haskel/accelsched/internal/config"
	"github.com/haskel/accelsched/internal/taskset"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <taskset.yaml>",
	Short: "Run a schedulability test on a task-set file",
	Long: `Analyze loads a task-set file, orders it by rate-monotonic priority, and
runs the chosen schedulability test. With --all every policy runs and the
verdicts are printed side by side; --interactive opens a results browser.`,
	Example: `  accelsched analyze taskset.yaml
  accelsched analyze --policy hybrid-conc taskset.yaml
  accelsched analyze --all taskset.yaml
  accelsched analyze --interactive taskset.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzePolicy      string
	analyzeAll         bool
	analyzeInteractive bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzePolicy, "policy", "", "schedulability test (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeAll, "all", false, "run every policy")
	analyzeCmd.Flags().BoolVar(&analyzeInteractive, "interactive", false, "browse results interactively")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.LoadOrDefault(cfgFile)

	v, err := taskset.Load(args[0])
	if err != nil {
		return err
	}
	v.SortByPriority(taskset.RMS)

	policies, err := selectPolicies(cfg)
	if err != nil {
		return err
	}

	results := make(map[analysis.Policy]*analysis.Results, len(policies))
	for _, p := range policies {
		res, err := analysis.Analyze(v.Clone(), p)
		if err != nil {
			return err
		}
		results[p] = res
	}

	if analyzeInteractive {
		return tui.Run(v, policies, results)
	}

	if jsonOut {
		return printAnalyzeJSON(policies, results)
	}

	fmt.Print(renderTaskset(v))
	for _, p := range policies {
		fmt.Println()
		fmt.Print(renderResults(v, p, results[p]))
	}
	for _, p := range policies {
		if !results[p].Schedulable {
			os.Exit(1)
		}
	}
	return nil
}

func selectPolicies(cfg *config.Config) ([]analysis.Policy, error) {
	if analyzeAll {
		return analysis.Policies(), nil
	}
	name := analyzePolicy
	if name == "" {
		name = cfg.Analysis.Policy
	}
	p, err := analysis.ParsePolicy(name)
	if err != nil {
		return nil, err
	}
	return []analysis.Policy{p}, nil
}

func printAnalyzeJSON(policies []analysis.Policy, results map[analysis.Policy]*analysis.Results) error {
	out := make(map[string]any, len(policies))
	for _, p := range policies {
		res := results[p]
		out[p.String()] = map[string]any{
			"schedulable":    res.Schedulable,
			"failed_task":    res.FailedTask,
			"response_times": res.ResponseTimes,
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
