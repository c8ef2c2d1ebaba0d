package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haskel/accelsched/internal/analysis"
	"github.com/haskel/accelsched/internal/task"
	"github.com/haskel/accelsched/internal/taskset"
)

var paperCmd = &cobra.Command{
	Use:   "paper [flags]",
	Short: "Analyze the built-in two-task uniprocessor example",
	Long: `Paper runs the analyses on the canonical two-task example: t1 = {C:10,
T:50, one full-fraction 8ms GPU segment}, t2 = {C:20, T:80, one
full-fraction 5ms GPU segment}, RMS priority order.`,
	RunE: runPaper,
}

var paperPolicy string

func init() {
	paperCmd.Flags().StringVar(&paperPolicy, "policy", "", "single policy to run (default: all)")
	rootCmd.AddCommand(paperCmd)
}

func runPaper(cmd *cobra.Command, args []string) error {
	v := taskset.Vector{
		task.MustNew(10, 50, 50, []task.Segment{{Gm: 0, Ge: 8, F: 1}}),
		task.MustNew(20, 80, 80, []task.Segment{{Gm: 0, Ge: 5, F: 1}}),
	}
	v.SortByPriority(taskset.RMS)

	policies := analysis.Policies()
	if paperPolicy != "" {
		p, err := analysis.ParsePolicy(paperPolicy)
		if err != nil {
			return err
		}
		policies = []analysis.Policy{p}
	}

	fmt.Print(renderTaskset(v))
	for _, p := range policies {
		res, err := analysis.Analyze(v.Clone(), p)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Print(renderResults(v, p, res))
	}
	return nil
}
