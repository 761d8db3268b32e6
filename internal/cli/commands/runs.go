package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jceal/stormwater-classifier/internal/cli/output"
	"github.com/jceal/stormwater-classifier/internal/state"
)

// NewRunsCommand creates the runs command with its subcommands.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Browse recorded evaluation runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRunsList(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.AddCommand(newRunsShowCommand())

	return cmd
}

func runRunsList(cmd *cobra.Command, limit int) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	runs, err := cc.Store.ListEvalRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if cc.Renderer.EffectiveMode() == output.ModeJSON {
		return cc.Renderer.JSON(runs)
	}

	if len(runs) == 0 {
		cc.Renderer.Muted("No evaluation runs recorded yet")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cc.Renderer.Out())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Dataset", "Status", "Started", "Rows", "Macro F1", "Accuracy"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.ID,
			run.Dataset,
			string(run.Status),
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Rows,
			fmt.Sprintf("%.3f", run.MacroF1),
			fmt.Sprintf("%.3f", run.Accuracy),
		})
	}
	renderTable(cc, t)
	return nil
}

// renderTable renders a table in the markdown dialect when the
// effective output mode asks for it.
func renderTable(cc *CommandContext, t table.Writer) {
	if cc.Renderer.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}

func newRunsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show per-label metrics for one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			metrics, err := cc.Store.LabelMetricsForRun(args[0])
			if err != nil {
				return fmt.Errorf("failed to load metrics: %w", err)
			}
			if len(metrics) == 0 {
				return fmt.Errorf("no metrics found for run %s", args[0])
			}

			if cc.Renderer.EffectiveMode() == output.ModeJSON {
				return cc.Renderer.JSON(metrics)
			}

			renderMetricsTable(cc, metrics)
			return nil
		},
	}
}

func renderMetricsTable(cc *CommandContext, metrics []state.LabelMetric) {
	t := table.NewWriter()
	t.SetOutputMirror(cc.Renderer.Out())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Label", "Kind", "Prec", "Rec", "F1", "Support"})
	for _, m := range metrics {
		t.AppendRow(table.Row{
			m.Label,
			string(m.Kind),
			fmt.Sprintf("%.3f", m.Precision),
			fmt.Sprintf("%.3f", m.Recall),
			fmt.Sprintf("%.3f", m.F1),
			m.Support,
		})
	}
	renderTable(cc, t)
}
