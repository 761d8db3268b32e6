package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jceal/stormwater-classifier/internal/cli/output"
	"github.com/jceal/stormwater-classifier/internal/eval"
	"github.com/jceal/stormwater-classifier/internal/state"
)

// EvalOptions holds options for the eval command.
type EvalOptions struct {
	Data    string
	Workers int
}

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	opts := &EvalOptions{}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the classifier against a labelled dataset",
		Long: `Run the full pipeline over every row of a labelled dataset and
report precision, recall and F1 per label, plus pooled aggregates
over the final permit labels. Each evaluation is recorded in the
state database.`,
		Example: `  # Evaluate against the default dataset
  stormwater eval

  # Evaluate a specific dataset with 8 workers
  stormwater eval --data data/project_data_150.csv --workers 8

  # JSON report for CI
  stormwater eval --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEval(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "Dataset CSV (default: project_data_50.csv in the data directory)")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "Number of classification workers (0 = number of CPUs)")

	return cmd
}

func runEval(cmd *cobra.Command, opts *EvalOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	dataPath := opts.Data
	if dataPath == "" {
		if err := cc.Cfg.ValidateDirectories(); err != nil {
			return err
		}
		dataPath = filepath.Join(cc.Cfg.DataDir, "project_data_50.csv")
	}

	rows, err := eval.ReadDataset(dataPath)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}

	workers := opts.Workers
	if workers == 0 {
		workers = cc.Cfg.Eval.Workers
	}

	clf, err := cc.Classifier()
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}

	run, err := cc.Store.CreateEvalRun(filepath.Base(dataPath))
	if err != nil {
		return fmt.Errorf("failed to record evaluation run: %w", err)
	}

	evaluator := eval.New(clf, cc.Logger, eval.WithWorkers(workers))
	report, err := evaluator.Evaluate(cmd.Context(), filepath.Base(dataPath), rows)
	if err != nil {
		now := time.Now()
		run.Status = state.RunStatusFailed
		run.CompletedAt = &now
		run.Error = err.Error()
		_ = cc.Store.CompleteEvalRun(run)
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if err := saveRun(cc.Store, run, report); err != nil {
		return fmt.Errorf("failed to record evaluation run: %w", err)
	}

	switch cc.Renderer.EffectiveMode() {
	case output.ModeJSON:
		return eval.RenderJSON(cc.Renderer.Out(), report)
	case output.ModeMarkdown:
		if err := eval.RenderMarkdown(cc.Renderer.Out(), report); err != nil {
			return err
		}
	default:
		if err := eval.RenderText(cc.Renderer.Out(), report); err != nil {
			return err
		}
	}
	cc.Renderer.Muted(fmt.Sprintf("Run %s recorded", run.ID))
	return nil
}

func saveRun(store state.Store, run *state.EvalRun, report *eval.Report) error {
	now := time.Now()
	run.Status = state.RunStatusCompleted
	run.CompletedAt = &now
	run.Rows = report.Rows
	run.MacroF1 = report.Aggregates.MacroF1
	run.MicroF1 = report.Aggregates.MicroF1
	run.WeightedF1 = report.Aggregates.WeightedF1
	run.Accuracy = report.Aggregates.Accuracy

	metrics := make([]state.LabelMetric, 0, len(report.Finals)+len(report.Intermediates))
	for _, lr := range report.Finals {
		metrics = append(metrics, labelMetric(lr, state.MetricKindFinal))
	}
	for _, lr := range report.Intermediates {
		metrics = append(metrics, labelMetric(lr, state.MetricKindIntermediate))
	}

	if err := store.SaveLabelMetrics(run.ID, metrics); err != nil {
		return err
	}
	return store.CompleteEvalRun(run)
}

func labelMetric(lr eval.LabelResult, kind state.MetricKind) state.LabelMetric {
	return state.LabelMetric{
		Label:     lr.Label,
		Kind:      kind,
		Precision: lr.Precision,
		Recall:    lr.Recall,
		F1:        lr.F1,
		Support:   lr.Support,
	}
}
