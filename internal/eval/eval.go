// Package eval scores the classifier against labelled datasets and
// produces per-label and aggregate metrics.
package eval

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jceal/stormwater-classifier/internal/classifier"
)

// RowClassifier is the classification surface the harness needs.
type RowClassifier interface {
	ClassifyWithExplanation(text string) (classifier.Labels, classifier.Intermediates, error)
}

// Report is the outcome of evaluating one dataset.
type Report struct {
	Dataset       string        `json:"dataset"`
	Rows          int           `json:"rows"`
	Finals        []LabelResult `json:"finals"`
	Intermediates []LabelResult `json:"intermediates"`
	Aggregates    Aggregates    `json:"aggregates"`
}

// Evaluator runs the classifier over a labelled dataset.
type Evaluator struct {
	classifier RowClassifier
	logger     *slog.Logger
	workers    int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithWorkers caps how many rows are classified concurrently.
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New creates an Evaluator.
func New(c RowClassifier, logger *slog.Logger, opts ...Option) *Evaluator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Evaluator{
		classifier: c,
		logger:     logger,
		workers:    runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// rowOutcome holds one row's predictions, index-aligned with the input.
type rowOutcome struct {
	labels classifier.Labels
	inter  classifier.Intermediates
}

// Evaluate classifies every row and scores the predictions against the
// ground truth. Rows are classified concurrently; metric order follows
// FinalLabels and IntermediateLabels.
func (e *Evaluator) Evaluate(ctx context.Context, dataset string, rows []Row) (*Report, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s has no rows", dataset)
	}

	e.logger.Info("evaluating classifier", "dataset", dataset, "rows", len(rows), "workers", e.workers)

	outcomes := make([]rowOutcome, len(rows))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, row := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			labels, inter, err := e.classifier.ClassifyWithExplanation(row.Description)
			if err != nil {
				return fmt.Errorf("failed to classify row %d: %w", i+1, err)
			}
			outcomes[i] = rowOutcome{labels: labels, inter: inter}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Dataset: dataset, Rows: len(rows)}

	// Aggregates pool the per-row outcomes of the final labels only.
	var pooledTrue, pooledPred []bool

	for _, lbl := range FinalLabels {
		yTrue := make([]bool, len(rows))
		yPred := make([]bool, len(rows))
		for i, row := range rows {
			yTrue[i] = row.Finals[lbl]
			yPred[i] = finalPrediction(outcomes[i].labels, lbl)
		}
		report.Finals = append(report.Finals, labelResult(lbl, yTrue, yPred))
		pooledTrue = append(pooledTrue, yTrue...)
		pooledPred = append(pooledPred, yPred...)
	}

	for _, lbl := range IntermediateLabels {
		yTrue := make([]bool, len(rows))
		yPred := make([]bool, len(rows))
		for i, row := range rows {
			yTrue[i] = row.Intermediates[lbl]
			yPred[i] = intermediatePrediction(outcomes[i].inter, lbl)
		}
		report.Intermediates = append(report.Intermediates, labelResult(lbl, yTrue, yPred))
	}

	report.Aggregates = aggregate(pooledTrue, pooledPred)

	e.logger.Info("evaluation complete",
		"dataset", dataset,
		"macro_f1", report.Aggregates.MacroF1,
		"accuracy", report.Aggregates.Accuracy)

	return report, nil
}

func finalPrediction(l classifier.Labels, label string) bool {
	switch label {
	case "ESC":
		return l.ESC
	case "WQ":
		return l.WQ
	case "RR":
		return l.RR
	case "Vv":
		return l.Vv
	case "NNI":
		return l.NNIRequired()
	}
	return false
}

func intermediatePrediction(i classifier.Intermediates, label string) bool {
	switch label {
	case "disturb_20000_sf":
		return i.Disturb20000SF
	case "new_imp":
		return i.NewImp
	case "new_imp_5000_sf":
		return i.NewImp5000SF
	case "table_2_2_activity":
		return i.Table22Activity
	case "in_ms4":
		return i.InMS4
	}
	return false
}
