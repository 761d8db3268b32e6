// Package train fits the text classification models from a labelled
// dataset and writes them to a models directory.
package train

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jceal/stormwater-classifier/internal/eval"
	"github.com/jceal/stormwater-classifier/internal/textmodel"
)

// defaultSeed keeps balancing and splitting reproducible across runs.
const defaultSeed = 42

// target describes one model to train: the model key it is saved
// under and the dataset column holding its ground truth.
type target struct {
	key    string
	column string
	final  bool
}

var targets = []target{
	{key: textmodel.KeyTable22Activity, column: "table_2_2_activity"},
	{key: textmodel.KeyNewConnection, column: "Vv", final: true},
}

// Result summarizes one trained model.
type Result struct {
	Key       string
	Column    string
	Rows      int
	Positives int
	Holdout   eval.LabelResult
}

// Trainer fits and persists the model set.
type Trainer struct {
	logger *slog.Logger
	seed   int64
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithSeed overrides the balancing and split seed.
func WithSeed(seed int64) Option {
	return func(t *Trainer) { t.seed = seed }
}

// New creates a Trainer.
func New(logger *slog.Logger, opts ...Option) *Trainer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	t := &Trainer{logger: logger, seed: defaultSeed}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Train fits one model per target column, reports holdout metrics, and
// writes the models plus a manifest to modelsDir.
func (t *Trainer) Train(rows []eval.Row, dataset, modelsDir string) ([]Result, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s has no rows", dataset)
	}

	manifest := textmodel.Manifest{
		TrainedAt: time.Now().UTC(),
		Dataset:   dataset,
	}

	var results []Result
	for _, tgt := range targets {
		res, pipeline, err := t.trainOne(rows, tgt)
		if err != nil {
			return nil, err
		}
		if err := pipeline.Save(modelsDir, tgt.key); err != nil {
			return nil, err
		}
		results = append(results, res)
		manifest.Models = append(manifest.Models, textmodel.ManifestEntry{
			Key:       tgt.key,
			Label:     tgt.column,
			Rows:      res.Rows,
			Positives: res.Positives,
			HoldoutF1: res.Holdout.F1,
		})
	}

	if err := textmodel.WriteManifest(modelsDir, manifest); err != nil {
		return nil, err
	}
	return results, nil
}

func (t *Trainer) trainOne(rows []eval.Row, tgt target) (Result, *textmodel.Pipeline, error) {
	texts := make([]string, len(rows))
	labels := make([]bool, len(rows))
	positives := 0
	for i, row := range rows {
		texts[i] = row.Description
		if tgt.final {
			labels[i] = row.Finals[tgt.column]
		} else {
			labels[i] = row.Intermediates[tgt.column]
		}
		if labels[i] {
			positives++
		}
	}

	t.logger.Info("training model", "key", tgt.key, "column", tgt.column,
		"rows", len(rows), "positives", positives)

	rng := rand.New(rand.NewSource(t.seed))
	texts, labels = balance(texts, labels, rng)

	trainTexts, trainLabels, testTexts, testLabels := stratifiedSplit(texts, labels, 0.2, rng)
	if len(trainTexts) == 0 {
		return Result{}, nil, fmt.Errorf("column %s: no training rows after split", tgt.column)
	}

	pipeline := textmodel.NewPipeline()
	pipeline.Fit(trainTexts, trainLabels)

	preds := make([]bool, len(testTexts))
	for i, text := range testTexts {
		preds[i] = pipeline.Predict(text)
	}
	holdout := eval.Score(tgt.column, testLabels, preds)

	t.logger.Info("model trained", "key", tgt.key,
		"holdout_f1", holdout.F1, "holdout_support", holdout.Support)

	return Result{
		Key:       tgt.key,
		Column:    tgt.column,
		Rows:      len(texts),
		Positives: positives,
		Holdout:   holdout,
	}, pipeline, nil
}

// balance oversamples the minority (positive) class to half the size
// of the majority class. A dataset with no positive rows is returned
// unchanged; the model then simply learns to predict false.
func balance(texts []string, labels []bool, rng *rand.Rand) ([]string, []bool) {
	var majority, minority []int
	for i, v := range labels {
		if v {
			minority = append(minority, i)
		} else {
			majority = append(majority, i)
		}
	}
	if len(minority) == 0 {
		return texts, labels
	}

	n := max(1, len(majority)/2)
	sampled := make([]int, n)
	for i := range sampled {
		sampled[i] = minority[rng.Intn(len(minority))]
	}

	combined := append(append([]int{}, majority...), sampled...)
	rng.Shuffle(len(combined), func(i, j int) {
		combined[i], combined[j] = combined[j], combined[i]
	})

	outTexts := make([]string, len(combined))
	outLabels := make([]bool, len(combined))
	for i, idx := range combined {
		outTexts[i] = texts[idx]
		outLabels[i] = labels[idx]
	}
	return outTexts, outLabels
}

// stratifiedSplit holds out testFrac of each class for evaluation.
func stratifiedSplit(texts []string, labels []bool, testFrac float64, rng *rand.Rand) ([]string, []bool, []string, []bool) {
	var trainTexts, testTexts []string
	var trainLabels, testLabels []bool

	byClass := map[bool][]int{}
	for i, v := range labels {
		byClass[v] = append(byClass[v], i)
	}

	for _, class := range []bool{false, true} {
		idx := byClass[class]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		nTest := int(float64(len(idx)) * testFrac)
		if nTest == 0 && len(idx) > 1 {
			nTest = 1
		}
		for i, id := range idx {
			if i < nTest {
				testTexts = append(testTexts, texts[id])
				testLabels = append(testLabels, labels[id])
			} else {
				trainTexts = append(trainTexts, texts[id])
				trainLabels = append(trainLabels, labels[id])
			}
		}
	}
	return trainTexts, trainLabels, testTexts, testLabels
}
