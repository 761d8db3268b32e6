package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jceal/stormwater-classifier/internal/cli/output"
	"github.com/jceal/stormwater-classifier/internal/eval"
	"github.com/jceal/stormwater-classifier/internal/train"
)

// TrainOptions holds options for the train command.
type TrainOptions struct {
	Data string
	Seed int64
}

// NewTrainCommand creates the train command.
func NewTrainCommand() *cobra.Command {
	opts := &TrainOptions{}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the text classification models",
		Long: `Fit the TF-IDF logistic regression models from a labelled dataset
and save them into the models directory, together with a manifest
describing the training run.`,
		Example: `  # Train from the default dataset
  stormwater train

  # Train from a specific dataset with a fixed seed
  stormwater train --data data/project_data_50.csv --seed 7`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrain(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "Dataset CSV (default: project_data_150.csv in the data directory)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 42, "Random seed for balancing and splitting")

	return cmd
}

func runTrain(cmd *cobra.Command, opts *TrainOptions) error {
	cc := NewCommandContextWithoutStore(cmd)

	dataPath := opts.Data
	if dataPath == "" {
		if err := cc.Cfg.ValidateDirectories(); err != nil {
			return err
		}
		dataPath = filepath.Join(cc.Cfg.DataDir, "project_data_150.csv")
	}

	rows, err := eval.ReadDataset(dataPath)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}

	trainer := train.New(cc.Logger, train.WithSeed(opts.Seed))
	results, err := trainer.Train(rows, filepath.Base(dataPath), cc.Cfg.ModelsDir)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	if cc.Renderer.EffectiveMode() == output.ModeJSON {
		return cc.Renderer.JSON(results)
	}

	cc.Renderer.Header(fmt.Sprintf("Trained %d models from %s", len(results), filepath.Base(dataPath)))
	for _, res := range results {
		cc.Renderer.Printf("  %-20s column=%s rows=%d positives=%d holdout F1=%.3f\n",
			res.Key, res.Column, res.Rows, res.Positives, res.Holdout.F1)
	}
	cc.Renderer.Success(fmt.Sprintf("Models written to %s", cc.Cfg.ModelsDir))
	return nil
}
