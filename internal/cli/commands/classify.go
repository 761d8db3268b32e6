package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jceal/stormwater-classifier/internal/classifier"
	"github.com/jceal/stormwater-classifier/internal/cli/output"
)

// ClassifyOptions holds options for the classify command.
type ClassifyOptions struct {
	Explain bool
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand() *cobra.Command {
	opts := &ClassifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify <description>",
		Short: "Classify a project description",
		Long: `Run a single project description through the full pipeline and
print the permit requirements it triggers.`,
		Example: `  # Classify a description
  stormwater classify "New 6-story building at 123 Main Street, Brooklyn, disturbing 25,000 sf"

  # Show the intermediate rule inputs as well
  stormwater classify --explain "Concrete batch plant at 45-10 Vernon Blvd, Queens"

  # Machine-readable output
  stormwater classify --output json "..."`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Explain, "explain", "e", false, "Show intermediate rule inputs")

	return cmd
}

func runClassify(cmd *cobra.Command, text string, opts *ClassifyOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	clf, err := cc.Classifier()
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}

	labels, inter, err := clf.ClassifyWithExplanation(text)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	if cc.Renderer.EffectiveMode() == output.ModeJSON {
		payload := struct {
			Labels        classifier.Labels         `json:"labels"`
			NNIRequired   bool                      `json:"nni_required"`
			Intermediates *classifier.Intermediates `json:"intermediates,omitempty"`
		}{Labels: labels, NNIRequired: labels.NNIRequired()}
		if opts.Explain {
			payload.Intermediates = &inter
		}
		return cc.Renderer.JSON(payload)
	}

	renderLabels(cc.Renderer, labels)
	if opts.Explain {
		cc.Renderer.Println()
		renderIntermediates(cc.Renderer, inter)
	}
	return nil
}

func renderLabels(r *output.Renderer, labels classifier.Labels) {
	r.Header("Permit requirements")
	r.Println(output.FormatKeyValue("ESC", output.FormatBool(labels.ESC)))
	r.Println(output.FormatKeyValue("WQ", output.FormatBool(labels.WQ)))
	r.Println(output.FormatKeyValue("RR", output.FormatBool(labels.RR)))
	r.Println(output.FormatKeyValue("Vv", output.FormatBool(labels.Vv)))
	if labels.NNIRequired() {
		r.Println(output.FormatKeyValue("NNI", strings.Join(labels.NNI, ", ")))
	} else {
		r.Println(output.FormatKeyValue("NNI", output.FormatBool(false)))
	}
}

func renderIntermediates(r *output.Renderer, inter classifier.Intermediates) {
	r.Header("Rule inputs")
	r.Println(output.FormatKeyValue("disturb_20000_sf", output.FormatBool(inter.Disturb20000SF)))
	r.Println(output.FormatKeyValue("new_imp", output.FormatBool(inter.NewImp)))
	r.Println(output.FormatKeyValue("new_imp_5000_sf", output.FormatBool(inter.NewImp5000SF)))
	r.Println(output.FormatKeyValue("table_2_2_activity", output.FormatBool(inter.Table22Activity)))
	r.Println(output.FormatKeyValue("in_ms4", output.FormatBool(inter.InMS4)))
	if len(inter.PollutantsOfConcern) > 0 {
		r.Println(output.FormatKeyValue("pollutants_of_concern", strings.Join(inter.PollutantsOfConcern, ", ")))
	}
}
