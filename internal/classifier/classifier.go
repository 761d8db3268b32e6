// Package classifier combines the description parser, the location
// lookup, and the trained text models into the rule layer that decides
// which stormwater permit requirements apply to a project.
package classifier

import (
	"fmt"
	"log/slog"

	"github.com/jceal/stormwater-classifier/internal/lookup"
	"github.com/jceal/stormwater-classifier/internal/parser"
	"github.com/jceal/stormwater-classifier/internal/textmodel"
)

// SWDM thresholds for erosion/sediment control applicability.
const (
	disturbanceThresholdSF   = 20000
	newImperviousThresholdSF = 5000
)

// Labels are the final permit requirement decisions.
type Labels struct {
	// ESC: erosion and sediment control plan required.
	ESC bool `json:"esc"`
	// WQ: water quality treatment required.
	WQ bool `json:"wq"`
	// RR: runoff reduction required.
	RR bool `json:"rr"`
	// NNI lists the pollutants of concern when a no-net-increase
	// analysis is required; empty means not required.
	NNI []string `json:"nni"`
	// Vv: a new connection to the storm sewer is proposed.
	Vv bool `json:"vv"`
}

// NNIRequired reports whether the no-net-increase analysis applies.
func (l Labels) NNIRequired() bool {
	return len(l.NNI) > 0
}

// Intermediates are the rule inputs, exposed for explanations and for
// evaluating each stage of the pipeline separately.
type Intermediates struct {
	Disturb20000SF      bool     `json:"disturb_20000_sf"`
	NewImp5000SF        bool     `json:"new_imp_5000_sf"`
	NewImp              bool     `json:"new_imp"`
	Table22Activity     bool     `json:"table_2_2_activity"`
	InMS4               bool     `json:"in_ms4"`
	PollutantsOfConcern []string `json:"pollutants_of_concern"`
}

// LocationLookup resolves location features for a parsed description.
type LocationLookup interface {
	LocationFeatures(d parser.Description) (lookup.Features, error)
}

// Classifier applies the SWDM rule layer.
type Classifier struct {
	lookup LocationLookup
	models *textmodel.Set
	logger *slog.Logger
}

// New creates a classifier from a lookup client and a loaded model set.
func New(lookup LocationLookup, models *textmodel.Set, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Classifier{lookup: lookup, models: models, logger: logger}
}

// Classify returns the final labels for a project description.
func (c *Classifier) Classify(text string) (Labels, error) {
	labels, _, err := c.ClassifyWithExplanation(text)
	return labels, err
}

// ClassifyWithExplanation returns the final labels along with the
// intermediate rule inputs that produced them.
func (c *Classifier) ClassifyWithExplanation(text string) (Labels, Intermediates, error) {
	parsed := parser.Parse(text)

	features, err := c.lookup.LocationFeatures(parsed)
	if err != nil {
		return Labels{}, Intermediates{}, fmt.Errorf("location lookup failed: %w", err)
	}

	inter, vv := c.computeIntermediates(parsed, features)
	labels := computeLabels(inter, vv)

	c.logger.Debug("classified description",
		"address", parsed.StreetAddress,
		"borough", parsed.Borough,
		"esc", labels.ESC,
		"wq", labels.WQ,
		"rr", labels.RR,
		"nni", labels.NNIRequired(),
		"vv", labels.Vv,
	)
	return labels, inter, nil
}

// computeIntermediates derives the rule inputs from the parsed
// description and the location features.
func (c *Classifier) computeIntermediates(parsed parser.Description, features lookup.Features) (Intermediates, bool) {
	// Resolve the disturbed area: an explicit figure wins; a full-site
	// phrase resolves to the lot area; otherwise fall back to the lot
	// area when one is known.
	var disturbed *float64
	switch {
	case parsed.FullSiteDisturbed:
		disturbed = features.FullSiteDisturbedSF
	case parsed.DisturbedAreaSF != nil:
		disturbed = parsed.DisturbedAreaSF
	default:
		disturbed = features.LotAreaSF
	}

	newImp := parsed.NewImperviousSF

	inter := Intermediates{
		Disturb20000SF:      disturbed != nil && *disturbed >= disturbanceThresholdSF,
		NewImp5000SF:        newImp >= newImperviousThresholdSF,
		NewImp:              newImp > 0,
		Table22Activity:     c.models.Predict(textmodel.KeyTable22Activity, parsed.Text),
		InMS4:               features.InMS4Area,
		PollutantsOfConcern: features.PollutantsOfConcern,
	}
	vv := c.models.Predict(textmodel.KeyNewConnection, parsed.Text)
	return inter, vv
}

// computeLabels applies the final SWDM decision rules.
func computeLabels(i Intermediates, vv bool) Labels {
	// ESC applies when disturbance or new impervious area exceeds the
	// thresholds.
	esc := i.Disturb20000SF || i.NewImp5000SF

	// RR and WQ apply when impervious area is added outside a Table
	// 2.2 activity; the SWDM rule for both is identical.
	rr := (i.NewImp || i.NewImp5000SF) && !i.Table22Activity
	wq := rr

	// NNI applies only for large disturbances adding impervious area
	// inside an MS4 drainage area.
	var nni []string
	if i.NewImp && i.Disturb20000SF && !i.Table22Activity && i.InMS4 {
		nni = i.PollutantsOfConcern
	}

	return Labels{ESC: esc, WQ: wq, RR: rr, NNI: nni, Vv: vv}
}
