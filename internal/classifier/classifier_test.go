package classifier

import (
	"testing"

	"github.com/jceal/stormwater-classifier/internal/lookup"
	"github.com/jceal/stormwater-classifier/internal/parser"
	"github.com/jceal/stormwater-classifier/internal/testutil"
	"github.com/jceal/stormwater-classifier/internal/textmodel"
)

// fakeLookup returns canned features regardless of the description.
type fakeLookup struct {
	features lookup.Features
}

func (f fakeLookup) LocationFeatures(parser.Description) (lookup.Features, error) {
	return f.features, nil
}

const (
	table22Phrase    = "industrial batch plant operation with concrete crushing on site"
	connectionPhrase = "storm sewer connection discharging to the city drainage main"
	neutralPhrase    = "routine maintenance work"
)

// trainedModels builds a model set where table22Phrase triggers the
// industrial-activity model, connectionPhrase triggers the
// new-connection model, and neutralPhrase triggers neither.
func trainedModels(t *testing.T) *textmodel.Set {
	t.Helper()

	fit := func(positive string) *textmodel.Pipeline {
		var corpus []string
		var labels []bool
		for i := 0; i < 8; i++ {
			corpus = append(corpus, positive)
			labels = append(labels, true)
			corpus = append(corpus, neutralPhrase)
			labels = append(labels, false)
		}
		p := textmodel.NewPipeline()
		p.Fit(corpus, labels)
		return p
	}

	return textmodel.NewSet(map[string]*textmodel.Pipeline{
		textmodel.KeyTable22Activity: fit(table22Phrase),
		textmodel.KeyNewConnection:   fit(connectionPhrase),
	})
}

func lotArea(v float64) *float64 { return &v }

func TestClassify_Rules(t *testing.T) {
	models := trainedModels(t)

	tests := []struct {
		name     string
		text     string
		features lookup.Features
		want     Labels
	}{
		{
			name: "large disturbance triggers ESC",
			text: "Routine maintenance work disturbing 25,000 SF at 1 Test Street in Brooklyn.",
			want: Labels{ESC: true},
		},
		{
			name: "large new impervious triggers ESC WQ RR",
			text: "Routine maintenance work adding 6,000 SF of new impervious area.",
			want: Labels{ESC: true, WQ: true, RR: true},
		},
		{
			name: "nominal new impervious triggers WQ RR only",
			text: "Routine maintenance work and construction of a new building with soil disturbance of 1,000 square feet.",
			want: Labels{WQ: true, RR: true},
		},
		{
			name: "industrial activity suppresses WQ and RR",
			text: "Industrial batch plant operation with concrete crushing on site, adding 6,000 SF of new impervious area; routine maintenance work continues.",
			want: Labels{ESC: true},
		},
		{
			name: "pollutants of concern inside drainage area",
			text: "Routine maintenance work and construction of a new building disturbing 30,000 SF.",
			features: lookup.Features{
				InMS4Area:           true,
				PollutantsOfConcern: []string{"floatables", "nitrogen"},
			},
			want: Labels{ESC: true, WQ: true, RR: true, NNI: []string{"floatables", "nitrogen"}},
		},
		{
			name: "no pollutant review outside drainage area",
			text: "Routine maintenance work and construction of a new building disturbing 30,000 SF.",
			want: Labels{ESC: true, WQ: true, RR: true},
		},
		{
			name: "new connection sets Vv only",
			text: "Routine maintenance work and storm sewer connection discharging to the city drainage main.",
			want: Labels{Vv: true},
		},
		{
			name: "nothing applies",
			text: "Routine maintenance work with soil disturbance of 500 square feet.",
			want: Labels{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(fakeLookup{features: tt.features}, models, testutil.NewTestLogger(t))

			got, err := c.Classify(tt.text)
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if got.ESC != tt.want.ESC || got.WQ != tt.want.WQ || got.RR != tt.want.RR || got.Vv != tt.want.Vv {
				t.Errorf("labels = %+v, want %+v", got, tt.want)
			}
			if got.NNIRequired() != tt.want.NNIRequired() {
				t.Errorf("NNI required = %v, want %v", got.NNIRequired(), tt.want.NNIRequired())
			}
			if len(got.NNI) != len(tt.want.NNI) {
				t.Errorf("NNI = %v, want %v", got.NNI, tt.want.NNI)
			}
		})
	}
}

func TestClassify_FullSiteUsesLotArea(t *testing.T) {
	// A full-site phrase on a 25,000 SF lot crosses the disturbance
	// threshold even without an explicit figure.
	c := New(fakeLookup{features: lookup.Features{
		LotAreaSF:           lotArea(25000),
		FullSiteDisturbedSF: lotArea(25000),
	}}, trainedModels(t), testutil.NewTestLogger(t))

	got, inter, err := c.ClassifyWithExplanation(
		"Routine maintenance work will disturb the entire site at 1 Test Street in Brooklyn.")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if !inter.Disturb20000SF {
		t.Error("full-site disturbance on a large lot should cross the threshold")
	}
	if !got.ESC {
		t.Error("ESC should apply")
	}
}

func TestClassify_LotAreaFallback(t *testing.T) {
	// With no figure and no full-site phrase the lot area stands in
	// for the disturbed area.
	c := New(fakeLookup{features: lookup.Features{LotAreaSF: lotArea(30000)}},
		trainedModels(t), testutil.NewTestLogger(t))

	_, inter, err := c.ClassifyWithExplanation("Routine maintenance work at 1 Test Street in Brooklyn.")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if !inter.Disturb20000SF {
		t.Error("lot-area fallback should cross the threshold")
	}
}

func TestClassify_MissingModelsPredictFalse(t *testing.T) {
	c := New(fakeLookup{}, textmodel.NewSet(nil), testutil.NewTestLogger(t))

	got, inter, err := c.ClassifyWithExplanation("Adding 6,000 SF of new impervious area.")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if inter.Table22Activity {
		t.Error("missing model must predict false")
	}
	if got.Vv {
		t.Error("missing model must predict false")
	}
	if !got.ESC || !got.WQ || !got.RR {
		t.Error("rule labels should still fire without models")
	}
}
