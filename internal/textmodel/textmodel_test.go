package textmodel

import (
	"math"
	"path/filepath"
	"testing"
)

func TestVectorizerTerms(t *testing.T) {
	v := NewVectorizer()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "stopwords removed before ngrams",
			text: "construction of a new building",
			want: []string{"construction", "new", "building", "construction new", "new building"},
		},
		{
			name: "short tokens dropped",
			text: "a 5 sf lot",
			want: []string{"sf", "lot", "sf lot"},
		},
		{
			name: "lowercased",
			text: "NEW Building",
			want: []string{"new", "building", "new building"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.terms(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("terms = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("terms[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestVectorizerFitTransform(t *testing.T) {
	corpus := []string{
		"new building construction downtown",
		"sewer connection repair",
		"new building on vacant lot",
		"roadway resurfacing project",
	}

	v := NewVectorizer()
	v.Fit(corpus)

	if v.NumFeatures() == 0 {
		t.Fatal("vocabulary is empty after fit")
	}

	vec := v.Transform("new building construction")
	if len(vec) == 0 {
		t.Fatal("transform produced empty vector for in-vocabulary text")
	}

	// Vectors are L2-normalized.
	var norm float64
	for _, val := range vec {
		norm += val * val
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("vector norm^2 = %v, want 1", norm)
	}

	// Out-of-vocabulary text maps to the zero vector.
	if vec := v.Transform("zyzzyva qwop"); len(vec) != 0 {
		t.Errorf("OOV transform = %v, want empty", vec)
	}
}

func TestVectorizerMaxDF(t *testing.T) {
	// "project" appears in every document and must be dropped at
	// max_df 0.90.
	corpus := []string{
		"project alpha sewer",
		"project beta roadway",
		"project gamma sidewalk",
		"project delta plaza",
	}

	v := NewVectorizer()
	v.Fit(corpus)

	if _, ok := v.Vocabulary["project"]; ok {
		t.Error("ubiquitous term should have been dropped by max_df")
	}
	if _, ok := v.Vocabulary["sewer"]; !ok {
		t.Error("rare term should have been kept")
	}
}

func TestVectorizerMaxFeatures(t *testing.T) {
	corpus := []string{
		"alpha beta gamma",
		"alpha beta delta",
		"alpha epsilon zeta",
	}

	v := NewVectorizer()
	v.MaxFeatures = 3
	v.Fit(corpus)

	if v.NumFeatures() != 3 {
		t.Fatalf("vocabulary size = %d, want 3", v.NumFeatures())
	}
	if _, ok := v.Vocabulary["alpha"]; !ok {
		t.Error("most frequent term should survive the feature cap")
	}
}

func TestPipelineLearnsSeparableLabels(t *testing.T) {
	var corpus []string
	var labels []bool
	for i := 0; i < 10; i++ {
		corpus = append(corpus, "install new storm sewer connection to the street main")
		labels = append(labels, true)
		corpus = append(corpus, "interior renovation plumbing fixtures bathroom")
		labels = append(labels, false)
	}

	p := NewPipeline()
	p.Fit(corpus, labels)

	if !p.Predict("proposed new sewer connection to street main") {
		t.Error("positive-class text predicted negative")
	}
	if p.Predict("bathroom fixtures renovation") {
		t.Error("negative-class text predicted positive")
	}

	pos := p.PredictProba("new storm sewer connection")
	neg := p.PredictProba("interior renovation bathroom")
	if pos <= neg {
		t.Errorf("proba(pos)=%v should exceed proba(neg)=%v", pos, neg)
	}
}

func TestPipelineSaveLoad(t *testing.T) {
	dir := t.TempDir()

	p := NewPipeline()
	p.Fit(
		[]string{"new sewer connection", "interior renovation work"},
		[]bool{true, false},
	)

	if err := p.Save(dir, KeyNewConnection); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadPipeline(filepath.Join(dir, KeyNewConnection+".json"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	text := "new sewer connection proposed"
	if got, want := loaded.PredictProba(text), p.PredictProba(text); math.Abs(got-want) > 1e-12 {
		t.Errorf("loaded model proba = %v, want %v", got, want)
	}
}

func TestLoadSet(t *testing.T) {
	dir := t.TempDir()

	p := NewPipeline()
	p.Fit([]string{"concrete batch plant operation", "small garden shed"}, []bool{true, false})
	if err := p.Save(dir, KeyTable22Activity); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	set, err := LoadSet(dir)
	if err != nil {
		t.Fatalf("LoadSet failed: %v", err)
	}
	if !set.Has(KeyTable22Activity) {
		t.Error("saved model not loaded")
	}
	if set.Has(KeyNewConnection) {
		t.Error("missing model reported as loaded")
	}
	if set.Len() != 1 {
		t.Errorf("Len = %d, want 1", set.Len())
	}

	// Predictions against a missing model are false, not an error.
	if set.Predict(KeyNewConnection, "anything") {
		t.Error("missing model must predict false")
	}
}

func TestLoadSet_MissingDir(t *testing.T) {
	set, err := LoadSet(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dir should not error, got %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("Len = %d, want 0", set.Len())
	}
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m := Manifest{
		Dataset: "data/project_data_150.csv",
		Models: []ManifestEntry{
			{Key: KeyTable22Activity, Label: "table_2_2_activity", Rows: 150, Positives: 30, HoldoutF1: 0.8},
		},
	}
	if err := WriteManifest(dir, m); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.Dataset != m.Dataset {
		t.Errorf("dataset = %q, want %q", got.Dataset, m.Dataset)
	}
	if len(got.Models) != 1 || got.Models[0].Key != KeyTable22Activity {
		t.Errorf("models = %+v", got.Models)
	}
}
