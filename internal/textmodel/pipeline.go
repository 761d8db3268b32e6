package textmodel

// pipeline.go - Vectorizer+classifier pipeline and model persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Model keys recognized by the classifier.
const (
	KeyTable22Activity = "table_2_2_activity"
	KeyNewConnection   = "new_connection"
)

// ModelKeys lists all model keys in load order.
var ModelKeys = []string{KeyTable22Activity, KeyNewConnection}

// Pipeline couples a fitted vectorizer with a fitted classifier.
type Pipeline struct {
	Vectorizer *Vectorizer         `json:"vectorizer"`
	Model      *LogisticRegression `json:"model"`
}

// NewPipeline returns an unfitted pipeline with default configuration.
func NewPipeline() *Pipeline {
	return &Pipeline{
		Vectorizer: NewVectorizer(),
		Model:      NewLogisticRegression(),
	}
}

// Fit fits the vectorizer on the corpus and trains the classifier.
func (p *Pipeline) Fit(corpus []string, labels []bool) {
	p.Vectorizer.Fit(corpus)
	vectors := make([]map[int]float64, len(corpus))
	for i, doc := range corpus {
		vectors[i] = p.Vectorizer.Transform(doc)
	}
	p.Model.Fit(vectors, labels, p.Vectorizer.NumFeatures())
}

// PredictProba returns the positive-class probability for text.
func (p *Pipeline) PredictProba(text string) float64 {
	return p.Model.PredictProba(p.Vectorizer.Transform(text))
}

// Predict returns the thresholded decision (p >= 0.5).
func (p *Pipeline) Predict(text string) bool {
	return p.PredictProba(text) >= 0.5
}

// Save writes the pipeline to dir as <key>.json.
func (p *Pipeline) Save(dir, key string) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode model %s: %w", key, err)
	}
	path := filepath.Join(dir, key+".json")
	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("failed to write model %s: %w", key, err)
	}
	return nil
}

// LoadPipeline reads a single model file.
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Pipeline
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", path, err)
	}
	return &p, nil
}

// Set is an immutable collection of loaded pipelines keyed by model
// name. Missing models are tolerated; predictions for them are false.
type Set struct {
	models map[string]*Pipeline
}

// NewSet builds a set from explicit pipelines (used in tests).
func NewSet(models map[string]*Pipeline) *Set {
	return &Set{models: models}
}

// LoadSet loads all recognized model files present in dir. A missing
// directory or missing files yield an empty (still usable) set.
func LoadSet(dir string) (*Set, error) {
	set := &Set{models: make(map[string]*Pipeline)}
	for _, key := range ModelKeys {
		path := filepath.Join(dir, key+".json")
		p, err := LoadPipeline(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		set.models[key] = p
	}
	return set, nil
}

// Predict returns the thresholded decision of the named model, or
// false when the model is not loaded.
func (s *Set) Predict(key, text string) bool {
	p, ok := s.models[key]
	if !ok {
		return false
	}
	return p.Predict(text)
}

// Has reports whether the named model is loaded.
func (s *Set) Has(key string) bool {
	_, ok := s.models[key]
	return ok
}

// Len returns the number of loaded models.
func (s *Set) Len() int {
	return len(s.models)
}

// Manifest records how the models in a directory were produced.
type Manifest struct {
	TrainedAt time.Time       `yaml:"trained_at"`
	Dataset   string          `yaml:"dataset"`
	Models    []ManifestEntry `yaml:"models"`
}

// ManifestEntry describes one trained model.
type ManifestEntry struct {
	Key       string  `yaml:"key"`
	Label     string  `yaml:"label"`
	Rows      int     `yaml:"rows"`
	Positives int     `yaml:"positives"`
	HoldoutF1 float64 `yaml:"holdout_f1"`
}

// WriteManifest writes manifest.yaml into the models directory.
func WriteManifest(dir string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0640); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest reads manifest.yaml from the models directory.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}
