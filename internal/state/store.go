// Package state provides the local SQLite-backed store for the
// stormwater classifier: imported PLUTO parcel records, MS4 drainage
// areas, and the history of evaluation runs.
package state

import (
	"time"

	"github.com/jceal/stormwater-classifier/internal/geo"
)

// Parcel is an imported MapPLUTO record, reduced to the fields the
// lookup layer needs.
type Parcel struct {
	ID          int64
	BoroughCode string // MN, BX, BK, QN, SI
	Address     string
	LotAreaSF   float64
	Centroid    geo.Point
}

// MS4Area is an imported MS4 drainage-area polygon with its
// pollutant-of-concern flags.
type MS4Area struct {
	ID         int64
	Name       string
	Floatables bool
	Pathogens  bool
	Nitrogen   bool
	Phosphorus bool
	Geometry   geo.Geometry
}

// RunStatus is the lifecycle status of an evaluation run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// EvalRun records one evaluation of the pipeline against a dataset.
type EvalRun struct {
	ID          string
	Dataset     string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Rows        int
	MacroF1     float64
	MicroF1     float64
	WeightedF1  float64
	Accuracy    float64
	Error       string
}

// MetricKind distinguishes final permit labels from intermediate
// rule inputs.
type MetricKind string

const (
	MetricKindFinal        MetricKind = "final"
	MetricKindIntermediate MetricKind = "intermediate"
)

// LabelMetric holds per-label scores for one evaluation run.
type LabelMetric struct {
	RunID     string
	Label     string
	Kind      MetricKind
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Store is the persistence interface used by the lookup layer and the
// evaluation harness.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	// Reference records
	ReplaceParcels(parcels []Parcel) (int, error)
	ReplaceMS4Areas(areas []MS4Area) (int, error)
	ParcelAddresses(boroughCode string) ([]string, error)
	FindParcel(boroughCode, address string) (*Parcel, error)
	ParcelByExactAddress(boroughCode, address string) (*Parcel, error)
	MS4Areas() ([]MS4Area, error)
	CountParcels() (int, error)
	CountMS4Areas() (int, error)

	// Evaluation history
	CreateEvalRun(dataset string) (*EvalRun, error)
	CompleteEvalRun(run *EvalRun) error
	SaveLabelMetrics(runID string, metrics []LabelMetric) error
	ListEvalRuns(limit int) ([]EvalRun, error)
	LabelMetricsForRun(runID string) ([]LabelMetric, error)
}
