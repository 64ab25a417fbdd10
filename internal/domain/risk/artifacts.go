package risk

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

const (
	scalerFile     = "scaler.json"
	classifierFile = "classifier.json"
	labelsFile     = "labels.json"
)

// Scaler is a fitted standardization transform exported by the training
// pipeline. Columns records the feature order it was fit on.
type Scaler struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
}

func (s *Scaler) validate() error {
	if len(s.Mean) == 0 {
		return fmt.Errorf("scaler has no mean vector")
	}
	if len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("scaler mean/scale length mismatch: %d vs %d", len(s.Mean), len(s.Scale))
	}
	if len(s.Columns) > 0 && len(s.Columns) != len(s.Mean) {
		return fmt.Errorf("scaler columns/mean length mismatch: %d vs %d", len(s.Columns), len(s.Mean))
	}
	return nil
}

// Transform standardizes a feature row. A zero scale component degenerates
// to 1 (the convention for zero-variance features).
func (s *Scaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("feature row has %d values, scaler expects %d", len(row), len(s.Mean))
	}
	out := make([]float64, len(row))
	for i, x := range row {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (x - s.Mean[i]) / scale
	}
	return out, nil
}

// Classifier is a multinomial logistic model exported by the training
// pipeline: one coefficient row and intercept per class, scored with softmax.
type Classifier struct {
	Classes      []int       `json:"classes"`
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
}

func (c *Classifier) validate() error {
	if len(c.Classes) == 0 {
		return fmt.Errorf("classifier has no classes")
	}
	if len(c.Coefficients) != len(c.Classes) || len(c.Intercepts) != len(c.Classes) {
		return fmt.Errorf("classifier expects %d classes, got %d coefficient rows and %d intercepts",
			len(c.Classes), len(c.Coefficients), len(c.Intercepts))
	}
	for i := 1; i < len(c.Coefficients); i++ {
		if len(c.Coefficients[i]) != len(c.Coefficients[0]) {
			return fmt.Errorf("classifier coefficient rows have inconsistent widths")
		}
	}
	return nil
}

// PredictProba scores a scaled feature row, returning the index of the
// winning class and the softmax distribution aligned with Classes.
func (c *Classifier) PredictProba(row []float64) (int, []float64, error) {
	if len(c.Coefficients) == 0 || len(row) != len(c.Coefficients[0]) {
		return 0, nil, fmt.Errorf("feature row has %d values, classifier expects %d", len(row), len(c.Coefficients[0]))
	}

	scores := make([]float64, len(c.Classes))
	maxScore := math.Inf(-1)
	for i := range c.Classes {
		score := c.Intercepts[i]
		for j, x := range row {
			score += c.Coefficients[i][j] * x
		}
		scores[i] = score
		if score > maxScore {
			maxScore = score
		}
	}

	// Softmax with max subtraction for numeric stability.
	var sum float64
	probs := make([]float64, len(scores))
	for i, score := range scores {
		probs[i] = math.Exp(score - maxScore)
		sum += probs[i]
	}
	best := 0
	for i := range probs {
		probs[i] /= sum
		if probs[i] > probs[best] {
			best = i
		}
	}
	return best, probs, nil
}

// defaultLabels maps class ids to levels when no labels artifact exists.
var defaultLabels = map[int]RiskLevel{0: RiskLow, 1: RiskMid, 2: RiskHigh}

// ArtifactStore holds the process-wide model artifacts. Loading happens at
// most once: the first caller performs the disk reads and both success and
// failure are cached for the process lifetime. All post-load access is
// read-only, so concurrent assessments need no locking.
type ArtifactStore struct {
	dir string

	once    sync.Once
	loadErr error

	scaler     *Scaler
	classifier *Classifier
	labels     map[int]RiskLevel
}

// NewArtifactStore creates a store that reads artifacts from dir on first use.
func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{dir: dir, labels: defaultLabels}
}

// Load reads and validates the artifacts. Safe to race; subsequent calls
// return the cached outcome without touching the filesystem.
func (s *ArtifactStore) Load() error {
	s.once.Do(s.load)
	return s.loadErr
}

func (s *ArtifactStore) load() {
	var scaler Scaler
	if err := readJSON(filepath.Join(s.dir, scalerFile), &scaler); err != nil {
		s.loadErr = fmt.Errorf("load scaler: %w", err)
		return
	}
	if err := scaler.validate(); err != nil {
		s.loadErr = fmt.Errorf("load scaler: %w", err)
		return
	}
	s.scaler = &scaler

	var clf Classifier
	if err := readJSON(filepath.Join(s.dir, classifierFile), &clf); err != nil {
		s.loadErr = fmt.Errorf("load classifier: %w", err)
		return
	}
	if err := clf.validate(); err != nil {
		s.loadErr = fmt.Errorf("load classifier: %w", err)
		return
	}
	s.classifier = &clf

	// The labels artifact is optional; the default 0/1/2 → low/mid/high
	// mapping applies when it is absent.
	labels, err := readLabels(filepath.Join(s.dir, labelsFile))
	if err != nil {
		s.loadErr = fmt.Errorf("load labels: %w", err)
		s.scaler, s.classifier = nil, nil
		return
	}
	if labels != nil {
		s.labels = labels
	}
}

// Artifacts returns the loaded scaler, classifier, and label map, triggering
// the lazy load on first use.
func (s *ArtifactStore) Artifacts() (*Scaler, *Classifier, map[int]RiskLevel, error) {
	if err := s.Load(); err != nil {
		return nil, nil, nil, err
	}
	return s.scaler, s.classifier, s.labels, nil
}

// HealthStatus is the artifact state exposed on the risk health endpoint.
type HealthStatus struct {
	Status       string  `json:"status"`
	ModelLoaded  bool    `json:"model_loaded"`
	ScalerLoaded bool    `json:"scaler_loaded"`
	Error        *string `json:"error,omitempty"`
}

// Health reports the current artifact state, triggering a load if one has
// not happened yet.
func (s *ArtifactStore) Health() HealthStatus {
	err := s.Load()
	st := HealthStatus{
		Status:       "healthy",
		ModelLoaded:  s.classifier != nil,
		ScalerLoaded: s.scaler != nil,
	}
	if err != nil {
		st.Status = "unavailable"
		msg := err.Error()
		st.Error = &msg
	}
	return st
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// readLabels parses the optional class-id → level-name map. Returns nil with
// no error when the file does not exist.
func readLabels(path string) (map[int]RiskLevel, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	labels := make(map[int]RiskLevel, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("label key %q is not a class id", k)
		}
		level := RiskLevel(v)
		switch level {
		case RiskLow, RiskMid, RiskHigh:
			labels[id] = level
		default:
			return nil, fmt.Errorf("label %q is not a risk level", v)
		}
	}
	return labels, nil
}
