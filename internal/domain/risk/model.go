// Package risk implements the pregnancy risk-assessment engine: request
// validation, feature building, scaled classifier inference, clinical rule
// overrides, and the severity merge that combines the two signals.
package risk

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RiskLevel is one of the three triage classes, totally ordered low < mid < high.
type RiskLevel string

const (
	RiskLow  RiskLevel = "low"
	RiskMid  RiskLevel = "mid"
	RiskHigh RiskLevel = "high"
)

func (l RiskLevel) rank() int {
	switch l {
	case RiskHigh:
		return 2
	case RiskMid:
		return 1
	default:
		return 0
	}
}

// MoreSevere returns the more severe of two levels.
func MoreSevere(a, b RiskLevel) RiskLevel {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// Title returns the capitalized level name used in response messages.
func (l RiskLevel) Title() string {
	if l == "" {
		return ""
	}
	return strings.ToUpper(string(l[:1])) + string(l[1:])
}

// Probabilities is a fixed distribution over the three risk levels. A struct
// rather than a map keeps the class set closed at compile time.
type Probabilities struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// OneHot puts the full probability mass on a single level.
func OneHot(l RiskLevel) Probabilities {
	var p Probabilities
	p.Add(l, 1.0)
	return p
}

// Add accumulates mass onto the given level.
func (p *Probabilities) Add(l RiskLevel, mass float64) {
	switch l {
	case RiskLow:
		p.Low += mass
	case RiskMid:
		p.Mid += mass
	case RiskHigh:
		p.High += mass
	}
}

// AssessmentRequest is the raw vitals payload. Blood pressure arrives either
// as discrete systolic/diastolic fields or as a combined "SBP/DBP" string;
// the discrete fields win when both are present.
type AssessmentRequest struct {
	Age           float64  `json:"age"`
	SystolicBP    *float64 `json:"systolic_bp,omitempty"`
	DiastolicBP   *float64 `json:"diastolic_bp,omitempty"`
	BloodPressure *string  `json:"blood_pressure,omitempty"`
	BloodSugar    float64  `json:"bs"`
	HeartRate     float64  `json:"heart_rate"`
}

// Vitals is the normalized form of an AssessmentRequest with blood pressure
// resolved to discrete components.
type Vitals struct {
	Age        float64
	Systolic   float64
	Diastolic  float64
	BloodSugar float64
	HeartRate  float64
}

// MeanBP is the arithmetic mean of the two pressure components. This is not
// the clinical mean arterial pressure formula; the trained artifacts were fit
// against this definition, so it must not change without retraining.
func (v Vitals) MeanBP() float64 {
	return (v.Systolic + v.Diastolic) / 2
}

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates the field-level failures of a request.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, format string, args ...interface{}) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

var bpPattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*/\s*(\d+(?:\.\d+)?)\s*$`)

// Normalize validates the request and resolves blood pressure into discrete
// components. There is intentionally no cross-field check between systolic
// and diastolic values; each is validated against its own range only.
func (r *AssessmentRequest) Normalize() (Vitals, error) {
	verr := &ValidationError{}

	if r.Age <= 0 || r.Age > 150 {
		verr.add("age", "must be in (0, 150], got %v", r.Age)
	}
	if r.BloodSugar < 0 || r.BloodSugar > 50 {
		verr.add("bs", "must be in [0, 50], got %v", r.BloodSugar)
	}
	if r.HeartRate <= 0 || r.HeartRate > 250 {
		verr.add("heart_rate", "must be in (0, 250], got %v", r.HeartRate)
	}

	systolic, diastolic := r.resolveBloodPressure(verr)

	if len(verr.Fields) > 0 {
		return Vitals{}, verr
	}
	return Vitals{
		Age:        r.Age,
		Systolic:   systolic,
		Diastolic:  diastolic,
		BloodSugar: r.BloodSugar,
		HeartRate:  r.HeartRate,
	}, nil
}

func (r *AssessmentRequest) resolveBloodPressure(verr *ValidationError) (systolic, diastolic float64) {
	if r.SystolicBP != nil && r.DiastolicBP != nil {
		systolic, diastolic = *r.SystolicBP, *r.DiastolicBP
		if systolic < 0 || systolic > 300 {
			verr.add("systolic_bp", "must be in [0, 300], got %v", systolic)
		}
		if diastolic < 0 || diastolic > 300 {
			verr.add("diastolic_bp", "must be in [0, 300], got %v", diastolic)
		}
		return systolic, diastolic
	}

	if r.BloodPressure == nil || *r.BloodPressure == "" {
		verr.add("blood_pressure", "required when systolic_bp and diastolic_bp are absent")
		return 0, 0
	}

	m := bpPattern.FindStringSubmatch(*r.BloodPressure)
	if m == nil {
		verr.add("blood_pressure", "must match \"SBP/DBP\", got %q", *r.BloodPressure)
		return 0, 0
	}
	systolic, _ = strconv.ParseFloat(m[1], 64)
	diastolic, _ = strconv.ParseFloat(m[2], 64)
	if systolic < 0 || systolic > 300 {
		verr.add("blood_pressure", "systolic component must be in [0, 300], got %v", systolic)
	}
	if diastolic < 0 || diastolic > 300 {
		verr.add("blood_pressure", "diastolic component must be in [0, 300], got %v", diastolic)
	}
	return systolic, diastolic
}

// AssessmentResult is the response entity for a risk prediction.
// Probabilities is the emitted distribution after any override collapse;
// ModelProbabilities always retains the classifier's raw estimate.
type AssessmentResult struct {
	RiskLevel          RiskLevel     `json:"risk_level"`
	Probabilities      Probabilities `json:"probabilities"`
	ModelProbabilities Probabilities `json:"model_probabilities"`
	RuleOverride       *RiskLevel    `json:"rule_override"`
	MeanBP             float64       `json:"mean_bp"`
	Message            string        `json:"message"`
	IsHighRisk         bool          `json:"is_high_risk"`
	RiskProbability    float64       `json:"risk_probability"`
}
