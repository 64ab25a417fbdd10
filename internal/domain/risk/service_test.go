package risk

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	writeTestArtifacts(t, dir)
	return NewService(NewArtifactStore(dir), zerolog.Nop())
}

func TestAssess_NoOverridePassthrough(t *testing.T) {
	svc := newTestService(t)
	res, err := svc.Assess(validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.RuleOverride != nil {
		t.Errorf("expected no override, got %s", *res.RuleOverride)
	}
	if res.RiskLevel != RiskLow {
		t.Errorf("expected low from the low-biased classifier, got %s", res.RiskLevel)
	}
	if res.Probabilities != res.ModelProbabilities {
		t.Errorf("without an override the emitted distribution must equal the model's: %+v vs %+v",
			res.Probabilities, res.ModelProbabilities)
	}
	if res.MeanBP != 100 {
		t.Errorf("expected mean bp 100, got %v", res.MeanBP)
	}
	if res.IsHighRisk {
		t.Error("expected is_high_risk=false")
	}
}

func TestAssess_OverrideEscalatesAndCollapses(t *testing.T) {
	svc := newTestService(t)
	// Fires only the moderate hypotension rule: model says low, rule says mid.
	req := &AssessmentRequest{Age: 28, SystolicBP: fptr(85), DiastolicBP: fptr(65), BloodSugar: 5.5, HeartRate: 75}

	res, err := svc.Assess(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RuleOverride == nil || *res.RuleOverride != RiskMid {
		t.Fatalf("expected mid override, got %v", res.RuleOverride)
	}
	if res.RiskLevel != RiskMid {
		t.Errorf("expected final level mid, got %s", res.RiskLevel)
	}
	if res.Probabilities != OneHot(RiskMid) {
		t.Errorf("expected one-hot mid distribution, got %+v", res.Probabilities)
	}
	if res.ModelProbabilities.Low < 0.9 {
		t.Errorf("model_probabilities must retain the raw estimate, got %+v", res.ModelProbabilities)
	}
	if res.Message != "Mid risk assessment. Please follow up as needed." {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestAssess_HighOverrideMessage(t *testing.T) {
	svc := newTestService(t)
	req := &AssessmentRequest{Age: 28, SystolicBP: fptr(110), DiastolicBP: fptr(70), BloodSugar: 3.9, HeartRate: 50}

	res, err := svc.Assess(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RiskLevel != RiskHigh || !res.IsHighRisk {
		t.Errorf("expected high risk, got %s", res.RiskLevel)
	}
	if res.RiskProbability != 1 {
		t.Errorf("expected risk_probability 1 after collapse, got %v", res.RiskProbability)
	}
	if res.Message != "go to nearby hospital for checkup" {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestAssess_Idempotent(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.Assess(validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Assess(validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical input must yield identical output:\n%+v\n%+v", first, second)
	}
}

func TestAssess_ValidationErrorPropagates(t *testing.T) {
	svc := newTestService(t)
	req := validRequest()
	req.BloodSugar = -1

	_, err := svc.Assess(req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAssess_ModelUnavailable(t *testing.T) {
	svc := NewService(NewArtifactStore(t.TempDir()), zerolog.Nop())
	_, err := svc.Assess(validRequest())
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

// An artifact set that loads but breaks at inference time (classifier width
// disagrees with the scaler) must resolve to the fail-safe result, never an
// error.
func TestAssess_InferenceFailureFallsBackSafe(t *testing.T) {
	dir := t.TempDir()
	writeTestArtifacts(t, dir)
	writeClassifier(t, dir, &Classifier{
		Classes:      []int{0, 1, 2},
		Coefficients: [][]float64{{0, 0}, {0, 0}, {0, 0}},
		Intercepts:   []float64{0, 0, 0},
	})
	svc := NewService(NewArtifactStore(dir), zerolog.Nop())

	res, err := svc.Assess(validRequest())
	if err != nil {
		t.Fatalf("fail-safe must not surface an error, got %v", err)
	}
	if res.RiskLevel != RiskLow || res.IsHighRisk || res.RiskProbability != 0 {
		t.Errorf("expected conservative fallback, got %+v", res)
	}
	if res.MeanBP != 100 {
		t.Errorf("fallback keeps the computable mean bp, got %v", res.MeanBP)
	}
	if res.Message != unavailableMessage {
		t.Errorf("unexpected fallback message: %q", res.Message)
	}
}
