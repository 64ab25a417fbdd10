package risk

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrModelUnavailable signals that the artifacts are missing or corrupt.
// Distinct from inference failures: a missing model is an operational
// misconfiguration surfaced loudly, while inference errors degrade to the
// fail-safe result.
var ErrModelUnavailable = errors.New("risk model unavailable")

const (
	highRiskMessage    = "go to nearby hospital for checkup"
	unavailableMessage = "assessment unavailable due to internal error, please try again"
)

type Service struct {
	store  *ArtifactStore
	logger zerolog.Logger
}

func NewService(store *ArtifactStore, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Assess runs the full pipeline: validate, build features, scale, classify,
// apply rule overrides, merge. Validation and artifact-load failures are
// returned as errors; anything that goes wrong after that point is replaced
// with the conservative fallback result so an internal failure never
// presents as elevated risk.
func (s *Service) Assess(req *AssessmentRequest) (*AssessmentResult, error) {
	vitals, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	scaler, clf, labels, err := s.store.Artifacts()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	result, err := s.evaluate(vitals, scaler, clf, labels)
	if err != nil {
		s.logger.Error().Err(err).Msg("risk inference failed, returning fallback result")
		return fallbackResult(vitals), nil
	}
	return result, nil
}

func (s *Service) evaluate(vitals Vitals, scaler *Scaler, clf *Classifier, labels map[int]RiskLevel) (result *AssessmentResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("inference panic: %v", r)
		}
	}()

	row := BuildFeatures(vitals)
	if len(scaler.Columns) > 0 {
		row = ReindexFeatures(vitals, scaler.Columns)
	}

	scaled, err := scaler.Transform(row)
	if err != nil {
		return nil, err
	}
	best, probs, err := clf.PredictProba(scaled)
	if err != nil {
		return nil, err
	}

	var modelProbs Probabilities
	for i, class := range clf.Classes {
		modelProbs.Add(labelFor(class, labels), probs[i])
	}
	topLevel := labelFor(clf.Classes[best], labels)

	return merge(vitals, topLevel, modelProbs), nil
}

// merge combines the model verdict with the rule override under the
// low < mid < high total order. When a rule fired and the final level is mid
// or high, the emitted distribution collapses to one-hot: the result is
// rule-driven, not model-driven, and graded confidence would be misleading.
func merge(vitals Vitals, topLevel RiskLevel, modelProbs Probabilities) *AssessmentResult {
	final := topLevel
	emitted := modelProbs
	var overridePtr *RiskLevel

	if override, fired := Override(vitals); fired {
		overridePtr = &override
		final = MoreSevere(topLevel, override)
		if final != RiskLow {
			emitted = OneHot(final)
		}
	}

	message := final.Title() + " risk assessment. Please follow up as needed."
	if final == RiskHigh {
		message = highRiskMessage
	}

	return &AssessmentResult{
		RiskLevel:          final,
		Probabilities:      emitted,
		ModelProbabilities: modelProbs,
		RuleOverride:       overridePtr,
		MeanBP:             vitals.MeanBP(),
		Message:            message,
		IsHighRisk:         final == RiskHigh,
		RiskProbability:    emitted.High,
	}
}

// fallbackResult is the fail-safe body returned when inference breaks after
// validation passed. Flagged for product review: a silent failure presenting
// as "low" is itself debatable in a clinical context, but it matches the
// agreed contract of never letting an internal error read as elevated risk.
func fallbackResult(vitals Vitals) *AssessmentResult {
	return &AssessmentResult{
		RiskLevel:          RiskLow,
		Probabilities:      OneHot(RiskLow),
		ModelProbabilities: OneHot(RiskLow),
		MeanBP:             vitals.MeanBP(),
		Message:            unavailableMessage,
		IsHighRisk:         false,
		RiskProbability:    0,
	}
}

func labelFor(class int, labels map[int]RiskLevel) RiskLevel {
	if level, ok := labels[class]; ok {
		return level
	}
	if level, ok := defaultLabels[class]; ok {
		return level
	}
	return RiskLow
}
