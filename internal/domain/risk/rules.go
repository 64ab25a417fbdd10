package risk

// Override evaluates the clinical escalation heuristics over raw, unscaled
// vitals. It never consults the model. Rules run in fixed priority order and
// the first match in a tier wins; mid rules are only reached when no high
// rule fired. The threshold values and their inclusive/exclusive boundaries
// are calibrated triage behavior and must be preserved exactly.
func Override(v Vitals) (RiskLevel, bool) {
	switch {
	case v.BloodSugar < 4.0:
		return RiskHigh, true
	case v.HeartRate > 120:
		return RiskHigh, true
	case v.Systolic > 160 || v.Diastolic > 100:
		return RiskHigh, true
	case v.Systolic < 80 || v.Diastolic < 50:
		return RiskHigh, true
	}

	switch {
	case v.HeartRate > 100 && v.HeartRate <= 120:
		return RiskMid, true
	case v.Systolic > 140 || v.Diastolic > 90:
		return RiskMid, true
	case v.Systolic < 90 || v.Diastolic < 60:
		return RiskMid, true
	}

	return "", false
}
