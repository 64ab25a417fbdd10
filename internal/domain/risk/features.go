package risk

// Canonical feature order the artifacts were fit on.
var featureColumns = []string{"age", "systolic_bp", "diastolic_bp", "mean_bp", "bs", "heart_rate"}

// BuildFeatures maps normalized vitals to the canonical feature row.
// This step is total: any normalized input yields a complete row.
func BuildFeatures(v Vitals) []float64 {
	return ReindexFeatures(v, featureColumns)
}

// ReindexFeatures builds a feature row in the exact column order the scaler
// was fit on. Columns the builder knows are filled from the raw vitals;
// anything unrecognized is zero-filled rather than left as NaN so the
// transform stays defined.
func ReindexFeatures(v Vitals, columns []string) []float64 {
	row := make([]float64, len(columns))
	for i, col := range columns {
		row[i] = featureValue(v, col)
	}
	return row
}

func featureValue(v Vitals, column string) float64 {
	switch column {
	case "age":
		return v.Age
	case "systolic_bp":
		return v.Systolic
	case "diastolic_bp":
		return v.Diastolic
	case "mean_bp":
		return v.MeanBP()
	case "bs":
		return v.BloodSugar
	case "heart_rate":
		return v.HeartRate
	default:
		return 0
	}
}
