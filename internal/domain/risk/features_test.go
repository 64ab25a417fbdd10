package risk

import (
	"reflect"
	"testing"
)

func TestBuildFeatures_CanonicalOrder(t *testing.T) {
	v := Vitals{Age: 30, Systolic: 120, Diastolic: 80, BloodSugar: 6, HeartRate: 70}
	got := BuildFeatures(v)
	want := []float64{30, 120, 80, 100, 6, 70}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestReindexFeatures_ScalerColumnOrder(t *testing.T) {
	v := Vitals{Age: 30, Systolic: 120, Diastolic: 80, BloodSugar: 6, HeartRate: 70}
	got := ReindexFeatures(v, []string{"heart_rate", "bs", "mean_bp", "age"})
	want := []float64{70, 6, 100, 30}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// Columns the builder does not recognize are zero-filled, never NaN.
func TestReindexFeatures_UnknownColumnBackfill(t *testing.T) {
	v := Vitals{Age: 30, Systolic: 120, Diastolic: 80, BloodSugar: 6, HeartRate: 70}
	got := ReindexFeatures(v, []string{"age", "body_temp"})
	want := []float64{30, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
