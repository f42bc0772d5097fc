package features_test

import (
	"math"
	"path/filepath"
	"testing"

	"carprice/internal/dataset"
	"carprice/internal/features"
)

func trainingFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	frame := dataset.New("Total_KM_Run", "Make Year", "Fuel Type")
	rows := [][]string{
		{"10000", "2018", "Petrol"},
		{"20000", "2016", "Diesel"},
		{"", "2020", "Petrol"},
		{"40000", "2014", "Petrol"},
	}
	for _, row := range rows {
		if err := frame.AppendRow(row); err != nil {
			t.Fatalf("AppendRow returned error: %v", err)
		}
	}
	return frame
}

func TestFitThenTransformStandardizesTrainingData(t *testing.T) {
	frame := trainingFrame(t)
	tr, err := features.Fit(frame)
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}
	if len(tr.Numeric) != 2 || len(tr.Categorical) != 1 {
		t.Fatalf("unexpected partition: %d numeric, %d categorical",
			len(tr.Numeric), len(tr.Categorical))
	}

	matrix, err := tr.Transform(frame)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	if len(matrix) != frame.Len() {
		t.Fatalf("expected %d rows, got %d", frame.Len(), len(matrix))
	}
	for i, row := range matrix {
		if len(row) != tr.Width() {
			t.Fatalf("row %d width %d, want %d", i, len(row), tr.Width())
		}
	}

	// Standardized training columns have mean 0 and unit variance.
	for col := 0; col < 2; col++ {
		var sum, sumSq float64
		for _, row := range matrix {
			sum += row[col]
			sumSq += row[col] * row[col]
		}
		n := float64(len(matrix))
		if m := sum / n; math.Abs(m) > 1e-9 {
			t.Fatalf("column %d mean %g, want 0", col, m)
		}
		if v := sumSq / n; math.Abs(v-1) > 1e-9 {
			t.Fatalf("column %d variance %g, want 1", col, v)
		}
	}
}

func TestTransformIsRepeatable(t *testing.T) {
	frame := trainingFrame(t)
	tr, err := features.Fit(frame)
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}
	first, err := tr.Transform(frame)
	if err != nil {
		t.Fatalf("first Transform returned error: %v", err)
	}
	second, err := tr.Transform(frame)
	if err != nil {
		t.Fatalf("second Transform returned error: %v", err)
	}
	for i := range first {
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatalf("cell (%d,%d) changed between transforms: %g vs %g",
					i, j, first[i][j], second[i][j])
			}
		}
	}
}

func TestTransformUnseenCategoryYieldsZeroBlock(t *testing.T) {
	tr, err := features.Fit(trainingFrame(t))
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}

	unseen := dataset.New("Total_KM_Run", "Make Year", "Fuel Type")
	if err := unseen.AppendRow([]string{"15000", "2019", "Electric"}); err != nil {
		t.Fatalf("AppendRow returned error: %v", err)
	}
	matrix, err := tr.Transform(unseen)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	// The indicator block trails the two numeric columns.
	for j := 2; j < len(matrix[0]); j++ {
		if matrix[0][j] != 0 {
			t.Fatalf("indicator %d is %g for an unseen category", j, matrix[0][j])
		}
	}
}

func TestTransformRejectsMissingFittedColumn(t *testing.T) {
	tr, err := features.Fit(trainingFrame(t))
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}
	partial := dataset.New("Total_KM_Run", "Make Year")
	if err := partial.AppendRow([]string{"1", "2015"}); err != nil {
		t.Fatalf("AppendRow returned error: %v", err)
	}
	if _, err := tr.Transform(partial); err == nil {
		t.Fatal("expected error for missing fitted column")
	}
}

func TestMissingCellsImputedWithTrainingMean(t *testing.T) {
	frame := trainingFrame(t)
	tr, err := features.Fit(frame)
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}

	probe := dataset.New("Total_KM_Run", "Make Year", "Fuel Type")
	rows := [][]string{
		{"", "2017", "Petrol"},
		{"23333.333333333332", "2017", "Petrol"},
	}
	for _, row := range rows {
		if err := probe.AppendRow(row); err != nil {
			t.Fatalf("AppendRow returned error: %v", err)
		}
	}
	matrix, err := tr.Transform(probe)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	// The non-missing mean of Total_KM_Run is 70000/3; the missing cell must
	// encode identically to that literal value.
	if math.Abs(matrix[0][0]-matrix[1][0]) > 1e-9 {
		t.Fatalf("imputed cell %g differs from explicit mean %g",
			matrix[0][0], matrix[1][0])
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	tr, err := features.Fit(trainingFrame(t))
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "transformer.bin")
	if err := features.SaveArtifact(path, tr, "run-1"); err != nil {
		t.Fatalf("SaveArtifact returned error: %v", err)
	}
	loaded, err := features.LoadArtifact(path)
	if err != nil {
		t.Fatalf("LoadArtifact returned error: %v", err)
	}
	if loaded.RunID != "run-1" {
		t.Fatalf("run ID %q, want %q", loaded.RunID, "run-1")
	}
	if got, want := loaded.Transformer.Width(), tr.Width(); got != want {
		t.Fatalf("loaded width %d, want %d", got, want)
	}
	if names := loaded.Transformer.FeatureNames(); names[len(names)-1] != "Fuel Type=Petrol" {
		t.Fatalf("unexpected final feature name %q", names[len(names)-1])
	}
}
