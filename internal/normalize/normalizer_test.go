package normalize_test

import (
	"testing"

	"carprice/internal/dataset"
	"carprice/internal/logging"
	"carprice/internal/normalize"
)

func rawFrame(t *testing.T, rows ...[]string) *dataset.Frame {
	t.Helper()
	frame := dataset.New(
		"Car Name", "Price", "Registration Number", "Insurance",
		"Service Record", "Registration Certificate", "Mileage", "Body Color",
	)
	for _, row := range rows {
		if err := frame.AppendRow(row); err != nil {
			t.Fatalf("AppendRow returned error: %v", err)
		}
	}
	return frame
}

func cell(t *testing.T, frame *dataset.Frame, row int, column string) string {
	t.Helper()
	value, err := frame.Cell(row, column)
	if err != nil {
		t.Fatalf("Cell(%d, %q) returned error: %v", row, column, err)
	}
	return value
}

func TestApplyKnownListingScenario(t *testing.T) {
	frame := rawFrame(t, []string{
		"Maruti Eeco", "500000", "KA01AB1234", "No Current Insurance",
		"No Service Record", "Available", "40000", "White",
	})

	out, err := normalize.Apply(frame, logging.NewNop())
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if got := cell(t, out, 0, "Price"); got != "50000" {
		t.Fatalf("expected corrected price 50000, got %q", got)
	}
	if got := cell(t, out, 0, normalize.ColStateName); got != "Karnataka" {
		t.Fatalf("expected state Karnataka, got %q", got)
	}
	if got := cell(t, out, 0, normalize.ColInsurance); got != normalize.InsuranceNone {
		t.Fatalf("expected %q, got %q", normalize.InsuranceNone, got)
	}
	if got := cell(t, out, 0, normalize.ColServiceRecord); got != normalize.ServiceMissing {
		t.Fatalf("expected %q, got %q", normalize.ServiceMissing, got)
	}
	if got := cell(t, out, 0, normalize.ColCertificate); got != normalize.CertificateYes {
		t.Fatalf("expected %q, got %q", normalize.CertificateYes, got)
	}
}

func TestApplyPriceCorrectionOnlyForMarkedModel(t *testing.T) {
	frame := rawFrame(t,
		[]string{"Maruti EECO LX", "800000", "DL05XY0001", "", "", "", "10000", "Red"},
		[]string{"Honda City", "800000", "DL05XY0002", "", "", "", "10000", "Blue"},
	)

	out, err := normalize.Apply(frame, logging.NewNop())
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if got := cell(t, out, 0, "Price"); got != "80000" {
		t.Fatalf("marked model price not divided: %q", got)
	}
	if got := cell(t, out, 1, "Price"); got != "800000" {
		t.Fatalf("unmarked model price changed: %q", got)
	}
}

func TestApplyBucketsAreNeverEmpty(t *testing.T) {
	frame := rawFrame(t,
		[]string{"Car A", "100", "KA11AA1111", "Valid Until [date]", "Full Service History", "Not Available", "1", ""},
		[]string{"Car B", "100", "TN22BB2222", "something odd", "Major Service done at 60k", "garbage", "1", ""},
		[]string{"Car C", "100", "ZZ33CC3333", "", "", "", "1", ""},
	)

	out, err := normalize.Apply(frame, logging.NewNop())
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	wantInsurance := map[string]bool{normalize.InsuranceValid: true, normalize.InsuranceNone: true}
	wantService := map[string]bool{normalize.ServiceAvailable: true, normalize.ServiceMissing: true}
	wantCert := map[string]bool{normalize.CertificateYes: true, normalize.CertificateNo: true}
	for i := 0; i < out.Len(); i++ {
		if got := cell(t, out, i, normalize.ColInsurance); !wantInsurance[got] {
			t.Fatalf("row %d insurance bucket %q not canonical", i, got)
		}
		if got := cell(t, out, i, normalize.ColServiceRecord); !wantService[got] {
			t.Fatalf("row %d service bucket %q not canonical", i, got)
		}
		if got := cell(t, out, i, normalize.ColCertificate); !wantCert[got] {
			t.Fatalf("row %d certificate bucket %q not canonical", i, got)
		}
	}

	// Row B maps to Available via the Major Service prefix; an unknown state
	// code maps to an empty state name by design.
	if got := cell(t, out, 1, normalize.ColServiceRecord); got != normalize.ServiceAvailable {
		t.Fatalf("prefix match not honored: %q", got)
	}
	if got := cell(t, out, 2, normalize.ColStateName); got != "" {
		t.Fatalf("unknown state code should map to empty name, got %q", got)
	}
}

func TestApplyDropsIdentifyingColumnsAndKeepsRowCount(t *testing.T) {
	frame := rawFrame(t,
		[]string{"Car A", "100", "MH12AB1234", "", "", "", "1", "Black"},
		[]string{"Car B", "200", "KL07CD5678", "", "", "", "2", "Green"},
	)

	out, err := normalize.Apply(frame, logging.NewNop())
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("row count changed: %d", out.Len())
	}
	for _, dropped := range []string{
		normalize.ColRegistration, normalize.ColBodyColor, normalize.ColStateCode,
	} {
		if out.Has(dropped) {
			t.Fatalf("column %q should have been dropped", dropped)
		}
	}
	if !out.Has(normalize.ColTotalKMRun) || out.Has(normalize.ColMileage) {
		t.Fatal("mileage column was not renamed")
	}
}

func TestApplyRejectsMissingRequiredColumn(t *testing.T) {
	frame := dataset.New("Price", "Insurance")
	if err := frame.AppendRow([]string{"100", ""}); err != nil {
		t.Fatalf("AppendRow returned error: %v", err)
	}
	if _, err := normalize.Apply(frame, logging.NewNop()); err == nil {
		t.Fatal("expected error for missing required column")
	}
}
