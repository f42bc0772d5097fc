package normalize

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"carprice/internal/dataset"
)

// Column names the normalizer reads or produces.
const (
	ColCarName        = "Car Name"
	ColPrice          = "Price"
	ColRegistration   = "Registration Number"
	ColStateCode      = "State Code"
	ColStateName      = "State Name"
	ColInsurance      = "Insurance"
	ColServiceRecord  = "Service Record"
	ColCertificate    = "Registration Certificate"
	ColMileage        = "Mileage"
	ColTotalKMRun     = "Total_KM_Run"
	ColBodyColor      = "Body Color"
	ColIndexArtifact  = "Unnamed: 0"
	ColEngineNumber   = "Engine Number"
	ColChassisNumber  = "Chassis Number"
)

// Canonical bucket values produced by the normalizer.
const (
	InsuranceValid   = "Insurance Valid"
	InsuranceNone    = "No Insurance"
	ServiceAvailable = "Available"
	ServiceMissing   = "Not Available"
	CertificateYes   = "Yes"
	CertificateNo    = "No"
)

// priceFixMarker identifies the model line whose listings carry a known
// unit error: prices recorded ten times too high.
const priceFixMarker = "eeco"

// stateNames maps the two-character registration prefix to a state name.
// The table is knowingly incomplete; unknown codes yield an empty state
// name rather than a guess.
var stateNames = map[string]string{
	"KA": "Karnataka",
	"AP": "Andhra Pradesh",
	"TS": "Telangana",
	"DL": "Delhi",
	"MH": "Maharashtra",
	"KL": "Kerala",
	"TN": "Tamil Nadu",
	"PB": "Punjab",
	"MP": "Madhya Pradesh",
	"JS": "Jharkhand",
}

var insuranceBuckets = map[string]string{
	"No Current Insurance": InsuranceNone,
	"Valid Until [date]":   InsuranceValid,
}

var certificateBuckets = map[string]string{
	"Not Available": CertificateNo,
	"Available":     CertificateYes,
}

// droppedColumns are identifying or raw columns removed from the output,
// when present.
var droppedColumns = []string{
	ColRegistration,
	ColBodyColor,
	ColIndexArtifact,
	ColEngineNumber,
	ColChassisNumber,
	ColStateCode,
}

// Apply rewrites a frame of raw listings into the normalized schema. The
// rules run in a fixed order because later ones consume columns derived by
// earlier ones. Any missing required column aborts the whole batch; the
// caller owns logging and exit.
func Apply(frame *dataset.Frame, logger *slog.Logger) (*dataset.Frame, error) {
	for _, required := range []string{ColCarName, ColPrice, ColRegistration} {
		if !frame.Has(required) {
			return nil, fmt.Errorf("normalize: input missing column %q", required)
		}
	}

	if err := fixKnownPriceError(frame); err != nil {
		return nil, err
	}
	if err := deriveStateName(frame); err != nil {
		return nil, err
	}
	if err := bucketColumn(frame, ColInsurance, bucketInsurance); err != nil {
		return nil, err
	}
	if err := bucketColumn(frame, ColServiceRecord, bucketServiceRecord); err != nil {
		return nil, err
	}
	if err := bucketColumn(frame, ColCertificate, bucketCertificate); err != nil {
		return nil, err
	}
	if frame.Has(ColMileage) {
		if err := frame.RenameColumn(ColMileage, ColTotalKMRun); err != nil {
			return nil, fmt.Errorf("normalize: %w", err)
		}
	}
	frame.DropColumns(droppedColumns...)

	logger.Info("normalized listings",
		slog.Int("rows", frame.Len()),
		slog.Int("columns", len(frame.Columns())))
	return frame, nil
}

// fixKnownPriceError divides the price by ten for rows whose car name
// contains the marker substring, case-insensitively.
func fixKnownPriceError(frame *dataset.Frame) error {
	names, err := frame.Column(ColCarName)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	for i, name := range names {
		if !strings.Contains(strings.ToLower(name), priceFixMarker) {
			continue
		}
		cell, err := frame.Cell(i, ColPrice)
		if err != nil {
			return fmt.Errorf("normalize: %w", err)
		}
		if cell == "" {
			continue
		}
		price, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return fmt.Errorf("normalize: price at row %d: %w", i, err)
		}
		if err := frame.SetCell(i, ColPrice, formatNumber(price/10)); err != nil {
			return fmt.Errorf("normalize: %w", err)
		}
	}
	return nil
}

// deriveStateName extracts the first two characters of the registration
// number and maps them through the state table. The state-code column only
// exists transiently; the final drop removes it again.
func deriveStateName(frame *dataset.Frame) error {
	regs, err := frame.Column(ColRegistration)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	codes := make([]string, len(regs))
	names := make([]string, len(regs))
	for i, reg := range regs {
		if len(reg) >= 2 {
			codes[i] = reg[:2]
		}
		names[i] = stateNames[codes[i]]
	}
	if err := frame.AddColumn(ColStateCode, codes); err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	if err := frame.AddColumn(ColStateName, names); err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	return nil
}

func bucketColumn(frame *dataset.Frame, column string, bucket func(string) string) error {
	if !frame.Has(column) {
		return fmt.Errorf("normalize: input missing column %q", column)
	}
	cells, err := frame.Column(column)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	for i, cell := range cells {
		if err := frame.SetCell(i, column, bucket(cell)); err != nil {
			return fmt.Errorf("normalize: %w", err)
		}
	}
	return nil
}

func bucketInsurance(value string) string {
	if mapped, ok := insuranceBuckets[value]; ok {
		return mapped
	}
	return InsuranceNone
}

func bucketServiceRecord(value string) string {
	if value == "Full Service History" || strings.HasPrefix(value, "Major Service") {
		return ServiceAvailable
	}
	return ServiceMissing
}

func bucketCertificate(value string) string {
	if mapped, ok := certificateBuckets[value]; ok {
		return mapped
	}
	return CertificateNo
}

// formatNumber renders a price without trailing zeros so whole rupee values
// stay integers in the interim CSV.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
