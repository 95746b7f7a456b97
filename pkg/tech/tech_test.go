package tech

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/techflow/pkg/errors"
	"github.com/matzehuels/techflow/pkg/flow"
	"github.com/matzehuels/techflow/pkg/table"
)

var singleHeader = []string{
	ColTechID, ColProcessType, ColCategorySpec,
	"Input Carriers", "Input Shares", "Input Units", "Main Input Carrier",
	"Output Carriers", "Output Shares", "Output Units", "Main Output Carrier",
}

func singleRecord(t *testing.T, cells ...string) table.Record {
	t.Helper()
	return table.New(singleHeader, [][]string{cells}).Row(0)
}

func TestParse(t *testing.T) {
	rec := singleRecord(t,
		"water_heater", "Conversion", "Heat",
		"Electricity, Heat", "0.5, 0.5", "kWh, kWh", "Electricity",
		"Hot Water", "1.0", "kWh", "Hot Water",
	)

	tech, diags, err := Parse(rec)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("Parse() diagnostics = %v, want none", diags)
	}

	wantIn := []CarrierFlow{{"Electricity", 0.5, "kWh"}, {"Heat", 0.5, "kWh"}}
	if !slices.Equal(tech.Inputs, wantIn) {
		t.Errorf("Inputs = %+v, want %+v", tech.Inputs, wantIn)
	}
	if len(tech.Outputs) != 1 || tech.Outputs[0].Label() != "1.0 kWh" {
		t.Errorf("Outputs = %+v", tech.Outputs)
	}
	if tech.MainInput != "Electricity" || tech.MainOutput != "Hot Water" {
		t.Errorf("main carriers = %q, %q", tech.MainInput, tech.MainOutput)
	}
	if got := tech.TypeSpec(); got != "Conversion-Heat" {
		t.Errorf("TypeSpec() = %q", got)
	}
}

func TestParse_LengthMismatchTruncates(t *testing.T) {
	rec := singleRecord(t,
		"hp", "", "",
		"Electricity, Ambient heat", "0.3, 0.7, 0.1", "kWh, kWh", "Electricity",
		"Heat", "1", "kWh", "Heat",
	)

	tech, diags, err := Parse(rec)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(tech.Inputs) != 2 {
		t.Errorf("len(Inputs) = %d, want 2", len(tech.Inputs))
	}
	if len(diags) != 1 || diags[0].Kind != flow.DiagLengthMismatch {
		t.Fatalf("diagnostics = %v, want one length mismatch", diags)
	}
	if !strings.Contains(diags[0].Message, "[2 3 2]") {
		t.Errorf("message = %q, want lengths listed", diags[0].Message)
	}
}

func TestParse_MainCarrierFallback(t *testing.T) {
	rec := singleRecord(t,
		"chp", "", "",
		"Gas", "1.0", "kWh", "Biogas",
		"Electricity, Heat", "0.4, 0.5", "kWh, kWh", "",
	)

	tech, diags, err := Parse(rec)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if tech.MainInput != "Gas" {
		t.Errorf("MainInput = %q, want fallback %q", tech.MainInput, "Gas")
	}
	if tech.MainOutput != "Electricity" {
		t.Errorf("MainOutput = %q, want fallback %q", tech.MainOutput, "Electricity")
	}
	if len(diags) != 2 {
		t.Fatalf("diagnostics = %v, want 2", diags)
	}
	for _, d := range diags {
		if d.Kind != flow.DiagMainCarrierFallback || d.Subject != "chp" {
			t.Errorf("diagnostic = %+v", d)
		}
	}
}

func TestParse_EmptyCarrierList(t *testing.T) {
	rec := singleRecord(t,
		"sink", "", "",
		"Heat", "1.0", "kWh", "Heat",
		"", "", "", "",
	)

	tech, diags, err := Parse(rec)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(tech.Outputs) != 0 {
		t.Errorf("Outputs = %+v, want none", tech.Outputs)
	}
	if tech.MainOutput != "" {
		t.Errorf("MainOutput = %q, want empty", tech.MainOutput)
	}
	if len(diags) != 1 || diags[0].Kind != flow.DiagMainCarrierFallback {
		t.Errorf("diagnostics = %v", diags)
	}
}

func TestParse_InvalidShare(t *testing.T) {
	rec := singleRecord(t,
		"bad", "", "",
		"Gas", "lots", "kWh", "Gas",
		"Heat", "1.0", "kWh", "Heat",
	)

	_, _, err := Parse(rec)
	if !errors.Is(err, errors.ErrCodeInvalidShare) {
		t.Errorf("Parse() error = %v, want %s", err, errors.ErrCodeInvalidShare)
	}
}

func TestParse_MissingColumn(t *testing.T) {
	tbl := table.New([]string{ColTechID, "Input Carriers"}, [][]string{{"x", "Gas"}})

	_, _, err := Parse(tbl.Row(0))
	if !errors.Is(err, errors.ErrCodeMissingColumn) {
		t.Errorf("Parse() error = %v, want %s", err, errors.ErrCodeMissingColumn)
	}

	_, _, err = Parse(table.New([]string{"other"}, [][]string{{"x"}}).Row(0))
	if !errors.Is(err, errors.ErrCodeMissingColumn) {
		t.Errorf("Parse() without ID column error = %v", err)
	}
}

func TestFormatShare(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.5, "0.5"},
		{1, "1.0"},
		{100, "100.0"},
		{0.333, "0.333"},
		{-2.25, "-2.25"},
		{0, "0.0"},
		{0.00001, "1e-05"},
	}

	for _, tt := range tests {
		if got := FormatShare(tt.in); got != tt.want {
			t.Errorf("FormatShare(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{"Gas", []string{"Gas"}},
		{"Electricity,  Heat ", []string{"Electricity", "Heat"}},
		{"a,,b", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		if got := SplitList(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("SplitList(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStepsFor(t *testing.T) {
	tbl := table.New(
		[]string{ColTechnologyName, ColProcessName, ColProcessInput, ColProcessOutput},
		[][]string{
			{"Heat pump", "compression", "Electricity, Ambient heat", "Heat"},
			{"", "storage", "Heat", "Hot water, "},
			{"Boiler", "combustion", "Gas", "Heat"},
		},
	)
	if err := FormAggregated.Prepare(tbl); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	steps, err := StepsFor(tbl, "Heat pump")
	if err != nil {
		t.Fatalf("StepsFor() error: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("len(steps) = %d, want 2", len(steps))
	}
	if !slices.Equal(steps[0].Inputs, []string{"Electricity", "Ambient heat"}) {
		t.Errorf("steps[0].Inputs = %q", steps[0].Inputs)
	}
	if !slices.Equal(steps[1].Outputs, []string{"Hot water"}) {
		t.Errorf("steps[1].Outputs = %q, want blank item dropped", steps[1].Outputs)
	}
	if steps[1].Technology != "Heat pump" {
		t.Errorf("forward fill missing: %q", steps[1].Technology)
	}
}

func TestStepsFor_MissingColumn(t *testing.T) {
	tbl := table.New([]string{ColTechnologyName, ColProcessName}, nil)
	if _, err := StepsFor(tbl, "x"); !errors.Is(err, errors.ErrCodeMissingColumn) {
		t.Errorf("StepsFor() error = %v", err)
	}
}

func TestParseForm(t *testing.T) {
	if f, err := ParseForm(" Aggregated "); err != nil || f != FormAggregated {
		t.Errorf("ParseForm(aggregated) = %q, %v", f, err)
	}
	if f, err := ParseForm("single"); err != nil || f != FormSingle {
		t.Errorf("ParseForm(single) = %q, %v", f, err)
	}
	if _, err := ParseForm("pivot"); !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("ParseForm(pivot) error = %v", err)
	}
}

func TestFormColumns(t *testing.T) {
	if FormSingle.IDColumn() != ColTechID {
		t.Errorf("FormSingle.IDColumn() = %q", FormSingle.IDColumn())
	}
	if FormAggregated.IDColumn() != ColTechnologyName {
		t.Errorf("FormAggregated.IDColumn() = %q", FormAggregated.IDColumn())
	}
	if FormAggregated.FilterColumns() != nil {
		t.Error("aggregated filter should search all columns")
	}
	if got := FormSingle.FilterColumns(); !slices.Equal(got, []string{ColTechID}) {
		t.Errorf("FormSingle.FilterColumns() = %v", got)
	}
}

func TestPrepareSingleFillsDescriptiveColumns(t *testing.T) {
	tbl := table.New(singleHeader, nil)
	if err := FormSingle.Prepare(tbl); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	for _, c := range []string{ColDescription, ColMainSector, ColTechType} {
		if !tbl.Has(c) {
			t.Errorf("Prepare() did not add %q", c)
		}
	}
}
