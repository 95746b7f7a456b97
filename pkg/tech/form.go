package tech

import (
	"strings"

	"github.com/matzehuels/techflow/pkg/errors"
	"github.com/matzehuels/techflow/pkg/table"
)

// Aggregated-form columns.
const (
	ColTechnologyName = "Technology name"
	ColProcessName    = "Process name"
	ColProcessInput   = "Process input"
	ColProcessOutput  = "Process output"
)

// Single-row-form columns. Carrier, share, unit and main-carrier columns are
// derived per [Direction].
const (
	ColTechID       = "ehubX Tech ID"
	ColDescription  = "Description"
	ColProcessType  = "Process Type"
	ColMainSector   = "Main Sector"
	ColMainCategory = "Main Category"
	ColCategorySpec = "Category Specification"
	ColTechType     = "Tech Type"
)

// descriptiveColumns are filled with empty cells when absent.
var descriptiveColumns = []string{
	ColDescription, ColProcessType, ColMainSector,
	ColMainCategory, ColCategorySpec, ColTechType,
}

// Form identifies which layout the technology sheet uses.
type Form string

const (
	// FormSingle is one row per technology with parallel flow lists.
	FormSingle Form = "single"
	// FormAggregated is one row per process step.
	FormAggregated Form = "aggregated"
)

// ParseForm parses "single" or "aggregated" (case-insensitive).
func ParseForm(s string) (Form, error) {
	switch Form(strings.ToLower(strings.TrimSpace(s))) {
	case FormSingle:
		return FormSingle, nil
	case FormAggregated:
		return FormAggregated, nil
	}
	return "", errors.New(errors.ErrCodeInvalidMode, "unknown sheet form %q (want single or aggregated)", s)
}

// IDColumn returns the column identifying a technology.
func (f Form) IDColumn() string {
	if f == FormAggregated {
		return ColTechnologyName
	}
	return ColTechID
}

// FilterColumns returns the columns searched by the keyword filter.
// Nil means every column.
func (f Form) FilterColumns() []string {
	if f == FormAggregated {
		return nil
	}
	return []string{ColTechID}
}

// RequiredColumns returns the columns a sheet of this form must have.
func (f Form) RequiredColumns() []string {
	if f == FormAggregated {
		return []string{ColTechnologyName, ColProcessName, ColProcessInput, ColProcessOutput}
	}
	cols := []string{ColTechID}
	for _, d := range Directions {
		cols = append(cols, d.CarriersColumn(), d.SharesColumn(), d.UnitsColumn(), d.MainColumn())
	}
	return cols
}

// Prepare applies the load-time preprocessing for the form: forward fill
// for the aggregated form, empty descriptive columns for the single-row form.
// It then checks that the required columns are present.
func (f Form) Prepare(t *table.Table) error {
	switch f {
	case FormAggregated:
		t.ForwardFill()
	default:
		t.EnsureColumns(descriptiveColumns...)
	}
	return t.Require(f.RequiredColumns()...)
}

// Direction is the side of a process a carrier flow is on.
type Direction string

const (
	Input  Direction = "Input"
	Output Direction = "Output"
)

// Directions lists Input then Output, the order flows are processed in.
var Directions = []Direction{Input, Output}

// CarriersColumn returns e.g. "Input Carriers".
func (d Direction) CarriersColumn() string { return string(d) + " Carriers" }

// SharesColumn returns e.g. "Input Shares".
func (d Direction) SharesColumn() string { return string(d) + " Shares" }

// UnitsColumn returns e.g. "Input Units".
func (d Direction) UnitsColumn() string { return string(d) + " Units" }

// MainColumn returns e.g. "Main Input Carrier".
func (d Direction) MainColumn() string { return "Main " + string(d) + " Carrier" }
