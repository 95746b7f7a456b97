package tech

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/techflow/pkg/errors"
	"github.com/matzehuels/techflow/pkg/flow"
	"github.com/matzehuels/techflow/pkg/table"
)

// CarrierFlow is one carrier entering or leaving a technology.
type CarrierFlow struct {
	Name  string  `json:"name"`
	Share float64 `json:"share"`
	Unit  string  `json:"unit"`
}

// Label returns the edge label "{share} {unit}", e.g. "0.5 kWh".
func (f CarrierFlow) Label() string {
	return FormatShare(f.Share) + " " + f.Unit
}

// Technology is one row of the single-row sheet form.
type Technology struct {
	ID           string        `json:"id"`
	Description  string        `json:"description,omitempty"`
	ProcessType  string        `json:"process_type,omitempty"`
	CategorySpec string        `json:"category_specification,omitempty"`
	MainSector   string        `json:"main_sector,omitempty"`
	MainCategory string        `json:"main_category,omitempty"`
	TechType     string        `json:"tech_type,omitempty"`
	Inputs       []CarrierFlow `json:"inputs"`
	Outputs      []CarrierFlow `json:"outputs"`
	MainInput    string        `json:"main_input"`
	MainOutput   string        `json:"main_output"`
}

// TypeSpec returns "{Process Type}-{Category Specification}".
func (t Technology) TypeSpec() string {
	return t.ProcessType + "-" + t.CategorySpec
}

// Flows returns the flows of direction d.
func (t Technology) Flows(d Direction) []CarrierFlow {
	if d == Output {
		return t.Outputs
	}
	return t.Inputs
}

// Main returns the effective main carrier of direction d.
func (t Technology) Main(d Direction) string {
	if d == Output {
		return t.MainOutput
	}
	return t.MainInput
}

// Parse reads a single-row technology record.
//
// For each direction the carrier, share and unit lists are split on commas
// and trimmed. A blank field is an empty list. Flows are zipped positionally
// up to the shortest list. Diagnostics are returned in the order input
// lengths, input main carrier, output lengths, output main carrier.
func Parse(rec table.Record) (Technology, []flow.Diagnostic, error) {
	id, ok := rec.Get(ColTechID)
	if !ok {
		return Technology{}, nil, errors.New(errors.ErrCodeMissingColumn, "column %q not found", ColTechID)
	}

	t := Technology{
		ID:           id,
		Description:  rec.Value(ColDescription),
		ProcessType:  rec.Value(ColProcessType),
		CategorySpec: rec.Value(ColCategorySpec),
		MainSector:   rec.Value(ColMainSector),
		MainCategory: rec.Value(ColMainCategory),
		TechType:     rec.Value(ColTechType),
	}

	var diags []flow.Diagnostic
	for _, d := range Directions {
		flows, mainCarrier, ds, err := parseDirection(rec, id, d)
		if err != nil {
			return Technology{}, nil, err
		}
		diags = append(diags, ds...)
		if d == Input {
			t.Inputs, t.MainInput = flows, mainCarrier
		} else {
			t.Outputs, t.MainOutput = flows, mainCarrier
		}
	}
	return t, diags, nil
}

func parseDirection(rec table.Record, id string, d Direction) ([]CarrierFlow, string, []flow.Diagnostic, error) {
	var raw [3]string
	for i, col := range []string{d.CarriersColumn(), d.SharesColumn(), d.UnitsColumn()} {
		v, ok := rec.Get(col)
		if !ok {
			return nil, "", nil, errors.New(errors.ErrCodeMissingColumn, "column %q not found", col)
		}
		raw[i] = v
	}

	carriers := SplitList(raw[0])
	units := SplitList(raw[2])
	shares, err := parseShares(id, SplitList(raw[1]))
	if err != nil {
		return nil, "", nil, err
	}

	var diags []flow.Diagnostic
	lengths := []int{len(carriers), len(shares), len(units)}
	n := slices.Min(lengths)
	if n != slices.Max(lengths) {
		diags = append(diags, flow.Diagnostic{
			Kind:    flow.DiagLengthMismatch,
			Subject: id,
			Message: fmt.Sprintf("%s lists have different lengths: %v", strings.ToLower(string(d)), lengths),
		})
	}

	flows := make([]CarrierFlow, n)
	for i := range n {
		flows[i] = CarrierFlow{Name: carriers[i], Share: shares[i], Unit: units[i]}
	}

	mainCarrier := strings.TrimSpace(rec.Value(d.MainColumn()))
	if !slices.Contains(carriers, mainCarrier) {
		fallback := ""
		if len(carriers) > 0 {
			fallback = carriers[0]
		}
		diags = append(diags, flow.Diagnostic{
			Kind:    flow.DiagMainCarrierFallback,
			Subject: id,
			Message: fmt.Sprintf("main %s carrier %q not in %s carriers %q, using %q",
				strings.ToLower(string(d)), mainCarrier, strings.ToLower(string(d)), carriers, fallback),
		})
		mainCarrier = fallback
	}

	return flows, mainCarrier, diags, nil
}

func parseShares(id string, items []string) ([]float64, error) {
	shares := make([]float64, len(items))
	for i, s := range items {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidShare, err, "%s: share %q is not a number", id, s)
		}
		shares[i] = v
	}
	return shares, nil
}

// SplitList splits a comma-separated field and trims each item.
// A blank field yields an empty list; blank items inside a non-blank field
// are kept so positions line up across parallel lists.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// FormatShare formats a share the way the sheet's consumers expect:
// integral values keep one decimal ("1.0"), other values use the shortest
// representation that round-trips ("0.5", "0.333").
func FormatShare(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
