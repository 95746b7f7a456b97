package tech

import (
	"strings"

	"github.com/matzehuels/techflow/pkg/table"
)

// Step is one process step of an aggregated-form technology.
type Step struct {
	Technology string   `json:"technology"`
	Process    string   `json:"process"`
	Inputs     []string `json:"inputs"`
	Outputs    []string `json:"outputs"`
}

// ParseStep reads one aggregated-form row. Carrier lists are split on
// commas and trimmed; blank items are dropped.
func ParseStep(rec table.Record) Step {
	return Step{
		Technology: rec.Value(ColTechnologyName),
		Process:    rec.Value(ColProcessName),
		Inputs:     carrierNames(rec.Value(ColProcessInput)),
		Outputs:    carrierNames(rec.Value(ColProcessOutput)),
	}
}

// StepsFor returns the steps of technology name in row order.
// The table must already be prepared with [FormAggregated].
func StepsFor(t *table.Table, name string) ([]Step, error) {
	if err := t.Require(FormAggregated.RequiredColumns()...); err != nil {
		return nil, err
	}
	rows := t.Where(ColTechnologyName, name).Records()
	steps := make([]Step, len(rows))
	for i, r := range rows {
		steps[i] = ParseStep(r)
	}
	return steps, nil
}

func carrierNames(s string) []string {
	var names []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}
