package table

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/techflow/pkg/errors"
)

const aggregatedCSV = `Technology name,Process name,Process input,Process output
Heat pump,compression,"Electricity, Ambient heat",Heat
,,Heat,Hot water
Gas boiler,combustion,Gas,"Heat, Flue gas"
`

func mustRead(t *testing.T, s string) *Table {
	t.Helper()
	tbl, err := ReadCSV(strings.NewReader(s))
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	return tbl
}

func TestReadCSV(t *testing.T) {
	tbl := mustRead(t, aggregatedCSV)

	if tbl.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tbl.Len())
	}
	if !tbl.Has("Process input") {
		t.Error("Has(Process input) = false")
	}
	if got := tbl.Row(0).Value("Process input"); got != "Electricity, Ambient heat" {
		t.Errorf("Value() = %q", got)
	}
}

func TestReadCSV_BOMAndRaggedRows(t *testing.T) {
	tbl := mustRead(t, "\ufeff ID ,Name\na\nb,B,extra\n")

	if got := tbl.Header(); !slices.Equal(got, []string{"ID", "Name"}) {
		t.Errorf("Header() = %q", got)
	}
	if got := tbl.Row(0).Value("Name"); got != "" {
		t.Errorf("short row padded value = %q, want empty", got)
	}
	if got := tbl.Row(1).Value("Name"); got != "B" {
		t.Errorf("long row value = %q, want B", got)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ReadCSV(empty) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestReadCSVFile_NotFound(t *testing.T) {
	_, err := ReadCSVFile("does/not/exist.csv")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadCSVFile() error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestForwardFill(t *testing.T) {
	tbl := mustRead(t, aggregatedCSV)
	tbl.ForwardFill()

	if got := tbl.Row(1).Value("Technology name"); got != "Heat pump" {
		t.Errorf("forward-filled Technology name = %q, want %q", got, "Heat pump")
	}
	if got := tbl.Row(1).Value("Process name"); got != "compression" {
		t.Errorf("forward-filled Process name = %q, want %q", got, "compression")
	}
	if got := tbl.Row(1).Value("Process input"); got != "Heat" {
		t.Errorf("non-empty cell changed to %q", got)
	}
}

func TestForwardFill_SelectedColumns(t *testing.T) {
	tbl := New([]string{"a", "b"}, [][]string{{"1", "x"}, {"", ""}, {" ", "y"}})
	tbl.ForwardFill("a", "missing")

	if got := tbl.Row(1).Value("a"); got != "1" {
		t.Errorf("a[1] = %q, want 1", got)
	}
	if got := tbl.Row(2).Value("a"); got != "1" {
		t.Errorf("whitespace cell a[2] = %q, want 1", got)
	}
	if got := tbl.Row(1).Value("b"); got != "" {
		t.Errorf("b[1] = %q, want untouched empty", got)
	}
}

func TestFilter(t *testing.T) {
	tbl := mustRead(t, aggregatedCSV)
	tbl.ForwardFill()

	tests := []struct {
		name    string
		keyword string
		cols    []string
		want    int
	}{
		{"empty keyword", "", nil, 3},
		{"case insensitive", "HEAT PUMP", nil, 2},
		{"any column", "flue", nil, 1},
		{"restricted column", "heat", []string{"Technology name"}, 2},
		{"no match", "nuclear", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tbl.Filter(tt.keyword, tt.cols...).Len(); got != tt.want {
				t.Errorf("Filter(%q).Len() = %d, want %d", tt.keyword, got, tt.want)
			}
		})
	}
}

func TestDistinct(t *testing.T) {
	tbl := New([]string{"id"}, [][]string{{"b"}, {"a"}, {"b"}, {""}, {"c"}})

	got := tbl.Distinct("id")
	want := []string{"b", "a", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("Distinct() = %v, want %v", got, want)
	}
	if got := tbl.Distinct("missing"); got != nil {
		t.Errorf("Distinct(missing) = %v, want nil", got)
	}
}

func TestWhereAndFirst(t *testing.T) {
	tbl := mustRead(t, aggregatedCSV)
	tbl.ForwardFill()

	if got := tbl.Where("Technology name", "Heat pump").Len(); got != 2 {
		t.Errorf("Where().Len() = %d, want 2", got)
	}
	rec, ok := tbl.First("Technology name", "Gas boiler")
	if !ok {
		t.Fatal("First() not found")
	}
	if got := rec.Value("Process name"); got != "combustion" {
		t.Errorf("First().Value() = %q", got)
	}
	if _, ok := tbl.First("Technology name", "Nope"); ok {
		t.Error("First() found a missing value")
	}
}

func TestRequireAndEnsureColumns(t *testing.T) {
	tbl := New([]string{"a"}, [][]string{{"1"}})

	err := tbl.Require("a", "b")
	if !errors.Is(err, errors.ErrCodeMissingColumn) {
		t.Fatalf("Require() error = %v, want %s", err, errors.ErrCodeMissingColumn)
	}

	tbl.EnsureColumns("b")
	if err := tbl.Require("a", "b"); err != nil {
		t.Errorf("Require() after EnsureColumns error: %v", err)
	}
	if v, ok := tbl.Row(0).Get("b"); !ok || v != "" {
		t.Errorf("Get(b) = %q, %v", v, ok)
	}
}

func TestRecordMap(t *testing.T) {
	tbl := New([]string{"a", "b"}, [][]string{{"1", "2"}})
	m := tbl.Row(0).Map()
	if m["a"] != "1" || m["b"] != "2" {
		t.Errorf("Map() = %v", m)
	}
	if (Record{}).Value("a") != "" {
		t.Error("zero Record should return empty values")
	}
}

func TestWriteCSV(t *testing.T) {
	tbl := New([]string{"id", "carriers"}, [][]string{{"hp", "Electricity, Heat"}})

	var buf bytes.Buffer
	if err := tbl.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}
	want := "id,carriers\nhp,\"Electricity, Heat\"\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() = %q, want %q", buf.String(), want)
	}
}
