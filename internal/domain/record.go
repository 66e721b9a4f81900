package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Column names of the persisted store, in order.
const (
	ColName           = "Name"
	ColMobile         = "Mobile"
	ColEmail          = "Email"
	ColAge            = "Age"
	ColIncome         = "Income"
	ColEmployment     = "Employment"
	ColDependents     = "Dependents"
	ColDependentsInfo = "Dependents_Info"
	ColCovers         = "Covers"
	ColInsuranceType  = "Insurance_Type"
	ColMonthlyCost    = "Monthly_Cost_EUR"
	ColYearlyCost     = "Yearly_Cost_EUR"
	ColHealthIssues   = "Health Issues"
	ColCost           = "Cost"
)

// Columns is the fixed column set of the store. Order matters for flat files.
var Columns = []string{
	ColName, ColMobile, ColEmail, ColAge, ColIncome, ColEmployment, ColDependents,
	ColDependentsInfo, ColCovers, ColInsuranceType, ColMonthlyCost, ColYearlyCost,
	ColHealthIssues, ColCost,
}

const listSeparator = ", "

// Flow identifies which form produced a record.
type Flow string

const (
	FlowFull  Flow = "full"
	FlowQuick Flow = "quick"
)

// Dependent is a child covered by a full application.
type Dependent struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// Record is one persisted submission. Pointer and slice fields are nil when
// the producing flow leaves the column empty.
type Record struct {
	Name           string        `json:"name"`
	Mobile         string        `json:"mobile,omitempty"`
	Email          string        `json:"email,omitempty"`
	Age            int           `json:"age"`
	Income         *int          `json:"income,omitempty"`
	Employment     string        `json:"employment"`
	Dependents     int           `json:"dependents"`
	DependentsInfo []Dependent   `json:"dependents_info,omitempty"`
	Covers         []Cover       `json:"covers,omitempty"`
	InsuranceType  InsuranceType `json:"insurance_type,omitempty"`
	MonthlyCostEUR *int          `json:"monthly_cost_eur,omitempty"`
	YearlyCostEUR  *int          `json:"yearly_cost_eur,omitempty"`
	HealthIssues   []HealthIssue `json:"health_issues,omitempty"`
	Cost           *int          `json:"cost,omitempty"`
}

// Flow infers the producing flow from which cost columns are populated.
func (r Record) Flow() Flow {
	if r.Cost != nil {
		return FlowQuick
	}
	return FlowFull
}

// Row encodes the record as strings in [Columns] order.
func (r Record) Row() ([]string, error) {
	info := ""
	if r.DependentsInfo != nil {
		b, err := json.Marshal(r.DependentsInfo)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", ColDependentsInfo, err)
		}
		info = string(b)
	}

	return []string{
		r.Name,
		r.Mobile,
		r.Email,
		strconv.Itoa(r.Age),
		formatOptionalInt(r.Income),
		r.Employment,
		strconv.Itoa(r.Dependents),
		info,
		joinList(r.Covers),
		string(r.InsuranceType),
		formatOptionalInt(r.MonthlyCostEUR),
		formatOptionalInt(r.YearlyCostEUR),
		joinList(r.HealthIssues),
		formatOptionalInt(r.Cost),
	}, nil
}

// RecordFromRow decodes a row laid out in [Columns] order.
func RecordFromRow(row []string) (Record, error) {
	if len(row) != len(Columns) {
		return Record{}, fmt.Errorf("row has %d fields, want %d", len(row), len(Columns))
	}

	var (
		rec Record
		err error
	)
	rec.Name = row[0]
	rec.Mobile = row[1]
	rec.Email = row[2]
	if rec.Age, err = parseInt(ColAge, row[3]); err != nil {
		return Record{}, err
	}
	if rec.Income, err = parseOptionalInt(ColIncome, row[4]); err != nil {
		return Record{}, err
	}
	rec.Employment = row[5]
	if rec.Dependents, err = parseInt(ColDependents, row[6]); err != nil {
		return Record{}, err
	}
	if s := strings.TrimSpace(row[7]); s != "" {
		if err := json.Unmarshal([]byte(s), &rec.DependentsInfo); err != nil {
			return Record{}, fmt.Errorf("decode %s: %w", ColDependentsInfo, err)
		}
	}
	rec.Covers = splitList[Cover](row[8])
	rec.InsuranceType = InsuranceType(row[9])
	if rec.MonthlyCostEUR, err = parseOptionalInt(ColMonthlyCost, row[10]); err != nil {
		return Record{}, err
	}
	if rec.YearlyCostEUR, err = parseOptionalInt(ColYearlyCost, row[11]); err != nil {
		return Record{}, err
	}
	rec.HealthIssues = splitList[HealthIssue](row[12])
	if rec.Cost, err = parseOptionalInt(ColCost, row[13]); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// parseInt accepts integers written as floats ("40.0"), which spreadsheet
// round-trips of the store file tend to produce.
func parseInt(col, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("column %s: invalid integer %q", col, s)
	}
	return int(f), nil
}

func parseOptionalInt(col, s string) (*int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	n, err := parseInt(col, s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func joinList[T ~string](items []T) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = string(it)
	}
	return strings.Join(parts, listSeparator)
}

func splitList[T ~string](s string) []T {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, listSeparator)
	out := make([]T, 0, len(parts))
	for _, p := range parts {
		out = append(out, T(strings.TrimSpace(p)))
	}
	return out
}

func intPtr(v int) *int { return &v }
