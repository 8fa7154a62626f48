// Package models defines the canonical data model shared across the
// acquisition pipeline and the analysis engine: company identifiers,
// statement types, report periods, and normalized statements keyed by
// a source-independent line-item vocabulary.
package models

import (
	"fmt"
	"regexp"
	"time"
)

// CompanyID is a 6-digit exchange-qualified A-share stock code,
// e.g. "600519" (SSE) or "000001" (SZSE). Validity is purely lexical.
type CompanyID string

// codePattern matches the supported market prefixes:
// SSE main board (600/601/603/605), SZSE main board (000/001/002/003),
// ChiNext (300/301) and STAR market (688).
var codePattern = regexp.MustCompile(`^(60[0135]|00[0123]|30[01]|688)\d{3}$`)

// Valid reports whether the code matches a supported market-prefix pattern.
func (c CompanyID) Valid() bool {
	return codePattern.MatchString(string(c))
}

func (c CompanyID) String() string { return string(c) }

// StatementType identifies one of the three disclosed statements.
type StatementType string

const (
	BalanceSheet      StatementType = "balance_sheet"
	IncomeStatement   StatementType = "income_statement"
	CashFlowStatement StatementType = "cash_flow_statement"
)

// StatementTypes lists all statement types in fixed order.
func StatementTypes() []StatementType {
	return []StatementType{BalanceSheet, IncomeStatement, CashFlowStatement}
}

// Valid reports whether t is a known statement type.
func (t StatementType) Valid() bool {
	switch t {
	case BalanceSheet, IncomeStatement, CashFlowStatement:
		return true
	}
	return false
}

// PeriodKind distinguishes quarterly from annual reporting periods.
type PeriodKind string

const (
	Quarterly PeriodKind = "quarterly"
	Annual    PeriodKind = "annual"
)

// ReportPeriod is the closing date of a financial reporting period.
// The period kind is inferred from the month: December closings are
// annual reports, everything else is treated as quarterly.
type ReportPeriod struct {
	End time.Time
}

// NewPeriod builds a period ending on the given calendar date (UTC midnight).
func NewPeriod(year int, month time.Month, day int) ReportPeriod {
	return ReportPeriod{End: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParsePeriod parses a YYYY-MM-DD period end date.
func ParsePeriod(s string) (ReportPeriod, error) {
	end, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return ReportPeriod{}, err
	}
	return ReportPeriod{End: end}, nil
}

// Kind returns the inferred period kind.
func (p ReportPeriod) Kind() PeriodKind {
	if p.End.Month() == time.December {
		return Annual
	}
	return Quarterly
}

// Before reports whether p ends before other.
func (p ReportPeriod) Before(other ReportPeriod) bool {
	return p.End.Before(other.End)
}

// Equal reports whether two periods share the same end date.
func (p ReportPeriod) Equal(other ReportPeriod) bool {
	return p.End.Equal(other.End)
}

// IsZero reports whether the period is unset.
func (p ReportPeriod) IsZero() bool { return p.End.IsZero() }

func (p ReportPeriod) String() string { return p.End.Format("2006-01-02") }

// NormalizedStatement is a single statement for one company and period,
// with items drawn from the canonical line-item vocabulary. A missing
// line item is an absent key — never a zero. Values are in the source
// reporting unit (CNY 元).
type NormalizedStatement struct {
	Company CompanyID          `json:"company"`
	Type    StatementType      `json:"type"`
	Period  ReportPeriod       `json:"period"`
	Items   map[string]float64 `json:"items"`
}

// Item looks up a canonical line item. The second return value is false
// when the source did not disclose the item for this period.
func (s NormalizedStatement) Item(name string) (float64, bool) {
	v, ok := s.Items[name]
	return v, ok
}

// Amount looks up a canonical line item as an NA-aware Amount.
func (s NormalizedStatement) Amount(name string) Amount {
	if v, ok := s.Items[name]; ok {
		return Of(v)
	}
	return NA()
}

// Key returns the unique identity of the statement within the repository.
func (s NormalizedStatement) Key() string {
	return fmt.Sprintf("%s/%s/%s", s.Company, s.Type, s.Period)
}
