package models

import (
	"testing"
	"time"
)

func TestCompanyIDValid(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		// Shanghai main board
		{"600519", true},
		{"601318", true},
		{"603288", true},
		{"605111", true},
		// Shenzhen main board
		{"000001", true},
		{"001979", true},
		{"002594", true},
		{"003816", true},
		// ChiNext
		{"300750", true},
		{"301236", true},
		// STAR market
		{"688981", true},
		// Unsupported prefixes
		{"400001", false},
		{"200596", false}, // B-share
		{"900901", false}, // B-share
		{"604000", false},
		{"100000", false},
		// Malformed
		{"", false},
		{"60051", false},
		{"6005190", false},
		{"60051a", false},
		{"SH600519", false},
	}
	for _, tt := range tests {
		if got := CompanyID(tt.code).Valid(); got != tt.valid {
			t.Errorf("CompanyID(%q).Valid() = %v, want %v", tt.code, got, tt.valid)
		}
	}
}

func TestPeriodKind(t *testing.T) {
	tests := []struct {
		period ReportPeriod
		want   PeriodKind
	}{
		{NewPeriod(2023, time.December, 31), Annual},
		{NewPeriod(2023, time.March, 31), Quarterly},
		{NewPeriod(2023, time.June, 30), Quarterly},
		{NewPeriod(2023, time.September, 30), Quarterly},
	}
	for _, tt := range tests {
		if got := tt.period.Kind(); got != tt.want {
			t.Errorf("%s Kind() = %v, want %v", tt.period, got, tt.want)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2023-12-31")
	if err != nil {
		t.Fatal(err)
	}
	if p.String() != "2023-12-31" {
		t.Errorf("round trip = %s", p)
	}
	if _, err := ParsePeriod("20231231"); err == nil {
		t.Error("compact form should not parse here")
	}
}

func TestStatementAmount(t *testing.T) {
	st := NormalizedStatement{
		Company: "600519",
		Type:    IncomeStatement,
		Period:  NewPeriod(2023, time.December, 31),
		Items:   map[string]float64{ItemRevenue: 1000, ItemNetProfit: 0},
	}

	if got := st.Amount(ItemRevenue); got.IsNA() || got.Value != 1000 {
		t.Errorf("revenue = %v", got)
	}
	// Disclosed zero is a value.
	if got := st.Amount(ItemNetProfit); got.IsNA() {
		t.Error("disclosed zero must not be NA")
	}
	// Absent item is NA.
	if got := st.Amount(ItemGrossProfit); !got.IsNA() {
		t.Errorf("absent item = %v, want NA", got)
	}
}
