package models

import (
	"encoding/json"
	"testing"
)

func TestDivZeroDenominator(t *testing.T) {
	got := Of(100).Div(Of(0))
	if !got.IsNA() {
		t.Errorf("100/0 should be NA, got %v", got)
	}
}

func TestDivNAOperand(t *testing.T) {
	if got := NA().Div(Of(5)); !got.IsNA() {
		t.Errorf("NA/5 should be NA, got %v", got)
	}
	if got := Of(5).Div(NA()); !got.IsNA() {
		t.Errorf("5/NA should be NA, got %v", got)
	}
}

func TestDivValid(t *testing.T) {
	got := Of(10).Div(Of(4))
	if got.IsNA() || got.Value != 2.5 {
		t.Errorf("10/4 = %v, want 2.5", got)
	}
}

func TestNAPropagates(t *testing.T) {
	if got := NA().Sub(Of(1)); !got.IsNA() {
		t.Errorf("NA-1 should be NA, got %v", got)
	}
	if got := Of(1).Mul(NA()); !got.IsNA() {
		t.Errorf("1*NA should be NA, got %v", got)
	}
}

func TestPctChange(t *testing.T) {
	tests := []struct {
		name string
		cur  Amount
		prev Amount
		want Amount
	}{
		{"growth", Of(120), Of(100), Of(0.2)},
		{"decline", Of(80), Of(100), Of(-0.2)},
		{"negative prior uses magnitude", Of(-50), Of(-100), Of(0.5)},
		{"zero prior", Of(100), Of(0), NA()},
		{"na prior", Of(100), NA(), NA()},
		{"na current", NA(), Of(100), NA()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cur.PctChange(tt.prev)
			if got.IsNA() != tt.want.IsNA() {
				t.Fatalf("PctChange NA = %v, want %v", got.IsNA(), tt.want.IsNA())
			}
			if !got.IsNA() && !approxEqual(got.Value, tt.want.Value) {
				t.Errorf("PctChange = %v, want %v", got.Value, tt.want.Value)
			}
		})
	}
}

func TestAmountJSON(t *testing.T) {
	b, err := json.Marshal(NA())
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "null" {
		t.Errorf("NA marshals to %s, want null", b)
	}

	b, err = json.Marshal(Of(1.5))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "1.5" {
		t.Errorf("Of(1.5) marshals to %s, want 1.5", b)
	}

	var a Amount
	if err := json.Unmarshal([]byte("null"), &a); err != nil {
		t.Fatal(err)
	}
	if !a.IsNA() {
		t.Error("null should unmarshal to NA")
	}
}

// Zero is a real disclosed value, distinct from NA.
func TestZeroIsNotNA(t *testing.T) {
	if Of(0).IsNA() {
		t.Error("Of(0) must not be NA")
	}
	if Of(0).String() == "N/A" {
		t.Error("Of(0) must not render as N/A")
	}
}

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
