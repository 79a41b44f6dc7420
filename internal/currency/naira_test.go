package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain integer", input: "4000", want: "4000"},
		{name: "thousand separators", input: "380,000", want: "380000"},
		{name: "naira sign", input: "₦1,250.5", want: "1250.5"},
		{name: "rounds to kobo", input: "10.005", want: "10.01"},
		{name: "empty", input: " ", wantErr: true},
		{name: "garbage", input: "ten", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %s", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tc.input, err)
			}
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("Parse(%q) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	testCases := []struct {
		value string
		want  string
	}{
		{value: "15000", want: "₦15,000.00"},
		{value: "0", want: "₦0.00"},
		{value: "-2500.5", want: "-₦2,500.50"},
	}

	for _, tc := range testCases {
		got := Format(decimal.RequireFromString(tc.value))
		if got != tc.want {
			t.Errorf("Format(%s) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestFormatDiscrepancy(t *testing.T) {
	if got := FormatDiscrepancy(decimal.Zero); got != "-" {
		t.Errorf("zero discrepancy = %q, want %q", got, "-")
	}
	if got := FormatDiscrepancy(decimal.NewFromInt(15000)); got != "+₦15,000.00" {
		t.Errorf("surplus = %q", got)
	}
	if got := FormatDiscrepancy(decimal.NewFromInt(-100)); got != "-₦100.00" {
		t.Errorf("shortfall = %q", got)
	}
}
