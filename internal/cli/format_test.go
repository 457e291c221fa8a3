package cli

import (
	"math"
	"strings"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{1234.5, "$1,234.50"},
		{-1234.5, "-$1,234.50"},
		{1000000, "$1,000,000.00"},
		{-0.001, "$0.00"},
		{math.NaN(), "$0.00"},
		{math.Inf(1), "$0.00"},
		{math.Inf(-1), "$0.00"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSignedMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{250, "+$250.00"},
		{-80.25, "-$80.25"},
		{0, "$0.00"},
	}
	for _, tt := range tests {
		if got := FormatSignedMoney(tt.in); got != tt.want {
			t.Errorf("FormatSignedMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCompactMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{950, "$950"},
		{1234, "$1.2K"},
		{-2500000, "-$2.5M"},
	}
	for _, tt := range tests {
		if got := FormatCompactMoney(tt.in); got != tt.want {
			t.Errorf("FormatCompactMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSetLocale(t *testing.T) {
	t.Cleanup(func() { _ = SetLocale("en-US") })

	if err := SetLocale("de-DE"); err != nil {
		t.Fatal(err)
	}
	if got := FormatMoney(1234.5); got != "$1.234,50" {
		t.Errorf("de-DE FormatMoney = %q, want $1.234,50", got)
	}
	if err := SetLocale("not a locale!"); err == nil {
		t.Error("SetLocale accepted garbage")
	}
}

func TestFormatDays(t *testing.T) {
	if got := FormatDays(1); got != "1 day" {
		t.Errorf("FormatDays(1) = %q", got)
	}
	if got := FormatDays(1500); got != "1,500 days" {
		t.Errorf("FormatDays(1500) = %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	got := RenderSparkline([]float64{-100, 0, 100})
	runes := []rune(got)
	if len(runes) != 3 {
		t.Fatalf("len = %d, want 3", len(runes))
	}
	if runes[0] != '▁' || runes[2] != '█' {
		t.Errorf("sparkline = %q, want lowest then highest block", got)
	}

	flat := RenderSparkline([]float64{5, 5, 5})
	if flat != "███" {
		t.Errorf("flat sparkline = %q", flat)
	}
	if RenderSparkline(nil) != "" {
		t.Error("empty input should render empty")
	}
}

func TestDownsample_KeepsMinimum(t *testing.T) {
	values := []float64{10, 9, -50, 8, 7, 6, 5, 4}
	got := Downsample(values, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != -50 {
		t.Errorf("bucket 0 = %v, want -50", got[0])
	}
	if got[1] != 4 {
		t.Errorf("bucket 1 = %v, want 4", got[1])
	}
}

func TestRenderBalanceChart_ZeroAxis(t *testing.T) {
	out := RenderBalanceChart([]float64{100, 50, -50, -100}, 10, 4)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), out)
	}
	axis := -1
	for i, l := range lines {
		if strings.Contains(l, "$0") {
			axis = i
		}
	}
	if axis != 2 {
		t.Errorf("zero axis on line %d, want 2:\n%s", axis, out)
	}
	if !strings.Contains(lines[0], "█") || !strings.Contains(lines[4], "█") {
		t.Errorf("expected bars above and below the axis:\n%s", out)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Date", "Balance"},
		Rows: [][]string{
			{"2025-01-01", "$10.00"},
			{Separator},
			{"Total", "$1,000.00"},
		},
	})
	if !strings.Contains(out, "2025-01-01") || !strings.Contains(out, "$1,000.00") {
		t.Errorf("missing cells:\n%s", out)
	}
	if strings.Contains(out, Separator) {
		t.Errorf("separator marker rendered literally:\n%s", out)
	}
	if strings.Count(out, "├") != 2 {
		t.Errorf("want header rule and one separator rule:\n%s", out)
	}
}
