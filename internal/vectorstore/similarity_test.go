package vectorstore

import (
	"math"
	"testing"
)

func TestPercent_L2Squared(t *testing.T) {
	tests := []struct {
		name string
		d    float64
		want float64
	}{
		{name: "identical vectors", d: 0, want: 100},
		{name: "orthogonal vectors", d: 2, want: 0},
		{name: "opposite vectors", d: 4, want: -100},
		{name: "halfway", d: 1, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percent(tt.d, KindL2Squared)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Percent(%v, KindL2Squared) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestPercent_Cosine(t *testing.T) {
	tests := []struct {
		name string
		s    float64
		want float64
	}{
		{name: "perfect match", s: 1, want: 100},
		{name: "typical catalog score", s: 0.8732, want: 87.32},
		{name: "zero", s: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percent(tt.s, KindCosine)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Percent(%v, KindCosine) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

// Out-of-range inputs pass through unclamped; formatting happens downstream
// regardless of range.
func TestPercent_NoClamping(t *testing.T) {
	if got := Percent(1.2, KindCosine); got != 120 {
		t.Errorf("Percent(1.2, KindCosine) = %v, want 120 (unclamped)", got)
	}
	if got := Percent(6, KindL2Squared); got != -200 {
		t.Errorf("Percent(6, KindL2Squared) = %v, want -200 (unclamped)", got)
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{p: 87.32, want: "87.32%"},
		{p: 100, want: "100.00%"},
		{p: 0, want: "0.00%"},
		{p: 91.005, want: "91.00%"}, // banker-free %.2f rounding
		{p: -3.5, want: "-3.50%"},
	}

	for _, tt := range tests {
		if got := FormatPercent(tt.p); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

// Round-trip: a native similarity of 0.8732 must render as "87.32%".
func TestPercentFormatting_RoundTrip(t *testing.T) {
	got := FormatPercent(Percent(0.8732, KindCosine))
	if got != "87.32%" {
		t.Errorf("formatted similarity = %q, want %q", got, "87.32%")
	}
}
