package game

import (
	"math"
	"testing"
)

func TestSaleProbability(t *testing.T) {
	product := Product{Key: "item_cola", BaseDemand: 0.10}
	zone := Zone{
		TrafficMultiplier: 1.5,
		DemandCurve:       map[int]float64{8: 2.0, 12: 3.0},
	}

	cases := []struct {
		name string
		hour int
		want float64
	}{
		{"listed hour", 8, 0.10 * 2.0 * 1.5},
		{"another listed hour", 12, 0.10 * 3.0 * 1.5},
		{"unlisted hour falls back to 1.0", 3, 0.10 * 1.0 * 1.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SaleProbability(product, zone, tc.hour)
			if math.Abs(got-tc.want) > 1e-12 {
				t.Fatalf("SaleProbability(hour=%d) = %v, want %v", tc.hour, got, tc.want)
			}
		})
	}
}

func TestSaleProbabilityClamped(t *testing.T) {
	hot := Product{Key: "x", BaseDemand: 0.9}
	zone := Zone{TrafficMultiplier: 5.0, DemandCurve: map[int]float64{9: 4.0}}
	if got := SaleProbability(hot, zone, 9); got != 1.0 {
		t.Fatalf("over-unity probability not clamped: %v", got)
	}

	negative := Product{Key: "y", BaseDemand: -0.5}
	if got := SaleProbability(negative, zone, 9); got != 0.0 {
		t.Fatalf("negative probability not clamped: %v", got)
	}
}
