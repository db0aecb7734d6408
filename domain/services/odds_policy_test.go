package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFlatMarginPolicy_AdjustOdds(t *testing.T) {
	policy := DefaultOddsPolicy()

	tests := []struct {
		name     string
		raw      float64
		expected string
	}{
		{"typical odds lose the margin", 2.5, "2.4"},
		{"long odds lose the margin", 10.0, "9.9"},
		{"close to even money hits the floor", 1.05, "1"},
		{"exactly at the floor", 1.1, "1"},
		{"just above the floor", 1.11, "1.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adjusted := policy.AdjustOdds(decimal.NewFromFloat(tt.raw))
			assert.True(t, adjusted.Equal(decimal.RequireFromString(tt.expected)),
				"got %s, want %s", adjusted, tt.expected)
		})
	}
}
