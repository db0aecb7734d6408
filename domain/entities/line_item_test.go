package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputePayout_FloorsFractionalPoints(t *testing.T) {
	tests := []struct {
		name     string
		stake    int64
		odds     string
		expected int64
	}{
		{"whole result", 1000, "2.4", 2400},
		{"fraction drops", 333, "1.5", 499},
		{"even money", 1000, "1", 1000},
		{"long odds", 100, "9.9", 990},
		{"tiny stake fraction drops", 1, "1.5", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			odds := decimal.RequireFromString(tt.odds)
			assert.Equal(t, tt.expected, ComputePayout(tt.stake, odds))
		})
	}
}

func TestBettingLineItem_PayoutFor(t *testing.T) {
	odds := decimal.NewFromFloat(2.4)
	item := &BettingLineItem{StakeAmount: 1000, Odds: &odds}
	assert.Equal(t, int64(2400), item.PayoutFor())

	item.Odds = nil
	assert.Equal(t, int64(0), item.PayoutFor())
}

func TestBettingLineItem_IsOpen(t *testing.T) {
	item := &BettingLineItem{Status: LineItemPending}
	assert.True(t, item.IsOpen())

	for _, status := range []LineItemStatus{LineItemWon, LineItemLost, LineItemRefunded} {
		item.Status = status
		assert.False(t, item.IsOpen(), "status %s", status)
	}
}
