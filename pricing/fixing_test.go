package pricing

import (
	"testing"
	"time"

	"github.com/halvard-quant/fdpricer/marketdata/krx"
)

func TestRateQuoteFromFixing(t *testing.T) {
	feed := krx.NewMapReferenceRateFeed(map[string]float64{"2026-01-02": 0.035})

	q, err := RateQuoteFromFixing(feed, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("RateQuoteFromFixing: %v", err)
	}
	if q.Value() != 0.035 {
		t.Errorf("Value() = %v, want 0.035", q.Value())
	}
}

func TestRateQuoteFromFixingMissingDate(t *testing.T) {
	feed := krx.NewMapReferenceRateFeed(nil)

	if _, err := RateQuoteFromFixing(feed, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Fatal("expected error for missing fixing, got nil")
	}
}
