package pricing

import (
	"fmt"
	"time"

	"github.com/halvard-quant/fdpricer/marketdata/krx"
	"github.com/halvard-quant/fdpricer/marketdata/quote"
)

// RateQuoteFromFixing resolves a risk-free rate Quote from a recorded
// reference-rate fixing (e.g. CD91) instead of a live quote feed, for
// pricing runs where the short rate is sourced from the same historical
// fixing series the swap desk's floating legs reset against.
func RateQuoteFromFixing(feed krx.ReferenceRateFeed, date time.Time) (*quote.Quote, error) {
	rate, ok := feed.RateOn(date)
	if !ok {
		return nil, fmt.Errorf("pricing: no fixing recorded for %s", date.Format("2006-01-02"))
	}
	return quote.New(rate), nil
}
