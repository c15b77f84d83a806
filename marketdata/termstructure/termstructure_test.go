package termstructure

import (
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/halvard-quant/fdpricer/calendar"
	"github.com/halvard-quant/fdpricer/fd"
	"github.com/halvard-quant/fdpricer/marketdata/quote"
	"github.com/halvard-quant/fdpricer/swap/curve"
)

func TestFlatDiscountAndZeroRate(t *testing.T) {
	ref := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rate := quote.New(0.05)
	curve := NewFlat(ref, rate)

	t1 := ref.AddDate(1, 0, 0)
	df, err := curve.Discount(t1)
	if err != nil {
		t.Fatalf("Discount: %v", err)
	}
	want := math.Exp(-0.05 * 1)
	if math.Abs(df-want) > 1e-3 {
		t.Errorf("Discount(1y) = %v, want ~%v", df, want)
	}

	zr, err := curve.ZeroRate(t1)
	if err != nil {
		t.Fatalf("ZeroRate: %v", err)
	}
	if zr != 0.05 {
		t.Errorf("ZeroRate = %v, want 0.05", zr)
	}
}

func TestFlatOutOfRangeWithoutExtrapolation(t *testing.T) {
	ref := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	curve := NewFlat(ref, quote.New(0.03))

	_, err := curve.Discount(ref.AddDate(-1, 0, 0))
	if !errors.Is(err, fd.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}

	extrapolating := curve.WithExtrapolation()
	if _, err := extrapolating.Discount(ref.AddDate(-1, 0, 0)); err != nil {
		t.Errorf("WithExtrapolation should suppress ErrOutOfRange, got %v", err)
	}
}

func TestFromSwapCurveDiscountsAgainstBootstrappedCurve(t *testing.T) {
	settlement := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	quotes := map[float64]float64{1: 3.0, 2: 3.2, 3: 3.4, 5: 3.6}
	rawQuotes := make(map[string]float64, len(quotes))
	for tenor, rate := range quotes {
		rawQuotes[tenorLabel(tenor)] = rate
	}

	c := curve.BuildCurve(settlement, rawQuotes, calendar.TARGET, 3)
	ts := NewFromSwapCurve(c, 1)

	if ts.ReferenceDate() != settlement {
		t.Errorf("ReferenceDate() = %v, want %v", ts.ReferenceDate(), settlement)
	}

	mid := settlement.AddDate(2, 0, 0)
	df, err := ts.Discount(mid)
	if err != nil {
		t.Fatalf("Discount: %v", err)
	}
	if df <= 0 || df >= 1 {
		t.Errorf("Discount(2y) = %v, want a value in (0, 1)", df)
	}

	zr, err := ts.ZeroRate(mid)
	if err != nil {
		t.Fatalf("ZeroRate: %v", err)
	}
	if zr <= 0 || zr > 1 {
		t.Errorf("ZeroRate(2y) = %v, want a small positive decimal rate", zr)
	}

	if ts.Version() != 1 {
		t.Errorf("Version() = %d, want 1", ts.Version())
	}
}

func TestFromSwapCurveOutOfRangeWithoutExtrapolation(t *testing.T) {
	settlement := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	c := curve.BuildCurve(settlement, map[string]float64{"1Y": 3.0, "2Y": 3.2, "3Y": 3.4, "5Y": 3.6}, calendar.TARGET, 3)
	ts := NewFromSwapCurve(c, 1)

	if _, err := ts.Discount(settlement.AddDate(-1, 0, 0)); !errors.Is(err, fd.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for a date before settlement, got %v", err)
	}

	extrapolating := ts.WithExtrapolation()
	if _, err := extrapolating.Discount(settlement.AddDate(-1, 0, 0)); err != nil {
		t.Errorf("WithExtrapolation should suppress ErrOutOfRange, got %v", err)
	}
}

func tenorLabel(years float64) string {
	if years == math.Trunc(years) {
		return strconv.Itoa(int(years)) + "Y"
	}
	return strconv.Itoa(int(years*12)) + "M"
}

func TestFlatVersionTracksQuote(t *testing.T) {
	rate := quote.New(0.04)
	curve := NewFlat(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), rate)
	v0 := curve.Version()
	rate.Set(0.045)
	if curve.Version() == v0 {
		t.Error("curve Version() did not reflect underlying Quote version change")
	}
}
