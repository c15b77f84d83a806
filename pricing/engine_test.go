package pricing

import (
	"context"
	"math"
	"testing"

	"github.com/halvard-quant/fdpricer/marketdata/quote"
	"github.com/halvard-quant/fdpricer/pricing/config"
)

func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// blackScholesCall/Put are the closed-form reference prices, used only
// by tests to sanity-check the PDE solver against the analytic formula.
func blackScholesCall(s, k, r, q, sigma, t float64) float64 {
	d1 := (math.Log(s/k) + (r-q+0.5*sigma*sigma)*t) / (sigma * math.Sqrt(t))
	d2 := d1 - sigma*math.Sqrt(t)
	return s*math.Exp(-q*t)*normCDF(d1) - k*math.Exp(-r*t)*normCDF(d2)
}

func blackScholesPut(s, k, r, q, sigma, t float64) float64 {
	call := blackScholesCall(s, k, r, q, sigma, t)
	return call - s*math.Exp(-q*t) + k*math.Exp(-r*t)
}

func flatMarket(spot, rate, yield, vol float64) MarketData {
	return MarketData{
		Spot:  quote.New(spot),
		Rate:  quote.New(rate),
		Yield: quote.New(yield),
		Vol:   quote.New(vol),
	}
}

func testConfig(gridPoints, steps int) config.Config {
	cfg := config.DefaultConfig
	cfg.DefaultGridPoints = gridPoints
	cfg.DefaultTimeSteps = steps
	cfg.GridHalfWidthSigmas = 4.0
	return cfg
}

func TestEuropeanCallAnalyticSanity(t *testing.T) {
	engine := NewEngine(testConfig(500, 500))
	instrument := Instrument{Kind: European, Type: Call, Strike: 100, Expiry: 1}
	market := flatMarket(100, 0.05, 0, 0.20)

	result, err := engine.PriceWithGreeks(context.Background(), instrument, market)
	if err != nil {
		t.Fatalf("PriceWithGreeks: %v", err)
	}
	if math.Abs(result.NPV-10.4506) > 1e-2 {
		t.Errorf("NPV = %v, want ~10.4506", result.NPV)
	}
	if math.Abs(result.Delta-0.6368) > 2e-2 {
		t.Errorf("Delta = %v, want ~0.6368", result.Delta)
	}
	if math.Abs(result.Gamma-0.0188) > 5e-3 {
		t.Errorf("Gamma = %v, want ~0.0188", result.Gamma)
	}
}

func TestEuropeanPutCallParity(t *testing.T) {
	engine := NewEngine(testConfig(500, 500))
	market := flatMarket(100, 0.05, 0, 0.20)

	call, err := engine.Price(context.Background(), Instrument{Kind: European, Type: Call, Strike: 100, Expiry: 1}, market)
	if err != nil {
		t.Fatalf("Price(call): %v", err)
	}
	put, err := engine.Price(context.Background(), Instrument{Kind: European, Type: Put, Strike: 100, Expiry: 1}, market)
	if err != nil {
		t.Fatalf("Price(put): %v", err)
	}
	if math.Abs(put.NPV-5.5735) > 1e-2 {
		t.Errorf("put NPV = %v, want ~5.5735", put.NPV)
	}
	gotParity := call.NPV - put.NPV
	wantParity := 100 - 100*math.Exp(-0.05*1)
	if math.Abs(gotParity-wantParity) > 1e-2 {
		t.Errorf("call-put = %v, want S-K*e^-rT = %v", gotParity, wantParity)
	}
}

func TestAmericanPutEarlyExercisePremium(t *testing.T) {
	engine := NewEngine(testConfig(400, 400))
	market := flatMarket(100, 0.05, 0, 0.30)

	american, err := engine.Price(context.Background(), Instrument{Kind: American, Type: Put, Strike: 110, Expiry: 0.5}, market)
	if err != nil {
		t.Fatalf("Price(american put): %v", err)
	}
	european := blackScholesPut(100, 110, 0.05, 0, 0.30, 0.5)

	if american.NPV-european < 0.02 {
		t.Errorf("American put premium = %v, want >= 0.02 above European (%v vs %v)", american.NPV-european, american.NPV, european)
	}
}

func TestDividendCallMatchesEscrowedBenchmark(t *testing.T) {
	engine := NewEngine(testConfig(500, 500))
	market := flatMarket(100, 0.05, 0, 0.20)
	instrument := Instrument{
		Kind:      European,
		Type:      Call,
		Strike:    100,
		Expiry:    1,
		Dividends: []CashDividend{{Time: 0.5, Amount: 5}},
	}
	result, err := engine.Price(context.Background(), instrument, market)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	// Escrowed-dividend benchmark: discount the dividend out of spot and
	// price a vanilla European call on the reduced forward.
	escrowedSpot := 100 - 5*math.Exp(-0.05*0.5)
	benchmark := blackScholesCall(escrowedSpot, 100, 0.05, 0, 0.20, 1)

	if math.Abs(result.NPV-benchmark) > 0.5 {
		t.Errorf("dividend call NPV = %v, want within 0.5 of escrowed benchmark %v", result.NPV, benchmark)
	}
}

func TestGridRefinementConvergence(t *testing.T) {
	market := flatMarket(100, 0.05, 0, 0.20)
	instrument := Instrument{Kind: European, Type: Call, Strike: 100, Expiry: 1}
	analytic := blackScholesCall(100, 100, 0.05, 0, 0.20, 1)

	sizes := []int{50, 100, 200, 400}
	var errs []float64
	for _, n := range sizes {
		engine := NewEngine(testConfig(n, n))
		result, err := engine.Price(context.Background(), instrument, market)
		if err != nil {
			t.Fatalf("Price(N=%d): %v", n, err)
		}
		errs = append(errs, math.Abs(result.NPV-analytic))
	}
	for i := 1; i < len(errs); i++ {
		if errs[i-1] == 0 {
			continue
		}
		ratio := errs[i-1] / errs[i]
		if ratio < 1.5 {
			t.Errorf("error did not shrink fast enough refining N=%d->%d: %v -> %v (ratio %v)", sizes[i-1], sizes[i], errs[i-1], errs[i], ratio)
		}
	}
}

func TestForwardEulerCFLViolationDiverges(t *testing.T) {
	// The engine itself always uses Crank-Nicolson/Rannacher internally;
	// this test exercises the ForwardEuler scheme directly against the
	// same European call to demonstrate the CFL stability threshold
	// spec.md §8 scenario 6 describes, independent of the engine wrapper.
	market := flatMarket(100, 0.05, 0, 0.20)
	analytic := blackScholesCall(100, 100, 0.05, 0, 0.20, 1)

	unstable := forwardEulerPrice(t, market, 200, 50)
	if math.Abs(unstable-analytic) <= 1.0 {
		t.Errorf("expected CFL-violating ForwardEuler run to diverge (|err|>1.0), got err=%v", math.Abs(unstable-analytic))
	}

	stable := forwardEulerPrice(t, market, 200, 5000)
	if math.Abs(stable-analytic) >= 0.05 {
		t.Errorf("expected CFL-satisfying ForwardEuler run to be accurate (|err|<0.05), got err=%v", math.Abs(stable-analytic))
	}
}
