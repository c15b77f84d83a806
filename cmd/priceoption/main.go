// Command priceoption reads a vanilla/American/dividend option
// description plus a flat market snapshot as JSON, prices it with the
// finite-difference engine, and prints NPV/Greeks, reading JSON from
// stdin and writing JSON to stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/halvard-quant/fdpricer/marketdata/krx"
	"github.com/halvard-quant/fdpricer/marketdata/quote"
	"github.com/halvard-quant/fdpricer/pricing"
	"github.com/halvard-quant/fdpricer/pricing/config"
)

// Input is the JSON schema this command accepts.
type Input struct {
	Kind   string  `json:"kind"`   // european | american | shout
	Type   string  `json:"type"`   // call | put
	Strike float64 `json:"strike"`
	Expiry float64 `json:"expiry_years"`

	Spot  float64 `json:"spot"`
	Rate  float64 `json:"rate"`
	Yield float64 `json:"dividend_yield"`
	Vol   float64 `json:"vol"`

	// RateFixingDate, when set, sources Rate from a recorded CD91 fixing
	// instead of the literal "rate" field above. RateFixingDSN points at
	// a Postgres-backed krx.FixingRepository; when empty, the bundled
	// in-memory CD91 fixings (krx.DefaultReferenceFeed) are used instead.
	RateFixingDate string `json:"rate_fixing_date,omitempty"`
	RateFixingDSN  string `json:"rate_fixing_dsn,omitempty"`

	Dividends []struct {
		TimeYears float64 `json:"time_years"`
		Amount    float64 `json:"amount"`
	} `json:"dividends"`
	ShoutTimesYears []float64 `json:"shout_times_years"`
}

// Output is the JSON schema this command prints when stdout is not a
// terminal.
type Output struct {
	RunID string  `json:"run_id"`
	NPV   float64 `json:"npv"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
	Vega  float64 `json:"vega"`
	Error string  `json:"error,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	inputBytes, err := readInput(stdin, args)
	if err != nil {
		log.SetOutput(stderr)
		log.Printf("failed to read input: %v", err)
		return 2
	}

	var in Input
	if err := json.Unmarshal(inputBytes, &in); err != nil {
		fmt.Fprintln(stdout, mustJSON(Output{Error: fmt.Sprintf("invalid JSON input: %v", err)}))
		return 1
	}

	result, err := price(in)
	if err != nil {
		fmt.Fprintln(stdout, mustJSON(Output{Error: err.Error()}))
		return 1
	}

	if f, ok := stdout.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		printTable(stdout, in, result)
	} else {
		fmt.Fprintln(stdout, mustJSON(toOutput(result)))
	}
	return 0
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(stdin)
}

func price(in Input) (pricing.Result, error) {
	instrument := pricing.Instrument{
		Strike: in.Strike,
		Expiry: in.Expiry,
	}
	switch strings.ToLower(in.Type) {
	case "put":
		instrument.Type = pricing.Put
	default:
		instrument.Type = pricing.Call
	}
	switch strings.ToLower(in.Kind) {
	case "american":
		instrument.Kind = pricing.American
	case "shout":
		instrument.Kind = pricing.Shout
		instrument.ShoutTimes = in.ShoutTimesYears
	default:
		instrument.Kind = pricing.European
	}
	for _, d := range in.Dividends {
		instrument.Dividends = append(instrument.Dividends, pricing.CashDividend{Time: d.TimeYears, Amount: d.Amount})
	}

	rateQuote, err := rateQuoteFor(in)
	if err != nil {
		return pricing.Result{}, err
	}

	market := pricing.MarketData{
		Spot:  quote.New(in.Spot),
		Rate:  rateQuote,
		Yield: quote.New(in.Yield),
		Vol:   quote.New(in.Vol),
	}

	engine := pricing.NewEngine(config.DefaultConfig)
	return engine.PriceWithGreeks(context.Background(), instrument, market)
}

// rateQuoteFor resolves the risk-free rate Quote, either from the literal
// "rate" field or from a recorded CD91 fixing when rate_fixing_date is set.
func rateQuoteFor(in Input) (*quote.Quote, error) {
	if in.RateFixingDate == "" {
		return quote.New(in.Rate), nil
	}

	date, err := time.Parse("2006-01-02", in.RateFixingDate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate_fixing_date %q: %w", in.RateFixingDate, err)
	}

	feed := krx.DefaultReferenceFeed()
	if in.RateFixingDSN != "" {
		repo, err := krx.OpenFixingRepository(in.RateFixingDSN)
		if err != nil {
			return nil, err
		}
		defer repo.Close()
		feed = repo.Feed("CD91")
	}

	return pricing.RateQuoteFromFixing(feed, date)
}

func toOutput(r pricing.Result) Output {
	return Output{
		RunID: r.RunID,
		NPV:   r.NPV,
		Delta: r.Delta,
		Gamma: r.Gamma,
		Theta: r.Theta,
		Rho:   r.Rho,
		Vega:  r.Vega,
	}
}

func printTable(w io.Writer, in Input, r pricing.Result) {
	fmt.Fprintf(w, "run:   %s\n", r.RunID)
	fmt.Fprintf(w, "spot:  %s\n", humanize.CommafWithDigits(in.Spot, 4))
	fmt.Fprintf(w, "npv:   %s\n", humanize.CommafWithDigits(r.NPV, 6))
	fmt.Fprintf(w, "delta: %s\n", humanize.CommafWithDigits(r.Delta, 6))
	fmt.Fprintf(w, "gamma: %s\n", humanize.CommafWithDigits(r.Gamma, 6))
	fmt.Fprintf(w, "theta: %s\n", humanize.CommafWithDigits(r.Theta, 6))
	fmt.Fprintf(w, "rho:   %s\n", humanize.CommafWithDigits(r.Rho, 6))
	fmt.Fprintf(w, "vega:  %s\n", humanize.CommafWithDigits(r.Vega, 6))
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal output: %v"}`, err)
	}
	return string(b)
}
