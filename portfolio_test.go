package degiro

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestPortfolioGetOrInsert(t *testing.T) {
	pf := NewPortfolio()
	if _, ok := pf.Lookup("FOO"); ok {
		t.Fatal("lookup created a position")
	}

	p := pf.GetOrInsert("FOO")
	if p == nil || p.Shares != 0 || !p.CostBasis.IsZero() {
		t.Fatalf("expected an empty position, got %+v", p)
	}
	if again := pf.GetOrInsert("FOO"); again != p {
		t.Error("second GetOrInsert returned a different position")
	}
	if got, ok := pf.Lookup("FOO"); !ok || got != p {
		t.Error("lookup did not find the inserted position")
	}

	// names are matched exactly
	pf.GetOrInsert("foo")
	pf.GetOrInsert("FOO ")
	if want := []string{"FOO", "foo", "FOO "}; !reflect.DeepEqual(pf.Names(), want) {
		t.Errorf("names %q, want %q", pf.Names(), want)
	}
	if pf.Len() != 3 {
		t.Errorf("len %d, want 3", pf.Len())
	}
}

func TestProcess(t *testing.T) {
	buy := RawRecord{Line: 3, Product: "FOO", Description: "Buy 28 FOO@4,070 GBX (GB0001639920)", Currency: GBP, Amount: amount("-1139.60")}
	sell := RawRecord{Line: 2, Product: "FOO", Description: "Sell 28 FOO@4,500 GBX (GB0001639920)", Currency: GBP, Amount: amount("1260.00")}

	tests := []struct {
		name    string
		records []RawRecord
		err     error
		errLine string
		check   func(t *testing.T, pf *Portfolio)
	}{
		{
			name:    "round trip",
			records: []RawRecord{buy, sell},
			check: func(t *testing.T, pf *Portfolio) {
				p, ok := pf.Lookup("FOO")
				if !ok {
					t.Fatal("missing position")
				}
				if !p.Closed() {
					t.Fatalf("position still holds %d shares", p.Shares)
				}
				gain, err := p.GainLoss()
				if err != nil || !gain.Equal(dec("120.40")) {
					t.Errorf("gain/loss %s (%v), want 120.40", gain, err)
				}
			},
		},
		{
			name:    "newest first order short sells",
			records: []RawRecord{sell, buy},
			err:     ErrShortSellAttempted,
			errLine: "line 2:",
		},
		{
			name: "sell of never bought instrument",
			records: []RawRecord{
				{Line: 7, Product: "BAR", Description: "Sell 1 BAR@100 GBP", Currency: GBP},
			},
			err:     ErrShortSellAttempted,
			errLine: "line 7:",
		},
		{
			name: "ignored records create nothing",
			records: []RawRecord{
				{Line: 2, Product: "MORGAN STANLEY GBP LIQUIDITY", Description: "Fund Distribution", Currency: GBP, Amount: amount("0.12")},
				{Line: 3, Description: "Deposit", Currency: GBP, Amount: amount("100")},
			},
			check: func(t *testing.T, pf *Portfolio) {
				if pf.Len() != 0 {
					t.Errorf("ignored records created positions %q", pf.Names())
				}
			},
		},
		{
			name: "dividend in unsupported currency",
			records: []RawRecord{
				{Line: 4, Product: "BAZ NV", Description: "Dividend", Currency: "EUR", Amount: amount("3")},
			},
			err:     ErrUnrecognizedCurrency,
			errLine: "line 4:",
		},
		{
			name: "fee refund",
			records: []RawRecord{
				{Line: 5, Product: "FOO", Description: "DEGIRO Transaction and/or third party fees", Currency: GBP, Amount: amount("1.00")},
			},
			err:     ErrNegativeAmount,
			errLine: "line 5:",
		},
		{
			name: "share count overflow",
			records: []RawRecord{
				{Line: 2, Product: "FOO", Description: "Buy 9,223,372,036,854,775,807 FOO@1 GBP (GB0000000001)", Currency: GBP},
				{Line: 3, Product: "FOO", Description: "Buy 1 FOO@1 GBP (GB0000000001)", Currency: GBP},
			},
			err:     ErrShareCountOverflow,
			errLine: "line 3:",
		},
		{
			name: "padded product is its own instrument",
			records: []RawRecord{
				{Line: 2, Product: "FOO", Description: "Buy 5 FOO@1 GBP", Currency: GBP},
				{Line: 3, Product: " FOO", Description: "Sell 5 FOO@1 GBP", Currency: GBP},
			},
			err:     ErrShortSellAttempted,
			errLine: "line 3:",
		},
		{
			name: "whitespace around product names",
			records: []RawRecord{
				{Line: 2, Product: "FOO", Description: "Buy 5 FOO@1 GBP", Currency: GBP},
				{Line: 3, Product: "FOO ", Description: "Buy 2 FOO@1 GBP", Currency: GBP},
				{Line: 4, Product: " FOO", Description: "Dividend", Currency: GBP, Amount: amount("1")},
			},
			check: func(t *testing.T, pf *Portfolio) {
				if want := []string{"FOO", "FOO ", " FOO"}; !reflect.DeepEqual(pf.Names(), want) {
					t.Fatalf("names %q, want %q", pf.Names(), want)
				}
				foo, _ := pf.Lookup("FOO")
				padded, _ := pf.Lookup("FOO ")
				if foo.Shares != 5 || padded.Shares != 2 {
					t.Errorf("shares %d/%d, want 5/2", foo.Shares, padded.Shares)
				}
			},
		},
		{
			name: "missing instrument",
			records: []RawRecord{
				{Line: 9, Description: "Dividend", Currency: GBP, Amount: amount("1.00")},
			},
			err:     ErrMissingInstrumentName,
			errLine: "line 9:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf, err := Process(tt.records, NewClassifier())
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("expected error %v, got %v", tt.err, err)
				}
				if !strings.HasPrefix(err.Error(), tt.errLine) {
					t.Errorf("error %q does not start with %q", err, tt.errLine)
				}
				if pf != nil {
					t.Error("expected no portfolio on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, pf)
		})
	}
}

func TestPortfolioTotals(t *testing.T) {
	pf := NewPortfolio()
	apply := func(rec RawRecord) {
		t.Helper()
		ev, err := NewClassifier().Classify(rec)
		if err != nil {
			t.Fatal(err)
		}
		if err := pf.Apply(rec, ev); err != nil {
			t.Fatal(err)
		}
	}

	apply(RawRecord{Product: "FOO", Description: "Buy 28 FOO@4,070 GBX", Currency: GBP})
	apply(RawRecord{Product: "BAR", Description: "Buy 1 BAR@10 GBP", Currency: GBP})
	apply(RawRecord{Product: "FOO", Description: "London/Dublin Stamp Duty", Currency: GBP, Amount: amount("-5")})
	apply(RawRecord{Product: "BAR", Description: "DEGIRO Transaction and/or third party fees", Currency: GBP, Amount: amount("-1")})
	apply(RawRecord{Product: "FOO", Description: "Dividend", Currency: GBP, Amount: amount("10")})
	apply(RawRecord{Product: "BAR", Description: "Dividend", Currency: USD, Amount: amount("2.7026")})
	apply(RawRecord{Product: "FOO", Description: "Sell 28 FOO@4,500 GBX", Currency: GBP})

	totals := pf.Totals()
	if !totals.GainLoss.Equal(dec("125.40")) {
		t.Errorf("gain/loss %s, want 125.40", totals.GainLoss)
	}
	if !totals.Fees.Equal(dec("6")) {
		t.Errorf("fees %s, want 6", totals.Fees)
	}
	if !totals.Dividends.Equal(dec("12")) {
		t.Errorf("dividends %s, want 12", totals.Dividends)
	}
	if totals.Closed != 1 || totals.Open != 1 {
		t.Errorf("closed/open %d/%d, want 1/1", totals.Closed, totals.Open)
	}
	if want := []string{"FOO", "BAR"}; !reflect.DeepEqual(pf.Names(), want) {
		t.Errorf("names %q, want %q", pf.Names(), want)
	}
}
