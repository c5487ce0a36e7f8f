package degiro

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Portfolio holds one Position per instrument name. Names match exactly,
// case and whitespace included.
type Portfolio struct {
	positions map[string]*Position
	names     []string
}

// Totals are the portfolio-wide figures derived from all positions.
type Totals struct {
	// GainLoss only sums closed positions.
	GainLoss  decimal.Decimal
	Fees      decimal.Decimal
	Dividends decimal.Decimal
	Open      int
	Closed    int
}

func NewPortfolio() *Portfolio {
	return &Portfolio{positions: make(map[string]*Position)}
}

// Lookup returns the position of name without creating it.
func (pf *Portfolio) Lookup(name string) (*Position, bool) {
	p, ok := pf.positions[name]
	return p, ok
}

// GetOrInsert returns the position of name, creating an empty one on first
// reference.
func (pf *Portfolio) GetOrInsert(name string) *Position {
	if p, ok := pf.positions[name]; ok {
		return p
	}
	p := &Position{}
	pf.positions[name] = p
	pf.names = append(pf.names, name)
	return p
}

// Names returns instrument names in the order they were first referenced.
func (pf *Portfolio) Names() []string {
	return append([]string(nil), pf.names...)
}

func (pf *Portfolio) Len() int {
	return len(pf.names)
}

// Apply applies the event classified from rec to the position of
// rec.Product. Ignored events touch nothing. A trade whose date cell did not
// parse is rejected.
func (pf *Portfolio) Apply(rec RawRecord, ev Event) error {
	switch e := ev.(type) {
	case Ignored:
		return nil
	case Fee:
		return pf.GetOrInsert(rec.Product).AddFee(e.Amount)
	case Dividend:
		return pf.GetOrInsert(rec.Product).AddDividend(e.Amount)
	case Trade:
		if rec.Date.IsZero() && rec.DateText != "" {
			return fmt.Errorf("%w: %q", ErrInvalidDate, rec.DateText)
		}
		return pf.GetOrInsert(rec.Product).trade(e, rec.Date)
	default:
		return fmt.Errorf("unknown event %T", ev)
	}
}

// Totals sums fees and dividends over every position and gain/loss over
// closed positions.
func (pf *Portfolio) Totals() Totals {
	var t Totals
	for _, name := range pf.names {
		p := pf.positions[name]
		t.Fees = t.Fees.Add(p.Fees)
		t.Dividends = t.Dividends.Add(p.Dividends)
		if gain, err := p.GainLoss(); err == nil {
			t.GainLoss = t.GainLoss.Add(gain)
			t.Closed++
		} else {
			t.Open++
		}
	}
	return t
}

// Process classifies and applies records, which must be in chronological
// order. It stops at the first record that cannot be classified or applied.
func Process(records []RawRecord, c *Classifier) (*Portfolio, error) {
	pf := NewPortfolio()
	for _, rec := range records {
		ev, err := c.Classify(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: unable to classify record: %w", rec.Line, err)
		}
		if err := pf.Apply(rec, ev); err != nil {
			return nil, fmt.Errorf("line %d: unable to apply %s: %w", rec.Line, rec.Description, err)
		}
	}
	return pf, nil
}
