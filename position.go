package degiro

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Position accumulates everything that happened to one instrument.
type Position struct {
	// Shares is the number of shares currently held. It never goes negative.
	Shares int64
	// CostBasis is the net cash flow of all buys and sells, negative when
	// more was spent than received.
	CostBasis decimal.Decimal
	Dividends decimal.Decimal
	Fees      decimal.Decimal

	// Opened is the date of the first buy since the position was last flat,
	// LastTrade the date of the latest trade. Both are zero when the export
	// carries no dates.
	Opened    time.Time
	LastTrade time.Time
}

// Buy adds shares bought at unitPrice. A buy that would take the holding
// past math.MaxInt64 shares is an error and leaves the position untouched.
func (p *Position) Buy(shares int64, unitPrice decimal.Decimal) error {
	if shares > math.MaxInt64-p.Shares {
		return fmt.Errorf("%w: buying %d, holding %d", ErrShareCountOverflow, shares, p.Shares)
	}
	p.Shares += shares
	p.CostBasis = p.CostBasis.Sub(unitPrice.Mul(decimal.NewFromInt(shares)))
	return nil
}

// Sell removes shares sold at unitPrice. Selling more than is held is an
// error and leaves the position untouched.
func (p *Position) Sell(shares int64, unitPrice decimal.Decimal) error {
	if shares > p.Shares {
		return fmt.Errorf("%w: selling %d, holding %d", ErrShortSellAttempted, shares, p.Shares)
	}
	p.Shares -= shares
	p.CostBasis = p.CostBasis.Add(unitPrice.Mul(decimal.NewFromInt(shares)))
	return nil
}

func (p *Position) AddDividend(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: dividend of %s", ErrNegativeAmount, amount)
	}
	p.Dividends = p.Dividends.Add(amount)
	return nil
}

func (p *Position) AddFee(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: fee of %s", ErrNegativeAmount, amount)
	}
	p.Fees = p.Fees.Add(amount)
	return nil
}

// Closed reports whether no shares are held.
func (p *Position) Closed() bool {
	return p.Shares == 0
}

// GainLoss returns the realized result of a closed position, dividends and
// fees included.
func (p *Position) GainLoss() (decimal.Decimal, error) {
	if !p.Closed() {
		return decimal.Zero, fmt.Errorf("%w: %d shares held", ErrUnclosedPositionGainQuery, p.Shares)
	}
	return p.CostBasis.Add(p.Dividends).Sub(p.Fees), nil
}

// HoldingPeriod returns how long a closed position was held, from the first
// buy of the last holding run to the sale that closed it.
func (p *Position) HoldingPeriod() (time.Duration, bool) {
	if !p.Closed() || p.Opened.IsZero() || p.LastTrade.IsZero() {
		return 0, false
	}
	return p.LastTrade.Sub(p.Opened), true
}

// Describe renders the gain/loss of a closed position, or the invested
// capital, dividends and fees of an open one.
func (p *Position) Describe() string {
	if gain, err := p.GainLoss(); err == nil {
		return fmt.Sprintf("Total gain/loss of %10s", gain.StringFixedBank(2))
	}
	return fmt.Sprintf("Current share investment: %10s, dividends: %10s, fees: %10s",
		p.CostBasis.Neg().StringFixedBank(2),
		p.Dividends.StringFixedBank(2),
		p.Fees.StringFixedBank(2))
}

// trade applies a trade dated on date. A zero date leaves the dates alone.
func (p *Position) trade(t Trade, date time.Time) error {
	wasClosed := p.Closed()
	switch t.Side {
	case Buy:
		if err := p.Buy(t.Shares, t.UnitPrice); err != nil {
			return err
		}
	case Sell:
		if err := p.Sell(t.Shares, t.UnitPrice); err != nil {
			return err
		}
	}
	if !date.IsZero() {
		if wasClosed && t.Side == Buy {
			p.Opened = date
		}
		p.LastTrade = date
	}
	return nil
}
