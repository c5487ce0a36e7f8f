package degiro

import (
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is an ISO-style currency code as found in the export.
type Currency string

const (
	GBP Currency = money.GBP
	USD Currency = money.USD
	// GBX is pence sterling, quoted by the London exchange. It is not an
	// ISO 4217 code and is always normalized to GBP before accumulation.
	GBX Currency = "GBX"
)

// Side is the direction of a trade.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "Sell"
	}
	return "Buy"
}

// RawRecord is one row of the account export.
type RawRecord struct {
	// Line is the 1-based row number in the source file, header included.
	Line        int
	Date        time.Time
	Product     string
	Description string
	Currency    Currency
	// Amount is invalid when the cell was blank or not a decimal.
	Amount decimal.NullDecimal

	// AmountText and DateText hold the cells as read. A cell that does not
	// parse leaves Amount or Date unset, and only fails the record once an
	// event needs the value.
	AmountText string
	DateText   string
}

// Event is the classified form of a RawRecord. It is one of Ignored, Fee,
// Dividend or Trade.
type Event interface {
	isEvent()
}

// Ignored is a record that does not affect any position.
type Ignored struct{}

// Fee is a transaction fee or stamp duty, stored as a positive magnitude in GBP.
type Fee struct {
	Amount decimal.Decimal
}

// Dividend holds a dividend payment. Amount is normalized to GBP, Currency is
// the currency it was paid in.
type Dividend struct {
	Amount   decimal.Decimal
	Currency Currency
}

// Trade is a buy or sell of whole shares. UnitPrice is in GBP major units,
// PriceCurrency is the currency the price was quoted in.
type Trade struct {
	Side          Side
	Shares        int64
	UnitPrice     decimal.Decimal
	PriceCurrency Currency
}

func (Ignored) isEvent()  {}
func (Fee) isEvent()      {}
func (Dividend) isEvent() {}
func (Trade) isEvent()    {}
