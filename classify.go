package degiro

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultUSDPerGBP is the static exchange rate applied to every USD dividend.
var DefaultUSDPerGBP = decimal.RequireFromString("1.3513")

const (
	descDividend          = "Dividend"
	descTransactionFee    = "DEGIRO Transaction and/or third party fees"
	descStampDuty         = "London/Dublin Stamp Duty"
	prefixMoneyMarketFund = "Money Market fund conversion"
)

var ignoredDescriptions = map[string]bool{
	"Fund Distribution": true,
	"FX Credit":         true,
	"FX Debit":          true,
	"Deposit":           true,
}

// Classifier turns raw export records into events.
type Classifier struct {
	// USDPerGBP converts USD dividends to GBP. It is the same for every
	// record regardless of its date.
	USDPerGBP decimal.Decimal
}

// NewClassifier returns a classifier using DefaultUSDPerGBP.
func NewClassifier() *Classifier {
	return &Classifier{USDPerGBP: DefaultUSDPerGBP}
}

// IsIgnored reports whether a description carries nothing to account for.
func IsIgnored(description string) bool {
	return description == "" ||
		strings.HasPrefix(description, prefixMoneyMarketFund) ||
		ignoredDescriptions[description]
}

// Classify maps a record to exactly one event. It has no side effects.
func (c *Classifier) Classify(rec RawRecord) (Event, error) {
	if IsIgnored(rec.Description) {
		return Ignored{}, nil
	}

	if strings.TrimSpace(rec.Product) == "" {
		return nil, fmt.Errorf("%w: %q", ErrMissingInstrumentName, rec.Description)
	}

	switch rec.Description {
	case descTransactionFee, descStampDuty:
		amount, err := requireAmount(rec)
		if err != nil {
			return nil, err
		}
		if rec.Currency != GBP {
			return nil, fmt.Errorf("%w: fee in %q", ErrUnrecognizedCurrency, rec.Currency)
		}
		return Fee{Amount: amount.Neg()}, nil

	case descDividend:
		amount, err := requireAmount(rec)
		if err != nil {
			return nil, err
		}
		switch rec.Currency {
		case GBP:
			return Dividend{Amount: amount, Currency: GBP}, nil
		case USD:
			return Dividend{Amount: amount.Div(c.rate()), Currency: USD}, nil
		default:
			return nil, fmt.Errorf("%w: dividend in %q", ErrUnrecognizedCurrency, rec.Currency)
		}
	}

	trade, err := ParseTrade(rec.Description)
	if err != nil {
		return nil, err
	}
	return trade, nil
}

func (c *Classifier) rate() decimal.Decimal {
	if c.USDPerGBP.IsZero() {
		return DefaultUSDPerGBP
	}
	return c.USDPerGBP
}

func requireAmount(rec RawRecord) (decimal.Decimal, error) {
	if !rec.Amount.Valid {
		if rec.AmountText != "" {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, rec.AmountText)
		}
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMissingAmount, rec.Description)
	}
	return rec.Amount.Decimal, nil
}
