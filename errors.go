package degiro

import (
	"errors"
	"fmt"
)

var (
	ErrMissingInstrumentName     = errors.New("missing instrument name")
	ErrUnrecognizedCurrency      = errors.New("unrecognized currency")
	ErrMalformedTradeDescription = errors.New("malformed trade description")
	ErrShortSellAttempted        = errors.New("sell of more shares than held")
	ErrNegativeAmount            = errors.New("negative amount")
	ErrUnclosedPositionGainQuery = errors.New("gain/loss requested on an open position")
	ErrMissingAmount             = errors.New("missing amount")
	ErrMissingColumn             = errors.New("missing column")
	ErrInvalidAmount             = errors.New("invalid amount")
	ErrInvalidDate               = errors.New("invalid date")
	ErrShareCountOverflow        = errors.New("share count overflow")
)

// TradeSyntaxError reports where a trade description stopped matching the
// trade grammar.
type TradeSyntaxError struct {
	Description string
	Offset      int
	Reason      string
}

func (e *TradeSyntaxError) Error() string {
	return fmt.Sprintf("%s: %s at offset %d in %q", ErrMalformedTradeDescription, e.Reason, e.Offset, e.Description)
}

func (e *TradeSyntaxError) Unwrap() error {
	return ErrMalformedTradeDescription
}
