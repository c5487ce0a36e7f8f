package degiro

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseTrade parses a trade description of the form
//
//	Buy 28 CALEDONIA INV.@4,070 GBX (GB0001639920)
//
// that is a side, a share count, the product name, "@", the unit price, the
// quote currency and optional trailing text. Thousands separators are
// accepted in the share count and the price. Prices quoted in GBX are
// converted to GBP.
func ParseTrade(description string) (Trade, error) {
	var t Trade

	sideTok, rest, ok := strings.Cut(description, " ")
	switch {
	case !ok:
		return Trade{}, syntaxError(description, 0, "expected side followed by a space")
	case sideTok == "Buy":
		t.Side = Buy
	case sideTok == "Sell":
		t.Side = Sell
	default:
		return Trade{}, syntaxError(description, 0, "side must be Buy or Sell")
	}
	offset := len(sideTok) + 1

	sharesTok, rest, ok := strings.Cut(rest, " ")
	if !ok {
		return Trade{}, syntaxError(description, offset+len(sharesTok), "expected product after share count")
	}
	shares, err := parseShares(sharesTok)
	if err != nil {
		return Trade{}, syntaxError(description, offset, err.Error())
	}
	t.Shares = shares
	offset += len(sharesTok) + 1

	// The product name is free text and may contain "@" itself, so try
	// every "@" from the right until the tail parses.
	var firstErr error
	for at := strings.LastIndex(rest, "@"); at >= 0; at = strings.LastIndex(rest[:at], "@") {
		if at == 0 {
			if firstErr == nil {
				firstErr = syntaxError(description, offset, "empty product name")
			}
			break
		}
		price, currency, qerr := parseQuote(description, offset+at+1, rest[at+1:])
		if qerr == nil {
			t.UnitPrice = price
			t.PriceCurrency = currency
			return t, nil
		}
		if firstErr == nil {
			firstErr = qerr
		}
	}
	if firstErr == nil {
		firstErr = syntaxError(description, len(description), "expected '@' followed by a price")
	}
	return Trade{}, firstErr
}

// parseQuote parses "<price> <currency>[ <anything>]" starting at offset in
// description.
func parseQuote(description string, offset int, s string) (decimal.Decimal, Currency, error) {
	priceTok, rest, ok := strings.Cut(s, " ")
	if !ok {
		return decimal.Zero, "", syntaxError(description, offset+len(s), "expected currency after price")
	}
	price, err := parsePrice(priceTok)
	if err != nil {
		return decimal.Zero, "", syntaxError(description, offset, err.Error())
	}
	offset += len(priceTok) + 1

	curTok, _, _ := strings.Cut(rest, " ")
	if !isCurrencyCode(curTok) {
		return decimal.Zero, "", syntaxError(description, offset, "expected three letter currency code")
	}

	switch currency := Currency(curTok); currency {
	case GBP:
		return price, currency, nil
	case GBX:
		return price.Div(hundred), currency, nil
	default:
		return decimal.Zero, "", fmt.Errorf("%w: trade quoted in %s", ErrUnrecognizedCurrency, curTok)
	}
}

func parseShares(tok string) (int64, error) {
	if !onlyRunes(tok, "0123456789,") {
		return 0, fmt.Errorf("invalid share count %q", tok)
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(tok, ",", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid share count %q", tok)
	}
	if n <= 0 {
		return 0, fmt.Errorf("share count %q is not positive", tok)
	}
	return n, nil
}

func parsePrice(tok string) (decimal.Decimal, error) {
	if !onlyRunes(tok, "0123456789,.") {
		return decimal.Zero, fmt.Errorf("invalid price %q", tok)
	}
	price, err := decimal.NewFromString(strings.ReplaceAll(tok, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", tok)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("price %q is not positive", tok)
	}
	return price, nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// onlyRunes reports whether s is non-empty, holds at least one digit and
// nothing outside allowed.
func onlyRunes(s, allowed string) bool {
	if !strings.ContainsAny(s, "0123456789") {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(allowed, r) {
			return false
		}
	}
	return true
}

func syntaxError(description string, offset int, reason string) error {
	return &TradeSyntaxError{Description: description, Offset: offset, Reason: reason}
}
