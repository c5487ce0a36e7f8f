package degiro

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	date "github.com/joyt/godate"
	"github.com/shopspring/decimal"
)

// Columns names the header fields holding each part of a record.
type Columns struct {
	Product     string `toml:"product"`
	Description string `toml:"description"`
	Currency    string `toml:"currency"`
	Amount      string `toml:"amount"`
	// Date is optional; records are undated when the column is absent.
	Date string `toml:"date"`
}

// LoaderOptions controls how an account export is read.
type LoaderOptions struct {
	Delimiter  rune
	DateLayout string
	Columns    Columns
}

// DefaultLoaderOptions matches the DEGIRO account statement export.
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{
		Delimiter:  ',',
		DateLayout: "02-01-2006",
		Columns: Columns{
			Product:     "Product",
			Description: "Description",
			Currency:    "Change",
			Amount:      "Amount",
			Date:        "Date",
		},
	}
}

// ParseAccountFile reads an account export. Files ending in ".br" are brotli
// decompressed first.
func ParseAccountFile(filename string, opts LoaderOptions) ([]RawRecord, error) {
	ifile, ierr := os.Open(filename)
	if ierr != nil {
		return nil, ierr
	}
	defer ifile.Close()

	var r io.Reader = ifile
	if strings.HasSuffix(strings.ToLower(filename), ".br") {
		r = brotli.NewReader(ifile)
	}
	return parseAccount(filename, r, opts)
}

// ParseAccount reads an account export and returns its records in file
// order, which for DEGIRO is newest first. See Chronological.
func ParseAccount(r io.Reader, opts LoaderOptions) ([]RawRecord, error) {
	return parseAccount("", r, opts)
}

// Chronological returns a reversed copy of records as read from a
// newest-first export.
func Chronological(records []RawRecord) []RawRecord {
	out := slices.Clone(records)
	slices.Reverse(out)
	return out
}

type columnIndex struct {
	product, description, currency, amount, date int
}

type parser struct {
	name string
	opts LoaderOptions
	cols columnIndex

	dateLayout  string
	strPrevDate string
	prevDate    time.Time
	prevDateErr error
}

func parseAccount(name string, r io.Reader, opts LoaderOptions) ([]RawRecord, error) {
	csvReader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		csvReader.Comma = opts.Delimiter
	}
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: unable to read header: %w", name, err)
	}

	p := parser{name: name, opts: opts, dateLayout: opts.DateLayout}
	if err := p.findColumns(header); err != nil {
		return nil, err
	}

	var records []RawRecord
	for {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		line, _ := csvReader.FieldPos(0)
		records = append(records, p.parseRecord(line, row))
	}
}

func (p *parser) findColumns(header []string) error {
	find := func(want string) int {
		if want == "" {
			return -1
		}
		for i, field := range header {
			field = strings.TrimPrefix(field, "\ufeff")
			if strings.EqualFold(strings.TrimSpace(field), want) {
				return i
			}
		}
		return -1
	}

	c := p.opts.Columns
	p.cols = columnIndex{
		product:     find(c.Product),
		description: find(c.Description),
		currency:    find(c.Currency),
		amount:      find(c.Amount),
		date:        find(c.Date),
	}

	var missing []string
	for _, m := range []struct {
		name string
		idx  int
	}{
		{c.Product, p.cols.product},
		{c.Description, p.cols.description},
		{c.Currency, p.cols.currency},
		{c.Amount, p.cols.amount},
	} {
		if m.idx < 0 {
			missing = append(missing, fmt.Sprintf("%q", m.name))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: %w: %s", p.name, ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

func (p *parser) parseRecord(line int, row []string) RawRecord {
	field := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	rec := RawRecord{
		Line:        line,
		Product:     field(p.cols.product),
		Description: field(p.cols.description),
		Currency:    Currency(strings.TrimSpace(field(p.cols.currency))),
		AmountText:  strings.TrimSpace(field(p.cols.amount)),
		DateText:    strings.TrimSpace(field(p.cols.date)),
	}

	// unparsable cells are kept as text, ignored rows may carry anything
	if rec.AmountText != "" {
		if amount, err := decimal.NewFromString(rec.AmountText); err == nil {
			rec.Amount = decimal.NullDecimal{Decimal: amount, Valid: true}
		}
	}
	if rec.DateText != "" {
		if d, err := p.parseDate(rec.DateText); err == nil {
			rec.Date = d
		}
	}
	return rec
}

func (p *parser) parseDate(dateString string) (recDate time.Time, err error) {
	// consecutive rows usually share a date
	if p.strPrevDate == dateString {
		return p.prevDate, p.prevDateErr
	}

	recDate, err = time.Parse(p.dateLayout, dateString)
	if err != nil {
		// try to find new date layout
		var layout string
		recDate, layout, err = date.ParseAndGetLayout(dateString)
		if err != nil {
			err = fmt.Errorf("unable to parse date(%s): %w", dateString, err)
		} else {
			p.dateLayout = layout
		}
	}

	p.strPrevDate = dateString
	p.prevDate = recDate
	p.prevDateErr = err

	return
}
