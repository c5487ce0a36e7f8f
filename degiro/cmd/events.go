package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/howeyc/degiro"
	"github.com/spf13/cobra"
)

const eventDateFormat = "2006-01-02"

var eventsHeader = []string{"line", "date", "product", "kind", "side", "shares", "price", "currency", "amount"}

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events <account-csv>",
	Args:  cobra.ExactArgs(1),
	Short: "Print how every record of the export is classified, as CSV",
	Run: func(_ *cobra.Command, args []string) {
		settings, err := cliSettings()
		if err != nil {
			log.Fatalln(err)
		}

		records, err := cliRecords(args[0], settings)
		if err != nil {
			log.Fatalln(err)
		}

		if err := WriteEvents(os.Stdout, records, settings.Classifier(), settings.Loader.Delimiter); err != nil {
			log.Fatalln(args[0]+":", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

// WriteEvents classifies records and writes one CSV row per record. It stops
// at the first record that cannot be classified; rows written up to then are
// flushed.
func WriteEvents(w io.Writer, records []degiro.RawRecord, c *degiro.Classifier, delimiter rune) error {
	csvWriter := csv.NewWriter(w)
	if delimiter != 0 {
		csvWriter.Comma = delimiter
	}
	defer csvWriter.Flush()

	if err := csvWriter.Write(eventsHeader); err != nil {
		return err
	}

	for _, rec := range records {
		ev, err := c.Classify(rec)
		if err != nil {
			return fmt.Errorf("line %d: unable to classify record: %w", rec.Line, err)
		}
		if err := csvWriter.Write(eventRecord(rec, ev)); err != nil {
			return fmt.Errorf("error writing record to CSV: %w", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func eventRecord(rec degiro.RawRecord, ev degiro.Event) []string {
	var recDate string
	if !rec.Date.IsZero() {
		recDate = rec.Date.Format(eventDateFormat)
	}
	row := []string{strconv.Itoa(rec.Line), recDate, rec.Product, "", "", "", "", "", ""}

	switch e := ev.(type) {
	case degiro.Ignored:
		row[3] = "ignored"
	case degiro.Fee:
		row[3] = "fee"
		row[7] = string(degiro.GBP)
		row[8] = e.Amount.StringFixedBank(2)
	case degiro.Dividend:
		row[3] = "dividend"
		row[7] = string(e.Currency)
		row[8] = e.Amount.StringFixedBank(2)
	case degiro.Trade:
		row[3] = "trade"
		row[4] = e.Side.String()
		row[5] = strconv.FormatInt(e.Shares, 10)
		row[6] = e.UnitPrice.String()
		row[7] = string(e.PriceCurrency)
	}
	return row
}
