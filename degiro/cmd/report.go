package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Rhymond/go-money"
	"github.com/hako/durafmt"
	"github.com/howeyc/degiro"
	"github.com/howeyc/degiro/degiro/internal/fastcolor"
	date "github.com/joyt/godate"
	"github.com/mattn/go-isatty"
		"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	newLine   = "\n"
	separator = "====="
	// widest Describe output, for an open position
	describeWidth = 72
	minNameWidth  = 12
	wideColumns   = 132
)

var endString string
var columnWidth int
var columnWide bool
var showHolding bool
var showSymbol bool
var colorMode string

// ReportOptions controls PrintReport.
type ReportOptions struct {
	// NameWidth pads instrument names to a fixed column; 0 leaves them as is.
	NameWidth int
	// Holding appends the holding period of closed positions.
	Holding bool
	// Symbol formats totals with the GBP currency symbol.
	Symbol bool
}

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <account-csv>",
	Args:  cobra.ExactArgs(1),
	Short: "Print gain/loss, dividends and fees per instrument and in total",
	Run: func(_ *cobra.Command, args []string) {
		settings, err := cliSettings()
		if err != nil {
			log.Fatalln(err)
		}

		records, err := cliRecords(args[0], settings)
		if err != nil {
			log.Fatalln(err)
		}

		if endString != "" {
			end, _, derr := date.ParseAndGetLayout(endString)
			if derr != nil {
				log.Fatalln(fmt.Errorf("unable to parse end date(%s): %w", endString, derr))
			}
			records, err = recordsUntil(records, end)
			if err != nil {
				log.Fatalln(err)
			}
		}

		pf, err := degiro.Process(records, settings.Classifier())
		if err != nil {
			log.Fatalln(args[0]+":", err)
		}

		fastcolor.SetEnabled(useColor(colorMode))

		opts := ReportOptions{
			NameWidth: nameWidth(columnWidth, columnWide),
			Holding:   showHolding,
			Symbol:    showSymbol,
		}
		if err := PrintReport(os.Stdout, pf, opts); err != nil {
			log.Fatalln(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&endString, "end-date", "e", "", "Only process records dated on or before this date.")
	reportCmd.Flags().IntVar(&columnWidth, "columns", 0, "Set a line width for output, aligning instrument names in a column.")
	reportCmd.Flags().BoolVar(&columnWide, "wide", false, "Wide output (use terminal width).")
	reportCmd.Flags().BoolVar(&showHolding, "holding", false, "Show how long closed positions were held.")
	reportCmd.Flags().BoolVar(&showSymbol, "symbol", false, "Show totals with a currency symbol.")
	reportCmd.Flags().StringVar(&colorMode, "color", "auto", "Colour output: auto, always or never.")
}

func useColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		fd := os.Stdout.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
}

// nameWidth returns the instrument name column for a report line of columns
// cells, or 0 to leave names unaligned.
func nameWidth(columns int, wide bool) int {
	if columns == 0 && wide {
		columns = wideColumns
		fd := int(os.Stdout.Fd())
		if term.IsTerminal(fd) {
			tw, _, err := term.GetSize(fd)
			if err == nil {
				columns = tw
			}
		}
	}
	if columns <= 0 {
		return 0
	}

	width := columns - describeWidth - 1
	if width < minNameWidth {
		width = minNameWidth
		fmt.Fprintf(os.Stderr, "warning: `columns` too small, setting name column to %d\n", width)
	}
	return width
}

// PrintReport writes one line per instrument, in first-seen order, followed by
// the portfolio totals.
func PrintReport(w io.Writer, pf *degiro.Portfolio, opts ReportOptions) error {
	colorNeg := fastcolor.FgRed
	colorPos := fastcolor.FgGreen
	colorName := fastcolor.FgBlue
	colorReset := fastcolor.Reset

	amountColor := func(d decimal.Decimal) fastcolor.Color {
		switch d.Sign() {
		case -1:
			return colorNeg
		case 1:
			return colorPos
		}
		return colorReset
	}

	buf := bufio.NewWriter(w)
	for _, name := range pf.Names() {
		p, _ := pf.Lookup(name)

		if opts.NameWidth > 0 {
			colorName.WriteStringFixed(buf, name+":", opts.NameWidth, false)
		} else {
			colorName.WriteString(buf, name+":")
		}
		buf.WriteString(" ")

		lineColor := colorReset
		if gain, err := p.GainLoss(); err == nil {
			lineColor = amountColor(gain)
		}
		lineColor.WriteString(buf, p.Describe())

		if opts.Holding {
			if d, ok := p.HoldingPeriod(); ok {
				buf.WriteString(" (held ")
				buf.WriteString(durafmt.Parse(d).LimitFirstN(2).String())
				buf.WriteString(")")
			}
		}
		buf.WriteString(newLine)
	}

	totals := pf.Totals()
	format := func(d decimal.Decimal) string {
		if opts.Symbol {
			return fmt.Sprintf("%10s", money.New(d.Shift(2).RoundBank(0).IntPart(), money.GBP).Display())
		}
		return fmt.Sprintf("%10s", d.StringFixedBank(2))
	}

	buf.WriteString(separator + newLine)
	buf.WriteString("Total gain/loss of closed positions (includes dividends and fees): ")
	amountColor(totals.GainLoss).WriteString(buf, format(totals.GainLoss))
	buf.WriteString(newLine)
	buf.WriteString("Total fees: " + format(totals.Fees) + newLine)
	buf.WriteString("Total dividends: " + format(totals.Dividends) + newLine)
	fmt.Fprintf(buf, "Positions: %d closed, %d open%s", totals.Closed, totals.Open, newLine)

	return buf.Flush()
}
