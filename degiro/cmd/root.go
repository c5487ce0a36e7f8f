package cmd

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/howeyc/degiro"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"
)

var configFilePath string
var fieldDelimiter string
var dateFormat string
var usdPerGBP string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "degiro",
	Short: "Gain/loss, dividends and fees from a DEGIRO account statement",
	Long: `Reads a DEGIRO account statement export (CSV) and computes, for each
instrument, the realized gain/loss of closed positions, the dividends
received and the fees paid, plus portfolio-wide totals.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cc.Init(&cc.Config{
		RootCmd:  rootCmd,
		Headings: cc.HiCyan + cc.Bold + cc.Underline,
		Commands: cc.HiYellow + cc.Bold,
		Example:  cc.Italic,
		ExecName: cc.Bold,
		Flags:    cc.Bold,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFilePath, "config", "", "Configuration file (default $HOME/"+defaultConfigName+").")
	rootCmd.PersistentFlags().StringVar(&fieldDelimiter, "delimiter", "", "Field delimiter of the export (default \",\").")
	rootCmd.PersistentFlags().StringVar(&dateFormat, "date-format", "", "Date format of the export (default \"02-01-2006\").")
	rootCmd.PersistentFlags().StringVar(&usdPerGBP, "usd-per-gbp", "", "Exchange rate applied to USD dividends (default 1.3513).")
}

func cliSettings() (Settings, error) {
	cfg, err := LoadConfig(configFilePath)
	if err != nil {
		return Settings{}, err
	}
	return cfg.Resolve(fieldDelimiter, dateFormat, usdPerGBP)
}

// cliRecords loads the export and returns its records oldest first.
func cliRecords(filename string, settings Settings) ([]degiro.RawRecord, error) {
	records, err := degiro.ParseAccountFile(filename, settings.Loader)
	if err != nil {
		return nil, err
	}
	return degiro.Chronological(records), nil
}

// recordsUntil keeps the records dated on or before end.
func recordsUntil(records []degiro.RawRecord, end time.Time) ([]degiro.RawRecord, error) {
	for _, rec := range records {
		switch {
		case rec.Date.IsZero() && rec.DateText != "":
			return nil, fmt.Errorf("line %d: %w: %q", rec.Line, degiro.ErrInvalidDate, rec.DateText)
		case rec.Date.IsZero():
			return nil, fmt.Errorf("line %d: record has no date to compare with the end date", rec.Line)
		}
	}
	return slices.DeleteFunc(slices.Clone(records), func(rec degiro.RawRecord) bool {
		return rec.Date.After(end)
	}), nil
}
