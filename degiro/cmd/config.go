package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/howeyc/degiro"
	"github.com/pelletier/go-toml"
	"github.com/shopspring/decimal"
)

const defaultConfigName = ".degiro.toml"

// Config is read from the TOML configuration file. Zero fields keep the
// defaults of degiro.DefaultLoaderOptions and degiro.DefaultUSDPerGBP.
type Config struct {
	// USDPerGBP is a quoted decimal so the rate is read exactly.
	USDPerGBP  string         `toml:"usd-per-gbp"`
	Delimiter  string         `toml:"delimiter"`
	DateFormat string         `toml:"date-format"`
	Columns    degiro.Columns `toml:"columns"`
}

// Settings is the resolved configuration used by the commands.
type Settings struct {
	Loader    degiro.LoaderOptions
	USDPerGBP decimal.Decimal
}

func (s Settings) Classifier() *degiro.Classifier {
	return &degiro.Classifier{USDPerGBP: s.USDPerGBP}
}

// DecodeConfig parses a TOML configuration.
func DecodeConfig(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the configuration file at path. When path is empty the
// default file in the home directory is used if it exists.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, nil
		}
		path = filepath.Join(home, defaultConfigName)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}

	cfg, err := DecodeConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve layers cfg and then the command line flags over the defaults.
func (cfg Config) Resolve(delimiter, dateFormat, usdPerGBP string) (Settings, error) {
	s := Settings{
		Loader:    degiro.DefaultLoaderOptions(),
		USDPerGBP: degiro.DefaultUSDPerGBP,
	}

	if usdPerGBP == "" {
		usdPerGBP = cfg.USDPerGBP
	}
	if usdPerGBP != "" {
		rate, err := decimal.NewFromString(usdPerGBP)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid usd-per-gbp rate(%s): %w", usdPerGBP, err)
		}
		s.USDPerGBP = rate
	}
	if !s.USDPerGBP.IsPositive() {
		return Settings{}, fmt.Errorf("usd-per-gbp rate must be positive, got %s", s.USDPerGBP)
	}

	if delimiter == "" {
		delimiter = cfg.Delimiter
	}
	if delimiter != "" {
		s.Loader.Delimiter, _ = utf8.DecodeRuneInString(delimiter)
	}

	if dateFormat == "" {
		dateFormat = cfg.DateFormat
	}
	if dateFormat != "" {
		s.Loader.DateLayout = dateFormat
	}

	c := &s.Loader.Columns
	for _, o := range []struct {
		dst *string
		val string
	}{
		{&c.Product, cfg.Columns.Product},
		{&c.Description, cfg.Columns.Description},
		{&c.Currency, cfg.Columns.Currency},
		{&c.Amount, cfg.Columns.Amount},
		{&c.Date, cfg.Columns.Date},
	} {
		if o.val != "" {
			*o.dst = o.val
		}
	}
	return s, nil
}
