package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/financial-profile/internal"
	"github.com/gigurra/financial-profile/internal/logger"
)

type Params struct {
	File     string  `descr:"Path to the profile file (default: from config, else ./financial-profile.fp)" positional:"true" optional:"true"`
	Config   string  `descr:"Path to config file (default: ~/.financial-profile/config.yaml)" optional:"true"`
	Currency string  `descr:"Currency code (e.g. USD, SEK, EUR); detected from the system locale when empty" optional:"true"`
	Sort     string  `descr:"Item order of the report" alts:"description-asc,description-desc,amount-asc,amount-desc" optional:"true"`
	Output   string  `descr:"Output format" alts:"table,json,csv" strict:"true" default:"table"`
	Export   string  `descr:"Also write the profile to this xlsx workbook" optional:"true"`
	Import   string  `descr:"Create the profile from this xlsx workbook instead of the seed" optional:"true"`
	Reset    bool    `descr:"Recreate the profile even if the file exists" optional:"true"`
	Savings  float64 `descr:"Print a savings projection for this deposit per half month instead of the report" optional:"true"`
	Years    int     `descr:"Years covered by the savings projection" default:"10"`
	LogMode  string  `descr:"Log format (default: from config, else dev)" alts:"dev,prod" optional:"true"`
	LogLevel string  `descr:"Minimum log level" alts:"debug,info,warn,error" strict:"true" default:"warn"`
}

func main() {
	boa.NewCmdT[Params]("financial-profile").
		WithShort("Track assets, liabilities and monthly expenses").
		WithLong("Loads a binary financial profile, creating it from the configured seed or an xlsx workbook when missing, and reports net worth, disposable income, debt-to-income ratio and progress towards a goal.").
		WithRunFunc(func(params *Params) {
			if err := run(params, os.Stdout, os.Stderr); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}).
		Run()
}

func run(params *Params, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(params.Config)
	if err != nil {
		return err
	}

	logMode := params.LogMode
	if logMode == "" {
		logMode = cfg.LogMode
	}
	log, err := logger.New(logMode, params.LogLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	currency := resolveCurrency(params.Currency, cfg.Currency)

	if params.Savings > 0 {
		return printSavings(stdout, params, cfg, currency)
	}

	sortMethod := cfg.SortMethod()
	if params.Sort != "" {
		if sortMethod, err = internal.ParseSortMethod(params.Sort); err != nil {
			return err
		}
	}

	file := params.File
	if file == "" {
		file = cfg.Profile
	}
	if file == "" {
		file = internal.DefaultProfilePath
	}
	log = log.With("file", file)

	p, err := loadOrCreate(file, params, cfg, log)
	if err != nil {
		return err
	}

	if params.Export != "" {
		if err := internal.ExportWorkbook(p, params.Export); err != nil {
			return fmt.Errorf("exporting %s: %w", params.Export, err)
		}
		log.Info("profile exported", "workbook", params.Export)
		fmt.Fprintf(stderr, "Exported profile to %s\n", params.Export)
	}

	p.Sort(sortMethod)

	switch params.Output {
	case "json":
		return internal.PrintProfileJSON(stdout, p, currency)
	case "csv":
		internal.PrintProfileCSV(stdout, p)
	default:
		internal.PrintProfileTable(stdout, p, currency)
	}
	return nil
}

// loadConfig reads the config at path. Without an explicit path a missing
// default config falls back to the built-in defaults.
func loadConfig(path string) (*internal.Config, error) {
	explicit := path != ""
	if !explicit {
		path = internal.DefaultConfigPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			cfg, err := internal.LoadConfig(path)
			if err != nil {
				return nil, fmt.Errorf("loading config: %w", err)
			}
			return cfg, nil
		}
	}
	cfg, err := internal.NewDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("creating default config: %w", err)
	}
	return cfg, nil
}

// resolveCurrency picks flag, then config, then the system locale, then USD
func resolveCurrency(flag, configured string) internal.Currency {
	code := flag
	if code == "" {
		code = configured
	}
	if code == "" {
		code = internal.DetectSystemCurrency()
	}
	if code == "" {
		code = "USD"
	}
	return internal.NewCurrency(code)
}

// loadOrCreate loads file, or builds and saves a new profile when the file
// does not exist, --reset is given or a workbook is imported. Files that
// exist but cannot be opened or decoded are never overwritten implicitly.
func loadOrCreate(file string, params *Params, cfg *internal.Config, log *logger.Logger) (*internal.Profile, error) {
	listener := refreshLogger(log)

	if !params.Reset && params.Import == "" {
		p, err := internal.Load(file)
		if err == nil {
			p.SetListener(listener)
			if p.Flags() != 0 {
				p.Refresh()
			}
			log.Debug("profile loaded",
				"assets", p.Count(internal.CategoryAsset),
				"liabilities", p.Count(internal.CategoryLiability),
				"expenses", p.Count(internal.CategoryExpense))
			return p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Info("profile not found, creating it")
	}

	var p *internal.Profile
	if params.Import != "" {
		var err error
		if p, err = internal.ImportWorkbook(params.Import, listener); err != nil {
			return nil, fmt.Errorf("importing %s: %w", params.Import, err)
		}
		log.Info("profile imported", "workbook", params.Import)
	} else {
		p = cfg.BuildProfile(listener)
		log.Info("profile created from seed")
	}

	if err := internal.Save(p, file); err != nil {
		return nil, err
	}
	log.Info("profile saved")
	return p, nil
}

func printSavings(w io.Writer, params *Params, cfg *internal.Config, currency internal.Currency) error {
	if params.Years <= 0 {
		return fmt.Errorf("--years must be positive, got %d", params.Years)
	}
	proj := internal.ProjectSavings(params.Savings, params.Years, time.Now(), cfg.Rates())

	switch params.Output {
	case "json":
		return internal.PrintSavingsJSON(w, proj)
	case "csv":
		internal.PrintSavingsCSV(w, proj)
	default:
		internal.PrintSavingsTable(w, proj, currency)
	}
	return nil
}
