package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SeedItem is one record of a seed profile
type SeedItem struct {
	Description string  `yaml:"description"`
	Amount      float64 `yaml:"amount"`
	Class       string  `yaml:"class,omitempty"` // asset, liability or expense class name

	// compiled fields
	assetClass     AssetClass     `yaml:"-"`
	liabilityClass LiabilityClass `yaml:"-"`
	expenseClass   ExpenseClass   `yaml:"-"`
}

// Seed describes the profile created when no profile file exists yet
type Seed struct {
	MonthlyIncome float64 `yaml:"monthly_income,omitempty"`
	Salary        float64 `yaml:"salary,omitempty"` // yearly; takes precedence over monthly_income
	Goal          float64 `yaml:"goal,omitempty"`
	CreditScore   uint16  `yaml:"credit_score,omitempty"`

	Assets      []SeedItem `yaml:"assets,omitempty"`
	Liabilities []SeedItem `yaml:"liabilities,omitempty"`
	Expenses    []SeedItem `yaml:"expenses,omitempty"`
}

// DefaultSeed is the demo profile used unless disabled via use_default_seed: false
var DefaultSeed = Seed{
	MonthlyIncome: 6400,
	Goal:          100000,
	Assets: []SeedItem{
		{Description: "Chase Checking (885715037)", Amount: 0, Class: "cash"},
		{Description: "Simple Account", Amount: 0, Class: "cash"},
		{Description: "2005 Jeep Wrangler", Amount: 9271},
		{Description: "Fidelity: Joe (X51799718)", Amount: 1000.1, Class: "equity"},
		{Description: "Fidelity: Simple IRA (414155055)", Amount: 3964.57, Class: "equity"},
		{Description: "TD Ameritrade", Amount: 0, Class: "equity"},
		{Description: "7 Silver Coins", Amount: 140, Class: "commodities"},
		{Description: "Cash", Amount: 500, Class: "cash"},
		{Description: "Gun: Glock 19C", Amount: 350},
		{Description: "Gun: Sig Saur 250", Amount: 250},
		{Description: "Gun: Sig Saur P226 MK25", Amount: 600},
		{Description: "Gun: Mossberg 590A1", Amount: 350},
		{Description: "Gun: Remington 700", Amount: 600},
		{Description: "Gun: Smith & Wesson M&P15", Amount: 400},
		{Description: "PayPal", Amount: 0, Class: "cash"},
		{Description: "Fidelity: Roth IRA (211845892)", Amount: 968.70, Class: "equity"},
		{Description: "Fidelity: Rollover IRA (218515595)", Amount: 2584.17, Class: "equity"},
	},
	Liabilities: []SeedItem{
		{Description: "Capital One Card (...9648)", Amount: 0, Class: "current"},
		{Description: "Chase Freedom Card (...4872)", Amount: 500, Class: "current"},
		{Description: "Fidelity AmEx Card (...3366)", Amount: 0, Class: "current"},
		{Description: "Home Mortgage", Amount: 1100, Class: "long-term"},
	},
	Expenses: []SeedItem{
		{Description: "FPL", Amount: 115, Class: "utilities"},
		{Description: "Gym", Amount: 66, Class: "leisure"},
		{Description: "Comcast", Amount: 65, Class: "utilities"},
		{Description: "Progressive Auto Insurance", Amount: 160, Class: "insurance"},
		{Description: "Rent", Amount: 995, Class: "household"},
		{Description: "Amazon Prime", Amount: 8, Class: "leisure"},
		{Description: "Amazon Web Services", Amount: 52, Class: "job-expenses"},
		{Description: "Food (Groceries and fast food)", Amount: 400, Class: "food"},
		{Description: "Entertainment", Amount: 400, Class: "leisure"},
		{Description: "Tolls (Joe+Kat)", Amount: 150, Class: "automobile"},
		{Description: "Gas/Fuel", Amount: 400, Class: "automobile"},
		{Description: "Two Haircuts", Amount: 50},
		{Description: "Miscellaneous", Amount: 100},
		{Description: "Kat's + Joe T-Mobile Service", Amount: 100, Class: "utilities"},
		{Description: "Kat's Gas/Fuel", Amount: 320, Class: "automobile"},
		{Description: "Kat Stipend", Amount: 390},
	},
}

type Config struct {
	// Profile is the profile file used when none is given on the command line
	Profile string `yaml:"profile,omitempty"`

	// Currency is an ISO 4217 code; empty means detect from the system locale
	Currency string `yaml:"currency,omitempty"`

	// Sort names the report order, e.g. "amount-desc"
	Sort string `yaml:"sort,omitempty"`

	// LogMode is "dev" or "prod"
	LogMode string `yaml:"log_mode,omitempty"`

	// SavingsRates are the yearly rates of the savings projection
	SavingsRates []float64 `yaml:"savings_rates,omitempty"`

	// UseDefaultSeed controls whether the built-in demo profile is part of the seed.
	// Defaults to true. Set to false to seed only from Seed.
	UseDefaultSeed *bool `yaml:"use_default_seed,omitempty"`

	// Seed is merged over the default seed: its scalars replace non-zero
	// defaults and its items are appended after the default items
	Seed *Seed `yaml:"seed,omitempty"`

	// compiled fields
	sort SortMethod `yaml:"-"`
	seed Seed       `yaml:"-"`
}

// DefaultConfigPath returns the default config file path (~/.financial-profile/config.yaml)
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".financial-profile", "config.yaml")
}

// DefaultProfilePath is the profile file used without flag or config
const DefaultProfilePath = "financial-profile.fp"

// NewDefaultConfig creates a config holding only the defaults.
// Use this when no config file exists.
func NewDefaultConfig() (*Config, error) {
	cfg := &Config{}
	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// compile validates names and merges the seed
func (c *Config) compile() error {
	c.sort = SortAmountDesc
	if c.Sort != "" {
		m, err := ParseSortMethod(c.Sort)
		if err != nil {
			return fmt.Errorf("invalid sort: %w", err)
		}
		c.sort = m
	}

	for _, r := range c.SavingsRates {
		if r < 0 {
			return fmt.Errorf("invalid savings rate %v: must not be negative", r)
		}
	}

	useDefaults := c.UseDefaultSeed == nil || *c.UseDefaultSeed
	var seed Seed
	if useDefaults {
		seed = DefaultSeed
		seed.Assets = append([]SeedItem(nil), DefaultSeed.Assets...)
		seed.Liabilities = append([]SeedItem(nil), DefaultSeed.Liabilities...)
		seed.Expenses = append([]SeedItem(nil), DefaultSeed.Expenses...)
	}
	if c.Seed != nil {
		if c.Seed.MonthlyIncome != 0 {
			seed.MonthlyIncome = c.Seed.MonthlyIncome
		}
		if c.Seed.Salary != 0 {
			seed.Salary = c.Seed.Salary
		}
		if c.Seed.Goal != 0 {
			seed.Goal = c.Seed.Goal
		}
		if c.Seed.CreditScore != 0 {
			seed.CreditScore = c.Seed.CreditScore
		}
		seed.Assets = append(seed.Assets, c.Seed.Assets...)
		seed.Liabilities = append(seed.Liabilities, c.Seed.Liabilities...)
		seed.Expenses = append(seed.Expenses, c.Seed.Expenses...)
	}

	for i := range seed.Assets {
		class, err := ParseAssetClass(seed.Assets[i].Class)
		if err != nil {
			return fmt.Errorf("seed asset %q: %w", seed.Assets[i].Description, err)
		}
		seed.Assets[i].assetClass = class
	}
	for i := range seed.Liabilities {
		class, err := ParseLiabilityClass(seed.Liabilities[i].Class)
		if err != nil {
			return fmt.Errorf("seed liability %q: %w", seed.Liabilities[i].Description, err)
		}
		seed.Liabilities[i].liabilityClass = class
	}
	for i := range seed.Expenses {
		class, err := ParseExpenseClass(seed.Expenses[i].Class)
		if err != nil {
			return fmt.Errorf("seed expense %q: %w", seed.Expenses[i].Description, err)
		}
		seed.Expenses[i].expenseClass = class
	}

	c.seed = seed
	return nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// SortMethod returns the configured report order, amount-desc by default
func (c *Config) SortMethod() SortMethod {
	if c == nil {
		return SortAmountDesc
	}
	return c.sort
}

// Rates returns the savings projection rates, DefaultSavingsRates by default
func (c *Config) Rates() []float64 {
	if c == nil || len(c.SavingsRates) == 0 {
		return DefaultSavingsRates
	}
	return c.SavingsRates
}

// MergedSeed returns the seed after merging with the defaults
func (c *Config) MergedSeed() Seed {
	return c.seed
}

// BuildProfile creates a profile from the merged seed and refreshes it.
// l, if not nil, is installed before the records are added.
func (c *Config) BuildProfile(l Listener) *Profile {
	p := New()
	p.SetListener(l)

	s := c.seed
	if s.Salary != 0 {
		p.SetSalary(s.Salary)
	} else {
		p.SetMonthlyIncome(s.MonthlyIncome)
	}
	p.SetGoal(s.Goal)
	if s.CreditScore != 0 {
		p.SetCreditScore(s.CreditScore)
	}

	for _, a := range s.Assets {
		p.AddAsset(a.Description, a.Amount, a.assetClass)
	}
	for _, li := range s.Liabilities {
		p.AddLiability(li.Description, li.Amount, li.liabilityClass)
	}
	for _, e := range s.Expenses {
		p.AddExpense(e.Description, e.Amount, e.expenseClass)
	}

	p.Refresh()
	return p
}
