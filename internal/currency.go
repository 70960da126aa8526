package internal

import (
	"os"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency formats money amounts in one currency for one locale
type Currency struct {
	Code   string // "SEK", "USD", "EUR"
	Digits int    // fraction digits printed by Format

	unit    currency.Unit
	symbol  string
	prefix  bool
	tag     language.Tag
	printer *message.Printer
}

// symbolOverrides provides custom symbols where x/text defaults aren't ideal
var symbolOverrides = map[string]string{
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
	"ISK": "kr",
}

// prefixSymbols lists currencies whose symbol goes before the amount.
// x/text does not expose CLDR symbol placement.
var prefixSymbols = map[string]bool{
	"USD": true, "GBP": true, "JPY": true, "CAD": true, "AUD": true,
	"MXN": true, "HKD": true, "SGD": true, "NZD": true, "ZAR": true,
}

// homeLocale is used when a currency is picked without a detected system locale
var homeLocale = map[string]language.Tag{
	"SEK": language.Swedish,
	"USD": language.AmericanEnglish,
	"EUR": language.German,
	"GBP": language.BritishEnglish,
	"NOK": language.Norwegian,
	"DKK": language.Danish,
	"CHF": language.German,
	"JPY": language.Japanese,
	"CAD": language.CanadianFrench,
	"AUD": language.MustParse("en-AU"),
	"BRL": language.BrazilianPortuguese,
	"MXN": language.LatinAmericanSpanish,
	"INR": language.MustParse("en-IN"),
	"PLN": language.Polish,
	"CZK": language.Czech,
	"ZAR": language.MustParse("en-ZA"),
	"NZD": language.MustParse("en-NZ"),
}

// detectedLocale is set by DetectSystemCurrency and preferred for formatting
var detectedLocale language.Tag

// skipSystemLocale limits locale detection to environment variables
var skipSystemLocale = false

// NewCurrency returns the formatter for code, using the detected system
// locale if there is one and the currency's home locale otherwise
func NewCurrency(code string) Currency {
	code = strings.ToUpper(code)
	tag := language.AmericanEnglish
	if detectedLocale != language.Und {
		tag = detectedLocale
	} else if t, ok := homeLocale[code]; ok {
		tag = t
	}
	return NewCurrencyForLocale(code, tag)
}

// NewCurrencyForLocale returns the formatter for code in locale tag.
// Unknown codes format with two digits and the code as symbol.
func NewCurrencyForLocale(code string, tag language.Tag) Currency {
	code = strings.ToUpper(code)
	c := Currency{
		Code:    code,
		Digits:  2,
		prefix:  prefixSymbols[code],
		tag:     tag,
		printer: message.NewPrinter(tag),
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		c.unit = currency.USD
		c.symbol = code
		return c
	}
	c.unit = unit
	c.Digits, _ = currency.Standard.Rounding(unit)
	if sym, ok := symbolOverrides[code]; ok {
		c.symbol = sym
	} else {
		c.symbol = c.printer.Sprint(currency.NarrowSymbol(unit))
	}
	return c
}

// WithDigits returns a copy printing n fraction digits
func (c Currency) WithDigits(n int) Currency {
	c.Digits = max(n, 0)
	return c
}

func (c Currency) Symbol() string { return c.symbol }

// Format prints amount with the currency symbol and c.Digits fraction digits
func (c Currency) Format(amount float64) string {
	if amount < 0 {
		return "-" + c.Format(-amount)
	}
	formatted := c.printer.Sprint(number.Decimal(amount,
		number.MinFractionDigits(c.Digits), number.MaxFractionDigits(c.Digits)))
	if c.prefix {
		return c.symbol + formatted
	}
	return formatted + " " + c.symbol
}

// FormatPercent prints ratio as a percentage with one fraction digit
func (c Currency) FormatPercent(ratio float64) string {
	return c.printer.Sprint(number.Decimal(ratio*100,
		number.MinFractionDigits(1), number.MaxFractionDigits(1))) + "%"
}

// DetectSystemCurrency derives a currency code from the OS locale and
// remembers the locale for later formatting. Returns "" when nothing usable
// is found.
func DetectSystemCurrency() string {
	locale := detectSystemLocale()
	if locale == "" {
		return ""
	}
	code, tag := parseCurrencyFromLocale(locale)
	if code != "" {
		detectedLocale = tag
	}
	return code
}

// localeFromEnv returns the first meaningful locale among LC_MONETARY,
// LC_ALL and LANG
func localeFromEnv() string {
	for _, envVar := range []string{"LC_MONETARY", "LC_ALL", "LANG"} {
		locale := os.Getenv(envVar)
		if locale != "" && locale != "C" && locale != "POSIX" {
			return locale
		}
	}
	return ""
}

// parseCurrencyFromLocale maps a locale string to its region's currency.
// "sv_SE.UTF-8" -> ("SEK", sv-SE)
func parseCurrencyFromLocale(locale string) (string, language.Tag) {
	base, _, _ := strings.Cut(locale, ".")
	base, _, _ = strings.Cut(base, "@")

	tag, err := language.Parse(strings.Replace(base, "_", "-", 1))
	if err != nil {
		return "", language.Und
	}

	_, _, region := tag.Raw()
	if region.String() == "" || region.String() == "ZZ" {
		return "", language.Und
	}

	unit, ok := currency.FromRegion(region)
	if !ok {
		return "", language.Und
	}
	return unit.String(), tag
}
