package internal

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DescriptionSize is the fixed capacity of a description, terminator included
const DescriptionSize = 64

// Description is a fixed-capacity, NUL-terminated description buffer.
// At most DescriptionSize-1 bytes are stored; the last byte is always NUL.
type Description [DescriptionSize]byte

// NewDescription truncates s to fit and never splits a UTF-8 sequence
func NewDescription(s string) Description {
	var d Description
	d.Set(s)
	return d
}

// Set replaces the description, truncating at a rune boundary when s is too long
func (d *Description) Set(s string) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	if len(s) > DescriptionSize-1 {
		limit := DescriptionSize - 1
		cut := limit
		for cut > limit-(utf8.UTFMax-1) && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if !utf8.RuneStart(s[cut]) {
			// not UTF-8 at all, cut at the byte limit
			cut = limit
		}
		s = s[:cut]
	}
	*d = Description{}
	copy(d[:], s)
}

// String returns the bytes up to the first NUL
func (d Description) String() string {
	if i := bytes.IndexByte(d[:], 0); i >= 0 {
		return string(d[:i])
	}
	// only reachable for buffers decoded from foreign data
	return string(d[:DescriptionSize-1])
}

// Item is the description and amount shared by every record category
type Item struct {
	description Description
	amount      float64
}

func (i *Item) Description() string      { return i.description.String() }
func (i *Item) SetDescription(s string)  { i.description.Set(s) }
func (i *Item) Amount() float64          { return i.amount }
func (i *Item) SetAmount(amount float64) { i.amount = amount }
func (i *Item) String() string           { return fmt.Sprintf("%s: %.2f", i.Description(), i.amount) }
func (i *Item) base() *Item              { return i }

// AssetClass classifies an asset
type AssetClass uint32

const (
	AssetUnspecified AssetClass = iota
	AssetCash
	AssetEquity      // stocks, options, futures
	AssetFixedIncome // bonds
	AssetMoneyMarket
	AssetRealEstate
	AssetGuaranteed
	AssetCommodities
)

var assetClassNames = []string{
	"unspecified", "cash", "equity", "fixed-income", "money-market", "real-estate", "guaranteed", "commodities",
}

func (c AssetClass) String() string {
	if int(c) < len(assetClassNames) {
		return assetClassNames[c]
	}
	return fmt.Sprintf("asset-class(%d)", uint32(c))
}

// ParseAssetClass accepts the names produced by AssetClass.String, case-insensitively.
// The empty string maps to AssetUnspecified.
func ParseAssetClass(s string) (AssetClass, error) {
	if s == "" {
		return AssetUnspecified, nil
	}
	for i, name := range assetClassNames {
		if strings.EqualFold(s, name) {
			return AssetClass(i), nil
		}
	}
	return AssetUnspecified, fmt.Errorf("unknown asset class %q (available: %v)", s, assetClassNames)
}

// LiabilityClass classifies a liability
type LiabilityClass uint32

const (
	LiabilityUnspecified LiabilityClass = iota
	LiabilityCurrent
	LiabilityLongTerm
)

var liabilityClassNames = []string{"unspecified", "current", "long-term"}

func (c LiabilityClass) String() string {
	if int(c) < len(liabilityClassNames) {
		return liabilityClassNames[c]
	}
	return fmt.Sprintf("liability-class(%d)", uint32(c))
}

// ParseLiabilityClass accepts the names produced by LiabilityClass.String, case-insensitively.
func ParseLiabilityClass(s string) (LiabilityClass, error) {
	if s == "" {
		return LiabilityUnspecified, nil
	}
	for i, name := range liabilityClassNames {
		if strings.EqualFold(s, name) {
			return LiabilityClass(i), nil
		}
	}
	return LiabilityUnspecified, fmt.Errorf("unknown liability class %q (available: %v)", s, liabilityClassNames)
}

// ExpenseClass names spending categories. It travels through config seeds,
// workbooks and reports; the binary file has no room for it, so expenses
// loaded from a profile file are unspecified.
type ExpenseClass uint32

const (
	ExpenseUnspecified ExpenseClass = iota
	ExpenseAutomobile
	ExpenseBankCharges
	ExpenseCharity
	ExpenseChildcare
	ExpenseClothing
	ExpenseCreditCardFees
	ExpenseEducation
	ExpenseEvents
	ExpenseFood
	ExpenseGifts
	ExpenseHealthcare
	ExpenseHousehold
	ExpenseInsurance
	ExpenseJobExpenses
	ExpenseLeisure
	ExpenseHobbies
	ExpenseLoans
	ExpensePetCare
	ExpenseSavings
	ExpenseTaxes
	ExpenseUtilities
	ExpenseVacation
)

var expenseClassNames = []string{
	"unspecified", "automobile", "bank-charges", "charity", "childcare", "clothing", "credit-card-fees",
	"education", "events", "food", "gifts", "healthcare", "household", "insurance", "job-expenses",
	"leisure", "hobbies", "loans", "pet-care", "savings", "taxes", "utilities", "vacation",
}

func (c ExpenseClass) String() string {
	if int(c) < len(expenseClassNames) {
		return expenseClassNames[c]
	}
	return fmt.Sprintf("expense-class(%d)", uint32(c))
}

// ParseExpenseClass accepts the names produced by ExpenseClass.String, case-insensitively.
func ParseExpenseClass(s string) (ExpenseClass, error) {
	if s == "" {
		return ExpenseUnspecified, nil
	}
	for i, name := range expenseClassNames {
		if strings.EqualFold(s, name) {
			return ExpenseClass(i), nil
		}
	}
	return ExpenseUnspecified, fmt.Errorf("unknown expense class %q (available: %v)", s, expenseClassNames)
}

// Asset is an owned item of value
type Asset struct {
	Item
	Class AssetClass
}

// Liability is an owed amount
type Liability struct {
	Item
	Class LiabilityClass
}

// Expense is a recurring monthly cost. Class is not persisted by Encode.
type Expense struct {
	Item
	Class ExpenseClass
}

// Category selects one of the three item collections of a profile
type Category int

const (
	CategoryAsset Category = iota
	CategoryLiability
	CategoryExpense
)

// Categories lists every category in file order
var Categories = []Category{CategoryAsset, CategoryLiability, CategoryExpense}

func (c Category) String() string {
	switch c {
	case CategoryAsset:
		return "asset"
	case CategoryLiability:
		return "liability"
	case CategoryExpense:
		return "expense"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// dirtyFlag returns the flag that tracks c's cached total
func (c Category) dirtyFlag() Flags {
	switch c {
	case CategoryAsset:
		return FlagAssetsDirty
	case CategoryLiability:
		return FlagLiabilitiesDirty
	case CategoryExpense:
		return FlagExpensesDirty
	default:
		panic(fmt.Sprintf("invalid category %d", int(c)))
	}
}
