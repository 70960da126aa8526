package internal

import (
	"fmt"
	"iter"
	"time"
)

// Flags marks which cached figures of a profile are stale
type Flags uint16

const (
	FlagAssetsDirty Flags = 1 << iota
	FlagLiabilitiesDirty
	FlagExpensesDirty
	FlagIncomeDirty

	flagsAll = FlagAssetsDirty | FlagLiabilitiesDirty | FlagExpensesDirty | FlagIncomeDirty
)

// Has reports whether any bit of f is set in flags
func (flags Flags) Has(f Flags) bool { return flags&f != 0 }

func (flags Flags) String() string {
	if flags == 0 {
		return "none"
	}
	var names []string
	for _, n := range []struct {
		flag Flags
		name string
	}{
		{FlagAssetsDirty, "assets"},
		{FlagLiabilitiesDirty, "liabilities"},
		{FlagExpensesDirty, "expenses"},
		{FlagIncomeDirty, "income"},
	} {
		if flags.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	if rest := flags &^ flagsAll; rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint16(rest)))
	}
	return fmt.Sprint(names)
}

// Listener is notified at the end of every Refresh with the flags that were
// dirty when the refresh started. It runs synchronously and must not call
// Refresh or mutate the profile.
type Listener interface {
	ProfileUpdated(p *Profile, changed Flags)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(p *Profile, changed Flags)

func (f ListenerFunc) ProfileUpdated(p *Profile, changed Flags) {
	f(p, changed)
}

// Profile aggregates assets, liabilities and monthly expenses together with
// income and goal figures. Totals are cached and only recomputed by Refresh
// for the categories whose dirty flag is set.
type Profile struct {
	assets      Collection[Asset, *Asset]
	liabilities Collection[Liability, *Liability]
	expenses    Collection[Expense, *Expense]

	totalAssets      float64
	totalLiabilities float64
	totalExpenses    float64
	monthlyIncome    float64
	disposableIncome float64
	netWorth         float64
	goal             float64

	flags              Flags
	creditScore        uint16
	creditScoreUpdated time.Time
	lastUpdated        time.Time

	listener Listener
	now      func() time.Time
}

// New creates an empty profile stamped with the current time
func New() *Profile {
	p := &Profile{}
	p.Clear()
	return p
}

// Clear empties every collection and resets every figure and flag.
// The listener is kept.
func (p *Profile) Clear() {
	p.assets.Clear()
	p.liabilities.Clear()
	p.expenses.Clear()

	now := p.stamp()
	p.totalAssets = 0
	p.totalLiabilities = 0
	p.totalExpenses = 0
	p.monthlyIncome = 0
	p.disposableIncome = 0
	p.netWorth = 0
	p.goal = 0
	p.flags = 0
	p.creditScore = 0
	p.creditScoreUpdated = now
	p.lastUpdated = now
}

// stamp returns the current time at the one-second resolution of the file format
func (p *Profile) stamp() time.Time {
	now := p.now
	if now == nil {
		now = time.Now
	}
	return time.Unix(now().Unix(), 0)
}

// SetListener installs l as the only listener; nil removes it
func (p *Profile) SetListener(l Listener) {
	p.listener = l
}

// Add appends a record to category c and returns a handle to its Item.
// Class fields start as unspecified.
func (p *Profile) Add(c Category, description string, amount float64) *Item {
	item := p.push(c)
	item.SetDescription(description)
	item.SetAmount(amount)
	return item
}

// push appends a zero record to c and marks c dirty
func (p *Profile) push(c Category) *Item {
	var item *Item
	switch c {
	case CategoryAsset:
		item = p.assets.push().base()
	case CategoryLiability:
		item = p.liabilities.push().base()
	case CategoryExpense:
		item = p.expenses.push().base()
	default:
		panic(fmt.Sprintf("invalid category %d", int(c)))
	}
	p.flags |= c.dirtyFlag()
	return item
}

// AddAsset appends an asset with the given class
func (p *Profile) AddAsset(description string, amount float64, class AssetClass) *Asset {
	p.push(CategoryAsset)
	a, _ := p.assets.Get(p.assets.Len() - 1)
	a.SetDescription(description)
	a.SetAmount(amount)
	a.Class = class
	return a
}

// AddLiability appends a liability with the given class
func (p *Profile) AddLiability(description string, amount float64, class LiabilityClass) *Liability {
	p.push(CategoryLiability)
	l, _ := p.liabilities.Get(p.liabilities.Len() - 1)
	l.SetDescription(description)
	l.SetAmount(amount)
	l.Class = class
	return l
}

// AddExpense appends an expense with the given class
func (p *Profile) AddExpense(description string, amount float64, class ExpenseClass) *Expense {
	p.push(CategoryExpense)
	e, _ := p.expenses.Get(p.expenses.Len() - 1)
	e.SetDescription(description)
	e.SetAmount(amount)
	e.Class = class
	return e
}

// Remove swap-removes the record at index from category c: the last record
// takes its place, so indices past the removed one are not stable.
func (p *Profile) Remove(c Category, index int) error {
	var err error
	switch c {
	case CategoryAsset:
		err = p.assets.Remove(index)
	case CategoryLiability:
		err = p.liabilities.Remove(index)
	case CategoryExpense:
		err = p.expenses.Remove(index)
	default:
		panic(fmt.Sprintf("invalid category %d", int(c)))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", c, err)
	}
	p.flags |= c.dirtyFlag()
	return nil
}

// Item returns the shared part of the record at index in category c
func (p *Profile) Item(c Category, index int) (*Item, error) {
	var (
		item *Item
		err  error
	)
	switch c {
	case CategoryAsset:
		var a *Asset
		if a, err = p.assets.Get(index); err == nil {
			item = &a.Item
		}
	case CategoryLiability:
		var l *Liability
		if l, err = p.liabilities.Get(index); err == nil {
			item = &l.Item
		}
	case CategoryExpense:
		var e *Expense
		if e, err = p.expenses.Get(index); err == nil {
			item = &e.Item
		}
	default:
		panic(fmt.Sprintf("invalid category %d", int(c)))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	return item, nil
}

func (p *Profile) Asset(index int) (*Asset, error)         { return p.assets.Get(index) }
func (p *Profile) Liability(index int) (*Liability, error) { return p.liabilities.Get(index) }
func (p *Profile) Expense(index int) (*Expense, error)     { return p.expenses.Get(index) }

func (p *Profile) Assets() iter.Seq2[int, *Asset]         { return p.assets.All() }
func (p *Profile) Liabilities() iter.Seq2[int, *Liability] { return p.liabilities.All() }
func (p *Profile) Expenses() iter.Seq2[int, *Expense]     { return p.expenses.All() }

// Count returns the number of records in category c
func (p *Profile) Count(c Category) int {
	switch c {
	case CategoryAsset:
		return p.assets.Len()
	case CategoryLiability:
		return p.liabilities.Len()
	case CategoryExpense:
		return p.expenses.Len()
	default:
		panic(fmt.Sprintf("invalid category %d", int(c)))
	}
}

// IndexOf returns the current index of item within category c, or -1 when
// item is not a live record of that category
func (p *Profile) IndexOf(c Category, item *Item) int {
	switch c {
	case CategoryAsset:
		return p.assets.IndexOf(item)
	case CategoryLiability:
		return p.liabilities.IndexOf(item)
	case CategoryExpense:
		return p.expenses.IndexOf(item)
	default:
		panic(fmt.Sprintf("invalid category %d", int(c)))
	}
}

// ClearItems empties category c and marks it dirty
func (p *Profile) ClearItems(c Category) {
	switch c {
	case CategoryAsset:
		p.assets.Clear()
	case CategoryLiability:
		p.liabilities.Clear()
	case CategoryExpense:
		p.expenses.Clear()
	default:
		panic(fmt.Sprintf("invalid category %d", int(c)))
	}
	p.flags |= c.dirtyFlag()
}

// Sort orders every category by method
func (p *Profile) Sort(method SortMethod) {
	for _, c := range Categories {
		p.SortItems(c, method)
	}
}

// SortItems orders category c by method. Totals are unaffected so no flag is set.
func (p *Profile) SortItems(c Category, method SortMethod) {
	switch c {
	case CategoryAsset:
		p.assets.Sort(method)
	case CategoryLiability:
		p.liabilities.Sort(method)
	case CategoryExpense:
		p.expenses.Sort(method)
	default:
		panic(fmt.Sprintf("invalid category %d", int(c)))
	}
}

// Refresh recomputes the totals of dirty categories and the figures derived
// from them, stamps the update time, clears every dirty flag and then
// notifies the listener with the flags that were set on entry.
func (p *Profile) Refresh() {
	changed := p.flags

	if changed.Has(FlagAssetsDirty) {
		p.totalAssets = p.assets.Sum()
	}
	if changed.Has(FlagLiabilitiesDirty) {
		p.totalLiabilities = p.liabilities.Sum()
	}
	if changed.Has(FlagExpensesDirty) {
		p.totalExpenses = p.expenses.Sum()
	}
	if changed.Has(FlagIncomeDirty | FlagExpensesDirty) {
		p.disposableIncome = 0
		if p.monthlyIncome > p.totalExpenses {
			p.disposableIncome = p.monthlyIncome - p.totalExpenses
		}
	}
	if changed.Has(FlagAssetsDirty | FlagLiabilitiesDirty) {
		p.netWorth = p.totalAssets - p.totalLiabilities
	}

	p.flags &^= flagsAll
	p.lastUpdated = p.stamp()

	if p.listener != nil {
		p.listener.ProfileUpdated(p, changed)
	}
}

func (p *Profile) Flags() Flags { return p.flags }

func (p *Profile) Goal() float64        { return p.goal }
func (p *Profile) SetGoal(goal float64) { p.goal = goal }

func (p *Profile) CreditScore() uint16 { return p.creditScore }

// SetCreditScore records score and stamps CreditScoreUpdatedAt
func (p *Profile) SetCreditScore(score uint16) {
	p.creditScore = score
	p.creditScoreUpdated = p.stamp()
}

func (p *Profile) CreditScoreUpdatedAt() time.Time { return p.creditScoreUpdated }
func (p *Profile) LastUpdatedAt() time.Time        { return p.lastUpdated }

func (p *Profile) MonthlyIncome() float64 { return p.monthlyIncome }

// SetMonthlyIncome marks income dirty
func (p *Profile) SetMonthlyIncome(income float64) {
	p.monthlyIncome = income
	p.flags |= FlagIncomeDirty
}

// Salary is the yearly equivalent of the monthly income
func (p *Profile) Salary() float64 { return p.monthlyIncome * 12 }

// SetSalary stores a yearly salary as monthly income and marks income dirty
func (p *Profile) SetSalary(salary float64) {
	p.SetMonthlyIncome(salary / 12)
}

func (p *Profile) TotalAssets() float64      { return p.totalAssets }
func (p *Profile) TotalLiabilities() float64 { return p.totalLiabilities }
func (p *Profile) TotalExpenses() float64    { return p.totalExpenses }
func (p *Profile) DisposableIncome() float64 { return p.disposableIncome }
func (p *Profile) NetWorth() float64         { return p.netWorth }

// DebtToIncomeRatio is total liabilities over yearly income, 0 without income
func (p *Profile) DebtToIncomeRatio() float64 {
	if p.monthlyIncome > 0 {
		return p.totalLiabilities / (p.monthlyIncome * 12)
	}
	return 0
}

// Progress is net worth as a fraction of the goal. It is only computed while
// the goal is above net worth; once the goal is met or exceeded it reports 0.
// A zero goal with negative net worth passes the guard and yields -Inf.
func (p *Profile) Progress() float64 {
	if p.goal > p.netWorth {
		return p.netWorth / p.goal
	}
	return 0
}
