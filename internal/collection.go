package internal

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"
)

// SortMethod selects the ordering applied by Collection.Sort
type SortMethod int

const (
	SortDescriptionAsc SortMethod = iota
	SortDescriptionDesc
	SortAmountAsc
	SortAmountDesc
)

var sortMethodNames = []string{"description-asc", "description-desc", "amount-asc", "amount-desc"}

func (m SortMethod) String() string {
	if m >= 0 && int(m) < len(sortMethodNames) {
		return sortMethodNames[m]
	}
	return fmt.Sprintf("sort-method(%d)", int(m))
}

// SortMethodNames returns the accepted names for ParseSortMethod
func SortMethodNames() []string {
	return slices.Clone(sortMethodNames)
}

// ParseSortMethod parses names like "amount-desc"
func ParseSortMethod(s string) (SortMethod, error) {
	for i, name := range sortMethodNames {
		if strings.EqualFold(s, name) {
			return SortMethod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sort method %q (available: %v)", s, sortMethodNames)
}

// compare returns the three-way comparison for m
func (m SortMethod) compare(a, b *Item) int {
	switch m {
	case SortDescriptionAsc:
		return strings.Compare(a.Description(), b.Description())
	case SortDescriptionDesc:
		return strings.Compare(b.Description(), a.Description())
	case SortAmountAsc:
		return cmp.Compare(a.amount, b.amount)
	case SortAmountDesc:
		return cmp.Compare(b.amount, a.amount)
	default:
		panic(fmt.Sprintf("invalid sort method %d", int(m)))
	}
}

// record is satisfied by *Asset, *Liability and *Expense through the embedded Item
type record[T any] interface {
	*T
	base() *Item
}

// Collection is an ordered, growable sequence of records of one category.
// Pointers returned by Get and All stay valid only until the next Add, Remove,
// Clear or Sort on the same collection.
type Collection[T any, P record[T]] struct {
	items []T
}

// Add appends item and returns its index
func (c *Collection[T, P]) Add(item T) int {
	c.items = append(c.items, item)
	return len(c.items) - 1
}

// push appends a zero record and returns a pointer to it
func (c *Collection[T, P]) push() P {
	var zero T
	c.items = append(c.items, zero)
	return P(&c.items[len(c.items)-1])
}

// Remove swap-removes the record at index: the last record moves into its slot.
// Any index in [0, Len()) is accepted.
func (c *Collection[T, P]) Remove(index int) error {
	n := len(c.items)
	if index < 0 || index >= n {
		return fmt.Errorf("remove %d of %d: %w", index, n, ErrInvalidIndex)
	}
	c.items[index] = c.items[n-1]
	var zero T
	c.items[n-1] = zero
	c.items = c.items[:n-1]
	return nil
}

// Get returns a pointer to the record at index
func (c *Collection[T, P]) Get(index int) (P, error) {
	if index < 0 || index >= len(c.items) {
		return nil, fmt.Errorf("get %d of %d: %w", index, len(c.items), ErrInvalidIndex)
	}
	return P(&c.items[index]), nil
}

func (c *Collection[T, P]) Len() int {
	return len(c.items)
}

// Clear drops every record but keeps the backing storage
func (c *Collection[T, P]) Clear() {
	clear(c.items)
	c.items = c.items[:0]
}

// Grow ensures room for n more records without reallocating
func (c *Collection[T, P]) Grow(n int) {
	c.items = slices.Grow(c.items, n)
}

// IndexOf returns the position of the record whose Item is item, or -1.
// Lookup is by identity, so item must come from this collection.
func (c *Collection[T, P]) IndexOf(item *Item) int {
	if item == nil {
		return -1
	}
	for i := range c.items {
		if P(&c.items[i]).base() == item {
			return i
		}
	}
	return -1
}

// Sort reorders records in place. The sort is not stable: equal keys end up in
// no particular order.
func (c *Collection[T, P]) Sort(method SortMethod) {
	slices.SortFunc(c.items, func(a, b T) int {
		return method.compare(P(&a).base(), P(&b).base())
	})
}

// Sum adds up every record's amount
func (c *Collection[T, P]) Sum() float64 {
	var sum float64
	for i := range c.items {
		sum += P(&c.items[i]).base().amount
	}
	return sum
}

// All iterates over index and record pointer pairs
func (c *Collection[T, P]) All() iter.Seq2[int, P] {
	return func(yield func(int, P) bool) {
		for i := range c.items {
			if !yield(i, P(&c.items[i])) {
				return
			}
		}
	}
}
