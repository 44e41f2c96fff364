package craft

import (
	"sort"
	"strings"
)

// Inventory is a keyed multiset of stacks holding at most one stack per
// distinct item. Entries always have a positive amount; subtraction prunes
// entries that reach zero.
type Inventory struct {
	stacks map[Key]Stack
}

// NewInventory returns an inventory seeded with the given stacks.
func NewInventory(stacks ...Stack) *Inventory {
	inv := &Inventory{stacks: make(map[Key]Stack)}
	for _, s := range stacks {
		inv.Add(s)
	}
	return inv
}

// Add merges the stack's amount into the existing entry for its item, or
// inserts a new entry. Stacks with a non-positive amount are a no-op. Returns
// the amount added. A merge keeps the chance of the existing entry.
func (inv *Inventory) Add(s Stack) int {
	if s.Amount <= 0 {
		return 0
	}
	key := s.Item.Key()
	if existing, ok := inv.stacks[key]; ok {
		existing.Amount += s.Amount
		inv.stacks[key] = existing
	} else {
		inv.stacks[key] = s
	}
	return s.Amount
}

// Subtract removes up to min(existing, s.Amount) of the stack's item, deleting
// the entry when it reaches zero. Returns the amount actually removed, which
// may be less than requested.
func (inv *Inventory) Subtract(s Stack) int {
	key := s.Item.Key()
	existing, ok := inv.stacks[key]
	if !ok {
		return 0
	}
	removed := min(existing.Amount, s.Amount)
	existing.Amount -= removed
	if existing.Amount <= 0 {
		delete(inv.stacks, key)
	} else {
		inv.stacks[key] = existing
	}
	return removed
}

// Get returns the stack held for the item, if any.
func (inv *Inventory) Get(item Item) (Stack, bool) {
	s, ok := inv.stacks[item.Key()]
	return s, ok
}

// Contains reports whether the inventory holds any amount of the item.
func (inv *Inventory) Contains(item Item) bool {
	_, ok := inv.stacks[item.Key()]
	return ok
}

// Len returns the number of distinct items held.
func (inv *Inventory) Len() int {
	return len(inv.stacks)
}

// Empty reports whether the inventory holds nothing.
func (inv *Inventory) Empty() bool {
	return len(inv.stacks) == 0
}

// Stacks returns all held stacks in canonical item order (name, then
// metadata), required for deterministic display and resolution.
func (inv *Inventory) Stacks() []Stack {
	out := make([]Stack, 0, len(inv.stacks))
	for _, s := range inv.stacks {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Item.Compare(out[j].Item) < 0
	})
	return out
}

// Clone returns a deep copy.
func (inv *Inventory) Clone() *Inventory {
	out := &Inventory{stacks: make(map[Key]Stack, len(inv.stacks))}
	for k, s := range inv.stacks {
		out.stacks[k] = s
	}
	return out
}

// Merge adds every stack of other into this inventory.
func (inv *Inventory) Merge(other *Inventory) {
	for _, s := range other.Stacks() {
		inv.Add(s)
	}
}

// String renders the comma-separated stack list in canonical order.
func (inv *Inventory) String() string {
	stacks := inv.Stacks()
	parts := make([]string, len(stacks))
	for i, s := range stacks {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}
