// Package craft contains the core value types for the crafting planner:
// items, stacks, inventories, recipes, and the textual grammar they share.
package craft

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Item identifies a craftable or raw good by snake_case name and metadata
// variant. Identity, equality, and ordering consider (Name, Metadata) only;
// AnyMetadata is a display and query hint produced by the "<name:*>" token
// form and never participates in equality.
type Item struct {
	Name        string
	Metadata    int
	AnyMetadata bool
}

// Key is the identity of an Item. Equal keys mean the same logical item.
type Key struct {
	Name     string
	Metadata int
}

var namePattern = regexp.MustCompile(`^[A-Za-z]\w*$`)

// NewItem validates the name and metadata and returns the item. The name must
// match [A-Za-z]\w* and metadata must be non-negative.
func NewItem(name string, metadata int, anyMetadata bool) (Item, error) {
	if !namePattern.MatchString(name) {
		return Item{}, &InvalidIdentifierError{Token: name}
	}
	if metadata < 0 {
		return Item{}, &InvalidIdentifierError{Token: fmt.Sprintf("%s:%d", name, metadata)}
	}
	return Item{Name: name, Metadata: metadata, AnyMetadata: anyMetadata}, nil
}

// MustItem is NewItem for statically known names. It panics on invalid input.
func MustItem(name string, metadata int) Item {
	it, err := NewItem(name, metadata, false)
	if err != nil {
		panic(err)
	}
	return it
}

// Key returns the item's identity key.
func (it Item) Key() Key {
	return Key{Name: it.Name, Metadata: it.Metadata}
}

// Equal reports whether both items share the same (name, metadata) identity.
func (it Item) Equal(other Item) bool {
	return it.Key() == other.Key()
}

// Compare orders items by name, then metadata.
func (it Item) Compare(other Item) int {
	if c := strings.Compare(it.Name, other.Name); c != 0 {
		return c
	}
	switch {
	case it.Metadata < other.Metadata:
		return -1
	case it.Metadata > other.Metadata:
		return 1
	}
	return 0
}

// String renders the canonical token form: <name:metadata>, or <name:*> when
// the item carries the wildcard hint.
func (it Item) String() string {
	if it.AnyMetadata {
		return fmt.Sprintf("<%s:*>", it.Name)
	}
	return fmt.Sprintf("<%s:%d>", it.Name, it.Metadata)
}

// DisplayName converts the snake_case name to a title-cased human-readable
// form, e.g. "wood_log" becomes "Wood Log". Per-item overrides live in a
// Catalog, not on the item itself.
func (it Item) DisplayName() string {
	words := strings.ReplaceAll(it.Name, "_", " ")
	return cases.Title(language.English).String(words)
}
