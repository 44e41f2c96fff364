package craft

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The textual grammar, human-authorable and round-trippable:
//
//	Item:      <name> | <name:metadata> | <name:*>
//	Stack:     ItemToken[:amount][:chance]
//	Recipe:    stack (+ stack)* -> stack (+ stack)*
//	Inventory: stack (, stack)*
//
// Parsing and formatting are free functions and String methods per concrete
// type; there is no shared serialization interface.

var (
	itemTokenPattern  = regexp.MustCompile(`^<([A-Za-z]\w*)(?::(\d+|\*))?>$`)
	stackTokenPattern = regexp.MustCompile(`^(<[A-Za-z]\w*(?::(?:\d+|\*))?>)(?::(\d+))?(?::(\d*\.?\d+))?$`)
)

// ParseItem parses an item token. Omitted metadata defaults to 0; "*" yields
// metadata 0 with the wildcard hint set.
func ParseItem(token string) (Item, error) {
	m := itemTokenPattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return Item{}, &InvalidIdentifierError{Token: token}
	}
	name, metaText := m[1], m[2]
	if metaText == "" || metaText == "*" {
		return NewItem(name, 0, metaText == "*")
	}
	metadata, err := strconv.Atoi(metaText)
	if err != nil {
		return Item{}, &InvalidIdentifierError{Token: token}
	}
	return NewItem(name, metadata, false)
}

// ParseStack parses a stack token. Omitted amount defaults to 1 and omitted
// chance to 1.0.
func ParseStack(token string) (Stack, error) {
	m := stackTokenPattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return Stack{}, &InvalidIdentifierError{Token: token}
	}
	item, err := ParseItem(m[1])
	if err != nil {
		return Stack{}, err
	}
	amount := 1
	if m[2] != "" {
		if amount, err = strconv.Atoi(m[2]); err != nil {
			return Stack{}, &InvalidIdentifierError{Token: token}
		}
	}
	chance := 1.0
	if m[3] != "" {
		if chance, err = strconv.ParseFloat(m[3], 64); err != nil {
			return Stack{}, &InvalidIdentifierError{Token: token}
		}
	}
	return NewStack(item, amount, chance)
}

// ParseRecipe parses the recipe grammar, e.g.
// "<wood_log> -> <wood_plank>:4". Inputs keep their written order.
func ParseRecipe(text string) (*Recipe, error) {
	sides := strings.Split(text, "->")
	if len(sides) != 2 {
		return nil, fmt.Errorf("recipe must have the form \"inputs -> outputs\", got %q", text)
	}
	r := NewRecipe()
	for _, token := range strings.Split(sides[0], "+") {
		s, err := ParseStack(token)
		if err != nil {
			return nil, err
		}
		if err := r.AddInput(s); err != nil {
			return nil, err
		}
	}
	for _, token := range strings.Split(sides[1], "+") {
		s, err := ParseStack(token)
		if err != nil {
			return nil, err
		}
		if err := r.AddOutput(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ParseInventory parses a comma-separated free list of stack tokens.
func ParseInventory(text string) (*Inventory, error) {
	inv := NewInventory()
	if strings.TrimSpace(text) == "" {
		return inv, nil
	}
	for _, token := range strings.Split(text, ",") {
		s, err := ParseStack(token)
		if err != nil {
			return nil, err
		}
		inv.Add(s)
	}
	return inv, nil
}
