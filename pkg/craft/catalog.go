package craft

import "sort"

// Catalog is a caller-owned interning table of canonical items. It carries
// display-name overrides and, for contexts that demand exactly one recipe per
// item (the craft-tree builder), sole-producer assignments. Components that
// need identity comparison take a Catalog by reference; there is no
// process-wide registry.
type Catalog struct {
	items    map[Key]Item
	names    map[Key]string
	producer map[Key]*Recipe
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		items:    make(map[Key]Item),
		names:    make(map[Key]string),
		producer: make(map[Key]*Recipe),
	}
}

// Intern validates the identifier and returns the canonical item for its
// (name, metadata) key, creating it on first use. Equal keys always yield the
// same canonical item, so interned items never diverge in behavior.
func (c *Catalog) Intern(name string, metadata int, anyMetadata bool) (Item, error) {
	it, err := NewItem(name, metadata, anyMetadata)
	if err != nil {
		return Item{}, err
	}
	if existing, ok := c.items[it.Key()]; ok {
		return existing, nil
	}
	c.items[it.Key()] = it
	return it, nil
}

// SetDisplayName overrides the derived display name for the item.
func (c *Catalog) SetDisplayName(item Item, name string) {
	c.names[item.Key()] = name
}

// DisplayName returns the override for the item if one is set, otherwise the
// title-cased form of its snake_case name.
func (c *Catalog) DisplayName(item Item) string {
	if name, ok := c.names[item.Key()]; ok {
		return name
	}
	return item.DisplayName()
}

// SetProducer records the sole producing recipe for an item. Registering a
// second, different recipe for the same item fails with DuplicateRecipeError;
// re-registering the same assignment is a no-op.
func (c *Catalog) SetProducer(item Item, r *Recipe) error {
	if existing, ok := c.producer[item.Key()]; ok {
		if existing == r || existing.Equal(r) {
			return nil
		}
		return &DuplicateRecipeError{Item: item}
	}
	c.producer[item.Key()] = r
	return nil
}

// Producer returns the sole producing recipe recorded for the item, if any.
func (c *Catalog) Producer(item Item) (*Recipe, bool) {
	r, ok := c.producer[item.Key()]
	return r, ok
}

// Items returns the interned items in canonical order.
func (c *Catalog) Items() []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}
