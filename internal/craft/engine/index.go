// Package engine contains the recipe index and the cost-resolution engine.
package engine

import (
	"github.com/rsned/craftplan/pkg/craft"
)

// Index maps items to the recipes that produce or consume them, and keeps a
// prefix trie over recipe input sequences. Add and remove keep the two maps
// and the trie in sync; a registered recipe is owned jointly by all three
// until removed. Index mutation must be externally synchronized against
// concurrent resolutions; resolution itself only reads.
type Index struct {
	producers map[craft.Key][]*craft.Recipe
	consumers map[craft.Key][]*craft.Recipe
	trie      *Trie

	// revision increments on every successful mutation so resolver caches
	// can tell stale results from fresh ones.
	revision uint64
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		producers: make(map[craft.Key][]*craft.Recipe),
		consumers: make(map[craft.Key][]*craft.Recipe),
		trie:      NewTrie(),
	}
}

// Add registers the recipe under every output item (producers), every input
// item (consumers), and along its input sequence in the trie. Adding a
// value-equal recipe is a no-op. The recipe is linked tentatively and
// validated against the resulting producer graph; on a cycle it is unlinked
// again and the add fails with RecursiveRecipeError.
func (x *Index) Add(r *craft.Recipe) error {
	if _, ok := x.trie.Find(r); ok {
		return nil
	}
	x.link(r)
	x.trie.Insert(r)
	if err := x.ValidateRecipe(r); err != nil {
		x.trie.Remove(r)
		x.unlink(r)
		return err
	}
	r.Bind(x)
	x.revision++
	return nil
}

// Remove unregisters the recipe from both maps and the trie, pruning any
// trie branches left childless. Returns false if the recipe was not present.
func (x *Index) Remove(r *craft.Recipe) bool {
	found, ok := x.trie.Find(r)
	if !ok {
		return false
	}
	x.trie.Remove(found)
	x.unlink(found)
	found.Bind(nil)
	x.revision++
	return true
}

// Find walks the trie by the recipe's input-item sequence and returns the
// registered value-equal recipe, if any.
func (x *Index) Find(r *craft.Recipe) (*craft.Recipe, bool) {
	return x.trie.Find(r)
}

// Producers returns the recipes that output the item, in registration order.
func (x *Index) Producers(item craft.Item) []*craft.Recipe {
	return x.producers[item.Key()]
}

// Consumers returns the recipes that require the item as an input.
func (x *Index) Consumers(item craft.Item) []*craft.Recipe {
	return x.consumers[item.Key()]
}

// Candidates returns the registered recipes whose every input item is present
// in the inventory, regardless of amounts.
func (x *Index) Candidates(inv *craft.Inventory) []*craft.Recipe {
	return x.trie.Candidates(inv)
}

// Recipes returns every registered recipe.
func (x *Index) Recipes() []*craft.Recipe {
	return x.trie.Recipes()
}

// Len returns the number of registered recipes.
func (x *Index) Len() int {
	return x.trie.Len()
}

// Revision returns the mutation counter.
func (x *Index) Revision() uint64 {
	return x.revision
}

func (x *Index) link(r *craft.Recipe) {
	for _, out := range r.Outputs() {
		key := out.Item.Key()
		x.producers[key] = append(x.producers[key], r)
	}
	for _, in := range r.Inputs() {
		key := in.Item.Key()
		x.consumers[key] = append(x.consumers[key], r)
	}
}

func (x *Index) unlink(r *craft.Recipe) {
	for _, out := range r.Outputs() {
		x.producers[out.Item.Key()] = removeRecipe(x.producers[out.Item.Key()], r)
		if len(x.producers[out.Item.Key()]) == 0 {
			delete(x.producers, out.Item.Key())
		}
	}
	for _, in := range r.Inputs() {
		x.consumers[in.Item.Key()] = removeRecipe(x.consumers[in.Item.Key()], r)
		if len(x.consumers[in.Item.Key()]) == 0 {
			delete(x.consumers, in.Item.Key())
		}
	}
}

func removeRecipe(recipes []*craft.Recipe, r *craft.Recipe) []*craft.Recipe {
	for i, candidate := range recipes {
		if candidate == r {
			return append(recipes[:i], recipes[i+1:]...)
		}
	}
	return recipes
}

// RecipeMutated implements craft.RecipeObserver: a bound recipe that grew an
// input or output re-keys itself here. The trie leaf still sits under the
// pre-mutation input sequence, so it is removed by that sequence and
// reinserted; the maps are relinked so new items gain their entries. Only
// validated mutations reach this point.
func (x *Index) RecipeMutated(r *craft.Recipe, before []craft.Item) {
	if !x.trie.removeSeq(before, r) {
		return
	}
	x.trie.Insert(r)
	x.unlink(r)
	x.link(r)
	x.revision++
}

// ValidateRecipe implements craft.RecipeValidator: the add fails if any input
// item's production chain transitively requires that same item.
func (x *Index) ValidateRecipe(r *craft.Recipe) error {
	for _, in := range r.Inputs() {
		visited := make(map[craft.Key]bool)
		if x.requires(in.Item, in.Item, visited) {
			return &craft.RecursiveRecipeError{Item: in.Item, Recipe: r}
		}
	}
	return nil
}

// requires reports whether producing item transitively consumes target. The
// visited set bounds the walk on diamond-shaped graphs.
func (x *Index) requires(item, target craft.Item, visited map[craft.Key]bool) bool {
	if visited[item.Key()] {
		return false
	}
	visited[item.Key()] = true
	for _, p := range x.producers[item.Key()] {
		if p.RequiresInput(target) {
			return true
		}
		for _, in := range p.Inputs() {
			if x.requires(in.Item, target, visited) {
				return true
			}
		}
	}
	return false
}
