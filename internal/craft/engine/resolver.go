package engine

import (
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rsned/craftplan/pkg/craft"
)

// DefaultMaxVisits bounds the resolver's queue processing. Anything deeper is
// assumed to be a cycle that escaped construction-time validation.
const DefaultMaxVisits = 1000

// DefaultCacheSize is the number of memoized resolutions kept.
const DefaultCacheSize = 128

// Resolver expands a target inventory into leaf (unrecipe-backed) costs plus
// leftover byproducts. It only reads the index, so concurrent resolutions
// over a stable index are safe; Resolve is a pure function of its inputs and
// the index revision, which is what makes memoization sound.
type Resolver struct {
	idx       *Index
	maxVisits int
	memo      *lru.Cache[string, resolution]
}

type resolution struct {
	cost     *craft.Inventory
	leftover *craft.Inventory
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMaxVisits overrides the queue-processing bound.
func WithMaxVisits(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.maxVisits = n
		}
	}
}

// WithCacheSize overrides the memoization cache capacity.
func WithCacheSize(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			cache, err := lru.New[string, resolution](n)
			if err == nil {
				r.memo = cache
			}
		}
	}
}

// NewResolver returns a resolver over the index.
func NewResolver(idx *Index, opts ...ResolverOption) *Resolver {
	r := &Resolver{idx: idx, maxVisits: DefaultMaxVisits}
	// lru.New only fails on a non-positive size.
	r.memo, _ = lru.New[string, resolution](DefaultCacheSize)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve expands target into (cost, leftover) given an optional starting
// cache inventory. Neither argument is mutated. It fails with
// AmbiguousRecipeError when enabled producers tie at top priority, and with
// RecipeDepthError when processing exceeds the visit bound; no partial result
// is returned on failure.
func (r *Resolver) Resolve(target, have *craft.Inventory) (*craft.Inventory, *craft.Inventory, error) {
	if have == nil {
		have = craft.NewInventory()
	}
	key := fmt.Sprintf("%d|%s|%s", r.idx.Revision(), target, have)
	if res, ok := r.memo.Get(key); ok {
		return res.cost.Clone(), res.leftover.Clone(), nil
	}

	cost := craft.NewInventory()
	cache := have.Clone()
	queue := target.Stacks()

	visits := 0
	for len(queue) > 0 {
		visits++
		if visits > r.maxVisits {
			return nil, nil, &craft.RecipeDepthError{Limit: r.maxVisits}
		}
		demand := queue[0]
		queue = queue[1:]

		// Catalyst demands are never purchased.
		if demand.IsCatalyst() {
			continue
		}

		demand.Amount -= cache.Subtract(demand)
		if demand.Amount <= 0 {
			continue
		}

		recipe, err := r.selectProducer(demand.Item)
		if err != nil {
			return nil, nil, err
		}
		if recipe == nil {
			// Irreducible raw requirement.
			cost.Add(demand)
			continue
		}

		output, _ := recipe.OutputStack(demand.Item)
		crafts := int(math.Ceil(float64(demand.Amount) / output.EffectiveAmount()))
		for _, in := range recipe.Inputs() {
			queue = append(queue, in.Scale(crafts))
		}
		for _, out := range recipe.Outputs() {
			if out.IsCatalyst() {
				continue
			}
			produced := out.Scale(crafts)
			if !produced.Item.Equal(demand.Item) {
				cache.Add(produced)
				continue
			}
			if excess := produced.Amount - demand.Amount; excess > 0 {
				cache.Add(craft.Stack{Item: demand.Item, Amount: excess, Chance: 1})
			}
		}
	}

	r.memo.Add(key, resolution{cost: cost.Clone(), leftover: cache.Clone()})
	return cost, cache, nil
}

// selectProducer picks the recipe to satisfy a demand for item: enabled
// producers with a usable yield, filtered to the maximum priority. Returns
// nil when no usable recipe exists and AmbiguousRecipeError on a tie.
func (r *Resolver) selectProducer(item craft.Item) (*craft.Recipe, error) {
	var usable []*craft.Recipe
	for _, candidate := range r.idx.Producers(item) {
		if !candidate.Enabled {
			continue
		}
		out, ok := candidate.OutputStack(item)
		if !ok || out.EffectiveAmount() <= 0 {
			continue
		}
		usable = append(usable, candidate)
	}
	if len(usable) == 0 {
		return nil, nil
	}

	top := usable[:0]
	maxPriority := usable[0].Priority
	for _, candidate := range usable {
		if candidate.Priority > maxPriority {
			maxPriority = candidate.Priority
		}
	}
	for _, candidate := range usable {
		if candidate.Priority == maxPriority {
			top = append(top, candidate)
		}
	}
	if len(top) > 1 {
		return nil, &craft.AmbiguousRecipeError{Item: item, Recipes: append([]*craft.Recipe(nil), top...)}
	}
	return top[0], nil
}
