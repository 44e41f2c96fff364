package engine

import (
	"math"

	"github.com/rsned/craftplan/pkg/craft"
)

// TreeNode is one step of a craft expansion: the demanded stack, the recipe
// chosen to meet it (nil for raw requirements), the number of crafts, and the
// scaled input demands below it.
type TreeNode struct {
	Stack    craft.Stack
	Recipe   *craft.Recipe
	Crafts   int
	Children []*TreeNode
}

// BuildTree expands the demand into a full craft tree, choosing producers
// under the same rules as Resolve. Every chosen assignment is recorded as the
// item's sole producer in cat, so a conflicting assignment surfaces as
// DuplicateRecipeError rather than silently diverging between branches. The
// visit bound applies across the whole tree.
func (r *Resolver) BuildTree(demand craft.Stack, cat *craft.Catalog) (*TreeNode, error) {
	if cat == nil {
		cat = craft.NewCatalog()
	}
	visits := 0
	return r.buildTree(demand, cat, &visits)
}

func (r *Resolver) buildTree(demand craft.Stack, cat *craft.Catalog, visits *int) (*TreeNode, error) {
	*visits++
	if *visits > r.maxVisits {
		return nil, &craft.RecipeDepthError{Limit: r.maxVisits}
	}

	node := &TreeNode{Stack: demand}
	if demand.IsCatalyst() {
		return node, nil
	}

	recipe, err := r.selectProducer(demand.Item)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return node, nil
	}
	if err := cat.SetProducer(demand.Item, recipe); err != nil {
		return nil, err
	}

	output, _ := recipe.OutputStack(demand.Item)
	node.Recipe = recipe
	node.Crafts = int(math.Ceil(float64(demand.Amount) / output.EffectiveAmount()))
	for _, in := range recipe.Inputs() {
		child, err := r.buildTree(in.Scale(node.Crafts), cat, visits)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}
