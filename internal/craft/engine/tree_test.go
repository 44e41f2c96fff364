package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/craftplan/pkg/craft"
)

func mustStack(t *testing.T, token string) craft.Stack {
	t.Helper()
	s, err := craft.ParseStack(token)
	require.NoError(t, err)
	return s
}

func TestBuildTreeExpandsChain(t *testing.T) {
	idx := buildIndex(t,
		"<wood_log> -> <wood_plank>:4",
		"<wood_plank>:2 + <stick>:4 -> <fence>:3",
		"<wood_plank>:2 -> <stick>:4",
	)
	r := NewResolver(idx)

	root, err := r.BuildTree(mustStack(t, "<fence>:3"), nil)
	require.NoError(t, err)

	assert.Equal(t, "fence", root.Stack.Item.Name)
	assert.Equal(t, 1, root.Crafts)
	require.NotNil(t, root.Recipe)
	require.Len(t, root.Children, 2)

	// Children follow the recipe's canonical input order.
	stick, plank := root.Children[0], root.Children[1]
	assert.Equal(t, "stick", stick.Stack.Item.Name)
	assert.Equal(t, 4, stick.Stack.Amount)
	assert.Equal(t, "wood_plank", plank.Stack.Item.Name)

	// Sticks expand into planks which expand into a raw log.
	require.Len(t, stick.Children, 1)
	leaf := stick.Children[0].Children[0]
	assert.Equal(t, "wood_log", leaf.Stack.Item.Name)
	assert.Nil(t, leaf.Recipe)
	assert.Empty(t, leaf.Children)
}

func TestBuildTreeStopsAtCatalyst(t *testing.T) {
	idx := buildIndex(t,
		"<iron_ore> + <furnace>:1:0 -> <iron_ingot>",
		"<stone>:8 -> <furnace>",
	)
	r := NewResolver(idx)

	root, err := r.BuildTree(mustStack(t, "<iron_ingot>:3"), nil)
	require.NoError(t, err)
	require.Len(t, root.Children, 2)

	furnace := root.Children[0]
	assert.Equal(t, "furnace", furnace.Stack.Item.Name)
	assert.True(t, furnace.Stack.IsCatalyst())

	// Catalysts are terminal even though a producer exists.
	assert.Nil(t, furnace.Recipe)
	assert.Empty(t, furnace.Children)
}

func TestBuildTreeRecordsSoleProducers(t *testing.T) {
	idx := buildIndex(t, "<wood_log> -> <wood_plank>:4")
	r := NewResolver(idx)
	cat := craft.NewCatalog()

	_, err := r.BuildTree(mustStack(t, "<wood_plank>:8"), cat)
	require.NoError(t, err)

	producer, ok := cat.Producer(craft.MustItem("wood_plank", 0))
	require.True(t, ok)
	_, ok = producer.OutputStack(craft.MustItem("wood_plank", 0))
	assert.True(t, ok)
}

func TestBuildTreeConflictingProducerAssignment(t *testing.T) {
	idx := buildIndex(t, "<wood_log> -> <wood_plank>:4")
	r := NewResolver(idx)

	cat := craft.NewCatalog()
	other := mustRecipe(t, "<bamboo>:9 -> <wood_plank>:2")
	require.NoError(t, cat.SetProducer(craft.MustItem("wood_plank", 0), other))

	_, err := r.BuildTree(mustStack(t, "<wood_plank>:8"), cat)
	var dup *craft.DuplicateRecipeError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "wood_plank", dup.Item.Name)
}

func TestBuildTreeDepthBound(t *testing.T) {
	idx := buildIndex(t,
		"<ore_a> -> <metal_b>",
		"<metal_b>:2 -> <alloy_c>",
		"<alloy_c>:2 -> <ingot_d>",
	)
	r := NewResolver(idx, WithMaxVisits(2))

	_, err := r.BuildTree(mustStack(t, "<ingot_d>"), nil)
	var depth *craft.RecipeDepthError
	require.ErrorAs(t, err, &depth)
}

func TestBuildTreeAmbiguousProducer(t *testing.T) {
	idx := buildIndex(t,
		"<iron_ore> -> <iron_plate>",
		"<scrap_iron>:3 -> <iron_plate>",
	)
	r := NewResolver(idx)

	_, err := r.BuildTree(mustStack(t, "<iron_plate>:2"), nil)
	var ambiguous *craft.AmbiguousRecipeError
	assert.ErrorAs(t, err, &ambiguous)
}
