package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/craftplan/pkg/craft"
)

func TestIndexAddLinksProducersAndConsumers(t *testing.T) {
	idx := NewIndex()
	plank := mustRecipe(t, "<wood_log> -> <wood_plank>:6 + <wood_pulp>:1:0.5")
	fence := mustRecipe(t, "<wood_plank>:2 + <stick>:4 -> <fence>:3")
	require.NoError(t, idx.Add(plank))
	require.NoError(t, idx.Add(fence))

	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, []*craft.Recipe{plank}, idx.Producers(craft.MustItem("wood_plank", 0)))
	assert.Equal(t, []*craft.Recipe{plank}, idx.Producers(craft.MustItem("wood_pulp", 0)))
	assert.Equal(t, []*craft.Recipe{fence}, idx.Consumers(craft.MustItem("wood_plank", 0)))
	assert.Empty(t, idx.Producers(craft.MustItem("wood_log", 0)))

	got, ok := idx.Find(mustRecipe(t, "<wood_plank>:2 + <stick>:4 -> <fence>:3"))
	require.True(t, ok)
	assert.Same(t, fence, got)
}

func TestIndexAddIdempotent(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Add(mustRecipe(t, "<wood_log> -> <wood_plank>:6")))
	rev := idx.Revision()

	require.NoError(t, idx.Add(mustRecipe(t, "<wood_log> -> <wood_plank>:6")))
	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, rev, idx.Revision())
	assert.Len(t, idx.Producers(craft.MustItem("wood_plank", 0)), 1)
}

func TestIndexRemove(t *testing.T) {
	idx := NewIndex()
	plank := mustRecipe(t, "<wood_log> -> <wood_plank>:6")
	require.NoError(t, idx.Add(plank))

	// Removal accepts any value-equal recipe.
	assert.True(t, idx.Remove(mustRecipe(t, "<wood_log> -> <wood_plank>:6")))
	assert.Zero(t, idx.Len())
	assert.Empty(t, idx.Producers(craft.MustItem("wood_plank", 0)))
	assert.Empty(t, idx.Consumers(craft.MustItem("wood_log", 0)))

	assert.False(t, idx.Remove(plank))
}

func TestIndexRevisionTracksMutation(t *testing.T) {
	idx := NewIndex()
	r := mustRecipe(t, "<wood_log> -> <wood_plank>:6")

	rev := idx.Revision()
	require.NoError(t, idx.Add(r))
	assert.Greater(t, idx.Revision(), rev)

	rev = idx.Revision()
	idx.Remove(r)
	assert.Greater(t, idx.Revision(), rev)
}

func TestIndexRejectsMutualRecursion(t *testing.T) {
	// Classic mutual pair: each output feeds the other's inputs. Whichever
	// recipe arrives second must be rejected, in either order.
	starFromDust := "<nether_dust>:4 -> <nether_star>"
	dustFromStar := "<nether_star> -> <nether_dust>:4"

	t.Run("star then dust", func(t *testing.T) {
		idx := NewIndex()
		require.NoError(t, idx.Add(mustRecipe(t, starFromDust)))

		err := idx.Add(mustRecipe(t, dustFromStar))
		var recursive *craft.RecursiveRecipeError
		require.ErrorAs(t, err, &recursive)
		assert.Equal(t, 1, idx.Len())
	})

	t.Run("dust then star", func(t *testing.T) {
		idx := NewIndex()
		require.NoError(t, idx.Add(mustRecipe(t, dustFromStar)))

		err := idx.Add(mustRecipe(t, starFromDust))
		var recursive *craft.RecursiveRecipeError
		require.ErrorAs(t, err, &recursive)
		assert.Equal(t, 1, idx.Len())
	})
}

func TestIndexRejectedAddLeavesNoTrace(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Add(mustRecipe(t, "<nether_dust>:4 -> <nether_star>")))
	rev := idx.Revision()

	bad := mustRecipe(t, "<nether_star> -> <nether_dust>:4")
	require.Error(t, idx.Add(bad))

	assert.Equal(t, rev, idx.Revision())
	assert.Empty(t, idx.Producers(craft.MustItem("nether_dust", 0)))
	assert.Len(t, idx.Consumers(craft.MustItem("nether_dust", 0)), 1)
	_, ok := idx.Find(bad)
	assert.False(t, ok)
}

func TestIndexRejectsLongerCycle(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Add(mustRecipe(t, "<a_item> -> <b_item>")))
	require.NoError(t, idx.Add(mustRecipe(t, "<b_item> -> <c_item>")))

	err := idx.Add(mustRecipe(t, "<c_item> -> <a_item>"))
	var recursive *craft.RecursiveRecipeError
	require.ErrorAs(t, err, &recursive)
	assert.Equal(t, 2, idx.Len())
}

func TestIndexValidatesRegisteredRecipeMutation(t *testing.T) {
	idx := NewIndex()
	planks := mustRecipe(t, "<wood_log> -> <wood_plank>:6")
	require.NoError(t, idx.Add(planks))

	// Once registered, growing the recipe's inputs revalidates against
	// the producer graph.
	logsFromPlanks := mustRecipe(t, "<wood_plank>:8 -> <wood_log>")
	err := idx.Add(logsFromPlanks)
	var recursive *craft.RecursiveRecipeError
	require.ErrorAs(t, err, &recursive)

	s, err2 := craft.NewStack(craft.MustItem("wood_plank", 0), 1, 1)
	require.NoError(t, err2)
	assert.Error(t, planks.AddInput(s))

	// The rejected mutation rolled back, so the recipe still removes
	// cleanly under its original key sequence.
	assert.False(t, planks.RequiresInput(craft.MustItem("wood_plank", 0)))
	assert.True(t, idx.Remove(planks))
}

func TestIndexResyncsAfterInputMutation(t *testing.T) {
	idx := NewIndex()
	r := mustRecipe(t, "<wood_log> -> <wood_plank>:6")
	require.NoError(t, idx.Add(r))
	rev := idx.Revision()

	water, err := craft.NewStack(craft.MustItem("water", 0), 1, 1)
	require.NoError(t, err)
	require.NoError(t, r.AddInput(water))

	// The grown recipe is re-keyed everywhere: the new input has a
	// consumer entry, the trie answers under the new sequence, and the
	// revision moved so memoized resolutions go stale.
	assert.Equal(t, []*craft.Recipe{r}, idx.Consumers(craft.MustItem("water", 0)))
	assert.Greater(t, idx.Revision(), rev)

	got, ok := idx.Find(r)
	require.True(t, ok)
	assert.Same(t, r, got)

	require.True(t, idx.Remove(r))
	assert.Zero(t, idx.Len())
	assert.Empty(t, idx.Producers(craft.MustItem("wood_plank", 0)))
	assert.Empty(t, idx.Consumers(craft.MustItem("wood_log", 0)))
	assert.Empty(t, idx.Consumers(craft.MustItem("water", 0)))
}

func TestIndexResyncsAfterOutputMutation(t *testing.T) {
	idx := NewIndex()
	r := mustRecipe(t, "<wood_log> -> <wood_plank>:6")
	require.NoError(t, idx.Add(r))

	sawdust, err := craft.NewStack(craft.MustItem("sawdust", 0), 2, 0.5)
	require.NoError(t, err)
	require.NoError(t, r.AddOutput(sawdust))

	assert.Equal(t, []*craft.Recipe{r}, idx.Producers(craft.MustItem("sawdust", 0)))

	require.True(t, idx.Remove(r))
	assert.Empty(t, idx.Producers(craft.MustItem("sawdust", 0)))
}

func TestIndexCandidates(t *testing.T) {
	idx := NewIndex()
	fence := mustRecipe(t, "<wood_plank>:2 + <stick>:4 -> <fence>:3")
	require.NoError(t, idx.Add(fence))
	require.NoError(t, idx.Add(mustRecipe(t, "<coal> + <stick> -> <torch>:4")))

	got := idx.Candidates(mustInventory(t, "<wood_plank>:64, <stick>:3"))
	assert.Equal(t, []*craft.Recipe{fence}, got)
}
