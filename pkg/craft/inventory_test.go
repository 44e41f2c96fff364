package craft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustStack(t *testing.T, token string) Stack {
	t.Helper()
	s, err := ParseStack(token)
	require.NoError(t, err)
	return s
}

func TestInventoryAdd(t *testing.T) {
	inv := NewInventory()

	assert.Equal(t, 4, inv.Add(mustStack(t, "<wood_plank>:4")))
	assert.Equal(t, 2, inv.Add(mustStack(t, "<wood_plank>:2")))
	assert.Equal(t, 0, inv.Add(Stack{Item: MustItem("wood_plank", 0), Amount: 0, Chance: 1}))

	got, ok := inv.Get(MustItem("wood_plank", 0))
	require.True(t, ok)
	assert.Equal(t, 6, got.Amount)
	assert.Equal(t, 1, inv.Len())
}

func TestInventoryAddKeepsExistingChance(t *testing.T) {
	inv := NewInventory(mustStack(t, "<wood_pulp>:2:0.5"))
	inv.Add(mustStack(t, "<wood_pulp>:3"))

	got, ok := inv.Get(MustItem("wood_pulp", 0))
	require.True(t, ok)
	assert.Equal(t, 5, got.Amount)
	assert.InDelta(t, 0.5, got.Chance, 1e-9)
}

func TestInventorySubtract(t *testing.T) {
	inv := NewInventory(mustStack(t, "<iron_ingot>:10"))

	assert.Equal(t, 4, inv.Subtract(mustStack(t, "<iron_ingot>:4")))
	got, _ := inv.Get(MustItem("iron_ingot", 0))
	assert.Equal(t, 6, got.Amount)

	// Over-subtraction removes only what is held and prunes the entry.
	assert.Equal(t, 6, inv.Subtract(mustStack(t, "<iron_ingot>:100")))
	assert.False(t, inv.Contains(MustItem("iron_ingot", 0)))
	assert.True(t, inv.Empty())

	assert.Equal(t, 0, inv.Subtract(mustStack(t, "<iron_ingot>:1")))
}

func TestInventoryAddSubtractRestores(t *testing.T) {
	inv := NewInventory(mustStack(t, "<stone>:5"))
	before := inv.String()

	inv.Add(mustStack(t, "<coal>:3"))
	inv.Subtract(mustStack(t, "<coal>:3"))

	assert.Equal(t, before, inv.String())
}

func TestInventoryStacksCanonicalOrder(t *testing.T) {
	inv := NewInventory(
		mustStack(t, "<wool:5>:3"),
		mustStack(t, "<apple>"),
		mustStack(t, "<wool:1>:2"),
		mustStack(t, "<stone>:7"),
	)

	stacks := inv.Stacks()
	require.Len(t, stacks, 4)
	assert.Equal(t, "apple", stacks[0].Item.Name)
	assert.Equal(t, "stone", stacks[1].Item.Name)
	assert.Equal(t, 1, stacks[2].Item.Metadata)
	assert.Equal(t, 5, stacks[3].Item.Metadata)

	assert.Equal(t, "<apple:0>, <stone:0>:7, <wool:1>:2, <wool:5>:3", inv.String())
}

func TestInventoryCloneIsIndependent(t *testing.T) {
	inv := NewInventory(mustStack(t, "<stone>:5"))
	clone := inv.Clone()

	clone.Add(mustStack(t, "<stone>:5"))
	got, _ := inv.Get(MustItem("stone", 0))
	assert.Equal(t, 5, got.Amount)
}

func TestInventoryMerge(t *testing.T) {
	a := NewInventory(mustStack(t, "<stone>:2"), mustStack(t, "<coal>"))
	b := NewInventory(mustStack(t, "<stone>:3"), mustStack(t, "<iron_ore>"))

	a.Merge(b)
	got, _ := a.Get(MustItem("stone", 0))
	assert.Equal(t, 5, got.Amount)
	assert.Equal(t, 3, a.Len())
}

func TestParseInventory(t *testing.T) {
	inv, err := ParseInventory("<wood_plank>:64, <stick>:4")
	require.NoError(t, err)
	assert.Equal(t, 2, inv.Len())

	empty, err := ParseInventory("")
	require.NoError(t, err)
	assert.True(t, empty.Empty())

	_, err = ParseInventory("<wood_plank>:64, junk")
	assert.Error(t, err)
}
