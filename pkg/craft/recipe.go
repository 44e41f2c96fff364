package craft

import (
	"fmt"
	"strings"
)

// RecipeValidator checks a recipe against the producer graph it is registered
// in. A recipe index implements this so that mutating a registered recipe's
// inputs re-runs transitive cycle detection.
type RecipeValidator interface {
	ValidateRecipe(*Recipe) error
}

// RecipeObserver is a RecipeValidator that keeps derived structures keyed by
// the recipe's stacks. After a validated mutation the recipe reports the
// pre-mutation input sequence so the observer can re-key it.
type RecipeObserver interface {
	RecipeValidator
	RecipeMutated(r *Recipe, before []Item)
}

// Recipe transforms an input inventory into an output inventory, gated by an
// enabled flag and a priority used to order competing producers of the same
// item. Input insertion order is preserved: it is the key sequence recipes are
// stored under in the prefix trie.
type Recipe struct {
	inputs   *Inventory
	outputs  *Inventory
	inputSeq []Item

	Enabled  bool
	Priority int

	validator RecipeValidator
}

// NewRecipe returns an empty, enabled recipe at priority 0.
func NewRecipe() *Recipe {
	return &Recipe{
		inputs:  NewInventory(),
		outputs: NewInventory(),
		Enabled: true,
	}
}

// AddInput merges the stack into the recipe's inputs exactly like
// Inventory.Add, then re-runs cycle validation. A recipe whose inputs include
// one of its own output items, directly or through the producer graph of a
// bound validator, fails with RecursiveRecipeError; on failure the merge is
// rolled back and the recipe is unchanged.
func (r *Recipe) AddInput(s Stack) error {
	before := r.InputSequence()
	appended := false
	if s.Amount > 0 && !r.inputs.Contains(s.Item) {
		r.inputSeq = append(r.inputSeq, s.Item)
		appended = true
	}
	added := r.inputs.Add(s)
	if err := r.validate(); err != nil {
		if added > 0 {
			r.inputs.Subtract(Stack{Item: s.Item, Amount: added})
		}
		if appended {
			r.inputSeq = r.inputSeq[:len(r.inputSeq)-1]
		}
		return err
	}
	r.notifyMutated(before)
	return nil
}

// AddOutput merges the stack into the recipe's outputs, then re-runs cycle
// validation. On failure the merge is rolled back.
func (r *Recipe) AddOutput(s Stack) error {
	before := r.InputSequence()
	added := r.outputs.Add(s)
	if err := r.validate(); err != nil {
		if added > 0 {
			r.outputs.Subtract(Stack{Item: s.Item, Amount: added})
		}
		return err
	}
	r.notifyMutated(before)
	return nil
}

// notifyMutated tells a bound observer to re-key the recipe after a
// successful mutation.
func (r *Recipe) notifyMutated(before []Item) {
	if obs, ok := r.validator.(RecipeObserver); ok {
		obs.RecipeMutated(r, before)
	}
}

// validate enforces the acyclicity invariant. The direct rule is local: no
// output item may appear among the inputs. The transitive rule needs the
// producer graph and only runs when a validator is bound.
func (r *Recipe) validate() error {
	for _, out := range r.outputs.Stacks() {
		if r.inputs.Contains(out.Item) {
			return &RecursiveRecipeError{Item: out.Item, Recipe: r}
		}
	}
	if r.validator != nil {
		return r.validator.ValidateRecipe(r)
	}
	return nil
}

// Bind attaches a validator. The owning recipe index binds itself on add and
// clears the binding on remove.
func (r *Recipe) Bind(v RecipeValidator) {
	r.validator = v
}

// Inputs returns the input stacks in canonical item order.
func (r *Recipe) Inputs() []Stack {
	return r.inputs.Stacks()
}

// Outputs returns the output stacks in canonical item order.
func (r *Recipe) Outputs() []Stack {
	return r.outputs.Stacks()
}

// InputSequence returns the distinct input items in the order they were
// added. This sequence keys the recipe's path in the trie.
func (r *Recipe) InputSequence() []Item {
	seq := make([]Item, len(r.inputSeq))
	copy(seq, r.inputSeq)
	return seq
}

// SequencedInputs returns the input stacks in insertion order.
func (r *Recipe) SequencedInputs() []Stack {
	out := make([]Stack, 0, len(r.inputSeq))
	for _, item := range r.inputSeq {
		if s, ok := r.inputs.Get(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// InputStack returns the input stack for the item, if any.
func (r *Recipe) InputStack(item Item) (Stack, bool) {
	return r.inputs.Get(item)
}

// OutputStack returns the output stack for the item, if any.
func (r *Recipe) OutputStack(item Item) (Stack, bool) {
	return r.outputs.Get(item)
}

// RequiresInput reports whether the item is among this recipe's direct
// inputs. Transitive requirements are answered by the index's producer graph.
func (r *Recipe) RequiresInput(item Item) bool {
	return r.inputs.Contains(item)
}

// SetPriority sets the priority and returns the recipe for chaining.
func (r *Recipe) SetPriority(priority int) *Recipe {
	r.Priority = priority
	return r
}

// SetEnabled sets the enabled flag and returns the recipe for chaining.
func (r *Recipe) SetEnabled(enabled bool) *Recipe {
	r.Enabled = enabled
	return r
}

// Equal reports value equality: same input stacks, output stacks, and
// priority. The enabled flag does not participate, matching the trie's
// idempotent-insert invariant.
func (r *Recipe) Equal(other *Recipe) bool {
	if other == nil {
		return false
	}
	if r.Priority != other.Priority {
		return false
	}
	return inventoriesEqual(r.inputs, other.inputs) && inventoriesEqual(r.outputs, other.outputs)
}

func inventoriesEqual(a, b *Inventory) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, s := range a.Stacks() {
		o, ok := b.Get(s.Item)
		if !ok || o.Amount != s.Amount || o.Chance != s.Chance {
			return false
		}
	}
	return true
}

// String renders the recipe grammar: "stack + stack -> stack + stack".
func (r *Recipe) String() string {
	return fmt.Sprintf("%s -> %s", joinStacks(r.SequencedInputs()), joinStacks(r.Outputs()))
}

func joinStacks(stacks []Stack) string {
	parts := make([]string, len(stacks))
	for i, s := range stacks {
		parts[i] = s.String()
	}
	return strings.Join(parts, " + ")
}
