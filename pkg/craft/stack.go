package craft

import (
	"fmt"
	"math"
	"strconv"
)

// Stack pairs an item with a quantity and a yield chance. A chance of zero
// marks a catalyst: required as an input but never consumed, and never
// produced as an output.
type Stack struct {
	Item   Item
	Amount int
	Chance float64
}

// NewStack validates amount and chance and returns the stack.
func NewStack(item Item, amount int, chance float64) (Stack, error) {
	if amount < 0 {
		return Stack{}, fmt.Errorf("stack amount must be non-negative, got %d", amount)
	}
	if chance < 0 || chance > 1 {
		return Stack{}, fmt.Errorf("stack chance must be in [0,1], got %v", chance)
	}
	return Stack{Item: item, Amount: amount, Chance: chance}, nil
}

// EffectiveAmount is the average yield: amount scaled by chance.
func (s Stack) EffectiveAmount() float64 {
	return float64(s.Amount) * s.Chance
}

// ConservativeAmount is the average yield rounded down.
func (s Stack) ConservativeAmount() int {
	return int(math.Floor(s.EffectiveAmount()))
}

// LiberalAmount is the average yield rounded up.
func (s Stack) LiberalAmount() int {
	return int(math.Ceil(s.EffectiveAmount()))
}

// IsCatalyst reports whether the stack denotes a catalyst (zero yield chance).
func (s Stack) IsCatalyst() bool {
	return s.Chance <= 0
}

// Scale multiplies the amount by an integer factor. Chance is unchanged.
func (s Stack) Scale(factor int) Stack {
	s.Amount *= factor
	return s
}

// Add returns a stack with the combined amount of both stacks. The chance of
// the receiver is kept. Adding stacks of different items fails with
// IncompatibleStackError.
func (s Stack) Add(other Stack) (Stack, error) {
	if !s.Item.Equal(other.Item) {
		return Stack{}, &IncompatibleStackError{Have: s.Item, Want: other.Item}
	}
	s.Amount += other.Amount
	return s, nil
}

// IsSuperstack reports whether this stack is of the same item and holds at
// least as many as other. 32 iron ingots is a superstack of 8 iron ingots.
func (s Stack) IsSuperstack(other Stack) bool {
	if !s.Item.Equal(other.Item) {
		return false
	}
	return s.Amount >= other.Amount
}

// String renders the token form ItemToken[:amount][:chance], omitting the
// default amount 1 and chance 1.0.
func (s Stack) String() string {
	switch {
	case s.Chance != 1.0:
		return fmt.Sprintf("%s:%d:%s", s.Item, s.Amount, strconv.FormatFloat(s.Chance, 'g', -1, 64))
	case s.Amount != 1:
		return fmt.Sprintf("%s:%d", s.Item, s.Amount)
	}
	return s.Item.String()
}
