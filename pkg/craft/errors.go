package craft

import (
	"fmt"
	"strings"
)

// InvalidIdentifierError reports a malformed item name or token.
type InvalidIdentifierError struct {
	Token string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid item identifier %q", e.Token)
}

// IncompatibleStackError reports arithmetic between stacks of different items.
type IncompatibleStackError struct {
	Have Item
	Want Item
}

func (e *IncompatibleStackError) Error() string {
	return fmt.Sprintf("incompatible stacks: %s and %s", e.Have, e.Want)
}

// DuplicateRecipeError reports a second producer registered where the calling
// context requires exactly one recipe per item.
type DuplicateRecipeError struct {
	Item Item
}

func (e *DuplicateRecipeError) Error() string {
	return fmt.Sprintf("a recipe for %s is already registered", e.Item)
}

// RecursiveRecipeError reports a cycle in the recipe graph: producing Item
// transitively requires Item itself as an input.
type RecursiveRecipeError struct {
	Item   Item
	Recipe *Recipe
}

func (e *RecursiveRecipeError) Error() string {
	if e.Recipe != nil {
		return fmt.Sprintf("recursive recipe: %s transitively requires itself in %s", e.Item, e.Recipe)
	}
	return fmt.Sprintf("recursive recipe: %s transitively requires itself", e.Item)
}

// RecipeDepthError reports that resolution exceeded the iteration bound. It is
// the runtime backstop against cycles that escaped construction-time checks.
type RecipeDepthError struct {
	Limit int
}

func (e *RecipeDepthError) Error() string {
	return fmt.Sprintf("recipe resolution exceeded %d steps", e.Limit)
}

// AmbiguousRecipeError reports more than one enabled producer at top priority
// for a demanded item. Resolution never picks one heuristically.
type AmbiguousRecipeError struct {
	Item    Item
	Recipes []*Recipe
}

func (e *AmbiguousRecipeError) Error() string {
	names := make([]string, len(e.Recipes))
	for i, r := range e.Recipes {
		names[i] = r.String()
	}
	return fmt.Sprintf("ambiguous recipes for %s: %s", e.Item, strings.Join(names, "; "))
}

// CompatibilityError reports a persisted document with a mismatched format
// version. Nothing is imported from such a document.
type CompatibilityError struct {
	Got  string
	Want string
}

func (e *CompatibilityError) Error() string {
	return fmt.Sprintf("unsupported recipe book version %q (want %q)", e.Got, e.Want)
}
