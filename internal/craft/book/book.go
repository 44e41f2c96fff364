// Package book reads and writes the versioned recipe-book document: a JSON
// file carrying recipes in their textual grammar form.
package book

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/rsned/craftplan/pkg/craft"
)

// Version identifies the document format. Loading any other version fails
// with CompatibilityError and imports nothing.
const Version = "1.0"

//go:embed schema.json
var schemaJSON string

var docSchema = jsonschema.MustCompileString("book.schema.json", schemaJSON)

// Document is the persisted recipe-book format.
type Document struct {
	Version string        `json:"version"`
	Recipes []RecipeEntry `json:"recipes"`
}

// RecipeEntry is one recipe with stacks in grammar form. Input order is
// meaningful: it is the recipe's trie key sequence.
type RecipeEntry struct {
	Inputs   []string `json:"inputs"`
	Outputs  []string `json:"outputs"`
	Enabled  bool     `json:"enabled"`
	Priority int      `json:"priority"`
}

// Encode renders recipes into a current-version document.
func Encode(recipes []*craft.Recipe) *Document {
	doc := &Document{Version: Version, Recipes: make([]RecipeEntry, 0, len(recipes))}
	for _, r := range recipes {
		entry := RecipeEntry{Enabled: r.Enabled, Priority: r.Priority}
		for _, s := range r.SequencedInputs() {
			entry.Inputs = append(entry.Inputs, s.String())
		}
		for _, s := range r.Outputs() {
			entry.Outputs = append(entry.Outputs, s.String())
		}
		doc.Recipes = append(doc.Recipes, entry)
	}
	return doc
}

// Decode rebuilds recipes from a document. A version mismatch fails with
// CompatibilityError before any recipe is parsed.
func Decode(doc *Document) ([]*craft.Recipe, error) {
	if doc.Version != Version {
		return nil, &craft.CompatibilityError{Got: doc.Version, Want: Version}
	}
	recipes := make([]*craft.Recipe, 0, len(doc.Recipes))
	for i, entry := range doc.Recipes {
		r := craft.NewRecipe()
		r.Enabled = entry.Enabled
		r.Priority = entry.Priority
		for _, token := range entry.Inputs {
			s, err := craft.ParseStack(token)
			if err != nil {
				return nil, fmt.Errorf("recipe %d: %w", i, err)
			}
			if err := r.AddInput(s); err != nil {
				return nil, fmt.Errorf("recipe %d: %w", i, err)
			}
		}
		for _, token := range entry.Outputs {
			s, err := craft.ParseStack(token)
			if err != nil {
				return nil, fmt.Errorf("recipe %d: %w", i, err)
			}
			if err := r.AddOutput(s); err != nil {
				return nil, fmt.Errorf("recipe %d: %w", i, err)
			}
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}

// Marshal serializes the document with stable indentation.
func Marshal(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal validates the raw document against the embedded schema, then
// decodes it.
func Unmarshal(data []byte) (*Document, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing recipe book: %w", err)
	}
	if err := docSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("invalid recipe book: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing recipe book: %w", err)
	}
	return &doc, nil
}

// Save writes the recipes to path as a current-version document.
func Save(path string, recipes []*craft.Recipe) error {
	data, err := Marshal(Encode(recipes))
	if err != nil {
		return fmt.Errorf("encoding recipe book: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing recipe book: %w", err)
	}
	return nil
}

// Load reads, validates, and decodes the document at path.
func Load(path string) ([]*craft.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe book: %w", err)
	}
	doc, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return Decode(doc)
}
