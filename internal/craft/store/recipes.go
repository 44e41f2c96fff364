package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rsned/craftplan/pkg/craft"
)

const versionKey = "format_version"

// FormatVersion identifies the stored recipe layout. A database written by a
// different version fails to load with CompatibilityError.
const FormatVersion = "1.0"

// RecipeStore handles recipe data access.
type RecipeStore struct {
	db *DB
}

// NewRecipeStore creates a new RecipeStore.
func NewRecipeStore(db *DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// Count returns the total number of stored recipes.
func (s *RecipeStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting recipes: %w", err)
	}
	return count, nil
}

// LoadAll retrieves every stored recipe with inputs in their persisted
// sequence order.
func (s *RecipeStore) LoadAll(ctx context.Context) ([]*craft.Recipe, error) {
	version, err := s.db.GetMetadata(ctx, versionKey)
	if err != nil {
		return nil, err
	}
	// An empty database has no version stamp yet.
	if version != "" && version != FormatVersion {
		return nil, &craft.CompatibilityError{Got: version, Want: FormatVersion}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, enabled, priority FROM recipes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying recipes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type row struct {
		id       int64
		enabled  bool
		priority int
	}
	var heads []row
	for rows.Next() {
		var h row
		if err := rows.Scan(&h.id, &h.enabled, &h.priority); err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		heads = append(heads, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recipes := make([]*craft.Recipe, 0, len(heads))
	for _, h := range heads {
		r := craft.NewRecipe()
		r.Enabled = h.enabled
		r.Priority = h.priority
		if err := s.loadStacks(ctx, h.id, r); err != nil {
			return nil, fmt.Errorf("loading recipe %d: %w", h.id, err)
		}
		recipes = append(recipes, r)
	}

	return recipes, nil
}

// loadStacks attaches the recipe's input and output stacks in position order.
func (s *RecipeStore) loadStacks(ctx context.Context, recipeID int64, r *craft.Recipe) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role, item_name, item_metadata, any_metadata, amount, chance
		FROM recipe_stacks
		WHERE recipe_id = ?
		ORDER BY role DESC, position
	`, recipeID)
	if err != nil {
		return fmt.Errorf("querying recipe stacks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			role     string
			name     string
			metadata int
			anyMeta  bool
			amount   int
			chance   float64
		)
		if err := rows.Scan(&role, &name, &metadata, &anyMeta, &amount, &chance); err != nil {
			return fmt.Errorf("scanning stack: %w", err)
		}
		item, err := craft.NewItem(name, metadata, anyMeta)
		if err != nil {
			return err
		}
		stack, err := craft.NewStack(item, amount, chance)
		if err != nil {
			return err
		}
		if role == "output" {
			err = r.AddOutput(stack)
		} else {
			err = r.AddInput(stack)
		}
		if err != nil {
			return err
		}
	}

	return rows.Err()
}

// ReplaceAll clears the store and bulk-inserts the recipes in a single
// transaction, stamping the format version.
func (s *RecipeStore) ReplaceAll(ctx context.Context, recipes []*craft.Recipe) error {
	err := s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_stacks`); err != nil {
			return fmt.Errorf("clearing recipe stacks: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipes`); err != nil {
			return fmt.Errorf("clearing recipes: %w", err)
		}

		recipeStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO recipes (enabled, priority) VALUES (?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing recipe statement: %w", err)
		}
		defer func() { _ = recipeStmt.Close() }()

		stackStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO recipe_stacks
			(recipe_id, role, position, item_name, item_metadata, any_metadata, amount, chance)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing stack statement: %w", err)
		}
		defer func() { _ = stackStmt.Close() }()

		for _, r := range recipes {
			res, err := recipeStmt.ExecContext(ctx, r.Enabled, r.Priority)
			if err != nil {
				return fmt.Errorf("inserting recipe %s: %w", r, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("recipe id for %s: %w", r, err)
			}

			for pos, stack := range r.SequencedInputs() {
				if err := insertStack(ctx, stackStmt, id, "input", pos, stack); err != nil {
					return err
				}
			}
			for pos, stack := range r.Outputs() {
				if err := insertStack(ctx, stackStmt, id, "output", pos, stack); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	return s.db.SetMetadata(ctx, versionKey, FormatVersion)
}

func insertStack(ctx context.Context, stmt *sql.Stmt, recipeID int64, role string, pos int, s craft.Stack) error {
	_, err := stmt.ExecContext(ctx,
		recipeID, role, pos,
		s.Item.Name, s.Item.Metadata, s.Item.AnyMetadata,
		s.Amount, s.Chance,
	)
	if err != nil {
		return fmt.Errorf("inserting %s stack %s: %w", role, s, err)
	}
	return nil
}
