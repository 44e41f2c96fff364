// Package cli wires the craftplan commands together: the interactive
// shell, one-shot resolution commands, and book import/export against
// the recipe database.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rsned/craftplan/internal/config"
	"github.com/rsned/craftplan/internal/craft/engine"
	"github.com/rsned/craftplan/internal/craft/store"
)

// Root builds the top-level command.
func Root() *cli.Command {
	return &cli.Command{
		Name:  "craftplan",
		Usage: "resolve crafting recipe costs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				Sources: cli.EnvVars("CRAFTPLAN_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "sqlite database path, overrides the config file",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			shellCommand(),
			costCommand(),
			treeCommand(),
			listCommand(),
			importCommand(),
			exportCommand(),
		},
	}
}

func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	return ctx, nil
}

// loadConfig reads the config file named by --config, applying the --db
// override on top.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if db := cmd.String("db"); db != "" {
		cfg.DatabasePath = db
	}
	return cfg, nil
}

// openIndex builds the recipe index, loading persisted recipes when a
// database is configured. The returned close function is a no-op when no
// database was opened.
func openIndex(ctx context.Context, cfg *config.Config) (*engine.Index, *store.RecipeStore, func(), error) {
	idx := engine.NewIndex()
	if cfg.DatabasePath == "" {
		return idx, nil, func() {}, nil
	}

	db, err := store.OpenAndInit(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			slog.Error("closing database", "error", err)
		}
	}

	recipeStore := store.NewRecipeStore(db)
	recipes, err := recipeStore.LoadAll(ctx)
	if err != nil {
		closeDB()
		return nil, nil, nil, fmt.Errorf("loading recipes: %w", err)
	}
	for _, r := range recipes {
		if err := idx.Add(r); err != nil {
			closeDB()
			return nil, nil, nil, fmt.Errorf("indexing %s: %w", r, err)
		}
	}
	slog.Debug("loaded recipes", "count", idx.Len(), "path", cfg.DatabasePath)

	return idx, recipeStore, closeDB, nil
}

func newResolver(idx *engine.Index, cfg *config.Config) *engine.Resolver {
	return engine.NewResolver(idx,
		engine.WithMaxVisits(cfg.MaxDepth),
		engine.WithCacheSize(cfg.CacheSize))
}
