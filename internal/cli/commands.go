package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rsned/craftplan/internal/craft/book"
	"github.com/rsned/craftplan/internal/craft/engine"
	"github.com/rsned/craftplan/internal/craft/shell"
	"github.com/rsned/craftplan/pkg/craft"
)

func shellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "start an interactive recipe session",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			idx, _, closeDB, err := openIndex(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			sh := shell.New(idx, os.Stdin, os.Stdout, os.Stderr, shell.Options{
				Prompt:    cfg.Prompt,
				Color:     cfg.Color,
				MaxDepth:  cfg.MaxDepth,
				CacheSize: cfg.CacheSize,
			})
			return sh.Run()
		},
	}
}

func costCommand() *cli.Command {
	return &cli.Command{
		Name:      "cost",
		Usage:     "resolve the raw cost of crafting a target inventory",
		ArgsUsage: "<inventory> [have-inventory]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) < 1 || len(args) > 2 {
				return fmt.Errorf("expected a target inventory and an optional have inventory")
			}

			target, err := craft.ParseInventory(args[0])
			if err != nil {
				return err
			}
			have := craft.NewInventory()
			if len(args) == 2 {
				if have, err = craft.ParseInventory(args[1]); err != nil {
					return err
				}
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			idx, _, closeDB, err := openIndex(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			cost, leftover, err := newResolver(idx, cfg).Resolve(target, have)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Writer, "cost: %s\n", cost)
			if !leftover.Empty() {
				fmt.Fprintf(cmd.Writer, "leftover: %s\n", leftover)
			}
			return nil
		},
	}
}

func treeCommand() *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "print the full craft tree for a stack",
		ArgsUsage: "<stack>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one stack")
			}
			stack, err := craft.ParseStack(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			idx, _, closeDB, err := openIndex(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			node, err := newResolver(idx, cfg).BuildTree(stack, nil)
			if err != nil {
				return err
			}
			printTree(cmd, node, 0)
			return nil
		},
	}
}

func printTree(cmd *cli.Command, n *engine.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	st := n.Stack
	switch {
	case st.IsCatalyst():
		fmt.Fprintf(cmd.Writer, "%s%s (Not Consumed)\n", indent, st.Item.DisplayName())
	case st.Chance < 1:
		fmt.Fprintf(cmd.Writer, "%s%dx %s (%.0f%%)\n", indent, st.Amount, st.Item.DisplayName(), st.Chance*100)
	default:
		fmt.Fprintf(cmd.Writer, "%s%dx %s\n", indent, st.Amount, st.Item.DisplayName())
	}
	if n.Recipe != nil && n.Crafts > 0 {
		fmt.Fprintf(cmd.Writer, "%s  via %d craft(s) of %s\n", indent, n.Crafts, n.Recipe)
	}
	for _, child := range n.Children {
		printTree(cmd, child, depth+1)
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "list recipes, optionally filtered by the items they use",
		ArgsUsage: "[item ...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			idx, _, closeDB, err := openIndex(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			recipes := idx.Recipes()
			if args := cmd.Args().Slice(); len(args) > 0 {
				inv := craft.NewInventory()
				for _, tok := range args {
					item, err := craft.ParseItem(tok)
					if err != nil {
						return err
					}
					stack, err := craft.NewStack(item, 1, 1)
					if err != nil {
						return err
					}
					inv.Add(stack)
				}
				recipes = idx.Candidates(inv)
			}

			for _, r := range recipes {
				marker := " "
				if !r.Enabled {
					marker = "!"
				}
				fmt.Fprintf(cmd.Writer, "%s %s\n", marker, r)
			}
			fmt.Fprintf(cmd.Writer, "%d recipe(s)\n", len(recipes))
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "load recipes from a book file into the database",
		ArgsUsage: "<book.json>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one book path")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.DatabasePath == "" {
				return fmt.Errorf("import requires a database, set --db or database_path")
			}

			recipes, err := book.Load(args[0])
			if err != nil {
				return err
			}

			idx, recipeStore, closeDB, err := openIndex(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			added := 0
			var skipped []string
			for _, r := range recipes {
				if err := idx.Add(r); err != nil {
					skipped = append(skipped, fmt.Sprintf("%s: %v", r, err))
					continue
				}
				added++
			}
			if err := recipeStore.ReplaceAll(ctx, idx.Recipes()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.Writer, "imported %d recipe(s), %d total\n", added, idx.Len())
			if len(skipped) > 0 {
				fmt.Fprintf(cmd.ErrWriter, "skipped:\n  %s\n", strings.Join(skipped, "\n  "))
			}
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write the database recipes to a book file",
		ArgsUsage: "<book.json>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one book path")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			idx, _, closeDB, err := openIndex(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := book.Save(args[0], idx.Recipes()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.Writer, "exported %d recipe(s) to %s\n", idx.Len(), args[0])
			return nil
		},
	}
}
