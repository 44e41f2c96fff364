// Package shell implements the interactive recipe session. Commands read
// and mutate a shared recipe index and resolve crafting costs against it.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rsned/craftplan/internal/craft/book"
	"github.com/rsned/craftplan/internal/craft/engine"
	"github.com/rsned/craftplan/pkg/craft"
)

// Options configures a Shell.
type Options struct {
	Prompt    string
	Color     bool
	MaxDepth  int
	CacheSize int
}

type command struct {
	name    string
	summary string
	usage   string
	run     func(s *Shell, args []string) error
}

// Shell drives a line-oriented session over an index of recipes.
type Shell struct {
	idx      *engine.Index
	resolver *engine.Resolver
	catalog  *craft.Catalog

	in  io.Reader
	out io.Writer
	err io.Writer

	prompt string
	g      gadget

	commands map[string]*command
	order    []string

	dirty bool
	done  bool
}

// New builds a Shell over idx reading commands from in and writing to out
// and errw.
func New(idx *engine.Index, in io.Reader, out, errw io.Writer, opts Options) *Shell {
	if opts.Prompt == "" {
		opts.Prompt = ">>> "
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = engine.DefaultMaxVisits
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = engine.DefaultCacheSize
	}

	s := &Shell{
		idx: idx,
		resolver: engine.NewResolver(idx,
			engine.WithMaxVisits(opts.MaxDepth),
			engine.WithCacheSize(opts.CacheSize)),
		catalog: craft.NewCatalog(),
		in:      in,
		out:     out,
		err:     errw,
		prompt:  opts.Prompt,
		g:       gadget{color: opts.Color},
	}

	s.register(&command{
		name:    "help",
		summary: "show available commands",
		usage:   "help",
		run:     (*Shell).cmdHelp,
	})
	s.register(&command{
		name:    "add",
		summary: "add a recipe to the index",
		usage:   "add [-p priority] <stack> + <stack> -> <stack>",
		run:     (*Shell).cmdAdd,
	})
	s.register(&command{
		name:    "remove",
		summary: "remove a recipe from the index",
		usage:   "remove <stack> + <stack> -> <stack>",
		run:     (*Shell).cmdRemove,
	})
	s.register(&command{
		name:    "list",
		summary: "list recipes, optionally filtered by items they use",
		usage:   "list [item ...]",
		run:     (*Shell).cmdList,
	})
	s.register(&command{
		name:    "cost",
		summary: "resolve the raw cost of crafting a target",
		usage:   "cost <inventory> [| <have inventory>]",
		run:     (*Shell).cmdCost,
	})
	s.register(&command{
		name:    "tree",
		summary: "print the full craft tree for a stack",
		usage:   "tree <stack>",
		run:     (*Shell).cmdTree,
	})
	s.register(&command{
		name:    "save",
		summary: "write the current recipes to a book file",
		usage:   "save <path>",
		run:     (*Shell).cmdSave,
	})
	s.register(&command{
		name:    "load",
		summary: "replace the index with recipes from a book file",
		usage:   "load <path>",
		run:     (*Shell).cmdLoad,
	})
	s.register(&command{
		name:    "exit",
		summary: "leave the session",
		usage:   "exit",
		run:     (*Shell).cmdExit,
	})

	return s
}

func (s *Shell) register(c *command) {
	if s.commands == nil {
		s.commands = map[string]*command{}
	}
	s.commands[c.name] = c
	s.order = append(s.order, c.name)
}

// Dirty reports whether the index changed since the last save or load.
func (s *Shell) Dirty() bool {
	return s.dirty
}

// Run reads commands until exit or end of input. Command failures are
// reported to the error stream and never terminate the session.
func (s *Shell) Run() error {
	scanner := bufio.NewScanner(s.in)
	for !s.done {
		fmt.Fprint(s.out, s.g.dim(s.prompt))
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := s.dispatch(line); err != nil {
			fmt.Fprintln(s.err, s.g.bad("error: "+err.Error()))
		}
	}
	return scanner.Err()
}

func (s *Shell) dispatch(line string) error {
	fields := strings.Fields(line)
	cmd, ok := s.commands[fields[0]]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", fields[0])
	}
	return cmd.run(s, fields[1:])
}

func (s *Shell) cmdHelp(_ []string) error {
	for _, name := range s.order {
		c := s.commands[name]
		fmt.Fprintf(s.out, "  %-8s %s\n", s.g.accent(c.name), c.summary)
		fmt.Fprintf(s.out, "           %s\n", s.g.dim(c.usage))
	}
	return nil
}

func (s *Shell) cmdAdd(args []string) error {
	priority := 0
	if len(args) >= 2 && args[0] == "-p" {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("parsing priority: %w", err)
		}
		priority = n
		args = args[2:]
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", s.commands["add"].usage)
	}

	r, err := craft.ParseRecipe(strings.Join(args, " "))
	if err != nil {
		return err
	}
	r.SetPriority(priority)
	if err := s.idx.Add(r); err != nil {
		return err
	}
	s.dirty = true
	fmt.Fprintln(s.out, s.g.good("added ")+r.String())
	return nil
}

func (s *Shell) cmdRemove(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", s.commands["remove"].usage)
	}
	r, err := craft.ParseRecipe(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if !s.idx.Remove(r) {
		return fmt.Errorf("no such recipe: %s", r)
	}
	s.dirty = true
	fmt.Fprintln(s.out, s.g.warn("removed ")+r.String())
	return nil
}

func (s *Shell) cmdList(args []string) error {
	var recipes []*craft.Recipe
	if len(args) == 0 {
		recipes = s.idx.Recipes()
	} else {
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
		recipes = s.idx.Candidates(inv)
	}

	sort.Slice(recipes, func(i, j int) bool {
		return recipes[i].String() < recipes[j].String()
	})
	for _, r := range recipes {
		marker := " "
		if !r.Enabled {
			marker = s.g.dim("!")
		}
		fmt.Fprintf(s.out, "%s %s\n", marker, r)
	}
	fmt.Fprintln(s.out, s.g.dim(fmt.Sprintf("%d recipe(s)", len(recipes))))
	return nil
}

func (s *Shell) cmdCost(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", s.commands["cost"].usage)
	}
	text := strings.Join(args, " ")
	targetText, haveText, _ := strings.Cut(text, "|")

	target, err := craft.ParseInventory(strings.TrimSpace(targetText))
	if err != nil {
		return err
	}
	have, err := craft.ParseInventory(strings.TrimSpace(haveText))
	if err != nil {
		return err
	}

	cost, leftover, err := s.resolver.Resolve(target, have)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s %s\n", s.g.accent("cost:"), cost)
	if !leftover.Empty() {
		fmt.Fprintf(s.out, "%s %s\n", s.g.dim("leftover:"), leftover)
	}
	return nil
}

func (s *Shell) cmdTree(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", s.commands["tree"].usage)
	}
	stack, err := craft.ParseStack(strings.Join(args, " "))
	if err != nil {
		return err
	}
	node, err := s.resolver.BuildTree(stack, s.catalog)
	if err != nil {
		return err
	}
	s.printTree(node, 0)
	return nil
}

// printTree renders one node per line, indented by depth, with the stack
// in human-readable form.
func (s *Shell) printTree(n *engine.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(s.out, "%s%s\n", indent, s.describe(n.Stack))
	if n.Recipe != nil && n.Crafts > 0 {
		fmt.Fprintf(s.out, "%s%s\n", indent, s.g.dim(fmt.Sprintf("  via %d craft(s) of %s", n.Crafts, n.Recipe)))
	}
	for _, child := range n.Children {
		s.printTree(child, depth+1)
	}
}

// describe formats a stack the way a player would read it, such as
// "3x Wood Plank" or "Crafting Table (Not Consumed)".
func (s *Shell) describe(st craft.Stack) string {
	name := s.catalog.DisplayName(st.Item)
	if name == "" {
		name = st.Item.DisplayName()
	}
	switch {
	case st.IsCatalyst():
		return fmt.Sprintf("%s %s", name, s.g.dim("(Not Consumed)"))
	case st.Chance < 1:
		return fmt.Sprintf("%dx %s %s", st.Amount, name,
			s.g.dim(fmt.Sprintf("(%.0f%%)", st.Chance*100)))
	default:
		return fmt.Sprintf("%dx %s", st.Amount, name)
	}
}

func (s *Shell) cmdSave(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s", s.commands["save"].usage)
	}
	if err := book.Save(args[0], s.idx.Recipes()); err != nil {
		return err
	}
	s.dirty = false
	fmt.Fprintln(s.out, s.g.good("saved ")+args[0])
	return nil
}

func (s *Shell) cmdLoad(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s", s.commands["load"].usage)
	}
	recipes, err := book.Load(args[0])
	if err != nil {
		return err
	}

	for _, r := range s.idx.Recipes() {
		s.idx.Remove(r)
	}
	for _, r := range recipes {
		if err := s.idx.Add(r); err != nil {
			return fmt.Errorf("adding %s: %w", r, err)
		}
	}
	s.dirty = false
	fmt.Fprintf(s.out, "%s%s (%d recipes)\n", s.g.good("loaded "), args[0], len(recipes))
	return nil
}

func (s *Shell) cmdExit(_ []string) error {
	if s.dirty {
		fmt.Fprintln(s.out, s.g.warn("unsaved changes discarded"))
	}
	s.done = true
	return nil
}
