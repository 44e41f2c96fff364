package engine

import (
	"fmt"
	"strings"

	"github.com/rsned/craftplan/pkg/craft"
)

type nodeKind uint8

const (
	nodeBranch nodeKind = iota
	nodeLeaf
)

// trieNode is a tagged variant stored in the arena: a branch keyed by one
// input item, or a leaf holding exactly one recipe. Parent indices make
// bottom-up pruning an explicit walk instead of pointer surgery.
type trieNode struct {
	kind     nodeKind
	item     craft.Item
	recipe   *craft.Recipe
	parent   int
	children []int
}

// Trie stores recipes keyed by their ordered input-item sequences. Recipes
// sharing a prefix of input items share the path to their point of
// divergence. The root sits at arena index 0, carries no payload, and is
// never pruned.
type Trie struct {
	nodes []trieNode
	free  []int
	size  int
}

const trieRoot = 0

// NewTrie returns an empty trie.
func NewTrie() *Trie {
	return &Trie{nodes: []trieNode{{kind: nodeBranch, parent: -1}}}
}

// Len returns the number of stored recipes.
func (t *Trie) Len() int {
	return t.size
}

// Insert stores the recipe along the path of its input sequence, creating
// branch nodes as needed. Inserting a value-equal recipe a second time finds
// the existing leaf instead of duplicating it.
func (t *Trie) Insert(r *craft.Recipe) *craft.Recipe {
	current := trieRoot
	for _, item := range r.InputSequence() {
		next := t.childBranch(current, item)
		if next < 0 {
			next = t.alloc(trieNode{kind: nodeBranch, item: item, parent: current})
			t.nodes[current].children = append(t.nodes[current].children, next)
		}
		current = next
	}
	if existing := t.leafChild(current, r); existing >= 0 {
		return t.nodes[existing].recipe
	}
	leaf := t.alloc(trieNode{kind: nodeLeaf, recipe: r, parent: current})
	t.nodes[current].children = append(t.nodes[current].children, leaf)
	t.size++
	return r
}

// Find walks the trie by the recipe's input-item sequence and returns the
// stored value-equal recipe, if the full path and a matching leaf exist.
func (t *Trie) Find(r *craft.Recipe) (*craft.Recipe, bool) {
	current := trieRoot
	for _, item := range r.InputSequence() {
		next := t.childBranch(current, item)
		if next < 0 {
			return nil, false
		}
		current = next
	}
	if leaf := t.leafChild(current, r); leaf >= 0 {
		return t.nodes[leaf].recipe, true
	}
	return nil, false
}

// Remove deletes the recipe's leaf and prunes now-childless branches back
// toward, but never including, the root. Returns false if not present.
func (t *Trie) Remove(r *craft.Recipe) bool {
	return t.removeSeq(r.InputSequence(), r)
}

// removeSeq removes the recipe's leaf under an explicit key sequence, needed
// when a stored recipe's own sequence has already moved on.
func (t *Trie) removeSeq(seq []craft.Item, r *craft.Recipe) bool {
	current := trieRoot
	for _, item := range seq {
		next := t.childBranch(current, item)
		if next < 0 {
			return false
		}
		current = next
	}
	leaf := t.leafChild(current, r)
	if leaf < 0 {
		return false
	}
	t.detach(leaf)
	t.size--
	for current != trieRoot && len(t.nodes[current].children) == 0 {
		parent := t.nodes[current].parent
		t.detach(current)
		current = parent
	}
	return true
}

// Candidates returns the recipes whose every input item is present in the
// inventory, regardless of amounts: a breadth-first walk descending only
// through branches the inventory covers.
func (t *Trie) Candidates(inv *craft.Inventory) []*craft.Recipe {
	var out []*craft.Recipe
	queue := append([]int(nil), t.nodes[trieRoot].children...)
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		node := &t.nodes[idx]
		switch node.kind {
		case nodeBranch:
			if inv.Contains(node.item) {
				queue = append(queue, node.children...)
			}
		case nodeLeaf:
			out = append(out, node.recipe)
		}
	}
	return out
}

// Recipes returns every stored recipe in breadth-first order.
func (t *Trie) Recipes() []*craft.Recipe {
	var out []*craft.Recipe
	queue := []int{trieRoot}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		node := &t.nodes[idx]
		if node.kind == nodeLeaf {
			out = append(out, node.recipe)
			continue
		}
		queue = append(queue, node.children...)
	}
	return out
}

// String renders the trie one node per line, branches as items and leaves as
// recipes, for diagnostics.
func (t *Trie) String() string {
	var b strings.Builder
	t.render(&b, trieRoot, 0)
	return strings.TrimRight(b.String(), "\n")
}

func (t *Trie) render(b *strings.Builder, idx, depth int) {
	node := &t.nodes[idx]
	indent := strings.Repeat("    ", depth)
	switch {
	case idx == trieRoot:
		depth--
	case node.kind == nodeBranch:
		fmt.Fprintf(b, "%s+ %s\n", indent, node.item)
	default:
		fmt.Fprintf(b, "%s> %s\n", indent, node.recipe)
	}
	for _, child := range node.children {
		t.render(b, child, depth+1)
	}
}

// childBranch returns the branch child of parent keyed by item, or -1.
func (t *Trie) childBranch(parent int, item craft.Item) int {
	for _, idx := range t.nodes[parent].children {
		n := &t.nodes[idx]
		if n.kind == nodeBranch && n.item.Equal(item) {
			return idx
		}
	}
	return -1
}

// leafChild returns the leaf child of parent holding a value-equal recipe,
// or -1.
func (t *Trie) leafChild(parent int, r *craft.Recipe) int {
	for _, idx := range t.nodes[parent].children {
		n := &t.nodes[idx]
		if n.kind == nodeLeaf && n.recipe.Equal(r) {
			return idx
		}
	}
	return -1
}

// detach removes the node from its parent's child list and releases its arena
// slot to the free list.
func (t *Trie) detach(idx int) {
	parent := t.nodes[idx].parent
	children := t.nodes[parent].children
	for i, c := range children {
		if c == idx {
			t.nodes[parent].children = append(children[:i], children[i+1:]...)
			break
		}
	}
	t.nodes[idx] = trieNode{parent: -1}
	t.free = append(t.free, idx)
}

// alloc reuses a freed arena slot when one exists.
func (t *Trie) alloc(n trieNode) int {
	if last := len(t.free) - 1; last >= 0 {
		idx := t.free[last]
		t.free = t.free[:last]
		t.nodes[idx] = n
		return idx
	}
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}
