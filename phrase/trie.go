package phrase

import (
	"fmt"
	"slices"
	"strings"

	"github.com/coregx/tokmatch/internal/conv"
)

// NodeIndex is the index of a trie node in its arena. The root is 0.
type NodeIndex int32

// Root is the index of the root node.
const Root NodeIndex = 0

// Trie is an arena-allocated trie over uint64 token keys.
//
// Nodes live in one slice and refer to their children by index, so a trie
// with many short phrases costs one allocation for the node array plus one
// child map per inner node. Each node carries the entries (phrase numbers)
// whose path ends there, in insertion order.
type Trie struct {
	nodes []trieNode
}

type trieNode struct {
	// children maps the next token key to the child node
	children map[uint64]NodeIndex
	// entries terminating at this node
	entries []int
}

// NewTrie creates an empty trie holding only the root.
func NewTrie() *Trie {
	t := &Trie{nodes: make([]trieNode, 0, 64)}
	t.nodes = append(t.nodes, trieNode{})
	return t
}

func (t *Trie) newNode() NodeIndex {
	idx := NodeIndex(conv.IntToInt32(len(t.nodes)))
	t.nodes = append(t.nodes, trieNode{})
	return idx
}

// Insert adds the path keys and marks its last node with entry.
// Returns the terminal node.
func (t *Trie) Insert(keys []uint64, entry int) NodeIndex {
	current := Root
	for _, k := range keys {
		child, ok := t.nodes[current].children[k]
		if !ok {
			child = t.newNode()
			if t.nodes[current].children == nil {
				t.nodes[current].children = make(map[uint64]NodeIndex)
			}
			t.nodes[current].children[k] = child
		}
		current = child
	}
	t.nodes[current].entries = append(t.nodes[current].entries, entry)
	return current
}

// Child follows the edge labelled key from node n.
func (t *Trie) Child(n NodeIndex, key uint64) (NodeIndex, bool) {
	child, ok := t.nodes[n].children[key]
	return child, ok
}

// Entries returns the entries terminating at node n.
// The returned slice must not be modified.
func (t *Trie) Entries(n NodeIndex) []int {
	return t.nodes[n].entries
}

// Lookup returns the node reached by keys, if the whole path exists.
func (t *Trie) Lookup(keys []uint64) (NodeIndex, bool) {
	current := Root
	for _, k := range keys {
		next, ok := t.Child(current, k)
		if !ok {
			return 0, false
		}
		current = next
	}
	return current, true
}

// Nodes returns the number of nodes including the root.
func (t *Trie) Nodes() int {
	return len(t.nodes)
}

// Equal reports whether both tries hold the same paths and entries.
func (t *Trie) Equal(other *Trie) bool {
	if len(t.nodes) != len(other.nodes) {
		return false
	}
	return t.equalNodes(Root, other, Root)
}

func (t *Trie) equalNodes(a NodeIndex, other *Trie, b NodeIndex) bool {
	na, nb := &t.nodes[a], &other.nodes[b]
	if len(na.children) != len(nb.children) || !slices.Equal(na.entries, nb.entries) {
		return false
	}
	for k, ca := range na.children {
		cb, ok := nb.children[k]
		if !ok || !t.equalNodes(ca, other, cb) {
			return false
		}
	}
	return true
}

// DebugString renders the trie with children in key order, for tests.
// A terminal node is written as its entry list in brackets.
func (t *Trie) DebugString() string {
	var sb strings.Builder
	t.debugNode(&sb, Root)
	return sb.String()
}

func (t *Trie) debugNode(sb *strings.Builder, n NodeIndex) {
	node := &t.nodes[n]
	if len(node.entries) > 0 {
		fmt.Fprintf(sb, "%v", node.entries)
	}

	keys := make([]uint64, 0, len(node.children))
	for k := range node.children {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		fmt.Fprintf(sb, "%d(", k)
		t.debugNode(sb, node.children[k])
		sb.WriteByte(')')
	}
}
