package derive

import (
	"bytes"
	"fmt"

	"github.com/npillmayer/treegram/grammar"
)

// RuleNode is a node of a derivation tree. It references a rule of a
// specific grammar by serial and exclusively owns one child subtree per
// non-terminal argument slot of that rule. For eval-thunk rules, Value
// caches the thunk result, fixed at construction and reused by every
// evaluation of the node.
//
// Fields are exported for tree consumers, but clients mutate trees only
// through Replace; concurrent mutation is not supported.
type RuleNode struct {
	Serial   int // rule serial within the grammar
	Children []*RuleNode
	Value    interface{} // cached eval-thunk value, nil otherwise
}

// Construct creates a derivation-tree node for rule serial with the given
// children. It fails with an *ArityError if the number of children does
// not equal the rule's arity, and with an *ArityError carrying serial 0
// if the serial does not denote a rule of g.
//
// If the rule is an eval-thunk, the thunk is invoked exactly once here
// and the result cached on the node. The thunk may be non-deterministic;
// the constructed tree is deterministic from then on.
func Construct(g *grammar.Grammar, serial int, children ...*RuleNode) (*RuleNode, error) {
	rule := g.Rule(serial)
	if rule == nil {
		return nil, &ArityError{Serial: serial, Reason: "no such rule"}
	}
	if len(children) != rule.Arity() {
		return nil, &ArityError{
			Serial: serial,
			Reason: fmt.Sprintf("rule wants %d children, got %d", rule.Arity(), len(children)),
		}
	}
	node := &RuleNode{Serial: serial}
	if len(children) > 0 {
		node.Children = append([]*RuleNode(nil), children...)
	}
	if thunk, ok := rule.Form().(grammar.ThunkForm); ok {
		node.Value = thunk.Thunk()
	}
	return node, nil
}

// Clone returns a deep copy of a tree. Cached eval-thunk values are
// copied as-is, never recomputed.
func (n *RuleNode) Clone() *RuleNode {
	if n == nil {
		return nil
	}
	c := &RuleNode{Serial: n.Serial, Value: n.Value}
	if len(n.Children) > 0 {
		c.Children = make([]*RuleNode, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return c
}

// Depth returns the number of levels of a tree; a single node has
// depth 1.
func Depth(n *RuleNode) int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, ch := range n.Children {
		if d := Depth(ch); d > deepest {
			deepest = d
		}
	}
	return 1 + deepest
}

// Size returns the number of nodes of a tree.
func Size(n *RuleNode) int {
	if n == nil {
		return 0
	}
	size := 1
	for _, ch := range n.Children {
		size += Size(ch)
	}
	return size
}

// String renders the bare rule-serial structure, e.g. "1[2 1[3 3]]".
func (n *RuleNode) String() string {
	var b bytes.Buffer
	n.write(&b, nil)
	return b.String()
}

// Sexpr renders a tree with rule information from its grammar, e.g.
// "(+ 1 (+ x 2))".
func (n *RuleNode) Sexpr(g *grammar.Grammar) string {
	var b bytes.Buffer
	n.write(&b, g)
	return b.String()
}

func (n *RuleNode) write(b *bytes.Buffer, g *grammar.Grammar) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	label := fmt.Sprintf("%d", n.Serial)
	if g != nil {
		if rule := g.Rule(n.Serial); rule != nil {
			switch form := rule.Form().(type) {
			case grammar.SymbolForm:
				label = string(form.Name)
			case grammar.LiteralForm:
				label = fmt.Sprintf("%v", form.Value)
			case grammar.ThunkForm:
				label = fmt.Sprintf("%v", n.Value)
			case grammar.CallForm:
				label = string(form.Op)
			}
		}
	}
	if len(n.Children) == 0 {
		b.WriteString(label)
		return
	}
	if g != nil {
		b.WriteString("(")
		b.WriteString(label)
		for _, ch := range n.Children {
			b.WriteString(" ")
			ch.write(b, g)
		}
		b.WriteString(")")
		return
	}
	b.WriteString(label)
	b.WriteString("[")
	for i, ch := range n.Children {
		if i > 0 {
			b.WriteString(" ")
		}
		ch.write(b, nil)
	}
	b.WriteString("]")
}

// --- Locations --------------------------------------------------------------

// NodeLoc addresses a node inside one specific tree: a reference to the
// parent node plus a child index (1-based). Index 0 is the distinguished
// root sentinel, addressing Parent itself. A NodeLoc is not an owning
// reference; it is invalidated by any mutation of the tree above or below
// the addressed node.
type NodeLoc struct {
	Parent *RuleNode
	Index  int
}

// RootLoc returns the location addressing the root of a tree.
func RootLoc(root *RuleNode) NodeLoc {
	return NodeLoc{Parent: root, Index: 0}
}

// Node dereferences a location in O(1).
func (loc NodeLoc) Node() *RuleNode {
	if loc.Parent == nil {
		return nil
	}
	if loc.Index == 0 {
		return loc.Parent
	}
	if loc.Index < 1 || loc.Index > len(loc.Parent.Children) {
		return nil
	}
	return loc.Parent.Children[loc.Index-1]
}

// Get returns the node addressed by loc within tree, failing with a
// *LocationError if loc does not reference a node in tree.
func Get(tree *RuleNode, loc NodeLoc) (*RuleNode, error) {
	if !contains(tree, loc.Parent) {
		return nil, &LocationError{Reason: "location parent is not a node of this tree"}
	}
	node := loc.Node()
	if node == nil {
		return nil, &LocationError{Reason: fmt.Sprintf("child index %d out of range", loc.Index)}
	}
	return node, nil
}

// Replace detaches the subtree at loc and attaches sub in its place,
// mutating tree in place. The detached subtree is returned; ownership
// transfers to the caller. All other outstanding locations into the
// replaced region are invalidated.
//
// Replacing at the root location overwrites the root node's fields, so
// the caller's tree reference stays valid; the returned detachment is a
// fresh node holding the previous root contents.
func Replace(tree *RuleNode, loc NodeLoc, sub *RuleNode) (*RuleNode, error) {
	if sub == nil {
		return nil, &LocationError{Reason: "replacement subtree is nil"}
	}
	if !contains(tree, loc.Parent) {
		return nil, &LocationError{Reason: "location parent is not a node of this tree"}
	}
	if loc.Index == 0 {
		if loc.Parent != tree {
			return nil, &LocationError{Reason: "self-location does not address the root"}
		}
		old := &RuleNode{Serial: tree.Serial, Children: tree.Children, Value: tree.Value}
		tree.Serial, tree.Children, tree.Value = sub.Serial, sub.Children, sub.Value
		return old, nil
	}
	if loc.Index < 1 || loc.Index > len(loc.Parent.Children) {
		return nil, &LocationError{Reason: fmt.Sprintf("child index %d out of range", loc.Index)}
	}
	old := loc.Parent.Children[loc.Index-1]
	loc.Parent.Children[loc.Index-1] = sub
	return old, nil
}

func contains(tree, node *RuleNode) bool {
	if tree == nil || node == nil {
		return false
	}
	if tree == node {
		return true
	}
	for _, ch := range tree.Children {
		if contains(ch, node) {
			return true
		}
	}
	return false
}

// --- Errors -----------------------------------------------------------------

// ArityError flags a tree-construction call where the number of children
// does not match the rule's arity.
type ArityError struct {
	Serial int
	Reason string
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("construct rule %d: %s", e.Serial, e.Reason)
}

// LocationError flags a location which does not reference a node of the
// tree it is used with.
type LocationError struct {
	Reason string
}

func (e *LocationError) Error() string {
	return "tree location: " + e.Reason
}
