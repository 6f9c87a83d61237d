package derive

import (
	"fmt"
	"time"

	"github.com/npillmayer/treegram"
	"github.com/npillmayer/treegram/grammar"
	"golang.org/x/exp/rand"
)

// Sampling uses single-pass reservoir sampling: walk the tree once in a
// deterministic order, keeping a running count n and one candidate, and
// replace the candidate with probability 1/n at the n-th visited item.
// This selects uniformly without a first pass to count nodes.

// The package-default source is locked, so goroutines working on
// independent trees may all pass a nil RNG.
var defaultRand = rand.New(seededLockedSource())

func seededLockedSource() rand.Source {
	src := new(rand.LockedSource)
	src.Seed(uint64(time.Now().UnixNano()))
	return src
}

func rng(r *rand.Rand) *rand.Rand {
	if r == nil {
		return defaultRand
	}
	return r
}

// SampleNode returns a uniformly random node of a tree. A nil RNG selects
// the package-default source.
func SampleNode(tree *RuleNode, r *rand.Rand) *RuleNode {
	r = rng(r)
	var candidate *RuleNode
	n := 0
	Walk(tree, func(level int, node *RuleNode) bool {
		n++
		if r.Intn(n) == 0 {
			candidate = node
		}
		return true
	})
	return candidate
}

// SampleNodeOfType returns a uniformly random node among the nodes whose
// rule derives the non-terminal nt. It fails with a *NoMatchError if the
// tree holds no such node.
func SampleNodeOfType(tree *RuleNode, nt treegram.Symbol, g *grammar.Grammar, r *rand.Rand) (*RuleNode, error) {
	r = rng(r)
	var candidate *RuleNode
	n := 0
	Walk(tree, func(level int, node *RuleNode) bool {
		if g.ReturnType(node.Serial) == nt {
			n++
			if r.Intn(n) == 0 {
				candidate = node
			}
		}
		return true
	})
	if candidate == nil {
		return nil, &NoMatchError{NT: nt}
	}
	return candidate, nil
}

// SampleLoc returns a uniformly random location of a tree, tracking
// parent and child index instead of the node itself, so the result can
// feed Replace directly. The root's location is included.
func SampleLoc(tree *RuleNode, r *rand.Rand) NodeLoc {
	r = rng(r)
	candidate := RootLoc(tree)
	n := 1 // the root location
	eachLoc(tree, func(loc NodeLoc) {
		n++
		if r.Intn(n) == 0 {
			candidate = loc
		}
	})
	return candidate
}

// SampleLocOfType returns a uniformly random location whose addressed
// node derives the non-terminal nt, failing with a *NoMatchError if no
// node matches.
func SampleLocOfType(tree *RuleNode, nt treegram.Symbol, g *grammar.Grammar, r *rand.Rand) (NodeLoc, error) {
	r = rng(r)
	var candidate NodeLoc
	n := 0
	if g.ReturnType(tree.Serial) == nt {
		n++
		candidate = RootLoc(tree)
	}
	eachLoc(tree, func(loc NodeLoc) {
		if g.ReturnType(loc.Node().Serial) != nt {
			return
		}
		n++
		if r.Intn(n) == 0 {
			candidate = loc
		}
	})
	if n == 0 {
		return NodeLoc{}, &NoMatchError{NT: nt}
	}
	return candidate, nil
}

// eachLoc visits the location of every node except the root, in pre-order.
func eachLoc(n *RuleNode, visit func(NodeLoc)) {
	if n == nil {
		return
	}
	for i, ch := range n.Children {
		visit(NodeLoc{Parent: n, Index: i + 1})
		eachLoc(ch, visit)
	}
}

// NoMatchError signals that a tree holds no node of the requested
// non-terminal type.
type NoMatchError struct {
	NT treegram.Symbol
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no node of type %s in tree", e.NT)
}
