package fp

import (
	"github.com/npillmayer/treegram"
	"github.com/npillmayer/treegram/derive"
	"github.com/npillmayer/treegram/grammar"
)

// Enumerate produces the sequence of every distinct derivation tree for a
// non-terminal with at most maxDepth levels, in a fixed deterministic
// order: rules are visited in ascending serial order, and for a call rule
// the child subtrees cycle in odometer fashion, the rightmost child
// fastest, carrying leftward when a child sequence is exhausted. Rules
// which cannot fit the depth budget are pruned up front, using the
// grammar's min-depth analysis, so no recursion is wasted on infeasible
// branches.
//
// The sequence is finite and lazily produced; every emitted tree is
// freshly constructed and exclusively owned by the caller. Re-invoking
// Enumerate yields the same order from the start.
func Enumerate(g *grammar.Grammar, nt treegram.Symbol, maxDepth int) ExprSeq {
	it := newExprIter(g, grammar.Analysis(g), nt, maxDepth)
	var S ExprGenerator
	S = func() ExprSeq {
		n, ok := it.next()
		if !ok {
			return ExprSeq{nil, nil}
		}
		return ExprSeq{n, S}
	}
	n, ok := it.next()
	if !ok {
		return ExprSeq{nil, nil}
	}
	return ExprSeq{n, S}
}

// exprIter enumerates the trees for one non-terminal within a depth
// budget. For the rule under the cursor it keeps one child iterator and
// one current subtree per child slot; advancing works like multi-digit
// counting with per-position digit sets given by the child's own
// enumeration.
type exprIter struct {
	g      *grammar.Grammar
	a      *grammar.DepthAnalysis
	budget int   // depth budget in levels
	rules  []int // feasible rule serials, ascending
	r      int   // cursor into rules
	kids   []*exprIter
	cur    []*derive.RuleNode
}

func newExprIter(g *grammar.Grammar, a *grammar.DepthAnalysis, nt treegram.Symbol, budget int) *exprIter {
	it := &exprIter{g: g, a: a, budget: budget}
	if budget < 1 {
		return it
	}
	for _, serial := range g.RulesFor(nt) {
		if a.Feasible(serial, budget) {
			it.rules = append(it.rules, serial)
		}
	}
	return it
}

// next returns the next tree of the iteration, freshly constructed.
func (it *exprIter) next() (*derive.RuleNode, bool) {
	for it.r < len(it.rules) {
		serial := it.rules[it.r]
		rule := it.g.Rule(serial)
		if rule.Arity() == 0 {
			it.r++
			return it.emit(serial)
		}
		if it.kids == nil {
			if !it.start(rule) {
				it.r++ // pruning should prevent this, but lose no tree if it does not
				continue
			}
			return it.emit(serial)
		}
		if !it.advance(rule) {
			it.kids, it.cur = nil, nil
			it.r++
			continue
		}
		return it.emit(serial)
	}
	return nil, false
}

// start initializes the odometer for a call rule with the first tree of
// every child sequence.
func (it *exprIter) start(rule *grammar.Rule) bool {
	arity := rule.Arity()
	it.kids = make([]*exprIter, arity)
	it.cur = make([]*derive.RuleNode, arity)
	for i, childType := range rule.ChildTypes() {
		it.kids[i] = newExprIter(it.g, it.a, childType, it.budget-1)
		child, ok := it.kids[i].next()
		if !ok {
			it.kids, it.cur = nil, nil
			return false
		}
		it.cur[i] = child
	}
	return true
}

// advance turns the odometer: the rightmost child cycles fastest through
// its own sequence, carrying into the next child leftward when exhausted.
// Returns false when all positions carried, i.e. the rule is exhausted.
func (it *exprIter) advance(rule *grammar.Rule) bool {
	childTypes := rule.ChildTypes()
	i := len(it.kids) - 1
	for i >= 0 {
		if child, ok := it.kids[i].next(); ok {
			it.cur[i] = child
			return true
		}
		it.kids[i] = newExprIter(it.g, it.a, childTypes[i], it.budget-1) // restart digit
		child, ok := it.kids[i].next()
		if !ok {
			return false // empty child sequence, cannot happen after start()
		}
		it.cur[i] = child
		i--
	}
	return false
}

// emit constructs the tree for the current odometer state. Children are
// cloned so that no node is shared between two emitted trees.
func (it *exprIter) emit(serial int) (*derive.RuleNode, bool) {
	children := make([]*derive.RuleNode, len(it.cur))
	for i, c := range it.cur {
		children[i] = c.Clone()
	}
	node, err := derive.Construct(it.g, serial, children...)
	if err != nil {
		tracer().Errorf("enumeration constructed an inconsistent tree: %v", err)
		return nil, false
	}
	return node, true
}
