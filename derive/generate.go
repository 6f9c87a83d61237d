package derive

import (
	"fmt"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/treegram"
	"github.com/npillmayer/treegram/grammar"
	"golang.org/x/exp/rand"
)

// Generate creates a random derivation tree for a non-terminal, never
// deeper than maxDepth levels. At every node it picks uniformly among the
// rules for the non-terminal which still fit the remaining depth budget,
// using the grammar's min-depth analysis, and recurses into each child
// slot with the budget reduced by one level.
//
// Rule selection is uniform over depth-feasible rules; callers wanting a
// weighting have to layer it outside the engine, e.g. by rejection.
//
// Generate fails with a *DepthError if no tree for nt fits within
// maxDepth at all; this is checked before generation begins.
func Generate(g *grammar.Grammar, nt treegram.Symbol, maxDepth int, r *rand.Rand) (*RuleNode, error) {
	r = rng(r)
	a := grammar.Analysis(g)
	if min := a.MinDepthFor(nt); min == grammar.Infinity || min+1 > maxDepth {
		return nil, &DepthError{NT: nt, MaxDepth: maxDepth, MinDepth: min}
	}
	return generate(g, a, nt, maxDepth, r)
}

func generate(g *grammar.Grammar, a *grammar.DepthAnalysis, nt treegram.Symbol,
	budget int, r *rand.Rand) (*RuleNode, error) {
	//
	var feasible []int
	for _, serial := range g.RulesFor(nt) {
		if a.Feasible(serial, budget) {
			feasible = append(feasible, serial)
		}
	}
	if len(feasible) == 0 { // cannot happen after the initial budget check
		if stuck(fmt.Sprintf("no feasible rule for %s within %d levels, generator is stuck", nt, budget)) {
			return nil, &DepthError{NT: nt, MaxDepth: budget, MinDepth: a.MinDepthFor(nt)}
		}
	}
	serial := feasible[r.Intn(len(feasible))]
	rule := g.Rule(serial)
	children := make([]*RuleNode, 0, rule.Arity())
	for _, childType := range rule.ChildTypes() {
		child, err := generate(g, a, childType, budget-1, r)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return Construct(g, serial, children...)
}

func stuck(msg string) bool {
	tracer().Errorf(msg)
	if gconf.GetBool("panic-on-generator-stuck") {
		panic(`tree generator is stuck.

Configuration flag panic-on-generator-stuck is set to true. It is aimed at
helping to debug a grammar and do a post-mortem of why generation got stuck.
However, if this is a production environment and you did not expect this to
panic, please unset panic-on-generator-stuck to its default (false).

` + msg)
	}
	return true
}

// DepthError signals that no derivation tree for a non-terminal fits
// within the requested depth budget. MinDepth carries the analysis
// result for the non-terminal (possibly grammar.Infinity).
type DepthError struct {
	NT       treegram.Symbol
	MaxDepth int
	MinDepth int
}

func (e *DepthError) Error() string {
	if e.MinDepth == grammar.Infinity {
		return fmt.Sprintf("non-terminal %s has no finite derivation", e.NT)
	}
	return fmt.Sprintf("no derivation of %s fits %d levels (minimum is %d)",
		e.NT, e.MaxDepth, e.MinDepth+1)
}
