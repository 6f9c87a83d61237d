package fp

import (
	"github.com/npillmayer/treegram"
	"github.com/npillmayer/treegram/grammar"
)

// Count computes the number of distinct derivation trees for a
// non-terminal with at most maxDepth levels, i.e. the length of the
// sequence Enumerate would produce, without constructing any tree: the
// count for a call rule is the product of its child counts at the
// reduced budget, summed over all feasible rules. Sub-results are
// memoized on (non-terminal, remaining budget).
func Count(g *grammar.Grammar, nt treegram.Symbol, maxDepth int) int {
	c := &counter{g: g, a: grammar.Analysis(g), memo: make(map[countKey]int)}
	return c.countNT(nt, maxDepth)
}

type countKey struct {
	nt     treegram.Symbol
	budget int
}

type counter struct {
	g    *grammar.Grammar
	a    *grammar.DepthAnalysis
	memo map[countKey]int
}

func (c *counter) countNT(nt treegram.Symbol, budget int) int {
	if budget < 1 {
		return 0
	}
	key := countKey{nt: nt, budget: budget}
	if n, ok := c.memo[key]; ok {
		return n
	}
	total := 0
	for _, serial := range c.g.RulesFor(nt) {
		total += c.countRule(serial, budget)
	}
	c.memo[key] = total
	return total
}

func (c *counter) countRule(serial int, budget int) int {
	if !c.a.Feasible(serial, budget) {
		return 0
	}
	rule := c.g.Rule(serial)
	if rule.Arity() == 0 {
		return 1
	}
	n := 1
	for _, childType := range rule.ChildTypes() {
		n *= c.countNT(childType, budget-1)
	}
	return n
}
