package fp

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treegram/derive"
	"github.com/npillmayer/treegram/grammar"
)

// enumGrammar builds the running example:
//
//  Real ➞ (+ Real Real)  |  1  |  2
//
// Within 2 levels it spans exactly 6 trees: 1, 2, and the four sums.
func enumGrammar(t *testing.T) *grammar.Grammar {
	b := grammar.NewGrammarBuilder("G")
	b.LHS("Real").Call("+").N("Real").N("Real").End()
	b.LHS("Real").Lit(1)
	b.LHS("Real").Lit(2)
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be built, error is: %v", err)
	}
	return g
}

func TestEnumerate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.derive")
	defer teardown()
	//
	g := enumGrammar(t)
	seen := make(map[string]bool)
	n := 0
	for tree, S := Enumerate(g, "Real", 2).First(); !S.Done(); tree = S.Next() {
		n++
		s := tree.Sexpr(g)
		t.Logf("#%d = %s", n, s)
		if seen[s] {
			t.Errorf("tree %s enumerated twice", s)
		}
		seen[s] = true
		if d := derive.Depth(tree); d > 2 {
			t.Errorf("tree %s has %d levels, budget is 2", s, d)
		}
	}
	if n != 6 {
		t.Errorf("expected 6 trees within 2 levels, got %d", n)
	}
	for _, want := range []string{"(+ 1 1)", "(+ 1 2)", "(+ 2 1)", "(+ 2 2)", "1", "2"} {
		if !seen[want] {
			t.Errorf("tree %s missing from enumeration", want)
		}
	}
}

func TestEnumerateDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.derive")
	defer teardown()
	//
	g := enumGrammar(t)
	first := Enumerate(g, "Real", 3).List()
	second := Enumerate(g, "Real", 3).List()
	if len(first) != len(second) {
		t.Fatalf("two runs should have equal length, have %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Sexpr(g) != second[i].Sexpr(g) {
			t.Errorf("position %d differs between runs: %s vs %s",
				i, first[i].Sexpr(g), second[i].Sexpr(g))
		}
	}
}

func TestEnumerateOwnership(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.derive")
	defer teardown()
	//
	g := enumGrammar(t)
	trees := Enumerate(g, "Real", 2).List()
	// no node is shared between two emitted trees
	nodes := make(map[*derive.RuleNode]bool)
	for _, tree := range trees {
		derive.Walk(tree, func(level int, n *derive.RuleNode) bool {
			if nodes[n] {
				t.Errorf("node of tree %s is shared with an earlier tree", tree.Sexpr(g))
			}
			nodes[n] = true
			return true
		})
	}
}

func TestEnumeratePruning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.derive")
	defer teardown()
	//
	g := enumGrammar(t)
	trees := Enumerate(g, "Real", 1).List() // the call rule cannot fit 1 level
	if len(trees) != 2 {
		t.Errorf("expected the 2 terminal trees within 1 level, got %d", len(trees))
	}
	if len(Enumerate(g, "Real", 0).List()) != 0 {
		t.Error("a zero budget should yield an empty sequence")
	}
	b := grammar.NewGrammarBuilder("G")
	b.LHS("Loop").Call("f").N("Loop").End()
	loop, _ := b.Grammar()
	if len(Enumerate(loop, "Loop", 10).List()) != 0 {
		t.Error("an underivable non-terminal should yield an empty sequence")
	}
}

func TestEnumerateBreak(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.derive")
	defer teardown()
	//
	g := enumGrammar(t)
	n := 0
	for _, S := Enumerate(g, "Real", 3).First(); !S.Done(); S.Next() {
		n++
		if n == 3 {
			S.Break()
		}
	}
	if n != 3 {
		t.Errorf("sequence should stop after Break, iterated %d times", n)
	}
}

func TestEnumerateWhere(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.derive")
	defer teardown()
	//
	g := enumGrammar(t)
	leaves := Enumerate(g, "Real", 2).Where(func(n *derive.RuleNode) bool {
		return derive.Size(n) == 1
	}).List()
	if len(leaves) != 2 {
		t.Errorf("expected the 2 single-node trees, got %d", len(leaves))
	}
	none := Enumerate(g, "Real", 2).Where(func(n *derive.RuleNode) bool {
		return false
	})
	if !none.Done() {
		t.Error("filtering everything should yield a done sequence")
	}
}

func TestEnumerateMap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.derive")
	defer teardown()
	//
	g := enumGrammar(t)
	sizes := 0
	wrapped := Enumerate(g, "Real", 2).Map(func(n *derive.RuleNode) *derive.RuleNode {
		sizes += derive.Size(n)
		return n
	})
	if len(wrapped.List()) != 6 {
		t.Error("mapping should preserve the sequence length")
	}
	if sizes != 2*1+4*3 {
		t.Errorf("the 6 trees should total 14 nodes, mapper saw %d", sizes)
	}
}

func TestCount(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.derive")
	defer teardown()
	//
	g := enumGrammar(t)
	if n := Count(g, "Real", 2); n != 6 {
		t.Errorf("expected 6 trees within 2 levels, counted %d", n)
	}
	// 2 terminals + 6·6 sums
	if n := Count(g, "Real", 3); n != 38 {
		t.Errorf("expected 38 trees within 3 levels, counted %d", n)
	}
	if Count(g, "Real", 0) != 0 {
		t.Error("a zero budget should count 0 trees")
	}
}

func TestCountMatchesEnumerate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.derive")
	defer teardown()
	//
	//  Real ➞ (+ Real Int)  |  x  |  1.5
	//  Int  ➞ (neg Int)  |  1  |  2
	b := grammar.NewGrammarBuilder("G")
	b.LHS("Real").Call("+").N("Real").N("Int").End()
	b.LHS("Real").Sym("x")
	b.LHS("Real").Lit(1.5)
	b.LHS("Int").Call("neg").N("Int").End()
	b.LHS("Int").Lit(1)
	b.LHS("Int").Lit(2)
	g, _ := b.Grammar()
	for depth := 0; depth <= 4; depth++ {
		want := len(Enumerate(g, "Real", depth).List())
		if got := Count(g, "Real", depth); got != want {
			t.Errorf("depth %d: Count says %d, enumeration yields %d", depth, got, want)
		}
	}
}
