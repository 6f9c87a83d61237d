package grammar

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treegram"
)

func TestGrammarBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.grammar")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("Real").Call("+").N("Real").N("Real").End()
	b.LHS("Real").Sym("x")
	b.LHS("Real").Lit(1.5)
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be built, error is: %v", err)
	}
	if g.Size() != 3 {
		t.Errorf("grammar expected to have 3 rules, has %d", g.Size())
	}
	g.Dump()
}

func TestGrammarEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.grammar")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	if _, err := b.Grammar(); err == nil {
		t.Error("empty grammar should not build, did")
	}
}

func TestGrammarRuleError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.grammar")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("Real").Lit(1.0)
	b.LHS("Real").Call("").N("Real").End() // empty operator symbol
	_, err := b.Grammar()
	if err == nil {
		t.Fatal("malformed rule should fail grammar construction, didn't")
	}
	rerr, ok := err.(*RuleError)
	if !ok {
		t.Fatalf("expected a *RuleError, got %T", err)
	}
	if rerr.Serial != 2 {
		t.Errorf("RuleError should flag rule 2, flags %d", rerr.Serial)
	}
}

func TestGrammarRuleErrorEmptyLHS(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.grammar")
	defer teardown()
	//
	_, err := NewGrammar("G", []RuleSpec{
		{LHS: "", Form: LiteralForm{Value: 1}},
	})
	if _, ok := err.(*RuleError); !ok {
		t.Errorf("expected a *RuleError for empty LHS, got %v", err)
	}
}

func TestGrammarRuleErrorNilThunk(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.grammar")
	defer teardown()
	//
	_, err := NewGrammar("G", []RuleSpec{
		{LHS: "T", Form: ThunkForm{Thunk: nil}},
	})
	if _, ok := err.(*RuleError); !ok {
		t.Errorf("expected a *RuleError for nil thunk, got %v", err)
	}
}

func TestGrammarIndexes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.grammar")
	defer teardown()
	//
	g := testGrammar(t)
	if !g.IsNonterminal("Real") || !g.IsNonterminal("Int") {
		t.Error("Real and Int should both be non-terminals")
	}
	if g.IsNonterminal("x") {
		t.Error("x is a terminal symbol, listed as non-terminal")
	}
	nts := g.Nonterminals()
	if len(nts) != 2 || nts[0] != "Int" || nts[1] != "Real" {
		t.Errorf("non-terminals should be [Int Real], are %v", nts)
	}
	serials := g.RulesFor("Real")
	if len(serials) != 3 {
		t.Fatalf("Real should have 3 rules, has %d", len(serials))
	}
	for i := 1; i < len(serials); i++ {
		if serials[i-1] >= serials[i] {
			t.Errorf("rule serials for Real not ascending: %v", serials)
		}
	}
	if g.RulesFor("Bool") != nil {
		t.Error("unknown non-terminal should have no rules")
	}
}

func TestGrammarRuleQueries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.grammar")
	defer teardown()
	//
	g := testGrammar(t)
	// rule 1:  Real ➞ (+ Real Int)
	if g.Arity(1) != 2 {
		t.Errorf("rule 1 should have arity 2, has %d", g.Arity(1))
	}
	if g.ReturnType(1) != "Real" {
		t.Errorf("rule 1 should return Real, returns %s", g.ReturnType(1))
	}
	types := g.ChildTypes(1)
	if len(types) != 2 || types[0] != "Real" || types[1] != "Int" {
		t.Errorf("child types of rule 1 should be [Real Int], are %v", types)
	}
	// rule 2:  Real ➞ x
	if !g.IsTerminal(2) || g.Arity(2) != 0 {
		t.Error("rule 2 should be a terminal of arity 0")
	}
	// rule 3:  Real ➞ <thunk>
	if !g.IsThunk(3) {
		t.Error("rule 3 should be an eval-thunk rule")
	}
	if g.IsTerminal(3) {
		t.Error("an eval-thunk rule is not a terminal")
	}
	if g.MaxArity() != 2 {
		t.Errorf("max arity should be 2, is %d", g.MaxArity())
	}
	if g.Rule(0) != nil || g.Rule(99) != nil {
		t.Error("out-of-range serials should yield a nil rule")
	}
}

func TestGrammarInlineLiteralArg(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.grammar")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("Real").Call("pow").N("Real").Arg(2.0).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be built, error is: %v", err)
	}
	// inline literals occupy no child slot
	if g.Arity(1) != 1 {
		t.Errorf("rule with one N and one Arg slot should have arity 1, has %d", g.Arity(1))
	}
}

func TestGrammarSignature(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.grammar")
	defer teardown()
	//
	g1 := testGrammar(t)
	g2 := testGrammar(t)
	if g1.Signature() != g2.Signature() {
		t.Error("structurally identical grammars should share a signature")
	}
	b := NewGrammarBuilder("G")
	b.LHS("Real").Call("-").N("Real").N("Int").End() // different operator
	b.LHS("Real").Sym("x")
	b.LHS("Real").Thunk(func() interface{} { return 0.0 })
	b.LHS("Int").Lit(1)
	g3, _ := b.Grammar()
	if g1.Signature() == g3.Signature() {
		t.Error("structurally different grammars should not share a signature")
	}
}

func TestGrammarEachRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treegram.grammar")
	defer teardown()
	//
	g := testGrammar(t)
	serial := 0
	g.EachRule(func(r *Rule) {
		serial++
		if r.Serial != serial {
			t.Errorf("rules should iterate in serial order, got %d at position %d", r.Serial, serial)
		}
	})
	if serial != g.Size() {
		t.Errorf("EachRule should visit %d rules, visited %d", g.Size(), serial)
	}
	stopped := g.EachNonTerminal(func(nt treegram.Symbol) interface{} {
		return nt // stop at the first one
	})
	if stopped != treegram.Symbol("Int") {
		t.Errorf("EachNonTerminal should stop at Int, stopped at %v", stopped)
	}
}

// testGrammar builds a small mixed grammar:
//
//  Real ➞ (+ Real Int)  |  x  |  <thunk>
//  Int  ➞ 1
//
func testGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("G")
	b.LHS("Real").Call("+").N("Real").N("Int").End()
	b.LHS("Real").Sym("x")
	b.LHS("Real").Thunk(func() interface{} { return 0.0 })
	b.LHS("Int").Lit(1)
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar should be built, error is: %v", err)
	}
	return g
}
