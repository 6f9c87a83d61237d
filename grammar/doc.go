/*
Package grammar implements the grammar model underlying TreeGram.

A grammar is an ordered list of production rules. Every rule has a
left-hand side non-terminal and a form, which is one of:

  ▪ a symbol terminal (a bare name, e.g. an input variable "x"),
  ▪ a literal terminal (a constant value),
  ▪ a call (an operator symbol plus argument slots, where each slot
    references a non-terminal or embeds a literal),
  ▪ an eval-thunk (a zero-argument computation, evaluated once when a
    tree node for the rule is constructed, then held constant).

Building a Grammar

Grammars are specified using a grammar builder object. Clients add rules,
consisting of a non-terminal LHS and a form.

Example:

    b := grammar.NewGrammarBuilder("Expr")
    b.LHS("Real").Call("+").N("Real").N("Real").End() // Real ➞ Real + Real
    b.LHS("Real").Lit(1.0)                            // Real ➞ 1.0
    b.LHS("Real").Lit(2.0)                            // Real ➞ 2.0
    b.LHS("Real").Sym("x")                            // Real ➞ x
    g, err := b.Grammar()

This results in the following grammar:

    g.Dump()

    1: [Real] ::= (+ Real Real)
    2: [Real] ::= 1
    3: [Real] ::= 2
    4: [Real] ::= x

Alternatively a grammar is constructed from a flat list of rule
specifications (the form a front-end would hand over, with all shorthand
already expanded):

    g, err := grammar.NewGrammar("Expr", []grammar.RuleSpec{
        {LHS: "Real", Form: grammar.CallForm{Op: "+", Args: []grammar.ArgSlot{
            grammar.NonTermArg{Sym: "Real"}, grammar.NonTermArg{Sym: "Real"}}}},
        {LHS: "Real", Form: grammar.LiteralForm{Value: 1.0}},
    })

Grammars are immutable after construction. Rules are identified by their
serial index 1…N, stable for the grammar's lifetime.

Static Grammar Analysis

After the grammar is complete, it may be subjected to a depth analysis,
which computes for every rule the minimum depth of any finite derivation
tree using it. Analyses are memoized per structural grammar signature.

    a := grammar.Analysis(g)
    if !a.Derivable("Real") {
        // no finite derivation exists for this non-terminal
    }

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'treegram.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.grammar")
}
