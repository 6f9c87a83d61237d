/*
Package runtime implements the interpreter runtime for derivation trees:
symbol tables, scopes and binding frames, plus the evaluators.

For a thorough discussion of an interpreter's runtime environment, refer
to "Language Implementation Patterns" by Terence Parr.

Symbol Tables and Scopes

A symbol table maps names (operators, constants, free variables) to
tags carrying a value or a callable. Tables are built by scanning a
grammar for every symbol its rule bodies reference: symbols resolvable in
the ambient scope are auto-populated, the remaining names are recorded as
required free variables, to be bound by the caller before evaluation.

Binding Frames

Free-variable bindings live in a stack of frames layered over the base
symbol table, so one interpreter can evaluate the same tree repeatedly
under different bindings without rebuilding the table.

Evaluation

Two evaluation paths exist with identical results: the fast path walks a
derivation tree directly, the reference path first compiles the tree to
the portable expression representation (treegram.Expr) and interprets
that. Eval-thunk values are fixed at node construction under both paths.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package runtime

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treegram"
	"github.com/npillmayer/treegram/derive"
	"github.com/npillmayer/treegram/grammar"
)

// tracer traces with key 'treegram.runtime'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.runtime")
}

// Interpreter evaluates derivation trees of one grammar. It owns the
// symbol table built from the grammar and a stack of binding frames for
// free variables. Interpreters are not safe for concurrent use; callers
// run one interpreter per goroutine.
type Interpreter struct {
	g      *grammar.Grammar
	tab    *SymbolTable
	frames *FrameStack
}

// NewInterpreter creates an interpreter for a grammar. The ambient scope
// supplies resolvable symbols (operators, constants); pass Builtins()
// for the standard arithmetic environment, or a scope chained onto it
// for custom callables.
func NewInterpreter(g *grammar.Grammar, ambient *Scope) *Interpreter {
	ip := &Interpreter{
		g:      g,
		tab:    BuildSymbolTable(g, ambient),
		frames: new(FrameStack),
	}
	ip.frames.Push("globals")
	return ip
}

// SymbolTable returns the interpreter's base symbol table.
func (ip *Interpreter) SymbolTable() *SymbolTable {
	return ip.tab
}

// FreeVariables lists the names the symbol table could not resolve in
// the ambient scope. They must be bound before evaluation.
func (ip *Interpreter) FreeVariables() []treegram.Symbol {
	var free []treegram.Symbol
	ip.tab.Each(func(name string, tag *Tag) {
		if tag.Typ == FreeVarType {
			free = append(free, treegram.Symbol(name))
		}
	})
	return free
}

// Bind binds a free variable in the current frame.
func (ip *Interpreter) Bind(name treegram.Symbol, value interface{}) {
	ip.frames.Current().Bind(name, value)
}

// PushFrame layers a new binding frame over the current one, e.g. for a
// nested evaluation with shadowed variables.
func (ip *Interpreter) PushFrame(name string) *Frame {
	return ip.frames.Push(name)
}

// PopFrame discards the top-most binding frame.
func (ip *Interpreter) PopFrame() *Frame {
	return ip.frames.Pop()
}

// Eval evaluates a derivation tree against the interpreter's symbols and
// bindings, using the fast tree-walking path.
func (ip *Interpreter) Eval(n *derive.RuleNode) (interface{}, error) {
	env := environment{tab: ip.tab, frames: ip.frames}
	return env.eval(ip.g, n)
}

// EvalExpr evaluates a portable expression (see ExprOf) against the
// interpreter's symbols and bindings. This is the reference semantics
// path; for any tree it produces the same result as Eval.
func (ip *Interpreter) EvalExpr(e treegram.Expr) (interface{}, error) {
	env := environment{tab: ip.tab, frames: ip.frames}
	return env.evalExpr(e)
}
