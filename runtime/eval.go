package runtime

import (
	"fmt"

	"github.com/npillmayer/treegram"
	"github.com/npillmayer/treegram/derive"
	"github.com/npillmayer/treegram/grammar"
)

// --- Symbol table construction ----------------------------------------------

// BuildSymbolTable scans every rule body of a grammar for referenced
// symbols which are not bound to a non-terminal: call operators and bare
// terminal symbols. Names resolvable in the ambient scope are
// auto-populated with the ambient tag's type and payload; the remaining
// names are recorded as required free variables. Unresolved names are
// not an error; they have to be bound before evaluation, and evaluating
// a tree referencing an unbound free variable fails with an
// *UnboundError.
func BuildSymbolTable(g *grammar.Grammar, ambient *Scope) *SymbolTable {
	tab := NewSymbolTable()
	enter := func(name treegram.Symbol) {
		if tab.ResolveTag(string(name)) != nil {
			return
		}
		if ambient != nil {
			if tag, _ := ambient.ResolveTag(string(name)); tag != nil {
				tab.InsertTag(NewTag(string(name)).WithType(tag.Typ).WithValue(tag.UData))
				return
			}
		}
		tracer().Debugf("symbol '%s' not in ambient scope, recording free variable", name)
		tab.InsertTag(NewTag(string(name)).WithType(FreeVarType))
	}
	g.EachRule(func(r *grammar.Rule) {
		switch form := r.Form().(type) {
		case grammar.CallForm:
			enter(form.Op)
		case grammar.SymbolForm:
			enter(form.Name)
		}
	})
	tracer().Infof("symbol table for grammar %q holds %d symbols", g.Name, tab.Size())
	return tab
}

// Builtins returns the standard ambient scope: float64 arithmetic
// operators (+ - * / neg min max) and the constant pi. Custom ambient
// environments chain a child scope onto it, see NewScope.
func Builtins() *Scope {
	s := NewScope("builtins", nil)
	s.Operator("+", numeric2(func(a, b float64) float64 { return a + b }))
	s.Operator("-", numeric2(func(a, b float64) float64 { return a - b }))
	s.Operator("*", numeric2(func(a, b float64) float64 { return a * b }))
	s.Operator("/", func(args ...interface{}) (interface{}, error) {
		a, b, err := two(args)
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return a / b, nil
	})
	s.Operator("neg", func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("neg expects 1 argument, got %d", len(args))
		}
		a, err := number(args[0])
		if err != nil {
			return nil, err
		}
		return -a, nil
	})
	s.Operator("min", numeric2(func(a, b float64) float64 {
		if a < b {
			return a
		}
		return b
	}))
	s.Operator("max", numeric2(func(a, b float64) float64 {
		if a > b {
			return a
		}
		return b
	}))
	s.Constant("pi", 3.14159265358979323846)
	return s
}

func numeric2(op func(a, b float64) float64) Callable {
	return func(args ...interface{}) (interface{}, error) {
		a, b, err := two(args)
		if err != nil {
			return nil, err
		}
		return op(a, b), nil
	}
}

func two(args []interface{}) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("operator expects 2 arguments, got %d", len(args))
	}
	a, err := number(args[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := number(args[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func number(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("not a number: %v", v)
}

// --- Evaluation -------------------------------------------------------------

// Evaluate evaluates a derivation tree against a symbol table, walking
// the tree directly. This is the fast path; see ExprOf/EvalExprWith for
// the reference path, which produces identical results.
func Evaluate(n *derive.RuleNode, g *grammar.Grammar, tab *SymbolTable) (interface{}, error) {
	env := environment{tab: tab}
	return env.eval(g, n)
}

// EvalExprWith evaluates a portable expression against a symbol table.
func EvalExprWith(e treegram.Expr, tab *SymbolTable) (interface{}, error) {
	env := environment{tab: tab}
	return env.evalExpr(e)
}

// environment bundles symbol resolution sources for one evaluation.
type environment struct {
	tab    *SymbolTable
	frames *FrameStack // may be nil
}

func (env environment) lookup(name treegram.Symbol) (*Tag, error) {
	if env.frames != nil {
		if tag := env.frames.resolve(string(name)); tag != nil {
			return tag, nil
		}
	}
	tag := env.tab.ResolveTag(string(name))
	if tag == nil {
		return nil, &UnboundError{Name: name}
	}
	if tag.Typ == FreeVarType && tag.UData == nil {
		return nil, &UnboundError{Name: name}
	}
	return tag, nil
}

func (env environment) eval(g *grammar.Grammar, n *derive.RuleNode) (interface{}, error) {
	rule := g.Rule(n.Serial)
	if rule == nil {
		return nil, &EvalError{Serial: n.Serial, Err: fmt.Errorf("no such rule in grammar %q", g.Name)}
	}
	switch form := rule.Form().(type) {
	case grammar.LiteralForm:
		return form.Value, nil
	case grammar.ThunkForm:
		return n.Value, nil // cached at construction, never recomputed
	case grammar.SymbolForm:
		tag, err := env.lookup(form.Name)
		if err != nil {
			return nil, err
		}
		return tag.UData, nil
	case grammar.CallForm:
		return env.apply(g, n, rule, form)
	}
	return nil, &EvalError{Serial: n.Serial, Err: fmt.Errorf("invalid rule form")}
}

func (env environment) apply(g *grammar.Grammar, n *derive.RuleNode, rule *grammar.Rule,
	form grammar.CallForm) (interface{}, error) {
	//
	tag, err := env.lookup(form.Op)
	if err != nil {
		return nil, err
	}
	call, ok := tag.UData.(Callable)
	if !ok {
		return nil, &EvalError{Serial: n.Serial, Op: form.Op,
			Err: fmt.Errorf("symbol '%s' is not callable", form.Op)}
	}
	if len(n.Children) != rule.Arity() {
		return nil, &EvalError{Serial: n.Serial, Op: form.Op,
			Err: fmt.Errorf("node has %d children, rule wants %d", len(n.Children), rule.Arity())}
	}
	args := make([]interface{}, 0, len(form.Args))
	child := 0
	for _, slot := range form.Args {
		switch arg := slot.(type) {
		case grammar.LiteralArg:
			args = append(args, arg.Value)
		case grammar.NonTermArg:
			v, err := env.eval(g, n.Children[child])
			child++
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
	}
	result, err := invoke(call, args)
	if err != nil {
		return nil, &EvalError{Serial: n.Serial, Op: form.Op, Err: err}
	}
	return result, nil
}

func (env environment) evalExpr(e treegram.Expr) (interface{}, error) {
	switch expr := e.(type) {
	case treegram.Lit:
		return expr.Value, nil
	case treegram.Var:
		tag, err := env.lookup(expr.Name)
		if err != nil {
			return nil, err
		}
		return tag.UData, nil
	case treegram.Call:
		tag, err := env.lookup(expr.Op)
		if err != nil {
			return nil, err
		}
		call, ok := tag.UData.(Callable)
		if !ok {
			return nil, &EvalError{Op: expr.Op,
				Err: fmt.Errorf("symbol '%s' is not callable", expr.Op)}
		}
		args := make([]interface{}, len(expr.Args))
		for i, a := range expr.Args {
			v, err := env.evalExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		result, err := invoke(call, args)
		if err != nil {
			return nil, &EvalError{Op: expr.Op, Err: err}
		}
		return result, nil
	}
	return nil, fmt.Errorf("invalid expression %v", e)
}

// invoke calls a callable, converting a panic into an error so that a
// failing operator cannot tear down a search loop.
func invoke(call Callable, args []interface{}) (result interface{}, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("callable panicked: %v", p)
		}
	}()
	return call(args...)
}

// --- Compilation to the portable representation -----------------------------

// ExprOf compiles a derivation tree to the portable expression
// representation. Literal terminals become literals, symbol terminals
// become variables, call rules become calls with their inline literal
// arguments embedded, and eval-thunk nodes freeze their cached value as
// a literal, which is why both evaluation paths agree even for
// non-deterministic thunks.
func ExprOf(n *derive.RuleNode, g *grammar.Grammar) (treegram.Expr, error) {
	rule := g.Rule(n.Serial)
	if rule == nil {
		return nil, &EvalError{Serial: n.Serial, Err: fmt.Errorf("no such rule in grammar %q", g.Name)}
	}
	switch form := rule.Form().(type) {
	case grammar.LiteralForm:
		return treegram.Lit{Value: form.Value}, nil
	case grammar.ThunkForm:
		return treegram.Lit{Value: n.Value}, nil
	case grammar.SymbolForm:
		return treegram.Var{Name: form.Name}, nil
	case grammar.CallForm:
		if len(n.Children) != rule.Arity() {
			return nil, &EvalError{Serial: n.Serial, Op: form.Op,
				Err: fmt.Errorf("node has %d children, rule wants %d", len(n.Children), rule.Arity())}
		}
		args := make([]treegram.Expr, 0, len(form.Args))
		child := 0
		for _, slot := range form.Args {
			switch arg := slot.(type) {
			case grammar.LiteralArg:
				args = append(args, treegram.Lit{Value: arg.Value})
			case grammar.NonTermArg:
				sub, err := ExprOf(n.Children[child], g)
				child++
				if err != nil {
					return nil, err
				}
				args = append(args, sub)
			}
		}
		return treegram.Call{Op: form.Op, Args: args}, nil
	}
	return nil, &EvalError{Serial: n.Serial, Err: fmt.Errorf("invalid rule form")}
}

// --- Errors -----------------------------------------------------------------

// UnboundError signals that a required free variable was not bound
// before evaluation. It is recoverable: bind the name and retry.
type UnboundError struct {
	Name treegram.Symbol
}

func (e *UnboundError) Error() string {
	return fmt.Sprintf("unbound symbol '%s'", e.Name)
}

// EvalError wraps a failure of a resolved callable (or an inconsistent
// tree) during evaluation, carrying the originating rule serial.
type EvalError struct {
	Serial int             // rule serial the failure originated from, 0 for plain expressions
	Op     treegram.Symbol // operator being applied, if any
	Err    error
}

func (e *EvalError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("evaluation of rule %d ('%s') failed: %v", e.Serial, e.Op, e.Err)
	}
	return fmt.Sprintf("evaluation of rule %d failed: %v", e.Serial, e.Err)
}

// Unwrap returns the underlying callable failure.
func (e *EvalError) Unwrap() error {
	return e.Err
}
