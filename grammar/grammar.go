package grammar

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/treegram"
)

// RuleSpec is one entry of the structured rule list a grammar is built
// from. Front-ends are expected to expand any shorthand (alternatives,
// bulk literals) into this flat form before handing it over.
type RuleSpec struct {
	LHS  treegram.Symbol
	Form Form
}

// Grammar is an immutable, indexed collection of production rules.
// Rule serials are 1…N, in specification order. All structural queries
// run against indices precomputed at construction; a grammar is never
// mutated afterwards.
type Grammar struct {
	Name     string
	rules    []*Rule
	byLHS    map[treegram.Symbol]*arraylist.List // LHS ➞ rule serials, ascending
	nonterms *treeset.Set                        // sorted set of LHS symbols
	maxArity int
	sig      string // structural signature, fixed at construction
}

// NewGrammar builds a grammar from a flat, ordered rule-spec list.
// Malformed rule specs fail construction with a *RuleError.
func NewGrammar(name string, specs []RuleSpec) (*Grammar, error) {
	g := &Grammar{
		Name:     name,
		byLHS:    make(map[treegram.Symbol]*arraylist.List),
		nonterms: treeset.NewWithStringComparator(),
	}
	for i, spec := range specs {
		rule, err := newRule(i+1, spec.LHS, spec.Form)
		if err != nil {
			return nil, err
		}
		g.rules = append(g.rules, rule)
		g.nonterms.Add(string(rule.LHS))
		serials, ok := g.byLHS[rule.LHS]
		if !ok {
			serials = arraylist.New()
			g.byLHS[rule.LHS] = serials
		}
		serials.Add(rule.Serial)
		if rule.Arity() > g.maxArity {
			g.maxArity = rule.Arity()
		}
	}
	if len(g.rules) == 0 {
		return nil, &RuleError{Serial: 0, Reason: "grammar has no rules"}
	}
	g.sig = g.computeSignature()
	tracer().Infof("grammar %q built with %d rules, max arity %d", name, len(g.rules), g.maxArity)
	return g, nil
}

// Size returns the number of rules, N.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rule returns the rule with the given serial (1…N), or nil if the serial
// is out of range.
func (g *Grammar) Rule(serial int) *Rule {
	if serial < 1 || serial > len(g.rules) {
		return nil
	}
	return g.rules[serial-1]
}

// RulesFor returns the serials of all rules with the given LHS, in
// ascending order. The slice is a copy; callers may keep it.
func (g *Grammar) RulesFor(nt treegram.Symbol) []int {
	serials, ok := g.byLHS[nt]
	if !ok {
		return nil
	}
	r := make([]int, 0, serials.Size())
	it := serials.Iterator()
	for it.Next() {
		r = append(r, it.Value().(int))
	}
	return r
}

// Nonterminals returns the set of all LHS symbols, sorted by name.
func (g *Grammar) Nonterminals() []treegram.Symbol {
	syms := make([]treegram.Symbol, 0, g.nonterms.Size())
	for _, v := range g.nonterms.Values() {
		syms = append(syms, treegram.Symbol(v.(string)))
	}
	return syms
}

// IsNonterminal is a predicate: Is sym the LHS of at least one rule?
func (g *Grammar) IsNonterminal(sym treegram.Symbol) bool {
	return g.nonterms.Contains(string(sym))
}

// EachNonTerminal iterates over all non-terminals, in sorted order,
// executing a mapper function. A non-nil mapper return value stops the
// iteration and is handed back to the caller.
func (g *Grammar) EachNonTerminal(mapper func(nt treegram.Symbol) interface{}) interface{} {
	for _, v := range g.nonterms.Values() {
		if r := mapper(treegram.Symbol(v.(string))); r != nil {
			return r
		}
	}
	return nil
}

// EachRule iterates over all rules in serial order.
func (g *Grammar) EachRule(mapper func(r *Rule)) {
	for _, rule := range g.rules {
		mapper(rule)
	}
}

// ReturnType returns the non-terminal derived by rule serial, which
// equals the rule's LHS.
func (g *Grammar) ReturnType(serial int) treegram.Symbol {
	if r := g.Rule(serial); r != nil {
		return r.ReturnType()
	}
	return ""
}

// Arity returns the number of child slots of rule serial.
func (g *Grammar) Arity(serial int) int {
	if r := g.Rule(serial); r != nil {
		return r.Arity()
	}
	return 0
}

// ChildTypes returns the non-terminal symbols of the child slots of rule
// serial; empty for terminals and eval-thunks.
func (g *Grammar) ChildTypes(serial int) []treegram.Symbol {
	if r := g.Rule(serial); r != nil {
		return r.ChildTypes()
	}
	return nil
}

// IsTerminal is a predicate: Does rule serial have arity 0 and no thunk?
func (g *Grammar) IsTerminal(serial int) bool {
	r := g.Rule(serial)
	return r != nil && r.IsTerminal()
}

// IsThunk is a predicate: Is rule serial an eval-thunk rule?
func (g *Grammar) IsThunk(serial int) bool {
	r := g.Rule(serial)
	return r != nil && r.IsThunk()
}

// MaxArity returns the maximum arity over all rules.
func (g *Grammar) MaxArity() int {
	return g.maxArity
}

// Dump is a debugging helper, listing all rules of the grammar.
func (g *Grammar) Dump() {
	tracer().Debugf("=== grammar %q ===================================", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%s", r)
	}
	tracer().Debugf("==================================================")
}

// --- Structural signature ---------------------------------------------------

// ruleShape is the hashable projection of a rule: structure only, no
// thunk bodies and no callables. Two grammars with equal signatures have
// identical rule structure, which is all the depth analysis depends on.
type ruleShape struct {
	LHS  string
	Kind string
	Op   string
	Args []string
}

// Signature returns a structural hash of the grammar, suitable as a
// memoization key for per-grammar analyses. The hash is fixed at
// construction, so sharing a grammar across goroutines is safe.
func (g *Grammar) Signature() string {
	return g.sig
}

func (g *Grammar) computeSignature() string {
	shapes := make([]ruleShape, len(g.rules))
	for i, r := range g.rules {
		shape := ruleShape{LHS: string(r.LHS)}
		switch form := r.form.(type) {
		case SymbolForm:
			shape.Kind = "sym"
			shape.Op = string(form.Name)
		case LiteralForm:
			shape.Kind = "lit"
			shape.Op = fmt.Sprintf("%T:%v", form.Value, form.Value)
		case ThunkForm:
			shape.Kind = "thunk"
		case CallForm:
			shape.Kind = "call"
			shape.Op = string(form.Op)
			for _, slot := range form.Args {
				switch arg := slot.(type) {
				case NonTermArg:
					shape.Args = append(shape.Args, "N:"+string(arg.Sym))
				case LiteralArg:
					shape.Args = append(shape.Args, fmt.Sprintf("L:%T:%v", arg.Value, arg.Value))
				}
			}
		}
		shapes[i] = shape
	}
	return fmt.Sprintf("%x", structhash.Md5(shapes, 1))
}

// --- Grammar builder --------------------------------------------------------

// GrammarBuilder is a builder object for grammars. Clients add rules with
// the fluent RuleBuilder API and finally call Grammar().
type GrammarBuilder struct {
	name  string
	specs []RuleSpec
	err   error
}

// NewGrammarBuilder gets a new grammar builder for a named grammar.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{name: name}
}

// LHS starts a new rule with a given LHS non-terminal.
func (gb *GrammarBuilder) LHS(nt string) *RuleBuilder {
	return &RuleBuilder{gb: gb, lhs: treegram.Symbol(nt)}
}

// Grammar returns the grammar built so far. The first malformed rule
// encountered during building is reported here.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if gb.err != nil {
		return nil, gb.err
	}
	return NewGrammar(gb.name, gb.specs)
}

// RuleBuilder is a builder type for rules, returned from
// GrammarBuilder.LHS(…). Terminal and thunk rules complete immediately
// (Lit, Sym, Thunk); call rules collect argument slots and complete with
// End().
type RuleBuilder struct {
	gb   *GrammarBuilder
	lhs  treegram.Symbol
	op   treegram.Symbol
	args []ArgSlot
}

// Lit appends a literal-terminal rule, e.g.  Real ➞ 1.0
func (rb *RuleBuilder) Lit(value interface{}) *GrammarBuilder {
	rb.gb.append(rb.lhs, LiteralForm{Value: value})
	return rb.gb
}

// Sym appends a symbol-terminal rule, e.g.  Real ➞ x
func (rb *RuleBuilder) Sym(name string) *GrammarBuilder {
	rb.gb.append(rb.lhs, SymbolForm{Name: treegram.Symbol(name)})
	return rb.gb
}

// Thunk appends an eval-thunk rule.
func (rb *RuleBuilder) Thunk(thunk func() interface{}) *GrammarBuilder {
	rb.gb.append(rb.lhs, ThunkForm{Thunk: thunk})
	return rb.gb
}

// Call starts a call-form rule for a given operator symbol. Argument
// slots are appended with N(…) and Arg(…); the rule completes with End().
func (rb *RuleBuilder) Call(op string) *RuleBuilder {
	rb.op = treegram.Symbol(op)
	return rb
}

// N appends a non-terminal argument slot to a call rule.
func (rb *RuleBuilder) N(nt string) *RuleBuilder {
	rb.args = append(rb.args, NonTermArg{Sym: treegram.Symbol(nt)})
	return rb
}

// Arg appends an inline literal argument slot to a call rule.
func (rb *RuleBuilder) Arg(value interface{}) *RuleBuilder {
	rb.args = append(rb.args, LiteralArg{Value: value})
	return rb
}

// End completes a call rule.
func (rb *RuleBuilder) End() *GrammarBuilder {
	rb.gb.append(rb.lhs, CallForm{Op: rb.op, Args: rb.args})
	return rb.gb
}

func (gb *GrammarBuilder) append(lhs treegram.Symbol, form Form) {
	serial := len(gb.specs) + 1
	if _, err := newRule(serial, lhs, form); err != nil && gb.err == nil {
		gb.err = err // report the first malformed rule from Grammar()
	}
	gb.specs = append(gb.specs, RuleSpec{LHS: lhs, Form: form})
}
