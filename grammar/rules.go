package grammar

import (
	"bytes"
	"fmt"

	"github.com/npillmayer/treegram"
)

// --- Rule forms -------------------------------------------------------------

// Form is the body of a production rule: a closed tagged union over the
// four rule kinds. Code branching on rule behaviour switches exhaustively
// over these variants.
type Form interface {
	formMarker()
}

// SymbolForm is a terminal consisting of a bare symbol, typically a free
// variable reference like "x". The symbol is resolved in a symbol table
// at evaluation time.
type SymbolForm struct {
	Name treegram.Symbol
}

// LiteralForm is a terminal consisting of a constant value.
type LiteralForm struct {
	Value interface{}
}

// CallForm applies an operator or function symbol to an ordered list of
// argument slots.
type CallForm struct {
	Op   treegram.Symbol
	Args []ArgSlot
}

// ThunkForm is an opaque zero-argument computation. The thunk is invoked
// exactly once, at node-construction time; the resulting value is cached
// on the node and never recomputed. The thunk may be non-deterministic,
// the realized tree is not.
type ThunkForm struct {
	Thunk func() interface{}
}

func (f SymbolForm) formMarker()  {}
func (f LiteralForm) formMarker() {}
func (f CallForm) formMarker()    {}
func (f ThunkForm) formMarker()   {}

// ArgSlot is one argument position of a call form: either a reference to
// a non-terminal (to be filled by a child subtree) or an inline literal.
type ArgSlot interface {
	slotMarker()
}

// NonTermArg references a non-terminal; the slot is filled by a child
// subtree deriving that non-terminal.
type NonTermArg struct {
	Sym treegram.Symbol
}

// LiteralArg embeds a constant argument directly in the rule body. It
// does not occupy a child slot of the derivation tree.
type LiteralArg struct {
	Value interface{}
}

func (a NonTermArg) slotMarker() {}
func (a LiteralArg) slotMarker() {}

func formString(f Form) string {
	switch form := f.(type) {
	case SymbolForm:
		return string(form.Name)
	case LiteralForm:
		return fmt.Sprintf("%v", form.Value)
	case ThunkForm:
		return "<thunk>"
	case CallForm:
		var b bytes.Buffer
		b.WriteString("(")
		b.WriteString(string(form.Op))
		for _, slot := range form.Args {
			b.WriteString(" ")
			switch arg := slot.(type) {
			case NonTermArg:
				b.WriteString(string(arg.Sym))
			case LiteralArg:
				b.WriteString(fmt.Sprintf("%v", arg.Value))
			}
		}
		b.WriteString(")")
		return b.String()
	}
	return "<invalid form>"
}

// --- Rules ------------------------------------------------------------------

// Rule is a single production of a grammar. Rules belong to a grammar and
// are identified by a serial index, numbered 1…N in the order given at
// construction. A rule's return type equals its LHS.
type Rule struct {
	Serial     int             // serial index within the grammar, 1…N
	LHS        treegram.Symbol // left-hand side non-terminal
	form       Form
	childTypes []treegram.Symbol // non-terminal type per child slot
}

// Form returns the rule's body.
func (r *Rule) Form() Form {
	return r.form
}

// Arity is the number of non-terminal argument slots of the rule. It is 0
// for terminals and eval-thunks. The arity always equals the number of
// child slots of the rule's form.
func (r *Rule) Arity() int {
	return len(r.childTypes)
}

// ReturnType is the non-terminal a tree rooted at this rule derives. It
// equals the rule's LHS.
func (r *Rule) ReturnType() treegram.Symbol {
	return r.LHS
}

// ChildTypes returns the ordered non-terminal symbols of the rule's child
// slots. Empty for terminals and eval-thunks.
func (r *Rule) ChildTypes() []treegram.Symbol {
	return r.childTypes
}

// IsTerminal is a predicate: Does this rule expand to a terminal, i.e.
// does it have arity 0 and no thunk?
func (r *Rule) IsTerminal() bool {
	if _, isThunk := r.form.(ThunkForm); isThunk {
		return false
	}
	return len(r.childTypes) == 0
}

// IsThunk is a predicate: Is this an eval-thunk rule?
func (r *Rule) IsThunk() bool {
	_, isThunk := r.form.(ThunkForm)
	return isThunk
}

func (r *Rule) String() string {
	return fmt.Sprintf("%d: [%s] ::= %s", r.Serial, r.LHS, formString(r.form))
}

// newRule validates a rule spec and derives arity and child types.
func newRule(serial int, lhs treegram.Symbol, form Form) (*Rule, error) {
	if lhs == "" {
		return nil, &RuleError{Serial: serial, Reason: "empty LHS symbol"}
	}
	rule := &Rule{Serial: serial, LHS: lhs, form: form}
	switch f := form.(type) {
	case SymbolForm:
		if f.Name == "" {
			return nil, &RuleError{Serial: serial, Reason: "empty terminal symbol"}
		}
	case LiteralForm:
		// any value goes, including nil
	case ThunkForm:
		if f.Thunk == nil {
			return nil, &RuleError{Serial: serial, Reason: "nil eval-thunk"}
		}
	case CallForm:
		if f.Op == "" {
			return nil, &RuleError{Serial: serial, Reason: "empty operator symbol in call"}
		}
		for i, slot := range f.Args {
			switch arg := slot.(type) {
			case NonTermArg:
				if arg.Sym == "" {
					return nil, &RuleError{Serial: serial,
						Reason: fmt.Sprintf("empty non-terminal in argument slot %d", i+1)}
				}
				rule.childTypes = append(rule.childTypes, arg.Sym)
			case LiteralArg:
				// inline literal, no child slot
			default:
				return nil, &RuleError{Serial: serial,
					Reason: fmt.Sprintf("invalid argument slot %d", i+1)}
			}
		}
	default:
		return nil, &RuleError{Serial: serial, Reason: "invalid rule form"}
	}
	return rule, nil
}

// RuleError flags a malformed rule specification. It is fatal at grammar
// construction time.
type RuleError struct {
	Serial int // serial of the offending rule, 1…N
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("grammar rule %d: %s", e.Serial, e.Reason)
}
