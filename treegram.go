package treegram

import (
	"bytes"
	"fmt"
)

// --- Symbols ----------------------------------------------------------------

// Symbol is a grammar symbol name. Non-terminals, operator names and free
// variable names are all symbols; the grammar decides which role a symbol
// plays.
type Symbol string

func (s Symbol) String() string {
	return string(s)
}

// --- Expressions ------------------------------------------------------------

// Expr is a portable expression representation: a closed tagged union of
// literal | variable | call. It is the currency between the grammar's rule
// bodies and the interpreter. Derivation trees compile to Exprs for the
// reference evaluation path; the fast path walks the tree directly.
//
// Expr is deliberately independent of any host-language eval facility:
// an Expr is plain data, interpreted by the runtime package.
type Expr interface {
	fmt.Stringer
	exprNode() // closed union marker
}

// Lit is a literal constant expression.
type Lit struct {
	Value interface{}
}

// Var references a symbol to be resolved in a symbol table at evaluation
// time, e.g. an input variable 'x'.
type Var struct {
	Name Symbol
}

// Call applies an operator or function symbol to argument expressions.
type Call struct {
	Op   Symbol
	Args []Expr
}

func (l Lit) exprNode()  {}
func (v Var) exprNode()  {}
func (c Call) exprNode() {}

func (l Lit) String() string {
	if s, ok := l.Value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", l.Value)
}

func (v Var) String() string {
	return string(v.Name)
}

// String renders a call in S-expression notation, e.g. "(+ 1 x)".
func (c Call) String() string {
	var b bytes.Buffer
	b.WriteString("(")
	b.WriteString(string(c.Op))
	for _, a := range c.Args {
		b.WriteString(" ")
		if a == nil {
			b.WriteString("<nil>")
			continue
		}
		b.WriteString(a.String())
	}
	b.WriteString(")")
	return b.String()
}
