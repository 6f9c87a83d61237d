package runtime

import (
	"fmt"

	"github.com/npillmayer/treegram"
)

// Symbol tables for interpreter symbols. Tables are attached to scopes;
// scopes are organized in a tree.

// --- Tags -------------------------------------------------------------------

// Tag is the symbol type stored in symbol tables. It may be a little
// surprising this type is not called 'Symbol', but that name is taken by
// grammar symbols: symbols live in the scope of the grammar, tags during
// runtime (of the client program).
type Tag struct {
	name  string
	Typ   int8
	UData interface{} // the tag's value: a constant, a Callable, or nil
}

// Pre-defined tag types.
const (
	Undefined int8 = iota
	ConstantType     // a plain value
	OperatorType     // a Callable
	FreeVarType      // required free variable, bound by the caller
)

// Callable is the type operator symbols resolve to: invoked with the
// evaluated children as positional arguments.
type Callable func(args ...interface{}) (interface{}, error)

// NewTag creates a new tag.
func NewTag(nm string) *Tag {
	return &Tag{name: nm}
}

// WithType sets the initial type of a tag. Use as
//
//	tag := NewTag("myTag").WithType(OperatorType)
func (t *Tag) WithType(typ int8) *Tag {
	t.Typ = typ
	return t
}

// WithValue sets the payload of a tag.
func (t *Tag) WithValue(value interface{}) *Tag {
	t.UData = value
	return t
}

// Name gets the tag's name.
func (t *Tag) Name() string {
	return t.name
}

// String is a debug Stringer for tags.
func (t *Tag) String() string {
	return fmt.Sprintf("<tag '%s':%d>", t.name, t.Typ)
}

// === Symbol Tables ==========================================================

// SymbolTable is a symbol table to store tags (map-like semantics).
type SymbolTable struct {
	Table map[string]*Tag
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{Table: make(map[string]*Tag)}
}

// ResolveTag checks for a tag in the symbol table.
// Returns a tag or nil.
func (t *SymbolTable) ResolveTag(tagname string) *Tag {
	return t.Table[tagname]
}

// DefineTag creates a new tag to store into the symbol table. The tag's
// name may not be empty. Overwrites an existing tag with this name, if
// any. Returns the new tag and the previously stored tag (or nil).
func (t *SymbolTable) DefineTag(tagname string) (*Tag, *Tag) {
	if len(tagname) == 0 {
		return nil, nil
	}
	tag := NewTag(tagname)
	old := t.InsertTag(tag)
	return tag, old
}

// InsertTag inserts a pre-created tag. Returns the tag previously stored
// under the same name, if any.
func (t *SymbolTable) InsertTag(tag *Tag) *Tag {
	old := t.ResolveTag(tag.name)
	t.Table[tag.name] = tag
	return old
}

// Bind sets the value of a free-variable tag, creating the tag if it is
// not yet present. Binding makes the symbol available to evaluation.
func (t *SymbolTable) Bind(name treegram.Symbol, value interface{}) *Tag {
	tag := t.ResolveTag(string(name))
	if tag == nil {
		tag, _ = t.DefineTag(string(name))
		tag.Typ = FreeVarType
	}
	tag.UData = value
	return tag
}

// Size counts the tags in a symbol table.
func (t *SymbolTable) Size() int {
	return len(t.Table)
}

// Each iterates over each tag in the table, executing a mapper function.
func (t *SymbolTable) Each(mapper func(string, *Tag)) {
	for k, v := range t.Table {
		mapper(k, v)
	}
}

// === Scopes =================================================================

// Scope is a named scope containing symbol definitions. Scopes link back
// to a parent scope, forming a tree; the ambient environment handed to
// BuildSymbolTable is the root of such a tree.
type Scope struct {
	Name   string
	Parent *Scope
	symtab *SymbolTable
}

// NewScope creates a new scope.
func NewScope(nm string, parent *Scope) *Scope {
	return &Scope{
		Name:   nm,
		Parent: parent,
		symtab: NewSymbolTable(),
	}
}

// Prettyfied Stringer.
func (s *Scope) String() string {
	return fmt.Sprintf("<scope %s>", s.Name)
}

// Tags returns the symbol table of a scope.
func (s *Scope) Tags() *SymbolTable {
	return s.symtab
}

// DefineTag defines a tag in the scope. Returns the new tag and the
// previously stored tag under this key, if any.
func (s *Scope) DefineTag(tagname string) (*Tag, *Tag) {
	return s.symtab.DefineTag(tagname)
}

// Operator defines a callable operator symbol in the scope. Returns the
// scope for chaining.
func (s *Scope) Operator(name string, call Callable) *Scope {
	tag, _ := s.symtab.DefineTag(name)
	tag.Typ = OperatorType
	tag.UData = call
	return s
}

// Constant defines a constant value symbol in the scope. Returns the
// scope for chaining.
func (s *Scope) Constant(name string, value interface{}) *Scope {
	tag, _ := s.symtab.DefineTag(name)
	tag.Typ = ConstantType
	tag.UData = value
	return s
}

// ResolveTag finds a tag. Returns the tag (or nil) and the scope of the
// scope-tree path the tag was found in.
func (s *Scope) ResolveTag(tagname string) (*Tag, *Scope) {
	tag := s.symtab.ResolveTag(tagname)
	if tag != nil {
		return tag, s
	}
	for s.Parent != nil {
		s = s.Parent
		tag, _ = s.ResolveTag(tagname)
		if tag != nil {
			return tag, s
		}
	}
	return tag, nil
}
