// Package fp provides lazy, restartable sequences over the expression
// space of a grammar: a deterministic depth-bounded enumerator of all
// derivation trees for a non-terminal, and a counting routine which
// avoids materializing the set.
package fp

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/treegram/derive"
)

// tracer traces with key 'treegram.derive'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.derive")
}

/*
Note:
=====
The current implementation always pre-fetches the first tree. This could
be optimized, in case the first value is never fetched by an output call.
For now, we will leave it this way.
*/

// ExprSeq is a lazy sequence of derivation trees. It is finite and
// restartable: re-invoking the producing operation yields the same order
// from the start. It is not resumable mid-iteration beyond ordinary
// external iteration.
type ExprSeq struct {
	node *derive.RuleNode
	seq  ExprGenerator
}

// ExprGenerator is a function type to generate a sequence of trees.
type ExprGenerator func() ExprSeq

// Break signals a sequence to stop iterating.
func (seq *ExprSeq) Break() {
	seq.seq = nil
}

// Done returns true if a sequence stopped iterating.
func (seq *ExprSeq) Done() bool {
	return seq.seq == nil
}

// First returns the first tree of a sequence, together with a sequence
// successor.
func (seq ExprSeq) First() (*derive.RuleNode, ExprSeq) {
	return seq.node, seq
}

// Next returns the next tree of a sequence, or nil when exhausted.
func (seq *ExprSeq) Next() *derive.RuleNode {
	if seq.Done() {
		return nil
	}
	next := seq.seq()
	seq.node = next.node
	if seq.node == nil {
		seq.seq = nil
	} else {
		seq.seq = next.seq
	}
	return seq.node
}

// A TreeFilter filters trees from a sequence.
type TreeFilter func(n *derive.RuleNode) bool

// Where applies a filter to a sequence of trees.
func (seq ExprSeq) Where(filt TreeFilter) ExprSeq {
	var F ExprGenerator
	node, inner := seq.node, seq
	for node != nil && !filt(node) {
		node = inner.Next()
	}
	F = func() ExprSeq {
		n := inner.Next()
		for n != nil && !filt(n) {
			n = inner.Next()
		}
		if n == nil {
			return ExprSeq{nil, nil}
		}
		return ExprSeq{n, F}
	}
	if node == nil {
		return ExprSeq{nil, nil}
	}
	return ExprSeq{node, F}
}

// A TreeMapper represents an operation on a tree, resulting in a
// modified tree.
type TreeMapper func(n *derive.RuleNode) *derive.RuleNode

// Map creates new trees from the elements of a sequence.
func (seq ExprSeq) Map(mapper TreeMapper) ExprSeq {
	if seq.node == nil {
		return ExprSeq{nil, nil}
	}
	var F ExprGenerator
	node, inner := seq.node, seq
	v := mapper(node)
	F = func() ExprSeq {
		n := inner.Next()
		if n == nil {
			return ExprSeq{nil, nil}
		}
		return ExprSeq{mapper(n), F}
	}
	return ExprSeq{v, F}
}

// List returns all the trees of a sequence as an instantiated slice.
func (seq ExprSeq) List() []*derive.RuleNode {
	var all []*derive.RuleNode
	for node, S := seq.First(); !S.Done(); node = S.Next() {
		if node != nil {
			all = append(all, node)
		}
	}
	return all
}
