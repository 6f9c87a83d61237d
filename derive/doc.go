/*
Package derive implements derivation trees over a grammar.

A derivation tree is a tree of rule applications: every node carries the
serial of a grammar rule, and owns exactly one child subtree per
non-terminal argument slot of that rule. Trees are acyclic by
construction and never share nodes.

Nodes inside a tree are addressed by lightweight locations (NodeLoc),
a parent reference plus a child index, which support O(1) retrieval and
in-place subtree replacement without re-traversal from the root. This is
the mutation primitive grammar-guided search loops (e.g. genetic
programming crossover) are built on, together with uniform reservoir
sampling of nodes and locations and depth-bounded random generation.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package derive

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'treegram.derive'.
func tracer() tracing.Trace {
	return tracing.Select("treegram.derive")
}
