/*
Package treegram is a grammar-driven expression-tree engine.

TreeGram builds, mutates, samples, enumerates and evaluates derivation
trees over a context-free grammar whose production rules carry executable
expressions. It is intended as the core engine for grammar-guided search
applications, e.g. genetic programming or symbolic regression, which need
to generate and score candidate expressions repeatedly. Package structure
is as follows:

■ grammar: Package grammar implements the immutable grammar model (rules,
non-terminals, arities), a fluent grammar builder, and the min-depth
fixpoint analysis over recursive grammars.

■ derive: Package derive implements derivation trees (RuleNode), location
addressing for in-place subtree replacement, reservoir sampling of nodes
and locations, and depth-bounded random tree generation.

■ derive/fp: Package fp provides lazy, restartable sequences over the
expression space of a grammar: a deterministic depth-bounded enumerator
and a memoized counting routine.

■ runtime: Package runtime provides symbol tables, scopes and binding
frames for an interpreter, plus the tree-walking evaluator and the
generic-expression reference evaluator.

The base package contains data types which are used throughout all the
other packages.

TreeGram deliberately contains no parser: grammars enter as structured
rule lists (or through the builder API), and trees are generated from the
grammar, never recognized against input text.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package treegram
