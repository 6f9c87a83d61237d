/*
Package explore/main provides an interactive command line tool for
experimenting with the TreeGram engine. It loads a small demo expression
grammar and offers commands for generating, enumerating, sampling and
evaluating derivation trees. The explorer serves as a sandbox during the
early stages of developing a grammar for grammar-guided search; it is a
thin wrapper, not part of the core engine.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'treegram.explore'
func tracer() tracing.Trace {
	return tracing.Select("treegram.explore")
}
