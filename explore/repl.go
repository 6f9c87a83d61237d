package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/treegram"
	"github.com/npillmayer/treegram/derive"
	"github.com/npillmayer/treegram/derive/fp"
	"github.com/npillmayer/treegram/grammar"
	"github.com/npillmayer/treegram/runtime"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

// We provide a simple expression grammar as a default for generation and
// evaluation experiments.
//
//  Real ➞ Real + Real  |  Real * Real  |  Real - Real
//  Real ➞ x
//  Real ➞ 1 | 2 | 3
//
func makeDemoGrammar() *grammar.Grammar {
	b := grammar.NewGrammarBuilder("Demo")
	b.LHS("Real").Call("+").N("Real").N("Real").End()
	b.LHS("Real").Call("*").N("Real").N("Real").End()
	b.LHS("Real").Call("-").N("Real").N("Real").End()
	b.LHS("Real").Sym("x")
	b.LHS("Real").Lit(1.0)
	b.LHS("Real").Lit(2.0)
	b.LHS("Real").Lit(3.0)
	g, err := b.Grammar()
	if err != nil {
		panic(fmt.Errorf("error creating demo grammar: %s", err.Error()))
	}
	return g
}

// main() starts an interactive CLI, where users may generate, enumerate,
// sample and evaluate derivation trees of the demo grammar. Enter 'help'
// for a list of commands.
func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelInfo)
	pterm.Info.Println("Welcome to the TreeGram explorer")
	tracer().Infof("Trace level is %s", *tlevel)
	//
	// set up grammar, analysis and interpreter
	g := makeDemoGrammar()
	tracer().SetTraceLevel(traceLevel(*tlevel)) // now set the user supplied level
	g.Dump()                                    // only visible in debug mode
	//
	repl, err := readline.New("treegram> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	expl := &Explorer{
		g:    g,
		a:    grammar.Analysis(g),
		intp: runtime.NewInterpreter(g, runtime.Builtins()),
		repl: repl,
	}
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	expl.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func traceLevel(l string) tracing.TraceLevel {
	switch strings.ToLower(l) {
	case "debug":
		return tracing.LevelDebug
	case "error":
		return tracing.LevelError
	}
	return tracing.LevelInfo
}

// Explorer is our interactive session object.
type Explorer struct {
	g    *grammar.Grammar
	a    *grammar.DepthAnalysis
	intp *runtime.Interpreter
	repl *readline.Instance
	tree *derive.RuleNode // most recent tree
}

// REPL starts interactive mode.
func (expl *Explorer) REPL() {
	for {
		line, err := expl.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		args := strings.Fields(line)
		quit := expl.Execute(args[0], args[1:])
		if quit {
			break
		}
	}
	println("Good bye!")
}

// Execute runs a single explorer command. Returns true to quit.
func (expl *Explorer) Execute(cmd string, args []string) bool {
	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		expl.help()
	case "rules":
		expl.g.EachRule(func(r *grammar.Rule) {
			pterm.Info.Println(r.String())
		})
	case "mindepth":
		expl.g.EachRule(func(r *grammar.Rule) {
			d := expl.a.MinDepth(r.Serial)
			if d == grammar.Infinity {
				pterm.Info.Printf("rule %d: no finite derivation\n", r.Serial)
				return
			}
			pterm.Info.Printf("rule %d: min-depth %d\n", r.Serial, d)
		})
	case "gen":
		expl.generate(args)
	case "enum":
		expl.enumerate(args)
	case "count":
		expl.count(args)
	case "sample":
		expl.sample()
	case "eval":
		expl.eval(args)
	case "print":
		if expl.tree == nil {
			pterm.Error.Println("no current tree; use gen or enum first")
			break
		}
		for _, step := range derive.PreOrder(expl.tree) {
			pterm.Info.Println(strings.Repeat("  ", step.Level) +
				expl.g.Rule(step.Serial).String())
		}
	case "trace":
		if len(args) > 0 {
			tracer().SetTraceLevel(traceLevel(args[0]))
		}
	default:
		pterm.Error.Printf("unknown command '%s', try help\n", cmd)
	}
	return false
}

func (expl *Explorer) help() {
	pterm.Info.Println("rules                 list grammar rules")
	pterm.Info.Println("mindepth              show per-rule min-depths")
	pterm.Info.Println("gen <depth>           generate a random tree")
	pterm.Info.Println("enum <depth> [limit]  enumerate trees (default limit 20)")
	pterm.Info.Println("count <depth>         count trees without materializing them")
	pterm.Info.Println("sample                sample a node of the current tree")
	pterm.Info.Println("eval [x=<value>]      evaluate the current tree")
	pterm.Info.Println("print                 pre-order walk of the current tree")
	pterm.Info.Println("trace <level>         set trace level [Debug|Info|Error]")
	pterm.Info.Println("quit                  exit")
}

func (expl *Explorer) generate(args []string) {
	depth := argInt(args, 0, 5)
	tree, err := derive.Generate(expl.g, "Real", depth, nil)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	expl.tree = tree
	pterm.Info.Printf("%s   (depth %d, %d nodes)\n", tree.Sexpr(expl.g),
		derive.Depth(tree), derive.Size(tree))
}

func (expl *Explorer) enumerate(args []string) {
	depth := argInt(args, 0, 2)
	limit := argInt(args, 1, 20)
	n := 0
	for tree, S := fp.Enumerate(expl.g, "Real", depth).First(); !S.Done(); tree = S.Next() {
		n++
		if n > limit {
			pterm.Info.Printf("… stopping after %d trees\n", limit)
			S.Break()
			break
		}
		expl.tree = tree
		pterm.Info.Printf("%3d: %s\n", n, tree.Sexpr(expl.g))
	}
}

func (expl *Explorer) count(args []string) {
	depth := argInt(args, 0, 2)
	pterm.Info.Printf("%d expressions with at most %d levels\n",
		fp.Count(expl.g, "Real", depth), depth)
}

func (expl *Explorer) sample() {
	if expl.tree == nil {
		pterm.Error.Println("no current tree; use gen or enum first")
		return
	}
	node := derive.SampleNode(expl.tree, nil)
	pterm.Info.Printf("sampled %s\n", node.Sexpr(expl.g))
}

func (expl *Explorer) eval(args []string) {
	if expl.tree == nil {
		pterm.Error.Println("no current tree; use gen or enum first")
		return
	}
	frame := expl.intp.PushFrame("eval")
	defer expl.intp.PopFrame()
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			pterm.Error.Printf("binding '%s' is not of the form name=value\n", arg)
			return
		}
		value, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			pterm.Error.Printf("binding '%s': %v\n", arg, err)
			return
		}
		frame.Bind(treegram.Symbol(parts[0]), value)
	}
	result, err := expl.intp.Eval(expl.tree)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	pterm.Info.Printf("%s = %v\n", expl.tree.Sexpr(expl.g), result)
}

func argInt(args []string, i int, fallback int) int {
	if i >= len(args) {
		return fallback
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return fallback
	}
	return n
}
