package grammar

import (
	"math"
	"sync"

	"github.com/npillmayer/treegram"
)

// Infinity is the min-depth of a rule or non-terminal with no finite
// derivation. It is a normal, detectable analysis outcome, not an error;
// callers must test for it (see DepthAnalysis.Derivable) before using a
// non-terminal for bounded generation.
const Infinity = math.MaxInt32

// DepthAnalysis holds the min-depth map of a grammar: for every rule the
// minimum depth, in edges below the rule's node, of any finite derivation
// tree rooted at that rule. Terminal and eval-thunk rules have min-depth
// 0; a call rule needs 1 plus the deepest of its cheapest child
// derivations.
type DepthAnalysis struct {
	g      *Grammar
	depths []int // per rule, indexed serial-1
}

var analysisCache = struct {
	sync.Mutex
	memo map[string]*DepthAnalysis
}{memo: make(map[string]*DepthAnalysis)}

// Analysis returns the min-depth analysis for a grammar. Analyses are
// memoized on the grammar's structural signature, since min-depth depends
// on rule structure only.
func Analysis(g *Grammar) *DepthAnalysis {
	sig := g.Signature()
	analysisCache.Lock()
	defer analysisCache.Unlock()
	if a, ok := analysisCache.memo[sig]; ok {
		return a
	}
	a := analyze(g)
	analysisCache.memo[sig] = a
	return a
}

// analyze computes the min-depth fixpoint by iterative relaxation
// (Bellman-Ford style). Rules may be mutually or self-recursive, so
// depths start at Infinity (except arity-0 rules at 0) and are relaxed
// until no value changes; for finite well-founded grammars this converges
// within Size() passes. Rules of a non-terminal with no terminating
// derivation keep Infinity.
func analyze(g *Grammar) *DepthAnalysis {
	a := &DepthAnalysis{g: g, depths: make([]int, g.Size())}
	for i := range a.depths {
		if g.Arity(i+1) == 0 {
			a.depths[i] = 0
		} else {
			a.depths[i] = Infinity
		}
	}
	for pass := 1; a.relax(); pass++ {
		tracer().Debugf("min-depth relaxation pass %d", pass)
	}
	for i, d := range a.depths {
		if d == Infinity {
			tracer().Infof("rule %d of grammar %q has no finite derivation", i+1, g.Name)
		}
	}
	return a
}

// relax performs one relaxation pass. Returns true if any depth changed.
func (a *DepthAnalysis) relax() bool {
	changed := false
	for i := range a.depths {
		rule := a.g.Rule(i + 1)
		if rule.Arity() == 0 {
			continue
		}
		// d = 1 + max over slots of (min over alternative rules per slot)
		deepest := 0
		for _, childType := range rule.ChildTypes() {
			m := a.minOverRules(childType)
			if m == Infinity {
				deepest = Infinity
				break
			}
			if m > deepest {
				deepest = m
			}
		}
		if deepest == Infinity {
			continue
		}
		if d := 1 + deepest; d < a.depths[i] {
			a.depths[i] = d
			changed = true
		}
	}
	return changed
}

func (a *DepthAnalysis) minOverRules(nt treegram.Symbol) int {
	min := Infinity
	for _, serial := range a.g.RulesFor(nt) {
		if d := a.depths[serial-1]; d < min {
			min = d
		}
	}
	return min
}

// Grammar returns the analyzed grammar.
func (a *DepthAnalysis) Grammar() *Grammar {
	return a.g
}

// MinDepth returns the min-depth of rule serial, or Infinity if the rule
// has no finite derivation (or the serial is out of range).
func (a *DepthAnalysis) MinDepth(serial int) int {
	if serial < 1 || serial > len(a.depths) {
		return Infinity
	}
	return a.depths[serial-1]
}

// MinDepthFor returns the min-depth of a non-terminal: the minimum over
// the min-depths of all rules with that LHS.
func (a *DepthAnalysis) MinDepthFor(nt treegram.Symbol) int {
	return a.minOverRules(nt)
}

// Derivable is a predicate: Does at least one finite derivation tree
// exist for the non-terminal?
func (a *DepthAnalysis) Derivable(nt treegram.Symbol) bool {
	return a.minOverRules(nt) < Infinity
}

// Feasible is a predicate: Can a tree rooted at rule serial fit within a
// depth budget of `levels` tree levels? A tree using rule serial has at
// least MinDepth(serial)+1 levels.
func (a *DepthAnalysis) Feasible(serial int, levels int) bool {
	d := a.MinDepth(serial)
	return d < Infinity && d <= levels-1
}
