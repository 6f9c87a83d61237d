package derive

// Step is one entry of a pre-order tree walk: the level of a node below
// the root (root = 0) and the serial of the rule applied at that node.
// External visualization tooling consumes these pairs.
type Step struct {
	Level  int
	Serial int
}

// PreOrder walks a tree in pre-order and returns the (level, serial)
// pairs of all nodes, in visiting order.
func PreOrder(tree *RuleNode) []Step {
	var steps []Step
	Walk(tree, func(level int, n *RuleNode) bool {
		steps = append(steps, Step{Level: level, Serial: n.Serial})
		return true
	})
	return steps
}

// Walk traverses a tree in pre-order, calling visit for every node with
// its level below the root. Returning false from visit prunes the node's
// children.
func Walk(tree *RuleNode, visit func(level int, n *RuleNode) bool) {
	walk(tree, 0, visit)
}

func walk(n *RuleNode, level int, visit func(int, *RuleNode) bool) {
	if n == nil {
		return
	}
	if !visit(level, n) {
		return
	}
	for _, ch := range n.Children {
		walk(ch, level+1, visit)
	}
}

// Listener is a type for walking a derivation tree with enter/exit
// events. Enter may return false to prune the node's children; Exit is
// called after the (possibly pruned) children have been visited.
type Listener interface {
	Enter(n *RuleNode, level int) bool
	Exit(n *RuleNode, level int)
}

// WalkWith traverses a tree top-down, driving a listener.
func WalkWith(tree *RuleNode, listener Listener) {
	walkWith(tree, 0, listener)
}

func walkWith(n *RuleNode, level int, listener Listener) {
	if n == nil {
		return
	}
	if listener.Enter(n, level) {
		for _, ch := range n.Children {
			walkWith(ch, level+1, listener)
		}
	}
	listener.Exit(n, level)
}
