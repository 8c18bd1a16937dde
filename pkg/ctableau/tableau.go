package ctableau

// Tableau is a node of the connection tableau's proof tree. The root node
// has a nil Literal (a sentinel above the start clause); every other node
// carries the Literal it was opened with. The engine works goal-first: the
// current open leaf is found by FindNext and retreated from by FindPrev,
// and NumAttempted/Actions record the choices tried at each node.
type Tableau struct {
	Literal      *Literal
	Parent       *Tableau
	Children     []*Tableau
	Depth        int
	Proven       bool
	NumAttempted int
	Actions      map[string]Action
}

// NewRootTableau returns the sentinel root of a fresh proof tree.
func NewRootTableau() *Tableau {
	return &Tableau{Depth: -1, Actions: make(map[string]Action)}
}

// NewChild attaches and returns a new child of t carrying lit.
func (t *Tableau) NewChild(lit *Literal) *Tableau {
	child := &Tableau{
		Literal: lit,
		Parent:  t,
		Depth:   t.Depth + 1,
		Actions: make(map[string]Action),
	}
	t.Children = append(t.Children, child)
	return child
}

// Path returns the literals on the branch strictly above t: its parent's
// literal, its parent's parent's literal, and so on up to (but excluding)
// the sentinel root. This is the set of ancestor literals a reduction or
// regularity check compares the current goal against.
func (t *Tableau) Path() []*Literal {
	var lits []*Literal
	for n := t.Parent; n != nil && n.Literal != nil; n = n.Parent {
		lits = append(lits, n.Literal)
	}
	return lits
}

// descendUnproven performs a depth-first, left-to-right, non-recursive
// search of n's subtree for the first unproven node, marking every fully
// proven internal node it passes through along the way. Implemented with
// an explicit stack rather than call-stack recursion: hard problems build
// tableaux far deeper than the Go stack should be asked to carry.
func descendUnproven(n *Tableau) *Tableau {
	type frame struct {
		node     *Tableau
		childIdx int
	}
	stack := []*frame{{node: n}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		node := top.node
		if len(node.Children) == 0 {
			stack = stack[:len(stack)-1]
			if node.Proven {
				continue
			}
			return node
		}
		if top.childIdx < len(node.Children) {
			child := node.Children[top.childIdx]
			top.childIdx++
			stack = append(stack, &frame{node: child})
			continue
		}
		node.Proven = true
		stack = stack[:len(stack)-1]
	}
	return nil
}

// FindNext performs the depth-first, left-to-right search for the next
// unproven node reachable from t: first within t's own subtree (a
// descendant), failing that among t's later siblings, failing that among
// successive ancestors' later siblings. Every fully-closed subtree passed
// over is marked Proven on the way. Returns nil when the whole tableau is
// closed (a theorem has been found).
func (t *Tableau) FindNext() *Tableau {
	cur := t
	for {
		if d := descendUnproven(cur); d != nil {
			return d
		}
		parent := cur.Parent
		if parent == nil {
			return nil
		}
		idx := -1
		for i, c := range parent.Children {
			if c == cur {
				idx = i
				break
			}
		}
		for i := idx + 1; i < len(parent.Children); i++ {
			if d := descendUnproven(parent.Children[i]); d != nil {
				return d
			}
		}
		parent.Proven = true
		cur = parent
	}
}

// deepestRightmost descends to the last child repeatedly, returning the
// rightmost leaf of n's subtree.
func deepestRightmost(n *Tableau) *Tableau {
	for len(n.Children) > 0 {
		n = n.Children[len(n.Children)-1]
	}
	return n
}

// FindPrev is the dual traversal used by backtracking to locate the
// previous choice point. Every non-root tableau node with children was
// created by either Start (at the root, whose Literal is nil, so no child is
// a pre-closed stub) or Extension (whose first child is the already-closed
// connected literal, not itself a choice point). FindPrev therefore treats
// the "real" sequence of siblings as parent.Children when parent is the
// root, or parent.Children[1:] otherwise: when t is the first of those real
// siblings, the previous choice point is the parent itself; otherwise it is
// the deepest, rightmost descendant of the real sibling immediately before
// t.
func (t *Tableau) FindPrev() *Tableau {
	parent := t.Parent
	if parent == nil {
		return nil
	}
	var siblings []*Tableau
	if parent.Literal == nil {
		siblings = parent.Children
	} else if len(parent.Children) > 0 {
		siblings = parent.Children[1:]
	}
	idx := -1
	for i, c := range siblings {
		if c == t {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return parent
	}
	return deepestRightmost(siblings[idx-1])
}
