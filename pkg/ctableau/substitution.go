package ctableau

// Substitution is a trail-based union-find over Variables with O(1)
// checkpoint/restore: every mutation is recorded as a trail entry, and
// Backtrack pops the most recent frame to undo it in place. That trailing
// discipline is what the tableau's backtracking relies on to stay cheap at
// the depths a connection-tableau search reaches.
type Substitution struct {
	parent   map[VarKey]*Term
	varTerms map[VarKey]*Term
	trail    []trailFrame
}

// trailEntry records one union-find mutation: either a fresh binding for a
// previously-unbound variable (IsInsert, undone by deleting the key) or a
// path-compression rewrite of an existing binding (undone by restoring Old).
type trailEntry struct {
	Var      *Term
	Old      *Term
	New      *Term
	IsInsert bool
}

type trailFrame []trailEntry

// NewSubstitution returns an empty substitution.
func NewSubstitution() *Substitution {
	return &Substitution{parent: make(map[VarKey]*Term), varTerms: make(map[VarKey]*Term)}
}

// VarTerm returns the original Variable term first seen for key (in
// particular, its Prefix) regardless of what it is currently bound to.
// Used by the non-classical admissibility check, which needs a bound
// variable's own world prefix, not the term it was unified with.
func (s *Substitution) VarTerm(key VarKey) *Term {
	return s.varTerms[key]
}

func (s *Substitution) noteVarTerm(t *Term) {
	key := t.Key()
	if _, ok := s.varTerms[key]; !ok {
		s.varTerms[key] = t
	}
}

func (s *Substitution) currentFrame() *trailFrame {
	if len(s.trail) == 0 {
		s.trail = append(s.trail, trailFrame{})
	}
	return &s.trail[len(s.trail)-1]
}

// Find returns the representative of t's equivalence class. If t is not a
// Variable it is returned unchanged. When add is true, an unbound variable
// is installed as its own representative (recording an insert trail entry);
// when false, an unbound variable is returned unchanged without mutation,
// as read-only queries such as Equal and occursCheck require.
func (s *Substitution) Find(t *Term, add bool) *Term {
	if t.Kind != KindVariable {
		return t
	}
	key := t.Key()
	s.noteVarTerm(t)
	val, ok := s.parent[key]
	if !ok {
		if !add {
			return t
		}
		s.parent[key] = t
		frame := s.currentFrame()
		*frame = append(*frame, trailEntry{Var: t, IsInsert: true})
		return t
	}
	if val.Kind == KindVariable && val.Key() == key {
		return val
	}
	rep := s.Find(val, add)
	if rep != val {
		frame := s.currentFrame()
		*frame = append(*frame, trailEntry{Var: t, Old: val, New: rep})
		s.parent[key] = rep
	}
	return rep
}

// occursCheck reports whether Variable v occurs (through the current
// bindings) inside term.
func (s *Substitution) occursCheck(v, term *Term) bool {
	root := s.Find(term, false)
	if root.Kind == KindVariable {
		return root.Key() == v.Key()
	}
	for _, a := range root.Args {
		if s.occursCheck(v, a) {
			return true
		}
	}
	return false
}

// Union opens a new trail frame and attempts to unify a and b in place,
// worklist style. It returns false on a symbol/arity clash or an
// occurs-check failure; the frame is left on the trail either way (callers
// that want automatic rollback should use CanUnify, or call Backtrack
// themselves to undo a failed Union).
func (s *Substitution) Union(a, b *Term) bool {
	s.trail = append(s.trail, trailFrame{})
	type pair struct{ a, b *Term }
	worklist := []pair{{a, b}}
	for len(worklist) > 0 {
		p := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		x := s.Find(p.a, true)
		y := s.Find(p.b, true)
		if sameTerm(x, y) {
			continue
		}
		switch {
		case x.Kind == KindVariable:
			if s.occursCheck(x, y) {
				return false
			}
			s.bindVar(x, y)
		case y.Kind == KindVariable:
			if s.occursCheck(y, x) {
				return false
			}
			s.bindVar(y, x)
		default:
			if x.Symbol != y.Symbol || len(x.Args) != len(y.Args) {
				return false
			}
			for i := range x.Args {
				worklist = append(worklist, pair{x.Args[i], y.Args[i]})
			}
		}
	}
	return true
}

// bindVar records v -> term as a trail entry and installs it.
func (s *Substitution) bindVar(v, term *Term) {
	s.noteVarTerm(v)
	key := v.Key()
	old := s.parent[key]
	frame := s.currentFrame()
	if old == nil {
		*frame = append(*frame, trailEntry{Var: v, IsInsert: true})
	} else {
		*frame = append(*frame, trailEntry{Var: v, Old: old, New: term})
	}
	s.parent[key] = term
}

// Backtrack pops and undoes the most recent trail frame. It is a no-op on
// an empty trail.
func (s *Substitution) Backtrack() {
	if len(s.trail) == 0 {
		return
	}
	frame := s.trail[len(s.trail)-1]
	s.trail = s.trail[:len(s.trail)-1]
	for i := len(frame) - 1; i >= 0; i-- {
		e := frame[i]
		key := e.Var.Key()
		if e.IsInsert {
			delete(s.parent, key)
		} else {
			s.parent[key] = e.Old
		}
	}
}

// Mark returns the current trail depth, to be passed to RewindTo later.
func (s *Substitution) Mark() int {
	return len(s.trail)
}

// RewindTo backtracks frames until the trail depth matches mark.
func (s *Substitution) RewindTo(mark int) {
	for len(s.trail) > mark {
		s.Backtrack()
	}
}

// Update replays a previously-captured frame forward: it pushes the frame
// onto the trail and re-applies each of its entries in order, exactly as
// Union would have left them. This is how a speculative CanUnify result
// (captured as a frame) is later committed as a real tableau action.
func (s *Substitution) Update(frame trailFrame) {
	s.trail = append(s.trail, frame)
	for _, e := range frame {
		key := e.Var.Key()
		if e.IsInsert {
			s.parent[key] = e.Var
		} else {
			s.parent[key] = e.New
		}
	}
}

// CanUnify attempts to unify a and b, then always rewinds: the substitution
// is left exactly as it was found. It returns whether unification would
// have succeeded and, on success, the trail frame that Update can replay
// later to actually commit the binding.
func (s *Substitution) CanUnify(a, b *Term) (bool, trailFrame) {
	ok := s.Union(a, b)
	frame := s.trail[len(s.trail)-1]
	s.Backtrack()
	if !ok {
		return false, nil
	}
	return true, frame
}

// Equal reports structural equality of a and b modulo the current
// substitution: each side is walked to its representative before
// comparison, recursively. The walk never inserts an unbound variable, but
// following a binding chain may record a path-compression entry on the
// trail, as Find does.
func (s *Substitution) Equal(a, b *Term) bool {
	ra := s.Find(a, false)
	rb := s.Find(b, false)
	if ra.Kind == KindVariable || rb.Kind == KindVariable {
		return ra.Kind == KindVariable && rb.Kind == KindVariable && ra.Key() == rb.Key()
	}
	if ra.Symbol != rb.Symbol || len(ra.Args) != len(rb.Args) {
		return false
	}
	for i := range ra.Args {
		if !s.Equal(ra.Args[i], rb.Args[i]) {
			return false
		}
	}
	return true
}

// Apply fully resolves t against the current bindings, recursively
// replacing every bound variable by its representative. An unbound
// variable is returned unchanged (by identity of (Symbol, CopyNum), not
// necessarily the same pointer).
func (s *Substitution) Apply(t *Term) *Term {
	if t.Kind == KindVariable {
		root := s.Find(t, false)
		if root.Kind == KindVariable {
			return root
		}
		return s.Apply(root)
	}
	if len(t.Args) == 0 {
		return t
	}
	newArgs := make([]*Term, len(t.Args))
	for i, a := range t.Args {
		newArgs[i] = s.Apply(a)
	}
	return &Term{Kind: t.Kind, Symbol: t.Symbol, Args: newArgs, Prefix: t.Prefix, CopyNum: t.CopyNum}
}

// ToDict returns a snapshot of every bound (non-self-referential) variable
// mapping, resolved to its representative. Used by the non-classical
// admissibility check to scan for eigenvariables bound in the current
// substitution.
func (s *Substitution) ToDict() map[VarKey]*Term {
	out := make(map[VarKey]*Term, len(s.parent))
	for k, v := range s.parent {
		if v.Kind == KindVariable && v.Key() == k {
			continue
		}
		out[k] = s.Apply(v)
	}
	return out
}

// Snapshot produces a detached, trail-free Substitution whose parent map is
// a shallow copy of the current one. Used to hand a caller a persisted
// result (e.g. a prefix unifier) without exposing the live trail it was
// computed against.
func (s *Substitution) Snapshot() *Substitution {
	out := &Substitution{
		parent:   make(map[VarKey]*Term, len(s.parent)),
		varTerms: make(map[VarKey]*Term, len(s.varTerms)),
	}
	for k, v := range s.parent {
		out.parent[k] = v
	}
	for k, v := range s.varTerms {
		out.varTerms[k] = v
	}
	return out
}
