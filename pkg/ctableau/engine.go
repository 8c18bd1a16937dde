package ctableau

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// proofStep pairs a committed Action with the tableau node it was applied
// against, so Engine's own backtracking discipline can undo exactly the
// children/bindings that action introduced without needing to re-derive
// them from Tableau.FindPrev.
type proofStep struct {
	Action Action
	Owner  *Tableau
}

// Info carries the outcome of a terminal Step call.
type Info struct {
	Theorem     bool
	Depth       int
	ProofLength int
}

// EngineState is the externally visible snapshot an Environment hands back
// from Reset/Step: the current goal node, the active iterative-deepening
// depth bound, and how many actions have been committed so far.
type EngineState struct {
	Goal       *Tableau
	DepthBound int
	NumActions int
}

// Engine is the classical connection-tableau search loop, optionally
// layered with a PrefixLogic for the non-classical logics.
type Engine struct {
	Matrix        *Matrix
	Settings      Settings
	Substitution  *Substitution
	Root          *Tableau
	Goal          *Tableau
	DepthBound    int
	ProofSequence []proofStep
	Logger        hclog.Logger
	Prefix        PrefixLogic
	PrefixUnifier *Substitution

	// Exhausted marks that the whole search space (up to the current
	// depth bound, if iterative deepening is off) has been explored
	// without closing the tableau: a BacktrackAction with nothing left
	// to undo. Distinct from Goal == nil, which instead means the
	// classical tableau just closed (a theorem candidate).
	Exhausted bool

	idCounter int
}

// NewEngine builds an Engine over matrix with the given settings. The
// Prefix layer is nil for LogicClassical; for the other logics NewEngine
// sets it to match Settings.Logic.
func NewEngine(matrix *Matrix, settings Settings, logger hclog.Logger) *Engine {
	e := &Engine{
		Matrix:   matrix,
		Settings: settings,
		Logger:   logger,
	}
	e.Prefix = newPrefixLogic(settings.Logic)
	e.Reset()
	return e
}

func newPrefixLogic(l Logic) PrefixLogic {
	switch l {
	case LogicIntuitionistic:
		return NewIntuitionisticLogic()
	case LogicD:
		return NewDLogic()
	case LogicT:
		return NewTLogic()
	case LogicS4:
		return NewS4Logic()
	case LogicS5:
		return NewS5Logic()
	default:
		return nil
	}
}

// Reset reinitializes the engine for a fresh proof-search run: a new
// substitution, a new (empty) root, the matrix's clause-copy counter
// zeroed, and the iterative-deepening bound set to its configured initial
// depth.
func (e *Engine) Reset() *EngineState {
	e.Matrix.Reset()
	e.Substitution = NewSubstitution()
	e.Root = NewRootTableau()
	e.Goal = e.Root
	e.ProofSequence = nil
	e.PrefixUnifier = nil
	e.Exhausted = false
	e.idCounter = 0
	if e.Settings.IterativeDeepening {
		e.DepthBound = e.Settings.IterativeDeepeningInitialDepth
	} else {
		e.DepthBound = -1 // unbounded
	}
	return e.state()
}

func (e *Engine) state() *EngineState {
	return &EngineState{Goal: e.Goal, DepthBound: e.DepthBound, NumActions: len(e.ProofSequence)}
}

func (e *Engine) nextID(prefix string) string {
	e.idCounter++
	return fmt.Sprintf("%s-%d", prefix, e.idCounter)
}

// depthAllows reports whether a child at childDepth may be opened given the
// current iterative-deepening bound.
func (e *Engine) depthAllows(childDepth int) bool {
	if !e.Settings.IterativeDeepening {
		return true
	}
	return childDepth <= e.DepthBound
}

// starts returns one StartAction per admissible start clause (all clauses,
// or just the positive ones when Settings.PositiveStartClauses is set).
// When no candidate exists it returns a lone empty StartAction instead:
// applying it immediately ends the run as a non-theorem, so callers keep a
// uniform action/step protocol rather than special-casing an empty action
// space.
func (e *Engine) starts() []Action {
	var idxs []int
	if e.Settings.PositiveStartClauses {
		idxs = e.Matrix.PositiveClauses()
	} else {
		for i := range e.Matrix.Clauses {
			idxs = append(idxs, i)
		}
	}
	actions := make([]Action, 0, len(idxs))
	for _, idx := range idxs {
		if !e.depthAllows(0) {
			continue
		}
		actions = append(actions, &StartAction{
			Id:         e.nextID("start"),
			ClauseIdx:  idx,
			ClauseCopy: e.Matrix.Copy(idx),
		})
	}
	if len(actions) == 0 {
		actions = append(actions, &StartAction{Id: e.nextID("start"), ClauseIdx: -1})
	}
	return actions
}

// regularizable reports whether lit may legally be opened as a new goal
// below path: it must not be equal, modulo the current substitution, to a
// literal of the same polarity already on the branch (which would make the
// branch trivially non-terminating). Under a prefix layer a path literal
// only counts as a repeat when the two world prefixes are also equal; the
// same literal sitting in a different world is not a repeat, and pruning
// it would discard real proofs.
func (e *Engine) regularizable(lit *Literal, path []*Literal) bool {
	for _, p := range path {
		if p.Neg != lit.Neg || p.Symbol != lit.Symbol || len(p.Args) != len(lit.Args) {
			continue
		}
		if !e.Substitution.Equal(lit.AsTerm(), p.AsTerm()) {
			continue
		}
		if e.Prefix != nil && !e.Substitution.Equal(defaultPrefix(lit.Prefix), defaultPrefix(p.Prefix)) {
			continue
		}
		return false
	}
	return true
}

// prefixCompatible runs the configured PrefixLogic's speculative check for
// connecting goalLit to partnerLit, given that classicalFrame (captured by
// a prior CanUnify) has been tentatively applied. It is a no-op returning
// true when Prefix is nil (classical logic).
func (e *Engine) prefixCompatible(goalLit, partnerLit *Literal, classicalFrame trailFrame) bool {
	if e.Prefix == nil {
		return true
	}
	mark := e.Substitution.Mark()
	e.Substitution.Update(classicalFrame)
	pre1, pre2 := e.Prefix.PrepareEquation(goalLit, partnerLit)
	ok := e.Prefix.PrefixUnify(pre1, pre2, e.Substitution)
	e.Substitution.RewindTo(mark)
	return ok
}

// reductions returns every legal ReductionAction connecting goal to a
// complementary literal already on its path.
func (e *Engine) reductions(goal *Tableau) []Action {
	var actions []Action
	lit := goal.Literal
	for _, p := range goal.Path() {
		if p.Neg == lit.Neg || p.Symbol != lit.Symbol || len(p.Args) != len(lit.Args) {
			continue
		}
		ok, frame := e.Substitution.CanUnify(lit.AsTerm(), p.AsTerm())
		if !ok {
			continue
		}
		if !e.prefixCompatible(lit, p, frame) {
			continue
		}
		actions = append(actions, &ReductionAction{
			Id:         e.nextID("reduction"),
			PathLit:    p,
			SubUpdates: frame,
		})
	}
	return actions
}

// extensions returns every legal ExtensionAction connecting goal to a
// complementary literal in a fresh copy of some clause of the matrix.
func (e *Engine) extensions(goal *Tableau) []Action {
	var actions []Action
	lit := goal.Literal
	if !e.depthAllows(goal.Depth + 1) {
		return actions
	}
	path := append(append([]*Literal{}, goal.Path()...), lit)
	for _, pos := range e.Matrix.Complements(lit) {
		clauseCopy := e.Matrix.Copy(pos.ClauseIdx)
		connected := clauseCopy[pos.LitIdx]
		ok, frame := e.Substitution.CanUnify(lit.AsTerm(), connected.AsTerm())
		if !ok {
			continue
		}
		if !e.prefixCompatible(lit, connected, frame) {
			continue
		}
		regularOK := true
		for i, l := range clauseCopy {
			if i == pos.LitIdx {
				continue
			}
			if !e.regularizable(l, path) {
				regularOK = false
				break
			}
		}
		if !regularOK {
			continue
		}
		actions = append(actions, &ExtensionAction{
			Id:         e.nextID("extension"),
			ClauseIdx:  pos.ClauseIdx,
			LitIdx:     pos.LitIdx,
			ClauseCopy: clauseCopy,
			SubUpdates: frame,
		})
	}
	return actions
}

// ActionSpace returns the legal actions at the current goal, and records
// them in the goal's Actions map so a chosen action can be struck off by
// Step before it is applied. At the root the legal actions are the start
// clauses followed by a Backtrack. Elsewhere, once a goal has been attempted
// Settings.BacktrackAfter times under restricted backtracking, the only
// legal move becomes Backtrack; otherwise reductions and extensions are
// offered, plus Backtrack whenever some action has already been committed
// (so the caller always has a way to retreat from a dead end).
func (e *Engine) ActionSpace() []Action {
	if e.Goal == nil {
		return nil
	}
	actions := e.legalActions(e.Goal)
	e.Goal.Actions = make(map[string]Action, len(actions))
	for _, a := range actions {
		e.Goal.Actions[a.ID()] = a
	}
	return actions
}

func (e *Engine) legalActions(goal *Tableau) []Action {
	if goal == e.Root {
		actions := e.starts()
		// Once every distinct start candidate has been committed and
		// undone in turn, the only move left is to give up the whole
		// run (or, under iterative deepening, let backtrackOnce bump
		// the depth bound). Appending it after the start candidates,
		// the same way reductions/extensions trail Backtrack below,
		// lets a caller that walks ActionSpace by ordinal index (see
		// Environment.Drive) reach it naturally once the candidates
		// are exhausted, instead of looping on the last candidate.
		actions = append(actions, &BacktrackAction{Id: "backtrack"})
		return actions
	}
	if e.Settings.RestrictedBacktracking && goal.NumAttempted >= e.Settings.BacktrackAfter {
		return []Action{&BacktrackAction{Id: "backtrack"}}
	}
	actions := append(e.reductions(goal), e.extensions(goal)...)
	if len(e.ProofSequence) > 0 {
		actions = append(actions, &BacktrackAction{Id: "backtrack"})
	}
	return actions
}

// Step applies action to the current goal and returns the resulting state,
// a reward (1 on proving the theorem, 0 otherwise), whether the run has
// reached a terminal state, and diagnostic Info. The action's id is struck
// off the goal's Actions map before application, so a later retry at the
// same goal cannot pick the same branch again.
func (e *Engine) Step(action Action) (*EngineState, int, bool, Info) {
	if e.Goal != nil {
		delete(e.Goal.Actions, action.ID())
	}
	switch a := action.(type) {
	case *StartAction:
		if len(a.ClauseCopy) == 0 {
			// The sentinel start emitted when no candidate start clause
			// exists; the problem cannot be a theorem.
			e.Exhausted = true
			e.logDebug("empty start, no candidate start clauses")
			return e.resolveClosure()
		}
		owner := e.Root
		for _, lit := range a.ClauseCopy {
			owner.NewChild(lit)
		}
		owner.NumAttempted++
		e.ProofSequence = append(e.ProofSequence, proofStep{Action: a, Owner: owner})
		e.logTrace("start", "clause", a.ClauseIdx)
		e.Goal = owner.FindNext()

	case *ExtensionAction:
		owner := e.Goal
		e.Substitution.Update(a.SubUpdates)
		connected := owner.NewChild(a.ClauseCopy[a.LitIdx])
		connected.Proven = true
		for i, lit := range a.ClauseCopy {
			if i == a.LitIdx {
				continue
			}
			owner.NewChild(lit)
		}
		owner.NumAttempted++
		e.ProofSequence = append(e.ProofSequence, proofStep{Action: a, Owner: owner})
		e.logTrace("extension", "clause", a.ClauseIdx, "lit", a.LitIdx)
		e.Goal = owner.FindNext()

	case *ReductionAction:
		owner := e.Goal
		e.Substitution.Update(a.SubUpdates)
		owner.Proven = true
		owner.NumAttempted++
		e.ProofSequence = append(e.ProofSequence, proofStep{Action: a, Owner: owner})
		e.logTrace("reduction")
		e.Goal = owner.FindNext()

	case *BacktrackAction:
		e.backtrackOnce()
	}

	return e.resolveClosure()
}

// resolveClosure checks whether the classical tableau has closed
// (Goal == nil); for classical logic that is an immediate theorem. For a
// non-classical logic, closure additionally requires the joint prefix
// admissibility check to succeed; on failure it transparently backtracks
// (or, out of history, increases the iterative-deepening bound) and
// continues, so the caller never has to special-case a "prefix rejected"
// outcome as distinct from an ordinary next Step call.
func (e *Engine) resolveClosure() (*EngineState, int, bool, Info) {
	for e.Goal == nil {
		if e.Prefix == nil {
			return e.state(), 1, true, Info{Theorem: true, Depth: e.DepthBound, ProofLength: len(e.ProofSequence)}
		}
		equations := append(e.Prefix.AdmissiblePairs(e), e.proofPairs()...)
		result, ok := PrefixUnifyList(equations, e.Substitution)
		if ok {
			e.PrefixUnifier = result
			return e.state(), 1, true, Info{Theorem: true, Depth: e.DepthBound, ProofLength: len(e.ProofSequence)}
		}
		e.logDebug("prefix check failed at closure, backtracking")
		if len(e.ProofSequence) == 0 {
			if e.Settings.IterativeDeepening {
				e.increaseDepthAndReset()
				return e.state(), 0, false, Info{Depth: e.DepthBound}
			}
			e.Exhausted = true
			return e.state(), 0, true, Info{Theorem: false}
		}
		e.backtrackOnce()
	}
	if e.Exhausted {
		return e.state(), 0, true, Info{Theorem: false, Depth: e.DepthBound, ProofLength: len(e.ProofSequence)}
	}
	return e.state(), 0, false, Info{Depth: e.DepthBound}
}

// proofPairs rebuilds one prefix equation per Extension/Reduction in the
// committed proof sequence, re-verifying that every connection made during
// the search is jointly prefix-consistent. This is the authoritative check run
// once at closure, as opposed to the per-candidate speculative filter run
// during search.
func (e *Engine) proofPairs() []prefixEquation {
	if e.Prefix == nil {
		return nil
	}
	var pairs []prefixEquation
	for _, step := range e.ProofSequence {
		switch a := step.Action.(type) {
		case *ExtensionAction:
			p1, p2 := e.Prefix.PrepareEquation(step.Owner.Literal, a.ClauseCopy[a.LitIdx])
			pairs = append(pairs, prefixEquation{p1, p2})
		case *ReductionAction:
			p1, p2 := e.Prefix.PrepareEquation(step.Owner.Literal, a.PathLit)
			pairs = append(pairs, prefixEquation{p1, p2})
		}
	}
	return pairs
}

// backtrackOnce undoes the most recently committed action, restoring its
// owner node to an open goal (removing whatever children Start/Extension
// created, or un-proving whatever Reduction closed), and rewinding the
// substitution by the matching frame. If there is nothing left to
// backtrack, and iterative deepening is enabled, it starts a fresh run one
// depth deeper instead.
func (e *Engine) backtrackOnce() {
	if len(e.ProofSequence) == 0 {
		if e.Settings.IterativeDeepening {
			e.increaseDepthAndReset()
		} else {
			e.Exhausted = true
		}
		return
	}
	last := e.ProofSequence[len(e.ProofSequence)-1]
	e.ProofSequence = e.ProofSequence[:len(e.ProofSequence)-1]
	switch last.Action.(type) {
	case *StartAction:
		last.Owner.Children = nil
	case *ExtensionAction:
		last.Owner.Children = nil
		e.Substitution.Backtrack()
	case *ReductionAction:
		e.Substitution.Backtrack()
	}
	last.Owner.Proven = false
	e.logDebug("backtrack", "depth", last.Owner.Depth)
	e.Goal = last.Owner
}

// increaseDepthAndReset raises the iterative-deepening bound by one and
// restarts the whole search from an empty tableau, fresh substitution and
// a rezeroed clause-copy counter.
func (e *Engine) increaseDepthAndReset() {
	e.DepthBound++
	e.Matrix.Reset()
	e.Substitution = NewSubstitution()
	e.Root = NewRootTableau()
	e.Goal = e.Root
	e.ProofSequence = nil
	e.Prefix = newPrefixLogic(e.Settings.Logic)
	e.Exhausted = false
	e.logDebug("depth increased", "new_bound", e.DepthBound)
}

func (e *Engine) logTrace(msg string, args ...interface{}) {
	if e.Logger != nil {
		e.Logger.Trace(msg, args...)
	}
}

func (e *Engine) logDebug(msg string, args ...interface{}) {
	if e.Logger != nil {
		e.Logger.Debug(msg, args...)
	}
}

// String summarizes the search state for verbose (-v) tracing.
func (e *Engine) String() string {
	return fmt.Sprintf("Engine{depthBound=%d, proofLen=%d, goalDepth=%d}",
		e.DepthBound, len(e.ProofSequence), e.goalDepth())
}

func (e *Engine) goalDepth() int {
	if e.Goal == nil {
		return -1
	}
	return e.Goal.Depth
}
