package ctableau

// Action is one of the four moves the connection calculus can apply to the
// current goal: Start, Extension, Reduction or Backtrack.
type Action interface {
	// ID uniquely identifies the action among its goal's legal actions, so
	// it can be looked up again from Tableau.Actions after being chosen by
	// an external caller (e.g. the CLI or Environment.Step).
	ID() string
}

// StartAction opens the tableau with a copy of one of the matrix's start
// clauses, becoming the root's children.
type StartAction struct {
	Id         string
	ClauseIdx  int
	ClauseCopy []*Literal
}

func (a *StartAction) ID() string { return a.Id }

// ExtensionAction connects the current goal to the complementary literal at
// LitIdx within a fresh copy of clause ClauseIdx, instantiating the rest of
// that clause's literals as new open subgoals. SubUpdates is the trail
// frame CanUnify captured when this candidate was discovered; applying the
// action replays it via Substitution.Update.
type ExtensionAction struct {
	Id         string
	ClauseIdx  int
	LitIdx     int
	ClauseCopy []*Literal
	SubUpdates trailFrame
}

func (a *ExtensionAction) ID() string { return a.Id }

// ReductionAction closes the current goal against a complementary literal
// already on the path above it, with no new subgoals.
type ReductionAction struct {
	Id         string
	PathLit    *Literal
	SubUpdates trailFrame
}

func (a *ReductionAction) ID() string { return a.Id }

// BacktrackAction undoes the most recent non-backtrack action and resumes
// the search from the resulting previous choice point (restricted
// backtracking / iterative deepening).
type BacktrackAction struct {
	Id string
}

func (a *BacktrackAction) ID() string { return a.Id }
