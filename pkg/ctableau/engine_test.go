package ctableau

import (
	"context"
	"testing"
)

func memSource(m *Matrix) MatrixSource {
	return func(string) (*Matrix, error) { return m, nil }
}

func lit(symbol string, neg bool, args ...*Term) *Literal {
	return NewLiteral(symbol, neg, args...)
}

// TestClassicalPropositionalTheorem: [[p], [-p]], classical,
// positive-start, no iterative deepening -> Theorem, proof sequence of
// length 2.
func TestClassicalPropositionalTheorem(t *testing.T) {
	m := NewMatrix([][]*Literal{
		{lit("p", false)},
		{lit("p", true)},
	})
	env, err := NewEnvironment(memSource(m), "", DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}

	info, err := env.Drive(context.Background(), 1000)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if !info.Theorem {
		t.Fatal("expected Theorem")
	}
	if info.ProofLength != 2 {
		t.Errorf("ProofLength = %d, want 2 (one Start, one Extension)", info.ProofLength)
	}
}

// TestClassicalPropositionalNonTheorem: [[p], [q]], classical ->
// Non-Theorem (no complements at all, both starts are tried and
// backtracked).
func TestClassicalPropositionalNonTheorem(t *testing.T) {
	m := NewMatrix([][]*Literal{
		{lit("p", false)},
		{lit("q", false)},
	})
	env, err := NewEnvironment(memSource(m), "", DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}

	info, err := env.Drive(context.Background(), 1000)
	if err != ErrNonTheorem {
		t.Fatalf("err = %v, want ErrNonTheorem", err)
	}
	if info.Theorem {
		t.Fatal("expected Non-Theorem")
	}
}

// TestFirstOrderSingleExtension: [[P(a)], [-P(X)]] -> Theorem via a
// single extension unifying X -> a.
func TestFirstOrderSingleExtension(t *testing.T) {
	m := NewMatrix([][]*Literal{
		{lit("P", false, NewConstant("a"))},
		{lit("P", true, NewVariable("X"))},
	})
	env, err := NewEnvironment(memSource(m), "", DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}

	info, err := env.Drive(context.Background(), 1000)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if !info.Theorem || info.ProofLength != 2 {
		t.Fatalf("info = %+v, want Theorem with ProofLength 2", info)
	}

	foundA := false
	for _, bound := range env.Engine.Substitution.ToDict() {
		if bound.Kind == KindConstant && bound.Symbol == "a" {
			foundA = true
		}
	}
	if !foundA {
		t.Error("expected some variable bound to the constant a in the final substitution")
	}
}

// TestSharedVariableBacktracking: [[P(X), Q(X)], [-P(a)], [-Q(b)]] is
// Herbrand-satisfiable over {a, b}, so the engine must report
// Non-Theorem. The only start clause is clause 0 (the sole positive one).
// Goals are taken left to right: closing P(X) against -P(a) fixes X=a for
// the sibling goal Q(X), which then cannot close against -Q(b); the
// extension and then the start are backtracked, and with no other start
// candidate left the run ends.
func TestSharedVariableBacktracking(t *testing.T) {
	x := NewVariable("X")
	m := NewMatrix([][]*Literal{
		{lit("P", false, x), lit("Q", false, x)},
		{lit("P", true, NewConstant("a"))},
		{lit("Q", true, NewConstant("b"))},
	})
	env, err := NewEnvironment(memSource(m), "", DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}

	info, err := env.Drive(context.Background(), 10000)
	if err != ErrNonTheorem {
		t.Fatalf("err = %v, want ErrNonTheorem", err)
	}
	if info.Theorem {
		t.Fatal("expected Non-Theorem")
	}
}

// TestRestrictedBacktrackingMovesToNextStart: with backtrack_after=1 on a
// matrix admitting multiple distinct starts, after one retry the engine
// moves on to the next start candidate rather than re-exploring the one
// already tried.
func TestRestrictedBacktrackingMovesToNextStart(t *testing.T) {
	m := NewMatrix([][]*Literal{
		{lit("p", false)}, // dead end: no complement
		{lit("q", false)}, // succeeds via extension against clause 2
		{lit("q", true)},
	})
	settings := Settings{
		PositiveStartClauses:   true,
		RestrictedBacktracking: true,
		BacktrackAfter:         1,
		Logic:                  LogicClassical,
		Domain:                 DomainConstant,
	}
	env, err := NewEnvironment(memSource(m), "", settings, nil)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}

	info, err := env.Drive(context.Background(), 1000)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if !info.Theorem || info.ProofLength != 2 {
		t.Fatalf("info = %+v, want Theorem via the second start clause (ProofLength 2)", info)
	}
}

// TestIterativeDeepeningResumesAtNextDepth: once all actions are
// exhausted at depth d with no proof, the next run resumes at depth d+1
// with a clean tableau and a zeroed clause counter.
func TestIterativeDeepeningResumesAtNextDepth(t *testing.T) {
	m := NewMatrix([][]*Literal{
		{lit("p", false)},
		{lit("p", true)},
	})
	settings := Settings{
		PositiveStartClauses:           true,
		IterativeDeepening:             true,
		IterativeDeepeningInitialDepth: 0,
		Logic:                          LogicClassical,
		Domain:                         DomainConstant,
	}
	env, err := NewEnvironment(memSource(m), "", settings, nil)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}

	info, err := env.Drive(context.Background(), 1000)
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if !info.Theorem {
		t.Fatal("expected Theorem once the depth bound reaches 1")
	}
	if info.Depth != 1 {
		t.Errorf("Depth = %d, want 1 (extension at depth 0 is disallowed under bound 0)", info.Depth)
	}
	if info.ProofLength != 2 {
		t.Errorf("ProofLength = %d, want 2 (the failed depth-0 attempt must not be counted)", info.ProofLength)
	}
}

// TestEmptyMatrixIsNonTheorem: a matrix with no clauses still offers a
// lone empty Start at the root; applying it immediately ends the run as
// Non-Theorem.
func TestEmptyMatrixIsNonTheorem(t *testing.T) {
	m := NewMatrix(nil)
	env, err := NewEnvironment(memSource(m), "", DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	actions := env.ActionSpace()
	if len(actions) == 0 {
		t.Fatal("expected a lone empty Start action, got an empty action space")
	}
	start, ok := actions[0].(*StartAction)
	if !ok {
		t.Fatalf("first action = %T, want *StartAction", actions[0])
	}
	if len(start.ClauseCopy) != 0 {
		t.Fatalf("sentinel Start carries %d literals, want an empty clause copy", len(start.ClauseCopy))
	}

	_, _, done, info := env.Step(start)
	if !done || info.Theorem {
		t.Fatalf("applying the empty Start gave done=%v info=%+v, want terminal Non-Theorem", done, info)
	}

	env.Reset()
	driveInfo, err := env.Drive(context.Background(), 10)
	if err != ErrNonTheorem {
		t.Fatalf("err = %v, want ErrNonTheorem", err)
	}
	if driveInfo.Theorem {
		t.Fatal("expected Non-Theorem")
	}
}

// TestStepBudgetExhaustion tests the external step-cap surfaced as
// ErrStepBudgetExhausted, on a satisfiable matrix deep enough that it
// won't resolve within the cap.
func TestStepBudgetExhaustion(t *testing.T) {
	m := NewMatrix([][]*Literal{
		{lit("p", false)},
		{lit("q", false)},
	})
	env, err := NewEnvironment(memSource(m), "", DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}

	_, err = env.Drive(context.Background(), 1)
	if err != ErrStepBudgetExhausted {
		t.Fatalf("err = %v, want ErrStepBudgetExhausted", err)
	}
}

// TestRegularityPrunesRepeatedLiteral tests that a candidate clause
// carrying a literal that would duplicate one already on the branch above
// the goal is excluded from extensions, while a candidate clause with no
// such duplicate is still offered.
func TestRegularityPrunesRepeatedLiteral(t *testing.T) {
	m := NewMatrix([][]*Literal{
		{lit("p", true), lit("q", true)}, // clause 0: would reopen -q
		{lit("p", true)},                 // clause 1: clean connection
	})
	e := NewEngine(m, DefaultSettings(), nil)

	root := NewRootTableau()
	pathNode := root.NewChild(lit("q", true))
	goal := pathNode.NewChild(lit("p", false))
	e.Goal = goal

	actions := e.extensions(goal)
	if len(actions) != 1 {
		t.Fatalf("extensions() = %d candidates, want exactly 1 (clause 0 excluded by regularity)", len(actions))
	}
	ext := actions[0].(*ExtensionAction)
	if ext.ClauseIdx != 1 {
		t.Errorf("surviving extension uses clause %d, want clause 1", ext.ClauseIdx)
	}
}

// TestRegularityRequiresPrefixEquality tests that under a prefix layer a
// branch literal only blocks a candidate clause literal when their world
// prefixes are equal too: the same literal sitting in a different world is
// not a repeat, and both extension candidates must survive.
func TestRegularityRequiresPrefixEquality(t *testing.T) {
	m := NewMatrix([][]*Literal{
		{lit("p", true), lit("q", true)},
		{lit("p", true)},
	})
	settings := DefaultSettings()
	settings.Logic = LogicS4
	e := NewEngine(m, settings, nil)

	pathLit := lit("q", true)
	pathLit.Prefix = NewPrefix(NewFunction("w1"))
	root := NewRootTableau()
	pathNode := root.NewChild(pathLit)
	goal := pathNode.NewChild(lit("p", false))
	e.Goal = goal

	actions := e.extensions(goal)
	if len(actions) != 2 {
		t.Fatalf("extensions() = %d candidates, want 2 (clause 0's -q is in another world, not a repeat)", len(actions))
	}
}
