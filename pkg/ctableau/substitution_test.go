package ctableau

import "testing"

// TestFindIdempotence tests that Find(v) is already its own fixed point
// once resolved: Find(v) == Find(Find(v)).
func TestFindIdempotence(t *testing.T) {
	s := NewSubstitution()
	x := NewVariable("X")
	y := NewVariable("Y")
	a := NewConstant("a")

	s.Union(x, y)
	s.Union(y, a)

	r1 := s.Find(x, true)
	r2 := s.Find(r1, true)
	if !sameTerm(r1, r2) {
		t.Errorf("Find is not idempotent: Find(X)=%v, Find(Find(X))=%v", r1, r2)
	}
}

// TestBacktrackRestoresParent tests that pushing a frame then backtracking
// it restores the substitution bit-identically.
func TestBacktrackRestoresParent(t *testing.T) {
	s := NewSubstitution()
	x := NewVariable("X")
	before := s.Apply(x)

	mark := s.Mark()
	s.Union(x, NewConstant("a"))
	if s.Apply(x).Symbol != "a" {
		t.Fatal("union should have bound X to a")
	}
	s.RewindTo(mark)

	after := s.Apply(x)
	if !sameTerm(before, after) {
		t.Errorf("Backtrack did not restore prior state: before=%v after=%v", before, after)
	}
	if _, ok := s.parent[x.Key()]; ok {
		t.Error("X should no longer be present in parent after full rewind")
	}
}

// TestUpdateThenBacktrackIsNoOp tests the law "update(frame); backtrack()
// is a no-op".
func TestUpdateThenBacktrackIsNoOp(t *testing.T) {
	s := NewSubstitution()
	x, a := NewVariable("X"), NewConstant("a")

	ok, frame := s.CanUnify(x, a)
	if !ok {
		t.Fatal("expected X and a to unify")
	}
	before := len(s.parent)

	s.Update(frame)
	s.Backtrack()

	if len(s.parent) != before {
		t.Errorf("update+backtrack changed parent size: before=%d after=%d", before, len(s.parent))
	}
}

// TestOccursCheck tests that unify(X, f(X)) fails and leaves the
// substitution unchanged once the caller backtracks.
func TestOccursCheck(t *testing.T) {
	s := NewSubstitution()
	x := NewVariable("X")
	fx := NewFunction("f", x)

	mark := s.Mark()
	ok := s.Union(x, fx)
	if ok {
		t.Fatal("occurs-check cycle should be rejected")
	}
	s.RewindTo(mark)

	if _, bound := s.parent[x.Key()]; bound {
		t.Error("X must not remain bound after rewinding a failed occurs-check union")
	}
}

// TestCanUnifyCommitsViaUpdate tests "can_unify(s,t) == (true, f) implies
// update(f) makes equal(s,t) hold".
func TestCanUnifyCommitsViaUpdate(t *testing.T) {
	s := NewSubstitution()
	x := NewVariable("X")
	a := NewConstant("a")

	ok, frame := s.CanUnify(x, a)
	if !ok {
		t.Fatal("X and a should unify")
	}
	if s.Equal(x, a) {
		t.Fatal("CanUnify must leave the substitution untouched until Update is called")
	}

	s.Update(frame)
	if !s.Equal(x, a) {
		t.Error("after Update, X and a should be Equal")
	}
}

// TestEqualImpliesCanUnifyWithEmptyFrame tests "equal(s, t) implies
// can_unify(s, t) succeeds with the empty frame".
func TestEqualImpliesCanUnifyWithEmptyFrame(t *testing.T) {
	s := NewSubstitution()
	x := NewVariable("X")
	a := NewConstant("a")
	s.Union(x, a)

	ok, frame := s.CanUnify(x, a)
	if !ok {
		t.Fatal("x and a are already Equal, so CanUnify should succeed")
	}
	if len(frame) != 0 {
		t.Errorf("expected an empty frame for an already-equal pair, got %d entries", len(frame))
	}
}

// TestUnifyCompoundTerms tests structural unification across matching and
// mismatching function symbols/arities.
func TestUnifyCompoundTerms(t *testing.T) {
	s := NewSubstitution()
	x := NewVariable("X")
	term1 := NewFunction("f", x, NewConstant("b"))
	term2 := NewFunction("f", NewConstant("a"), NewConstant("b"))

	if !s.Union(term1, term2) {
		t.Fatal("f(X,b) should unify with f(a,b)")
	}
	if s.Apply(x).Symbol != "a" {
		t.Errorf("expected X -> a, got %v", s.Apply(x))
	}

	s2 := NewSubstitution()
	if s2.Union(NewFunction("f", NewConstant("a")), NewFunction("g", NewConstant("a"))) {
		t.Error("different symbols must not unify")
	}
	if s2.Union(NewFunction("f", NewConstant("a")), NewFunction("f", NewConstant("a"), NewConstant("b"))) {
		t.Error("different arities must not unify")
	}
}

// TestTrailLIFODiscipline tests that the k-th Backtrack undoes exactly the
// k-th-most-recent frame.
func TestTrailLIFODiscipline(t *testing.T) {
	s := NewSubstitution()
	x, y, z := NewVariable("X"), NewVariable("Y"), NewVariable("Z")

	s.Union(x, NewConstant("1"))
	s.Union(y, NewConstant("2"))
	s.Union(z, NewConstant("3"))

	s.Backtrack() // undoes Z
	if s.Apply(z).Kind != KindVariable {
		t.Error("Z should be unbound again")
	}
	if s.Apply(y).Symbol != "2" || s.Apply(x).Symbol != "1" {
		t.Error("only the most recent frame should have been undone")
	}

	s.Backtrack() // undoes Y
	if s.Apply(y).Kind != KindVariable {
		t.Error("Y should be unbound again")
	}
	if s.Apply(x).Symbol != "1" {
		t.Error("X should remain bound")
	}
}

// TestSnapshotIsDetached tests that a Snapshot can be read after the live
// substitution has since been rewound further.
func TestSnapshotIsDetached(t *testing.T) {
	s := NewSubstitution()
	x := NewVariable("X")
	s.Union(x, NewConstant("a"))

	snap := s.Snapshot()
	s.Backtrack()

	if s.Apply(x).Kind != KindVariable {
		t.Fatal("live substitution should be unbound after Backtrack")
	}
	if snap.Apply(x).Symbol != "a" {
		t.Error("snapshot should retain the binding taken at the time it was captured")
	}
}

// TestToDictSkipsSelfReferences tests that ToDict omits variables that are
// still their own representative.
func TestToDictSkipsSelfReferences(t *testing.T) {
	s := NewSubstitution()
	x, y := NewVariable("X"), NewVariable("Y")
	s.Find(x, true) // X becomes its own representative, unbound
	s.Union(y, NewConstant("a"))

	dict := s.ToDict()
	if _, ok := dict[x.Key()]; ok {
		t.Error("an unbound (self-referential) variable must not appear in ToDict")
	}
	if _, ok := dict[y.Key()]; !ok {
		t.Error("Y should appear in ToDict once bound")
	}
}
