package ctableau

// PrefixLogic is the hook a non-classical Engine plugs into the shared
// classical search loop: it decides how two connected literals' world
// prefixes are compared, how two prefix terms are checked for prefix
// unifiability, and which extra (eigenvariable, fresh-prefix) equations
// must hold for the whole proof to be admissible. Classical search uses no
// PrefixLogic at all (a nil Prefix field on Engine).
type PrefixLogic interface {
	// PrepareEquation returns the two prefix terms that must unify for
	// goalLit and partnerLit to be validly connected. Implementations
	// mirror _pre_eq: under intuitionistic logic the negated literal's
	// prefix grows with a fresh variable; D/T/S4 compare both prefixes
	// verbatim; S5 compares only the last element of each.
	PrepareEquation(goalLit, partnerLit *Literal) (*Term, *Term)

	// PrefixUnify reports whether pre1 and pre2 are prefix-unifiable,
	// given the bindings already recorded in sub (read-only from the
	// caller's point of view: sub is always left exactly as found).
	PrefixUnify(pre1, pre2 *Term, sub *Substitution) bool

	// AdmissiblePairs scans the engine's current substitution for
	// eigenvariable bindings and returns the extra prefix equations the
	// domain discipline (constant/cumulative/varying) requires of them.
	AdmissiblePairs(e *Engine) []prefixEquation
}

// prefixEquation is one equation (lhs, rhs) the joint prefix-unification
// pass at proof closure must satisfy.
type prefixEquation [2]*Term

// flattenTerm splices any nested stringSentinel Function term into its
// parent's argument list, recursively.
func flattenTerm(t *Term) *Term {
	if t.Symbol != stringSentinel {
		return t
	}
	var newArgs []*Term
	for _, a := range t.Args {
		if a.Symbol == stringSentinel {
			newArgs = append(newArgs, flattenTerm(a).Args...)
		} else {
			newArgs = append(newArgs, a)
		}
	}
	return &Term{Kind: t.Kind, Symbol: t.Symbol, Args: newArgs, Prefix: t.Prefix, CopyNum: t.CopyNum}
}

// flattenElems resolves each term against sub and splices any nested
// stringSentinel wrapper into the output sequence.
func flattenElems(sub *Substitution, terms []*Term) []*Term {
	var out []*Term
	for _, t := range terms {
		walked := flattenTerm(sub.Apply(t))
		if walked.Symbol == stringSentinel {
			out = append(out, walked.Args...)
		} else {
			out = append(out, walked)
		}
	}
	return out
}

func isVarTerm(t *Term) bool { return t.Kind == KindVariable }

func sameVar(a, b *Term) bool { return isVarTerm(a) && isVarTerm(b) && a.Key() == b.Key() }

// caseMask selects which of the 11 rewriting cases a PrefixLogic
// implementation enables. Intuitionistic and S4 enable every case (S4
// simply skips the fresh-variable append at PrepareEquation time, not
// inside the rewriting itself). T enables a restricted subset: the cases
// that introduce a fresh "_gen" world variable to split a path midway
// (9, 10) belong to the strictly-growing, non-reflexive world structure
// that chained intuitionistic implication builds; T's accessibility
// relation is reflexive only, so those two splitting cases are disabled
// and every other case is kept.
type caseMask struct {
	splitCases bool // cases 9 and 10
}

var fullCaseMask = caseMask{splitCases: true}
var restrictedCaseMask = caseMask{splitCases: false}

// preUnify is the 11-case prefix-rewriting search, run in place over the
// shared Substitution: every attempted rewrite opens a trail checkpoint
// via sub.Mark() and rewinds to it with sub.RewindTo() on failure, so no
// per-branch substitution copy is ever made. gen is a pointer to a
// per-call fresh-variable counter (case 10 mints a new "_genN" prefix
// variable).
func preUnify(l, m, r []*Term, sub *Substitution, gen *int, mask caseMask) bool {
	l = flattenElems(sub, l)
	m = flattenElems(sub, m)
	r = flattenElems(sub, r)

	mark := sub.Mark()
	fail := func() bool {
		sub.RewindTo(mark)
		return false
	}

	// case 1: both sides exhausted.
	if len(l) == 0 && len(m) == 0 && len(r) == 0 {
		return true
	}

	// case 2: l, m exhausted, r non-empty. Rotate the whole remainder
	// back onto l and retry.
	if len(l) == 0 && len(m) == 0 && len(r) > 0 {
		if preUnify(r, nil, nil, sub, gen, mask) {
			return true
		}
		return fail()
	}

	if len(l) > 0 && len(m) == 0 && len(r) > 0 {
		x, u := l[0], l[1:]
		y, w := r[0], r[1:]

		// cases 3/4: matching leading variables, or matching leading
		// world-constants that unify.
		if isVarTerm(x) && isVarTerm(y) && sameVar(x, y) {
			if preUnify(u, nil, w, sub, gen, mask) {
				return true
			}
			return fail()
		}
		if x.IsWorldConstant() && y.IsWorldConstant() {
			if sub.Union(x, y) && preUnify(u, nil, w, sub, gen, mask) {
				return true
			}
			sub.RewindTo(mark)
		}

		// case 5: leading world-constant on the left against a leading
		// variable on the right: swap sides and retry.
		if x.IsWorldConstant() && isVarTerm(y) {
			if preUnify(r, nil, l, sub, gen, mask) {
				return true
			}
			return fail()
		}
	}

	if len(l) > 0 && isVarTerm(l[0]) {
		v, u := l[0], l[1:]

		// case 6: right exhausted, bind v to the accumulated middle.
		if len(r) == 0 {
			if sub.Union(v, NewPrefix(m...)) && preUnify(u, nil, nil, sub, gen, mask) {
				return true
			}
			return fail()
		}

		if len(m) == 0 && len(r) > 0 && r[0].IsWorldConstant() {
			// case 7: bind v to empty, shift the world-constant onto l.
			a, w := r[0], r[1:]
			if sub.Union(v, NewPrefix()) && preUnify(u, nil, append([]*Term{a}, w...), sub, gen, mask) {
				return true
			}
			sub.RewindTo(mark)
		}

		if len(r) >= 2 && r[0].IsWorldConstant() && r[1].IsWorldConstant() {
			// case 8: bind v to the middle plus the first world-constant,
			// shift the second onto l.
			a, b, w := r[0], r[1], r[2:]
			bind := append(append([]*Term{}, m...), a)
			if sub.Union(v, NewPrefix(bind...)) && preUnify(u, nil, append([]*Term{b}, w...), sub, gen, mask) {
				return true
			}
			sub.RewindTo(mark)
		}

		if mask.splitCases && len(l) >= 2 && isVarTerm(l[1]) && len(r) > 0 && isVarTerm(r[0]) {
			vHat, w := r[0], r[1:]
			y := l[1]
			uu := l[2:]
			if !sameVar(v, vHat) {
				if len(m) == 0 {
					// case 9: no middle accumulated yet. Rotate,
					// carrying v forward as the new middle.
					nl := append([]*Term{vHat}, w...)
					if preUnify(nl, []*Term{v}, append([]*Term{y}, uu...), sub, gen, mask) {
						return true
					}
					return fail()
				}
				// case 10: a middle exists. Mint a fresh world variable
				// to split the path.
				x, z := m[0], m[1:]
				*gen++
				fresh := NewVariable(genVarName(*gen))
				bind := append(append([]*Term{x}, z...), fresh)
				if sub.Union(v, NewPrefix(bind...)) {
					nl := append([]*Term{vHat}, w...)
					if preUnify(nl, []*Term{fresh}, append([]*Term{y}, uu...), sub, gen, mask) {
						return true
					}
				}
				sub.RewindTo(mark)
			}
		}

		// case 11: leading variable against a non-empty right whose head
		// differs from v, or whose tail forces further rewriting: bind v
		// to the middle plus the whole right, ending the sequence.
		if len(r) > 0 {
			x := r[0]
			if !sameVar(v, x) || len(u) > 0 || len(r) > 1 {
				bind := append(append([]*Term{}, m...), r...)
				if sub.Union(v, NewPrefix(bind...)) && preUnify(u, nil, nil, sub, gen, mask) {
					return true
				}
				sub.RewindTo(mark)
			}
		}
	}

	return false
}

func genVarName(n int) string {
	return "_gen" + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// PreUnify checks whether pre1 and pre2's argument sequences are
// prefix-unifiable, used as the cheap per-candidate filter during
// extension/reduction generation. It always rewinds the substitution
// before returning, regardless of outcome; see Engine's use of it.
func PreUnify(pre1, pre2 *Term, sub *Substitution, mask caseMask) bool {
	gen := 0
	mark := sub.Mark()
	ok := preUnify(pre1.Args, nil, pre2.Args, sub, &gen, mask)
	sub.RewindTo(mark)
	return ok
}

// PrefixUnifyList solves a whole list of prefix equations jointly,
// Engine's final, authoritative admissibility check at proof closure. It
// always leaves sub unchanged; on success it returns a detached Snapshot
// carrying every binding chosen, which the caller records as the proof's
// PrefixUnifier without installing it into the live Substitution; the
// classical substitution is never permanently touched by the prefix layer.
func PrefixUnifyList(equations []prefixEquation, sub *Substitution) (*Substitution, bool) {
	gen := 0
	mark := sub.Mark()
	if prefixUnifyListRec(equations, sub, &gen, fullCaseMask) {
		snap := sub.Snapshot()
		sub.RewindTo(mark)
		return snap, true
	}
	sub.RewindTo(mark)
	return nil, false
}

func prefixUnifyListRec(equations []prefixEquation, sub *Substitution, gen *int, mask caseMask) bool {
	if len(equations) == 0 {
		return true
	}
	eq := equations[0]
	rest := equations[1:]
	mark := sub.Mark()
	if preUnify(eq[0].Args, nil, eq[1].Args, sub, gen, mask) {
		if prefixUnifyListRec(rest, sub, gen, mask) {
			return true
		}
	}
	sub.RewindTo(mark)
	return false
}
