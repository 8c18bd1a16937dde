package ctableau

// defaultPrefix returns pr, or an empty "string" wrapper if pr is nil: a
// literal with no explicit prefix is treated as attached to the empty
// world-path.
func defaultPrefix(pr *Term) *Term {
	if pr == nil {
		return NewPrefix()
	}
	return pr
}

// IntuitionisticLogic is the PrefixLogic for intuitionistic first-order
// logic: the negated side of every connection may grow its prefix with a
// fresh world variable, prefix-unified through the full 11-case rewriting
// system, with eigenvariable admissibility driven by the configured
// Domain.
type IntuitionisticLogic struct {
	varGen int
}

// NewIntuitionisticLogic returns a fresh intuitionistic prefix layer.
func NewIntuitionisticLogic() *IntuitionisticLogic {
	return &IntuitionisticLogic{}
}

func (p *IntuitionisticLogic) appendFreshVar(prefix *Term) *Term {
	p.varGen++
	w := NewVariable("W" + itoa(p.varGen))
	args := append(append([]*Term{}, prefix.Args...), w)
	return NewPrefix(args...)
}

// PrepareEquation appends a fresh world variable to the negated literal's
// prefix, standing for the extra world its connective introduces; the
// other side is used verbatim.
func (p *IntuitionisticLogic) PrepareEquation(goalLit, partnerLit *Literal) (*Term, *Term) {
	g := defaultPrefix(goalLit.Prefix)
	o := defaultPrefix(partnerLit.Prefix)
	if goalLit.Neg {
		return p.appendFreshVar(g), o
	}
	return g, p.appendFreshVar(o)
}

func (p *IntuitionisticLogic) PrefixUnify(pre1, pre2 *Term, sub *Substitution) bool {
	return PreUnify(pre1, pre2, sub, fullCaseMask)
}

func (p *IntuitionisticLogic) AdmissiblePairs(e *Engine) []prefixEquation {
	switch e.Settings.Domain {
	case DomainConstant:
		return nil
	case DomainCumulative:
		return intuitionisticAdmissiblePairs(p, e)
	default: // DomainVarying
		return flatAdmissiblePairs(e, false)
	}
}

// intuitionisticAdmissiblePairs pairs each eigenvariable-bound variable's
// prefix against a fresh-variable-extended copy of the eigenvariable's own
// prefix. Used for the cumulative domain by both intuitionistic logic and
// S4, instead of the flat D/T-style truncation.
func intuitionisticAdmissiblePairs(p *IntuitionisticLogic, e *Engine) []prefixEquation {
	var pairs []prefixEquation
	for key, bound := range e.Substitution.ToDict() {
		varTerm := e.Substitution.VarTerm(key)
		if varTerm == nil || varTerm.Prefix == nil {
			continue
		}
		for _, eigen := range findEigenvariables(bound) {
			if eigen.Prefix == nil {
				continue
			}
			pairs = append(pairs, prefixEquation{varTerm.Prefix, p.appendFreshVar(eigen.Prefix)})
		}
	}
	return pairs
}

// DLogic is the PrefixLogic for modal logic D: prefixes compare verbatim
// (no fresh-variable growth) and prefix-unify only as flattened,
// equal-length ordinary term sequences.
type DLogic struct{}

func NewDLogic() *DLogic { return &DLogic{} }

func (d *DLogic) PrepareEquation(goalLit, partnerLit *Literal) (*Term, *Term) {
	return defaultPrefix(goalLit.Prefix), defaultPrefix(partnerLit.Prefix)
}

func (d *DLogic) PrefixUnify(pre1, pre2 *Term, sub *Substitution) bool {
	return preUnifyD(pre1, pre2, sub)
}

func (d *DLogic) AdmissiblePairs(e *Engine) []prefixEquation {
	return flatAdmissiblePairs(e, false)
}

// TLogic is the PrefixLogic for modal logic T (reflexive accessibility):
// prefixes compare verbatim like D, but T's worlds form paths of varying
// length (not flattenable to fixed arity) so it reuses the general
// rewriting search with a restricted case subset. See restrictedCaseMask
// for which cases are disabled and why.
type TLogic struct{}

func NewTLogic() *TLogic { return &TLogic{} }

func (t *TLogic) PrepareEquation(goalLit, partnerLit *Literal) (*Term, *Term) {
	return defaultPrefix(goalLit.Prefix), defaultPrefix(partnerLit.Prefix)
}

func (t *TLogic) PrefixUnify(pre1, pre2 *Term, sub *Substitution) bool {
	gen := 0
	mark := sub.Mark()
	ok := preUnify(pre1.Args, nil, pre2.Args, sub, &gen, restrictedCaseMask)
	sub.RewindTo(mark)
	return ok
}

func (t *TLogic) AdmissiblePairs(e *Engine) []prefixEquation {
	return flatAdmissiblePairs(e, false)
}

// S4Logic is the PrefixLogic for modal logic S4 (reflexive + transitive
// accessibility): its prefixes are unified with the same full case set as
// intuitionistic ones, but compared verbatim (no fresh-variable append at
// PrepareEquation time), and its cumulative-domain admissibility rule is
// the intuitionistic one rather than the flat D/T style.
type S4Logic struct {
	shared *IntuitionisticLogic
}

func NewS4Logic() *S4Logic {
	return &S4Logic{shared: NewIntuitionisticLogic()}
}

func (s *S4Logic) PrepareEquation(goalLit, partnerLit *Literal) (*Term, *Term) {
	return defaultPrefix(goalLit.Prefix), defaultPrefix(partnerLit.Prefix)
}

func (s *S4Logic) PrefixUnify(pre1, pre2 *Term, sub *Substitution) bool {
	return PreUnify(pre1, pre2, sub, fullCaseMask)
}

func (s *S4Logic) AdmissiblePairs(e *Engine) []prefixEquation {
	switch e.Settings.Domain {
	case DomainConstant:
		return nil
	case DomainCumulative:
		return intuitionisticAdmissiblePairs(s.shared, e)
	default: // DomainVarying
		return flatAdmissiblePairs(e, false)
	}
}

// S5Logic is the PrefixLogic for modal logic S5 (full equivalence
// accessibility): only the last element of each prefix is ever compared.
type S5Logic struct{}

func NewS5Logic() *S5Logic { return &S5Logic{} }

func lastElement(pr *Term) *Term {
	pr = defaultPrefix(pr)
	if len(pr.Args) == 0 {
		return NewPrefix()
	}
	return NewPrefix(pr.Args[len(pr.Args)-1])
}

func (s *S5Logic) PrepareEquation(goalLit, partnerLit *Literal) (*Term, *Term) {
	return lastElement(goalLit.Prefix), lastElement(partnerLit.Prefix)
}

func (s *S5Logic) PrefixUnify(pre1, pre2 *Term, sub *Substitution) bool {
	return PreUnify(pre1, pre2, sub, fullCaseMask)
}

func (s *S5Logic) AdmissiblePairs(e *Engine) []prefixEquation {
	switch e.Settings.Domain {
	case DomainConstant, DomainCumulative:
		// S5's cumulative case collapses to no extra constraint.
		return nil
	default: // DomainVarying
		return flatAdmissiblePairs(e, true)
	}
}

// flatAdmissiblePairs implements the D/T/S4(varying)/S5(varying) style of
// admissibility: pair a bound variable's own prefix against the
// eigenvariable's prefix found inside its binding, truncating the
// variable's prefix to the eigenvariable's length first when the domain is
// cumulative. lastOnly selects S5's single-element comparison.
func flatAdmissiblePairs(e *Engine, lastOnly bool) []prefixEquation {
	var pairs []prefixEquation
	cumulative := e.Settings.Domain == DomainCumulative
	if e.Settings.Domain == DomainConstant {
		return nil
	}
	for key, bound := range e.Substitution.ToDict() {
		varTerm := e.Substitution.VarTerm(key)
		if varTerm == nil || varTerm.Prefix == nil {
			continue
		}
		for _, eigen := range findEigenvariables(bound) {
			if eigen.Prefix == nil {
				continue
			}
			vArgs := varTerm.Prefix.Args
			if cumulative && len(eigen.Prefix.Args) < len(vArgs) {
				vArgs = vArgs[:len(eigen.Prefix.Args)]
			}
			lhs := sidePrefix(vArgs, lastOnly)
			rhs := sidePrefix(eigen.Prefix.Args, lastOnly)
			pairs = append(pairs, prefixEquation{lhs, rhs})
		}
	}
	return pairs
}

func sidePrefix(args []*Term, lastOnly bool) *Term {
	if lastOnly {
		if len(args) == 0 {
			return NewPrefix()
		}
		return NewPrefix(args[len(args)-1])
	}
	return NewPrefix(args...)
}
