// Package ctableau implements a connection-tableau theorem prover for
// first-order clausal logic, in the lineage of leanCoP / ileanCoP / mleanCoP.
// It supports classical logic together with the intuitionistic and modal
// (D, T, S4, S5) variants through a shared prefix-unification layer.
package ctableau

import (
	"fmt"
	"strings"
)

// Kind tags the three forms a Term can take.
type Kind int

const (
	KindVariable Kind = iota
	KindConstant
	KindFunction
)

// stringSentinel is the reserved Function symbol used to wrap a prefix
// sequence: a prefix is a Function whose Symbol is stringSentinel and whose
// Args are the (possibly mixed Variable/Function) elements of the sequence.
const stringSentinel = "string"

// skolemSymbol is the reserved Function symbol marking an eigenvariable
// introduced by skolemisation of a universal quantifier.
const skolemSymbol = "f_skolem"

// Term is a tagged union of Variable, Constant and Function. Variables and
// Functions/Constants have different equality rules (see Equal), and every
// Term may carry an optional Prefix used by the non-classical logics.
//
// Two Variables are equal iff (Symbol, CopyNum) match. Two Functions or
// Constants are equal iff (Symbol, Args) match recursively; Prefix is
// excluded from equality in both cases.
type Term struct {
	Kind    Kind
	Symbol  string
	Args    []*Term
	Prefix  *Term
	CopyNum int
}

// NewVariable builds a fresh Variable term with copy number 0.
func NewVariable(symbol string) *Term {
	return &Term{Kind: KindVariable, Symbol: symbol}
}

// NewConstant builds a Constant term.
func NewConstant(symbol string) *Term {
	return &Term{Kind: KindConstant, Symbol: symbol}
}

// NewFunction builds a Function term with the given arguments.
func NewFunction(symbol string, args ...*Term) *Term {
	return &Term{Kind: KindFunction, Symbol: symbol, Args: args}
}

// NewPrefix builds the sentinel "string" Function wrapping a prefix
// sequence.
func NewPrefix(args ...*Term) *Term {
	return &Term{Kind: KindFunction, Symbol: stringSentinel, Args: args}
}

// VarKey is the comparable identity of a Variable used as a map key by the
// Substitution's union-find.
type VarKey struct {
	Symbol  string
	CopyNum int
}

// Key returns the VarKey identifying this term. Only meaningful for
// Kind == KindVariable.
func (t *Term) Key() VarKey {
	return VarKey{Symbol: t.Symbol, CopyNum: t.CopyNum}
}

// IsWorldConstant reports whether t is a Function term representing a
// world-introducing connective in a prefix sequence (as opposed to a prefix
// Variable).
func (t *Term) IsWorldConstant() bool {
	return t.Kind == KindFunction
}

// Copy produces a fresh renaming of t: every Variable (including those
// nested inside Args and Prefix) gets CopyNum = num, while Constants and
// Functions are rebuilt recursively so that any prefixes they carry are
// copied too. Two literals copied with the same num share Variable identity
// exactly where the original clause shared it.
func (t *Term) Copy(num int) *Term {
	newArgs := make([]*Term, len(t.Args))
	for i, a := range t.Args {
		newArgs[i] = a.Copy(num)
	}
	var newPrefix *Term
	if t.Prefix != nil {
		newPrefix = t.Prefix.Copy(num)
	}
	nt := &Term{Kind: t.Kind, Symbol: t.Symbol, Args: newArgs, Prefix: newPrefix}
	if t.Kind == KindVariable {
		nt.CopyNum = num
	}
	return nt
}

// sameTerm is raw structural equality (no substitution lookup): Variables
// compare by (Symbol, CopyNum); Functions/Constants compare by (Symbol,
// Args) recursively. Prefix is excluded from equality.
func sameTerm(a, b *Term) bool {
	if a.Kind == KindVariable || b.Kind == KindVariable {
		return a.Kind == KindVariable && b.Kind == KindVariable && a.Key() == b.Key()
	}
	if a.Symbol != b.Symbol || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !sameTerm(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}

// String renders a term for diagnostics, e.g. "f(X1, a)".
func (t *Term) String() string {
	if len(t.Args) == 0 {
		if t.Kind == KindVariable && t.CopyNum != 0 {
			return fmt.Sprintf("%s%d", t.Symbol, t.CopyNum)
		}
		return t.Symbol
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	suffix := ""
	if t.Kind == KindVariable && t.CopyNum != 0 {
		suffix = fmt.Sprintf("%d", t.CopyNum)
	}
	return fmt.Sprintf("%s%s(%s)", t.Symbol, suffix, strings.Join(parts, ", "))
}

// MatrixPos pins a Literal to its home clause/position in the Matrix it was
// parsed from. Copies of a clause retain the MatrixPos of their origin.
type MatrixPos struct {
	ClauseIdx int
	LitIdx    int
}

// Literal is a predicate application together with its polarity and, for
// the non-classical logics, a world prefix.
type Literal struct {
	Symbol    string
	Args      []*Term
	Prefix    *Term
	Neg       bool
	MatrixPos MatrixPos
}

// NewLiteral builds a Literal. neg selects negative polarity.
func NewLiteral(symbol string, neg bool, args ...*Term) *Literal {
	return &Literal{Symbol: symbol, Args: args, Neg: neg}
}

// Copy produces a fresh variable-renamed instance of the literal, as
// Matrix.Copy does for every literal of a clause copy.
func (l *Literal) Copy(num int) *Literal {
	newArgs := make([]*Term, len(l.Args))
	for i, a := range l.Args {
		newArgs[i] = a.Copy(num)
	}
	var newPrefix *Term
	if l.Prefix != nil {
		newPrefix = l.Prefix.Copy(num)
	}
	return &Literal{
		Symbol:    l.Symbol,
		Args:      newArgs,
		Prefix:    newPrefix,
		Neg:       l.Neg,
		MatrixPos: l.MatrixPos,
	}
}

// AsTerm views the literal's application (Symbol, Args) as a plain Function
// term for unification purposes; polarity and prefix are carried alongside
// but not through this conversion.
func (l *Literal) AsTerm() *Term {
	return &Term{Kind: KindFunction, Symbol: l.Symbol, Args: l.Args}
}

// String renders a literal for diagnostics, e.g. "-p(X1)".
func (l *Literal) String() string {
	prefix := ""
	if l.Neg {
		prefix = "-"
	}
	return prefix + l.AsTerm().String()
}

// complementKey indexes the Matrix's complement map: literals with opposite
// polarity and the same predicate symbol are connection candidates.
type complementKey struct {
	Neg    bool
	Symbol string
}

func litComplementKey(l *Literal) complementKey {
	return complementKey{Neg: l.Neg, Symbol: l.Symbol}
}

// findEigenvariables collects every subterm of t tagged with the reserved
// skolem symbol, used by the non-classical admissibility check.
func findEigenvariables(t *Term) []*Term {
	if t.Symbol == skolemSymbol {
		return []*Term{t}
	}
	if t.Kind != KindFunction {
		return nil
	}
	var out []*Term
	for _, a := range t.Args {
		out = append(out, findEigenvariables(a)...)
	}
	return out
}
