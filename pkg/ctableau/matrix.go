package ctableau

// Matrix is a set of clauses (each a slice of Literals) together with the
// indexes the connection calculus needs at every step: a complement index
// from (polarity, symbol) to every literal position carrying that polarity
// and symbol (Complements queries it with the polarity flipped), the
// subset of clauses with no negative literal
// and the subset with no positive literal, and a flattened literal
// numbering.
type Matrix struct {
	Clauses [][]*Literal

	complement      map[complementKey][]MatrixPos
	flattenedIdx    map[MatrixPos]int
	positiveClauses []int
	negativeClauses []int
	numLits         int
	copyCounter     int
}

// NewMatrix builds a Matrix from clauses, tagging every literal with its
// MatrixPos and building the complement/flattened indexes.
func NewMatrix(clauses [][]*Literal) *Matrix {
	m := &Matrix{Clauses: clauses}
	m.updateMappings()
	return m
}

func (m *Matrix) updateMappings() {
	m.complement = make(map[complementKey][]MatrixPos)
	m.flattenedIdx = make(map[MatrixPos]int)
	m.positiveClauses = m.positiveClauses[:0]
	m.negativeClauses = m.negativeClauses[:0]
	flat := 0
	for ci, clause := range m.Clauses {
		hasNeg := false
		hasPos := false
		for li, lit := range clause {
			pos := MatrixPos{ClauseIdx: ci, LitIdx: li}
			lit.MatrixPos = pos
			m.flattenedIdx[pos] = flat
			flat++
			key := litComplementKey(lit)
			m.complement[key] = append(m.complement[key], pos)
			if lit.Neg {
				hasNeg = true
			} else {
				hasPos = true
			}
		}
		if !hasNeg {
			m.positiveClauses = append(m.positiveClauses, ci)
		}
		if !hasPos {
			m.negativeClauses = append(m.negativeClauses, ci)
		}
	}
	m.numLits = flat
}

// Literal returns the literal at a given matrix position.
func (m *Matrix) Literal(pos MatrixPos) *Literal {
	return m.Clauses[pos.ClauseIdx][pos.LitIdx]
}

// Complements returns the positions of every literal with the opposite
// polarity and the same predicate symbol as lit, the candidate connection
// partners for an extension or reduction step.
func (m *Matrix) Complements(lit *Literal) []MatrixPos {
	return m.complement[complementKey{Neg: !lit.Neg, Symbol: lit.Symbol}]
}

// PositiveClauses returns the indexes of clauses with no negative literal.
func (m *Matrix) PositiveClauses() []int {
	return m.positiveClauses
}

// NegativeClauses returns the indexes of clauses with no positive literal,
// the symmetric counterpart of PositiveClauses for callers that want to
// restrict start clauses the other way. The engine itself uses all clauses
// when PositiveStartClauses is off.
func (m *Matrix) NegativeClauses() []int {
	return m.negativeClauses
}

// FlatIndex returns the dense 0-based ordinal of the literal at pos across
// the whole matrix, in clause-then-literal order.
func (m *Matrix) FlatIndex(pos MatrixPos) int {
	return m.flattenedIdx[pos]
}

// NumLits returns the total number of literals in the matrix.
func (m *Matrix) NumLits() int {
	return m.numLits
}

// Copy returns a fresh variable-renamed instance of the clause at
// clauseIdx. All literals in the result share variable identity exactly
// where they did in the original clause (Term.Copy is keyed by a
// single shared copy number for the whole call), and each copied literal
// keeps the MatrixPos of its origin clause so Complements/FlatIndex lookups
// against the original matrix remain valid for it.
func (m *Matrix) Copy(clauseIdx int) []*Literal {
	m.copyCounter++
	src := m.Clauses[clauseIdx]
	out := make([]*Literal, len(src))
	for i, lit := range src {
		out[i] = lit.Copy(m.copyCounter)
	}
	return out
}

// Reset zeroes the clause-copy counter, so that a fresh proof-search run
// over the same Matrix starts variable numbering from the same place as
// the first.
func (m *Matrix) Reset() {
	m.copyCounter = 0
}
