package ctableau

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// MatrixSource loads a Matrix from some external representation (a file
// path, a URL, an in-memory string; the caller decides). The real
// CNF/iCNF grammar parsers live outside this module; this is the seam
// they plug into.
type MatrixSource func(path string) (*Matrix, error)

// ReadCNFFile is a minimal stand-in MatrixSource that loads flat,
// line-oriented clause files: one clause per line, blank lines and lines
// starting with `#` skipped, literals separated by spaces, a literal is
// either `symbol(arg1,arg2)` or a bare `symbol` (0-arity), negated
// literals prefixed with `-`. It is not the full external grammar parser:
// no quantifiers, no connectives, no prefix syntax for the non-classical
// logics. Those inputs are built programmatically via NewMatrix instead. Parse failures from more than one line are aggregated into a
// single *ParseError via NewParseError/go-multierror rather than stopping
// at the first, the way the rest of the ambient error-handling stack does.
func ReadCNFFile(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewParseError(path, err)
	}
	defer f.Close()

	var clauses [][]*Literal
	var diagnostics []error
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		clause, err := parseClauseLine(line)
		if err != nil {
			diagnostics = append(diagnostics, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		clauses = append(clauses, clause)
	}
	if err := scanner.Err(); err != nil {
		diagnostics = append(diagnostics, err)
	}
	if len(diagnostics) > 0 {
		return nil, NewParseError(path, diagnostics...)
	}
	return NewMatrix(clauses), nil
}

func parseClauseLine(line string) ([]*Literal, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty clause")
	}
	clause := make([]*Literal, 0, len(fields))
	for _, f := range fields {
		lit, err := parseLiteral(f)
		if err != nil {
			return nil, err
		}
		clause = append(clause, lit)
	}
	return clause, nil
}

func parseLiteral(tok string) (*Literal, error) {
	neg := false
	if strings.HasPrefix(tok, "-") {
		neg = true
		tok = tok[1:]
	}
	symbol := tok
	var argNames []string
	if i := strings.IndexByte(tok, '('); i >= 0 {
		if !strings.HasSuffix(tok, ")") {
			return nil, fmt.Errorf("malformed literal %q: missing closing paren", tok)
		}
		symbol = tok[:i]
		inner := tok[i+1 : len(tok)-1]
		if inner != "" {
			argNames = strings.Split(inner, ",")
		}
	}
	if symbol == "" {
		return nil, fmt.Errorf("malformed literal %q: empty symbol", tok)
	}
	args := make([]*Term, len(argNames))
	for i, name := range argNames {
		args[i] = parseTermToken(strings.TrimSpace(name))
	}
	return NewLiteral(symbol, neg, args...), nil
}

// parseTermToken treats an uppercase-leading token as a Variable and
// anything else as a 0-arity Constant, the conventional Prolog-ish
// surface convention.
func parseTermToken(tok string) *Term {
	if tok == "" {
		return NewConstant("")
	}
	if tok[0] >= 'A' && tok[0] <= 'Z' {
		return NewVariable(tok)
	}
	return NewConstant(tok)
}
