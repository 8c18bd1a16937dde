package ctableau

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Sentinel error kinds. Callers should use errors.Is to test against
// these rather than string-matching.
var (
	// ErrParse marks a malformed matrix source (MatrixSource implementation
	// failed to produce a Matrix).
	ErrParse = errors.New("ctableau: parse error")

	// ErrConfig marks an invalid Settings value (unknown Logic/Domain, or
	// an out-of-range numeric field).
	ErrConfig = errors.New("ctableau: configuration error")

	// ErrNonTheorem is returned by an Environment/Engine once the search
	// space has been exhausted without closing the tableau, or when there
	// is no start clause at all. Under iterative deepening an exhausted
	// depth raises the bound and the search goes on instead.
	ErrNonTheorem = errors.New("ctableau: non-theorem")

	// ErrStepBudgetExhausted is returned when a caller-imposed step budget
	// (e.g. a cancelled context.Context) is hit before the search
	// terminates either way.
	ErrStepBudgetExhausted = errors.New("ctableau: step budget exhausted")
)

// ParseError wraps ErrParse with the offending source description and,
// when a MatrixSource reports more than one malformed clause, a
// *multierror.Error aggregating every diagnostic instead of only the
// first one found.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ctableau: parse error in %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// NewParseError aggregates one or more per-clause diagnostics into a single
// ParseError, using go-multierror the way nomad's config loader aggregates
// multiple problems instead of stopping at the first.
func NewParseError(source string, diagnostics ...error) error {
	if len(diagnostics) == 0 {
		return nil
	}
	if len(diagnostics) == 1 {
		return &ParseError{Source: source, Err: diagnostics[0]}
	}
	var merr *multierror.Error
	for _, d := range diagnostics {
		merr = multierror.Append(merr, d)
	}
	return &ParseError{Source: source, Err: merr.ErrorOrNil()}
}

// ConfigError wraps ErrConfig, aggregating every invalid Settings field
// found rather than failing fast on the first.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ctableau: configuration error: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// NewConfigError aggregates one or more configuration problems.
func NewConfigError(problems ...error) error {
	if len(problems) == 0 {
		return nil
	}
	if len(problems) == 1 {
		return &ConfigError{Err: problems[0]}
	}
	var merr *multierror.Error
	for _, p := range problems {
		merr = multierror.Append(merr, p)
	}
	return &ConfigError{Err: merr.ErrorOrNil()}
}
