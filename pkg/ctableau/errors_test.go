package ctableau

import (
	"errors"
	"strings"
	"testing"
)

// TestNewParseErrorSingleDiagnostic tests that a single diagnostic is
// wrapped directly, without multierror noise.
func TestNewParseErrorSingleDiagnostic(t *testing.T) {
	err := NewParseError("fixture.cnf", errors.New("bad token"))
	if !errors.Is(err, ErrParse) {
		t.Errorf("err = %v, want errors.Is(err, ErrParse)", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatal("expected a *ParseError")
	}
	if pe.Source != "fixture.cnf" {
		t.Errorf("Source = %q, want fixture.cnf", pe.Source)
	}
}

// TestNewParseErrorAggregatesMultiple tests that more than one diagnostic
// is aggregated via multierror rather than only the first being kept.
func TestNewParseErrorAggregatesMultiple(t *testing.T) {
	err := NewParseError("fixture.cnf", errors.New("first problem"), errors.New("second problem"))
	msg := err.Error()
	if !containsAll(msg, "first problem", "second problem") {
		t.Errorf("expected both diagnostics present in %q", msg)
	}
	if !errors.Is(err, ErrParse) {
		t.Error("aggregated ParseError should still match ErrParse")
	}
}

// TestNewParseErrorNoDiagnosticsIsNil tests the empty-input convenience
// case: no diagnostics means no error at all.
func TestNewParseErrorNoDiagnosticsIsNil(t *testing.T) {
	if err := NewParseError("fixture.cnf"); err != nil {
		t.Errorf("NewParseError with no diagnostics = %v, want nil", err)
	}
}

// TestNewConfigErrorAggregatesMultiple mirrors the ParseError test for
// ConfigError.
func TestNewConfigErrorAggregatesMultiple(t *testing.T) {
	err := NewConfigError(errors.New("bad logic"), errors.New("bad domain"))
	if !errors.Is(err, ErrConfig) {
		t.Error("aggregated ConfigError should match ErrConfig")
	}
	msg := err.Error()
	if !containsAll(msg, "bad logic", "bad domain") {
		t.Errorf("expected both diagnostics present in %q", msg)
	}
}

// TestNewConfigErrorNoDiagnosticsIsNil mirrors the ParseError convenience
// case.
func TestNewConfigErrorNoDiagnosticsIsNil(t *testing.T) {
	if err := NewConfigError(); err != nil {
		t.Errorf("NewConfigError with no diagnostics = %v, want nil", err)
	}
}

func containsAll(s string, substrs ...string) bool {
	for _, want := range substrs {
		if !strings.Contains(s, want) {
			return false
		}
	}
	return true
}
