package gdp

import (
	"errors"
	"testing"
)

// TestStatusCodesAreStable pins the boundary bijection. Foreign callers
// hard-code these numbers; this test failing means a breaking change.
func TestStatusCodesAreStable(t *testing.T) {
	tests := []struct {
		outcome DispatchOutcome
		status  int8
	}{
		{OutcomeSent, 0},
		{OutcomeInvalidName, -1},
		{OutcomePayloadTooLarge, -2},
		{OutcomeNotReady, -3},
		{OutcomeTimeout, -4},
		{OutcomeRoutingFailure, -5},
		{OutcomeBackpressure, -6},
		{OutcomeInternalError, -7},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			if got := tt.outcome.Status(); got != tt.status {
				t.Errorf("Status() = %d, want %d", got, tt.status)
			}
		})
	}
}

// TestStatusEncodingInjective verifies no code is reused for two
// outcomes.
func TestStatusEncodingInjective(t *testing.T) {
	outcomes := []DispatchOutcome{
		OutcomeSent, OutcomeInvalidName, OutcomePayloadTooLarge,
		OutcomeNotReady, OutcomeTimeout, OutcomeRoutingFailure,
		OutcomeBackpressure, OutcomeInternalError,
	}

	seen := make(map[int8]DispatchOutcome)
	for _, o := range outcomes {
		code := o.Status()
		if prev, dup := seen[code]; dup {
			t.Errorf("Code %d reused by %s and %s", code, prev, o)
		}
		seen[code] = o
	}
}

// TestStatusEncodingIdempotent verifies encoding is a pure function
// with no hidden state.
func TestStatusEncodingIdempotent(t *testing.T) {
	for o := OutcomeSent; o <= OutcomeInternalError; o++ {
		if o.Status() != o.Status() {
			t.Errorf("Status() for %s is not stable across calls", o)
		}
	}
}

// TestStatusEncodingTotal verifies even impossible outcome values
// encode rather than panic.
func TestStatusEncodingTotal(t *testing.T) {
	if got := DispatchOutcome(200).Status(); got != StatusInternalError {
		t.Errorf("Out-of-taxonomy value encoded as %d, want %d", got, StatusInternalError)
	}
}

func TestOutcomeStrings(t *testing.T) {
	for o := OutcomeSent; o <= OutcomeInternalError; o++ {
		if o.String() == "unknown" {
			t.Errorf("Outcome %d has no name", uint8(o))
		}
	}
	if DispatchOutcome(200).String() != "unknown" {
		t.Error("Out-of-taxonomy value should stringify as unknown")
	}
}

func TestErrFromOutcome(t *testing.T) {
	if err := errFromOutcome(OutcomeSent); err != nil {
		t.Errorf("Sent should map to nil error, got %v", err)
	}

	err := errFromOutcome(OutcomeBackpressure)
	if err == nil {
		t.Fatal("Expected error for backpressure")
	}
	var de *DispatchError
	if !errors.As(err, &de) || de.Outcome != OutcomeBackpressure {
		t.Errorf("Expected DispatchError{backpressure}, got %v", err)
	}
}
