package gdp

import "fmt"

// DispatchError carries a non-Sent outcome through Go's error
// convention. The foreign boundary never sees this type; it receives
// the status byte instead.
type DispatchError struct {
	Outcome DispatchOutcome
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("gdp dispatch failed: %s", e.Outcome)
}

// errFromOutcome converts an outcome to the Go-facing error form: nil
// for Sent, a DispatchError otherwise.
func errFromOutcome(o DispatchOutcome) error {
	if o == OutcomeSent {
		return nil
	}
	return &DispatchError{Outcome: o}
}
