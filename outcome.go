package gdp

// DispatchOutcome is the internal result of one dispatch attempt. It is
// the single source of truth for failure semantics: internal logic
// branches only on this type, never on the narrow status byte, which is
// a lossy projection of it for the foreign-call boundary.
//
// The taxonomy is closed. Adding a value is a breaking change to the
// wire contract and must be called out explicitly.
type DispatchOutcome uint8

const (
	// OutcomeSent means the transport took ownership of the bytes for
	// onward delivery. No end-to-end guarantee beyond the handoff.
	OutcomeSent DispatchOutcome = iota

	// OutcomeInvalidName means the destination could not be read as
	// exactly 32 bytes.
	OutcomeInvalidName

	// OutcomePayloadTooLarge means the payload exceeds the configured
	// maximum frame size.
	OutcomePayloadTooLarge

	// OutcomeNotReady means the client session is not in the Ready
	// state. Connection establishment and retry belong to the owner.
	OutcomeNotReady

	// OutcomeTimeout means the transport gave no answer within the
	// configured bound.
	OutcomeTimeout

	// OutcomeRoutingFailure means the transport definitively has no
	// path to the destination, as opposed to no answer in time.
	OutcomeRoutingFailure

	// OutcomeBackpressure means the transport cannot accept more
	// outstanding sends right now. Callers may slow down and retry;
	// this is an expected operational condition, not a failure of the
	// network path.
	OutcomeBackpressure

	// OutcomeInternalError means a contract violation or impossible
	// state. Its presence is a defect signal, never an expected
	// operational condition.
	OutcomeInternalError
)

// String returns the outcome name for logging.
func (o DispatchOutcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeInvalidName:
		return "invalid-name"
	case OutcomePayloadTooLarge:
		return "payload-too-large"
	case OutcomeNotReady:
		return "not-ready"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeRoutingFailure:
		return "routing-failure"
	case OutcomeBackpressure:
		return "backpressure"
	case OutcomeInternalError:
		return "internal-error"
	default:
		return "unknown"
	}
}

// Status codes returned across the foreign-call boundary. Zero always
// means accepted-for-delivery; negative values enumerate failure kinds.
// These values are hard-coded by foreign callers and must never change.
const (
	StatusSent            int8 = 0
	StatusInvalidName     int8 = -1
	StatusPayloadTooLarge int8 = -2
	StatusNotReady        int8 = -3
	StatusTimeout         int8 = -4
	StatusRoutingFailure  int8 = -5
	StatusBackpressure    int8 = -6
	StatusInternalError   int8 = -7
)

// Status encodes the outcome as the one-byte boundary status. The
// mapping is pure, total and injective: every outcome has exactly one
// fixed code and no code is reused. A value outside the taxonomy (which
// cannot occur in a correct program) encodes as StatusInternalError to
// keep the function total.
func (o DispatchOutcome) Status() int8 {
	switch o {
	case OutcomeSent:
		return StatusSent
	case OutcomeInvalidName:
		return StatusInvalidName
	case OutcomePayloadTooLarge:
		return StatusPayloadTooLarge
	case OutcomeNotReady:
		return StatusNotReady
	case OutcomeTimeout:
		return StatusTimeout
	case OutcomeRoutingFailure:
		return StatusRoutingFailure
	case OutcomeBackpressure:
		return StatusBackpressure
	case OutcomeInternalError:
		return StatusInternalError
	default:
		return StatusInternalError
	}
}
