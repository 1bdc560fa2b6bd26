package gdp

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/gdp-project/gdp/transport"
)

// Dispatch attempts exactly one delivery handoff of payload to the
// destination name and reports the outcome. It blocks the calling
// goroutine until an outcome is determined, bounded by the configured
// send timeout. The payload is read synchronously within the call and
// never retained; the caller may reuse the buffer as soon as Dispatch
// returns.
//
// Application-level retry is the caller's responsibility: one call, one
// handoff, one outcome.
func (c *Client) Dispatch(dst Name, payload []byte) DispatchOutcome {
	if !validatePayload(len(payload), c.opts.MaxPayload) {
		return c.record(OutcomePayloadTooLarge)
	}

	tr, outcome := c.acquireReadySession()
	if outcome != OutcomeSent {
		return c.record(outcome)
	}

	frame := &transport.Frame{
		Action:  transport.ActionForward,
		TTL:     transport.DefaultTTL,
		Src:     c.opts.SelfName,
		Dst:     dst,
		Payload: payload,
	}

	var err error
	if c.opts.SendTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.SendTimeout)
		err = tr.Send(ctx, frame)
		cancel()
	} else {
		err = tr.TrySend(frame)
	}

	outcome = outcomeFromTransportError(err)
	if outcome != OutcomeSent {
		logrus.WithFields(logrus.Fields{
			"function": "Client.Dispatch",
			"dst":      dst.String(),
			"outcome":  outcome.String(),
		}).Debug("Dispatch failed")
	}
	return c.record(outcome)
}

// DispatchBytes is the boundary-shaped variant: the destination arrives
// as a raw byte slice that must read as exactly 32 bytes. Used by the
// foreign-call layer, where the name is a pointer-and-length pair
// rather than a typed value.
func (c *Client) DispatchBytes(dst, payload []byte) DispatchOutcome {
	name, ok := validateName(dst)
	if !ok {
		return c.record(OutcomeInvalidName)
	}
	return c.Dispatch(name, payload)
}

// Send is the error-typed form of Dispatch for Go callers: nil on a
// successful handoff, a *DispatchError carrying the outcome otherwise.
func (c *Client) Send(dst Name, payload []byte) error {
	return errFromOutcome(c.Dispatch(dst, payload))
}

// outcomeFromTransportError maps a transport handoff error onto the
// closed outcome taxonomy. Every exit of the dispatch engine lands on
// exactly one outcome.
func outcomeFromTransportError(err error) DispatchOutcome {
	switch {
	case err == nil:
		return OutcomeSent
	case errors.Is(err, transport.ErrUnroutable):
		return OutcomeRoutingFailure
	case errors.Is(err, transport.ErrQueueFull):
		return OutcomeBackpressure
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return OutcomeTimeout
	case errors.Is(err, transport.ErrTransportClosed):
		// The substrate went away under a Ready session; the state
		// transition had not been observed yet.
		return OutcomeNotReady
	default:
		// The transport violated its contract.
		return OutcomeInternalError
	}
}

// record updates the telemetry counters and passes the outcome through.
func (c *Client) record(outcome DispatchOutcome) DispatchOutcome {
	if outcome == OutcomeSent {
		c.sentCount.Add(1)
	} else {
		c.failedCount.Add(1)
	}
	return outcome
}
