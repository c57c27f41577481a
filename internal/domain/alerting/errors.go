package alerting

import "errors"

// Alert gate errors
var (
	ErrGateBusy        = errors.New("alerting: an alert is already open")
	ErrGateClosed      = errors.New("alerting: no alert is open")
	ErrInvalidState    = errors.New("alerting: operation not allowed in current gate state")
	ErrOrderIDRequired = errors.New("alerting: decision requires an order ID")
	ErrReasonRequired  = errors.New("alerting: reject requires a non-empty reason")
	ErrInvalidAction   = errors.New("alerting: unknown decision action")
)

// Alarm errors
var (
	ErrResourceUnavailable = errors.New("alerting: alarm resource unavailable")
	ErrPlaybackDenied      = errors.New("alerting: playback denied, user gesture required")
)

// Upstream boundary errors
var (
	ErrUpstreamUnavailable     = errors.New("alerting: upstream temporarily unavailable")
	ErrUpstreamRequestFailed   = errors.New("alerting: upstream request failed")
	ErrUpstreamInvalidResponse = errors.New("alerting: invalid upstream response")
	ErrDecisionRejected        = errors.New("alerting: upstream rejected the decision")
	ErrOrderNotFound           = errors.New("alerting: order not found upstream")
)
