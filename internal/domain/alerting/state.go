package alerting

// GateState is the alert gate's primary state. The gate is a strict
// state machine: Closed -> FetchingDetail -> AwaitingDecision ->
// Submitting -> Closed, with AwaitingRejectReason nested between
// AwaitingDecision and Submitting on the reject path. There is no
// transition for dismissing an open gate without a decision.
type GateState string

const (
	GateClosed               GateState = "CLOSED"
	GateFetchingDetail       GateState = "FETCHING_DETAIL"
	GateAwaitingDecision     GateState = "AWAITING_DECISION"
	GateAwaitingRejectReason GateState = "AWAITING_REJECT_REASON"
	GateSubmitting           GateState = "SUBMITTING"
)

// IsOpen reports whether the gate currently holds an unresolved order.
func (s GateState) IsOpen() bool {
	return s != GateClosed
}

// CanDecide reports whether the seller may issue a decision in this state.
func (s GateState) CanDecide() bool {
	return s == GateAwaitingDecision || s == GateAwaitingRejectReason
}

// AlarmPhase is the lifecycle phase of the shared audio alarm.
type AlarmPhase string

const (
	AlarmIdle         AlarmPhase = "IDLE"
	AlarmInitializing AlarmPhase = "INITIALIZING"
	AlarmPlaying      AlarmPhase = "PLAYING"
	AlarmStopped      AlarmPhase = "STOPPED"
)
