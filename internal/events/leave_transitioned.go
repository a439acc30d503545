package events

import "time"

const (
	LeaveTransitionsTopic      = "leave.transitions"
	LeaveTransitionedEventType = "leave.transitioned"
)

// LeaveTransitionedEvent is published (via the outbox) for every
// committed status change, one event per transition.
type LeaveTransitionedEvent struct {
	LeaveRequestID string    `json:"leave_request_id"`
	Action         string    `json:"action"`
	FromStatus     string    `json:"from_status"`
	ToStatus       string    `json:"to_status"`
	ActorID        string    `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}
