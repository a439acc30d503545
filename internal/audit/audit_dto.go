package audit

import "time"

type TransitionResponse struct {
	ID             string  `json:"id"`
	LeaveRequestID string  `json:"leave_request_id,omitempty"`
	Action         string  `json:"action"`
	By             *string `json:"by"`
	Timestamp      string  `json:"timestamp"`
}

// MapToResponse serializes a record for the per-request transitions list
// embedded in a leave request payload (no leave_request_id there).
func MapToResponse(t Transition) TransitionResponse {
	resp := TransitionResponse{
		ID:        t.ID.String(),
		Action:    t.Action,
		Timestamp: t.Timestamp.UTC().Format(time.RFC3339),
	}
	if t.By != nil {
		v := t.By.Username
		resp.By = &v
	}
	return resp
}

// mapToAuditResponse additionally carries the request reference, which
// the global HR view needs to be readable.
func mapToAuditResponse(t Transition) TransitionResponse {
	resp := MapToResponse(t)
	resp.LeaveRequestID = t.LeaveRequestID.String()
	return resp
}

func MapToListResponse(transitions []Transition) []TransitionResponse {
	resp := make([]TransitionResponse, len(transitions))
	for i, t := range transitions {
		resp[i] = MapToResponse(t)
	}
	return resp
}
