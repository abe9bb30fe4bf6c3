package authguard

import "encoding/json"

// RiskState is the normalized verdict of the external risk service.
type RiskState string

const (
	RiskStateApprove RiskState = "approve"
	RiskStateDecline RiskState = "decline"
	// RiskStateUnknown is the deliberate fail-safe state produced when the
	// remote call fails or its response cannot be parsed.
	RiskStateUnknown RiskState = "unknown"
)

// RiskSignal is the outcome of one risk check.
type RiskSignal struct {
	State RiskState
	// RawScore is the opaque provider payload, kept for auditing only.
	RawScore json.RawMessage
}

// UnknownRiskSignal returns the fail-safe signal.
func UnknownRiskSignal() RiskSignal {
	return RiskSignal{State: RiskStateUnknown}
}

// Unavailable reports whether the signal carries no usable verdict.
func (s RiskSignal) Unavailable() bool {
	return s.State != RiskStateApprove && s.State != RiskStateDecline
}

// RiskUser identifies the subject of a risk evaluation.
type RiskUser struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RiskPayload is the fixed request body sent to the risk service.
type RiskPayload struct {
	IP        string   `json:"ip"`
	Email     string   `json:"email"`
	User      RiskUser `json:"user"`
	EventType string   `json:"event_type"`
}

// BuildRiskPayload assembles the risk request for one attempt. The identity
// is optional and the payload falls back to the fields present on the event.
// The pipeline always passes nil so the risk call never waits on the
// identity lookup; hosts that already hold a ResolvedIdentity can pass it to
// fill in the name fields.
func BuildRiskPayload(identity *ResolvedIdentity, event AuthEvent) RiskPayload {
	payload := RiskPayload{
		IP:        event.ClientIP(),
		Email:     event.UserEmail,
		User:      RiskUser{UserID: event.UserID},
		EventType: event.EventType(),
	}

	if identity != nil {
		if identity.Email != "" {
			payload.Email = identity.Email
		}
		if identity.UserID != "" {
			payload.User.UserID = identity.UserID
		}
		payload.User.FirstName = identity.FirstName
		payload.User.LastName = identity.LastName
	}

	return payload
}
