package authguard

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventDecisionAllow   ActivityEventType = "authz.decision.allow"
	ActivityEventDecisionEnrich  ActivityEventType = "authz.decision.enrich"
	ActivityEventDecisionDeny    ActivityEventType = "authz.decision.deny"
	ActivityEventRiskUnavailable ActivityEventType = "authz.risk.unavailable"
)

// ActivityEvent captures audit-friendly information about one decision. The
// internal reason lives here and in logs only; it is never shown to the end
// user.
type ActivityEvent struct {
	EventType      ActivityEventType
	DecisionID     string
	UserID         string
	ClientID       string
	OrgCode        string
	Rule           string
	InternalReason string
	RiskState      RiskState
	Metadata       map[string]any
	OccurredAt     time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
