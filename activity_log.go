package authguard

import (
	"context"
	"encoding/json"
)

// NewLogActivitySink returns a sink that emits each activity event as one
// structured JSON line through the given logger. Useful as a default audit
// trail when no dedicated sink is wired.
func NewLogActivitySink(logger Logger) ActivitySink {
	logger = normalizeLogger(logger)
	return ActivitySinkFunc(func(_ context.Context, event ActivityEvent) error {
		entry := map[string]any{
			"type":        "audit",
			"event":       string(event.EventType),
			"decision_id": event.DecisionID,
			"occurred_at": event.OccurredAt,
		}
		if event.UserID != "" {
			entry["user_id"] = event.UserID
		}
		if event.ClientID != "" {
			entry["client_id"] = event.ClientID
		}
		if event.OrgCode != "" {
			entry["org_code"] = event.OrgCode
		}
		if event.Rule != "" {
			entry["rule"] = event.Rule
		}
		if event.InternalReason != "" {
			entry["reason"] = event.InternalReason
		}
		if event.RiskState != "" {
			entry["risk_state"] = string(event.RiskState)
		}
		for k, v := range event.Metadata {
			entry[k] = v
		}

		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}

		logger.Info("%s", string(data))
		return nil
	})
}
