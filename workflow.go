package authguard

import "context"

// PostAuthHandler is the host-facing shape of one post-authentication
// interception: it consumes the host's event snapshot and the outgoing
// token, and reports the enforced decision.
type PostAuthHandler func(ctx context.Context, event AuthEvent, token ClaimWriter) Decision

// PostAuthentication wires the pipeline and enforcer into a single handler a
// host adapter can bind to its post-authentication trigger. The decision
// logic stays host-agnostic; only the event shape and halting primitive are
// host-specific.
func PostAuthentication(pipeline *Pipeline, enforcer *Enforcer) PostAuthHandler {
	return func(ctx context.Context, event AuthEvent, token ClaimWriter) Decision {
		decision := pipeline.Authorize(ctx, event)
		return enforcer.Apply(ctx, decision, token)
	}
}
