package authguard

import (
	"context"
	"sort"
)

// Enforcer applies a Decision exactly once per request: it halts the
// authentication or token-issuance flow on deny, or writes enrichment claims
// into the outgoing token.
type Enforcer struct {
	halt   HaltFunc
	logger Logger
}

// NewEnforcer creates a decision enforcer around the host runtime's halting
// primitive.
func NewEnforcer(halt HaltFunc, logger Logger) (*Enforcer, error) {
	if halt == nil {
		return nil, errMisconfigured("halt primitive is required")
	}
	return &Enforcer{
		halt:   halt,
		logger: normalizeLogger(logger),
	}, nil
}

// Apply executes the decision and returns the decision that was actually
// enforced. An enrichment that collides with a reserved claim name degrades
// to a claim-conflict deny before any claim is written; the halt primitive
// is invoked at most once.
func (e *Enforcer) Apply(ctx context.Context, decision Decision, token ClaimWriter) Decision {
	if decision.Denied() {
		e.logger.Info("halting flow: rule=%s reason=%s", decision.Rule, decision.InternalReason)
		e.halt(ctx, decision.UserMessage)
		return decision
	}

	if decision.Outcome != OutcomeAllowWithClaims || len(decision.Claims) == 0 {
		return decision
	}

	if token == nil {
		conflict := Deny(MsgClaimConflict, "no token available for claim enrichment").
			withRule(RuleClaimConflict)
		e.halt(ctx, conflict.UserMessage)
		return conflict
	}

	// validate before writing so a conflict leaves the token untouched
	for _, name := range sortedClaimNames(decision.Claims) {
		if IsReservedClaim(name) {
			conflict := Deny(MsgClaimConflict, "enrichment claim "+name+" collides with a reserved claim").
				withRule(RuleClaimConflict)
			e.logger.Error("claim enrichment rejected, %q is reserved", name)
			e.halt(ctx, conflict.UserMessage)
			return conflict
		}
	}

	for _, name := range sortedClaimNames(decision.Claims) {
		if err := token.SetClaim(name, decision.Claims[name]); err != nil {
			conflict := Deny(MsgClaimConflict, err.Error()).withRule(RuleClaimConflict)
			e.logger.Error("claim enrichment failed for %q: %v", name, err)
			e.halt(ctx, conflict.UserMessage)
			return conflict
		}
	}

	return decision
}

func sortedClaimNames(claims map[string]any) []string {
	names := make([]string, 0, len(claims))
	for name := range claims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
