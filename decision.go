package authguard

// Outcome enumerates the terminal pipeline verdicts.
type Outcome string

const (
	OutcomeAllow           Outcome = "allow"
	OutcomeAllowWithClaims Outcome = "allow_with_claims"
	OutcomeDeny            Outcome = "deny"
)

// Rule identifiers recorded on decisions for auditing.
const (
	RuleMisconfigured   = "misconfigured"
	RuleBindingMismatch = "binding_mismatch"
	RuleAllowList       = "allow_list"
	RuleMembership      = "membership"
	RuleRiskDecline     = "risk_decline"
	RuleRiskUnknown     = "risk_unknown"
	RuleClaimConflict   = "claim_conflict"
	RuleUpstreamFailure = "upstream_failure"
	RulePasswordGate    = "password_gate"
)

// User-facing denial messages. These are deliberately distinct from the
// internal reasons recorded for operators.
const (
	MsgMisconfigured     = "App misconfiguration."
	MsgOrgMismatch       = "Access denied. Organization mismatch."
	MsgOrgNotPermitted   = "Access denied. Your organization is not permitted."
	MsgNotMember         = "Access denied. You are not a member of this organization."
	MsgRiskBlocked       = "Access blocked due to impossible travel risk."
	MsgRiskUnavailable   = "Access blocked. Risk verification is unavailable."
	MsgVerifyUnavailable = "Access denied. Identity verification is unavailable."
	MsgClaimConflict     = "Access blocked. Token could not be issued safely."
	MsgWeakPassword      = "Password is too weak. Please choose a stronger password."
)

// Claim names written by enrichment.
const (
	ClaimOrgCode                = "orgCode"
	ClaimOrgName                = "orgName"
	ClaimClientID               = "clientId"
	ClaimExternalOrganizationID = "external_organization_id"
)

// Decision is the single terminal output of the pipeline for one request.
// Exactly one variant is produced per attempt; once a deny is produced no
// further claim enrichment occurs.
type Decision struct {
	Outcome Outcome

	// Claims holds the enrichment entries for OutcomeAllowWithClaims.
	Claims map[string]any

	// UserMessage is the human-readable denial reason shown to the end user.
	UserMessage string

	// InternalReason is the diagnostic detail for operators. It is logged
	// and audited, never surfaced to the end user.
	InternalReason string

	// Rule names the policy rule that produced the verdict.
	Rule string
}

// Allow produces a plain allow with no enrichment.
func Allow() Decision {
	return Decision{Outcome: OutcomeAllow}
}

// AllowWithClaims produces an allow that enriches the outgoing token. The
// claim map is copied so callers cannot mutate the decision afterwards.
func AllowWithClaims(claims map[string]any) Decision {
	if len(claims) == 0 {
		return Allow()
	}
	copied := make(map[string]any, len(claims))
	for k, v := range claims {
		copied[k] = v
	}
	return Decision{Outcome: OutcomeAllowWithClaims, Claims: copied}
}

// Deny produces a denial carrying both the user-facing message and the
// internal diagnostic reason.
func Deny(userMessage, internalReason string) Decision {
	return Decision{
		Outcome:        OutcomeDeny,
		UserMessage:    userMessage,
		InternalReason: internalReason,
	}
}

// Allowed reports whether the flow may proceed.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow || d.Outcome == OutcomeAllowWithClaims
}

// Denied reports whether the flow must halt.
func (d Decision) Denied() bool {
	return d.Outcome == OutcomeDeny
}

func (d Decision) withRule(rule string) Decision {
	d.Rule = rule
	return d
}
