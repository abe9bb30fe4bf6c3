package authguard

import "fmt"

// Decide evaluates policy for one authentication attempt. It is pure and
// deterministic: same inputs, same Decision, no I/O. Rules apply in a fixed
// order and the first matching terminal rule wins:
//
//  1. missing identity fields        -> deny (misconfiguration)
//  2. app-to-org binding mismatch    -> deny
//  3. org allow-list miss            -> deny
//  4. membership miss (when required) -> deny
//  5. risk decline                   -> deny
//  6. risk unknown                   -> deny unless explicitly relaxed
//  7. otherwise                      -> allow, enriched when configured
//
// The risk signal may be nil when no risk check ran; with risk denial
// enabled a nil signal is treated as unknown.
func Decide(event AuthEvent, identity ResolvedIdentity, risk *RiskSignal, config PolicyConfig) Decision {
	if identity.UserID == "" {
		return Deny(MsgMisconfigured, "resolved identity is missing the user id").
			withRule(RuleMisconfigured)
	}
	if event.ClientID == "" {
		return Deny(MsgMisconfigured, "event is missing the client id").
			withRule(RuleMisconfigured)
	}

	if binding := identity.ApplicationOrgBinding; binding != "" {
		current := event.CurrentOrgCode()
		if current == "" {
			return Deny(MsgOrgMismatch, fmt.Sprintf(
				"client %s is bound to org %s but the event carries no organization context",
				event.ClientID, binding,
			)).withRule(RuleBindingMismatch)
		}
		if !equalOrgCode(binding, current) {
			return Deny(MsgOrgMismatch, fmt.Sprintf(
				"client %s is bound to org %s, event org is %s",
				event.ClientID, binding, current,
			)).withRule(RuleBindingMismatch)
		}
	}

	effective := effectiveOrgCode(event, identity)

	if len(config.AllowedOrganizations) > 0 {
		if effective == "" || !config.AllowListed(effective) {
			return Deny(MsgOrgNotPermitted, fmt.Sprintf(
				"org %q is not on the allow-list", effective,
			)).withRule(RuleAllowList)
		}
	}

	if config.RequireMembership {
		if effective == "" || !identity.MemberOf(effective) {
			return Deny(MsgNotMember, fmt.Sprintf(
				"user %s is not a member of org %q", identity.UserID, effective,
			)).withRule(RuleMembership)
		}
	}

	if config.RiskDenial {
		signal := UnknownRiskSignal()
		if risk != nil {
			signal = *risk
		}

		if signal.State == RiskStateDecline {
			return Deny(MsgRiskBlocked, "risk service declined the attempt").
				withRule(RuleRiskDecline)
		}

		if signal.Unavailable() && !config.AllowOnRiskUnavailable {
			return Deny(MsgRiskUnavailable, fmt.Sprintf(
				"risk verification unavailable, state %q", signal.State,
			)).withRule(RuleRiskUnknown)
		}
	}

	if config.EnrichClaims {
		claims := map[string]any{
			ClaimClientID: event.ClientID,
		}
		if effective != "" {
			claims[ClaimOrgCode] = effective
		}
		if event.OrganizationName != "" {
			claims[ClaimOrgName] = event.OrganizationName
		}
		return AllowWithClaims(claims)
	}

	return Allow()
}

// effectiveOrgCode resolves the org in play for allow-list and membership
// checks: requested org code, then resolved organization context, then the
// user's first membership.
func effectiveOrgCode(event AuthEvent, identity ResolvedIdentity) string {
	if code := event.CurrentOrgCode(); code != "" {
		return code
	}
	return identity.FirstMembership()
}
