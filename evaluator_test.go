package authguard_test

import (
	"testing"

	authguard "github.com/goliatone/go-authguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signal(state authguard.RiskState) *authguard.RiskSignal {
	return &authguard.RiskSignal{State: state}
}

func TestDecide_MissingIdentityFields(t *testing.T) {
	t.Run("missing user id", func(t *testing.T) {
		decision := authguard.Decide(
			authguard.AuthEvent{ClientID: "client-1"},
			authguard.ResolvedIdentity{},
			nil,
			authguard.PolicyConfig{},
		)

		assert.True(t, decision.Denied())
		assert.Equal(t, authguard.RuleMisconfigured, decision.Rule)
		assert.Equal(t, authguard.MsgMisconfigured, decision.UserMessage)
	})

	t.Run("missing client id denies regardless of other fields", func(t *testing.T) {
		decision := authguard.Decide(
			authguard.AuthEvent{
				UserID:           "user-1",
				UserEmail:        "user@example.com",
				RequestedOrgCode: "org_123",
				OrganizationCode: "org_123",
			},
			authguard.ResolvedIdentity{
				UserID:                  "user-1",
				OrganizationMemberships: []string{"org_123"},
			},
			signal(authguard.RiskStateApprove),
			authguard.PolicyConfig{
				AllowedOrganizations: []string{"org_123"},
			},
		)

		assert.True(t, decision.Denied())
		assert.Equal(t, authguard.RuleMisconfigured, decision.Rule)
	})
}

func TestDecide_ScenarioA_BoundClientMatchingOrg(t *testing.T) {
	event := authguard.AuthEvent{
		UserID:           "user-1",
		ClientID:         "client-1",
		RequestedOrgCode: "org_123",
	}
	identity := authguard.ResolvedIdentity{
		UserID:                  "user-1",
		OrganizationMemberships: []string{"org_123"},
		ApplicationOrgBinding:   "org_123",
	}

	t.Run("plain allow without enrichment", func(t *testing.T) {
		decision := authguard.Decide(event, identity, nil, authguard.PolicyConfig{
			BindingSource:       authguard.BindingSourceStatic,
			ApplicationBindings: map[string]string{"client-1": "org_123"},
		})

		assert.Equal(t, authguard.OutcomeAllow, decision.Outcome)
	})

	t.Run("enriched allow carries org code", func(t *testing.T) {
		decision := authguard.Decide(event, identity, nil, authguard.PolicyConfig{
			BindingSource:       authguard.BindingSourceStatic,
			ApplicationBindings: map[string]string{"client-1": "org_123"},
			EnrichClaims:        true,
		})

		require.Equal(t, authguard.OutcomeAllowWithClaims, decision.Outcome)
		assert.Equal(t, "org_123", decision.Claims[authguard.ClaimOrgCode])
		assert.Equal(t, "client-1", decision.Claims[authguard.ClaimClientID])
	})
}

func TestDecide_ScenarioB_BindingMismatch(t *testing.T) {
	decision := authguard.Decide(
		authguard.AuthEvent{
			UserID:           "user-1",
			ClientID:         "client-1",
			RequestedOrgCode: "org_123",
		},
		authguard.ResolvedIdentity{
			UserID:                  "user-1",
			OrganizationMemberships: []string{"org_123"},
			ApplicationOrgBinding:   "org_999",
		},
		nil,
		authguard.PolicyConfig{},
	)

	assert.True(t, decision.Denied())
	assert.Equal(t, authguard.RuleBindingMismatch, decision.Rule)
	assert.Equal(t, authguard.MsgOrgMismatch, decision.UserMessage)
}

func TestDecide_BindingPrecedesAllowList(t *testing.T) {
	// the event org is on the global allow-list, but the binding check runs
	// first and must still deny
	decision := authguard.Decide(
		authguard.AuthEvent{
			UserID:           "user-1",
			ClientID:         "client-1",
			RequestedOrgCode: "org_123",
		},
		authguard.ResolvedIdentity{
			UserID:                "user-1",
			ApplicationOrgBinding: "org_999",
		},
		nil,
		authguard.PolicyConfig{
			AllowedOrganizations: []string{"org_123"},
		},
	)

	assert.True(t, decision.Denied())
	assert.Equal(t, authguard.RuleBindingMismatch, decision.Rule)
}

func TestDecide_BindingWithoutOrgContext(t *testing.T) {
	decision := authguard.Decide(
		authguard.AuthEvent{UserID: "user-1", ClientID: "client-1"},
		authguard.ResolvedIdentity{
			UserID:                "user-1",
			ApplicationOrgBinding: "org_123",
		},
		nil,
		authguard.PolicyConfig{},
	)

	assert.True(t, decision.Denied())
	assert.Equal(t, authguard.RuleBindingMismatch, decision.Rule)
}

func TestDecide_ScenarioC_AllowListMiss(t *testing.T) {
	decision := authguard.Decide(
		authguard.AuthEvent{
			UserID:           "user-1",
			ClientID:         "client-1",
			OrganizationCode: "org_c",
		},
		authguard.ResolvedIdentity{UserID: "user-1"},
		nil,
		authguard.PolicyConfig{
			AllowedOrganizations: []string{"org_a", "org_b"},
		},
	)

	assert.True(t, decision.Denied())
	assert.Equal(t, authguard.RuleAllowList, decision.Rule)
	assert.Equal(t, authguard.MsgOrgNotPermitted, decision.UserMessage)
}

func TestDecide_AllowListFallsBackToFirstMembership(t *testing.T) {
	identity := authguard.ResolvedIdentity{
		UserID:                  "user-1",
		OrganizationMemberships: []string{"org_a", "org_z"},
	}
	event := authguard.AuthEvent{UserID: "user-1", ClientID: "client-1"}

	decision := authguard.Decide(event, identity, nil, authguard.PolicyConfig{
		AllowedOrganizations: []string{"org_a"},
	})
	assert.True(t, decision.Allowed())

	decision = authguard.Decide(event, authguard.ResolvedIdentity{
		UserID:                  "user-1",
		OrganizationMemberships: []string{"org_z"},
	}, nil, authguard.PolicyConfig{
		AllowedOrganizations: []string{"org_a"},
	})
	assert.True(t, decision.Denied())
}

func TestDecide_OrgCodesCompareCaseNormalized(t *testing.T) {
	decision := authguard.Decide(
		authguard.AuthEvent{
			UserID:           "user-1",
			ClientID:         "client-1",
			RequestedOrgCode: "ORG_123",
		},
		authguard.ResolvedIdentity{
			UserID:                "user-1",
			ApplicationOrgBinding: "org_123",
		},
		nil,
		authguard.PolicyConfig{
			AllowedOrganizations: []string{"org_123"},
		},
	)

	assert.True(t, decision.Allowed())
}

func TestDecide_NoPrefixMatching(t *testing.T) {
	decision := authguard.Decide(
		authguard.AuthEvent{
			UserID:           "user-1",
			ClientID:         "client-1",
			RequestedOrgCode: "org_1234",
		},
		authguard.ResolvedIdentity{UserID: "user-1"},
		nil,
		authguard.PolicyConfig{
			AllowedOrganizations: []string{"org_123"},
		},
	)

	assert.True(t, decision.Denied())
}

func TestDecide_ScenarioD_RiskDecline(t *testing.T) {
	// all org checks pass, the decline still denies
	decision := authguard.Decide(
		authguard.AuthEvent{
			UserID:           "user-1",
			ClientID:         "client-1",
			RequestedOrgCode: "org_123",
		},
		authguard.ResolvedIdentity{
			UserID:                "user-1",
			ApplicationOrgBinding: "org_123",
		},
		signal(authguard.RiskStateDecline),
		authguard.PolicyConfig{
			AllowedOrganizations: []string{"org_123"},
			RiskDenial:           true,
		},
	)

	assert.True(t, decision.Denied())
	assert.Equal(t, authguard.RuleRiskDecline, decision.Rule)
	assert.Equal(t, authguard.MsgRiskBlocked, decision.UserMessage)
}

func TestDecide_ScenarioE_RiskUnknownFailsClosed(t *testing.T) {
	event := authguard.AuthEvent{UserID: "user-1", ClientID: "client-1"}
	identity := authguard.ResolvedIdentity{UserID: "user-1"}

	t.Run("unknown denies by default", func(t *testing.T) {
		decision := authguard.Decide(event, identity, signal(authguard.RiskStateUnknown), authguard.PolicyConfig{
			RiskDenial: true,
		})

		assert.True(t, decision.Denied())
		assert.Equal(t, authguard.RuleRiskUnknown, decision.Rule)
		assert.Equal(t, authguard.MsgRiskUnavailable, decision.UserMessage)
	})

	t.Run("nil signal is treated as unknown", func(t *testing.T) {
		decision := authguard.Decide(event, identity, nil, authguard.PolicyConfig{
			RiskDenial: true,
		})

		assert.True(t, decision.Denied())
		assert.Equal(t, authguard.RuleRiskUnknown, decision.Rule)
	})

	t.Run("relax toggle flips only the unknown rule", func(t *testing.T) {
		relaxed := authguard.PolicyConfig{
			RiskDenial:             true,
			AllowOnRiskUnavailable: true,
		}

		decision := authguard.Decide(event, identity, signal(authguard.RiskStateUnknown), relaxed)
		assert.True(t, decision.Allowed())

		decision = authguard.Decide(event, identity, signal(authguard.RiskStateDecline), relaxed)
		assert.True(t, decision.Denied())
		assert.Equal(t, authguard.RuleRiskDecline, decision.Rule)
	})

	t.Run("risk denial disabled ignores the signal", func(t *testing.T) {
		decision := authguard.Decide(event, identity, signal(authguard.RiskStateDecline), authguard.PolicyConfig{})
		assert.True(t, decision.Allowed())
	})
}

func TestDecide_MembershipToggle(t *testing.T) {
	event := authguard.AuthEvent{
		UserID:           "user-1",
		ClientID:         "client-1",
		OrganizationCode: "org_123",
	}

	config := authguard.PolicyConfig{RequireMembership: true}

	decision := authguard.Decide(event, authguard.ResolvedIdentity{
		UserID:                  "user-1",
		OrganizationMemberships: []string{"org_123"},
	}, nil, config)
	assert.True(t, decision.Allowed())

	decision = authguard.Decide(event, authguard.ResolvedIdentity{
		UserID:                  "user-1",
		OrganizationMemberships: []string{"org_999"},
	}, nil, config)
	assert.True(t, decision.Denied())
	assert.Equal(t, authguard.RuleMembership, decision.Rule)
	assert.Equal(t, authguard.MsgNotMember, decision.UserMessage)
}

func TestDecide_EnrichmentClaims(t *testing.T) {
	decision := authguard.Decide(
		authguard.AuthEvent{
			UserID:           "user-1",
			ClientID:         "client-1",
			OrganizationCode: "org_123",
			OrganizationName: "Acme",
		},
		authguard.ResolvedIdentity{UserID: "user-1"},
		nil,
		authguard.PolicyConfig{EnrichClaims: true},
	)

	require.Equal(t, authguard.OutcomeAllowWithClaims, decision.Outcome)
	assert.Equal(t, "org_123", decision.Claims[authguard.ClaimOrgCode])
	assert.Equal(t, "Acme", decision.Claims[authguard.ClaimOrgName])
	assert.Equal(t, "client-1", decision.Claims[authguard.ClaimClientID])
}

func TestDecide_Idempotent(t *testing.T) {
	event := authguard.AuthEvent{
		UserID:           "user-1",
		ClientID:         "client-1",
		RequestedOrgCode: "org_123",
	}
	identity := authguard.ResolvedIdentity{
		UserID:                  "user-1",
		OrganizationMemberships: []string{"org_123"},
		ApplicationOrgBinding:   "org_123",
	}
	config := authguard.PolicyConfig{
		AllowedOrganizations: []string{"org_123"},
		RiskDenial:           true,
		EnrichClaims:         true,
	}

	first := authguard.Decide(event, identity, signal(authguard.RiskStateApprove), config)
	second := authguard.Decide(event, identity, signal(authguard.RiskStateApprove), config)

	assert.Equal(t, first, second)
}
