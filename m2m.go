package authguard

import (
	"context"
	"strings"
)

// ExternalOrgIDProperty is the application property mapped onto M2M tokens.
const ExternalOrgIDProperty = "external_organization_id"

// M2MEnricher decorates machine-to-machine tokens with the external
// organization id configured on the requesting application.
type M2MEnricher struct {
	api    IdentityAPI
	logger Logger
}

// NewM2MEnricher creates an M2M token enricher.
func NewM2MEnricher(api IdentityAPI, logger Logger) (*M2MEnricher, error) {
	if api == nil {
		return nil, errMisconfigured("identity API client is required")
	}
	return &M2MEnricher{
		api:    api,
		logger: normalizeLogger(logger),
	}, nil
}

// EnrichM2MToken resolves the application's property bag and enriches the
// token with external_organization_id when configured. An application
// without the property is allowed through unchanged; upstream failures deny
// so no unverified token is issued.
func (m *M2MEnricher) EnrichM2MToken(ctx context.Context, clientID string) Decision {
	if strings.TrimSpace(clientID) == "" {
		return Deny(MsgMisconfigured, "m2m event is missing the client id").
			withRule(RuleMisconfigured)
	}

	props, err := m.api.GetApplicationProperties(ctx, clientID)
	if err != nil {
		props, err = m.api.GetApplicationProperties(ctx, clientID)
	}
	if err != nil {
		m.logger.Error("m2m application properties lookup for %s failed: %v", clientID, err)
		return Deny(MsgVerifyUnavailable, "application properties unavailable: "+err.Error()).
			withRule(RuleUpstreamFailure)
	}

	for _, prop := range props {
		if prop.Key == ExternalOrgIDProperty && strings.TrimSpace(prop.Value) != "" {
			return AllowWithClaims(map[string]any{
				ClaimExternalOrganizationID: prop.Value,
			})
		}
	}

	m.logger.Info("application %s has no external_organization_id property", clientID)
	return Allow()
}
