package authguard

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// BindingSource selects the authoritative source for application-to-org
// bindings. Exactly one source is authoritative per deployment.
type BindingSource string

const (
	// BindingSourceNone disables app-to-org binding enforcement.
	BindingSourceNone BindingSource = ""
	// BindingSourceStatic resolves bindings from PolicyConfig.ApplicationBindings.
	BindingSourceStatic BindingSource = "static"
	// BindingSourceRemote resolves bindings from the org_code property on the
	// application record fetched from the identity-management API.
	BindingSourceRemote BindingSource = "remote"
)

// AppOrgCodeProperty is the application property key carrying the org binding.
const AppOrgCodeProperty = "org_code"

// PolicyConfig is the static policy for one deployment. It is constructed
// once at startup, validated eagerly, and never mutated afterwards.
type PolicyConfig struct {
	// AllowedOrganizations is the global org allow-list. Empty disables the
	// allow-list rule.
	AllowedOrganizations []string

	// BindingSource picks where app-to-org bindings come from.
	BindingSource BindingSource

	// ApplicationBindings maps client id to the org code the application is
	// restricted to. Only read when BindingSource is static.
	ApplicationBindings map[string]string

	// RequireMembership additionally denies users that do not belong to the
	// organization they are authenticating into.
	RequireMembership bool

	// RiskDenial enables risk-based denial.
	RiskDenial bool

	// AllowOnRiskUnavailable relaxes the fail-closed default for
	// RiskStateUnknown. It affects only the unknown rule; declines still deny.
	AllowOnRiskUnavailable bool

	// EnrichClaims enables org/client claim enrichment on allow.
	EnrichClaims bool

	// RequestTimeout bounds the whole decision window for one attempt.
	// Zero uses DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// DefaultRequestTimeout bounds one authentication decision end to end.
const DefaultRequestTimeout = 5 * time.Second

// Validate checks the config eagerly so deployments fail at startup instead
// of per request.
func (c PolicyConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(
			&c.BindingSource,
			validation.In(BindingSourceNone, BindingSourceStatic, BindingSourceRemote),
		),
		validation.Field(
			&c.ApplicationBindings,
			validation.By(c.validateBindings),
		),
		validation.Field(
			&c.AllowedOrganizations,
			validation.By(validateOrgCodes),
		),
	)
}

func (c PolicyConfig) validateBindings(value any) error {
	bindings, _ := value.(map[string]string)

	if c.BindingSource != BindingSourceStatic && len(bindings) > 0 {
		return errors.New("application bindings are configured but the binding source is not static")
	}

	if c.BindingSource == BindingSourceStatic && len(bindings) == 0 {
		return errors.New("static binding source requires at least one application binding")
	}

	for clientID, orgCode := range bindings {
		if strings.TrimSpace(clientID) == "" || strings.TrimSpace(orgCode) == "" {
			return errors.New("application bindings must map a client id to an org code")
		}
	}

	return nil
}

func validateOrgCodes(value any) error {
	codes, _ := value.([]string)
	for _, code := range codes {
		if strings.TrimSpace(code) == "" {
			return errors.New("allow-listed org codes must not be blank")
		}
	}
	return nil
}

// AllowListed reports whether code is on the global allow-list. Comparison is
// exact on case-normalized codes; no partial or prefix matching.
func (c PolicyConfig) AllowListed(code string) bool {
	for _, allowed := range c.AllowedOrganizations {
		if equalOrgCode(allowed, code) {
			return true
		}
	}
	return false
}

// StaticBinding returns the configured org code for clientID, if any.
func (c PolicyConfig) StaticBinding(clientID string) (string, bool) {
	code, ok := c.ApplicationBindings[clientID]
	if !ok || strings.TrimSpace(code) == "" {
		return "", false
	}
	return code, true
}

func (c PolicyConfig) requestTimeout() time.Duration {
	if c.RequestTimeout > 0 {
		return c.RequestTimeout
	}
	return DefaultRequestTimeout
}

func equalOrgCode(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
