package authguard

import (
	"context"
	"strings"
)

// ResolvedIdentity is the identity context for one authentication attempt.
// It is built once per request and never mutated after construction.
type ResolvedIdentity struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string

	// OrganizationMemberships holds the org codes the user belongs to.
	OrganizationMemberships []string

	// ApplicationOrgBinding is the org code the requesting application is
	// restricted to, when a binding is configured. Empty means unbound.
	ApplicationOrgBinding string
}

// MemberOf reports whether the identity belongs to the given org.
func (r ResolvedIdentity) MemberOf(code string) bool {
	for _, member := range r.OrganizationMemberships {
		if equalOrgCode(member, code) {
			return true
		}
	}
	return false
}

// FirstMembership returns the user's first org membership, or empty.
func (r ResolvedIdentity) FirstMembership() string {
	if len(r.OrganizationMemberships) == 0 {
		return ""
	}
	return r.OrganizationMemberships[0]
}

// Resolver is the identity context provider. It is a pure read path: it
// derives the identity from the event and, when organization context is
// missing, from the identity-management API.
type Resolver struct {
	api    IdentityAPI
	config PolicyConfig
	logger Logger
}

// NewResolver creates an identity context provider. The api may be nil when
// the deployment resolves everything from the event and static config.
func NewResolver(api IdentityAPI, config PolicyConfig, logger Logger) *Resolver {
	return &Resolver{
		api:    api,
		config: config,
		logger: normalizeLogger(logger),
	}
}

// Resolve builds the ResolvedIdentity for one event. Missing userId or
// clientId is a misconfiguration, not a policy denial. Remote failures
// propagate as upstream errors after a single retry; the caller fails closed.
func (r *Resolver) Resolve(ctx context.Context, event AuthEvent) (ResolvedIdentity, error) {
	if strings.TrimSpace(event.UserID) == "" {
		return ResolvedIdentity{}, errMisconfigured("event is missing userId")
	}
	if strings.TrimSpace(event.ClientID) == "" {
		return ResolvedIdentity{}, errMisconfigured("event is missing clientId")
	}

	identity := ResolvedIdentity{
		UserID: event.UserID,
		Email:  event.UserEmail,
	}

	if r.needsUserLookup(event) {
		user, err := r.lookupUser(ctx, event.UserID)
		if err != nil {
			return ResolvedIdentity{}, err
		}
		applyUserRecord(&identity, user)
	}

	binding, err := r.resolveBinding(ctx, event.ClientID)
	if err != nil {
		return ResolvedIdentity{}, err
	}
	identity.ApplicationOrgBinding = binding

	return identity, nil
}

// needsUserLookup reports whether policy evaluation requires the remote user
// record: membership data is needed by the membership rule, and by the
// first-membership fallback of the allow-list rule and claim enrichment when
// the event carries no org context.
func (r *Resolver) needsUserLookup(event AuthEvent) bool {
	if r.api == nil {
		return false
	}
	if r.config.RequireMembership {
		return true
	}
	if event.HasOrgContext() {
		return false
	}
	return len(r.config.AllowedOrganizations) > 0 || r.config.EnrichClaims
}

// lookupUser is a read against a stable record, so it is retried once with
// no backoff. Risk checks are never retried; see the pipeline.
func (r *Resolver) lookupUser(ctx context.Context, userID string) (*UserRecord, error) {
	user, err := r.api.GetUser(ctx, userID, true)
	if err != nil {
		r.logger.Debug("identity lookup for %s failed, retrying once: %v", userID, err)
		user, err = r.api.GetUser(ctx, userID, true)
	}
	if err != nil {
		r.logger.Error("identity lookup for %s failed: %v", userID, err)
		return nil, errUpstream("get_user", err)
	}
	if user == nil {
		return nil, errUpstream("get_user", nil)
	}
	return user, nil
}

func (r *Resolver) resolveBinding(ctx context.Context, clientID string) (string, error) {
	switch r.config.BindingSource {
	case BindingSourceStatic:
		code, _ := r.config.StaticBinding(clientID)
		return code, nil
	case BindingSourceRemote:
		return r.lookupBinding(ctx, clientID)
	default:
		return "", nil
	}
}

func (r *Resolver) lookupBinding(ctx context.Context, clientID string) (string, error) {
	if r.api == nil {
		return "", errMisconfigured("remote binding source requires an identity API client")
	}

	props, err := r.api.GetApplicationProperties(ctx, clientID)
	if err != nil {
		props, err = r.api.GetApplicationProperties(ctx, clientID)
	}
	if err != nil {
		r.logger.Error("application properties lookup for %s failed: %v", clientID, err)
		return "", errUpstream("get_application_properties", err)
	}

	for _, prop := range props {
		if prop.Key == AppOrgCodeProperty {
			return strings.TrimSpace(prop.Value), nil
		}
	}

	r.logger.Debug("application %s has no org_code property", clientID)
	return "", nil
}

func applyUserRecord(identity *ResolvedIdentity, user *UserRecord) {
	if email := firstNonEmpty(user.PreferredEmail, user.Email); email != "" {
		identity.Email = email
	}
	identity.FirstName = user.FirstName
	identity.LastName = user.LastName
	identity.OrganizationMemberships = append([]string(nil), user.Organizations...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
