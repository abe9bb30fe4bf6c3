package authguard

import "strings"

const (
	// EventTypeLogin marks an authentication of an existing user record.
	EventTypeLogin = "account_login"
	// EventTypeRegister marks an authentication that created a new user record.
	EventTypeRegister = "account_register"

	// UnknownIP is the sentinel used when the event carries no usable
	// source address. IP extraction never fails.
	UnknownIP = "unknown"
)

// AuthEvent is an immutable snapshot of one authentication attempt as handed
// over by the host runtime. The pipeline only reads it.
type AuthEvent struct {
	UserID    string
	UserEmail string
	ClientID  string

	// RequestedOrgCode is the org code carried on the login URL parameters,
	// when present.
	RequestedOrgCode string

	// SourceIP may be a single address or a comma-separated forwarded-for
	// proxy chain.
	SourceIP string

	IsNewUserRecord bool

	// OrganizationCode and OrganizationName describe the organization
	// context already resolved by the platform, when present on the event.
	OrganizationCode string
	OrganizationName string
}

// ClientIP returns the first entry of the forwarded-for chain, trimmed, or
// UnknownIP when the event carries no usable address.
func (e AuthEvent) ClientIP() string {
	first, _, _ := strings.Cut(e.SourceIP, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return UnknownIP
	}
	return first
}

// EventType classifies the attempt for risk scoring.
func (e AuthEvent) EventType() string {
	if e.IsNewUserRecord {
		return EventTypeRegister
	}
	return EventTypeLogin
}

// HasOrgContext reports whether the platform already resolved an organization
// for this attempt.
func (e AuthEvent) HasOrgContext() bool {
	return strings.TrimSpace(e.OrganizationCode) != "" ||
		strings.TrimSpace(e.RequestedOrgCode) != ""
}

// CurrentOrgCode returns the organization the user is authenticating into:
// the requested org code when present, otherwise the resolved organization
// context. Empty when neither is known.
func (e AuthEvent) CurrentOrgCode() string {
	if code := strings.TrimSpace(e.RequestedOrgCode); code != "" {
		return code
	}
	return strings.TrimSpace(e.OrganizationCode)
}
