package authguard

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// IdentityAPI is the read-only surface of the identity-management API the
// pipeline depends on. Implementations live under provider/.
type IdentityAPI interface {
	// GetUser fetches a user record by id, optionally expanding the
	// organizations list.
	GetUser(ctx context.Context, id string, expandOrganizations bool) (*UserRecord, error)
	// GetApplicationProperties fetches the property bag attached to an
	// application record.
	GetApplicationProperties(ctx context.Context, clientID string) ([]ApplicationProperty, error)
}

// UserRecord is the normalized shape of a remote user lookup.
type UserRecord struct {
	ID             string
	Email          string
	PreferredEmail string
	FirstName      string
	LastName       string
	// Organizations holds org codes regardless of which wire shape the
	// deployment returns them in.
	Organizations []string
}

// ApplicationProperty is one entry of an application's property bag.
type ApplicationProperty struct {
	Key   string
	Value string
}

// IdentityResolver resolves the identity context for one authentication event.
type IdentityResolver interface {
	Resolve(ctx context.Context, event AuthEvent) (ResolvedIdentity, error)
}

// IdentityResolverFunc adapts a function into an IdentityResolver.
type IdentityResolverFunc func(ctx context.Context, event AuthEvent) (ResolvedIdentity, error)

// Resolve satisfies the IdentityResolver interface.
func (f IdentityResolverFunc) Resolve(ctx context.Context, event AuthEvent) (ResolvedIdentity, error) {
	if f == nil {
		return ResolvedIdentity{}, errMisconfigured("identity resolver is nil")
	}
	return f(ctx, event)
}

// RiskEvaluator scores one authentication attempt. Implementations must map
// every failure mode to RiskStateUnknown instead of returning an error; the
// policy evaluator owns the fail-safe semantics of unknown.
type RiskEvaluator interface {
	Evaluate(ctx context.Context, payload RiskPayload) RiskSignal
}

// RiskEvaluatorFunc adapts a function into a RiskEvaluator.
type RiskEvaluatorFunc func(ctx context.Context, payload RiskPayload) RiskSignal

// Evaluate satisfies the RiskEvaluator interface.
func (f RiskEvaluatorFunc) Evaluate(ctx context.Context, payload RiskPayload) RiskSignal {
	if f == nil {
		return UnknownRiskSignal()
	}
	return f(ctx, payload)
}

// PasswordScorer is an opaque external password strength scorer.
type PasswordScorer interface {
	Score(ctx context.Context, password string) (int, error)
}

// PasswordScorerFunc adapts a function into a PasswordScorer.
type PasswordScorerFunc func(ctx context.Context, password string) (int, error)

// Score satisfies the PasswordScorer interface.
func (f PasswordScorerFunc) Score(ctx context.Context, password string) (int, error) {
	if f == nil {
		return 0, errMisconfigured("password scorer is nil")
	}
	return f(ctx, password)
}

// HaltFunc is the host runtime primitive that stops the authentication or
// token-issuance flow and surfaces a user-facing message. It is assumed
// non-blocking and final.
type HaltFunc func(ctx context.Context, userMessage string)

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTHGUARD "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTHGUARD "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTHGUARD "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

func normalizeLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}
