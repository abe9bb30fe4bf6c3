package authguard

import (
	"github.com/golang-jwt/jwt/v5"
)

// reservedClaimNames are the platform-owned claim names enrichment may never
// touch. Registered JWT claims plus the platform identity extensions.
var reservedClaimNames = map[string]struct{}{
	"sub":   {},
	"iss":   {},
	"aud":   {},
	"exp":   {},
	"iat":   {},
	"nbf":   {},
	"jti":   {},
	"uid":   {},
	"azp":   {},
	"scope": {},
}

// IsReservedClaim reports whether name is a platform-reserved claim name.
func IsReservedClaim(name string) bool {
	_, ok := reservedClaimNames[name]
	return ok
}

// TokenClaims is the outgoing token's claim set: the registered claims the
// platform owns plus an extension map enrichment is allowed to write.
type TokenClaims struct {
	jwt.RegisteredClaims
	UID string `json:"uid,omitempty"`
	// Extra holds enrichment claims. Keys never collide with reserved names;
	// SetClaim rejects collisions.
	Extra map[string]any `json:"ext,omitempty"`
}

// SetClaim writes one enrichment claim, rejecting reserved names.
func (c *TokenClaims) SetClaim(name string, value any) error {
	if IsReservedClaim(name) {
		return errClaimConflict(name)
	}
	if c.Extra == nil {
		c.Extra = map[string]any{}
	}
	c.Extra[name] = value
	return nil
}

// Claim returns an enrichment claim previously written with SetClaim.
func (c *TokenClaims) Claim(name string) (any, bool) {
	v, ok := c.Extra[name]
	return v, ok
}

// ClaimWriter is the mutation surface the enforcer needs on an outgoing
// token. *TokenClaims implements it; host adapters may bring their own.
type ClaimWriter interface {
	SetClaim(name string, value any) error
}

var _ ClaimWriter = (*TokenClaims)(nil)
