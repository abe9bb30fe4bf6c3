package authguard

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeMisconfigured       = "authguard_misconfigured"
	TextCodeUpstreamUnavailable = "authguard_upstream_unavailable"
	TextCodeClaimConflict       = "authguard_claim_conflict"
)

// ErrMisconfigured indicates missing required configuration or event fields.
// Misconfiguration is never a policy outcome; it always fails closed with a
// generic operator-facing message.
var ErrMisconfigured = goerrors.New("authorization pipeline misconfigured", goerrors.CategoryValidation).
	WithTextCode(TextCodeMisconfigured)

// ErrUpstreamUnavailable indicates the identity or risk collaborator was
// unreachable, returned a non-2xx status, or produced an unparsable body.
var ErrUpstreamUnavailable = goerrors.New("upstream dependency unavailable", goerrors.CategoryOperation).
	WithTextCode(TextCodeUpstreamUnavailable)

// ErrClaimConflict indicates an enrichment claim collides with a
// platform-reserved claim name.
var ErrClaimConflict = goerrors.New("claim conflicts with a reserved claim name", goerrors.CategoryConflict).
	WithTextCode(TextCodeClaimConflict)

func errMisconfigured(detail string) error {
	clone := ErrMisconfigured.Clone()
	if clone == nil {
		return ErrMisconfigured
	}
	clone.Source = ErrMisconfigured
	return clone.WithMetadata(map[string]any{"detail": detail})
}

func errUpstream(op string, err error) error {
	clone := ErrUpstreamUnavailable.Clone()
	if clone == nil {
		return ErrUpstreamUnavailable
	}
	clone.Source = ErrUpstreamUnavailable
	meta := map[string]any{"operation": op}
	if err != nil {
		meta["error"] = err.Error()
	}
	return clone.WithMetadata(meta)
}

func errClaimConflict(claim string) error {
	clone := ErrClaimConflict.Clone()
	if clone == nil {
		return ErrClaimConflict
	}
	clone.Source = ErrClaimConflict
	return clone.WithMetadata(map[string]any{"claim": claim})
}

// IsMisconfigured reports whether err is a misconfiguration failure.
func IsMisconfigured(err error) bool {
	return goerrors.Is(err, ErrMisconfigured)
}

// IsUpstreamUnavailable reports whether err is an upstream availability failure.
func IsUpstreamUnavailable(err error) bool {
	return goerrors.Is(err, ErrUpstreamUnavailable)
}

// IsClaimConflict reports whether err is a reserved-claim collision.
func IsClaimConflict(err error) bool {
	return goerrors.Is(err, ErrClaimConflict)
}
