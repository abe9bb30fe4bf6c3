package authguard

import "context"

// DefaultMinPasswordScore is the weakest score the gate accepts from the
// external scorer.
const DefaultMinPasswordScore = 3

// PasswordGate checks candidate passwords against an injected opaque scorer
// during registration. The scoring algorithm itself lives outside this
// module; a scorer failure fails closed.
type PasswordGate struct {
	scorer   PasswordScorer
	minScore int
	logger   Logger
}

// NewPasswordGate creates a password gate. minScore values below one fall
// back to DefaultMinPasswordScore.
func NewPasswordGate(scorer PasswordScorer, minScore int, logger Logger) (*PasswordGate, error) {
	if scorer == nil {
		return nil, errMisconfigured("password scorer is required")
	}
	if minScore < 1 {
		minScore = DefaultMinPasswordScore
	}
	return &PasswordGate{
		scorer:   scorer,
		minScore: minScore,
		logger:   normalizeLogger(logger),
	}, nil
}

// Check scores the candidate password and produces a Decision. Weak
// passwords and scorer failures both deny.
func (g *PasswordGate) Check(ctx context.Context, password string) Decision {
	score, err := g.scorer.Score(ctx, password)
	if err != nil {
		g.logger.Error("password scorer failed: %v", err)
		return Deny(MsgWeakPassword, "password scorer unavailable: "+err.Error()).
			withRule(RulePasswordGate)
	}

	if score < g.minScore {
		return Deny(MsgWeakPassword, "password score below threshold").
			withRule(RulePasswordGate)
	}

	return Allow()
}
