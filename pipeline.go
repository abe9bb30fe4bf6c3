package authguard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Pipeline orchestrates one authorization decision per authentication
// attempt: identity resolution, optional risk scoring, policy evaluation,
// and audit. It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	resolver IdentityResolver
	risk     RiskEvaluator
	config   PolicyConfig
	logger   Logger
	sink     ActivitySink
}

// PipelineOption configures optional pipeline collaborators.
type PipelineOption func(*Pipeline)

// WithRiskEvaluator wires the external risk service.
func WithRiskEvaluator(evaluator RiskEvaluator) PipelineOption {
	return func(p *Pipeline) {
		p.risk = evaluator
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithActivitySink wires the audit sink. Sinks run best-effort: a failing
// sink never changes the decision.
func WithActivitySink(sink ActivitySink) PipelineOption {
	return func(p *Pipeline) {
		p.sink = normalizeActivitySink(sink)
	}
}

// NewPipeline creates a decision pipeline. The config is validated eagerly;
// a misconfigured deployment fails here, at startup, not per request.
func NewPipeline(resolver IdentityResolver, config PolicyConfig, opts ...PipelineOption) (*Pipeline, error) {
	if resolver == nil {
		return nil, errMisconfigured("identity resolver is required")
	}
	if err := config.Validate(); err != nil {
		return nil, errMisconfigured("invalid policy config: " + err.Error())
	}

	p := &Pipeline{
		resolver: resolver,
		config:   config,
		logger:   defLogger{},
		sink:     noopActivitySink{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	if p.config.RiskDenial && p.risk == nil && !p.config.AllowOnRiskUnavailable {
		p.logger.Info("risk denial enabled without a risk evaluator, every attempt will fail closed")
	}

	return p, nil
}

// Authorize produces exactly one Decision for the event. It never returns an
// error and never panics across the boundary: every internal failure becomes
// an explicit deny. The whole call is bounded by the config request timeout.
func (p *Pipeline) Authorize(ctx context.Context, event AuthEvent) (decision Decision) {
	var signal RiskSignal

	// the audit record outlives the request timeout below
	auditCtx := ctx

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("authorization pipeline panicked: %v", r)
			decision = Deny(MsgVerifyUnavailable, "pipeline panic recovered").
				withRule(RuleUpstreamFailure)
		}
		p.record(auditCtx, event, decision, signal)
	}()

	ctx, cancel := context.WithTimeout(ctx, p.config.requestTimeout())
	defer cancel()

	if strings.TrimSpace(event.UserID) == "" || strings.TrimSpace(event.ClientID) == "" {
		return Deny(MsgMisconfigured, "event is missing userId or clientId").
			withRule(RuleMisconfigured)
	}

	identity, signal, resolveErr := p.gather(ctx, event)

	if resolveErr != nil {
		if IsMisconfigured(resolveErr) {
			return Deny(MsgMisconfigured, resolveErr.Error()).withRule(RuleMisconfigured)
		}
		return Deny(MsgVerifyUnavailable, resolveErr.Error()).withRule(RuleUpstreamFailure)
	}

	riskPtr := &signal
	if !p.riskNeeded() {
		riskPtr = nil
	}

	return Decide(event, identity, riskPtr, p.config)
}

func (p *Pipeline) riskNeeded() bool {
	return p.config.RiskDenial && p.risk != nil
}

// gather runs the identity and risk calls. The two outbound calls are
// independent, so they execute concurrently; the evaluator waits for both.
// There is no partial-result policy. The risk payload is built from the
// event snapshot so the risk call never waits on the identity lookup, and a
// single risk check is issued per attempt, never retried.
func (p *Pipeline) gather(ctx context.Context, event AuthEvent) (ResolvedIdentity, RiskSignal, error) {
	var (
		wg       sync.WaitGroup
		identity ResolvedIdentity
		err      error
		signal   = UnknownRiskSignal()
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("identity resolution panicked: %v", r)
				err = errUpstream("resolve", fmt.Errorf("panic: %v", r))
			}
		}()
		identity, err = p.resolver.Resolve(ctx, event)
	}()

	if p.riskNeeded() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					p.logger.Error("risk evaluation panicked: %v", r)
					signal = UnknownRiskSignal()
				}
			}()
			signal = p.risk.Evaluate(ctx, BuildRiskPayload(nil, event))
		}()
	}

	wg.Wait()
	return identity, signal, err
}

func (p *Pipeline) record(ctx context.Context, event AuthEvent, decision Decision, signal RiskSignal) {
	eventType := ActivityEventDecisionDeny
	switch decision.Outcome {
	case OutcomeAllow:
		eventType = ActivityEventDecisionAllow
	case OutcomeAllowWithClaims:
		eventType = ActivityEventDecisionEnrich
	}

	activity := ActivityEvent{
		EventType:      eventType,
		DecisionID:     uuid.NewString(),
		UserID:         event.UserID,
		ClientID:       event.ClientID,
		OrgCode:        event.CurrentOrgCode(),
		Rule:           decision.Rule,
		InternalReason: decision.InternalReason,
		RiskState:      signal.State,
		OccurredAt:     time.Now().UTC(),
	}

	if decision.Denied() {
		p.logger.Info("authorization denied: decision=%s rule=%s reason=%s",
			activity.DecisionID, decision.Rule, decision.InternalReason)
	} else {
		p.logger.Debug("authorization allowed: decision=%s claims=%d",
			activity.DecisionID, len(decision.Claims))
	}

	if err := p.sink.Record(ctx, activity); err != nil {
		p.logger.Error("activity sink failed: %v", err)
	}

	if p.riskNeeded() && signal.Unavailable() {
		riskActivity := activity
		riskActivity.EventType = ActivityEventRiskUnavailable
		if err := p.sink.Record(ctx, riskActivity); err != nil {
			p.logger.Error("activity sink failed: %v", err)
		}
	}
}
