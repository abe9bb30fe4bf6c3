// Package authguard implements the post-authentication and token-issuance
// authorization pipeline for an identity platform: given one authentication
// event it resolves identity context, optionally gathers a third-party risk
// signal, evaluates policy, and enforces the resulting decision against the
// host runtime.
//
// Decision pipeline:
//   - Resolver builds a ResolvedIdentity from the event, calling the
//     identity-management API when organization context is not already on the
//     event. Remote reads are retried at most once and fail closed.
//   - RiskEvaluator (see provider/trustpath) issues a single bounded risk
//     check per authentication attempt. Transport failures, non-2xx
//     responses, and unparsable bodies all normalize to RiskStateUnknown;
//     the policy evaluator, not the client, decides what unknown means.
//   - Decide is a pure function from (event, identity, signal, config) to a
//     Decision. It is deterministic and performs no I/O, so every policy
//     rule can be unit tested without network.
//   - Enforcer applies the Decision: it halts the flow with the user-facing
//     message on deny, or writes enrichment claims into the outgoing token
//     while rejecting collisions with reserved claim names.
//
// Activity sinks:
//   - ActivitySink receives one audit event per terminal decision carrying
//     the internal reason, matched rule, and risk state. Sinks run
//     best-effort (errors are logged) and internal detail never reaches the
//     end user.
//
// No error escapes Pipeline.Authorize: any failure, timeout, or panic inside
// the pipeline produces an explicit deny. Absence of an allow is a deny.
package authguard
