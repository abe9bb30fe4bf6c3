// Package trustpath implements authguard.RiskEvaluator against the
// TrustPath impossible-travel risk API.
package trustpath
