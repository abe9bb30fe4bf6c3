// Package kinde implements authguard.IdentityAPI against the Kinde
// management API using Bearer-token authentication. It normalizes the two
// organizations response shapes seen across deployments and both property
// bag envelopes (properties and appProperties).
package kinde
