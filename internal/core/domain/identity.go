package domain

import "time"

// Identity is the resolved caller of a request. Name comes from the basic-auth
// header; Anonymous identities are permitted only on endpoints that declare it.
type Identity struct {
	Name      string
	Anonymous bool
	Super     bool
}

// RequestContext travels explicitly down the call chain: the caller identity,
// a logical "now" fixed at request start so every timestamp within one request
// agrees, and the request id for audit correlation.
type RequestContext struct {
	Caller    Identity
	Now       time.Time
	RequestID string
}
