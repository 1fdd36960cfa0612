// Package common contains shared constants and sentinel errors used across
// Voices components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// SessionKey is the key-value store key holding the last authenticated session.
const SessionKey = "session"
