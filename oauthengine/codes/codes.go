// Package codes defines the PKCE Codes record spec.md §3 names, stored in
// a sessionstore.Store[Codes] keyed "codes:<state-uuid>" with a ~200s TTL
// (spec.md §6).
package codes

import (
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/andr171p/ssoauth/internal/cryptoutil"
	"github.com/andr171p/ssoauth/internal/ids"
)

// Codes is the PKCE material generated per spec.md §4.1 and held in the
// codes store for the duration of the authorization-code round trip.
type Codes struct {
	State         string `json:"state"`
	CodeVerifier  string `json:"code_verifier"`
	CodeChallenge string `json:"code_challenge"`
}

// KeyPrefix is the codes-store key prefix spec.md §6 fixes.
const KeyPrefix = "codes:"

// TTL is the short lifetime spec.md §4.7 gives generated codes ("TTL ≈
// 200 s").
const TTL = 200 * time.Second

// verifierBytes is the byte length of the random code_verifier before
// URL-safe base64 encoding (spec.md §4.1: "64-byte URL-safe random").
const verifierBytes = 64

// Generate produces a fresh {state, code_verifier, code_challenge} triple
// (spec.md §4.1): state is a UUIDv4, code_verifier is 64 bytes of URL-safe
// random data, and code_challenge = BASE64URL(SHA-256(code_verifier)).
func Generate() (Codes, error) {
	raw, err := cryptoutil.RandBytes(verifierBytes)
	if err != nil {
		return Codes{}, err
	}
	verifier := base64.RawURLEncoding.EncodeToString(raw)
	sum := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(sum[:])

	return Codes{
		State:         ids.New(),
		CodeVerifier:  verifier,
		CodeChallenge: challenge,
	}, nil
}
