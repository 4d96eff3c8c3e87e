package domain

// Profile is the lightweight account profile stored alongside the token.
// It is only meaningful while the token is present and unexpired; authorization
// decisions take the full Session, never the profile alone.
type Profile struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Credential pairs the bearer token issued by the backend with its profile.
// Created on successful login; destroyed on logout, detected expiry, or a
// rejected authenticated request.
type Credential struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

// TokenClaims is the ephemeral view of a token's payload. It is recomputed
// from the token string on each check and never persisted.
type TokenClaims struct {
	ExpiresAt int64 `json:"exp"`
}
