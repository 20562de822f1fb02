// Package oauth holds the token value consumed by the request layer.
// Token acquisition and refresh live elsewhere; this package only carries
// the credentials an authorized request needs.
package oauth

import "time"

// Token holds the OAuth 2.0 credentials issued for an API client.
type Token struct {
	accessToken  string
	refreshToken string
	expiration   time.Time
}

// NewToken creates a Token. A zero expiration marks a token that never
// expires.
func NewToken(accessToken, refreshToken string, expiration time.Time) *Token {
	return &Token{
		accessToken:  accessToken,
		refreshToken: refreshToken,
		expiration:   expiration,
	}
}

// AccessToken returns the access token string.
func (t *Token) AccessToken() string {
	return t.accessToken
}

// RefreshToken returns the refresh token string.
func (t *Token) RefreshToken() string {
	return t.refreshToken
}

// Expiration returns when the access token expires.
func (t *Token) Expiration() time.Time {
	return t.expiration
}

// Expired reports whether the access token is past its expiration.
func (t *Token) Expired() bool {
	if t.expiration.IsZero() {
		return false
	}
	return time.Now().After(t.expiration)
}
