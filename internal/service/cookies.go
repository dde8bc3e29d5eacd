package service

import (
	"net/http"
	"time"
)

const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
)

// CookiePolicy defines how session tokens travel as cookies. Both cookies
// are HttpOnly with Path "/" and a MaxAge equal to the token lifetime.
type CookiePolicy struct {
	Secure     bool
	SameSite   http.SameSite
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AccessCookie wraps an access token.
func (p CookiePolicy) AccessCookie(token string) *http.Cookie {
	return p.cookie(AccessCookieName, token, p.AccessTTL)
}

// RefreshCookie wraps a refresh token.
func (p CookiePolicy) RefreshCookie(token string) *http.Cookie {
	return p.cookie(RefreshCookieName, token, p.RefreshTTL)
}

// ClearCookies returns directives that delete both session cookies.
func (p CookiePolicy) ClearCookies() []*http.Cookie {
	access := p.cookie(AccessCookieName, "", 0)
	access.MaxAge = -1
	refresh := p.cookie(RefreshCookieName, "", 0)
	refresh.MaxAge = -1
	return []*http.Cookie{access, refresh}
}

func (p CookiePolicy) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
		MaxAge:   int(ttl / time.Second),
	}
}
