package auth

import (
	"net/http"
	"time"
)

const (
	CompanyCookieName = "companyToken"
	UserCookieName    = "job_auth_token"
)

// CookiePolicy decides the attributes of session cookies. Production
// deployments serve the client from another origin, so cookies there must be
// Secure with SameSite=None.
type CookiePolicy struct {
	Production bool
	TTL        time.Duration
}

func (p CookiePolicy) Session(name, token string) *http.Cookie {
	cookie := p.base(name)
	cookie.Value = token
	cookie.MaxAge = int(p.TTL / time.Second)
	return cookie
}

// Expired returns a cookie that makes the browser drop name immediately.
func (p CookiePolicy) Expired(name string) *http.Cookie {
	cookie := p.base(name)
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	return cookie
}

func (p CookiePolicy) base(name string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if p.Production {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}
