package admin

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const (
	// CookieName — httpOnly-cookie с админ-токеном.
	CookieName = "ndms_admin"
	// QueryParam — одноразовый параметр обмена (?admin=TOKEN).
	QueryParam = "admin"
	// LogoutValue — сентинел: ?admin=logout сбрасывает cookie.
	LogoutValue = "logout"

	cookieMaxAge = 60 * 60 * 24 * 30 // 30 дней
)

// TokenGate — стратегия «cookie-токен»: один общий секрет на процесс.
// Пустой токен означает, что админка выключена целиком (fail closed).
type TokenGate struct {
	token  string
	secure bool // Secure-cookie в production
}

func NewTokenGate(token string, secure bool) *TokenGate {
	return &TokenGate{token: strings.TrimSpace(token), secure: secure}
}

var _ Gate = (*TokenGate)(nil)

func (g *TokenGate) IsAdmin(r *http.Request) bool {
	if g.token == "" {
		return false
	}
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(g.token)) == 1
}

// Match сверяет значение из одноразового обмена с настроенным токеном.
func (g *TokenGate) Match(provided string) bool {
	if g.token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(g.token)) == 1
}

// SetCookie выставляет админ-cookie после успешного обмена.
func (g *TokenGate) SetCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    g.token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie сбрасывает админ-cookie (logout).
func (g *TokenGate) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
