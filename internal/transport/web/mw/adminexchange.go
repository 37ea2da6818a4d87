package mw

import (
	"log"
	"net/http"
	"strings"

	adm "github.com/Med359-a/NDMedSphere/internal/auth/admin"
)

// AdminExchange — одноразовый обмен токена на cookie (?admin=TOKEN).
// Всегда отвечает редиректом на тот же URL без параметра, чтобы секрет
// не оставался в истории браузера и referrer. ?admin=logout сбрасывает cookie.
// API-пути обмен не трогает: там ?admin= — обычный query-параметр, а редирект
// ломал бы клиентов. gate == nil (стратегия allowlist) — обмен выключен.
func AdminExchange(gate *adm.TokenGate, l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil || isAPIPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			provided := r.URL.Query().Get(adm.QueryParam)
			if provided == "" {
				next.ServeHTTP(w, r)
				return
			}

			clean := *r.URL
			q := clean.Query()
			q.Del(adm.QueryParam)
			clean.RawQuery = q.Encode()

			reqID := RequestIDFromCtx(r.Context())
			switch {
			case provided == adm.LogoutValue:
				gate.ClearCookie(w)
				l.Printf("lvl=info req_id=%s op=admin.exchange msg=\"logout\"", reqID)
			case gate.Match(provided):
				gate.SetCookie(w)
				l.Printf("lvl=info req_id=%s op=admin.exchange msg=\"cookie set\"", reqID)
			default:
				// неверный токен: просто чистим URL, cookie не трогаем
				l.Printf("lvl=info req_id=%s op=admin.exchange msg=\"token mismatch\"", reqID)
			}

			http.Redirect(w, r, clean.String(), http.StatusTemporaryRedirect)
		})
	}
}

func isAPIPath(p string) bool {
	return strings.HasPrefix(p, "/v1/") || p == "/healthz" || p == "/readyz"
}
