package v1

import (
	"net/http"

	"github.com/google/uuid"

	adm "github.com/Med359-a/NDMedSphere/internal/auth/admin"
	"github.com/Med359-a/NDMedSphere/internal/domain"
)

// RequireAdmin — общая проверка для всех мутаций: не админ — 403 и false.
func RequireAdmin(g adm.Gate, w http.ResponseWriter, r *http.Request) bool {
	if g == nil || !g.IsAdmin(r) {
		WriteDomainError(w, r, domain.ErrForbidden)
		return false
	}
	return true
}

// IDFromQuery достаёт и парсит обязательный query-параметр id.
func IDFromQuery(r *http.Request) (uuid.UUID, error) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		return uuid.Nil, domain.ErrBadParams
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrBadParams
	}
	return id, nil
}
