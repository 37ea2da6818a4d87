package admin

import (
	"log"
	"net/http"

	adm "github.com/Med359-a/NDMedSphere/internal/auth/admin"
	v1 "github.com/Med359-a/NDMedSphere/internal/transport/web/v1"
)

type Handler struct {
	Log  *log.Logger
	Gate adm.Gate
}

type statusResponse struct {
	IsAdmin bool `json:"is_admin"`
}

// Status godoc
// @Summary     Current admin status
// @Description Сообщает фронту, прошёл ли запрос админ-гейт. Не кэшируется.
// @Tags        admin
// @Produce     json
// @Success     200 {object} domain.APIEnvelope{response=statusResponse}
// @Router      /v1/admin [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	isAdmin := h.Gate != nil && h.Gate.IsAdmin(r)
	v1.WriteOKResponse(w, r, statusResponse{IsAdmin: isAdmin})
}
