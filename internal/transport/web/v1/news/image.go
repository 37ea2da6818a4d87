package news

import (
	"io"
	"net/http"
	"strconv"

	"github.com/Med359-a/NDMedSphere/internal/domain"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/logx"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/mw"
	v1 "github.com/Med359-a/NDMedSphere/internal/transport/web/v1"
)

// Image godoc
// @Summary     News note image
// @Tags        news
// @Param       id query string true "note id"
// @Success     200 {file} []byte
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/news/image [get]
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	const op = "news.image"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.IDFromQuery(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	n, err := h.News.NoteByID(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if n.ImageKey == "" {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	info, err := h.Storage.Stat(r.Context(), n.ImageKey)
	if err != nil {
		logx.Error(h.Log, reqID, op, "blob missing", err, "key", n.ImageKey)
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	rc, err := h.Storage.OpenRange(r.Context(), n.ImageKey, 0, -1)
	if err != nil {
		logx.Error(h.Log, reqID, op, "storage open failed", err, "key", n.ImageKey)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logx.Error(h.Log, reqID, op, "copy aborted", err, "id", id)
	}
}
