package videos

import (
	"io"
	"net/http"

	"github.com/Med359-a/NDMedSphere/internal/domain"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/httprange"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/logx"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/mw"
	v1 "github.com/Med359-a/NDMedSphere/internal/transport/web/v1"
)

// Stream godoc
// @Summary     Stream video content
// @Description Отдаёт контент с поддержкой одиночного Range (перемотка в плеере).
// @Description Без Range — 200 целиком, с Range — 206, невыполнимый диапазон — 416.
// @Tags        videos
// @Param       id query string true "video id"
// @Success     200 {file} []byte
// @Success     206 {file} []byte
// @Failure     404 {object} domain.APIEnvelope
// @Failure     416 {string} string ""
// @Router      /v1/videos/stream [get]
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	const op = "videos.stream"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.IDFromQuery(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	vd, err := h.Videos.VideoByID(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	info, err := h.Storage.Stat(r.Context(), vd.FileKey)
	if err != nil {
		logx.Error(h.Log, reqID, op, "blob missing", err, "key", vd.FileKey)
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	contentType := vd.MimeType
	if contentType == "" {
		contentType = info.ContentType
	}

	plan := httprange.Resolve(r.Header.Get("Range"), info.Size)
	for k, vals := range plan.Header(contentType) {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("X-Request-ID", reqID)

	if plan.Status == http.StatusRequestedRangeNotSatisfiable {
		w.WriteHeader(plan.Status)
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(plan.Status)
		return
	}

	// end=-1 — открытый хвост; полный объект читаем без Range-запроса к хранилищу
	end := plan.End
	if plan.Status == http.StatusOK {
		end = -1
	}
	rc, err := h.Storage.OpenRange(r.Context(), vd.FileKey, plan.Start, end)
	if err != nil {
		logx.Error(h.Log, reqID, op, "storage open failed", err, "key", vd.FileKey)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	defer rc.Close()

	w.WriteHeader(plan.Status)
	if _, err := io.CopyN(w, rc, plan.Length()); err != nil {
		// заголовки уже ушли: клиент закрыл плеер или хранилище оборвало поток
		logx.Error(h.Log, reqID, op, "copy aborted", err, "id", id)
	}
}
