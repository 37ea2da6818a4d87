package usmle

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Med359-a/NDMedSphere/internal/domain"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/logx"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/mw"
	v1 "github.com/Med359-a/NDMedSphere/internal/transport/web/v1"
)

// File godoc
// @Summary     USMLE resource file
// @Description Отдаёт файл ресурса. Ключи неизменяемы (uuid), поэтому картинки
// @Description кэшируются как immutable на год; pdf отдаётся inline с часовым кэшем.
// @Tags        usmle
// @Param       id query string true "resource id"
// @Success     200 {file} []byte
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/usmle/image [get]
func (h *Handler) File(w http.ResponseWriter, r *http.Request) {
	const op = "usmle.file"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.IDFromQuery(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	res, err := h.Usmle.ResourceByID(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if res.FileKey == "" {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	info, err := h.Storage.Stat(r.Context(), res.FileKey)
	if err != nil {
		logx.Error(h.Log, reqID, op, "blob missing", err, "key", res.FileKey)
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	rc, err := h.Storage.OpenRange(r.Context(), res.FileKey, 0, -1)
	if err != nil {
		logx.Error(h.Log, reqID, op, "storage open failed", err, "key", res.FileKey)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	if res.FileType == "image" {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	} else {
		name := res.FileName
		if name == "" {
			name = "resource.pdf"
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logx.Error(h.Log, reqID, op, "copy aborted", err, "id", id)
	}
}
