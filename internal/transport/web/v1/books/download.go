package books

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

// Download godoc
// @Summary     Download book PDF
// @Description Отдаёт PDF целиком (без Range): книги маленькие, кэшируются на час.
// @Tags        books
// @Produce     application/pdf
// @Param       id query string true "book id"
// @Success     200 {file} []byte
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/books/download [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	const op = "books.download"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.IDFromQuery(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	b, err := h.Books.BookByID(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if b.FileKey == "" {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	info, err := h.Storage.Stat(r.Context(), b.FileKey)
	if err != nil {
		logx.Error(h.Log, reqID, op, "blob missing", err, "key", b.FileKey)
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	rc, err := h.Storage.OpenRange(r.Context(), b.FileKey, 0, -1)
	if err != nil {
		logx.Error(h.Log, reqID, op, "storage open failed", err, "key", b.FileKey)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	defer rc.Close()

	name := info.OriginalName
	if name == "" {
		name = "document.pdf"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		// клиент отвалился или хранилище оборвало поток — заголовки уже ушли
		logx.Error(h.Log, reqID, op, "copy aborted", err, "id", id)
	}
}
