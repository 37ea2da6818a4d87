package books

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	adm "github.com/Med359-a/NDMedSphere/internal/auth/admin"
	"github.com/Med359-a/NDMedSphere/internal/domain"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/logx"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/mw"
	v1 "github.com/Med359-a/NDMedSphere/internal/transport/web/v1"
)

const maxPDFBytes = 50 << 20 // 50MB на книгу

type Handler struct {
	Log     *log.Logger
	Books   domain.BooksRepo
	Storage domain.BlobStorage
	Cache   domain.Cache
	Gate    adm.Gate

	ListTTL int // секунд
}

// List godoc
// @Summary     List books
// @Tags        books
// @Produce     json
// @Success     200 {object} domain.APIEnvelope{data=[]domain.Book}
// @Router      /v1/books [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "books.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	ckey := domain.CacheKeyList(domain.CollectionBooks)
	if b, err := h.Cache.Get(r.Context(), ckey); err == nil && len(b) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
		return
	}

	items, err := h.Books.BooksList(r.Context())
	if err != nil {
		logx.Error(h.Log, reqID, op, "db list failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	env := domain.OkData(items)
	if buf, err := json.Marshal(env); err == nil {
		_ = h.Cache.Set(r.Context(), ckey, buf, h.ListTTL)
	}
	v1.WriteEnvelope(w, r, http.StatusOK, env)
}

type createRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Notes  string `json:"notes"`
}

// Create godoc
// @Summary     Create book (admin only)
// @Description JSON либо multipart/form-data (поля + опциональный PDF в "file").
// @Tags        books
// @Accept      json
// @Accept      multipart/form-data
// @Produce     json
// @Success     201 {object} domain.APIEnvelope{data=domain.Book}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Failure     415 {object} domain.APIEnvelope
// @Router      /v1/books [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "books.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	if !v1.RequireAdmin(h.Gate, w, r) {
		logx.Error(h.Log, reqID, op, "not admin", domain.ErrForbidden)
		return
	}

	var req createRequest
	var book domain.Book
	book.ID = uuid.New()

	ct := r.Header.Get("Content-Type")
	hasFile := false
	var fileKey string

	if strings.HasPrefix(ct, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logx.Error(h.Log, reqID, op, "bad json", err)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
	} else {
		if err := r.ParseMultipartForm(maxPDFBytes); err != nil {
			logx.Error(h.Log, reqID, op, "bad multipart", err)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		req.Title = r.FormValue("title")
		req.Author = r.FormValue("author")
		req.URL = r.FormValue("url")
		req.Notes = r.FormValue("notes")

		if fh, hdr, err := r.FormFile("file"); err == nil {
			defer fh.Close()
			if hdr.Header.Get("Content-Type") != "application/pdf" {
				logx.Error(h.Log, reqID, op, "not a pdf", domain.ErrUnsupportedMedia, "mime", hdr.Header.Get("Content-Type"))
				v1.WriteDomainError(w, r, domain.ErrUnsupportedMedia)
				return
			}
			if hdr.Size > maxPDFBytes {
				v1.WriteDomainError(w, r, domain.ErrTooLarge)
				return
			}

			fileKey = "books/" + book.ID.String()
			size, err := h.Storage.Put(r.Context(), fileKey, fh, hdr.Size, "application/pdf", hdr.Filename)
			if err != nil {
				logx.Error(h.Log, reqID, op, "storage put failed", err)
				v1.WriteDomainError(w, r, domain.ErrUnexpected)
				return
			}
			hasFile = true
			book.FileKey = fileKey
			book.OriginalName = hdr.Filename
			book.SizeBytes = size
		}
	}

	book.Title = strings.TrimSpace(req.Title)
	book.Author = strings.TrimSpace(req.Author)
	book.Notes = strings.TrimSpace(req.Notes)
	if book.Title == "" {
		logx.Error(h.Log, reqID, op, "empty title", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if req.URL != "" {
		book.URL = domain.NormalizeURL(req.URL)
		if book.URL == "" {
			logx.Error(h.Log, reqID, op, "bad url", domain.ErrBadParams, "url", req.URL)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
	}

	created, err := h.Books.CreateBook(r.Context(), book)
	if err != nil {
		// blob уже в хранилище — компенсирующее удаление, ошибку глотаем
		if hasFile {
			if derr := h.Storage.Delete(r.Context(), fileKey); derr != nil {
				logx.Error(h.Log, reqID, op, "orphan blob cleanup failed", derr, "key", fileKey)
			}
		}
		logx.Error(h.Log, reqID, op, "db create failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	_ = h.Cache.Del(r.Context(), domain.CacheKeyList(domain.CollectionBooks))
	logx.Info(h.Log, reqID, op, "ok", "id", created.ID, "file", hasFile)
	v1.WriteCreated(w, r, created)
}

// Delete godoc
// @Summary     Delete book (admin only)
// @Tags        books
// @Param       id query string true "book id"
// @Success     200 {object} domain.APIEnvelope{response=object}
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/books [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "books.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	if !v1.RequireAdmin(h.Gate, w, r) {
		return
	}
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
	if err := h.Books.BookDelete(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "db delete failed", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	// файл чистим best-effort: запись уже удалена, ошибку только логируем
	if b.FileKey != "" {
		if derr := h.Storage.Delete(r.Context(), b.FileKey); derr != nil {
			logx.Error(h.Log, reqID, op, "blob cleanup failed", derr, "key", b.FileKey)
		}
	}

	_ = h.Cache.Del(r.Context(), domain.CacheKeyList(domain.CollectionBooks))
	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKResponse(w, r, map[string]bool{id.String(): true})
}
