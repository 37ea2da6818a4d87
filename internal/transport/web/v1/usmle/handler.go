package usmle

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

const maxResourceBytes = 100 << 20 // 100MB: сканы учебных материалов бывают большие

type Handler struct {
	Log     *log.Logger
	Usmle   domain.UsmleRepo
	Storage domain.BlobStorage
	Cache   domain.Cache
	Gate    adm.Gate

	ListTTL int // секунд
}

// List godoc
// @Summary     List USMLE resources
// @Tags        usmle
// @Produce     json
// @Success     200 {object} domain.APIEnvelope{data=[]domain.UsmleResource}
// @Router      /v1/usmle [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "usmle.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	ckey := domain.CacheKeyList(domain.CollectionUsmle)
	if b, err := h.Cache.Get(r.Context(), ckey); err == nil && len(b) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
		return
	}

	items, err := h.Usmle.ResourcesList(r.Context())
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

// fileType нормализует MIME загружаемого файла: только pdf и картинки.
func fileType(mime string) (string, bool) {
	switch {
	case mime == "application/pdf":
		return "pdf", true
	case strings.HasPrefix(mime, "image/"):
		return "image", true
	default:
		return "", false
	}
}

// Create godoc
// @Summary     Create USMLE resource (admin only)
// @Description JSON (ссылка) либо multipart/form-data с файлом "file" (pdf или image/*, до 100MB).
// @Tags        usmle
// @Accept      json
// @Accept      multipart/form-data
// @Produce     json
// @Success     201 {object} domain.APIEnvelope{data=domain.UsmleResource}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Failure     413 {object} domain.APIEnvelope
// @Failure     415 {object} domain.APIEnvelope
// @Router      /v1/usmle [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "usmle.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	if !v1.RequireAdmin(h.Gate, w, r) {
		logx.Error(h.Log, reqID, op, "not admin", domain.ErrForbidden)
		return
	}

	res := domain.UsmleResource{ID: uuid.New()}
	var rawURL string
	hasFile := false

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logx.Error(h.Log, reqID, op, "bad json", err)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		res.Title = req.Title
		res.Description = req.Description
		rawURL = req.URL
	} else {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			logx.Error(h.Log, reqID, op, "bad multipart", err)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		res.Title = r.FormValue("title")
		res.Description = r.FormValue("description")
		rawURL = r.FormValue("url")

		if fh, hdr, err := r.FormFile("file"); err == nil {
			defer fh.Close()
			mime := hdr.Header.Get("Content-Type")
			ft, ok := fileType(mime)
			if !ok {
				logx.Error(h.Log, reqID, op, "unsupported type", domain.ErrUnsupportedMedia, "mime", mime)
				v1.WriteDomainError(w, r, domain.ErrUnsupportedMedia)
				return
			}
			if hdr.Size > maxResourceBytes {
				v1.WriteDomainError(w, r, domain.ErrTooLarge)
				return
			}

			res.FileKey = "usmle/" + res.ID.String()
			if _, err := h.Storage.Put(r.Context(), res.FileKey, fh, hdr.Size, mime, hdr.Filename); err != nil {
				logx.Error(h.Log, reqID, op, "storage put failed", err)
				v1.WriteDomainError(w, r, domain.ErrUnexpected)
				return
			}
			res.FileName = hdr.Filename
			res.FileType = ft
			hasFile = true
		}
	}

	res.Title = strings.TrimSpace(res.Title)
	res.Description = strings.TrimSpace(res.Description)
	if res.Title == "" {
		logx.Error(h.Log, reqID, op, "empty title", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if rawURL != "" {
		res.URL = domain.NormalizeURL(rawURL)
		if res.URL == "" {
			logx.Error(h.Log, reqID, op, "bad url", domain.ErrBadParams, "url", rawURL)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
	}

	created, err := h.Usmle.CreateResource(r.Context(), res)
	if err != nil {
		if hasFile {
			if derr := h.Storage.Delete(r.Context(), res.FileKey); derr != nil {
				logx.Error(h.Log, reqID, op, "orphan blob cleanup failed", derr, "key", res.FileKey)
			}
		}
		logx.Error(h.Log, reqID, op, "db create failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	_ = h.Cache.Del(r.Context(), domain.CacheKeyList(domain.CollectionUsmle))
	logx.Info(h.Log, reqID, op, "ok", "id", created.ID, "file", hasFile)
	v1.WriteCreated(w, r, created)
}

// Delete godoc
// @Summary     Delete USMLE resource (admin only)
// @Tags        usmle
// @Param       id query string true "resource id"
// @Success     200 {object} domain.APIEnvelope{response=object}
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/usmle [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "usmle.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	if !v1.RequireAdmin(h.Gate, w, r) {
		return
	}
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
	if err := h.Usmle.ResourceDelete(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "db delete failed", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	if res.FileKey != "" {
		if derr := h.Storage.Delete(r.Context(), res.FileKey); derr != nil {
			logx.Error(h.Log, reqID, op, "blob cleanup failed", derr, "key", res.FileKey)
		}
	}

	_ = h.Cache.Del(r.Context(), domain.CacheKeyList(domain.CollectionUsmle))
	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKResponse(w, r, map[string]bool{id.String(): true})
}
