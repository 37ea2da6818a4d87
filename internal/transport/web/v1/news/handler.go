package news

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

const maxNewsImageBytes = 10 << 20 // 10MB на иллюстрацию

type Handler struct {
	Log     *log.Logger
	News    domain.NewsRepo
	Storage domain.BlobStorage
	Cache   domain.Cache
	Gate    adm.Gate

	ListTTL int // секунд
}

// List godoc
// @Summary     List news notes
// @Tags        news
// @Produce     json
// @Success     200 {object} domain.APIEnvelope{data=[]domain.NewsNote}
// @Router      /v1/news [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "news.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	ckey := domain.CacheKeyList(domain.CollectionNews)
	if b, err := h.Cache.Get(r.Context(), ckey); err == nil && len(b) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
		return
	}

	items, err := h.News.NotesList(r.Context())
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

// Create godoc
// @Summary     Create news note (admin only)
// @Description JSON либо multipart/form-data (title, notes, tags, url + опциональная "image").
// @Tags        news
// @Accept      json
// @Accept      multipart/form-data
// @Produce     json
// @Success     201 {object} domain.APIEnvelope{data=domain.NewsNote}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Failure     413 {object} domain.APIEnvelope
// @Failure     415 {object} domain.APIEnvelope
// @Router      /v1/news [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "news.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	if !v1.RequireAdmin(h.Gate, w, r) {
		logx.Error(h.Log, reqID, op, "not admin", domain.ErrForbidden)
		return
	}

	note := domain.NewsNote{ID: uuid.New()}
	var rawURL, rawTags string
	hasImage := false

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Title string `json:"title"`
			Notes string `json:"notes"`
			Tags  string `json:"tags"`
			URL   string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logx.Error(h.Log, reqID, op, "bad json", err)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		note.Title, note.Notes = req.Title, req.Notes
		rawTags, rawURL = req.Tags, req.URL
	} else {
		if err := r.ParseMultipartForm(maxNewsImageBytes); err != nil {
			logx.Error(h.Log, reqID, op, "bad multipart", err)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		note.Title = r.FormValue("title")
		note.Notes = r.FormValue("notes")
		rawTags = r.FormValue("tags")
		rawURL = r.FormValue("url")

		if fh, hdr, err := r.FormFile("image"); err == nil {
			defer fh.Close()
			mime := hdr.Header.Get("Content-Type")
			if !strings.HasPrefix(mime, "image/") {
				logx.Error(h.Log, reqID, op, "not an image", domain.ErrUnsupportedMedia, "mime", mime)
				v1.WriteDomainError(w, r, domain.ErrUnsupportedMedia)
				return
			}
			if hdr.Size > maxNewsImageBytes {
				v1.WriteDomainError(w, r, domain.ErrTooLarge)
				return
			}

			note.ImageKey = "news/" + note.ID.String()
			if _, err := h.Storage.Put(r.Context(), note.ImageKey, fh, hdr.Size, mime, hdr.Filename); err != nil {
				logx.Error(h.Log, reqID, op, "storage put failed", err)
				v1.WriteDomainError(w, r, domain.ErrUnexpected)
				return
			}
			hasImage = true
		}
	}

	note.Title = strings.TrimSpace(note.Title)
	note.Notes = strings.TrimSpace(note.Notes)
	note.Tags = domain.ParseTags(rawTags)
	if note.Title == "" {
		logx.Error(h.Log, reqID, op, "empty title", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if rawURL != "" {
		note.URL = domain.NormalizeURL(rawURL)
		if note.URL == "" {
			logx.Error(h.Log, reqID, op, "bad url", domain.ErrBadParams, "url", rawURL)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
	}

	created, err := h.News.CreateNote(r.Context(), note)
	if err != nil {
		if hasImage {
			if derr := h.Storage.Delete(r.Context(), note.ImageKey); derr != nil {
				logx.Error(h.Log, reqID, op, "orphan blob cleanup failed", derr, "key", note.ImageKey)
			}
		}
		logx.Error(h.Log, reqID, op, "db create failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	_ = h.Cache.Del(r.Context(), domain.CacheKeyList(domain.CollectionNews))
	logx.Info(h.Log, reqID, op, "ok", "id", created.ID, "image", hasImage)
	v1.WriteCreated(w, r, created)
}

// Delete godoc
// @Summary     Delete news note (admin only)
// @Tags        news
// @Param       id query string true "note id"
// @Success     200 {object} domain.APIEnvelope{response=object}
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/news [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "news.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	if !v1.RequireAdmin(h.Gate, w, r) {
		return
	}
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
	if err := h.News.NoteDelete(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "db delete failed", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	if n.ImageKey != "" {
		if derr := h.Storage.Delete(r.Context(), n.ImageKey); derr != nil {
			logx.Error(h.Log, reqID, op, "blob cleanup failed", derr, "key", n.ImageKey)
		}
	}

	_ = h.Cache.Del(r.Context(), domain.CacheKeyList(domain.CollectionNews))
	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKResponse(w, r, map[string]bool{id.String(): true})
}
