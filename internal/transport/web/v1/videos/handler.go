package videos

import (
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	adm "github.com/Med359-a/NDMedSphere/internal/auth/admin"
	"github.com/Med359-a/NDMedSphere/internal/domain"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/logx"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/mw"
	v1 "github.com/Med359-a/NDMedSphere/internal/transport/web/v1"
)

const (
	maxVideoBytes = 250 << 20 // 250MB на файл
	memoryBudget  = 32 << 20  // multipart: остальное уходит во временные файлы
)

type Handler struct {
	Log     *log.Logger
	Videos  domain.VideosRepo
	Storage domain.BlobStorage
	Cache   domain.Cache
	Gate    adm.Gate

	ListTTL int // секунд
}

// List godoc
// @Summary     List videos
// @Tags        videos
// @Produce     json
// @Success     200 {object} domain.APIEnvelope{data=[]domain.Video}
// @Router      /v1/videos [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "videos.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	ckey := domain.CacheKeyList(domain.CollectionVideos)
	if b, err := h.Cache.Get(r.Context(), ckey); err == nil && len(b) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
		return
	}

	items, err := h.Videos.VideosList(r.Context())
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
// @Summary     Upload videos (admin only)
// @Description multipart/form-data: title, description и один "file" или несколько "files".
// @Description Файлы стримятся в blob-хранилище; при нескольких файлах к title добавляется " (N)".
// @Tags        videos
// @Accept      multipart/form-data
// @Produce     json
// @Success     201 {object} domain.APIEnvelope{data=[]domain.Video}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Failure     413 {object} domain.APIEnvelope
// @Failure     415 {object} domain.APIEnvelope
// @Router      /v1/videos [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "videos.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	if !v1.RequireAdmin(h.Gate, w, r) {
		logx.Error(h.Log, reqID, op, "not admin", domain.ErrForbidden)
		return
	}

	if err := r.ParseMultipartForm(memoryBudget); err != nil {
		logx.Error(h.Log, reqID, op, "bad multipart", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["files"]
		if len(files) == 0 {
			files = r.MultipartForm.File["file"]
		}
	}
	if len(files) == 0 {
		logx.Error(h.Log, reqID, op, "no files", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	// сначала валидация всех файлов, потом загрузка: не хотим залить половину
	for _, hdr := range files {
		mime := hdr.Header.Get("Content-Type")
		if !strings.HasPrefix(mime, "video/") {
			logx.Error(h.Log, reqID, op, "unsupported type", domain.ErrUnsupportedMedia, "mime", mime)
			v1.WriteDomainError(w, r, domain.ErrUnsupportedMedia)
			return
		}
		if hdr.Size > maxVideoBytes {
			logx.Error(h.Log, reqID, op, "file too large", domain.ErrTooLarge, "size", hdr.Size)
			v1.WriteDomainError(w, r, domain.ErrTooLarge)
			return
		}
	}

	created := make([]domain.Video, 0, len(files))
	for i, hdr := range files {
		item, err := h.uploadOne(r, hdr, title, description, i, len(files))
		if err != nil {
			logx.Error(h.Log, reqID, op, "upload failed", err, "file", hdr.Filename)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
		created = append(created, item)
	}

	_ = h.Cache.Del(r.Context(), domain.CacheKeyList(domain.CollectionVideos))
	logx.Info(h.Log, reqID, op, "ok", "count", len(created))
	v1.WriteCreated(w, r, created)
}

func (h *Handler) uploadOne(r *http.Request, hdr *multipart.FileHeader, title, description string, idx, total int) (domain.Video, error) {
	fh, err := hdr.Open()
	if err != nil {
		return domain.Video{}, err
	}
	defer fh.Close()

	mime := hdr.Header.Get("Content-Type")
	resolvedTitle := title
	switch {
	case total > 1 && title != "":
		resolvedTitle = fmt.Sprintf("%s (%d)", title, idx+1)
	case resolvedTitle == "":
		resolvedTitle = hdr.Filename
	}

	id := uuid.New()
	key := "videos/" + id.String()

	size, err := h.Storage.Put(r.Context(), key, fh, hdr.Size, mime, hdr.Filename)
	if err != nil {
		return domain.Video{}, err
	}

	item, err := h.Videos.CreateVideo(r.Context(), domain.Video{
		ID:           id,
		Title:        resolvedTitle,
		Description:  description,
		FileKey:      key,
		OriginalName: hdr.Filename,
		MimeType:     mime,
		SizeBytes:    size,
	})
	if err != nil {
		// мета не записалась — blob осиротел, убираем best-effort
		if derr := h.Storage.Delete(r.Context(), key); derr != nil {
			reqID := mw.RequestIDFromCtx(r.Context())
			logx.Error(h.Log, reqID, "videos.create", "orphan blob cleanup failed", derr, "key", key)
		}
		return domain.Video{}, err
	}
	return item, nil
}

// Delete godoc
// @Summary     Delete video (admin only)
// @Tags        videos
// @Param       id query string true "video id"
// @Success     200 {object} domain.APIEnvelope{response=object}
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/videos [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "videos.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	if !v1.RequireAdmin(h.Gate, w, r) {
		return
	}
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
	if err := h.Videos.VideoDelete(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "db delete failed", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	if derr := h.Storage.Delete(r.Context(), vd.FileKey); derr != nil {
		logx.Error(h.Log, reqID, op, "blob cleanup failed", derr, "key", vd.FileKey)
	}

	_ = h.Cache.Del(r.Context(), domain.CacheKeyList(domain.CollectionVideos))
	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKResponse(w, r, map[string]bool{id.String(): true})
}
