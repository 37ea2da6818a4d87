package cases

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

type Handler struct {
	Log     *log.Logger
	Topics  domain.TopicsRepo
	Storage domain.BlobStorage
	Cache   domain.Cache
	Gate    adm.Gate

	ListTTL int // секунд
}

// topicView — тема вместе с её вопросами, как её ждёт фронт.
type topicView struct {
	domain.Topic
	Questions []domain.QuizQuestion `json:"questions"`
}

// List godoc
// @Summary     List case topics with quiz questions
// @Tags        cases
// @Produce     json
// @Success     200 {object} domain.APIEnvelope
// @Router      /v1/cases [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "cases.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	ckey := domain.CacheKeyList(domain.CollectionCases)
	if b, err := h.Cache.Get(r.Context(), ckey); err == nil && len(b) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
		return
	}

	topics, err := h.Topics.TopicsList(r.Context())
	if err != nil {
		logx.Error(h.Log, reqID, op, "db list failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	views := make([]topicView, 0, len(topics))
	for _, t := range topics {
		qs, err := h.Topics.QuizByTopic(r.Context(), t.ID)
		if err != nil {
			logx.Error(h.Log, reqID, op, "quiz load failed", err, "topic", t.ID)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
		views = append(views, topicView{Topic: t, Questions: qs})
	}

	env := domain.OkData(views)
	if buf, err := json.Marshal(env); err == nil {
		_ = h.Cache.Set(r.Context(), ckey, buf, h.ListTTL)
	}
	v1.WriteEnvelope(w, r, http.StatusOK, env)
}

type createTopicRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Tags    string `json:"tags"`
}

// Create godoc
// @Summary     Create case topic (admin only)
// @Tags        cases
// @Accept      json
// @Produce     json
// @Success     201 {object} domain.APIEnvelope{data=domain.Topic}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Router      /v1/cases [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "cases.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	if !v1.RequireAdmin(h.Gate, w, r) {
		logx.Error(h.Log, reqID, op, "not admin", domain.ErrForbidden)
		return
	}

	var req createTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	t := domain.Topic{
		ID:      uuid.New(),
		Title:   strings.TrimSpace(req.Title),
		Summary: strings.TrimSpace(req.Summary),
		Tags:    domain.ParseTags(req.Tags),
	}
	if t.Title == "" {
		logx.Error(h.Log, reqID, op, "empty title", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	created, err := h.Topics.CreateTopic(r.Context(), t)
	if err != nil {
		logx.Error(h.Log, reqID, op, "db create failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	_ = h.Cache.Del(r.Context(), domain.CacheKeyList(domain.CollectionCases))
	logx.Info(h.Log, reqID, op, "ok", "id", created.ID)
	v1.WriteCreated(w, r, created)
}

// Delete godoc
// @Summary     Delete case topic with its questions (admin only)
// @Tags        cases
// @Param       id query string true "topic id"
// @Success     200 {object} domain.APIEnvelope{response=object}
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/cases [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "cases.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	if !v1.RequireAdmin(h.Gate, w, r) {
		return
	}
	id, err := v1.IDFromQuery(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	// каскад сносит вопросы в БД и возвращает ключи их картинок
	imageKeys, err := h.Topics.TopicDelete(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "db delete failed", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	for _, key := range imageKeys {
		if derr := h.Storage.Delete(r.Context(), key); derr != nil {
			logx.Error(h.Log, reqID, op, "blob cleanup failed", derr, "key", key)
		}
	}

	_ = h.Cache.Del(r.Context(), domain.CacheKeyList(domain.CollectionCases))
	logx.Info(h.Log, reqID, op, "ok", "id", id, "images", len(imageKeys))
	v1.WriteOKResponse(w, r, map[string]bool{id.String(): true})
}
