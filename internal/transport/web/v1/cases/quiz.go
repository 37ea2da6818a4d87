package cases

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Med359-a/NDMedSphere/internal/domain"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/logx"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/mw"
	v1 "github.com/Med359-a/NDMedSphere/internal/transport/web/v1"
)

const maxQuizImageBytes = 10 << 20 // 10MB на картинку вопроса

// QuizCreate godoc
// @Summary     Add quiz question to a topic (admin only)
// @Description multipart/form-data: topic_id, question, answers (JSON-массив, минимум 2),
// @Description explanation и опциональная картинка в "image" (image/*, до 10MB).
// @Tags        cases
// @Accept      multipart/form-data
// @Produce     json
// @Success     201 {object} domain.APIEnvelope{data=domain.QuizQuestion}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Failure     413 {object} domain.APIEnvelope
// @Failure     415 {object} domain.APIEnvelope
// @Router      /v1/cases/quiz [post]
func (h *Handler) QuizCreate(w http.ResponseWriter, r *http.Request) {
	const op = "cases.quiz.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	if !v1.RequireAdmin(h.Gate, w, r) {
		logx.Error(h.Log, reqID, op, "not admin", domain.ErrForbidden)
		return
	}

	if err := r.ParseMultipartForm(maxQuizImageBytes); err != nil {
		logx.Error(h.Log, reqID, op, "bad multipart", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	topicID, err := uuid.Parse(r.FormValue("topic_id"))
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad topic_id", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	// тема должна существовать до загрузки картинки
	if _, err := h.Topics.TopicByID(r.Context(), topicID); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	question := strings.TrimSpace(r.FormValue("question"))
	if question == "" {
		logx.Error(h.Log, reqID, op, "empty question", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	var answers []domain.QuizAnswer
	if err := json.Unmarshal([]byte(r.FormValue("answers")), &answers); err != nil || len(answers) < 2 {
		logx.Error(h.Log, reqID, op, "bad answers", domain.ErrBadParams, "count", len(answers))
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	for i := range answers {
		answers[i].Text = strings.TrimSpace(answers[i].Text)
		if answers[i].Text == "" {
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		if answers[i].ID == "" {
			answers[i].ID = strconv.Itoa(i + 1)
		}
	}

	q := domain.QuizQuestion{
		ID:          uuid.New(),
		TopicID:     topicID,
		Question:    question,
		Answers:     answers,
		Explanation: strings.TrimSpace(r.FormValue("explanation")),
	}

	hasImage := false
	if fh, hdr, err := r.FormFile("image"); err == nil {
		defer fh.Close()
		mime := hdr.Header.Get("Content-Type")
		if !strings.HasPrefix(mime, "image/") {
			logx.Error(h.Log, reqID, op, "not an image", domain.ErrUnsupportedMedia, "mime", mime)
			v1.WriteDomainError(w, r, domain.ErrUnsupportedMedia)
			return
		}
		if hdr.Size > maxQuizImageBytes {
			v1.WriteDomainError(w, r, domain.ErrTooLarge)
			return
		}

		q.ImageKey = "cases/" + q.ID.String()
		if _, err := h.Storage.Put(r.Context(), q.ImageKey, fh, hdr.Size, mime, hdr.Filename); err != nil {
			logx.Error(h.Log, reqID, op, "storage put failed", err)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
		hasImage = true
	}

	created, err := h.Topics.CreateQuiz(r.Context(), q)
	if err != nil {
		if hasImage {
			if derr := h.Storage.Delete(r.Context(), q.ImageKey); derr != nil {
				logx.Error(h.Log, reqID, op, "orphan blob cleanup failed", derr, "key", q.ImageKey)
			}
		}
		logx.Error(h.Log, reqID, op, "db create failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	_ = h.Cache.Del(r.Context(), domain.CacheKeyList(domain.CollectionCases))
	logx.Info(h.Log, reqID, op, "ok", "id", created.ID, "topic", topicID, "image", hasImage)
	v1.WriteCreated(w, r, created)
}

// QuizDelete godoc
// @Summary     Delete quiz question (admin only)
// @Tags        cases
// @Param       id query string true "question id"
// @Success     200 {object} domain.APIEnvelope{response=object}
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/cases/quiz [delete]
func (h *Handler) QuizDelete(w http.ResponseWriter, r *http.Request) {
	const op = "cases.quiz.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	if !v1.RequireAdmin(h.Gate, w, r) {
		return
	}
	id, err := v1.IDFromQuery(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	q, err := h.Topics.QuizByID(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.Topics.QuizDelete(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "db delete failed", err, "id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	if q.ImageKey != "" {
		if derr := h.Storage.Delete(r.Context(), q.ImageKey); derr != nil {
			logx.Error(h.Log, reqID, op, "blob cleanup failed", derr, "key", q.ImageKey)
		}
	}

	_ = h.Cache.Del(r.Context(), domain.CacheKeyList(domain.CollectionCases))
	logx.Info(h.Log, reqID, op, "ok", "id", id)
	v1.WriteOKResponse(w, r, map[string]bool{id.String(): true})
}

// QuizImage godoc
// @Summary     Quiz question image
// @Tags        cases
// @Param       id query string true "question id"
// @Success     200 {file} []byte
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/cases/quiz/image [get]
func (h *Handler) QuizImage(w http.ResponseWriter, r *http.Request) {
	const op = "cases.quiz.image"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := v1.IDFromQuery(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	q, err := h.Topics.QuizByID(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if q.ImageKey == "" {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	info, err := h.Storage.Stat(r.Context(), q.ImageKey)
	if err != nil {
		logx.Error(h.Log, reqID, op, "blob missing", err, "key", q.ImageKey)
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	rc, err := h.Storage.OpenRange(r.Context(), q.ImageKey, 0, -1)
	if err != nil {
		logx.Error(h.Log, reqID, op, "storage open failed", err, "key", q.ImageKey)
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
