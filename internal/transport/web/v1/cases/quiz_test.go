package cases

import (
	"bytes"
	"context"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Med359-a/NDMedSphere/internal/domain"
)

type fakeTopicsRepo struct {
	topics  map[domain.TopicID]domain.Topic
	quizzes map[domain.QuizID]domain.QuizQuestion
}

func newFakeTopicsRepo() *fakeTopicsRepo {
	return &fakeTopicsRepo{
		topics:  map[domain.TopicID]domain.Topic{},
		quizzes: map[domain.QuizID]domain.QuizQuestion{},
	}
}

func (f *fakeTopicsRepo) CreateTopic(_ context.Context, t domain.Topic) (domain.Topic, error) {
	f.topics[t.ID] = t
	return t, nil
}

func (f *fakeTopicsRepo) TopicByID(_ context.Context, id domain.TopicID) (domain.Topic, error) {
	t, ok := f.topics[id]
	if !ok {
		return domain.Topic{}, domain.ErrNotFound
	}
	return t, nil
}

func (f *fakeTopicsRepo) TopicsList(_ context.Context) ([]domain.Topic, error) {
	out := make([]domain.Topic, 0, len(f.topics))
	for _, t := range f.topics {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTopicsRepo) TopicDelete(_ context.Context, id domain.TopicID) ([]string, error) {
	if _, ok := f.topics[id]; !ok {
		return nil, domain.ErrNotFound
	}
	delete(f.topics, id)
	var keys []string
	for qid, q := range f.quizzes {
		if q.TopicID == id {
			if q.ImageKey != "" {
				keys = append(keys, q.ImageKey)
			}
			delete(f.quizzes, qid)
		}
	}
	return keys, nil
}

func (f *fakeTopicsRepo) CreateQuiz(_ context.Context, q domain.QuizQuestion) (domain.QuizQuestion, error) {
	f.quizzes[q.ID] = q
	return q, nil
}

func (f *fakeTopicsRepo) QuizByID(_ context.Context, id domain.QuizID) (domain.QuizQuestion, error) {
	q, ok := f.quizzes[id]
	if !ok {
		return domain.QuizQuestion{}, domain.ErrNotFound
	}
	return q, nil
}

func (f *fakeTopicsRepo) QuizByTopic(_ context.Context, topicID domain.TopicID) ([]domain.QuizQuestion, error) {
	out := []domain.QuizQuestion{}
	for _, q := range f.quizzes {
		if q.TopicID == topicID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeTopicsRepo) QuizDelete(_ context.Context, id domain.QuizID) error {
	if _, ok := f.quizzes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.quizzes, id)
	return nil
}

type fakeStorage struct {
	blobs map[string][]byte
}

func (f *fakeStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _, _ string) (int64, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.blobs[key] = b
	return int64(len(b)), nil
}

func (f *fakeStorage) Stat(_ context.Context, key string) (domain.BlobInfo, error) {
	b, ok := f.blobs[key]
	if !ok {
		return domain.BlobInfo{}, domain.ErrNotFound
	}
	return domain.BlobInfo{Size: int64(len(b)), ContentType: "image/png"}, nil
}

func (f *fakeStorage) OpenRange(_ context.Context, key string, start, end int64) (io.ReadCloser, error) {
	b, ok := f.blobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if end < 0 || end > int64(len(b))-1 {
		end = int64(len(b)) - 1
	}
	return io.NopCloser(bytes.NewReader(b[start : end+1])), nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	delete(f.blobs, key)
	return nil
}

func (f *fakeStorage) Ping(context.Context) error { return nil }

type fakeCache struct{}

func (fakeCache) Get(context.Context, string) ([]byte, error)    { return nil, nil }
func (fakeCache) Set(context.Context, string, []byte, int) error { return nil }
func (fakeCache) Del(context.Context, ...string) error           { return nil }
func (fakeCache) Ping(context.Context) error                     { return nil }
func (fakeCache) Close()                                         {}

type allowAll struct{}

func (allowAll) IsAdmin(*http.Request) bool { return true }

func newFixture() (*Handler, *fakeTopicsRepo, *fakeStorage) {
	repo := newFakeTopicsRepo()
	st := &fakeStorage{blobs: map[string][]byte{}}
	h := &Handler{
		Log:     log.New(io.Discard, "", 0),
		Topics:  repo,
		Storage: st,
		Cache:   fakeCache{},
		Gate:    allowAll{},
		ListTTL: 60,
	}
	return h, repo, st
}

func quizForm(t *testing.T, fields map[string]string, image []byte, imageMime string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mp := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mp.WriteField(k, v))
	}
	if image != nil {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="image"; filename="xray.png"`)
		hdr.Set("Content-Type", imageMime)
		part, err := mp.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mp.Close())
	return &buf, mp.FormDataContentType()
}

func TestQuizCreate_WithImage(t *testing.T) {
	h, repo, st := newFixture()

	topicID := uuid.New()
	repo.topics[topicID] = domain.Topic{ID: topicID, Title: "sepsis"}

	buf, ct := quizForm(t, map[string]string{
		"topic_id": topicID.String(),
		"question": "Первый шаг терапии?",
		"answers":  `[{"text":"Антибиотики","isCorrect":true},{"text":"Наблюдение","isCorrect":false}]`,
	}, []byte("png-bytes"), "image/png")

	req := httptest.NewRequest(http.MethodPost, "/v1/cases/quiz", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.QuizCreate(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, repo.quizzes, 1)
	require.Len(t, st.blobs, 1)
	for _, q := range repo.quizzes {
		assert.Equal(t, topicID, q.TopicID)
		assert.Len(t, q.Answers, 2)
		// пустым id ответов выдаются порядковые номера
		assert.Equal(t, "1", q.Answers[0].ID)
		assert.Contains(t, st.blobs, q.ImageKey)
	}
}

func TestQuizCreate_RejectsSingleAnswer(t *testing.T) {
	h, repo, _ := newFixture()

	topicID := uuid.New()
	repo.topics[topicID] = domain.Topic{ID: topicID, Title: "sepsis"}

	buf, ct := quizForm(t, map[string]string{
		"topic_id": topicID.String(),
		"question": "q",
		"answers":  `[{"text":"one","isCorrect":true}]`,
	}, nil, "")

	req := httptest.NewRequest(http.MethodPost, "/v1/cases/quiz", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.QuizCreate(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.quizzes)
}

func TestQuizCreate_UnknownTopic(t *testing.T) {
	h, _, _ := newFixture()

	buf, ct := quizForm(t, map[string]string{
		"topic_id": uuid.NewString(),
		"question": "q",
		"answers":  `[{"text":"a","isCorrect":true},{"text":"b","isCorrect":false}]`,
	}, nil, "")

	req := httptest.NewRequest(http.MethodPost, "/v1/cases/quiz", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.QuizCreate(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuizCreate_RejectsNonImage(t *testing.T) {
	h, repo, st := newFixture()

	topicID := uuid.New()
	repo.topics[topicID] = domain.Topic{ID: topicID, Title: "sepsis"}

	buf, ct := quizForm(t, map[string]string{
		"topic_id": topicID.String(),
		"question": "q",
		"answers":  `[{"text":"a","isCorrect":true},{"text":"b","isCorrect":false}]`,
	}, []byte("pdf"), "application/pdf")

	req := httptest.NewRequest(http.MethodPost, "/v1/cases/quiz", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.QuizCreate(rec, req)

	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Empty(t, repo.quizzes)
	assert.Empty(t, st.blobs)
}

func TestTopicDelete_CleansQuizImages(t *testing.T) {
	h, repo, st := newFixture()

	topicID := uuid.New()
	repo.topics[topicID] = domain.Topic{ID: topicID, Title: "sepsis"}

	qID := uuid.New()
	key := "cases/" + qID.String()
	repo.quizzes[qID] = domain.QuizQuestion{ID: qID, TopicID: topicID, ImageKey: key}
	st.blobs[key] = []byte("png")

	req := httptest.NewRequest(http.MethodDelete, "/v1/cases?id="+topicID.String(), nil)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.topics)
	assert.Empty(t, repo.quizzes)
	assert.Empty(t, st.blobs)
}
