package books

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Med359-a/NDMedSphere/internal/domain"
)

type fakeBooksRepo struct {
	items   map[domain.BookID]domain.Book
	failAll bool
}

func (f *fakeBooksRepo) CreateBook(_ context.Context, b domain.Book) (domain.Book, error) {
	if f.failAll {
		return domain.Book{}, domain.ErrUnexpected
	}
	f.items[b.ID] = b
	return b, nil
}

func (f *fakeBooksRepo) BookByID(_ context.Context, id domain.BookID) (domain.Book, error) {
	b, ok := f.items[id]
	if !ok {
		return domain.Book{}, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeBooksRepo) BooksList(_ context.Context) ([]domain.Book, error) {
	out := make([]domain.Book, 0, len(f.items))
	for _, b := range f.items {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBooksRepo) BookDelete(_ context.Context, id domain.BookID) error {
	if _, ok := f.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.items, id)
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
	return domain.BlobInfo{Size: int64(len(b)), ContentType: "application/pdf", OriginalName: "guide.pdf"}, nil
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

type fakeCache struct {
	data map[string][]byte
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) { return f.data[key], nil }
func (f *fakeCache) Set(_ context.Context, key string, val []byte, _ int) error {
	f.data[key] = val
	return nil
}
func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}
func (f *fakeCache) Ping(context.Context) error { return nil }
func (f *fakeCache) Close()                     {}

// allowAll / denyAll — тестовые гейты
type allowAll struct{}

func (allowAll) IsAdmin(*http.Request) bool { return true }

type denyAll struct{}

func (denyAll) IsAdmin(*http.Request) bool { return false }

func newFixture(admin bool) (*Handler, *fakeBooksRepo, *fakeStorage, *fakeCache) {
	repo := &fakeBooksRepo{items: map[domain.BookID]domain.Book{}}
	st := &fakeStorage{blobs: map[string][]byte{}}
	c := &fakeCache{data: map[string][]byte{}}
	h := &Handler{
		Log:     log.New(io.Discard, "", 0),
		Books:   repo,
		Storage: st,
		Cache:   c,
		ListTTL: 60,
	}
	if admin {
		h.Gate = allowAll{}
	} else {
		h.Gate = denyAll{}
	}
	return h, repo, st, c
}

func TestCreate_RequiresAdmin(t *testing.T) {
	h, repo, _, _ := newFixture(false)

	body := strings.NewReader(`{"title":"Harrison"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/books", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, repo.items)

	var env domain.APIEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.ErrCodeForbidden, env.Error.Code)
}

func TestCreate_JSON(t *testing.T) {
	h, repo, _, c := newFixture(true)
	c.data[domain.CacheKeyList(domain.CollectionBooks)] = []byte(`{"data":[]}`)

	body := strings.NewReader(`{"title":"Harrison","author":"Kasper","url":"https://example.com/h21"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/books", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.items, 1)
	// мутация инвалидирует кеш списка
	assert.NotContains(t, c.data, domain.CacheKeyList(domain.CollectionBooks))
}

func TestCreate_EmptyTitle(t *testing.T) {
	h, _, _, _ := newFixture(true)

	req := httptest.NewRequest(http.MethodPost, "/v1/books", strings.NewReader(`{"title":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartPDF(t *testing.T, fields map[string]string, fileField, fileName, mime string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mp := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mp.WriteField(k, v))
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+fileName+`"`)
	hdr.Set("Content-Type", mime)
	part, err := mp.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mp.Close())
	return &buf, mp.FormDataContentType()
}

func TestCreate_MultipartRejectsNonPDF(t *testing.T) {
	h, repo, st, _ := newFixture(true)

	buf, ct := multipartPDF(t, map[string]string{"title": "x"}, "file", "x.png", "image/png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/v1/books", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Empty(t, repo.items)
	assert.Empty(t, st.blobs)
}

func TestCreate_MultipartCleansBlobOnDBFailure(t *testing.T) {
	h, repo, st, _ := newFixture(true)
	repo.failAll = true

	buf, ct := multipartPDF(t, map[string]string{"title": "x"}, "file", "x.pdf", "application/pdf", []byte("%PDF-1.7"))
	req := httptest.NewRequest(http.MethodPost, "/v1/books", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	// компенсирующее удаление: blob не должен осиротеть
	assert.Empty(t, st.blobs)
}

func TestDelete_RemovesRecordAndBlob(t *testing.T) {
	h, repo, st, _ := newFixture(true)

	id := uuid.New()
	key := "books/" + id.String()
	repo.items[id] = domain.Book{ID: id, Title: "x", FileKey: key}
	st.blobs[key] = []byte("%PDF-1.7")

	req := httptest.NewRequest(http.MethodDelete, "/v1/books?id="+id.String(), nil)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.items)
	assert.Empty(t, st.blobs)
}

func TestDelete_UnknownID(t *testing.T) {
	h, _, _, _ := newFixture(true)

	req := httptest.NewRequest(http.MethodDelete, "/v1/books?id="+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestList_ServedFromCache(t *testing.T) {
	h, _, _, c := newFixture(true)
	cached := []byte(`{"data":[{"id":"cached"}]}`)
	c.data[domain.CacheKeyList(domain.CollectionBooks)] = cached

	req := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, cached, rec.Body.Bytes())
}

func TestDownload_WholeObject(t *testing.T) {
	h, repo, st, _ := newFixture(true)

	id := uuid.New()
	key := "books/" + id.String()
	content := []byte("%PDF-1.7 content")
	repo.items[id] = domain.Book{ID: id, Title: "x", FileKey: key, OriginalName: "guide.pdf"}
	st.blobs[key] = content

	req := httptest.NewRequest(http.MethodGet, "/v1/books/download?id="+id.String(), nil)
	rec := httptest.NewRecorder()
	h.Download(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inline")
	assert.Equal(t, content, rec.Body.Bytes())
}

func TestDownload_NoFile(t *testing.T) {
	h, repo, _, _ := newFixture(true)

	id := uuid.New()
	repo.items[id] = domain.Book{ID: id, Title: "link only"}

	req := httptest.NewRequest(http.MethodGet, "/v1/books/download?id="+id.String(), nil)
	rec := httptest.NewRecorder()
	h.Download(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
