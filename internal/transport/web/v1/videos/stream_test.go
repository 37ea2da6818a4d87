package videos

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Med359-a/NDMedSphere/internal/domain"
)

// --- фейки для хендлера ---

type fakeVideosRepo struct {
	items map[domain.VideoID]domain.Video
}

func (f *fakeVideosRepo) CreateVideo(_ context.Context, v domain.Video) (domain.Video, error) {
	f.items[v.ID] = v
	return v, nil
}

func (f *fakeVideosRepo) VideoByID(_ context.Context, id domain.VideoID) (domain.Video, error) {
	v, ok := f.items[id]
	if !ok {
		return domain.Video{}, domain.ErrNotFound
	}
	return v, nil
}

func (f *fakeVideosRepo) VideosList(_ context.Context) ([]domain.Video, error) {
	out := make([]domain.Video, 0, len(f.items))
	for _, v := range f.items {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVideosRepo) VideoDelete(_ context.Context, id domain.VideoID) error {
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
	return domain.BlobInfo{Size: int64(len(b)), ContentType: "video/mp4"}, nil
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

func newStreamFixture(t *testing.T, size int) (*Handler, domain.VideoID) {
	t.Helper()

	content := make([]byte, size)
	for i := range content {
		content[i] = byte(i % 251)
	}

	id := uuid.New()
	key := "videos/" + id.String()
	repo := &fakeVideosRepo{items: map[domain.VideoID]domain.Video{
		id: {ID: id, Title: "lecture", FileKey: key, MimeType: "video/mp4", SizeBytes: int64(size)},
	}}
	st := &fakeStorage{blobs: map[string][]byte{key: content}}

	h := &Handler{
		Log:     log.New(io.Discard, "", 0),
		Videos:  repo,
		Storage: st,
		Cache:   fakeCache{},
	}
	return h, id
}

func TestStream_FullObjectWithoutRange(t *testing.T) {
	h, id := newStreamFixture(t, 10000)

	req := httptest.NewRequest(http.MethodGet, "/v1/videos/stream?id="+id.String(), nil)
	rec := httptest.NewRecorder()
	h.Stream(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "video/mp4", rec.Header().Get("Content-Type"))
	assert.Equal(t, "10000", rec.Header().Get("Content-Length"))
	assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
	assert.Len(t, rec.Body.Bytes(), 10000)
}

func TestStream_OpenEndedRange(t *testing.T) {
	h, id := newStreamFixture(t, 10000)

	req := httptest.NewRequest(http.MethodGet, "/v1/videos/stream?id="+id.String(), nil)
	req.Header.Set("Range", "bytes=9000-")
	rec := httptest.NewRecorder()
	h.Stream(rec, req)

	require.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "bytes 9000-9999/10000", rec.Header().Get("Content-Range"))
	assert.Equal(t, "1000", rec.Header().Get("Content-Length"))
	assert.Len(t, rec.Body.Bytes(), 1000)
	// содержимое действительно с 9000-го байта
	assert.Equal(t, byte(9000%251), rec.Body.Bytes()[0])
}

func TestStream_ClosedRange(t *testing.T) {
	h, id := newStreamFixture(t, 10000)

	req := httptest.NewRequest(http.MethodGet, "/v1/videos/stream?id="+id.String(), nil)
	req.Header.Set("Range", "bytes=0-499")
	rec := httptest.NewRecorder()
	h.Stream(rec, req)

	require.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "bytes 0-499/10000", rec.Header().Get("Content-Range"))
	assert.Len(t, rec.Body.Bytes(), 500)
}

func TestStream_UnsatisfiableRange(t *testing.T) {
	h, id := newStreamFixture(t, 10000)

	for _, raw := range []string{"bytes=10000-10010", "bytes=0-10,20-30", "bytes=abc"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/videos/stream?id="+id.String(), nil)
		req.Header.Set("Range", raw)
		rec := httptest.NewRecorder()
		h.Stream(rec, req)

		require.Equal(t, http.StatusRequestedRangeNotSatisfiable, rec.Code, "range %q", raw)
		assert.Equal(t, "bytes */10000", rec.Header().Get("Content-Range"), "range %q", raw)
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"), "range %q", raw)
		assert.Empty(t, rec.Body.Bytes(), "range %q", raw)
	}
}

func TestStream_HeadReturnsHeadersOnly(t *testing.T) {
	h, id := newStreamFixture(t, 10000)

	req := httptest.NewRequest(http.MethodHead, "/v1/videos/stream?id="+id.String(), nil)
	req.Header.Set("Range", "bytes=-500")
	rec := httptest.NewRecorder()
	h.Stream(rec, req)

	require.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "bytes 9500-9999/10000", rec.Header().Get("Content-Range"))
	assert.Empty(t, rec.Body.Bytes())
}

func TestStream_UnknownID(t *testing.T) {
	h, _ := newStreamFixture(t, 100)

	req := httptest.NewRequest(http.MethodGet, "/v1/videos/stream?id="+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	h.Stream(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
