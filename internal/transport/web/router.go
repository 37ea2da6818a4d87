package web

import (
	"log"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	adm "github.com/Med359-a/NDMedSphere/internal/auth/admin"
	_ "github.com/Med359-a/NDMedSphere/internal/docs"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/mw"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/v1/admin"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/v1/books"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/v1/cases"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/v1/health"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/v1/news"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/v1/usmle"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/v1/videos"
)

type handlers struct {
	health *health.Handler
	admin  *admin.Handler
	books  *books.Handler
	cases  *cases.Handler
	usmle  *usmle.Handler
	news   *news.Handler
	videos *videos.Handler
}

func newRouter(h handlers, tokenGate *adm.TokenGate, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /healthz", h.health.Liveness)
	mux.HandleFunc("GET /readyz", h.health.Readiness)

	// admin status
	mux.HandleFunc("GET /v1/admin", h.admin.Status)

	// books
	mux.HandleFunc("GET /v1/books", h.books.List)
	mux.HandleFunc("POST /v1/books", limitBody(64<<20, h.books.Create))
	mux.HandleFunc("DELETE /v1/books", h.books.Delete)
	mux.HandleFunc("GET /v1/books/download", h.books.Download)

	// clinical cases + quiz
	mux.HandleFunc("GET /v1/cases", h.cases.List)
	mux.HandleFunc("POST /v1/cases", limitBody(1<<20, h.cases.Create))
	mux.HandleFunc("DELETE /v1/cases", h.cases.Delete)
	mux.HandleFunc("POST /v1/cases/quiz", limitBody(16<<20, h.cases.QuizCreate))
	mux.HandleFunc("DELETE /v1/cases/quiz", h.cases.QuizDelete)
	mux.HandleFunc("GET /v1/cases/quiz/image", h.cases.QuizImage)

	// usmle resources
	mux.HandleFunc("GET /v1/usmle", h.usmle.List)
	mux.HandleFunc("POST /v1/usmle", limitBody(128<<20, h.usmle.Create))
	mux.HandleFunc("DELETE /v1/usmle", h.usmle.Delete)
	mux.HandleFunc("GET /v1/usmle/image", h.usmle.File)

	// news notes
	mux.HandleFunc("GET /v1/news", h.news.List)
	mux.HandleFunc("POST /v1/news", limitBody(16<<20, h.news.Create))
	mux.HandleFunc("DELETE /v1/news", h.news.Delete)
	mux.HandleFunc("GET /v1/news/image", h.news.Image)

	// videos: лимит с запасом на multipart-обвязку нескольких файлов
	mux.HandleFunc("GET /v1/videos", h.videos.List)
	mux.HandleFunc("POST /v1/videos", limitBody(1<<30, h.videos.Create))
	mux.HandleFunc("DELETE /v1/videos", h.videos.Delete)
	// GET-паттерн матчит и HEAD; хендлер сам не пишет тело для HEAD
	mux.HandleFunc("GET /v1/videos/stream", h.videos.Stream)

	// swagger
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// 🔗 middleware
	return mw.WithRequestID(mw.AdminExchange(tokenGate, logger)(mw.Logging(logger)(mux)))
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}
