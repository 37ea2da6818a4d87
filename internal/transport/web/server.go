package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Med359-a/NDMedSphere/internal/config"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/v1/admin"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/v1/books"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/v1/cases"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/v1/health"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/v1/news"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/v1/usmle"
	"github.com/Med359-a/NDMedSphere/internal/transport/web/v1/videos"
)

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, d Deps) *Server {
	sub := func(name string) *log.Logger {
		return log.New(logger.Writer(), logger.Prefix()+"["+name+"] ", logger.Flags())
	}

	ttl := cfg.CacheListTTL
	h := handlers{
		health: &health.Handler{Log: sub("health"), DB: d.Repo, Cache: d.Cache, Storage: d.Storage},
		admin:  &admin.Handler{Log: sub("admin"), Gate: d.Gate},
		books:  &books.Handler{Log: sub("books"), Books: d.Repo, Storage: d.Storage, Cache: d.Cache, Gate: d.Gate, ListTTL: ttl},
		cases:  &cases.Handler{Log: sub("cases"), Topics: d.Repo, Storage: d.Storage, Cache: d.Cache, Gate: d.Gate, ListTTL: ttl},
		usmle:  &usmle.Handler{Log: sub("usmle"), Usmle: d.Repo, Storage: d.Storage, Cache: d.Cache, Gate: d.Gate, ListTTL: ttl},
		news:   &news.Handler{Log: sub("news"), News: d.Repo, Storage: d.Storage, Cache: d.Cache, Gate: d.Gate, ListTTL: ttl},
		videos: &videos.Handler{Log: sub("videos"), Videos: d.Repo, Storage: d.Storage, Cache: d.Cache, Gate: d.Gate, ListTTL: ttl},
	}

	srv := &http.Server{
		Addr:    cfg.AppPort,
		Handler: newRouter(h, d.TokenGate, logger),
		// WriteTimeout нулевой: стриминг видео легально живёт дольше любого
		// разумного фиксированного таймаута
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      0,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}
