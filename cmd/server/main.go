package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Med359-a/NDMedSphere/internal/app"
)

// @title           NDMedSphere API
// @version         1.0
// @description     Медицинский контент-сервис: книги, клинические кейсы с квизами, USMLE-ресурсы, новости и видео.

// @BasePath  /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx)
	if err != nil {
		log.Fatalf("build failed: %v", err)
	}
	if err := a.Run(ctx); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}
