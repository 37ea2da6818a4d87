package domain

import "context"

// Ключи кеша — единое место, чтобы не расползались по коду.
// Кешируются только готовые JSON-ответы списков; инвалидация — на мутации.
func CacheKeyList(collection string) string { return "list:" + collection }

const (
	CollectionBooks  = "books"
	CollectionCases  = "cases"
	CollectionUsmle  = "usmle"
	CollectionNews   = "news"
	CollectionVideos = "videos"
)

// Простой k/v интерфейс. Реализация — Redis.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
	Del(ctx context.Context, keys ...string) error
	Ping(context.Context) error
	Close()
}
