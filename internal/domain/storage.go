package domain

import (
	"context"
	"io"
)

// Мета объекта в blob-хранилище
type BlobInfo struct {
	Size         int64
	ContentType  string
	OriginalName string
}

// Хранилище бинарного контента (S3/MinIO).
// Объекты write-once: после загрузки не изменяются, только удаляются.
type BlobStorage interface {
	// Сохраняет поток под заданным ключом. size = -1, если размер неизвестен.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType, originalName string) (int64, error)
	// Мета объекта (размер, тип, исходное имя).
	Stat(ctx context.Context, key string) (BlobInfo, error)
	// Открывает чтение диапазона [start, end] (границы включительно).
	// end < 0 — читать до конца объекта.
	OpenRange(ctx context.Context, key string, start, end int64) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
