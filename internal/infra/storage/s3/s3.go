package s3

import (
	"context"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Med359-a/NDMedSphere/internal/domain"
)

const metaOriginalName = "Original-Name"

type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool
}

type Storage struct {
	cl     *minio.Client
	bucket string
	logger *log.Logger
}

func New(ctx context.Context, cfg Config, logger *log.Logger) (*Storage, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.PathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}
	cl, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, err
	}

	s := &Storage{cl: cl, bucket: cfg.Bucket, logger: logger}

	exists, err := cl.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.Printf("bucket %q missing, creating", cfg.Bucket)
		if err := cl.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

var _ domain.BlobStorage = (*Storage)(nil)

// Put загружает поток под заданным ключом. size = -1 допустим:
// minio перейдёт на multipart-загрузку.
func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType, originalName string) (int64, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if originalName != "" {
		opts.UserMetadata = map[string]string{metaOriginalName: originalName}
	}
	info, err := s.cl.PutObject(ctx, s.bucket, key, r, size, opts)
	if err != nil {
		s.logger.Printf("put %q failed: %v", key, err)
		return 0, err
	}
	s.logger.Printf("put %q ok (%d bytes)", key, info.Size)
	return info.Size, nil
}

func (s *Storage) Stat(ctx context.Context, key string) (domain.BlobInfo, error) {
	info, err := s.cl.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return domain.BlobInfo{}, err
	}
	return domain.BlobInfo{
		Size:         info.Size,
		ContentType:  info.ContentType,
		OriginalName: info.UserMetadata[metaOriginalName],
	}, nil
}

// OpenRange открывает чтение [start, end] включительно; end < 0 — до конца.
// Поток привязан к ctx: отмена запроса закрывает соединение с хранилищем.
func (s *Storage) OpenRange(ctx context.Context, key string, start, end int64) (io.ReadCloser, error) {
	opts := minio.GetObjectOptions{}
	switch {
	case start == 0 && end < 0:
		// весь объект, Range не нужен
	case end < 0:
		// NB: SetRange(start, 0) у minio означает "от start до конца"
		if err := opts.SetRange(start, 0); err != nil {
			return nil, err
		}
	default:
		if err := opts.SetRange(start, end); err != nil {
			return nil, err
		}
	}

	obj, err := s.cl.GetObject(ctx, s.bucket, key, opts)
	if err != nil {
		s.logger.Printf("get %q failed: %v", key, err)
		return nil, err
	}
	return obj, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.cl.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *Storage) Ping(ctx context.Context) error {
	_, err := s.cl.BucketExists(ctx, s.bucket)
	return err
}
