package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Med359-a/NDMedSphere/internal/domain"
)

const videoCols = "id, title, description, file_key, original_name, mime_type, size_bytes, created_at"

func (r *PGRepo) CreateVideo(ctx context.Context, v domain.Video) (domain.Video, error) {
	q := r.qb().Insert(r.tbl("videos")).
		Columns("id", "title", "description", "file_key", "original_name", "mime_type", "size_bytes").
		Values(v.ID, v.Title, v.Description, v.FileKey, v.OriginalName, v.MimeType, v.SizeBytes).
		Suffix("RETURNING " + videoCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateVideo", sqlStr, args)

	start := time.Now()
	var out domain.Video
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&out.ID, &out.Title, &out.Description, &out.FileKey,
		&out.OriginalName, &out.MimeType, &out.SizeBytes, &out.CreatedAt,
	); err != nil {
		r.logger.Printf("CreateVideo scan error after %s: %v", time.Since(start), err)
		return domain.Video{}, err
	}
	r.logger.Printf("CreateVideo ok in %s id=%s title=%q", time.Since(start), out.ID, out.Title)
	return out, nil
}

func (r *PGRepo) VideoByID(ctx context.Context, id domain.VideoID) (domain.Video, error) {
	q := r.qb().Select(videoCols).From(r.tbl("videos")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("VideoByID", sqlStr, args)

	var v domain.Video
	err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&v.ID, &v.Title, &v.Description, &v.FileKey,
		&v.OriginalName, &v.MimeType, &v.SizeBytes, &v.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Video{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Video{}, err
	}
	return v, nil
}

func (r *PGRepo) VideosList(ctx context.Context) ([]domain.Video, error) {
	q := r.qb().Select(videoCols).From(r.tbl("videos")).OrderBy("created_at DESC")
	sqlStr, args, _ := q.ToSql()
	r.logSQL("VideosList", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]domain.Video, 0)
	for rows.Next() {
		var v domain.Video
		if err := rows.Scan(
			&v.ID, &v.Title, &v.Description, &v.FileKey,
			&v.OriginalName, &v.MimeType, &v.SizeBytes, &v.CreatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

func (r *PGRepo) VideoDelete(ctx context.Context, id domain.VideoID) error {
	q := r.qb().Delete(r.tbl("videos")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("VideoDelete", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
