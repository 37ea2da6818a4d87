package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Med359-a/NDMedSphere/internal/domain"
)

const usmleCols = "id, title, description, url, file_key, file_name, file_type, created_at"

func (r *PGRepo) CreateResource(ctx context.Context, res domain.UsmleResource) (domain.UsmleResource, error) {
	q := r.qb().Insert(r.tbl("usmle_resources")).
		Columns("id", "title", "description", "url", "file_key", "file_name", "file_type").
		Values(res.ID, res.Title, res.Description, res.URL, res.FileKey, res.FileName, res.FileType).
		Suffix("RETURNING " + usmleCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateResource", sqlStr, args)

	start := time.Now()
	var out domain.UsmleResource
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&out.ID, &out.Title, &out.Description, &out.URL,
		&out.FileKey, &out.FileName, &out.FileType, &out.CreatedAt,
	); err != nil {
		r.logger.Printf("CreateResource scan error after %s: %v", time.Since(start), err)
		return domain.UsmleResource{}, err
	}
	r.logger.Printf("CreateResource ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) ResourceByID(ctx context.Context, id domain.ResourceID) (domain.UsmleResource, error) {
	q := r.qb().Select(usmleCols).From(r.tbl("usmle_resources")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("ResourceByID", sqlStr, args)

	var res domain.UsmleResource
	err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&res.ID, &res.Title, &res.Description, &res.URL,
		&res.FileKey, &res.FileName, &res.FileType, &res.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UsmleResource{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.UsmleResource{}, err
	}
	return res, nil
}

func (r *PGRepo) ResourcesList(ctx context.Context) ([]domain.UsmleResource, error) {
	q := r.qb().Select(usmleCols).From(r.tbl("usmle_resources")).OrderBy("created_at DESC")
	sqlStr, args, _ := q.ToSql()
	r.logSQL("ResourcesList", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]domain.UsmleResource, 0)
	for rows.Next() {
		var u domain.UsmleResource
		if err := rows.Scan(
			&u.ID, &u.Title, &u.Description, &u.URL,
			&u.FileKey, &u.FileName, &u.FileType, &u.CreatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *PGRepo) ResourceDelete(ctx context.Context, id domain.ResourceID) error {
	q := r.qb().Delete(r.tbl("usmle_resources")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("ResourceDelete", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
