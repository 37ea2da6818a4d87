package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Med359-a/NDMedSphere/internal/domain"
)

const noteCols = "id, title, notes, tags, url, image_key, created_at"

func (r *PGRepo) CreateNote(ctx context.Context, n domain.NewsNote) (domain.NewsNote, error) {
	q := r.qb().Insert(r.tbl("news_notes")).
		Columns("id", "title", "notes", "tags", "url", "image_key").
		Values(n.ID, n.Title, n.Notes, n.Tags, n.URL, n.ImageKey).
		Suffix("RETURNING " + noteCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateNote", sqlStr, args)

	start := time.Now()
	var out domain.NewsNote
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&out.ID, &out.Title, &out.Notes, &out.Tags, &out.URL, &out.ImageKey, &out.CreatedAt,
	); err != nil {
		r.logger.Printf("CreateNote scan error after %s: %v", time.Since(start), err)
		return domain.NewsNote{}, err
	}
	r.logger.Printf("CreateNote ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) NoteByID(ctx context.Context, id domain.NoteID) (domain.NewsNote, error) {
	q := r.qb().Select(noteCols).From(r.tbl("news_notes")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("NoteByID", sqlStr, args)

	var n domain.NewsNote
	err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&n.ID, &n.Title, &n.Notes, &n.Tags, &n.URL, &n.ImageKey, &n.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewsNote{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.NewsNote{}, err
	}
	return n, nil
}

func (r *PGRepo) NotesList(ctx context.Context) ([]domain.NewsNote, error) {
	q := r.qb().Select(noteCols).From(r.tbl("news_notes")).OrderBy("created_at DESC")
	sqlStr, args, _ := q.ToSql()
	r.logSQL("NotesList", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]domain.NewsNote, 0)
	for rows.Next() {
		var n domain.NewsNote
		if err := rows.Scan(
			&n.ID, &n.Title, &n.Notes, &n.Tags, &n.URL, &n.ImageKey, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, rows.Err()
}

func (r *PGRepo) NoteDelete(ctx context.Context, id domain.NoteID) error {
	q := r.qb().Delete(r.tbl("news_notes")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("NoteDelete", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
