package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Med359-a/NDMedSphere/internal/domain"
)

const bookCols = "id, title, author, url, notes, file_key, original_name, size_bytes, created_at"

func (r *PGRepo) CreateBook(ctx context.Context, b domain.Book) (domain.Book, error) {
	q := r.qb().Insert(r.tbl("books")).
		Columns("id", "title", "author", "url", "notes", "file_key", "original_name", "size_bytes").
		Values(b.ID, b.Title, b.Author, b.URL, b.Notes, b.FileKey, b.OriginalName, b.SizeBytes).
		Suffix("RETURNING " + bookCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateBook", sqlStr, args)

	start := time.Now()
	var out domain.Book
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&out.ID, &out.Title, &out.Author, &out.URL, &out.Notes,
		&out.FileKey, &out.OriginalName, &out.SizeBytes, &out.CreatedAt,
	); err != nil {
		r.logger.Printf("CreateBook scan error after %s: %v", time.Since(start), err)
		return domain.Book{}, err
	}
	r.logger.Printf("CreateBook ok in %s id=%s title=%q", time.Since(start), out.ID, out.Title)
	return out, nil
}

func (r *PGRepo) BookByID(ctx context.Context, id domain.BookID) (domain.Book, error) {
	q := r.qb().Select(bookCols).From(r.tbl("books")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("BookByID", sqlStr, args)

	var b domain.Book
	err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&b.ID, &b.Title, &b.Author, &b.URL, &b.Notes,
		&b.FileKey, &b.OriginalName, &b.SizeBytes, &b.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Book{}, domain.ErrNotFound
	}
	if err != nil {
		r.logger.Printf("BookByID scan error: %v", err)
		return domain.Book{}, err
	}
	return b, nil
}

func (r *PGRepo) BooksList(ctx context.Context) ([]domain.Book, error) {
	q := r.qb().Select(bookCols).From(r.tbl("books")).OrderBy("created_at DESC")
	sqlStr, args, _ := q.ToSql()
	r.logSQL("BooksList", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("BooksList query error after %s: %v", time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	res := make([]domain.Book, 0)
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.URL, &b.Notes,
			&b.FileKey, &b.OriginalName, &b.SizeBytes, &b.CreatedAt,
		); err != nil {
			r.logger.Printf("BooksList scan error: %v", err)
			return nil, err
		}
		res = append(res, b)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("BooksList rows error: %v", err)
		return nil, err
	}
	r.logger.Printf("BooksList ok in %s count=%d", time.Since(start), len(res))
	return res, nil
}

func (r *PGRepo) BookDelete(ctx context.Context, id domain.BookID) error {
	q := r.qb().Delete(r.tbl("books")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("BookDelete", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("BookDelete exec error: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
