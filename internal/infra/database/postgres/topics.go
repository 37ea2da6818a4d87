package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Med359-a/NDMedSphere/internal/domain"
)

const topicCols = "id, title, summary, tags, created_at"
const quizCols = "id, topic_id, question, answers, explanation, image_key, created_at"

func (r *PGRepo) CreateTopic(ctx context.Context, t domain.Topic) (domain.Topic, error) {
	q := r.qb().Insert(r.tbl("topics")).
		Columns("id", "title", "summary", "tags").
		Values(t.ID, t.Title, t.Summary, t.Tags).
		Suffix("RETURNING " + topicCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateTopic", sqlStr, args)

	start := time.Now()
	var out domain.Topic
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&out.ID, &out.Title, &out.Summary, &out.Tags, &out.CreatedAt,
	); err != nil {
		r.logger.Printf("CreateTopic scan error after %s: %v", time.Since(start), err)
		return domain.Topic{}, err
	}
	r.logger.Printf("CreateTopic ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) TopicByID(ctx context.Context, id domain.TopicID) (domain.Topic, error) {
	q := r.qb().Select(topicCols).From(r.tbl("topics")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("TopicByID", sqlStr, args)

	var t domain.Topic
	err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&t.ID, &t.Title, &t.Summary, &t.Tags, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Topic{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Topic{}, err
	}
	return t, nil
}

func (r *PGRepo) TopicsList(ctx context.Context) ([]domain.Topic, error) {
	q := r.qb().Select(topicCols).From(r.tbl("topics")).OrderBy("created_at DESC")
	sqlStr, args, _ := q.ToSql()
	r.logSQL("TopicsList", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]domain.Topic, 0)
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.ID, &t.Title, &t.Summary, &t.Tags, &t.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// TopicDelete удаляет тему; вопросы уходят каскадом, поэтому ключи их
// картинок собираем заранее — их зачистка в blob-хранилище на вызывающем.
func (r *PGRepo) TopicDelete(ctx context.Context, id domain.TopicID) ([]string, error) {
	qk := r.qb().Select("image_key").From(r.tbl("quiz_questions")).
		Where(sq.And{sq.Eq{"topic_id": id}, sq.NotEq{"image_key": ""}})
	sqlStr, args, _ := qk.ToSql()
	r.logSQL("TopicDelete.imageKeys", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			rows.Close()
			return nil, err
		}
		keys = append(keys, k)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	q := r.qb().Delete(r.tbl("topics")).Where(sq.Eq{"id": id})
	sqlStr, args, _ = q.ToSql()
	r.logSQL("TopicDelete", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return keys, nil
}

// ---------- QUIZ ----------

func (r *PGRepo) CreateQuiz(ctx context.Context, qq domain.QuizQuestion) (domain.QuizQuestion, error) {
	answers, err := json.Marshal(qq.Answers)
	if err != nil {
		return domain.QuizQuestion{}, err
	}

	q := r.qb().Insert(r.tbl("quiz_questions")).
		Columns("id", "topic_id", "question", "answers", "explanation", "image_key").
		Values(qq.ID, qq.TopicID, qq.Question, answers, qq.Explanation, qq.ImageKey).
		Suffix("RETURNING " + quizCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateQuiz", sqlStr, args)

	out, err := scanQuiz(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateQuiz scan error: %v", err)
		return domain.QuizQuestion{}, err
	}
	return out, nil
}

func (r *PGRepo) QuizByID(ctx context.Context, id domain.QuizID) (domain.QuizQuestion, error) {
	q := r.qb().Select(quizCols).From(r.tbl("quiz_questions")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("QuizByID", sqlStr, args)

	out, err := scanQuiz(r.pool.QueryRow(ctx, sqlStr, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizQuestion{}, domain.ErrNotFound
	}
	return out, err
}

func (r *PGRepo) QuizByTopic(ctx context.Context, topicID domain.TopicID) ([]domain.QuizQuestion, error) {
	q := r.qb().Select(quizCols).From(r.tbl("quiz_questions")).
		Where(sq.Eq{"topic_id": topicID}).OrderBy("created_at ASC")
	sqlStr, args, _ := q.ToSql()
	r.logSQL("QuizByTopic", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]domain.QuizQuestion, 0)
	for rows.Next() {
		qq, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, qq)
	}
	return res, rows.Err()
}

func (r *PGRepo) QuizDelete(ctx context.Context, id domain.QuizID) error {
	q := r.qb().Delete(r.tbl("quiz_questions")).Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	r.logSQL("QuizDelete", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row rowScanner) (domain.QuizQuestion, error) {
	var qq domain.QuizQuestion
	var answersRaw []byte
	if err := row.Scan(
		&qq.ID, &qq.TopicID, &qq.Question, &answersRaw,
		&qq.Explanation, &qq.ImageKey, &qq.CreatedAt,
	); err != nil {
		return domain.QuizQuestion{}, err
	}
	if err := json.Unmarshal(answersRaw, &qq.Answers); err != nil {
		return domain.QuizQuestion{}, err
	}
	return qq, nil
}
