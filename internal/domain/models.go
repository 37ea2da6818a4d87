package domain

import (
	"time"

	"github.com/google/uuid"
)

// Базовые идентификаторы
type BookID = uuid.UUID
type TopicID = uuid.UUID
type QuizID = uuid.UUID
type ResourceID = uuid.UUID
type NoteID = uuid.UUID
type VideoID = uuid.UUID

// Книга (рекомендованная литература). Файл опционален.
type Book struct {
	ID        BookID    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author,omitempty"`
	URL       string    `json:"url,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Где лежит PDF (пусто — файла нет)
	FileKey      string `json:"-"`
	OriginalName string `json:"original_name,omitempty"`
	SizeBytes    int64  `json:"size_bytes,omitempty"`
}

// Клинический кейс (тема) с вопросами-квизами
type Topic struct {
	ID        TopicID   `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// Вариант ответа квиза
type QuizAnswer struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Вопрос квиза внутри темы. Картинка опциональна.
type QuizQuestion struct {
	ID          QuizID       `json:"id"`
	TopicID     TopicID      `json:"topic_id"`
	Question    string       `json:"question"`
	Answers     []QuizAnswer `json:"answers"`
	Explanation string       `json:"explanation,omitempty"`
	ImageKey    string       `json:"-"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Ресурс подготовки к USMLE: ссылка и/или файл (pdf, картинка)
type UsmleResource struct {
	ID          ResourceID `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	FileKey  string `json:"-"`
	FileName string `json:"file_name,omitempty"`
	FileType string `json:"file_type,omitempty"`
}

// Заметка медицинских новостей
type NewsNote struct {
	ID        NoteID    `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	Tags      []string  `json:"tags"`
	URL       string    `json:"url,omitempty"`
	ImageKey  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Видео: метаданные в БД, контент в blob-хранилище
type Video struct {
	ID           VideoID   `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	FileKey      string    `json:"-"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}
