package domain

import "context"

// Репозитории коллекций. Списки всегда отсортированы по created_at DESC.

type BooksRepo interface {
	CreateBook(ctx context.Context, b Book) (Book, error)
	BookByID(ctx context.Context, id BookID) (Book, error)
	BooksList(ctx context.Context) ([]Book, error)
	BookDelete(ctx context.Context, id BookID) error
}

type TopicsRepo interface {
	CreateTopic(ctx context.Context, t Topic) (Topic, error)
	TopicByID(ctx context.Context, id TopicID) (Topic, error)
	TopicsList(ctx context.Context) ([]Topic, error)
	// Удаляет тему вместе с вопросами (FK cascade); возвращает ключи картинок
	// удалённых вопросов для зачистки blob-хранилища.
	TopicDelete(ctx context.Context, id TopicID) ([]string, error)

	CreateQuiz(ctx context.Context, q QuizQuestion) (QuizQuestion, error)
	QuizByID(ctx context.Context, id QuizID) (QuizQuestion, error)
	QuizByTopic(ctx context.Context, topicID TopicID) ([]QuizQuestion, error)
	QuizDelete(ctx context.Context, id QuizID) error
}

type UsmleRepo interface {
	CreateResource(ctx context.Context, res UsmleResource) (UsmleResource, error)
	ResourceByID(ctx context.Context, id ResourceID) (UsmleResource, error)
	ResourcesList(ctx context.Context) ([]UsmleResource, error)
	ResourceDelete(ctx context.Context, id ResourceID) error
}

type NewsRepo interface {
	CreateNote(ctx context.Context, n NewsNote) (NewsNote, error)
	NoteByID(ctx context.Context, id NoteID) (NewsNote, error)
	NotesList(ctx context.Context) ([]NewsNote, error)
	NoteDelete(ctx context.Context, id NoteID) error
}

type VideosRepo interface {
	CreateVideo(ctx context.Context, v Video) (Video, error)
	VideoByID(ctx context.Context, id VideoID) (Video, error)
	VideosList(ctx context.Context) ([]Video, error)
	VideoDelete(ctx context.Context, id VideoID) error
}

type Pinger interface {
	Ping(context.Context) error
}

type ContentRepo interface {
	BooksRepo
	TopicsRepo
	UsmleRepo
	NewsRepo
	VideosRepo
	Pinger
	Close()
}
