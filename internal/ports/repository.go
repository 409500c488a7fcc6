package ports

//go:generate mockgen -source=repository.go -destination=../mocks/repository_mock.go -package=mocks

import "context"

// IHistoryStore — контракт хранения истории расчётов. История хранится целиком под одним ключом,
// последние записи первыми. Отсутствующий ключ читается как пустой список.
type IHistoryStore interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, entries []string) error
	Ping(ctx context.Context) error
}
