package mongo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"lovecalc/internal/domain"
	"lovecalc/internal/ports"
)

var _ ports.IHistoryStore = (*HistoryStore)(nil)

// historyDoc — документ истории: _id равен ключу, записи хранятся массивом.
type historyDoc struct {
	Key       string    `bson:"_id"`
	Entries   []string  `bson:"entries"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// HistoryStore реализует ports.IHistoryStore для MongoDB.
type HistoryStore struct {
	client *Client
	key    string
	log    *slog.Logger
}

// NewHistoryStore возвращает хранилище истории под ключом key.
func NewHistoryStore(client *Client, key string, log *slog.Logger) *HistoryStore {
	if key == "" {
		key = domain.HistoryKey
	}
	return &HistoryStore{client: client, key: key, log: log}
}

// Load читает историю. Если документа нет — пустая история.
func (s *HistoryStore) Load(ctx context.Context) ([]string, error) {
	var doc historyDoc
	err := s.client.Coll().FindOne(ctx, bson.M{"_id": s.key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []string{}, nil
		}
		s.log.Debug("history load failed", "key", s.key, "error", err)
		return nil, err
	}
	return domain.TruncateHistory(doc.Entries), nil
}

// Save перезаписывает историю (upsert по _id).
func (s *HistoryStore) Save(ctx context.Context, entries []string) error {
	if entries == nil {
		entries = []string{}
	}
	update := bson.M{"$set": bson.M{"entries": entries, "updated_at": time.Now().UTC()}}
	_, err := s.client.Coll().UpdateOne(ctx, bson.M{"_id": s.key}, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		s.log.Debug("history save failed", "key", s.key, "error", err)
		return err
	}
	return nil
}

// Ping проверяет доступность БД.
func (s *HistoryStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}
