package domain

import (
	"encoding/json"
	"fmt"
)

// EncodeHistory сериализует историю в JSON-массив строк — общий формат всех хранилищ.
func EncodeHistory(entries []string) ([]byte, error) {
	if entries == nil {
		entries = []string{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return raw, nil
}

// DecodeHistory разбирает сохранённую историю. Пустое значение — пустая история.
// Результат обрезается до HistoryCapacity.
func DecodeHistory(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var entries []string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return TruncateHistory(entries), nil
}
