package calculator

import "lovecalc/internal/domain"

// pushHistory кладёт запись в начало истории и отрезает самые старые сверх HistoryCapacity.
// Исходный слайс не меняется.
func pushHistory(history []string, entry string) []string {
	out := make([]string, 0, len(history)+1)
	out = append(out, entry)
	out = append(out, history...)
	return domain.TruncateHistory(out)
}
