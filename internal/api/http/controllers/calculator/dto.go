package calculator

import (
	"fmt"

	"lovecalc/internal/domain"
)

// KeyRequest — нажатие клавиши (для POST /api/v1/keys). Имена клавиш как у KeyboardEvent.key.
type KeyRequest struct {
	Key string `json:"key" binding:"required"`
}

// ScientificRequest — научная функция над текущим дисплеем (для POST /api/v1/scientific).
type ScientificRequest struct {
	Operation string `json:"operation" binding:"required"`
}

// Validate проверяет, что функция известна.
func (r ScientificRequest) Validate() error {
	if !domain.IsScientificOp(r.Operation) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidOperation, r.Operation)
	}
	return nil
}

// ModeRequest — переключение режима (для POST /api/v1/modes).
type ModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// EvaluateRequest — вычисление выражения без сессии (для POST /api/v1/evaluate).
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// StateResponse — состояние сессии калькулятора.
type StateResponse struct {
	Display      string   `json:"display"`
	Equation     string   `json:"equation"`
	Preview      string   `json:"preview,omitempty"`
	History      []string `json:"history"`
	Dark         bool     `json:"dark"`
	Love         bool     `json:"love"`
	Scientific   bool     `json:"scientific"`
	ShowHistory  bool     `json:"show_history"`
	ShowLoveNote bool     `json:"show_love_note"`
	Error        string   `json:"error,omitempty"`
	LoveNote     string   `json:"love_note,omitempty"`
	// Tones — частоты звуков (Гц), которые клиент может проиграть в ответ на нажатие.
	Tones []float64 `json:"tones,omitempty"`
}

// EvaluateResponse — результат вычисления.
type EvaluateResponse struct {
	Expression string `json:"expression"`
	Result     string `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`
}

// HistoryResponse — история расчётов, последние сначала.
type HistoryResponse struct {
	Items []string `json:"items"`
}

// ErrorResponse — ответ с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newStateResponse(s domain.State, effects []domain.Effect) StateResponse {
	resp := StateResponse{
		Display:      s.Display,
		Equation:     s.Equation,
		Preview:      s.Preview(),
		History:      s.History,
		Dark:         s.Dark,
		Love:         s.Love,
		Scientific:   s.Scientific,
		ShowHistory:  s.ShowHistory,
		ShowLoveNote: s.ShowLoveNote(),
	}
	if resp.History == nil {
		resp.History = []string{}
	}
	if s.Error.Active {
		resp.Error = s.Error.Message
	}
	if s.LoveNote.Active {
		resp.LoveNote = s.LoveNote.Message
	}
	for _, eff := range effects {
		if tone, ok := eff.(domain.PlayTone); ok {
			resp.Tones = append(resp.Tones, tone.Tone.Frequency())
		}
	}
	return resp
}
