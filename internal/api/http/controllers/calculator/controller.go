package calculator

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"lovecalc/internal/api/http/middlewares"
	"lovecalc/internal/domain"
	"lovecalc/internal/ports"
	calcUsecase "lovecalc/internal/usecase/calculator"
)

// Controller — маршруты калькулятора: сессия (клавиши, научные функции, режимы), история и вычисление без сессии.
type Controller struct {
	uc  ports.ICalculatorUseCase
	log *slog.Logger
}

// New создаёт контроллер калькулятора.
func New(uc ports.ICalculatorUseCase, log *slog.Logger) *Controller {
	return &Controller{uc: uc, log: log}
}

// RegisterRoutes реализует http.Controller: регистрирует маршруты на роутере.
func (c *Controller) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	api.GET("/state", c.state)
	api.POST("/keys", c.key)
	api.POST("/scientific", c.scientific)
	api.POST("/modes", c.mode)
	api.GET("/history", c.history)
	api.DELETE("/history", c.clearHistory)
	api.POST("/evaluate", c.evaluate)
}

// @Summary Текущее состояние сессии
// @Tags calculator
// @Produce json
// @Success 200 {object} StateResponse
// @Router /api/v1/state [get]
func (c *Controller) state(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, newStateResponse(c.uc.State(), nil))
}

// @Summary Нажатие клавиши
// @Description Цифры, ".", "+ - * / x X", "Enter" или "=", "Backspace", "Delete" или "Escape".
// @Tags calculator
// @Accept json
// @Produce json
// @Param request body KeyRequest true "Клавиша"
// @Success 200 {object} StateResponse "Состояние после нажатия"
// @Failure 400 {object} ErrorResponse "Клавиша не поддерживается"
// @Router /api/v1/keys [post]
func (c *Controller) key(ctx *gin.Context) {
	var req KeyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.log.Warn("key bind failed", "error", err)
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}
	ev, ok := calcUsecase.KeyToEvent(req.Key)
	if !ok {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported key: " + req.Key})
		return
	}
	c.dispatch(ctx, ev)
}

// @Summary Научная функция над дисплеем
// @Tags calculator
// @Accept json
// @Produce json
// @Param request body ScientificRequest true "sin, cos, tan, sqrt, log, pow2"
// @Success 200 {object} StateResponse "Состояние; ошибка домена — в поле error"
// @Failure 400 {object} ErrorResponse "Неизвестная функция"
// @Router /api/v1/scientific [post]
func (c *Controller) scientific(ctx *gin.Context) {
	var req ScientificRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.log.Warn("scientific bind failed", "error", err)
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.log.Warn("scientific validation failed", "error", err)
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.dispatch(ctx, domain.Scientific(req.Operation))
}

// @Summary Переключить режим
// @Tags calculator
// @Accept json
// @Produce json
// @Param request body ModeRequest true "dark, love, scientific, history"
// @Success 200 {object} StateResponse
// @Failure 400 {object} ErrorResponse "Неизвестный режим"
// @Router /api/v1/modes [post]
func (c *Controller) mode(ctx *gin.Context) {
	var req ModeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.log.Warn("mode bind failed", "error", err)
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}
	ev, ok := domain.ToggleMode(req.Mode)
	if !ok {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown mode: " + req.Mode})
		return
	}
	c.dispatch(ctx, ev)
}

// @Summary История расчётов
// @Tags calculator
// @Produce json
// @Success 200 {object} HistoryResponse
// @Router /api/v1/history [get]
func (c *Controller) history(ctx *gin.Context) {
	items := c.uc.History()
	if items == nil {
		items = []string{}
	}
	ctx.JSON(http.StatusOK, HistoryResponse{Items: items})
}

// @Summary Очистить историю
// @Tags calculator
// @Success 204
// @Failure 500 {object} ErrorResponse "Хранилище недоступно"
// @Router /api/v1/history [delete]
func (c *Controller) clearHistory(ctx *gin.Context) {
	if err := c.uc.ClearHistory(ctx.Request.Context()); err != nil {
		c.log.Error("clear history failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// @Summary Вычислить выражение
// @Description Вычисление без изменения сессии и истории.
// @Tags calculator
// @Accept json
// @Produce json
// @Param request body EvaluateRequest true "Выражение"
// @Success 200 {object} EvaluateResponse
// @Failure 400 {object} EvaluateResponse "Ошибка вычисления"
// @Router /api/v1/evaluate [post]
func (c *Controller) evaluate(ctx *gin.Context) {
	var req EvaluateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.log.Warn("evaluate bind failed", "error", err)
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}
	result, err := c.uc.Evaluate(req.Expression)
	middlewares.ObserveCalculation(kindEvaluate, err != nil)
	if err != nil {
		if msg, ok := domain.CalculationMessage(err); ok {
			ctx.JSON(http.StatusBadRequest, EvaluateResponse{Expression: req.Expression, Error: msg})
			return
		}
		c.log.Error("evaluate failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, EvaluateResponse{Expression: req.Expression, Result: result})
}

// dispatch применяет событие к сессии и заводит таймеры транзиентов.
func (c *Controller) dispatch(ctx *gin.Context, ev domain.Event) {
	state, effects := c.uc.Dispatch(ctx.Request.Context(), ev)
	c.uc.Schedule(ctx.Request.Context(), effects)
	if kind, ok := calculationKind(ev); ok {
		middlewares.ObserveCalculation(kind, raisedError(effects))
	}
	ctx.JSON(http.StatusOK, newStateResponse(state, effects))
}

// kindEvaluate — метка расчётов через /evaluate, они не попадают в сессию.
const kindEvaluate = "evaluate"

// calculationKind — вид расчёта, который завершает событие; false для ввода и режимов.
func calculationKind(ev domain.Event) (string, bool) {
	switch ev.Kind {
	case domain.EventEquals:
		return domain.KindArithmetic, true
	case domain.EventScientific:
		return domain.KindScientific, true
	}
	return "", false
}

// raisedError — появилась ли в ответ на событие новая ошибка.
func raisedError(effects []domain.Effect) bool {
	for _, eff := range effects {
		if d, ok := eff.(domain.ScheduleDismiss); ok && d.Transient == domain.TransientError {
			return true
		}
	}
	return false
}
