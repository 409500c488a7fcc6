package system

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lovecalc/internal/ports"
)

// readyTimeout — сколько ждать ответа хранилища истории при проверке готовности.
const readyTimeout = 2 * time.Second

// Controller — системные маршруты: liveness и readiness (хранилище истории доступно).
type Controller struct {
	store   ports.IHistoryStore
	backend string
	log     *slog.Logger
}

// New создаёт системный контроллер. backend — имя хранилища истории для ответа readiness.
func New(store ports.IHistoryStore, backend string, log *slog.Logger) *Controller {
	return &Controller{store: store, backend: backend, log: log}
}

// RegisterRoutes реализует http.Controller: регистрирует маршруты на роутере.
func (c *Controller) RegisterRoutes(r *gin.Engine) {
	r.GET("/liveness", c.live)
	r.GET("/readyness", c.ready)
}

func (c *Controller) live(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (c *Controller) ready(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), readyTimeout)
	defer cancel()
	if err := c.store.Ping(pingCtx); err != nil {
		c.log.Warn("ready check failed", "history", c.backend, "error", err)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "history": c.backend, "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready", "history": c.backend})
}
