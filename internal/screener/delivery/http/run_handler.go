package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-garp-screener/internal/screener/dto"
	"golang-garp-screener/internal/screener/repository"
	"golang-garp-screener/internal/screener/service"
	"golang-garp-screener/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RunHandler handles HTTP requests for screener runs.
type RunHandler struct {
	runService   service.RunService
	queueService service.RunQueueService
	logger       *logger.Logger
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(runService service.RunService, queueService service.RunQueueService, logger *logger.Logger) *RunHandler {
	return &RunHandler{runService: runService, queueService: queueService, logger: logger}
}

// RegisterRoutes registers the run routes to the Echo group.
func (h *RunHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListRuns)
	g.POST("", h.EnqueueRun)
	g.GET("/:id", h.GetRun)
	g.DELETE("/:id", h.DeleteRun)
	g.GET("/:id/stocks/:symbol", h.GetStock)
	g.GET("/:id/stocks/:symbol/trade-idea", h.GetTradeIdea)
}

// ListRuns godoc
// @Summary List screener runs
// @Tags runs
// @Produce  json
// @Param   limit  query  int  false  "Maximum number of runs"
// @Success 200 {array} dto.RunSummary
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs [get]
func (h *RunHandler) ListRuns(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit"})
		}
		limit = v
	}

	runs, err := h.runService.List(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list screener runs", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list runs"})
	}
	return c.JSON(http.StatusOK, runs)
}

// GetRun godoc
// @Summary Get a screener run
// @Description Get a run with its ranked stocks
// @Tags runs
// @Produce  json
// @Param   id  path  string  true  "Run ID"
// @Success 200 {object} dto.ScreenerRun
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /runs/{id} [get]
func (h *RunHandler) GetRun(c echo.Context) error {
	id, ok := runID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid run ID"})
	}

	run, err := h.runService.Get(c.Request().Context(), id)
	if err != nil {
		return h.lookupError(c, err)
	}
	return c.JSON(http.StatusOK, run)
}

// DeleteRun godoc
// @Summary Delete a screener run
// @Tags runs
// @Param   id  path  string  true  "Run ID"
// @Success 204 {object} nil
// @Failure 404 {object} dto.ErrorResponse
// @Router /runs/{id} [delete]
func (h *RunHandler) DeleteRun(c echo.Context) error {
	id, ok := runID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid run ID"})
	}

	if err := h.runService.Delete(c.Request().Context(), id); err != nil {
		return h.lookupError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetStock godoc
// @Summary Get one stock of a run
// @Tags runs
// @Produce  json
// @Param   id      path  string  true  "Run ID"
// @Param   symbol  path  string  true  "Ticker symbol"
// @Success 200 {object} dto.ScoredStock
// @Failure 404 {object} dto.ErrorResponse
// @Router /runs/{id}/stocks/{symbol} [get]
func (h *RunHandler) GetStock(c echo.Context) error {
	id, ok := runID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid run ID"})
	}

	stock, err := h.runService.GetStock(c.Request().Context(), id, c.Param("symbol"))
	if err != nil {
		return h.lookupError(c, err)
	}
	return c.JSON(http.StatusOK, stock)
}

// GetTradeIdea godoc
// @Summary Get the trade idea of a stock
// @Tags runs
// @Produce  text/markdown
// @Param   id      path  string  true  "Run ID"
// @Param   symbol  path  string  true  "Ticker symbol"
// @Success 200 {string} string
// @Failure 404 {object} dto.ErrorResponse
// @Router /runs/{id}/stocks/{symbol}/trade-idea [get]
func (h *RunHandler) GetTradeIdea(c echo.Context) error {
	id, ok := runID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid run ID"})
	}

	idea, err := h.runService.TradeIdea(c.Request().Context(), id, c.Param("symbol"))
	if err != nil {
		return h.lookupError(c, err)
	}
	if idea == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No trade idea for this stock"})
	}
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(idea))
}

// EnqueueRun godoc
// @Summary Queue a screener run
// @Tags runs
// @Accept  json
// @Produce  json
// @Param   run  body  dto.EnqueueRunRequest  false  "Run options"
// @Success 202 {object} dto.EnqueueRunResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs [post]
func (h *RunHandler) EnqueueRun(c echo.Context) error {
	var req dto.EnqueueRunRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
		}
	}
	if req.Limit < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Limit must not be negative"})
	}

	resp, err := h.queueService.Enqueue(c.Request().Context(), req, "api")
	if err != nil {
		h.logger.Error("Failed to enqueue screener run", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to enqueue run"})
	}
	return c.JSON(http.StatusAccepted, resp)
}

func (h *RunHandler) lookupError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrRunNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Run or stock not found"})
	}
	h.logger.Error("Failed to load screener run", logger.ErrorField(err), logger.StringField("run_id", c.Param("id")))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load run"})
}

func runID(c echo.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
