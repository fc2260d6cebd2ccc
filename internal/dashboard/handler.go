package dashboard

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trade-signal-dashboard/internal/logger"
	"trade-signal-dashboard/internal/pipeline"
	"trade-signal-dashboard/internal/report"
)

// Handler serves the trade table of a prebuilt book.
type Handler struct {
	Book *pipeline.Book
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)

	group := r.Group("/api/v1", h.requireBook)
	group.GET("/filters", h.filters)
	group.GET("/trades", h.trades)
	group.GET("/trades.csv", h.tradesCSV)
	group.GET("/instruments", h.instruments)
}

func (h *Handler) health(c *gin.Context) {
	if h.Book == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "book_missing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "trades": len(h.Book.Trades)})
}

func (h *Handler) filters(c *gin.Context) {
	h.ok(c, OptionsOf(h.Book))
}

func (h *Handler) trades(c *gin.Context) {
	view := Build(h.Book, filterFromQuery(c))
	logger.Debug(c.Request.Context(), "Trade table rendered",
		"stock", view.Selection.Stock,
		"year", view.Selection.Year,
		"month", view.Selection.Month,
		"rows", len(view.Rows),
	)
	h.ok(c, view)
}

func (h *Handler) tradesCSV(c *gin.Context) {
	trades, _ := h.Book.Select(filterFromQuery(c))

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, trades); err != nil {
		logger.ErrorWithErr(c.Request.Context(), "CSV export failed", err)
		h.fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="trades.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *Handler) instruments(c *gin.Context) {
	trades, _ := h.Book.Select(filterFromQuery(c))
	h.ok(c, report.ByInstrument(trades))
}

func filterFromQuery(c *gin.Context) report.Filter {
	return report.ParseFilter(c.Query("stock"), c.Query("year"), c.Query("month"))
}

// AccessLog logs one line per request.
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// NewRouter builds the gin engine serving book.
func NewRouter(book *pipeline.Book, log *zap.Logger, mode string) *gin.Engine {
	gin.SetMode(mode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	if log != nil {
		engine.Use(AccessLog(log))
	}
	(&Handler{Book: book}).Register(engine)
	return engine
}
