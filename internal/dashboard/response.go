package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trade-signal-dashboard/internal/pipeline"
)

// envelope is the body of every /api response.
type envelope struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
	Meta    *bookMeta `json:"meta,omitempty"`
}

// bookMeta describes the book a response was served from.
type bookMeta struct {
	BuiltAt string `json:"built_at"`
	Rows    int    `json:"rows"`
	Trades  int    `json:"trades"`
}

func metaOf(book *pipeline.Book) *bookMeta {
	if book == nil {
		return nil
	}
	return &bookMeta{
		BuiltAt: book.BuiltAt.Format(time.RFC3339),
		Rows:    book.Rows,
		Trades:  len(book.Trades),
	}
}

func (h *Handler) ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    metaOf(h.Book),
	})
}

func (h *Handler) fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{
		Code:    status,
		Message: message,
		Meta:    metaOf(h.Book),
	})
}

// requireBook rejects API calls until a book is loaded.
func (h *Handler) requireBook(c *gin.Context) {
	if h.Book == nil {
		h.fail(c, http.StatusServiceUnavailable, "trade book unavailable")
		return
	}
	c.Next()
}
