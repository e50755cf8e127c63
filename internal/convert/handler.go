package convert

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"collablearn/internal/shared/metrics"
	"collablearn/internal/shared/server/middleware"
	"collablearn/internal/shared/server/respond"
	"collablearn/internal/shared/telemetry"
)

// Handler wires the conversion endpoint.
type Handler struct {
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(maxUploadBytes int64) *Handler {
	return &Handler{MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches conversion routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/convert", h.convert)
}

func (h *Handler) convert(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues("no_file").Inc()
		respond.Legacy(c, http.StatusBadRequest, false, "No file uploaded.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues("no_file").Inc()
		respond.Legacy(c, http.StatusBadRequest, false, "No file uploaded.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues("read_error").Inc()
		respond.Legacy(c, http.StatusInternalServerError, false, "Error converting file to HTML.")
		return
	}

	conversionID := uuid.NewString()
	htmlText, err := DocxToHTML(data)
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues("failed").Inc()
		telemetry.Error("convert.failed", map[string]any{
			"request_id":    middleware.RequestIDFromContext(c),
			"conversion_id": conversionID,
			"file_name":     fileHeader.Filename,
			"size_bytes":    len(data),
			"unsupported":   errors.Is(err, ErrUnsupportedFormat),
			"error":         err.Error(),
		})
		respond.Legacy(c, http.StatusInternalServerError, false, "Error converting file to HTML.")
		return
	}

	metrics.ConversionsTotal.WithLabelValues("ok").Inc()
	telemetry.Info("convert.complete", map[string]any{
		"request_id":    middleware.RequestIDFromContext(c),
		"conversion_id": conversionID,
		"file_name":     fileHeader.Filename,
		"size_bytes":    len(data),
	})

	respond.JSON(c, http.StatusOK, gin.H{
		"success": true,
		"data":    Sanitize(htmlText),
	})
}
