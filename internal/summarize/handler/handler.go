// Package handler exposes the summarize HTTP endpoints.
package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"videosummary_backend/internal/summarize/domain"
	"videosummary_backend/internal/summarize/service"
	"videosummary_backend/internal/summarize/staging"
	"videosummary_backend/internal/summarize/transport"
	"videosummary_backend/platform/httpkit"
	"videosummary_backend/platform/validator"
)

// Handler exposes the summarization endpoints.
type Handler struct {
	svc         *service.Service
	val         *validator.Validator
	modelName   string
	maxFileSize int64
}

func New(svc *service.Service, val *validator.Validator, modelName string, maxFileSize int64) *Handler {
	return &Handler{
		svc:         svc,
		val:         val,
		modelName:   modelName,
		maxFileSize: maxFileSize,
	}
}

// Summarize handles POST /api/v1/summaries.
// Multipart form: "video" file part, "style", optional "query" and "api_key".
func (h *Handler) Summarize(c *gin.Context) {
	var form transport.SummarizeForm
	if err := c.ShouldBind(&form); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unable to parse form data", nil)
		return
	}
	if err := h.val.Struct(form); err != nil {
		httpkit.Error(c, http.StatusBadRequest,
			"style must be one of executive_summary, bullet_points, in_depth_narrative", nil)
		return
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "a video file is required", nil)
		return
	}
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		httpkit.Error(c, http.StatusRequestEntityTooLarge, "uploaded file exceeds the maximum allowed size", nil)
		return
	}

	data, contentType, ok := readUpload(c, fileHeader)
	if !ok {
		return
	}

	style, _ := domain.ParseStyle(form.Style)
	result, err := h.svc.Summarize(c.Request.Context(), service.SummaryRequest{
		Media: staging.UploadedMedia{
			Data:        data,
			ContentType: contentType,
			Filename:    fileHeader.Filename,
		},
		Style:   style,
		Query:   form.Query,
		UserKey: form.APIKey,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.SummaryResponse{
		Summary: result.Text,
		Style:   string(result.Style),
		Model:   h.modelName,
	})
}

// ListStyles handles GET /api/v1/summaries/styles.
func (h *Handler) ListStyles(c *gin.Context) {
	styles := domain.Styles()
	options := make([]transport.StyleOption, 0, len(styles))
	for _, style := range styles {
		options = append(options, transport.StyleOption{
			Value: string(style),
			Label: style.Label(),
		})
	}
	httpkit.OK(c, transport.StylesResponse{Styles: options})
}

func readUpload(c *gin.Context, fileHeader *multipart.FileHeader) ([]byte, string, bool) {
	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unable to read uploaded file", nil)
		return nil, "", false
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unable to read uploaded file", nil)
		return nil, "", false
	}

	return data, fileHeader.Header.Get("Content-Type"), true
}
