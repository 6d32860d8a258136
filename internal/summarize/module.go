package summarize

import (
	"videosummary_backend/internal/events"
	apphttp "videosummary_backend/internal/http"
	"videosummary_backend/internal/summarize/agent"
	"videosummary_backend/internal/summarize/credential"
	"videosummary_backend/internal/summarize/handler"
	"videosummary_backend/internal/summarize/service"
	"videosummary_backend/internal/summarize/staging"
	"videosummary_backend/platform/config"
	"videosummary_backend/platform/logger"
	"videosummary_backend/platform/validator"
)

// ModuleConfig combines the config interfaces the summarize module needs.
type ModuleConfig interface {
	config.GeminiConfig
	config.UploadConfig
}

// Module wires the summarize HTTP routes and their dependencies.
type Module struct {
	handler *handler.Handler
}

func NewModule(cfg ModuleConfig, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	resolver := credential.NewResolver(cfg.GetGoogleAPIKey())
	stager := staging.New(cfg.GetUploadTempDir(), cfg.GetUploadMaxFileSize())
	client := agent.NewClient(agent.Config{
		Model:   cfg.GetGeminiModel(),
		Timeout: cfg.GetGeminiTimeout(),
	}, log)

	svc := service.New(resolver, stager, client, bus, log)
	h := handler.New(svc, val, cfg.GetGeminiModel(), cfg.GetUploadMaxFileSize())

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "summarize"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/summaries")
	group.GET("/styles", m.handler.ListStyles)
	group.POST("", ctx.SummarizeRateLimiter.RateLimit(), m.handler.Summarize)
}

var _ apphttp.Module = (*Module)(nil)
