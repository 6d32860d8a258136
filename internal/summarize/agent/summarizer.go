// Package agent wraps the backend multimodal agent call for one
// summarization request.
package agent

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	adkagent "google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"videosummary_backend/internal/summarize/credential"
	"videosummary_backend/internal/summarize/staging"
	"videosummary_backend/platform/ai/geminiapi"
	"videosummary_backend/platform/apperr"
	"videosummary_backend/platform/logger"
)

const appName = "video_summarizer"

// Config for the summarizer client. The API key is not part of the config:
// it is resolved per request and passed into Summarize.
type Config struct {
	Model        string
	BaseURL      string        // empty means the public Gemini endpoint
	Timeout      time.Duration // bounds each backend HTTP call
	PollInterval time.Duration // file processing poll cadence; default 1s
}

// Client performs one synchronous summarize call against the Gemini backend.
// Each call builds its own agent, runner and session so concurrent requests
// share no mutable state.
type Client struct {
	config Config
	log    *logger.Logger
}

// NewClient creates the summarizer client.
func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &Client{config: cfg, log: log}
}

// Summarize uploads the staged media to the backend, waits until the backend
// finishes processing it, then runs the agent once with media + prompt and
// returns the text verbatim. Failures are mapped to the local error taxonomy.
// No partial results: the call either fully succeeds or fully fails.
func (c *Client) Summarize(ctx context.Context, handle *staging.Handle, promptText string, cred credential.Credential) (string, error) {
	files := geminiapi.NewFilesClient(cred.Key(), c.config.Timeout)
	if c.config.BaseURL != "" {
		files = files.WithBaseURL(c.config.BaseURL)
	}

	uploaded, err := files.Upload(ctx, handle.Path(), handle.MIMEType(), filepath.Base(handle.Path()))
	if err != nil {
		return "", classify(err)
	}
	defer func() {
		if deleteErr := files.Delete(ctx, uploaded.Name); deleteErr != nil {
			c.log.Warn("failed to delete backend media file", "file", uploaded.Name, "error", deleteErr)
		}
	}()

	ready, err := files.WaitActive(ctx, uploaded, c.config.PollInterval)
	if err != nil {
		return "", classify(err)
	}

	run, sessionService, err := c.buildRunner(cred)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "failed to initialize summarizer agent", err)
	}

	userID := fmt.Sprintf("summarizer-%s", cred.DebugPrefix())
	sessionID := uuid.New().String()
	if _, err := sessionService.Create(ctx, &session.CreateRequest{
		AppName:   appName,
		UserID:    userID,
		SessionID: sessionID,
	}); err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "failed to create agent session", err)
	}
	defer func() {
		if deleteErr := sessionService.Delete(ctx, &session.DeleteRequest{
			AppName:   appName,
			UserID:    userID,
			SessionID: sessionID,
		}); deleteErr != nil {
			c.log.Warn("failed to delete agent session", "error", deleteErr)
		}
	}()

	content := buildUserContent(ready, promptText)
	output, err := c.runAgent(ctx, run, userID, sessionID, content)
	if err != nil {
		return "", classify(err)
	}

	if strings.TrimSpace(output) == "" {
		return "", apperr.UnknownBackend("backend returned an empty summary")
	}
	return output, nil
}

func (c *Client) buildRunner(cred credential.Credential) (*runner.Runner, session.Service, error) {
	gemini := geminiapi.NewModel(geminiapi.Config{
		APIKey:  cred.Key(),
		BaseURL: c.config.BaseURL,
		Model:   c.config.Model,
		Timeout: c.config.Timeout,
	})

	tools, err := buildSummarizerTools()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build summarizer tools: %w", err)
	}

	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        "VideoSummarizer",
		Model:       gemini,
		Description: "AI agent that analyzes video content and produces styled text summaries",
		Instruction: summarizerInstruction(),
		Tools:       tools,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create summarizer agent: %w", err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create summarizer runner: %w", err)
	}

	return r, sessionService, nil
}

func (c *Client) runAgent(ctx context.Context, r *runner.Runner, userID, sessionID string, content *genai.Content) (string, error) {
	var output string
	runConfig := adkagent.RunConfig{
		StreamingMode: adkagent.StreamingModeNone,
	}

	for event, err := range r.Run(ctx, userID, sessionID, content, runConfig) {
		if err != nil {
			return "", err
		}
		output += collectContentText(event.Content)
	}

	return output, nil
}

func buildUserContent(file *geminiapi.File, promptText string) *genai.Content {
	return &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{
				FileData: &genai.FileData{
					FileURI:  file.URI,
					MIMEType: file.MIMEType,
				},
			},
			genai.NewPartFromText(promptText),
		},
	}
}

func collectContentText(content *genai.Content) string {
	if content == nil {
		return ""
	}

	var output string
	for _, part := range content.Parts {
		output += part.Text
	}

	return output
}

// classify passes typed backend errors through and folds everything else
// into the unknown-backend category.
func classify(err error) error {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return apperr.Wrap(apperr.KindUnknownBackend, "backend call failed: "+err.Error(), err)
}

func summarizerInstruction() string {
	return `You are a video analysis assistant.

Goal:
- Analyze the provided video and produce the summary the user asked for, in the requested style.

Rules:
- Ground every statement in what the video actually shows or says.
- Follow the style instruction in the user message exactly.
- If the user asks a specific question, answer it after the summary.
- Use the WebSearch tool only when the video references something you need outside context to explain.
- Present your findings in user-friendly language.`
}
