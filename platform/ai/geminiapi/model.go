// Package geminiapi adapts the Gemini REST API to the ADK model interface
// and exposes the Files API used for multimodal media uploads.
package geminiapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"time"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Config for the Gemini backend.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration // bounds the generate call; zero means no timeout
}

// GeminiModel adapts the Gemini REST generateContent endpoint to the ADK
// model.LLM interface.
type GeminiModel struct {
	config Config
	client *http.Client
}

func NewModel(cfg Config) *GeminiModel {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash-exp"
	}
	return &GeminiModel{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (m *GeminiModel) Name() string {
	return m.config.Model
}

// GenerateContent issues one synchronous generateContent call. Streaming is
// not supported; the single response is yielded once.
func (m *GeminiModel) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		resp, err := m.generate(ctx, req)
		yield(resp, err)
	}
}

type generateResponse struct {
	Candidates []struct {
		Content      *genai.Content `json:"content"`
		FinishReason string         `json:"finishReason"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

func (m *GeminiModel) generate(ctx context.Context, req *model.LLMRequest) (*model.LLMResponse, error) {
	payload := map[string]interface{}{
		"contents": req.Contents,
	}

	if req.Config != nil {
		if req.Config.SystemInstruction != nil {
			payload["systemInstruction"] = req.Config.SystemInstruction
		}
		if len(req.Config.Tools) > 0 {
			payload["tools"] = req.Config.Tools
		}
		if req.Config.Temperature != nil {
			payload["generationConfig"] = map[string]interface{}{
				"temperature": float64(*req.Config.Temperature),
			}
		}
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", m.config.BaseURL, m.config.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("x-goog-api-key", m.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}

	var result generateResponse
	if decodeErr := json.Unmarshal(body, &result); decodeErr != nil && resp.StatusCode == http.StatusOK {
		return nil, fmt.Errorf("failed to decode gemini response: %w", decodeErr)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, result.Error)
	}
	if result.Error != nil {
		return nil, classifyStatus(result.Error.Code, result.Error)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini api error: empty candidates")
	}

	content := result.Candidates[0].Content
	if content.Role == "" {
		content.Role = genai.RoleModel
	}

	return &model.LLMResponse{Content: content}, nil
}
