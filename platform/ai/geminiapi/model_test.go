package geminiapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"videosummary_backend/platform/apperr"
)

func newTestModel(serverURL string) *GeminiModel {
	return NewModel(Config{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Model:   "gemini-test",
		Timeout: 5 * time.Second,
	})
}

func userRequest(text string) *model.LLMRequest {
	return &model.LLMRequest{
		Contents: []*genai.Content{
			{Role: genai.RoleUser, Parts: []*genai.Part{{Text: text}}},
		},
	}
}

func generateOnce(t *testing.T, m *GeminiModel, req *model.LLMRequest) (*model.LLMResponse, error) {
	t.Helper()
	for resp, err := range m.GenerateContent(context.Background(), req, false) {
		return resp, err
	}
	t.Fatal("GenerateContent yielded nothing")
	return nil, nil
}

func TestGenerateContentSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-test:generateContent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"a concise summary"}]}}]}`))
	}))
	defer server.Close()

	resp, err := generateOnce(t, newTestModel(server.URL), userRequest("summarize this"))
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if resp.Content == nil || len(resp.Content.Parts) == 0 {
		t.Fatal("response content is empty")
	}
	if resp.Content.Parts[0].Text != "a concise summary" {
		t.Errorf("response text = %q", resp.Content.Parts[0].Text)
	}
}

func TestGenerateContentInvalidKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	_, err := generateOnce(t, newTestModel(server.URL), userRequest("hello"))
	if !apperr.Is(err, apperr.KindAuthentication) {
		t.Errorf("error kind = %v, want KindAuthentication", apperr.GetKind(err))
	}
}

func TestGenerateContentRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	_, err := generateOnce(t, newTestModel(server.URL), userRequest("hello"))
	if !apperr.Is(err, apperr.KindTransientBackend) {
		t.Errorf("error kind = %v, want KindTransientBackend", apperr.GetKind(err))
	}
}

func TestGenerateContentEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	_, err := generateOnce(t, newTestModel(server.URL), userRequest("hello"))
	if err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

func TestGenerateContentUnreachableBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	_, err := generateOnce(t, newTestModel(server.URL), userRequest("hello"))
	if !apperr.Is(err, apperr.KindTransientBackend) {
		t.Errorf("error kind = %v, want KindTransientBackend", apperr.GetKind(err))
	}
}

func TestModelNameAndDefaults(t *testing.T) {
	m := NewModel(Config{APIKey: "k"})
	if m.Name() == "" {
		t.Error("default model name is empty")
	}
	if m.config.BaseURL != defaultBaseURL {
		t.Errorf("default base url = %q", m.config.BaseURL)
	}
}
