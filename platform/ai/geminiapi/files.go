package geminiapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"
)

// File states reported by the Files API.
const (
	FileStateProcessing = "PROCESSING"
	FileStateActive     = "ACTIVE"
	FileStateFailed     = "FAILED"
)

// File is the backend's handle for uploaded media. URI is what generateContent
// references; Name is the resource path used for polling and deletion.
type File struct {
	Name     string `json:"name"`
	URI      string `json:"uri"`
	State    string `json:"state"`
	MIMEType string `json:"mimeType"`
}

type fileEnvelope struct {
	File  *File     `json:"file"`
	Error *apiError `json:"error"`
}

// FilesClient talks to the Gemini Files API using the resumable upload
// protocol. Uploaded files are backend-owned and expire server-side; Delete
// is best-effort cleanup.
type FilesClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewFilesClient(apiKey string, timeout time.Duration) *FilesClient {
	return &FilesClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithBaseURL overrides the API host, used by tests.
func (c *FilesClient) WithBaseURL(baseURL string) *FilesClient {
	c.baseURL = baseURL
	return c
}

// Upload pushes a local file to the Files API and returns the backend handle.
// The returned file may still be in the PROCESSING state; callers must wait
// for ACTIVE before referencing it in a generate call.
func (c *FilesClient) Upload(ctx context.Context, path, mimeType, displayName string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat staged media: %w", err)
	}

	uploadURL, err := c.startUpload(ctx, info.Size(), mimeType, displayName)
	if err != nil {
		return nil, err
	}

	return c.finishUpload(ctx, uploadURL, path, info.Size())
}

func (c *FilesClient) startUpload(ctx context.Context, size int64, mimeType, displayName string) (string, error) {
	meta, err := json.Marshal(map[string]interface{}{
		"file": map[string]string{"display_name": displayName},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/v1beta/files", bytes.NewBuffer(meta))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Upload-Protocol", "resumable")
	req.Header.Set("X-Goog-Upload-Command", "start")
	req.Header.Set("X-Goog-Upload-Header-Content-Length", strconv.FormatInt(size, 10))
	req.Header.Set("X-Goog-Upload-Header-Content-Type", mimeType)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", classifyTransport(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		var envelope fileEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return "", classifyStatus(resp.StatusCode, envelope.Error)
	}

	uploadURL := resp.Header.Get("X-Goog-Upload-URL")
	if uploadURL == "" {
		return "", fmt.Errorf("files api did not return an upload url")
	}
	return uploadURL, nil
}

func (c *FilesClient) finishUpload(ctx context.Context, uploadURL, path string, size int64) (*File, error) {
	media, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open staged media: %w", err)
	}
	defer func() {
		_ = media.Close()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, media)
	if err != nil {
		return nil, err
	}
	req.ContentLength = size
	req.Header.Set("X-Goog-Upload-Offset", "0")
	req.Header.Set("X-Goog-Upload-Command", "upload, finalize")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var envelope fileEnvelope
	if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr != nil && resp.StatusCode == http.StatusOK {
		return nil, fmt.Errorf("failed to decode files api response: %w", decodeErr)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, envelope.Error)
	}
	if envelope.File == nil {
		return nil, fmt.Errorf("files api returned an empty file")
	}

	return envelope.File, nil
}

// Get fetches the current state of an uploaded file by resource name.
func (c *FilesClient) Get(ctx context.Context, name string) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1beta/"+name, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		var envelope fileEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return nil, classifyStatus(resp.StatusCode, envelope.Error)
	}

	var file File
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode files api response: %w", err)
	}
	return &file, nil
}

// WaitActive polls until the file leaves the PROCESSING state. The backend
// transcodes video uploads before they can be referenced in a generate call.
func (c *FilesClient) WaitActive(ctx context.Context, file *File, pollInterval time.Duration) (*File, error) {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}

	current := file
	for current.State == FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, classifyTransport(ctx.Err())
		case <-time.After(pollInterval):
		}

		next, err := c.Get(ctx, current.Name)
		if err != nil {
			return nil, err
		}
		current = next
	}

	if current.State == FileStateFailed {
		return nil, fmt.Errorf("backend failed to process uploaded media %s", current.Name)
	}
	return current, nil
}

// Delete removes an uploaded file from the backend. Failures are returned so
// callers can log them; the backend expires files on its own regardless.
func (c *FilesClient) Delete(ctx context.Context, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1beta/"+name, nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("files api delete failed with status %d", resp.StatusCode)
	}
	return nil
}
