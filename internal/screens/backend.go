package screens

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"collablearn/internal/convert"
)

// BackendClient talks to the collablearn backend over HTTP. A native caller
// can wire internal packages directly; this client exists for processes that
// only see the service surface.
type BackendClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewBackendClient(baseURL string) *BackendClient {
	return &BackendClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type convertEnvelope struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
	Message string `json:"message"`
}

// Convert posts the document to the conversion endpoint and returns the
// sanitized HTML from its envelope.
func (b *BackendClient) Convert(ctx context.Context, fileName string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", convert.ErrMalformedDocument, err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("%w: %v", convert.ErrMalformedDocument, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", convert.ErrMalformedDocument, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+"/convert", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", err
	}

	var envelope convertEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return "", fmt.Errorf("conversion endpoint returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK || !envelope.Success {
		msg := envelope.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("conversion failed: %s", msg)
	}
	return envelope.Data, nil
}

var _ Converter = (*BackendClient)(nil)
