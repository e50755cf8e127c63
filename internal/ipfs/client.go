package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	gocid "github.com/ipfs/go-cid"

	"collablearn/internal/shared/retry"
	"collablearn/internal/shared/telemetry"
)

// Client is the storage gateway over the Pinata pinning service.
type Client struct {
	UploadURL  string
	GatewayURL string
	JWT        string
	HTTPClient *http.Client
	Policy     retry.Policy
}

// NewClient constructs a Client with explicit HTTP timeouts.
func NewClient(uploadURL, gatewayURL, jwt string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		UploadURL:  strings.TrimRight(uploadURL, "/"),
		GatewayURL: strings.TrimRight(gatewayURL, "/"),
		JWT:        jwt,
		HTTPClient: &http.Client{Timeout: timeout},
		Policy:     retry.DefaultPolicy,
	}
}

type uploadResponse struct {
	Data struct {
		CID string `json:"cid"`
	} `json:"data"`
}

// UploadFile pins a file payload and returns the acknowledged content
// identifier. Callers must not treat the upload as durable without it.
func (c *Client) UploadFile(ctx context.Context, fileName string, data []byte) (string, error) {
	var cidStr string
	err := retry.Do(ctx, c.Policy, func(ctx context.Context) error {
		acknowledged, err := c.doUpload(ctx, fileName, data)
		if err != nil {
			return err
		}
		cidStr = acknowledged
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	parsed, err := gocid.Decode(cidStr)
	if err != nil {
		return "", fmt.Errorf("%w: service returned invalid cid %q", ErrUploadFailed, cidStr)
	}
	if !matchesRaw(parsed, data) {
		return "", fmt.Errorf("%w: acknowledged cid does not match content", ErrUploadFailed)
	}

	telemetry.Info("ipfs.upload_complete", map[string]any{
		"file_name":  fileName,
		"size_bytes": len(data),
		"cid":        cidStr,
	})
	return cidStr, nil
}

// UploadJSON pins a JSON object and returns its content identifier.
func (c *Client) UploadJSON(ctx context.Context, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return c.UploadFile(ctx, "metadata.json", data)
}

func (c *Client) doUpload(ctx context.Context, fileName string, data []byte) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", err
	}
	if err := writer.WriteField("network", "public"); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.UploadURL, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.JWT != "" {
		req.Header.Set("Authorization", "Bearer "+c.JWT)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("http status %d from pinning service", resp.StatusCode)
	}

	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if decoded.Data.CID == "" {
		return "", retry.Permanent(fmt.Errorf("no cid in upload acknowledgement"))
	}
	return decoded.Data.CID, nil
}

// ResolveURL maps a content identifier to a fetchable gateway URL. Pure
// lookup; the result may be session-scoped and must not outlive the view
// that asked for it.
func (c *Client) ResolveURL(cidStr string) (string, error) {
	if err := ValidateCID(cidStr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}
	if c.GatewayURL == "" {
		return "", fmt.Errorf("%w: no gateway configured", ErrResolutionFailed)
	}
	return c.GatewayURL + "/ipfs/" + cidStr, nil
}

// FetchBytes retrieves pinned content by identifier.
func (c *Client) FetchBytes(ctx context.Context, cidStr string) ([]byte, error) {
	url, err := c.ResolveURL(cidStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	var data []byte
	err = retry.Do(ctx, c.Policy, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if c.JWT != "" {
			req.Header.Set("Authorization", "Bearer "+c.JWT)
		}
		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("http status %d from gateway", resp.StatusCode)
		}
		data, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return data, nil
}

// FetchMetadata retrieves and validates a pinned project metadata object.
// Schema validation happens here, at the gateway boundary, so views receive
// only the canonical shape.
func (c *Client) FetchMetadata(ctx context.Context, cidStr string) (ProjectMetadata, error) {
	data, err := c.FetchBytes(ctx, cidStr)
	if err != nil {
		return ProjectMetadata{}, err
	}
	meta, err := DecodeMetadata(data)
	if err != nil {
		return ProjectMetadata{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return meta, nil
}
