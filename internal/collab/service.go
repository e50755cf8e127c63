package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrAuth means a session identity could not be established.
var ErrAuth = errors.New("collaboration auth failed")

// roomPattern scopes every session to document rooms.
const roomPattern = "document-*"

const localTokenTTL = time.Hour

// UserInfo is the display identity attached to a participant.
type UserInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// SessionResult carries the provider response verbatim.
type SessionResult struct {
	Status int
	Body   []byte
}

// Service brokers Liveblocks session credentials. When SecretKey is empty the
// service runs in dev mode and mints local HS256 tokens with the same claim
// shape instead of calling the provider.
type Service struct {
	APIBaseURL string
	SecretKey  string
	HTTPClient *http.Client
	now        func() time.Time
}

// NewService constructs a Service with an explicit HTTP timeout.
func NewService(apiBaseURL, secretKey string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Service{
		APIBaseURL: strings.TrimRight(apiBaseURL, "/"),
		SecretKey:  secretKey,
		HTTPClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// Authorize mints a room-scoped session credential for a wallet identity.
func (s *Service) Authorize(ctx context.Context, walletAddress string) (SessionResult, error) {
	walletAddress = strings.TrimSpace(walletAddress)
	if walletAddress == "" {
		return SessionResult{}, fmt.Errorf("%w: wallet address required", ErrAuth)
	}

	if s.SecretKey == "" {
		return s.localSession(walletAddress)
	}
	return s.providerSession(ctx, walletAddress)
}

func (s *Service) providerSession(ctx context.Context, walletAddress string) (SessionResult, error) {
	payload := map[string]any{
		"userId": walletAddress,
		"userInfo": map[string]string{
			"name":   DisplayName(walletAddress),
			"avatar": AvatarURL(walletAddress),
		},
		"permissions": map[string][]string{
			roomPattern: {"room:write"},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return SessionResult{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.APIBaseURL+"/v2/authorize-user", bytes.NewReader(body))
	if err != nil {
		return SessionResult{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return SessionResult{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return SessionResult{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	// The provider payload and status pass through verbatim.
	return SessionResult{Status: resp.StatusCode, Body: respBody}, nil
}

func (s *Service) localSession(walletAddress string) (SessionResult, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": walletAddress,
		"info": map[string]string{
			"name":   DisplayName(walletAddress),
			"avatar": AvatarURL(walletAddress),
		},
		"perms": map[string][]string{
			roomPattern: {"room:write"},
		},
		"iat": now.Unix(),
		"exp": now.Add(localTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("collablearn-dev-session"))
	if err != nil {
		return SessionResult{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	body, err := json.Marshal(map[string]string{"token": signed})
	if err != nil {
		return SessionResult{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	return SessionResult{Status: http.StatusOK, Body: body}, nil
}

// ResolveUsers maps opaque participant ids to display identities. The mapping
// is deterministic: the same id resolves identically on every call.
func (s *Service) ResolveUsers(ids []string) []UserInfo {
	users := make([]UserInfo, 0, len(ids))
	for _, id := range ids {
		users = append(users, UserInfo{
			ID:     id,
			Name:   DisplayName(id),
			Avatar: AvatarURL(id),
		})
	}
	return users
}
