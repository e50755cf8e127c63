package collab_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"collablearn/internal/collab"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := collab.NewService("http://unused", "", time.Second)
	collab.NewHandler(svc).RegisterRoutes(r.Group("/"))
	return r
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAuthEndpointDevSession(t *testing.T) {
	router := newTestRouter()
	resp := postJSON(t, router, "/liveblocks/auth", map[string]string{"walletAddress": "0xabc"})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Token == "" {
		t.Fatal("expected token in response")
	}
}

func TestAuthEndpointRequiresWalletAddress(t *testing.T) {
	router := newTestRouter()
	resp := postJSON(t, router, "/liveblocks/auth", map[string]string{"walletAddress": ""})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestUsersEndpointEmptyList(t *testing.T) {
	router := newTestRouter()
	resp := postJSON(t, router, "/liveblocks/users", map[string][]string{"userIds": {}})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var users []collab.UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected empty list, got %v", users)
	}
}

func TestUsersEndpointDeterministic(t *testing.T) {
	router := newTestRouter()
	payload := map[string][]string{"userIds": {"0x1", "0x2"}}

	decode := func(resp *httptest.ResponseRecorder) []collab.UserInfo {
		var users []collab.UserInfo
		if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return users
	}

	first := decode(postJSON(t, router, "/liveblocks/users", payload))
	second := decode(postJSON(t, router, "/liveblocks/users", payload))

	if len(first) != 2 {
		t.Fatalf("expected 2 users, got %d", len(first))
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identities changed between calls: %v vs %v", first, second)
	}
}
