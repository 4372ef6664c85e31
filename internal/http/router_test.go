package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	sqlite "github.com/glebarez/sqlite"

	"github.com/g8d3/ai-chat-dev/internal/config"
	"github.com/g8d3/ai-chat-dev/internal/domain"
	"github.com/g8d3/ai-chat-dev/internal/hub"
	"github.com/g8d3/ai-chat-dev/internal/repo"
)

// ---------- test plumbing ----------

func testConfig() config.Config {
	return config.Config{
		Port:              "0",
		GinMode:           "test",
		APIBasePath:       "/api/v1",
		CompletionTimeout: 5 * time.Second,
		RateRPS:           1000,
		RateBurst:         1000,
		Security:          config.SecurityConfig{},
		OTEL:              config.OTELConfig{ServiceName: "test"},
	}
}

func newServer(t *testing.T) (*httptest.Server, *hub.Hub, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	broadcast := hub.New()
	r := gin.New()
	RegisterRoutes(r, db, broadcast, nil, testConfig())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, broadcast, db
}

// newUpstream fakes an OpenAI-compatible completions endpoint.
func newUpstream(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if status != http.StatusOK {
			http.Error(w, "upstream unhappy", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func apiReq(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, srv.URL+"/api/v1"+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "alice")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

// seedChatAPI creates provider -> model -> chat through the public API and
// returns the chat id.
func seedChatAPI(t *testing.T, srv *httptest.Server, baseURL string) string {
	t.Helper()

	resp := apiReq(t, srv, http.MethodPost, "/providers", map[string]string{
		"name": "upstream", "base_url": baseURL, "api_key": "sk-test",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create provider: %d", resp.StatusCode)
	}
	var p domain.Provider
	decodeBody(t, resp, &p)
	if !strings.Contains(p.APIKey, "*") && p.APIKey != "" {
		t.Fatalf("provider response leaked api key: %q", p.APIKey)
	}

	resp = apiReq(t, srv, http.MethodPost, "/providers/"+p.ID+"/models", map[string]string{"name": "test-model"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create model: %d", resp.StatusCode)
	}
	var m domain.Model
	decodeBody(t, resp, &m)

	resp = apiReq(t, srv, http.MethodPost, "/chats", map[string]any{"model_id": m.ID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create chat: %d", resp.StatusCode)
	}
	var c domain.Chat
	decodeBody(t, resp, &c)
	return c.ID
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForConns blocks until the hub registers n connections.
func waitForConns(t *testing.T, h *hub.Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Len() < n {
		if time.Now().After(deadline) {
			t.Fatalf("hub never reached %d connections (have %d)", n, h.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev map[string]any
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read ws event: %v", err)
	}
	return ev
}

// ---------- tests ----------

func TestHealthAndFallbacks(t *testing.T) {
	srv, _, _ := newServer(t)

	resp, err := srv.Client().Get(srv.URL + "/health")
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("health: %v %d", err, resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = srv.Client().Get(srv.URL + "/no/such/route")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("noroute: %d", resp.StatusCode)
	}
	var er struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &er)
	if er.Code != "not_found" {
		t.Fatalf("noroute envelope code = %q", er.Code)
	}
}

func TestMessageTurnBroadcastsToSubscribers(t *testing.T) {
	srv, broadcast, _ := newServer(t)
	upstream := newUpstream(t, "the answer", http.StatusOK)
	chatID := seedChatAPI(t, srv, upstream.URL)

	conn1 := dialWS(t, srv)
	conn2 := dialWS(t, srv)
	waitForConns(t, broadcast, 2)

	resp := apiReq(t, srv, http.MethodPost, "/chats/"+chatID+"/messages", map[string]string{"content": "question?"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("post message: %d", resp.StatusCode)
	}
	var posted struct {
		Messages []domain.Message `json:"messages"`
	}
	decodeBody(t, resp, &posted)
	if len(posted.Messages) != 2 {
		t.Fatalf("want user+assistant, got %d messages", len(posted.Messages))
	}
	if posted.Messages[1].Content != "the answer" {
		t.Fatalf("assistant content = %q", posted.Messages[1].Content)
	}

	// Both socket subscribers see the message event; REST publishes with
	// no exclusion.
	for _, conn := range []*websocket.Conn{conn1, conn2} {
		ev := readEvent(t, conn)
		if ev["type"] != "message" || ev["chatId"] != chatID {
			t.Fatalf("unexpected event: %v", ev)
		}
		if ev["message"] == nil {
			t.Fatalf("event lacks message payload: %v", ev)
		}
	}
}

func TestMessageTurnUpstreamFailure(t *testing.T) {
	srv, broadcast, _ := newServer(t)
	upstream := newUpstream(t, "", http.StatusServiceUnavailable)
	chatID := seedChatAPI(t, srv, upstream.URL)

	conn := dialWS(t, srv)
	waitForConns(t, broadcast, 1)

	resp := apiReq(t, srv, http.MethodPost, "/chats/"+chatID+"/messages", map[string]string{"content": "question?"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("completion failure must still be 200, got %d", resp.StatusCode)
	}
	var posted struct {
		Messages []domain.Message `json:"messages"`
	}
	decodeBody(t, resp, &posted)
	if len(posted.Messages) != 1 || posted.Messages[0].Role != domain.RoleUser {
		t.Fatalf("want only the user message, got %+v", posted.Messages)
	}

	// No event is broadcast for a failed turn.
	_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("unexpected broadcast after failed completion")
	}

	// The audit trail recorded the failure.
	resp = apiReq(t, srv, http.MethodGet, "/logs", nil)
	var logs struct {
		Logs []domain.InteractionLog `json:"logs"`
	}
	decodeBody(t, resp, &logs)
	if len(logs.Logs) != 1 || logs.Logs[0].Status != domain.LogStatusError {
		t.Fatalf("unexpected logs: %+v", logs.Logs)
	}
}

func TestDocumentUpdateRelayExcludesSender(t *testing.T) {
	srv, broadcast, _ := newServer(t)

	sender := dialWS(t, srv)
	receiver := dialWS(t, srv)
	waitForConns(t, broadcast, 2)

	frame := `{"type":"document_update","chatId":"doc-1","patch":{"from":0,"to":0,"insert":"hi"}}`
	if err := sender.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("send frame: %v", err)
	}

	ev := readEvent(t, receiver)
	if ev["type"] != "document_update" || ev["chatId"] != "doc-1" {
		t.Fatalf("unexpected relay: %v", ev)
	}
	// The payload is relayed verbatim, untouched fields included.
	if ev["patch"] == nil {
		t.Fatalf("relay dropped payload fields: %v", ev)
	}

	// The sender never hears its own edit back.
	_ = sender.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, _, err := sender.ReadMessage(); err == nil {
		t.Fatal("sender received its own frame")
	}
}

func TestContentSaveBroadcasts(t *testing.T) {
	srv, broadcast, _ := newServer(t)
	upstream := newUpstream(t, "ok", http.StatusOK)
	chatID := seedChatAPI(t, srv, upstream.URL)

	conn := dialWS(t, srv)
	waitForConns(t, broadcast, 1)

	resp := apiReq(t, srv, http.MethodPut, "/chats/"+chatID+"/content", map[string]string{"content": "full text"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("save content: %d", resp.StatusCode)
	}
	resp.Body.Close()

	ev := readEvent(t, conn)
	if ev["type"] != "document_update" || ev["chatId"] != chatID || ev["content"] != "full text" {
		t.Fatalf("unexpected event: %v", ev)
	}

	// Saved content is visible on re-fetch.
	resp = apiReq(t, srv, http.MethodGet, "/chats/"+chatID, nil)
	var c domain.Chat
	decodeBody(t, resp, &c)
	if c.Content != "full text" {
		t.Fatalf("content = %q", c.Content)
	}
}

func TestMalformedFrameKeepsConnectionAlive(t *testing.T) {
	srv, broadcast, _ := newServer(t)

	sender := dialWS(t, srv)
	receiver := dialWS(t, srv)
	waitForConns(t, broadcast, 2)

	// Garbage, then a frame with no chatId, then a valid one.
	_ = sender.WriteMessage(websocket.TextMessage, []byte("not json"))
	_ = sender.WriteMessage(websocket.TextMessage, []byte(`{"type":"document_update"}`))
	_ = sender.WriteMessage(websocket.TextMessage, []byte(`{"type":"document_update","chatId":"doc-2"}`))

	ev := readEvent(t, receiver)
	if ev["chatId"] != "doc-2" {
		t.Fatalf("valid frame after garbage not relayed: %v", ev)
	}
}
