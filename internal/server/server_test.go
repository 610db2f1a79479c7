package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"galaxy-gen/internal/config"
	"galaxy-gen/internal/export"
	"galaxy-gen/internal/galaxy"
	"galaxy-gen/internal/server/response"

	"github.com/gorilla/websocket"
)

func testConfig() *config.Config {
	return &config.Config{
		Galaxy: config.GalaxyConfig{Workers: 2},
		Server: config.ServerConfig{Port: "0", AllowedOrigins: []string{"http://allowed.test"}},
		RateLimit: config.RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 1,
			BurstSize:         1,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	s := New(cfg)
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return ts
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, testConfig())
	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "healthy" {
		t.Fatalf("unexpected health %d %+v", resp.StatusCode, body)
	}
}

func TestGalaxyJSON(t *testing.T) {
	ts := newTestServer(t, testConfig())
	resp, err := http.Get(ts.URL + "/api/galaxy?count=150&arms=4&seed=12")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var msg export.CloudMessage
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Count != 150 || msg.Seed != 12 || msg.Params.Arms != 4 || len(msg.Positions) != 450 {
		t.Fatalf("unexpected cloud count=%d seed=%d arms=%d", msg.Count, msg.Seed, msg.Params.Arms)
	}
	if resp.Header.Get("X-Galaxy-Seed") != "12" {
		t.Fatalf("seed header %q", resp.Header.Get("X-Galaxy-Seed"))
	}
}

func TestGalaxyBinaryIsDeterministic(t *testing.T) {
	ts := newTestServer(t, testConfig())
	fetch := func() []float32 {
		resp, err := http.Get(ts.URL + "/api/galaxy?count=200&seed=3&format=binary&preset=tight")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if ct := resp.Header.Get("Content-Type"); ct != "application/octet-stream" {
			t.Fatalf("content type %q", ct)
		}
		h, positions, _, err := export.ReadBinary(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		if h.Count != 200 {
			t.Fatalf("count %d", h.Count)
		}
		return positions
	}
	a, b := fetch(), fetch()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("position %d differs between identical requests", i)
		}
	}
	p, _ := galaxy.Preset("tight")
	p.Count = 200
	want := galaxy.GenerateSeeded(p, 3)
	for i := range a {
		if a[i] != want.Positions[i] {
			t.Fatalf("position %d differs from local generation", i)
		}
	}
}

func TestGalaxyErrors(t *testing.T) {
	ts := newTestServer(t, testConfig())
	cases := []struct {
		path   string
		status int
		kind   string
	}{
		{"/api/galaxy?arms=1", http.StatusBadRequest, "validation"},
		{"/api/galaxy?count=lots", http.StatusBadRequest, "validation"},
		{"/api/galaxy?format=obj", http.StatusBadRequest, "validation"},
		{"/api/galaxy?seed=-1", http.StatusBadRequest, "validation"},
		{"/api/galaxy?preset=nope", http.StatusNotFound, "not_found"},
	}
	for _, tc := range cases {
		resp, err := http.Get(ts.URL + tc.path)
		if err != nil {
			t.Fatal(err)
		}
		var body response.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if resp.StatusCode != tc.status || body.Error != tc.kind {
			t.Fatalf("%s: got %d %+v", tc.path, resp.StatusCode, body)
		}
	}

	resp, err := http.Post(ts.URL+"/api/galaxy", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("POST status %d", resp.StatusCode)
	}
}

func TestParamsAndPresets(t *testing.T) {
	ts := newTestServer(t, testConfig())
	resp, err := http.Get(ts.URL + "/api/galaxy/params")
	if err != nil {
		t.Fatal(err)
	}
	var params ParamsResponse
	if err := json.NewDecoder(resp.Body).Decode(&params); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(params.Controls) != len(galaxy.Keys()) || params.Defaults != galaxy.DefaultParams() {
		t.Fatalf("unexpected params response %+v", params)
	}

	resp, err = http.Get(ts.URL + "/api/presets")
	if err != nil {
		t.Fatal(err)
	}
	var presets PresetsResponse
	if err := json.NewDecoder(resp.Body).Decode(&presets); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if _, ok := presets.Presets["pinwheel"]; !ok || len(presets.Names) != len(galaxy.Presets()) {
		t.Fatalf("unexpected presets %v", presets.Names)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Enabled = true
	ts := newTestServer(t, cfg)
	var limited bool
	for i := 0; i < 5; i++ {
		resp, err := http.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = true
		}
	}
	if !limited {
		t.Fatal("expected the limiter to reject a burst")
	}
}

func TestCORSHeaders(t *testing.T) {
	ts := newTestServer(t, testConfig())
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/health", nil)
	req.Header.Set("Origin", "http://allowed.test")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("Access-Control-Allow-Origin") != "http://allowed.test" {
		t.Fatalf("missing CORS header: %v", resp.Header)
	}
}

func dialWS(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	var msg ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	return msg
}

func TestWebSocketLiveEditing(t *testing.T) {
	ts := newTestServer(t, testConfig())
	conn := dialWS(t, ts, "count=300&seed=5")

	first := readMessage(t, conn)
	if first.Type != MessageCloud || first.Cloud == nil || first.Cloud.Count != 300 || first.Cloud.Seed != 5 {
		t.Fatalf("unexpected first message %+v", first)
	}

	if err := conn.WriteJSON(ClientMessage{Field: "arms", Value: 6}); err != nil {
		t.Fatal(err)
	}
	next := readMessage(t, conn)
	if next.Type != MessageCloud || next.Cloud.Params.Arms != 6 {
		t.Fatalf("commit did not push a new cloud: %+v", next)
	}

	if err := conn.WriteJSON(ClientMessage{Field: "arms", Value: "1"}); err != nil {
		t.Fatal(err)
	}
	rejected := readMessage(t, conn)
	if rejected.Type != MessageError || rejected.Error != "validation" {
		t.Fatalf("expected validation error, got %+v", rejected)
	}

	if err := conn.WriteJSON(ClientMessage{Field: "rotationSpeed", Value: 0.5}); err != nil {
		t.Fatal(err)
	}
	params := readMessage(t, conn)
	if params.Type != MessageParams || params.Params.RotationSpeed != 0.5 || params.Params.Arms != 6 {
		t.Fatalf("expected params update, got %+v", params)
	}

	if err := conn.WriteJSON(ClientMessage{Type: MessagePreset, Name: "flocculent"}); err != nil {
		t.Fatal(err)
	}
	preset := readMessage(t, conn)
	if preset.Type != MessageCloud || preset.Cloud.Params.Arms != 9 {
		t.Fatalf("preset not applied: %+v", preset)
	}
}

func TestWebSocketRejectsBadQuery(t *testing.T) {
	ts := newTestServer(t, testConfig())
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?arms=99"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected response %v", resp)
	}
}

func TestWebSocketChecksOrigin(t *testing.T) {
	ts := newTestServer(t, testConfig())
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?count=100"
	header := http.Header{"Origin": []string{"http://evil.test"}}
	if _, _, err := websocket.DefaultDialer.Dial(url, header); err == nil {
		t.Fatal("foreign origin should be refused")
	}
}
