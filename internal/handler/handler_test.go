package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/cyberaware/gameserver/internal/catalog"
	"github.com/cyberaware/gameserver/internal/game"
	appI18n "github.com/cyberaware/gameserver/internal/i18n"
	"github.com/cyberaware/gameserver/internal/model"
	"github.com/cyberaware/gameserver/internal/store"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	if err := appI18n.Init("en"); err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	cat, err := catalog.Load("", "")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	registry := game.NewRegistry(cat, game.NewSelector(nil))
	h := New(registry, st)

	r := chi.NewRouter()
	r.Use(appI18n.Middleware("en"))
	h.Routes(r)
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) model.Response {
	t.Helper()
	var resp model.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return resp
}

func TestStartGameEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/game/start", map[string]string{"userName": "Alice"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if resp.SessionID == "" {
		t.Error("expected a generated session id")
	}
	if resp.GameState != model.StateMenu {
		t.Errorf("gameState = %q, want menu", resp.GameState)
	}
	if resp.UserName != "Alice" {
		t.Errorf("userName = %q", resp.UserName)
	}
}

func TestStartGameValidation(t *testing.T) {
	r := newTestRouter(t)

	t.Run("empty name", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/game/start", map[string]string{"userName": "  "})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		resp := decodeResponse(t, rec)
		if resp.Message != "User name is required" {
			t.Errorf("message = %q", resp.Message)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/game/start", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestStartGameReusesClientSessionID(t *testing.T) {
	r := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/api/game/start", map[string]string{
		"userName":  "Alice",
		"sessionId": "client-chosen",
	})
	resp := decodeResponse(t, rec)
	if resp.SessionID != "client-chosen" {
		t.Errorf("sessionId = %q, want the client-provided one", resp.SessionID)
	}
}

func TestSubmitActionRequiresSession(t *testing.T) {
	r := newTestRouter(t)

	t.Run("missing id", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/game/submit", map[string]any{
			"actionType": "SELECT_GAME_MODE",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		resp := decodeResponse(t, rec)
		if resp.Message != "Session ID is required" {
			t.Errorf("message = %q", resp.Message)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/game/submit", map[string]any{
			"sessionId":  "ghost",
			"actionType": "SELECT_GAME_MODE",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		resp := decodeResponse(t, rec)
		if resp.Message != "Invalid session ID" {
			t.Errorf("message = %q", resp.Message)
		}
	})
}

func TestFullGameOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	start := decodeResponse(t, doJSON(t, r, http.MethodPost, "/api/game/start", map[string]string{"userName": "Alice"}))
	sessionID := start.SessionID

	submit := func(action map[string]any) model.Response {
		t.Helper()
		action["sessionId"] = sessionID
		rec := doJSON(t, r, http.MethodPost, "/api/game/submit", action)
		if rec.Code != http.StatusOK {
			t.Fatalf("submit status = %d (body %q)", rec.Code, rec.Body.String())
		}
		return decodeResponse(t, rec)
	}

	resp := submit(map[string]any{
		"actionType": "SELECT_GAME_MODE",
		"payload":    map[string]any{"gameMode": "PHISHING_ONLY"},
	})
	if resp.GameState != model.StatePhishing {
		t.Fatalf("after mode selection: state = %q", resp.GameState)
	}
	if resp.TotalQuestions != 10 {
		t.Fatalf("total = %d, want 10", resp.TotalQuestions)
	}

	for i := 0; i < 10; i++ {
		if resp.CurrentQuestion == nil {
			t.Fatalf("question %d: missing current question", i)
		}
		answered := submit(map[string]any{
			"actionType": "SUBMIT_ANSWER",
			"payload":    map[string]any{"answer": resp.CurrentQuestion.CorrectAnswer},
		})
		if !answered.IsCorrect {
			t.Fatalf("question %d: correct answer judged wrong", i)
		}
		resp = submit(map[string]any{"actionType": "NEXT_QUESTION"})
	}

	if resp.GameState != model.StateResults {
		t.Fatalf("after last question: state = %q, want results", resp.GameState)
	}
	if resp.Results == nil || resp.Results.Percentage != 100 || resp.Results.Grade != "A+" {
		t.Fatalf("results = %+v, want 100%% A+", resp.Results)
	}

	// The results endpoint returns the same report.
	rec := doJSON(t, r, http.MethodGet, "/api/game/results/"+sessionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("results status = %d", rec.Code)
	}
	again := decodeResponse(t, rec)
	if again.Results == nil || again.Results.Grade != "A+" {
		t.Errorf("results endpoint = %+v", again.Results)
	}
}

func TestRestartGameEndpoint(t *testing.T) {
	r := newTestRouter(t)

	start := decodeResponse(t, doJSON(t, r, http.MethodPost, "/api/game/start", map[string]string{"userName": "Alice"}))

	rec := doJSON(t, r, http.MethodPost, "/api/game/restart", map[string]string{"sessionId": start.SessionID})
	if rec.Code != http.StatusOK {
		t.Fatalf("restart status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.GameState != model.StateWelcome {
		t.Errorf("gameState = %q, want welcome", resp.GameState)
	}

	// The session is gone afterwards.
	rec = doJSON(t, r, http.MethodPost, "/api/game/submit", map[string]any{
		"sessionId":  start.SessionID,
		"actionType": "GET_CURRENT_QUESTION",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("submit after restart status = %d, want 400", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/api/game/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestRegisterUserEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/user/register", map[string]any{
		"fullName":                 "Alice Aydın",
		"birthDate":                "1990-01-15",
		"educationLevel":           "university",
		"profession":               "engineer",
		"hasCybersecurityTraining": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %q)", rec.Code, rec.Body.String())
	}

	var body struct {
		Success bool   `json:"success"`
		UserID  int64  `json:"userId"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Success || body.UserID == 0 {
		t.Errorf("body = %+v", body)
	}
}

func TestRegisterUserRequiresFullName(t *testing.T) {
	r := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/api/user/register", map[string]any{"fullName": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Full name is required") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestSaveResultAndLeaderboard(t *testing.T) {
	r := newTestRouter(t)

	register := func(name string) int64 {
		t.Helper()
		rec := doJSON(t, r, http.MethodPost, "/api/user/register", map[string]any{"fullName": name})
		var body struct {
			UserID int64 `json:"userId"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		return body.UserID
	}

	for i, tc := range []struct {
		name  string
		score int
	}{
		{"Runner-up", 7},
		{"Champion", 10},
	} {
		userID := register(fmt.Sprintf("%s %d", tc.name, i))
		rec := doJSON(t, r, http.MethodPost, "/api/user/save-result", map[string]any{
			"userId":         userID,
			"gameMode":       "PHISHING_ONLY",
			"score":          tc.score,
			"totalQuestions": 10,
			"correctAnswers": tc.score,
			"percentage":     tc.score * 10,
			"grade":          "B",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("save-result status = %d (body %q)", rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, r, http.MethodGet, "/api/user/leaderboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard status = %d", rec.Code)
	}
	var body struct {
		Success     bool                     `json:"success"`
		Leaderboard []model.LeaderboardEntry `json:"leaderboard"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Success || len(body.Leaderboard) != 2 {
		t.Fatalf("body = %+v", body)
	}
	if body.Leaderboard[0].Score != 10 || body.Leaderboard[0].Rank != 1 {
		t.Errorf("top entry = %+v, want the champion ranked first", body.Leaderboard[0])
	}
}

func TestSaveResultUnknownUser(t *testing.T) {
	r := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/api/user/save-result", map[string]any{
		"userId": 9999,
		"score":  5,
	})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestLeaderboardEmptyIsAList(t *testing.T) {
	r := newTestRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/api/user/leaderboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"leaderboard":[]`) {
		t.Errorf("empty leaderboard must serialize as [], body = %q", rec.Body.String())
	}
}
