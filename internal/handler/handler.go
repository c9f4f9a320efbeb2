// Package handler exposes the game and user JSON APIs over chi. It is a thin
// boundary: it resolves sessions, forwards actions, and marshals responses.
// All game logic lives in internal/game.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cyberaware/gameserver/internal/game"
	appI18n "github.com/cyberaware/gameserver/internal/i18n"
	"github.com/cyberaware/gameserver/internal/model"
	"github.com/cyberaware/gameserver/internal/store"
)

const leaderboardLimit = 100

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	registry *game.Registry
	store    *store.Store
}

// New creates a new Handler.
func New(registry *game.Registry, st *store.Store) *Handler {
	return &Handler{registry: registry, store: st}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api/game", func(r chi.Router) {
		r.Post("/start", h.handleStartGame)
		r.Post("/submit", h.handleSubmitAction)
		r.Get("/results/{sessionID}", h.handleGetResults)
		r.Post("/restart", h.handleRestartGame)
		r.Get("/health", h.handleHealth)
	})
	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.handleRegisterUser)
		r.Post("/save-result", h.handleSaveResult)
		r.Get("/leaderboard", h.handleLeaderboard)
	})
}

type startGameRequest struct {
	UserName  string `json:"userName"`
	SessionID string `json:"sessionId"`
}

func (h *Handler) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.Response{
			GameState: model.StateWelcome,
			Message:   appI18n.T(r.Context(), "InvalidRequest"),
		})
		return
	}

	if strings.TrimSpace(req.UserName) == "" {
		writeJSON(w, http.StatusBadRequest, model.Response{
			GameState: model.StateWelcome,
			Message:   appI18n.T(r.Context(), "UserNameRequired"),
		})
		return
	}

	// A fresh session replaces any previous one under the same id; the id is
	// generated when the client does not bring its own.
	sessionID, sess := h.registry.Create(strings.TrimSpace(req.SessionID))

	resp := sess.HandleAction(model.Action{
		Type:     model.ActionStartGame,
		UserName: strings.TrimSpace(req.UserName),
	})
	resp.SessionID = sessionID
	writeJSON(w, http.StatusOK, resp)
}

type submitActionRequest struct {
	SessionID  string           `json:"sessionId"`
	ActionType model.ActionType `json:"actionType"`
	Payload    *actionPayload   `json:"payload"`
}

type actionPayload struct {
	Answer   string         `json:"answer"`
	Password string         `json:"password"`
	GameMode model.GameMode `json:"gameMode"`
}

func (h *Handler) handleSubmitAction(w http.ResponseWriter, r *http.Request) {
	var req submitActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(appI18n.T(r.Context(), "InvalidRequest")))
		return
	}

	sess, ok := h.lookupSession(w, r, req.SessionID)
	if !ok {
		return
	}

	action := model.Action{Type: req.ActionType}
	if req.Payload != nil {
		action.Answer = req.Payload.Answer
		action.Password = req.Payload.Password
		action.GameMode = req.Payload.GameMode
	}

	resp := sess.HandleAction(action)
	resp.SessionID = strings.TrimSpace(req.SessionID)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetResults(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	sess, ok := h.lookupSession(w, r, sessionID)
	if !ok {
		return
	}

	resp := sess.HandleAction(model.Action{Type: model.ActionGetResults})
	resp.SessionID = sessionID
	writeJSON(w, http.StatusOK, resp)
}

type restartGameRequest struct {
	SessionID string `json:"sessionId"`
}

func (h *Handler) handleRestartGame(w http.ResponseWriter, r *http.Request) {
	var req restartGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(appI18n.T(r.Context(), "InvalidRequest")))
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse(appI18n.T(r.Context(), "SessionRequired")))
		return
	}

	h.registry.Delete(strings.TrimSpace(req.SessionID))
	writeJSON(w, http.StatusOK, model.Response{
		GameState: model.StateWelcome,
		Message:   appI18n.T(r.Context(), "GameReset"),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// lookupSession resolves a session id or writes the error response itself.
func (h *Handler) lookupSession(w http.ResponseWriter, r *http.Request, sessionID string) (*game.Session, bool) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse(appI18n.T(r.Context(), "SessionRequired")))
		return nil, false
	}
	sess, ok := h.registry.Get(sessionID)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse(appI18n.T(r.Context(), "SessionInvalid")))
		return nil, false
	}
	return sess, true
}

type registerUserRequest struct {
	FullName                 string `json:"fullName"`
	BirthDate                string `json:"birthDate"`
	EducationLevel           string `json:"educationLevel"`
	Profession               string `json:"profession"`
	HasCybersecurityTraining bool   `json:"hasCybersecurityTraining"`
}

func (h *Handler) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": appI18n.T(r.Context(), "InvalidRequest"),
		})
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": appI18n.T(r.Context(), "FullNameRequired"),
		})
		return
	}

	user, err := h.store.CreateUser(model.User{
		FullName:                 strings.TrimSpace(req.FullName),
		BirthDate:                req.BirthDate,
		EducationLevel:           req.EducationLevel,
		Profession:               req.Profession,
		HasCybersecurityTraining: req.HasCybersecurityTraining,
	})
	if err != nil {
		slog.Error("failed to register user", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": appI18n.T(r.Context(), "ServerError"),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"userId":  user.ID,
		"message": appI18n.T(r.Context(), "UserRegistered"),
	})
}

type saveResultRequest struct {
	UserID         int64          `json:"userId"`
	GameMode       model.GameMode `json:"gameMode"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	CorrectAnswers int            `json:"correctAnswers"`
	Percentage     int            `json:"percentage"`
	Grade          string         `json:"grade"`
}

func (h *Handler) handleSaveResult(w http.ResponseWriter, r *http.Request) {
	var req saveResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": appI18n.T(r.Context(), "InvalidRequest"),
		})
		return
	}

	result, err := h.store.SaveGameResult(model.GameResult{
		UserID:         req.UserID,
		GameMode:       req.GameMode,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
		Percentage:     req.Percentage,
		Grade:          req.Grade,
	})
	if err != nil {
		slog.Error("failed to save game result", "user_id", req.UserID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": appI18n.T(r.Context(), "ServerError"),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"resultId": result.ID,
		"message":  appI18n.T(r.Context(), "ResultSaved"),
	})
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.Leaderboard(leaderboardLimit)
	if err != nil {
		slog.Error("failed to load leaderboard", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": appI18n.T(r.Context(), "ServerError"),
		})
		return
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"leaderboard": entries,
	})
}

func errorResponse(message string) model.Response {
	return model.Response{GameState: "error", Message: message}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
