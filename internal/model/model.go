package model

import "time"

// GameMode selects which question sets a playthrough draws.
type GameMode string

const (
	ModePhishingOnly GameMode = "PHISHING_ONLY"
	ModePasswordOnly GameMode = "PASSWORD_ONLY"
	ModeMixed        GameMode = "MIXED"
)

// Valid reports whether the mode is one of the three playable modes.
func (m GameMode) Valid() bool {
	switch m {
	case ModePhishingOnly, ModePasswordOnly, ModeMixed:
		return true
	}
	return false
}

// Urgency is the claimed urgency of a phishing email.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Email is the message shown alongside a phishing question.
type Email struct {
	From    string  `json:"from"`
	Subject string  `json:"subject"`
	Body    string  `json:"body"`
	HasLink bool    `json:"hasLink"`
	Urgency Urgency `json:"urgency"`
}

// Question is a phishing-detection question. Immutable after catalog load.
type Question struct {
	ID            int      `json:"id"`
	Email         Email    `json:"email"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// PasswordQuestion is a password-knowledge question. Immutable after catalog load.
type PasswordQuestion struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// ActionType names an action submitted to a game session.
type ActionType string

const (
	ActionStartGame          ActionType = "START_GAME"
	ActionSelectGameMode     ActionType = "SELECT_GAME_MODE"
	ActionGetCurrentQuestion ActionType = "GET_CURRENT_QUESTION"
	ActionSubmitAnswer       ActionType = "SUBMIT_ANSWER"
	ActionNextQuestion       ActionType = "NEXT_QUESTION"
	ActionSubmitPassword     ActionType = "SUBMIT_PASSWORD"
	ActionGetResults         ActionType = "GET_RESULTS"
	ActionRestartGame        ActionType = "RESTART_GAME"
)

// Action is one request dispatched to a session's current state.
type Action struct {
	Type     ActionType `json:"actionType"`
	UserName string     `json:"userName,omitempty"`
	Answer   string     `json:"answer,omitempty"`
	Password string     `json:"password,omitempty"`
	GameMode GameMode   `json:"gameMode,omitempty"`
}

// StateName identifies one of the five session states.
type StateName string

const (
	StateWelcome  StateName = "welcome"
	StateMenu     StateName = "menu"
	StatePhishing StateName = "phishing"
	StatePassword StateName = "password"
	StateResults  StateName = "results"
)

// Progress is the current/total position within the active phase.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// PasswordAnalysis is the outcome of scoring a user-submitted example password.
type PasswordAnalysis struct {
	Score    int    `json:"score"`
	Strength string `json:"strength"`
	Feedback string `json:"feedback"`
	Length   int    `json:"length"`
}

// PhaseStats is the per-phase breakdown reported for mixed-mode results.
type PhaseStats struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Incorrect  int `json:"incorrect"`
	Percentage int `json:"percentage"`
}

// Results is the final graded report for a completed playthrough.
type Results struct {
	TotalQuestions  int         `json:"totalQuestions"`
	CorrectAnswers  int         `json:"correctAnswers"`
	Percentage      int         `json:"percentage"`
	Grade           string      `json:"grade"`
	Feedback        string      `json:"feedback"`
	PhishingStats   *PhaseStats `json:"phishingStats,omitempty"`
	PasswordStats   *PhaseStats `json:"passwordStats,omitempty"`
	Recommendations []string    `json:"recommendations"`
}

// Response is what a session returns for every dispatched action.
// Fields not relevant to the current state stay zero and are omitted on the wire.
type Response struct {
	SessionID               string            `json:"sessionId,omitempty"`
	GameState               StateName         `json:"gameState"`
	Message                 string            `json:"message,omitempty"`
	UserName                string            `json:"userName,omitempty"`
	Score                   int               `json:"score"`
	CurrentQuestionIndex    int               `json:"currentQuestionIndex"`
	TotalQuestions          int               `json:"totalQuestions"`
	CurrentQuestion         *Question         `json:"currentQuestion,omitempty"`
	CurrentPasswordQuestion *PasswordQuestion `json:"currentPasswordQuestion,omitempty"`
	Progress                *Progress         `json:"progress,omitempty"`
	PasswordAnalysis        *PasswordAnalysis `json:"passwordAnalysis,omitempty"`
	Results                 *Results          `json:"results,omitempty"`
	IsCorrect               bool              `json:"isCorrect"`
	Explanation             string            `json:"explanation,omitempty"`
	GameMode                GameMode          `json:"gameMode,omitempty"`
}

// User is a registered player profile.
type User struct {
	ID                       int64     `json:"id"`
	FullName                 string    `json:"fullName"`
	BirthDate                string    `json:"birthDate"`
	EducationLevel           string    `json:"educationLevel"`
	Profession               string    `json:"profession"`
	HasCybersecurityTraining bool      `json:"hasCybersecurityTraining"`
	CreatedAt                time.Time `json:"createdAt"`
}

// GameResult is a completed playthrough persisted for the leaderboard.
type GameResult struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	GameMode       GameMode  `json:"gameMode"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
	Percentage     int       `json:"percentage"`
	Grade          string    `json:"grade"`
	PlayedAt       time.Time `json:"playedAt"`
}

// LeaderboardEntry is one ranked row of the public leaderboard.
type LeaderboardEntry struct {
	Rank                     int       `json:"rank"`
	FullName                 string    `json:"fullName"`
	Score                    int       `json:"score"`
	Percentage               int       `json:"percentage"`
	Grade                    string    `json:"grade"`
	GameMode                 GameMode  `json:"gameMode"`
	PlayedAt                 time.Time `json:"playedAt"`
	HasCybersecurityTraining bool      `json:"hasCybersecurityTraining"`
}
