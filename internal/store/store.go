// Package store persists registered players and their completed game results
// in SQLite. In-progress game state never touches the database; only the
// final report of a playthrough is written here.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cyberaware/gameserver/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name TEXT NOT NULL,
		birth_date TEXT NOT NULL DEFAULT '',
		education_level TEXT NOT NULL DEFAULT '',
		profession TEXT NOT NULL DEFAULT '',
		has_cybersecurity_training INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS game_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		game_mode TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		total_questions INTEGER NOT NULL DEFAULT 0,
		correct_answers INTEGER NOT NULL DEFAULT 0,
		percentage INTEGER NOT NULL DEFAULT 0,
		grade TEXT NOT NULL DEFAULT '',
		played_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateUser inserts a new player profile. When an identical profile was
// registered within the last minute the existing row is returned instead,
// which absorbs double-submitted registration forms.
func (s *Store) CreateUser(u model.User) (model.User, error) {
	cutoff := time.Now().Add(-time.Minute)
	existing, err := s.findRecentDuplicate(u, cutoff)
	if err != nil {
		return model.User{}, err
	}
	if existing != nil {
		slog.Info("reusing recently registered user", "id", existing.ID, "full_name", existing.FullName)
		return *existing, nil
	}

	now := time.Now()
	res, err := s.db.Exec(
		`INSERT INTO users (full_name, birth_date, education_level, profession, has_cybersecurity_training, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.FullName, u.BirthDate, u.EducationLevel, u.Profession, u.HasCybersecurityTraining, now,
	)
	if err != nil {
		slog.Error("failed to create user", "full_name", u.FullName, "error", err)
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	u.ID = id
	u.CreatedAt = now
	slog.Info("registered user", "id", id, "full_name", u.FullName)
	return u, nil
}

func (s *Store) findRecentDuplicate(u model.User, cutoff time.Time) (*model.User, error) {
	var found model.User
	err := s.db.QueryRow(
		`SELECT id, full_name, birth_date, education_level, profession, has_cybersecurity_training, created_at
		 FROM users
		 WHERE full_name = ? AND birth_date = ? AND education_level = ? AND profession = ?
		   AND has_cybersecurity_training = ? AND created_at > ?
		 ORDER BY created_at DESC LIMIT 1`,
		u.FullName, u.BirthDate, u.EducationLevel, u.Profession, u.HasCybersecurityTraining, cutoff,
	).Scan(&found.ID, &found.FullName, &found.BirthDate, &found.EducationLevel, &found.Profession,
		&found.HasCybersecurityTraining, &found.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// GetUser returns a user by ID, or nil when unknown.
func (s *Store) GetUser(id int64) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(
		`SELECT id, full_name, birth_date, education_level, profession, has_cybersecurity_training, created_at
		 FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.FullName, &u.BirthDate, &u.EducationLevel, &u.Profession, &u.HasCybersecurityTraining, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserCount returns the total number of registered users.
func (s *Store) UserCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// SaveGameResult records a completed playthrough for an existing user.
func (s *Store) SaveGameResult(r model.GameResult) (model.GameResult, error) {
	user, err := s.GetUser(r.UserID)
	if err != nil {
		return model.GameResult{}, err
	}
	if user == nil {
		return model.GameResult{}, fmt.Errorf("user %d not found", r.UserID)
	}

	now := time.Now()
	res, err := s.db.Exec(
		`INSERT INTO game_results (user_id, game_mode, score, total_questions, correct_answers, percentage, grade, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.UserID, r.GameMode, r.Score, r.TotalQuestions, r.CorrectAnswers, r.Percentage, r.Grade, now,
	)
	if err != nil {
		slog.Error("failed to save game result", "user_id", r.UserID, "error", err)
		return model.GameResult{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.GameResult{}, err
	}
	r.ID = id
	r.PlayedAt = now
	slog.Info("saved game result", "id", id, "user_id", r.UserID, "grade", r.Grade)
	return r, nil
}

// ResultCount returns the total number of stored results.
func (s *Store) ResultCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM game_results`).Scan(&count)
	return count, err
}

// Leaderboard returns up to limit entries ranked by score, then percentage,
// then recency.
func (s *Store) Leaderboard(limit int) ([]model.LeaderboardEntry, error) {
	rows, err := s.db.Query(
		`SELECT u.full_name, r.score, r.percentage, r.grade, r.game_mode, r.played_at, u.has_cybersecurity_training
		 FROM game_results r
		 JOIN users u ON u.id = r.user_id
		 ORDER BY r.score DESC, r.percentage DESC, r.played_at DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.FullName, &e.Score, &e.Percentage, &e.Grade, &e.GameMode, &e.PlayedAt, &e.HasCybersecurityTraining); err != nil {
			return nil, err
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
