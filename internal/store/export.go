package store

import (
	"fmt"
	"time"

	"github.com/cyberaware/gameserver/internal/model"
)

// ResultRecord is one stored playthrough joined with its player profile,
// shaped for the export subcommand's JSON output.
type ResultRecord struct {
	FullName                 string         `json:"full_name"`
	EducationLevel           string         `json:"education_level"`
	Profession               string         `json:"profession"`
	HasCybersecurityTraining bool           `json:"has_cybersecurity_training"`
	GameMode                 model.GameMode `json:"game_mode"`
	Score                    int            `json:"score"`
	TotalQuestions           int            `json:"total_questions"`
	CorrectAnswers           int            `json:"correct_answers"`
	Percentage               int            `json:"percentage"`
	Grade                    string         `json:"grade"`
	PlayedAt                 time.Time      `json:"played_at"`
}

// ResultsExport is the top-level export structure.
type ResultsExport struct {
	ExportedAt  time.Time      `json:"exported_at"`
	UserCount   int            `json:"user_count"`
	ResultCount int            `json:"result_count"`
	Results     []ResultRecord `json:"results"`
}

// ExportAllResults builds the full export of stored results, oldest first.
func (s *Store) ExportAllResults() (ResultsExport, error) {
	rows, err := s.db.Query(
		`SELECT u.full_name, u.education_level, u.profession, u.has_cybersecurity_training,
		        r.game_mode, r.score, r.total_questions, r.correct_answers, r.percentage, r.grade, r.played_at
		 FROM game_results r
		 JOIN users u ON u.id = r.user_id
		 ORDER BY r.played_at, r.id`,
	)
	if err != nil {
		return ResultsExport{}, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var records []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		if err := rows.Scan(&rec.FullName, &rec.EducationLevel, &rec.Profession, &rec.HasCybersecurityTraining,
			&rec.GameMode, &rec.Score, &rec.TotalQuestions, &rec.CorrectAnswers, &rec.Percentage, &rec.Grade, &rec.PlayedAt); err != nil {
			return ResultsExport{}, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return ResultsExport{}, err
	}

	userCount, err := s.UserCount()
	if err != nil {
		return ResultsExport{}, err
	}

	return ResultsExport{
		ExportedAt:  time.Now(),
		UserCount:   userCount,
		ResultCount: len(records),
		Results:     records,
	}, nil
}
