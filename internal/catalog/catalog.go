// Package catalog loads and validates the immutable question pools the game
// draws from. Defaults are embedded in the binary; both sets can be replaced
// with external JSON files at startup.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/cyberaware/gameserver/internal/model"
)

//go:embed questions/*.json
var defaultFS embed.FS

// Catalog holds both question pools. Immutable after Load returns.
type Catalog struct {
	Phishing []model.Question
	Password []model.PasswordQuestion
}

// Load builds a catalog from the given file paths. An empty path falls back
// to the embedded default set. Any parse or validation failure is fatal to
// startup: no session can run without catalogs.
func Load(phishingPath, passwordPath string) (*Catalog, error) {
	phishingData, err := readSet(phishingPath, "questions/phishing.json")
	if err != nil {
		return nil, fmt.Errorf("load phishing questions: %w", err)
	}
	passwordData, err := readSet(passwordPath, "questions/password.json")
	if err != nil {
		return nil, fmt.Errorf("load password questions: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(phishingData, &c.Phishing); err != nil {
		return nil, fmt.Errorf("parse phishing questions: %w", err)
	}
	if err := json.Unmarshal(passwordData, &c.Password); err != nil {
		return nil, fmt.Errorf("parse password questions: %w", err)
	}

	if err := validatePhishing(c.Phishing); err != nil {
		return nil, fmt.Errorf("validate phishing questions: %w", err)
	}
	if err := validatePassword(c.Password); err != nil {
		return nil, fmt.Errorf("validate password questions: %w", err)
	}

	slog.Info("loaded question catalogs",
		"phishing", len(c.Phishing),
		"password", len(c.Password),
	)
	return &c, nil
}

func readSet(path, embeddedName string) ([]byte, error) {
	if path == "" {
		return defaultFS.ReadFile(embeddedName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func validatePhishing(questions []model.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("empty question set")
	}
	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = true
		if err := checkOptions(q.ID, q.Options, q.CorrectAnswer); err != nil {
			return err
		}
	}
	return nil
}

func validatePassword(questions []model.PasswordQuestion) error {
	if len(questions) == 0 {
		return fmt.Errorf("empty question set")
	}
	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = true
		if err := checkOptions(q.ID, q.Options, q.CorrectAnswer); err != nil {
			return err
		}
	}
	return nil
}

// checkOptions enforces the answer-matching contract: the stored correct
// answer must be exactly one of the options, or scoring can never succeed.
func checkOptions(id int, options []string, correct string) error {
	if len(options) == 0 {
		return fmt.Errorf("question %d: no options", id)
	}
	for _, o := range options {
		if o == correct {
			return nil
		}
	}
	return fmt.Errorf("question %d: correctAnswer %q not among options", id, correct)
}
