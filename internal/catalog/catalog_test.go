package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	c, err := Load("", "")
	if err != nil {
		t.Fatalf("Load embedded defaults: %v", err)
	}

	if len(c.Phishing) < 10 {
		t.Errorf("embedded phishing set has %d questions, want at least 10", len(c.Phishing))
	}
	if len(c.Password) < 10 {
		t.Errorf("embedded password set has %d questions, want at least 10", len(c.Password))
	}

	for _, q := range c.Phishing {
		if q.Email.From == "" {
			t.Errorf("phishing question %d: empty sender", q.ID)
		}
		if q.CorrectAnswer == "" {
			t.Errorf("phishing question %d: empty correct answer", q.ID)
		}
	}
}

// writeSet writes a question set to a temp file and returns its path.
func writeSet(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadExternalFile(t *testing.T) {
	path := writeSet(t, `[
		{
			"id": 1,
			"email": {"from": "a@b.com", "subject": "s", "body": "b", "hasLink": false, "urgency": "low"},
			"question": "Suspicious?",
			"options": ["Safe", "Suspicious"],
			"correctAnswer": "Safe",
			"explanation": "e"
		}
	]`)

	c, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load with external phishing file: %v", err)
	}
	if len(c.Phishing) != 1 || c.Phishing[0].Email.From != "a@b.com" {
		t.Errorf("external phishing set not used: %+v", c.Phishing)
	}
	// The password set still comes from the embedded defaults.
	if len(c.Password) < 10 {
		t.Errorf("embedded password fallback missing, got %d questions", len(c.Password))
	}
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed json", `{not json`, "parse"},
		{"empty set", `[]`, "empty question set"},
		{
			"duplicate ids",
			`[
				{"id": 1, "question": "q", "options": ["a"], "correctAnswer": "a"},
				{"id": 1, "question": "q", "options": ["a"], "correctAnswer": "a"}
			]`,
			"duplicate question id 1",
		},
		{
			"answer not among options",
			`[{"id": 1, "question": "q", "options": ["a", "b"], "correctAnswer": "c"}]`,
			"not among options",
		},
		{
			"no options",
			`[{"id": 1, "question": "q", "options": [], "correctAnswer": ""}]`,
			"no options",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSet(t, tt.content)
			_, err := Load(path, "")
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), "")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
