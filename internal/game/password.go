package game

import (
	"strings"

	"github.com/cyberaware/gameserver/internal/model"
)

// Strength tiers reported by the password analyzer.
const (
	StrengthStrong   = "Strong"
	StrengthMedium   = "Medium"
	StrengthWeak     = "Weak"
	StrengthVeryWeak = "Very Weak"
)

const specialChars = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"

// commonPasswords is matched by case-insensitive substring containment, not
// exact equality. A password merely containing an entry (e.g. "MyPass123456!")
// is penalized. That is the historical behavior and is kept on purpose.
var commonPasswords = []string{
	"123456", "password", "123456789", "12345678", "12345",
	"1234567", "1234567890", "qwerty", "abc123", "password123",
}

// AnalyzePassword scores an example password against fixed heuristics.
// Every check runs unconditionally and contributes its own feedback line.
// The strength tier is decided on the raw accumulator before the returned
// score is floored at zero, so a common-password penalty can demote the tier
// even when the displayed score stays non-negative.
func AnalyzePassword(password string) model.PasswordAnalysis {
	if password == "" {
		return model.PasswordAnalysis{
			Score:    0,
			Strength: StrengthVeryWeak,
			Feedback: "Password cannot be empty",
			Length:   0,
		}
	}

	score := 0
	var lines []string

	if len(password) >= 8 {
		score += 2
		lines = append(lines, "✓ At least 8 characters long")
	} else {
		lines = append(lines, "✗ Should be at least 8 characters")
	}

	if containsRange(password, 'A', 'Z') {
		score++
		lines = append(lines, "✓ Contains an uppercase letter")
	} else {
		lines = append(lines, "✗ Add an uppercase letter")
	}

	if containsRange(password, 'a', 'z') {
		score++
		lines = append(lines, "✓ Contains a lowercase letter")
	} else {
		lines = append(lines, "✗ Add a lowercase letter")
	}

	if containsRange(password, '0', '9') {
		score++
		lines = append(lines, "✓ Contains a digit")
	} else {
		lines = append(lines, "✗ Add a digit")
	}

	if strings.ContainsAny(password, specialChars) {
		score += 2
		lines = append(lines, "✓ Contains a special character")
	} else {
		lines = append(lines, "✗ Add a special character")
	}

	if isCommonPassword(password) {
		score -= 2
		lines = append(lines, "✗ Contains a common password")
	} else {
		lines = append(lines, "✓ Not a common password")
	}

	var strength string
	switch {
	case score >= 6:
		strength = StrengthStrong
	case score >= 4:
		strength = StrengthMedium
	case score >= 2:
		strength = StrengthWeak
	default:
		strength = StrengthVeryWeak
	}

	return model.PasswordAnalysis{
		Score:    max(0, score),
		Strength: strength,
		Feedback: strings.Join(lines, "\n"),
		Length:   len(password),
	}
}

func isCommonPassword(password string) bool {
	lower := strings.ToLower(password)
	for _, common := range commonPasswords {
		if strings.Contains(lower, common) {
			return true
		}
	}
	return false
}

// containsRange reports whether s has a byte in [lo, hi]. The checks are
// deliberately ASCII-only, matching the original scoring rules.
func containsRange(s string, lo, hi byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= lo && s[i] <= hi {
			return true
		}
	}
	return false
}
