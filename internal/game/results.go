package game

import (
	"math"
	"strings"

	"github.com/cyberaware/gameserver/internal/model"
)

// computeResults builds the final report for a session. It reads session
// state without mutating it, so repeated calls return identical output.
func computeResults(s *Session) model.Results {
	if s.gameMode == model.ModeMixed {
		return computeMixedResults(s)
	}

	total := s.totalQuestions()
	correct := s.score
	var percentage float64
	if total > 0 {
		percentage = float64(correct) / float64(total) * 100
	}

	grade, feedback := gradeFor(percentage)
	return model.Results{
		TotalQuestions:  total,
		CorrectAnswers:  correct,
		Percentage:      roundPercent(percentage),
		Grade:           grade,
		Feedback:        feedback,
		Recommendations: recommendations(s, percentage),
	}
}

// computeMixedResults splits the answer list positionally: the first
// phishingTotal entries belong to the phishing phase, the rest to the
// password phase, in submission order.
func computeMixedResults(s *Session) model.Results {
	phishing := s.phishingQuestions()
	password := s.passwordQuestionSet()

	phishingTotal := len(phishing)
	phishingCorrect := 0
	for i := 0; i < phishingTotal && i < len(s.answers); i++ {
		if s.answers[i] == phishing[i].CorrectAnswer {
			phishingCorrect++
		}
	}

	passwordTotal := len(password)
	passwordCorrect := 0
	for i := 0; i < passwordTotal && phishingTotal+i < len(s.answers); i++ {
		if s.answers[phishingTotal+i] == password[i].CorrectAnswer {
			passwordCorrect++
		}
	}

	totalCorrect := phishingCorrect + passwordCorrect
	total := phishingTotal + passwordTotal
	var percentage float64
	if total > 0 {
		percentage = float64(totalCorrect) / float64(total) * 100
	}

	grade, feedback := gradeFor(percentage)
	return model.Results{
		TotalQuestions:  total,
		CorrectAnswers:  totalCorrect,
		Percentage:      roundPercent(percentage),
		Grade:           grade,
		Feedback:        feedback,
		PhishingStats:   phaseStats(phishingCorrect, phishingTotal),
		PasswordStats:   phaseStats(passwordCorrect, passwordTotal),
		Recommendations: recommendations(s, percentage),
	}
}

func phaseStats(correct, total int) *model.PhaseStats {
	stats := &model.PhaseStats{
		Correct:   correct,
		Total:     total,
		Incorrect: total - correct,
	}
	if total > 0 {
		stats.Percentage = roundPercent(float64(correct) / float64(total) * 100)
	}
	return stats
}

// gradeFor maps an (unrounded) percentage to the fixed letter grades.
func gradeFor(percentage float64) (grade, feedback string) {
	switch {
	case percentage >= 90:
		return "A+", "Excellent! You are very good at cybersecurity."
	case percentage >= 80:
		return "A", "Very good! Your cybersecurity awareness is high."
	case percentage >= 70:
		return "B", "Good! With a little more care you will be excellent."
	case percentage >= 60:
		return "C", "Average. We recommend learning more about cybersecurity."
	default:
		return "D", "You need more training on cybersecurity."
	}
}

// recommendations accumulates advice in four tiers: a phishing-awareness band,
// per-wrong-answer specifics, a password-strength band, and an overall band.
// Tiers are additive, not mutually exclusive.
func recommendations(s *Session, percentage float64) []string {
	var recs []string

	switch {
	case percentage < 50:
		recs = append(recs,
			"We recommend basic training on email security",
			"Improve your skills at spotting suspicious emails",
			"Always check the sender address",
		)
	case percentage < 75:
		recs = append(recs,
			"Be more careful about email security",
			"Improve your skills at recognizing phishing emails",
		)
	default:
		recs = append(recs,
			"You are in good shape on email security",
			"Share your knowledge with others to raise awareness",
		)
	}

	recs = append(recs, specificRecommendations(s)...)

	if s.passwordAnalysis != nil {
		switch s.passwordAnalysis.Strength {
		case StrengthVeryWeak, StrengthWeak:
			recs = append(recs,
				"Use strong and unique passwords",
				"Consider using a password manager",
				"Enable two-factor authentication",
			)
		case StrengthMedium:
			recs = append(recs,
				"You can strengthen your password habits further",
				"Update your passwords regularly",
			)
		default:
			recs = append(recs, "You are in excellent shape on password security")
		}
	}

	switch {
	case percentage < 60:
		recs = append(recs,
			"Raise your cybersecurity awareness",
			"Consider taking security training",
			"Follow current cybersecurity news",
		)
	case percentage < 80:
		recs = append(recs,
			"Keep your cybersecurity knowledge up to date",
			"Practice regularly to sharpen your skills",
		)
	default:
		recs = append(recs,
			"Excellent! You are a model user when it comes to cybersecurity",
			"Share your knowledge to raise awareness around you",
		)
	}

	return recs
}

// specificRecommendations derives advice from each wrongly answered phishing
// question's email attributes. The answer list is always checked against the
// phishing selection, whatever the mode; password-phase misses produce no
// specific advice. Historical behavior, kept until the product says otherwise.
func specificRecommendations(s *Session) []string {
	questions := s.phishingQuestions()

	var recs []string
	for i := 0; i < len(s.answers) && i < len(questions); i++ {
		answer := s.answers[i]
		q := questions[i]
		if answer == q.CorrectAnswer {
			continue
		}

		from := q.Email.From
		if strings.Contains(from, "paypa1") || strings.Contains(from, "paypal") {
			recs = append(recs, "Check the domain name carefully in emails from financial services like PayPal")
		}
		if q.Email.Urgency == model.UrgencyHigh {
			recs = append(recs, "Emails demanding urgent action are usually phishing, stay alert")
		}
		if q.Email.HasLink {
			recs = append(recs, "Verify the sender address before clicking links in emails")
		}
		if strings.HasSuffix(from, "@yourcompany.com") {
			recs = append(recs, "Verify even internal company emails, they can be spoofed")
		}

		if strings.Contains(answer, "Safe") && strings.Contains(q.CorrectAnswer, "Suspicious") {
			recs = append(recs, "Analyze emails more carefully before marking them as safe")
		}
		if strings.Contains(answer, "Suspicious") && strings.Contains(q.CorrectAnswer, "Safe") {
			recs = append(recs, "Learn to recognize emails from trustworthy sources too")
		}
	}

	return dedupe(recs)
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// roundPercent rounds half away from zero, matching the original grading.
func roundPercent(p float64) int {
	return int(math.Round(p))
}
