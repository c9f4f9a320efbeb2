// Package game implements the quiz core: question selection, password
// strength analysis, results grading, and the per-player session state
// machine that ties them together.
package game

import (
	"strings"
	"sync"

	"github.com/cyberaware/gameserver/internal/catalog"
	"github.com/cyberaware/gameserver/internal/model"
)

// Session is one player's playthrough. The five states are a closed set, so
// dispatch is a switch on the state tag rather than an interface hierarchy.
// HandleAction serializes concurrent callers on the session's own mutex;
// distinct sessions share nothing mutable.
type Session struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	selector *Selector

	state            model.StateName
	userName         string
	gameMode         model.GameMode
	selectedPhishing []model.Question
	selectedPassword []model.PasswordQuestion
	questionIndex    int
	passwordIndex    int
	score            int
	answers          []string
	passwordAnalysis *model.PasswordAnalysis
}

// NewSession creates an empty session in the welcome state.
func NewSession(cat *catalog.Catalog, sel *Selector) *Session {
	s := &Session{catalog: cat, selector: sel}
	s.reset()
	return s
}

// reset clears all mutable fields back to pre-game defaults. The catalog is
// shared and immutable; it is never reloaded.
func (s *Session) reset() {
	s.state = model.StateWelcome
	s.userName = ""
	s.gameMode = ""
	s.selectedPhishing = nil
	s.selectedPassword = nil
	s.questionIndex = 0
	s.passwordIndex = 0
	s.score = 0
	s.answers = nil
	s.passwordAnalysis = nil
}

// HandleAction dispatches an action to the current state and returns the
// response. Actions not valid in the current state return an error-shaped
// response and leave the session untouched.
func (s *Session) HandleAction(action model.Action) model.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(action)
}

// dispatch runs under the session lock. Internal chaining (mode selection
// fetching the first question, phase transitions fetching the next phase's
// content) re-enters here directly.
func (s *Session) dispatch(action model.Action) model.Response {
	switch s.state {
	case model.StateWelcome:
		return s.handleWelcome(action)
	case model.StateMenu:
		return s.handleMenu(action)
	case model.StatePhishing:
		return s.handlePhishing(action)
	case model.StatePassword:
		return s.handlePassword(action)
	case model.StateResults:
		return s.handleResults(action)
	}
	return s.invalidAction()
}

func (s *Session) handleWelcome(action model.Action) model.Response {
	if action.Type != model.ActionStartGame {
		return s.invalidAction()
	}

	name := strings.TrimSpace(action.UserName)
	if name == "" {
		return model.Response{
			GameState: model.StateWelcome,
			Message:   "User name is required",
		}
	}

	s.userName = name
	s.state = model.StateMenu

	return model.Response{
		GameState: model.StateMenu,
		Message:   "Choose a game mode",
		UserName:  s.userName,
	}
}

func (s *Session) handleMenu(action model.Action) model.Response {
	if action.Type != model.ActionSelectGameMode {
		return s.invalidAction()
	}

	mode := model.GameMode(strings.TrimSpace(string(action.GameMode)))
	if mode == "" {
		return model.Response{
			GameState: model.StateMenu,
			Message:   "No game mode selected",
		}
	}
	if !mode.Valid() {
		return model.Response{
			GameState: model.StateMenu,
			Message:   "Invalid game mode",
		}
	}

	s.gameMode = mode
	s.selectedPhishing, s.selectedPassword = s.selector.Select(mode, s.catalog.Phishing, s.catalog.Password)

	switch mode {
	case model.ModePhishingOnly:
		s.state = model.StatePhishing
		s.questionIndex = 0
		return s.dispatch(model.Action{Type: model.ActionGetCurrentQuestion})

	case model.ModePasswordOnly:
		s.state = model.StatePassword
		s.passwordIndex = 0
		return s.dispatch(model.Action{Type: model.ActionGetCurrentQuestion})

	default: // MIXED: phishing phase first, password phase after.
		s.state = model.StatePhishing
		s.questionIndex = 0
		first := s.dispatch(model.Action{Type: model.ActionGetCurrentQuestion})
		return model.Response{
			GameState:            model.StatePhishing,
			GameMode:             model.ModeMixed,
			Message:              "Mixed mode started! First the phishing questions, then the password questions. Ready for the first one?",
			UserName:             first.UserName,
			CurrentQuestionIndex: first.CurrentQuestionIndex,
			TotalQuestions:       first.TotalQuestions,
			CurrentQuestion:      first.CurrentQuestion,
			Progress:             first.Progress,
			Score:                first.Score,
		}
	}
}

func (s *Session) handlePhishing(action model.Action) model.Response {
	questions := s.phishingQuestions()

	switch action.Type {
	case model.ActionGetCurrentQuestion:
		if s.questionIndex >= len(questions) {
			return s.invalidAction()
		}
		q := questions[s.questionIndex]
		return model.Response{
			GameState:            model.StatePhishing,
			GameMode:             s.gameMode,
			CurrentQuestion:      &q,
			CurrentQuestionIndex: s.questionIndex,
			TotalQuestions:       len(questions),
			Score:                s.score,
			UserName:             s.userName,
			Progress:             &model.Progress{Current: s.questionIndex, Total: len(questions)},
		}

	case model.ActionSubmitAnswer:
		if s.questionIndex >= len(questions) {
			return s.invalidAction()
		}
		q := questions[s.questionIndex]
		isCorrect := strings.TrimSpace(q.CorrectAnswer) == strings.TrimSpace(action.Answer)
		if isCorrect {
			s.score++
		}
		// The raw answer is recorded; only the comparison is trimmed.
		s.answers = append(s.answers, action.Answer)

		return model.Response{
			GameState:            model.StatePhishing,
			GameMode:             s.gameMode,
			Message:              answerMessage(isCorrect),
			UserName:             s.userName,
			Score:                s.score,
			CurrentQuestionIndex: s.questionIndex,
			TotalQuestions:       len(questions),
			Progress:             &model.Progress{Current: s.questionIndex, Total: len(questions)},
			IsCorrect:            isCorrect,
			Explanation:          q.Explanation,
		}

	case model.ActionNextQuestion:
		if s.questionIndex < len(questions)-1 {
			s.questionIndex++
			return s.dispatch(model.Action{Type: model.ActionGetCurrentQuestion})
		}
		// Phishing phase done. Mixed mode continues with password questions,
		// otherwise the game goes straight to results.
		if s.gameMode == model.ModeMixed {
			s.state = model.StatePassword
			s.passwordIndex = 0
			return s.dispatch(model.Action{Type: model.ActionGetCurrentQuestion})
		}
		s.state = model.StateResults
		return s.dispatch(model.Action{Type: model.ActionGetResults})

	default:
		return s.invalidAction()
	}
}

func (s *Session) handlePassword(action model.Action) model.Response {
	questions := s.passwordQuestionSet()

	switch action.Type {
	case model.ActionGetCurrentQuestion:
		if s.passwordIndex < len(questions) {
			q := questions[s.passwordIndex]
			return model.Response{
				GameState:               model.StatePassword,
				GameMode:                s.gameMode,
				CurrentPasswordQuestion: &q,
				CurrentQuestionIndex:    s.passwordIndex,
				TotalQuestions:          len(questions) + 1, // +1 for the password-entry step
				Score:                   s.score,
				UserName:                s.userName,
				Progress:                &model.Progress{Current: s.passwordIndex, Total: len(questions) + 1},
			}
		}
		if s.passwordIndex == len(questions) {
			return s.passwordEntryResponse(len(questions))
		}
		return s.invalidAction()

	case model.ActionSubmitAnswer:
		if s.passwordIndex >= len(questions) {
			return s.invalidAction()
		}
		q := questions[s.passwordIndex]
		isCorrect := strings.TrimSpace(q.CorrectAnswer) == strings.TrimSpace(action.Answer)
		if isCorrect {
			s.score++
		}
		s.answers = append(s.answers, action.Answer)

		return model.Response{
			GameState:            model.StatePassword,
			GameMode:             s.gameMode,
			Message:              answerMessage(isCorrect),
			UserName:             s.userName,
			Score:                s.score,
			CurrentQuestionIndex: s.passwordIndex,
			TotalQuestions:       len(questions),
			Progress:             &model.Progress{Current: s.passwordIndex, Total: len(questions) + 1},
			IsCorrect:            isCorrect,
			Explanation:          q.Explanation,
		}

	case model.ActionNextQuestion:
		if s.passwordIndex < len(questions)-1 {
			s.passwordIndex++
			q := questions[s.passwordIndex]
			return model.Response{
				GameState:               model.StatePassword,
				GameMode:                s.gameMode,
				CurrentPasswordQuestion: &q,
				CurrentQuestionIndex:    s.passwordIndex,
				TotalQuestions:          len(questions),
				Score:                   s.score,
				UserName:                s.userName,
				Progress:                &model.Progress{Current: s.passwordIndex, Total: len(questions) + 1},
			}
		}
		// The cursor moves one past the last question to mark the extra
		// password-entry step before results.
		s.passwordIndex++
		return s.passwordEntryResponse(len(questions))

	case model.ActionSubmitPassword:
		analysis := AnalyzePassword(action.Password)
		s.passwordAnalysis = &analysis
		s.state = model.StateResults

		results := s.dispatch(model.Action{Type: model.ActionGetResults})
		results.GameMode = s.gameMode
		return results

	default:
		return s.invalidAction()
	}
}

func (s *Session) handleResults(action model.Action) model.Response {
	switch action.Type {
	case model.ActionGetResults:
		results := computeResults(s)
		return model.Response{
			GameState:        model.StateResults,
			Message:          "Game over! Here are your results:",
			UserName:         s.userName,
			Score:            s.score,
			TotalQuestions:   s.totalQuestions(),
			Results:          &results,
			PasswordAnalysis: s.passwordAnalysis,
			GameMode:         s.gameMode,
		}

	case model.ActionRestartGame:
		s.reset()
		return model.Response{
			GameState: model.StateWelcome,
			Message:   "Game reset. You can start a new one.",
		}

	default:
		return s.invalidAction()
	}
}

func (s *Session) passwordEntryResponse(total int) model.Response {
	return model.Response{
		GameState:            model.StatePassword,
		GameMode:             s.gameMode,
		Message:              "All questions completed! Now create a strong example password.",
		UserName:             s.userName,
		Score:                s.score,
		CurrentQuestionIndex: total,
		TotalQuestions:       total + 1,
		Progress:             &model.Progress{Current: total, Total: total + 1},
	}
}

// invalidAction is the error-shaped response for an action the current state
// does not accept. State and cursors are unchanged.
func (s *Session) invalidAction() model.Response {
	return model.Response{
		GameState: s.state,
		GameMode:  s.gameMode,
		Message:   "Invalid action",
	}
}

func answerMessage(isCorrect bool) string {
	if isCorrect {
		return "Correct answer!"
	}
	return "Wrong answer!"
}

// phishingQuestions returns the frozen phishing selection, falling back to a
// catalog prefix when no selection was made (legacy behavior kept for callers
// that skipped mode selection).
func (s *Session) phishingQuestions() []model.Question {
	if len(s.selectedPhishing) > 0 {
		return s.selectedPhishing
	}
	n := singleModeCount
	if s.gameMode == model.ModeMixed {
		n = mixedModeCount
	}
	return s.catalog.Phishing[:min(n, len(s.catalog.Phishing))]
}

func (s *Session) passwordQuestionSet() []model.PasswordQuestion {
	if len(s.selectedPassword) > 0 {
		return s.selectedPassword
	}
	n := singleModeCount
	if s.gameMode == model.ModeMixed {
		n = mixedModeCount
	}
	return s.catalog.Password[:min(n, len(s.catalog.Password))]
}

// totalQuestions reports the size of whichever selection is active, falling
// back to the full phishing catalog when nothing was selected.
func (s *Session) totalQuestions() int {
	if len(s.selectedPhishing) > 0 {
		return len(s.selectedPhishing)
	}
	if len(s.selectedPassword) > 0 {
		return len(s.selectedPassword)
	}
	return len(s.catalog.Phishing)
}

// State returns the session's current state name.
func (s *Session) State() model.StateName {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
