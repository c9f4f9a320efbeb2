package game

import (
	"math/rand/v2"

	"github.com/cyberaware/gameserver/internal/model"
)

// Questions drawn per playthrough: 10 in a single-topic mode, 5+5 in mixed.
const (
	singleModeCount = 10
	mixedModeCount  = 5
)

// Selector draws randomized, frozen question subsets from a catalog.
// The randomness source is injected so tests can run deterministically.
type Selector struct {
	rng *rand.Rand
}

// NewSelector creates a selector backed by the given source. A nil source
// falls back to a ChaCha8 source seeded from the process entropy pool.
func NewSelector(src rand.Source) *Selector {
	if src == nil {
		var seed [32]byte
		for i := range seed {
			seed[i] = byte(rand.Uint64())
		}
		src = rand.NewChaCha8(seed)
	}
	return &Selector{rng: rand.New(src)}
}

// Select draws the question sets for the given mode. Every returned question
// is a clone with its own independently shuffled options; the catalog slices
// are never mutated. Counts cap at catalog size.
func (s *Selector) Select(mode model.GameMode, phishing []model.Question, password []model.PasswordQuestion) ([]model.Question, []model.PasswordQuestion) {
	switch mode {
	case model.ModePhishingOnly:
		return s.drawPhishing(phishing, singleModeCount), []model.PasswordQuestion{}
	case model.ModePasswordOnly:
		return []model.Question{}, s.drawPassword(password, singleModeCount)
	case model.ModeMixed:
		return s.drawPhishing(phishing, mixedModeCount), s.drawPassword(password, mixedModeCount)
	}
	return nil, nil
}

func (s *Selector) drawPhishing(pool []model.Question, n int) []model.Question {
	shuffled := make([]model.Question, len(pool))
	copy(shuffled, pool)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	n = min(n, len(shuffled))

	selected := make([]model.Question, 0, n)
	for _, q := range shuffled[:n] {
		q.Options = s.shuffledOptions(q.Options)
		selected = append(selected, q)
	}
	return selected
}

func (s *Selector) drawPassword(pool []model.PasswordQuestion, n int) []model.PasswordQuestion {
	shuffled := make([]model.PasswordQuestion, len(pool))
	copy(shuffled, pool)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	n = min(n, len(shuffled))

	selected := make([]model.PasswordQuestion, 0, n)
	for _, q := range shuffled[:n] {
		q.Options = s.shuffledOptions(q.Options)
		selected = append(selected, q)
	}
	return selected
}

// shuffledOptions returns a shuffled copy so the catalog's option order
// stays untouched.
func (s *Selector) shuffledOptions(options []string) []string {
	shuffled := make([]string, len(options))
	copy(shuffled, options)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
