/**
 * @description
 * This file contains the preference quiz manager. It walks the user through
 * the question list one step at a time, persists every answer to the durable
 * store so a reload resumes mid-quiz, and shuffles the question order once
 * per session, persisting the shuffled order so a mid-quiz reload does not
 * reorder the remaining questions.
 *
 * @dependencies
 * - context, errors, log, math/rand, sync: Standard Go libraries.
 * - internal/domain, internal/store: Quiz models and durable storage.
 */

package quiz

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"

	"github.com/givechain/donation-service/internal/domain"
	"github.com/givechain/donation-service/internal/store"
)

var (
	ErrUnknownQuestion   = errors.New("unknown quiz question")
	ErrStepNotAnswered   = errors.New("current question not answered yet")
	ErrQuizAlreadyDone   = errors.New("quiz already complete")
	ErrNothingToGoBackTo = errors.New("already at the first question")
)

// Manager owns the quiz state for the running instance.
type Manager struct {
	kv        store.KV
	questions map[string]domain.QuizQuestion

	mu      sync.Mutex
	order   []string // shuffled question ids, persisted per session
	answers domain.QuizAnswers
	step    int
}

// State is the quiz snapshot handed to the API layer.
type State struct {
	Questions  []domain.QuizQuestion `json:"questions"` // in shuffled order
	Answers    domain.QuizAnswers    `json:"answers"`
	Step       int                   `json:"step"`
	TotalSteps int                   `json:"total_steps"`
	Progress   float64               `json:"progress"`
	Complete   bool                  `json:"complete"`
}

// NewManager loads any persisted answers and shuffled order from the durable
// store. Corrupt or missing state initializes to empty defaults without
// erroring. A persisted order that no longer matches the question set (the
// catalog changed) is discarded and reshuffled.
func NewManager(ctx context.Context, kv store.KV, questions []domain.QuizQuestion) *Manager {
	m := &Manager{
		kv:        kv,
		questions: make(map[string]domain.QuizQuestion, len(questions)),
		answers:   domain.QuizAnswers{},
	}
	for _, q := range questions {
		m.questions[q.ID] = q
	}

	_ = store.ReadJSON(ctx, kv, store.KeyQuizAnswers, &m.answers)
	if m.answers == nil {
		m.answers = domain.QuizAnswers{}
	}

	var order []string
	_ = store.ReadJSON(ctx, kv, store.KeyShuffledQuizQuestions, &order)
	if !m.orderMatchesQuestions(order) {
		order = m.shuffledOrder(questions)
		if err := kv.Put(ctx, store.KeyShuffledQuizQuestions, order); err != nil {
			log.Printf("level=warn component=quiz msg=\"could not persist shuffled question order\" err=%v", err)
		}
	}
	m.order = order

	// Resume behind the first unanswered question so a reload lands the user
	// where they left off.
	for _, id := range m.order {
		if _, answered := m.answers[id]; !answered {
			break
		}
		m.step++
	}

	return m
}

func (m *Manager) shuffledOrder(questions []domain.QuizQuestion) []string {
	order := make([]string, len(questions))
	for i, q := range questions {
		order[i] = q.ID
	}
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

func (m *Manager) orderMatchesQuestions(order []string) bool {
	if len(order) != len(m.questions) {
		return false
	}
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if _, ok := m.questions[id]; !ok || seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

// State returns the current quiz snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	ordered := make([]domain.QuizQuestion, 0, len(m.order))
	for _, id := range m.order {
		ordered = append(ordered, m.questions[id])
	}
	total := len(m.order)

	var progress float64
	if total > 0 {
		progress = float64(m.step) / float64(total) * 100
	}

	return State{
		Questions:  ordered,
		Answers:    m.answers.Clone(),
		Step:       m.step,
		TotalSteps: total,
		Progress:   progress,
		Complete:   m.step == total,
	}
}

// Answers returns a copy of the answers for the matching engine.
func (m *Manager) Answers() domain.QuizAnswers {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.answers.Clone()
}

// Answer records the value for a question and persists the full answer set.
func (m *Manager) Answer(ctx context.Context, questionID string, value interface{}) error {
	if _, ok := m.questions[questionID]; !ok {
		return ErrUnknownQuestion
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers[questionID] = value
	return m.kv.Put(ctx, store.KeyQuizAnswers, m.answers)
}

// Next advances to the following question. The current question must be
// answered first, the same gate the UI applies by disabling its button.
func (m *Manager) Next() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step >= len(m.order) {
		return ErrQuizAlreadyDone
	}
	if _, answered := m.answers[m.order[m.step]]; !answered {
		return ErrStepNotAnswered
	}
	m.step++
	return nil
}

// Back returns to the previous question.
func (m *Manager) Back() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step == 0 {
		return ErrNothingToGoBackTo
	}
	m.step--
	return nil
}

// Reset clears every answer and the persisted state, returning the quiz to
// its first question with a fresh shuffle.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.answers = domain.QuizAnswers{}
	m.step = 0
	if err := m.kv.Delete(ctx, store.KeyQuizAnswers); err != nil {
		return err
	}

	questions := make([]domain.QuizQuestion, 0, len(m.questions))
	for _, id := range m.order {
		questions = append(questions, m.questions[id])
	}
	m.order = m.shuffledOrder(questions)
	return m.kv.Put(ctx, store.KeyShuffledQuizQuestions, m.order)
}
