package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/givechain/donation-service/internal/domain"
	"github.com/givechain/donation-service/internal/store"
)

func testQuestions() []domain.QuizQuestion {
	return []domain.QuizQuestion{
		{ID: "category", Prompt: "Which cause?", Type: domain.QuestionSelect},
		{ID: "budget", Prompt: "How much?", Type: domain.QuestionSelect},
		{ID: "size", Prompt: "What size org?", Type: domain.QuestionSelect},
	}
}

func TestNewManager_CorruptAnswersInitializeEmpty(t *testing.T) {
	kv := store.NewMemoryKV()
	kv.PutRaw(store.KeyQuizAnswers, []byte("{{{definitely not json"))

	m := NewManager(context.Background(), kv, testQuestions())

	st := m.State()
	if len(st.Answers) != 0 {
		t.Fatalf("expected empty answers after corrupt read, got %v", st.Answers)
	}
	if st.Step != 0 || st.Complete {
		t.Fatalf("expected fresh quiz state, got %+v", st)
	}
}

func TestNewManager_PersistedAnswersAndOrderSurviveReload(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()

	first := NewManager(ctx, kv, testQuestions())
	firstOrder := make([]string, 0, 3)
	for _, q := range first.State().Questions {
		firstOrder = append(firstOrder, q.ID)
	}
	if err := first.Answer(ctx, firstOrder[0], "Environment"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if err := first.Next(); err != nil {
		t.Fatalf("next failed: %v", err)
	}

	// A reload mid-quiz keeps the shuffled order and resumes at the first
	// unanswered question.
	second := NewManager(ctx, kv, testQuestions())
	st := second.State()
	for i, q := range st.Questions {
		if q.ID != firstOrder[i] {
			t.Fatalf("expected persisted order %v, got %s at %d", firstOrder, q.ID, i)
		}
	}
	if st.Answers[firstOrder[0]] != "Environment" {
		t.Fatalf("expected persisted answer, got %v", st.Answers)
	}
	if st.Step != 1 {
		t.Fatalf("expected resume at step 1, got %d", st.Step)
	}
}

func TestNewManager_StaleOrderReshuffled(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	if err := kv.Put(ctx, store.KeyShuffledQuizQuestions, []string{"category", "removed_question"}); err != nil {
		t.Fatalf("seed order failed: %v", err)
	}

	m := NewManager(ctx, kv, testQuestions())

	st := m.State()
	if len(st.Questions) != 3 {
		t.Fatalf("expected all 3 questions after reshuffle, got %d", len(st.Questions))
	}
}

func TestNext_BlockedUntilCurrentQuestionAnswered(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, store.NewMemoryKV(), testQuestions())

	if err := m.Next(); !errors.Is(err, ErrStepNotAnswered) {
		t.Fatalf("expected ErrStepNotAnswered, got %v", err)
	}

	current := m.State().Questions[0].ID
	if err := m.Answer(ctx, current, "medium"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if err := m.Next(); err != nil {
		t.Fatalf("expected advance after answering, got %v", err)
	}
}

func TestQuizCompletionAtFinalStep(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, store.NewMemoryKV(), testQuestions())

	for !m.State().Complete {
		st := m.State()
		if err := m.Answer(ctx, st.Questions[st.Step].ID, "x"); err != nil {
			t.Fatalf("answer failed: %v", err)
		}
		if err := m.Next(); err != nil {
			t.Fatalf("next failed: %v", err)
		}
	}

	st := m.State()
	if st.Step != st.TotalSteps || st.Progress != 100 {
		t.Fatalf("expected completed quiz, got %+v", st)
	}
	if err := m.Next(); !errors.Is(err, ErrQuizAlreadyDone) {
		t.Fatalf("expected ErrQuizAlreadyDone past the end, got %v", err)
	}
}

func TestBack_AtStartFails(t *testing.T) {
	m := NewManager(context.Background(), store.NewMemoryKV(), testQuestions())
	if err := m.Back(); !errors.Is(err, ErrNothingToGoBackTo) {
		t.Fatalf("expected ErrNothingToGoBackTo, got %v", err)
	}
}

func TestAnswer_UnknownQuestionRejected(t *testing.T) {
	m := NewManager(context.Background(), store.NewMemoryKV(), testQuestions())
	if err := m.Answer(context.Background(), "favorite_color", "blue"); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
}

func TestReset_ClearsAnswersAndPersistedState(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	m := NewManager(ctx, kv, testQuestions())

	current := m.State().Questions[0].ID
	if err := m.Answer(ctx, current, "high"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if err := m.Next(); err != nil {
		t.Fatalf("next failed: %v", err)
	}

	if err := m.Reset(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	st := m.State()
	if len(st.Answers) != 0 || st.Step != 0 {
		t.Fatalf("expected cleared quiz, got %+v", st)
	}
	if _, err := kv.Get(ctx, store.KeyQuizAnswers); !errors.Is(err, store.ErrKeyNotFound) {
		t.Fatalf("expected persisted answers removed, got %v", err)
	}

	// A fresh manager after reset starts from scratch.
	fresh := NewManager(ctx, kv, testQuestions())
	if fresh.State().Step != 0 {
		t.Fatalf("expected fresh quiz after reset, got step %d", fresh.State().Step)
	}
}
