package domain

// Question type tags for the preference quiz.
const (
	QuestionSelect      = "select"
	QuestionMultiSelect = "multiselect"
	QuestionRange       = "range"
)

// QuizOption is one selectable (label, value) pair for select/multiselect
// questions.
type QuizOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// QuizQuestion describes one quiz step. Options is populated for
// select/multiselect questions; Min/Max/Step for range questions.
type QuizQuestion struct {
	ID      string       `json:"id"`
	Prompt  string       `json:"prompt"`
	Type    string       `json:"type"`
	Options []QuizOption `json:"options,omitempty"`
	Min     float64      `json:"min,omitempty"`
	Max     float64      `json:"max,omitempty"`
	Step    float64      `json:"step,omitempty"`
}

// QuizAnswers maps question id to the chosen answer. Values are strings,
// string slices (multiselect) or numbers (range); they round-trip through
// JSON in the durable store, so the concrete dynamic types after a reload
// are string, []interface{} and float64.
type QuizAnswers map[string]interface{}

// Clone returns a shallow copy so callers can hand answers to the matching
// engine without sharing the live map.
func (a QuizAnswers) Clone() QuizAnswers {
	out := make(QuizAnswers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
