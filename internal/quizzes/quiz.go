package quizzes

import (
	"strings"

	"github.com/google/uuid"
)

// answerPrefix names the radio group of each question on the quiz form.
const answerPrefix = "q_"

type Option struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

type Question struct {
	ID      uuid.UUID `json:"id"`
	Prompt  string    `json:"prompt"`
	Options []Option  `json:"options"`
}

// Field is the form field holding the chosen option.
func (q Question) Field() string {
	return answerPrefix + q.ID.String()
}

type Quiz struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Language      string     `json:"language"`
	Level         string     `json:"level"`
	QuestionCount int        `json:"questionCount"`
	Questions     []Question `json:"questions,omitempty"`
}

type Answer struct {
	QuestionID uuid.UUID `json:"questionId"`
	OptionID   uuid.UUID `json:"optionId"`
}

// AnswersFromForm reads one answer per q_<question id> field, ignoring
// malformed fields and questions not in the quiz.
func AnswersFromForm(quiz *Quiz, form map[string][]string) []Answer {
	var answers []Answer
	for _, q := range quiz.Questions {
		values := form[q.Field()]
		if len(values) == 0 {
			continue
		}
		opt, err := uuid.Parse(strings.TrimSpace(values[0]))
		if err != nil {
			continue
		}
		answers = append(answers, Answer{QuestionID: q.ID, OptionID: opt})
	}
	return answers
}

type QuestionResult struct {
	QuestionID      uuid.UUID `json:"questionId"`
	Correct         bool      `json:"correct"`
	SelectedID      uuid.UUID `json:"selectedId"`
	CorrectOptionID uuid.UUID `json:"correctOptionId"`
	Explanation     string    `json:"explanation"`
}

type Result struct {
	Score     int              `json:"score"`
	Total     int              `json:"total"`
	Questions []QuestionResult `json:"questions"`
}

// Percent is the whole-number share of correct answers.
func (r Result) Percent() int {
	if r.Total == 0 {
		return 0
	}
	return r.Score * 100 / r.Total
}

// For returns the result of the question, if graded.
func (r Result) For(questionID uuid.UUID) *QuestionResult {
	for i := range r.Questions {
		if r.Questions[i].QuestionID == questionID {
			return &r.Questions[i]
		}
	}
	return nil
}
