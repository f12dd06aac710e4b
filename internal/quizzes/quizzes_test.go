package quizzes_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/lingua-web/internal/pagestest"
	"github.com/JaimeStill/lingua-web/internal/quizzes"
	"github.com/JaimeStill/lingua-web/pkg/logging"
)

var (
	quizID = uuid.MustParse("0a000000-0000-4000-8000-000000000001")
	q1     = uuid.MustParse("0a000000-0000-4000-8000-0000000000b1")
	q2     = uuid.MustParse("0a000000-0000-4000-8000-0000000000b2")
	o1     = uuid.MustParse("0a000000-0000-4000-8000-0000000000c1")
	o2     = uuid.MustParse("0a000000-0000-4000-8000-0000000000c2")
)

func sampleQuiz() *quizzes.Quiz {
	return &quizzes.Quiz{
		ID: quizID,
		Questions: []quizzes.Question{
			{ID: q1, Options: []quizzes.Option{{ID: o1}, {ID: o2}}},
			{ID: q2, Options: []quizzes.Option{{ID: o1}, {ID: o2}}},
		},
	}
}

func TestAnswersFromForm(t *testing.T) {
	form := url.Values{
		"q_" + q1.String():      {o2.String()},
		"q_" + q2.String():      {"not-an-id"},
		"q_" + uuid.NewString(): {o1.String()},
		"unrelated":             {"x"},
	}

	answers := quizzes.AnswersFromForm(sampleQuiz(), form)

	assert.Equal(t, []quizzes.Answer{{QuestionID: q1, OptionID: o2}}, answers)
}

func TestResult(t *testing.T) {
	r := quizzes.Result{Score: 2, Total: 3, Questions: []quizzes.QuestionResult{{QuestionID: q1, Correct: true}}}
	assert.Equal(t, 66, r.Percent())
	require.NotNil(t, r.For(q1))
	assert.True(t, r.For(q1).Correct)
	assert.Nil(t, r.For(q2))
	assert.Zero(t, quizzes.Result{}.Percent())
}

type backend struct {
	submitted map[string]any
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /quizzes/{id}", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, 200, fmt.Sprintf(`{"id":%q,"title":"Ser vs estar","question_count":2,"questions":[
			{"id":%q,"prompt":"Yo ___ cansado","options":[{"id":%q,"text":"soy"},{"id":%q,"text":"estoy"}]},
			{"id":%q,"prompt":"Ella ___ médica","options":[{"id":%q,"text":"es"},{"id":%q,"text":"está"}]}
		]}`, quizID, q1, o1, o2, q2, o1, o2))
	})
	mux.HandleFunc("POST /quizzes/{id}/submit", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&b.submitted)
		pagestest.JSON(w, 200, fmt.Sprintf(`{"score":1,"total":2,"questions":[
			{"question_id":%q,"correct":true,"selected_id":%q,"correct_option_id":%q},
			{"question_id":%q,"correct":false,"correct_option_id":%q,"explanation":"Professions take ser."}
		]}`, q1, o2, o2, q2, o1))
	})
	return mux
}

func TestService_Submit(t *testing.T) {
	b := &backend{}
	ctx := pagestest.Backend(t, b.handler())
	sys := quizzes.New(logging.Discard())

	_, err := sys.Submit(ctx, quizID, nil)
	assert.ErrorIs(t, err, quizzes.ErrNoAnswers)

	res, err := sys.Submit(ctx, quizID, []quizzes.Answer{{QuestionID: q1, OptionID: o2}})
	require.NoError(t, err)
	assert.Equal(t, 50, res.Percent())
	assert.Equal(t, "Professions take ser.", res.For(q2).Explanation)

	answers, ok := b.submitted["answers"].([]any)
	require.True(t, ok)
	require.Len(t, answers, 1)
	assert.Equal(t, q1.String(), answers[0].(map[string]any)["question_id"])
}

func newHandler(t *testing.T) *quizzes.Handler {
	return quizzes.NewHandler(quizzes.New(logging.Discard()),
		pagestest.Renderer(t, "dashboard_quizzes.html", "dashboard_quiz.html"), logging.Discard())
}

func TestHandler_SubmitRendersResult(t *testing.T) {
	ctx := pagestest.Backend(t, (&backend{}).handler())
	form := url.Values{"q_" + q1.String(): {o2.String()}}

	w := pagestest.Serve("POST /quizzes/{id}", newHandler(t).Submit, pagestest.Post(ctx, "/quizzes/"+quizID.String(), form))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "form:q_"+q1.String()+"="+o2.String())
	assert.Contains(t, pagestest.Body(w), `"score":1,"total":2`)
}

func TestHandler_SubmitWithoutAnswers(t *testing.T) {
	b := &backend{}
	ctx := pagestest.Backend(t, b.handler())

	w := pagestest.Serve("POST /quizzes/{id}", newHandler(t).Submit, pagestest.Post(ctx, "/quizzes/"+quizID.String(), url.Values{}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "error:form=Answer at least one question")
	assert.Nil(t, b.submitted)
}

func TestHandler_TakeInvalidID(t *testing.T) {
	ctx := pagestest.Backend(t, (&backend{}).handler())

	w := pagestest.Serve("GET /quizzes/{id}", newHandler(t).Take, pagestest.Get(ctx, "/quizzes/abc"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
