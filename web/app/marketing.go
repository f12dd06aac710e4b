package app

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/lingua-web/internal/pages"
)

// Feature is a card on the home page.
type Feature struct {
	Title string
	Body  string
}

var features = []Feature{
	{Title: "Structured courses", Body: "Lessons grouped by CEFR level so you always know what comes next."},
	{Title: "Grammar check", Body: "Write freely and see every mistake highlighted with a suggestion."},
	{Title: "Pronunciation", Body: "Record yourself reading a sentence and get a score for every word."},
	{Title: "Conversation", Body: "Practise real situations with a partner that corrects you as you go."},
}

var languages = []string{"English", "French", "German", "Italian", "Portuguese", "Spanish"}

// yearlyMonths is what a yearly subscription costs in monthly payments.
var yearlyMonths = decimal.NewFromInt(10)

// Plan is a pricing tier. Monthly is in US dollars.
type Plan struct {
	Name      string
	Monthly   decimal.Decimal
	Highlight bool
	Features  []string
}

func (p Plan) Free() bool {
	return p.Monthly.IsZero()
}

func (p Plan) Yearly() decimal.Decimal {
	return p.Monthly.Mul(yearlyMonths)
}

func (p Plan) MonthlyLabel() string {
	return "$" + p.Monthly.StringFixed(2)
}

func (p Plan) YearlyLabel() string {
	return "$" + p.Yearly().StringFixed(2)
}

var plans = []Plan{
	{
		Name:     "Starter",
		Monthly:  decimal.Zero,
		Features: []string{"First lessons of every course", "5 grammar checks a day", "Progress tracking"},
	},
	{
		Name:      "Plus",
		Monthly:   decimal.RequireFromString("9.99"),
		Highlight: true,
		Features:  []string{"All courses and quizzes", "Unlimited grammar checks", "Pronunciation scoring"},
	},
	{
		Name:     "Pro",
		Monthly:  decimal.RequireFromString("19.99"),
		Features: []string{"Everything in Plus", "Unlimited conversation practice", "Priority feedback"},
	},
}

func marketingHandler(p *pages.Renderer, view, title string, data any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.Page(w, r, view, title, data)
	}
}
