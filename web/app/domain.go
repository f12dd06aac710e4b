package app

import (
	"github.com/JaimeStill/lingua-web/internal/auth"
	"github.com/JaimeStill/lingua-web/internal/config"
	"github.com/JaimeStill/lingua-web/internal/courses"
	"github.com/JaimeStill/lingua-web/internal/dashboard"
	"github.com/JaimeStill/lingua-web/internal/feedback"
	"github.com/JaimeStill/lingua-web/internal/grammar"
	"github.com/JaimeStill/lingua-web/internal/lessons"
	"github.com/JaimeStill/lingua-web/internal/permissions"
	"github.com/JaimeStill/lingua-web/internal/progress"
	"github.com/JaimeStill/lingua-web/internal/pronunciation"
	"github.com/JaimeStill/lingua-web/internal/quizzes"
	"github.com/JaimeStill/lingua-web/internal/roles"
	"github.com/JaimeStill/lingua-web/internal/scenarios"
	"github.com/JaimeStill/lingua-web/internal/users"
)

// Domain holds every backend-facing system of the site.
type Domain struct {
	Auth          auth.System
	Courses       courses.System
	Lessons       lessons.System
	Users         users.System
	Roles         roles.System
	Permissions   permissions.System
	Feedback      feedback.System
	Scenarios     scenarios.System
	Quizzes       quizzes.System
	Grammar       grammar.System
	Pronunciation pronunciation.System
	Dashboard     dashboard.System
	Progress      progress.System
}

// NewDomain creates all domain systems from the runtime.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	scenariosSys := scenarios.New(runtime.Logger)

	return &Domain{
		Auth:          auth.New(runtime.Client, runtime.Sessions, runtime.Logger),
		Courses:       courses.New(runtime.Logger, runtime.Pagination),
		Lessons:       lessons.New(runtime.Logger, runtime.Pagination),
		Users:         users.New(cfg.App.BulkWorkers, runtime.Pagination, runtime.Logger),
		Roles:         roles.New(cfg.App.BulkWorkers, runtime.Logger),
		Permissions:   permissions.New(runtime.Logger),
		Feedback:      feedback.New(runtime.Pagination, runtime.Logger),
		Scenarios:     scenariosSys,
		Quizzes:       quizzes.New(runtime.Logger),
		Grammar:       grammar.New(cfg.App.GrammarMaxLength, runtime.Logger),
		Pronunciation: pronunciation.New(runtime.Storage, runtime.Logger),
		Dashboard:     dashboard.New(scenariosSys, runtime.Logger),
		Progress:      progress.New(runtime.Pagination, runtime.Logger),
	}
}
