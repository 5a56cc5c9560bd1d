// Package qubits implements the practice-test selector: per-topic module
// selection and question counts plus the accuracy dashboard rollup. It is
// independent of the certification path and never touches the session
// ledger.
package qubits

import (
	"log/slog"
	"math"
	"sync"

	"github.com/vardaan97-dotcom/learnovastudent/internal/catalog"
)

// Module is the selector's view of one practice topic bank.
type Module struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Subtitle           string `json:"subtitle,omitempty"`
	TotalQuestions     int    `json:"total_questions"`
	AttemptedQuestions int    `json:"attempted_questions"`
	CorrectAnswers     int    `json:"correct_answers"`
	IncorrectAnswers   int    `json:"incorrect_answers"`
	Unattempted        int    `json:"unattempted"`
	Accuracy           int    `json:"accuracy"`
	Selected           bool   `json:"selected"`
	QuestionsToAttempt int    `json:"questions_to_attempt"`
}

// Dashboard is the aggregate practice rollup.
type Dashboard struct {
	TotalQuizzes            int    `json:"total_quizzes"`
	TotalQuestionsAttempted int    `json:"total_questions_attempted"`
	OverallAccuracy         int    `json:"overall_accuracy"`
	TimeSpent               string `json:"time_spent"`
	Streak                  int    `json:"streak"`
	LastPracticeDate        string `json:"last_practice_date"`
}

// TestIntent is the hand-off emitted by StartTest; an external test-taking
// flow consumes it. No scoring happens here.
type TestIntent struct {
	ModuleIDs     []string `json:"module_ids"`
	QuestionCount int      `json:"question_count"`
}

// Selector tracks practice module selection state for one learner.
type Selector struct {
	mu      sync.Mutex
	modules []Module
	seed    []Module // pristine copy for Reset
	board   Dashboard
}

// NewSelector seeds a selector from the catalog's qubits bank.
func NewSelector(bank catalog.QubitsBank) *Selector {
	modules := make([]Module, 0, len(bank.Modules))
	for _, m := range bank.Modules {
		mod := Module{
			ID:                 m.ID,
			Title:              m.Title,
			Subtitle:           m.Subtitle,
			TotalQuestions:     m.TotalQuestions,
			AttemptedQuestions: m.AttemptedQuestions,
			CorrectAnswers:     m.CorrectAnswers,
			IncorrectAnswers:   m.AttemptedQuestions - m.CorrectAnswers,
			Unattempted:        m.TotalQuestions - m.AttemptedQuestions,
			Accuracy:           accuracy(m.CorrectAnswers, m.AttemptedQuestions),
			Selected:           m.Selected,
			QuestionsToAttempt: m.QuestionsToAttempt,
		}
		if mod.Unattempted < 0 {
			mod.Unattempted = 0
		}
		mod.QuestionsToAttempt = clampCount(mod.QuestionsToAttempt, mod.Unattempted)
		modules = append(modules, mod)
	}

	s := &Selector{
		modules: modules,
		seed:    append([]Module{}, modules...),
	}
	s.board = s.rollup(bank.Dashboard)
	return s
}

// Toggle flips one module's selection flag. Unknown ids are no-ops.
func (s *Selector) Toggle(moduleID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.modules {
		if s.modules[i].ID == moduleID {
			s.modules[i].Selected = !s.modules[i].Selected
			return true
		}
	}
	return false
}

// SelectAll selects every module unless all are already selected, in
// which case it deselects every module.
func (s *Selector) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	allSelected := len(s.modules) > 0
	for _, m := range s.modules {
		if !m.Selected {
			allSelected = false
			break
		}
	}
	for i := range s.modules {
		s.modules[i].Selected = !allSelected
	}
}

// AdjustCount moves a module's requested question count by delta, clamped
// to [1, unattempted].
func (s *Selector) AdjustCount(moduleID string, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.modules {
		if s.modules[i].ID == moduleID {
			m := &s.modules[i]
			m.QuestionsToAttempt = clampCount(m.QuestionsToAttempt+delta, m.Unattempted)
			return true
		}
	}
	return false
}

// StartTest emits the hand-off intent for the currently selected modules.
// Returns false when nothing is selected.
func (s *Selector) StartTest() (TestIntent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var intent TestIntent
	for _, m := range s.modules {
		if m.Selected {
			intent.ModuleIDs = append(intent.ModuleIDs, m.ID)
			intent.QuestionCount += m.QuestionsToAttempt
		}
	}
	if len(intent.ModuleIDs) == 0 {
		return TestIntent{}, false
	}

	slog.Info("practice test requested",
		"modules", len(intent.ModuleIDs),
		"questions", intent.QuestionCount,
	)
	return intent, true
}

// Reset restores the seeded selection flags and question counts.
func (s *Selector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules = append([]Module{}, s.seed...)
}

// Modules returns a copy of the current module states.
func (s *Selector) Modules() []Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Module{}, s.modules...)
}

// Dashboard returns the aggregate rollup.
func (s *Selector) Dashboard() Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board
}

func (s *Selector) rollup(seed catalog.QubitsDashboard) Dashboard {
	attempted, correct := 0, 0
	for _, m := range s.modules {
		attempted += m.AttemptedQuestions
		correct += m.CorrectAnswers
	}
	return Dashboard{
		TotalQuizzes:            len(s.modules),
		TotalQuestionsAttempted: attempted,
		OverallAccuracy:         accuracy(correct, attempted),
		TimeSpent:               seed.TimeSpent,
		Streak:                  seed.Streak,
		LastPracticeDate:        seed.LastPracticeDate,
	}
}

// clampCount bounds a requested question count to [1, max]. The floor
// stays 1 even for exhausted banks, matching the dashboard's selector.
func clampCount(n, max int) int {
	if max < 1 {
		max = 1
	}
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}

func accuracy(correct, attempted int) int {
	if attempted == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(attempted) * 100))
}
