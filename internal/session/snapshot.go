package session

import "time"

// LessonSnapshot merges lesson content with its learner state.
type LessonSnapshot struct {
	ID              string     `json:"id"`
	Number          int        `json:"number"`
	Title           string     `json:"title"`
	Type            string     `json:"type"`
	DurationSeconds int        `json:"duration_seconds"`
	Status          Status     `json:"status"`
	Progress        int        `json:"progress"`
	LastPosition    int        `json:"last_position"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// QuizSnapshot merges quiz content with its learner state. Status reads
// locked until the owning module's lessons are all completed, whatever
// the stored status says.
type QuizSnapshot struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	TotalQuestions   int             `json:"total_questions"`
	PassingScore     int             `json:"passing_score"`
	TimeLimitMinutes int             `json:"time_limit_minutes,omitempty"`
	Status           Status          `json:"status"`
	BestScore        *int            `json:"best_score,omitempty"`
	Attempts         []AttemptRecord `json:"attempts,omitempty"`
}

// ModuleSnapshot merges module content with derived learner state.
type ModuleSnapshot struct {
	ID       string           `json:"id"`
	Number   int              `json:"number"`
	Title    string           `json:"title"`
	Duration string           `json:"duration"`
	Status   Status           `json:"status"`
	Progress int              `json:"progress"`
	Lessons  []LessonSnapshot `json:"lessons"`
	Quiz     QuizSnapshot     `json:"quiz"`
}

// QuizView is the active attempt as the quiz modal sees it.
type QuizView struct {
	QuizID        string              `json:"quiz_id"`
	AttemptID     string              `json:"attempt_id"`
	State         AttemptState        `json:"state"`
	QuestionIndex int                 `json:"question_index"`
	SecondsLeft   int                 `json:"seconds_left"`
	Timed         bool                `json:"timed"`
	Answers       map[string][]string `json:"answers"`
	AnsweredCount int                 `json:"answered_count"`
	Score         int                 `json:"score"`
	CorrectCount  int                 `json:"correct_count"`
	Passed        bool                `json:"passed"`
}

// Progress returns the ledger snapshot with certificate eligibility
// derived in the same step.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.ledger.snapshot()
	p.CertificateEarned = Eligible(p, s.cat.Course())
	return p
}

// ModuleSnapshots returns the full module tree with learner state merged
// in, ordered as the catalog orders it.
func (s *Session) ModuleSnapshots() []ModuleSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	mods := s.cat.Modules()
	out := make([]ModuleSnapshot, 0, len(mods))
	for _, mod := range mods {
		ms := s.modules[mod.ID]

		snap := ModuleSnapshot{
			ID:       mod.ID,
			Number:   mod.Number,
			Title:    mod.Title,
			Duration: mod.Duration,
			Status:   ms.status,
			Progress: ms.progress,
			Lessons:  make([]LessonSnapshot, 0, len(mod.Lessons)),
		}
		for _, les := range mod.Lessons {
			ls := s.lessons[les.ID]
			snap.Lessons = append(snap.Lessons, LessonSnapshot{
				ID:              les.ID,
				Number:          les.Number,
				Title:           les.Title,
				Type:            string(les.Type),
				DurationSeconds: les.DurationSeconds,
				Status:          ls.status,
				Progress:        ls.progress,
				LastPosition:    ls.lastPosition,
				CompletedAt:     ls.completedAt,
			})
		}

		qs := s.quizzes[mod.Quiz.ID]
		quizStatus := qs.status
		if !s.quizUnlocked(mod) {
			quizStatus = StatusLocked
		}
		snap.Quiz = QuizSnapshot{
			ID:               mod.Quiz.ID,
			Title:            mod.Quiz.Title,
			TotalQuestions:   len(mod.Quiz.Questions),
			PassingScore:     mod.Quiz.PassingScore,
			TimeLimitMinutes: mod.Quiz.TimeLimitMinutes,
			Status:           quizStatus,
			BestScore:        qs.bestScore,
			Attempts:         append([]AttemptRecord{}, qs.attempts...),
		}
		out = append(out, snap)
	}
	return out
}

// ActiveQuiz returns the current attempt view, or false when no quiz is
// open.
func (s *Session) ActiveQuiz() (QuizView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.attempt
	if a == nil {
		return QuizView{}, false
	}

	answers := make(map[string][]string, len(a.answers))
	for q, ids := range a.answers {
		answers[q] = append([]string{}, ids...)
	}

	quiz, _, _ := s.cat.QuizModule(a.quizID)
	passed := a.state != AttemptTaking && a.score >= quiz.PassingScore

	return QuizView{
		QuizID:        a.quizID,
		AttemptID:     a.id,
		State:         a.state,
		QuestionIndex: a.index,
		SecondsLeft:   a.secondsLeft,
		Timed:         a.timed,
		Answers:       answers,
		AnsweredCount: len(a.answers),
		Score:         a.score,
		CorrectCount:  a.correct,
		Passed:        passed,
	}, true
}
