package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vardaan97-dotcom/learnovastudent/internal/catalog"
)

// AttemptState is the quiz modal state machine: taking -> results, with
// results <-> reviewing and results -> taking (retry).
type AttemptState string

const (
	AttemptTaking    AttemptState = "taking"
	AttemptReviewing AttemptState = "reviewing"
	AttemptResults   AttemptState = "results"
)

// attempt is the state of one quiz attempt. At most one attempt is active
// per session; closing the quiz discards it, which also defuses any timer
// goroutine still ticking against it.
type attempt struct {
	id          string
	quizID      string
	moduleID    string
	state       AttemptState
	answers     map[string][]string // question id -> selected option ids
	index       int                 // current question, for the UI
	secondsLeft int
	timed       bool
	startedAt   time.Time
	score       int
	correct     int
}

// StartQuiz begins an attempt. The gate is derived, not stored: the quiz
// opens only once every lesson of its module is completed. Starting the
// quiz that is already being taken is a no-op.
func (s *Session) StartQuiz(quizID, moduleID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz, mod, ok := s.cat.QuizModule(quizID)
	if !ok || mod.ID != moduleID {
		return false
	}
	if !s.quizUnlocked(mod) {
		return false
	}
	if s.attempt != nil && s.attempt.quizID == quizID && s.attempt.state == AttemptTaking {
		return true
	}

	s.attempt = s.newAttempt(quiz, mod.ID)
	qs := s.quizzes[quizID]
	if qs.status == StatusNotStarted {
		qs.status = StatusInProgress
	}
	s.recomputeModule(mod.ID)

	slog.Info("quiz started", "quiz_id", quizID, "attempt_id", s.attempt.id, "timed", s.attempt.timed)
	return true
}

func (s *Session) newAttempt(quiz catalog.Quiz, moduleID string) *attempt {
	return &attempt{
		id:          uuid.NewString(),
		quizID:      quiz.ID,
		moduleID:    moduleID,
		state:       AttemptTaking,
		answers:     make(map[string][]string),
		secondsLeft: quiz.TimeLimitMinutes * 60,
		timed:       quiz.TimeLimitMinutes > 0,
		startedAt:   s.now(),
	}
}

// SelectOption records an answer. Single and true/false questions replace
// the answer set; multiple-choice toggles membership. Ignored outside the
// taking state or for unknown ids.
func (s *Session) SelectOption(questionID, optionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.attempt
	if a == nil || a.state != AttemptTaking {
		return false
	}
	q, ok := s.cat.Question(a.quizID, questionID)
	if !ok || !hasOption(q, optionID) {
		return false
	}

	if q.Type == catalog.QuestionMultiple {
		current := a.answers[questionID]
		if idx := indexOf(current, optionID); idx >= 0 {
			a.answers[questionID] = append(current[:idx], current[idx+1:]...)
		} else {
			a.answers[questionID] = append(current, optionID)
		}
		if len(a.answers[questionID]) == 0 {
			delete(a.answers, questionID)
		}
	} else {
		a.answers[questionID] = []string{optionID}
	}
	return true
}

// GotoQuestion moves the current-question pointer, clamped to the quiz.
func (s *Session) GotoQuestion(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.attempt
	if a == nil || a.state != AttemptTaking {
		return false
	}
	quiz, _, _ := s.cat.QuizModule(a.quizID)
	if index < 0 {
		index = 0
	}
	if index > len(quiz.Questions)-1 {
		index = len(quiz.Questions) - 1
	}
	a.index = index
	return true
}

// Tick advances the countdown by one second. Sessions without an active
// timed attempt ignore ticks, so a ticker that outlives its quiz modal
// cannot mutate anything. Reaching zero submits with whatever answers are
// recorded, exactly like a manual submit.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.attempt
	if a == nil || a.state != AttemptTaking || !a.timed {
		return
	}
	a.secondsLeft--
	if a.secondsLeft <= 0 {
		a.secondsLeft = 0
		slog.Info("quiz time expired, auto-submitting", "quiz_id", a.quizID)
		s.submitQuiz()
	}
}

// SubmitQuiz grades the active attempt. Returns the attempt record and
// false when there is nothing to submit.
func (s *Session) SubmitQuiz() (AttemptRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt == nil || s.attempt.state != AttemptTaking {
		return AttemptRecord{}, false
	}
	return s.submitQuiz(), true
}

// submitQuiz is the submit path shared by manual submit and timer expiry.
// Caller holds the lock with an attempt in the taking state.
func (s *Session) submitQuiz() AttemptRecord {
	a := s.attempt
	quiz, mod, _ := s.cat.QuizModule(a.quizID)

	correct := 0
	for _, q := range quiz.Questions {
		if setsEqual(a.answers[q.ID], q.CorrectOptionIDs) {
			correct++
		}
	}
	score := percent(correct, len(quiz.Questions))
	passed := score >= quiz.PassingScore

	a.score = score
	a.correct = correct
	a.state = AttemptResults

	qs := s.quizzes[quiz.ID]
	firstPass := passed && !qs.passedOnce
	if qs.bestScore == nil || score > *qs.bestScore {
		best := score
		qs.bestScore = &best
	}
	if passed {
		qs.status = StatusPassed
		qs.passedOnce = true
	} else {
		qs.status = StatusFailed
	}

	record := AttemptRecord{
		ID:             a.id,
		QuizID:         quiz.ID,
		Number:         len(qs.attempts) + 1,
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: len(quiz.Questions),
		Passed:         passed,
		StartedAt:      a.startedAt,
		CompletedAt:    s.now(),
	}
	qs.attempts = append(qs.attempts, record)

	if passed {
		s.ledger.onQuizPassed(score, len(quiz.Questions), firstPass)
	}
	s.recomputeModule(mod.ID)

	s.emit(Event{
		Type:      EventQuizSubmitted,
		QuizID:    quiz.ID,
		AttemptID: a.id,
		Score:     score,
		Passed:    passed,
	})
	s.checkCertificate()

	slog.Info("quiz submitted",
		"quiz_id", quiz.ID,
		"attempt_id", a.id,
		"score", score,
		"passed", passed,
	)
	return record
}

// RetryQuiz starts a fresh attempt from the results view: answers cleared,
// timer reset, question index back to zero. BestScore is preserved.
func (s *Session) RetryQuiz() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.attempt
	if a == nil || a.state != AttemptResults {
		return false
	}
	quiz, _, _ := s.cat.QuizModule(a.quizID)
	s.attempt = s.newAttempt(quiz, a.moduleID)
	s.quizzes[quiz.ID].status = StatusInProgress
	return true
}

// ReviewQuiz enters the answer review, reachable only from results.
func (s *Session) ReviewQuiz() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt == nil || s.attempt.state != AttemptResults {
		return false
	}
	s.attempt.state = AttemptReviewing
	return true
}

// BackToResults leaves the review.
func (s *Session) BackToResults() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt == nil || s.attempt.state != AttemptReviewing {
		return false
	}
	s.attempt.state = AttemptResults
	return true
}

// CloseQuiz discards the active attempt. Ticks arriving afterwards are
// no-ops; an unsubmitted attempt leaves no trace in quiz state or ledger.
func (s *Session) CloseQuiz() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempt = nil
}

// QuestionReview is the per-question correctness projection shown after
// an attempt.
type QuestionReview struct {
	QuestionID        string   `json:"question_id"`
	Number            int      `json:"number"`
	Correct           bool     `json:"correct"`
	SelectedOptionIDs []string `json:"selected_option_ids"`
	CorrectOptionIDs  []string `json:"correct_option_ids"`
	Explanation       string   `json:"explanation,omitempty"`
}

// ReviewProjection exposes per-question results for the active attempt
// without mutating anything.
func (s *Session) ReviewProjection() ([]QuestionReview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.attempt
	if a == nil || a.state == AttemptTaking {
		return nil, false
	}
	quiz, _, _ := s.cat.QuizModule(a.quizID)

	reviews := make([]QuestionReview, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		selected := append([]string{}, a.answers[q.ID]...)
		reviews = append(reviews, QuestionReview{
			QuestionID:        q.ID,
			Number:            q.Number,
			Correct:           setsEqual(a.answers[q.ID], q.CorrectOptionIDs),
			SelectedOptionIDs: selected,
			CorrectOptionIDs:  append([]string{}, q.CorrectOptionIDs...),
			Explanation:       q.Explanation,
		})
	}
	return reviews, true
}

// setsEqual compares two id slices as sets: same size, same members,
// order irrelevant.
func setsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, id := range a {
		seen[id] = true
	}
	for _, id := range b {
		if !seen[id] {
			return false
		}
	}
	return true
}

func hasOption(q catalog.Question, optionID string) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
