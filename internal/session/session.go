// Package session implements the learner progress engine: lesson playback
// tracking, quiz attempts, the progress ledger and certificate gating.
//
// One Session holds the learner state for one catalog. Content stays in the
// catalog; the session keeps only status/progress records keyed by entity id.
// Every operation is a discrete serialized step behind a single mutex, and
// intents referencing unknown ids or arriving in the wrong state are silent
// no-ops so stale UI events can never fault the engine.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vardaan97-dotcom/learnovastudent/internal/catalog"
)

// Status is a learner-facing lifecycle state. Lessons and modules move
// through not_started/in_progress/completed; quizzes end in passed or
// failed; locked only ever appears in snapshots, derived from the
// all-lessons-completed gate.
type Status string

const (
	StatusLocked     Status = "locked"
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusPassed     Status = "passed"
	StatusFailed     Status = "failed"
)

type lessonState struct {
	status       Status
	progress     int // 0-100, monotonically non-decreasing
	lastPosition int // seconds
	completedAt  *time.Time
}

type quizState struct {
	status     Status
	bestScore  *int
	passedOnce bool // set on the first pass, never cleared
	attempts   []AttemptRecord
}

type moduleState struct {
	status   Status
	progress int // 0-100, pure function of lesson statuses
}

// AttemptRecord is one finished quiz attempt.
type AttemptRecord struct {
	ID             string    `json:"id"`
	QuizID         string    `json:"quiz_id"`
	Number         int       `json:"number"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	Passed         bool      `json:"passed"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Config holds dependencies for a session.
type Config struct {
	Catalog *catalog.Catalog
	Sink    EventSink        // defaults to NopSink
	Now     func() time.Time // defaults to time.Now
}

// Session is the single-learner progress engine.
type Session struct {
	mu      sync.Mutex
	cat     *catalog.Catalog
	lessons map[string]*lessonState
	quizzes map[string]*quizState
	modules map[string]*moduleState
	ledger  ledger
	attempt *attempt
	sink    EventSink
	now     func() time.Time

	certificateNotified bool
}

// New seeds a session from the catalog: every lesson, quiz and module
// starts not_started and the ledger totals come from the content tree.
func New(cfg Config) (*Session, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	sink := cfg.Sink
	if sink == nil {
		sink = NopSink{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	s := &Session{
		cat:     cfg.Catalog,
		lessons: make(map[string]*lessonState),
		quizzes: make(map[string]*quizState),
		modules: make(map[string]*moduleState),
		sink:    sink,
		now:     now,
	}

	for _, mod := range cfg.Catalog.Modules() {
		s.modules[mod.ID] = &moduleState{status: StatusNotStarted}
		s.quizzes[mod.Quiz.ID] = &quizState{status: StatusNotStarted}
		for _, les := range mod.Lessons {
			s.lessons[les.ID] = &lessonState{status: StatusNotStarted}
		}
	}

	course := cfg.Catalog.Course()
	s.ledger = ledger{
		totalModules: course.TotalModules,
		totalLessons: course.TotalLessons,
		totalQuizzes: course.TotalModules, // one quiz per module
		startedAt:    now(),
	}
	return s, nil
}

// PlayLesson marks a lesson as opened for playback. Unknown ids or a
// lesson/module mismatch are no-ops.
func (s *Session) PlayLesson(lessonID, moduleID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, mod, ok := s.cat.LessonModule(lessonID)
	if !ok || mod.ID != moduleID {
		return false
	}

	ls := s.lessons[lessonID]
	if ls.status == StatusNotStarted {
		ls.status = StatusInProgress
		s.recomputeModule(mod.ID)
	}
	return true
}

// ReportLessonProgress records a playback tick. percentWatched is clamped
// to [0,100] and the stored progress never decreases; reaching 100 fires
// the completion path exactly once.
func (s *Session) ReportLessonProgress(lessonID string, percentWatched, positionSeconds int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, mod, ok := s.cat.LessonModule(lessonID)
	if !ok {
		return false
	}

	if percentWatched < 0 {
		percentWatched = 0
	}
	if percentWatched > 100 {
		percentWatched = 100
	}

	ls := s.lessons[lessonID]
	if percentWatched > ls.progress {
		ls.progress = percentWatched
	}
	if positionSeconds > ls.lastPosition {
		s.ledger.addWatchTime(positionSeconds - ls.lastPosition)
		ls.lastPosition = positionSeconds
	}
	if ls.status == StatusNotStarted && ls.progress > 0 {
		ls.status = StatusInProgress
	}

	if ls.progress >= 100 && ls.status != StatusCompleted {
		s.completeLesson(lessonID, mod.ID)
	} else {
		s.recomputeModule(mod.ID)
	}
	return true
}

// CompleteLesson marks a lesson completed. Idempotent: a lesson that is
// already completed neither re-emits its event nor touches the ledger.
func (s *Session) CompleteLesson(lessonID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, mod, ok := s.cat.LessonModule(lessonID)
	if !ok {
		return false
	}
	if s.lessons[lessonID].status == StatusCompleted {
		return true
	}
	s.completeLesson(lessonID, mod.ID)
	return true
}

// NextLesson returns the lesson after lessonID in its module, if any.
func (s *Session) NextLesson(lessonID string) (catalog.Lesson, bool) {
	return s.cat.NextLesson(lessonID)
}

// completeLesson applies the completion, the ledger update and the event
// as one atomic step. Caller holds the lock and has checked the lesson is
// not yet completed.
func (s *Session) completeLesson(lessonID, moduleID string) {
	ls := s.lessons[lessonID]
	now := s.now()
	ls.status = StatusCompleted
	ls.progress = 100
	ls.completedAt = &now

	s.ledger.onLessonCompleted()
	s.recomputeModule(moduleID)

	s.emit(Event{
		Type:     EventLessonCompleted,
		LessonID: lessonID,
	})
	slog.Info("lesson completed",
		"lesson_id", lessonID,
		"module_id", moduleID,
		"lessons_completed", s.ledger.lessonsCompleted,
	)
}

// recomputeModule re-derives a module's progress and status from its
// lessons and quiz. Pure with respect to lesson state: calling it twice
// without a change yields the same result.
func (s *Session) recomputeModule(moduleID string) {
	mod, ok := s.cat.Module(moduleID)
	if !ok {
		return
	}
	ms := s.modules[moduleID]

	completed := 0
	started := 0
	for _, les := range mod.Lessons {
		switch s.lessons[les.ID].status {
		case StatusCompleted:
			completed++
			started++
		case StatusInProgress:
			started++
		}
	}
	ms.progress = percent(completed, len(mod.Lessons))

	qs := s.quizzes[mod.Quiz.ID]
	switch {
	case ms.status == StatusCompleted:
		// Completion is sticky: a failed retake of an already-passed quiz
		// never demotes the module or re-counts it in the ledger.
	case completed == len(mod.Lessons) && qs.status == StatusPassed:
		ms.status = StatusCompleted
		s.ledger.onModuleCompleted()
	case started > 0 || qs.status != StatusNotStarted:
		ms.status = StatusInProgress
	default:
		ms.status = StatusNotStarted
	}
}

// quizUnlocked reports the canonical quiz gate: every lesson of the owning
// module is completed. The stored quiz status is advisory; this derivation
// is what callers must trust.
func (s *Session) quizUnlocked(mod catalog.Module) bool {
	for _, les := range mod.Lessons {
		if s.lessons[les.ID].status != StatusCompleted {
			return false
		}
	}
	return true
}

// emit delivers an event while holding the session lock, keeping the state
// change and its event a single atomic step. Sink failures are logged and
// swallowed: observers must not break the engine.
func (s *Session) emit(e Event) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	if err := s.sink.Emit(e); err != nil {
		slog.Warn("event sink rejected event", "type", e.Type, "error", err)
	}
}

// checkCertificate emits CertificateEarned the first time eligibility
// flips true. Eligibility itself stays a pure derivation; only the
// once-per-session notification is remembered.
func (s *Session) checkCertificate() {
	if s.certificateNotified {
		return
	}
	if Eligible(s.ledger.snapshot(), s.cat.Course()) {
		s.certificateNotified = true
		s.emit(Event{Type: EventCertificateEarned})
		slog.Info("certificate earned", "course", s.cat.Course().Code)
	}
}
