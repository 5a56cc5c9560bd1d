package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vardaan97-dotcom/learnovastudent/internal/catalog"
	"github.com/vardaan97-dotcom/learnovastudent/internal/session"
)

// Two modules: mod-1 has two lessons and a timed four-question quiz
// (one of each answer shape plus a second single); mod-2 has one lesson
// and an untimed two-question quiz.
const testCourseYAML = `course:
  id: course-1
  code: CLD-101
  name: Cloud Foundations
  provider: Learnova
  passing_score: 70
modules:
  - id: mod-1
    number: 1
    title: Getting Started
    lessons:
      - {id: les-1, number: 1, title: Welcome, type: video, duration_seconds: 300}
      - {id: les-2, number: 2, title: Core Concepts, type: video, duration_seconds: 600}
    quiz:
      id: quiz-1
      title: Module 1 Knowledge Check
      passing_score: 70
      time_limit_minutes: 1
      questions:
        - id: q-1
          number: 1
          text: Which service stores objects?
          type: single
          points: 1
          options:
            - {id: o-1, text: Object storage, correct: true}
            - {id: o-2, text: Message queue}
          correct_option_ids: [o-1]
        - id: q-2
          number: 2
          text: Select all managed services.
          type: multiple
          points: 1
          options:
            - {id: o-3, text: Managed database, correct: true}
            - {id: o-4, text: Managed cache, correct: true}
            - {id: o-5, text: Bare metal}
          correct_option_ids: [o-3, o-4]
        - id: q-3
          number: 3
          text: Regions contain zones.
          type: true_false
          points: 1
          options:
            - {id: o-6, text: "True", correct: true}
            - {id: o-7, text: "False"}
          correct_option_ids: [o-6]
        - id: q-4
          number: 4
          text: Which tier is cheapest?
          type: single
          points: 1
          options:
            - {id: o-8, text: Hot}
            - {id: o-9, text: Archive, correct: true}
          correct_option_ids: [o-9]
  - id: mod-2
    number: 2
    title: Networking
    lessons:
      - {id: les-3, number: 1, title: Virtual Networks, type: video, duration_seconds: 480}
    quiz:
      id: quiz-2
      title: Module 2 Knowledge Check
      passing_score: 70
      questions:
        - id: q-5
          number: 1
          text: Subnets live inside a network.
          type: true_false
          points: 1
          options:
            - {id: o-10, text: "True", correct: true}
            - {id: o-11, text: "False"}
          correct_option_ids: [o-10]
        - id: q-6
          number: 2
          text: Which protects instances?
          type: single
          points: 1
          options:
            - {id: o-12, text: Security group, correct: true}
            - {id: o-13, text: Load balancer}
          correct_option_ids: [o-12]
`

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "course.yaml"), []byte(testCourseYAML), 0o644); err != nil {
		t.Fatalf("writing course.yaml: %v", err)
	}
	cat, err := catalog.Load(dir)
	if err != nil {
		t.Fatalf("catalog.Load() error = %v", err)
	}
	return cat
}

func newTestSession(t *testing.T) (*session.Session, *session.MemorySink) {
	t.Helper()
	sink := session.NewMemorySink()
	s, err := session.New(session.Config{Catalog: testCatalog(t), Sink: sink})
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}
	return s, sink
}

// completeModuleLessons drives every lesson of mod-1 or mod-2 to done.
func completeModuleLessons(t *testing.T, s *session.Session, lessonIDs ...string) {
	t.Helper()
	for _, id := range lessonIDs {
		if !s.CompleteLesson(id) {
			t.Fatalf("CompleteLesson(%s) = false", id)
		}
	}
}

func moduleSnapshot(t *testing.T, s *session.Session, moduleID string) session.ModuleSnapshot {
	t.Helper()
	for _, mod := range s.ModuleSnapshots() {
		if mod.ID == moduleID {
			return mod
		}
	}
	t.Fatalf("module %s not in snapshots", moduleID)
	return session.ModuleSnapshot{}
}

func lessonSnapshot(t *testing.T, s *session.Session, lessonID string) session.LessonSnapshot {
	t.Helper()
	for _, mod := range s.ModuleSnapshots() {
		for _, les := range mod.Lessons {
			if les.ID == lessonID {
				return les
			}
		}
	}
	t.Fatalf("lesson %s not in snapshots", lessonID)
	return session.LessonSnapshot{}
}

func TestNew_RequiresCatalog(t *testing.T) {
	if _, err := session.New(session.Config{}); err == nil {
		t.Fatal("New() expected error for nil catalog")
	}
}

func TestReportLessonProgress_Monotonic(t *testing.T) {
	s, _ := newTestSession(t)

	steps := []struct {
		percent    int
		wantStatus session.Status
		wantStored int
	}{
		{0, session.StatusNotStarted, 0},
		{10, session.StatusInProgress, 10},
		{45, session.StatusInProgress, 45},
		{45, session.StatusInProgress, 45},
		{30, session.StatusInProgress, 45}, // lower report never regresses
		{99, session.StatusInProgress, 99},
	}
	for _, step := range steps {
		s.ReportLessonProgress("les-1", step.percent, step.percent*3)
		les := lessonSnapshot(t, s, "les-1")
		if les.Progress != step.wantStored {
			t.Errorf("after report(%d): progress = %d, want %d", step.percent, les.Progress, step.wantStored)
		}
		if les.Status != step.wantStatus {
			t.Errorf("after report(%d): status = %q, want %q", step.percent, les.Status, step.wantStatus)
		}
	}
}

func TestReportLessonProgress_ClampsPercent(t *testing.T) {
	s, _ := newTestSession(t)

	s.ReportLessonProgress("les-1", -5, 0)
	if les := lessonSnapshot(t, s, "les-1"); les.Progress != 0 || les.Status != session.StatusNotStarted {
		t.Errorf("after report(-5): progress = %d status = %q, want 0/not_started", les.Progress, les.Status)
	}

	s.ReportLessonProgress("les-1", 150, 300)
	if les := lessonSnapshot(t, s, "les-1"); les.Progress != 100 || les.Status != session.StatusCompleted {
		t.Errorf("after report(150): progress = %d status = %q, want 100/completed", les.Progress, les.Status)
	}
}

func TestReportLessonProgress_UnknownLesson(t *testing.T) {
	s, sink := newTestSession(t)

	if s.ReportLessonProgress("les-404", 50, 10) {
		t.Error("ReportLessonProgress(unknown) = true, want false")
	}
	if got := s.Progress().LessonsCompleted; got != 0 {
		t.Errorf("LessonsCompleted = %d, want 0", got)
	}
	if len(sink.Events()) != 0 {
		t.Errorf("len(events) = %d, want 0", len(sink.Events()))
	}
}

func TestLessonCompletion_FiresExactlyOnce(t *testing.T) {
	s, sink := newTestSession(t)

	s.ReportLessonProgress("les-1", 100, 300)
	s.ReportLessonProgress("les-1", 100, 300) // repeated report at 100
	s.CompleteLesson("les-1")                 // explicit complete after the fact

	events := sink.OfType(session.EventLessonCompleted)
	if len(events) != 1 {
		t.Fatalf("lesson_completed events = %d, want 1", len(events))
	}
	if events[0].LessonID != "les-1" {
		t.Errorf("event.LessonID = %q, want les-1", events[0].LessonID)
	}
	if got := s.Progress().LessonsCompleted; got != 1 {
		t.Errorf("LessonsCompleted = %d, want 1", got)
	}
}

func TestCompleteLesson_SetsTimestampAndProgress(t *testing.T) {
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	sink := session.NewMemorySink()
	s, err := session.New(session.Config{
		Catalog: testCatalog(t),
		Sink:    sink,
		Now:     func() time.Time { return fixed },
	})
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}

	s.CompleteLesson("les-1")

	les := lessonSnapshot(t, s, "les-1")
	if les.Progress != 100 || les.Status != session.StatusCompleted {
		t.Errorf("lesson = %d/%q, want 100/completed", les.Progress, les.Status)
	}
	if les.CompletedAt == nil || !les.CompletedAt.Equal(fixed) {
		t.Errorf("CompletedAt = %v, want %v", les.CompletedAt, fixed)
	}
}

func TestModuleProgress_RecomputeIsIdempotent(t *testing.T) {
	s, _ := newTestSession(t)

	s.CompleteLesson("les-1")
	first := moduleSnapshot(t, s, "mod-1").Progress
	if first != 50 {
		t.Fatalf("module progress = %d, want 50", first)
	}

	// Reporting a no-change tick must not move the derived value.
	s.ReportLessonProgress("les-1", 100, 300)
	if again := moduleSnapshot(t, s, "mod-1").Progress; again != first {
		t.Errorf("module progress after recompute = %d, want %d", again, first)
	}
}

func TestModuleProgress_CorrectedFormula(t *testing.T) {
	s, _ := newTestSession(t)

	// The just-completed lesson counts once, not twice: one of two
	// lessons done is exactly 50.
	s.CompleteLesson("les-2")
	if got := moduleSnapshot(t, s, "mod-1").Progress; got != 50 {
		t.Errorf("module progress = %d, want 50", got)
	}
	s.CompleteLesson("les-1")
	if got := moduleSnapshot(t, s, "mod-1").Progress; got != 100 {
		t.Errorf("module progress = %d, want 100", got)
	}
}

func TestModuleCompletion_RequiresQuizPass(t *testing.T) {
	s, _ := newTestSession(t)

	completeModuleLessons(t, s, "les-1", "les-2")
	mod := moduleSnapshot(t, s, "mod-1")
	if mod.Status == session.StatusCompleted {
		t.Error("module completed without quiz pass")
	}
	if mod.Progress != 100 {
		t.Errorf("module progress = %d, want 100", mod.Progress)
	}
	if got := s.Progress().ModulesCompleted; got != 0 {
		t.Errorf("ModulesCompleted = %d, want 0", got)
	}
}

func TestPlayLesson(t *testing.T) {
	s, _ := newTestSession(t)

	if !s.PlayLesson("les-1", "mod-1") {
		t.Fatal("PlayLesson(les-1, mod-1) = false")
	}
	if les := lessonSnapshot(t, s, "les-1"); les.Status != session.StatusInProgress {
		t.Errorf("status = %q, want in_progress", les.Status)
	}

	if s.PlayLesson("les-1", "mod-2") {
		t.Error("PlayLesson with mismatched module should be a no-op")
	}
	if s.PlayLesson("les-404", "mod-1") {
		t.Error("PlayLesson with unknown lesson should be a no-op")
	}
}

func TestPlayLesson_DoesNotRegressCompleted(t *testing.T) {
	s, _ := newTestSession(t)

	s.CompleteLesson("les-1")
	s.PlayLesson("les-1", "mod-1") // rewatching
	if les := lessonSnapshot(t, s, "les-1"); les.Status != session.StatusCompleted {
		t.Errorf("status = %q, want completed", les.Status)
	}
}

func TestWatchTimeAccumulatesFromPositionDeltas(t *testing.T) {
	s, _ := newTestSession(t)

	s.ReportLessonProgress("les-1", 10, 30)
	s.ReportLessonProgress("les-1", 20, 60)
	s.ReportLessonProgress("les-1", 20, 45) // seek backwards adds nothing

	if got := s.Progress().TimeSpentSeconds; got != 60 {
		t.Errorf("TimeSpentSeconds = %d, want 60", got)
	}
}

func TestOverallProgress(t *testing.T) {
	s, _ := newTestSession(t)

	s.CompleteLesson("les-1")
	if got := s.Progress().OverallProgress; got != 33 {
		t.Errorf("OverallProgress = %d, want 33", got)
	}
	s.CompleteLesson("les-2")
	if got := s.Progress().OverallProgress; got != 67 {
		t.Errorf("OverallProgress = %d, want 67", got)
	}
	s.CompleteLesson("les-3")
	if got := s.Progress().OverallProgress; got != 100 {
		t.Errorf("OverallProgress = %d, want 100", got)
	}
}

func TestNextLesson(t *testing.T) {
	s, _ := newTestSession(t)

	next, ok := s.NextLesson("les-1")
	if !ok || next.ID != "les-2" {
		t.Errorf("NextLesson(les-1) = (%q, %v), want (les-2, true)", next.ID, ok)
	}
	if _, ok := s.NextLesson("les-3"); ok {
		t.Error("NextLesson(les-3) = true, want false at module end")
	}
}
