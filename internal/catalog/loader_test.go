package catalog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vardaan97-dotcom/learnovastudent/internal/catalog"
)

const testCourseYAML = `course:
  id: course-1
  code: CLD-101
  name: Cloud Foundations
  provider: Learnova
  description: Intro cloud course.
  total_duration: 6h
  passing_score: 70
modules:
  - id: mod-1
    number: 1
    title: Getting Started
    duration: 2h
    lessons:
      - id: les-1
        number: 1
        title: Welcome
        type: video
        duration_seconds: 300
      - id: les-2
        number: 2
        title: Core Concepts
        type: video
        duration_seconds: 600
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
    duration: 2h
    lessons:
      - id: les-3
        number: 1
        title: Virtual Networks
        type: video
        duration_seconds: 480
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

const testQubitsYAML = `modules:
  - id: qb-1
    title: Storage
    total_questions: 50
    attempted_questions: 20
    correct_answers: 16
    questions_to_attempt: 10
  - id: qb-2
    title: Networking
    total_questions: 40
    attempted_questions: 0
    correct_answers: 0
    questions_to_attempt: 10
    selected: true
dashboard:
  streak: 4
  time_spent: 3h 20m
  last_practice_date: "2026-08-20"
`

func setupTestCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "course.yaml"), testCourseYAML)
	writeFile(t, filepath.Join(dir, "qubits.yaml"), testQubitsYAML)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestLoad(t *testing.T) {
	cat, err := catalog.Load(setupTestCatalog(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	course := cat.Course()
	if course.Code != "CLD-101" {
		t.Errorf("Course.Code = %q, want CLD-101", course.Code)
	}
	if len(cat.Modules()) != 2 {
		t.Fatalf("len(Modules()) = %d, want 2", len(cat.Modules()))
	}
	if len(cat.Qubits().Modules) != 2 {
		t.Errorf("len(Qubits().Modules) = %d, want 2", len(cat.Qubits().Modules))
	}
}

func TestLoad_FillsTotals(t *testing.T) {
	cat, err := catalog.Load(setupTestCatalog(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	course := cat.Course()
	if course.TotalModules != 2 {
		t.Errorf("TotalModules = %d, want 2", course.TotalModules)
	}
	if course.TotalLessons != 3 {
		t.Errorf("TotalLessons = %d, want 3", course.TotalLessons)
	}
	if course.TotalQuizQuestions != 6 {
		t.Errorf("TotalQuizQuestions = %d, want 6", course.TotalQuizQuestions)
	}
}

func TestLoad_MissingCourseFile(t *testing.T) {
	_, err := catalog.Load(t.TempDir())
	if err == nil {
		t.Fatal("Load() expected error for missing course.yaml")
	}
}

func TestLoad_SchemaRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		mangle  func(string) string
		wantSub string
	}{
		{
			name:    "missing passing score",
			mangle:  func(s string) string { return strings.Replace(s, "  passing_score: 70\nmodules:", "modules:", 1) },
			wantSub: "passing_score",
		},
		{
			name:    "empty modules",
			mangle:  func(s string) string { return strings.SplitN(s, "modules:", 2)[0] + "modules: []\n" },
			wantSub: "modules",
		},
		{
			name:    "bad question type",
			mangle:  func(s string) string { return strings.Replace(s, "type: true_false", "type: essay", 1) },
			wantSub: "type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "course.yaml"), tt.mangle(testCourseYAML))

			_, err := catalog.Load(dir)
			if err == nil {
				t.Fatal("Load() expected schema error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %q, want mention of %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoad_RejectsInconsistentAnswerKey(t *testing.T) {
	// Flip an option's correct flag without touching correct_option_ids.
	mangled := strings.Replace(testCourseYAML,
		"{id: o-1, text: Object storage, correct: true}",
		"{id: o-1, text: Object storage}", 1)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "course.yaml"), mangled)

	_, err := catalog.Load(dir)
	if err == nil {
		t.Fatal("Load() expected answer key mismatch error")
	}
	if !strings.Contains(err.Error(), "correct flag") {
		t.Errorf("error = %q, want correct flag mismatch", err)
	}
}

func TestLoad_RejectsDuplicateLessonID(t *testing.T) {
	mangled := strings.Replace(testCourseYAML, "id: les-3", "id: les-1", 1)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "course.yaml"), mangled)

	_, err := catalog.Load(dir)
	if err == nil {
		t.Fatal("Load() expected duplicate id error")
	}
}

func TestCatalog_Lookups(t *testing.T) {
	cat, err := catalog.Load(setupTestCatalog(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	les, mod, ok := cat.LessonModule("les-2")
	if !ok {
		t.Fatal("LessonModule(les-2) not found")
	}
	if les.Title != "Core Concepts" || mod.ID != "mod-1" {
		t.Errorf("LessonModule(les-2) = (%q, %q), want (Core Concepts, mod-1)", les.Title, mod.ID)
	}

	quiz, mod, ok := cat.QuizModule("quiz-2")
	if !ok || mod.ID != "mod-2" || len(quiz.Questions) != 2 {
		t.Errorf("QuizModule(quiz-2) = (%d questions, %q, %v)", len(quiz.Questions), mod.ID, ok)
	}

	if _, ok := cat.Question("quiz-1", "q-2"); !ok {
		t.Error("Question(quiz-1, q-2) not found")
	}
	if _, ok := cat.Question("quiz-1", "q-5"); ok {
		t.Error("Question(quiz-1, q-5) should not resolve across quizzes")
	}

	if _, _, ok := cat.LessonModule("nope"); ok {
		t.Error("LessonModule(nope) should not be found")
	}
}

func TestCatalog_NextLesson(t *testing.T) {
	cat, err := catalog.Load(setupTestCatalog(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	next, ok := cat.NextLesson("les-1")
	if !ok || next.ID != "les-2" {
		t.Errorf("NextLesson(les-1) = (%q, %v), want (les-2, true)", next.ID, ok)
	}
	if _, ok := cat.NextLesson("les-2"); ok {
		t.Error("NextLesson(les-2) should be false at end of module")
	}
	if _, ok := cat.NextLesson("les-3"); ok {
		t.Error("NextLesson(les-3) should not cross modules")
	}
}
