package session_test

import (
	"testing"

	"github.com/vardaan97-dotcom/learnovastudent/internal/catalog"
	"github.com/vardaan97-dotcom/learnovastudent/internal/session"
)

func TestEligible(t *testing.T) {
	course := catalog.Course{PassingScore: 70}
	complete := session.Progress{
		ModulesCompleted: 2, TotalModules: 2,
		QuizzesPassed: 2, TotalQuizzes: 2,
		AverageScore: 85,
	}

	tests := []struct {
		name   string
		mutate func(*session.Progress)
		want   bool
	}{
		{"all gates met", func(p *session.Progress) {}, true},
		{"average exactly at passing score", func(p *session.Progress) { p.AverageScore = 70 }, true},
		{"module missing", func(p *session.Progress) { p.ModulesCompleted = 1 }, false},
		{"quiz missing", func(p *session.Progress) { p.QuizzesPassed = 1 }, false},
		{"average below passing score", func(p *session.Progress) { p.AverageScore = 69 }, false},
		{"nothing done", func(p *session.Progress) {
			p.ModulesCompleted, p.QuizzesPassed, p.AverageScore = 0, 0, 0
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := complete
			tt.mutate(&p)
			if got := session.Eligible(p, course); got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Completing everything in a live session flips eligibility and emits the
// certificate event exactly once.
func TestCertificateEarned_OncePerSession(t *testing.T) {
	s, sink := newTestSession(t)

	completeModuleLessons(t, s, "les-1", "les-2")
	s.StartQuiz("quiz-1", "mod-1")
	answerAll(t, s, quiz1AllCorrect)
	s.SubmitQuiz()
	s.CloseQuiz()

	if s.Progress().CertificateEarned {
		t.Fatal("certificate earned with one of two modules done")
	}
	if len(sink.OfType(session.EventCertificateEarned)) != 0 {
		t.Fatal("certificate event before all gates met")
	}

	completeModuleLessons(t, s, "les-3")
	s.StartQuiz("quiz-2", "mod-2")
	answerAll(t, s, map[string][]string{
		"q-5": {"o-10"},
		"q-6": {"o-12"},
	})
	s.SubmitQuiz()

	if !s.Progress().CertificateEarned {
		t.Fatal("certificate not earned with all gates met")
	}
	if got := sink.OfType(session.EventCertificateEarned); len(got) != 1 {
		t.Fatalf("certificate events = %d, want 1", len(got))
	}

	// Passing again must not re-announce.
	s.RetryQuiz()
	answerAll(t, s, map[string][]string{
		"q-5": {"o-10"},
		"q-6": {"o-12"},
	})
	s.SubmitQuiz()
	if got := sink.OfType(session.EventCertificateEarned); len(got) != 1 {
		t.Errorf("certificate events after re-pass = %d, want 1", len(got))
	}
}
