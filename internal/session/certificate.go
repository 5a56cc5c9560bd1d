package session

import "github.com/vardaan97-dotcom/learnovastudent/internal/catalog"

// Eligible reports whether the learner has met every graduation gate:
// all modules completed, all quizzes passed, and an average score at or
// above the course passing score. All three are hard requirements.
func Eligible(p Progress, course catalog.Course) bool {
	return p.ModulesCompleted >= p.TotalModules &&
		p.QuizzesPassed >= p.TotalQuizzes &&
		p.AverageScore >= course.PassingScore
}
