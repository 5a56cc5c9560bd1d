package session

import (
	"math"
	"time"
)

// Progress is the aggregate learner progress snapshot handed to the
// presentation layer. CertificateEarned is derived on read, never stored.
type Progress struct {
	OverallProgress    int       `json:"overall_progress"`
	ModulesCompleted   int       `json:"modules_completed"`
	TotalModules       int       `json:"total_modules"`
	LessonsCompleted   int       `json:"lessons_completed"`
	TotalLessons       int       `json:"total_lessons"`
	QuizzesPassed      int       `json:"quizzes_passed"`
	TotalQuizzes       int       `json:"total_quizzes"`
	TimeSpentSeconds   int       `json:"time_spent_seconds"`
	AverageScore       int       `json:"average_score"`
	QuestionsAttempted int       `json:"questions_attempted"`
	QuestionsCorrect   int       `json:"questions_correct"`
	StartedAt          time.Time `json:"started_at"`
	CertificateEarned  bool      `json:"certificate_earned"`
}

// ledger holds the mutable progress counters. It is only ever touched by
// the session engine under its lock, in the same step as the lesson/quiz
// state change that produced the update.
type ledger struct {
	overallProgress    int
	modulesCompleted   int
	totalModules       int
	lessonsCompleted   int
	totalLessons       int
	quizzesPassed      int // distinct quizzes, not attempts
	totalQuizzes       int
	passedAttempts     int // every passing submit, feeds the average
	timeSpentSeconds   int
	averageScore       int
	questionsAttempted int
	questionsCorrect   int
	startedAt          time.Time
}

// onLessonCompleted records one deduplicated lesson completion.
// Callers guarantee at-most-once per lesson.
func (l *ledger) onLessonCompleted() {
	l.lessonsCompleted++
	l.overallProgress = percent(l.lessonsCompleted, l.totalLessons)
}

// onQuizPassed folds one passed attempt into the counters. Failed attempts
// never reach here: the running average covers passed attempts only.
// quizzesPassed counts each quiz once, on its first pass.
func (l *ledger) onQuizPassed(score, questionCount int, firstPass bool) {
	before := l.passedAttempts
	l.passedAttempts++
	if firstPass {
		l.quizzesPassed++
	}
	l.questionsAttempted += questionCount
	l.questionsCorrect += int(math.Round(float64(questionCount) * float64(score) / 100))
	l.averageScore = int(math.Round(
		(float64(l.averageScore)*float64(before) + float64(score)) / float64(l.passedAttempts),
	))
}

// onModuleCompleted records one deduplicated module completion.
func (l *ledger) onModuleCompleted() {
	l.modulesCompleted++
}

// addWatchTime accumulates playback time from reported position deltas.
func (l *ledger) addWatchTime(seconds int) {
	if seconds > 0 {
		l.timeSpentSeconds += seconds
	}
}

func (l *ledger) snapshot() Progress {
	return Progress{
		OverallProgress:    l.overallProgress,
		ModulesCompleted:   l.modulesCompleted,
		TotalModules:       l.totalModules,
		LessonsCompleted:   l.lessonsCompleted,
		TotalLessons:       l.totalLessons,
		QuizzesPassed:      l.quizzesPassed,
		TotalQuizzes:       l.totalQuizzes,
		TimeSpentSeconds:   l.timeSpentSeconds,
		AverageScore:       l.averageScore,
		QuestionsAttempted: l.questionsAttempted,
		QuestionsCorrect:   l.questionsCorrect,
		StartedAt:          l.startedAt,
	}
}

// percent returns round(100*n/total), or 0 for an empty total.
func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}
