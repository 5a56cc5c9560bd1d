package catalog

// QuestionType classifies how a quiz question is answered.
type QuestionType string

const (
	QuestionSingle    QuestionType = "single"
	QuestionMultiple  QuestionType = "multiple"
	QuestionTrueFalse QuestionType = "true_false"
)

// LessonType classifies the media backing a lesson.
type LessonType string

const (
	LessonVideo       LessonType = "video"
	LessonDocument    LessonType = "document"
	LessonInteractive LessonType = "interactive"
)

// Course describes a single course. Immutable for the life of a session.
type Course struct {
	ID                 string       `yaml:"id" json:"id"`
	Code               string       `yaml:"code" json:"code"`
	Name               string       `yaml:"name" json:"name"`
	Provider           string       `yaml:"provider" json:"provider"`
	Description        string       `yaml:"description" json:"description"`
	TotalDuration      string       `yaml:"total_duration" json:"total_duration"`
	TotalModules       int          `yaml:"total_modules" json:"total_modules"`
	TotalLessons       int          `yaml:"total_lessons" json:"total_lessons"`
	TotalQuizQuestions int          `yaml:"total_quiz_questions" json:"total_quiz_questions"`
	PassingScore       int          `yaml:"passing_score" json:"passing_score"`
	ExamVoucher        *ExamVoucher `yaml:"exam_voucher,omitempty" json:"exam_voucher,omitempty"`
}

// ExamVoucher is an optional certification exam voucher bundled with a course.
type ExamVoucher struct {
	Code       string `yaml:"code" json:"code"`
	ExamName   string `yaml:"exam_name" json:"exam_name"`
	ExpiryDate string `yaml:"expiry_date" json:"expiry_date"`
}

// Module is a graded unit of content: ordered lessons plus one quiz.
type Module struct {
	ID       string   `yaml:"id" json:"id"`
	Number   int      `yaml:"number" json:"number"`
	Title    string   `yaml:"title" json:"title"`
	Duration string   `yaml:"duration" json:"duration"`
	Lessons  []Lesson `yaml:"lessons" json:"lessons"`
	Quiz     Quiz     `yaml:"quiz" json:"quiz"`
}

// Lesson is a single watchable content unit within a module.
type Lesson struct {
	ID              string     `yaml:"id" json:"id"`
	Number          int        `yaml:"number" json:"number"`
	Title           string     `yaml:"title" json:"title"`
	Type            LessonType `yaml:"type" json:"type"`
	DurationSeconds int        `yaml:"duration_seconds" json:"duration_seconds"`
	VideoURL        string     `yaml:"video_url,omitempty" json:"video_url,omitempty"`
}

// Quiz is the knowledge check gating module completion.
type Quiz struct {
	ID               string     `yaml:"id" json:"id"`
	Title            string     `yaml:"title" json:"title"`
	PassingScore     int        `yaml:"passing_score" json:"passing_score"`
	TimeLimitMinutes int        `yaml:"time_limit_minutes,omitempty" json:"time_limit_minutes,omitempty"`
	Questions        []Question `yaml:"questions" json:"questions"`
}

// Question is one quiz question with its answer key.
type Question struct {
	ID               string       `yaml:"id" json:"id"`
	Number           int          `yaml:"number" json:"number"`
	Text             string       `yaml:"text" json:"text"`
	Type             QuestionType `yaml:"type" json:"type"`
	Options          []Option     `yaml:"options" json:"options"`
	CorrectOptionIDs []string     `yaml:"correct_option_ids" json:"correct_option_ids"`
	Explanation      string       `yaml:"explanation,omitempty" json:"explanation,omitempty"`
	Points           int          `yaml:"points" json:"points"`
}

// Option is a selectable answer. Correct must agree with the owning
// question's correct_option_ids; the loader rejects mismatches.
type Option struct {
	ID      string `yaml:"id" json:"id"`
	Text    string `yaml:"text" json:"text"`
	Correct bool   `yaml:"correct" json:"correct"`
}

// QubitsModule is a practice-test topic bank, disjoint from certification.
type QubitsModule struct {
	ID                 string `yaml:"id" json:"id"`
	Title              string `yaml:"title" json:"title"`
	Subtitle           string `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	TotalQuestions     int    `yaml:"total_questions" json:"total_questions"`
	AttemptedQuestions int    `yaml:"attempted_questions" json:"attempted_questions"`
	CorrectAnswers     int    `yaml:"correct_answers" json:"correct_answers"`
	QuestionsToAttempt int    `yaml:"questions_to_attempt" json:"questions_to_attempt"`
	Selected           bool   `yaml:"selected" json:"selected"`
}

// QubitsBank holds the seeded practice-test state.
type QubitsBank struct {
	Modules   []QubitsModule  `yaml:"modules" json:"modules"`
	Dashboard QubitsDashboard `yaml:"dashboard" json:"dashboard"`
}

// QubitsDashboard is the seeded practice rollup.
type QubitsDashboard struct {
	Streak           int    `yaml:"streak" json:"streak"`
	TimeSpent        string `yaml:"time_spent" json:"time_spent"`
	LastPracticeDate string `yaml:"last_practice_date" json:"last_practice_date"`
}

// LearnerProfile identifies the learner shown in the dashboard header.
type LearnerProfile struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	Email        string `yaml:"email" json:"email"`
	LearnerID    string `yaml:"learner_id" json:"learner_id"`
	EnrolledDate string `yaml:"enrolled_date" json:"enrolled_date"`
	Organization string `yaml:"organization,omitempty" json:"organization,omitempty"`
}

// Trainer is the support contact for the course.
type Trainer struct {
	ID             string  `yaml:"id" json:"id"`
	Name           string  `yaml:"name" json:"name"`
	Email          string  `yaml:"email" json:"email"`
	Phone          string  `yaml:"phone,omitempty" json:"phone,omitempty"`
	Specialization string  `yaml:"specialization" json:"specialization"`
	Rating         float64 `yaml:"rating" json:"rating"`
	ResponseTime   string  `yaml:"response_time" json:"response_time"`
}

// Resource is a downloadable or linked study aid.
type Resource struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Type        string `yaml:"type" json:"type"`
	URL         string `yaml:"url" json:"url"`
	Size        string `yaml:"size,omitempty" json:"size,omitempty"`
	New         bool   `yaml:"new,omitempty" json:"new,omitempty"`
}

// Notification is one entry in the read-only notification feed.
type Notification struct {
	ID        string `yaml:"id" json:"id"`
	Type      string `yaml:"type" json:"type"`
	Title     string `yaml:"title" json:"title"`
	Message   string `yaml:"message" json:"message"`
	Timestamp string `yaml:"timestamp" json:"timestamp"`
	Read      bool   `yaml:"read" json:"read"`
}

// Dashboard bundles the read-only collaborator data served alongside the
// course: learner profile, trainer, resources and notifications.
type Dashboard struct {
	Profile       LearnerProfile `yaml:"profile" json:"profile"`
	Trainer       Trainer        `yaml:"trainer" json:"trainer"`
	Resources     []Resource     `yaml:"resources" json:"resources"`
	Notifications []Notification `yaml:"notifications" json:"notifications"`
}
