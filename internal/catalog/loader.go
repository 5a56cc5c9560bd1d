// Package catalog loads and indexes course content from YAML files.
// Content is read once at startup and never mutated; all learner state
// lives in the session package, keyed by the entity ids defined here.
package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Catalog is the immutable content tree for one course, plus the seeded
// practice-test bank and the read-only dashboard collaborator data.
type Catalog struct {
	course    Course
	modules   []Module
	qubits    QubitsBank
	dashboard Dashboard

	moduleIdx map[string]int    // module id -> index into modules
	lessonIdx map[string][2]int // lesson id -> (module index, lesson index)
	quizIdx   map[string]int    // quiz id -> module index
}

type courseFile struct {
	Course  Course   `yaml:"course"`
	Modules []Module `yaml:"modules"`
}

// Load reads course.yaml (required) plus qubits.yaml and dashboard.yaml
// (optional) from rootDir, validates them and builds the id indexes.
func Load(rootDir string) (*Catalog, error) {
	c := &Catalog{
		moduleIdx: make(map[string]int),
		lessonIdx: make(map[string][2]int),
		quizIdx:   make(map[string]int),
	}

	var cf courseFile
	if err := loadYAML(filepath.Join(rootDir, "course.yaml"), courseSchema, &cf); err != nil {
		return nil, fmt.Errorf("loading course: %w", err)
	}
	c.course = cf.Course
	c.modules = cf.Modules

	qubitsPath := filepath.Join(rootDir, "qubits.yaml")
	if _, err := os.Stat(qubitsPath); err == nil {
		if err := loadYAML(qubitsPath, qubitsSchema, &c.qubits); err != nil {
			return nil, fmt.Errorf("loading qubits bank: %w", err)
		}
	}

	dashboardPath := filepath.Join(rootDir, "dashboard.yaml")
	if _, err := os.Stat(dashboardPath); err == nil {
		if err := loadYAML(dashboardPath, "", &c.dashboard); err != nil {
			return nil, fmt.Errorf("loading dashboard data: %w", err)
		}
	}

	if err := c.buildIndexes(); err != nil {
		return nil, err
	}
	c.fillTotals()

	slog.Info("catalog loaded",
		"course", c.course.Code,
		"modules", len(c.modules),
		"lessons", c.course.TotalLessons,
		"qubits_modules", len(c.qubits.Modules),
	)
	return c, nil
}

// loadYAML decodes path into out, first validating the document against
// schema when one is given.
func loadYAML(path, schema string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if schema != "" {
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
		result, err := gojsonschema.Validate(
			gojsonschema.NewStringLoader(schema),
			gojsonschema.NewGoLoader(doc),
		)
		if err != nil {
			return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
		}
		if !result.Valid() {
			return fmt.Errorf("%s: %s", filepath.Base(path), result.Errors()[0].String())
		}
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (c *Catalog) buildIndexes() error {
	for mi, mod := range c.modules {
		if _, dup := c.moduleIdx[mod.ID]; dup {
			return fmt.Errorf("duplicate module id %q", mod.ID)
		}
		c.moduleIdx[mod.ID] = mi

		for li, les := range mod.Lessons {
			if _, dup := c.lessonIdx[les.ID]; dup {
				return fmt.Errorf("duplicate lesson id %q", les.ID)
			}
			c.lessonIdx[les.ID] = [2]int{mi, li}
		}

		if _, dup := c.quizIdx[mod.Quiz.ID]; dup {
			return fmt.Errorf("duplicate quiz id %q", mod.Quiz.ID)
		}
		c.quizIdx[mod.Quiz.ID] = mi

		for _, q := range mod.Quiz.Questions {
			if err := checkAnswerKey(q); err != nil {
				return fmt.Errorf("quiz %q question %q: %w", mod.Quiz.ID, q.ID, err)
			}
		}
	}
	return nil
}

// checkAnswerKey verifies the redundant correctness encodings agree:
// every id in correct_option_ids names an option of the question, the
// option correct flags match the id set, and single/true_false questions
// have exactly one correct answer.
func checkAnswerKey(q Question) error {
	correct := make(map[string]bool, len(q.CorrectOptionIDs))
	for _, id := range q.CorrectOptionIDs {
		correct[id] = true
	}

	found := 0
	for _, opt := range q.Options {
		if correct[opt.ID] {
			found++
		}
		if opt.Correct != correct[opt.ID] {
			return fmt.Errorf("option %q correct flag disagrees with answer key", opt.ID)
		}
	}
	if found != len(correct) {
		return fmt.Errorf("answer key references unknown option ids")
	}

	switch q.Type {
	case QuestionSingle, QuestionTrueFalse:
		if len(correct) != 1 {
			return fmt.Errorf("%s question must have exactly one correct option, has %d", q.Type, len(correct))
		}
	case QuestionMultiple:
		if len(correct) < 1 {
			return fmt.Errorf("multiple question must have at least one correct option")
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}

// fillTotals derives course totals from the module tree when the catalog
// file leaves them zero.
func (c *Catalog) fillTotals() {
	lessons, questions := 0, 0
	for _, mod := range c.modules {
		lessons += len(mod.Lessons)
		questions += len(mod.Quiz.Questions)
	}
	if c.course.TotalModules == 0 {
		c.course.TotalModules = len(c.modules)
	}
	if c.course.TotalLessons == 0 {
		c.course.TotalLessons = lessons
	}
	if c.course.TotalQuizQuestions == 0 {
		c.course.TotalQuizQuestions = questions
	}
}

// Course returns the course metadata.
func (c *Catalog) Course() Course { return c.course }

// Modules returns the ordered module list.
func (c *Catalog) Modules() []Module { return c.modules }

// Qubits returns the seeded practice-test bank.
func (c *Catalog) Qubits() QubitsBank { return c.qubits }

// DashboardData returns the read-only collaborator data.
func (c *Catalog) DashboardData() Dashboard { return c.dashboard }

// Module returns a module by id.
func (c *Catalog) Module(id string) (Module, bool) {
	mi, ok := c.moduleIdx[id]
	if !ok {
		return Module{}, false
	}
	return c.modules[mi], true
}

// LessonModule returns a lesson and its owning module.
func (c *Catalog) LessonModule(lessonID string) (Lesson, Module, bool) {
	idx, ok := c.lessonIdx[lessonID]
	if !ok {
		return Lesson{}, Module{}, false
	}
	mod := c.modules[idx[0]]
	return mod.Lessons[idx[1]], mod, true
}

// QuizModule returns a quiz and its owning module.
func (c *Catalog) QuizModule(quizID string) (Quiz, Module, bool) {
	mi, ok := c.quizIdx[quizID]
	if !ok {
		return Quiz{}, Module{}, false
	}
	return c.modules[mi].Quiz, c.modules[mi], true
}

// Question returns a question of the given quiz by id.
func (c *Catalog) Question(quizID, questionID string) (Question, bool) {
	quiz, _, ok := c.QuizModule(quizID)
	if !ok {
		return Question{}, false
	}
	for _, q := range quiz.Questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return Question{}, false
}

// NextLesson returns the lesson following lessonID within its module.
func (c *Catalog) NextLesson(lessonID string) (Lesson, bool) {
	idx, ok := c.lessonIdx[lessonID]
	if !ok {
		return Lesson{}, false
	}
	mod := c.modules[idx[0]]
	if idx[1]+1 >= len(mod.Lessons) {
		return Lesson{}, false
	}
	return mod.Lessons[idx[1]+1], true
}
