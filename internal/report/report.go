// Package report renders a learner progress workbook. The dashboard offers
// it as the downloadable achievement summary.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vardaan97-dotcom/learnovastudent/internal/catalog"
	"github.com/vardaan97-dotcom/learnovastudent/internal/session"
)

// Input carries everything the workbook needs.
type Input struct {
	Course   catalog.Course
	Profile  catalog.LearnerProfile
	Progress session.Progress
	Modules  []session.ModuleSnapshot
}

// Write renders the XLSX workbook to w: an Overview sheet with the ledger,
// a Modules sheet with per-module state and an Attempts sheet with the
// quiz attempt log.
func Write(w io.Writer, in Input) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeOverview(f, in); err != nil {
		return err
	}
	if err := writeModules(f, in.Modules); err != nil {
		return err
	}
	if err := writeAttempts(f, in.Modules); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeOverview(f *excelize.File, in Input) error {
	const sheet = "Overview"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("renaming overview sheet: %w", err)
	}

	p := in.Progress
	rows := [][2]any{
		{"Learner", in.Profile.Name},
		{"Learner ID", in.Profile.LearnerID},
		{"Course", in.Course.Name},
		{"Course Code", in.Course.Code},
		{"Provider", in.Course.Provider},
		{"Overall Progress (%)", p.OverallProgress},
		{"Modules Completed", fmt.Sprintf("%d / %d", p.ModulesCompleted, p.TotalModules)},
		{"Lessons Completed", fmt.Sprintf("%d / %d", p.LessonsCompleted, p.TotalLessons)},
		{"Quizzes Passed", fmt.Sprintf("%d / %d", p.QuizzesPassed, p.TotalQuizzes)},
		{"Average Score (%)", p.AverageScore},
		{"Questions Attempted", p.QuestionsAttempted},
		{"Questions Correct", p.QuestionsCorrect},
		{"Time Spent", formatDuration(p.TimeSpentSeconds)},
		{"Certificate Earned", p.CertificateEarned},
		{"Started At", p.StartedAt.Format(time.RFC3339)},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &[]any{row[0], row[1]}); err != nil {
			return fmt.Errorf("writing overview row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeModules(f *excelize.File, modules []session.ModuleSnapshot) error {
	const sheet = "Modules"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating modules sheet: %w", err)
	}

	header := []any{"#", "Module", "Status", "Progress (%)", "Lessons Done", "Quiz Status", "Best Score (%)"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing modules header: %w", err)
	}

	for i, mod := range modules {
		done := 0
		for _, les := range mod.Lessons {
			if les.Status == session.StatusCompleted {
				done++
			}
		}
		best := any("")
		if mod.Quiz.BestScore != nil {
			best = *mod.Quiz.BestScore
		}
		row := []any{
			mod.Number,
			mod.Title,
			string(mod.Status),
			mod.Progress,
			fmt.Sprintf("%d / %d", done, len(mod.Lessons)),
			string(mod.Quiz.Status),
			best,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("writing module row %d: %w", i+2, err)
		}
	}
	return nil
}

func writeAttempts(f *excelize.File, modules []session.ModuleSnapshot) error {
	const sheet = "Attempts"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating attempts sheet: %w", err)
	}

	header := []any{"Quiz", "Attempt", "Score (%)", "Correct", "Result", "Completed At"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing attempts header: %w", err)
	}

	rowNum := 2
	for _, mod := range modules {
		for _, att := range mod.Quiz.Attempts {
			result := "failed"
			if att.Passed {
				result = "passed"
			}
			row := []any{
				mod.Quiz.Title,
				att.Number,
				att.Score,
				fmt.Sprintf("%d / %d", att.CorrectAnswers, att.TotalQuestions),
				result,
				att.CompletedAt.Format(time.RFC3339),
			}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowNum), &row); err != nil {
				return fmt.Errorf("writing attempt row %d: %w", rowNum, err)
			}
			rowNum++
		}
	}
	return nil
}

func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
