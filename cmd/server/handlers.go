package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vardaan97-dotcom/learnovastudent/internal/catalog"
	"github.com/vardaan97-dotcom/learnovastudent/internal/qubits"
	"github.com/vardaan97-dotcom/learnovastudent/internal/report"
	"github.com/vardaan97-dotcom/learnovastudent/internal/session"
)

// app bundles the engine pieces the handlers serve.
type app struct {
	catalog  *catalog.Catalog
	session  *session.Session
	selector *qubits.Selector
	sink     *session.MemorySink
}

// newMux wires every route. Intents referencing unknown ids or invalid
// states respond 200 with the unchanged snapshot: the engine treats them
// as no-ops and so does the API.
func (a *app) newMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", handleReadyz)

	mux.HandleFunc("GET /api/course", a.handleCourse)
	mux.HandleFunc("GET /api/modules", a.handleModules)
	mux.HandleFunc("GET /api/progress", a.handleProgress)
	mux.HandleFunc("GET /api/dashboard", a.handleDashboard)
	mux.HandleFunc("GET /api/events", a.handleEvents)

	mux.HandleFunc("POST /api/lessons/{id}/play", a.handlePlayLesson)
	mux.HandleFunc("POST /api/lessons/{id}/progress", a.handleLessonProgress)
	mux.HandleFunc("POST /api/lessons/{id}/complete", a.handleCompleteLesson)
	mux.HandleFunc("GET /api/lessons/{id}/next", a.handleNextLesson)

	mux.HandleFunc("POST /api/quizzes/{id}/start", a.handleStartQuiz)
	mux.HandleFunc("GET /api/quiz", a.handleQuizView)
	mux.HandleFunc("POST /api/quiz/answer", a.handleQuizAnswer)
	mux.HandleFunc("POST /api/quiz/goto", a.handleQuizGoto)
	mux.HandleFunc("POST /api/quiz/submit", a.handleQuizSubmit)
	mux.HandleFunc("POST /api/quiz/retry", a.handleQuizRetry)
	mux.HandleFunc("POST /api/quiz/review", a.handleQuizReview)
	mux.HandleFunc("POST /api/quiz/results", a.handleQuizResults)
	mux.HandleFunc("POST /api/quiz/close", a.handleQuizClose)

	mux.HandleFunc("GET /api/qubits", a.handleQubits)
	mux.HandleFunc("POST /api/qubits/{id}/toggle", a.handleQubitsToggle)
	mux.HandleFunc("POST /api/qubits/{id}/count", a.handleQubitsCount)
	mux.HandleFunc("POST /api/qubits/select-all", a.handleQubitsSelectAll)
	mux.HandleFunc("POST /api/qubits/start", a.handleQubitsStart)
	mux.HandleFunc("POST /api/qubits/reset", a.handleQubitsReset)

	mux.HandleFunc("GET /api/report.xlsx", a.handleReport)

	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

func (a *app) handleCourse(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.catalog.Course())
}

func (a *app) handleModules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.session.ModuleSnapshots())
}

func (a *app) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.session.Progress())
}

func (a *app) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.catalog.DashboardData())
}

func (a *app) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.sink.Events())
}

func (a *app) handlePlayLesson(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ModuleID string `json:"module_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	a.session.PlayLesson(r.PathValue("id"), req.ModuleID)
	writeJSON(w, http.StatusOK, a.session.ModuleSnapshots())
}

func (a *app) handleLessonProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Percent         int `json:"percent"`
		PositionSeconds int `json:"position_seconds"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	a.session.ReportLessonProgress(r.PathValue("id"), req.Percent, req.PositionSeconds)
	writeJSON(w, http.StatusOK, a.session.Progress())
}

func (a *app) handleCompleteLesson(w http.ResponseWriter, r *http.Request) {
	a.session.CompleteLesson(r.PathValue("id"))
	writeJSON(w, http.StatusOK, a.session.Progress())
}

func (a *app) handleNextLesson(w http.ResponseWriter, r *http.Request) {
	next, ok := a.session.NextLesson(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"next": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"next": next})
}

func (a *app) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ModuleID string `json:"module_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	a.session.StartQuiz(r.PathValue("id"), req.ModuleID)
	a.writeQuizView(w)
}

func (a *app) handleQuizView(w http.ResponseWriter, r *http.Request) {
	a.writeQuizView(w)
}

func (a *app) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionID string `json:"question_id"`
		OptionID   string `json:"option_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	a.session.SelectOption(req.QuestionID, req.OptionID)
	a.writeQuizView(w)
}

func (a *app) handleQuizGoto(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	a.session.GotoQuestion(req.Index)
	a.writeQuizView(w)
}

func (a *app) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	a.session.SubmitQuiz()
	a.writeQuizView(w)
}

func (a *app) handleQuizRetry(w http.ResponseWriter, r *http.Request) {
	a.session.RetryQuiz()
	a.writeQuizView(w)
}

func (a *app) handleQuizReview(w http.ResponseWriter, r *http.Request) {
	a.session.ReviewQuiz()
	reviews, ok := a.session.ReviewProjection()
	if !ok {
		a.writeQuizView(w)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (a *app) handleQuizResults(w http.ResponseWriter, r *http.Request) {
	a.session.BackToResults()
	a.writeQuizView(w)
}

func (a *app) handleQuizClose(w http.ResponseWriter, r *http.Request) {
	a.session.CloseQuiz()
	writeJSON(w, http.StatusOK, map[string]any{"closed": true})
}

func (a *app) writeQuizView(w http.ResponseWriter) {
	view, ok := a.session.ActiveQuiz()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *app) handleQubits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"modules":   a.selector.Modules(),
		"dashboard": a.selector.Dashboard(),
	})
}

func (a *app) handleQubitsToggle(w http.ResponseWriter, r *http.Request) {
	a.selector.Toggle(r.PathValue("id"))
	writeJSON(w, http.StatusOK, a.selector.Modules())
}

func (a *app) handleQubitsCount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	a.selector.AdjustCount(r.PathValue("id"), req.Delta)
	writeJSON(w, http.StatusOK, a.selector.Modules())
}

func (a *app) handleQubitsSelectAll(w http.ResponseWriter, r *http.Request) {
	a.selector.SelectAll()
	writeJSON(w, http.StatusOK, a.selector.Modules())
}

func (a *app) handleQubitsStart(w http.ResponseWriter, r *http.Request) {
	intent, ok := a.selector.StartTest()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"started": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"started": true, "intent": intent})
}

func (a *app) handleQubitsReset(w http.ResponseWriter, r *http.Request) {
	a.selector.Reset()
	writeJSON(w, http.StatusOK, a.selector.Modules())
}

func (a *app) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="progress-report.xlsx"`)

	err := report.Write(w, report.Input{
		Course:   a.catalog.Course(),
		Profile:  a.catalog.DashboardData().Profile,
		Progress: a.session.Progress(),
		Modules:  a.session.ModuleSnapshots(),
	})
	if err != nil {
		slog.Error("failed to write report", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decodeJSON parses the request body into v; a malformed body gets a 400
// and a false return. An empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return false
	}
	return true
}
