package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/models"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/services"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/utils"
)

type stubInterviewService struct {
	startOut  *services.StartResult
	startErr  error
	answerOut *services.AnswerResult
	answerErr error
	resumeOut *models.InterviewSession
	resumeErr error

	lastStart services.StartInput
}

func (s *stubInterviewService) Start(_ context.Context, in services.StartInput) (*services.StartResult, error) {
	s.lastStart = in
	return s.startOut, s.startErr
}

func (s *stubInterviewService) SubmitAnswer(_ context.Context, _, _ string) (*services.AnswerResult, error) {
	return s.answerOut, s.answerErr
}

func (s *stubInterviewService) Resume(_ context.Context, _ string) (*models.InterviewSession, error) {
	return s.resumeOut, s.resumeErr
}

func newTestRouter(svc services.InterviewService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewInterviewHandler(svc)
	r.POST("/interview/start", h.Start)
	r.POST("/interview/next", h.Next)
	r.POST("/interview/resume", h.Resume)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	return out
}

func TestStartMissingTotalQuestions(t *testing.T) {
	r := newTestRouter(&stubInterviewService{})

	w := doJSON(t, r, "/interview/start", map[string]any{"role": "Tester"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decode(t, w)
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body)
	}
}

func TestStartQuotaExceeded(t *testing.T) {
	svc := &stubInterviewService{
		startErr: utils.E(utils.CodeQuotaExceeded, "InterviewService.Start", "anonymous interview already used for this address", nil),
	}
	r := newTestRouter(svc)

	w := doJSON(t, r, "/interview/start", map[string]any{"role": "Tester", "totalQuestions": 3})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestStartSuccessShape(t *testing.T) {
	svc := &stubInterviewService{
		startOut: &services.StartResult{SessionID: "abc", QuestionNumber: 1, Question: "Q1: Hello"},
	}
	r := newTestRouter(svc)

	w := doJSON(t, r, "/interview/start", map[string]any{"role": "Tester", "totalQuestions": 3})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decode(t, w)
	if body["success"] != true || body["sessionId"] != "abc" || body["questionNumber"] != float64(1) || body["question"] != "Q1: Hello" {
		t.Fatalf("unexpected body %v", body)
	}
	if svc.lastStart.UserID != nil {
		t.Fatalf("anonymous start must pass nil userID")
	}
}

func TestStartPassesBodyUserID(t *testing.T) {
	svc := &stubInterviewService{startOut: &services.StartResult{SessionID: "abc", QuestionNumber: 1, Question: "Q1: Hello"}}
	r := newTestRouter(svc)

	doJSON(t, r, "/interview/start", map[string]any{"role": "Tester", "totalQuestions": 3, "userId": "u-9"})
	if svc.lastStart.UserID == nil || *svc.lastStart.UserID != "u-9" {
		t.Fatalf("body userId not forwarded: %+v", svc.lastStart)
	}

	anon := true
	doJSON(t, r, "/interview/start", map[string]any{"role": "Tester", "totalQuestions": 3, "userId": "u-9", "isAnonymous": anon})
	if svc.lastStart.UserID != nil {
		t.Fatalf("isAnonymous must drop the body userId")
	}
}

func TestNextResponseShapes(t *testing.T) {
	cases := []struct {
		name string
		out  *services.AnswerResult
		want map[string]any
	}{
		{
			name: "repeat",
			out:  &services.AnswerResult{Repeat: true, QuestionNumber: 2, Question: "Q2: again"},
			want: map[string]any{"success": true, "repeat": true, "questionNumber": float64(2), "question": "Q2: again"},
		},
		{
			name: "askAgain",
			out:  &services.AnswerResult{AskAgain: true, QuestionNumber: 2},
			want: map[string]any{"success": false, "askAgain": true},
		},
		{
			name: "completed",
			out:  &services.AnswerResult{Completed: true, Feedback: &models.Feedback{Rating: 6, Summary: "ok", PlusPoints: []string{}, Improvements: []string{}}},
			want: map[string]any{"success": true, "completed": true},
		},
		{
			name: "continue",
			out:  &services.AnswerResult{QuestionNumber: 3, Question: "Q3: next"},
			want: map[string]any{"success": true, "questionNumber": float64(3), "question": "Q3: next"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newTestRouter(&stubInterviewService{answerOut: c.out})
			w := doJSON(t, r, "/interview/next", map[string]any{"sessionId": "abc", "answer": "hello there"})
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			body := decode(t, w)
			for k, v := range c.want {
				if body[k] != v {
					t.Errorf("body[%q] = %v, want %v", k, body[k], v)
				}
			}
		})
	}
}

func TestNextUnknownSession(t *testing.T) {
	svc := &stubInterviewService{
		answerErr: utils.E(utils.CodeNotFound, "InterviewService.SubmitAnswer", "session not found", nil),
	}
	r := newTestRouter(svc)

	w := doJSON(t, r, "/interview/next", map[string]any{"sessionId": "nope", "answer": "hello there"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestResumeSnapshot(t *testing.T) {
	svc := &stubInterviewService{
		resumeOut: &models.InterviewSession{
			SessionID:      "abc",
			Role:           "Tester",
			TotalQuestions: 3,
			QuestionsAsked: 2,
			LastQuestion:   "Q2: next",
			Status:         models.StatusInProgress,
		},
	}
	r := newTestRouter(svc)

	w := doJSON(t, r, "/interview/resume", map[string]any{"sessionId": "abc"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decode(t, w)
	sess, ok := body["session"].(map[string]any)
	if !ok {
		t.Fatalf("missing session object in %v", body)
	}
	if sess["last_question"] != "Q2: next" || sess["isCompleted"] != false || sess["status"] != "in_progress" {
		t.Fatalf("unexpected snapshot %v", sess)
	}
}

func TestResumeUnknownSession(t *testing.T) {
	svc := &stubInterviewService{
		resumeErr: utils.E(utils.CodeNotFound, "InterviewService.Resume", "session not found", nil),
	}
	r := newTestRouter(svc)

	w := doJSON(t, r, "/interview/resume", map[string]any{"sessionId": "nope"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
