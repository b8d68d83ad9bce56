package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/interviewiq/internal/api/handlers"
	"github.com/yoockh/interviewiq/internal/api/middleware"
	"github.com/yoockh/interviewiq/internal/providers/llm"
	"github.com/yoockh/interviewiq/internal/repositories/memory"
	"github.com/yoockh/interviewiq/internal/services"
)

func init() { gin.SetMode(gin.TestMode) }

type stubLLM struct{ reply string }

func (s stubLLM) Complete(context.Context, llm.ChatRequest) (string, error) { return s.reply, nil }
func (s stubLLM) Name() string                                             { return "stub" }
func (s stubLLM) Close() error                                             { return nil }

type stubTTS struct{}

func (stubTTS) Synthesize(context.Context, string) ([]byte, error) { return []byte("ID3audio"), nil }
func (stubTTS) Name() string                                      { return "stub" }

// testAuth trusts the X-User header so tests can act as any user.
func testAuth(c *gin.Context) {
	if u := c.GetHeader("X-User"); u != "" {
		c.Set("user_id", u)
	}
	c.Next()
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
}

type sessionJSON struct {
	ID         string          `json:"id"`
	OwnerID    string          `json:"ownerId"`
	Role       string          `json:"role"`
	Difficulty string          `json:"difficulty"`
	Question   string          `json:"question"`
	UserAnswer string          `json:"userAnswer"`
	Feedback   json.RawMessage `json:"feedback"`
	AudioURL   string          `json:"audioUrl"`
	Status     string          `json:"status"`
}

func newEngine(mode handlers.AudioMode, llmReply string) *gin.Engine {
	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := memory.NewInterviewRepo()
	model := stubLLM{reply: llmReply}

	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))
	RegisterRoutes(r, Deps{
		Interview: handlers.NewInterviewHandler(services.NewInterviewService(repo)),
		AI: handlers.NewAIHandler(
			services.NewQuestionService(model, repo, log),
			services.NewFeedbackService(model, repo, log),
			services.NewSpeechService(stubTTS{}, nil, repo, log),
			services.NewTranscriptionService(nil, log),
			mode,
		),
		Auth: testAuth,
	})
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, user string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "audio/mpeg" {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: bad json %q", method, path, w.Body.String())
		}
	}
	return w, env
}

func createSession(t *testing.T, r *gin.Engine, user string) sessionJSON {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/interviews", user, map[string]any{
		"role": "Backend Developer", "difficulty": "medium", "ownerId": "someone-else",
	})
	if w.Code != http.StatusCreated || !env.Success || env.Message != "Interview session created" {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var s sessionJSON
	_ = json.Unmarshal(env.Data, &s)
	return s
}

func TestInterviewRoutes_CRUD(t *testing.T) {
	r := newEngine(handlers.AudioInline, "")

	s := createSession(t, r, "u1")
	if s.OwnerID != "u1" || s.Status != "not_started" || string(s.Feedback) != "null" {
		t.Fatalf("unexpected created session %+v", s)
	}

	w, env := do(t, r, http.MethodGet, "/api/interviews", "u1", nil)
	if w.Code != http.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}

	w, env = do(t, r, http.MethodPut, "/api/interviews/"+s.ID, "u1", map[string]any{
		"question": "Q?", "ownerId": "u2", "id": "other", "feedback": "legacy text",
	})
	if w.Code != http.StatusOK || env.Message != "Interview session updated" {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	var upd sessionJSON
	_ = json.Unmarshal(env.Data, &upd)
	if upd.OwnerID != "u1" || upd.ID != s.ID || upd.Question != "Q?" || upd.Status != "completed" {
		t.Fatalf("whitelist violated: %+v", upd)
	}

	w, env = do(t, r, http.MethodDelete, "/api/interviews/"+s.ID, "u1", nil)
	if w.Code != http.StatusOK || env.Message != "Interview session deleted" || string(env.Data) != "{}" {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	w, env = do(t, r, http.MethodDelete, "/api/interviews/"+s.ID, "u1", nil)
	if w.Code != http.StatusNotFound || env.Success || env.Message != "Interview session not found" {
		t.Fatalf("second delete: %d %s", w.Code, w.Body.String())
	}
}

func TestInterviewRoutes_Errors(t *testing.T) {
	r := newEngine(handlers.AudioInline, "")
	s := createSession(t, r, "owner")

	w, env := do(t, r, http.MethodGet, "/api/interviews/"+s.ID, "intruder", nil)
	if w.Code != http.StatusForbidden || env.Message != "Not authorized to access this interview session" {
		t.Fatalf("foreign get: %d %s", w.Code, w.Body.String())
	}
	w, _ = do(t, r, http.MethodGet, "/api/interviews/nope", "intruder", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing get: %d", w.Code)
	}
	w, env = do(t, r, http.MethodPost, "/api/interviews", "owner", map[string]any{"role": "SRE", "difficulty": "insane"})
	if w.Code != http.StatusBadRequest || env.Message != "Difficulty must be easy, medium, or hard" {
		t.Fatalf("bad difficulty: %d %s", w.Code, w.Body.String())
	}
	w, _ = do(t, r, http.MethodGet, "/api/interviews", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: %d", w.Code)
	}
}

func TestAIRoutes_GenerateQuestionWithInterviewID(t *testing.T) {
	r := newEngine(handlers.AudioInline, "Explain eventual consistency.")
	s := createSession(t, r, "u1")

	w, env := do(t, r, http.MethodPost, "/api/ai/generate-question", "u1", map[string]any{
		"role": "Backend Developer", "difficulty": "medium", "interviewId": s.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("generate: %d %s", w.Code, w.Body.String())
	}
	var out struct {
		Question   string  `json:"question"`
		Role       string  `json:"role"`
		Difficulty string  `json:"difficulty"`
		SessionID  *string `json:"sessionId"`
	}
	_ = json.Unmarshal(env.Data, &out)
	if out.Question != "Explain eventual consistency." || out.SessionID == nil || *out.SessionID != s.ID {
		t.Fatalf("unexpected payload %s", env.Data)
	}

	_, env = do(t, r, http.MethodGet, "/api/interviews/"+s.ID, "u1", nil)
	var got sessionJSON
	_ = json.Unmarshal(env.Data, &got)
	if got.Question != out.Question || got.Status != "in_progress" {
		t.Fatalf("session not updated: %+v", got)
	}
}

func TestAIRoutes_AnalyzeAnswer(t *testing.T) {
	r := newEngine(handlers.AudioInline, `{"spoken":"Good","strengths":"a","improvements":"b","suggestion":"c","overall":"d"}`)
	s := createSession(t, r, "u1")

	w, env := do(t, r, http.MethodPost, "/api/ai/analyze-answer", "u1", map[string]any{
		"question": "Q?", "userAnswer": "short", "sessionId": s.ID,
	})
	if w.Code != http.StatusBadRequest || env.Message != "Please provide a more detailed answer (at least 10 characters)" {
		t.Fatalf("short answer: %d %s", w.Code, w.Body.String())
	}

	w, env = do(t, r, http.MethodPost, "/api/ai/analyze-answer", "u1", map[string]any{
		"question": "Q?", "userAnswer": "I would profile first.", "sessionId": s.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("analyze: %d %s", w.Code, w.Body.String())
	}
	var out struct {
		Feedback struct {
			Spoken  string `json:"spoken"`
			Overall string `json:"overall"`
		} `json:"feedback"`
		SessionID *string `json:"sessionId"`
	}
	_ = json.Unmarshal(env.Data, &out)
	if out.Feedback.Spoken != "Good" || out.Feedback.Overall != "d" || out.SessionID == nil {
		t.Fatalf("unexpected payload %s", env.Data)
	}
}

func TestAIRoutes_GenerateAudioModes(t *testing.T) {
	inline := newEngine(handlers.AudioInline, "")
	w, env := do(t, inline, http.MethodPost, "/api/ai/generate-audio", "u1", map[string]any{"text": "Hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("inline: %d %s", w.Code, w.Body.String())
	}
	var out struct {
		AudioURL  string  `json:"audioUrl"`
		SessionID *string `json:"sessionId"`
	}
	_ = json.Unmarshal(env.Data, &out)
	if out.AudioURL != "data:audio/mpeg;base64,SUQzYXVkaW8=" || out.SessionID != nil {
		t.Fatalf("inline payload %s", env.Data)
	}

	binary := newEngine(handlers.AudioBinary, "")
	w, _ = do(t, binary, http.MethodPost, "/api/ai/generate-audio", "u1", map[string]any{"text": "Hello"})
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "audio/mpeg" || w.Header().Get("Content-Length") != "8" {
		t.Fatalf("binary: %d %v", w.Code, w.Header())
	}
	if w.Body.String() != "ID3audio" {
		t.Fatalf("binary body %q", w.Body.String())
	}
}

func TestAIRoutes_TranscribeDisabled(t *testing.T) {
	r := newEngine(handlers.AudioInline, "")
	w, env := do(t, r, http.MethodPost, "/api/ai/transcribe-answer", "u1", map[string]any{"audio": "UklGRg=="})
	if w.Code != http.StatusServiceUnavailable || env.Message != "Transcription service not configured" {
		t.Fatalf("transcribe: %d %s", w.Code, w.Body.String())
	}
}

func TestHealthAndPing(t *testing.T) {
	r := newEngine(handlers.AudioInline, "")
	for _, p := range []string{"/ping", "/health"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: %d", p, w.Code)
		}
	}
}
