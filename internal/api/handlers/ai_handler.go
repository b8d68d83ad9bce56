package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/interviewiq/internal/services"
	"github.com/yoockh/interviewiq/internal/utils"
)

// AudioMode selects how generate-audio returns the synthesized bytes.
type AudioMode string

const (
	AudioInline AudioMode = "inline" // base64 data URI inside the envelope
	AudioBinary AudioMode = "binary" // raw audio/mpeg body
)

type AIHandler struct {
	questions     services.QuestionService
	feedback      services.FeedbackService
	speech        services.SpeechService
	transcription services.TranscriptionService
	audioMode     AudioMode
}

func NewAIHandler(q services.QuestionService, f services.FeedbackService, s services.SpeechService, t services.TranscriptionService, mode AudioMode) *AIHandler {
	if mode == "" {
		mode = AudioInline
	}
	return &AIHandler{questions: q, feedback: f, speech: s, transcription: t, audioMode: mode}
}

// sessionRef accepts both spellings of the session reference.
type sessionRef struct {
	SessionID   string `json:"sessionId"`
	InterviewID string `json:"interviewId"`
}

func (r sessionRef) id() string { return firstNonEmpty(r.SessionID, r.InterviewID) }

type GenerateQuestionRequest struct {
	sessionRef
	Role        string `json:"role"`
	Difficulty  string `json:"difficulty"`
	ResetAnswer bool   `json:"resetAnswer"`
}

type AnalyzeAnswerRequest struct {
	sessionRef
	Question   string `json:"question"`
	UserAnswer string `json:"userAnswer"`
}

type GenerateAudioRequest struct {
	sessionRef
	Text string `json:"text"`
}

type TranscribeAnswerRequest struct {
	Audio    string `json:"audio"`
	Language string `json:"language"`
}

type audioPayload struct {
	AudioURL  string  `json:"audioUrl"`
	SessionID *string `json:"sessionId"`
}

func bindJSON(c *gin.Context, op string, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "Invalid request body", err))
		return false
	}
	return true
}

func (h *AIHandler) GenerateQuestion(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req GenerateQuestionRequest
	if !bindJSON(c, "AIHandler.GenerateQuestion", &req) {
		return
	}

	out, err := h.questions.Generate(c.Request.Context(), userID, services.GenerateQuestionInput{
		Role:        req.Role,
		Difficulty:  req.Difficulty,
		SessionID:   req.id(),
		ResetAnswer: req.ResetAnswer,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "", out)
}

func (h *AIHandler) AnalyzeAnswer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req AnalyzeAnswerRequest
	if !bindJSON(c, "AIHandler.AnalyzeAnswer", &req) {
		return
	}

	out, err := h.feedback.Analyze(c.Request.Context(), userID, services.AnalyzeAnswerInput{
		Question:   req.Question,
		UserAnswer: req.UserAnswer,
		SessionID:  req.id(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "", out)
}

func (h *AIHandler) GenerateAudio(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req GenerateAudioRequest
	if !bindJSON(c, "AIHandler.GenerateAudio", &req) {
		return
	}

	out, err := h.speech.Synthesize(c.Request.Context(), userID, services.SynthesizeInput{
		Text:      req.Text,
		SessionID: req.id(),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	if h.audioMode == AudioBinary {
		if out.SessionID != nil {
			c.Header("X-Session-Id", *out.SessionID)
		}
		c.Header("Content-Length", strconv.Itoa(len(out.Audio)))
		c.Data(http.StatusOK, out.ContentType, out.Audio)
		return
	}
	writeOK(c, http.StatusOK, "", audioPayload{AudioURL: out.DataURI(), SessionID: out.SessionID})
}

func (h *AIHandler) TranscribeAnswer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req TranscribeAnswerRequest
	if !bindJSON(c, "AIHandler.TranscribeAnswer", &req) {
		return
	}

	out, err := h.transcription.Transcribe(c.Request.Context(), userID, services.TranscribeInput{
		Audio:    req.Audio,
		Language: req.Language,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "", out)
}
