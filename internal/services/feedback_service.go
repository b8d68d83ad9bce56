package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/interviewiq/internal/models"
	"github.com/yoockh/interviewiq/internal/providers/llm"
	"github.com/yoockh/interviewiq/internal/repositories"
	"github.com/yoockh/interviewiq/internal/utils"
)

// MinAnswerLength is the shortest answer, in characters after trimming, worth reviewing.
const MinAnswerLength = 10

const feedbackSystemPrompt = "You are an expert interview coach who provides detailed, constructive feedback on interview answers. Be encouraging but honest. You always reply with a single JSON object."

type AnalyzeAnswerInput struct {
	Question   string
	UserAnswer string
	SessionID  string
}

type AnalyzedAnswer struct {
	Feedback  models.Feedback `json:"feedback"`
	Question  string          `json:"question"`
	SessionID *string         `json:"sessionId"`
}

type FeedbackService interface {
	Analyze(ctx context.Context, callerID string, in AnalyzeAnswerInput) (*AnalyzedAnswer, error)
}

type feedbackService struct {
	llm    llm.Provider
	attach sessionAttacher
	log    logrus.FieldLogger
}

func NewFeedbackService(provider llm.Provider, sessions repositories.InterviewRepository, log logrus.FieldLogger) FeedbackService {
	return &feedbackService{
		llm:    provider,
		attach: sessionAttacher{sessions: sessions, log: log},
		log:    log,
	}
}

func buildFeedbackPrompt(question, answer string) string {
	return fmt.Sprintf(`You are an expert interview coach providing constructive feedback.

Interview Question: "%s"

Candidate's Answer: "%s"

Analyze this answer and reply with ONLY a JSON object, no markdown and no extra text, using exactly these keys:
{
  "spoken": "what you would say to the candidate out loud, natural and conversational, 15-25 seconds when read aloud",
  "strengths": "what the candidate did well",
  "improvements": "what could be better",
  "suggestion": "how to improve the answer",
  "overall": "brief overall assessment in 1-2 sentences"
}

Be specific, constructive, and encouraging. Focus on both content and communication style.`, question, answer)
}

// stripCodeFences removes a surrounding ```json ... ``` block, if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.Contains(s[:i], "{") {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if p := stringField(item); p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, "\n")
	case nil:
		return ""
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// parseFeedback turns model output into a Feedback. Output that is not a JSON
// object falls back to the raw text as both spoken and overall.
func parseFeedback(raw string) (models.Feedback, bool) {
	raw = strings.TrimSpace(raw)
	var obj map[string]any
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &obj); err == nil {
		fb := models.Feedback{
			Spoken:       stringField(obj["spoken"]),
			Strengths:    stringField(obj["strengths"]),
			Improvements: stringField(obj["improvements"]),
			Suggestion:   stringField(obj["suggestion"]),
			Overall:      stringField(obj["overall"]),
		}
		if !fb.IsEmpty() {
			return fb, true
		}
	}
	return models.Feedback{Spoken: raw, Overall: raw}, false
}

func (s *feedbackService) Analyze(ctx context.Context, callerID string, in AnalyzeAnswerInput) (*AnalyzedAnswer, error) {
	const op = "FeedbackService.Analyze"

	question := strings.TrimSpace(in.Question)
	answer := strings.TrimSpace(in.UserAnswer)
	if question == "" || answer == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Please provide both question and userAnswer", nil)
	}
	if utf8.RuneCountInString(answer) < MinAnswerLength {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Please provide a more detailed answer (at least 10 characters)", nil)
	}

	text, err := s.llm.Complete(ctx, llm.ChatRequest{
		System:      feedbackSystemPrompt,
		User:        buildFeedbackPrompt(question, answer),
		MaxTokens:   800,
		Temperature: 0.7,
	})
	if err != nil {
		logProviderFailure(s.log, op, err)
		return nil, aiFailure(op, err)
	}

	fb, structured := parseFeedback(text)
	if !structured {
		s.log.WithField("op", op).Warn("model feedback was not a JSON object, using raw text")
	}

	sessionID, err := s.attach.attach(ctx, op, callerID, strings.TrimSpace(in.SessionID), models.SessionPatch{
		UserAnswer: &in.UserAnswer,
		Feedback:   &fb,
	})
	if err != nil {
		return nil, err
	}

	return &AnalyzedAnswer{Feedback: fb, Question: in.Question, SessionID: sessionID}, nil
}
