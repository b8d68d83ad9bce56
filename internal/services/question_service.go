package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/interviewiq/internal/models"
	"github.com/yoockh/interviewiq/internal/providers/llm"
	"github.com/yoockh/interviewiq/internal/repositories"
	"github.com/yoockh/interviewiq/internal/utils"
)

const questionSystemPrompt = "You are an expert technical interviewer who creates realistic, role-specific interview questions."

type GenerateQuestionInput struct {
	Role       string
	Difficulty string
	SessionID  string
	// ResetAnswer clears the previous answer, feedback and audio in the
	// same write that stores the new question.
	ResetAnswer bool
}

type GeneratedQuestion struct {
	Question   string            `json:"question"`
	Role       string            `json:"role"`
	Difficulty models.Difficulty `json:"difficulty"`
	SessionID  *string           `json:"sessionId"`
}

type QuestionService interface {
	Generate(ctx context.Context, callerID string, in GenerateQuestionInput) (*GeneratedQuestion, error)
}

type questionService struct {
	llm    llm.Provider
	attach sessionAttacher
	log    logrus.FieldLogger
}

func NewQuestionService(provider llm.Provider, sessions repositories.InterviewRepository, log logrus.FieldLogger) QuestionService {
	return &questionService{
		llm:    provider,
		attach: sessionAttacher{sessions: sessions, log: log},
		log:    log,
	}
}

func buildQuestionPrompt(role string, d models.Difficulty) string {
	return fmt.Sprintf(`You are an expert technical interviewer. Generate a single, realistic interview question for a %s position.
The difficulty level should be %s (%s).

Requirements:
- The question should be specific and practical
- It should test relevant skills for the role
- Include any necessary context or scenario
- Do not include the answer

Return ONLY the interview question, nothing else.`, role, d, d.Description())
}

func (s *questionService) Generate(ctx context.Context, callerID string, in GenerateQuestionInput) (*GeneratedQuestion, error) {
	const op = "QuestionService.Generate"

	role, d, err := validateRoleDifficulty(op, in.Role, in.Difficulty)
	if err != nil {
		return nil, err
	}

	text, err := s.llm.Complete(ctx, llm.ChatRequest{
		System:      questionSystemPrompt,
		User:        buildQuestionPrompt(role, d),
		MaxTokens:   500,
		Temperature: 0.8,
	})
	if err != nil {
		logProviderFailure(s.log, op, err)
		return nil, aiFailure(op, err)
	}
	question := strings.TrimSpace(text)
	if question == "" {
		return nil, utils.E(utils.CodeInternal, op, "empty question from model", nil)
	}

	patch := models.SessionPatch{Question: &question}
	if in.ResetAnswer {
		empty := ""
		patch.UserAnswer = &empty
		patch.AudioURL = &empty
		patch.ClearFeedback = true
	}
	sessionID, err := s.attach.attach(ctx, op, callerID, strings.TrimSpace(in.SessionID), patch)
	if err != nil {
		return nil, err
	}

	return &GeneratedQuestion{
		Question:   question,
		Role:       role,
		Difficulty: d,
		SessionID:  sessionID,
	}, nil
}
