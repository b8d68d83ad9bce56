package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yoockh/interviewiq/internal/models"
	"github.com/yoockh/interviewiq/internal/repositories"
	"github.com/yoockh/interviewiq/internal/utils"
)

const (
	msgRoleDifficultyRequired = "Please provide role and difficulty"
	msgInvalidDifficulty      = "Difficulty must be easy, medium, or hard"
	msgRoleTooLong            = "Role cannot exceed 200 characters"
	msgSessionNotFound        = "Interview session not found"
)

type action string

const (
	actionAccess action = "access"
	actionUpdate action = "update"
	actionDelete action = "delete"
)

// authorize is the single ownership check every session operation goes through.
func authorize(op string, s *models.InterviewSession, callerID string, act action) error {
	if s.OwnerID != callerID {
		return utils.E(utils.CodeForbidden, op, "Not authorized to "+string(act)+" this interview session", nil)
	}
	return nil
}

type CreateInterviewInput struct {
	Role       string
	Difficulty string
	Question   string
	UserAnswer string
	AudioURL   string
	Feedback   *models.Feedback
}

// UpdateInterviewInput lists the only fields a caller may change.
type UpdateInterviewInput struct {
	Role          *string
	Difficulty    *string
	Question      *string
	UserAnswer    *string
	AudioURL      *string
	Feedback      *models.Feedback
	ClearFeedback bool
}

type InterviewService interface {
	Create(ctx context.Context, callerID string, in CreateInterviewInput) (*models.InterviewSession, error)
	List(ctx context.Context, callerID string) ([]models.InterviewSession, error)
	Get(ctx context.Context, callerID, id string) (*models.InterviewSession, error)
	Update(ctx context.Context, callerID, id string, in UpdateInterviewInput) (*models.InterviewSession, error)
	Delete(ctx context.Context, callerID, id string) error
}

type interviewService struct {
	sessions repositories.InterviewRepository
}

func NewInterviewService(sessions repositories.InterviewRepository) InterviewService {
	return &interviewService{sessions: sessions}
}

func validateRoleDifficulty(op, role, difficulty string) (string, models.Difficulty, error) {
	role = strings.TrimSpace(role)
	if role == "" || strings.TrimSpace(difficulty) == "" {
		return "", "", utils.E(utils.CodeInvalidArgument, op, msgRoleDifficultyRequired, nil)
	}
	d := models.Difficulty(strings.TrimSpace(difficulty))
	if !d.Valid() {
		return "", "", utils.E(utils.CodeInvalidArgument, op, msgInvalidDifficulty, nil)
	}
	role, ok := models.NormalizeRole(role)
	if !ok {
		return "", "", utils.E(utils.CodeInvalidArgument, op, msgRoleTooLong, nil)
	}
	return role, d, nil
}

func (s *interviewService) Create(ctx context.Context, callerID string, in CreateInterviewInput) (*models.InterviewSession, error) {
	const op = "InterviewService.Create"

	if callerID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}
	role, d, err := validateRoleDifficulty(op, in.Role, in.Difficulty)
	if err != nil {
		return nil, err
	}

	session := &models.InterviewSession{
		OwnerID:    callerID,
		Role:       role,
		Difficulty: d,
		Question:   in.Question,
		UserAnswer: in.UserAnswer,
		AudioURL:   in.AudioURL,
	}
	if in.Feedback != nil && !in.Feedback.IsEmpty() {
		fb := *in.Feedback
		session.Feedback = &fb
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create interview session", err)
	}
	return session, nil
}

func (s *interviewService) List(ctx context.Context, callerID string) ([]models.InterviewSession, error) {
	const op = "InterviewService.List"

	if callerID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}
	out, err := s.sessions.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interview sessions", err)
	}
	if out == nil {
		out = []models.InterviewSession{}
	}
	return out, nil
}

// load fetches a session and applies the ownership check for act.
func (s *interviewService) load(ctx context.Context, op, callerID, id string, act action) (*models.InterviewSession, error) {
	if id == "" {
		return nil, utils.E(utils.CodeNotFound, op, msgSessionNotFound, nil)
	}
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, msgSessionNotFound, err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview session", err)
	}
	if err := authorize(op, session, callerID, act); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *interviewService) Get(ctx context.Context, callerID, id string) (*models.InterviewSession, error) {
	const op = "InterviewService.Get"
	return s.load(ctx, op, callerID, id, actionAccess)
}

func (s *interviewService) Update(ctx context.Context, callerID, id string, in UpdateInterviewInput) (*models.InterviewSession, error) {
	const op = "InterviewService.Update"

	current, err := s.load(ctx, op, callerID, id, actionUpdate)
	if err != nil {
		return nil, err
	}

	patch := models.SessionPatch{
		Question:   in.Question,
		UserAnswer: in.UserAnswer,
		AudioURL:   in.AudioURL,
		Feedback:   in.Feedback,
	}
	if in.ClearFeedback && in.Feedback == nil {
		patch.ClearFeedback = true
	}
	if in.Role != nil {
		role, ok := models.NormalizeRole(*in.Role)
		if role == "" {
			return nil, utils.E(utils.CodeInvalidArgument, op, "Role is required", nil)
		}
		if !ok {
			return nil, utils.E(utils.CodeInvalidArgument, op, msgRoleTooLong, nil)
		}
		patch.Role = &role
	}
	if in.Difficulty != nil {
		d := models.Difficulty(strings.TrimSpace(*in.Difficulty))
		if !d.Valid() {
			return nil, utils.E(utils.CodeInvalidArgument, op, msgInvalidDifficulty, nil)
		}
		patch.Difficulty = &d
	}

	if patch.Empty() {
		return current, nil
	}

	updated, err := s.sessions.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, msgSessionNotFound, err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update interview session", err)
	}
	return updated, nil
}

func (s *interviewService) Delete(ctx context.Context, callerID, id string) error {
	const op = "InterviewService.Delete"

	if _, err := s.load(ctx, op, callerID, id, actionDelete); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, msgSessionNotFound, err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete interview session", err)
	}
	return nil
}
