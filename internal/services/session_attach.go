package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/interviewiq/internal/models"
	"github.com/yoockh/interviewiq/internal/repositories"
	"github.com/yoockh/interviewiq/internal/utils"
)

// sessionAttacher writes AI results back onto a session the caller owns.
// A missing or foreign session is skipped, not reported.
type sessionAttacher struct {
	sessions repositories.InterviewRepository
	log      logrus.FieldLogger
}

// resolve returns the caller's session, or nil when there is nothing to attach to.
func (a sessionAttacher) resolve(ctx context.Context, op, callerID, sessionID string) (*models.InterviewSession, error) {
	if sessionID == "" {
		return nil, nil
	}

	s, err := a.sessions.GetByID(ctx, sessionID)
	if errors.Is(err, utils.ErrNotFound) {
		a.log.WithFields(logrus.Fields{"op": op, "session_id": sessionID}).Debug("session not found, result not attached")
		return nil, nil
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load interview session", err)
	}
	if authorize(op, s, callerID, actionUpdate) != nil {
		a.log.WithFields(logrus.Fields{"op": op, "session_id": sessionID}).Debug("session owned by another user, result not attached")
		return nil, nil
	}
	return s, nil
}

// write applies patch in one store update and returns the session id.
func (a sessionAttacher) write(ctx context.Context, op, sessionID string, patch models.SessionPatch) (*string, error) {
	updated, err := a.sessions.Update(ctx, sessionID, patch)
	if errors.Is(err, utils.ErrNotFound) {
		// deleted between resolve and write
		return nil, nil
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update interview session", err)
	}
	id := updated.ID
	return &id, nil
}

func (a sessionAttacher) attach(ctx context.Context, op, callerID, sessionID string, patch models.SessionPatch) (*string, error) {
	s, err := a.resolve(ctx, op, callerID, sessionID)
	if err != nil || s == nil {
		return nil, err
	}
	return a.write(ctx, op, s.ID, patch)
}
