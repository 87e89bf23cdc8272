package services

import (
	"context"
	"errors"

	"github.com/sandy0637R/AI-Interviewer-Backend/internal/models"
	mongorepo "github.com/sandy0637R/AI-Interviewer-Backend/internal/repositories/mongo"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/utils"
)

// SessionService covers session management outside the interview loop:
// listing a user's past interviews and deleting one.
type SessionService interface {
	ListByUser(ctx context.Context, userID string) ([]models.InterviewSession, error)
	Delete(ctx context.Context, userID, sessionID string) error
}

type sessionService struct {
	sessions mongorepo.SessionRepository
}

func NewSessionService(sessions mongorepo.SessionRepository) SessionService {
	return &sessionService{sessions: sessions}
}

func (s *sessionService) ListByUser(ctx context.Context, userID string) ([]models.InterviewSession, error) {
	const op = "SessionService.ListByUser"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	out, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list sessions", err)
	}
	return out, nil
}

func (s *sessionService) Delete(ctx context.Context, userID, sessionID string) error {
	const op = "SessionService.Delete"

	if userID == "" || sessionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id and session_id are required", nil)
	}

	sess, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to load session", err)
	}

	if sess.UserID == nil || *sess.UserID != userID {
		return utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete session", err)
	}
	return nil
}
