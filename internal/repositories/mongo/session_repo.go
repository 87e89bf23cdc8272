package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/sandy0637R/AI-Interviewer-Backend/internal/models"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepository interface {
	Create(ctx context.Context, s *models.InterviewSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	// FindAnonymousByIP returns any anonymous session created from the given
	// address, or utils.ErrNotFound. Used for the free-interview quota check.
	FindAnonymousByIP(ctx context.Context, ip string) (*models.InterviewSession, error)
	// Update replaces the stored document iff the in-memory version matches;
	// a stale version fails with utils.ErrConflict.
	Update(ctx context.Context, s *models.InterviewSession) error
	ListByUser(ctx context.Context, userID string) ([]models.InterviewSession, error)
	Delete(ctx context.Context, sessionID string) error
}

type sessionRepo struct {
	col *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepository {
	return &sessionRepo{col: db.Collection("interview_sessions")}
}

func (r *sessionRepo) Create(ctx context.Context, s *models.InterviewSession) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	if s.Version == 0 {
		s.Version = 1
	}
	_, err := r.col.InsertOne(ctx, s)
	if mongo.IsDuplicateKeyError(err) {
		// the partial unique index on (ip, user_id absent) enforces the
		// anonymous quota at insert time
		return utils.ErrConflict
	}
	return err
}

func (r *sessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	var s models.InterviewSession
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *sessionRepo) FindAnonymousByIP(ctx context.Context, ip string) (*models.InterviewSession, error) {
	var s models.InterviewSession
	err := r.col.FindOne(ctx, bson.M{"ip": ip, "user_id": nil}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *sessionRepo) Update(ctx context.Context, s *models.InterviewSession) error {
	expected := s.Version
	s.Version = expected + 1
	s.UpdatedAt = time.Now().UTC()

	res, err := r.col.ReplaceOne(ctx,
		bson.M{"session_id": s.SessionID, "version": expected},
		s,
	)
	if err != nil {
		s.Version = expected
		return err
	}
	if res.MatchedCount == 0 {
		s.Version = expected
		// distinguish a missing document from a stale write
		if _, gerr := r.GetBySessionID(ctx, s.SessionID); errors.Is(gerr, utils.ErrNotFound) {
			return utils.ErrNotFound
		}
		return utils.ErrConflict
	}
	return nil
}

func (r *sessionRepo) ListByUser(ctx context.Context, userID string) ([]models.InterviewSession, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.InterviewSession
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRepo) Delete(ctx context.Context, sessionID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
