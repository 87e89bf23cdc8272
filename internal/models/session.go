package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionStatus string

const (
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
)

// InterviewSession is the aggregate root for one candidate's run through a
// fixed-length question sequence. Mutated only by the interview service.
type InterviewSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4
	UserID    *string            `bson:"user_id,omitempty" json:"user_id,omitempty"`

	Role           string `bson:"role" json:"role"`
	TotalQuestions int    `bson:"total_questions" json:"total_questions"`

	// QuestionsAsked is both the count of questions already posed and the
	// ordinal of the question currently awaiting an answer.
	QuestionsAsked int      `bson:"questions_asked" json:"questions_asked"`
	Answers        []Answer `bson:"answers" json:"answers"`

	// LastQuestion holds the full "Qn: ..." text of the pending question and
	// is the single source of truth for repeat requests.
	LastQuestion string `bson:"last_question" json:"last_question"`

	Feedback *Feedback     `bson:"feedback,omitempty" json:"feedback,omitempty"`
	Status   SessionStatus `bson:"status" json:"status"`

	// IP backs the one-free-anonymous-interview quota; irrelevant once
	// UserID is set.
	IP string `bson:"ip" json:"-"`

	// Version is the optimistic-concurrency token checked on save.
	Version int64 `bson:"version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type Answer struct {
	QuestionNumber int    `bson:"question_number" json:"questionNumber"`
	Question       string `bson:"question" json:"question"`
	Answer         string `bson:"answer" json:"answer"`
}

type Feedback struct {
	Rating       int      `bson:"rating" json:"rating"` // 0..10
	PlusPoints   []string `bson:"plus_points" json:"plusPoints"`
	Improvements []string `bson:"improvements" json:"improvements"`
	Summary      string   `bson:"summary" json:"summary"`
}

func (s *InterviewSession) IsCompleted() bool { return s.Status == StatusCompleted }

func (s *InterviewSession) IsAnonymous() bool { return s.UserID == nil }

// AskedQuestions returns the texts of every question posed so far, in order,
// including the one currently awaiting an answer.
func (s *InterviewSession) AskedQuestions() []string {
	out := make([]string, 0, len(s.Answers)+1)
	for _, a := range s.Answers {
		out = append(out, a.Question)
	}
	if s.LastQuestion != "" {
		out = append(out, s.LastQuestion)
	}
	return out
}
