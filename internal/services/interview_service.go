package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/sandy0637R/AI-Interviewer-Backend/internal/cache"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/models"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/providers/interview"
	mongorepo "github.com/sandy0637R/AI-Interviewer-Backend/internal/repositories/mongo"
	pgrepo "github.com/sandy0637R/AI-Interviewer-Backend/internal/repositories/postgres"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/utils"
)

const (
	defaultCallTimeout = 20 * time.Second
	snapshotTTL        = 30 * time.Second

	fallbackGreeting = "Welcome! To get us started, tell me about yourself and why you are interested in this role."
	fallbackQuestion = "Describe a challenging problem you worked on recently and how you approached it."
	fallbackFeedback = "The interview is complete. Detailed feedback is temporarily unavailable; please check back later."
)

// Phrases that make an answer a repeat request. Matched case-folded,
// substring.
var repeatPhrases = []string{
	"repeat",
	"say that again",
	"say again",
	"come again",
	"once more",
	"pardon",
	"didn't understand",
	"didnt understand",
	"did not understand",
	"didn't catch",
	"didnt catch",
	"what was the question",
}

// Phrases that let the candidate pass the relevance gate without a
// classifier call. Scoring consequences are the feedback generator's concern.
var dontKnowPhrases = []string{
	"don't know",
	"dont know",
	"do not know",
	"no idea",
	"not sure",
	"can't answer",
	"cant answer",
	"cannot answer",
	"skip this",
}

type StartInput struct {
	Role           string
	TotalQuestions int
	UserID         *string
	IP             string
}

type StartResult struct {
	SessionID      string
	QuestionNumber int
	Question       string
}

// AnswerResult carries exactly one of the four submitAnswer outcomes:
// repeat echo, ask-again rejection, completion with feedback, or the next
// question.
type AnswerResult struct {
	Repeat         bool
	AskAgain       bool
	Completed      bool
	QuestionNumber int
	Question       string
	Feedback       *models.Feedback
}

type InterviewService interface {
	Start(ctx context.Context, in StartInput) (*StartResult, error)
	SubmitAnswer(ctx context.Context, sessionID, answer string) (*AnswerResult, error)
	Resume(ctx context.Context, sessionID string) (*models.InterviewSession, error)
}

type interviewService struct {
	sessions   mongorepo.SessionRepository
	questions  interview.QuestionGenerator
	classifier interview.RelevanceClassifier
	feedback   interview.FeedbackGenerator

	archive pgrepo.FeedbackArchiveRepo // optional
	cache   cache.Cache                // optional

	log         *logrus.Logger
	callTimeout time.Duration

	// serializes submitAnswer per session id; the repository's version check
	// is the second line of defense for writers outside this process.
	locks *keyedMutex
}

type InterviewServiceOpts struct {
	Archive     pgrepo.FeedbackArchiveRepo
	Cache       cache.Cache
	Logger      *logrus.Logger
	CallTimeout time.Duration
}

func NewInterviewService(
	sessions mongorepo.SessionRepository,
	questions interview.QuestionGenerator,
	classifier interview.RelevanceClassifier,
	feedback interview.FeedbackGenerator,
	opts InterviewServiceOpts,
) InterviewService {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	return &interviewService{
		sessions:    sessions,
		questions:   questions,
		classifier:  classifier,
		feedback:    feedback,
		archive:     opts.Archive,
		cache:       opts.Cache,
		log:         opts.Logger,
		callTimeout: opts.CallTimeout,
		locks:       newKeyedMutex(),
	}
}

func (s *interviewService) Start(ctx context.Context, in StartInput) (*StartResult, error) {
	const op = "InterviewService.Start"

	if in.Role == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "role is required", nil)
	}
	if in.TotalQuestions < 1 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "totalQuestions must be >= 1", nil)
	}

	if in.UserID == nil {
		// best-effort pre-check; the partial unique index on ip catches the
		// concurrent-start race at insert time
		_, err := s.sessions.FindAnonymousByIP(ctx, in.IP)
		switch {
		case err == nil:
			return nil, utils.E(utils.CodeQuotaExceeded, op, "anonymous interview already used for this address", nil)
		case errors.Is(err, utils.ErrNotFound):
			// free to proceed
		default:
			return nil, utils.E(utils.CodeInternal, op, "failed to check anonymous quota", err)
		}
	}

	greeting := s.generateGreeting(ctx, in.Role)
	first := applyQuestionPrefix(1, greeting)

	session := &models.InterviewSession{
		SessionID:      uuid.NewString(),
		UserID:         in.UserID,
		Role:           in.Role,
		TotalQuestions: in.TotalQuestions,
		QuestionsAsked: 1,
		Answers:        []models.Answer{},
		LastQuestion:   first,
		Status:         models.StatusInProgress,
		IP:             in.IP,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		if errors.Is(err, utils.ErrConflict) && in.UserID == nil {
			return nil, utils.E(utils.CodeQuotaExceeded, op, "anonymous interview already used for this address", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}

	return &StartResult{
		SessionID:      session.SessionID,
		QuestionNumber: 1,
		Question:       first,
	}, nil
}

func (s *interviewService) SubmitAnswer(ctx context.Context, sessionID, answer string) (*AnswerResult, error) {
	const op = "InterviewService.SubmitAnswer"

	if sessionID == "" || strings.TrimSpace(answer) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "sessionId and answer are required", nil)
	}

	s.locks.Lock(sessionID)
	defer s.locks.Unlock(sessionID)

	sess, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}

	if sess.IsCompleted() {
		return &AnswerResult{Completed: true, Feedback: sess.Feedback}, nil
	}

	n := sess.QuestionsAsked
	folded := strings.ToLower(answer)

	// repeat requests echo the pending question verbatim, with no state
	// mutation and no upstream calls
	if containsAny(folded, repeatPhrases) {
		return &AnswerResult{Repeat: true, QuestionNumber: n, Question: sess.LastQuestion}, nil
	}

	// fork: speculative draft of the next question, skipped on the final
	// ordinal since completion produces feedback instead
	draftCh := make(chan draftResult, 1)
	if n >= sess.TotalQuestions {
		draftCh <- draftResult{skipped: true}
	} else {
		go func(role string, ordinal int, previous []string) {
			cctx, cancel := context.WithTimeout(ctx, s.callTimeout)
			defer cancel()
			text, err := s.questions.NextQuestion(cctx, role, ordinal, previous)
			draftCh <- draftResult{text: text, err: err}
		}(sess.Role, n+1, sess.AskedQuestions())
	}

	relevance := s.classifyAnswer(ctx, sess, n, answer, folded)

	// join before any mutation
	draft := <-draftCh

	if relevance == interview.Irrelevant {
		// the speculative draft is discarded; the candidate retries ordinal n
		return &AnswerResult{AskAgain: true, QuestionNumber: n, Question: sess.LastQuestion}, nil
	}

	sess.Answers = append(sess.Answers, models.Answer{
		QuestionNumber: n,
		Question:       sess.LastQuestion,
		Answer:         answer,
	})
	sess.QuestionsAsked = n + 1

	if sess.QuestionsAsked > sess.TotalQuestions {
		return s.complete(ctx, op, sess)
	}

	next := s.nextQuestionText(sess, n+1, draft)
	sess.LastQuestion = next

	if err := s.saveSession(ctx, op, sess); err != nil {
		return nil, err
	}
	return &AnswerResult{QuestionNumber: n + 1, Question: next}, nil
}

func (s *interviewService) Resume(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	const op = "InterviewService.Resume"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "sessionId is required", nil)
	}

	if s.cache != nil {
		var cached models.InterviewSession
		if hit, err := s.cache.GetJSON(ctx, snapshotKey(sessionID), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	sess, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, snapshotKey(sessionID), sess, snapshotTTL); err != nil {
			s.log.WithError(err).Warn("failed to cache session snapshot")
		}
	}
	return sess, nil
}

type draftResult struct {
	text    string
	err     error
	skipped bool
}

func (s *interviewService) generateGreeting(ctx context.Context, role string) string {
	cctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	text, err := s.questions.Greeting(cctx, role)
	if err != nil {
		s.log.WithError(err).WithField("role", role).Warn("greeting generation failed, using fallback")
		return fallbackGreeting
	}
	text = stripQuestionPrefix(text)
	if strings.TrimSpace(text) == "" {
		return fallbackGreeting
	}
	return text
}

// classifyAnswer resolves the relevance gate for the answer to ordinal n.
// Don't-know answers pass without a classifier call; the first answer uses a
// local heuristic; later answers delegate to the classifier, defaulting to
// relevant on failure.
func (s *interviewService) classifyAnswer(ctx context.Context, sess *models.InterviewSession, n int, answer, folded string) interview.Relevance {
	if containsAny(folded, dontKnowPhrases) {
		return interview.Relevant
	}

	if n == 1 {
		if firstAnswerHeuristic(answer) {
			return interview.Relevant
		}
		return interview.Irrelevant
	}

	cctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	qctx := fmt.Sprintf("Question Q%d for role %s", n, sess.Role)
	rel, err := s.classifier.Classify(cctx, qctx, answer)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"session_id": sess.SessionID,
			"ordinal":    n,
		}).Warn("relevance check failed, defaulting to relevant")
		return interview.Relevant
	}
	return rel
}

// nextQuestionText turns the speculative draft into the canonical prompt for
// the given ordinal: strip any numbering the generator echoed, reject empty
// or duplicate drafts in favor of the canned fallback, re-apply the prefix.
func (s *interviewService) nextQuestionText(sess *models.InterviewSession, ordinal int, draft draftResult) string {
	text := draft.text
	if draft.err != nil {
		s.log.WithError(draft.err).WithFields(logrus.Fields{
			"session_id": sess.SessionID,
			"ordinal":    ordinal,
		}).Warn("question generation failed, using fallback")
		text = ""
	}

	text = stripQuestionPrefix(text)
	if strings.TrimSpace(text) == "" {
		text = fallbackQuestion
	} else if isDuplicateQuestion(text, sess.Answers) {
		s.log.WithFields(logrus.Fields{
			"session_id": sess.SessionID,
			"ordinal":    ordinal,
		}).Warn("generator repeated a question, using fallback")
		text = fallbackQuestion
	}

	return applyQuestionPrefix(ordinal, text)
}

func (s *interviewService) complete(ctx context.Context, op string, sess *models.InterviewSession) (*AnswerResult, error) {
	cctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	raw, err := s.feedback.Generate(cctx, sess.Role, buildTranscript(sess.Answers))
	cancel()
	if err != nil {
		s.log.WithError(err).WithField("session_id", sess.SessionID).Warn("feedback generation failed, using fallback")
		raw = fallbackFeedback
	}

	fb, perr := interview.ParseFeedback(raw)
	if perr != nil {
		s.log.WithError(perr).WithField("session_id", sess.SessionID).Warn("feedback payload did not match schema, storing raw text")
		fb = interview.FallbackFeedback(raw)
	}

	sess.Feedback = fb
	sess.Status = models.StatusCompleted

	if err := s.saveSession(ctx, op, sess); err != nil {
		return nil, err
	}

	s.archiveFeedback(ctx, sess)

	return &AnswerResult{Completed: true, Feedback: fb}, nil
}

func (s *interviewService) saveSession(ctx context.Context, op string, sess *models.InterviewSession) error {
	if err := s.sessions.Update(ctx, sess); err != nil {
		switch {
		case errors.Is(err, utils.ErrConflict):
			return utils.E(utils.CodeConflict, op, "session was modified concurrently, retry", err)
		case errors.Is(err, utils.ErrNotFound):
			return utils.E(utils.CodeNotFound, op, "session not found", err)
		default:
			return utils.E(utils.CodeInternal, op, "failed to save session", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, snapshotKey(sess.SessionID)); err != nil {
			s.log.WithError(err).Warn("failed to invalidate session snapshot")
		}
	}
	return nil
}

func (s *interviewService) archiveFeedback(ctx context.Context, sess *models.InterviewSession) {
	if s.archive == nil || sess.Feedback == nil {
		return
	}

	plus, _ := json.Marshal(sess.Feedback.PlusPoints)
	impr, _ := json.Marshal(sess.Feedback.Improvements)

	rec := &models.FeedbackRecord{
		ID:           uuid.NewString(),
		SessionID:    sess.SessionID,
		UserID:       sess.UserID,
		Role:         sess.Role,
		Rating:       sess.Feedback.Rating,
		PlusPoints:   datatypes.JSON(plus),
		Improvements: datatypes.JSON(impr),
		Summary:      sess.Feedback.Summary,
		CompletedAt:  time.Now().UTC(),
	}
	if err := s.archive.Insert(ctx, rec); err != nil {
		s.log.WithError(err).WithField("session_id", sess.SessionID).Warn("failed to archive feedback")
	}
}

func snapshotKey(sessionID string) string {
	return "interview:session:" + sessionID + ":snapshot"
}

func containsAny(folded string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(folded, p) {
			return true
		}
	}
	return false
}

// firstAnswerHeuristic stands in for the classifier on question 1: at least
// two whitespace-delimited tokens and at least one alphabetic character.
func firstAnswerHeuristic(answer string) bool {
	if len(strings.Fields(answer)) < 2 {
		return false
	}
	for _, r := range answer {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

var questionPrefixRe = regexp.MustCompile(`(?i)^\s*(?:q(?:uestion)?\s*\d+\s*[-.:)]\s*)+`)

// stripQuestionPrefix drops any "Q3:" / "Question 3." style numbering the
// generator may have echoed. Numbering is always owned by this service.
func stripQuestionPrefix(text string) string {
	return strings.TrimSpace(questionPrefixRe.ReplaceAllString(text, ""))
}

func applyQuestionPrefix(ordinal int, text string) string {
	return fmt.Sprintf("Q%d: %s", ordinal, text)
}

func isDuplicateQuestion(text string, answers []models.Answer) bool {
	norm := normalizeQuestion(text)
	for _, a := range answers {
		if normalizeQuestion(stripQuestionPrefix(a.Question)) == norm {
			return true
		}
	}
	return false
}

func normalizeQuestion(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func buildTranscript(answers []models.Answer) string {
	lines := make([]string, 0, len(answers))
	for _, a := range answers {
		lines = append(lines, fmt.Sprintf("%s\nA%d: %s", a.Question, a.QuestionNumber, a.Answer))
	}
	return strings.Join(lines, "\n")
}
