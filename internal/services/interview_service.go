package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/futureforceai/careerprep/internal/cache"
	"github.com/futureforceai/careerprep/internal/engine"
	"github.com/futureforceai/careerprep/internal/extract"
	"github.com/futureforceai/careerprep/internal/models"
	mongorepo "github.com/futureforceai/careerprep/internal/repositories/mongo"
	"github.com/futureforceai/careerprep/internal/storage"
	"github.com/futureforceai/careerprep/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// Fallback interviewer turns. The chat flow never surfaces upstream
	// failures to the candidate; it keeps the conversation moving instead.
	fallbackContinuation = "That's interesting. Could you elaborate a bit more on that?"
	fallbackTechnical    = "I'm sorry, I'm having a little trouble on my end right now. While I recover, could you expand on your last answer?"
	closingMessage       = "This interview session is finished. Please start a new one if you wish to continue."

	sessionListCap = 50
	sessionListTTL = 30 * time.Second
)

type StartOutcome struct {
	SessionID    string             `json:"session_id"`
	FirstMessage models.ChatMessage `json:"first_ai_message"`
	CVID         string             `json:"cv_id,omitempty"`
}

type InterviewService interface {
	// StartWithCV opens a session from raw uploaded CV bytes. cvID may carry
	// the id of a just-saved CV record for bookkeeping.
	StartWithCV(ctx context.Context, userID, jobRole, filename string, data []byte, cvID string) (*StartOutcome, error)
	// StartWithSavedCV opens a session from a stored CV record.
	StartWithSavedCV(ctx context.Context, userID, jobRole, cvID string) (*StartOutcome, error)
	Chat(ctx context.Context, userID, sessionID, userMessage string) ([]models.ChatMessage, error)
	Get(ctx context.Context, userID, sessionID string) (*models.Conversation, error)
	ListSessions(ctx context.Context, userID string) ([]models.SessionSummary, error)
}

type interviewService struct {
	conversations mongorepo.ConversationRepository
	cvs           mongorepo.CVRepository
	engine        engine.InterviewEngine
	files         storage.Reader
	cache         cache.Cache
	log           *logrus.Logger

	extractText func(filename string, data []byte) (string, error)
}

func NewInterviewService(
	conversations mongorepo.ConversationRepository,
	cvs mongorepo.CVRepository,
	eng engine.InterviewEngine,
	files storage.Reader,
	c cache.Cache,
	log *logrus.Logger,
) InterviewService {
	return &interviewService{
		conversations: conversations,
		cvs:           cvs,
		engine:        eng,
		files:         files,
		cache:         c,
		log:           log,
		extractText:   extract.Text,
	}
}

func (s *interviewService) StartWithCV(ctx context.Context, userID, jobRole, filename string, data []byte, cvID string) (*StartOutcome, error) {
	const op = "InterviewService.StartWithCV"

	if userID == "" || strings.TrimSpace(jobRole) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and job_role are required", nil)
	}
	if len(data) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "cv file is empty", nil)
	}

	cvText, err := s.extractText(filename, data)
	if err != nil || strings.TrimSpace(cvText) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "could not extract readable content from CV", err)
	}

	return s.start(ctx, op, engine.StartRequest{
		UserID:  userID,
		JobRole: jobRole,
		CVText:  cvText,
	}, cvID)
}

func (s *interviewService) StartWithSavedCV(ctx context.Context, userID, jobRole, cvID string) (*StartOutcome, error) {
	const op = "InterviewService.StartWithSavedCV"

	if userID == "" || strings.TrimSpace(jobRole) == "" || cvID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id, job_role, and cv_id are required", nil)
	}

	cv, err := s.cvs.GetByID(ctx, cvID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "cv not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load cv", err)
	}
	if cv.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}

	cvText := cv.ExtractedText
	if strings.TrimSpace(cvText) == "" {
		// Extraction may still be pending; fall back to reading the stored bytes.
		data, rerr := s.files.ReadAll(ctx, cv.StoragePath)
		if rerr == nil {
			cvText, _ = s.extractText(cv.FileName, data)
		}
	}
	if strings.TrimSpace(cvText) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "could not extract readable content from CV", nil)
	}

	if err := s.cvs.TouchLastUsed(ctx, cv.ID, time.Now().UTC()); err != nil {
		s.log.WithError(err).WithField("cv_id", cv.ID).Warn("failed to refresh cv last_used")
	}

	return s.start(ctx, op, engine.StartRequest{
		UserID:      userID,
		JobRole:     jobRole,
		CVText:      cvText,
		FromSavedCV: true,
	}, cvID)
}

// start delegates to the engine and persists the new conversation. Engine
// failures degrade to a locally minted session so the caller always gets
// something usable.
func (s *interviewService) start(ctx context.Context, op string, req engine.StartRequest, cvID string) (*StartOutcome, error) {
	res, err := s.engine.StartInterview(ctx, req)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id":  req.UserID,
			"job_role": req.JobRole,
		}).Warn("interview engine unavailable, using fallback session")
		res = &engine.StartResult{
			SessionID:    uuid.NewString(),
			FirstMessage: engine.OpeningMessage(req.JobRole, req.FromSavedCV),
		}
	}

	conv := &models.Conversation{
		SessionID:    res.SessionID,
		UserID:       req.UserID,
		JobRole:      req.JobRole,
		CVText:       req.CVText,
		CVID:         cvID,
		Messages:     []models.ChatMessage{res.FirstMessage},
		CreatedAt:    time.Now().UTC(),
		MaxQuestions: models.MaxInterviewQuestions,
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		// The session is still usable for the client even if the record is lost.
		s.log.WithError(err).WithField("session_id", res.SessionID).Error("failed to persist conversation")
	}

	s.invalidateSessions(ctx, req.UserID)

	return &StartOutcome{
		SessionID:    res.SessionID,
		FirstMessage: res.FirstMessage,
		CVID:         cvID,
	}, nil
}

func (s *interviewService) Chat(ctx context.Context, userID, sessionID, userMessage string) ([]models.ChatMessage, error) {
	const op = "InterviewService.Chat"

	if sessionID == "" || strings.TrimSpace(userMessage) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id and user_message are required", nil)
	}

	conv, err := s.conversations.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load conversation", err)
	}
	if conv.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}

	if conv.Finished {
		return []models.ChatMessage{{Sender: models.SenderAI, Text: closingMessage}}, nil
	}

	messages, err := s.engine.ContinueInterview(ctx, conv, userMessage)
	if err != nil {
		text := fallbackTechnical
		if errors.Is(err, engine.ErrMalformedReply) {
			text = fallbackContinuation
		}
		s.log.WithError(err).WithField("session_id", sessionID).Warn("interview engine failed, using fallback reply")
		messages = append(append([]models.ChatMessage{}, conv.Messages...),
			models.ChatMessage{Sender: models.SenderUser, Text: userMessage},
			models.ChatMessage{Sender: models.SenderAI, Text: text},
		)
	}

	finished := countAI(messages) > conv.MaxQuestions
	if perr := s.conversations.ReplaceMessages(ctx, sessionID, messages, finished, conv.Turn); perr != nil {
		if errors.Is(perr, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "conversation was updated concurrently", perr)
		}
		// Best-effort persistence: the client still gets the fresh messages.
		s.log.WithError(perr).WithField("session_id", sessionID).Error("failed to persist conversation turn")
	}

	s.invalidateSessions(ctx, userID)
	return messages, nil
}

func (s *interviewService) Get(ctx context.Context, userID, sessionID string) (*models.Conversation, error) {
	const op = "InterviewService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	conv, err := s.conversations.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load conversation", err)
	}
	if conv.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}
	return conv, nil
}

// ListSessions never fails: storage errors degrade to an empty list so the
// dashboard always renders.
func (s *interviewService) ListSessions(ctx context.Context, userID string) ([]models.SessionSummary, error) {
	key := "sessions:" + userID

	var cached []models.SessionSummary
	if s.cache != nil {
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	rows, err := s.conversations.ListByUser(ctx, userID, sessionListCap)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("failed to list sessions")
		return []models.SessionSummary{}, nil
	}

	out := make([]models.SessionSummary, 0, len(rows))
	for _, c := range rows {
		out = append(out, models.SessionSummary{
			ID:           c.SessionID,
			JobRole:      c.JobRole,
			CreatedAt:    c.CreatedAt,
			Finished:     c.Finished,
			MessageCount: len(c.Messages),
		})
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, out, sessionListTTL); err != nil {
			s.log.WithError(err).Debug("failed to cache session list")
		}
	}
	return out, nil
}

func (s *interviewService) invalidateSessions(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, "sessions:"+userID); err != nil {
		s.log.WithError(err).Debug("failed to invalidate session list cache")
	}
}

func countAI(messages []models.ChatMessage) int {
	n := 0
	for _, m := range messages {
		if m.Sender == models.SenderAI {
			n++
		}
	}
	return n
}
