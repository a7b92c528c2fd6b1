// Package engine abstracts the source of interviewer turns: the external AI
// backend over HTTP, or Vertex Gemini directly.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/futureforceai/careerprep/internal/models"
)

// ErrMalformedReply marks an upstream response that arrived but is unusable
// (missing session id, empty message list, list not ending in an AI turn).
// Transport-level failures are returned as-is.
var ErrMalformedReply = errors.New("malformed interview reply")

type StartRequest struct {
	UserID      string
	JobRole     string
	CVText      string
	FromSavedCV bool
}

type StartResult struct {
	SessionID    string
	FirstMessage models.ChatMessage
}

type InterviewEngine interface {
	// StartInterview opens a session and returns its id plus the opening turn.
	StartInterview(ctx context.Context, req StartRequest) (*StartResult, error)
	// ContinueInterview takes one user turn and returns the full canonical
	// message list, ending with the interviewer's reply.
	ContinueInterview(ctx context.Context, conv *models.Conversation, userMessage string) ([]models.ChatMessage, error)
}

// OpeningMessage is the canned opening question used for new sessions.
func OpeningMessage(jobRole string, fromSavedCV bool) models.ChatMessage {
	verb := "uploading"
	if fromSavedCV {
		verb = "selecting"
	}
	return models.ChatMessage{
		Sender: models.SenderAI,
		Text: fmt.Sprintf(
			"Thank you for %s your CV for the %s position. Let's begin the interview. Can you tell me about yourself?",
			verb, jobRole,
		),
	}
}

// WellFormed reports whether a canonical reply list is usable: it must extend
// the prior list by at least the just-sent user turn plus an AI turn, carry
// that user turn at the expected position, and end with an AI turn. A reply
// that grew but lost the user's message is unusable; callers fall back to a
// local append instead of returning or persisting it.
func WellFormed(prior, reply []models.ChatMessage, userMessage string) bool {
	if len(reply) < len(prior)+2 {
		return false
	}
	if u := reply[len(prior)]; u.Sender != models.SenderUser || u.Text != userMessage {
		return false
	}
	return reply[len(reply)-1].Sender == models.SenderAI
}
